package devotional

import "errors"

var (
	ErrNotFound = errors.New("devotional not found")
	ErrInvalid  = errors.New("invalid devotional")
)
