package submission

import "errors"

var (
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrStorage           = errors.New("submission storage failure")
)
