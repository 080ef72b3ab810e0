package localstore

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrUnsupportedEnvironment локальное хранилище недоступно в этом окружении.
	// Возвращается один раз при инициализации и далее всеми операциями.
	ErrUnsupportedEnvironment = errors.New("local storage engine unavailable")

	// ErrStorage транзакция отклонена движком, запись не сохранена.
	ErrStorage = errors.New("storage transaction failed")

	// ErrDuplicateKey нарушен первичный ключ или уникальный индекс.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnknownIndex индекс не объявлен в схеме коллекции.
	ErrUnknownIndex = errors.New("unknown index")
)

// classify приводит ошибку драйвера к таксономии хранилища
func classify(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%w: %s: %w", ErrDuplicateKey, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
