// Package localstore реализует долговременное локальное хранилище клиента:
// шесть независимых коллекций с первичным ключом и вторичными индексами
// поверх SQLite. Пакет ничего не знает о синхронизации.
package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"
)

// Store локальное хранилище. Открывается лениво при первом обращении,
// результат инициализации запоминается на все время жизни экземпляра.
type Store struct {
	path     string
	log      *slog.Logger
	disabled bool

	once    sync.Once
	db      *sql.DB
	initErr error

	closeMu sync.Mutex
	closed  bool
}

// Option настройка хранилища
type Option func(*Store)

// WithDisabled моделирует окружение, в котором локальное хранилище выключено
func WithDisabled() Option {
	return func(s *Store) {
		s.disabled = true
	}
}

// New создает хранилище по пути к файлу базы. Файл не открывается до Initialize.
func New(path string, log *slog.Logger, opts ...Option) *Store {
	s := &Store{
		path: path,
		log:  log.With("component", "localstore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize открывает базу и применяет схему. Безопасен для конкурентного
// вызова: все вызывающие получают результат одной и той же инициализации.
func (s *Store) Initialize(ctx context.Context) error {
	s.once.Do(func() {
		s.db, s.initErr = s.open(context.WithoutCancel(ctx))
	})
	return s.initErr
}

func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	if s.disabled {
		s.log.Warn("Локальное хранилище отключено")
		return nil, fmt.Errorf("%w: отключено конфигурацией", ErrUnsupportedEnvironment)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("%w: ошибка создания директории: %v", ErrUnsupportedEnvironment, err)
		}
	}

	db, err := sql.Open("sqlite3", s.path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка открытия базы данных: %v", ErrUnsupportedEnvironment, err)
	}

	// SQLite допускает одного писателя
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedEnvironment, err)
	}

	from, err := applySchema(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ошибка инициализации схемы: %w", ErrStorage, err)
	}

	s.log.Debug("Локальное хранилище открыто",
		"path", s.path,
		"schema_from", from,
		"schema_to", currentSchemaVersion,
	)
	return db, nil
}

// Close закрывает соединение. Повторный вызов ничего не делает.
func (s *Store) Close() error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	// Закрытое хранилище больше не инициализируется
	s.once.Do(func() {
		s.initErr = fmt.Errorf("%w: хранилище закрыто", ErrStorage)
	})
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// handle возвращает открытое соединение, инициализируя хранилище при необходимости
func (s *Store) handle(ctx context.Context) (*sql.DB, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return s.db, nil
}
