package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

func definition[T Entity]() collectionDef {
	var zero T
	def, err := lookup(zero.collection())
	if err != nil {
		// каждый вариант Entity объявлен в schema
		panic(err)
	}
	return def
}

// Put вставляет или заменяет запись по первичному ключу
func Put[T Entity](ctx context.Context, s *Store, rec T) error {
	return write(ctx, s, rec, true)
}

// Add только вставляет; существующий ключ дает ErrDuplicateKey
func Add[T Entity](ctx context.Context, s *Store, rec T) error {
	return write(ctx, s, rec, false)
}

func write[T Entity](ctx context.Context, s *Store, rec T, upsert bool) error {
	db, err := s.handle(ctx)
	if err != nil {
		return err
	}
	def := definition[T]()

	if rec.StoreKey() == "" {
		return fmt.Errorf("%w: %s: пустой ключ", ErrStorage, def.name)
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: ошибка сериализации %s: %w", ErrStorage, def.name, err)
	}

	names, values := def.columns(rec.indexValues())
	cols := append([]string{"id", "body"}, names...)
	args := append([]any{rec.StoreKey(), string(body)}, values...)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		def.name, strings.Join(cols, ", "), placeholders(len(cols)))
	if upsert {
		sets := make([]string, 0, len(cols)-1)
		for _, c := range cols[1:] {
			sets = append(sets, c+" = excluded."+c)
		}
		query += " ON CONFLICT(id) DO UPDATE SET " + strings.Join(sets, ", ")
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return classify("put "+string(def.name), err)
	}
	return nil
}

// Update заменяет запись, только если она существует.
// Возвращает false, если записи с таким ключом нет.
func Update[T Entity](ctx context.Context, s *Store, rec T) (bool, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return false, err
	}
	def := definition[T]()

	body, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("%w: ошибка сериализации %s: %w", ErrStorage, def.name, err)
	}

	names, values := def.columns(rec.indexValues())
	sets := []string{"body = ?"}
	args := []any{string(body)}
	for i, n := range names {
		sets = append(sets, n+" = ?")
		args = append(args, values[i])
	}
	args = append(args, rec.StoreKey())

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", def.name, strings.Join(sets, ", "))
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, classify("update "+string(def.name), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify("update "+string(def.name), err)
	}
	return n > 0, nil
}

// Get возвращает запись по ключу. Отсутствие записи не является ошибкой.
func Get[T Entity](ctx context.Context, s *Store, key string) (T, bool, error) {
	var rec T
	db, err := s.handle(ctx)
	if err != nil {
		return rec, false, err
	}
	def := definition[T]()

	var body string
	err = db.QueryRowContext(ctx, fmt.Sprintf("SELECT body FROM %s WHERE id = ?", def.name), key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, classify("get "+string(def.name), err)
	}

	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return rec, false, fmt.Errorf("%w: ошибка разбора %s/%s: %w", ErrStorage, def.name, key, err)
	}
	return rec, true, nil
}

// GetAll возвращает снимок всей коллекции на момент чтения
func GetAll[T Entity](ctx context.Context, s *Store) ([]T, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return nil, err
	}
	def := definition[T]()

	return query[T](ctx, db, def, fmt.Sprintf("SELECT body FROM %s ORDER BY rowid", def.name))
}

// GetByIndex возвращает все записи, у которых индексное поле равно value
func GetByIndex[T Entity](ctx context.Context, s *Store, index string, value any) ([]T, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return nil, err
	}
	def := definition[T]()

	idx, err := def.index(index)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("SELECT body FROM %s WHERE %s = ? ORDER BY %s, id", def.name, idx.column(), idx.column())
	return query[T](ctx, db, def, q, columnValue(value))
}

// Delete удаляет запись. Удаление отсутствующего ключа успешно.
func Delete[T Entity](ctx context.Context, s *Store, key string) error {
	db, err := s.handle(ctx)
	if err != nil {
		return err
	}
	def := definition[T]()

	if _, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", def.name), key); err != nil {
		return classify("delete "+string(def.name), err)
	}
	return nil
}

// DeleteBefore удаляет записи, у которых индексное поле строго меньше bound.
// Используется для очистки кеша по возрасту.
func DeleteBefore[T Entity](ctx context.Context, s *Store, index string, bound any) (int, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return 0, err
	}
	def := definition[T]()

	idx, err := def.index(index)
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE %s < ?", def.name, idx.column()), columnValue(bound))
	if err != nil {
		return 0, classify("sweep "+string(def.name), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify("sweep "+string(def.name), err)
	}
	return int(n), nil
}

// Clear удаляет все записи коллекции
func Clear[T Entity](ctx context.Context, s *Store) error {
	db, err := s.handle(ctx)
	if err != nil {
		return err
	}
	def := definition[T]()

	if _, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", def.name)); err != nil {
		return classify("clear "+string(def.name), err)
	}
	return nil
}

// Count возвращает число записей в коллекции
func Count[T Entity](ctx context.Context, s *Store) (int, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return 0, err
	}
	def := definition[T]()

	var n int
	if err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", def.name)).Scan(&n); err != nil {
		return 0, classify("count "+string(def.name), err)
	}
	return n, nil
}

// CountByIndex возвращает число записей с заданным значением индекса
func CountByIndex[T Entity](ctx context.Context, s *Store, index string, value any) (int, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return 0, err
	}
	def := definition[T]()

	idx, err := def.index(index)
	if err != nil {
		return 0, err
	}

	var n int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", def.name, idx.column())
	if err := db.QueryRowContext(ctx, q, columnValue(value)).Scan(&n); err != nil {
		return 0, classify("count "+string(def.name), err)
	}
	return n, nil
}

func query[T Entity](ctx context.Context, db *sql.DB, def collectionDef, q string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, classify("query "+string(def.name), err)
	}
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, classify("scan "+string(def.name), err)
		}
		var rec T
		if err := json.Unmarshal([]byte(body), &rec); err != nil {
			return nil, fmt.Errorf("%w: ошибка разбора %s: %w", ErrStorage, def.name, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("query "+string(def.name), err)
	}
	return result, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
