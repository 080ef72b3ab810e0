package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// История версий схемы (PRAGMA user_version):
// 1 - шесть коллекций
// 2 - индекс status в prayer_requests
const currentSchemaVersion = 2

type indexDef struct {
	name    string
	sqlType string
	unique  bool
}

func (i indexDef) column() string {
	return "ix_" + i.name
}

type collectionDef struct {
	name    Collection
	indexes []indexDef
	reindex func(body []byte) (map[string]any, error)
}

var schema = []collectionDef{
	{
		name:    CachedReadableContent,
		indexes: []indexDef{{name: IndexDate, sqlType: "TEXT", unique: true}},
		reindex: indexerFor[Devotional](),
	},
	{
		name: JournalEntries,
		indexes: []indexDef{
			{name: IndexCreatedAt, sqlType: "INTEGER"},
			{name: IndexSynced, sqlType: "INTEGER"},
		},
		reindex: indexerFor[JournalEntry](),
	},
	{
		name: PrayerRequests,
		indexes: []indexDef{
			{name: IndexSynced, sqlType: "INTEGER"},
			{name: IndexStatus, sqlType: "TEXT"},
		},
		reindex: indexerFor[PrayerRequest](),
	},
	{
		name: DailyCheckins,
		indexes: []indexDef{
			{name: IndexDate, sqlType: "TEXT", unique: true},
			{name: IndexSynced, sqlType: "INTEGER"},
		},
		reindex: indexerFor[DailyCheckin](),
	},
	{
		name: CachedContents,
		indexes: []indexDef{
			{name: IndexType, sqlType: "TEXT"},
			{name: IndexCachedAt, sqlType: "INTEGER"},
		},
		reindex: indexerFor[CachedContent](),
	},
	{
		name: PendingActions,
		indexes: []indexDef{
			{name: IndexActionType, sqlType: "TEXT"},
			{name: IndexCreatedAt, sqlType: "INTEGER"},
		},
		reindex: indexerFor[PendingAction](),
	},
}

func indexerFor[T Entity]() func([]byte) (map[string]any, error) {
	return func(body []byte) (map[string]any, error) {
		var rec T
		if err := json.Unmarshal(body, &rec); err != nil {
			return nil, err
		}
		return rec.indexValues(), nil
	}
}

func lookup(name Collection) (collectionDef, error) {
	for _, def := range schema {
		if def.name == name {
			return def, nil
		}
	}
	return collectionDef{}, fmt.Errorf("неизвестная коллекция %q", name)
}

func (c collectionDef) index(name string) (indexDef, error) {
	for _, idx := range c.indexes {
		if idx.name == name {
			return idx, nil
		}
	}
	return indexDef{}, fmt.Errorf("%w: %s.%s", ErrUnknownIndex, c.name, name)
}

func (c collectionDef) createTableSQL() string {
	cols := []string{"id TEXT PRIMARY KEY", "body TEXT NOT NULL"}
	for _, idx := range c.indexes {
		cols = append(cols, idx.column()+" "+idx.sqlType)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", c.name, strings.Join(cols, ", "))
}

func (c collectionDef) createIndexSQL(idx indexDef) string {
	unique := ""
	if idx.unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS idx_%s_%s ON %s(%s)",
		unique, c.name, idx.name, c.name, idx.column())
}

// columns возвращает имена индексных колонок и их значения в порядке схемы
func (c collectionDef) columns(values map[string]any) ([]string, []any) {
	names := make([]string, 0, len(c.indexes))
	args := make([]any, 0, len(c.indexes))
	for _, idx := range c.indexes {
		names = append(names, idx.column())
		args = append(args, columnValue(values[idx.name]))
	}
	return names, args
}

// columnValue нормализует значение индекса для SQLite:
// bool хранится как 0/1, время как unix nano в UTC.
func columnValue(v any) any {
	switch val := v.(type) {
	case bool:
		if val {
			return 1
		}
		return 0
	case time.Time:
		if val.IsZero() {
			return nil
		}
		return val.UTC().UnixNano()
	case string:
		if val == "" {
			return nil
		}
		return val
	default:
		return val
	}
}

// applySchema создает коллекции и индексы. Изменения только аддитивные:
// недостающие индексные колонки добавляются и заполняются из тела записи.
func applySchema(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}

	for _, def := range schema {
		if _, err := db.ExecContext(ctx, def.createTableSQL()); err != nil {
			return version, fmt.Errorf("create %s: %w", def.name, err)
		}
		if err := ensureColumns(ctx, db, def); err != nil {
			return version, err
		}
		for _, idx := range def.indexes {
			if _, err := db.ExecContext(ctx, def.createIndexSQL(idx)); err != nil {
				return version, fmt.Errorf("create index %s.%s: %w", def.name, idx.name, err)
			}
		}
	}

	if version != currentSchemaVersion {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return version, fmt.Errorf("set user_version: %w", err)
		}
	}

	return version, nil
}

func ensureColumns(ctx context.Context, db *sql.DB, def collectionDef) error {
	existing, err := tableColumns(ctx, db, string(def.name))
	if err != nil {
		return err
	}

	var added []indexDef
	for _, idx := range def.indexes {
		if existing[idx.column()] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", def.name, idx.column(), idx.sqlType)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("add column %s.%s: %w", def.name, idx.column(), err)
		}
		added = append(added, idx)
	}

	if len(added) == 0 {
		return nil
	}
	return backfill(ctx, db, def, added)
}

func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			typ       string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan table_info %s: %w", table, err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// backfill заполняет только что добавленные колонки по телам существующих записей
func backfill(ctx context.Context, db *sql.DB, def collectionDef, added []indexDef) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT id, body FROM %s", def.name))
	if err != nil {
		return fmt.Errorf("backfill %s: %w", def.name, err)
	}

	type pending struct {
		id     string
		values map[string]any
	}
	var updates []pending
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			rows.Close()
			return fmt.Errorf("backfill scan %s: %w", def.name, err)
		}
		values, err := def.reindex([]byte(body))
		if err != nil {
			rows.Close()
			return fmt.Errorf("backfill decode %s/%s: %w", def.name, id, err)
		}
		updates = append(updates, pending{id: id, values: values})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("backfill %s: %w", def.name, err)
	}
	rows.Close()

	for _, u := range updates {
		sets := make([]string, 0, len(added))
		args := make([]any, 0, len(added)+1)
		for _, idx := range added {
			sets = append(sets, idx.column()+" = ?")
			args = append(args, columnValue(u.values[idx.name]))
		}
		args = append(args, u.id)
		stmt := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", def.name, strings.Join(sets, ", "))
		if _, err := db.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("backfill update %s/%s: %w", def.name, u.id, err)
		}
	}
	return nil
}
