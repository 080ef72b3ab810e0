package localstore

import (
	"encoding/json"
	"time"
)

// Collection имя коллекции (таблицы) локального хранилища
type Collection string

const (
	CachedReadableContent Collection = "cached_readable_content"
	JournalEntries        Collection = "journal_entries"
	PrayerRequests        Collection = "prayer_requests"
	DailyCheckins         Collection = "daily_checkins"
	CachedContents        Collection = "cached_content"
	PendingActions        Collection = "pending_actions"
)

// Имена вторичных индексов
const (
	IndexDate       = "date"
	IndexCreatedAt  = "created_at"
	IndexSynced     = "synced"
	IndexStatus     = "status"
	IndexType       = "type"
	IndexCachedAt   = "cached_at"
	IndexActionType = "action_type"
)

// DateLayout формат календарной даты в индексах
const DateLayout = "2006-01-02"

// Entity закрытое множество типов, которые принимает хранилище.
// Каждый вариант привязан ровно к одной коллекции.
type Entity interface {
	Devotional | JournalEntry | PrayerRequest | DailyCheckin | CachedContent | PendingAction

	// StoreKey первичный ключ записи
	StoreKey() string

	collection() Collection
	indexValues() map[string]any
}

// Devotional кешированный материал для чтения (например, "чтение дня")
type Devotional struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Title     string    `json:"title"`
	Scripture string    `json:"scripture,omitempty"`
	Body      string    `json:"body"`
	Author    string    `json:"author,omitempty"`
	CachedAt  time.Time `json:"cached_at"`
}

func (d Devotional) StoreKey() string     { return d.ID }
func (Devotional) collection() Collection { return CachedReadableContent }
func (d Devotional) indexValues() map[string]any {
	return map[string]any{IndexDate: d.Date}
}

// JournalEntry запись дневника
type JournalEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Synced    bool      `json:"synced"`
}

func (e JournalEntry) StoreKey() string     { return e.ID }
func (JournalEntry) collection() Collection { return JournalEntries }
func (e JournalEntry) indexValues() map[string]any {
	return map[string]any{IndexCreatedAt: e.CreatedAt, IndexSynced: e.Synced}
}

// PrayerStatus состояние молитвенной просьбы
type PrayerStatus string

const (
	PrayerActive   PrayerStatus = "active"
	PrayerAnswered PrayerStatus = "answered"
	PrayerArchived PrayerStatus = "archived"
)

// PrayerRequest молитвенная просьба
type PrayerRequest struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Body      string       `json:"body,omitempty"`
	Status    PrayerStatus `json:"status"`
	IsPrivate bool         `json:"is_private"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Synced    bool         `json:"synced"`
}

func (p PrayerRequest) StoreKey() string     { return p.ID }
func (PrayerRequest) collection() Collection { return PrayerRequests }
func (p PrayerRequest) indexValues() map[string]any {
	return map[string]any{IndexSynced: p.Synced, IndexStatus: string(p.Status)}
}

// DailyCheckin ежедневная отметка. Не более одной на календарную дату.
type DailyCheckin struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Mood      int       `json:"mood,omitempty"`
	Practices []string  `json:"practices,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Synced    bool      `json:"synced"`
}

func (c DailyCheckin) StoreKey() string     { return c.ID }
func (DailyCheckin) collection() Collection { return DailyCheckins }
func (c DailyCheckin) indexValues() map[string]any {
	return map[string]any{IndexDate: c.Date, IndexSynced: c.Synced}
}

// CachedContent произвольный кешированный ответ, ключ "{type}-{id}"
type CachedContent struct {
	Key       string          `json:"key"`
	Type      string          `json:"type"`
	ContentID string          `json:"content_id"`
	Payload   json.RawMessage `json:"payload"`
	CachedAt  time.Time       `json:"cached_at"`
}

func (c CachedContent) StoreKey() string     { return c.Key }
func (CachedContent) collection() Collection { return CachedContents }
func (c CachedContent) indexValues() map[string]any {
	return map[string]any{IndexType: c.Type, IndexCachedAt: c.CachedAt}
}

// PendingAction действие в исходящей очереди; само существование записи
// означает, что действие еще не доставлено.
type PendingAction struct {
	ID         string          `json:"id"`
	ActionType string          `json:"action_type"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (a PendingAction) StoreKey() string     { return a.ID }
func (PendingAction) collection() Collection { return PendingActions }
func (a PendingAction) indexValues() map[string]any {
	return map[string]any{IndexActionType: a.ActionType, IndexCreatedAt: a.CreatedAt}
}
