package submission

import (
	"encoding/json"
	"time"
)

// Kind тип принятой записи
type Kind string

const (
	KindJournalEntry  Kind = "journal_entry"
	KindPrayerRequest Kind = "prayer_request"
	KindCheckin       Kind = "checkin"
	KindAction        Kind = "action"
)

// Submission запись, доставленная клиентом. Повторная доставка того же
// (kind, id) перезаписывает payload.
type Submission struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	ActionType string          `json:"action_type,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	ReceivedAt time.Time       `json:"received_at"`
}

type JournalEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PrayerRequest struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Status    string    `json:"status,omitempty"`
	IsPrivate bool      `json:"is_private,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Checkin struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Mood      int       `json:"mood,omitempty"`
	Practices []string  `json:"practices,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
