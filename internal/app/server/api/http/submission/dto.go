package submission

import "time"

type submitOutput struct {
	Status int
	Body   response
}

type response struct {
	ID     string `json:"id"`
	Status string `json:"status" example:"created" doc:"created при первой доставке, updated при повторной"`
}

type journalEntryInput struct {
	Body journalEntryRequest
}

type journalEntryRequest struct {
	ID        string    `json:"id" minLength:"1" doc:"Клиентский идентификатор записи"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Synced    bool      `json:"synced,omitempty" doc:"Клиентский флаг, игнорируется"`
}

type prayerRequestInput struct {
	Body prayerRequestRequest
}

type prayerRequestRequest struct {
	ID        string    `json:"id" minLength:"1"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Status    string    `json:"status,omitempty" enum:"active,answered,archived"`
	IsPrivate bool      `json:"is_private,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Synced    bool      `json:"synced,omitempty" doc:"Клиентский флаг, игнорируется"`
}

type checkinInput struct {
	Body checkinRequest
}

type checkinRequest struct {
	ID        string    `json:"id" minLength:"1"`
	Date      string    `json:"date" example:"2026-10-19" doc:"Календарная дата YYYY-MM-DD"`
	Mood      int       `json:"mood,omitempty"`
	Practices []string  `json:"practices,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Synced    bool      `json:"synced,omitempty" doc:"Клиентский флаг, игнорируется"`
}

type actionInput struct {
	Type           string `path:"type" example:"prayed" doc:"Тип действия"`
	IdempotencyKey string `header:"Idempotency-Key" doc:"Идентификатор действия на клиенте"`
	RawBody        []byte
}
