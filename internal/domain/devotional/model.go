package devotional

import "time"

// Devotional материал дня. Дата - ключ, формат YYYY-MM-DD.
type Devotional struct {
	Date        string    `json:"date"`
	Title       string    `json:"title"`
	Scripture   string    `json:"scripture,omitempty"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
}
