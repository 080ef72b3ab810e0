package devotional

import "faithkeeper/internal/domain/devotional"

type getInput struct {
	Date string `path:"date" example:"2026-10-19" doc:"Календарная дата YYYY-MM-DD"`
}

type publishInput struct {
	Date string `path:"date" example:"2026-10-19" doc:"Календарная дата YYYY-MM-DD"`
	Body publishRequest
}

type publishRequest struct {
	Title     string `json:"title" minLength:"1"`
	Scripture string `json:"scripture,omitempty"`
	Body      string `json:"body" minLength:"1"`
}

type output struct {
	Body *devotional.Devotional
}
