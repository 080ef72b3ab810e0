package submission

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"faithkeeper/internal/domain/submission"
)

type Handler struct {
	service    submission.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service submission.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.journalEntryOp(), h.submitJournalEntry)
	huma.Register(api, h.prayerRequestOp(), h.submitPrayerRequest)
	huma.Register(api, h.checkinOp(), h.submitCheckin)
	huma.Register(api, h.actionOp(), h.dispatchAction)
}

func (h *Handler) submitJournalEntry(ctx context.Context, input *journalEntryInput) (*submitOutput, error) {
	b := input.Body
	created, err := h.service.SubmitJournalEntry(ctx, submission.JournalEntry{
		ID:        b.ID,
		Title:     b.Title,
		Content:   b.Content,
		Tags:      b.Tags,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	})
	if err != nil {
		return nil, h.toHTTPError(err)
	}
	return accepted(b.ID, created), nil
}

func (h *Handler) submitPrayerRequest(ctx context.Context, input *prayerRequestInput) (*submitOutput, error) {
	b := input.Body
	created, err := h.service.SubmitPrayerRequest(ctx, submission.PrayerRequest{
		ID:        b.ID,
		Title:     b.Title,
		Body:      b.Body,
		Status:    b.Status,
		IsPrivate: b.IsPrivate,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	})
	if err != nil {
		return nil, h.toHTTPError(err)
	}
	return accepted(b.ID, created), nil
}

func (h *Handler) submitCheckin(ctx context.Context, input *checkinInput) (*submitOutput, error) {
	b := input.Body
	created, err := h.service.SubmitCheckin(ctx, submission.Checkin{
		ID:        b.ID,
		Date:      b.Date,
		Mood:      b.Mood,
		Practices: b.Practices,
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	})
	if err != nil {
		return nil, h.toHTTPError(err)
	}
	return accepted(b.ID, created), nil
}

func (h *Handler) dispatchAction(ctx context.Context, input *actionInput) (*submitOutput, error) {
	id, created, err := h.service.DispatchAction(ctx, input.Type, input.IdempotencyKey, json.RawMessage(input.RawBody))
	if err != nil {
		return nil, h.toHTTPError(err)
	}
	return accepted(id, created), nil
}

func accepted(id string, created bool) *submitOutput {
	if created {
		return &submitOutput{Status: http.StatusCreated, Body: response{ID: id, Status: "created"}}
	}
	return &submitOutput{Status: http.StatusOK, Body: response{ID: id, Status: "updated"}}
}

func (h *Handler) toHTTPError(err error) error {
	if errors.Is(err, submission.ErrInvalidSubmission) {
		return huma.Error422UnprocessableEntity(err.Error())
	}
	h.log.Error("submission failed", "error", err)
	return huma.Error500InternalServerError("failed to store submission")
}
