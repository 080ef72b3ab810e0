package devotional

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"faithkeeper/internal/domain/devotional"
)

type Handler struct {
	service    devotional.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service devotional.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.publishOp(), h.publish)
}

func (h *Handler) get(ctx context.Context, input *getInput) (*output, error) {
	d, err := h.service.Get(ctx, input.Date)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &output{Body: d}, nil
}

func (h *Handler) publish(ctx context.Context, input *publishInput) (*output, error) {
	d, err := h.service.Publish(ctx, devotional.Devotional{
		Date:      input.Date,
		Title:     input.Body.Title,
		Scripture: input.Body.Scripture,
		Body:      input.Body.Body,
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &output{Body: d}, nil
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, devotional.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, devotional.ErrInvalid):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
