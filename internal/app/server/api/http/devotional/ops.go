package devotional

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "devotional-get",
		Method:      http.MethodGet,
		Path:        "/api/v1/devotionals/{date}",
		Summary:     "Материал дня",
		Tags:        []string{"devotionals"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) publishOp() huma.Operation {
	return huma.Operation{
		OperationID: "devotional-publish",
		Method:      http.MethodPut,
		Path:        "/api/v1/devotionals/{date}",
		Summary:     "Опубликовать материал дня",
		Description: "Создает материал на дату или заменяет существующий.",
		Tags:        []string{"devotionals"},
		Middlewares: h.middleware,
	}
}
