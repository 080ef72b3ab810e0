package submission

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) journalEntryOp() huma.Operation {
	return huma.Operation{
		OperationID:   "submit-journal-entry",
		Method:        http.MethodPost,
		Path:          "/api/v1/journal-entries",
		Summary:       "Принять запись дневника",
		Description:   "Повторная доставка записи с тем же id перезаписывает сохраненную копию.",
		Tags:          []string{"submissions"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) prayerRequestOp() huma.Operation {
	return huma.Operation{
		OperationID:   "submit-prayer-request",
		Method:        http.MethodPost,
		Path:          "/api/v1/prayer-requests",
		Summary:       "Принять молитвенную просьбу",
		Tags:          []string{"submissions"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) checkinOp() huma.Operation {
	return huma.Operation{
		OperationID:   "submit-checkin",
		Method:        http.MethodPost,
		Path:          "/api/v1/checkins",
		Summary:       "Принять ежедневную отметку",
		Tags:          []string{"submissions"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) actionOp() huma.Operation {
	return huma.Operation{
		OperationID:   "dispatch-action",
		Method:        http.MethodPost,
		Path:          "/api/v1/actions/{type}",
		Summary:       "Принять действие исходящей очереди",
		Description:   "Тело запроса сохраняется как есть. С заголовком Idempotency-Key повторная доставка не создает дубль.",
		Tags:          []string{"submissions"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.middleware,
	}
}
