package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Health check endpoint",
		Description: "Returns 200 when the service and its database are reachable. Clients use it as the connectivity probe.",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}
