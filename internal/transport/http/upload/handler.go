package upload

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/karavan-market/karavan/internal/presentation/http/response"
	"github.com/karavan-market/karavan/internal/transport/http/middleware"
	uploadsvc "github.com/karavan-market/karavan/internal/upload"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/karavan-market/karavan/transport/http/upload")

// Handler exposes the payment-proof upload endpoint.
type Handler struct {
	svc *uploadsvc.Service
}

// NewHandler constructs an upload Handler.
func NewHandler(svc *uploadsvc.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler, authn *middleware.Authenticator) {
	e.POST("/api/upload/payment", h.uploadPayment, authn.Require)
}

func (h *Handler) uploadPayment(c echo.Context) error {
	b := response.New(c)

	_, span := httpTracer.Start(c.Request().Context(), "upload.payment")
	defer span.End()

	file, err := c.FormFile("screenshot")
	if err != nil {
		return b.WithError(errorbank.Validation(map[string]any{"screenshot": "file is required"})).Build()
	}

	resp, err := h.svc.Store(file)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(resp).Build()
}
