package admin

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/karavan-market/karavan/internal/dto"
	"github.com/karavan-market/karavan/internal/presentation/http/response"
	ordersvc "github.com/karavan-market/karavan/internal/service/order"
	settingssvc "github.com/karavan-market/karavan/internal/service/settings"
	"github.com/karavan-market/karavan/internal/transport/http/middleware"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/karavan-market/karavan/transport/http/admin")

// Handler exposes admin-only endpoints: store settings and the
// passport-request action.
type Handler struct {
	orders   *ordersvc.Service
	settings *settingssvc.Service
}

// NewHandler constructs an admin Handler.
func NewHandler(orders *ordersvc.Service, settings *settingssvc.Service) *Handler {
	return &Handler{orders: orders, settings: settings}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler, authn *middleware.Authenticator) {
	g := e.Group("/api/admin", authn.Require, authn.RequireAdmin)
	g.GET("/settings", h.getSettings)
	g.PUT("/settings", h.updateSettings)
	g.POST("/orders/:id/request-passport", h.requestPassport)
}

func (h *Handler) getSettings(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.getSettings")
	defer span.End()

	percentage, err := h.settings.Get(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.SettingsResponse{PrepaymentPercentage: percentage}).Build()
}

func (h *Handler) updateSettings(c echo.Context) error {
	b := response.New(c)

	var payload dto.SettingsRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.updateSettings")
	defer span.End()

	if err := h.settings.Update(ctx, payload.PrepaymentPercentage); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.SettingsResponse{PrepaymentPercentage: payload.PrepaymentPercentage}).Build()
}

func (h *Handler) requestPassport(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.requestPassport", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.orders.RequestPassport(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.ToOrderResponse(order)).Build()
}
