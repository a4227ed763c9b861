package order

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/karavan-market/karavan/internal/dto"
	"github.com/karavan-market/karavan/internal/entity"
	"github.com/karavan-market/karavan/internal/presentation/http/response"
	service "github.com/karavan-market/karavan/internal/service/order"
	"github.com/karavan-market/karavan/internal/transport/http/middleware"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/karavan-market/karavan/transport/http/order")

// Handler exposes order lifecycle endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance. Every order route
// requires authentication; listing all orders and mutating status are
// admin-only.
func Register(e *echo.Echo, h *Handler, authn *middleware.Authenticator) {
	g := e.Group("/api/orders", authn.Require)
	g.GET("", h.listAll, authn.RequireAdmin)
	g.POST("", h.create)
	g.GET("/my", h.listMine)
	g.GET("/:id", h.getByID)
	g.PATCH("/:id/status", h.updateStatus, authn.RequireAdmin)
	g.PATCH("/:id/passport", h.attachPassport, authn.RequireAdmin)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing principal")).Build()
	}

	var payload dto.CreateOrderRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create", trace.WithAttributes(attribute.Int64("account.id", principal.AccountID)))
	defer span.End()

	order, err := h.svc.Create(ctx, principal, payload)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(dto.ToOrderResponse(order)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing principal")).Build()
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, principal, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.ToOrderResponse(order)).Build()
}

func (h *Handler) listMine(c echo.Context) error {
	b := response.New(c)

	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing principal")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.listMine")
	defer span.End()

	orders, err := h.svc.ListMine(ctx, principal)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.ToOrderResponses(orders)).Build()
}

func (h *Handler) listAll(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.listAll")
	defer span.End()

	orders, err := h.svc.ListAll(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.ToOrderResponses(orders)).Build()
}

func (h *Handler) updateStatus(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload dto.UpdateStatusRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.updateStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status", payload.Status),
	))
	defer span.End()

	order, err := h.svc.UpdateStatus(ctx, id, entity.OrderStatus(payload.Status))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.ToOrderResponse(order)).Build()
}

func (h *Handler) attachPassport(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload dto.AttachPassportRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.attachPassport", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.AttachPassport(ctx, id, payload.PassportData)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.ToOrderResponse(order)).Build()
}
