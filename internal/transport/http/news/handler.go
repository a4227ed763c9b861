package news

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/karavan-market/karavan/internal/dto"
	"github.com/karavan-market/karavan/internal/presentation/http/response"
	service "github.com/karavan-market/karavan/internal/service/news"
	"github.com/karavan-market/karavan/internal/transport/http/middleware"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/karavan-market/karavan/transport/http/news")

// Handler exposes news endpoints over HTTP. Reads are public; writes are
// admin-only.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a news Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler, authn *middleware.Authenticator) {
	g := e.Group("/api/news")
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.POST("", h.create, authn.Require, authn.RequireAdmin)
	g.PUT("/:id", h.update, authn.Require, authn.RequireAdmin)
	g.DELETE("/:id", h.delete, authn.Require, authn.RequireAdmin)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "news.list")
	defer span.End()

	items, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.ToNewsResponses(items)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "news.getByID", trace.WithAttributes(attribute.Int64("news.id", id)))
	defer span.End()

	item, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.ToNewsResponse(item)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing principal")).Build()
	}

	var payload dto.NewsRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "news.create")
	defer span.End()

	item, err := h.svc.Create(ctx, principal, payload)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(dto.ToNewsResponse(item)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload dto.NewsRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "news.update", trace.WithAttributes(attribute.Int64("news.id", id)))
	defer span.End()

	item, err := h.svc.Update(ctx, id, payload)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.ToNewsResponse(item)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "news.delete", trace.WithAttributes(attribute.Int64("news.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(map[string]string{"message": "news deleted"}).Build()
}
