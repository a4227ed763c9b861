package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/karavan-market/karavan/internal/dto"
	"github.com/karavan-market/karavan/internal/presentation/http/response"
	service "github.com/karavan-market/karavan/internal/service/auth"
	"github.com/karavan-market/karavan/internal/transport/http/middleware"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/karavan-market/karavan/transport/http/auth")

// Handler exposes registration, login, and profile endpoints.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an auth Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler, authn *middleware.Authenticator) {
	g := e.Group("/api/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.GET("/me", h.me, authn.Require)
}

func (h *Handler) register(c echo.Context) error {
	b := response.New(c)

	var payload dto.RegisterRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.register")
	defer span.End()

	resp, err := h.svc.Register(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(resp).Build()
}

func (h *Handler) login(c echo.Context) error {
	b := response.New(c)

	var payload dto.LoginRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.login")
	defer span.End()

	resp, err := h.svc.Login(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(resp).Build()
}

func (h *Handler) me(c echo.Context) error {
	b := response.New(c)

	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing principal")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.me")
	defer span.End()

	profile, err := h.svc.Me(ctx, principal.AccountID)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(profile).Build()
}
