package order

import (
	"go.uber.org/fx"

	"github.com/labstack/echo/v4"

	"github.com/karavan-market/karavan/internal/transport/http/middleware"
)

// Module wires HTTP order handlers.
var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Invoke(func(e *echo.Echo, h *Handler, authn *middleware.Authenticator) {
		Register(e, h, authn)
	}),
)
