package middleware

import "go.uber.org/fx"

// Module provides the authenticator to Fx.
var Module = fx.Provide(NewAuthenticator)
