package http

import (
	"go.uber.org/fx"

	admintransport "github.com/karavan-market/karavan/internal/transport/http/admin"
	authtransport "github.com/karavan-market/karavan/internal/transport/http/auth"
	"github.com/karavan-market/karavan/internal/transport/http/middleware"
	newstransport "github.com/karavan-market/karavan/internal/transport/http/news"
	ordertransport "github.com/karavan-market/karavan/internal/transport/http/order"
	producttransport "github.com/karavan-market/karavan/internal/transport/http/product"
	uploadtransport "github.com/karavan-market/karavan/internal/transport/http/upload"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	middleware.Module,
	authtransport.Module,
	producttransport.Module,
	ordertransport.Module,
	newstransport.Module,
	admintransport.Module,
	uploadtransport.Module,
)
