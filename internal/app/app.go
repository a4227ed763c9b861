package app

import (
	"go.uber.org/fx"

	"github.com/karavan-market/karavan/internal/cache"
	"github.com/karavan-market/karavan/internal/config"
	"github.com/karavan-market/karavan/internal/database"
	"github.com/karavan-market/karavan/internal/logger"
	"github.com/karavan-market/karavan/internal/messaging"
	"github.com/karavan-market/karavan/internal/notifier"
	"github.com/karavan-market/karavan/internal/observability"
	repositoryaccount "github.com/karavan-market/karavan/internal/repository/account"
	repositorynews "github.com/karavan-market/karavan/internal/repository/news"
	repositoryorder "github.com/karavan-market/karavan/internal/repository/order"
	repositoryproduct "github.com/karavan-market/karavan/internal/repository/product"
	repositorysettings "github.com/karavan-market/karavan/internal/repository/settings"
	httpserver "github.com/karavan-market/karavan/internal/server/http"
	serviceauth "github.com/karavan-market/karavan/internal/service/auth"
	servicecatalog "github.com/karavan-market/karavan/internal/service/catalog"
	servicenews "github.com/karavan-market/karavan/internal/service/news"
	serviceorder "github.com/karavan-market/karavan/internal/service/order"
	servicesettings "github.com/karavan-market/karavan/internal/service/settings"
	transporthttp "github.com/karavan-market/karavan/internal/transport/http"
	"github.com/karavan-market/karavan/internal/upload"
	"github.com/karavan-market/karavan/internal/worker"
	workerorder "github.com/karavan-market/karavan/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	logger.Module,
	database.Module,
	cache.Module,
	messaging.Module,
	observability.Module,
	notifier.Module,
	repositoryaccount.Module,
	repositoryproduct.Module,
	repositoryorder.Module,
	repositorynews.Module,
	repositorysettings.Module,
	servicesettings.Module,
	serviceauth.Module,
	servicecatalog.Module,
	serviceorder.Module,
	servicenews.Module,
	upload.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background event processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
