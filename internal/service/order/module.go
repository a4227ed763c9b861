package order

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/config"
	"github.com/karavan-market/karavan/internal/messaging"
	"github.com/karavan-market/karavan/internal/notifier"
	accountrepo "github.com/karavan-market/karavan/internal/repository/account"
	orderrepo "github.com/karavan-market/karavan/internal/repository/order"
	productrepo "github.com/karavan-market/karavan/internal/repository/product"
	settingssvc "github.com/karavan-market/karavan/internal/service/settings"
)

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Orders   *orderrepo.Repository
	Products *productrepo.Repository
	Accounts *accountrepo.Repository
	Settings *settingssvc.Service
	Notifier notifier.Client
	Client   messaging.Client
	Config   config.Config
	Logger   *zap.Logger
}

// Module provides the order service to Fx.
var Module = fx.Provide(func(p Params) *Service {
	return NewService(
		p.Orders,
		p.Products,
		p.Accounts,
		p.Settings,
		p.Notifier,
		p.Client,
		p.Logger,
		Options{
			StrictTransitions: p.Config.Orders.StrictTransitions,
			AdminChatID:       p.Config.Telegram.AdminChatID,
		},
	)
})
