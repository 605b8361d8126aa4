package di

import (
	"go.uber.org/fx"

	"github.com/mkarpova/storefront/internal/adapter/checkout"
	"github.com/mkarpova/storefront/internal/app"
	"github.com/mkarpova/storefront/internal/config"
	"github.com/mkarpova/storefront/internal/events"
	"github.com/mkarpova/storefront/internal/logger"
	"github.com/mkarpova/storefront/internal/pkg/auth"
	"github.com/mkarpova/storefront/internal/server/http/handlers"
	"github.com/mkarpova/storefront/internal/server/http/router"
	"github.com/mkarpova/storefront/internal/storage/postgres"
	"github.com/mkarpova/storefront/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		checkout.Module,
		events.Module,
		usecase.Module,
		fx.Provide(func(f *app.StorefrontFacade) handlers.StorefrontFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
