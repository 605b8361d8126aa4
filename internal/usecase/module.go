package usecase

import (
	"go.uber.org/fx"

	"github.com/mkarpova/storefront/internal/config"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewOrderUseCase,
	NewReconcileUseCase,
	newCheckoutOptions,
)

func newCheckoutOptions(cfg *config.Config) CheckoutOptions {
	return CheckoutOptions{
		Currency:   cfg.Currency,
		SuccessURL: cfg.SuccessURL(),
		CancelURL:  cfg.CancelURL(),
	}
}
