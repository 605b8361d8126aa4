package checkout

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/mkarpova/storefront/internal/config"
)

// Module exposes the payment gateway client to the fx graph.
var Module = fx.Provide(newGateway)

type gatewayParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newGateway(p gatewayParams) Gateway {
	return NewClient(p.Config.StripeAPIKey, p.Config.StripeWebhookSecret, p.Config.GatewayTimeout, nil, p.Logger)
}
