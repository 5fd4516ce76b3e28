package external

import (
	"net/http"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
	"go.uber.org/zap"
)

// NewStripeClient returns a Stripe API client logging through logger.
// A nil httpClient uses stripe-go's default client.
func NewStripeClient(key string, logger *zap.Logger, httpClient *http.Client) *client.API {
	config := &stripe.BackendConfig{
		HTTPClient:    httpClient,
		LeveledLogger: logger.Sugar(),
	}
	sc := &client.API{}
	sc.Init(key, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, config),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, config),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, config),
	})
	return sc
}
