package capability

import (
	"context"
	"fmt"

	"github.com/zllovesuki/payments/contentful"

	extErrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// ContentFetcher loads the catalog content needed to resolve capabilities
type ContentFetcher interface {
	GetPurchaseDetailsForCapabilityServiceByPlanIds(ctx context.Context, planIDs []string) (*contentful.CapabilityServiceByPlanIdsResultUtil, error)
}

var _ ContentFetcher = &contentful.Manager{}

// ClientCapabilities is what a subscribed price grants to client applications
type ClientCapabilities struct {
	SubscribedPrice string `json:"subscribedPrice"`
}

// ManagerOptions contains the configuration for the capability Manager
type ManagerOptions struct {
	Content ContentFetcher
	Logger  *zap.Logger
}

// Manager resolves subscribed prices to client capabilities
type Manager struct {
	ManagerOptions
}

// NewManager returns a new Manager for capabilities
func NewManager(option ManagerOptions) (*Manager, error) {
	if option.Content == nil {
		return nil, fmt.Errorf("nil Content is invalid")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}
	return &Manager{
		ManagerOptions: option,
	}, nil
}

// PlanIdsToClientCapabilities returns one entry per subscribed price known to the catalog, in input order.
// Unknown prices are skipped.
func (m *Manager) PlanIdsToClientCapabilities(ctx context.Context, subscribedPrices []string) ([]ClientCapabilities, error) {
	result := make([]ClientCapabilities, 0, len(subscribedPrices))
	if len(subscribedPrices) == 0 {
		return result, nil
	}

	content, err := m.Content.GetPurchaseDetailsForCapabilityServiceByPlanIds(ctx, subscribedPrices)
	if err != nil {
		return nil, extErrors.Wrap(err, "Cannot load capability content")
	}

	known := contentful.KnownPlanIDs(content, subscribedPrices)
	if skipped := len(subscribedPrices) - len(known); skipped > 0 {
		m.Logger.Debug("Subscribed prices have no offering",
			zap.Int("Skipped", skipped),
		)
	}
	for _, price := range known {
		result = append(result, ClientCapabilities{
			SubscribedPrice: price,
		})
	}
	return result, nil
}
