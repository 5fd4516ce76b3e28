package contentful

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/zllovesuki/payments/external"

	extErrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultPageSize is the number of purchases requested per query
const DefaultPageSize = 20

const queryTimingStat = "contentful.query"

// ManagerOptions contains the configuration for the content Manager
type ManagerOptions struct {
	Client   Querier
	Stats    external.Timer
	Logger   *zap.Logger
	PageSize int
}

// Manager aggregates paginated content queries into result utils
type Manager struct {
	ManagerOptions
}

// NewManager returns a new Manager for catalog content
func NewManager(option ManagerOptions) (*Manager, error) {
	if option.Client == nil {
		return nil, fmt.Errorf("nil Client is invalid")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}
	if option.Stats == nil {
		option.Stats = external.NopTimer{}
	}
	if option.PageSize <= 0 {
		option.PageSize = DefaultPageSize
	}
	return &Manager{
		ManagerOptions: option,
	}, nil
}

// GetPurchaseDetailsForEligibility fetches every purchase listing one of planIDs, with the
// offering and subgroup data needed for eligibility checks
func (m *Manager) GetPurchaseDetailsForEligibility(ctx context.Context, planIDs []string) (*EligibilityContentByPlanIdsResultUtil, error) {
	pages, err := queryAllPages[EligibilityContentByPlanIdsResult](ctx, m, "EligibilityContentByPlanIds", eligibilityContentByPlanIdsQuery, planIDs, DefaultLocale)
	if err != nil {
		return nil, err
	}
	return NewEligibilityContentByPlanIdsResultUtil(pages), nil
}

// GetPurchaseDetailsForCapabilityServiceByPlanIds fetches every purchase listing one of planIDs,
// with the capabilities granted by its offering
func (m *Manager) GetPurchaseDetailsForCapabilityServiceByPlanIds(ctx context.Context, planIDs []string) (*CapabilityServiceByPlanIdsResultUtil, error) {
	pages, err := queryAllPages[CapabilityServiceByPlanIdsResult](ctx, m, "CapabilityServiceByPlanIds", capabilityServiceByPlanIdsQuery, planIDs, DefaultLocale)
	if err != nil {
		return nil, err
	}
	return NewCapabilityServiceByPlanIdsResultUtil(pages), nil
}

// GetPurchaseWithDetailsOfferingContentByPlanIds fetches the localized purchase details and
// offering content for planIDs
func (m *Manager) GetPurchaseWithDetailsOfferingContentByPlanIds(ctx context.Context, planIDs []string, locale string) (*PurchaseWithDetailsOfferingContentUtil, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	pages, err := queryAllPages[PurchaseWithDetailsOfferingContentResult](ctx, m, "PurchaseWithDetailsOfferingContent", purchaseWithDetailsOfferingContentQuery, planIDs, locale)
	if err != nil {
		return nil, err
	}
	return NewPurchaseWithDetailsOfferingContentUtil(pages), nil
}

type collectionPage interface {
	pageTotal() int
	pageCount() int
}

// queryAllPages requests pages one after another until the accumulated item count reaches the
// reported total. An empty page also ends the loop so an inconsistent total cannot spin forever.
func queryAllPages[T collectionPage](ctx context.Context, m *Manager, name, query string, planIDs []string, locale string) ([]T, error) {
	logger := m.Logger.With(
		zap.String("Query", name),
		zap.Int("PlanIDs", len(planIDs)),
	)

	pages := make([]T, 0, 1)
	count := 0
	for skip := 0; ; skip += m.PageSize {
		variables := map[string]interface{}{
			"skip":          skip,
			"limit":         m.PageSize,
			"locale":        locale,
			"stripePlanIds": planIDs,
		}

		var page T
		start := time.Now()
		err := m.Client.Query(ctx, query, variables, &page)
		m.Stats.Timing(queryTimingStat, time.Since(start), map[string]string{
			"query":   name,
			"success": strconv.FormatBool(err == nil),
		})
		if err != nil {
			logger.Error("Content query failed",
				zap.Int("Skip", skip),
				zap.Error(err),
			)
			return nil, extErrors.Wrapf(err, "Cannot query %s", name)
		}

		pages = append(pages, page)
		count += page.pageCount()
		if count >= page.pageTotal() || page.pageCount() == 0 {
			break
		}
	}

	logger.Debug("Content query completed",
		zap.Int("Pages", len(pages)),
		zap.Int("Items", count),
	)
	return pages, nil
}
