package eligibility

import (
	"context"
	"fmt"

	"github.com/zllovesuki/payments/contentful"

	extErrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// ContentFetcher loads the catalog content needed to classify a purchase
type ContentFetcher interface {
	GetPurchaseDetailsForEligibility(ctx context.Context, planIDs []string) (*contentful.EligibilityContentByPlanIdsResultUtil, error)
}

var _ ContentFetcher = &contentful.Manager{}

// ManagerOptions contains the configuration for the eligibility Manager
type ManagerOptions struct {
	Content ContentFetcher
	Logger  *zap.Logger
}

// Manager decides how a customer may purchase a plan given their current subscriptions
type Manager struct {
	ManagerOptions
}

// NewManager returns a new Manager for eligibility checks
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

// GetPlanEligibility classifies the purchase of targetPlanID for a customer holding webPlanIDs
// (Stripe) and iapPlanIDs (app stores). existingPlanID is set for EXISTING_PLAN, UPGRADE and DOWNGRADE.
// A failure to load content is returned as an error; no partial answer is given.
func (m *Manager) GetPlanEligibility(ctx context.Context, webPlanIDs, iapPlanIDs []string, targetPlanID string) (result Result, existingPlanID string, err error) {
	if len(webPlanIDs) == 0 && len(iapPlanIDs) == 0 {
		return ResultCreate, "", nil
	}

	logger := m.Logger.With(zap.String("TargetPlanID", targetPlanID))

	planIDs := uniquePlanIDs(webPlanIDs, iapPlanIDs, []string{targetPlanID})
	content, err := m.Content.GetPurchaseDetailsForEligibility(ctx, planIDs)
	if err != nil {
		return "", "", extErrors.Wrap(err, "Cannot load eligibility content")
	}

	// in-app subscriptions cannot be changed from the web
	if overlap := content.PlanIdsInSameOfferingOrSubgroup(iapPlanIDs, targetPlanID); len(overlap) > 0 {
		return ResultBlockedIAP, "", nil
	}

	overlap := content.PlanIdsInSameOfferingOrSubgroup(webPlanIDs, targetPlanID)
	switch len(overlap) {
	case 0:
		return ResultCreate, "", nil
	case 1:
		change, existing := canChangePlan(content, overlap[0], targetPlanID)
		return change, existing, nil
	default:
		logger.Warn("Multiple existing subscriptions overlap the target plan",
			zap.Strings("OverlappingPlanIDs", overlap),
		)
		return ResultInvalid, "", nil
	}
}

// canChangePlan classifies moving from existingPlanID to targetPlanID.
// Changing interval within the same offering is always an upgrade.
func canChangePlan(content *contentful.EligibilityContentByPlanIdsResultUtil, existingPlanID, targetPlanID string) (Result, string) {
	if existingPlanID == targetPlanID {
		return ResultExistingPlan, existingPlanID
	}
	// TODO: detect interval downgrades (e.g. yearly to monthly) on the same offering with contentful.CompareInterval
	if !content.MatchingOfferings(existingPlanID, targetPlanID) && content.TargetPlanIsDowngrade(existingPlanID, targetPlanID) {
		return ResultDowngrade, existingPlanID
	}
	return ResultUpgrade, existingPlanID
}

func uniquePlanIDs(lists ...[]string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			result = append(result, id)
		}
	}
	return result
}
