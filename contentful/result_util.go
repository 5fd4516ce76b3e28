package contentful

// PlanLookup is implemented by every query result util. It resolves a plan id to the
// Stripe product id of the offering purchased with it.
type PlanLookup interface {
	OfferingProductIDForPlanID(planID string) (string, bool)
}

var (
	_ PlanLookup = &EligibilityContentByPlanIdsResultUtil{}
	_ PlanLookup = &CapabilityServiceByPlanIdsResultUtil{}
	_ PlanLookup = &PurchaseWithDetailsOfferingContentUtil{}
)

// KnownPlanIDs returns the plan ids that resolve to an offering, in input order
func KnownPlanIDs(lookup PlanLookup, planIDs []string) []string {
	known := make([]string, 0, len(planIDs))
	for _, planID := range planIDs {
		if _, ok := lookup.OfferingProductIDForPlanID(planID); ok {
			known = append(known, planID)
		}
	}
	return known
}

// EligibilityContentByPlanIdsResultUtil indexes the pages of the eligibility query by plan id
type EligibilityContentByPlanIdsResultUtil struct {
	purchaseCount int
	offerings     map[string]*EligibilityOffering
}

// NewEligibilityContentByPlanIdsResultUtil builds the plan id index over every page.
// If a plan id is listed by more than one purchase, the first purchase wins.
func NewEligibilityContentByPlanIdsResultUtil(pages []EligibilityContentByPlanIdsResult) *EligibilityContentByPlanIdsResultUtil {
	u := &EligibilityContentByPlanIdsResultUtil{
		offerings: make(map[string]*EligibilityOffering),
	}
	for _, page := range pages {
		for _, purchase := range page.PurchaseCollection.Items {
			u.purchaseCount++
			offering := transformEligibilityOffering(purchase.Offering)
			for _, planID := range purchase.StripePlanChoices {
				if _, ok := u.offerings[planID]; !ok {
					u.offerings[planID] = offering
				}
			}
		}
	}
	return u
}

func transformEligibilityOffering(raw EligibilityOfferingResult) *EligibilityOffering {
	offering := &EligibilityOffering{
		StripeProductID: raw.StripeProductID,
		Countries:       raw.Countries,
		SubGroups:       make([]EligibilitySubgroup, 0, len(raw.LinkedFrom.SubGroupCollection.Items)),
	}
	for _, rawGroup := range raw.LinkedFrom.SubGroupCollection.Items {
		group := EligibilitySubgroup{
			GroupName: rawGroup.GroupName,
			Offerings: make([]EligibilitySubgroupOffering, 0, len(rawGroup.OfferingCollection.Items)),
		}
		for _, o := range rawGroup.OfferingCollection.Items {
			group.Offerings = append(group.Offerings, EligibilitySubgroupOffering{
				StripeProductID: o.StripeProductID,
				Countries:       o.Countries,
			})
		}
		offering.SubGroups = append(offering.SubGroups, group)
	}
	return offering
}

// PurchaseCount is the number of purchases across all pages
func (u *EligibilityContentByPlanIdsResultUtil) PurchaseCount() int {
	return u.purchaseCount
}

// OfferingForPlanID returns the offering purchased with planID, or nil
func (u *EligibilityContentByPlanIdsResultUtil) OfferingForPlanID(planID string) *EligibilityOffering {
	return u.offerings[planID]
}

func (u *EligibilityContentByPlanIdsResultUtil) OfferingProductIDForPlanID(planID string) (string, bool) {
	offering := u.OfferingForPlanID(planID)
	if offering == nil {
		return "", false
	}
	return offering.StripeProductID, true
}

// PlanIdsInSameOfferingOrSubgroup returns the candidate plan ids whose offering is the target's
// offering, or is tiered in one of the subgroups the target's offering belongs to.
func (u *EligibilityContentByPlanIdsResultUtil) PlanIdsInSameOfferingOrSubgroup(candidatePlanIDs []string, targetPlanID string) []string {
	result := make([]string, 0)
	targetOffering := u.OfferingForPlanID(targetPlanID)
	if targetOffering == nil {
		return result
	}

	for _, planID := range candidatePlanIDs {
		offering := u.OfferingForPlanID(planID)
		if offering == nil {
			continue
		}
		if offering.StripeProductID == targetOffering.StripeProductID {
			result = append(result, planID)
			continue
		}
		for _, group := range targetOffering.SubGroups {
			if group.indexOf(offering.StripeProductID) >= 0 {
				result = append(result, planID)
				break
			}
		}
	}
	return result
}

// MatchingOfferings reports whether both plan ids were purchased with the same offering
func (u *EligibilityContentByPlanIdsResultUtil) MatchingOfferings(planIDA, planIDB string) bool {
	a := u.OfferingForPlanID(planIDA)
	b := u.OfferingForPlanID(planIDB)
	if a == nil || b == nil {
		return false
	}
	return a.StripeProductID == b.StripeProductID
}

// TargetPlanIsDowngrade reports whether moving from existingPlanID to targetPlanID is a downgrade
// within their shared subgroup
func (u *EligibilityContentByPlanIdsResultUtil) TargetPlanIsDowngrade(existingPlanID, targetPlanID string) bool {
	existing := u.OfferingForPlanID(existingPlanID)
	target := u.OfferingForPlanID(targetPlanID)
	if existing == nil || target == nil {
		return false
	}
	comparison, ok := CompareOffering(existing.StripeProductID, target)
	return ok && comparison == OfferingDowngrade
}

// CapabilityServiceByPlanIdsResultUtil indexes the pages of the capability query by plan id
type CapabilityServiceByPlanIdsResultUtil struct {
	offerings map[string]*CapabilityOffering
}

func NewCapabilityServiceByPlanIdsResultUtil(pages []CapabilityServiceByPlanIdsResult) *CapabilityServiceByPlanIdsResultUtil {
	u := &CapabilityServiceByPlanIdsResultUtil{
		offerings: make(map[string]*CapabilityOffering),
	}
	for _, page := range pages {
		for _, purchase := range page.PurchaseCollection.Items {
			offering := &CapabilityOffering{
				StripeProductID: purchase.Offering.StripeProductID,
				Capabilities:    make([]Capability, 0, len(purchase.Offering.CapabilitiesCollection.Items)),
			}
			for _, c := range purchase.Offering.CapabilitiesCollection.Items {
				clientIDs := make([]string, 0, len(c.ServicesCollection.Items))
				for _, s := range c.ServicesCollection.Items {
					clientIDs = append(clientIDs, s.OauthClientID)
				}
				offering.Capabilities = append(offering.Capabilities, Capability{
					Slug:      c.Slug,
					ClientIDs: clientIDs,
				})
			}
			for _, planID := range purchase.StripePlanChoices {
				if _, ok := u.offerings[planID]; !ok {
					u.offerings[planID] = offering
				}
			}
		}
	}
	return u
}

// OfferingForPlanID returns the offering purchased with planID, or nil
func (u *CapabilityServiceByPlanIdsResultUtil) OfferingForPlanID(planID string) *CapabilityOffering {
	return u.offerings[planID]
}

func (u *CapabilityServiceByPlanIdsResultUtil) OfferingProductIDForPlanID(planID string) (string, bool) {
	offering := u.OfferingForPlanID(planID)
	if offering == nil {
		return "", false
	}
	return offering.StripeProductID, true
}

// CapabilitiesForPlanID returns the capabilities granted by the offering purchased with planID.
// ClientCapabilities only echoes the price for now; this is where per-client slugs come from once it grows.
func (u *CapabilityServiceByPlanIdsResultUtil) CapabilitiesForPlanID(planID string) []Capability {
	offering := u.OfferingForPlanID(planID)
	if offering == nil {
		return nil
	}
	return offering.Capabilities
}

// PurchaseWithDetailsOfferingContentUtil indexes the pages of the purchase details query by plan id
type PurchaseWithDetailsOfferingContentUtil struct {
	purchases map[string]*PurchaseWithCommonContent
}

func NewPurchaseWithDetailsOfferingContentUtil(pages []PurchaseWithDetailsOfferingContentResult) *PurchaseWithDetailsOfferingContentUtil {
	u := &PurchaseWithDetailsOfferingContentUtil{
		purchases: make(map[string]*PurchaseWithCommonContent),
	}
	for _, page := range pages {
		for _, purchase := range page.PurchaseCollection.Items {
			transformed := &PurchaseWithCommonContent{
				StripeProductID: purchase.Offering.StripeProductID,
				Details:         purchase.PurchaseDetails.Details,
				ProductName:     purchase.PurchaseDetails.ProductName,
				Subtitle:        purchase.PurchaseDetails.Subtitle,
				WebIcon:         purchase.PurchaseDetails.WebIcon,
				CommonContent:   purchase.Offering.CommonContent,
			}
			for _, planID := range purchase.StripePlanChoices {
				if _, ok := u.purchases[planID]; !ok {
					u.purchases[planID] = transformed
				}
			}
		}
	}
	return u
}

// TransformedPurchaseWithCommonContentForPlanID returns the purchase content for planID, or nil
func (u *PurchaseWithDetailsOfferingContentUtil) TransformedPurchaseWithCommonContentForPlanID(planID string) *PurchaseWithCommonContent {
	return u.purchases[planID]
}

func (u *PurchaseWithDetailsOfferingContentUtil) OfferingProductIDForPlanID(planID string) (string, bool) {
	purchase := u.TransformedPurchaseWithCommonContentForPlanID(planID)
	if purchase == nil {
		return "", false
	}
	return purchase.StripeProductID, true
}
