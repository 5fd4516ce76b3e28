// Package contentfultest provides catalog fixtures and a fake Querier for tests.
package contentfultest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/zllovesuki/payments/contentful"
)

// Call records one query made against Querier
type Call struct {
	Query     string
	Variables map[string]interface{}
}

// Querier serves the given pages in order, one per Query call
type Querier struct {
	mu    sync.Mutex
	pages []interface{}
	calls []Call

	// Err is returned by every call once set
	Err error
}

var _ contentful.Querier = &Querier{}

// NewQuerier returns a fake serving pages in order
func NewQuerier(pages ...interface{}) *Querier {
	return &Querier{
		pages: pages,
	}
}

func (q *Querier) Query(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls = append(q.calls, Call{
		Query:     query,
		Variables: variables,
	})
	if q.Err != nil {
		return q.Err
	}
	index := len(q.calls) - 1
	if index >= len(q.pages) {
		return fmt.Errorf("unexpected query #%d", index+1)
	}
	raw, err := json.Marshal(q.pages[index])
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Calls returns the recorded queries
func (q *Querier) Calls() []Call {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Call(nil), q.calls...)
}

// Subgroup returns a subgroup ordering the given products from lowest to highest tier
func Subgroup(name string, productIDs ...string) contentful.EligibilitySubgroupResult {
	group := contentful.EligibilitySubgroupResult{
		GroupName: name,
	}
	for _, id := range productIDs {
		group.OfferingCollection.Items = append(group.OfferingCollection.Items, contentful.EligibilitySubgroupOfferingResult{
			StripeProductID: id,
			Countries:       []string{"US", "CA"},
		})
	}
	return group
}

// EligibilityPurchase returns a purchase of productID through planIDs, linked from groups
func EligibilityPurchase(productID string, planIDs []string, groups ...contentful.EligibilitySubgroupResult) contentful.EligibilityPurchaseResult {
	return contentful.EligibilityPurchaseResult{
		StripePlanChoices: planIDs,
		Offering: contentful.EligibilityOfferingResult{
			StripeProductID: productID,
			Countries:       []string{"US", "CA"},
			LinkedFrom: contentful.OfferingLinkedFrom{
				SubGroupCollection: contentful.SubGroupCollection{
					Items: groups,
				},
			},
		},
	}
}

// EligibilityPage returns one eligibility query page reporting total
func EligibilityPage(total int, purchases ...contentful.EligibilityPurchaseResult) contentful.EligibilityContentByPlanIdsResult {
	page := contentful.EligibilityContentByPlanIdsResult{}
	page.PurchaseCollection.Total = total
	page.PurchaseCollection.Items = purchases
	return page
}

// CapabilityPurchase returns a purchase of productID granting capabilities, keyed slug to client ids
func CapabilityPurchase(productID string, planIDs []string, slug string, clientIDs ...string) contentful.CapabilityPurchaseResult {
	capability := contentful.CapabilityResult{
		Slug: slug,
	}
	for _, id := range clientIDs {
		capability.ServicesCollection.Items = append(capability.ServicesCollection.Items, contentful.ServiceResult{
			OauthClientID: id,
		})
	}
	purchase := contentful.CapabilityPurchaseResult{
		StripePlanChoices: planIDs,
	}
	purchase.Offering.StripeProductID = productID
	purchase.Offering.CapabilitiesCollection.Items = []contentful.CapabilityResult{capability}
	return purchase
}

// CapabilityPage returns one capability query page reporting total
func CapabilityPage(total int, purchases ...contentful.CapabilityPurchaseResult) contentful.CapabilityServiceByPlanIdsResult {
	page := contentful.CapabilityServiceByPlanIdsResult{}
	page.PurchaseCollection.Total = total
	page.PurchaseCollection.Items = purchases
	return page
}

// DetailsPurchase returns a purchase details item for productID
func DetailsPurchase(productID string, planIDs []string, purchaseDetails contentful.PurchaseDetailsResult, common contentful.CommonContentResult) contentful.PurchaseWithDetailsResult {
	return contentful.PurchaseWithDetailsResult{
		StripePlanChoices: planIDs,
		PurchaseDetails:   purchaseDetails,
		Offering: contentful.OfferingCommonContentWrapper{
			StripeProductID: productID,
			CommonContent:   common,
		},
	}
}

// DetailsPage returns one purchase details query page reporting total
func DetailsPage(total int, purchases ...contentful.PurchaseWithDetailsResult) contentful.PurchaseWithDetailsOfferingContentResult {
	page := contentful.PurchaseWithDetailsOfferingContentResult{}
	page.PurchaseCollection.Total = total
	page.PurchaseCollection.Items = purchases
	return page
}
