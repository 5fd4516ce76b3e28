package subscription

import (
	"context"
	"fmt"

	extErrors "github.com/pkg/errors"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// PlanLister returns the plans currently offered for purchase
type PlanLister interface {
	ListPlans(ctx context.Context) ([]*stripe.Plan, error)
}

// StripePlanLister lists active plans from Stripe with their products expanded
type StripePlanLister struct {
	stripeClient *client.API
}

var _ PlanLister = &StripePlanLister{}

// NewStripePlanLister returns a PlanLister backed by the Stripe API
func NewStripePlanLister(stripeClient *client.API) (*StripePlanLister, error) {
	if stripeClient == nil {
		return nil, fmt.Errorf("nil StripeClient is invalid")
	}
	return &StripePlanLister{
		stripeClient: stripeClient,
	}, nil
}

// ListPlans walks every page of active plans
func (l *StripePlanLister) ListPlans(ctx context.Context) ([]*stripe.Plan, error) {
	params := &stripe.PlanListParams{
		ListParams: stripe.ListParams{
			Context: ctx,
		},
		Active: stripe.Bool(true),
	}
	params.AddExpand("data.product")

	plans := make([]*stripe.Plan, 0)
	iter := l.stripeClient.Plans.List(params)
	for iter.Next() {
		plans = append(plans, iter.Plan())
	}
	if err := iter.Err(); err != nil {
		return nil, extErrors.Wrap(err, "Cannot list Plans on Stripe")
	}
	return plans, nil
}
