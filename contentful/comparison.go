package contentful

import "github.com/stripe/stripe-go/v72"

// OfferingComparison describes where a target offering sits relative to another offering
type OfferingComparison string

// Defining the relationships between two comparable offerings
const (
	OfferingSame      OfferingComparison = "same"
	OfferingUpgrade   OfferingComparison = "upgrade"
	OfferingDowngrade OfferingComparison = "downgrade"
)

// CompareOffering returns the relationship of targetOffering to the offering identified by fromProductID.
// ok is false when the two offerings are not comparable (no shared subgroup).
//
// When the offerings share more than one subgroup, the first subgroup in catalog order wins.
// Only a single step forward counts as an upgrade; every other non-zero step,
// including skipping tiers upward, is reported as a downgrade.
func CompareOffering(fromProductID string, targetOffering *EligibilityOffering) (comparison OfferingComparison, ok bool) {
	if targetOffering == nil {
		return "", false
	}
	if targetOffering.StripeProductID == fromProductID {
		return OfferingSame, true
	}

	for _, group := range targetOffering.SubGroups {
		existingIndex := group.indexOf(fromProductID)
		if existingIndex < 0 {
			continue
		}
		targetIndex := group.indexOf(targetOffering.StripeProductID)
		switch targetIndex - existingIndex {
		case 0:
			return OfferingSame, true
		case 1:
			return OfferingUpgrade, true
		default:
			return OfferingDowngrade, true
		}
	}

	return "", false
}

func (g EligibilitySubgroup) indexOf(productID string) int {
	for i, o := range g.Offerings {
		if o.StripeProductID == productID {
			return i
		}
	}
	return -1
}

// IntervalUnit is the billing period unit
type IntervalUnit string

// Defining the supported billing period units
const (
	IntervalDay   IntervalUnit = "day"
	IntervalWeek  IntervalUnit = "week"
	IntervalMonth IntervalUnit = "month"
	IntervalYear  IntervalUnit = "year"
)

// Interval is a billing period, e.g. every 3 months
type Interval struct {
	Unit  IntervalUnit `json:"unit"`
	Count int64        `json:"count"`
}

// IntervalComparison describes the length of a target interval relative to another one
type IntervalComparison string

// Defining the relationships between two intervals
const (
	IntervalSame    IntervalComparison = "same"
	IntervalLonger  IntervalComparison = "longer"
	IntervalShorter IntervalComparison = "shorter"
)

// approximate, 30 day months and 365 day years
var intervalDays = map[IntervalUnit]int64{
	IntervalDay:   1,
	IntervalWeek:  7,
	IntervalMonth: 30,
	IntervalYear:  365,
}

func (i Interval) days() int64 {
	return intervalDays[i.Unit] * i.Count
}

// CompareInterval reports whether toInterval is the same length, longer or shorter than fromInterval.
// Unknown units count as zero days.
func CompareInterval(fromInterval, toInterval Interval) IntervalComparison {
	difference := toInterval.days() - fromInterval.days()
	switch {
	case difference == 0:
		return IntervalSame
	case difference > 0:
		return IntervalLonger
	default:
		return IntervalShorter
	}
}

// IntervalFromStripePlan returns the billing interval of a Stripe plan
func IntervalFromStripePlan(plan *stripe.Plan) Interval {
	if plan == nil {
		return Interval{}
	}
	return Interval{
		Unit:  IntervalUnit(plan.Interval),
		Count: plan.IntervalCount,
	}
}
