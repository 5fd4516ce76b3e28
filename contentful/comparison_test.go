package contentful

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v72"
)

func tieredOffering(productID string, groups ...EligibilitySubgroup) *EligibilityOffering {
	return &EligibilityOffering{
		StripeProductID: productID,
		SubGroups:       groups,
	}
}

func tiers(name string, productIDs ...string) EligibilitySubgroup {
	g := EligibilitySubgroup{GroupName: name}
	for _, id := range productIDs {
		g.Offerings = append(g.Offerings, EligibilitySubgroupOffering{StripeProductID: id})
	}
	return g
}

func TestCompareOffering_Same(t *testing.T) {
	comparison, ok := CompareOffering("prod_a", tieredOffering("prod_a"))
	require.True(t, ok)
	require.Equal(t, OfferingSame, comparison)
}

func TestCompareOffering_NotComparable(t *testing.T) {
	comparison, ok := CompareOffering("prod_x", tieredOffering("prod_b", tiers("vpn", "prod_a", "prod_b")))
	require.False(t, ok)
	require.Empty(t, comparison)

	_, ok = CompareOffering("prod_a", nil)
	require.False(t, ok)
}

func TestCompareOffering_Steps(t *testing.T) {
	group := tiers("vpn", "prod_a", "prod_b", "prod_c", "prod_d")

	cases := []struct {
		name     string
		from     string
		target   string
		expected OfferingComparison
	}{
		{"one step up", "prod_a", "prod_b", OfferingUpgrade},
		{"two steps up", "prod_a", "prod_c", OfferingDowngrade},
		{"three steps up", "prod_a", "prod_d", OfferingDowngrade},
		{"one step down", "prod_c", "prod_b", OfferingDowngrade},
		{"two steps down", "prod_d", "prod_b", OfferingDowngrade},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			comparison, ok := CompareOffering(tc.from, tieredOffering(tc.target, group))
			require.True(t, ok)
			require.Equal(t, tc.expected, comparison)
		})
	}
}

func TestCompareOffering_FirstMatchingSubgroupWins(t *testing.T) {
	// prod_a -> prod_b is an upgrade in "first" but a downgrade in "second"
	target := tieredOffering("prod_b",
		tiers("unrelated", "prod_x", "prod_b"),
		tiers("first", "prod_a", "prod_b"),
		tiers("second", "prod_b", "prod_a"),
	)
	comparison, ok := CompareOffering("prod_a", target)
	require.True(t, ok)
	require.Equal(t, OfferingUpgrade, comparison)
}

func TestCompareInterval(t *testing.T) {
	month := Interval{Unit: IntervalMonth, Count: 1}
	year := Interval{Unit: IntervalYear, Count: 1}

	require.Equal(t, IntervalSame, CompareInterval(month, month))
	require.Equal(t, IntervalLonger, CompareInterval(month, year))
	require.Equal(t, IntervalShorter, CompareInterval(year, month))

	require.Equal(t, IntervalSame, CompareInterval(Interval{Unit: IntervalDay, Count: 7}, Interval{Unit: IntervalWeek, Count: 1}))
	require.Equal(t, IntervalShorter, CompareInterval(Interval{Unit: IntervalMonth, Count: 13}, year))
	require.Equal(t, IntervalLonger, CompareInterval(Interval{Unit: "fortnight", Count: 1}, Interval{Unit: IntervalDay, Count: 1}))
}

func TestIntervalFromStripePlan(t *testing.T) {
	interval := IntervalFromStripePlan(&stripe.Plan{
		Interval:      stripe.PlanIntervalMonth,
		IntervalCount: 6,
	})
	require.Equal(t, Interval{Unit: IntervalMonth, Count: 6}, interval)
	require.Equal(t, Interval{}, IntervalFromStripePlan(nil))
}
