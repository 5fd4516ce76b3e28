package contentful_test

import (
	"context"
	"errors"
	"testing"

	"github.com/zllovesuki/payments/contentful"
	ct "github.com/zllovesuki/payments/contentful/contentfultest"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v72"
)

type fixedLocale string

func (f fixedLocale) GetLocale(ctx context.Context, acceptLanguage string) string {
	return string(f)
}

func vpnDetails() interface{} {
	return ct.DetailsPage(1, ct.DetailsPurchase("prod_vpn", []string{"plan_vpn"},
		contentful.PurchaseDetailsResult{
			ProductName: "Mozilla VPN",
			Subtitle:    "Protect every device",
			WebIcon:     "https://cdn.example.com/vpn.svg",
			Details:     []string{"Five devices", "No logs"},
		},
		contentful.CommonContentResult{
			TermsOfServiceURL: "https://example.com/tos",
			NewsletterSlug:    []string{"vpn", "mozilla"},
		},
	))
}

func TestStripeMapper_AppliesContent(t *testing.T) {
	q := ct.NewQuerier(vpnDetails())
	mapper, err := contentful.NewStripeMapper(newManager(t, q, nil), fixedLocale("de"))
	require.NoError(t, err)

	original := &stripe.Plan{
		ID:       "plan_vpn",
		Nickname: "VPN monthly",
		Metadata: map[string]string{
			contentful.MetadataWebIconURL: "https://old.example.com/vpn.png",
			"unrelated":                   "kept",
		},
		Product: &stripe.Product{
			ID:   "prod_vpn",
			Name: "VPN",
			Metadata: map[string]string{
				contentful.MetadataTermsOfServiceURL: "https://example.com/tos",
			},
		},
	}
	passthrough := &stripe.Plan{ID: "plan_other", Nickname: "Other"}

	report, err := mapper.MapContentfulToStripePlans(context.Background(), []*stripe.Plan{original, passthrough}, "de-DE")
	require.NoError(t, err)

	plans := report.MappedPlans()
	require.Len(t, plans, 2)
	mapped := plans[0]
	require.Equal(t, "https://cdn.example.com/vpn.svg", mapped.Metadata[contentful.MetadataWebIconURL])
	require.Equal(t, "Protect every device", mapped.Metadata[contentful.MetadataSubtitle])
	require.Equal(t, "Five devices", mapped.Metadata[contentful.MetadataDetailsPrefix+"1"])
	require.Equal(t, "No logs", mapped.Metadata[contentful.MetadataDetailsPrefix+"2"])
	require.Equal(t, "https://example.com/tos", mapped.Metadata[contentful.MetadataTermsOfServiceURL])
	require.Equal(t, "vpn,mozilla", mapped.Metadata[contentful.MetadataNewsletterSlug])
	require.Equal(t, "kept", mapped.Metadata["unrelated"])
	require.Equal(t, "Mozilla VPN", mapped.Product.Name)
	require.Same(t, passthrough, plans[1])

	// inputs untouched
	require.Equal(t, "https://old.example.com/vpn.png", original.Metadata[contentful.MetadataWebIconURL])
	require.Equal(t, "VPN", original.Product.Name)

	require.Equal(t, []string{"plan_vpn - VPN monthly: productName, webIconURL"}, report.NonMatchingPlans())

	calls := q.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "de", calls[0].Variables["locale"])
	require.Equal(t, []string{"plan_vpn", "plan_other"}, calls[0].Variables["stripePlanIds"])
}

func TestStripeMapper_FreshReportPerCall(t *testing.T) {
	q := ct.NewQuerier(vpnDetails(), vpnDetails())
	mapper, err := contentful.NewStripeMapper(newManager(t, q, nil), nil)
	require.NoError(t, err)

	conflicting := &stripe.Plan{
		ID:       "plan_vpn",
		Nickname: "VPN monthly",
		Metadata: map[string]string{contentful.MetadataSubtitle: "Old subtitle"},
	}
	first, err := mapper.MapContentfulToStripePlans(context.Background(), []*stripe.Plan{conflicting}, "")
	require.NoError(t, err)
	require.Len(t, first.NonMatchingPlans(), 1)

	clean := &stripe.Plan{ID: "plan_vpn", Nickname: "VPN monthly"}
	second, err := mapper.MapContentfulToStripePlans(context.Background(), []*stripe.Plan{clean}, "")
	require.NoError(t, err)
	require.Empty(t, second.NonMatchingPlans())
	require.Len(t, first.NonMatchingPlans(), 1)

	require.Equal(t, contentful.DefaultLocale, q.Calls()[0].Variables["locale"])
}

func TestStripeMapper_NoPlans(t *testing.T) {
	q := ct.NewQuerier()
	mapper, err := contentful.NewStripeMapper(newManager(t, q, nil), nil)
	require.NoError(t, err)

	report, err := mapper.MapContentfulToStripePlans(context.Background(), nil, "en")
	require.NoError(t, err)
	require.Empty(t, report.MappedPlans())
	require.Empty(t, q.Calls())
}

func TestStripeMapper_FetchFailure(t *testing.T) {
	q := ct.NewQuerier()
	q.Err = errors.New("boom")
	mapper, err := contentful.NewStripeMapper(newManager(t, q, nil), nil)
	require.NoError(t, err)

	report, err := mapper.MapContentfulToStripePlans(context.Background(), []*stripe.Plan{{ID: "plan_vpn"}}, "en")
	require.Error(t, err)
	require.Nil(t, report)
}

func TestNewStripeMapper_Validation(t *testing.T) {
	_, err := contentful.NewStripeMapper(nil, nil)
	require.Error(t, err)
}
