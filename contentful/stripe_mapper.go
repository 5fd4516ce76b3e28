package contentful

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	extErrors "github.com/pkg/errors"
	"github.com/stripe/stripe-go/v72"
)

// Stripe metadata keys populated from content
const (
	MetadataWebIconURL                = "webIconURL"
	MetadataEmailIconURL              = "emailIconURL"
	MetadataSubtitle                  = "product:subtitle"
	MetadataDetailsPrefix             = "product:details:"
	MetadataTermsOfServiceURL         = "product:termsOfServiceURL"
	MetadataTermsOfServiceDownloadURL = "product:termsOfServiceDownloadURL"
	MetadataPrivacyNoticeURL          = "product:privacyNoticeURL"
	MetadataPrivacyNoticeDownloadURL  = "product:privacyNoticeDownloadURL"
	MetadataCancellationSurveyURL     = "product:cancellationSurveyURL"
	MetadataSuccessActionButtonURL    = "successActionButtonURL"
	MetadataSuccessActionButtonLabel  = "successActionButtonLabel"
	MetadataNewsletterLabelTextCode   = "newsletterLabelTextCode"
	MetadataNewsletterSlug            = "newsletterSlug"
	MetadataProductName               = "productName"
)

// PurchaseDetailsFetcher loads localized purchase content
type PurchaseDetailsFetcher interface {
	GetPurchaseWithDetailsOfferingContentByPlanIds(ctx context.Context, planIDs []string, locale string) (*PurchaseWithDetailsOfferingContentUtil, error)
}

// LocaleNegotiator picks the content locale for an Accept-Language header
type LocaleNegotiator interface {
	GetLocale(ctx context.Context, acceptLanguage string) string
}

// StripeMapper overlays catalog content onto Stripe plans
type StripeMapper struct {
	fetcher PurchaseDetailsFetcher
	locales LocaleNegotiator
}

// NewStripeMapper returns a mapper. A nil locales always uses DefaultLocale.
func NewStripeMapper(fetcher PurchaseDetailsFetcher, locales LocaleNegotiator) (*StripeMapper, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("nil PurchaseDetailsFetcher is invalid")
	}
	return &StripeMapper{
		fetcher: fetcher,
		locales: locales,
	}, nil
}

// MapperReport is the outcome of one mapping pass
type MapperReport struct {
	mappedPlans      []*stripe.Plan
	nonMatchingPlans []string
}

// MappedPlans returns the plans with content applied, in input order
func (r *MapperReport) MappedPlans() []*stripe.Plan {
	return append([]*stripe.Plan(nil), r.mappedPlans...)
}

// NonMatchingPlans lists the plans whose Stripe metadata disagreed with the content,
// formatted as "<planID> - <nickname>: key1, key2"
func (r *MapperReport) NonMatchingPlans() []string {
	return append([]string(nil), r.nonMatchingPlans...)
}

// mapperBuilder accumulates one mapping pass. Never share it between calls.
type mapperBuilder struct {
	plans      []*stripe.Plan
	mismatches map[string][]string
	order      []string
}

func newMapperBuilder(capacity int) *mapperBuilder {
	return &mapperBuilder{
		plans:      make([]*stripe.Plan, 0, capacity),
		mismatches: make(map[string][]string),
	}
}

func (b *mapperBuilder) addMismatch(plan *stripe.Plan, key string) {
	label := fmt.Sprintf("%s - %s", plan.ID, plan.Nickname)
	if _, ok := b.mismatches[label]; !ok {
		b.order = append(b.order, label)
	}
	b.mismatches[label] = append(b.mismatches[label], key)
}

func (b *mapperBuilder) report() *MapperReport {
	nonMatching := make([]string, 0, len(b.order))
	for _, label := range b.order {
		keys := b.mismatches[label]
		sort.Strings(keys)
		nonMatching = append(nonMatching, label+": "+strings.Join(keys, ", "))
	}
	return &MapperReport{
		mappedPlans:      b.plans,
		nonMatchingPlans: nonMatching,
	}
}

// MapContentfulToStripePlans applies the catalog content for each plan onto a copy of it.
// Plans without content are passed through unchanged. The input plans are never modified.
func (s *StripeMapper) MapContentfulToStripePlans(ctx context.Context, plans []*stripe.Plan, acceptLanguage string) (*MapperReport, error) {
	builder := newMapperBuilder(len(plans))
	if len(plans) == 0 {
		return builder.report(), nil
	}

	locale := DefaultLocale
	if s.locales != nil {
		locale = s.locales.GetLocale(ctx, acceptLanguage)
	}

	planIDs := make([]string, 0, len(plans))
	for _, p := range plans {
		planIDs = append(planIDs, p.ID)
	}
	content, err := s.fetcher.GetPurchaseWithDetailsOfferingContentByPlanIds(ctx, planIDs, locale)
	if err != nil {
		return nil, extErrors.Wrap(err, "Cannot load content for Stripe plans")
	}

	for _, plan := range plans {
		purchase := content.TransformedPurchaseWithCommonContentForPlanID(plan.ID)
		if purchase == nil {
			builder.plans = append(builder.plans, plan)
			continue
		}
		builder.plans = append(builder.plans, builder.apply(plan, purchase))
	}
	return builder.report(), nil
}

func (b *mapperBuilder) apply(plan *stripe.Plan, purchase *PurchaseWithCommonContent) *stripe.Plan {
	mapped := *plan
	mapped.Metadata = make(map[string]string, len(plan.Metadata))
	for k, v := range plan.Metadata {
		mapped.Metadata[k] = v
	}
	if plan.Product != nil {
		product := *plan.Product
		mapped.Product = &product
	}

	values := contentMetadata(purchase)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := values[key]
		if existing := stripeMetadataValue(plan, key); existing != "" && existing != value {
			b.addMismatch(plan, key)
		}
		mapped.Metadata[key] = value
	}

	if purchase.ProductName != "" && mapped.Product != nil {
		if mapped.Product.Name != "" && mapped.Product.Name != purchase.ProductName {
			b.addMismatch(plan, MetadataProductName)
		}
		mapped.Product.Name = purchase.ProductName
	}
	return &mapped
}

func stripeMetadataValue(plan *stripe.Plan, key string) string {
	if v := plan.Metadata[key]; v != "" {
		return v
	}
	if plan.Product != nil {
		return plan.Product.Metadata[key]
	}
	return ""
}

// contentMetadata returns the non-empty content values keyed by Stripe metadata key
func contentMetadata(p *PurchaseWithCommonContent) map[string]string {
	c := p.CommonContent
	values := map[string]string{
		MetadataWebIconURL:                p.WebIcon,
		MetadataEmailIconURL:              c.EmailIcon,
		MetadataSubtitle:                  p.Subtitle,
		MetadataTermsOfServiceURL:         c.TermsOfServiceURL,
		MetadataTermsOfServiceDownloadURL: c.TermsOfServiceDownloadURL,
		MetadataPrivacyNoticeURL:          c.PrivacyNoticeURL,
		MetadataPrivacyNoticeDownloadURL:  c.PrivacyNoticeDownloadURL,
		MetadataCancellationSurveyURL:     c.CancellationURL,
		MetadataSuccessActionButtonURL:    c.SuccessActionButtonURL,
		MetadataSuccessActionButtonLabel:  c.SuccessActionButtonLabel,
		MetadataNewsletterLabelTextCode:   c.NewsletterLabelTextCode,
		MetadataNewsletterSlug:            strings.Join(c.NewsletterSlug, ","),
	}
	for i, detail := range p.Details {
		values[MetadataDetailsPrefix+strconv.Itoa(i+1)] = detail
	}
	for k, v := range values {
		if v == "" {
			delete(values, k)
		}
	}
	return values
}
