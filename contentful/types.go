package contentful

// Raw GraphQL shapes. Field names follow the Contentful content model.

type PurchaseCollection[T any] struct {
	Total int `json:"total"`
	Items []T `json:"items"`
}

// EligibilityContentByPlanIdsResult is one page of the eligibility query
type EligibilityContentByPlanIdsResult struct {
	PurchaseCollection PurchaseCollection[EligibilityPurchaseResult] `json:"purchaseCollection"`
}

func (r EligibilityContentByPlanIdsResult) pageTotal() int { return r.PurchaseCollection.Total }
func (r EligibilityContentByPlanIdsResult) pageCount() int { return len(r.PurchaseCollection.Items) }

type EligibilityPurchaseResult struct {
	StripePlanChoices []string                  `json:"stripePlanChoices"`
	Offering          EligibilityOfferingResult `json:"offering"`
}

type EligibilityOfferingResult struct {
	StripeProductID string             `json:"stripeProductId"`
	Countries       []string           `json:"countries"`
	LinkedFrom      OfferingLinkedFrom `json:"linkedFrom"`
}

type OfferingLinkedFrom struct {
	SubGroupCollection SubGroupCollection `json:"subGroupCollection"`
}

type SubGroupCollection struct {
	Items []EligibilitySubgroupResult `json:"items"`
}

type EligibilitySubgroupResult struct {
	GroupName          string                     `json:"groupName"`
	OfferingCollection SubgroupOfferingCollection `json:"offeringCollection"`
}

type SubgroupOfferingCollection struct {
	Items []EligibilitySubgroupOfferingResult `json:"items"`
}

type EligibilitySubgroupOfferingResult struct {
	StripeProductID string   `json:"stripeProductId"`
	Countries       []string `json:"countries"`
}

// CapabilityServiceByPlanIdsResult is one page of the capability query
type CapabilityServiceByPlanIdsResult struct {
	PurchaseCollection PurchaseCollection[CapabilityPurchaseResult] `json:"purchaseCollection"`
}

func (r CapabilityServiceByPlanIdsResult) pageTotal() int { return r.PurchaseCollection.Total }
func (r CapabilityServiceByPlanIdsResult) pageCount() int { return len(r.PurchaseCollection.Items) }

type CapabilityPurchaseResult struct {
	StripePlanChoices []string                 `json:"stripePlanChoices"`
	Offering          CapabilityOfferingResult `json:"offering"`
}

type CapabilityOfferingResult struct {
	StripeProductID        string                 `json:"stripeProductId"`
	CapabilitiesCollection CapabilitiesCollection `json:"capabilitiesCollection"`
}

type CapabilitiesCollection struct {
	Items []CapabilityResult `json:"items"`
}

type CapabilityResult struct {
	Slug               string             `json:"slug"`
	ServicesCollection ServicesCollection `json:"servicesCollection"`
}

type ServicesCollection struct {
	Items []ServiceResult `json:"items"`
}

type ServiceResult struct {
	OauthClientID string `json:"oauthClientId"`
}

// PurchaseWithDetailsOfferingContentResult is one page of the purchase details query
type PurchaseWithDetailsOfferingContentResult struct {
	PurchaseCollection PurchaseCollection[PurchaseWithDetailsResult] `json:"purchaseCollection"`
}

func (r PurchaseWithDetailsOfferingContentResult) pageTotal() int {
	return r.PurchaseCollection.Total
}
func (r PurchaseWithDetailsOfferingContentResult) pageCount() int {
	return len(r.PurchaseCollection.Items)
}

type PurchaseWithDetailsResult struct {
	StripePlanChoices []string                     `json:"stripePlanChoices"`
	PurchaseDetails   PurchaseDetailsResult        `json:"purchaseDetails"`
	Offering          OfferingCommonContentWrapper `json:"offering"`
}

type PurchaseDetailsResult struct {
	Details     []string `json:"details"`
	ProductName string   `json:"productName"`
	Subtitle    string   `json:"subtitle"`
	WebIcon     string   `json:"webIcon"`
}

type OfferingCommonContentWrapper struct {
	StripeProductID string              `json:"stripeProductId"`
	CommonContent   CommonContentResult `json:"commonContent"`
}

type CommonContentResult struct {
	PrivacyNoticeURL          string   `json:"privacyNoticeUrl"`
	PrivacyNoticeDownloadURL  string   `json:"privacyNoticeDownloadUrl"`
	TermsOfServiceURL         string   `json:"termsOfServiceUrl"`
	TermsOfServiceDownloadURL string   `json:"termsOfServiceDownloadUrl"`
	CancellationURL           string   `json:"cancellationUrl"`
	EmailIcon                 string   `json:"emailIcon"`
	SuccessActionButtonURL    string   `json:"successActionButtonUrl"`
	SuccessActionButtonLabel  string   `json:"successActionButtonLabel"`
	NewsletterLabelTextCode   string   `json:"newsletterLabelTextCode"`
	NewsletterSlug            []string `json:"newsletterSlug"`
}

// Transformed shapes handed to managers.

// EligibilityOffering is a sellable product line and the subgroups it is tiered in
type EligibilityOffering struct {
	StripeProductID string
	Countries       []string
	SubGroups       []EligibilitySubgroup
}

// EligibilitySubgroup orders offerings; the position of an offering is its tier
type EligibilitySubgroup struct {
	GroupName string
	Offerings []EligibilitySubgroupOffering
}

type EligibilitySubgroupOffering struct {
	StripeProductID string
	Countries       []string
}

// CapabilityOffering carries the capabilities granted by an offering
type CapabilityOffering struct {
	StripeProductID string
	Capabilities    []Capability
}

type Capability struct {
	Slug      string
	ClientIDs []string
}

// PurchaseWithCommonContent merges the per-purchase details with the offering wide content
type PurchaseWithCommonContent struct {
	StripeProductID string
	Details         []string
	ProductName     string
	Subtitle        string
	WebIcon         string
	CommonContent   CommonContentResult
}
