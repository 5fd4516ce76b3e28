package contentful

const eligibilityContentByPlanIdsQuery = `
query EligibilityContentByPlanIds($skip: Int!, $limit: Int!, $locale: String!, $stripePlanIds: [String]!) {
  purchaseCollection(skip: $skip, limit: $limit, locale: $locale, where: { stripePlanChoices_contains_some: $stripePlanIds }) {
    total
    items {
      stripePlanChoices
      offering {
        stripeProductId
        countries
        linkedFrom {
          subGroupCollection(skip: 0, limit: 25) {
            items {
              groupName
              offeringCollection(skip: 0, limit: 20) {
                items {
                  stripeProductId
                  countries
                }
              }
            }
          }
        }
      }
    }
  }
}`

const capabilityServiceByPlanIdsQuery = `
query CapabilityServiceByPlanIds($skip: Int!, $limit: Int!, $locale: String!, $stripePlanIds: [String]!) {
  purchaseCollection(skip: $skip, limit: $limit, locale: $locale, where: { stripePlanChoices_contains_some: $stripePlanIds }) {
    total
    items {
      stripePlanChoices
      offering {
        stripeProductId
        capabilitiesCollection(skip: 0, limit: 25) {
          items {
            slug
            servicesCollection(skip: 0, limit: 15) {
              items {
                oauthClientId
              }
            }
          }
        }
      }
    }
  }
}`

const purchaseWithDetailsOfferingContentQuery = `
query PurchaseWithDetailsOfferingContent($skip: Int!, $limit: Int!, $locale: String!, $stripePlanIds: [String]!) {
  purchaseCollection(skip: $skip, limit: $limit, locale: $locale, where: { stripePlanChoices_contains_some: $stripePlanIds }) {
    total
    items {
      stripePlanChoices
      purchaseDetails {
        details
        productName
        subtitle
        webIcon
      }
      offering {
        stripeProductId
        commonContent {
          privacyNoticeUrl
          privacyNoticeDownloadUrl
          termsOfServiceUrl
          termsOfServiceDownloadUrl
          cancellationUrl
          emailIcon
          successActionButtonUrl
          successActionButtonLabel
          newsletterLabelTextCode
          newsletterSlug
        }
      }
    }
  }
}`
