package eligibility

// Result is the outcome of an eligibility check for a target plan
type Result string

// Defining the possible outcomes. Each maps to a distinct checkout treatment.
const (
	ResultCreate       Result = "create"
	ResultUpgrade      Result = "upgrade"
	ResultDowngrade    Result = "downgrade"
	ResultBlockedIAP   Result = "blocked_iap"
	ResultExistingPlan Result = "existing_plan"
	ResultInvalid      Result = "invalid"
)
