package types

import "fmt"

// Machine-readable error codes reported by the Diagnosis Service.
const (
	CodeMonthlyLimitReached = "MONTHLY_LIMIT_REACHED"
	CodeTrialActive         = "TRIAL_ACTIVE"
	CodeTrialUsed           = "TRIAL_USED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidImage        = "INVALID_IMAGE"
)

// FailureBody is the JSON body of a non-2xx response. Optional fields are nil
// when the service did not send them.
type FailureBody struct {
	Message       string `json:"message"`
	Error         string `json:"error,omitempty"`
	CanStartTrial *bool  `json:"canStartTrial,omitempty"`
	TrialUsed     *bool  `json:"trialUsed,omitempty"`
	TrialDaysLeft *int   `json:"trialDaysLeft,omitempty"`
}

// ServiceError is a non-2xx response from the Diagnosis Service.
type ServiceError struct {
	Status int
	Body   FailureBody
}

func (e *ServiceError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("diagnosis service: %d: %s", e.Status, e.Body.Message)
	}
	return fmt.Sprintf("diagnosis service: status %d", e.Status)
}
