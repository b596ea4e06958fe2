package types

import "errors"

// ErrorKind is the machine-readable classification of a failed submission.
type ErrorKind string

// String returns the string form of the kind.
func (k ErrorKind) String() string { return string(k) }

const (
	KindNoFileSelected ErrorKind = "NO_FILE_SELECTED"
	KindTrialAvailable ErrorKind = "TRIAL_AVAILABLE"
	KindUpgradeNeeded  ErrorKind = "UPGRADE_NEEDED"
	KindMonthlyLimit   ErrorKind = "MONTHLY_LIMIT"
	KindTrialActive    ErrorKind = "TRIAL_ACTIVE"
	KindInvalidSubject ErrorKind = "INVALID_SUBJECT"
	KindGeneric        ErrorKind = "GENERIC"
)

// Cause is the discriminated reason behind a SubmissionError. The set of
// implementations is closed; switch on the concrete type to get the fields
// that belong to a kind.
type Cause interface {
	Kind() ErrorKind
	isCause()
}

// NoFileSelected: submit was called with nothing selected. Never reaches the
// network.
type NoFileSelected struct{}

// TrialAvailable: monthly limit reached, the account may start a trial.
type TrialAvailable struct{}

// UpgradeNeeded: monthly limit reached and the trial was already used.
type UpgradeNeeded struct{}

// MonthlyLimit: monthly limit reached, no trial information reported.
type MonthlyLimit struct{}

// TrialActive: the service refused because a trial is running.
type TrialActive struct {
	DaysLeft int
}

// InvalidSubject: the image does not look like a supported plant leaf.
type InvalidSubject struct{}

// Generic: any other service or transport failure. Status is zero when no
// response was received.
type Generic struct {
	Status int
}

func (NoFileSelected) Kind() ErrorKind { return KindNoFileSelected }
func (TrialAvailable) Kind() ErrorKind { return KindTrialAvailable }
func (UpgradeNeeded) Kind() ErrorKind  { return KindUpgradeNeeded }
func (MonthlyLimit) Kind() ErrorKind   { return KindMonthlyLimit }
func (TrialActive) Kind() ErrorKind    { return KindTrialActive }
func (InvalidSubject) Kind() ErrorKind { return KindInvalidSubject }
func (Generic) Kind() ErrorKind        { return KindGeneric }

func (NoFileSelected) isCause() {}
func (TrialAvailable) isCause() {}
func (UpgradeNeeded) isCause()  {}
func (MonthlyLimit) isCause()   {}
func (TrialActive) isCause()    {}
func (InvalidSubject) isCause() {}
func (Generic) isCause()        {}

// SubmissionError is a classified submission failure.
type SubmissionError struct {
	Message string
	Cause   Cause
	Err     error
}

func (e *SubmissionError) Error() string { return e.Message }

// Unwrap returns the underlying transport or service error, if any.
func (e *SubmissionError) Unwrap() error { return e.Err }

// Kind returns the kind of the cause, or KindGeneric when unset.
func (e *SubmissionError) Kind() ErrorKind {
	if e.Cause == nil {
		return KindGeneric
	}
	return e.Cause.Kind()
}

// NeedsUpgrade reports whether the failure is a usage limit the user can lift
// by starting a trial or upgrading.
func (e *SubmissionError) NeedsUpgrade() bool {
	switch e.Cause.(type) {
	case TrialAvailable, UpgradeNeeded, MonthlyLimit:
		return true
	}
	return false
}

// KindOf returns the kind of a *SubmissionError anywhere in err's chain, or
// the empty kind.
func KindOf(err error) ErrorKind {
	var se *SubmissionError
	if errors.As(err, &se) {
		return se.Kind()
	}
	return ""
}
