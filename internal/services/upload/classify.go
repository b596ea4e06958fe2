package upload

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"plantdoc/internal/domain"
)

// User-facing message fragments.
const (
	trialInvitation  = "Start your free 7-day trial to keep diagnosing."
	upgradeText      = "Upgrade to Premium for unlimited diagnoses."
	warningMarker    = "⚠️ "
	subjectGuidance  = "Please upload a clear photo of a tomato, potato, or pepper leaf."
	genericFallback  = "Failed to diagnose the image. Please try again."
	timeoutFallback  = "The diagnosis service did not respond in time. Please try again."
	noFileMessage    = "Please select an image first."
	successTitle     = "Diagnosis complete"
	defaultFailTitle = "Diagnosis failed"
)

// invalidSubjectHints mark a service message as "not a recognised plant".
var invalidSubjectHints = []string{
	"does not appear to contain",
	"not appear to contain",
	"not a plant",
}

// Classify turns any error returned by a DiagnosisService into a
// *domain.SubmissionError. Errors that already are one pass through.
//
// Precedence: 403 + MONTHLY_LIMIT_REACHED, then 403 + TRIAL_ACTIVE, then the
// message heuristic for non-plant images (any status), then GENERIC.
func Classify(err error) *domain.SubmissionError {
	if err == nil {
		return nil
	}
	var se *domain.SubmissionError
	if errors.As(err, &se) {
		return se
	}
	var svcErr *domain.ServiceError
	if !errors.As(err, &svcErr) {
		msg := genericFallback
		if errors.Is(err, context.DeadlineExceeded) {
			msg = timeoutFallback
		}
		return &domain.SubmissionError{Message: msg, Cause: domain.Generic{}, Err: err}
	}

	cause, msg := classifyFailure(svcErr.Status, svcErr.Body)
	return &domain.SubmissionError{Message: msg, Cause: cause, Err: err}
}

func classifyFailure(status int, body domain.FailureBody) (domain.Cause, string) {
	forbidden := status == http.StatusForbidden

	switch {
	case forbidden && body.Error == domain.CodeMonthlyLimitReached:
		switch {
		case isSet(body.CanStartTrial):
			return domain.TrialAvailable{}, join(body.Message, trialInvitation)
		case isSet(body.TrialUsed):
			return domain.UpgradeNeeded{}, join(body.Message, upgradeText)
		default:
			return domain.MonthlyLimit{}, join(body.Message, upgradeText)
		}

	case forbidden && body.Error == domain.CodeTrialActive:
		days := 0
		if body.TrialDaysLeft != nil {
			days = *body.TrialDaysLeft
		}
		return domain.TrialActive{DaysLeft: days}, join(body.Message, trialContinuation(days))

	case isInvalidSubject(body.Message):
		return domain.InvalidSubject{}, warningMarker + join(body.Message, subjectGuidance)

	default:
		msg := body.Message
		if msg == "" {
			msg = genericFallback
		}
		return domain.Generic{Status: status}, msg
	}
}

func trialContinuation(days int) string {
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return fmt.Sprintf("Your trial has %d %s left. Enjoy unlimited diagnoses until then.", days, unit)
}

func isInvalidSubject(msg string) bool {
	lower := strings.ToLower(msg)
	for _, hint := range invalidSubjectHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

func isSet(b *bool) bool { return b != nil && *b }

func join(msg, suffix string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return suffix
	}
	return msg + " " + suffix
}

// FailureTitle is the notification title shown for a classified failure.
func FailureTitle(err *domain.SubmissionError) string {
	switch err.Cause.(type) {
	case domain.NoFileSelected:
		return "No image selected"
	case domain.TrialAvailable, domain.UpgradeNeeded, domain.MonthlyLimit:
		return "Monthly limit reached"
	case domain.TrialActive:
		return "Trial already active"
	case domain.InvalidSubject:
		return "Not a plant leaf"
	case domain.Generic:
		return defaultFailTitle
	}
	return defaultFailTitle
}
