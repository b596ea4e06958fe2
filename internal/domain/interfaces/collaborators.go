package interfaces

import (
	"context"

	domaintypes "plantdoc/internal/domain/types"
)

// DiagnosisService classifies an uploaded image. A non-2xx answer is returned
// as *domaintypes.ServiceError; anything else is a transport failure.
type DiagnosisService interface {
	Diagnose(ctx context.Context, file *domaintypes.ImageFile) (domaintypes.DiagnosisRecord, error)
}

// DiagnosisHistory lists previously stored diagnoses.
type DiagnosisHistory interface {
	ListDiagnoses(ctx context.Context) ([]domaintypes.DiagnosisRecord, error)
	RecentDiagnoses(ctx context.Context) ([]domaintypes.DiagnosisRecord, error)
}

// TrialClient reads and changes the account's trial state.
type TrialClient interface {
	StartTrial(ctx context.Context) (domaintypes.TrialStatus, error)
	TrialStatus(ctx context.Context) (domaintypes.TrialStatus, error)
}

// ServiceClient is everything the CLI needs from the remote service.
type ServiceClient interface {
	DiagnosisService
	DiagnosisHistory
	TrialClient
}

// Notifier surfaces success and failure messages to the user.
type Notifier interface {
	Notify(n domaintypes.Notification)
}

// CacheInvalidator marks a cached result set as stale.
type CacheInvalidator interface {
	Invalidate(key domaintypes.CacheKey)
}
