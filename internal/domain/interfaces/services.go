package interfaces

import (
	"context"

	domaintypes "plantdoc/internal/domain/types"
)

// CredentialService manages the locally stored API token.
type CredentialService interface {
	Login(passphrase string, token string) error
	Token(passphrase string) (string, error)
	Logout() error
}

// HistoryService reads diagnosis history through the query cache.
type HistoryService interface {
	All(ctx context.Context, refresh bool) ([]domaintypes.DiagnosisRecord, error)
	Recent(ctx context.Context, refresh bool) ([]domaintypes.DiagnosisRecord, error)
}

// TrialService starts trials and reports subscription usage.
type TrialService interface {
	Start(ctx context.Context) (domaintypes.TrialStatus, error)
	Status(ctx context.Context) (domaintypes.TrialStatus, error)
}
