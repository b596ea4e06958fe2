// Package trial starts trials and reports subscription usage. Failures are
// classified and notified the same way as diagnosis submissions.
package trial

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"plantdoc/internal/domain"
	"plantdoc/internal/services/upload"
)

// Service wraps a TrialClient with notifications.
type Service struct {
	client domain.TrialClient
	sink   domain.Notifier
	log    *zap.Logger
}

// New returns a trial service. A nil logger means zap.NewNop().
func New(client domain.TrialClient, sink domain.Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{client: client, sink: sink, log: log}
}

// Start starts the trial. A refusal (for example TRIAL_ACTIVE) is returned as
// a *domain.SubmissionError after notifying it.
func (s *Service) Start(ctx context.Context) (domain.TrialStatus, error) {
	st, err := s.client.StartTrial(ctx)
	if err != nil {
		se := upload.Classify(err)
		s.log.Info("start trial failed", zap.String("kind", se.Kind().String()), zap.Error(err))
		s.sink.Notify(domain.Notification{
			Title:       "Could not start trial",
			Description: se.Message,
			Kind:        domain.NotificationDestructive,
		})
		return domain.TrialStatus{}, se
	}
	s.sink.Notify(domain.Notification{
		Title:       "Trial started",
		Description: fmt.Sprintf("%d days of unlimited diagnoses", st.TrialDaysLeft),
		Kind:        domain.NotificationSuccess,
	})
	return st, nil
}

// Status returns plan, trial and usage.
func (s *Service) Status(ctx context.Context) (domain.TrialStatus, error) {
	st, err := s.client.TrialStatus(ctx)
	if err != nil {
		return domain.TrialStatus{}, fmt.Errorf("subscription status: %w", err)
	}
	return st, nil
}

// Compile-time assertion that Service implements domain.TrialService.
var _ domain.TrialService = (*Service)(nil)
