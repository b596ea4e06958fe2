package trial_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantdoc/internal/domain"
	"plantdoc/internal/notify"
	"plantdoc/internal/services/trial"
)

type fakeTrialClient struct {
	start domain.TrialStatus
	err   error
}

func (f *fakeTrialClient) StartTrial(context.Context) (domain.TrialStatus, error) {
	return f.start, f.err
}

func (f *fakeTrialClient) TrialStatus(context.Context) (domain.TrialStatus, error) {
	return domain.TrialStatus{Plan: "free", MonthlyLimit: 5}, nil
}

func TestStart_Success(t *testing.T) {
	var notes []domain.Notification
	svc := trial.New(&fakeTrialClient{start: domain.TrialStatus{Plan: "trial", TrialActive: true, TrialDaysLeft: 7}},
		notify.Func(func(n domain.Notification) { notes = append(notes, n) }), nil)

	st, err := svc.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, st.TrialActive)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationSuccess, notes[0].Kind)
}

func TestStart_TrialActiveIsClassified(t *testing.T) {
	days := 4
	var notes []domain.Notification
	svc := trial.New(&fakeTrialClient{err: &domain.ServiceError{
		Status: http.StatusForbidden,
		Body:   domain.FailureBody{Message: "Trial already running.", Error: domain.CodeTrialActive, TrialDaysLeft: &days},
	}}, notify.Func(func(n domain.Notification) { notes = append(notes, n) }), nil)

	_, err := svc.Start(context.Background())

	var se *domain.SubmissionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, domain.TrialActive{DaysLeft: 4}, se.Cause)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationDestructive, notes[0].Kind)
}

func TestStatus(t *testing.T) {
	svc := trial.New(&fakeTrialClient{}, notify.Func(func(domain.Notification) {}), nil)
	st, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, st.MonthlyLimit)
}
