package server

import (
	"slices"
	"sync"
	"time"

	"plantdoc/internal/domain"
)

const (
	planFree    = "free"
	planTrial   = "trial"
	planPremium = "premium"
)

// account is the in-memory state behind one bearer token.
type account struct {
	premium        bool
	trialStartedAt time.Time
	month          string
	used           int
	diagnoses      []domain.DiagnosisRecord // newest first
}

// accounts holds every account seen by the process.
type accounts struct {
	mu     sync.Mutex
	byTok  map[string]*account
	limit  int
	trial  time.Duration
	now    func() time.Time
	recent int
}

func newAccounts(o Options) *accounts {
	a := &accounts{
		byTok:  make(map[string]*account),
		limit:  o.MonthlyLimit,
		trial:  time.Duration(o.TrialDays) * 24 * time.Hour,
		now:    o.Now,
		recent: o.RecentLimit,
	}
	for _, tok := range o.PremiumTokens {
		a.byTok[tok] = &account{premium: true}
	}
	return a
}

// getLocked returns the account for tok, creating a free one on first use,
// and rolls the usage counter over at month boundaries.
func (a *accounts) getLocked(tok string) *account {
	acc, ok := a.byTok[tok]
	if !ok {
		acc = &account{}
		a.byTok[tok] = acc
	}
	if m := a.now().Format("2006-01"); acc.month != m {
		acc.month = m
		acc.used = 0
	}
	return acc
}

func (a *accounts) trialActiveLocked(acc *account) bool {
	return !acc.trialStartedAt.IsZero() && a.now().Before(acc.trialStartedAt.Add(a.trial))
}

func (a *accounts) trialDaysLeftLocked(acc *account) int {
	if !a.trialActiveLocked(acc) {
		return 0
	}
	left := acc.trialStartedAt.Add(a.trial).Sub(a.now())
	return int((left + 24*time.Hour - 1) / (24 * time.Hour))
}

func (a *accounts) statusLocked(acc *account) domain.TrialStatus {
	st := domain.TrialStatus{
		Plan:          planFree,
		TrialUsed:     !acc.trialStartedAt.IsZero(),
		UsedThisMonth: acc.used,
		MonthlyLimit:  a.limit,
	}
	switch {
	case acc.premium:
		st.Plan = planPremium
		st.MonthlyLimit = 0
	case a.trialActiveLocked(acc):
		st.Plan = planTrial
		st.TrialActive = true
		st.TrialDaysLeft = a.trialDaysLeftLocked(acc)
		ends := acc.trialStartedAt.Add(a.trial)
		st.TrialEndsAt = &ends
	}
	return st
}

// errQuota carries the refusal body for a diagnosis over the monthly limit.
type errQuota struct{ body domain.FailureBody }

func (e *errQuota) Error() string { return e.body.Message }

// reserve counts one diagnosis against tok's monthly allowance.
func (a *accounts) reserve(tok string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	acc := a.getLocked(tok)
	if acc.premium || a.trialActiveLocked(acc) || acc.used < a.limit {
		acc.used++
		return nil
	}
	trialUsed := !acc.trialStartedAt.IsZero()
	canStart := !trialUsed
	body := domain.FailureBody{
		Message:       "You have reached your monthly limit of free diagnoses.",
		Error:         domain.CodeMonthlyLimitReached,
		CanStartTrial: &canStart,
		TrialUsed:     &trialUsed,
	}
	return &errQuota{body: body}
}

// release returns a reservation whose diagnosis was never delivered.
func (a *accounts) release(tok string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if acc := a.getLocked(tok); acc.used > 0 {
		acc.used--
	}
}

func (a *accounts) record(tok string, rec domain.DiagnosisRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc := a.getLocked(tok)
	acc.diagnoses = slices.Insert(acc.diagnoses, 0, rec)
}

func (a *accounts) list(tok string, recentOnly bool) []domain.DiagnosisRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc := a.getLocked(tok)
	out := acc.diagnoses
	if recentOnly && a.recent > 0 && len(out) > a.recent {
		out = out[:a.recent]
	}
	return append([]domain.DiagnosisRecord{}, out...)
}

// startTrial begins the trial or explains why it cannot.
func (a *accounts) startTrial(tok string) (domain.TrialStatus, *domain.FailureBody) {
	a.mu.Lock()
	defer a.mu.Unlock()

	acc := a.getLocked(tok)
	switch {
	case a.trialActiveLocked(acc):
		days := a.trialDaysLeftLocked(acc)
		return domain.TrialStatus{}, &domain.FailureBody{
			Message:       "Your free trial is already active.",
			Error:         domain.CodeTrialActive,
			TrialDaysLeft: &days,
		}
	case !acc.trialStartedAt.IsZero():
		used, canStart := true, false
		return domain.TrialStatus{}, &domain.FailureBody{
			Message:       "You have already used your free trial.",
			Error:         domain.CodeTrialUsed,
			TrialUsed:     &used,
			CanStartTrial: &canStart,
		}
	}
	acc.trialStartedAt = a.now()
	return a.statusLocked(acc), nil
}

func (a *accounts) status(tok string) domain.TrialStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statusLocked(a.getLocked(tok))
}
