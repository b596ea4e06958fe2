package types

import (
	"encoding/json"
	"time"
)

// DiagnosisRecord is the result of a successful submission. Fields the client
// does not model are kept verbatim in Extra and written back on marshal.
type DiagnosisRecord struct {
	ID         string
	Disease    string
	PlantType  string
	Confidence float64
	Treatment  string
	CreatedAt  time.Time

	Extra map[string]json.RawMessage
}

type diagnosisFields struct {
	ID         string    `json:"id"`
	Disease    string    `json:"disease"`
	PlantType  string    `json:"plantType,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	Treatment  string    `json:"treatment,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
}

var knownDiagnosisFields = []string{"id", "disease", "plantType", "confidence", "treatment", "createdAt"}

// MarshalJSON merges the known fields over Extra.
func (r DiagnosisRecord) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(diagnosisFields{
		ID:         r.ID,
		Disease:    r.Disease,
		PlantType:  r.PlantType,
		Confidence: r.Confidence,
		Treatment:  r.Treatment,
		CreatedAt:  r.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return known, nil
	}
	merged := make(map[string]json.RawMessage, len(r.Extra)+len(knownDiagnosisFields))
	for k, v := range r.Extra {
		merged[k] = v
	}
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	return json.Marshal(merged)
}

// UnmarshalJSON mirrors MarshalJSON.
func (r *DiagnosisRecord) UnmarshalJSON(data []byte) error {
	var known diagnosisFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range knownDiagnosisFields {
		delete(all, k)
	}
	if len(all) == 0 {
		all = nil
	}
	*r = DiagnosisRecord{
		ID:         known.ID,
		Disease:    known.Disease,
		PlantType:  known.PlantType,
		Confidence: known.Confidence,
		Treatment:  known.Treatment,
		CreatedAt:  known.CreatedAt,
		Extra:      all,
	}
	return nil
}

// TrialStatus describes the account's trial and usage as reported by the
// service.
type TrialStatus struct {
	Plan          string     `json:"plan"`
	TrialActive   bool       `json:"trialActive"`
	TrialUsed     bool       `json:"trialUsed"`
	TrialDaysLeft int        `json:"trialDaysLeft,omitempty"`
	TrialEndsAt   *time.Time `json:"trialEndsAt,omitempty"`
	UsedThisMonth int        `json:"usedThisMonth"`
	MonthlyLimit  int        `json:"monthlyLimit"`
}

// CacheEntry is one cached result set.
type CacheEntry struct {
	Records   []DiagnosisRecord `json:"records"`
	FetchedAt time.Time         `json:"fetched_at"`
	Stale     bool              `json:"stale"`
}
