package diagnosis_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantdoc/internal/diagnosis"
	"plantdoc/internal/domain"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestDiagnose_SendsMultipartImage(t *testing.T) {
	var gotAuth, gotName, gotPartType string
	var gotBytes []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/diagnose", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		f, fh, err := r.FormFile(diagnosis.ImageField)
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		gotName = fh.Filename
		gotPartType = fh.Header.Get("Content-Type")
		gotBytes, _ = io.ReadAll(f)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"d-1","disease":"Late Blight","confidence":0.91,"severity":"high"}`)
	}))
	defer srv.Close()

	c := diagnosis.NewHTTP(srv.URL+"/", srv.Client(), diagnosis.WithToken("tok"))
	rec, err := c.Diagnose(context.Background(), domain.NewImageFile("leaf.png", pngHeader))
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "leaf.png", gotName)
	assert.Equal(t, "image/png", gotPartType)
	assert.Equal(t, pngHeader, gotBytes)

	assert.Equal(t, "d-1", rec.ID)
	assert.Equal(t, "Late Blight", rec.Disease)
	assert.InDelta(t, 0.91, rec.Confidence, 1e-9)
	assert.JSONEq(t, `"high"`, string(rec.Extra["severity"]))
}

func TestDiagnose_FailureBodyBecomesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":       "Monthly limit reached.",
			"error":         "MONTHLY_LIMIT_REACHED",
			"canStartTrial": true,
		})
	}))
	defer srv.Close()

	c := diagnosis.NewHTTP(srv.URL, srv.Client())
	_, err := c.Diagnose(context.Background(), domain.NewImageFile("leaf.png", pngHeader))

	var se *domain.ServiceError
	require.True(t, errors.As(err, &se), "want *ServiceError, got %T", err)
	assert.Equal(t, http.StatusForbidden, se.Status)
	assert.Equal(t, "MONTHLY_LIMIT_REACHED", se.Body.Error)
	require.NotNil(t, se.Body.CanStartTrial)
	assert.True(t, *se.Body.CanStartTrial)
	assert.Nil(t, se.Body.TrialUsed)
}

func TestDiagnose_NonJSONFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := diagnosis.NewHTTP(srv.URL, srv.Client()).
		Diagnose(context.Background(), domain.NewImageFile("a.png", pngHeader))

	var se *domain.ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Status)
	assert.Empty(t, se.Body.Message)
}

func TestDiagnose_TooLargeNeverHitsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	c := diagnosis.NewHTTP(srv.URL, srv.Client(), diagnosis.WithMaxImageBytes(8))
	_, err := c.Diagnose(context.Background(), domain.NewImageFile("big.png", pngHeader))
	require.ErrorIs(t, err, diagnosis.ErrImageTooLarge)
	assert.Zero(t, calls)
}

func TestHistoryAndTrialEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/diagnoses", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"1","disease":"a"},{"id":"2","disease":"b"}]`)
	})
	mux.HandleFunc("GET /api/diagnoses/recent", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"2","disease":"b"}]`)
	})
	mux.HandleFunc("POST /api/trial/start", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"plan":"trial","trialActive":true,"trialDaysLeft":7}`)
	})
	mux.HandleFunc("GET /api/subscription", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"plan":"free","usedThisMonth":2,"monthlyLimit":5}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := diagnosis.NewHTTP(srv.URL, srv.Client())
	ctx := context.Background()

	all, err := c.ListDiagnoses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	recent, err := c.RecentDiagnoses(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "2", recent[0].ID)

	st, err := c.StartTrial(ctx)
	require.NoError(t, err)
	assert.True(t, st.TrialActive)
	assert.Equal(t, 7, st.TrialDaysLeft)

	sub, err := c.TrialStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sub.UsedThisMonth)
	assert.Equal(t, 5, sub.MonthlyLimit)
}
