package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"plantdoc/internal/domain"
)

// ImageField is the multipart field carrying the uploaded image.
const ImageField = "image"

// DefaultMaxImageBytes caps uploads when no limit is configured.
const DefaultMaxImageBytes = 10 << 20

// maxErrorBody bounds how much of a failure body is read.
const maxErrorBody = 64 << 10

// ErrImageTooLarge is returned before any network call when the payload
// exceeds the configured limit.
var ErrImageTooLarge = errors.New("image exceeds the upload size limit")

// HTTP talks to the Diagnosis Service over HTTP.
type HTTP struct {
	Base          string
	HTTP          *http.Client
	Token         string
	MaxImageBytes int64

	log *zap.Logger
}

// Option configures an HTTP client.
type Option func(*HTTP)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option { return func(c *HTTP) { c.Token = token } }

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option { return func(c *HTTP) { c.log = l } }

// WithMaxImageBytes caps the upload size.
func WithMaxImageBytes(n int64) Option { return func(c *HTTP) { c.MaxImageBytes = n } }

// NewHTTP returns a client for the service at base. A nil httpClient means
// http.DefaultClient.
func NewHTTP(base string, httpClient *http.Client, opts ...Option) *HTTP {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &HTTP{
		Base:          strings.TrimRight(base, "/"),
		HTTP:          httpClient,
		MaxImageBytes: DefaultMaxImageBytes,
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Diagnose uploads file and returns the service's diagnosis.
func (c *HTTP) Diagnose(ctx context.Context, file *domain.ImageFile) (domain.DiagnosisRecord, error) {
	if file == nil {
		return domain.DiagnosisRecord{}, errors.New("diagnose: nil image")
	}
	body, contentType, err := c.multipartBody(file)
	if err != nil {
		return domain.DiagnosisRecord{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/api/diagnose", body)
	if err != nil {
		return domain.DiagnosisRecord{}, err
	}
	req.Header.Set("Content-Type", contentType)

	var out domain.DiagnosisRecord
	if err := c.do(req, &out); err != nil {
		return domain.DiagnosisRecord{}, err
	}
	return out, nil
}

// ListDiagnoses returns every diagnosis stored for the account.
func (c *HTTP) ListDiagnoses(ctx context.Context) ([]domain.DiagnosisRecord, error) {
	var out []domain.DiagnosisRecord
	return out, c.getJSON(ctx, "/api/diagnoses", &out)
}

// RecentDiagnoses returns the most recent diagnoses.
func (c *HTTP) RecentDiagnoses(ctx context.Context) ([]domain.DiagnosisRecord, error) {
	var out []domain.DiagnosisRecord
	return out, c.getJSON(ctx, "/api/diagnoses/recent", &out)
}

// StartTrial starts the account's trial.
func (c *HTTP) StartTrial(ctx context.Context) (domain.TrialStatus, error) {
	var out domain.TrialStatus
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/api/trial/start", nil)
	if err != nil {
		return out, err
	}
	return out, c.do(req, &out)
}

// TrialStatus reports plan, trial and usage.
func (c *HTTP) TrialStatus(ctx context.Context) (domain.TrialStatus, error) {
	var out domain.TrialStatus
	return out, c.getJSON(ctx, "/api/subscription", &out)
}

// multipartBody reads the payload (bounded by MaxImageBytes) and packages it
// as a single-part form. The part's content type is sniffed from the bytes.
func (c *HTTP) multipartBody(file *domain.ImageFile) (io.Reader, string, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer rc.Close()

	limit := c.MaxImageBytes
	if limit <= 0 {
		limit = DefaultMaxImageBytes
	}
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", file.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, "", fmt.Errorf("%s: %w (%d bytes max)", file.Name, ErrImageTooLarge, limit)
	}

	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, ImageField, file.Name))
	h.Set("Content-Type", mimetype.Detect(data).String())
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}

func (c *HTTP) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// do sends req and decodes a 2xx body into out. Non-2xx responses become
// *domain.ServiceError.
func (c *HTTP) do(req *http.Request, out any) error {
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("request done",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode/100 != 2 {
		return decodeFailure(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// decodeFailure turns a non-2xx response into a ServiceError. A body that is
// not the expected JSON leaves the message empty.
func decodeFailure(resp *http.Response) error {
	se := &domain.ServiceError{Status: resp.StatusCode}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(b) == 0 {
		return se
	}
	_ = json.Unmarshal(b, &se.Body)
	return se
}

var _ domain.ServiceClient = (*HTTP)(nil)
