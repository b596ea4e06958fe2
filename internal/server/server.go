package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"plantdoc/internal/crypto"
	"plantdoc/internal/domain"
)

// ImageField is the multipart field carrying the upload.
const ImageField = "image"

// InvalidSubjectMessage is returned for uploads that are not images.
const InvalidSubjectMessage = "The uploaded file does not appear to contain a plant leaf."

// Options configures the development service.
type Options struct {
	MonthlyLimit  int
	TrialDays     int
	RecentLimit   int
	MaxImageBytes int64
	PremiumTokens []string
	Latency       time.Duration // delays every diagnosis
	Now           func() time.Time
	Log           *zap.Logger
}

// DefaultOptions mirrors the free plan of the hosted service.
func DefaultOptions() Options {
	return Options{
		MonthlyLimit:  5,
		TrialDays:     7,
		RecentLimit:   5,
		MaxImageBytes: 10 << 20,
	}
}

// Server is an in-memory Diagnosis Service.
type Server struct {
	opts     Options
	log      *zap.Logger
	accounts *accounts
	engine   *gin.Engine
}

// New builds the service and its routes.
func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = DefaultOptions().MaxImageBytes
	}
	s := &Server{opts: opts, log: opts.Log, accounts: newAccounts(opts)}

	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog)

	api := r.Group("/api", s.requireToken)
	api.POST("/diagnose", s.diagnose)
	api.GET("/diagnoses", s.listDiagnoses)
	api.GET("/diagnoses/recent", s.recentDiagnoses)
	api.POST("/trial/start", s.startTrial)
	api.GET("/subscription", s.subscription)

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("diagnosis service listening", zap.String("addr", addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// accessLog records method, path, status, bytes and duration per request.
func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	reqID := c.GetHeader("X-Request-ID")
	if reqID == "" {
		reqID = uuid.NewString()
	}
	c.Header("X-Request-ID", reqID)

	c.Next()

	s.log.Info("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("remote", c.ClientIP()),
		zap.Int("status", c.Writer.Status()),
		zap.Int("bytes", c.Writer.Size()),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", reqID))
}

func (s *Server) requireToken(c *gin.Context) {
	tok, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(tok) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, domain.FailureBody{
			Message: "Unauthorized",
			Error:   domain.CodeUnauthorized,
		})
		return
	}
	c.Set("token", strings.TrimSpace(tok))
	c.Next()
}

func (s *Server) diagnose(c *gin.Context) {
	tok := c.GetString("token")

	fh, err := c.FormFile(ImageField)
	if err != nil {
		c.JSON(http.StatusBadRequest, domain.FailureBody{Message: "No image uploaded"})
		return
	}
	if fh.Size > s.opts.MaxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, domain.FailureBody{
			Message: fmt.Sprintf("Image exceeds %d bytes", s.opts.MaxImageBytes),
		})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, domain.FailureBody{Message: "Could not read upload"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.opts.MaxImageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, domain.FailureBody{Message: "Could not read upload"})
		return
	}

	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		s.log.Debug("rejecting non-image upload", zap.String("detected", mt.String()))
		c.JSON(http.StatusUnprocessableEntity, domain.FailureBody{
			Message: InvalidSubjectMessage,
			Error:   domain.CodeInvalidImage,
		})
		return
	}

	if err := s.accounts.reserve(tok); err != nil {
		var q *errQuota
		if errors.As(err, &q) {
			c.JSON(http.StatusForbidden, q.body)
			return
		}
		c.JSON(http.StatusInternalServerError, domain.FailureBody{Message: err.Error()})
		return
	}

	if s.opts.Latency > 0 {
		select {
		case <-time.After(s.opts.Latency):
		case <-c.Request.Context().Done():
			s.accounts.release(tok)
			return
		}
	}

	rec := s.label(data)
	s.accounts.record(tok, rec)
	c.JSON(http.StatusOK, rec)
}

// label picks a deterministic diagnosis for the image bytes.
func (s *Server) label(data []byte) domain.DiagnosisRecord {
	cond := catalogue[crypto.Pick(data, len(catalogue))]
	fp := crypto.Fingerprint(data)
	raw, _ := hex.DecodeString(fp)
	// 0.70..0.99 from the first fingerprint byte
	confidence := 0.70 + float64(raw[0]%30)/100

	fpJSON, _ := json.Marshal(fp)
	return domain.DiagnosisRecord{
		ID:         uuid.NewString(),
		Disease:    cond.Disease,
		PlantType:  cond.PlantType,
		Confidence: confidence,
		Treatment:  cond.Treatment,
		CreatedAt:  s.opts.Now().UTC(),
		Extra:      map[string]json.RawMessage{"fingerprint": fpJSON},
	}
}

func (s *Server) listDiagnoses(c *gin.Context) {
	c.JSON(http.StatusOK, s.accounts.list(c.GetString("token"), false))
}

func (s *Server) recentDiagnoses(c *gin.Context) {
	c.JSON(http.StatusOK, s.accounts.list(c.GetString("token"), true))
}

func (s *Server) startTrial(c *gin.Context) {
	st, refusal := s.accounts.startTrial(c.GetString("token"))
	if refusal != nil {
		c.JSON(http.StatusForbidden, refusal)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) subscription(c *gin.Context) {
	c.JSON(http.StatusOK, s.accounts.status(c.GetString("token")))
}
