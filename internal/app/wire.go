package app

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"plantdoc/internal/cache"
	"plantdoc/internal/diagnosis"
	"plantdoc/internal/domain"
	"plantdoc/internal/notify"
	credentialsvc "plantdoc/internal/services/credential"
	historysvc "plantdoc/internal/services/history"
	trialsvc "plantdoc/internal/services/trial"
	"plantdoc/internal/services/upload"
	"plantdoc/internal/store"
)

// ErrNotLoggedIn is returned when no token is configured and none is stored.
var ErrNotLoggedIn = errors.New("no API token: set PLANTDOC_TOKEN or run `plantdoc login`")

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Config *Config
	Log    *zap.Logger

	Credentials *store.CredentialFileStore
	CacheStore  *store.CacheFileStore
	Cache       *cache.QueryCache

	Client   *diagnosis.HTTP
	Notifier domain.Notifier

	CredentialSvc *credentialsvc.Service
	History       *historysvc.Service
	Trial         *trialsvc.Service

	HTTP *http.Client
}

// NewWire constructs the dependency graph from cfg. Notifications go to out
// and to the log.
func NewWire(cfg *Config, log *zap.Logger, out io.Writer) (*Wire, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	// File-based stores
	credStore := store.NewCredentialFileStore(cfg.Client.Home)
	cacheStore := store.NewCacheFileStore(cfg.Client.Home)

	// Ensure an HTTP client is available for outbound calls. Deadlines come
	// from contexts so uploads are bounded by the submit timeout only.
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	client := diagnosis.NewHTTP(cfg.Service.BaseURL, httpClient,
		diagnosis.WithToken(cfg.Service.Token),
		diagnosis.WithLogger(log.Named("client")),
		diagnosis.WithMaxImageBytes(cfg.Client.MaxImageBytes),
	)

	qc := cache.New(cacheStore,
		cache.WithLogger(log.Named("cache")),
		cache.WithMaxAge(cfg.GetCacheMaxAge()),
	)

	var sink domain.Notifier = notify.NewLog(log.Named("notify"))
	if out != nil {
		sink = notify.Multi{notify.NewConsole(out), sink}
	}

	return &Wire{
		Config:        cfg,
		Log:           log,
		Credentials:   credStore,
		CacheStore:    cacheStore,
		Cache:         qc,
		Client:        client,
		Notifier:      sink,
		CredentialSvc: credentialsvc.New(credStore),
		History:       historysvc.New(client, qc),
		Trial:         trialsvc.New(client, sink, log.Named("trial")),
		HTTP:          httpClient,
	}, nil
}

// Authenticate makes sure the client carries a token. A configured token
// wins; otherwise the stored credential is opened with passphrase.
func (w *Wire) Authenticate(passphrase string) error {
	if w.Client.Token != "" {
		return nil
	}
	ok, err := w.Credentials.HasToken()
	if err != nil {
		return fmt.Errorf("check stored credentials: %w", err)
	}
	if !ok {
		return ErrNotLoggedIn
	}
	if passphrase == "" {
		return fmt.Errorf("stored credentials are sealed: pass --passphrase")
	}
	token, err := w.CredentialSvc.Token(passphrase)
	if err != nil {
		return fmt.Errorf("open stored credentials: %w", err)
	}
	w.Client.Token = token
	return nil
}

// NewFlow returns a fresh upload flow bound to the wired client, notifier and
// cache.
func (w *Wire) NewFlow(opts ...upload.Option) *upload.Flow {
	base := []upload.Option{
		upload.WithLogger(w.Log.Named("upload")),
		upload.WithSubmitTimeout(w.Config.GetSubmitTimeout()),
		upload.WithMaxPreviewBytes(w.Config.Client.MaxImageBytes),
	}
	return upload.New(w.Client, w.Notifier, w.Cache, append(base, opts...)...)
}
