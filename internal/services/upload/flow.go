package upload

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"plantdoc/internal/domain"
)

// DefaultSubmitTimeout bounds a single submission when no timeout is set.
const DefaultSubmitTimeout = 60 * time.Second

// State is the coarse status of a Flow.
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateSubmitting:
		return "SUBMITTING"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Option configures a Flow.
type Option func(*Flow)

// WithLogger sets the flow's logger.
func WithLogger(l *zap.Logger) Option { return func(f *Flow) { f.log = l } }

// WithSubmitTimeout bounds each submission. Zero or negative disables the
// flow's own deadline and leaves only the caller's context.
func WithSubmitTimeout(d time.Duration) Option { return func(f *Flow) { f.submitTimeout = d } }

// WithOnSuccess registers a callback that receives every successful record
// after the success side effects have run.
func WithOnSuccess(fn func(domain.DiagnosisRecord)) Option {
	return func(f *Flow) { f.onSuccess = fn }
}

// WithMaxPreviewBytes bounds the bytes read to build a preview.
func WithMaxPreviewBytes(n int64) Option { return func(f *Flow) { f.maxPreviewBytes = n } }

// Flow is the upload and submission flow for one image selection.
type Flow struct {
	svc   domain.DiagnosisService
	sink  domain.Notifier
	cache domain.CacheInvalidator

	log             *zap.Logger
	submitTimeout   time.Duration
	maxPreviewBytes int64
	onSuccess       func(domain.DiagnosisRecord)

	mu         sync.Mutex
	selected   domain.SelectedImage
	previewErr error         // why the current selection has no preview
	gen        uint64        // bumped on every selection change
	ready      chan struct{} // closed once the current generation's preview settled

	previews sync.WaitGroup
	inFlight atomic.Int32
}

// New returns an idle Flow with nothing selected.
func New(
	svc domain.DiagnosisService,
	sink domain.Notifier,
	cache domain.CacheInvalidator,
	opts ...Option,
) *Flow {
	f := &Flow{
		svc:             svc,
		sink:            sink,
		cache:           cache,
		log:             zap.NewNop(),
		submitTimeout:   DefaultSubmitTimeout,
		maxPreviewBytes: DefaultMaxPreviewBytes,
		ready:           closedChan(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SelectFile replaces the selection. With a file, the preview is computed in
// the background and applied only if no newer selection happened meanwhile.
// With nil, file and preview are cleared before SelectFile returns.
func (f *Flow) SelectFile(file *domain.ImageFile) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.selected = domain.SelectedImage{File: file}
	f.previewErr = nil
	if file == nil {
		f.ready = closedChan()
		f.mu.Unlock()
		return
	}
	ready := make(chan struct{})
	f.ready = ready
	f.mu.Unlock()

	f.previews.Add(1)
	go func() {
		defer f.previews.Done()
		defer close(ready)

		preview, err := ComputePreview(file, f.maxPreviewBytes)

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.gen != gen {
			f.log.Debug("dropping stale preview", zap.String("file", file.Name))
			return
		}
		if err != nil {
			f.log.Warn("preview failed", zap.String("file", file.Name), zap.Error(err))
			f.previewErr = err
			return
		}
		f.selected.Preview = preview
	}()
}

// Clear drops the selection. Calling it repeatedly has no further effect.
func (f *Flow) Clear() { f.SelectFile(nil) }

// Selected returns a snapshot of the current selection.
func (f *Flow) Selected() domain.SelectedImage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

// Preview returns the current preview data URL, or "" if none is ready.
func (f *Flow) Preview() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected.Preview
}

// PreviewErr reports why the current selection has no preview. It is nil
// while the preview is still being computed, after it succeeded, and when
// nothing is selected.
func (f *Flow) PreviewErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.previewErr
}

// WaitPreview blocks until the preview for the current selection has been
// applied or abandoned, or ctx is done.
func (f *Flow) WaitPreview(ctx context.Context) error {
	f.mu.Lock()
	ready := f.ready
	f.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until every background preview computation has finished.
func (f *Flow) Wait() { f.previews.Wait() }

// InProgress reports whether any submission is outstanding.
func (f *Flow) InProgress() bool { return f.inFlight.Load() > 0 }

// State reports StateSubmitting while a submission is outstanding.
func (f *Flow) State() State {
	if f.InProgress() {
		return StateSubmitting
	}
	return StateIdle
}

// Submit sends the selected image for diagnosis.
//
// On success it notifies the sink, invalidates the all-diagnoses and
// recent-diagnoses cache keys, clears the selection and returns the record.
// On failure it returns a *domain.SubmissionError, notifies the sink once and
// keeps the selection. With nothing selected it fails with NO_FILE_SELECTED
// without calling the service.
func (f *Flow) Submit(ctx context.Context) (domain.DiagnosisRecord, error) {
	f.mu.Lock()
	file := f.selected.File
	gen := f.gen
	f.mu.Unlock()

	if file == nil {
		err := &domain.SubmissionError{Message: noFileMessage, Cause: domain.NoFileSelected{}}
		f.notifyFailure(err)
		return domain.DiagnosisRecord{}, err
	}

	f.inFlight.Add(1)
	defer f.inFlight.Add(-1)

	if f.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.submitTimeout)
		defer cancel()
	}

	started := time.Now()
	rec, err := f.svc.Diagnose(ctx, file)
	if err != nil {
		se := Classify(err)
		f.log.Info("diagnosis failed",
			zap.String("file", file.Name),
			zap.String("kind", se.Kind().String()),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err))
		f.notifyFailure(se)
		return domain.DiagnosisRecord{}, se
	}

	f.log.Info("diagnosis succeeded",
		zap.String("file", file.Name),
		zap.String("id", rec.ID),
		zap.String("disease", rec.Disease),
		zap.Duration("elapsed", time.Since(started)))

	f.sink.Notify(domain.Notification{
		Title:       successTitle,
		Description: fmt.Sprintf("Detected: %s", rec.Disease),
		Kind:        domain.NotificationSuccess,
	})
	f.cache.Invalidate(domain.CacheKeyAllDiagnoses)
	f.cache.Invalidate(domain.CacheKeyRecentDiagnoses)

	f.mu.Lock()
	if f.gen == gen {
		f.gen++
		f.selected = domain.SelectedImage{}
		f.previewErr = nil
		f.ready = closedChan()
	}
	f.mu.Unlock()

	if f.onSuccess != nil {
		f.onSuccess(rec)
	}
	return rec, nil
}

func (f *Flow) notifyFailure(err *domain.SubmissionError) {
	f.sink.Notify(domain.Notification{
		Title:       FailureTitle(err),
		Description: err.Message,
		Kind:        domain.NotificationDestructive,
	})
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
