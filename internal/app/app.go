package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"plantdoc/internal/domain"
	"plantdoc/internal/services/upload"
)

// Result is the outcome of diagnosing one image in a batch.
type Result struct {
	Path   string                  `json:"path"`
	Record *domain.DiagnosisRecord `json:"record,omitempty"`
	Kind   domain.ErrorKind        `json:"errorKind,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

// FlowFactory builds one upload flow per image.
type FlowFactory func(opts ...upload.Option) *upload.Flow

// App runs batch diagnoses over a flow factory.
type App struct {
	flows    FlowFactory
	log      *zap.Logger
	parallel int
}

// New returns an App. parallel below one means one image at a time.
func New(flows FlowFactory, log *zap.Logger, parallel int) *App {
	if log == nil {
		log = zap.NewNop()
	}
	if parallel < 1 {
		parallel = 1
	}
	return &App{flows: flows, log: log, parallel: parallel}
}

// DiagnoseFiles submits every path through its own flow, at most parallel at
// a time. Results keep the order of paths. A failed image does not stop the
// batch; the returned error is non-nil when any image failed.
func (a *App) DiagnoseFiles(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	var (
		mu   sync.Mutex
		errs []error
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.parallel)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			res, err := a.diagnoseOne(ctx, p)
			results[i] = res
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", p, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, errors.Join(errs...)
}

func (a *App) diagnoseOne(ctx context.Context, path string) (Result, error) {
	res := Result{Path: path}

	file, err := domain.OpenImageFile(path)
	if err != nil {
		res.Kind = domain.KindGeneric
		res.Error = err.Error()
		return res, err
	}

	flow := a.flows()
	flow.SelectFile(file)
	defer flow.Wait()

	rec, err := flow.Submit(ctx)
	if err != nil {
		res.Kind = domain.KindOf(err)
		res.Error = err.Error()
		return res, err
	}
	a.log.Debug("batch item done", zap.String("path", path), zap.String("id", rec.ID))
	res.Record = &rec
	return res, nil
}
