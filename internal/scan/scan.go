/*
Package scan drives the availability classifier across every route and date
in the configured windows. Probes run one at a time with a pacing delay between
fetches.
*/
package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shanehull/tripwatch/internal/classify"
	"github.com/shanehull/tripwatch/internal/logger"
	"github.com/shanehull/tripwatch/internal/metrics"
	"github.com/shanehull/tripwatch/internal/sar"
	"github.com/shanehull/tripwatch/internal/types"
	"github.com/shanehull/tripwatch/internal/window"
)

const (
	DefaultPacing       = 2 * time.Second
	DefaultFetchTimeout = 30 * time.Second
)

type Options struct {
	// FetchTimeout caps a single page fetch.
	FetchTimeout time.Duration
	// Pacing is the pause between consecutive fetches. It cannot be disabled;
	// zero selects DefaultPacing.
	Pacing time.Duration

	Classifier *classify.Classifier
	Queries    *sar.QueryBuilder
	Annotator  Annotator
	Metrics    *metrics.Scan

	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

type Orchestrator struct {
	fetcher    Fetcher
	classifier *classify.Classifier
	queries    *sar.QueryBuilder
	annotator  Annotator
	metrics    *metrics.Scan
	timeout    time.Duration
	pacing     time.Duration
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
}

func New(fetcher Fetcher, opts Options) *Orchestrator {
	o := &Orchestrator{
		fetcher:    fetcher,
		classifier: opts.Classifier,
		queries:    opts.Queries,
		annotator:  opts.Annotator,
		metrics:    opts.Metrics,
		timeout:    opts.FetchTimeout,
		pacing:     opts.Pacing,
		now:        opts.Now,
		sleep:      opts.Sleep,
	}
	if o.classifier == nil {
		o.classifier = classify.New()
	}
	if o.queries == nil {
		o.queries = sar.NewQueryBuilder("", "")
	}
	if o.timeout <= 0 {
		o.timeout = DefaultFetchTimeout
	}
	if o.pacing <= 0 {
		o.pacing = DefaultPacing
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.sleep == nil {
		o.sleep = sleepContext
	}
	return o
}

// Plan lists every request Run would make, in order, without fetching.
func (o *Orchestrator) Plan(windows []types.ScanWindow) []types.SearchRequest {
	var reqs []types.SearchRequest
	for _, w := range windows {
		for _, d := range window.Generate(w) {
			reqs = append(reqs, o.queries.Build(w.Route, d))
		}
	}
	return reqs
}

// Run probes every window in order and returns the positive dates. Failed
// fetches count as unavailable. A fatal session error or a cancelled context
// aborts the run and discards whatever was collected.
func (o *Orchestrator) Run(ctx context.Context, windows []types.ScanWindow) (types.ScanResult, error) {
	result := types.ScanResult{StartedAt: o.now()}
	probes := 0

	for _, w := range windows {
		dates := window.Generate(w)
		logger.Info(ctx, "scanning window",
			zap.String("route", w.Route.DisplayName()),
			zap.String("start", w.Start.Format(types.DateLayout)),
			zap.String("end", w.End.Format(types.DateLayout)),
			zap.Int("dates", len(dates)),
		)

		for _, d := range dates {
			if probes > 0 {
				if err := o.sleep(ctx, o.pacing); err != nil {
					return types.ScanResult{}, fmt.Errorf("scan interrupted: %w", err)
				}
			}
			probes++

			rec, err := o.probe(ctx, w.Route, d)
			if err != nil {
				return types.ScanResult{}, err
			}
			if rec != nil {
				result.Records = append(result.Records, *rec)
			}
		}
	}

	result.FinishedAt = o.now()
	o.metrics.ObserveRun(result)

	logger.Info(ctx, "scan complete",
		zap.Int("probes", probes),
		zap.Int("available", len(result.Records)),
		zap.Duration("took", result.FinishedAt.Sub(result.StartedAt)),
	)

	return result, nil
}

func (o *Orchestrator) probe(ctx context.Context, route types.RouteSpec, date types.CandidateDate) (*types.AvailabilityRecord, error) {
	req := o.queries.Build(route, date)
	name := route.DisplayName()

	pctx := logger.WithFields(ctx,
		zap.String("route", name),
		zap.String("date", date.String()),
	)
	logger.Debug(pctx, "checking", zap.String("url", req.URL))

	started := o.now()
	text, err := o.fetcher.Fetch(ctx, req.URL, o.timeout)
	o.metrics.ObserveFetch(name, o.now().Sub(started), err)

	if err != nil {
		if errors.Is(err, ErrFatalSession) {
			return nil, fmt.Errorf("failed to probe %s on %s: %w", name, date, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("scan interrupted: %w", ctxErr)
		}
		logger.Warn(pctx, "fetch failed, treating date as unavailable", zap.Error(err))
		o.metrics.ObserveProbe(name, metrics.OutcomeFetchFailed)
		return nil, nil
	}

	res := o.classifier.Classify(text)
	if !res.Available {
		logger.Info(pctx, "not available")
		o.metrics.ObserveProbe(name, metrics.OutcomeUnavailable)
		return nil, nil
	}

	logger.Info(pctx, "available", zap.String("reason", res.Reason))
	o.metrics.ObserveProbe(name, metrics.OutcomeAvailable)

	rec := &types.AvailabilityRecord{
		Route:    name,
		Date:     date.Date,
		Weekday:  date.Weekday,
		URL:      req.URL,
		Reason:   res.Reason,
		Evidence: res.Evidence,
	}

	if o.annotator != nil {
		digest, err := o.annotator.Digest(ctx, text)
		if err != nil {
			logger.Warn(pctx, "digest failed", zap.Error(err))
		} else {
			rec.Digest = digest
		}
	}

	return rec, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
