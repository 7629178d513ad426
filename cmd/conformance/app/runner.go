package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/telemetry-bridge/internal/probe"
	"github.com/roman-kulish/telemetry-bridge/internal/storage"
	"github.com/roman-kulish/telemetry-bridge/internal/telemetry"
)

// ErrMismatch is returned by Run when at least one probe observed arguments
// different from the ones dispatched.
var ErrMismatch = errors.New("observed arguments differ from dispatched arguments")

// WithMaxBatchSize sets the maximum number of dispatch records stored within
// a single database transaction.
func WithMaxBatchSize(size int) func(*Runner) {
	return func(r *Runner) {
		r.maxBatchSize = size
	}
}

// WithWorkers sets the number of concurrent workers. Each worker owns one
// probe slot.
func WithWorkers(n int) func(*Runner) {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithRepeat sets how many times every scenario is dispatched.
func WithRepeat(n int) func(*Runner) {
	return func(r *Runner) {
		r.repeat = n
	}
}

// WithStore records every dispatch in store under sessionID.
func WithStore(store storage.Store, sessionID int64) func(*Runner) {
	return func(r *Runner) {
		r.store = store
		r.sessionID = sessionID
	}
}

// WithLogger sets the logger for the runner
func WithLogger(logger *slog.Logger) func(*Runner) {
	return func(r *Runner) {
		r.logger = logger
	}
}

type job struct {
	scenario string
	frame    telemetry.Frame
}

// Result summarizes a run.
type Result struct {
	Dispatches int64
	Mismatches int64
	Elapsed    time.Duration
}

// Runner dispatches scenarios through the trampolines to probe callables,
// compares what the probes observed with what was sent and optionally
// stores every dispatch.
type Runner struct {
	jobs []job

	workers      int
	repeat       int
	maxBatchSize int

	store     storage.Store
	sessionID int64
	logger    *slog.Logger
}

// NewRunner creates a runner for scenarios with a discard logger
func NewRunner(scenarios []Scenario, options ...func(*Runner)) (*Runner, error) {
	r := Runner{
		workers:      defaultWorkers,
		repeat:       defaultRepeat,
		maxBatchSize: defaultMaxBatchSize,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&r)
	}

	if r.workers < 1 || r.workers > probe.Slots {
		return nil, NewConfigError(fmt.Sprintf("workers must be between 1 and %d, got %d", probe.Slots, r.workers))
	}
	if r.repeat < 1 {
		return nil, NewConfigError(fmt.Sprintf("repeat must be positive, got %d", r.repeat))
	}
	if r.maxBatchSize < 1 {
		return nil, NewConfigError(fmt.Sprintf("max batch size must be positive, got %d", r.maxBatchSize))
	}

	for i := range scenarios {
		f, err := scenarios[i].Frame()
		if err != nil {
			return nil, err
		}
		r.jobs = append(r.jobs, job{scenario: scenarios[i].Name, frame: f})
	}
	if len(r.jobs) == 0 {
		return nil, NewConfigError("no scenarios to dispatch")
	}

	return &r, nil
}

// Run dispatches every scenario repeat times across the workers. It returns
// ErrMismatch, wrapped, if any probe observed different arguments.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	probe.Reset()
	defer probe.Reset()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan job, r.workers)
	records := make(chan storage.Dispatch, r.maxBatchSize)

	var dispatches, mismatches atomic.Int64

	var storeErr error
	stored := make(chan struct{})
	go func() {
		defer close(stored)
		if storeErr = r.handleRecords(ctx, records); storeErr != nil {
			cancel()
		}
	}()

	start := time.Now()

	var wg sync.WaitGroup
	for slot := 0; slot < r.workers; slot++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()

			for j := range queue {
				d := r.dispatch(slot, j)

				dispatches.Add(1)
				if !d.Matched {
					mismatches.Add(1)
					r.logger.Warn("argument mismatch",
						slog.String("scenario", d.Scenario),
						slog.Int("worker", slot),
						slog.Any("sent", d.Sent),
						slog.Any("observed", d.Observed))
				}

				if r.store != nil {
					records <- d
				}
			}
		}(slot)
	}

	var err error
Loop:
	for i := 0; i < r.repeat; i++ {
		for _, j := range r.jobs {
			select {
			case <-ctx.Done():
				err = ctx.Err()
				break Loop
			case queue <- j:
			}
		}
	}
	close(queue)

	wg.Wait()
	close(records)
	<-stored

	res := Result{
		Dispatches: dispatches.Load(),
		Mismatches: mismatches.Load(),
		Elapsed:    time.Since(start),
	}

	r.logger.Info("dispatch finished",
		slog.String("dispatches", humanize.Comma(res.Dispatches)),
		slog.String("mismatches", humanize.Comma(res.Mismatches)),
		slog.String("rate", humanize.SIWithDigits(rate(res), 1, "call/s")),
		slog.Duration("elapsed", res.Elapsed))

	switch {
	case storeErr != nil:
		return res, fmt.Errorf("storing dispatches: %w", storeErr)
	case err != nil:
		return res, err
	case res.Mismatches > 0:
		return res, fmt.Errorf("%w: %d of %d dispatches", ErrMismatch, res.Mismatches, res.Dispatches)
	}
	return res, nil
}

// dispatch sends j through the probe of slot and reads back what it observed.
// Only the calling worker uses slot, so the drained calls are its own.
func (r *Runner) dispatch(slot int, j job) storage.Dispatch {
	d := storage.Dispatch{
		Timestamp: time.Now(),
		Scenario:  j.scenario,
		Worker:    slot,
		Sent:      j.frame,
	}

	h, err := probe.Handle(j.frame.Category(), slot)
	if err != nil {
		r.logger.Error(err.Error(), slog.String("scenario", j.scenario))
		return d
	}

	start := time.Now()
	err = telemetry.Dispatch(h, j.frame)
	d.Elapsed = time.Since(start)
	if err != nil {
		r.logger.Error(fmt.Sprintf("dispatching: %s", err.Error()), slog.String("scenario", j.scenario))
		return d
	}

	calls := probe.Drain(slot)
	if len(calls) > 0 {
		d.Observed = calls[0]
	}
	d.Matched = len(calls) == 1 && telemetry.Equal(d.Sent, d.Observed)
	return d
}

// handleRecords stores records in batches of at most maxBatchSize. It keeps
// draining records after a storage error so workers never block.
func (r *Runner) handleRecords(ctx context.Context, records <-chan storage.Dispatch) error {
	batch := make([]storage.Dispatch, 0, r.maxBatchSize)
	var err error

	flush := func() {
		if len(batch) == 0 || err != nil {
			batch = batch[:0]
			return
		}
		if err = r.store.StoreDispatches(context.WithoutCancel(ctx), r.sessionID, batch); err != nil {
			r.logger.Error(err.Error())
		}
		batch = batch[:0]
	}

	for d := range records {
		batch = append(batch, d)
		if len(batch) >= r.maxBatchSize {
			flush()
		}
	}
	flush()

	return err
}

func rate(res Result) float64 {
	if res.Elapsed <= 0 {
		return 0
	}
	return float64(res.Dispatches) / res.Elapsed.Seconds()
}
