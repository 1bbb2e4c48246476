package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"flowlist/internal/classify"
	"flowlist/internal/ingest"
	"flowlist/internal/logging"
	"flowlist/internal/services"
	"flowlist/internal/tasktree"
)

const (
	// DefaultParallel is the number of batches issued together.
	DefaultParallel = 5
	// DefaultGroupDelay separates consecutive groups.
	DefaultGroupDelay = 500 * time.Millisecond
)

// Classifier sorts one batch of lines. *classify.Client satisfies it.
type Classifier interface {
	Classify(ctx context.Context, lines, existingBuckets []string) ([]classify.Assignment, error)
}

// Update is published after every group.
type Update struct {
	Folders    []tasktree.Folder
	Group      int
	Completed  int
	Total      int
	Progress   float64
	ETA        time.Duration
	NewBuckets []string
}

// PublishFunc receives each group's snapshot. A publish error stops the run.
type PublishFunc func(ctx context.Context, update Update) error

// Result summarizes a run. On failure it reflects the last published group.
type Result struct {
	RunID      string
	Folders    []tasktree.Folder
	Completed  int
	Total      int
	Assigned   int
	NewBuckets []string
	Elapsed    time.Duration
}

// BatchError identifies the batch whose failure stopped a run.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Orchestrator drives classification runs.
type Orchestrator struct {
	classifier Classifier
	parallel   int
	delay      time.Duration
	sleeper    func(time.Duration)
	now        func() time.Time
	logger     *slog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithParallel sets the group size. Non-positive values keep the default.
func WithParallel(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.parallel = n
		}
	}
}

// WithGroupDelay sets the pause before every group after the first.
func WithGroupDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.delay = d
		}
	}
}

// WithSleeper replaces the inter-group wait (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(o *Orchestrator) {
		o.sleeper = sleeper
	}
}

// WithClock replaces time.Now for elapsed and ETA calculations.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New constructs an Orchestrator.
func New(classifier Classifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		classifier: classifier,
		parallel:   DefaultParallel,
		delay:      DefaultGroupDelay,
		now:        time.Now,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.NewComponentLogger(o.logger, "orchestrator")
	return o
}

// Run classifies batches in groups and folds the results into a collection
// seeded from seed. The seed is not modified.
func (o *Orchestrator) Run(ctx context.Context, batches []ingest.Batch, seed []tasktree.Folder, publish PublishFunc) (Result, error) {
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = services.WithRunID(ctx, runID)
	}
	logger := logging.WithContext(ctx, o.logger)

	acc := tasktree.NewCollection(seed)
	start := o.now()
	result := Result{RunID: runID, Total: len(batches), Folders: acc.Folders()}
	if len(batches) == 0 {
		return result, nil
	}

	logger.Info("classification started",
		logging.Event("run_start"),
		logging.Int("batches", len(batches)),
		logging.Int("parallel", o.parallel),
	)
	sampler := logging.NewProgressSampler(10)

	for group, first := 0, 0; first < len(batches); group, first = group+1, first+o.parallel {
		if group > 0 {
			if err := o.wait(ctx); err != nil {
				return o.finish(result, start), err
			}
		}
		members := batches[first:min(first+o.parallel, len(batches))]

		outcomes, err := o.runGroup(ctx, members, acc.Names())
		if err != nil {
			logger.Error("classification group failed",
				logging.Event("group_failed"),
				logging.Int("group", group),
				logging.Error(err),
			)
			return o.finish(result, start), err
		}

		var created []string
		assigned := 0
		for _, assignments := range outcomes {
			for _, a := range assignments {
				bucket := strings.TrimSpace(a.Bucket)
				if bucket == "" {
					bucket = tasktree.FallbackFolderName
				}
				if acc.Add(bucket, tasktree.NewNode(a.Text)) {
					created = append(created, bucket)
				}
				assigned++
			}
		}
		for _, name := range created {
			logger.Info("new bucket",
				logging.Event("bucket_created"),
				logging.String(logging.FieldFolder, name),
			)
		}

		completed := first + len(members)
		update := o.update(acc, group, completed, len(batches), start, created)
		if publish != nil {
			if err := publish(ctx, update); err != nil {
				return o.finish(result, start), fmt.Errorf("publish group %d: %w", group, err)
			}
		}

		result.Folders = update.Folders
		result.Completed = completed
		result.Assigned += assigned
		result.NewBuckets = append(result.NewBuckets, created...)

		if sampler.ShouldLog(completed, len(batches)) {
			logger.Info("classification progress",
				logging.Event("progress"),
				logging.Int("completed", completed),
				logging.Int("total", len(batches)),
				logging.Duration("eta", update.ETA),
			)
		}
	}

	result = o.finish(result, start)
	logger.Info("classification finished",
		logging.Event("run_complete"),
		logging.Int("assigned", result.Assigned),
		logging.Int("new_buckets", len(result.NewBuckets)),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// runGroup issues every member concurrently with the same bucket snapshot
// and waits for all of them. On failure it returns the error of the lowest
// failing batch index.
func (o *Orchestrator) runGroup(ctx context.Context, members []ingest.Batch, names []string) ([][]classify.Assignment, error) {
	outcomes := make([][]classify.Assignment, len(members))
	errs := make([]error, len(members))

	var g errgroup.Group
	g.SetLimit(len(members))
	for i, batch := range members {
		g.Go(func() error {
			batchCtx := services.WithBatchIndex(ctx, batch.Index)
			assignments, err := o.classifier.Classify(batchCtx, batch.Lines, names)
			if err != nil {
				errs[i] = &BatchError{Index: batch.Index, Err: err}
				return errs[i]
			}
			outcomes[i] = assignments
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, batchErr := range errs {
			if batchErr != nil {
				return nil, batchErr
			}
		}
		return nil, err
	}
	return outcomes, nil
}

func (o *Orchestrator) update(acc *tasktree.Collection, group, completed, total int, start time.Time, created []string) Update {
	elapsed := o.now().Sub(start)
	var eta time.Duration
	if completed > 0 && completed < total {
		eta = time.Duration(float64(elapsed) / float64(completed) * float64(total-completed))
	}
	return Update{
		Folders:    acc.Folders(),
		Group:      group,
		Completed:  completed,
		Total:      total,
		Progress:   float64(completed) / float64(total),
		ETA:        eta,
		NewBuckets: append([]string(nil), created...),
	}
}

func (o *Orchestrator) finish(result Result, start time.Time) Result {
	result.Elapsed = o.now().Sub(start)
	return result
}

func (o *Orchestrator) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.delay <= 0 {
		return nil
	}
	if o.sleeper != nil {
		o.sleeper(o.delay)
		return ctx.Err()
	}
	timer := time.NewTimer(o.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
