package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"flowlist/internal/board"
	"flowlist/internal/ingest"
	"flowlist/internal/logging"
	"flowlist/internal/orchestrator"
	"flowlist/internal/tasktree"
)

// Report describes one ingest run. Err is set whenever Status.Failed.
type Report struct {
	Status  Status
	Split   ingest.SplitResult
	Batches int
	Result  orchestrator.Result
	// Created lists folders added by an archive import.
	Created []string
	Err     error
}

// Runner is the orchestrator surface the pipeline drives.
type Runner interface {
	Run(ctx context.Context, batches []ingest.Batch, seed []tasktree.Folder, publish orchestrator.PublishFunc) (orchestrator.Result, error)
}

// Pipeline ingests raw text or archives into a board.
type Pipeline struct {
	board     *board.Board
	runner    Runner
	batchSize int
	progress  func(orchestrator.Update)
	logger    *slog.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithBatchSize sets the lines per batch.
func WithBatchSize(n int) Option {
	return func(p *Pipeline) {
		p.batchSize = n
	}
}

// WithProgress registers a callback invoked after each group is persisted.
func WithProgress(fn func(orchestrator.Update)) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New constructs a Pipeline.
func New(b *board.Board, runner Runner, opts ...Option) *Pipeline {
	p := &Pipeline{
		board:     b,
		runner:    runner,
		batchSize: ingest.DefaultBatchSize,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "pipeline")
	return p
}

// Ingest routes text input through classification and archive input
// through a name merge.
func (p *Pipeline) Ingest(ctx context.Context, in ingest.Input) Report {
	if in.IsArchive() {
		return p.Import(ctx, in)
	}
	return p.Run(ctx, in.Text)
}

// Run splits raw against the board, classifies the new lines, and persists
// a snapshot after every group. A failed run keeps what was persisted.
func (p *Pipeline) Run(ctx context.Context, raw string) Report {
	split := ingest.Split(raw, p.board.KnownTexts())
	report := Report{Split: split}
	p.logger.Info("input split",
		logging.Int("lines", len(split.Lines)),
		logging.Int("dropped_existing", split.DroppedExisting),
		logging.Int("dropped_duplicate", split.DroppedDuplicate),
	)
	if len(split.Lines) == 0 {
		report.Status = StatusNothingNew
		report.Result.Folders = p.board.Folders()
		return report
	}

	batches := ingest.Partition(split.Lines, p.batchSize)
	report.Batches = len(batches)
	result, err := p.runner.Run(ctx, batches, p.board.Folders(), p.publish)
	report.Result = result
	report.Status = StatusFor(err)
	if err != nil {
		report.Err = err
		p.logger.Error("ingest run stopped",
			logging.String("status", string(report.Status)),
			logging.Int("completed_batches", result.Completed),
			logging.Int("total_batches", result.Total),
			logging.Error(err),
		)
	}
	return report
}

// Import merges archive folders into the board by name.
func (p *Pipeline) Import(ctx context.Context, in ingest.Input) Report {
	if len(in.Folders) == 0 {
		return Report{Status: StatusEmptyInput, Err: fmt.Errorf("%s: %w", in.Source, ingest.ErrEmptyInput)}
	}
	created, err := p.board.Merge(ctx, in.Folders)
	if err != nil {
		return Report{Status: StatusFor(err), Err: err}
	}
	p.logger.Info("archive imported",
		logging.String("source", in.Source),
		logging.Int("folders", len(in.Folders)),
		logging.Int("created", len(created)),
	)
	return Report{Status: StatusImported, Created: created, Result: orchestrator.Result{Folders: p.board.Folders()}}
}

func (p *Pipeline) publish(ctx context.Context, update orchestrator.Update) error {
	if err := p.board.Replace(ctx, update.Folders); err != nil {
		return err
	}
	if p.progress != nil {
		p.progress(update)
	}
	return nil
}
