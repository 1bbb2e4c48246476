package deconstruct

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"flowlist/internal/board"
	"flowlist/internal/logging"
	"flowlist/internal/services"
	"flowlist/internal/services/llm"
	"flowlist/internal/tasktree"
)

const (
	defaultTemperature = 0.4
	operation          = "deconstruct"
)

var (
	// ErrNotLeaf is returned when the task already has subtasks.
	ErrNotLeaf = errors.New("task already has subtasks")
	// ErrFolderNotFound is returned when the folder reference matches nothing.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrTaskNotFound is returned when the node reference matches nothing.
	ErrTaskNotFound = errors.New("task not found")
)

// Completer issues one chat completion. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, op string, req llm.Request) (string, error)
}

// Client requests milestone breakdowns.
type Client struct {
	completer   Completer
	temperature float64
	logger      *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Client) {
		c.temperature = t
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient wraps a completer.
func NewClient(completer Completer, opts ...Option) *Client {
	c := &Client{completer: completer, temperature: defaultTemperature, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "deconstruct")
	return c
}

// Deconstruct asks for milestones for task. area is the folder name or
// any other hint about where the task belongs.
func (c *Client) Deconstruct(ctx context.Context, task, area string) ([]Milestone, error) {
	content, err := c.completer.Complete(ctx, operation, llm.Request{
		System:      SystemPrompt,
		User:        BuildUserPrompt(task, area),
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, err
	}
	milestones, err := ParseMilestones(content)
	if err != nil {
		logging.WithContext(ctx, c.logger).Warn("deconstruction response unparseable",
			logging.Event("deconstruct_unparseable"),
			logging.String("response_snippet", llm.SummarizePayload(content)),
		)
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return milestones, nil
}

// Deconstructor is the part of Client the Expander needs.
type Deconstructor interface {
	Deconstruct(ctx context.Context, task, area string) ([]Milestone, error)
}

// Expander attaches deconstructed milestones to board tasks.
type Expander struct {
	client   Deconstructor
	board    *board.Board
	maxSteps int
	logger   *slog.Logger
}

// NewExpander binds a client to a board. maxSteps <= 0 uses DefaultMaxSteps.
func NewExpander(client Deconstructor, b *board.Board, maxSteps int, logger *slog.Logger) *Expander {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Expander{
		client:   client,
		board:    b,
		maxSteps: maxSteps,
		logger:   logging.NewComponentLogger(logger, "deconstruct"),
	}
}

// Expand deconstructs a leaf task and attaches the resulting nodes under it.
// nodeRef may be a full node ID or a unique prefix.
func (e *Expander) Expand(ctx context.Context, folderRef, nodeRef string) ([]tasktree.Node, error) {
	folder, ok := e.board.Folder(folderRef)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folderRef)
	}
	node, ok := tasktree.ResolveID(folder.Tasks, nodeRef)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, nodeRef)
	}
	if !node.IsLeaf() {
		return nil, fmt.Errorf("%w: %s", ErrNotLeaf, node.Text)
	}

	ctx = services.WithFolder(ctx, folder.Name)
	milestones, err := e.client.Deconstruct(ctx, node.Text, folder.Name)
	if err != nil {
		return nil, err
	}
	nodes := toNodes(milestones, e.maxSteps)
	attached, err := e.board.AttachChildren(ctx, folder.ID, node.ID, nodes)
	if err != nil {
		return nil, err
	}
	if !attached {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, nodeRef)
	}
	logging.WithContext(ctx, e.logger).Info("task deconstructed",
		logging.Event("task_deconstructed"),
		logging.String("task", node.Text),
		logging.Int("milestones", len(nodes)),
	)
	return nodes, nil
}
