package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"flowlist/internal/logging"
	"flowlist/internal/store"
	"flowlist/internal/tasktree"
)

const (
	namespace  = "flowlist"
	foldersKey = "folders"
)

// Board is the persisted folder collection.
type Board struct {
	mu      sync.RWMutex
	folders []tasktree.Folder
	kv      *store.Typed[[]tasktree.Folder]
	logger  *slog.Logger
}

// Option customizes a board.
type Option func(*Board)

// WithLogger attaches a logger for persistence diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Open loads the stored snapshot. A missing snapshot yields an empty board.
func Open(ctx context.Context, kv store.KV, opts ...Option) (*Board, error) {
	if kv == nil {
		return nil, errors.New("board: store is required")
	}
	b := &Board{
		kv:     store.Scoped[[]tasktree.Folder](kv, namespace),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logging.NewComponentLogger(b.logger, "board")

	folders, err := b.kv.Get(ctx, foldersKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
		folders = nil
	case err != nil:
		return nil, fmt.Errorf("load folders: %w", err)
	}
	b.folders = normalize(folders)
	b.logger.Debug("board loaded",
		logging.String("key", b.kv.Key(foldersKey)),
		logging.Int("folders", len(b.folders)),
	)
	return b, nil
}

// SavedAt returns when the snapshot was last written. ok is false when
// nothing has been saved yet.
func (b *Board) SavedAt(ctx context.Context) (ts time.Time, ok bool, err error) {
	ts, err = b.kv.UpdatedAt(ctx, foldersKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return time.Time{}, false, nil
	case err != nil:
		return time.Time{}, false, fmt.Errorf("snapshot time: %w", err)
	}
	return ts, true, nil
}

// Folders returns a deep copy of the current snapshot.
func (b *Board) Folders() []tasktree.Folder {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return tasktree.CloneAll(b.folders)
}

// Names returns the folder names in display order.
func (b *Board) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return tasktree.Names(b.folders)
}

// KnownTexts returns the dedup keys of every task on the board.
func (b *Board) KnownTexts() map[string]struct{} {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return tasktree.KnownTexts(b.folders)
}

// Folder looks a folder up by ID, unique ID prefix, or case-folded name.
func (b *Board) Folder(ref string) (tasktree.Folder, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	idx := b.indexOf(ref)
	if idx < 0 {
		return tasktree.Folder{}, false
	}
	return b.folders[idx].Clone(), true
}

// Replace swaps in a whole new snapshot.
func (b *Board) Replace(ctx context.Context, folders []tasktree.Folder) error {
	next := normalize(tasktree.CloneAll(folders))
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.commit(ctx, next)
}

// Merge folds imported folders in by name and returns the names of folders
// that did not exist before.
func (b *Board) Merge(ctx context.Context, imported []tasktree.Folder) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := tasktree.NewCollection(b.folders)
	var created []string
	for _, f := range imported {
		if c.Merge(f) {
			created = append(created, f.Name)
		}
	}
	if err := b.commit(ctx, c.Folders()); err != nil {
		return nil, err
	}
	return created, nil
}

// Toggle flips (or sets, when explicit is non-nil) a node's completion.
func (b *Board) Toggle(ctx context.Context, folderRef, nodeID string, explicit *bool) (bool, error) {
	return b.updateNode(ctx, folderRef, nodeID, func(f tasktree.Folder) (tasktree.Folder, error) {
		return tasktree.Toggle(f, nodeID, explicit), nil
	})
}

// AttachChildren appends children under a node.
func (b *Board) AttachChildren(ctx context.Context, folderRef, nodeID string, children []tasktree.Node) (bool, error) {
	return b.updateNode(ctx, folderRef, nodeID, func(f tasktree.Folder) (tasktree.Folder, error) {
		return tasktree.AttachChildren(f, nodeID, children), nil
	})
}

// AddSubtask appends a new leaf under a node.
func (b *Board) AddSubtask(ctx context.Context, folderRef, nodeID, text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, tasktree.ErrEmptyText
	}
	return b.updateNode(ctx, folderRef, nodeID, func(f tasktree.Folder) (tasktree.Folder, error) {
		return tasktree.AddSubtask(f, nodeID, text)
	})
}

// AddTask appends a new top-level task. When the folder does not exist and
// create is true, it is created first.
func (b *Board) AddTask(ctx context.Context, folderRef, text string, create bool) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, tasktree.ErrEmptyText
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.indexOf(folderRef)
	next := tasktree.CloneAll(b.folders)
	if idx < 0 {
		if !create || strings.TrimSpace(folderRef) == "" {
			return false, nil
		}
		next = append(next, tasktree.NewFolder(folderRef))
		idx = len(next) - 1
	}
	updated, err := tasktree.AddTask(next[idx], text)
	if err != nil {
		return false, err
	}
	next[idx] = updated
	return true, b.commit(ctx, next)
}

// SetTier assigns a tier to a folder.
func (b *Board) SetTier(ctx context.Context, folderRef string, tier tasktree.Tier) (bool, error) {
	return b.updateFolder(ctx, folderRef, func(f tasktree.Folder) (tasktree.Folder, error) {
		f.Tier = tier
		return f, nil
	})
}

// SetFolderCompleted marks every task in a folder done, or reopens the folder.
func (b *Board) SetFolderCompleted(ctx context.Context, folderRef string, value bool) (bool, error) {
	return b.updateFolder(ctx, folderRef, func(f tasktree.Folder) (tasktree.Folder, error) {
		return tasktree.SetCompleted(f, value), nil
	})
}

// SetExpanded records whether a folder is shown expanded.
func (b *Board) SetExpanded(ctx context.Context, folderRef string, value bool) (bool, error) {
	return b.updateFolder(ctx, folderRef, func(f tasktree.Folder) (tasktree.Folder, error) {
		f.Expanded = value
		return f, nil
	})
}

// RemoveFolder deletes a folder and its tasks.
func (b *Board) RemoveFolder(ctx context.Context, folderRef string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.indexOf(folderRef)
	if idx < 0 {
		return false, nil
	}
	next := make([]tasktree.Folder, 0, len(b.folders)-1)
	next = append(next, tasktree.CloneAll(b.folders[:idx])...)
	next = append(next, tasktree.CloneAll(b.folders[idx+1:])...)
	return true, b.commit(ctx, next)
}

// Reset clears the board and its stored snapshot.
func (b *Board) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.kv.Delete(ctx, foldersKey); err != nil {
		return fmt.Errorf("clear folders: %w", err)
	}
	b.folders = nil
	b.logger.Info("board reset")
	return nil
}

func (b *Board) updateNode(ctx context.Context, folderRef, nodeID string, fn func(tasktree.Folder) (tasktree.Folder, error)) (bool, error) {
	return b.updateFolder(ctx, folderRef, func(f tasktree.Folder) (tasktree.Folder, error) {
		if _, ok := tasktree.Find(f.Tasks, nodeID); !ok {
			return f, errNodeMiss
		}
		return fn(f)
	})
}

var errNodeMiss = errors.New("node not found")

func (b *Board) updateFolder(ctx context.Context, folderRef string, fn func(tasktree.Folder) (tasktree.Folder, error)) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.indexOf(folderRef)
	if idx < 0 {
		return false, nil
	}
	updated, err := fn(b.folders[idx])
	if errors.Is(err, errNodeMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	next := make([]tasktree.Folder, len(b.folders))
	copy(next, b.folders)
	next[idx] = updated
	return true, b.commit(ctx, next)
}

// commit persists next and swaps it in. Callers hold the write lock. On a
// failed write the previous snapshot stays current.
func (b *Board) commit(ctx context.Context, next []tasktree.Folder) error {
	if err := b.kv.Set(ctx, foldersKey, next); err != nil {
		b.logger.Error("snapshot save failed", logging.Error(err))
		return fmt.Errorf("save folders: %w", err)
	}
	b.folders = next
	return nil
}

// indexOf resolves ref against IDs first, then names, then unique ID prefixes.
func (b *Board) indexOf(ref string) int {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1
	}
	for i, f := range b.folders {
		if f.ID == ref {
			return i
		}
	}
	key := tasktree.NameKey(ref)
	for i, f := range b.folders {
		if tasktree.NameKey(f.Name) == key {
			return i
		}
	}
	match := -1
	for i, f := range b.folders {
		if strings.HasPrefix(f.ID, ref) {
			if match >= 0 {
				return -1
			}
			match = i
		}
	}
	return match
}

func normalize(folders []tasktree.Folder) []tasktree.Folder {
	for i := range folders {
		if folders[i].Tasks == nil {
			folders[i].Tasks = []tasktree.Node{}
		}
	}
	return folders
}
