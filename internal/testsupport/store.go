package testsupport

import (
	"context"
	"testing"

	"flowlist/internal/board"
	"flowlist/internal/config"
	"flowlist/internal/store"
	"flowlist/internal/tasktree"
)

// MustOpenStore opens the SQLite state store for cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.SQLite {
	t.Helper()

	db, err := store.OpenSQLite(context.Background(), cfg.StatePath())
	if err != nil {
		t.Fatalf("store.OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// NewBoard opens a board over kv seeded with folders.
func NewBoard(t testing.TB, kv store.KV, folders ...tasktree.Folder) *board.Board {
	t.Helper()

	b, err := board.Open(context.Background(), kv)
	if err != nil {
		t.Fatalf("board.Open: %v", err)
	}
	if len(folders) > 0 {
		if err := b.Replace(context.Background(), folders); err != nil {
			t.Fatalf("board.Replace: %v", err)
		}
	}
	return b
}

// Folder builds a folder whose tasks have the given texts.
func Folder(name string, tier tasktree.Tier, texts ...string) tasktree.Folder {
	f := tasktree.NewFolder(name)
	f.Tier = tier
	for _, text := range texts {
		f.Tasks = append(f.Tasks, tasktree.NewNode(text))
	}
	return f
}
