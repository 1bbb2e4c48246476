package services_test

import (
	"context"
	"testing"

	"flowlist/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-1")
	ctx = services.WithBatchIndex(ctx, 0)
	ctx = services.WithFolder(ctx, "Errands")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if idx, ok := services.BatchIndexFromContext(ctx); !ok || idx != 0 {
		t.Fatalf("unexpected batch index: %v %v", idx, ok)
	}
	if name, ok := services.FolderFromContext(ctx); !ok || name != "Errands" {
		t.Fatalf("unexpected folder: %v %v", name, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "")
	ctx = services.WithFolder(ctx, "")
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
	if _, ok := services.FolderFromContext(ctx); ok {
		t.Fatal("expected no folder value")
	}
	if _, ok := services.BatchIndexFromContext(ctx); ok {
		t.Fatal("expected no batch index value")
	}
}
