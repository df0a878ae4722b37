package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitChange(t *testing.T, ch <-chan Change) Change {
	t.Helper()
	select {
	case c, ok := <-ch:
		if !ok {
			t.Fatal("watch channel closed")
		}
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
	}
	return Change{}
}

func TestWatch_ReportsConfigSaves(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Watch(ctx, dir, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Save(dir, Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	c := waitChange(t, ch)
	if len(c.Files) != 1 || c.Files[0] != "config.json" {
		t.Fatalf("expected config.json change, got %v", c.Files)
	}

	if err := os.WriteFile(ModelsPath(dir), []byte("models: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c = waitChange(t, ch)
	if len(c.Files) != 1 || c.Files[0] != "models.yaml" {
		t.Fatalf("expected models.yaml change, got %v", c.Files)
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := Watch(ctx, t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected channel to close without a change")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatch_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), 0)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
