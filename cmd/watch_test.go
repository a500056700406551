package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchFile_RerunsAfterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.csv")
	if err := os.WriteFile(path, []byte("x\n1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	other := filepath.Join(dir, "other.csv")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runs := make(chan struct{}, 16)
	done := make(chan error, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() {
		done <- watchFile(ctx, path, 20*time.Millisecond, logger, func() { runs <- struct{}{} })
	}()

	wait := func(what string) {
		t.Helper()
		select {
		case <-runs:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s", what)
		}
	}
	wait("initial run")

	// writes to a sibling are ignored
	if err := os.WriteFile(other, []byte("y\n"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	select {
	case <-runs:
		t.Fatalf("sibling write triggered a run")
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(path, []byte("x\n1\n2\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	wait("run after write")

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("watchFile returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watchFile did not stop on cancel")
	}
}

func TestWatchFile_MissingDir(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "gone", "data.csv")
	err := watchFile(context.Background(), path, time.Millisecond, logger, func() {
		t.Fatalf("fn must not run when the directory cannot be watched")
	})
	if err == nil {
		t.Fatalf("expected error watching a missing directory")
	}
}
