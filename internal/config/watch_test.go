package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/algo-rtaudio/internal/logging"
)

func writeConfig(t *testing.T, path, data string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestWatchDeliversValidReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rtfx.yaml")
	writeConfig(t, path, "effects:\n  gain:\n    db: 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := Watch(ctx, path, logging.Discard())
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// Neighbouring files and rejected content must not produce an update.
	writeConfig(t, filepath.Join(dir, "other.yaml"), "effects:\n  gain:\n    db: 9\n")
	writeConfig(t, path, "effects:\n  compressor:\n    ratio: 0.5\n")
	writeConfig(t, path, "effects:\n  gain:\n    db: 4\n")

	timeout := time.After(5 * time.Second)

	for {
		select {
		case cfg, ok := <-updates:
			if !ok {
				t.Fatal("updates closed early")
			}

			if cfg.Effects.Compressor.Ratio != 4 {
				t.Fatalf("rejected config delivered: %+v", cfg.Effects.Compressor)
			}
			if cfg.Effects.Gain.DB == 9 {
				t.Fatal("config from another file delivered")
			}
			if cfg.Effects.Gain.DB == 4 {
				return
			}
		case <-timeout:
			t.Fatal("no reload within 5s")
		}
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtfx.yaml")
	writeConfig(t, path, "")

	ctx, cancel := context.WithCancel(context.Background())

	updates, err := Watch(ctx, path, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}

	cancel()

	select {
	case _, ok := <-updates:
		if ok {
			t.Fatal("unexpected update")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "rtfx.yaml")

	if _, err := Watch(context.Background(), path, logging.Discard()); err == nil {
		t.Fatal("Watch() on a missing directory succeeded")
	}
}
