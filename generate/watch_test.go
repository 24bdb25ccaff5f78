package generate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "api.py")
	require.NoError(t, os.WriteFile(source, []byte("class API:\n    def one(self):\n        pass\n"), 0o644))

	p, err := NewPipeline(afero.NewOsFs(), Options{})
	require.NoError(t, err)

	type result struct {
		text string
		err  error
	}
	runs := make(chan result, 64)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Watch(ctx, source, 20*time.Millisecond, func(text string, err error) {
			runs <- result{text, err}
		})
	}()

	// Saves can fire more than one event, so wait for the run that matches.
	waitFor := func(match func(result) bool) result {
		deadline := time.After(5 * time.Second)
		for {
			select {
			case r := <-runs:
				if match(r) {
					return r
				}
			case <-deadline:
				t.Fatal("timed out waiting for a run")
			}
		}
	}

	first := waitFor(func(r result) bool { return true })
	require.NoError(t, first.err)
	require.Contains(t, first.text, "one(): Promise<void>")

	require.NoError(t, os.WriteFile(source, []byte("class API:\n    def two(self) -> int:\n        pass\n"), 0o644))
	second := waitFor(func(r result) bool { return r.err == nil && strings.Contains(r.text, "two(") })
	require.Contains(t, second.text, "two(): Promise<number>")

	require.NoError(t, os.WriteFile(source, []byte("class API(:\n"), 0o644))
	third := waitFor(func(r result) bool { return r.err != nil })
	require.ErrorContains(t, third.err, "parsing source")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
