package generate

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/mathieupost/pybridge/log"
)

// DefaultDebounce is how long Watch waits for a burst of changes to settle.
const DefaultDebounce = 200 * time.Millisecond

// RunFunc receives the outcome of every watched run.
type RunFunc func(text string, err error)

// Watch runs the pipeline over source once, then again whenever source is
// written or replaced, until ctx is done. A failing run is reported to
// onRun and does not stop the watch. The directory is watched instead of
// the file so editors that save by rename keep triggering runs.
func (p *Pipeline) Watch(ctx context.Context, source string, debounce time.Duration, onRun RunFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer watcher.Close()

	abs, err := filepath.Abs(source)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", source)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "watching %s", filepath.Dir(abs))
	}

	run := func() {
		text, err := p.ProcessFile(ctx, source)
		onRun(text, err)
	}
	run()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("source changed")
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")

		case <-timer.C:
			run()
		}
	}
}
