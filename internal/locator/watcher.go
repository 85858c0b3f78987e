package locator

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent signals that a tool's session store changed on disk.
type ChangeEvent struct {
	ToolID string
	Path   string
}

// Watch observes a locator's store root and emits debounced change events
// so a long-lived caller can re-run a refresh opportunistically. The
// channel closes when the watcher dies; failure to establish a watch is
// the only error path.
func Watch(l Locator) (<-chan ChangeEvent, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(l.Root()); err != nil {
		watcher.Close()
		return nil, err
	}

	events := make(chan ChangeEvent, 32)

	go func() {
		defer watcher.Close()
		defer close(events)

		var debounceTimer *time.Timer
		debounceDelay := 100 * time.Millisecond

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				// The closure captures this iteration's event value; a
				// shared variable would race with a later arrival.
				path := event.Name
				debounceTimer = time.AfterFunc(debounceDelay, func() {
					select {
					case events <- ChangeEvent{ToolID: l.ID(), Path: path}:
					default:
						// Channel full, drop event
					}
				})

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Keep watching through transient errors
			}
		}
	}()

	return events, nil
}
