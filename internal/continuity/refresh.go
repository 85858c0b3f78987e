package continuity

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/marcus/switchyard/internal/history"
	"github.com/marcus/switchyard/internal/locator"
)

// DefaultLocateTimeout bounds one locator scan during a refresh. A hung
// scan is abandoned, not interrupted; its result is discarded.
const DefaultLocateTimeout = 2 * time.Second

// RefreshOptions wires the refresh engine to its locators. Locators is
// keyed by normalized tool id; a nil map means the global registry.
type RefreshOptions struct {
	Locators map[string]locator.Locator
	Timeout  time.Duration
}

// LatestByTool returns the newest history entry per tool for a branch,
// sorted newest first. This is the quick-start list before validation.
func LatestByTool(entries []history.Entry, branch string) []history.Entry {
	byTool := make(map[string]history.Entry)
	for _, e := range entries {
		if e.Branch != branch {
			continue
		}
		key := locator.NormalizeToolID(e.ToolID)
		if existing, ok := byTool[key]; !ok || existing.Timestamp < e.Timestamp {
			byTool[key] = e
		}
	}
	out := make([]history.Entry, 0, len(byTool))
	for _, e := range byTool {
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].ToolID < out[j].ToolID
	})
	return out
}

// Refresh re-validates each tool's latest entry for the branch against that
// tool's locator, scoped to all known worktrees. A hit overwrites the
// session id and raises the timestamp to max(existing, hit mtime), so
// timestamps never regress; a miss, error or timeout passes the entry
// through unchanged. Locator calls fan out independently and are joined
// before re-sorting, so one failing tool never touches the others.
func Refresh(ctx context.Context, entries []history.Entry, branch string, worktrees []locator.WorktreeRef, opts RefreshOptions) []history.Entry {
	latest := LatestByTool(entries, branch)
	if len(latest) == 0 {
		return latest
	}

	locators := opts.Locators
	if locators == nil {
		locators = locator.All()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultLocateTimeout
	}

	searchOpts := locator.SearchOptions{
		Branch:    locator.NormalizeBranchName(branch),
		Worktrees: worktrees,
	}

	results := make([]history.Entry, len(latest))
	done := make(chan int, len(latest))
	for i, entry := range latest {
		results[i] = entry
		go func(i int, entry history.Entry) {
			defer func() { done <- i }()
			l := locators[locator.NormalizeToolID(entry.ToolID)]
			if l == nil {
				return
			}
			hit := locate(ctx, l, searchOpts, timeout)
			if hit == nil {
				return
			}
			entry.SessionID = hit.ID
			if ms := hit.ModTime.UnixMilli(); ms > entry.Timestamp {
				entry.Timestamp = ms
			}
			results[i] = entry
		}(i, entry)
	}
	for range latest {
		<-done
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Timestamp != results[j].Timestamp {
			return results[i].Timestamp > results[j].Timestamp
		}
		return results[i].ToolID < results[j].ToolID
	})
	return results
}

// locate runs one scan under a deadline. The scan itself is not cancelable;
// on timeout the goroutine is left to finish into a buffered channel.
func locate(ctx context.Context, l locator.Locator, opts locator.SearchOptions, timeout time.Duration) *locator.Hit {
	type result struct {
		hit *locator.Hit
		err error
	}
	ch := make(chan result, 1)
	go func() {
		hit, err := l.Locate(opts)
		ch <- result{hit, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		if r.err != nil {
			slog.Debug("session scan failed", "tool", l.ID(), "err", r.err)
			return nil
		}
		return r.hit
	case <-timer.C:
		slog.Debug("session scan timed out", "tool", l.ID())
		return nil
	case <-ctx.Done():
		return nil
	}
}
