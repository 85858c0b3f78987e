// Package locator defines the pluggable interface for per-tool session
// store scanners, the shared search types, and the factory registry the
// tool packages register themselves with.
package locator

import (
	"time"
)

// WorktreeRef is one (path, branch) pair a scan may be scoped to.
type WorktreeRef struct {
	Path   string
	Branch string
}

// SearchOptions scope a session scan. When Worktrees is non-empty a locator
// matches candidates against those paths; otherwise it falls back to
// branch-name matching where its store makes that possible.
type SearchOptions struct {
	Branch    string
	Worktrees []WorktreeRef
	Since     time.Time // zero means no lower bound
}

// Hit is one located session. ModTime approximates launch recency; Path is
// the file the id came from and breaks exact ModTime ties.
type Hit struct {
	ID      string
	ModTime time.Time
	Path    string
}

// Locator scans one tool's private session store. Implementations are pure
// readers of independent directory subtrees and safe for concurrent use.
//
// Locate returns (nil, nil) when no session matches. Any I/O failure also
// resolves to a nil hit; the returned error exists for logging and counting
// only and callers must treat it as "no match", never as fatal.
type Locator interface {
	ID() string
	Name() string
	Root() string
	Locate(opts SearchOptions) (*Hit, error)
}

// Better reports whether candidate should replace current. Most recent
// modification time wins; exact ties go to the lexicographically smaller
// path so results are reproducible across enumeration orders.
func Better(candidate, current *Hit) bool {
	if candidate == nil {
		return false
	}
	if current == nil {
		return true
	}
	if !candidate.ModTime.Equal(current.ModTime) {
		return candidate.ModTime.After(current.ModTime)
	}
	return candidate.Path < current.Path
}
