// Package opencode locates OpenCode sessions (Qwen Code keeps the same
// storage layout). The store is a flat JSON database: project/<id>.json maps
// a worktree to a project id, session/<projectID>/ses_*.json holds the
// sessions themselves.
package opencode

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/marcus/switchyard/internal/locator"
)

const (
	locatorID   = "opencode"
	locatorName = "OpenCode"
)

type Locator struct {
	storageDir string
}

// New resolves the storage directory, honoring OPENCODE_DATA and the
// platform data dir conventions.
func New() *Locator {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Locator{storageDir: findStorageDir(home)}
}

// NewWithRoot returns a locator over an explicit storage directory.
func NewWithRoot(storageDir string) *Locator {
	return &Locator{storageDir: storageDir}
}

func findStorageDir(home string) string {
	var candidates []string
	if dir := os.Getenv("OPENCODE_DATA"); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "storage"))
	}
	switch runtime.GOOS {
	case "darwin":
		candidates = append(candidates, filepath.Join(home, "Library", "Application Support", "opencode", "storage"))
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			candidates = append(candidates, filepath.Join(localAppData, "opencode", "Data", "storage"))
		}
	default:
		xdgData := os.Getenv("XDG_DATA_HOME")
		if xdgData == "" {
			xdgData = filepath.Join(home, ".local", "share")
		}
		candidates = append(candidates, filepath.Join(xdgData, "opencode", "storage"))
	}
	defaultPath := filepath.Join(home, ".local", "share", "opencode", "storage")
	candidates = append(candidates, defaultPath)

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return candidates[0]
}

func (l *Locator) ID() string   { return locatorID }
func (l *Locator) Name() string { return locatorName }
func (l *Locator) Root() string { return l.storageDir }

// Locate maps each scoped worktree to its project id and returns the most
// recent session across them. Branch-only lookups match on the project's
// recorded worktree path instead.
func (l *Locator) Locate(opts locator.SearchOptions) (*locator.Hit, error) {
	projectIDs := l.matchProjects(opts)
	var best *locator.Hit
	for _, id := range projectIDs {
		if hit := l.newestSession(id, opts.Since); locator.Better(hit, best) {
			best = hit
		}
	}
	return best, nil
}

func (l *Locator) matchProjects(opts locator.SearchOptions) []string {
	projectDir := filepath.Join(l.storageDir, "project")
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil
	}

	tail := opts.Branch
	if idx := strings.LastIndex(tail, "/"); idx >= 0 {
		tail = tail[idx+1:]
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(projectDir, e.Name()))
		if err != nil {
			continue
		}
		var project struct {
			ID       string `json:"id"`
			Worktree string `json:"worktree"`
		}
		if err := json.Unmarshal(data, &project); err != nil || project.ID == "" {
			continue
		}
		if len(opts.Worktrees) > 0 {
			for _, wt := range opts.Worktrees {
				if pathsEqual(project.Worktree, wt.Path) {
					ids = append(ids, project.ID)
					break
				}
			}
			continue
		}
		if tail != "" && strings.Contains(project.Worktree, tail) {
			ids = append(ids, project.ID)
		}
	}
	return ids
}

func pathsEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

// newestSession picks the most recent ses_*.json under the project's
// session directory. time.updated in the content wins over file mtime when
// parseable; the id comes from the content, then the file stem.
func (l *Locator) newestSession(projectID string, since time.Time) *locator.Hit {
	sessionDir := filepath.Join(l.storageDir, "session", projectID)
	entries, err := os.ReadDir(sessionDir)
	if err != nil {
		return nil
	}
	var best *locator.Hit
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(sessionDir, name)
		modTime := info.ModTime()
		id := strings.TrimSuffix(name, ".json")

		if data, err := os.ReadFile(path); err == nil {
			var session struct {
				ID   string `json:"id"`
				Time struct {
					Updated int64 `json:"updated"`
				} `json:"time"`
			}
			if json.Unmarshal(data, &session) == nil {
				if session.ID != "" {
					id = session.ID
				}
				if session.Time.Updated > 0 {
					modTime = time.UnixMilli(session.Time.Updated)
				}
			}
		}

		if !since.IsZero() && modTime.Before(since) {
			continue
		}
		hit := &locator.Hit{ID: id, ModTime: modTime, Path: path}
		if locator.Better(hit, best) {
			best = hit
		}
	}
	return best
}
