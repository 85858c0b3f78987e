// Package codex locates Codex CLI sessions. Codex writes rollout-*.jsonl
// transcripts under nested date directories; the session id and working
// directory live in the payload of the first lines.
package codex

import (
	"bufio"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcus/switchyard/internal/locator"
)

const (
	locatorID   = "codex-cli"
	locatorName = "Codex CLI"
)

type Locator struct {
	sessionsDir string
}

// New resolves the sessions directory, honoring CODEX_HOME.
func New() *Locator {
	if dir := os.Getenv("CODEX_HOME"); dir != "" {
		return &Locator{sessionsDir: filepath.Join(dir, "sessions")}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Locator{sessionsDir: filepath.Join(home, ".codex", "sessions")}
}

// NewWithRoot returns a locator over an explicit sessions directory.
func NewWithRoot(sessionsDir string) *Locator {
	return &Locator{sessionsDir: sessionsDir}
}

func (l *Locator) ID() string   { return locatorID }
func (l *Locator) Name() string { return locatorName }
func (l *Locator) Root() string { return l.sessionsDir }

// Locate walks the whole sessions tree and keeps the most recent transcript
// whose recorded cwd matches a scoped worktree, or mentions the branch when
// no worktree scoping is available.
func (l *Locator) Locate(opts locator.SearchOptions) (*locator.Hit, error) {
	var best *locator.Hit

	walkErr := filepath.WalkDir(l.sessionsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable subtrees
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".jsonl" && ext != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !opts.Since.IsZero() && info.ModTime().Before(opts.Since) {
			return nil
		}
		// Cheap pre-check: skip files that cannot beat the current best.
		if best != nil && info.ModTime().Before(best.ModTime) {
			return nil
		}

		meta := readSessionMeta(path)
		if meta.id == "" {
			meta.id = strings.TrimSuffix(filepath.Base(path), ext)
		}
		if !matches(meta.cwd, opts) {
			return nil
		}
		hit := &locator.Hit{ID: meta.id, ModTime: info.ModTime(), Path: path}
		if locator.Better(hit, best) {
			best = hit
		}
		return nil
	})
	if walkErr != nil {
		return nil, nil
	}
	return best, nil
}

func matches(cwd string, opts locator.SearchOptions) bool {
	if len(opts.Worktrees) > 0 {
		for _, wt := range opts.Worktrees {
			if cwdMatches(cwd, wt.Path) {
				return true
			}
		}
		return false
	}
	if opts.Branch == "" {
		return false
	}
	// Branch-only fallback: the worktree dir name usually embeds the last
	// branch path segment.
	tail := opts.Branch
	if idx := strings.LastIndex(tail, "/"); idx >= 0 {
		tail = tail[idx+1:]
	}
	return tail != "" && strings.Contains(cwd, tail)
}

func cwdMatches(cwd, worktreePath string) bool {
	if cwd == "" || worktreePath == "" {
		return false
	}
	cwd = filepath.Clean(cwd)
	worktreePath = filepath.Clean(worktreePath)
	return cwd == worktreePath || strings.HasPrefix(cwd, worktreePath+string(filepath.Separator))
}

type sessionMeta struct {
	id  string
	cwd string
}

// readSessionMeta pulls the session id and cwd out of the first lines of a
// rollout file. Partially written trailing lines are fine; only the head of
// the file matters.
func readSessionMeta(path string) sessionMeta {
	f, err := os.Open(path)
	if err != nil {
		return sessionMeta{}
	}
	defer f.Close()

	var meta sessionMeta
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for i := 0; i < 10 && scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record struct {
			Payload struct {
				ID  string `json:"id"`
				Cwd string `json:"cwd"`
			} `json:"payload"`
		}
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			continue
		}
		if meta.id == "" && strings.TrimSpace(record.Payload.ID) != "" {
			meta.id = strings.TrimSpace(record.Payload.ID)
		}
		if meta.cwd == "" && record.Payload.Cwd != "" {
			meta.cwd = record.Payload.Cwd
		}
		if meta.id != "" && meta.cwd != "" {
			break
		}
	}
	return meta
}
