// Package claudecode locates Claude Code sessions. Claude stores one
// directory per encoded project path under its projects dir, with each
// session as a {session-id}.jsonl transcript.
package claudecode

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marcus/switchyard/internal/locator"
)

const (
	locatorID   = "claude-code"
	locatorName = "Claude Code"
)

type Locator struct {
	projectsDir string
}

// New resolves the projects directory. CLAUDE_CONFIG_DIR wins; v1.0.30+
// moved the default from ~/.claude to ~/.config/claude (XDG), so both are
// probed, newest location first.
func New() *Locator {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Locator{projectsDir: findProjectsDir(home)}
}

// NewWithRoot returns a locator over an explicit projects directory.
func NewWithRoot(projectsDir string) *Locator {
	return &Locator{projectsDir: projectsDir}
}

func findProjectsDir(home string) string {
	for _, candidate := range projectsDirCandidates(home) {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return filepath.Join(home, ".claude", "projects")
}

func projectsDirCandidates(home string) []string {
	var candidates []string
	if dir := os.Getenv("CLAUDE_CONFIG_DIR"); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "projects"))
	}
	candidates = append(candidates, filepath.Join(home, ".config", "claude", "projects"))
	candidates = append(candidates, filepath.Join(home, ".claude", "projects"))
	return candidates
}

func (l *Locator) ID() string   { return locatorID }
func (l *Locator) Name() string { return locatorName }
func (l *Locator) Root() string { return l.projectsDir }

// Locate returns the most recent session for the scoped worktrees, or for
// directories whose encoded name mentions the branch when no worktree
// scoping is available.
func (l *Locator) Locate(opts locator.SearchOptions) (*locator.Hit, error) {
	var best *locator.Hit

	if len(opts.Worktrees) > 0 {
		for _, wt := range opts.Worktrees {
			for _, dir := range candidateDirs(l.projectsDir, wt.Path) {
				if hit := newestSession(dir, opts.Since); locator.Better(hit, best) {
					best = hit
				}
			}
		}
		return best, nil
	}

	if opts.Branch == "" {
		return nil, nil
	}
	needle := encodeSegment(opts.Branch)
	entries, err := os.ReadDir(l.projectsDir)
	if err != nil {
		return nil, nil
	}
	for _, e := range entries {
		if !e.IsDir() || !strings.Contains(e.Name(), needle) {
			continue
		}
		if hit := newestSession(filepath.Join(l.projectsDir, e.Name()), opts.Since); locator.Better(hit, best) {
			best = hit
		}
	}
	return best, nil
}

// candidateDirs returns the project directories a worktree path may be
// encoded under. Claude versions differ in whether "." and "_" survive the
// encoding, so both spellings are probed.
func candidateDirs(projectsDir, worktreePath string) []string {
	abs, err := filepath.Abs(worktreePath)
	if err != nil {
		abs = worktreePath
	}
	seen := make(map[string]bool, 2)
	var dirs []string
	for _, encoded := range []string{encodeStrict(abs), encodeLoose(abs)} {
		if encoded == "" || seen[encoded] {
			continue
		}
		seen[encoded] = true
		dirs = append(dirs, filepath.Join(projectsDir, encoded))
	}
	return dirs
}

// encodeStrict replaces separators plus "." and "_" with "-".
func encodeStrict(path string) string {
	s := strings.ReplaceAll(path, "/", "-")
	s = strings.ReplaceAll(s, ".", "-")
	return strings.ReplaceAll(s, "_", "-")
}

// encodeLoose keeps "." and "_", replacing every other non-alphanumeric.
func encodeLoose(path string) string {
	var b strings.Builder
	for _, c := range path {
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '.' || c == '_' {
			b.WriteRune(c)
		} else {
			b.WriteRune('-')
		}
	}
	return b.String()
}

func encodeSegment(s string) string {
	return encodeStrict(strings.TrimPrefix(s, "/"))
}

// newestSession picks the most recent .jsonl session file in dir. The
// session id is the file stem.
func newestSession(dir string, since time.Time) *locator.Hit {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var best *locator.Hit
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if ext != ".jsonl" && ext != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !since.IsZero() && info.ModTime().Before(since) {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if id == "" {
			continue
		}
		hit := &locator.Hit{ID: id, ModTime: info.ModTime(), Path: filepath.Join(dir, name)}
		if locator.Better(hit, best) {
			best = hit
		}
	}
	return best
}
