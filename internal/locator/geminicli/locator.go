// Package geminicli locates Gemini CLI sessions. Gemini keeps one directory
// per SHA-256 hash of the project path under ~/.gemini/tmp, with chat
// transcripts as chats/session-*.json.
package geminicli

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/marcus/switchyard/internal/locator"
)

const (
	locatorID   = "gemini-cli"
	locatorName = "Gemini CLI"
)

// sessionIDPattern extracts the sessionId field from partial JSON.
var sessionIDPattern = regexp.MustCompile(`"sessionId"\s*:\s*"([^"]+)"`)

type Locator struct {
	baseDir string
}

// New resolves the Gemini home, honoring GEMINI_CLI_HOME.
func New() *Locator {
	if dir := os.Getenv("GEMINI_CLI_HOME"); dir != "" {
		return &Locator{baseDir: dir}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Locator{baseDir: filepath.Join(home, ".gemini")}
}

// NewWithRoot returns a locator over an explicit Gemini home directory.
func NewWithRoot(baseDir string) *Locator {
	return &Locator{baseDir: baseDir}
}

func (l *Locator) ID() string   { return locatorID }
func (l *Locator) Name() string { return locatorName }
func (l *Locator) Root() string { return filepath.Join(l.baseDir, "tmp") }

// Locate hashes each scoped worktree path to its project directory and
// returns the most recent chat session. The store is keyed by path hash, so
// without worktree scoping there is nothing to look up.
func (l *Locator) Locate(opts locator.SearchOptions) (*locator.Hit, error) {
	var best *locator.Hit
	for _, wt := range opts.Worktrees {
		abs, err := filepath.Abs(wt.Path)
		if err != nil {
			continue
		}
		hash := sha256.Sum256([]byte(abs))
		projectDir := filepath.Join(l.Root(), hex.EncodeToString(hash[:]))
		if hit := newestChat(projectDir, opts.Since); locator.Better(hit, best) {
			best = hit
		}
	}
	return best, nil
}

// newestChat scans {projectDir}/chats for session-*.json files, preferring
// the sessionId recorded in the content over the file stem.
func newestChat(projectDir string, since time.Time) *locator.Hit {
	chatsDir := filepath.Join(projectDir, "chats")
	entries, err := os.ReadDir(chatsDir)
	if err != nil {
		return nil
	}
	var best *locator.Hit
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "session-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !since.IsZero() && info.ModTime().Before(since) {
			continue
		}
		path := filepath.Join(chatsDir, name)
		id := sessionIDFromFile(path)
		if id == "" {
			id = strings.TrimSuffix(name, ".json")
		}
		hit := &locator.Hit{ID: id, ModTime: info.ModTime(), Path: path}
		if locator.Better(hit, best) {
			best = hit
		}
	}
	return best
}

// sessionIDFromFile reads just the head of the file; the sessionId field
// appears early and partially written files stay parseable this way.
func sessionIDFromFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	buf := make([]byte, 4096)
	n, _ := f.Read(buf)
	m := sessionIDPattern.FindSubmatch(buf[:n])
	if m == nil {
		return ""
	}
	return string(m[1])
}
