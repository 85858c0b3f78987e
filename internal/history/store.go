// Package history persists the per-repository agent launch log and the
// last-used pointer. The store is a single JSON file per repository under
// the user config dir; entries are append-only and immutable once written.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Entry records one agent launch: tool X ran on branch Y at worktree Z with
// session id S at time T in mode M.
type Entry struct {
	Branch       string `json:"branch"`
	WorktreePath string `json:"worktreePath,omitempty"`
	ToolID       string `json:"toolId"`
	ToolLabel    string `json:"toolLabel"`
	SessionID    string `json:"sessionId,omitempty"`
	Mode         string `json:"mode,omitempty"` // normal, continue, resume
	Model        string `json:"model,omitempty"`
	ToolVersion  string `json:"toolVersion,omitempty"`
	Timestamp    int64  `json:"timestamp"` // epoch ms
}

// Pointer is the single last-used record, overwritten on every launch. It is
// the fast-path fallback when the history has no matching entry.
type Pointer struct {
	LastWorktreePath string
	LastBranch       string
	LastUsedTool     string
	LastSessionID    string
	ToolLabel        string
	ToolVersion      string
	Model            string
	Timestamp        int64
}

// fileData is the on-disk schema: pointer fields inline, history nested.
type fileData struct {
	LastWorktreePath string  `json:"lastWorktreePath,omitempty"`
	LastBranch       string  `json:"lastBranch,omitempty"`
	LastUsedTool     string  `json:"lastUsedTool,omitempty"`
	LastSessionID    string  `json:"lastSessionId,omitempty"`
	ToolLabel        string  `json:"toolLabel,omitempty"`
	ToolVersion      string  `json:"toolVersion,omitempty"`
	Model            string  `json:"model,omitempty"`
	Timestamp        int64   `json:"timestamp"`
	RepositoryRoot   string  `json:"repositoryRoot"`
	History          []Entry `json:"history"`
}

// Store reads and writes one repository's session file.
type Store struct {
	path     string
	repoRoot string
}

const sessionsDir = ".config/switchyard/sessions"

// NewStore returns the store for a repository root, placing the file at
// ~/.config/switchyard/sessions/{repoName}_{hash}.json.
func NewStore(repoRoot string) *Store {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	name := filepath.Base(repoRoot)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "repo"
	}
	hash := fmt.Sprintf("%016x", xxhash.Sum64String(repoRoot))
	return &Store{
		path:     filepath.Join(home, sessionsDir, fmt.Sprintf("%s_%s.json", name, hash)),
		repoRoot: repoRoot,
	}
}

// NewStoreAt returns a store backed by an explicit file path.
func NewStoreAt(path, repoRoot string) *Store {
	return &Store{path: path, repoRoot: repoRoot}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the history and pointer. Missing or corrupt files degrade to an
// empty store; a missing session hint must never block a launch.
func (s *Store) Load() ([]Entry, Pointer) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, Pointer{}
	}
	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, Pointer{}
	}
	return fd.History, Pointer{
		LastWorktreePath: fd.LastWorktreePath,
		LastBranch:       fd.LastBranch,
		LastUsedTool:     fd.LastUsedTool,
		LastSessionID:    fd.LastSessionID,
		ToolLabel:        fd.ToolLabel,
		ToolVersion:      fd.ToolVersion,
		Model:            fd.Model,
		Timestamp:        fd.Timestamp,
	}
}

// RecordLaunch appends an entry and overwrites the pointer in one rewrite.
// The file is re-read first so concurrent launches for other branches or
// tools are preserved rather than clobbered.
func (s *Store) RecordLaunch(entry Entry) error {
	entries, _ := s.Load()
	entries = append(entries, entry)
	ptr := Pointer{
		LastWorktreePath: entry.WorktreePath,
		LastBranch:       entry.Branch,
		LastUsedTool:     entry.ToolID,
		LastSessionID:    entry.SessionID,
		ToolLabel:        entry.ToolLabel,
		ToolVersion:      entry.ToolVersion,
		Model:            entry.Model,
		Timestamp:        entry.Timestamp,
	}
	return s.write(entries, ptr)
}

// ApplyRefresh folds refreshed entries back into the store. Each refreshed
// entry rewrites the newest on-disk entry for its (branch, toolId) in place,
// since an upgrade raises the timestamp and a timestamp-keyed match would
// duplicate the row. A concurrent launch recorded since our read carries a
// newer timestamp than the refreshed entry and is left untouched; a key with
// no on-disk entry at all is appended.
func (s *Store) ApplyRefresh(refreshed []Entry) error {
	disk, ptr := s.Load()
	newest := make(map[string]int, len(disk))
	for i, e := range disk {
		key := entryKey(e)
		if j, ok := newest[key]; !ok || disk[j].Timestamp < e.Timestamp {
			newest[key] = i
		}
	}
	for _, e := range refreshed {
		i, ok := newest[entryKey(e)]
		switch {
		case !ok:
			disk = append(disk, e)
		case disk[i].Timestamp <= e.Timestamp:
			disk[i] = e
		}
		// A newer on-disk entry means a launch superseded this refresh.
	}
	return s.write(disk, ptr)
}

func entryKey(e Entry) string {
	return fmt.Sprintf("%s\x00%s", e.Branch, e.ToolID)
}

func (s *Store) write(entries []Entry, ptr Pointer) error {
	fd := fileData{
		LastWorktreePath: ptr.LastWorktreePath,
		LastBranch:       ptr.LastBranch,
		LastUsedTool:     ptr.LastUsedTool,
		LastSessionID:    ptr.LastSessionID,
		ToolLabel:        ptr.ToolLabel,
		ToolVersion:      ptr.ToolVersion,
		Model:            ptr.Model,
		Timestamp:        ptr.Timestamp,
		RepositoryRoot:   s.repoRoot,
		History:          entries,
	}
	data, err := json.MarshalIndent(fd, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// SortedByTimestamp returns a copy of entries sorted newest first. Storage
// order is write order, not timestamp order.
func SortedByTimestamp(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}
