package geminicli

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marcus/switchyard/internal/locator"
)

func projectDirFor(base, worktreePath string) string {
	abs, _ := filepath.Abs(worktreePath)
	hash := sha256.Sum256([]byte(abs))
	return filepath.Join(base, "tmp", hex.EncodeToString(hash[:]))
}

func writeChat(t *testing.T, projectDir, name, content string, mtime time.Time) {
	t.Helper()
	chatsDir := filepath.Join(projectDir, "chats")
	if err := os.MkdirAll(chatsDir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(chatsDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestLocatePrefersContentSessionID(t *testing.T) {
	base := t.TempDir()
	wt := "/home/user/repo"
	writeChat(t, projectDirFor(base, wt), "session-1.json",
		`{"sessionId":"abc-123","messages":[]}`, time.Now())

	l := NewWithRoot(base)
	hit, err := l.Locate(locator.SearchOptions{
		Branch:    "main",
		Worktrees: []locator.WorktreeRef{{Path: wt, Branch: "main"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if hit == nil || hit.ID != "abc-123" {
		t.Fatalf("expected content session id, got %+v", hit)
	}
}

func TestLocateFallsBackToFileStem(t *testing.T) {
	base := t.TempDir()
	wt := "/home/user/repo"
	writeChat(t, projectDirFor(base, wt), "session-20260825.json", `{"messages":[]}`, time.Now())

	l := NewWithRoot(base)
	hit, _ := l.Locate(locator.SearchOptions{
		Worktrees: []locator.WorktreeRef{{Path: wt, Branch: "main"}},
	})
	if hit == nil || hit.ID != "session-20260825" {
		t.Fatalf("expected file stem id, got %+v", hit)
	}
}

func TestLocateNewestAcrossWorktrees(t *testing.T) {
	base := t.TempDir()
	writeChat(t, projectDirFor(base, "/wt/one"), "session-a.json",
		`{"sessionId":"one"}`, time.Now().Add(-time.Hour))
	writeChat(t, projectDirFor(base, "/wt/two"), "session-b.json",
		`{"sessionId":"two"}`, time.Now())

	l := NewWithRoot(base)
	hit, _ := l.Locate(locator.SearchOptions{
		Worktrees: []locator.WorktreeRef{
			{Path: "/wt/one", Branch: "topic"},
			{Path: "/wt/two", Branch: "topic"},
		},
	})
	if hit == nil || hit.ID != "two" {
		t.Fatalf("expected newest across worktrees, got %+v", hit)
	}
}

func TestLocateNoWorktreeScoping(t *testing.T) {
	l := NewWithRoot(t.TempDir())
	hit, err := l.Locate(locator.SearchOptions{Branch: "main"})
	if err != nil || hit != nil {
		t.Fatalf("path-hashed store cannot serve branch-only lookups, got %+v, %v", hit, err)
	}
}
