package gitrepo

import "testing"

func TestParseWorktreeList(t *testing.T) {
	output := `worktree /home/user/repo
HEAD abc123def456
branch refs/heads/main

worktree /home/user/repo-worktrees/feature-auth
HEAD def456abc789
branch refs/heads/feature/auth

worktree /home/user/repo-worktrees/detached
HEAD 789abc123def
detached
`
	worktrees := parseWorktreeList(output)
	if len(worktrees) != 3 {
		t.Fatalf("expected 3 worktrees, got %d", len(worktrees))
	}

	if worktrees[0].Path != "/home/user/repo" {
		t.Errorf("unexpected path: %s", worktrees[0].Path)
	}
	if worktrees[0].Branch != "main" {
		t.Errorf("unexpected branch: %s", worktrees[0].Branch)
	}
	if !worktrees[0].IsMain {
		t.Error("first worktree should be main")
	}

	if worktrees[1].Branch != "feature/auth" {
		t.Errorf("unexpected branch: %s", worktrees[1].Branch)
	}
	if worktrees[1].IsMain {
		t.Error("linked worktree should not be main")
	}

	if worktrees[2].Branch != "" {
		t.Errorf("detached worktree should have no branch, got %s", worktrees[2].Branch)
	}
}

func TestParseWorktreeListNoTrailingNewline(t *testing.T) {
	output := "worktree /repo\nHEAD abc\nbranch refs/heads/main"
	worktrees := parseWorktreeList(output)
	if len(worktrees) != 1 {
		t.Fatalf("expected 1 worktree, got %d", len(worktrees))
	}
	if worktrees[0].Branch != "main" {
		t.Errorf("unexpected branch: %s", worktrees[0].Branch)
	}
}

func TestParseWorktreeListEmpty(t *testing.T) {
	if got := parseWorktreeList(""); len(got) != 0 {
		t.Errorf("expected no worktrees, got %d", len(got))
	}
}

func TestWorktreeForBranch(t *testing.T) {
	r := &Repo{Root: "/repo"}
	worktrees := []WorktreeRecord{
		{Path: "/repo", Branch: "main"},
		{Path: "/repo-wt/topic", Branch: "topic"},
	}
	if wt := r.WorktreeForBranch("topic", worktrees); wt == nil || wt.Path != "/repo-wt/topic" {
		t.Errorf("unexpected worktree: %+v", wt)
	}
	if wt := r.WorktreeForBranch("missing", worktrees); wt != nil {
		t.Errorf("expected nil, got %+v", wt)
	}
}
