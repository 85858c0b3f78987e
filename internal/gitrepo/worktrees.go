package gitrepo

import (
	"os"
	"path/filepath"
	"strings"
)

// normalizePath converts a path to absolute form and resolves symlinks so
// comparisons are consistent across path formats.
func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return filepath.Clean(absPath), nil
	}
	return filepath.Clean(resolved), nil
}

// ListWorktrees returns all worktrees of the repository. Returns nil when
// the query fails; accessibility and dirtiness are checked per worktree.
func (r *Repo) ListWorktrees() []WorktreeRecord {
	out, err := gitOutput(r.Root, "worktree", "list", "--porcelain")
	if err != nil {
		return nil
	}
	records := parseWorktreeList(out)
	for i := range records {
		if normalized, err := normalizePath(records[i].Path); err == nil {
			records[i].Path = normalized
		}
		records[i].IsAccessible = dirAccessible(records[i].Path)
		if records[i].IsAccessible {
			if dirty, ok := r.uncommittedChanges(records[i].Path); ok {
				records[i].HasUncommittedChanges = &dirty
			}
		}
	}
	return records
}

// parseWorktreeList parses `git worktree list --porcelain` output:
//
//	worktree /path/to/worktree
//	HEAD <sha>
//	branch refs/heads/branch-name
//	<blank line>
func parseWorktreeList(output string) []WorktreeRecord {
	var worktrees []WorktreeRecord
	var current WorktreeRecord
	isFirst := true

	flush := func() {
		if current.Path != "" {
			current.IsMain = isFirst
			worktrees = append(worktrees, current)
			isFirst = false
		}
		current = WorktreeRecord{}
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		if path, found := strings.CutPrefix(line, "worktree "); found {
			current.Path = filepath.Clean(path)
		} else if branchRef, found := strings.CutPrefix(line, "branch "); found {
			current.Branch = strings.TrimPrefix(branchRef, "refs/heads/")
		}
		// HEAD, bare, detached and locked lines are ignored
	}
	flush()

	return worktrees
}

func dirAccessible(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// uncommittedChanges reports whether the worktree at path has staged or
// unstaged changes. The second return is false when the check itself failed.
func (r *Repo) uncommittedChanges(path string) (bool, bool) {
	out, err := gitOutput(path, "status", "--porcelain")
	if err != nil {
		return false, false
	}
	return strings.TrimSpace(out) != "", true
}

// WorktreeForBranch returns the worktree checked out to branch, or nil.
func (r *Repo) WorktreeForBranch(branch string, worktrees []WorktreeRecord) *WorktreeRecord {
	for i := range worktrees {
		if worktrees[i].Branch == branch {
			return &worktrees[i]
		}
	}
	return nil
}
