package gitrepo

import (
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repo wraps a repository root for the read-only queries the rest of the
// system consumes. All methods tolerate missing refs and return partial
// results rather than failing the whole query.
type Repo struct {
	Root string
}

// Open resolves dir to its repository root.
func Open(dir string) (*Repo, error) {
	out, err := gitOutput(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("not a git repository %s: %w", dir, err)
	}
	return &Repo{Root: strings.TrimSpace(out)}, nil
}

// CurrentBranch returns the checked-out branch name, or "" on detached HEAD
// or any failure.
func (r *Repo) CurrentBranch() string {
	repo, err := git.PlainOpenWithOptions(r.Root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil || !head.Name().IsBranch() {
		return ""
	}
	return head.Name().Short()
}

// ListLocalBranches enumerates refs/heads with commit timestamps.
func (r *Repo) ListLocalBranches() ([]BranchRecord, error) {
	return r.listBranches(false)
}

// ListAllBranches enumerates local and remote-tracking branches. Remote
// records carry the short name without the remote prefix so callers can
// match them against local counterparts.
func (r *Repo) ListAllBranches() ([]BranchRecord, error) {
	return r.listBranches(true)
}

func (r *Repo) listBranches(includeRemote bool) ([]BranchRecord, error) {
	repo, err := git.PlainOpenWithOptions(r.Root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}

	current := r.CurrentBranch()

	iter, err := repo.References()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var locals []BranchRecord
	var remotes []BranchRecord
	remoteNames := make(map[string]bool)

	_ = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		switch {
		case name.IsBranch():
			short := name.Short()
			locals = append(locals, BranchRecord{
				Name:                  short,
				Origin:                OriginLocal,
				Category:              Classify(short),
				IsCurrent:             short == current,
				LatestCommitTimestamp: commitTime(repo, ref),
			})
		case name.IsRemote() && includeRemote:
			short := name.Short() // e.g. origin/topic
			if strings.HasSuffix(short, "/HEAD") {
				return nil
			}
			stripped := stripRemote(short)
			remoteNames[stripped] = true
			remotes = append(remotes, BranchRecord{
				Name:                  stripped,
				Origin:                OriginRemote,
				Category:              Classify(stripped),
				LatestCommitTimestamp: commitTime(repo, ref),
			})
		case name.IsRemote():
			short := name.Short()
			if strings.HasSuffix(short, "/HEAD") {
				return nil
			}
			remoteNames[stripRemote(short)] = true
		}
		return nil
	})

	for i := range locals {
		locals[i].HasRemoteCounterpart = remoteNames[locals[i].Name]
	}

	records := locals
	if includeRemote {
		records = append(records, remotes...)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].Origin == OriginLocal
	})
	return records, nil
}

func stripRemote(short string) string {
	if idx := strings.Index(short, "/"); idx >= 0 {
		return short[idx+1:]
	}
	return short
}

func commitTime(repo *git.Repository, ref *plumbing.Reference) int64 {
	if ref.Type() != plumbing.HashReference {
		return 0
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return 0
	}
	return commit.Committer.When.Unix()
}

// BranchDivergence computes ahead/behind counts for a local branch against
// its upstream. Returns nil when there is no upstream or the query fails.
// go-git has no left-right counting, so this shells out.
func (r *Repo) BranchDivergence(branch string) *Divergence {
	upstream, err := gitOutput(r.Root, "rev-parse", "--abbrev-ref", branch+"@{upstream}")
	if err != nil {
		return nil
	}
	upstream = strings.TrimSpace(upstream)
	if upstream == "" {
		return nil
	}
	out, err := gitOutput(r.Root, "rev-list", "--left-right", "--count", branch+"..."+upstream)
	if err != nil {
		return nil
	}
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) != 2 {
		return nil
	}
	ahead, err1 := strconv.ParseUint(fields[0], 10, 32)
	behind, err2 := strconv.ParseUint(fields[1], 10, 32)
	if err1 != nil || err2 != nil {
		return nil
	}
	return &Divergence{
		Ahead:    uint(ahead),
		Behind:   uint(behind),
		UpToDate: ahead == 0 && behind == 0,
	}
}

// HasUnpushedCommits reports whether branch is ahead of its upstream.
func (r *Repo) HasUnpushedCommits(branch string) bool {
	d := r.BranchDivergence(branch)
	return d != nil && d.Ahead > 0
}

// RepoName returns the repository name from the origin remote URL, falling
// back to the root directory name.
func (r *Repo) RepoName() string {
	out, err := gitOutput(r.Root, "remote", "get-url", "origin")
	if err == nil {
		if name := parseRepoNameFromURL(strings.TrimSpace(out)); name != "" {
			return name
		}
	}
	parts := strings.Split(strings.TrimRight(r.Root, "/"), "/")
	return parts[len(parts)-1]
}

// parseRepoNameFromURL extracts the repository name from an SSH or HTTPS
// git URL.
func parseRepoNameFromURL(url string) string {
	url = strings.TrimSuffix(url, ".git")
	if idx := strings.LastIndex(url, ":"); idx != -1 && !strings.Contains(url, "://") {
		url = url[idx+1:]
	}
	if idx := strings.LastIndex(url, "/"); idx != -1 {
		return url[idx+1:]
	}
	return url
}

func gitOutput(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
