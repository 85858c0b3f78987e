// Package branchlist turns the repository state model into the
// deterministically ordered, displayable branch sequence used by the
// selector and any downstream listing.
package branchlist

import (
	"github.com/marcus/switchyard/internal/gitrepo"
	"github.com/marcus/switchyard/internal/history"
)

// PRStatus is the pull request state for a branch, as reported by the forge.
type PRStatus string

const (
	PRNone   PRStatus = ""
	PROpen   PRStatus = "open"
	PRMerged PRStatus = "merged"
	PRClosed PRStatus = "closed"
)

// Item is one displayable branch row.
type Item struct {
	gitrepo.BranchRecord

	HasWorktree        bool
	WorktreePath       string
	WorktreeAccessible bool
	HasChanges         bool
	HasUnpushed        bool
	PR                 PRStatus
	LastToolUsage      string
}

// BuildOptions carries the side inputs merged into the item list.
type BuildOptions struct {
	Usage    map[string]history.Entry // newest entry per branch
	PRStates map[string]PRStatus      // head branch name to PR state
}

// Build merges the snapshot into items. Remote-only records whose local
// counterpart exists are dropped before sorting; local takes precedence in
// the merged view.
func Build(snap gitrepo.Snapshot, opts BuildOptions) []Item {
	local := make(map[string]bool, len(snap.Branches))
	for _, b := range snap.Branches {
		if b.Origin == gitrepo.OriginLocal {
			local[b.Name] = true
		}
	}

	items := make([]Item, 0, len(snap.Branches))
	for _, b := range snap.Branches {
		if b.Origin == gitrepo.OriginRemote && local[b.Name] {
			continue
		}
		item := Item{BranchRecord: b}
		for i := range snap.Worktrees {
			wt := &snap.Worktrees[i]
			if wt.Branch != b.Name || b.Origin != gitrepo.OriginLocal {
				continue
			}
			item.HasWorktree = true
			item.WorktreePath = wt.Path
			item.WorktreeAccessible = wt.IsAccessible
			if wt.HasUncommittedChanges != nil {
				item.HasChanges = *wt.HasUncommittedChanges
			}
			break
		}
		if b.Divergence != nil && b.Divergence.Ahead > 0 {
			item.HasUnpushed = true
		}
		if opts.PRStates != nil {
			item.PR = opts.PRStates[b.Name]
		}
		if opts.Usage != nil {
			if entry, ok := opts.Usage[b.Name]; ok {
				item.LastToolUsage = entry.FormatToolUsage()
			}
		}
		items = append(items, item)
	}
	return items
}
