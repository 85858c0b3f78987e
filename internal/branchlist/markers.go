package branchlist

import (
	"fmt"

	"github.com/marcus/switchyard/internal/gitrepo"
)

// StatusMarker is the single change/PR-state marker shown for a branch.
// Under simultaneous conditions exactly one wins, in this order.
type StatusMarker string

const (
	MarkerUncommitted  StatusMarker = "!"
	MarkerUnpushed     StatusMarker = "^"
	MarkerPROpen       StatusMarker = "p"
	MarkerPRMerged     StatusMarker = "m"
	MarkerInaccessible StatusMarker = "x"
	MarkerCurrent      StatusMarker = "*"
	MarkerNone         StatusMarker = " "
)

// Status picks the winning marker: uncommitted changes > unpushed commits >
// open PR > merged PR > inaccessible worktree > current branch > none.
func (it *Item) Status() StatusMarker {
	switch {
	case it.HasChanges:
		return MarkerUncommitted
	case it.HasUnpushed:
		return MarkerUnpushed
	case it.PR == PROpen:
		return MarkerPROpen
	case it.PR == PRMerged:
		return MarkerPRMerged
	case it.HasWorktree && !it.WorktreeAccessible:
		return MarkerInaccessible
	case it.IsCurrent:
		return MarkerCurrent
	}
	return MarkerNone
}

// WorktreeMarker shows worktree linkage: active, inaccessible, or none.
func (it *Item) WorktreeMarker() string {
	switch {
	case it.HasWorktree && it.WorktreeAccessible:
		return "w"
	case it.HasWorktree:
		return "x"
	}
	return "."
}

// CategoryMarker is the single-letter branch-type column.
func (it *Item) CategoryMarker() string {
	switch it.Category {
	case gitrepo.CategoryMain:
		return "M"
	case gitrepo.CategoryDevelop:
		return "D"
	case gitrepo.CategoryFeature:
		return "f"
	case gitrepo.CategoryBugfix:
		return "b"
	case gitrepo.CategoryHotfix:
		return "h"
	case gitrepo.CategoryRelease:
		return "r"
	}
	return " "
}

// RemoteMarker shows remote linkage: tracked, remote-only, or local-only.
func (it *Item) RemoteMarker() string {
	switch {
	case it.Origin == gitrepo.OriginRemote:
		return "R"
	case it.HasRemoteCounterpart:
		return "r"
	}
	return " "
}

// SyncMarker renders the ahead/behind counts against the upstream.
func (it *Item) SyncMarker() string {
	d := it.Divergence
	if d == nil {
		return ""
	}
	if d.UpToDate {
		return "="
	}
	switch {
	case d.Ahead > 0 && d.Behind > 0:
		return fmt.Sprintf("+%d-%d", d.Ahead, d.Behind)
	case d.Ahead > 0:
		return fmt.Sprintf("+%d", d.Ahead)
	case d.Behind > 0:
		return fmt.Sprintf("-%d", d.Behind)
	}
	return "="
}
