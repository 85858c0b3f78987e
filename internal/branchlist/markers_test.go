package branchlist

import (
	"testing"

	"github.com/marcus/switchyard/internal/gitrepo"
)

func TestStatusMarkerPriority(t *testing.T) {
	it := Item{BranchRecord: gitrepo.BranchRecord{IsCurrent: true}}
	it.HasWorktree = true
	it.WorktreeAccessible = false
	it.PR = PRMerged
	it.HasUnpushed = true
	it.HasChanges = true

	// All conditions at once: strip one layer at a time.
	if got := it.Status(); got != MarkerUncommitted {
		t.Errorf("want uncommitted, got %q", got)
	}
	it.HasChanges = false
	if got := it.Status(); got != MarkerUnpushed {
		t.Errorf("want unpushed, got %q", got)
	}
	it.HasUnpushed = false
	it.PR = PROpen
	if got := it.Status(); got != MarkerPROpen {
		t.Errorf("want open PR, got %q", got)
	}
	it.PR = PRMerged
	if got := it.Status(); got != MarkerPRMerged {
		t.Errorf("want merged PR, got %q", got)
	}
	it.PR = PRNone
	if got := it.Status(); got != MarkerInaccessible {
		t.Errorf("want inaccessible, got %q", got)
	}
	it.WorktreeAccessible = true
	if got := it.Status(); got != MarkerCurrent {
		t.Errorf("want current, got %q", got)
	}
	it.IsCurrent = false
	if got := it.Status(); got != MarkerNone {
		t.Errorf("want none, got %q", got)
	}
}

func TestSyncMarker(t *testing.T) {
	it := Item{}
	if got := it.SyncMarker(); got != "" {
		t.Errorf("no divergence should render empty, got %q", got)
	}
	it.Divergence = &gitrepo.Divergence{UpToDate: true}
	if got := it.SyncMarker(); got != "=" {
		t.Errorf("got %q", got)
	}
	it.Divergence = &gitrepo.Divergence{Ahead: 2}
	if got := it.SyncMarker(); got != "+2" {
		t.Errorf("got %q", got)
	}
	it.Divergence = &gitrepo.Divergence{Ahead: 1, Behind: 3}
	if got := it.SyncMarker(); got != "+1-3" {
		t.Errorf("got %q", got)
	}
	it.Divergence = &gitrepo.Divergence{Behind: 4}
	if got := it.SyncMarker(); got != "-4" {
		t.Errorf("got %q", got)
	}
}

func TestWorktreeMarker(t *testing.T) {
	it := Item{}
	if it.WorktreeMarker() != "." {
		t.Error("no worktree should render .")
	}
	it.HasWorktree = true
	if it.WorktreeMarker() != "x" {
		t.Error("inaccessible worktree should render x")
	}
	it.WorktreeAccessible = true
	if it.WorktreeMarker() != "w" {
		t.Error("active worktree should render w")
	}
}
