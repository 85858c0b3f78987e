package branchlist

import (
	"strings"
	"testing"

	"github.com/marcus/switchyard/internal/gitrepo"
	"github.com/marcus/switchyard/internal/history"
)

func TestBuildDropsRemoteDuplicates(t *testing.T) {
	snap := gitrepo.Snapshot{
		Branches: []gitrepo.BranchRecord{
			{Name: "topic", Origin: gitrepo.OriginLocal},
			{Name: "topic", Origin: gitrepo.OriginRemote},
			{Name: "remote-only", Origin: gitrepo.OriginRemote},
		},
	}
	items := Build(snap, BuildOptions{})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, it := range items {
		if it.Name == "topic" && it.Origin != gitrepo.OriginLocal {
			t.Error("local topic should shadow the remote one")
		}
	}
	found := false
	for _, it := range items {
		if it.Name == "remote-only" {
			found = true
		}
	}
	if !found {
		t.Error("remote-only branch without local counterpart must be retained")
	}
}

func TestBuildLinksWorktreeAndUsage(t *testing.T) {
	dirty := true
	snap := gitrepo.Snapshot{
		Branches: []gitrepo.BranchRecord{
			{Name: "feature/auth", Origin: gitrepo.OriginLocal},
		},
		Worktrees: []gitrepo.WorktreeRecord{
			{Path: "/wt/auth", Branch: "feature/auth", IsAccessible: true, HasUncommittedChanges: &dirty},
		},
	}
	usage := map[string]history.Entry{
		"feature/auth": {ToolID: "claude-code", ToolLabel: "Claude Code", ToolVersion: "2.0"},
	}
	items := Build(snap, BuildOptions{
		Usage:    usage,
		PRStates: map[string]PRStatus{"feature/auth": PROpen},
	})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	it := items[0]
	if !it.HasWorktree || it.WorktreePath != "/wt/auth" || !it.WorktreeAccessible {
		t.Errorf("worktree not linked: %+v", it)
	}
	if !it.HasChanges {
		t.Error("uncommitted changes not propagated")
	}
	if it.PR != PROpen {
		t.Errorf("PR state not propagated: %q", it.PR)
	}
	if it.LastToolUsage != "Claude@2.0" {
		t.Errorf("usage not formatted: %q", it.LastToolUsage)
	}
}

func TestBuildUnpushedFromDivergence(t *testing.T) {
	snap := gitrepo.Snapshot{
		Branches: []gitrepo.BranchRecord{
			{Name: "topic", Origin: gitrepo.OriginLocal, Divergence: &gitrepo.Divergence{Ahead: 2}},
		},
	}
	items := Build(snap, BuildOptions{})
	if !items[0].HasUnpushed {
		t.Error("ahead divergence should mark unpushed")
	}
}

func TestFormatRowFixedPrefix(t *testing.T) {
	it := Item{BranchRecord: gitrepo.BranchRecord{
		Name:     "main",
		Origin:   gitrepo.OriginLocal,
		Category: gitrepo.CategoryMain,
	}}
	it.HasWorktree = true
	it.WorktreeAccessible = true

	row := FormatRow(&it, DefaultRowOptions())
	if !strings.HasPrefix(row, "Mw") {
		t.Errorf("unexpected marker prefix: %q", row)
	}
	if !strings.Contains(row, "main") {
		t.Errorf("row should contain the branch name: %q", row)
	}
}

func TestFormatRowHidesDisabledColumns(t *testing.T) {
	it := Item{BranchRecord: gitrepo.BranchRecord{
		Name:     "topic",
		Origin:   gitrepo.OriginLocal,
		Category: gitrepo.CategoryFeature,
	}}
	it.HasRemoteCounterpart = true
	it.Divergence = &gitrepo.Divergence{Ahead: 2}

	full := FormatRow(&it, DefaultRowOptions())
	if !strings.Contains(full, it.RemoteMarker()) {
		t.Errorf("full row missing remote marker: %q", full)
	}
	if !strings.Contains(full, "+2") {
		t.Errorf("full row missing sync marker: %q", full)
	}

	bare := FormatRow(&it, RowOptions{})
	if strings.Contains(bare, "+2") {
		t.Errorf("sync column should be hidden: %q", bare)
	}
	if len(bare) >= len(full) {
		t.Errorf("hidden columns should shorten the row: %q vs %q", bare, full)
	}
}
