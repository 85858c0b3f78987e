package gitrepo

import "strings"

// Origin identifies where a branch ref lives.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// Category classifies a branch by its name.
type Category string

const (
	CategoryMain    Category = "main"
	CategoryDevelop Category = "develop"
	CategoryFeature Category = "feature"
	CategoryBugfix  Category = "bugfix"
	CategoryHotfix  Category = "hotfix"
	CategoryRelease Category = "release"
	CategoryOther   Category = "other"
)

// Divergence holds ahead/behind commit counts against the upstream ref.
type Divergence struct {
	Ahead    uint
	Behind   uint
	UpToDate bool
}

// ToolUsage points at the most recent recorded agent launch for a branch.
type ToolUsage struct {
	ToolID    string
	ToolLabel string
	Timestamp int64 // epoch ms
}

// BranchRecord is the canonical in-memory representation of one branch ref.
// There is at most one record per (Name, Origin) pair, and IsCurrent is true
// for at most one local record.
type BranchRecord struct {
	Name                  string
	Origin                Origin
	Category              Category
	IsCurrent             bool
	HasRemoteCounterpart  bool
	Divergence            *Divergence
	LatestCommitTimestamp int64 // epoch seconds, 0 when unknown
	LastToolUsage         *ToolUsage
}

// WorktreeRecord describes one git worktree. Lifecycle is owned by git;
// records are observed, never created here.
type WorktreeRecord struct {
	Path                  string
	Branch                string
	IsMain                bool
	IsAccessible          bool
	HasUncommittedChanges *bool
}

// Classify derives a branch category from its name. main and develop (and
// their aliases) are exact matches on the final path segment so that
// "origin/main" still classifies as main; the rest match on path prefixes.
func Classify(name string) Category {
	lower := strings.ToLower(name)
	last := lower
	if idx := strings.LastIndex(lower, "/"); idx >= 0 {
		last = lower[idx+1:]
	}
	switch last {
	case "main", "master":
		return CategoryMain
	case "develop", "dev":
		return CategoryDevelop
	}
	switch {
	case strings.Contains(lower, "feature/"):
		return CategoryFeature
	case strings.Contains(lower, "bugfix/"), strings.Contains(lower, "bug/"):
		return CategoryBugfix
	case strings.Contains(lower, "hotfix/"):
		return CategoryHotfix
	case strings.Contains(lower, "release/"):
		return CategoryRelease
	}
	return CategoryOther
}
