package gitrepo

import (
	"context"
	"time"
)

// Snapshot is one consistent-enough view of the repository: branches plus
// worktrees, rebuilt on every refresh. Either side may be empty when its
// query timed out; callers render what arrived.
type Snapshot struct {
	Branches  []BranchRecord
	Worktrees []WorktreeRecord
	Current   string
}

// SnapshotOptions bounds the per-query time spent loading a snapshot.
type SnapshotOptions struct {
	IncludeRemote     bool
	IncludeDivergence bool
	QueryTimeout      time.Duration
}

// DefaultQueryTimeout bounds each individual git query during a snapshot
// load. Short enough that a hung query never blocks the first render.
const DefaultQueryTimeout = 3 * time.Second

// LoadSnapshot fans out the branch, worktree and current-branch queries
// concurrently and joins the results. A query that misses its timeout
// contributes its zero value; the snapshot never fails as a whole.
func (r *Repo) LoadSnapshot(ctx context.Context, opts SnapshotOptions) Snapshot {
	timeout := opts.QueryTimeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	branchCh := make(chan []BranchRecord, 1)
	worktreeCh := make(chan []WorktreeRecord, 1)
	currentCh := make(chan string, 1)

	go func() {
		var records []BranchRecord
		var err error
		if opts.IncludeRemote {
			records, err = r.ListAllBranches()
		} else {
			records, err = r.ListLocalBranches()
		}
		if err != nil {
			records = nil
		}
		if opts.IncludeDivergence {
			for i := range records {
				if records[i].Origin == OriginLocal && records[i].HasRemoteCounterpart {
					records[i].Divergence = r.BranchDivergence(records[i].Name)
				}
			}
		}
		branchCh <- records
	}()
	go func() {
		worktreeCh <- r.ListWorktrees()
	}()
	go func() {
		currentCh <- r.CurrentBranch()
	}()

	var snap Snapshot
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for pending := 3; pending > 0; pending-- {
		select {
		case snap.Branches = <-branchCh:
		case snap.Worktrees = <-worktreeCh:
		case snap.Current = <-currentCh:
		case <-deadline.C:
			return snap
		case <-ctx.Done():
			return snap
		}
	}
	return snap
}
