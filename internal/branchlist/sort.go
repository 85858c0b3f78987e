package branchlist

import (
	"sort"
	"strings"

	"github.com/marcus/switchyard/internal/gitrepo"
)

// Sort orders items in place by the seven-level priority:
//
//  1. current branch
//  2. main
//  3. develop, only when a main exists in the set
//  4. linked accessible worktree
//  5. latest commit timestamp descending (missing treated as 0)
//  6. local before remote-only
//  7. name, case-insensitive
//
// The sort is stable so equal items keep their input order.
func Sort(items []Item) {
	hasMain := false
	for i := range items {
		if items[i].Category == gitrepo.CategoryMain {
			hasMain = true
			break
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := &items[i], &items[j]

		if a.IsCurrent != b.IsCurrent {
			return a.IsCurrent
		}

		aMain := a.Category == gitrepo.CategoryMain
		bMain := b.Category == gitrepo.CategoryMain
		if aMain != bMain {
			return aMain
		}

		if hasMain {
			aDev := a.Category == gitrepo.CategoryDevelop
			bDev := b.Category == gitrepo.CategoryDevelop
			if aDev != bDev {
				return aDev
			}
		}

		aWt := a.HasWorktree && a.WorktreeAccessible
		bWt := b.HasWorktree && b.WorktreeAccessible
		if aWt != bWt {
			return aWt
		}

		if a.LatestCommitTimestamp != b.LatestCommitTimestamp {
			return a.LatestCommitTimestamp > b.LatestCommitTimestamp
		}

		aLocal := a.Origin == gitrepo.OriginLocal
		bLocal := b.Origin == gitrepo.OriginLocal
		if aLocal != bLocal {
			return aLocal
		}

		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
