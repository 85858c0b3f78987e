// Package continuity decides which previously-used agent session to resume
// for a branch, and keeps the history's session ids honest against each
// tool's on-disk store.
package continuity

import (
	"github.com/marcus/switchyard/internal/history"
	"github.com/marcus/switchyard/internal/locator"
)

// Resolve returns the session id a continue/resume launch should use, or ""
// when the caller should start fresh. Priority, first match wins:
//
//  1. newest-to-oldest history entry for (branch, tool) with a session id;
//  2. the last-used pointer when it matches branch and tool;
//  3. nothing.
//
// History wins over the pointer because entries record exactly which tool
// ran on which branch; the pointer only reflects the very last launch of
// any kind and goes stale the moment a second branch is used. Resolution is
// a pure function of its inputs; locator results reach the history through
// the refresh engine, never from here.
func Resolve(branch, toolID string, entries []history.Entry, ptr history.Pointer) string {
	tool := locator.NormalizeToolID(toolID)
	for _, e := range history.SortedByTimestamp(entries) {
		if e.Branch == branch && locator.NormalizeToolID(e.ToolID) == tool && e.SessionID != "" {
			return e.SessionID
		}
	}
	if ptr.LastBranch == branch && locator.NormalizeToolID(ptr.LastUsedTool) == tool && ptr.LastSessionID != "" {
		return ptr.LastSessionID
	}
	return ""
}
