package branchlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Column widths for the fixed-width listing.
const (
	nameWidth  = 40
	syncWidth  = 8
	usageWidth = 20
)

// RowOptions selects the optional columns of a formatted row.
type RowOptions struct {
	ShowRemoteMarker bool
	ShowSyncMarker   bool
}

// DefaultRowOptions shows every column.
func DefaultRowOptions() RowOptions {
	return RowOptions{ShowRemoteMarker: true, ShowSyncMarker: true}
}

// FormatRow renders one branch as a fixed-width line:
// category, worktree, status and remote markers, padded name, sync marker,
// commit date, last tool usage. Columns switched off in opts are omitted
// for every row, so alignment holds across the list.
func FormatRow(it *Item, opts RowOptions) string {
	name := runewidth.Truncate(it.Name, nameWidth, "…")
	name = runewidth.FillRight(name, nameWidth)

	usage := runewidth.FillRight(runewidth.Truncate(it.LastToolUsage, usageWidth, "…"), usageWidth)

	var out strings.Builder
	out.WriteString(it.CategoryMarker())
	out.WriteString(it.WorktreeMarker())
	out.WriteString(string(it.Status()))
	if opts.ShowRemoteMarker {
		out.WriteString(it.RemoteMarker())
	}
	fmt.Fprintf(&out, " %s ", name)
	if opts.ShowSyncMarker {
		fmt.Fprintf(&out, "%s ", runewidth.FillRight(it.SyncMarker(), syncWidth))
	}
	fmt.Fprintf(&out, "%s %s", formatCommitDate(it.LatestCommitTimestamp), usage)
	return out.String()
}

// formatCommitDate renders an epoch-seconds timestamp as local
// "YYYY-MM-DD HH:mm", or dashes when unknown.
func formatCommitDate(ts int64) string {
	if ts <= 0 {
		return "---------- --:--"
	}
	return time.Unix(ts, 0).Local().Format("2006-01-02 15:04")
}
