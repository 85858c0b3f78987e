package history

import "strings"

// LastUsageByBranch returns the most recent entry per branch. When the
// history is empty but the pointer carries a branch and worktree, one entry
// is synthesized from the pointer so older files still produce usage data.
func LastUsageByBranch(entries []Entry, ptr Pointer) map[string]Entry {
	m := make(map[string]Entry)
	for _, e := range entries {
		if existing, ok := m[e.Branch]; !ok || existing.Timestamp < e.Timestamp {
			m[e.Branch] = e
		}
	}
	if len(m) == 0 && ptr.LastBranch != "" && ptr.LastWorktreePath != "" {
		label := ptr.ToolLabel
		if label == "" {
			label = ptr.LastUsedTool
		}
		if label == "" {
			label = "Custom"
		}
		m[ptr.LastBranch] = Entry{
			Branch:       ptr.LastBranch,
			WorktreePath: ptr.LastWorktreePath,
			ToolID:       ptr.LastUsedTool,
			ToolLabel:    label,
			SessionID:    ptr.LastSessionID,
			Model:        ptr.Model,
			ToolVersion:  ptr.ToolVersion,
			Timestamp:    ptr.Timestamp,
		}
	}
	return m
}

// ShortToolLabel maps a tool id or label to its canonical display name.
func ShortToolLabel(toolID, toolLabel string) string {
	for _, probe := range []string{strings.ToLower(toolID), strings.ToLower(toolLabel)} {
		switch {
		case strings.Contains(probe, "claude"):
			return "Claude"
		case strings.Contains(probe, "codex"):
			return "Codex"
		case strings.Contains(probe, "gemini"):
			return "Gemini"
		case strings.Contains(probe, "opencode"), strings.Contains(probe, "open-code"):
			return "OpenCode"
		}
	}
	return toolLabel
}

// FormatToolUsage renders an entry as "Label@version" for display.
func (e Entry) FormatToolUsage() string {
	version := e.ToolVersion
	if version == "" {
		version = "latest"
	}
	return ShortToolLabel(e.ToolID, e.ToolLabel) + "@" + version
}
