package locator

import "strings"

// NormalizeToolID folds tool id aliases to their canonical form.
func NormalizeToolID(toolID string) string {
	id := strings.ToLower(strings.TrimSpace(toolID))
	switch id {
	case "claude", "claude-code":
		return "claude-code"
	case "codex", "codex-cli":
		return "codex-cli"
	case "gemini", "gemini-cli":
		return "gemini-cli"
	case "opencode", "open-code":
		return "opencode"
	}
	return id
}

// NormalizeBranchName strips the origin/ prefix so remote-qualified names
// match the local form history entries are recorded under.
func NormalizeBranchName(branch string) string {
	trimmed := strings.TrimSpace(branch)
	return strings.TrimPrefix(trimmed, "origin/")
}
