package history

import "testing"

func TestLastUsageByBranchKeepsNewest(t *testing.T) {
	entries := []Entry{
		{Branch: "topic", ToolID: "codex", Timestamp: 100},
		{Branch: "topic", ToolID: "claude-code", Timestamp: 300},
		{Branch: "main", ToolID: "gemini", Timestamp: 200},
	}
	m := LastUsageByBranch(entries, Pointer{})
	if len(m) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(m))
	}
	if m["topic"].ToolID != "claude-code" {
		t.Errorf("expected newest entry for topic, got %+v", m["topic"])
	}
}

func TestLastUsageByBranchPointerFallback(t *testing.T) {
	ptr := Pointer{
		LastWorktreePath: "/wt/topic",
		LastBranch:       "topic",
		LastUsedTool:     "codex",
		LastSessionID:    "s1",
		Timestamp:        500,
	}
	m := LastUsageByBranch(nil, ptr)
	if len(m) != 1 {
		t.Fatalf("expected synthesized entry, got %d", len(m))
	}
	e := m["topic"]
	if e.SessionID != "s1" || e.ToolID != "codex" || e.ToolLabel != "codex" {
		t.Errorf("unexpected synthesized entry: %+v", e)
	}
}

func TestLastUsageByBranchNoFallbackWhenHistoryExists(t *testing.T) {
	entries := []Entry{{Branch: "main", ToolID: "codex", Timestamp: 100}}
	ptr := Pointer{LastWorktreePath: "/wt", LastBranch: "other", Timestamp: 999}
	m := LastUsageByBranch(entries, ptr)
	if _, ok := m["other"]; ok {
		t.Error("pointer fallback should only apply to an empty history")
	}
}

func TestShortToolLabel(t *testing.T) {
	cases := []struct {
		id, label, want string
	}{
		{"claude-code", "Claude Code", "Claude"},
		{"codex-cli", "Codex CLI", "Codex"},
		{"gemini", "Gemini CLI", "Gemini"},
		{"opencode", "OpenCode", "OpenCode"},
		{"", "open-code thing", "OpenCode"},
		{"mytool", "My Tool", "My Tool"},
	}
	for _, tc := range cases {
		if got := ShortToolLabel(tc.id, tc.label); got != tc.want {
			t.Errorf("ShortToolLabel(%q, %q) = %q, want %q", tc.id, tc.label, got, tc.want)
		}
	}
}

func TestFormatToolUsage(t *testing.T) {
	e := Entry{ToolID: "claude-code", ToolLabel: "Claude Code", ToolVersion: "2.1"}
	if got := e.FormatToolUsage(); got != "Claude@2.1" {
		t.Errorf("got %q", got)
	}
	e.ToolVersion = ""
	if got := e.FormatToolUsage(); got != "Claude@latest" {
		t.Errorf("got %q", got)
	}
}
