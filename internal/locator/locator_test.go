package locator

import (
	"testing"
	"time"
)

func TestBetterPrefersNewerModTime(t *testing.T) {
	older := &Hit{ID: "a", ModTime: time.Unix(100, 0), Path: "/z"}
	newer := &Hit{ID: "b", ModTime: time.Unix(200, 0), Path: "/a"}
	if !Better(newer, older) {
		t.Error("newer hit should win")
	}
	if Better(older, newer) {
		t.Error("older hit should not win")
	}
}

func TestBetterBreaksTiesByPath(t *testing.T) {
	ts := time.Unix(100, 0)
	a := &Hit{ID: "a", ModTime: ts, Path: "/sessions/aaa.jsonl"}
	b := &Hit{ID: "b", ModTime: ts, Path: "/sessions/bbb.jsonl"}
	if !Better(a, b) {
		t.Error("lexicographically smaller path should win the tie")
	}
	if Better(b, a) {
		t.Error("larger path should lose the tie")
	}
}

func TestBetterNilHandling(t *testing.T) {
	h := &Hit{ID: "a", ModTime: time.Unix(1, 0)}
	if Better(nil, h) {
		t.Error("nil candidate never wins")
	}
	if !Better(h, nil) {
		t.Error("any candidate beats nil")
	}
}

func TestNormalizeToolID(t *testing.T) {
	cases := map[string]string{
		"claude":      "claude-code",
		"Claude-Code": "claude-code",
		"codex":       "codex-cli",
		"codex-cli":   "codex-cli",
		"gemini":      "gemini-cli",
		"open-code":   "opencode",
		"mytool":      "mytool",
		" codex ":     "codex-cli",
	}
	for in, want := range cases {
		if got := NormalizeToolID(in); got != want {
			t.Errorf("NormalizeToolID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeBranchName(t *testing.T) {
	if got := NormalizeBranchName("origin/feature/x"); got != "feature/x" {
		t.Errorf("got %q", got)
	}
	if got := NormalizeBranchName("  main "); got != "main" {
		t.Errorf("got %q", got)
	}
}

type stubLocator struct{ id string }

func (s *stubLocator) ID() string                              { return s.id }
func (s *stubLocator) Name() string                            { return s.id }
func (s *stubLocator) Root() string                            { return "" }
func (s *stubLocator) Locate(SearchOptions) (*Hit, error)      { return nil, nil }

func TestRegistryForTool(t *testing.T) {
	RegisterFactory(func() Locator { return &stubLocator{id: "test-tool"} })
	if l := ForTool("test-tool"); l == nil {
		t.Fatal("registered locator not found")
	}
	if l := ForTool("no-such-tool"); l != nil {
		t.Fatal("unexpected locator for unknown tool")
	}
}
