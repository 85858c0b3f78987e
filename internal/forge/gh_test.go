package forge

import "testing"

func TestNormalizeState(t *testing.T) {
	cases := []struct {
		state, mergedAt string
		want            PRState
	}{
		{"OPEN", "", PRStateOpen},
		{"open", "", PRStateOpen},
		{"MERGED", "", PRStateMerged},
		{"CLOSED", "", PRStateClosed},
		{"OPEN", "2026-08-01T00:00:00Z", PRStateMerged},
		{"", "", PRStateClosed},
	}
	for _, tc := range cases {
		if got := normalizeState(tc.state, tc.mergedAt); got != tc.want {
			t.Errorf("normalizeState(%q, %q) = %q, want %q", tc.state, tc.mergedAt, got, tc.want)
		}
	}
}

func TestReducePRsKeepsMostRecentlyUpdated(t *testing.T) {
	prs := []ghPR{
		{Number: 1, HeadRefName: "topic", State: "CLOSED", UpdatedAt: "2026-01-01T00:00:00Z"},
		{Number: 2, HeadRefName: "topic", State: "OPEN", UpdatedAt: "2026-02-01T00:00:00Z"},
		{Number: 3, HeadRefName: "other", State: "OPEN", UpdatedAt: "2026-01-15T00:00:00Z"},
	}
	result := reducePRs(prs)
	if len(result) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(result))
	}
	if result["topic"].Number != 2 || result["topic"].State != PRStateOpen {
		t.Errorf("expected newest PR for topic, got %+v", result["topic"])
	}
}

func TestPRDataByBranchEmptyInputs(t *testing.T) {
	m := NewManager()
	out, err := m.PRDataByBranch("", []string{"a"})
	if err != nil || len(out) != 0 {
		t.Errorf("empty repo root must short-circuit, got %v, %v", out, err)
	}
	out, err = m.PRDataByBranch("/repo", nil)
	if err != nil || len(out) != 0 {
		t.Errorf("empty branch list must short-circuit, got %v, %v", out, err)
	}
}
