package gitrepo

import "testing"

func TestParseRepoNameFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"git@github.com:user/myrepo.git", "myrepo"},
		{"https://github.com/user/myrepo.git", "myrepo"},
		{"https://github.com/user/myrepo", "myrepo"},
		{"ssh://git@host/team/project.git", "project"},
	}
	for _, tc := range cases {
		if got := parseRepoNameFromURL(tc.url); got != tc.want {
			t.Errorf("parseRepoNameFromURL(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestStripRemote(t *testing.T) {
	if got := stripRemote("origin/feature/login"); got != "feature/login" {
		t.Errorf("got %q", got)
	}
	if got := stripRemote("topic"); got != "topic" {
		t.Errorf("got %q", got)
	}
}
