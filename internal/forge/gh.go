// Package forge reads pull request state for branches through the gh CLI.
// gh owns authentication; a missing or failing gh degrades to an empty
// result, never an error surfaced to rendering.
package forge

import (
	"encoding/json"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// PRState is the normalized pull request status for a head branch.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
	PRStateMerged PRState = "merged"
)

// PRData is one branch's most recently updated pull request.
type PRData struct {
	Number int
	URL    string
	Branch string
	State  PRState
}

// Manager caches per-repository PR lookups for a short TTL so a list
// refresh does not hammer the forge.
type Manager struct {
	mu    sync.Mutex
	cache map[string]repoCache
	ttl   time.Duration
}

type repoCache struct {
	fetchedAt time.Time
	prs       map[string]PRData
}

type ghPR struct {
	Number      int    `json:"number"`
	URL         string `json:"url"`
	HeadRefName string `json:"headRefName"`
	State       string `json:"state"`
	UpdatedAt   string `json:"updatedAt"`
	MergedAt    string `json:"mergedAt"`
}

// NewManager returns a Manager with a 20 second cache TTL.
func NewManager() *Manager {
	return &Manager{
		cache: make(map[string]repoCache),
		ttl:   20 * time.Second,
	}
}

// PRDataByBranch returns PR data for the requested branches, served from
// cache when fresh. The error reports the last fetch failure but the map is
// always usable.
func (m *Manager) PRDataByBranch(repoRoot string, branches []string) (map[string]PRData, error) {
	repoRoot = strings.TrimSpace(repoRoot)
	if repoRoot == "" || len(branches) == 0 {
		return map[string]PRData{}, nil
	}

	m.mu.Lock()
	cached, ok := m.cache[repoRoot]
	fresh := ok && time.Since(cached.fetchedAt) < m.ttl
	m.mu.Unlock()

	var fetchErr error
	if !fresh {
		prs, err := fetchRepoPRData(repoRoot)
		if err == nil {
			m.mu.Lock()
			m.cache[repoRoot] = repoCache{fetchedAt: time.Now(), prs: prs}
			cached = m.cache[repoRoot]
			m.mu.Unlock()
		} else {
			fetchErr = err
		}
	}

	out := make(map[string]PRData, len(branches))
	for _, b := range branches {
		if d, ok := cached.prs[b]; ok {
			out[b] = d
		}
	}
	return out, fetchErr
}

func fetchRepoPRData(repoRoot string) (map[string]PRData, error) {
	ghPath, err := exec.LookPath("gh")
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(ghPath, "pr", "list",
		"--state", "all",
		"--json", "number,url,headRefName,state,updatedAt,mergedAt",
		"--limit", "200")
	cmd.Dir = repoRoot
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	var prs []ghPR
	if err := json.Unmarshal(out, &prs); err != nil {
		return nil, err
	}
	return reducePRs(prs), nil
}

// reducePRs keeps the most recently updated PR per head branch.
func reducePRs(prs []ghPR) map[string]PRData {
	result := make(map[string]PRData, len(prs))
	latest := make(map[string]time.Time, len(prs))
	for _, pr := range prs {
		branch := strings.TrimSpace(pr.HeadRefName)
		if branch == "" {
			continue
		}
		updatedAt := parseForgeTime(pr.UpdatedAt)
		if t, ok := latest[branch]; ok && !updatedAt.After(t) {
			continue
		}
		latest[branch] = updatedAt
		result[branch] = PRData{
			Number: pr.Number,
			URL:    strings.TrimSpace(pr.URL),
			Branch: branch,
			State:  normalizeState(pr.State, pr.MergedAt),
		}
	}
	return result
}

func parseForgeTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}
	}
	return t
}

func normalizeState(state, mergedAt string) PRState {
	if strings.TrimSpace(mergedAt) != "" {
		return PRStateMerged
	}
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "OPEN":
		return PRStateOpen
	case "MERGED":
		return PRStateMerged
	default:
		return PRStateClosed
	}
}
