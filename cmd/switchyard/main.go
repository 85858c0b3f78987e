package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/switchyard/internal/branchlist"
	"github.com/marcus/switchyard/internal/config"
	"github.com/marcus/switchyard/internal/continuity"
	"github.com/marcus/switchyard/internal/forge"
	"github.com/marcus/switchyard/internal/gitrepo"
	"github.com/marcus/switchyard/internal/history"
	"github.com/marcus/switchyard/internal/locator"
	"github.com/marcus/switchyard/internal/locator/claudecode"
	"github.com/marcus/switchyard/internal/locator/codex"
	"github.com/marcus/switchyard/internal/locator/geminicli"
	"github.com/marcus/switchyard/internal/locator/opencode"
	"github.com/marcus/switchyard/internal/ui"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath   = flag.String("config", "", "path to config file")
	branchFlag   = flag.String("branch", "", "branch to resolve or record against")
	toolFlag     = flag.String("tool", "", "tool id (claude-code, codex-cli, gemini-cli, opencode)")
	listFlag     = flag.Bool("list", false, "print the sorted branch list and exit")
	quickStart   = flag.Bool("quick-start", false, "re-validate session ids against the tool stores first")
	recordFlag   = flag.Bool("record", false, "record a launch for -branch and -tool")
	sessionFlag  = flag.String("session", "", "session id to record")
	modeFlag     = flag.String("mode", "normal", "launch mode to record (normal, continue, resume)")
	modelFlag    = flag.String("model", "", "model name to record")
	jsonFlag     = flag.Bool("json", false, "emit JSON instead of text")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	versionFlag  = flag.Bool("version", false, "print version and exit")
	shortVersion = flag.Bool("v", false, "print version and exit (short)")
)

func main() {
	flag.Parse()

	if *versionFlag || *shortVersion {
		fmt.Printf("switchyard version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	repo, err := gitrepo.Open(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Not inside a git repository: %v\n", err)
		os.Exit(1)
	}

	store := history.NewStore(repo.Root)

	switch {
	case *recordFlag:
		if err := runRecord(repo, cfg, store); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to record launch: %v\n", err)
			os.Exit(1)
		}
	case *branchFlag != "" && *toolFlag != "":
		runResolve(repo, cfg, store)
	case *listFlag:
		runList(repo, cfg, store)
	default:
		if err := runPicker(repo, cfg, store); err != nil {
			fmt.Fprintf(os.Stderr, "Error running picker: %v\n", err)
			os.Exit(1)
		}
	}
}

// runRecord appends one launch entry and moves the last-used pointer.
func runRecord(repo *gitrepo.Repo, cfg *config.Config, store *history.Store) error {
	if *branchFlag == "" || *toolFlag == "" {
		return fmt.Errorf("-record requires -branch and -tool")
	}
	entry := history.Entry{
		Branch:    *branchFlag,
		ToolID:    locator.NormalizeToolID(*toolFlag),
		ToolLabel: *toolFlag,
		SessionID: *sessionFlag,
		Mode:      *modeFlag,
		Model:     *modelFlag,
		Timestamp: time.Now().UnixMilli(),
	}
	if tc := cfg.Tool(entry.ToolID); tc != nil {
		entry.ToolLabel = tc.Label
	}
	if wt := repo.WorktreeForBranch(*branchFlag, repo.ListWorktrees()); wt != nil {
		entry.WorktreePath = wt.Path
	}
	return store.RecordLaunch(entry)
}

// runResolve prints the session id a continue launch should use, or nothing
// when the tool should start fresh. With -quick-start the history's ids are
// first re-validated against each tool's own store.
func runResolve(repo *gitrepo.Repo, cfg *config.Config, store *history.Store) {
	entries, ptr := store.Load()

	if *quickStart {
		snap := repo.LoadSnapshot(context.Background(), gitrepo.SnapshotOptions{
			QueryTimeout: cfg.Scan.InitialTimeout,
		})
		refreshed := continuity.Refresh(context.Background(), entries, *branchFlag, worktreeRefs(snap), continuity.RefreshOptions{
			Locators: buildLocators(cfg),
			Timeout:  cfg.Scan.RefreshTimeout,
		})
		if err := store.ApplyRefresh(refreshed); err != nil {
			slog.Warn("could not persist refreshed session ids", "err", err)
		}
		entries, ptr = store.Load()
	}

	id := continuity.Resolve(*branchFlag, *toolFlag, entries, ptr)
	if *jsonFlag {
		out := map[string]string{"branch": *branchFlag, "tool": locator.NormalizeToolID(*toolFlag), "sessionId": id}
		json.NewEncoder(os.Stdout).Encode(out)
		return
	}
	if id != "" {
		fmt.Println(id)
	}
}

func runList(repo *gitrepo.Repo, cfg *config.Config, store *history.Store) {
	items := loadItems(repo, cfg, store)
	if *jsonFlag {
		out := make([]branchJSON, len(items))
		for i := range items {
			out[i] = toBranchJSON(&items[i])
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
		return
	}
	for i := range items {
		fmt.Println(branchlist.FormatRow(&items[i], rowOptions(cfg)))
	}
}

func runPicker(repo *gitrepo.Repo, cfg *config.Config, store *history.Store) error {
	items := loadItems(repo, cfg, store)

	tool := *toolFlag
	if tool == "" && len(cfg.Tools) > 0 {
		tool = cfg.Tools[0].ID
	}
	// Re-read the store on every resolution so background refreshes from the
	// watcher are picked up.
	resolve := func(branch string) string {
		entries, ptr := store.Load()
		return continuity.Resolve(branch, tool, entries, ptr)
	}

	model := ui.NewPicker(items, resolve)
	model.SetRowOptions(rowOptions(cfg))
	p := tea.NewProgram(model, tea.WithAltScreen())
	watchSessionStores(p, repo, cfg, store, buildLocators(cfg))
	final, err := p.Run()
	if err != nil {
		return err
	}
	sel := final.(*ui.Model).Selection()
	if sel == nil {
		return nil
	}
	if *jsonFlag {
		out := map[string]string{"branch": sel.Name, "tool": tool, "sessionId": resolve(sel.Name)}
		return json.NewEncoder(os.Stdout).Encode(out)
	}
	fmt.Println(sel.Name)
	if id := resolve(sel.Name); id != "" {
		fmt.Println(id)
	}
	return nil
}

// loadItems assembles the sorted, annotated branch list: git snapshot plus
// last-tool usage plus PR states.
func loadItems(repo *gitrepo.Repo, cfg *config.Config, store *history.Store) []branchlist.Item {
	snap := repo.LoadSnapshot(context.Background(), gitrepo.SnapshotOptions{
		IncludeRemote:     cfg.Scan.IncludeRemote,
		IncludeDivergence: cfg.Scan.IncludeDivergence,
		QueryTimeout:      cfg.Scan.InitialTimeout,
	})

	entries, ptr := store.Load()
	opts := branchlist.BuildOptions{
		Usage: history.LastUsageByBranch(entries, ptr),
	}

	if cfg.Forge.Enabled {
		names := make([]string, 0, len(snap.Branches))
		for _, b := range snap.Branches {
			if b.Origin == gitrepo.OriginLocal {
				names = append(names, b.Name)
			}
		}
		prs, err := forge.NewManager().PRDataByBranch(repo.Root, names)
		if err != nil {
			slog.Debug("forge lookup failed", "err", err)
		}
		if len(prs) > 0 {
			opts.PRStates = make(map[string]branchlist.PRStatus, len(prs))
			for name, pr := range prs {
				opts.PRStates[name] = prStatus(pr.State)
			}
		}
	}

	items := branchlist.Build(snap, opts)
	branchlist.Sort(items)
	return items
}

// buildLocators instantiates the registered locators, replacing any whose
// tool config carries a storeDir override with a locator rooted there.
func buildLocators(cfg *config.Config) map[string]locator.Locator {
	locators := locator.All()
	for _, tc := range cfg.Tools {
		if tc.StoreDir == "" {
			continue
		}
		switch locator.NormalizeToolID(tc.ID) {
		case "claude-code":
			locators["claude-code"] = claudecode.NewWithRoot(tc.StoreDir)
		case "codex-cli":
			locators["codex-cli"] = codex.NewWithRoot(tc.StoreDir)
		case "gemini-cli":
			locators["gemini-cli"] = geminicli.NewWithRoot(tc.StoreDir)
		case "opencode":
			locators["opencode"] = opencode.NewWithRoot(tc.StoreDir)
		default:
			slog.Debug("storeDir override ignored, no locator for tool", "tool", tc.ID)
		}
	}
	return locators
}

func rowOptions(cfg *config.Config) branchlist.RowOptions {
	return branchlist.RowOptions{
		ShowRemoteMarker: cfg.UI.ShowRemoteMarker,
		ShowSyncMarker:   cfg.UI.ShowSyncMarker,
	}
}

// watchSessionStores observes each tool's session store and, on a change,
// re-validates the history in the background and pushes rebuilt rows into
// the running picker.
func watchSessionStores(p *tea.Program, repo *gitrepo.Repo, cfg *config.Config, store *history.Store, locators map[string]locator.Locator) {
	for _, l := range locators {
		events, err := locator.Watch(l)
		if err != nil {
			slog.Debug("session store not watchable", "tool", l.ID(), "err", err)
			continue
		}
		go func() {
			for ev := range events {
				slog.Debug("session store changed", "tool", ev.ToolID, "path", ev.Path)
				refreshTrackedBranches(repo, cfg, store, locators)
				p.Send(ui.ItemsRefreshedMsg{Items: loadItems(repo, cfg, store)})
			}
		}()
	}
}

// refreshTrackedBranches re-runs the session refresh for every branch the
// history knows about and persists any upgraded ids.
func refreshTrackedBranches(repo *gitrepo.Repo, cfg *config.Config, store *history.Store, locators map[string]locator.Locator) {
	entries, _ := store.Load()
	if len(entries) == 0 {
		return
	}
	snap := repo.LoadSnapshot(context.Background(), gitrepo.SnapshotOptions{
		QueryTimeout: cfg.Scan.InitialTimeout,
	})
	refs := worktreeRefs(snap)
	seen := make(map[string]bool)
	for _, e := range entries {
		if seen[e.Branch] {
			continue
		}
		seen[e.Branch] = true
		refreshed := continuity.Refresh(context.Background(), entries, e.Branch, refs, continuity.RefreshOptions{
			Locators: locators,
			Timeout:  cfg.Scan.RefreshTimeout,
		})
		if err := store.ApplyRefresh(refreshed); err != nil {
			slog.Warn("could not persist refreshed session ids", "err", err)
		}
	}
}

func prStatus(state forge.PRState) branchlist.PRStatus {
	switch state {
	case forge.PRStateOpen:
		return branchlist.PROpen
	case forge.PRStateMerged:
		return branchlist.PRMerged
	case forge.PRStateClosed:
		return branchlist.PRClosed
	}
	return branchlist.PRNone
}

func worktreeRefs(snap gitrepo.Snapshot) []locator.WorktreeRef {
	refs := make([]locator.WorktreeRef, 0, len(snap.Worktrees))
	for _, wt := range snap.Worktrees {
		refs = append(refs, locator.WorktreeRef{Path: wt.Path, Branch: wt.Branch})
	}
	return refs
}

type branchJSON struct {
	Name          string `json:"name"`
	Origin        string `json:"origin"`
	Category      string `json:"category"`
	IsCurrent     bool   `json:"isCurrent"`
	WorktreePath  string `json:"worktreePath,omitempty"`
	Ahead         uint   `json:"ahead,omitempty"`
	Behind        uint   `json:"behind,omitempty"`
	LatestCommit  int64  `json:"latestCommitTimestamp,omitempty"`
	LastToolUsage string `json:"lastToolUsage,omitempty"`
	PRState       string `json:"prState,omitempty"`
}

func toBranchJSON(it *branchlist.Item) branchJSON {
	out := branchJSON{
		Name:          it.Name,
		Origin:        string(it.Origin),
		Category:      string(it.Category),
		IsCurrent:     it.IsCurrent,
		WorktreePath:  it.WorktreePath,
		LatestCommit:  it.LatestCommitTimestamp,
		LastToolUsage: it.LastToolUsage,
		PRState:       string(it.PR),
	}
	if it.Divergence != nil {
		out.Ahead = it.Divergence.Ahead
		out.Behind = it.Divergence.Behind
	}
	return out
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// Seed the default file on first run so users have something to edit.
	if p := config.ConfigPath(); p != "" {
		if _, statErr := os.Stat(p); os.IsNotExist(statErr) {
			if saveErr := config.Save(cfg); saveErr != nil {
				slog.Debug("could not write default config", "err", saveErr)
			}
		}
	}
	return cfg, nil
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if revision != "" {
		ver := "devel+" + revision
		if len(ver) > 20 {
			ver = ver[:20]
		}
		if dirty {
			ver += "+dirty"
		}
		return ver
	}

	return "devel"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: switchyard [options]\n\n")
		fmt.Fprintf(os.Stderr, "Branch and worktree switchboard with agent session continuity.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
