// Package ui is the interactive branch picker. It is a thin layer over the
// branchlist items; selection and session resolution decisions live in the
// core packages, the picker only displays and returns.
package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/switchyard/internal/branchlist"
)

// ResolveFunc returns the continuable session id for a branch, or "" when
// nothing can be continued.
type ResolveFunc func(branch string) string

// Model is the bubbletea picker over a sorted branch item list.
type Model struct {
	items   []branchlist.Item
	visible []int // indexes into items after filtering
	cursor  int   // position within visible
	offset  int   // first visible row on screen

	filter    textinput.Model
	filtering bool

	resolve ResolveFunc
	keys    keyMap
	rows    branchlist.RowOptions
	status  string

	width  int
	height int

	choice  *branchlist.Item
	aborted bool
}

// NewPicker builds a picker over items. The resolve callback backs the
// copy-session-id action and may be nil.
func NewPicker(items []branchlist.Item, resolve ResolveFunc) *Model {
	ti := textinput.New()
	ti.Placeholder = "filter branches"
	ti.CharLimit = 200
	ti.Width = 40

	m := &Model{
		items:   items,
		filter:  ti,
		resolve: resolve,
		keys:    defaultKeyMap(),
		rows:    branchlist.DefaultRowOptions(),
		height:  24,
		width:   80,
	}
	m.applyFilter()
	return m
}

// SetRowOptions overrides which row columns the picker renders.
func (m *Model) SetRowOptions(rows branchlist.RowOptions) {
	m.rows = rows
}

// ItemsRefreshedMsg replaces the picker's rows. The watcher goroutine sends
// it after a session store change triggered a background refresh.
type ItemsRefreshedMsg struct {
	Items []branchlist.Item
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampCursor()
		return m, nil

	case ItemsRefreshedMsg:
		m.items = msg.Items
		m.applyFilter()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFiltering(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	case "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	case "up", "ctrl+p":
		m.moveCursor(-1)
		return m, nil
	case "down", "ctrl+n":
		m.moveCursor(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.aborted = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Select):
		if it := m.current(); it != nil {
			m.choice = it
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.offset = 0

	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.visible) - 1
		m.clampCursor()

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Copy):
		m.copySessionID()
	}
	return m, nil
}

func (m *Model) copySessionID() {
	it := m.current()
	if it == nil || m.resolve == nil {
		return
	}
	id := m.resolve(it.Name)
	if id == "" {
		m.status = "no session to continue on " + it.Name
		return
	}
	if err := clipboard.WriteAll(id); err != nil {
		m.status = "clipboard unavailable"
		return
	}
	m.status = "copied session id for " + it.Name
}

// applyFilter recomputes the visible rows from the filter text, preserving
// the incoming sort order.
func (m *Model) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i := range m.items {
		if needle == "" || strings.Contains(strings.ToLower(m.items[i].Name), needle) {
			m.visible = append(m.visible, i)
		}
	}
	m.clampCursor()
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	rows := m.listHeight()
	if rows < 1 {
		rows = 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// listHeight is the terminal height minus header, filter and footer lines.
func (m *Model) listHeight() int {
	return m.height - 4
}

func (m *Model) current() *branchlist.Item {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return &m.items[m.visible[m.cursor]]
}

func (m *Model) View() string {
	var out strings.Builder

	header := fmt.Sprintf("branches (%d/%d)", len(m.visible), len(m.items))
	out.WriteString(headerStyle.Render(header) + "\n")

	if m.filtering || m.filter.Value() != "" {
		out.WriteString(m.filter.View() + "\n")
	} else {
		out.WriteString(dimStyle.Render("/ to filter") + "\n")
	}

	rows := m.listHeight()
	if rows < 1 {
		rows = 1
	}
	end := m.offset + rows
	if end > len(m.visible) {
		end = len(m.visible)
	}
	if len(m.visible) == 0 {
		out.WriteString(dimStyle.Render("no branches match") + "\n")
	}
	for vi := m.offset; vi < end; vi++ {
		it := &m.items[m.visible[vi]]
		line := branchlist.FormatRow(it, m.rows)
		style := rowStyle
		if it.IsCurrent {
			style = currentStyle
		}
		line = style.Render(line)
		if vi == m.cursor {
			line = selectedStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		if m.width > 0 {
			line = ansi.Truncate(line, m.width, "…")
		}
		out.WriteString(line + "\n")
	}

	if m.status != "" {
		out.WriteString(statusStyle.Render(m.status) + "\n")
	} else {
		out.WriteString(dimStyle.Render(m.keys.helpLine()) + "\n")
	}
	return out.String()
}

// Selection returns the chosen item, or nil when the picker was dismissed.
func (m *Model) Selection() *branchlist.Item {
	if m.aborted {
		return nil
	}
	return m.choice
}
