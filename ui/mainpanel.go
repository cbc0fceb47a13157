package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/ui/panel"
	"github.com/ftahirops/ptop/ui/screen"
	"github.com/ftahirops/ptop/ui/theme"
)

// maxPIDSearch resets the typed PID once it grows past any real PID.
const maxPIDSearch = 10000000

// MainPanel is the process list. Its rows are the visible rows of the
// process table, rebuilt on every refresh.
type MainPanel struct {
	*panel.Panel

	st        *State
	session   *screen.Session
	pidSearch int
	uid       int
}

// NewMainPanel builds the process list and its session.
func NewMainPanel(st *State) *MainPanel {
	m := &MainPanel{st: st, uid: os.Getuid()}
	m.Panel = panel.New(nil, mainBar(), mainBehavior{m})
	m.Inc = panel.NewIncSet()
	m.Inc.Apply = m.applyFilter
	m.session = &screen.Session{
		Name:       "main",
		Slots:      []screen.Slot{{Panel: m.Panel, Width: screen.Fill}},
		ShowHeader: true,
		Global:     m.global,
	}
	m.UpdateHeader()
	m.UpdateBar()
	return m
}

// Session returns the main loop context.
func (m *MainPanel) Session() *screen.Session { return m.session }

func fkey(k, label, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(k), key.WithHelp(label, desc))
}

func mainBar() *panel.FunctionBar {
	return panel.NewFunctionBar(
		fkey("f1", "F1", "Help"),
		fkey("f2", "F2", "Setup"),
		fkey("f3", "F3", "Search"),
		fkey("f4", "F4", "Filter"),
		fkey("f5", "F5", "Tree"),
		fkey("f6", "F6", "SortBy"),
		fkey("f7", "F7", "Nice -"),
		fkey("f8", "F8", "Nice +"),
		fkey("f9", "F9", "Kill"),
		fkey("f10", "F10", "Quit"),
	)
}

// UpdateBar relabels the function keys whose meaning depends on state.
func (m *MainPanel) UpdateBar() {
	if m.st.Settings.TreeView {
		m.Bar.SetLabel("f5", "List")
	} else {
		m.Bar.SetLabel("f5", "Tree")
	}
	if m.Inc.FilterText() != "" {
		m.Bar.SetLabel("f4", "FILTER")
	} else {
		m.Bar.SetLabel("f4", "Filter")
	}
}

// UpdateHeader rebuilds the column titles, marking the sort column with
// the direction glyph.
func (m *MainPanel) UpdateHeader() {
	s := m.st.Settings
	sortKey := s.ActiveSortKey()
	byPID := s.TreeView && s.TreeViewAlwaysByPID
	tree := m.st.Theme.Tree()
	m.Header.Reset()
	for _, f := range s.Fields {
		title := f.Title()
		if f != sortKey || byPID {
			m.Header.Append(theme.PanelHeaderFocus, title)
			continue
		}
		glyph := tree.Asc
		if s.ActiveDirection() < 0 {
			glyph = tree.Desc
		}
		if strings.HasSuffix(title, " ") {
			title = title[:len(title)-1] + glyph
		}
		m.Header.Append(theme.PanelSelectionFocus, title)
	}
}

// fieldAt returns the column under header offset x.
func (m *MainPanel) fieldAt(x int) (model.Field, bool) {
	fields := m.st.Settings.Fields
	col := 0
	for i, f := range fields {
		col += f.Width()
		if x < col || i == len(fields)-1 {
			return f, true
		}
	}
	return 0, false
}

// SelectedProcess returns the process under the cursor, or nil.
func (m *MainPanel) SelectedProcess() *model.Process {
	if r, ok := m.Selected().(*procRow); ok {
		return r.p
	}
	return nil
}

// SelectedPID returns the PID under the cursor, or -1.
func (m *MainPanel) SelectedPID() int {
	if p := m.SelectedProcess(); p != nil {
		return p.PID
	}
	return -1
}

// Processes returns the rows on screen in display order.
func (m *MainPanel) Processes() []*model.Process {
	items := m.List().Items()
	out := make([]*model.Process, 0, len(items))
	for _, it := range items {
		if r, ok := it.(*procRow); ok {
			out = append(out, r.p)
		}
	}
	return out
}

func (m *MainPanel) filterMatch() func(*model.Process) bool {
	text := m.Inc.FilterText()
	if text == "" {
		return nil
	}
	s := m.st.Settings
	return func(p *model.Process) bool {
		return panel.Matches(p.Command(s.ShowProgramPath, s.ShowMergedCommand), text)
	}
}

// applyFilter is the IncSet hook: the filter narrows the table rows
// themselves rather than panel navigation.
func (m *MainPanel) applyFilter(_ *panel.Panel, _ string) bool {
	found := m.Rebuild()
	m.UpdateBar()
	return found
}

// Rebuild refills the panel from the table. The selection tracks the
// followed PID, or else the PID selected before the rebuild, and keeps its
// screen row. When that process is no longer listed the selection stays on
// the same index. A filter that matches nothing leaves every row listed and
// reports false.
func (m *MainPanel) Rebuild() bool {
	t := m.st.Table
	rows := t.Visible(m.filterMatch())
	found := true
	if len(rows) == 0 && m.Inc.FilterText() != "" {
		found = false
		rows = t.Visible(nil)
	}
	if m.Inc.Mode() != panel.IncSearch {
		m.Inc.Found = found
	}

	following := t.Following
	if following != -1 && m.st.Settings.HideUserlandThreads {
		if p := t.Get(following); p != nil && p.UserlandThread {
			following = p.TGID
			t.Following = following
		}
	}

	prevSel, prevScroll, prevLen := m.SelectedIndex(), m.ScrollV(), m.Len()
	target := following
	if target == -1 {
		target = m.SelectedPID()
	}
	items := make([]panel.Item, len(rows))
	sel := -1
	for i, p := range rows {
		items[i] = &procRow{p: p, m: m}
		if p.PID == target {
			sel = i
		}
	}
	if target != -1 && sel >= 0 {
		m.Replace(items, sel)
		m.SetScroll(sel - (prevSel - prevScroll))
		return found
	}
	if following != -1 {
		t.Following = -1
		m.SelectionColor = theme.PanelSelectionFocus
	}
	sel = prevSel
	if prevLen > 0 && prevSel == prevLen-1 {
		sel = len(items) - 1
	}
	m.Replace(items, sel)
	m.SetScroll(prevScroll)
	return found
}

// global runs the action bound to a key the panel did not use. Unbound
// keys drop follow mode and fall through to navigation.
func (m *MainPanel) global(msg tea.KeyMsg) panel.Result {
	if r, ok := m.st.Registry.Handle(m.st, msg); ok {
		return m.st.Apply(r)
	}
	m.st.Table.Following = -1
	m.SelectionColor = theme.PanelSelectionFocus
	return panel.Ignored
}

type mainBehavior struct{ m *MainPanel }

func (b mainBehavior) HandleEvent(_ *panel.Panel, msg tea.Msg) panel.Result {
	m := b.m
	st := m.st
	switch msg := msg.(type) {
	case panel.HeaderClickMsg:
		f, ok := m.fieldAt(msg.X)
		if !ok {
			return panel.Handled
		}
		s := st.Settings
		r := ReactionRecalculate | ReactionRedrawBar | ReactionSaveSettings | ReactionUpdatePanelHeader
		switch {
		case s.TreeView && s.TreeViewAlwaysByPID:
			s.TreeView = false
			r |= setSortKey(st, f)
		case f == s.ActiveSortKey():
			s.InvertSortOrder()
		default:
			r |= setSortKey(st, f)
		}
		return st.Apply(r)
	case panel.ReclickMsg:
		return st.Apply(actionExpandOrCollapse(st))
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			m.HideSelection = true
			return panel.Handled | panel.Redraw
		}
		m.HideSelection = false
		if d, ok := digit(msg); ok && st.Registry.Lookup(msg.String()) == nil {
			m.searchPID(d)
			return st.Apply(ReactionOK) | panel.Redraw
		}
		m.pidSearch = 0
	}
	return panel.Ignored
}

func digit(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || msg.Alt || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '0' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// searchPID extends the typed PID by d and selects that process if listed.
func (m *MainPanel) searchPID(d int) {
	pid := m.pidSearch + d
	m.SelectKey(pid)
	m.pidSearch = pid * 10
	if m.pidSearch > maxPIDSearch {
		m.pidSearch = 0
	}
}
