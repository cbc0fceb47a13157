package ui

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ftahirops/ptop/config"
	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/ui/panel"
	"github.com/ftahirops/ptop/ui/screen"
	"github.com/ftahirops/ptop/ui/theme"
)

const (
	categoriesWidth = 16
	setupPageWidth  = 28
)

// setup is the F2 screen: a list of categories on the left and the pages
// of the selected category beside it.
type setup struct {
	st         *State
	session    *screen.Session
	categories *panel.Panel
	pages      [][]screen.Slot
	shown      int
}

// openSetup pushes the setup session. Changes take effect immediately;
// settings are persisted once when it closes.
func openSetup(st *State) *setup {
	su := &setup{st: st, shown: -1}
	su.categories = panel.New(nil, doneBar(), panel.BehaviorFunc(func(*panel.Panel, tea.Msg) panel.Result {
		return panel.Ignored
	}))
	su.categories.Header.Append(theme.PanelHeaderFocus, "Categories")
	names := []string{"Meters", "Display options", "Colors", "Columns"}
	for i, n := range names {
		su.categories.Add(panel.NewListItem(n, i))
	}
	su.pages = [][]screen.Slot{
		su.meterPages(),
		{{Panel: su.displayPage(), Width: screen.Fill}},
		{{Panel: su.colorsPage(), Width: screen.Fill}},
		su.columnPages(),
	}
	su.session = &screen.Session{
		Name:             "setup",
		Slots:            []screen.Slot{{Panel: su.categories, Width: categoriesWidth}},
		AllowFocusChange: true,
		ShowHeader:       true,
		AfterEvent:       su.sync,
		OnClose: func(screen.Outcome) panel.Result {
			if st.Settings.Changed {
				st.save()
			}
			return st.Apply(ReactionRefresh | ReactionRedrawBar | ReactionUpdatePanelHeader)
		},
	}
	su.sync()
	st.Screens.Push(su.session)
	return su
}

// sync shows the pages of the selected category.
func (su *setup) sync() {
	i := max(su.categories.SelectedIndex(), 0)
	if i == su.shown {
		return
	}
	su.shown = i
	su.session.Replace(1, su.pages[i]...)
	su.st.Screens.Relayout()
}

func doneBar() *panel.FunctionBar {
	return panel.NewFunctionBar(
		key.NewBinding(key.WithKeys("f10"), key.WithHelp("F10", "Done")),
	)
}

// changed records a settings edit and refreshes what depends on it.
func (su *setup) changed() panel.Result {
	st := su.st
	st.Settings.Changed = true
	st.Main.UpdateHeader()
	st.Main.UpdateBar()
	st.Screens.Relayout()
	return panel.Handled | panel.Redraw
}

// ---- meters

func (su *setup) meterPages() []screen.Slot {
	s := su.st.Settings
	left := &meterColumn{su: su, meters: &s.LeftMeters}
	right := &meterColumn{su: su, meters: &s.RightMeters}
	left.p = newMeterColumnPanel("Left column", left)
	right.p = newMeterColumnPanel("Right column", right)
	left.reload(0)
	right.reload(0)

	avail := panel.New(nil, panel.NewFunctionBar(
		key.NewBinding(key.WithKeys("f5"), key.WithHelp("F5", "Add left")),
		key.NewBinding(key.WithKeys("f6"), key.WithHelp("F6", "Add right")),
		key.NewBinding(key.WithKeys("f10"), key.WithHelp("F10", "Done")),
	), &availableMeters{left: left, right: right})
	avail.Header.Append(theme.PanelHeaderFocus, "Available meters")
	for i, mi := range meterCatalogue {
		avail.Add(panel.NewListItem(mi.title, i))
	}
	return []screen.Slot{
		{Panel: left.p, Width: setupPageWidth},
		{Panel: right.p, Width: setupPageWidth},
		{Panel: avail, Width: screen.Fill},
	}
}

func newMeterColumnPanel(title string, b panel.Behavior) *panel.Panel {
	p := panel.New(nil, panel.NewFunctionBar(
		key.NewBinding(key.WithKeys(" "), key.WithHelp("Space", "Style")),
		key.NewBinding(key.WithKeys("f7"), key.WithHelp("F7", "Up")),
		key.NewBinding(key.WithKeys("f8"), key.WithHelp("F8", "Down")),
		key.NewBinding(key.WithKeys("f9"), key.WithHelp("F9", "Delete")),
		key.NewBinding(key.WithKeys("f10"), key.WithHelp("F10", "Done")),
	), b)
	p.Header.Append(theme.PanelHeaderFocus, title)
	return p
}

// meterColumn edits one column of header meters in place.
type meterColumn struct {
	su     *setup
	p      *panel.Panel
	meters *[]config.Meter
}

func (c *meterColumn) reload(sel int) {
	items := make([]panel.Item, len(*c.meters))
	for i, m := range *c.meters {
		title := m.Name
		if mi, ok := lookupMeter(m.Name); ok {
			title = mi.title
		}
		items[i] = panel.NewListItem(fmt.Sprintf("%s [%s]", title, m.Mode), i)
	}
	c.p.Replace(items, sel)
}

// add appends meter i of the catalogue.
func (c *meterColumn) add(i int) {
	mi := meterCatalogue[i]
	mode := config.MeterText
	if mi.bar {
		mode = config.MeterBar
	}
	*c.meters = append(*c.meters, config.Meter{Name: mi.name, Mode: mode})
	c.reload(len(*c.meters) - 1)
}

func (c *meterColumn) HandleEvent(p *panel.Panel, msg tea.Msg) panel.Result {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return panel.Ignored
	}
	ms := *c.meters
	i := p.SelectedIndex()
	if i < 0 {
		return panel.Ignored
	}
	switch km.String() {
	case "f7", "[", "-":
		if i == 0 {
			return panel.Handled
		}
		ms[i-1], ms[i] = ms[i], ms[i-1]
		i--
	case "f8", "]", "+":
		if i == len(ms)-1 {
			return panel.Handled
		}
		ms[i+1], ms[i] = ms[i], ms[i+1]
		i++
	case "f9", "delete":
		ms = slices.Delete(ms, i, i+1)
	case " ", "enter", "f4":
		mi, ok := lookupMeter(ms[i].Name)
		if !ok || !mi.bar {
			return panel.Handled
		}
		if ms[i].Mode == config.MeterBar {
			ms[i].Mode = config.MeterText
		} else {
			ms[i].Mode = config.MeterBar
		}
	default:
		return panel.Ignored
	}
	*c.meters = ms
	c.reload(i)
	return c.su.changed()
}

// availableMeters adds catalogue entries to either column.
type availableMeters struct {
	left, right *meterColumn
}

func (a *availableMeters) HandleEvent(p *panel.Panel, msg tea.Msg) panel.Result {
	var km string
	switch msg := msg.(type) {
	case panel.ReclickMsg:
		km = "enter"
	case tea.KeyMsg:
		km = msg.String()
	default:
		return panel.Ignored
	}
	it := p.Selected()
	if it == nil {
		return panel.Ignored
	}
	switch km {
	case "f5", "l", "enter":
		a.left.add(it.Key())
	case "f6", "r":
		a.right.add(it.Key())
	default:
		return panel.Ignored
	}
	return a.left.su.changed()
}

// ---- display options

func (su *setup) displayPage() *panel.Panel {
	s := su.st.Settings
	p := panel.New(nil, doneBar(), &displayOptions{su: su})
	p.Header.Append(theme.PanelHeaderFocus, "Display options")
	checks := []struct {
		text string
		v    *bool
	}{
		{"Tree view", &s.TreeView},
		{"- Tree view is always sorted by PID", &s.TreeViewAlwaysByPID},
		{"- Tree view is collapsed by default", &s.AllBranchesCollapsed},
		{"Shadow other users' processes", &s.ShadowOtherUsers},
		{"Hide kernel threads", &s.HideKernelThreads},
		{"Hide userland process threads", &s.HideUserlandThreads},
		{"Display threads in a different color", &s.HighlightThreads},
		{"Show custom thread names", &s.ShowThreadNames},
		{"Show program path", &s.ShowProgramPath},
		{"Highlight program \"basename\"", &s.HighlightBaseName},
		{"Merge exe, comm and cmdline in Command", &s.ShowMergedCommand},
		{"Highlight large numbers in memory counters", &s.HighlightMegabytes},
		{"Highlight new and old processes", &s.HighlightChanges},
		{"Leave a margin around header", &s.HeaderMargin},
		{"Detailed CPU time (System/IO-Wait/Hard-IRQ/Soft-IRQ/Steal/Guest)", &s.DetailedCPUTime},
		{"Count CPUs from 1 instead of 0", &s.CountCPUsFromOne},
		{"Show CPU usage percentage", &s.ShowCPUUsage},
		{"Enable the mouse", &s.EnableMouse},
	}
	for _, c := range checks {
		p.Add(panel.NewCheckItem(c.text, c.v))
	}
	hl := panel.NewNumberItem("- Highlight time (in seconds)", &s.HighlightDelaySecs, 1, 24*60*60)
	delay := panel.NewNumberItem("Update interval (in seconds)", &s.Delay, config.MinDelay, config.MaxDelay)
	delay.Scale = 10
	bar := panel.NewNumberItem("Hide function bar (0 - off, 1 - on ESC until next input, 2 - permanently)", &s.HideFunctionBar, 0, 2)
	p.Add(hl)
	p.Add(delay)
	p.Add(bar)
	return p
}

// displayOptions toggles check items with space or Enter and steps number
// items with + and -.
type displayOptions struct{ su *setup }

func (d *displayOptions) HandleEvent(p *panel.Panel, msg tea.Msg) panel.Result {
	var k string
	switch msg := msg.(type) {
	case panel.ReclickMsg:
		k = " "
	case tea.KeyMsg:
		k = msg.String()
	default:
		return panel.Ignored
	}
	switch it := p.Selected().(type) {
	case *panel.CheckItem:
		if k != " " && k != "enter" {
			return panel.Ignored
		}
		it.Toggle()
		return d.su.changed()
	case *panel.NumberItem:
		var ok bool
		switch k {
		case "+", "=", " ", "enter":
			ok = it.Add(1)
		case "-":
			ok = it.Add(-1)
		default:
			return panel.Ignored
		}
		if !ok {
			return panel.Handled
		}
		return d.su.changed()
	}
	return panel.Ignored
}

// ---- colors

func (su *setup) colorsPage() *panel.Panel {
	s := su.st.Settings
	picked := make([]bool, len(theme.SchemeNames))
	p := panel.New(nil, doneBar(), panel.BehaviorFunc(func(p *panel.Panel, msg tea.Msg) panel.Result {
		switch msg := msg.(type) {
		case panel.ReclickMsg:
		case tea.KeyMsg:
			if k := msg.String(); k != " " && k != "enter" {
				return panel.Ignored
			}
		default:
			return panel.Ignored
		}
		i := p.SelectedIndex()
		if i < 0 {
			return panel.Ignored
		}
		for j := range picked {
			picked[j] = j == i
		}
		s.ColorScheme = i
		su.st.SetTheme(theme.Scheme(i))
		return su.changed()
	}))
	p.Header.Append(theme.PanelHeaderFocus, "Colors")
	for i, name := range theme.SchemeNames {
		picked[i] = i == s.ColorScheme
		it := panel.NewCheckItem(name, &picked[i])
		it.ID = i
		it.Radio = true
		p.Add(it)
	}
	return p
}

// ---- columns

func (su *setup) columnPages() []screen.Slot {
	active := &activeColumns{su: su}
	active.p = panel.New(nil, panel.NewFunctionBar(
		key.NewBinding(key.WithKeys("f7"), key.WithHelp("F7", "Up")),
		key.NewBinding(key.WithKeys("f8"), key.WithHelp("F8", "Down")),
		key.NewBinding(key.WithKeys("f9"), key.WithHelp("F9", "Remove")),
		key.NewBinding(key.WithKeys("f10"), key.WithHelp("F10", "Done")),
	), active)
	active.p.Header.Append(theme.PanelHeaderFocus, "Active Columns")
	active.reload(0)

	avail := panel.New(nil, panel.NewFunctionBar(
		key.NewBinding(key.WithKeys("f5"), key.WithHelp("F5", "Add")),
		key.NewBinding(key.WithKeys("f10"), key.WithHelp("F10", "Done")),
	), &availableColumns{active: active})
	avail.Header.Append(theme.PanelHeaderFocus, "Available Columns")
	for _, f := range model.AllFields() {
		avail.Add(panel.NewListItem(fmt.Sprintf("%-10s - %s", f.Name(), f.Description()), int(f)))
	}
	return []screen.Slot{
		{Panel: active.p, Width: 20},
		{Panel: avail, Width: screen.Fill},
	}
}

// activeColumns reorders and removes the configured columns.
type activeColumns struct {
	su *setup
	p  *panel.Panel
}

func (a *activeColumns) reload(sel int) {
	fields := a.su.st.Settings.Fields
	items := make([]panel.Item, len(fields))
	for i, f := range fields {
		items[i] = panel.NewListItem(f.Name(), int(f))
	}
	a.p.Replace(items, sel)
}

func (a *activeColumns) HandleEvent(p *panel.Panel, msg tea.Msg) panel.Result {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return panel.Ignored
	}
	s := a.su.st.Settings
	fs := s.Fields
	i := p.SelectedIndex()
	if i < 0 {
		return panel.Ignored
	}
	switch km.String() {
	case "f7", "[", "-":
		if i == 0 {
			return panel.Handled
		}
		fs[i-1], fs[i] = fs[i], fs[i-1]
		i--
	case "f8", "]", "+":
		if i == len(fs)-1 {
			return panel.Handled
		}
		fs[i+1], fs[i] = fs[i], fs[i+1]
		i++
	case "f9", "delete":
		if len(fs) == 1 {
			// keep at least one column
			return panel.Handled
		}
		fs = slices.Delete(fs, i, i+1)
	default:
		return panel.Ignored
	}
	s.Fields = fs
	a.reload(i)
	return a.su.changed()
}

// availableColumns inserts a column before the selected active one.
type availableColumns struct{ active *activeColumns }

func (a *availableColumns) HandleEvent(p *panel.Panel, msg tea.Msg) panel.Result {
	switch msg := msg.(type) {
	case panel.ReclickMsg:
	case tea.KeyMsg:
		if k := msg.String(); k != "f5" && k != "enter" {
			return panel.Ignored
		}
	default:
		return panel.Ignored
	}
	it := p.Selected()
	if it == nil {
		return panel.Ignored
	}
	f := model.Field(it.Key())
	s := a.active.su.st.Settings
	if slices.Contains(s.Fields, f) {
		return panel.Handled
	}
	at := max(a.active.p.SelectedIndex(), 0)
	s.Fields = slices.Insert(s.Fields, at, f)
	a.active.reload(at)
	return a.active.su.changed()
}
