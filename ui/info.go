package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/ui/panel"
	"github.com/ftahirops/ptop/ui/screen"
	"github.com/ftahirops/ptop/ui/theme"
)

// infoScreen is a read-only page of text about one process.
type infoScreen struct {
	title string
	// lines produces the page for a panel w cells wide.
	lines func(w int) ([]string, error)
}

type infoCtor func(st *State, p *model.Process) infoScreen

// openInfo pushes a full-width page built by ctor for the selected
// process. F5 rereads it; the IncSet keys search and filter it.
func openInfo(st *State, ctor infoCtor) Reaction {
	p := st.Main.SelectedProcess()
	if p == nil {
		return ReactionOK
	}
	is := ctor(st, p)
	bar := panel.NewFunctionBar(
		key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "Search")),
		key.NewBinding(key.WithKeys("f4"), key.WithHelp("F4", "Filter")),
		key.NewBinding(key.WithKeys("f5"), key.WithHelp("F5", "Refresh")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Done")),
	)
	ip := panel.New(nil, bar, nil)
	ip.Inc = panel.NewIncSet()
	ip.Header.Append(theme.PanelHeaderFocus, fmt.Sprintf("%s of process %d - %s", is.title, p.PID, p.Comm))
	ip.Behavior = infoBehavior{st: st, is: is}
	loadInfo(st, ip, is, max(st.Screens.W-1, 1))
	st.Screens.Push(&screen.Session{
		Name:  "info",
		Slots: []screen.Slot{{Panel: ip, Width: screen.Fill}},
		OnClose: func(screen.Outcome) panel.Result {
			return st.Apply(ReactionRefresh | ReactionRedrawBar)
		},
	})
	return ReactionKeepFollowing
}

// loadInfo fills ip with the page, or with a single error line.
func loadInfo(st *State, ip *panel.Panel, is infoScreen, w int) {
	lines, err := is.lines(w)
	sel := max(ip.SelectedIndex(), 0)
	if err != nil {
		st.Logger.Debug("info screen", "title", is.title, "err", err)
		lines = []string{"Could not read " + strings.ToLower(is.title) + "."}
	}
	items := make([]panel.Item, len(lines))
	for i, l := range lines {
		items[i] = panel.NewListItem(l, i)
	}
	ip.Replace(items, sel)
	if ip.Inc != nil {
		ip.Inc.SetFilter(ip, ip.Inc.FilterText())
	}
}

type infoBehavior struct {
	st *State
	is infoScreen
}

func (b infoBehavior) HandleEvent(p *panel.Panel, msg tea.Msg) panel.Result {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return panel.Ignored
	}
	switch km.String() {
	case "f3", "/":
		p.Inc.Activate(p, panel.IncSearch)
	case "f4", "\\":
		p.Inc.Activate(p, panel.IncFilter)
	case "f5":
		loadInfo(b.st, p, b.is, max(p.W-1, 1))
	case "ctrl+l":
		b.st.queue(tea.ClearScreen)
	default:
		return panel.Ignored
	}
	return panel.Handled | panel.Redraw
}

func newEnvScreen(st *State, p *model.Process) infoScreen {
	pid := p.PID
	return infoScreen{title: "Environment", lines: func(int) ([]string, error) {
		return st.Inspect.Environment(pid)
	}}
}

// newCommandScreen shows the full command line wrapped at the screen
// width.
func newCommandScreen(st *State, p *model.Process) infoScreen {
	pid := p.PID
	return infoScreen{title: "Command line", lines: func(w int) ([]string, error) {
		args, err := st.Inspect.Cmdline(pid)
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return []string{"[" + p.Comm + "]"}, nil
		}
		return strings.Split(ansi.Wrap(strings.Join(args, " "), w, " /"), "\n"), nil
	}}
}

func newOpenFilesScreen(st *State, p *model.Process) infoScreen {
	pid := p.PID
	return infoScreen{title: "Open files", lines: func(int) ([]string, error) {
		files, err := st.Inspect.OpenFiles(pid)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(files)+1)
		out = append(out, fmt.Sprintf("%5s  %s", "FD", "NAME"))
		for _, f := range files {
			out = append(out, fmt.Sprintf("%5d  %s", f.FD, f.Target))
		}
		return out, nil
	}}
}

func newLocksScreen(st *State, p *model.Process) infoScreen {
	pid := p.PID
	return infoScreen{title: "File locks", lines: func(int) ([]string, error) {
		locks, err := st.Inspect.Locks(pid)
		if err != nil {
			return nil, err
		}
		if len(locks) == 0 {
			return []string{"No locks have been found for the selected process."}, nil
		}
		out := make([]string, 0, len(locks)+1)
		out = append(out, fmt.Sprintf("%5s %-7s %-9s %-5s %-8s %10s %10s %10s", "ID", "TYPE", "EXCLUSION", "RW", "DEVICE", "NODE", "START", "END"))
		for _, l := range locks {
			out = append(out, fmt.Sprintf("%5d %-7s %-9s %-5s %-8s %10d %10s %10s",
				l.ID, l.Class, l.Mode, l.Type, l.Dev, l.Inode, l.Start, l.End))
		}
		return out, nil
	}}
}
