package ui

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"github.com/ftahirops/ptop/collector"
	"github.com/ftahirops/ptop/config"
	"github.com/ftahirops/ptop/engine"
	"github.com/ftahirops/ptop/ui/panel"
	"github.com/ftahirops/ptop/ui/screen"
	"github.com/ftahirops/ptop/ui/theme"
)

// Reaction is the set of follow-up effects an action asks for. Flags are
// independent and are applied once each by State.Apply.
type Reaction uint16

const (
	ReactionRefresh Reaction = 1 << iota
	ReactionRedrawBar
	ReactionUpdatePanelHeader
	ReactionRecalculate
	ReactionSaveSettings
	ReactionKeepFollowing
	ReactionQuit

	// ReactionOK asks for nothing. Without KeepFollowing it still drops
	// follow mode.
	ReactionOK Reaction = 0
)

// Has reports whether every flag in f is set.
func (r Reaction) Has(f Reaction) bool { return r&f == f }

func (r Reaction) String() string {
	if r == ReactionOK {
		return "OK"
	}
	names := []string{"REFRESH", "REDRAW_BAR", "UPDATE_PANELHDR", "RECALCULATE", "SAVE_SETTINGS", "KEEP_FOLLOWING", "QUIT"}
	out := ""
	for i, n := range names {
		if r&(1<<i) != 0 {
			if out != "" {
				out += "|"
			}
			out += n
		}
	}
	return out
}

// Ops changes running processes. collector.Operator implements it.
type Ops interface {
	Signal(pid int, sig unix.Signal) error
	Renice(pid, nice int) error
	Affinity(pid int) ([]int, error)
	SetAffinity(pid int, cpus []int) error
}

// Inspector reads the details shown by the info screens.
// collector.Inspector implements it.
type Inspector interface {
	Environment(pid int) ([]string, error)
	Cmdline(pid int) ([]string, error)
	OpenFiles(pid int) ([]collector.OpenFile, error)
	Locks(pid int) ([]collector.FileLock, error)
}

// alertDuration is how long an alert stays on the bottom line.
const alertDuration = 3 * time.Second

// State is what every action handler works on. It references the table,
// settings and screens; it owns none of them.
type State struct {
	Settings *config.Settings
	Table    *engine.Table
	Main     *MainPanel
	Screens  *screen.Manager
	Header   *Header
	Theme    *theme.Theme
	Ops      Ops
	Inspect  Inspector
	Logger   *log.Logger

	// Paused stops merging new samples into the table.
	Paused bool
	// Persist writes the settings. Nil disables saving.
	Persist func(s *config.Settings) error
	// Beep rings the terminal bell.
	Beep func()
	Now  func() time.Time

	Registry *Registry

	renderer *lipgloss.Renderer
	unicode  bool
	alert    string
	alertAt  time.Time
	cmds     []tea.Cmd
	redraws  int
	sortHold int
}

// Options configures NewState.
type Options struct {
	Settings *config.Settings
	Table    *engine.Table
	Ops      Ops
	Inspect  Inspector
	Logger   *log.Logger
	Persist  func(s *config.Settings) error
	Renderer *lipgloss.Renderer
	Unicode  bool
	Filter   string
}

// NewState wires the screen manager, main panel and header together.
func NewState(o Options) *State {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Settings == nil {
		o.Settings = config.Default()
	}
	if o.Table == nil {
		o.Table = engine.NewTable(o.Settings)
	}
	if o.Ops == nil {
		o.Ops = collector.Operator{}
	}
	if o.Inspect == nil {
		o.Inspect = collector.Inspector{}
	}
	if o.Renderer == nil {
		o.Renderer = theme.NewRenderer(nil, false)
	}
	st := &State{
		Settings: o.Settings,
		Table:    o.Table,
		Ops:      o.Ops,
		Inspect:  o.Inspect,
		Logger:   o.Logger,
		Persist:  o.Persist,
		Now:      time.Now,
		renderer: o.Renderer,
		unicode:  o.Unicode,
	}
	st.Beep = func() { st.queue(bell) }
	st.Theme = theme.New(theme.Scheme(o.Settings.ColorScheme), o.Unicode, o.Renderer)
	st.Registry = DefaultRegistry()
	st.Header = NewHeader(st)
	st.Screens = screen.NewManager(o.Logger)
	st.Screens.HeaderHeight = st.Header.Height
	st.Screens.BarHidden = st.barHidden
	st.Screens.BarExtra = st.barExtra
	st.Main = NewMainPanel(st)
	st.Screens.Push(st.Main.Session())
	if o.Filter != "" {
		st.Main.Inc.SetFilter(st.Main.Panel, o.Filter)
	}
	return st
}

// Apply carries out r in a fixed order: panel header, function bar,
// follow reset, resort and rebuild, settings persist, quit. Each flag takes
// effect exactly once.
func (st *State) Apply(r Reaction) panel.Result {
	res := panel.Handled
	if r.Has(ReactionUpdatePanelHeader) {
		st.Main.UpdateHeader()
		res |= panel.Redraw
	}
	if r.Has(ReactionRedrawBar) {
		st.Main.UpdateBar()
		res |= panel.Redraw
	}
	if !r.Has(ReactionKeepFollowing) {
		st.Table.Following = -1
		st.Main.SelectionColor = theme.PanelSelectionFocus
	}
	if r.Has(ReactionRecalculate) || r.Has(ReactionRefresh) {
		if r.Has(ReactionRecalculate) {
			st.sortHold = 0
		}
		if st.Paused || st.Settings.TreeView {
			st.Table.Sort()
		}
		st.Main.Rebuild()
		st.redraws++
		res |= panel.Redraw
		if r.Has(ReactionRecalculate) {
			res |= panel.Rescan
		}
	}
	if r.Has(ReactionSaveSettings) {
		st.Settings.Changed = true
		st.save()
	}
	if r.Has(ReactionQuit) {
		res |= panel.BreakLoop
	}
	return res
}

func (st *State) save() {
	if st.Persist == nil {
		return
	}
	if err := st.Persist(st.Settings); err != nil {
		st.Logger.Warn("save settings", "err", err)
		st.Alert("Cannot save settings: %v", err)
	}
}

// Alert rings the bell and shows a message on the bottom line.
func (st *State) Alert(format string, args ...any) {
	st.alert = fmt.Sprintf(format, args...)
	st.alertAt = st.Now()
	st.Beep()
}

// AlertText returns the current alert, or "" once it has expired.
func (st *State) AlertText() string {
	if st.alert == "" || st.Now().Sub(st.alertAt) > alertDuration {
		return ""
	}
	return st.alert
}

// queue schedules a command for the driver to run after this event.
func (st *State) queue(c tea.Cmd) {
	if c != nil {
		st.cmds = append(st.cmds, c)
	}
}

func (st *State) drainCmds() []tea.Cmd {
	c := st.cmds
	st.cmds = nil
	return c
}

// Redraws returns how many times the main panel has been rebuilt.
func (st *State) Redraws() int { return st.redraws }

// SetTheme replaces the theme for scheme.
func (st *State) SetTheme(s theme.Scheme) {
	st.Theme = theme.New(s, st.unicode, st.renderer)
}

func (st *State) barHidden(s *screen.Session) bool {
	switch st.Settings.HideFunctionBar {
	case 2:
		return true
	case 1:
		// hidden after Esc until the next key
		return s == st.Main.session && st.Main.HideSelection
	}
	return false
}

func (st *State) barExtra() (string, theme.Element) {
	if a := st.AlertText(); a != "" {
		return a, theme.FailedSearch
	}
	if st.Paused {
		return "PAUSED", theme.Paused
	}
	if f := st.Main.Inc.FilterText(); f != "" && st.Screens.Top() == st.Main.session {
		return "FILTER: " + f, theme.FunctionBar
	}
	return "", theme.FunctionBar
}

// bell writes BEL to the terminal.
func bell() tea.Msg {
	fmt.Print("\a")
	return nil
}
