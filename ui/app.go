package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ftahirops/ptop/engine"
	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/ui/panel"
	"github.com/ftahirops/ptop/ui/screen"
)

// sortHoldTicks is how many samples the list keeps its order after a key
// press, so rows do not jump under the cursor while the user navigates.
const sortHoldTicks = 5

type tickMsg time.Time

type collectMsg struct {
	snap  *model.Snapshot
	rates *model.Rates
}

// Model is the bubbletea model. It owns nothing but the sampling loop;
// everything the user sees hangs off State.
type Model struct {
	st     *State
	ticker engine.Ticker
}

// NewModel returns a model sampling ticker into st.
func NewModel(st *State, ticker engine.Ticker) Model {
	return Model{st: st, ticker: ticker}
}

// State returns the shared UI state.
func (m Model) State() *State { return m.st }

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(m.st.interval()), collectOnce(m.ticker))
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func collectOnce(ticker engine.Ticker) tea.Cmd {
	return func() tea.Msg {
		snap, rates := ticker.Tick()
		return collectMsg{snap: snap, rates: rates}
	}
}

func (st *State) interval() time.Duration {
	return time.Duration(st.Settings.RefreshMillis()) * time.Millisecond
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	st := m.st
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		st.Screens.Resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		return m, tea.Batch(collectOnce(m.ticker), tick(st.interval()))

	case collectMsg:
		if msg.snap != nil {
			st.sample(msg.snap, msg.rates)
		}
		return m.settle(panel.Handled)

	case straceDoneMsg:
		if msg.err != nil {
			st.Logger.Warn("strace", "pid", msg.pid, "err", msg.err)
			st.Alert("strace %d: %v", msg.pid, msg.err)
		}
		return m.settle(st.Apply(ReactionRefresh | ReactionRedrawBar))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if !st.Settings.TreeView {
			st.sortHold = sortHoldTicks
		}
		return m.settle(st.Screens.Dispatch(msg))

	case tea.MouseMsg:
		if !st.Settings.EnableMouse {
			return m, nil
		}
		return m.settle(st.Screens.Dispatch(msg))
	}
	return m, nil
}

// settle turns a dispatch result into commands: queued side effects, an
// immediate resample on Rescan and the exit once the last session closed.
func (m Model) settle(r panel.Result) (tea.Model, tea.Cmd) {
	if r.Has(panel.BreakLoop) || m.st.Screens.Depth() == 0 {
		return m.quit()
	}
	cmds := m.st.drainCmds()
	if r.Has(panel.Rescan) {
		cmds = append(cmds, collectOnce(m.ticker))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.st.Settings.Changed {
		m.st.save()
	}
	cmds := append(m.st.drainCmds(), tea.Quit)
	return m, tea.Sequence(cmds...)
}

// sample folds a new sample into the table and rebuilds the list. The
// header always shows the live sample; the table stands still while paused.
func (st *State) sample(snap *model.Snapshot, rates *model.Rates) {
	st.Header.Update(snap, rates)
	if !st.Paused {
		first := st.Table.Snapshot == nil
		st.Table.Merge(snap, rates)
		if first && st.Settings.AllBranchesCollapsed {
			st.Table.CollapseAllBranches()
		}
	}
	if st.sortHold > 0 && !st.Settings.TreeView {
		st.sortHold--
	} else {
		st.Table.Sort()
	}
	st.Main.Rebuild()
	st.Screens.Relayout()
}

func (m Model) View() string {
	st := m.st
	s := st.Screens.Top()
	w, h := st.Screens.W, st.Screens.H
	if s == nil || w == 0 || h == 0 {
		return ""
	}
	if s.Overlay != nil {
		return s.Overlay(w, h)
	}
	f := screen.NewFrame(w, h)
	if s.ShowHeader {
		st.Header.Draw(f)
	}
	st.Screens.Draw(f)
	return f.Render(st.Theme)
}
