package ui

import (
	"fmt"
	"os/exec"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sys/unix"

	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/ui/panel"
	"github.com/ftahirops/ptop/ui/theme"
)

// setSortKey is shared by the sort shortcuts, the sort picker and header
// clicks.
func setSortKey(st *State, f model.Field) Reaction {
	st.Settings.SetSortKey(f)
	st.sortHold = 0
	return ReactionRefresh | ReactionSaveSettings | ReactionUpdatePanelHeader | ReactionKeepFollowing
}

func actionSortByPID(st *State) Reaction    { return setSortKey(st, model.FieldPID) }
func actionSortByCPU(st *State) Reaction    { return setSortKey(st, model.FieldCPU) }
func actionSortByMemory(st *State) Reaction { return setSortKey(st, model.FieldMem) }
func actionSortByTime(st *State) Reaction   { return setSortKey(st, model.FieldTime) }

func actionInvertSortOrder(st *State) Reaction {
	st.Settings.InvertSortOrder()
	st.sortHold = 0
	return ReactionRefresh | ReactionSaveSettings | ReactionKeepFollowing | ReactionUpdatePanelHeader
}

func actionSetSortColumn(st *State) Reaction {
	s := st.Settings
	list := newPickPanel("Sort by", panel.EnterEsc("Sort", "Cancel"))
	for _, f := range s.Fields {
		list.Add(panel.NewListItem(f.Name(), int(f)))
	}
	list.SelectKey(int(s.ActiveSortKey()))
	return st.pickFromList("sort", list, 15, false, func(it panel.Item) Reaction {
		r := ReactionRefresh | ReactionRedrawBar | ReactionUpdatePanelHeader
		if it != nil {
			r |= setSortKey(st, model.Field(it.Key()))
		}
		return r
	})
}

func actionExpandCollapseOrSortColumn(st *State) Reaction {
	if st.Settings.TreeView {
		return actionExpandOrCollapse(st)
	}
	return actionSetSortColumn(st)
}

func actionToggleKernelThreads(st *State) Reaction {
	st.Settings.HideKernelThreads = !st.Settings.HideKernelThreads
	return ReactionRecalculate | ReactionSaveSettings | ReactionKeepFollowing
}

func actionToggleUserlandThreads(st *State) Reaction {
	st.Settings.HideUserlandThreads = !st.Settings.HideUserlandThreads
	return ReactionRecalculate | ReactionSaveSettings | ReactionKeepFollowing
}

func actionToggleProgramPath(st *State) Reaction {
	st.Settings.ShowProgramPath = !st.Settings.ShowProgramPath
	return ReactionRefresh | ReactionSaveSettings
}

func actionToggleMergedCommand(st *State) Reaction {
	st.Settings.ShowMergedCommand = !st.Settings.ShowMergedCommand
	return ReactionRefresh | ReactionSaveSettings
}

// actionToggleTreeView also recalculates so the new layout shows without
// waiting for the next sample.
func actionToggleTreeView(st *State) Reaction {
	s := st.Settings
	s.TreeView = !s.TreeView
	if !s.AllBranchesCollapsed {
		st.Table.ExpandTree()
	}
	return ReactionRefresh | ReactionSaveSettings | ReactionKeepFollowing | ReactionRedrawBar |
		ReactionUpdatePanelHeader | ReactionRecalculate
}

func actionExpandOrCollapseAllBranches(st *State) Reaction {
	s := st.Settings
	s.AllBranchesCollapsed = !s.AllBranchesCollapsed
	if s.AllBranchesCollapsed {
		st.Table.CollapseAllBranches()
	} else {
		st.Table.RestoreBranches()
	}
	return ReactionRefresh | ReactionSaveSettings | ReactionRecalculate
}

func actionExpandOrCollapse(st *State) Reaction {
	if !st.Settings.TreeView {
		return ReactionOK
	}
	if !expandCollapse(st.Main) {
		return ReactionOK
	}
	return ReactionRecalculate
}

func actionCollapseIntoParent(st *State) Reaction {
	if !st.Settings.TreeView {
		return ReactionOK
	}
	if !collapseIntoParent(st.Main) {
		return ReactionOK
	}
	return ReactionRecalculate
}

func actionIncFilter(st *State) Reaction {
	st.Main.Inc.Activate(st.Main.Panel, panel.IncFilter)
	return ReactionRefresh | ReactionKeepFollowing | ReactionRedrawBar
}

func actionIncSearch(st *State) Reaction {
	st.Main.Inc.Activate(st.Main.Panel, panel.IncSearch)
	return ReactionRefresh | ReactionKeepFollowing
}

func actionTogglePause(st *State) Reaction {
	st.Paused = !st.Paused
	return ReactionRefresh | ReactionRedrawBar
}

func actionRedraw(st *State) Reaction {
	st.queue(tea.ClearScreen)
	return ReactionRefresh | ReactionRedrawBar
}

func actionQuit(*State) Reaction { return ReactionQuit }

func actionFollow(st *State) Reaction {
	st.Table.Following = st.Main.SelectedPID()
	st.Main.SelectionColor = theme.PanelSelectionFollow
	return ReactionKeepFollowing
}

func actionTag(st *State) Reaction {
	p := st.Main.SelectedProcess()
	if p == nil {
		return ReactionOK
	}
	p.Tagged = !p.Tagged
	st.Main.Move(1)
	return ReactionOK
}

func actionTagAllChildren(st *State) Reaction {
	p := st.Main.SelectedProcess()
	if p == nil {
		return ReactionOK
	}
	tagWithChildren(st.Main.Processes(), p)
	return ReactionOK
}

func actionUntagAll(st *State) Reaction {
	st.Table.UntagAll()
	return ReactionRefresh
}

func changePriority(st *State, delta int) Reaction {
	changed := false
	st.foreachProcess("renice", func(p *model.Process) error {
		nice := min(max(p.Nice+delta, -20), 19)
		if err := st.Ops.Renice(p.PID, nice); err != nil {
			return err
		}
		p.Nice = nice
		changed = true
		return nil
	})
	if !changed {
		return ReactionOK
	}
	return ReactionRefresh
}

func actionHigherPriority(st *State) Reaction { return changePriority(st, -1) }
func actionLowerPriority(st *State) Reaction  { return changePriority(st, 1) }

func actionKill(st *State) Reaction {
	if st.Main.SelectedProcess() == nil {
		return ReactionOK
	}
	return st.pickFromList("signals", newSignalsPanel(), 15, true, func(it panel.Item) Reaction {
		if it != nil && it.Key() != 0 {
			sig := unix.Signal(it.Key())
			st.foreachProcess("signal "+unix.SignalName(sig), func(p *model.Process) error {
				return st.Ops.Signal(p.PID, sig)
			})
		}
		return ReactionRefresh | ReactionRedrawBar | ReactionUpdatePanelHeader
	})
}

func actionFilterByUser(st *State) Reaction {
	list := newPickPanel("Show processes of:", panel.EnterEsc("Show", "Cancel"))
	list.Add(panel.NewListItem("All users", -1))
	for _, u := range st.Table.Users() {
		list.Add(panel.NewListItem(u.Name, u.UID))
	}
	list.SelectKey(st.Table.UserID)
	return st.pickFromList("users", list, 20, false, func(it panel.Item) Reaction {
		if it != nil {
			st.Table.UserID = it.Key()
		}
		return ReactionRefresh | ReactionRedrawBar | ReactionUpdatePanelHeader
	})
}

func actionSetAffinity(st *State) Reaction {
	n := st.Table.CPUCount()
	p := st.Main.SelectedProcess()
	if n == 1 || p == nil {
		return ReactionOK
	}
	cpus, err := st.Ops.Affinity(p.PID)
	if err != nil {
		st.Alert("Cannot read affinity of %d: %v", p.PID, err)
		return ReactionOK
	}
	list, width := newAffinityPanel(n, cpus, st.Settings.CountCPUsFromOne)
	return st.pickFromList("affinity", list, width+1, true, func(it panel.Item) Reaction {
		if it != nil {
			set := checkedKeys(list)
			st.foreachProcess("set affinity", func(p *model.Process) error {
				return st.Ops.SetAffinity(p.PID, set)
			})
		}
		return ReactionRefresh | ReactionRedrawBar | ReactionUpdatePanelHeader
	})
}

func actionSetup(st *State) Reaction {
	openSetup(st)
	return ReactionKeepFollowing
}

func actionHelp(st *State) Reaction {
	openHelp(st)
	return ReactionKeepFollowing
}

func actionShowEnvironment(st *State) Reaction { return openInfo(st, newEnvScreen) }
func actionShowCommand(st *State) Reaction     { return openInfo(st, newCommandScreen) }
func actionShowOpenFiles(st *State) Reaction   { return openInfo(st, newOpenFilesScreen) }
func actionShowLocks(st *State) Reaction       { return openInfo(st, newLocksScreen) }

// straceDoneMsg reports the end of a suspended strace run.
type straceDoneMsg struct {
	pid int
	err error
}

func actionStrace(st *State) Reaction {
	p := st.Main.SelectedProcess()
	if p == nil {
		return ReactionOK
	}
	pid := p.PID
	c := exec.Command("strace", "-T", "-tt", "-s", "512", "-p", strconv.Itoa(pid))
	st.queue(tea.ExecProcess(c, func(err error) tea.Msg {
		return straceDoneMsg{pid: pid, err: err}
	}))
	return ReactionRefresh | ReactionRedrawBar
}

// foreachProcess runs fn on every tagged row, or on the selected row when
// none is tagged. Failures do not stop the loop; they are logged and
// reported as one alert. It returns whether every call succeeded.
func (st *State) foreachProcess(what string, fn func(p *model.Process) error) bool {
	var targets []*model.Process
	for _, p := range st.Main.Processes() {
		if p.Tagged {
			targets = append(targets, p)
		}
	}
	if len(targets) == 0 {
		if p := st.Main.SelectedProcess(); p != nil {
			targets = append(targets, p)
		}
	}
	var failed int
	var first error
	for _, p := range targets {
		if err := fn(p); err != nil {
			st.Logger.Debug("process operation failed", "op", what, "pid", p.PID, "err", err)
			failed++
			if first == nil {
				first = err
			}
		}
	}
	if failed == 0 {
		return true
	}
	msg := fmt.Sprintf("%s: %v", what, first)
	if failed > 1 {
		msg = fmt.Sprintf("%s failed for %d of %d processes: %v", what, failed, len(targets), first)
	}
	st.Alert("%s", msg)
	return false
}
