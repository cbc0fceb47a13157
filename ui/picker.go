package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ftahirops/ptop/collector"
	"github.com/ftahirops/ptop/ui/panel"
	"github.com/ftahirops/ptop/ui/theme"
)

// newPickPanel returns an empty list panel with a header and type-ahead.
func newPickPanel(title string, bar *panel.FunctionBar) *panel.Panel {
	p := panel.New(nil, bar, &panel.ListBehavior{})
	p.Header.Append(theme.PanelHeaderFocus, title)
	return p
}

// pickFromList opens list beside the main panel in a restricted session.
// With follow, the selected process is pinned while the picker is open and
// the pick is dropped (with a beep) if that process went away. done gets the
// confirmed item or nil, and its reaction is applied once the picker closes.
func (st *State) pickFromList(name string, list *panel.Panel, width int, follow bool, done func(it panel.Item) Reaction) Reaction {
	pid := -1
	unfollow := false
	if follow {
		pid = st.Main.SelectedPID()
		if st.Table.Following == -1 {
			st.Table.Following = pid
			unfollow = true
		}
	}
	st.Screens.Pick(name, list, width, st.Main.Panel, func(it panel.Item, ok bool) panel.Result {
		if unfollow {
			st.Table.Following = -1
		}
		if ok && follow && st.Main.SelectedPID() != pid {
			st.Beep()
			ok = false
		}
		if !ok {
			it = nil
		}
		return st.Apply(done(it))
	})
	return ReactionKeepFollowing
}

// defaultSignal is preselected in the signal picker.
const defaultSignal = 15

func newSignalsPanel() *panel.Panel {
	list := newPickPanel("Send signal:", panel.EnterEsc("Send", "Cancel"))
	list.Add(panel.NewListItem(" 0 Cancel", 0))
	for _, s := range collector.Signals() {
		list.Add(panel.NewListItem(fmt.Sprintf("%2d %s", s.Number, s.Name), s.Number))
	}
	list.SelectKey(defaultSignal)
	return list
}

// affinityBehavior toggles CPUs with space or a click and all CPUs with
// "a"; Enter confirms.
type affinityBehavior struct{}

func (affinityBehavior) HandleEvent(p *panel.Panel, msg tea.Msg) panel.Result {
	switch msg := msg.(type) {
	case panel.ReclickMsg:
		return toggleSelected(p)
	case tea.KeyMsg:
		switch msg.String() {
		case " ":
			return toggleSelected(p)
		case "a":
			all := true
			for _, it := range p.List().Items() {
				all = all && it.(*panel.CheckItem).Checked()
			}
			for _, it := range p.List().Items() {
				c := it.(*panel.CheckItem)
				if c.Checked() == all {
					c.Toggle()
				}
			}
			return panel.Handled | panel.Redraw
		case "enter":
			return panel.BreakLoop
		}
	}
	return panel.Ignored
}

func toggleSelected(p *panel.Panel) panel.Result {
	if c, ok := p.Selected().(*panel.CheckItem); ok {
		c.Toggle()
	}
	return panel.Handled | panel.Redraw
}

// newAffinityPanel lists n CPUs with those in cpus checked, and returns
// the width the list needs.
func newAffinityPanel(n int, cpus []int, fromOne bool) (*panel.Panel, int) {
	bar := panel.NewFunctionBar(
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Set")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "All")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Cancel")),
	)
	list := panel.New(nil, bar, affinityBehavior{})
	list.Header.Append(theme.PanelHeaderFocus, "Use CPUs:")
	on := make(map[int]bool, len(cpus))
	for _, c := range cpus {
		on[c] = true
	}
	width := list.Header.Len()
	for i := 0; i < n; i++ {
		num := i
		if fromOne {
			num++
		}
		v := on[i]
		it := panel.NewCheckItem(fmt.Sprintf("CPU %d", num), &v)
		it.ID = i
		list.Add(it)
		width = max(width, len(it.Text)+4)
	}
	return list, width
}

// checkedKeys returns the keys of the checked items of p.
func checkedKeys(p *panel.Panel) []int {
	var out []int
	for _, it := range p.List().Items() {
		if c, ok := it.(*panel.CheckItem); ok && c.Checked() {
			out = append(out, c.Key())
		}
	}
	return out
}
