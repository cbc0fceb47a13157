package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a global key handler. It mutates state and returns the
// effects State.Apply must carry out.
type Action func(st *State) Reaction

// Help columns.
const (
	groupView = iota
	groupProcess
)

// Binding ties keys to an action. The embedded key.Binding carries the
// help text shown by the help screen and `ptop keys`.
type Binding struct {
	key.Binding
	Run   Action
	Group int
}

// Registry maps key names, as produced by tea.KeyMsg.String, to actions.
type Registry struct {
	bindings []*Binding
	byKey    map[string]*Binding
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]*Binding)}
}

// Bind registers run under keys. A key bound twice goes to the later
// binding.
func (r *Registry) Bind(group int, run Action, keys []string, helpKey, desc string) *Binding {
	b := &Binding{
		Binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc)),
		Run:     run,
		Group:   group,
	}
	r.bindings = append(r.bindings, b)
	for _, k := range keys {
		r.byKey[k] = b
	}
	return b
}

// Lookup returns the enabled binding for key, or nil.
func (r *Registry) Lookup(k string) *Binding {
	b := r.byKey[k]
	if b == nil || !b.Enabled() {
		return nil
	}
	return b
}

// Handle runs the action bound to msg. ok is false when nothing is bound.
func (r *Registry) Handle(st *State, msg tea.KeyMsg) (Reaction, bool) {
	b := r.Lookup(msg.String())
	if b == nil {
		return ReactionOK, false
	}
	return b.Run(st), true
}

// Bindings returns every binding in registration order.
func (r *Registry) Bindings() []*Binding { return r.bindings }

// ShortHelp implements help.KeyMap.
func (r *Registry) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, b := range r.bindings {
		if b.Group == groupView && len(out) < 8 {
			out = append(out, b.Binding)
		}
	}
	return out
}

// FullHelp implements help.KeyMap with one column per group.
func (r *Registry) FullHelp() [][]key.Binding {
	cols := make([][]key.Binding, 2)
	for _, b := range r.bindings {
		cols[b.Group] = append(cols[b.Group], b.Binding)
	}
	return cols
}

// DefaultRegistry returns the main screen key bindings.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Bind(groupView, actionIncSearch, []string{"f3", "/"}, "F3 /", "incremental name search")
	r.Bind(groupView, actionIncFilter, []string{"f4", "\\"}, "F4 \\", "incremental name filtering")
	r.Bind(groupView, actionToggleTreeView, []string{"f5", "t"}, "F5 t", "tree view")
	r.Bind(groupView, actionToggleProgramPath, []string{"p"}, "p", "toggle program path")
	r.Bind(groupView, actionToggleMergedCommand, []string{"m"}, "m", "toggle merged command")
	r.Bind(groupView, actionTogglePause, []string{"Z"}, "Z", "pause/resume process updates")
	r.Bind(groupView, actionFilterByUser, []string{"u"}, "u", "show processes of a single user")
	r.Bind(groupView, actionToggleUserlandThreads, []string{"H"}, "H", "hide/show user process threads")
	r.Bind(groupView, actionToggleKernelThreads, []string{"K"}, "K", "hide/show kernel threads")
	r.Bind(groupView, actionFollow, []string{"F"}, "F", "cursor follows process")
	r.Bind(groupView, actionExpandOrCollapse, []string{"+", "-", "="}, "+ -", "expand/collapse tree")
	r.Bind(groupView, actionExpandOrCollapseAllBranches, []string{"*"}, "*", "expand/collapse all branches")
	r.Bind(groupView, actionCollapseIntoParent, []string{"backspace"}, "Bksp", "collapse into parent")
	r.Bind(groupView, actionSortByPID, []string{"N"}, "N", "sort by PID")
	r.Bind(groupView, actionSortByCPU, []string{"P"}, "P", "sort by CPU%")
	r.Bind(groupView, actionSortByMemory, []string{"M"}, "M", "sort by MEM%")
	r.Bind(groupView, actionSortByTime, []string{"T"}, "T", "sort by TIME")
	r.Bind(groupView, actionInvertSortOrder, []string{"I"}, "I", "invert sort order")
	r.Bind(groupView, actionSetSortColumn, []string{"f6", ">", ".", "<", ","}, "F6 > .", "select sort column")
	r.Bind(groupView, actionExpandCollapseOrSortColumn, []string{"f18"}, "S-F6", "expand/collapse or sort column")

	r.Bind(groupProcess, actionTag, []string{" "}, "Space", "tag process")
	r.Bind(groupProcess, actionTagAllChildren, []string{"c"}, "c", "tag process and its children")
	r.Bind(groupProcess, actionUntagAll, []string{"U"}, "U", "untag all processes")
	r.Bind(groupProcess, actionKill, []string{"f9", "k"}, "F9 k", "kill process/tagged processes")
	r.Bind(groupProcess, actionHigherPriority, []string{"f7", "]"}, "F7 ]", "higher priority (root only)")
	r.Bind(groupProcess, actionLowerPriority, []string{"f8", "["}, "F8 [", "lower priority (+ nice)")
	r.Bind(groupProcess, actionSetAffinity, []string{"a"}, "a", "set CPU affinity")
	r.Bind(groupProcess, actionShowEnvironment, []string{"e"}, "e", "show process environment")
	r.Bind(groupProcess, actionShowOpenFiles, []string{"l"}, "l", "list open files")
	r.Bind(groupProcess, actionShowLocks, []string{"x"}, "x", "list file locks of process")
	r.Bind(groupProcess, actionStrace, []string{"s"}, "s", "trace syscalls with strace")
	r.Bind(groupProcess, actionShowCommand, []string{"w"}, "w", "wrap process command in multiple lines")
	r.Bind(groupProcess, actionSetup, []string{"f2", "C", "S"}, "F2 C S", "setup")
	r.Bind(groupProcess, actionHelp, []string{"f1", "h", "?"}, "F1 h", "show this help screen")
	r.Bind(groupProcess, actionRedraw, []string{"ctrl+l"}, "^L", "redraw the screen")
	r.Bind(groupProcess, actionQuit, []string{"f10", "q"}, "F10 q", "quit")
	return r
}
