package engine

import (
	"slices"
	"sort"
	"time"

	"github.com/ftahirops/ptop/config"
	"github.com/ftahirops/ptop/model"
)

// maxTreeDepth bounds the indent mask.
const maxTreeDepth = 31

// Table is the process table the UI reads: every known task in display
// order, plus the per-process state (tags, collapse flags) the user sets.
type Table struct {
	Settings *config.Settings

	// Following is the PID pinned by the user, or -1.
	Following int
	// UserID restricts the view to one owner, or -1 for everyone.
	UserID int
	// PIDMatch restricts the view to these thread group ids when non-nil.
	PIDMatch map[int]bool

	Snapshot *model.Snapshot
	Rates    *model.Rates

	byPID    map[int]*model.Process
	rows     []*model.Process
	scanned  bool
	now      func() time.Time
	branches map[int]bool // ShowChildren before CollapseAllBranches
}

// NewTable returns an empty table ordered by s.
func NewTable(s *config.Settings) *Table {
	return &Table{
		Settings:  s,
		Following: -1,
		UserID:    -1,
		byPID:     make(map[int]*model.Process),
		now:       time.Now,
	}
}

// Merge folds a new sample into the table. Known PIDs keep their table
// state; vanished PIDs are dropped; new PIDs are appended until the next Sort.
func (t *Table) Merge(snap *model.Snapshot, rates *model.Rates) {
	now := t.now()
	window := time.Duration(max(t.Settings.HighlightDelaySecs, 1)) * time.Second
	seen := make(map[int]bool, len(snap.Processes))

	for i := range snap.Processes {
		src := &snap.Processes[i]
		seen[src.PID] = true
		p, ok := t.byPID[src.PID]
		if ok && p.StartTime != src.StartTime {
			ok = false // PID reused
			t.removeRow(p)
		}
		if !ok {
			p = new(model.Process)
			*p = *src
			p.ShowChildren = true
			p.Show = true
			if t.scanned {
				p.SeenAt = now
			}
			t.byPID[p.PID] = p
			t.rows = append(t.rows, p)
		} else {
			keep := *p
			*p = *src
			p.Tagged = keep.Tagged
			p.ShowChildren = keep.ShowChildren
			p.Show = keep.Show
			p.SeenAt = keep.SeenAt
			p.Depth = keep.Depth
			p.Indent = keep.Indent
			p.LastChild = keep.LastChild
			p.HasChildren = keep.HasChildren
		}
		p.Updated = true
		p.New = t.scanned && t.Settings.HighlightChanges && now.Sub(p.SeenAt) < window
	}

	t.rows = slices.DeleteFunc(t.rows, func(p *model.Process) bool {
		if seen[p.PID] && t.byPID[p.PID] == p {
			return false
		}
		if t.byPID[p.PID] == p {
			delete(t.byPID, p.PID)
		}
		return true
	})

	t.Snapshot = snap
	t.Rates = rates
	t.scanned = true
}

func (t *Table) removeRow(p *model.Process) {
	if i := slices.Index(t.rows, p); i >= 0 {
		t.rows = slices.Delete(t.rows, i, i+1)
	}
	delete(t.byPID, p.PID)
}

// Len returns the number of known tasks.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns every task in display order.
func (t *Table) Rows() []*model.Process { return t.rows }

// Get returns the task with pid, or nil.
func (t *Table) Get(pid int) *model.Process { return t.byPID[pid] }

// Sort orders the rows by the active sort key, as a tree when tree view is on.
func (t *Table) Sort() {
	key := t.Settings.ActiveSortKey()
	dir := t.Settings.ActiveDirection()
	less := func(a, b *model.Process) int { return dir * model.Compare(a, b, key) }

	if !t.Settings.TreeView {
		slices.SortStableFunc(t.rows, less)
		for _, p := range t.rows {
			p.Show = true
			p.Depth = 0
			p.Indent = 0
			p.LastChild = false
			p.HasChildren = false
		}
		return
	}
	t.buildTree(less)
}

type treeFrame struct {
	p       *model.Process
	depth   int
	indent  uint32
	last    bool
	visible bool
}

// buildTree lays rows out depth-first using an explicit stack.
func (t *Table) buildTree(less func(a, b *model.Process) int) {
	children := make(map[int][]*model.Process)
	var roots []*model.Process
	for _, p := range t.rows {
		parent := p.Parent()
		if parent == p.PID || t.byPID[parent] == nil {
			roots = append(roots, p)
			continue
		}
		children[parent] = append(children[parent], p)
	}
	slices.SortStableFunc(roots, less)
	for _, kids := range children {
		slices.SortStableFunc(kids, less)
	}

	out := make([]*model.Process, 0, len(t.rows))
	stack := make([]treeFrame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, treeFrame{p: roots[i], last: i == len(roots)-1, visible: true})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p := f.p
		kids := children[p.PID]
		p.Depth = f.depth
		p.Indent = f.indent
		p.LastChild = f.last
		p.Show = f.visible
		p.HasChildren = len(kids) > 0
		out = append(out, p)

		childIndent := f.indent
		if f.depth > 0 && !f.last && f.depth <= maxTreeDepth {
			childIndent |= 1 << uint(f.depth)
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, treeFrame{
				p:       kids[i],
				depth:   f.depth + 1,
				indent:  childIndent,
				last:    i == len(kids)-1,
				visible: f.visible && p.ShowChildren,
			})
		}
	}
	t.rows = out
}

// Visible returns the rows to display: shown in the tree when tree view is
// on, not hidden by thread or user settings, and accepted by match when
// match is non-nil.
func (t *Table) Visible(match func(*model.Process) bool) []*model.Process {
	s := t.Settings
	out := make([]*model.Process, 0, len(t.rows))
	for _, p := range t.rows {
		switch {
		case s.TreeView && !p.Show:
		case s.HideKernelThreads && p.IsKernelThread():
		case s.HideUserlandThreads && p.UserlandThread:
		case t.UserID != -1 && p.UID != t.UserID:
		case t.PIDMatch != nil && !t.PIDMatch[p.TGID]:
		case match != nil && !match(p):
		default:
			out = append(out, p)
		}
	}
	return out
}

// ExpandTree shows the children of every task.
func (t *Table) ExpandTree() {
	for _, p := range t.rows {
		p.ShowChildren = true
	}
}

// CollapseAllBranches collapses every task except init, so other roots
// such as kthreadd fold too. The previous flags are kept for
// RestoreBranches.
func (t *Table) CollapseAllBranches() {
	t.branches = make(map[int]bool, len(t.rows))
	for _, p := range t.rows {
		t.branches[p.PID] = p.ShowChildren
		if p.PID > 1 {
			p.ShowChildren = false
		}
	}
}

// RestoreBranches undoes CollapseAllBranches. Tasks first seen since then
// are expanded.
func (t *Table) RestoreBranches() {
	for _, p := range t.rows {
		show, ok := t.branches[p.PID]
		p.ShowChildren = show || !ok
	}
	t.branches = nil
}

// UntagAll clears every tag.
func (t *Table) UntagAll() {
	for _, p := range t.rows {
		p.Tagged = false
	}
}

// Tagged returns tagged tasks in display order.
func (t *Table) Tagged() []*model.Process {
	var out []*model.Process
	for _, p := range t.rows {
		if p.Tagged {
			out = append(out, p)
		}
	}
	return out
}

// User is one owner of running tasks.
type User struct {
	UID  int
	Name string
}

// Users lists the distinct owners of known tasks by name.
func (t *Table) Users() []User {
	byUID := make(map[int]string)
	for _, p := range t.rows {
		byUID[p.UID] = p.User
	}
	out := make([]User, 0, len(byUID))
	for uid, name := range byUID {
		out = append(out, User{UID: uid, Name: name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].UID < out[j].UID
	})
	return out
}

// CPUCount returns the number of CPUs in the last sample.
func (t *Table) CPUCount() int {
	if t.Snapshot == nil || t.Snapshot.CPU.NumCPUs < 1 {
		return 1
	}
	return t.Snapshot.CPU.NumCPUs
}
