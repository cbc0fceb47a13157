package engine

import (
	"testing"
	"time"

	"github.com/ftahirops/ptop/config"
	"github.com/ftahirops/ptop/model"
)

func proc(pid, ppid int, cpu float64) model.Process {
	return model.Process{PID: pid, PPID: ppid, TGID: pid, CPUPercent: cpu, Comm: "p", StartTime: uint64(pid)}
}

func pids(ps []*model.Process) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.PID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// tree: 1 -> {10 -> {100}, 20}, 2
func treeSnapshot() *model.Snapshot {
	return &model.Snapshot{Processes: []model.Process{
		proc(1, 0, 1), proc(10, 1, 5), proc(100, 10, 0), proc(20, 1, 9), proc(2, 0, 0),
	}}
}

// ---------------------------------------------------------------------------
// Merge
// ---------------------------------------------------------------------------

func TestMerge_KeepsTableStateAndDropsVanished(t *testing.T) {
	tb := NewTable(config.Default())
	tb.Merge(treeSnapshot(), nil)
	tb.Get(10).Tagged = true
	tb.Get(10).ShowChildren = false

	snap := treeSnapshot()
	snap.Processes = snap.Processes[:4] // pid 2 exits
	snap.Processes[1].CPUPercent = 50
	tb.Merge(snap, nil)

	p := tb.Get(10)
	if !p.Tagged || p.ShowChildren {
		t.Errorf("table state lost: %+v", p)
	}
	if p.CPUPercent != 50 {
		t.Errorf("sampled field not updated: %v", p.CPUPercent)
	}
	if tb.Get(2) != nil || tb.Len() != 4 {
		t.Errorf("vanished pid kept: len=%d", tb.Len())
	}
}

func TestMerge_PIDReuseResetsState(t *testing.T) {
	tb := NewTable(config.Default())
	tb.Merge(treeSnapshot(), nil)
	tb.Get(20).Tagged = true

	snap := treeSnapshot()
	snap.Processes[3].StartTime = 999
	tb.Merge(snap, nil)
	if tb.Get(20).Tagged {
		t.Error("reused PID should not inherit the tag")
	}
	if tb.Len() != 5 {
		t.Errorf("len = %d; want 5", tb.Len())
	}
}

func TestMerge_HighlightsNewProcesses(t *testing.T) {
	s := config.Default()
	s.HighlightChanges = true
	s.HighlightDelaySecs = 5
	tb := NewTable(s)
	clock := time.Unix(1000, 0)
	tb.now = func() time.Time { return clock }

	tb.Merge(treeSnapshot(), nil)
	if tb.Get(1).New {
		t.Error("first scan should not highlight")
	}

	snap := treeSnapshot()
	snap.Processes = append(snap.Processes, proc(30, 1, 0))
	clock = clock.Add(time.Second)
	tb.Merge(snap, nil)
	if !tb.Get(30).New || tb.Get(1).New {
		t.Error("only pid 30 should be highlighted")
	}

	clock = clock.Add(10 * time.Second)
	tb.Merge(snap, nil)
	if tb.Get(30).New {
		t.Error("highlight should expire after the delay")
	}
}

// ---------------------------------------------------------------------------
// Sort
// ---------------------------------------------------------------------------

func TestSort_FlatByCPUDescending(t *testing.T) {
	tb := NewTable(config.Default())
	tb.Merge(treeSnapshot(), nil)
	tb.Sort()
	// CPU desc, ties (0) broken by PID reversed with direction
	want := []int{20, 10, 1, 100, 2}
	if got := pids(tb.Rows()); !equalInts(got, want) {
		t.Errorf("order = %v; want %v", got, want)
	}
}

func TestSort_Tree(t *testing.T) {
	s := config.Default()
	s.TreeView = true
	tb := NewTable(s)
	tb.Merge(treeSnapshot(), nil)
	tb.Sort()

	want := []int{1, 10, 100, 20, 2}
	if got := pids(tb.Rows()); !equalInts(got, want) {
		t.Fatalf("order = %v; want %v", got, want)
	}
	p100 := tb.Get(100)
	if p100.Depth != 2 || !p100.LastChild {
		t.Errorf("pid 100 depth=%d last=%v", p100.Depth, p100.LastChild)
	}
	if p100.Indent&(1<<1) == 0 {
		t.Error("pid 100 should draw a continuation line for pid 10's later sibling")
	}
	if tb.Get(20).Indent != 0 || !tb.Get(20).LastChild {
		t.Errorf("pid 20 = %+v", tb.Get(20))
	}
	if !tb.Get(10).HasChildren || tb.Get(20).HasChildren {
		t.Error("HasChildren wrong")
	}
}

func TestSort_TreeCollapsedHidesDescendants(t *testing.T) {
	s := config.Default()
	s.TreeView = true
	tb := NewTable(s)
	tb.Merge(treeSnapshot(), nil)
	tb.Get(1).ShowChildren = false
	tb.Sort()

	if got := pids(tb.Visible(nil)); !equalInts(got, []int{1, 2}) {
		t.Errorf("visible = %v; want [1 2]", got)
	}
}

func TestCollapseAllThenExpand_IsIdentity(t *testing.T) {
	s := config.Default()
	s.TreeView = true
	tb := NewTable(s)
	tb.Merge(treeSnapshot(), nil)
	tb.Sort()
	before := pids(tb.Visible(nil))

	tb.CollapseAllBranches()
	tb.Sort()
	if got := pids(tb.Visible(nil)); !equalInts(got, []int{1, 10, 20, 2}) {
		t.Errorf("collapsed visible = %v", got)
	}
	tb.ExpandTree()
	tb.Sort()
	if got := pids(tb.Visible(nil)); !equalInts(got, before) {
		t.Errorf("after expand = %v; want %v", got, before)
	}
}

func TestRestoreBranches_KeepsIndividualFlags(t *testing.T) {
	s := config.Default()
	s.TreeView = true
	tb := NewTable(s)
	tb.Merge(treeSnapshot(), nil)
	tb.Get(10).ShowChildren = false
	tb.Get(20).ShowChildren = true

	tb.CollapseAllBranches()
	if tb.Get(20).ShowChildren {
		t.Error("collapse all left 20 expanded")
	}
	tb.RestoreBranches()
	if tb.Get(10).ShowChildren || !tb.Get(20).ShowChildren || !tb.Get(1).ShowChildren {
		t.Errorf("restored flags: 10=%v 20=%v 1=%v",
			tb.Get(10).ShowChildren, tb.Get(20).ShowChildren, tb.Get(1).ShowChildren)
	}
}

func TestCollapseAllBranches_FoldsOtherRoots(t *testing.T) {
	s := config.Default()
	s.TreeView = true
	tb := NewTable(s)
	snap := treeSnapshot()
	snap.Processes = append(snap.Processes, proc(3, 2, 0)) // kworker under kthreadd
	tb.Merge(snap, nil)
	tb.Sort()
	before := pids(tb.Visible(nil))

	tb.CollapseAllBranches()
	tb.Sort()
	if tb.Get(2).ShowChildren || !tb.Get(1).ShowChildren {
		t.Errorf("flags: 2=%v 1=%v", tb.Get(2).ShowChildren, tb.Get(1).ShowChildren)
	}
	if got := pids(tb.Visible(nil)); !equalInts(got, []int{1, 10, 20, 2}) {
		t.Errorf("collapsed visible = %v", got)
	}
	tb.RestoreBranches()
	tb.Sort()
	if got := pids(tb.Visible(nil)); !equalInts(got, before) {
		t.Errorf("restored visible = %v, want %v", got, before)
	}
}

func TestVisible_IgnoresTreeFlagsInListView(t *testing.T) {
	s := config.Default()
	s.TreeView = true
	tb := NewTable(s)
	tb.Merge(treeSnapshot(), nil)
	tb.Get(1).ShowChildren = false
	tb.Sort()
	if got := len(tb.Visible(nil)); got != 2 {
		t.Fatalf("tree visible = %d, want 2", got)
	}
	s.TreeView = false
	if got := len(tb.Visible(nil)); got != 5 {
		t.Errorf("list view before resort shows %d rows, want 5", got)
	}
}

// ---------------------------------------------------------------------------
// Visibility filters
// ---------------------------------------------------------------------------

func TestVisible_Filters(t *testing.T) {
	s := config.Default()
	s.HideKernelThreads = true
	tb := NewTable(s)
	snap := treeSnapshot()
	snap.Processes[4].Flags = 0x00200000
	snap.Processes[2].UID = 1000
	tb.Merge(snap, nil)
	tb.Sort()

	if got := len(tb.Visible(nil)); got != 4 {
		t.Errorf("kernel thread not hidden: %d visible", got)
	}
	tb.UserID = 1000
	if got := pids(tb.Visible(nil)); !equalInts(got, []int{100}) {
		t.Errorf("user filter = %v", got)
	}
	tb.UserID = -1
	tb.PIDMatch = map[int]bool{10: true, 20: true}
	if got := len(tb.Visible(nil)); got != 2 {
		t.Errorf("pid match = %d rows; want 2", got)
	}
	tb.PIDMatch = nil
	only1 := func(p *model.Process) bool { return p.PID == 1 }
	if got := pids(tb.Visible(only1)); !equalInts(got, []int{1}) {
		t.Errorf("match = %v", got)
	}
}

func TestUsersAndTagged(t *testing.T) {
	tb := NewTable(config.Default())
	snap := treeSnapshot()
	for i := range snap.Processes {
		snap.Processes[i].User = "root"
	}
	snap.Processes[1].UID, snap.Processes[1].User = 1000, "alice"
	tb.Merge(snap, nil)
	us := tb.Users()
	if len(us) != 2 || us[0].Name != "alice" || us[1].Name != "root" {
		t.Errorf("Users = %+v", us)
	}

	tb.Get(1).Tagged = true
	tb.Get(2).Tagged = true
	if len(tb.Tagged()) != 2 {
		t.Errorf("Tagged = %d", len(tb.Tagged()))
	}
	tb.UntagAll()
	if len(tb.Tagged()) != 0 {
		t.Error("UntagAll left tags")
	}
}

// ---------------------------------------------------------------------------
// Rates
// ---------------------------------------------------------------------------

func TestComputeRates_ProcessCPU(t *testing.T) {
	prev := &model.Snapshot{Timestamp: time.Unix(0, 0)}
	prev.CPU.Total = model.CPUTimes{User: 0, Idle: 0}
	prev.CPU.NumCPUs = 2
	prev.Processes = []model.Process{{PID: 1, UTime: 0}}

	curr := &model.Snapshot{Timestamp: time.Unix(1, 0)}
	curr.CPU.Total = model.CPUTimes{User: 100, Idle: 100}
	curr.CPU.NumCPUs = 2
	curr.Memory.Total = 1000
	curr.Processes = []model.Process{{PID: 1, UTime: 50, RSS: 250}, {PID: 2, UTime: 10}}

	r := ComputeRates(prev, curr)
	if r.CPU.Busy != 50 {
		t.Errorf("Busy = %v; want 50", r.CPU.Busy)
	}
	// period per CPU = 200/2 = 100 ticks; pid 1 used 50
	if curr.Processes[0].CPUPercent != 50 {
		t.Errorf("CPU%% = %v; want 50", curr.Processes[0].CPUPercent)
	}
	if curr.Processes[1].CPUPercent != 0 {
		t.Error("new process should have no CPU% yet")
	}
	if curr.Processes[0].MemPercent != 25 {
		t.Errorf("MEM%% = %v; want 25", curr.Processes[0].MemPercent)
	}
}

func TestEngine_TickWithStaticTicker(t *testing.T) {
	st := &StaticTicker{Snap: treeSnapshot()}
	snap, _ := st.Tick()
	snap.Processes[0].PID = 77
	again, _ := st.Tick()
	if again.Processes[0].PID != 1 {
		t.Error("StaticTicker should hand out copies")
	}
}
