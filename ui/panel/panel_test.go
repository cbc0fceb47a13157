package panel

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ftahirops/ptop/ui/theme"
)

func items(labels ...string) *List {
	l := NewList()
	for i, s := range labels {
		l.Add(NewListItem(s, i+1))
	}
	return l
}

func keyMsg(s string) tea.KeyMsg { return KeyFromString(s) }

func selectedLabel(p *Panel) string {
	if it := p.Selected(); it != nil {
		return it.Label()
	}
	return "<none>"
}

// checkInvariants asserts the selection and scroll rules after any mutation.
func checkInvariants(t *testing.T, p *Panel) {
	t.Helper()
	n := p.Len()
	if n == 0 {
		if p.SelectedIndex() != -1 {
			t.Fatalf("empty list selection = %d", p.SelectedIndex())
		}
		return
	}
	if i := p.SelectedIndex(); i < 0 || i >= n {
		t.Fatalf("selection %d out of [0,%d)", i, n)
	}
	v := p.view()
	if pos := p.viewPos(v); pos >= 0 {
		line := pos - p.ScrollV()
		if line < 0 || line >= p.Rows() {
			t.Fatalf("selected row drawn on line %d of %d", line, p.Rows())
		}
	}
	if p.ScrollV() < 0 || p.ScrollV() > max(len(v)-p.Rows(), 0) {
		t.Fatalf("scroll %d leaves blank rows (len %d rows %d)", p.ScrollV(), len(v), p.Rows())
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestList_InsertRemoveSortKeepsIdentity(t *testing.T) {
	l := NewList()
	net := 0
	for i := 0; i < 20; i++ {
		l.Insert(i%3, NewListItem(fmt.Sprintf("item%02d", i), i))
		net++
		if i%4 == 3 {
			l.RemoveAt(1)
			net--
		}
		if i%5 == 4 {
			l.Sort(func(a, b Item) int { return strings.Compare(b.Label(), a.Label()) })
		}
		if l.Len() != net {
			t.Fatalf("Len = %d; want %d", l.Len(), net)
		}
		for pos, it := range l.Items() {
			if got := l.IndexOf(it.Key()); got != pos {
				t.Fatalf("IndexOf(%d) = %d; want %d", it.Key(), got, pos)
			}
		}
	}
	if l.IndexOf(999) != -1 {
		t.Error("IndexOf missing key should be -1")
	}
	if l.RemoveAt(99) != nil || l.Get(-1) != nil {
		t.Error("out of range access should return nil")
	}
}

func TestList_SortIsStable(t *testing.T) {
	l := NewList(NewListItem("b", 1), NewListItem("a", 2), NewListItem("b", 3), NewListItem("a", 4))
	l.Sort(func(a, b Item) int { return strings.Compare(a.Label(), b.Label()) })
	var got []int
	for _, it := range l.Items() {
		got = append(got, it.Key())
	}
	if fmt.Sprint(got) != "[2 4 1 3]" {
		t.Errorf("order = %v", got)
	}
}

func TestList_Move(t *testing.T) {
	l := items("a", "b", "c")
	if i := l.MoveUp(2); i != 1 || l.Get(1).Label() != "c" {
		t.Errorf("MoveUp -> %d %q", i, l.Get(1).Label())
	}
	if i := l.MoveDown(0); i != 1 || l.Get(0).Label() != "c" {
		t.Errorf("MoveDown -> %d %q", i, l.Get(0).Label())
	}
	if l.MoveUp(0) != 0 || l.MoveDown(2) != 2 {
		t.Error("moving past the ends should be a no-op")
	}
}

// ---------------------------------------------------------------------------
// Selection and scrolling
// ---------------------------------------------------------------------------

func TestPanel_SelectionInvariantUnderMutation(t *testing.T) {
	p := New(NewList(), nil, nil)
	p.Resize(0, 0, 20, 4)
	checkInvariants(t, p)
	if p.Selected() != nil {
		t.Error("empty panel should have no selection")
	}

	for i := 0; i < 10; i++ {
		p.Add(NewListItem(fmt.Sprint(i), i))
		checkInvariants(t, p)
	}
	p.SetSelected(9)
	checkInvariants(t, p)
	p.RemoveAt(9)
	checkInvariants(t, p)
	if p.SelectedIndex() != 8 {
		t.Errorf("selection after removing last = %d", p.SelectedIndex())
	}
	p.Insert(0, NewListItem("new", 100))
	if selectedLabel(p) != "8" {
		t.Errorf("insert above should keep the selected row, got %s", selectedLabel(p))
	}
	for p.Len() > 0 {
		p.RemoveAt(0)
		checkInvariants(t, p)
	}
}

func TestPanel_ScrollInvariantUnderNavigation(t *testing.T) {
	p := New(items("a", "b", "c", "d", "e", "f", "g", "h", "i", "j"), nil, nil)
	p.Header.Append(theme.PanelHeaderFocus, "HDR")
	p.Resize(0, 0, 10, 4) // 3 item rows
	for _, k := range []string{"down", "down", "down", "down", "pgdown", "end", "up", "pgup", "home", "ctrl+n", "pgdown", "pgdown", "pgdown"} {
		if !p.OnKey(keyMsg(k)) {
			t.Fatalf("%s not handled", k)
		}
		checkInvariants(t, p)
	}
	if selectedLabel(p) != "j" {
		t.Errorf("selected %s after pgdowns", selectedLabel(p))
	}
	p.Wheel(-WheelAmount)
	checkInvariants(t, p)
	if selectedLabel(p) != "a" {
		t.Errorf("wheel up selected %s", selectedLabel(p))
	}
}

func TestPanel_ScrollNeverLeavesTrailingBlank(t *testing.T) {
	p := New(items("a", "b", "c", "d", "e"), nil, nil)
	p.Resize(0, 0, 10, 3)
	p.SetSelected(4)
	p.Resize(0, 0, 10, 10)
	if p.ScrollV() != 0 {
		t.Errorf("scroll = %d after growing past content", p.ScrollV())
	}
	p.SetScroll(-3)
	if p.ScrollV() != 0 {
		t.Errorf("negative scroll kept: %d", p.ScrollV())
	}
}

func TestPanel_HorizontalScroll(t *testing.T) {
	p := New(items("short", strings.Repeat("x", 30)), nil, nil)
	p.Resize(0, 0, 10, 5)
	p.OnKey(keyMsg("right"))
	p.OnKey(keyMsg("right"))
	if p.ScrollH() != 2*ScrollHAmount {
		t.Errorf("scrollH = %d", p.ScrollH())
	}
	p.OnKey(keyMsg("^"))
	if p.ScrollH() != 0 {
		t.Errorf("^ scrollH = %d", p.ScrollH())
	}
	p.OnKey(keyMsg("ctrl+e"))
	if p.ScrollH() != 20 {
		t.Errorf("ctrl+e scrollH = %d; want 20", p.ScrollH())
	}
	p.OnKey(keyMsg("left"))
	if p.ScrollH() != 15 {
		t.Errorf("left scrollH = %d", p.ScrollH())
	}
	if p.OnKey(keyMsg("x")) {
		t.Error("plain rune should not be a navigation key")
	}
}

func TestPanel_SortReselectsByKey(t *testing.T) {
	p := New(items("c", "a", "b"), nil, nil)
	p.Resize(0, 0, 10, 5)
	p.SetSelected(0)
	p.Sort(func(a, b Item) int { return strings.Compare(a.Label(), b.Label()) })
	if selectedLabel(p) != "c" || p.SelectedIndex() != 2 {
		t.Errorf("selection after sort = %s@%d", selectedLabel(p), p.SelectedIndex())
	}
}

func TestPanel_RowAt(t *testing.T) {
	p := New(items("a", "b", "c", "d"), nil, nil)
	p.Header.Append(theme.PanelHeaderFocus, "H")
	p.Resize(2, 5, 10, 3)
	p.SetSelected(3)
	if !p.HeaderAt(5) {
		t.Error("row 5 should be the header")
	}
	if i, ok := p.RowAt(6); !ok || i != 2 {
		t.Errorf("RowAt(6) = %d,%v; want 2", i, ok)
	}
	if _, ok := p.RowAt(8); ok {
		t.Error("RowAt past the panel should fail")
	}
}

// ---------------------------------------------------------------------------
// Filter
// ---------------------------------------------------------------------------

func TestPanel_FilterRestrictsNavigation(t *testing.T) {
	p := New(items("xABCx", "nope", "abc", "zzz", "ABc-end"), nil, nil)
	p.Resize(0, 0, 20, 10)
	inc := NewIncSet()
	if !inc.SetFilter(p, "abc") {
		t.Fatal("filter should match")
	}
	seen := map[string]bool{selectedLabel(p): true}
	for _, k := range []string{"down", "down", "down", "up", "up", "up", "end", "home"} {
		p.OnKey(keyMsg(k))
		seen[selectedLabel(p)] = true
		checkInvariants(t, p)
	}
	for label := range seen {
		if !Matches(label, "abc") {
			t.Errorf("navigation reached %q", label)
		}
	}
	if len(seen) != 3 {
		t.Errorf("reached %v; want all three matches", seen)
	}
}

func TestPanel_FilterZeroMatchesKeepsRows(t *testing.T) {
	p := New(items("a", "b", "c"), nil, nil)
	p.Resize(0, 0, 20, 10)
	p.SetSelected(1)
	inc := NewIncSet()
	if inc.SetFilter(p, "qqq") || inc.Found {
		t.Error("filter should report not found")
	}
	if p.Filtered() || p.VisibleLen() != 3 {
		t.Errorf("zero-match filter hid rows: filtered=%v visible=%d", p.Filtered(), p.VisibleLen())
	}
	if p.SelectedIndex() != 1 {
		t.Errorf("selection moved to %d", p.SelectedIndex())
	}
	p.OnKey(keyMsg("down"))
	if p.SelectedIndex() != 2 {
		t.Errorf("navigation over the full list: selected %d", p.SelectedIndex())
	}
	inc.SetFilter(p, "")
	if selectedLabel(p) != "c" || !inc.Found {
		t.Errorf("after clearing, selected %s found=%v", selectedLabel(p), inc.Found)
	}
}

// ---------------------------------------------------------------------------
// IncSet
// ---------------------------------------------------------------------------

func typeText(inc *IncSet, p *Panel, s string) {
	for _, r := range s {
		inc.HandleKey(p, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestIncSet_SearchAndWrap(t *testing.T) {
	p := New(items("alpha", "beta", "alphabet", "gamma"), nil, nil)
	p.Resize(0, 0, 20, 10)
	inc := NewIncSet()
	inc.Activate(p, IncSearch)
	typeText(inc, p, "ALP")
	if selectedLabel(p) != "alpha" || !inc.Found {
		t.Fatalf("search selected %s", selectedLabel(p))
	}
	inc.HandleKey(p, keyMsg("f3"))
	if selectedLabel(p) != "alphabet" {
		t.Errorf("F3 selected %s", selectedLabel(p))
	}
	inc.HandleKey(p, keyMsg("f3"))
	if selectedLabel(p) != "alpha" {
		t.Errorf("F3 should wrap, selected %s", selectedLabel(p))
	}
	inc.HandleKey(p, keyMsg("f15"))
	if selectedLabel(p) != "alphabet" {
		t.Errorf("S-F3 selected %s", selectedLabel(p))
	}
	typeText(inc, p, "zz")
	if inc.Found || selectedLabel(p) != "alphabet" {
		t.Errorf("failed search moved selection or kept found: %s %v", selectedLabel(p), inc.Found)
	}
	if r := inc.HandleKey(p, keyMsg("down")); r != Ignored {
		t.Error("navigation keys should pass through")
	}
	inc.HandleKey(p, keyMsg("enter"))
	if inc.Active() || inc.Text() != "" {
		t.Error("enter should close search and drop its text")
	}
}

func TestIncSet_FilterCommitAndClear(t *testing.T) {
	p := New(items("one", "two", "three"), nil, nil)
	p.Resize(0, 0, 20, 10)
	inc := NewIncSet()
	inc.Activate(p, IncFilter)
	typeText(inc, p, "tx")
	inc.HandleKey(p, keyMsg("backspace"))
	if p.VisibleLen() != 2 {
		t.Errorf("visible = %d; want 2", p.VisibleLen())
	}
	inc.HandleKey(p, keyMsg("enter"))
	if inc.Active() || inc.FilterText() != "t" || p.VisibleLen() != 2 {
		t.Error("enter should keep the filter applied")
	}

	inc.Activate(p, IncFilter)
	if inc.FilterText() != "" || p.VisibleLen() != 3 {
		t.Error("entering filter mode should clear the previous filter")
	}
	typeText(inc, p, "o")
	inc.HandleKey(p, keyMsg("esc"))
	if p.Filtered() || inc.FilterText() != "" {
		t.Error("esc should remove the filter")
	}
}

func TestIncSet_FilterNoMatchWhileTyping(t *testing.T) {
	p := New(items("one", "two", "three"), nil, nil)
	p.Resize(0, 0, 20, 10)
	inc := NewIncSet()
	inc.Activate(p, IncFilter)
	typeText(inc, p, "tw")
	if p.VisibleLen() != 1 {
		t.Fatalf("visible = %d; want 1", p.VisibleLen())
	}
	typeText(inc, p, "x")
	if inc.Found || p.VisibleLen() != 3 {
		t.Errorf("found=%v visible=%d; want every row and not found", inc.Found, p.VisibleLen())
	}
	inc.HandleKey(p, keyMsg("backspace"))
	if !inc.Found || p.VisibleLen() != 1 {
		t.Errorf("backspace: found=%v visible=%d", inc.Found, p.VisibleLen())
	}
}

func TestIncSet_CustomApply(t *testing.T) {
	p := New(items("a"), nil, nil)
	var got []string
	inc := NewIncSet()
	inc.Apply = func(_ *Panel, text string) bool {
		got = append(got, text)
		return text != "x"
	}
	inc.Activate(p, IncFilter)
	typeText(inc, p, "x")
	if inc.Found {
		t.Error("Found should follow Apply")
	}
	if fmt.Sprint(got) != "[ x]" {
		t.Errorf("Apply calls = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Type-ahead
// ---------------------------------------------------------------------------

func TestTypeAhead(t *testing.T) {
	p := New(items("  Apple", "banana", "Blueberry", "cherry"), nil, nil)
	p.Resize(0, 0, 20, 10)
	clock := time.Unix(0, 0)
	b := &ListBehavior{}
	b.Now = func() time.Time { return clock }

	press := func(s string) Result { return b.HandleEvent(p, keyMsg(s)) }

	press("b")
	press("l")
	if selectedLabel(p) != "Blueberry" {
		t.Errorf("bl selected %s", selectedLabel(p))
	}
	press("c") // "blc" fails, retried as "c"
	if selectedLabel(p) != "cherry" || b.Prefix() != "c" {
		t.Errorf("retry selected %s prefix %q", selectedLabel(p), b.Prefix())
	}
	clock = clock.Add(2 * time.Second)
	press("a")
	if selectedLabel(p) != "  Apple" || b.Prefix() != "a" {
		t.Errorf("idle reset selected %s prefix %q", selectedLabel(p), b.Prefix())
	}
	if r := press("down"); r != Ignored || b.Prefix() != "" {
		t.Error("non-alphanumeric keys should reset and fall through")
	}
	if press("q") != BreakLoop {
		t.Error("q on an empty prefix should close")
	}
	if press("enter") != BreakLoop {
		t.Error("enter should close")
	}
	if b.HandleEvent(p, ReclickMsg{}) != BreakLoop {
		t.Error("reclick should close")
	}
}

// ---------------------------------------------------------------------------
// Items and function bar
// ---------------------------------------------------------------------------

func TestCheckAndNumberItems(t *testing.T) {
	on := false
	c := NewCheckItem("Tree view", &on)
	c.Toggle()
	var rs theme.RichString
	c.Display(&rs)
	if !on || rs.String() != "[x] Tree view" {
		t.Errorf("check = %v %q", on, rs.String())
	}

	delay := 15
	n := NewNumberItem("Delay", &delay, 1, 20)
	n.Scale = 10
	if !n.Add(10) || delay != 20 {
		t.Errorf("Add clamp = %d", delay)
	}
	if n.Add(1) {
		t.Error("Add at max should report no change")
	}
	if n.Set(0) || delay != 20 {
		t.Error("Set out of range should be rejected")
	}
	rs.Reset()
	n.Display(&rs)
	if rs.String() != "[2.0] Delay" {
		t.Errorf("number display = %q", rs.String())
	}
}

func TestFunctionBar_KeyAt(t *testing.T) {
	b := EnterEsc("Done", "Cancel")
	// "Enter" + "Done  " = 11 cells, then "Esc" + "Cancel"
	k, ok := b.KeyAt(3)
	if !ok || k.String() != "enter" {
		t.Errorf("KeyAt(3) = %q %v", k.String(), ok)
	}
	k, ok = b.KeyAt(12)
	if !ok || k.String() != "esc" {
		t.Errorf("KeyAt(12) = %q %v", k.String(), ok)
	}
	if _, ok := b.KeyAt(40); ok {
		t.Error("click past the entries should not map")
	}
	b.SetLabel("esc", "Close")
	if b.Entries[1].Help().Desc != "Close" {
		t.Error("SetLabel did not update")
	}
}

func TestKeyFromString_RoundTrips(t *testing.T) {
	for _, s := range []string{"enter", "esc", "f1", "f10", "f18", " ", "q", "/", "ctrl+l", "backspace", "pgdown", "alt+x"} {
		if got := KeyFromString(s).String(); got != s {
			t.Errorf("KeyFromString(%q).String() = %q", s, got)
		}
	}
}

// ---------------------------------------------------------------------------
// Drawing
// ---------------------------------------------------------------------------

type gridCanvas struct {
	lines map[int]string
	elems map[int]theme.Element
}

func (g *gridCanvas) Write(x, y int, rs *theme.RichString, maxW int) int {
	s := rs.Slice(0, maxW)
	g.lines[y] += s.String()
	if runs := s.Runs(); len(runs) > 0 {
		g.elems[y] = runs[0].Elem
	}
	return s.Len()
}

func (g *gridCanvas) Fill(x, y, w int, e theme.Element) {}

func TestPanel_DrawHighlightsSelection(t *testing.T) {
	p := New(items("a", "b", "c"), nil, nil)
	p.Header.Append(theme.PanelHeaderFocus, "Name")
	p.Resize(0, 0, 10, 4)
	p.SetSelected(1)
	g := &gridCanvas{lines: map[int]string{}, elems: map[int]theme.Element{}}
	p.Draw(g, true)
	if g.lines[0] != "Name" || g.lines[2] != "b" {
		t.Errorf("lines = %v", g.lines)
	}
	if g.elems[2] != theme.PanelSelectionFocus {
		t.Errorf("selected row element = %v", g.elems[2])
	}
	g = &gridCanvas{lines: map[int]string{}, elems: map[int]theme.Element{}}
	p.Draw(g, false)
	if g.elems[2] != theme.PanelSelectionUnfocus {
		t.Errorf("unfocused selection element = %v", g.elems[2])
	}
}
