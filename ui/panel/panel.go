package panel

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/ftahirops/ptop/ui/theme"
)

// Horizontal scroll step and mouse wheel step, in columns and rows.
const (
	ScrollHAmount = 5
	WheelAmount   = 10
)

// Canvas is the drawing surface panels render onto.
type Canvas interface {
	// Write draws rs at (x, y), clipped to maxW cells, and returns the
	// number of cells written.
	Write(x, y int, rs *theme.RichString, maxW int) int
	// Fill paints w blank cells at (x, y) with e.
	Fill(x, y, w int, e theme.Element)
}

// Panel is a scrollable window onto a List with a selection cursor.
//
// The selection is a List index; -1 means no selection and is only used
// while the list is empty. A filter narrows the rows reachable by
// navigation without touching the List; scrolling is in filtered rows.
type Panel struct {
	X, Y, W, H int

	Header   theme.RichString
	Bar      *FunctionBar
	Behavior Behavior
	Inc      *IncSet

	// SelectionColor is the focused selection style.
	SelectionColor theme.Element
	// HideSelection draws the selected row like any other.
	HideSelection bool

	list     *List
	selected int
	scrollV  int
	scrollH  int
	filter   func(Item) bool
}

// New returns a panel over list.
func New(list *List, bar *FunctionBar, b Behavior) *Panel {
	if list == nil {
		list = NewList()
	}
	p := &Panel{
		Bar:            bar,
		Behavior:       b,
		SelectionColor: theme.PanelSelectionFocus,
		list:           list,
	}
	p.clamp()
	return p
}

// List returns the underlying container.
func (p *Panel) List() *List { return p.list }

// Len returns the number of items in the container.
func (p *Panel) Len() int { return p.list.Len() }

// Add appends an item.
func (p *Panel) Add(it Item) {
	p.list.Add(it)
	p.clamp()
}

// Insert places it at i.
func (p *Panel) Insert(i int, it Item) {
	p.list.Insert(i, it)
	if p.selected >= i {
		p.selected++
	}
	p.clamp()
}

// RemoveAt deletes the item at i and keeps the selection on the same row
// where possible.
func (p *Panel) RemoveAt(i int) Item {
	it := p.list.RemoveAt(i)
	if it != nil && p.selected > i {
		p.selected--
	}
	p.clamp()
	return it
}

// Replace swaps the rows for items and selects container index sel.
func (p *Panel) Replace(items []Item, sel int) {
	p.list.Replace(items)
	p.selected = sel
	p.clamp()
}

// Clear empties the container and the selection.
func (p *Panel) Clear() {
	p.list.Clear()
	p.selected = -1
	p.scrollV = 0
}

// Sort reorders the container and re-selects the previously selected row
// by key.
func (p *Panel) Sort(cmp func(a, b Item) int) {
	sel := p.list.Get(p.selected)
	p.list.Sort(cmp)
	if sel != nil {
		p.selected = p.list.IndexOf(sel.Key())
	}
	p.clamp()
}

// Selected returns the selected item, or nil when the list is empty or
// the selected row is filtered out.
func (p *Panel) Selected() Item {
	if p.filter != nil && p.selected >= 0 && !p.filter(p.list.Get(p.selected)) {
		return nil
	}
	return p.list.Get(p.selected)
}

// SelectedIndex returns the container index of the selection, or -1.
func (p *Panel) SelectedIndex() int { return p.selected }

// SetSelected moves the selection to container index i, clamped.
func (p *Panel) SetSelected(i int) {
	p.setSelectedIndex(i)
}

// SelectKey selects the row with key and reports whether it exists.
func (p *Panel) SelectKey(key int) bool {
	i := p.list.IndexOf(key)
	if i < 0 {
		return false
	}
	p.setSelectedIndex(i)
	return true
}

func (p *Panel) setSelectedIndex(i int) {
	p.selected = i
	p.clamp()
}

// clamp restores the selection and scroll invariants.
func (p *Panel) clamp() {
	n := p.list.Len()
	switch {
	case n == 0:
		p.selected = -1
	case p.selected < 0:
		p.selected = 0
	case p.selected >= n:
		p.selected = n - 1
	}
	p.ensureVisible()
}

// Rows returns the number of item rows the panel shows.
func (p *Panel) Rows() int {
	h := p.H
	if p.Header.Len() > 0 {
		h--
	}
	return max(h, 0)
}

// ensureVisible scrolls so the selected row lies within the viewport and
// no blank rows trail the content.
func (p *Panel) ensureVisible() {
	rows := p.Rows()
	v := p.view()
	if pos := p.viewPos(v); pos >= 0 && rows > 0 {
		if pos < p.scrollV {
			p.scrollV = pos
		}
		if pos >= p.scrollV+rows {
			p.scrollV = pos - rows + 1
		}
	}
	p.scrollV = min(p.scrollV, max(len(v)-rows, 0))
	p.scrollV = max(p.scrollV, 0)
}

// ScrollV returns the index of the first visible row.
func (p *Panel) ScrollV() int { return p.scrollV }

// ScrollH returns the horizontal scroll offset.
func (p *Panel) ScrollH() int { return p.scrollH }

// SetScroll sets the vertical scroll offset, clamped against the selection.
func (p *Panel) SetScroll(v int) {
	p.scrollV = v
	p.ensureVisible()
}

// Resize sets the panel geometry.
func (p *Panel) Resize(x, y, w, h int) {
	p.X, p.Y, p.W, p.H = x, y, w, h
	p.ensureVisible()
}

// view returns the container indices reachable by navigation.
func (p *Panel) view() []int {
	n := p.list.Len()
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if p.filter == nil || p.filter(p.list.Get(i)) {
			out = append(out, i)
		}
	}
	return out
}

func (p *Panel) viewPos(v []int) int {
	for pos, idx := range v {
		if idx == p.selected {
			return pos
		}
	}
	return -1
}

// VisibleLen returns the number of rows reachable by navigation.
func (p *Panel) VisibleLen() int { return len(p.view()) }

// SetFilter restricts the rows to items accepted by match; nil clears
// it. A filter that matches nothing is dropped so every row stays listed,
// the selection stays where it was and SetFilter returns false.
func (p *Panel) SetFilter(match func(Item) bool) bool {
	p.filter = match
	v := p.view()
	if len(v) == 0 && match != nil {
		p.filter = nil
		v = p.view()
		if len(v) == 0 {
			p.scrollV = 0
		}
		p.ensureVisible()
		return false
	}
	if len(v) == 0 {
		p.scrollV = 0
		return true
	}
	if p.viewPos(v) < 0 {
		next := v[len(v)-1]
		for _, idx := range v {
			if idx > p.selected {
				next = idx
				break
			}
		}
		p.selected = next
	}
	p.ensureVisible()
	return true
}

// Filtered reports whether a filter is set.
func (p *Panel) Filtered() bool { return p.filter != nil }

// Move moves the selection by delta reachable rows.
func (p *Panel) Move(delta int) {
	v := p.view()
	if len(v) == 0 {
		return
	}
	pos := p.viewPos(v)
	if pos < 0 {
		pos = 0
		delta = 0
	}
	pos = min(max(pos+delta, 0), len(v)-1)
	p.selected = v[pos]
	p.ensureVisible()
}

func (p *Panel) moveTo(first bool) {
	v := p.view()
	if len(v) == 0 {
		return
	}
	if first {
		p.selected = v[0]
	} else {
		p.selected = v[len(v)-1]
	}
	p.ensureVisible()
}

// OnKey applies the default navigation keys and reports whether key was
// one of them.
func (p *Panel) OnKey(msg tea.KeyMsg) bool {
	rows := max(p.Rows(), 1)
	switch msg.String() {
	case "up", "ctrl+p":
		p.Move(-1)
	case "down", "ctrl+n":
		p.Move(1)
	case "pgup":
		p.scrollV = max(p.scrollV-rows, 0)
		p.Move(-rows)
	case "pgdown":
		p.scrollV += rows
		p.Move(rows)
	case "home":
		p.moveTo(true)
	case "end":
		p.moveTo(false)
	case "left", "ctrl+b":
		p.scrollH = max(p.scrollH-ScrollHAmount, 0)
	case "right", "ctrl+f":
		p.scrollH += ScrollHAmount
	case "ctrl+a", "^":
		p.scrollH = 0
	case "ctrl+e", "$":
		p.scrollH = max(p.maxLabelWidth()-p.W, 0)
	default:
		return false
	}
	return true
}

// Wheel scrolls the selection by n rows.
func (p *Panel) Wheel(n int) { p.Move(n) }

// RowAt returns the container index drawn at absolute screen row y.
func (p *Panel) RowAt(y int) (int, bool) {
	row := y - p.Y
	if p.Header.Len() > 0 {
		row--
	}
	if row < 0 || row >= p.Rows() {
		return -1, false
	}
	v := p.view()
	pos := p.scrollV + row
	if pos >= len(v) {
		return -1, false
	}
	return v[pos], true
}

// Contains reports whether the screen cell (x, y) lies inside the panel.
func (p *Panel) Contains(x, y int) bool {
	return x >= p.X && x < p.X+p.W && y >= p.Y && y < p.Y+p.H
}

// HeaderAt reports whether screen row y is the header line.
func (p *Panel) HeaderAt(y int) bool {
	return p.Header.Len() > 0 && y == p.Y
}

func (p *Panel) maxLabelWidth() int {
	w := 0
	for _, it := range p.list.Items() {
		w = max(w, ansi.StringWidth(it.Label()))
	}
	return w
}

// HandleEvent forwards msg to the behaviour.
func (p *Panel) HandleEvent(msg tea.Msg) Result {
	if p.Behavior == nil {
		return Ignored
	}
	return p.Behavior.HandleEvent(p, msg)
}

// Draw renders the header and visible rows.
func (p *Panel) Draw(c Canvas, focused bool) {
	y := p.Y
	if p.Header.Len() > 0 {
		e := theme.PanelHeaderUnfocus
		if focused {
			e = theme.PanelHeaderFocus
		}
		c.Fill(p.X, y, p.W, e)
		hdr := p.Header.Slice(p.scrollH, p.W)
		c.Write(p.X, y, &hdr, p.W)
		y++
	}
	v := p.view()
	var rs theme.RichString
	for row := 0; row < p.Rows(); row++ {
		pos := p.scrollV + row
		if pos >= len(v) {
			c.Fill(p.X, y+row, p.W, theme.DefaultColor)
			continue
		}
		idx := v[pos]
		it := p.list.Get(idx)
		rs.Reset()
		if d, ok := it.(Displayer); ok {
			d.Display(&rs)
		} else {
			rs.Append(theme.DefaultColor, it.Label())
		}
		fill := theme.DefaultColor
		if idx == p.selected && !p.HideSelection {
			fill = theme.PanelSelectionUnfocus
			if focused {
				fill = p.SelectionColor
			}
			rs.SetAll(fill)
		}
		line := rs.Slice(p.scrollH, p.W)
		n := c.Write(p.X, y+row, &line, p.W)
		c.Fill(p.X+n, y+row, p.W-n, fill)
	}
}
