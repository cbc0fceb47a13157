package screen

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/ftahirops/ptop/ui/theme"
)

type cell struct {
	text string // "" marks the right half of a wide glyph
	elem theme.Element
}

// Frame is a grid of styled cells. It implements panel.Canvas and renders
// to a string with one lipgloss style per run of equal elements.
type Frame struct {
	W, H  int
	cells []cell
}

// NewFrame returns a blank w×h frame.
func NewFrame(w, h int) *Frame {
	w, h = max(w, 0), max(h, 0)
	f := &Frame{W: w, H: h, cells: make([]cell, w*h)}
	for i := range f.cells {
		f.cells[i] = cell{text: " "}
	}
	return f
}

func (f *Frame) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= f.W || y >= f.H {
		return nil
	}
	return &f.cells[y*f.W+x]
}

// Write draws rs at (x, y), clipped to maxW cells and the frame edge.
func (f *Frame) Write(x, y int, rs *theme.RichString, maxW int) int {
	if y < 0 || y >= f.H {
		return 0
	}
	limit := min(x+maxW, f.W)
	col := x
	for _, run := range rs.Runs() {
		for _, r := range run.Text {
			s := string(r)
			w := ansi.StringWidth(s)
			if w == 0 {
				if c := f.at(col-1, y); c != nil && col > x {
					c.text += s
				}
				continue
			}
			if col+w > limit {
				return col - x
			}
			if c := f.at(col, y); c != nil {
				*c = cell{text: s, elem: run.Elem}
			}
			for i := 1; i < w; i++ {
				if c := f.at(col+i, y); c != nil {
					*c = cell{elem: run.Elem}
				}
			}
			col += w
		}
	}
	return col - x
}

// WriteString draws plain text with e.
func (f *Frame) WriteString(x, y int, e theme.Element, s string, maxW int) int {
	var rs theme.RichString
	rs.Append(e, s)
	return f.Write(x, y, &rs, maxW)
}

// Fill paints w blank cells with e.
func (f *Frame) Fill(x, y, w int, e theme.Element) {
	for i := 0; i < w; i++ {
		if c := f.at(x+i, y); c != nil {
			*c = cell{text: " ", elem: e}
		}
	}
}

// Line returns the plain text of row y.
func (f *Frame) Line(y int) string {
	if y < 0 || y >= f.H {
		return ""
	}
	var b strings.Builder
	for _, c := range f.cells[y*f.W : (y+1)*f.W] {
		b.WriteString(c.text)
	}
	return b.String()
}

// ElementAt returns the element of the cell at (x, y).
func (f *Frame) ElementAt(x, y int) theme.Element {
	if c := f.at(x, y); c != nil {
		return c.elem
	}
	return theme.DefaultColor
}

// Render styles every row with th.
func (f *Frame) Render(th *theme.Theme) string {
	var b strings.Builder
	var run strings.Builder
	if f.W == 0 {
		return strings.Repeat("\n", max(f.H-1, 0))
	}
	for y := 0; y < f.H; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := f.cells[y*f.W : (y+1)*f.W]
		cur := row[0].elem
		for _, c := range row {
			if c.text == "" {
				continue
			}
			if c.elem != cur {
				b.WriteString(th.Render(cur, run.String()))
				run.Reset()
				cur = c.elem
			}
			run.WriteString(c.text)
		}
		b.WriteString(th.Render(cur, run.String()))
		run.Reset()
	}
	return b.String()
}
