package theme

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Run is a stretch of text drawn with one element style.
type Run struct {
	Text string
	Elem Element
}

// RichString is a line of text tagged with style elements. Rows build one
// per draw; the canvas resolves elements against the active Theme.
type RichString struct {
	runs []Run
}

// Append adds s drawn as e.
func (r *RichString) Append(e Element, s string) {
	if s == "" {
		return
	}
	if n := len(r.runs); n > 0 && r.runs[n-1].Elem == e {
		r.runs[n-1].Text += s
		return
	}
	r.runs = append(r.runs, Run{Text: s, Elem: e})
}

// AppendWidth pads or truncates s to exactly width cells before appending.
func (r *RichString) AppendWidth(e Element, s string, width int) {
	if width <= 0 {
		return
	}
	w := ansi.StringWidth(s)
	switch {
	case w > width:
		s = ansi.Truncate(s, width, "")
		w = ansi.StringWidth(s)
		s += strings.Repeat(" ", width-w)
	case w < width:
		s += strings.Repeat(" ", width-w)
	}
	r.Append(e, s)
}

// SetAll repaints every run as e.
func (r *RichString) SetAll(e Element) {
	if len(r.runs) == 0 {
		return
	}
	r.runs = []Run{{Text: r.String(), Elem: e}}
}

// Reset empties the string.
func (r *RichString) Reset() { r.runs = r.runs[:0] }

// Len returns the display width in cells.
func (r *RichString) Len() int {
	n := 0
	for _, run := range r.runs {
		n += ansi.StringWidth(run.Text)
	}
	return n
}

// String returns the plain text.
func (r *RichString) String() string {
	var b strings.Builder
	for _, run := range r.runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

// Runs returns the styled runs in order.
func (r *RichString) Runs() []Run { return r.runs }

// Slice returns the cells [skip, skip+width) as a new RichString.
func (r *RichString) Slice(skip, width int) RichString {
	var out RichString
	if width <= 0 {
		return out
	}
	pos := 0
	end := skip + width
	for _, run := range r.runs {
		w := ansi.StringWidth(run.Text)
		lo, hi := max(skip-pos, 0), min(end-pos, w)
		if lo < hi {
			out.Append(run.Elem, ansi.Cut(run.Text, lo, hi))
		}
		pos += w
		if pos >= end {
			break
		}
	}
	return out
}

// Render draws the string with the styles of t.
func (r *RichString) Render(t *Theme) string {
	var b strings.Builder
	for _, run := range r.runs {
		b.WriteString(t.Render(run.Elem, run.Text))
	}
	return b.String()
}
