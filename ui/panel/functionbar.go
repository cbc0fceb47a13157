package panel

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/ftahirops/ptop/ui/theme"
)

// labelWidth is the minimum width of a function bar label.
const labelWidth = 6

// FunctionBar is the key legend drawn on the bottom line. Each entry's
// help key is drawn highlighted followed by its description; clicking an
// entry synthesizes its first key.
type FunctionBar struct {
	Entries []key.Binding
}

// NewFunctionBar returns a bar showing bindings in order.
func NewFunctionBar(bindings ...key.Binding) *FunctionBar {
	return &FunctionBar{Entries: bindings}
}

// EnterEsc returns the two-entry bar used by simple dialogs.
func EnterEsc(enter, esc string) *FunctionBar {
	return NewFunctionBar(
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", enter)),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", esc)),
	)
}

// SetLabel changes the description of the entry bound to k.
func (b *FunctionBar) SetLabel(k, desc string) {
	for i := range b.Entries {
		keys := b.Entries[i].Keys()
		if len(keys) > 0 && keys[0] == k {
			b.Entries[i].SetHelp(b.Entries[i].Help().Key, desc)
			return
		}
	}
}

func entryWidth(e key.Binding) (keyW, total int) {
	h := e.Help()
	keyW = ansi.StringWidth(h.Key)
	return keyW, keyW + max(ansi.StringWidth(h.Desc), labelWidth)
}

// Draw paints the bar on row y. extra is drawn right-aligned with elem.
func (b *FunctionBar) Draw(c Canvas, x, y, w int, extra string, elem theme.Element) {
	c.Fill(x, y, w, theme.FunctionBar)
	col := x
	var rs theme.RichString
	for _, e := range b.Entries {
		if !e.Enabled() {
			continue
		}
		h := e.Help()
		_, total := entryWidth(e)
		rs.Reset()
		rs.Append(theme.FunctionKey, h.Key)
		rs.AppendWidth(theme.FunctionBar, h.Desc, total-ansi.StringWidth(h.Key))
		col += c.Write(col, y, &rs, x+w-col)
		if col >= x+w {
			return
		}
	}
	if extra != "" {
		rs.Reset()
		rs.Append(elem, extra)
		ew := rs.Len()
		if start := x + w - ew - 1; start > col {
			c.Write(start, y, &rs, ew)
		}
	}
}

// KeyAt returns the key of the entry drawn at column x of a bar starting
// at column 0.
func (b *FunctionBar) KeyAt(x int) (tea.KeyMsg, bool) {
	col := 0
	for _, e := range b.Entries {
		if !e.Enabled() {
			continue
		}
		_, total := entryWidth(e)
		if x >= col && x < col+total {
			keys := e.Keys()
			if len(keys) == 0 {
				return tea.KeyMsg{}, false
			}
			return KeyFromString(keys[0]), true
		}
		col += total
	}
	return tea.KeyMsg{}, false
}
