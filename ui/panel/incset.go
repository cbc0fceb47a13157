package panel

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ftahirops/ptop/ui/theme"
)

// IncMode is the state of an IncSet.
type IncMode int

const (
	IncInactive IncMode = iota
	IncSearch
	IncFilter
)

// IncSet is the incremental search and filter line of a panel. Search
// text is dropped when the mode exits; filter text stays applied until
// cleared with Esc or replaced.
type IncSet struct {
	mode   IncMode
	search []rune
	filter []rune
	// Found is false when the last search or filter matched nothing.
	Found bool

	// Apply installs the filter text on p and reports whether anything
	// matches. Nil uses a case-insensitive label substring filter.
	Apply func(p *Panel, text string) bool

	searchBar *FunctionBar
	filterBar *FunctionBar
}

// NewIncSet returns an inactive IncSet.
func NewIncSet() *IncSet {
	return &IncSet{
		Found: true,
		searchBar: NewFunctionBar(
			key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "Next")),
			key.NewBinding(key.WithKeys("f15"), key.WithHelp("S-F3", "Prev")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Cancel")),
		),
		filterBar: NewFunctionBar(
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Done")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Clear")),
		),
	}
}

// Mode returns the current mode.
func (s *IncSet) Mode() IncMode { return s.mode }

// Active reports whether the IncSet is taking keys.
func (s *IncSet) Active() bool { return s.mode != IncInactive }

// FilterText returns the applied filter, which outlives the mode.
func (s *IncSet) FilterText() string { return string(s.filter) }

// Text returns the buffer of the current mode.
func (s *IncSet) Text() string {
	if s.mode == IncSearch {
		return string(s.search)
	}
	return string(s.filter)
}

// Activate enters mode with an empty buffer.
func (s *IncSet) Activate(p *Panel, mode IncMode) {
	s.mode = mode
	s.Found = true
	switch mode {
	case IncSearch:
		s.search = s.search[:0]
	case IncFilter:
		s.filter = s.filter[:0]
		s.apply(p)
	}
}

// SetFilter applies text as the filter without entering filter mode.
func (s *IncSet) SetFilter(p *Panel, text string) bool {
	s.filter = []rune(text)
	s.apply(p)
	return s.Found
}

// Matches reports whether label contains text, ignoring case.
func Matches(label, text string) bool {
	return strings.Contains(fold.String(label), fold.String(text))
}

func (s *IncSet) apply(p *Panel) {
	text := string(s.filter)
	if s.Apply != nil {
		s.Found = s.Apply(p, text)
		return
	}
	if text == "" {
		p.SetFilter(nil)
		s.Found = true
		return
	}
	s.Found = p.SetFilter(func(it Item) bool { return Matches(it.Label(), text) })
}

// find selects the next row at or after start (in direction step)
// whose label matches, wrapping around.
func (s *IncSet) find(p *Panel, start, step int) {
	text := string(s.search)
	v := p.view()
	if text == "" || len(v) == 0 {
		s.Found = text == ""
		return
	}
	n := len(v)
	start = ((start % n) + n) % n
	for i := 0; i < n; i++ {
		pos := ((start+i*step)%n + n) % n
		if Matches(p.list.Get(v[pos]).Label(), text) {
			p.setSelectedIndex(v[pos])
			s.Found = true
			return
		}
	}
	s.Found = false
}

func (s *IncSet) update(p *Panel) {
	if s.mode == IncSearch {
		s.find(p, 0, 1)
		return
	}
	s.apply(p)
}

// HandleKey processes msg while active. Keys it does not use return
// Ignored so navigation keeps working.
func (s *IncSet) HandleKey(p *Panel, msg tea.KeyMsg) Result {
	if !s.Active() {
		return Ignored
	}
	buf := &s.filter
	if s.mode == IncSearch {
		buf = &s.search
	}
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		if msg.Alt {
			return Ignored
		}
		*buf = append(*buf, msg.Runes...)
		s.update(p)
		return Handled
	case tea.KeyBackspace:
		if len(*buf) > 0 {
			*buf = (*buf)[:len(*buf)-1]
			s.update(p)
		}
		return Handled
	case tea.KeyF3, tea.KeyF15:
		if s.mode != IncSearch {
			return Handled
		}
		step := 1
		if msg.Type == tea.KeyF15 {
			step = -1
		}
		pos := 0
		v := p.view()
		if i := p.viewPos(v); i >= 0 {
			pos = i + step
		}
		s.find(p, pos, step)
		return Handled
	case tea.KeyEnter:
		s.exit()
		return Handled
	case tea.KeyEsc:
		if s.mode == IncFilter {
			s.filter = s.filter[:0]
			s.apply(p)
		}
		s.exit()
		return Handled
	}
	return Ignored
}

func (s *IncSet) exit() {
	if s.mode == IncSearch {
		s.search = s.search[:0]
		s.Found = true
	}
	s.mode = IncInactive
}

// DrawBar paints the search or filter line on row y.
func (s *IncSet) DrawBar(c Canvas, x, y, w int) {
	bar, label := s.searchBar, "Search: "
	if s.mode == IncFilter {
		bar, label = s.filterBar, "Filter: "
	}
	bar.Draw(c, x, y, w, "", theme.FunctionBar)
	col := x
	for _, e := range bar.Entries {
		_, total := entryWidth(e)
		col += total
	}
	var rs theme.RichString
	rs.Append(theme.FunctionKey, label)
	elem := theme.FunctionBar
	if !s.Found {
		elem = theme.FailedSearch
	}
	rs.Append(elem, s.Text())
	if col < x+w {
		c.Write(col, y, &rs, x+w-col)
	}
}

// KeyAt maps a click on the bar to a key.
func (s *IncSet) KeyAt(x int) (tea.KeyMsg, bool) {
	if s.mode == IncFilter {
		return s.filterBar.KeyAt(x)
	}
	return s.searchBar.KeyAt(x)
}
