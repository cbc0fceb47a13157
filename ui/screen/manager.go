package screen

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/ftahirops/ptop/ui/panel"
	"github.com/ftahirops/ptop/ui/theme"
)

// Fill gives a slot the width left over by the fixed slots.
const Fill = -1

// Slot places a panel in a session.
type Slot struct {
	Panel *panel.Panel
	Width int
}

// Outcome tells a session's owner how it ended: the panel that had focus
// and the key that closed it ("reclick" for a click on the selected row).
type Outcome struct {
	Focus *panel.Panel
	Key   string
}

// Session is one loop context: a row of panels sharing the screen below
// the header. Opening a setup screen or a picker pushes a session; closing
// it pops back to the one underneath, which resumes where it was.
type Session struct {
	Name  string
	Slots []Slot
	Focus int
	// AllowFocusChange enables focus cycling and clicks on other panels.
	AllowFocusChange bool
	// ShowHeader keeps the meters above the panels.
	ShowHeader bool

	// Global handles keys the focused panel ignored.
	Global func(msg tea.KeyMsg) panel.Result
	// OnClose runs after the session is popped. Its result is applied to
	// the session underneath.
	OnClose func(o Outcome) panel.Result
	// Overlay replaces the panels with pre-rendered content. A session
	// without slots closes on any key.
	Overlay func(w, h int) string
	// AfterEvent runs after each event the session handled while it is
	// still on top.
	AfterEvent func()
}

// Focused returns the panel with keyboard focus, or nil.
func (s *Session) Focused() *panel.Panel {
	if s.Focus < 0 || s.Focus >= len(s.Slots) {
		return nil
	}
	return s.Slots[s.Focus].Panel
}

// SetFocus moves focus to p if it is in the session.
func (s *Session) SetFocus(p *panel.Panel) bool {
	for i, sl := range s.Slots {
		if sl.Panel == p {
			s.Focus = i
			return true
		}
	}
	return false
}

// Replace swaps the slots from index i onwards, keeping focus in range.
func (s *Session) Replace(i int, slots ...Slot) {
	s.Slots = append(s.Slots[:min(i, len(s.Slots))], slots...)
	s.Focus = min(s.Focus, len(s.Slots)-1)
}

// Manager owns the session stack, lays panels out and routes input to the
// top session.
type Manager struct {
	W, H int

	// HeaderHeight returns the rows used by the meters header.
	HeaderHeight func() int
	// BarHidden reports whether s is drawn without a function bar.
	BarHidden func(s *Session) bool
	// BarExtra returns text drawn at the right end of the function bar.
	BarExtra func() (string, theme.Element)

	logger *log.Logger
	stack  []*Session
}

// NewManager returns an empty manager.
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{logger: logger}
}

// Push makes s the active session.
func (m *Manager) Push(s *Session) {
	m.stack = append(m.stack, s)
	m.logger.Debug("session push", "name", s.Name, "depth", len(m.stack))
	m.Relayout()
}

// Top returns the active session, or nil.
func (m *Manager) Top() *Session {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// Depth returns the number of stacked sessions.
func (m *Manager) Depth() int { return len(m.stack) }

// Resize records the terminal size and lays out the active session.
func (m *Manager) Resize(w, h int) {
	m.W, m.H = w, h
	m.Relayout()
}

func (m *Manager) headerHeight(s *Session) int {
	if !s.ShowHeader || m.HeaderHeight == nil {
		return 0
	}
	return m.HeaderHeight()
}

func (m *Manager) barVisible(s *Session) bool {
	return m.BarHidden == nil || !m.BarHidden(s)
}

// Relayout positions the panels of the active session left to right.
func (m *Manager) Relayout() {
	s := m.Top()
	if s == nil {
		return
	}
	top := m.headerHeight(s)
	h := m.H - top
	if m.barVisible(s) {
		h--
	}
	h = max(h, 0)
	fixed := 0
	for _, sl := range s.Slots {
		if sl.Width != Fill {
			fixed += sl.Width
		}
	}
	x := 0
	for _, sl := range s.Slots {
		w := sl.Width
		if w == Fill {
			w = max(m.W-fixed, 0)
		}
		w = min(w, max(m.W-x, 0))
		sl.Panel.Resize(x, top, w, h)
		x += w
	}
}

// Dispatch routes an input event to the active session.
func (m *Manager) Dispatch(msg tea.Msg) panel.Result {
	s := m.Top()
	if s == nil {
		return panel.BreakLoop
	}
	r := panel.Ignored
	switch msg := msg.(type) {
	case tea.KeyMsg:
		r = m.handleKey(s, msg)
	case tea.MouseMsg:
		r = m.handleMouse(s, msg)
	}
	if s.AfterEvent != nil && m.Top() == s {
		s.AfterEvent()
	}
	return r
}

func merge(r, next panel.Result) panel.Result {
	return r&^panel.Ignored | next
}

func (m *Manager) handleKey(s *Session, msg tea.KeyMsg) panel.Result {
	p := s.Focused()
	if p == nil {
		if s.Global != nil {
			if r := s.Global(msg); !r.Has(panel.Ignored) {
				return m.settle(s, r, msg.String())
			}
		}
		return m.close(s, msg.String())
	}

	r := panel.Ignored
	if p.Inc != nil && p.Inc.Active() {
		r = p.Inc.HandleKey(p, msg)
		if !r.Has(panel.Ignored) {
			r |= panel.Redraw | panel.Rescan
		}
	}
	if r.Has(panel.Ignored) {
		r = merge(r, p.HandleEvent(msg))
	}
	if r.Has(panel.Ignored) && s.Global != nil {
		r = merge(r, s.Global(msg))
	}
	if r.Has(panel.Ignored) {
		r = merge(r, m.defaultKey(s, p, msg))
	}
	return m.settle(s, r, msg.String())
}

// settle closes s when r asks for it.
func (m *Manager) settle(s *Session, r panel.Result, key string) panel.Result {
	if !r.Has(panel.BreakLoop) {
		return r
	}
	return r&^(panel.BreakLoop|panel.Ignored) | m.close(s, key)
}

func (m *Manager) defaultKey(s *Session, p *panel.Panel, msg tea.KeyMsg) panel.Result {
	cycle := s.AllowFocusChange && len(s.Slots) >= 2
	switch msg.String() {
	case "left", "ctrl+b", "shift+tab":
		if cycle {
			m.moveFocus(s, -1)
			return panel.Handled | panel.Redraw
		}
	case "right", "ctrl+f", "tab":
		if cycle {
			m.moveFocus(s, 1)
			return panel.Handled | panel.Redraw
		}
	case "esc", "q", "f10":
		return panel.BreakLoop
	}
	if p.OnKey(msg) {
		return panel.Handled | panel.Redraw
	}
	return panel.Ignored
}

// moveFocus cycles focus by dir, skipping empty panels.
func (m *Manager) moveFocus(s *Session, dir int) {
	n := len(s.Slots)
	for i := 1; i <= n; i++ {
		next := ((s.Focus+dir*i)%n + n) % n
		if s.Slots[next].Panel.Len() > 0 {
			s.Focus = next
			return
		}
	}
}

// close pops s and hands the outcome to its owner.
func (m *Manager) close(s *Session, key string) panel.Result {
	if m.Top() != s {
		return panel.Handled
	}
	focus := s.Focused()
	m.stack = m.stack[:len(m.stack)-1]
	m.logger.Debug("session pop", "name", s.Name, "key", key, "depth", len(m.stack))

	r := panel.Handled | panel.Redraw
	if s.OnClose != nil {
		cr := s.OnClose(Outcome{Focus: focus, Key: key})
		if cr.Has(panel.BreakLoop) {
			if next := m.Top(); next != nil {
				return r | m.close(next, "")
			}
			return r | panel.BreakLoop
		}
		r |= cr &^ panel.Ignored
	}
	if len(m.stack) == 0 {
		return r | panel.BreakLoop
	}
	m.Relayout()
	return r
}

// Close ends the active session as if key had been pressed.
func (m *Manager) Close(key string) panel.Result {
	s := m.Top()
	if s == nil {
		return panel.BreakLoop
	}
	return m.close(s, key)
}

func (m *Manager) handleMouse(s *Session, msg tea.MouseMsg) panel.Result {
	if msg.Action != tea.MouseActionPress {
		return panel.Ignored
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		p := m.panelAt(s, msg.X, msg.Y)
		if p == nil {
			p = s.Focused()
		}
		if p == nil {
			return panel.Ignored
		}
		n := panel.WheelAmount
		if msg.Button == tea.MouseButtonWheelUp {
			n = -n
		}
		p.Wheel(n)
		return panel.Handled | panel.Redraw
	case tea.MouseButtonLeft:
	default:
		return panel.Ignored
	}

	if len(s.Slots) == 0 {
		return m.close(s, "click")
	}
	if msg.Y == m.H-1 && m.barVisible(s) {
		if k, ok := m.barKeyAt(s, msg.X); ok {
			return m.handleKey(s, k)
		}
		return panel.Handled
	}
	for i, sl := range s.Slots {
		p := sl.Panel
		if !p.Contains(msg.X, msg.Y) {
			continue
		}
		if i != s.Focus {
			if !s.AllowFocusChange {
				return panel.Handled
			}
			s.Focus = i
		}
		if p.HeaderAt(msg.Y) {
			r := p.HandleEvent(panel.HeaderClickMsg{X: msg.X - p.X + p.ScrollH()})
			return m.settle(s, r&^panel.Ignored|panel.Handled, "header")
		}
		idx, ok := p.RowAt(msg.Y)
		if !ok {
			return panel.Handled | panel.Redraw
		}
		if idx == p.SelectedIndex() {
			r := p.HandleEvent(panel.ReclickMsg{})
			return m.settle(s, r&^panel.Ignored|panel.Handled|panel.Redraw, "reclick")
		}
		p.SetSelected(idx)
		return panel.Handled | panel.Redraw
	}
	return panel.Ignored
}

func (m *Manager) panelAt(s *Session, x, y int) *panel.Panel {
	for _, sl := range s.Slots {
		if sl.Panel.Contains(x, y) {
			return sl.Panel
		}
	}
	return nil
}

func (m *Manager) barKeyAt(s *Session, x int) (tea.KeyMsg, bool) {
	p := s.Focused()
	switch {
	case p == nil:
		return tea.KeyMsg{}, false
	case p.Inc != nil && p.Inc.Active():
		return p.Inc.KeyAt(x)
	case p.Bar != nil:
		return p.Bar.KeyAt(x)
	}
	return tea.KeyMsg{}, false
}

// Draw paints the active session's panels and function bar onto f.
func (m *Manager) Draw(f *Frame) {
	s := m.Top()
	if s == nil {
		return
	}
	m.Relayout()
	focus := s.Focused()
	for _, sl := range s.Slots {
		sl.Panel.Draw(f, sl.Panel == focus)
	}
	if !m.barVisible(s) || focus == nil {
		return
	}
	y := m.H - 1
	switch {
	case focus.Inc != nil && focus.Inc.Active():
		focus.Inc.DrawBar(f, 0, y, m.W)
	case focus.Bar != nil:
		extra, elem := "", theme.FunctionBar
		if m.BarExtra != nil {
			extra, elem = m.BarExtra()
		}
		focus.Bar.Draw(f, 0, y, m.W, extra, elem)
	default:
		f.Fill(0, y, m.W, theme.FunctionBar)
	}
}

// Pick pushes a restricted session with list beside other. done receives
// the selected item when the user confirms on list with Enter or a click
// on the selected row; any other exit reports ok=false.
func (m *Manager) Pick(name string, list *panel.Panel, width int, other *panel.Panel, done func(it panel.Item, ok bool) panel.Result) *Session {
	s := &Session{
		Name:       name,
		Slots:      []Slot{{Panel: list, Width: width}, {Panel: other, Width: Fill}},
		ShowHeader: true,
		OnClose: func(o Outcome) panel.Result {
			if o.Focus == list && (o.Key == "enter" || o.Key == "reclick") {
				if it := list.Selected(); it != nil {
					return done(it, true)
				}
			}
			return done(nil, false)
		},
	}
	m.Push(s)
	return s
}
