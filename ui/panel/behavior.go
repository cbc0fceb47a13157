package panel

import (
	"strings"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/cases"
)

// Result tells the screen manager what a handler did with an event.
type Result uint8

const (
	// Handled means the event was consumed.
	Handled Result = 1 << iota
	// Ignored means the event should fall through to the next handler.
	Ignored
	// BreakLoop closes the session that owns the panel.
	BreakLoop
	// Redraw asks for the panel to be redrawn.
	Redraw
	// Rescan asks for the panel contents to be rebuilt.
	Rescan
)

// Has reports whether every flag in f is set.
func (r Result) Has(f Result) bool { return r&f == f }

// ReclickMsg is delivered when the user clicks the already selected row.
type ReclickMsg struct{}

// HeaderClickMsg is delivered when the user clicks the panel header at
// column X, relative to the panel's left edge plus horizontal scroll.
type HeaderClickMsg struct{ X int }

// Behavior handles events for one kind of panel. Panels hold a Behavior
// value; a nil Behavior ignores everything.
type Behavior interface {
	HandleEvent(p *Panel, msg tea.Msg) Result
}

// BehaviorFunc adapts a function to Behavior.
type BehaviorFunc func(p *Panel, msg tea.Msg) Result

func (f BehaviorFunc) HandleEvent(p *Panel, msg tea.Msg) Result { return f(p, msg) }

// typeAheadIdle resets a type-ahead prefix after a pause.
const typeAheadIdle = time.Second

var fold = cases.Fold()

// TypeAhead jumps to the first row whose label starts with the typed
// prefix, ignoring case and leading blanks.
type TypeAhead struct {
	buf  []rune
	last time.Time
	Now  func() time.Time
}

// Prefix returns the pending prefix.
func (t *TypeAhead) Prefix() string { return string(t.buf) }

// Reset drops the pending prefix.
func (t *TypeAhead) Reset() { t.buf = t.buf[:0] }

// HandleKey consumes alphanumeric keys. Enter and q on an empty prefix
// close the session; other keys reset the prefix and are ignored.
func (t *TypeAhead) HandleKey(p *Panel, msg tea.KeyMsg) Result {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	ts := now()
	if !t.last.IsZero() && ts.Sub(t.last) > typeAheadIdle {
		t.Reset()
	}
	t.last = ts

	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && !msg.Alt {
		ch := msg.Runes[0]
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			if len(t.buf) == 0 && ch == 'q' {
				return BreakLoop
			}
			t.buf = append(t.buf, ch)
			for try := 0; try < 2; try++ {
				if t.selectPrefix(p, string(t.buf)) {
					return Handled
				}
				// retry with the character as the start of a new word
				t.buf = append(t.buf[:0], ch)
			}
			return Handled
		}
	}
	t.Reset()
	if msg.Type == tea.KeyEnter {
		return BreakLoop
	}
	return Ignored
}

func (t *TypeAhead) selectPrefix(p *Panel, prefix string) bool {
	want := fold.String(prefix)
	for _, idx := range p.view() {
		label := strings.TrimLeft(p.list.Get(idx).Label(), " ")
		if strings.HasPrefix(fold.String(label), want) {
			p.setSelectedIndex(idx)
			return true
		}
	}
	return false
}

// ListBehavior is the behaviour of plain pick lists: type-ahead, Enter
// and re-click confirm.
type ListBehavior struct {
	TypeAhead
}

func (b *ListBehavior) HandleEvent(p *Panel, msg tea.Msg) Result {
	switch msg := msg.(type) {
	case ReclickMsg:
		return BreakLoop
	case tea.KeyMsg:
		return b.HandleKey(p, msg)
	}
	return Ignored
}
