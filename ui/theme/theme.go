package theme

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Element is a logical style tag. Drawing code names what it draws; the
// active Theme decides how it looks.
type Element int

const (
	DefaultColor Element = iota
	FunctionBar
	FunctionKey
	FailedSearch
	Paused
	PanelHeaderFocus
	PanelHeaderUnfocus
	PanelSelectionFocus
	PanelSelectionFollow
	PanelSelectionUnfocus
	LargeNumber
	MeterText
	MeterValue
	MeterValueError
	BarBorder
	BarShadow
	Process
	ProcessShadow
	ProcessTag
	ProcessMegabytes
	ProcessGigabytes
	ProcessBaseName
	ProcessTree
	ProcessRunState
	ProcessDState
	ProcessHighPriority
	ProcessLowPriority
	ProcessNew
	ProcessThread
	ProcessThreadBaseName
	Tasks
	Uptime
	Clock
	Hostname
	CheckBox
	CheckMark
	CheckText
	HelpBold
	CPUNormal
	CPUNice
	CPUSystem
	CPUIRQ
	CPUIOWait
	CPUSteal
	MemoryUsed
	MemoryBuffers
	MemoryCache
	Swap
	LoadAverageOne
	LoadAverageFive
	LoadAverageFifteen
	elementCount
)

// Theme maps every Element to a lipgloss style. A Theme is immutable;
// switching colour schemes builds a new one.
type Theme struct {
	scheme  Scheme
	unicode bool
	styles  [elementCount]lipgloss.Style
}

// New builds the theme for scheme. Styles are bound to r; a nil r uses a
// renderer on stdout.
func New(scheme Scheme, unicode bool, r *lipgloss.Renderer) *Theme {
	if r == nil {
		r = lipgloss.NewRenderer(os.Stdout)
	}
	if !scheme.Valid() {
		scheme = SchemeDefault
	}
	t := &Theme{scheme: scheme, unicode: unicode}
	pal := palettes[scheme]
	for e := Element(0); e < elementCount; e++ {
		t.styles[e] = pal.style(r, e)
	}
	return t
}

// NewRenderer returns a stdout renderer. noColor forces the ASCII profile.
func NewRenderer(w io.Writer, noColor bool) *lipgloss.Renderer {
	if w == nil {
		w = os.Stdout
	}
	r := lipgloss.NewRenderer(w)
	if noColor || os.Getenv("NO_COLOR") != "" {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// Scheme returns the colour scheme the theme was built from.
func (t *Theme) Scheme() Scheme { return t.scheme }

// Unicode reports whether line-drawing glyphs are enabled.
func (t *Theme) Unicode() bool { return t.unicode }

// Style returns the style for e.
func (t *Theme) Style(e Element) lipgloss.Style {
	if e < 0 || e >= elementCount {
		return t.styles[DefaultColor]
	}
	return t.styles[e]
}

// Render applies the style of e to s.
func (t *Theme) Render(e Element, s string) string {
	return t.Style(e).Render(s)
}

// TreeStrings are the glyphs used to draw the process tree.
type TreeStrings struct {
	Vert      string
	RTee      string
	BEnd      string
	TEnd      string
	Collapsed string // branch with hidden children
	Expanded  string
	Asc       string
	Desc      string
	BarFill   string
	BarEmpty  string
}

var asciiTree = TreeStrings{
	Vert: "|", RTee: "|", BEnd: "`", TEnd: ",", Collapsed: "+", Expanded: "-",
	Asc: "+", Desc: "-", BarFill: "|", BarEmpty: " ",
}

var unicodeTree = TreeStrings{
	Vert: "│", RTee: "├", BEnd: "└", TEnd: "┌", Collapsed: "+", Expanded: "─",
	Asc: "△", Desc: "▽", BarFill: "|", BarEmpty: " ",
}

// Tree returns the glyph set for the theme.
func (t *Theme) Tree() TreeStrings {
	if t.unicode {
		return unicodeTree
	}
	return asciiTree
}
