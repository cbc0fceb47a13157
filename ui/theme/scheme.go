package theme

import "github.com/charmbracelet/lipgloss"

// Scheme is a colour scheme selectable in setup.
type Scheme int

const (
	SchemeDefault Scheme = iota
	SchemeMonochrome
	SchemeBlackOnWhite
	SchemeLightTerminal
	SchemeMC
	SchemeBlackNight
	SchemeBrokenGray
	schemeCount
)

// SchemeNames lists scheme labels in Scheme order.
var SchemeNames = []string{
	"Default",
	"Monochromatic",
	"Black on White",
	"Light Terminal",
	"MC",
	"Black Night",
	"Broken Gray",
}

// Valid reports whether s is a known scheme.
func (s Scheme) Valid() bool { return s >= 0 && s < schemeCount }

func (s Scheme) String() string {
	if !s.Valid() {
		return "Unknown"
	}
	return SchemeNames[s]
}

var (
	none    = lipgloss.NoColor{}
	black   = lipgloss.Color("0")
	red     = lipgloss.Color("1")
	green   = lipgloss.Color("2")
	yellow  = lipgloss.Color("3")
	blue    = lipgloss.Color("4")
	cyan    = lipgloss.Color("6")
	white   = lipgloss.Color("7")
	gray    = lipgloss.Color("8")
	magenta = lipgloss.Color("5")
)

// palette assigns colours to roles; style derives every Element from it.
type palette struct {
	fg, bg     lipgloss.TerminalColor
	accent     lipgloss.TerminalColor
	good       lipgloss.TerminalColor
	warn       lipgloss.TerminalColor
	bad        lipgloss.TerminalColor
	info       lipgloss.TerminalColor
	dim        lipgloss.TerminalColor
	barFg      lipgloss.TerminalColor
	barBg      lipgloss.TerminalColor
	headerFg   lipgloss.TerminalColor
	headerBg   lipgloss.TerminalColor
	selFg      lipgloss.TerminalColor
	selBg      lipgloss.TerminalColor
	followBg   lipgloss.TerminalColor
	unfocusBg  lipgloss.TerminalColor
	monochrome bool
}

var palettes = [schemeCount]palette{
	SchemeDefault: {
		fg: none, bg: none, accent: cyan, good: green, warn: yellow, bad: red, info: blue, dim: gray,
		barFg: black, barBg: cyan, headerFg: black, headerBg: green,
		selFg: black, selBg: cyan, followBg: yellow, unfocusBg: white,
	},
	SchemeMonochrome: {
		fg: none, bg: none, accent: none, good: none, warn: none, bad: none, info: none, dim: none,
		barFg: none, barBg: none, headerFg: none, headerBg: none,
		selFg: none, selBg: none, followBg: none, unfocusBg: none, monochrome: true,
	},
	SchemeBlackOnWhite: {
		fg: black, bg: white, accent: blue, good: green, warn: yellow, bad: red, info: blue, dim: gray,
		barFg: white, barBg: blue, headerFg: black, headerBg: green,
		selFg: white, selBg: blue, followBg: yellow, unfocusBg: gray,
	},
	SchemeLightTerminal: {
		fg: black, bg: none, accent: blue, good: green, warn: yellow, bad: red, info: blue, dim: gray,
		barFg: black, barBg: cyan, headerFg: black, headerBg: green,
		selFg: black, selBg: cyan, followBg: yellow, unfocusBg: white,
	},
	SchemeMC: {
		fg: white, bg: blue, accent: cyan, good: green, warn: yellow, bad: red, info: magenta, dim: black,
		barFg: black, barBg: cyan, headerFg: black, headerBg: cyan,
		selFg: black, selBg: cyan, followBg: yellow, unfocusBg: white,
	},
	SchemeBlackNight: {
		fg: cyan, bg: black, accent: cyan, good: green, warn: yellow, bad: red, info: blue, dim: gray,
		barFg: black, barBg: green, headerFg: black, headerBg: green,
		selFg: black, selBg: cyan, followBg: yellow, unfocusBg: white,
	},
	SchemeBrokenGray: {
		fg: none, bg: none, accent: cyan, good: green, warn: yellow, bad: red, info: blue, dim: white,
		barFg: black, barBg: cyan, headerFg: black, headerBg: green,
		selFg: black, selBg: cyan, followBg: yellow, unfocusBg: white,
	},
}

func (p palette) style(r *lipgloss.Renderer, e Element) lipgloss.Style {
	base := r.NewStyle().Foreground(p.fg).Background(p.bg)
	on := func(fg, bg lipgloss.TerminalColor) lipgloss.Style {
		if p.monochrome {
			return base.Reverse(true)
		}
		return base.Foreground(fg).Background(bg)
	}
	fg := func(c lipgloss.TerminalColor) lipgloss.Style { return base.Foreground(c) }

	switch e {
	case FunctionBar:
		return on(p.barFg, p.barBg)
	case FailedSearch:
		return on(p.bad, p.barBg)
	case Paused:
		return on(p.warn, p.barBg).Bold(true)
	case PanelHeaderFocus, PanelHeaderUnfocus:
		return on(p.headerFg, p.headerBg)
	case PanelSelectionFocus:
		return on(p.selFg, p.selBg)
	case PanelSelectionFollow:
		return on(p.selFg, p.followBg)
	case PanelSelectionUnfocus:
		return on(p.selFg, p.unfocusBg)
	case ProcessNew:
		return on(p.selFg, p.good)
	case LargeNumber, MeterValueError, ProcessDState:
		return fg(p.bad).Bold(true)
	case MeterText, ProcessMegabytes, ProcessTree, CheckBox, CPUSteal, LoadAverageFifteen:
		return fg(p.accent)
	case MeterValue, ProcessBaseName, Uptime, HelpBold, LoadAverageFive:
		return fg(p.accent).Bold(true)
	case BarBorder, Tasks, Clock, Hostname, CheckMark, LoadAverageOne:
		return base.Bold(true)
	case BarShadow, ProcessShadow, CPUIOWait:
		if p.monochrome {
			return base.Faint(true)
		}
		return fg(p.dim)
	case ProcessTag:
		return fg(p.warn).Bold(true)
	case ProcessGigabytes, ProcessRunState, ProcessLowPriority, ProcessThread, CPUNormal, MemoryUsed:
		return fg(p.good)
	case ProcessThreadBaseName:
		return fg(p.good).Bold(true)
	case ProcessHighPriority, CPUSystem, Swap:
		return fg(p.bad)
	case CPUNice, MemoryBuffers:
		return fg(p.info)
	case CPUIRQ, MemoryCache:
		return fg(p.warn)
	}
	return base
}
