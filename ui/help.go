package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/ftahirops/ptop/ui/panel"
	"github.com/ftahirops/ptop/ui/screen"
	"github.com/ftahirops/ptop/ui/theme"
)

// openHelp pushes the key reference. It closes on any key or click.
func openHelp(st *State) {
	st.Screens.Push(&screen.Session{
		Name: "help",
		Overlay: func(w, h int) string {
			return renderHelp(st, w, h)
		},
		OnClose: func(screen.Outcome) panel.Result {
			return st.Apply(ReactionRecalculate | ReactionRedrawBar | ReactionKeepFollowing)
		},
	})
}

// renderHelp lays out the colour legend and both binding columns.
func renderHelp(st *State, w, h int) string {
	th := st.Theme
	tree := th.Tree()

	legend := func(label string, parts ...string) string {
		var b strings.Builder
		b.WriteString(th.Render(theme.DefaultColor, label))
		b.WriteString(th.Render(theme.BarBorder, "["))
		for i := 0; i+1 < len(parts); i += 2 {
			var e theme.Element
			switch parts[i] {
			case "nice":
				e = theme.CPUNice
			case "user":
				e = theme.CPUNormal
			case "kernel":
				e = theme.CPUSystem
			case "irq":
				e = theme.CPUIRQ
			case "io-wait":
				e = theme.CPUIOWait
			case "steal":
				e = theme.CPUSteal
			case "used":
				e = theme.MemoryUsed
			case "buffers":
				e = theme.MemoryBuffers
			case "cache":
				e = theme.MemoryCache
			case "swap":
				e = theme.Swap
			}
			b.WriteString(th.Render(e, parts[i+1]))
		}
		b.WriteString(th.Render(theme.BarShadow, strings.Repeat(tree.BarEmpty, 5)))
		b.WriteString(th.Render(theme.BarBorder, "]"))
		return b.String()
	}

	cpu := []string{"nice", "low-priority/", "user", "normal/", "kernel", "kernel"}
	if st.Settings.DetailedCPUTime {
		cpu = append(cpu, "irq", "/irq", "io-wait", "/io-wait", "steal", "/steal")
	}
	lines := []string{
		th.Render(theme.HelpBold, "ptop - interactive process viewer"),
		th.Render(theme.DefaultColor, "Press any key to return."),
		"",
		legend("CPU usage bar: ", cpu...),
		legend("Memory bar:    ", "used", "used/", "buffers", "buffers/", "cache", "cache"),
		legend("Swap bar:      ", "swap", "used"),
		th.Render(theme.DefaultColor, "Type and layout of header meters are configurable in the setup screen."),
		th.Render(theme.DefaultColor, "Status: ") +
			th.Render(theme.ProcessRunState, "R") + th.Render(theme.DefaultColor, ": running; S: sleeping; T: traced/stopped; Z: zombie; ") +
			th.Render(theme.ProcessDState, "D") + th.Render(theme.DefaultColor, ": disk sleep"),
		"",
	}

	hm := help.New()
	hm.Width = w
	hm.FullSeparator = "    "
	hm.Styles.FullKey = th.Style(theme.HelpBold)
	hm.Styles.FullDesc = th.Style(theme.DefaultColor)
	hm.Styles.FullSeparator = th.Style(theme.DefaultColor)
	lines = append(lines, hm.FullHelpView(st.Registry.FullHelp()))

	out := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.NewStyle().MaxWidth(w).MaxHeight(h).Render(out)
}
