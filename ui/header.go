package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ftahirops/ptop/config"
	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/ui/screen"
	"github.com/ftahirops/ptop/ui/theme"
)

// meterInfo describes one entry of the meter catalogue.
type meterInfo struct {
	name  string
	title string
	bar   bool // supports bar mode
}

var meterCatalogue = []meterInfo{
	{"CPU", "CPU average", true},
	{"AllCPUs", "CPUs (1/1): all CPUs", true},
	{"Memory", "Memory", true},
	{"Swap", "Swap", true},
	{"Tasks", "Task counter", false},
	{"LoadAverage", "Load average", false},
	{"Uptime", "Uptime", false},
	{"Clock", "Clock", false},
	{"Hostname", "Hostname", false},
}

func lookupMeter(name string) (meterInfo, bool) {
	for _, mi := range meterCatalogue {
		if mi.name == name {
			return mi, true
		}
	}
	return meterInfo{}, false
}

// Header draws the meters above the process list in two columns. It keeps
// its own copy of the last sample so it stays live while the table is
// paused.
type Header struct {
	st    *State
	snap  *model.Snapshot
	rates *model.Rates
}

// NewHeader returns a header with no data yet.
func NewHeader(st *State) *Header { return &Header{st: st} }

// Update records the latest sample.
func (h *Header) Update(snap *model.Snapshot, rates *model.Rates) {
	h.snap, h.rates = snap, rates
}

func (h *Header) pad() int {
	if h.st.Settings.HeaderMargin {
		return 1
	}
	return 0
}

func (h *Header) cpuCount() int {
	if h.snap == nil || h.snap.CPU.NumCPUs < 1 {
		return 1
	}
	return h.snap.CPU.NumCPUs
}

func (h *Header) meterHeight(m config.Meter) int {
	if m.Name == "AllCPUs" {
		return h.cpuCount()
	}
	return 1
}

func (h *Header) columnHeight(ms []config.Meter) int {
	n := 0
	for _, m := range ms {
		n += h.meterHeight(m)
	}
	return n
}

// Height returns the number of rows the header occupies.
func (h *Header) Height() int {
	s := h.st.Settings
	n := max(h.columnHeight(s.LeftMeters), h.columnHeight(s.RightMeters))
	if n == 0 {
		return 0
	}
	return n + 2*h.pad()
}

// Draw paints both meter columns onto f.
func (h *Header) Draw(f *screen.Frame) {
	s := h.st.Settings
	pad := h.pad()
	inner := max(f.W-2*pad, 0)
	colW := inner / 2
	h.drawColumn(f, s.LeftMeters, pad, pad, colW-1)
	h.drawColumn(f, s.RightMeters, pad+colW, pad, inner-colW)
}

func (h *Header) drawColumn(f *screen.Frame, ms []config.Meter, x, y, w int) {
	var rs theme.RichString
	for _, m := range ms {
		for i := 0; i < h.meterHeight(m); i++ {
			rs.Reset()
			h.writeMeter(&rs, m, i, w)
			f.Write(x, y, &rs, w)
			y++
		}
	}
}

// writeMeter renders line i of meter m into rs.
func (h *Header) writeMeter(rs *theme.RichString, m config.Meter, i, w int) {
	s := h.st.Settings
	bar := m.Mode == config.MeterBar
	switch m.Name {
	case "CPU":
		h.writeCPU(rs, "Avg", h.cpuUsage(-1), bar, w)
	case "AllCPUs":
		n := i
		if s.CountCPUsFromOne {
			n++
		}
		h.writeCPU(rs, fmt.Sprintf("%-3d", n), h.cpuUsage(i), bar, w)
	case "Memory":
		var mm model.MemoryMetrics
		if h.snap != nil {
			mm = h.snap.Memory
		}
		cache := mm.Cached + mm.SReclaimable - min(mm.Shmem, mm.Cached+mm.SReclaimable)
		parts := []barPart{
			{theme.MemoryUsed, frac(mm.Used(), mm.Total)},
			{theme.MemoryBuffers, frac(mm.Buffers, mm.Total)},
			{theme.MemoryCache, frac(cache, mm.Total)},
		}
		text := humanize.IBytes(mm.Used()) + "/" + humanize.IBytes(mm.Total)
		h.writeBarOrText(rs, "Mem", parts, text, bar, w)
	case "Swap":
		var mm model.MemoryMetrics
		if h.snap != nil {
			mm = h.snap.Memory
		}
		parts := []barPart{{theme.Swap, frac(mm.SwapUsed(), mm.SwapTotal)}}
		text := humanize.IBytes(mm.SwapUsed()) + "/" + humanize.IBytes(mm.SwapTotal)
		h.writeBarOrText(rs, "Swp", parts, text, bar, w)
	case "Tasks":
		var tc model.TaskCounts
		if h.snap != nil {
			tc = model.CountTasks(h.snap.Processes)
		}
		rs.Append(theme.MeterText, "Tasks: ")
		rs.Append(theme.MeterValue, fmt.Sprint(tc.Processes))
		rs.Append(theme.MeterText, ", ")
		rs.Append(theme.Tasks, fmt.Sprint(tc.Threads))
		rs.Append(theme.MeterText, " thr, ")
		rs.Append(theme.Tasks, fmt.Sprint(tc.KernelThreads))
		rs.Append(theme.MeterText, " kthr; ")
		rs.Append(theme.MeterValue, fmt.Sprint(tc.Running))
		rs.Append(theme.MeterText, " running")
	case "LoadAverage":
		var la model.LoadAvg
		if h.snap != nil {
			la = h.snap.CPU.LoadAvg
		}
		rs.Append(theme.MeterText, "Load average: ")
		rs.Append(theme.LoadAverageOne, fmt.Sprintf("%.2f ", la.Load1))
		rs.Append(theme.LoadAverageFive, fmt.Sprintf("%.2f ", la.Load5))
		rs.Append(theme.LoadAverageFifteen, fmt.Sprintf("%.2f", la.Load15))
	case "Uptime":
		rs.Append(theme.MeterText, "Uptime: ")
		up := 0.0
		if h.snap != nil {
			up = h.snap.Uptime
		}
		rs.Append(theme.Uptime, formatUptime(up))
	case "Clock":
		rs.Append(theme.MeterText, "Time: ")
		rs.Append(theme.Clock, h.st.Now().Format("15:04:05"))
	case "Hostname":
		rs.Append(theme.MeterText, "Hostname: ")
		name := ""
		if h.snap != nil && h.snap.SysInfo != nil {
			name = h.snap.SysInfo.Hostname
		}
		rs.Append(theme.Hostname, name)
	default:
		rs.Append(theme.MeterValueError, m.Name+": unknown meter")
	}
}

// cpuUsage returns the usage of cpu i, or the average for i < 0.
func (h *Header) cpuUsage(i int) model.CPUUsage {
	if h.rates == nil {
		return model.CPUUsage{}
	}
	if i < 0 {
		return h.rates.CPU
	}
	if i < len(h.rates.PerCPU) {
		return h.rates.PerCPU[i]
	}
	return model.CPUUsage{}
}

func (h *Header) writeCPU(rs *theme.RichString, label string, u model.CPUUsage, bar bool, w int) {
	s := h.st.Settings
	parts := []barPart{
		{theme.CPUNice, u.Nice / 100},
		{theme.CPUNormal, u.User / 100},
		{theme.CPUSystem, u.System / 100},
	}
	if s.DetailedCPUTime {
		parts = append(parts,
			barPart{theme.CPUIRQ, u.IRQ / 100},
			barPart{theme.CPUIOWait, u.IOWait / 100},
			barPart{theme.CPUSteal, u.Steal / 100},
		)
	}
	text := ""
	if s.ShowCPUUsage {
		text = fmt.Sprintf("%.1f%%", u.Busy)
	}
	h.writeBarOrText(rs, label, parts, text, bar, w)
}

type barPart struct {
	elem theme.Element
	frac float64
}

func frac(a, b uint64) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func (h *Header) writeBarOrText(rs *theme.RichString, label string, parts []barPart, text string, bar bool, w int) {
	if !bar {
		rs.Append(theme.MeterText, label+": ")
		rs.Append(theme.MeterValue, text)
		return
	}
	writeBar(rs, h.st.Theme.Tree(), label, parts, text, w)
}

// writeBar draws label[||||   text] in w cells. Each part fills its share
// of the bar; text is right aligned over the bar.
func writeBar(rs *theme.RichString, glyphs theme.TreeStrings, label string, parts []barPart, text string, w int) {
	rs.AppendWidth(theme.MeterText, label, 3)
	inner := w - 5
	if inner < 1 {
		return
	}
	rs.Append(theme.BarBorder, "[")
	cells := make([]theme.Element, inner)
	for i := range cells {
		cells[i] = theme.BarShadow
	}
	col := 0
	total := 0.0
	for _, p := range parts {
		total += max(p.frac, 0)
		end := min(int(total*float64(inner)+0.5), inner)
		for ; col < end; col++ {
			cells[col] = p.elem
		}
	}
	filled := col
	text = truncateLeft(text, inner)
	textStart := inner - len([]rune(text))
	runes := []rune(text)
	var b strings.Builder
	for i := 0; i < inner; i++ {
		b.Reset()
		switch {
		case i >= textStart:
			b.WriteRune(runes[i-textStart])
		case i < filled:
			b.WriteString(glyphs.BarFill)
		default:
			b.WriteString(glyphs.BarEmpty)
		}
		rs.Append(cells[i], b.String())
	}
	rs.Append(theme.BarBorder, "]")
}

func truncateLeft(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// formatUptime renders seconds as "N days, HH:MM:SS".
func formatUptime(secs float64) string {
	t := int64(secs)
	d, t := t/86400, t%86400
	hms := fmt.Sprintf("%02d:%02d:%02d", t/3600, t%3600/60, t%60)
	switch {
	case d > 1:
		return fmt.Sprintf("%d days, %s", d, hms)
	case d == 1:
		return "1 day, " + hms
	}
	return hms
}
