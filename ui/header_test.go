package ui

import (
	"strings"
	"testing"

	"github.com/ftahirops/ptop/config"
	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/ui/screen"
	"github.com/ftahirops/ptop/ui/theme"
)

// ---------------------------------------------------------------------------
// Bars
// ---------------------------------------------------------------------------

func asciiGlyphs() theme.TreeStrings {
	return theme.New(0, false, theme.NewRenderer(nil, true)).Tree()
}

func TestWriteBar_FillAndText(t *testing.T) {
	var rs theme.RichString
	parts := []barPart{{theme.MemoryUsed, 0.3}, {theme.MemoryCache, 0.2}}
	writeBar(&rs, asciiGlyphs(), "Mem", parts, "1/2", 15)
	if got, want := rs.String(), "Mem[|||||  1/2]"; got != want {
		t.Errorf("bar = %q, want %q", got, want)
	}
	elems := map[theme.Element]bool{}
	for _, r := range rs.Runs() {
		elems[r.Elem] = true
	}
	if !elems[theme.MemoryUsed] || !elems[theme.MemoryCache] {
		t.Errorf("bar parts not coloured: %v", elems)
	}
}

func TestWriteBar_OverfullClamps(t *testing.T) {
	var rs theme.RichString
	writeBar(&rs, asciiGlyphs(), "Avg", []barPart{{theme.CPUNormal, 0.9}, {theme.CPUSystem, 0.9}}, "", 13)
	if got, want := rs.String(), "Avg[||||||||]"; got != want {
		t.Errorf("bar = %q, want %q", got, want)
	}
}

func TestWriteBar_TooNarrow(t *testing.T) {
	var rs theme.RichString
	writeBar(&rs, asciiGlyphs(), "Mem", nil, "", 4)
	if got := rs.String(); got != "Mem" {
		t.Errorf("bar = %q, want the label only", got)
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		secs float64
		want string
	}{
		{59, "00:00:59"},
		{90061, "1 day, 01:01:01"},
		{3*86400 + 3600, "3 days, 01:00:00"},
	}
	for _, tt := range tests {
		if got := formatUptime(tt.secs); got != tt.want {
			t.Errorf("formatUptime(%v) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Header layout
// ---------------------------------------------------------------------------

func TestHeaderHeight(t *testing.T) {
	h := newHarness(t, treeProcs())
	// AllCPUs (4 rows) + Memory + Swap, plus the margin.
	if got := h.st.Header.Height(); got != 8 {
		t.Errorf("height = %d, want 8", got)
	}
	h.st.Settings.HeaderMargin = false
	h.st.Settings.LeftMeters = []config.Meter{{Name: "Clock", Mode: config.MeterText}}
	h.st.Settings.RightMeters = nil
	if got := h.st.Header.Height(); got != 1 {
		t.Errorf("height = %d, want 1", got)
	}
	h.st.Settings.LeftMeters = nil
	if got := h.st.Header.Height(); got != 0 {
		t.Errorf("empty header height = %d", got)
	}
}

func TestHeaderDraw_TextMeters(t *testing.T) {
	h := newHarness(t, treeProcs())
	s := h.st.Settings
	s.HeaderMargin = false
	s.LeftMeters = []config.Meter{{Name: "Tasks", Mode: config.MeterText}, {Name: "Bogus"}}
	s.RightMeters = []config.Meter{{Name: "Clock", Mode: config.MeterText}, {Name: "Uptime", Mode: config.MeterText}}

	f := screen.NewFrame(120, 2)
	h.st.Header.Draw(f)
	if line := f.Line(0); !strings.Contains(line, "Tasks: 5, 0 thr, 0 kthr; 0 running") || !strings.Contains(line, "Time: 12:00:01") {
		t.Errorf("line 0 = %q", line)
	}
	line := f.Line(1)
	if !strings.Contains(line, "Bogus: unknown meter") || !strings.Contains(line, "Uptime: 01:00:00") {
		t.Errorf("line 1 = %q", line)
	}
	if f.ElementAt(0, 1) != theme.MeterValueError {
		t.Errorf("unknown meter not flagged")
	}
}

func TestHeaderDraw_MemoryText(t *testing.T) {
	h := newHarness(t, treeProcs())
	s := h.st.Settings
	s.HeaderMargin = false
	s.LeftMeters = []config.Meter{{Name: "Memory", Mode: config.MeterText}}
	s.RightMeters = nil
	snap := snapshot(treeProcs(), 1)
	snap.Memory = model.MemoryMetrics{Total: 4 << 30, Free: 3 << 30}
	h.st.Header.Update(snap, nil)

	f := screen.NewFrame(80, 1)
	h.st.Header.Draw(f)
	if line := f.Line(0); !strings.HasPrefix(line, "Mem: 1.0 GiB/4.0 GiB") {
		t.Errorf("memory meter = %q", line)
	}
}

func TestHeaderDraw_CPUCountFromOne(t *testing.T) {
	h := newHarness(t, treeProcs())
	s := h.st.Settings
	s.HeaderMargin = false
	s.CountCPUsFromOne = true
	s.RightMeters = nil
	s.LeftMeters = []config.Meter{{Name: "AllCPUs", Mode: config.MeterBar}}
	h.st.Header.Update(snapshot(nil, 2), &model.Rates{PerCPU: []model.CPUUsage{{User: 50, Busy: 50}, {}}})

	f := screen.NewFrame(60, 2)
	h.st.Header.Draw(f)
	if line := f.Line(0); !strings.HasPrefix(line, "1  [") || !strings.Contains(line, "50.0%]") {
		t.Errorf("cpu 1 = %q", line)
	}
	if line := f.Line(1); !strings.HasPrefix(line, "2  [") {
		t.Errorf("cpu 2 = %q", line)
	}
}
