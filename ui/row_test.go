package ui

import (
	"testing"

	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/ui/theme"
)

func TestWriteTime(t *testing.T) {
	tests := []struct {
		ticks uint64
		want  string
	}{
		{0, " 0:00.00 "},
		{150, " 0:01.50 "},
		{3700 * clockTicks, " 1h01:40 "},
		{200 * 3600 * clockTicks, "    200h "},
	}
	for _, tt := range tests {
		var rs theme.RichString
		writeTime(&rs, tt.ticks)
		if got := rs.String(); got != tt.want {
			t.Errorf("writeTime(%d) = %q, want %q", tt.ticks, got, tt.want)
		}
	}
}

func TestWriteBytes(t *testing.T) {
	tests := []struct {
		b    uint64
		want string
	}{
		{512 << 10, "  512 "},
		{12345 << 10, "12345 "},
		{500 << 20, " 500M "},
		{3 << 30, " 3.0G "},
		{20 << 30, "  20G "},
	}
	for _, tt := range tests {
		var rs theme.RichString
		writeBytes(&rs, tt.b, true)
		if got := rs.String(); got != tt.want {
			t.Errorf("writeBytes(%d) = %q, want %q", tt.b, got, tt.want)
		}
	}
}

func TestWriteBytes_HighlightsMegabytes(t *testing.T) {
	var rs theme.RichString
	writeBytes(&rs, 12345<<10, true)
	runs := rs.Runs()
	if len(runs) != 2 || runs[0].Elem != theme.ProcessMegabytes || runs[0].Text != "12" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestTTYName(t *testing.T) {
	tests := []struct {
		nr   int
		want string
	}{
		{0, "?"},
		{136 << 8, "pts/0"},
		{136<<8 | 5, "pts/5"},
		{4<<8 | 1, "tty1"},
		{4<<8 | 65, "ttyS1"},
	}
	for _, tt := range tests {
		if got := ttyName(tt.nr); got != tt.want {
			t.Errorf("ttyName(%#x) = %q, want %q", tt.nr, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := formatPercent(12.34, 5); got != " 12.3 " {
		t.Errorf("got %q", got)
	}
	if got := formatPercent(1234, 5); got != " 1234 " {
		t.Errorf("got %q", got)
	}
}

func TestWriteCommand_HighlightsBaseName(t *testing.T) {
	h := newHarness(t, treeProcs())
	var rs theme.RichString
	h.st.Main.writeCommand(&rs, h.st.Table.Get(10))
	runs := rs.Runs()
	if len(runs) != 2 || runs[0].Text != "/usr/bin/" || runs[1].Text != "shell" || runs[1].Elem != theme.ProcessBaseName {
		t.Errorf("runs = %+v", runs)
	}
}

func TestWriteCommand_ThreadName(t *testing.T) {
	h := newHarness(t, treeProcs())
	h.st.Settings.ShowThreadNames = true
	p := &model.Process{PID: 7, TGID: 1, Comm: "worker", Cmdline: "/usr/bin/init", UserlandThread: true}
	var rs theme.RichString
	h.st.Main.writeCommand(&rs, p)
	if got := rs.String(); got != "worker" {
		t.Errorf("thread command = %q", got)
	}
	if rs.Runs()[0].Elem != theme.ProcessThread {
		t.Errorf("thread not highlighted")
	}
}
