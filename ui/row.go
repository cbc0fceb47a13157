package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/ui/theme"
)

// clockTicks is USER_HZ; /proc times are in these units.
const clockTicks = 100

// procRow adapts a table row to the panel.
type procRow struct {
	p *model.Process
	m *MainPanel
}

func (r *procRow) Key() int { return r.p.PID }

func (r *procRow) Label() string {
	s := r.m.st.Settings
	return r.p.Command(s.ShowProgramPath, s.ShowMergedCommand)
}

func (r *procRow) Display(rs *theme.RichString) {
	r.m.writeRow(rs, r.p)
}

// writeRow formats every configured column of p.
func (m *MainPanel) writeRow(rs *theme.RichString, p *model.Process) {
	s := m.st.Settings
	for _, f := range s.Fields {
		m.writeField(rs, p, f)
	}
	switch {
	case p.Tagged:
		rs.SetAll(theme.ProcessTag)
	case p.New:
		rs.SetAll(theme.ProcessNew)
	case s.ShadowOtherUsers && p.UID != m.uid:
		rs.SetAll(theme.ProcessShadow)
	}
}

func (m *MainPanel) writeField(rs *theme.RichString, p *model.Process, f model.Field) {
	s := m.st.Settings
	switch f {
	case model.FieldPID:
		rs.Append(theme.Process, fmt.Sprintf("%7d ", p.PID))
	case model.FieldPPID:
		rs.Append(theme.Process, fmt.Sprintf("%7d ", p.PPID))
	case model.FieldPGRP:
		rs.Append(theme.Process, fmt.Sprintf("%7d ", p.PGRP))
	case model.FieldSession:
		rs.Append(theme.Process, fmt.Sprintf("%7d ", p.Session))
	case model.FieldTTY:
		rs.AppendWidth(theme.Process, ttyName(p.TTY), f.Width()-1)
		rs.Append(theme.Process, " ")
	case model.FieldUser:
		rs.AppendWidth(theme.Process, p.User, f.Width()-1)
		rs.Append(theme.Process, " ")
	case model.FieldPriority:
		if p.Priority <= -100 {
			rs.Append(theme.Process, " RT ")
		} else {
			rs.Append(theme.Process, fmt.Sprintf("%3d ", p.Priority))
		}
	case model.FieldNice:
		e := theme.Process
		switch {
		case p.Nice < 0:
			e = theme.ProcessHighPriority
		case p.Nice > 0:
			e = theme.ProcessLowPriority
		}
		rs.Append(e, fmt.Sprintf("%3d ", p.Nice))
	case model.FieldVirt:
		writeBytes(rs, p.VSize, s.HighlightMegabytes)
	case model.FieldRes:
		writeBytes(rs, p.RSS, s.HighlightMegabytes)
	case model.FieldShr:
		writeBytes(rs, p.Shared, s.HighlightMegabytes)
	case model.FieldState:
		e := theme.Process
		switch p.State {
		case "R":
			e = theme.ProcessRunState
		case "D":
			e = theme.ProcessDState
		}
		rs.AppendWidth(e, p.State, 1)
		rs.Append(theme.Process, " ")
	case model.FieldCPU:
		rs.Append(theme.Process, formatPercent(p.CPUPercent, 5))
	case model.FieldMem:
		rs.Append(theme.Process, formatPercent(p.MemPercent, 4))
	case model.FieldTime:
		writeTime(rs, p.TotalTime())
	case model.FieldThreads:
		rs.Append(theme.Process, fmt.Sprintf("%4d ", p.NumThreads))
	case model.FieldProcessor:
		cpu := p.Processor
		if s.CountCPUsFromOne {
			cpu++
		}
		rs.Append(theme.Process, fmt.Sprintf("%3d ", cpu))
	case model.FieldStart:
		rs.Append(theme.Process, m.startTime(p))
	case model.FieldCommand:
		m.writeCommand(rs, p)
	}
}

// writeBytes prints a memory size in a 6-column field: KiB up to 99999,
// then M and G, with the megabyte digits highlighted.
func writeBytes(rs *theme.RichString, b uint64, highlight bool) {
	kib := b / 1024
	mb, gb := theme.Process, theme.Process
	if highlight {
		mb, gb = theme.ProcessMegabytes, theme.ProcessGigabytes
	}
	switch {
	case kib < 1000:
		rs.Append(theme.Process, fmt.Sprintf("%5d ", kib))
	case kib < 100000:
		rs.Append(mb, fmt.Sprintf("%2d", kib/1000))
		rs.Append(theme.Process, fmt.Sprintf("%03d ", kib%1000))
	case kib < 1000*1024:
		rs.Append(mb, fmt.Sprintf("%4dM ", kib/1024))
	case kib < 10*1024*1024:
		rs.Append(gb, fmt.Sprintf("%4.1fG ", float64(kib)/(1024*1024)))
	default:
		rs.Append(gb, fmt.Sprintf("%4dG ", kib/(1024*1024)))
	}
}

func formatPercent(v float64, width int) string {
	if v >= 999.5 {
		return fmt.Sprintf("%*.0f ", width, v)
	}
	return fmt.Sprintf("%*.1f ", width, v)
}

// writeTime prints CPU time as M:SS.hh, or HhMM:SS past an hour.
func writeTime(rs *theme.RichString, ticks uint64) {
	hundredths := ticks * 100 / clockTicks
	secs := hundredths / 100
	mins := secs / 60
	hours := mins / 60
	switch {
	case hours >= 100:
		rs.Append(theme.LargeNumber, fmt.Sprintf("%7dh ", hours))
	case hours > 0:
		rs.Append(theme.LargeNumber, fmt.Sprintf("%2dh", hours))
		rs.Append(theme.Process, fmt.Sprintf("%02d:%02d ", mins%60, secs%60))
	default:
		rs.Append(theme.Process, fmt.Sprintf("%2d:%02d.%02d ", mins, secs%60, hundredths%100))
	}
}

// startTime formats when p started: the time of day for processes started
// today, the date otherwise.
func (m *MainPanel) startTime(p *model.Process) string {
	snap := m.st.Table.Snapshot
	if snap == nil || snap.Timestamp.IsZero() {
		return "  -   "
	}
	boot := snap.Timestamp.Add(-time.Duration(snap.Uptime * float64(time.Second)))
	start := boot.Add(time.Duration(p.StartTime) * time.Second / clockTicks)
	now := snap.Timestamp
	if start.Year() == now.Year() && start.YearDay() == now.YearDay() {
		return start.Format("15:04 ")
	}
	return start.Format("Jan02 ")
}

// ttyName decodes a tty_nr device number.
func ttyName(nr int) string {
	if nr == 0 {
		return "?"
	}
	major := (nr >> 8) & 0xfff
	minor := (nr & 0xff) | ((nr >> 12) & 0xfff00)
	switch {
	case major >= 136 && major <= 143:
		return fmt.Sprintf("pts/%d", minor+(major-136)*256)
	case major == 4 && minor < 64:
		return fmt.Sprintf("tty%d", minor)
	case major == 4:
		return fmt.Sprintf("ttyS%d", minor-64)
	}
	return "?"
}

// treePrefix draws the branch lines in front of a command in tree view.
func (m *MainPanel) treePrefix(p *model.Process) string {
	if !m.st.Settings.TreeView || p.Depth == 0 {
		return ""
	}
	tree := m.st.Theme.Tree()
	var b strings.Builder
	for d := 1; d < p.Depth; d++ {
		if p.Indent&(1<<uint(d)) != 0 {
			b.WriteString(tree.Vert + "  ")
		} else {
			b.WriteString("   ")
		}
	}
	if p.LastChild {
		b.WriteString(tree.BEnd)
	} else {
		b.WriteString(tree.RTee)
	}
	if p.ShowChildren || !p.HasChildren {
		b.WriteString(tree.Expanded)
	} else {
		b.WriteString(tree.Collapsed)
	}
	b.WriteString(" ")
	return b.String()
}

func (m *MainPanel) writeCommand(rs *theme.RichString, p *model.Process) {
	s := m.st.Settings
	base, name := theme.Process, theme.ProcessBaseName
	if s.HighlightThreads && (p.UserlandThread || p.IsKernelThread()) {
		base, name = theme.ProcessThread, theme.ProcessThreadBaseName
	}
	if prefix := m.treePrefix(p); prefix != "" {
		rs.Append(theme.ProcessTree, prefix)
	}
	if p.UserlandThread && s.ShowThreadNames && p.Comm != "" {
		rs.Append(base, p.Comm)
		return
	}
	cmd := p.Command(s.ShowProgramPath, s.ShowMergedCommand)
	if !s.HighlightBaseName || s.ShowMergedCommand || p.Cmdline == "" {
		rs.Append(base, cmd)
		return
	}
	start, end := p.BaseNameSpan(s.ShowProgramPath)
	if start < 0 || end > len(cmd) || start >= end {
		rs.Append(base, cmd)
		return
	}
	rs.Append(base, cmd[:start])
	rs.Append(name, cmd[start:end])
	rs.Append(base, cmd[end:])
}
