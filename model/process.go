package model

import (
	"path/filepath"
	"strings"
	"time"
)

// Process is one sampled task. Sampled fields are written by the collector;
// the table-state block at the end belongs to the process table and survives
// across samples for the same PID.
type Process struct {
	PID        int
	PPID       int
	TGID       int
	PGRP       int
	Session    int
	TTY        int
	UID        int
	User       string
	Comm       string
	Cmdline    string // argv joined with spaces; empty for kernel threads
	Exe        string
	State      string
	Priority   int
	Nice       int
	Processor  int
	NumThreads int
	StartTime  uint64 // clock ticks after boot
	UTime      uint64 // clock ticks
	STime      uint64 // clock ticks
	VSize      uint64 // bytes
	RSS        uint64 // bytes
	Shared     uint64 // bytes
	Flags      uint64

	KernelThread   bool
	UserlandThread bool

	// Derived per tick.
	CPUPercent float64
	MemPercent float64

	// Table state.
	Tagged       bool
	ShowChildren bool
	Show         bool
	Updated      bool
	New          bool // first seen within the highlight window
	SeenAt       time.Time
	Depth        int
	Indent       uint32 // bit d set: the ancestor at depth d has later siblings
	LastChild    bool
	HasChildren  bool
}

// pfKThread is PF_KTHREAD from include/linux/sched.h.
const pfKThread = 0x00200000

// IsKernelThread reports whether the task is a kernel thread.
func (p *Process) IsKernelThread() bool {
	return p.KernelThread || p.Flags&pfKThread != 0
}

// Key returns the identity key used by list panels.
func (p *Process) Key() int { return p.PID }

// Label returns the plain command text used for matching.
func (p *Process) Label() string { return p.Command(true, false) }

// TotalTime returns user+system time in clock ticks.
func (p *Process) TotalTime() uint64 { return p.UTime + p.STime }

// IsChildOf reports whether p's parent is pid. Userland threads hang off
// their thread group leader.
func (p *Process) IsChildOf(pid int) bool {
	if p.UserlandThread {
		return p.TGID == pid
	}
	return p.PPID == pid
}

// Parent returns the PID this process is nested under in tree view.
func (p *Process) Parent() int {
	if p.UserlandThread {
		return p.TGID
	}
	return p.PPID
}

// Command returns the text of the Command column. showPath keeps the
// directory part of argv[0]; merged prefixes exe/comm when they differ
// from argv[0].
func (p *Process) Command(showPath, merged bool) string {
	if p.Cmdline == "" {
		return p.Comm
	}
	cmd := p.Cmdline
	arg0, rest, _ := strings.Cut(cmd, " ")
	if !showPath && strings.Contains(arg0, "/") {
		arg0 = filepath.Base(arg0)
		cmd = arg0
		if rest != "" {
			cmd += " " + rest
		}
	}
	if merged {
		base := filepath.Base(arg0)
		exe := filepath.Base(p.Exe)
		switch {
		case p.Exe != "" && exe != base:
			name := p.Exe
			if !showPath {
				name = exe
			}
			cmd = name + "│" + cmd
		case p.Comm != "" && !strings.HasPrefix(base, p.Comm):
			cmd = p.Comm + "│" + cmd
		}
	}
	return cmd
}

// BaseNameSpan returns the byte range of the program base name inside
// Command(showPath, false), for highlighting.
func (p *Process) BaseNameSpan(showPath bool) (start, end int) {
	cmd := p.Command(showPath, false)
	arg0, _, _ := strings.Cut(cmd, " ")
	if i := strings.LastIndex(arg0, "/"); i >= 0 {
		return i + 1, len(arg0)
	}
	return 0, len(arg0)
}
