package model

import (
	"cmp"
	"fmt"
	"strings"
)

// Field identifies a process column.
type Field int

const (
	FieldPID Field = iota
	FieldPPID
	FieldPGRP
	FieldSession
	FieldTTY
	FieldUser
	FieldPriority
	FieldNice
	FieldVirt
	FieldRes
	FieldShr
	FieldState
	FieldCPU
	FieldMem
	FieldTime
	FieldThreads
	FieldProcessor
	FieldStart
	FieldCommand
	fieldCount
)

type fieldInfo struct {
	name     string
	title    string
	desc     string
	sortDesc bool
}

var fieldTable = [fieldCount]fieldInfo{
	FieldPID:       {"PID", "    PID ", "Process/thread ID", false},
	FieldPPID:      {"PPID", "   PPID ", "Parent process ID", false},
	FieldPGRP:      {"PGRP", "   PGRP ", "Process group ID", false},
	FieldSession:   {"SESSION", "    SID ", "Process's session ID", false},
	FieldTTY:       {"TTY", "TTY      ", "Controlling terminal", false},
	FieldUser:      {"USER", "USER      ", "Username of the process owner", false},
	FieldPriority:  {"PRIORITY", "PRI ", "Kernel's internal priority for the process", false},
	FieldNice:      {"NICE", " NI ", "Nice value (the higher the value, the more it lets other processes take priority)", false},
	FieldVirt:      {"M_VIRT", " VIRT ", "Total program size in virtual memory", true},
	FieldRes:       {"M_RESIDENT", "  RES ", "Resident set size, size of the text and data sections, plus stack usage", true},
	FieldShr:       {"M_SHARE", "  SHR ", "Size of the process's shared pages", true},
	FieldState:     {"STATE", "S ", "Process state (S sleeping, R running, D disk, Z zombie, T traced, W paging, I idle)", false},
	FieldCPU:       {"PERCENT_CPU", " CPU% ", "Percentage of the CPU time the process used in the last sampling", true},
	FieldMem:       {"PERCENT_MEM", "MEM% ", "Percentage of the memory the process is using, based on resident memory size", true},
	FieldTime:      {"TIME", "  TIME+  ", "Total time the process has spent in user and system time", true},
	FieldThreads:   {"NLWP", "NLWP ", "Number of threads in the process", true},
	FieldProcessor: {"PROCESSOR", "CPU ", "Id of the CPU the process last executed on", false},
	FieldStart:     {"STARTTIME", "START ", "Time the process was started", false},
	FieldCommand:   {"Command", "Command ", "Command line of the process", false},
}

// DefaultFields is the column set of a fresh settings file.
var DefaultFields = []Field{
	FieldPID, FieldUser, FieldPriority, FieldNice, FieldVirt, FieldRes,
	FieldShr, FieldState, FieldCPU, FieldMem, FieldTime, FieldCommand,
}

// AllFields lists every field in catalogue order.
func AllFields() []Field {
	out := make([]Field, fieldCount)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// Valid reports whether f names a known column.
func (f Field) Valid() bool { return f >= 0 && f < fieldCount }

// Name returns the persistent name of the field.
func (f Field) Name() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldTable[f].name
}

func (f Field) String() string { return f.Name() }

// Title returns the column header text, including padding.
func (f Field) Title() string {
	if !f.Valid() {
		return ""
	}
	return fieldTable[f].title
}

// Description returns the help text shown in the columns setup page.
func (f Field) Description() string {
	if !f.Valid() {
		return ""
	}
	return fieldTable[f].desc
}

// DefaultSortDesc reports whether the column sorts descending by default.
func (f Field) DefaultSortDesc() bool {
	return f.Valid() && fieldTable[f].sortDesc
}

// Width returns the display width of the column.
func (f Field) Width() int { return len(f.Title()) }

// FieldByName looks up a field by its persistent name, case-insensitively.
func FieldByName(name string) (Field, bool) {
	for i, fi := range fieldTable {
		if strings.EqualFold(fi.name, name) {
			return Field(i), true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (f Field) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid field %d", int(f))
	}
	return []byte(f.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Field) UnmarshalText(b []byte) error {
	v, ok := FieldByName(string(b))
	if !ok {
		return fmt.Errorf("unknown field %q", string(b))
	}
	*f = v
	return nil
}

// Compare orders a and b by field ascending, breaking ties by PID.
func Compare(a, b *Process, f Field) int {
	var c int
	switch f {
	case FieldPID:
		c = cmp.Compare(a.PID, b.PID)
	case FieldPPID:
		c = cmp.Compare(a.PPID, b.PPID)
	case FieldPGRP:
		c = cmp.Compare(a.PGRP, b.PGRP)
	case FieldSession:
		c = cmp.Compare(a.Session, b.Session)
	case FieldTTY:
		c = cmp.Compare(a.TTY, b.TTY)
	case FieldUser:
		c = strings.Compare(a.User, b.User)
	case FieldPriority:
		c = cmp.Compare(a.Priority, b.Priority)
	case FieldNice:
		c = cmp.Compare(a.Nice, b.Nice)
	case FieldVirt:
		c = cmp.Compare(a.VSize, b.VSize)
	case FieldRes:
		c = cmp.Compare(a.RSS, b.RSS)
	case FieldShr:
		c = cmp.Compare(a.Shared, b.Shared)
	case FieldState:
		c = strings.Compare(a.State, b.State)
	case FieldCPU:
		c = cmp.Compare(a.CPUPercent, b.CPUPercent)
	case FieldMem:
		c = cmp.Compare(a.MemPercent, b.MemPercent)
	case FieldTime:
		c = cmp.Compare(a.TotalTime(), b.TotalTime())
	case FieldThreads:
		c = cmp.Compare(a.NumThreads, b.NumThreads)
	case FieldProcessor:
		c = cmp.Compare(a.Processor, b.Processor)
	case FieldStart:
		c = cmp.Compare(a.StartTime, b.StartTime)
	case FieldCommand:
		c = strings.Compare(a.Command(true, false), b.Command(true, false))
	}
	if c != 0 {
		return c
	}
	return cmp.Compare(a.PID, b.PID)
}
