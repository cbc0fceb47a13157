package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/util"
)

// ProcessCollector reads every process and thread from /proc.
type ProcessCollector struct {
	Root  string
	Users *Users
}

func (p *ProcessCollector) Name() string { return "process" }

func (p *ProcessCollector) Collect(snap *model.Snapshot) error {
	root := rootOr(p.Root)
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read %s: %w", root, err)
	}

	var procs []model.Process
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid := util.ParseInt(e.Name())
		if pid <= 0 {
			continue
		}
		dir := filepath.Join(root, e.Name())
		leader, err := p.readProcess(dir, pid, pid)
		if err != nil {
			continue // process may have exited
		}
		procs = append(procs, leader)
		procs = append(procs, p.readThreads(dir, &leader)...)
	}
	snap.Processes = procs
	return nil
}

func (p *ProcessCollector) readThreads(dir string, leader *model.Process) []model.Process {
	if leader.IsKernelThread() {
		return nil
	}
	entries, err := os.ReadDir(filepath.Join(dir, "task"))
	if err != nil {
		return nil
	}
	var out []model.Process
	for _, e := range entries {
		tid := util.ParseInt(e.Name())
		if tid <= 0 || tid == leader.PID {
			continue
		}
		th, err := p.readProcess(filepath.Join(dir, "task", e.Name()), tid, leader.PID)
		if err != nil {
			continue
		}
		th.UserlandThread = true
		th.PPID = leader.PID
		if th.Cmdline == "" {
			th.Cmdline = leader.Cmdline
		}
		out = append(out, th)
	}
	return out
}

func (p *ProcessCollector) readProcess(dir string, pid, tgid int) (model.Process, error) {
	pr := model.Process{PID: pid, TGID: tgid}
	content, err := util.ReadFileString(filepath.Join(dir, "stat"))
	if err != nil {
		return pr, err
	}
	if err := parseProcStat(content, &pr); err != nil {
		return pr, err
	}
	if kv, err := util.ParseKeyValueFile(filepath.Join(dir, "status")); err == nil {
		parseProcStatus(kv, &pr)
	}
	if statm, err := util.ReadFileString(filepath.Join(dir, "statm")); err == nil {
		pr.Shared = parseStatmShared(statm)
	}
	if data, err := os.ReadFile(filepath.Join(dir, "cmdline")); err == nil {
		pr.Cmdline = strings.Join(util.SplitNul(data), " ")
	}
	if exe, err := os.Readlink(filepath.Join(dir, "exe")); err == nil {
		pr.Exe = strings.TrimSuffix(exe, " (deleted)")
	}
	if p.Users != nil {
		pr.User = p.Users.Name(pr.UID)
	}
	pr.KernelThread = pr.IsKernelThread()
	return pr, nil
}

// parseProcStat fills fields from /proc/[pid]/stat.
func parseProcStat(content string, pr *model.Process) error {
	// comm can contain spaces and parens, so split at the last ')'
	closeIdx := strings.LastIndex(content, ")")
	openIdx := strings.Index(content, "(")
	if closeIdx < 0 || openIdx < 0 || closeIdx+2 > len(content) {
		return fmt.Errorf("bad stat format")
	}
	pr.Comm = content[openIdx+1 : closeIdx]
	rest := strings.Fields(content[closeIdx+1:])
	if len(rest) < 37 {
		return fmt.Errorf("stat too short")
	}

	pr.State = rest[0]
	pr.PPID = util.ParseInt(rest[1])
	pr.PGRP = util.ParseInt(rest[2])
	pr.Session = util.ParseInt(rest[3])
	pr.TTY = util.ParseInt(rest[4])
	pr.Flags = util.ParseUint64(rest[6])
	pr.UTime = util.ParseUint64(rest[11])
	pr.STime = util.ParseUint64(rest[12])
	pr.Priority = util.ParseInt(rest[15])
	pr.Nice = util.ParseInt(rest[16])
	pr.NumThreads = util.ParseInt(rest[17])
	pr.StartTime = util.ParseUint64(rest[19])
	pr.VSize = util.ParseUint64(rest[20])
	pr.RSS = util.ParseUint64(rest[21]) * pageSize
	pr.Processor = util.ParseInt(rest[36])
	return nil
}

func parseProcStatus(kv map[string]string, pr *model.Process) {
	if uid := strings.Fields(kv["Uid"]); len(uid) > 0 {
		pr.UID = util.ParseInt(uid[0])
	}
	if tgid := util.ParseInt(kv["Tgid"]); tgid > 0 {
		pr.TGID = tgid
	}
}

// parseStatmShared returns the shared pages field of /proc/[pid]/statm in bytes.
func parseStatmShared(content string) uint64 {
	fields := strings.Fields(content)
	if len(fields) < 3 {
		return 0
	}
	return util.ParseUint64(fields[2]) * pageSize
}

var pageSize = uint64(os.Getpagesize())
