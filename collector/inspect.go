package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ftahirops/ptop/util"
)

// Inspector reads per-process details shown by the info screens.
type Inspector struct {
	Root string
}

// OpenFile is one entry of /proc/[pid]/fd.
type OpenFile struct {
	FD     int
	Target string
}

// FileLock is one line of /proc/locks that belongs to a process.
type FileLock struct {
	ID    int
	Class string // POSIX, FLOCK, OFDLCK
	Mode  string // ADVISORY, MANDATORY
	Type  string // READ, WRITE
	Dev   string
	Inode uint64
	Start string
	End   string
}

// Environment returns the NUL-separated environment of pid.
func (in Inspector) Environment(pid int) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(rootOr(in.Root), strconv.Itoa(pid), "environ"))
	if err != nil {
		return nil, fmt.Errorf("read environ of %d: %w", pid, err)
	}
	return util.SplitNul(data), nil
}

// Cmdline returns the argument vector of pid.
func (in Inspector) Cmdline(pid int) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(rootOr(in.Root), strconv.Itoa(pid), "cmdline"))
	if err != nil {
		return nil, fmt.Errorf("read cmdline of %d: %w", pid, err)
	}
	return util.SplitNul(data), nil
}

// OpenFiles lists the file descriptors of pid, ordered by number.
func (in Inspector) OpenFiles(pid int) ([]OpenFile, error) {
	dir := filepath.Join(rootOr(in.Root), strconv.Itoa(pid), "fd")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read fd of %d: %w", pid, err)
	}
	files := make([]OpenFile, 0, len(entries))
	for _, e := range entries {
		fd, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		target, err := os.Readlink(filepath.Join(dir, e.Name()))
		if err != nil {
			continue // closed while listing
		}
		files = append(files, OpenFile{FD: fd, Target: target})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].FD < files[j].FD })
	return files, nil
}

// Locks returns the file locks held by pid.
func (in Inspector) Locks(pid int) ([]FileLock, error) {
	lines, err := util.ReadFileLines(filepath.Join(rootOr(in.Root), "locks"))
	if err != nil {
		return nil, fmt.Errorf("read /proc/locks: %w", err)
	}
	return parseLocks(lines, pid), nil
}

// parseLocks parses lines like
// "1: POSIX  ADVISORY  WRITE 1234 08:01:5678 0 EOF".
func parseLocks(lines []string, pid int) []FileLock {
	var out []FileLock
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "->" {
			continue // blocked waiter
		}
		if len(fields) < 8 || util.ParseInt(fields[4]) != pid {
			continue
		}
		lk := FileLock{
			ID:    util.ParseInt(strings.TrimSuffix(fields[0], ":")),
			Class: fields[1],
			Mode:  fields[2],
			Type:  fields[3],
			Start: fields[6],
			End:   fields[7],
		}
		if i := strings.LastIndex(fields[5], ":"); i >= 0 {
			lk.Dev = fields[5][:i]
			lk.Inode = util.ParseUint64(fields[5][i+1:])
		}
		out = append(out, lk)
	}
	return out
}
