package collector

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ftahirops/ptop/model"
)

// statLine builds a /proc/[pid]/stat line with 44 fields after comm.
func statLine(pid int, comm string, ppid int, flags uint64, utime, stime uint64, nice int, rssPages uint64, cpu int) string {
	rest := make([]string, 44)
	for i := range rest {
		rest[i] = "0"
	}
	rest[0] = "S"
	rest[1] = fmt.Sprint(ppid)
	rest[2] = fmt.Sprint(pid)
	rest[3] = fmt.Sprint(pid)
	rest[6] = fmt.Sprint(flags)
	rest[11] = fmt.Sprint(utime)
	rest[12] = fmt.Sprint(stime)
	rest[15] = fmt.Sprint(20 + nice)
	rest[16] = fmt.Sprint(nice)
	rest[17] = "1"
	rest[19] = "5000"
	rest[20] = "10485760"
	rest[21] = fmt.Sprint(rssPages)
	rest[36] = fmt.Sprint(cpu)
	return fmt.Sprintf("%d (%s) %s\n", pid, comm, strings.Join(rest, " "))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ---------------------------------------------------------------------------
// stat parsing
// ---------------------------------------------------------------------------

func TestParseProcStat_CommWithParens(t *testing.T) {
	var pr model.Process
	if err := parseProcStat(statLine(42, "evil) (name", 1, 0, 7, 3, -5, 10, 2), &pr); err != nil {
		t.Fatalf("parseProcStat: %v", err)
	}
	if pr.Comm != "evil) (name" {
		t.Errorf("Comm = %q", pr.Comm)
	}
	if pr.PPID != 1 || pr.UTime != 7 || pr.STime != 3 || pr.Nice != -5 || pr.Processor != 2 {
		t.Errorf("parsed = %+v", pr)
	}
	if pr.RSS != 10*pageSize {
		t.Errorf("RSS = %d; want %d", pr.RSS, 10*pageSize)
	}
}

func TestParseProcStat_TooShort(t *testing.T) {
	var pr model.Process
	if err := parseProcStat("1 (init) S 0 1", &pr); err == nil {
		t.Error("expected error for truncated stat")
	}
}

// ---------------------------------------------------------------------------
// ProcessCollector over a fake procfs
// ---------------------------------------------------------------------------

func TestProcessCollector_ThreadsAndKernelThreads(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "100", "stat"), statLine(100, "server", 1, 0, 1, 1, 0, 4, 0))
	writeFile(t, filepath.Join(root, "100", "status"), "Name:\tserver\nTgid:\t100\nUid:\t1000\t1000\t1000\t1000\n")
	writeFile(t, filepath.Join(root, "100", "cmdline"), "/usr/bin/server\x00--port\x008080\x00")
	writeFile(t, filepath.Join(root, "100", "task", "100", "stat"), statLine(100, "server", 1, 0, 1, 1, 0, 4, 0))
	writeFile(t, filepath.Join(root, "100", "task", "101", "stat"), statLine(101, "worker", 1, 0, 1, 1, 0, 4, 0))
	writeFile(t, filepath.Join(root, "2", "stat"), statLine(2, "kthreadd", 0, pfKThreadFlag, 0, 0, 0, 0, 0))
	writeFile(t, filepath.Join(root, "self"), "")

	users := &Users{names: map[int]string{}, lookup: func(uid string) (*user.User, error) {
		return &user.User{Uid: uid, Username: "alice"}, nil
	}}
	c := &ProcessCollector{Root: root, Users: users}
	var snap model.Snapshot
	if err := c.Collect(&snap); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	byPID := map[int]model.Process{}
	for _, p := range snap.Processes {
		byPID[p.PID] = p
	}
	if len(byPID) != 3 {
		t.Fatalf("got %d tasks; want 3 (leader, thread, kthread)", len(byPID))
	}
	if p := byPID[100]; p.Cmdline != "/usr/bin/server --port 8080" || p.User != "alice" || p.UID != 1000 {
		t.Errorf("leader = %+v", p)
	}
	th := byPID[101]
	if !th.UserlandThread || th.TGID != 100 || th.PPID != 100 {
		t.Errorf("thread = %+v", th)
	}
	if th.Cmdline != "/usr/bin/server --port 8080" {
		t.Errorf("thread Cmdline = %q; want leader's", th.Cmdline)
	}
	if !byPID[2].KernelThread {
		t.Error("pid 2 should be a kernel thread")
	}
}

const pfKThreadFlag = 0x00200000

// ---------------------------------------------------------------------------
// CPU, memory, uptime
// ---------------------------------------------------------------------------

func TestCPUCollector(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "stat"),
		"cpu  100 0 50 800 50 0 0 0 0 0\ncpu0 50 0 25 400 25 0 0 0 0 0\ncpu1 50 0 25 400 25 0 0 0 0 0\nintr 1\n")
	writeFile(t, filepath.Join(root, "loadavg"), "0.50 0.40 0.30 2/345 6789\n")
	var snap model.Snapshot
	if err := (&CPUCollector{Root: root}).Collect(&snap); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if snap.CPU.NumCPUs != 2 || snap.CPU.Total.Total() != 1000 {
		t.Errorf("cpu = %+v", snap.CPU)
	}
	if snap.CPU.LoadAvg.Load1 != 0.5 || snap.CPU.LoadAvg.Running != 2 || snap.CPU.LoadAvg.Total != 345 {
		t.Errorf("loadavg = %+v", snap.CPU.LoadAvg)
	}
}

func TestMemoryCollector(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "meminfo"),
		"MemTotal:       1000 kB\nMemFree:         200 kB\nBuffers:          50 kB\nCached:          150 kB\nSwapTotal:       400 kB\nSwapFree:        100 kB\n")
	var snap model.Snapshot
	if err := (&MemoryCollector{Root: root}).Collect(&snap); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got := snap.Memory.Used(); got != 600*1024 {
		t.Errorf("Used = %d; want %d", got, 600*1024)
	}
	if got := snap.Memory.SwapUsed(); got != 300*1024 {
		t.Errorf("SwapUsed = %d", got)
	}
}

func TestSysInfoCollector_Uptime(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "uptime"), "12345.67 54321.00\n")
	var snap model.Snapshot
	if err := (&SysInfoCollector{Root: root}).Collect(&snap); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if snap.Uptime != 12345.67 || snap.SysInfo == nil {
		t.Errorf("Uptime = %v, SysInfo = %v", snap.Uptime, snap.SysInfo)
	}
}

// ---------------------------------------------------------------------------
// Inspector
// ---------------------------------------------------------------------------

func TestInspector_EnvironmentAndFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "7", "environ"), "HOME=/root\x00TERM=xterm\x00")
	fdDir := filepath.Join(root, "7", "fd")
	if err := os.MkdirAll(fdDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for fd, target := range map[string]string{"10": "/var/log/a", "2": "/dev/pts/0"} {
		if err := os.Symlink(target, filepath.Join(fdDir, fd)); err != nil {
			t.Fatal(err)
		}
	}

	in := Inspector{Root: root}
	env, err := in.Environment(7)
	if err != nil || len(env) != 2 || env[1] != "TERM=xterm" {
		t.Errorf("Environment = %q, %v", env, err)
	}
	files, err := in.OpenFiles(7)
	if err != nil || len(files) != 2 || files[0].FD != 2 || files[1].Target != "/var/log/a" {
		t.Errorf("OpenFiles = %+v, %v", files, err)
	}
	if _, err := in.Environment(8); err == nil {
		t.Error("Environment of a missing pid should fail")
	}
}

func TestParseLocks(t *testing.T) {
	lines := []string{
		"1: POSIX  ADVISORY  WRITE 1234 08:01:5678 0 EOF",
		"1: -> POSIX  ADVISORY  WRITE 999 08:01:5678 0 EOF",
		"2: FLOCK  ADVISORY  READ  4321 00:1a:42 0 EOF",
	}
	got := parseLocks(lines, 1234)
	if len(got) != 1 {
		t.Fatalf("got %d locks; want 1", len(got))
	}
	if got[0].Class != "POSIX" || got[0].Dev != "08:01" || got[0].Inode != 5678 || got[0].End != "EOF" {
		t.Errorf("lock = %+v", got[0])
	}
}

// ---------------------------------------------------------------------------
// Users and signals
// ---------------------------------------------------------------------------

func TestUsers_CachesAndFallsBack(t *testing.T) {
	calls := 0
	u := &Users{names: map[int]string{}, lookup: func(uid string) (*user.User, error) {
		calls++
		return nil, user.UnknownUserIdError(0)
	}}
	if got := u.Name(4242); got != "4242" {
		t.Errorf("Name = %q; want numeric fallback", got)
	}
	u.Name(4242)
	if calls != 1 {
		t.Errorf("lookup called %d times; want 1", calls)
	}
}

func TestSignals_IncludesTermAndKill(t *testing.T) {
	var term, kill bool
	for _, s := range Signals() {
		if s.Number == 15 && s.Name == "SIGTERM" {
			term = true
		}
		if s.Number == 9 && s.Name == "SIGKILL" {
			kill = true
		}
	}
	if !term || !kill {
		t.Error("Signals() should list SIGTERM(15) and SIGKILL(9)")
	}
}
