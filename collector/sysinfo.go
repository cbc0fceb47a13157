package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/util"
	"golang.org/x/sys/unix"
)

// SysInfoCollector collects the hostname and kernel release once and the
// uptime on every sample.
type SysInfoCollector struct {
	Root string

	once   sync.Once
	cached *model.SysInfo
}

func (s *SysInfoCollector) Name() string { return "sysinfo" }

func (s *SysInfoCollector) Collect(snap *model.Snapshot) error {
	s.once.Do(func() {
		s.cached = collectSysInfo()
	})
	snap.SysInfo = s.cached

	content, err := util.ReadFileString(filepath.Join(rootOr(s.Root), "uptime"))
	if err != nil {
		return fmt.Errorf("read /proc/uptime: %w", err)
	}
	snap.Uptime = util.ParseFloat64(strings.Fields(content + " 0")[0])
	return nil
}

func collectSysInfo() *model.SysInfo {
	info := &model.SysInfo{}
	info.Hostname, _ = os.Hostname()
	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		info.Kernel = unix.ByteSliceToString(uts.Release[:])
	}
	return info
}
