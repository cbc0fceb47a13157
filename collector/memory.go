package collector

import (
	"fmt"
	"path/filepath"

	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/util"
)

// MemoryCollector reads /proc/meminfo.
type MemoryCollector struct {
	Root string
}

func (m *MemoryCollector) Name() string { return "memory" }

func (m *MemoryCollector) Collect(snap *model.Snapshot) error {
	kv, err := util.ParseKeyValueFile(filepath.Join(rootOr(m.Root), "meminfo"))
	if err != nil {
		return fmt.Errorf("read /proc/meminfo: %w", err)
	}
	parseMeminfo(kv, &snap.Memory)
	return nil
}

func parseMeminfo(kv map[string]string, mem *model.MemoryMetrics) {
	mem.Total = util.ParseKB(kv["MemTotal"])
	mem.Free = util.ParseKB(kv["MemFree"])
	mem.Available = util.ParseKB(kv["MemAvailable"])
	mem.Buffers = util.ParseKB(kv["Buffers"])
	mem.Cached = util.ParseKB(kv["Cached"])
	mem.Shmem = util.ParseKB(kv["Shmem"])
	mem.SReclaimable = util.ParseKB(kv["SReclaimable"])
	mem.SwapTotal = util.ParseKB(kv["SwapTotal"])
	mem.SwapFree = util.ParseKB(kv["SwapFree"])
	mem.SwapCached = util.ParseKB(kv["SwapCached"])
}
