package collector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/util"
)

// CPUCollector reads /proc/stat and /proc/loadavg.
type CPUCollector struct {
	Root string
}

func (c *CPUCollector) Name() string { return "cpu" }

func (c *CPUCollector) Collect(snap *model.Snapshot) error {
	root := rootOr(c.Root)
	lines, err := util.ReadFileLines(filepath.Join(root, "stat"))
	if err != nil {
		return fmt.Errorf("read /proc/stat: %w", err)
	}
	parseStat(lines, &snap.CPU)

	content, err := util.ReadFileString(filepath.Join(root, "loadavg"))
	if err != nil {
		return fmt.Errorf("read /proc/loadavg: %w", err)
	}
	return parseLoadAvg(content, &snap.CPU.LoadAvg)
}

func parseStat(lines []string, cpu *model.CPUMetrics) {
	cpu.PerCPU = cpu.PerCPU[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, "cpu ") {
			cpu.Total = parseCPULine(line)
		} else if strings.HasPrefix(line, "cpu") {
			cpu.PerCPU = append(cpu.PerCPU, parseCPULine(line))
		}
	}
	cpu.NumCPUs = len(cpu.PerCPU)
}

func parseCPULine(line string) model.CPUTimes {
	// fields[0] = "cpu" or "cpu0", then user nice system idle iowait irq softirq steal guest guest_nice
	fields := strings.Fields(line)
	vals := make([]uint64, 10)
	for i := 1; i < len(fields) && i <= len(vals); i++ {
		vals[i-1] = util.ParseUint64(fields[i])
	}
	return model.CPUTimes{
		User:      vals[0],
		Nice:      vals[1],
		System:    vals[2],
		Idle:      vals[3],
		IOWait:    vals[4],
		IRQ:       vals[5],
		SoftIRQ:   vals[6],
		Steal:     vals[7],
		Guest:     vals[8],
		GuestNice: vals[9],
	}
}

func parseLoadAvg(content string, la *model.LoadAvg) error {
	fields := strings.Fields(content)
	if len(fields) < 5 {
		return fmt.Errorf("unexpected /proc/loadavg format")
	}
	la.Load1 = util.ParseFloat64(fields[0])
	la.Load5 = util.ParseFloat64(fields[1])
	la.Load15 = util.ParseFloat64(fields[2])

	// fields[3] = "running/total"
	if running, total, ok := strings.Cut(fields[3], "/"); ok {
		la.Running = util.ParseUint64(running)
		la.Total = util.ParseUint64(total)
	}
	return nil
}
