package engine

import (
	"time"

	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/util"
)

// ComputeRates derives CPU usage between two snapshots and fills the
// per-process CPU% and MEM% of curr.
func ComputeRates(prev, curr *model.Snapshot) model.Rates {
	dt := curr.Timestamp.Sub(prev.Timestamp)
	if dt <= 0 {
		dt = time.Second
	}
	r := model.Rates{DeltaSec: dt.Seconds()}
	r.CPU = cpuUsage(prev.CPU.Total, curr.CPU.Total)
	for i := range curr.CPU.PerCPU {
		var p model.CPUTimes
		if i < len(prev.CPU.PerCPU) {
			p = prev.CPU.PerCPU[i]
		}
		r.PerCPU = append(r.PerCPU, cpuUsage(p, curr.CPU.PerCPU[i]))
	}
	computeProcessRates(prev, curr)
	computeMemPercent(curr)
	return r
}

func cpuUsage(pt, ct model.CPUTimes) model.CPUUsage {
	dtotal := util.Delta(pt.Total(), ct.Total())
	if dtotal == 0 {
		return model.CPUUsage{}
	}
	pct := func(pv, cv uint64) float64 {
		return float64(util.Delta(pv, cv)) / float64(dtotal) * 100
	}
	return model.CPUUsage{
		User:   pct(pt.User, ct.User),
		Nice:   pct(pt.Nice, ct.Nice),
		System: pct(pt.System, ct.System),
		IRQ:    pct(pt.IRQ+pt.SoftIRQ, ct.IRQ+ct.SoftIRQ),
		IOWait: pct(pt.IOWait, ct.IOWait),
		Steal:  pct(pt.Steal, ct.Steal),
		Busy:   util.CPUPct(pt.Active(), ct.Active(), pt.Total(), ct.Total()),
	}
}

// computeProcessRates sets CPUPercent as the share of one CPU each task
// used over the sampling period.
func computeProcessRates(prev, curr *model.Snapshot) {
	ncpu := curr.CPU.NumCPUs
	if ncpu < 1 {
		ncpu = 1
	}
	period := float64(util.Delta(prev.CPU.Total.Total(), curr.CPU.Total.Total())) / float64(ncpu)
	if period <= 0 {
		return
	}
	prevTime := make(map[int]uint64, len(prev.Processes))
	for i := range prev.Processes {
		p := &prev.Processes[i]
		prevTime[p.PID] = p.TotalTime()
	}
	limit := float64(ncpu) * 100
	for i := range curr.Processes {
		p := &curr.Processes[i]
		before, ok := prevTime[p.PID]
		if !ok {
			continue
		}
		pct := float64(util.Delta(before, p.TotalTime())) / period * 100
		p.CPUPercent = min(pct, limit)
	}
}

func computeMemPercent(snap *model.Snapshot) {
	total := float64(snap.Memory.Total)
	for i := range snap.Processes {
		p := &snap.Processes[i]
		p.MemPercent = util.Percent(float64(p.RSS), total)
	}
}
