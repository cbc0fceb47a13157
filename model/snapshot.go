package model

import "time"

// Snapshot holds a point-in-time system state.
type Snapshot struct {
	Timestamp time.Time
	Processes []Process
	CPU       CPUMetrics
	Memory    MemoryMetrics
	Uptime    float64 // seconds
	SysInfo   *SysInfo
	Errors    []string
}

// Rates holds values derived from two consecutive snapshots.
type Rates struct {
	DeltaSec float64
	CPU      CPUUsage
	PerCPU   []CPUUsage
}

// TaskCounts summarises a process list for the Tasks meter.
type TaskCounts struct {
	Processes     int
	Threads       int
	KernelThreads int
	Running       int
}

// CountTasks tallies processes, threads and running tasks.
func CountTasks(procs []Process) TaskCounts {
	var tc TaskCounts
	for i := range procs {
		p := &procs[i]
		switch {
		case p.IsKernelThread():
			tc.KernelThreads++
		case p.UserlandThread:
			tc.Threads++
		default:
			tc.Processes++
		}
		if p.State == "R" {
			tc.Running++
		}
	}
	return tc
}
