package collector

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Operator performs privileged operations on processes.
type Operator struct{}

// Signal delivers sig to pid.
func (Operator) Signal(pid int, sig unix.Signal) error {
	if err := unix.Kill(pid, sig); err != nil {
		return fmt.Errorf("kill %d: %w", pid, err)
	}
	return nil
}

// Renice sets the nice value of pid.
func (Operator) Renice(pid, nice int) error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, pid, nice); err != nil {
		return fmt.Errorf("setpriority %d: %w", pid, err)
	}
	return nil
}

// Affinity returns the CPUs pid may run on.
func (Operator) Affinity(pid int) ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(pid, &set); err != nil {
		return nil, fmt.Errorf("sched_getaffinity %d: %w", pid, err)
	}
	var cpus []int
	for i := 0; len(cpus) < set.Count(); i++ {
		if set.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	return cpus, nil
}

// SetAffinity restricts pid to cpus.
func (Operator) SetAffinity(pid int, cpus []int) error {
	var set unix.CPUSet
	for _, c := range cpus {
		set.Set(c)
	}
	if err := unix.SchedSetaffinity(pid, &set); err != nil {
		return fmt.Errorf("sched_setaffinity %d: %w", pid, err)
	}
	return nil
}

// SignalInfo names one entry of the signal picker.
type SignalInfo struct {
	Number int
	Name   string
}

// Signals lists the standard signals 1..31 in numeric order.
func Signals() []SignalInfo {
	out := make([]SignalInfo, 0, 31)
	for n := 1; n <= 31; n++ {
		name := unix.SignalName(unix.Signal(n))
		if name == "" {
			continue
		}
		out = append(out, SignalInfo{Number: n, Name: name})
	}
	return out
}
