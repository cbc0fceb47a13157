package model

// CPUTimes holds CPU time counters from /proc/stat (in jiffies/ticks).
type CPUTimes struct {
	User      uint64
	Nice      uint64
	System    uint64
	Idle      uint64
	IOWait    uint64
	IRQ       uint64
	SoftIRQ   uint64
	Steal     uint64
	Guest     uint64
	GuestNice uint64
}

// Total returns total jiffies.
func (c CPUTimes) Total() uint64 {
	return c.User + c.Nice + c.System + c.Idle + c.IOWait +
		c.IRQ + c.SoftIRQ + c.Steal + c.Guest + c.GuestNice
}

// Active returns non-idle jiffies.
func (c CPUTimes) Active() uint64 {
	return c.Total() - c.Idle - c.IOWait
}

// LoadAvg holds /proc/loadavg data.
type LoadAvg struct {
	Load1   float64
	Load5   float64
	Load15  float64
	Running uint64
	Total   uint64
}

// CPUMetrics holds all CPU-related counters.
type CPUMetrics struct {
	Total   CPUTimes
	PerCPU  []CPUTimes
	LoadAvg LoadAvg
	NumCPUs int
}

// MemoryMetrics holds the /proc/meminfo values the meters use, in bytes.
type MemoryMetrics struct {
	Total        uint64
	Free         uint64
	Available    uint64
	Buffers      uint64
	Cached       uint64
	Shmem        uint64
	SReclaimable uint64
	SwapTotal    uint64
	SwapFree     uint64
	SwapCached   uint64
}

// Used returns memory in use excluding buffers and page cache.
func (m MemoryMetrics) Used() uint64 {
	used := m.Total - m.Free
	cache := m.Buffers + m.Cached + m.SReclaimable
	cache -= min(m.Shmem, cache)
	if cache > used {
		return 0
	}
	return used - cache
}

// SwapUsed returns swap in use.
func (m MemoryMetrics) SwapUsed() uint64 {
	if m.SwapFree > m.SwapTotal {
		return 0
	}
	return m.SwapTotal - m.SwapFree
}

// CPUUsage is the per-tick CPU breakdown derived from two samples, in percent.
type CPUUsage struct {
	User   float64
	Nice   float64
	System float64
	IRQ    float64
	IOWait float64
	Steal  float64
	Busy   float64
}

// SysInfo holds host facts that do not change between samples.
type SysInfo struct {
	Hostname string
	Kernel   string
}
