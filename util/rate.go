package util

// CPUPct computes CPU usage percentage from two tick values and total ticks.
func CPUPct(prevActive, currActive, prevTotal, currTotal uint64) float64 {
	dtotal := Delta(prevTotal, currTotal)
	if dtotal == 0 {
		return 0
	}
	return float64(Delta(prevActive, currActive)) / float64(dtotal) * 100
}

// Delta returns curr - prev, or 0 if curr < prev (counter wrap).
func Delta(prev, curr uint64) uint64 {
	if curr < prev {
		return 0
	}
	return curr - prev
}

// Percent returns part/total*100 clamped to [0, 100].
func Percent(part, total float64) float64 {
	if total <= 0 || part <= 0 {
		return 0
	}
	pct := part / total * 100
	if pct > 100 {
		return 100
	}
	return pct
}
