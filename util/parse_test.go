package util

import "testing"

func TestParseKeyValueLines(t *testing.T) {
	m := ParseKeyValueLines([]string{
		"Name:\tbash",
		"Uid:\t1000\t1000\t1000\t1000",
		"VmRSS:\t    4096 kB",
		"",
		"pgfault 42",
	})
	if m["Name"] != "bash" {
		t.Errorf("Name = %q; want bash", m["Name"])
	}
	if ParseInt(firstField(m["Uid"])) != 1000 {
		t.Errorf("Uid = %q", m["Uid"])
	}
	if got := ParseKB(m["VmRSS"]); got != 4096*1024 {
		t.Errorf("ParseKB(VmRSS) = %d", got)
	}
	if m["pgfault"] != "42" {
		t.Errorf("pgfault = %q; want 42", m["pgfault"])
	}
}

func firstField(s string) string {
	for i, r := range s {
		if r == '\t' || r == ' ' {
			return s[:i]
		}
	}
	return s
}

func TestSplitNul(t *testing.T) {
	got := SplitNul([]byte("/bin/sh\x00-c\x00echo hi\x00"))
	if len(got) != 3 || got[0] != "/bin/sh" || got[2] != "echo hi" {
		t.Errorf("SplitNul = %q", got)
	}
	if SplitNul([]byte("\x00")) != nil {
		t.Error("SplitNul of empty record should be nil")
	}
}

func TestCPUPct_CounterWrap(t *testing.T) {
	if got := CPUPct(100, 50, 200, 300); got != 0 {
		t.Errorf("CPUPct with wrapped active = %v; want 0", got)
	}
	if got := CPUPct(0, 50, 0, 100); got != 50 {
		t.Errorf("CPUPct = %v; want 50", got)
	}
}

func TestPercent_Clamps(t *testing.T) {
	if got := Percent(3, 2); got != 100 {
		t.Errorf("Percent(3,2) = %v; want 100", got)
	}
	if got := Percent(1, 0); got != 0 {
		t.Errorf("Percent(1,0) = %v; want 0", got)
	}
}
