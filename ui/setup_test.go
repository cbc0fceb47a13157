package ui

import (
	"slices"
	"testing"

	"github.com/ftahirops/ptop/config"
	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/ui/theme"
)

func TestSetup_OpensWithMeters(t *testing.T) {
	h := newHarness(t, treeProcs())
	h.press("f2")
	top := h.st.Screens.Top()
	if top.Name != "setup" {
		t.Fatalf("top session = %q", top.Name)
	}
	if len(top.Slots) != 4 {
		t.Errorf("meters page has %d slots, want categories + 3", len(top.Slots))
	}
}

func TestSetup_SwitchCategory(t *testing.T) {
	h := newHarness(t, treeProcs())
	h.press("f2", "down")
	top := h.st.Screens.Top()
	if len(top.Slots) != 2 {
		t.Fatalf("display page has %d slots", len(top.Slots))
	}
	if got := top.Slots[1].Panel.Header.String(); got != "Display options" {
		t.Errorf("page header = %q", got)
	}
}

func TestSetup_ToggleOptionSavesOnClose(t *testing.T) {
	h := newHarness(t, treeProcs())
	h.press("f2", "down", "right", " ")
	if !h.st.Settings.TreeView {
		t.Fatalf("tree view option not toggled")
	}
	if h.saves != 0 {
		t.Errorf("saved before close")
	}
	h.press("esc")
	if h.st.Screens.Depth() != 1 {
		t.Fatalf("setup still open")
	}
	if h.saves != 1 {
		t.Errorf("saves = %d, want 1", h.saves)
	}
}

func TestSetup_NoChangeNoSave(t *testing.T) {
	h := newHarness(t, treeProcs())
	h.press("f2", "f10")
	if h.saves != 0 {
		t.Errorf("saved without changes")
	}
}

func TestSetup_UpdateInterval(t *testing.T) {
	h := newHarness(t, treeProcs())
	h.press("f2", "down", "right", "end", "up", "+", "+")
	if h.st.Settings.Delay != config.DefaultDelay+2 {
		t.Errorf("delay = %d", h.st.Settings.Delay)
	}
	h.press("-")
	if h.st.Settings.Delay != config.DefaultDelay+1 {
		t.Errorf("delay = %d", h.st.Settings.Delay)
	}
}

func TestSetup_ColorScheme(t *testing.T) {
	h := newHarness(t, treeProcs())
	h.press("f2", "down", "down", "right", "down", " ")
	if h.st.Settings.ColorScheme != 1 {
		t.Errorf("scheme = %d", h.st.Settings.ColorScheme)
	}
	if h.st.Theme.Scheme() != theme.Scheme(1) {
		t.Errorf("theme not switched")
	}
}

func TestSetup_RemoveAndAddColumn(t *testing.T) {
	h := newHarness(t, treeProcs())
	h.press("f2", "down", "down", "down", "right", "f9")
	if slices.Contains(h.st.Settings.Fields, model.FieldPID) {
		t.Fatalf("PID column not removed: %v", h.st.Settings.Fields)
	}
	// focus the available list, PID is its first entry
	h.press("right", "home", "enter")
	if h.st.Settings.Fields[0] != model.FieldPID {
		t.Errorf("fields = %v, want PID first", h.st.Settings.Fields)
	}
}

func TestSetup_MeterColumnEdits(t *testing.T) {
	h := newHarness(t, treeProcs())
	h.press("f2", "right")
	left := h.st.Settings.LeftMeters
	if len(left) != 3 || left[0].Name != "AllCPUs" {
		t.Fatalf("left = %v", left)
	}
	h.press("f8")
	if h.st.Settings.LeftMeters[1].Name != "AllCPUs" {
		t.Errorf("move down: %v", h.st.Settings.LeftMeters)
	}
	h.press(" ")
	if h.st.Settings.LeftMeters[1].Mode != config.MeterText {
		t.Errorf("style not cycled")
	}
	h.press("f9")
	if len(h.st.Settings.LeftMeters) != 2 {
		t.Errorf("delete: %v", h.st.Settings.LeftMeters)
	}
	// available meters: first entry is the CPU average
	h.press("right", "right", "home", "f6")
	right := h.st.Settings.RightMeters
	if last := right[len(right)-1]; last.Name != "CPU" || last.Mode != config.MeterBar {
		t.Errorf("added %v", last)
	}
}
