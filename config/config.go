package config

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/ftahirops/ptop/model"
)

// MeterMode selects how a header meter is drawn.
type MeterMode string

const (
	MeterBar  MeterMode = "bar"
	MeterText MeterMode = "text"
)

// Meter is one configured header meter.
type Meter struct {
	Name string    `toml:"name"`
	Mode MeterMode `toml:"mode"`
}

// Delay bounds, in tenths of a second.
const (
	MinDelay     = 1
	MaxDelay     = 255
	DefaultDelay = 15
)

// Settings is every user option persisted between runs.
type Settings struct {
	Fields            []model.Field `toml:"fields"`
	SortKey           model.Field   `toml:"sort_key"`
	SortDirection     int           `toml:"sort_direction"`
	TreeSortKey       model.Field   `toml:"tree_sort_key"`
	TreeSortDirection int           `toml:"tree_sort_direction"`

	TreeView             bool `toml:"tree_view"`
	TreeViewAlwaysByPID  bool `toml:"tree_view_always_by_pid"`
	AllBranchesCollapsed bool `toml:"all_branches_collapsed"`
	ShadowOtherUsers     bool `toml:"shadow_other_users"`
	HideKernelThreads    bool `toml:"hide_kernel_threads"`
	HideUserlandThreads  bool `toml:"hide_userland_threads"`
	HighlightThreads     bool `toml:"highlight_threads"`
	ShowThreadNames      bool `toml:"show_thread_names"`
	ShowProgramPath      bool `toml:"show_program_path"`
	HighlightBaseName    bool `toml:"highlight_base_name"`
	ShowMergedCommand    bool `toml:"show_merged_command"`
	HighlightMegabytes   bool `toml:"highlight_megabytes"`
	HighlightChanges     bool `toml:"highlight_changes"`
	HighlightDelaySecs   int  `toml:"highlight_delay_secs"`
	HeaderMargin         bool `toml:"header_margin"`
	DetailedCPUTime      bool `toml:"detailed_cpu_time"`
	CountCPUsFromOne     bool `toml:"count_cpus_from_one"`
	ShowCPUUsage         bool `toml:"show_cpu_usage"`
	EnableMouse          bool `toml:"enable_mouse"`
	Delay                int  `toml:"delay"`
	ColorScheme          int  `toml:"color_scheme"`
	HideFunctionBar      int  `toml:"hide_function_bar"`

	LeftMeters  []Meter `toml:"left_meters"`
	RightMeters []Meter `toml:"right_meters"`

	// Changed is set by every mutation and cleared after a successful save.
	Changed bool `toml:"-"`
}

// Default returns settings with sensible defaults.
func Default() *Settings {
	return &Settings{
		Fields:               slices.Clone(model.DefaultFields),
		SortKey:              model.FieldCPU,
		SortDirection:        -1,
		TreeSortKey:          model.FieldPID,
		TreeSortDirection:    1,
		ShadowOtherUsers:     false,
		HighlightBaseName:    true,
		HighlightMegabytes:   true,
		HighlightThreads:     true,
		ShowProgramPath:      true,
		HeaderMargin:         true,
		ShowCPUUsage:         true,
		EnableMouse:          true,
		HighlightDelaySecs:   5,
		Delay:                DefaultDelay,
		AllBranchesCollapsed: false,
		LeftMeters: []Meter{
			{Name: "AllCPUs", Mode: MeterBar},
			{Name: "Memory", Mode: MeterBar},
			{Name: "Swap", Mode: MeterBar},
		},
		RightMeters: []Meter{
			{Name: "Tasks", Mode: MeterText},
			{Name: "LoadAverage", Mode: MeterText},
			{Name: "Uptime", Mode: MeterText},
		},
	}
}

// Path returns ~/.config/ptop/ptoprc.toml (or under XDG_CONFIG_HOME).
// Returns empty string if home directory cannot be determined.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "ptop", "ptoprc.toml")
}

// SetSortKey makes f the sort column of the active mode and resets the
// direction to the column's default.
func (s *Settings) SetSortKey(f model.Field) {
	dir := 1
	if f.DefaultSortDesc() {
		dir = -1
	}
	if s.treeOrdering() {
		s.TreeSortKey = f
		s.TreeSortDirection = dir
	} else {
		s.SortKey = f
		s.SortDirection = dir
	}
	s.Changed = true
}

// InvertSortOrder flips the direction of the active mode.
func (s *Settings) InvertSortOrder() {
	if s.treeOrdering() {
		s.TreeSortDirection = flip(s.TreeSortDirection)
	} else {
		s.SortDirection = flip(s.SortDirection)
	}
	s.Changed = true
}

// ActiveSortKey returns the column the process list is ordered by.
func (s *Settings) ActiveSortKey() model.Field {
	if s.treeOrdering() {
		return s.TreeSortKey
	}
	return s.SortKey
}

// ActiveDirection returns 1 for ascending or -1 for descending.
func (s *Settings) ActiveDirection() int {
	if s.treeOrdering() {
		return normDir(s.TreeSortDirection)
	}
	return normDir(s.SortDirection)
}

func (s *Settings) treeOrdering() bool {
	return s.TreeView && !s.TreeViewAlwaysByPID
}

// RefreshMillis returns the refresh interval in milliseconds.
func (s *Settings) RefreshMillis() int {
	return ClampDelay(s.Delay) * 100
}

// ClampDelay bounds d to [MinDelay, MaxDelay].
func ClampDelay(d int) int {
	return min(max(d, MinDelay), MaxDelay)
}

// Sanitize repairs values a hand-edited file may carry.
func (s *Settings) Sanitize() {
	s.Fields = slices.DeleteFunc(s.Fields, func(f model.Field) bool { return !f.Valid() })
	if len(s.Fields) == 0 {
		s.Fields = slices.Clone(model.DefaultFields)
	}
	if !s.SortKey.Valid() {
		s.SortKey = model.FieldCPU
	}
	if !s.TreeSortKey.Valid() {
		s.TreeSortKey = model.FieldPID
	}
	s.SortDirection = normDir(s.SortDirection)
	s.TreeSortDirection = normDir(s.TreeSortDirection)
	s.Delay = ClampDelay(s.Delay)
	s.HideFunctionBar = min(max(s.HideFunctionBar, 0), 2)
	if s.HighlightDelaySecs < 1 {
		s.HighlightDelaySecs = 1
	}
}

func flip(d int) int {
	if normDir(d) == 1 {
		return -1
	}
	return 1
}

func normDir(d int) int {
	if d < 0 {
		return -1
	}
	return 1
}
