package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ftahirops/ptop/collector"
	"github.com/ftahirops/ptop/config"
	"github.com/ftahirops/ptop/engine"
	"github.com/ftahirops/ptop/model"
	"github.com/ftahirops/ptop/ui"
	"github.com/ftahirops/ptop/ui/theme"
)

// Version is set at build time via ldflags.
var Version = "0.1.0"

// selfUser is the -u value used when the flag is given without a name.
const selfUser = "\x00self"

// Delay bounds accepted on the command line, in tenths of a second.
const (
	minCLIDelay = 1
	maxCLIDelay = 100
)

// flags holds the raw command-line values.
type flags struct {
	delay     int
	sortKey   string
	user      string
	pids      string
	filter    string
	tree      bool
	noColor   bool
	noMouse   bool
	noUnicode bool
	highlight int
	config    string
	logFile   string
	logLevel  string
}

// Run parses the command line and starts the application.
func Run() error {
	return newRootCmd(os.Stdout).Execute()
}

func newRootCmd(out io.Writer) *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:     "ptop",
		Short:   "Interactive process viewer",
		Version: Version,
		Long: `ptop is an interactive process viewer for Linux.

It lists running processes sorted by any column, shows them as a tree,
filters and searches them incrementally, and sends signals, changes
priorities and CPU affinity for one or many tagged processes.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.sortKey == "help" {
				printSortKeys(cmd.OutOrStdout())
				return nil
			}
			return run(cmd, &f)
		},
	}
	root.SetOut(out)
	root.SetVersionTemplate("ptop {{.Version}}\n")

	fl := root.Flags()
	fl.IntVarP(&f.delay, "delay", "d", config.DefaultDelay, "update interval in tenths of seconds")
	fl.StringVarP(&f.sortKey, "sort-key", "s", "", "sort by COLUMN in list view (try \"help\")")
	fl.StringVarP(&f.user, "user", "u", "", "show only processes of a given user")
	fl.Lookup("user").NoOptDefVal = selfUser
	fl.StringVarP(&f.pids, "pid", "p", "", "show only the given PIDs (comma separated)")
	fl.StringVarP(&f.filter, "filter", "F", "", "show only commands matching the given filter")
	fl.BoolVarP(&f.tree, "tree", "t", false, "show the tree view")
	fl.BoolVarP(&f.noColor, "no-color", "C", false, "use a monochrome color scheme")
	fl.BoolVarP(&f.noMouse, "no-mouse", "M", false, "disable the mouse")
	fl.BoolVarP(&f.noUnicode, "no-unicode", "U", false, "do not use unicode but plain ASCII")
	fl.IntVarP(&f.highlight, "highlight-changes", "H", 0, "highlight new and old processes, optionally for SECS seconds")
	fl.Lookup("highlight-changes").NoOptDefVal = "5"
	fl.StringVar(&f.config, "config", "", "settings file (default $XDG_CONFIG_HOME/ptop/ptoprc.toml)")
	fl.StringVar(&f.logFile, "log-file", "", "write diagnostics to this file")
	fl.StringVar(&f.logLevel, "log-level", "", "diagnostics level (debug, info, warn, error)")
	fl.BoolP("version", "V", false, "print version and exit")

	root.AddCommand(newKeysCmd())
	return root
}

func run(cmd *cobra.Command, f *flags) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal")
	}

	rt, err := config.LoadRuntime(map[string]string{
		"config":    f.config,
		"log":       f.logFile,
		"log_level": f.logLevel,
	})
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(rt)
	if err != nil {
		return err
	}
	defer closeLog()

	store := config.NewStore(rt.Config, logger)
	settings, err := store.Load()
	if err != nil {
		logger.Warn("using default settings", "err", err)
	}

	table := engine.NewTable(settings)
	if err := applyFlags(cmd, f, settings, table); err != nil {
		return err
	}

	noColor := f.noColor || settings.ColorScheme == int(theme.SchemeMonochrome)
	st := ui.NewState(ui.Options{
		Settings: settings,
		Table:    table,
		Ops:      collector.Operator{},
		Inspect:  collector.Inspector{Root: rt.Proc},
		Logger:   logger,
		Persist:  store.Save,
		Renderer: theme.NewRenderer(os.Stdout, noColor),
		Unicode:  !f.noUnicode,
		Filter:   f.filter,
	})

	eng := engine.NewEngine(rt.Proc, collector.NewUsers(), logger)
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if settings.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	logger.Info("starting", "version", Version, "settings", store.Path(), "delay", settings.Delay)
	if _, err := tea.NewProgram(ui.NewModel(st, eng), opts...).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// newLogger writes to the runtime log file, or nowhere so the alternate
// screen stays clean.
func newLogger(rt config.Runtime) (*log.Logger, func(), error) {
	if rt.Log == "" {
		return log.New(io.Discard), func() {}, nil
	}
	level, err := log.ParseLevel(rt.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", rt.LogLevel, err)
	}
	fh, err := os.OpenFile(rt.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(fh, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "ptop",
	})
	return logger, func() { _ = fh.Close() }, nil
}

// applyFlags folds command-line overrides into the loaded settings. The
// overrides do not mark the settings changed.
func applyFlags(cmd *cobra.Command, f *flags, s *config.Settings, table *engine.Table) error {
	fl := cmd.Flags()
	if fl.Changed("delay") {
		s.Delay = min(max(f.delay, minCLIDelay), maxCLIDelay)
	}
	if f.sortKey != "" {
		field, err := parseSortKey(f.sortKey)
		if err != nil {
			return err
		}
		s.SortKey = field
		s.SortDirection = 1
		if field.DefaultSortDesc() {
			s.SortDirection = -1
		}
		s.TreeView = false
	}
	if fl.Changed("user") {
		uid, err := resolveUser(f.user)
		if err != nil {
			return err
		}
		table.UserID = uid
	}
	if f.pids != "" {
		pids, err := parsePIDs(f.pids)
		if err != nil {
			return err
		}
		table.PIDMatch = pids
	}
	if f.tree {
		s.TreeView = true
	}
	if f.noMouse {
		s.EnableMouse = false
	}
	if f.noColor {
		s.ColorScheme = int(theme.SchemeMonochrome)
	}
	if fl.Changed("highlight-changes") {
		if f.highlight < 1 {
			return fmt.Errorf("invalid highlight delay %d", f.highlight)
		}
		s.HighlightChanges = true
		s.HighlightDelaySecs = f.highlight
	}
	s.Changed = false
	return nil
}

// parseSortKey resolves a column name and suggests the closest one when
// it is unknown.
func parseSortKey(name string) (model.Field, error) {
	if field, ok := model.FieldByName(name); ok {
		return field, nil
	}
	best, bestDist := "", -1
	for _, field := range model.AllFields() {
		d := levenshtein.ComputeDistance(strings.ToUpper(name), strings.ToUpper(field.Name()))
		if bestDist < 0 || d < bestDist {
			best, bestDist = field.Name(), d
		}
	}
	if bestDist >= 0 && bestDist <= 2 {
		return 0, fmt.Errorf("invalid column %q, did you mean %q?", name, best)
	}
	return 0, fmt.Errorf("invalid column %q (try --sort-key=help)", name)
}

func printSortKeys(w io.Writer) {
	for _, field := range model.AllFields() {
		fmt.Fprintf(w, "%-12s %s\n", field.Name(), field.Description())
	}
}

func resolveUser(name string) (int, error) {
	if name == selfUser {
		return os.Getuid(), nil
	}
	uid, err := collector.LookupUID(name)
	if err != nil {
		return -1, fmt.Errorf("invalid user %q: %w", name, err)
	}
	return uid, nil
}

// parsePIDs reads a comma separated PID list.
func parsePIDs(s string) (map[int]bool, error) {
	out := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pid, err := strconv.Atoi(part)
		if err != nil || pid <= 0 {
			return nil, fmt.Errorf("invalid PID %q", part)
		}
		out[pid] = true
	}
	if len(out) == 0 {
		return nil, errors.New("empty PID list")
	}
	return out, nil
}
