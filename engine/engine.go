package engine

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ftahirops/ptop/collector"
	"github.com/ftahirops/ptop/model"
)

// Engine samples the system and derives per-tick rates.
type Engine struct {
	registry *collector.Registry
	logger   *log.Logger
	prev     *model.Snapshot
	warned   map[string]bool
	tickMu   sync.Mutex // serializes Tick() calls
}

// NewEngine creates an engine reading procfs at root.
func NewEngine(root string, users *collector.Users, logger *log.Logger) *Engine {
	return NewEngineWithRegistry(collector.NewRegistry(root, users), logger)
}

// NewEngineWithRegistry creates an engine over an explicit collector set.
func NewEngineWithRegistry(reg *collector.Registry, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{registry: reg, logger: logger, warned: make(map[string]bool)}
}

// Tick performs one collection cycle. Rates are nil on the first call.
func (e *Engine) Tick() (*model.Snapshot, *model.Rates) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	snap := &model.Snapshot{Timestamp: time.Now()}
	for _, err := range e.registry.CollectAll(snap) {
		msg := err.Error()
		snap.Errors = append(snap.Errors, msg)
		if !e.warned[msg] {
			e.warned[msg] = true
			e.logger.Warn("collector failed", "err", err)
		}
	}

	var rates *model.Rates
	if e.prev != nil {
		r := ComputeRates(e.prev, snap)
		rates = &r
	} else {
		computeMemPercent(snap)
	}
	e.prev = snap
	return snap, rates
}
