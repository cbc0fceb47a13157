package engine

import "github.com/ftahirops/ptop/model"

// Ticker abstracts a data source that can produce snapshots.
type Ticker interface {
	Tick() (*model.Snapshot, *model.Rates)
}

// StaticTicker replays a fixed snapshot; tests and demos use it.
type StaticTicker struct {
	Snap  *model.Snapshot
	Rates *model.Rates
}

// Tick returns a copy of the fixed snapshot so the caller may mutate it.
func (s *StaticTicker) Tick() (*model.Snapshot, *model.Rates) {
	if s.Snap == nil {
		return &model.Snapshot{}, s.Rates
	}
	cp := *s.Snap
	cp.Processes = append([]model.Process(nil), s.Snap.Processes...)
	return &cp, s.Rates
}
