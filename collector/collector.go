package collector

import "github.com/ftahirops/ptop/model"

// DefaultRoot is the procfs mount point.
const DefaultRoot = "/proc"

// Collector is the interface for all metric collectors.
type Collector interface {
	Name() string
	Collect(snap *model.Snapshot) error
}

// Registry holds all registered collectors.
type Registry struct {
	collectors []Collector
}

// NewRegistry creates a registry with the default collectors reading from
// root. An empty root means DefaultRoot.
func NewRegistry(root string, users *Users) *Registry {
	return &Registry{
		collectors: []Collector{
			&SysInfoCollector{Root: root},
			&CPUCollector{Root: root},
			&MemoryCollector{Root: root},
			&ProcessCollector{Root: root, Users: users},
		},
	}
}

// Add registers an additional collector.
func (r *Registry) Add(c Collector) {
	r.collectors = append(r.collectors, c)
}

// CollectAll runs all collectors, populating the snapshot.
func (r *Registry) CollectAll(snap *model.Snapshot) []error {
	var errs []error
	for _, c := range r.collectors {
		if err := c.Collect(snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func rootOr(root string) string {
	if root == "" {
		return DefaultRoot
	}
	return root
}
