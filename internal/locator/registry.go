package locator

import "sync"

// Factory constructs a locator. Tool packages register one in init().
type Factory func() Locator

var (
	registryMu sync.Mutex
	factories  []Factory
)

// RegisterFactory adds a locator factory to the registry.
func RegisterFactory(f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories = append(factories, f)
}

// All instantiates every registered locator, keyed by tool id.
func All() map[string]Locator {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make(map[string]Locator, len(factories))
	for _, f := range factories {
		l := f()
		out[l.ID()] = l
	}
	return out
}

// ForTool returns the locator whose id matches toolID after alias
// normalization, or nil when the tool has no locator.
func ForTool(toolID string) Locator {
	return All()[NormalizeToolID(toolID)]
}
