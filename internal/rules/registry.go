package rules

import (
	"fmt"
	"sync"
)

// Registry collects rules in registration order. Registries are explicit
// objects passed to pipeline constructors; Default returns the shared
// process-wide instance preloaded with the built-in catalogue.
type Registry struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry with the built-in rules
// registered.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, r := range BuiltinRules() {
			// Built-in IDs are unique by construction.
			_ = defaultRegistry.Register(r)
		}
	})
	return defaultRegistry
}

// Register appends a rule. Registration order is preserved and used as the
// tiebreak when priorities are equal.
func (reg *Registry) Register(r Rule) error {
	if r.ID == "" {
		return fmt.Errorf("rule must have an ID")
	}
	if r.Checker == nil {
		return fmt.Errorf("rule %s must have a checker", r.ID)
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.rules = append(reg.rules, r)
	return nil
}

// Rules returns a snapshot of the registered rules in registration order.
func (reg *Registry) Rules() []Rule {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]Rule, len(reg.rules))
	copy(out, reg.rules)
	return out
}
