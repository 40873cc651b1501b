package transform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/nebulamap/nebulamap/maperr"
)

// Func converts one scalar value into another, driven by string parameters
// from the mapping file.
type Func func(v Value, params map[string]string) (Value, error)

// Registry is a named collection of transform functions. It is an
// explicitly constructed object rather than a process-wide singleton so a
// pipeline can carry its own set; the mutex only guards registration
// against concurrent lookups during setup.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry creates a Registry pre-populated with the built-in
// transforms.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}
	r.Register("time_format", timeFormat)
	r.Register("price_normalize", priceNormalize)
	r.Register("string_normalize", stringNormalize)
	r.Register("array_join", arrayJoin)
	r.Register("to_boolean", toBoolean)
	return r
}

// Register adds or replaces a named transform. Registration must complete
// before generation runs begin looking transforms up.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// Has reports whether a transform is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.funcs[name]
	return ok
}

// Names returns the sorted registered transform names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply looks up the named transform and applies it to v.
func (r *Registry) Apply(name string, v Value, params map[string]string) (Value, error) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()

	if !ok {
		return Value{}, maperr.NewTransformError("Registry.Apply",
			fmt.Errorf("%w: %s", maperr.ErrTransformNotFound, name))
	}
	return fn(v, params)
}
