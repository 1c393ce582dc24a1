package renderer

import (
	"sync"

	"github.com/lyra-render/lyra/field"
)

// AnyField registers a factory as the fallback for field kinds without
// a dedicated renderer.
const AnyField = "*"

// Factory builds a renderer for a concrete field instance.
type Factory func(f field.RadianceField, opts Options) (RayTracedRenderer, error)

// Registration describes one (field kind, tracer kind) binding.
type Registration struct {
	FieldKind  string
	TracerKind string
}

type registryKey struct {
	fieldKind  string
	tracerKind string
}

var registry = struct {
	sync.Mutex
	factories map[registryKey]Factory
}{
	factories: make(map[registryKey]Factory),
}

// Register binds a renderer factory to a field kind and tracer kind.
// Registering with AnyField makes the factory the default for field
// kinds that carry no dedicated renderer.
func Register(fieldKind, tracerKind string, factory Factory) {
	registry.Lock()
	defer registry.Unlock()
	registry.factories[registryKey{fieldKind, tracerKind}] = factory
}

// New resolves the most specific factory for the field's kind and the
// given tracer kind, falling back to the AnyField registration.
func New(f field.RadianceField, tracerKind string, opts Options) (RayTracedRenderer, error) {
	if f == nil {
		return nil, ErrFieldNotDefined
	}

	registry.Lock()
	factory, ok := registry.factories[registryKey{f.Kind(), tracerKind}]
	if !ok {
		factory, ok = registry.factories[registryKey{AnyField, tracerKind}]
	}
	registry.Unlock()

	if !ok {
		return nil, ErrNotRegistered
	}
	return factory(f, opts)
}

// Registrations lists the current registry bindings.
func Registrations() []Registration {
	registry.Lock()
	defer registry.Unlock()

	out := make([]Registration, 0, len(registry.factories))
	for key := range registry.factories {
		out = append(out, Registration{FieldKind: key.fieldKind, TracerKind: key.tracerKind})
	}
	return out
}
