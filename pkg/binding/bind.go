package binding

import "sort"

// Bind keeps source and target in sync in both directions. The target first
// takes the source's current value. Returns a function that removes the
// binding.
func Bind[T any](source, target *Observable[T]) (unbind func()) {
	syncing := false
	forward := func(dst *Observable[T]) func(T) {
		return func(v T) {
			if syncing {
				return
			}
			syncing = true
			defer func() { syncing = false }()
			dst.Set(v)
		}
	}

	target.Set(source.Value())
	offSource := source.AddListener(forward(target))
	offTarget := target.AddListener(forward(source))
	return func() {
		offSource()
		offTarget()
	}
}

// Source resolves named properties of a data context, the way a
// {Binding Path} resolves against a view model.
type Source interface {
	Lookup(name string) (any, bool)
}

// Lookup resolves name against ctx and returns it as an *Observable[T].
// It reports false when ctx is not a Source, the name is unknown, or the
// property has a different type.
func Lookup[T any](ctx any, name string) (*Observable[T], bool) {
	src, ok := ctx.(Source)
	if !ok || name == "" {
		return nil, false
	}
	v, ok := src.Lookup(name)
	if !ok {
		return nil, false
	}
	obs, ok := v.(*Observable[T])
	return obs, ok
}

// Map is a Source backed by named properties, typically observables.
type Map map[string]any

// Lookup implements Source.
func (m Map) Lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Names returns the property names in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
