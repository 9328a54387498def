package core

import (
	"fmt"

	"github.com/hubastard/clickrace/engine/logx"
)

// ResourceKind tags a GPU-backed auxiliary renderer kept per window.
type ResourceKind int

const (
	ResourceInvertColor ResourceKind = iota
	ResourcePointSprites
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceInvertColor:
		return "InvertColor"
	case ResourcePointSprites:
		return "PointSprites"
	}
	return fmt.Sprintf("ResourceKind(%d)", int(k))
}

// Resource is a registry value. Release frees its GPU objects.
type Resource interface {
	Release()
}

// Rect is an axis-aligned rectangle in screen pixels, top-left origin.
type Rect struct{ X, Y, W, H float32 }

// EffectRenderer draws an effect over items into the surface's main screen.
type EffectRenderer interface {
	Resource
	Render(s Surface, items []Rect) error
}

// ResourceFactory builds a resource against the current surface.
type ResourceFactory func(Surface) (Resource, error)

// Registry maps resource kinds to lazily built GPU resources. Values are
// only valid until the next GPU availability change; states fetch them
// every time instead of holding on to them.
type Registry struct {
	factories map[ResourceKind]ResourceFactory
	items     map[ResourceKind]Resource
	surface   func() Surface
}

func NewRegistry(surface func() Surface) *Registry {
	return &Registry{
		factories: map[ResourceKind]ResourceFactory{},
		items:     map[ResourceKind]Resource{},
		surface:   surface,
	}
}

// Register installs the factory for kind, dropping any built value.
func (r *Registry) Register(kind ResourceKind, f ResourceFactory) {
	r.factories[kind] = f
	r.drop(kind)
}

// Get returns the resource for kind, building it if needed. It reports
// false when there is no surface, no factory, or the factory failed.
func (r *Registry) Get(kind ResourceKind) (Resource, bool) {
	if res, ok := r.items[kind]; ok {
		return res, true
	}
	f, ok := r.factories[kind]
	if !ok {
		return nil, false
	}
	s := r.surface()
	if s == nil {
		return nil, false
	}
	res, err := f(s)
	if err != nil {
		logx.Logger().Warn("resource construction failed", "kind", kind, "err", err)
		return nil, false
	}
	r.items[kind] = res
	return res, true
}

// Clear releases every built resource. Factories stay registered.
func (r *Registry) Clear() {
	for kind := range r.items {
		r.drop(kind)
	}
}

func (r *Registry) drop(kind ResourceKind) {
	if res, ok := r.items[kind]; ok {
		res.Release()
		delete(r.items, kind)
	}
}

// Lookup fetches kind from r and asserts it to T.
func Lookup[T any](r *Registry, kind ResourceKind) (T, bool) {
	var zero T
	res, ok := r.Get(kind)
	if !ok {
		return zero, false
	}
	v, ok := res.(T)
	return v, ok
}
