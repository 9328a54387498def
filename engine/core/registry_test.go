package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterFactory(built *[]*counter) ResourceFactory {
	return func(Surface) (Resource, error) {
		c := &counter{gen: len(*built) + 1}
		*built = append(*built, c)
		return c, nil
	}
}

func TestRegistryLazyAndCached(t *testing.T) {
	var surf Surface = &fakeSurface{w: 1, h: 1}
	r := NewRegistry(func() Surface { return surf })

	var built []*counter
	r.Register(ResourceInvertColor, counterFactory(&built))
	assert.Empty(t, built, "nothing is built at registration")

	a, ok := r.Get(ResourceInvertColor)
	require.True(t, ok)
	b, _ := r.Get(ResourceInvertColor)
	assert.Same(t, a, b)
	assert.Len(t, built, 1)

	r.Clear()
	assert.True(t, built[0].released)
	c, ok := r.Get(ResourceInvertColor)
	require.True(t, ok)
	assert.NotSame(t, a, c)
	assert.Len(t, built, 2)
}

func TestRegistryMisses(t *testing.T) {
	var surf Surface
	r := NewRegistry(func() Surface { return surf })
	var built []*counter
	r.Register(ResourceInvertColor, counterFactory(&built))

	_, ok := r.Get(ResourceInvertColor)
	assert.False(t, ok, "no surface")
	assert.Empty(t, built)

	surf = &fakeSurface{}
	_, ok = r.Get(ResourcePointSprites)
	assert.False(t, ok, "no factory")

	r.Register(ResourcePointSprites, func(Surface) (Resource, error) {
		return nil, errors.New("shader compile failed")
	})
	_, ok = r.Get(ResourcePointSprites)
	assert.False(t, ok, "factory error")
}

func TestRegistryRegisterDropsBuiltValue(t *testing.T) {
	r := NewRegistry(func() Surface { return &fakeSurface{} })
	var first, second []*counter
	r.Register(ResourceInvertColor, counterFactory(&first))
	_, _ = r.Get(ResourceInvertColor)

	r.Register(ResourceInvertColor, counterFactory(&second))
	assert.True(t, first[0].released)
	_, _ = r.Get(ResourceInvertColor)
	assert.Len(t, second, 1)
}

func TestLookup(t *testing.T) {
	r := NewRegistry(func() Surface { return &fakeSurface{} })
	var built []*counter
	r.Register(ResourceInvertColor, counterFactory(&built))

	c, ok := Lookup[*counter](r, ResourceInvertColor)
	require.True(t, ok)
	assert.Equal(t, 1, c.gen)

	_, ok = Lookup[EffectRenderer](r, ResourceInvertColor)
	assert.False(t, ok, "wrong type")
}

func TestResourceKindString(t *testing.T) {
	assert.Equal(t, "InvertColor", ResourceInvertColor.String())
	assert.Equal(t, "ResourceKind(9)", ResourceKind(9).String())
}

func TestScreenSet(t *testing.T) {
	s := NewScreenSet("a", "b")
	assert.Equal(t, "a", s.Main())
	assert.Equal(t, "b", s.Back())
	s.Swap()
	assert.Equal(t, "b", s.Main())
	assert.Equal(t, "a", s.Back())

	var seen []string
	s.Each(func(v string) { seen = append(seen, v) })
	assert.Equal(t, []string{"a", "b"}, seen)
}
