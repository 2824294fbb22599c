package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnDespawn(t *testing.T) {
	w := NewWorld()

	a := w.Spawn()
	b := w.SpawnNamed("b")

	assert.True(t, w.Alive(a))
	assert.True(t, w.Alive(b))
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, "b", w.Label(b))
	assert.Equal(t, a.String(), w.Label(a))

	require.True(t, w.Despawn(a))
	assert.False(t, w.Alive(a))
	assert.False(t, w.Despawn(a), "second despawn must be a no-op")
	assert.Equal(t, 1, w.Len())
}

func TestRecycledIndexBumpsGeneration(t *testing.T) {
	w := NewWorld()

	a := w.Spawn()
	require.True(t, w.Despawn(a))

	b := w.Spawn()
	assert.Equal(t, a.Index(), b.Index())
	assert.Equal(t, a.Generation()+1, b.Generation())
	assert.NotEqual(t, a, b)
	assert.False(t, w.Alive(a), "stale identity must not alias the recycled slot")
	assert.True(t, w.Alive(b))
}

func TestDespawnHooksSeeLiveEntity(t *testing.T) {
	w := NewWorld()
	e := w.SpawnNamed("node")

	var calls []string
	w.OnDespawn(func(got Entity) {
		assert.Equal(t, e, got)
		assert.True(t, w.Alive(got))
		name, ok := w.Name(got)
		assert.True(t, ok)
		calls = append(calls, "first:"+name)
	})
	w.OnDespawn(func(got Entity) {
		calls = append(calls, "second")
	})

	w.Despawn(e)
	assert.Equal(t, []string{"first:node", "second"}, calls)

	_, ok := w.Name(e)
	assert.False(t, ok)
}

func TestDespawnFromHookIsNotReentrant(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()

	nested := true
	w.OnDespawn(func(got Entity) {
		nested = w.Despawn(got)
	})

	require.True(t, w.Despawn(e))
	assert.False(t, nested)
	assert.Equal(t, 0, w.Len())
}

func TestPlaceholderNeverAlive(t *testing.T) {
	w := NewWorld()
	w.Spawn()
	assert.False(t, w.Alive(Placeholder))
	assert.Equal(t, "placeholder", Placeholder.String())
}

func TestEachVisitsLiveEntitiesInOrder(t *testing.T) {
	w := NewWorld()
	a := w.Spawn()
	b := w.Spawn()
	c := w.Spawn()
	w.Despawn(b)

	var seen []Entity
	w.Each(func(e Entity) { seen = append(seen, e) })
	assert.Equal(t, []Entity{a, c}, seen)
}

func TestCompare(t *testing.T) {
	w := NewWorld()
	a := w.Spawn()
	b := w.Spawn()

	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 1, Compare(b, a))
	assert.Equal(t, 0, Compare(a, a))
}
