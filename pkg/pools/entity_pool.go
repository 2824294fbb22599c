package pools

import (
	"sync"

	"github.com/dd0wney/entitygraph/pkg/entity"
)

// maxPooledLen bounds what goes back into a pool so one pathological tick
// does not pin a huge map or slice forever
const maxPooledLen = 4096

// SetPool pools map[entity.Entity]struct{} scratch sets.
type SetPool struct {
	pool sync.Pool
}

// NewSetPool creates a new entity set pool.
func NewSetPool() *SetPool {
	return &SetPool{
		pool: sync.Pool{
			New: func() any {
				return make(map[entity.Entity]struct{}, 32)
			},
		},
	}
}

// Get returns a cleared set from the pool.
func (p *SetPool) Get() map[entity.Entity]struct{} {
	m, ok := p.pool.Get().(map[entity.Entity]struct{})
	if !ok {
		return make(map[entity.Entity]struct{}, 32)
	}
	clear(m)
	return m
}

// Put returns a set to the pool.
func (p *SetPool) Put(m map[entity.Entity]struct{}) {
	if m == nil || len(m) > maxPooledLen {
		return
	}
	p.pool.Put(m)
}

// SlicePool pools entity slices.
type SlicePool struct {
	pool sync.Pool
}

// NewSlicePool creates a new entity slice pool.
func NewSlicePool() *SlicePool {
	return &SlicePool{
		pool: sync.Pool{
			New: func() any {
				s := make([]entity.Entity, 0, 64)
				return &s
			},
		},
	}
}

// Get returns an empty slice from the pool.
func (p *SlicePool) Get() []entity.Entity {
	sp, ok := p.pool.Get().(*[]entity.Entity)
	if !ok {
		return make([]entity.Entity, 0, 64)
	}
	return (*sp)[:0]
}

// Put returns a slice to the pool.
func (p *SlicePool) Put(s []entity.Entity) {
	if s == nil || cap(s) > maxPooledLen {
		return
	}
	s = s[:0]
	p.pool.Put(&s)
}
