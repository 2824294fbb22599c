package entity

// DespawnHook runs while the entity is still alive, right before it is freed
type DespawnHook func(e Entity)

// World owns entity allocation and lifecycle. It is not safe for concurrent
// use; the host serializes access the same way it serializes ticks.
type World struct {
	generations []uint32
	alive       []bool
	free        []uint32
	names       map[Entity]string
	hooks       []DespawnHook
	count       int
	despawning  map[Entity]bool
}

func NewWorld() *World {
	return &World{
		generations: make([]uint32, 0, 64),
		alive:       make([]bool, 0, 64),
		free:        make([]uint32, 0, 16),
		names:       make(map[Entity]string),
		despawning:  make(map[Entity]bool),
	}
}

// Spawn allocates a new entity
func (w *World) Spawn() Entity {
	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		idx = uint32(len(w.generations))
		w.generations = append(w.generations, 0)
		w.alive = append(w.alive, false)
	}
	w.alive[idx] = true
	w.count++
	return Entity{index: idx, generation: w.generations[idx]}
}

// SpawnNamed allocates a new entity with a human-readable label
func (w *World) SpawnNamed(name string) Entity {
	e := w.Spawn()
	if name != "" {
		w.names[e] = name
	}
	return e
}

// Alive reports whether e refers to a live entity
func (w *World) Alive(e Entity) bool {
	if int(e.index) >= len(w.alive) {
		return false
	}
	return w.alive[e.index] && w.generations[e.index] == e.generation
}

// Name returns the label given at spawn time
func (w *World) Name(e Entity) (string, bool) {
	name, ok := w.names[e]
	return name, ok
}

// Label returns the entity name, falling back to its identity string
func (w *World) Label(e Entity) string {
	if name, ok := w.names[e]; ok {
		return name
	}
	return e.String()
}

// Len returns the number of live entities
func (w *World) Len() int {
	return w.count
}

// OnDespawn registers a hook invoked for every despawned entity.
// Hooks run in registration order.
func (w *World) OnDespawn(hook DespawnHook) {
	w.hooks = append(w.hooks, hook)
}

// Despawn runs the despawn hooks and frees the entity.
// Returns false if e was not alive or is already being despawned.
func (w *World) Despawn(e Entity) bool {
	if !w.Alive(e) || w.despawning[e] {
		return false
	}

	w.despawning[e] = true
	for _, hook := range w.hooks {
		hook(e)
	}
	delete(w.despawning, e)

	w.alive[e.index] = false
	w.generations[e.index]++
	w.free = append(w.free, e.index)
	delete(w.names, e)
	w.count--
	return true
}

// Each calls fn for every live entity in index order
func (w *World) Each(fn func(Entity)) {
	for idx, ok := range w.alive {
		if ok {
			fn(Entity{index: uint32(idx), generation: w.generations[idx]})
		}
	}
}
