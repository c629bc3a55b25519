package spawn

// Stats is a point-in-time snapshot of a pool's accounting. Counters are
// cumulative across Release/Initialize cycles; Size and Active describe the
// current population.
type Stats struct {
	// Pool is the pool's configured name
	Pool string `json:"pool"`
	// Size is the number of instances the pool currently owns
	Size int `json:"size"`
	// Active is the number of instances currently spawned
	Active int `json:"active"`
	// PeakActive is the highest concurrent active count observed
	PeakActive int `json:"peak_active"`
	// Spawns is the total number of Spawn/SpawnAt calls served
	Spawns uint64 `json:"spawns"`
	// Despawns is the total number of instances despawned
	Despawns uint64 `json:"despawns"`
	// Grows is the number of spawns that had to clone a new instance
	Grows uint64 `json:"grows"`
}

// Name returns the pool's configured name.
func (p *Pool[T]) Name() string {
	return p.cfg.Name
}

// Size returns the number of instances the pool currently owns.
func (p *Pool[T]) Size() int {
	return len(p.slots)
}

// Active returns the number of instances currently spawned.
func (p *Pool[T]) Active() int {
	return p.active
}

// Initialized reports whether the pool is ready for Spawn/Despawn.
func (p *Pool[T]) Initialized() bool {
	return p.initialized
}

// Stats returns a snapshot of the pool's accounting.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Pool:       p.cfg.Name,
		Size:       len(p.slots),
		Active:     p.active,
		PeakActive: p.stats.peakActive,
		Spawns:     p.stats.spawns,
		Despawns:   p.stats.despawns,
		Grows:      p.stats.grows,
	}
}
