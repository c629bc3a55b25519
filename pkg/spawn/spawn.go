// Package spawn provides the core instance pool: a fixed set of pre-created
// instances cycled between Active and Inactive states, growing on demand and
// destroying nothing until the pool itself is released.
//
// The pool keeps its slots partitioned — active instances occupy the prefix
// [0, active), inactive instances the suffix — so both Spawn and Despawn are
// O(1). An index map gives targeted despawns their slot position and lets the
// pool reject instances it does not own.
//
// A pool is owned by exactly one goroutine. Operations are synchronous, never
// block, and are not internally locked; this mirrors the main-thread-only
// object model of the engines the pool fronts.
package spawn

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/spawnpool/pkg/errors"
	"github.com/ajitpratap0/spawnpool/pkg/geom"
	"github.com/ajitpratap0/spawnpool/pkg/logger"
	"github.com/ajitpratap0/spawnpool/pkg/metrics"
)

// Factory clones a new instance from the template, optionally under the
// container handle the pool was configured with. It is called once per slot
// during Initialize and once per growth spawn afterwards.
type Factory[T any] func(template T, container any) (T, error)

// Config describes a pool. Template, Factory, Activate, and Destroy are
// required; everything else is optional.
//
// The element type must be comparable because the pool indexes instances by
// identity; pointer types are the expected case.
type Config[T comparable] struct {
	// Name identifies the pool in logs, errors, and metrics
	Name string

	// Template is the prototype every instance is cloned from. The pool
	// holds a reference but never activates, places, or destroys it.
	Template T

	// Container is an opaque grouping handle (a parent node, a scene, an
	// owner) passed through to the factory. The pool never inspects it.
	Container any

	// InitialSize is the number of instances Initialize pre-creates
	InitialSize int

	// MaxSize caps the total number of instances. Zero means unbounded
	// growth; a spawn that would exceed a non-zero cap fails with a
	// capacity error.
	MaxSize int

	// Factory clones a new instance from the template
	Factory Factory[T]

	// Activate flips an instance's active/visible state
	Activate func(instance T, active bool)

	// Place sets an instance's position and orientation. Optional; only
	// needed when SpawnAt is used.
	Place func(instance T, at geom.Transform)

	// Destroy permanently releases an instance's resources. Called only
	// from Release.
	Destroy func(instance T)

	// OnSpawn is invoked after an instance becomes active
	OnSpawn func(instance T)

	// OnDespawn is invoked after an instance becomes inactive
	OnDespawn func(instance T)

	// OnGrow is invoked after the pool grows past its current size,
	// with the new total size
	OnGrow func(instance T, size int)

	// Logger overrides the global logger for this pool's lifecycle logs
	Logger *zap.Logger

	// EnableMetrics turns on Prometheus recording for this pool
	EnableMetrics bool
}

// Pool hands out inactive instances on demand and reclaims them without
// destruction. Use New to construct one and Initialize to populate it.
type Pool[T comparable] struct {
	cfg       Config[T]
	log       *zap.Logger
	collector *metrics.Collector

	slots  []T       // active prefix [0, active), inactive suffix
	index  map[T]int // instance -> slot position
	active int

	initialized bool
	stats       counters
}

type counters struct {
	spawns     uint64
	despawns   uint64
	grows      uint64
	peakActive int
}

// New validates the configuration and returns an empty, uninitialized pool.
func New[T comparable](cfg Config[T]) (*Pool[T], error) {
	if cfg.Name == "" {
		cfg.Name = "pool"
	}

	var zero T
	if cfg.Template == zero {
		return nil, errors.New(errors.ErrorTypeValidation, "template must be set").
			WithDetail("pool", cfg.Name)
	}
	if cfg.Factory == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "factory capability is required").
			WithDetail("pool", cfg.Name)
	}
	if cfg.Activate == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "activate capability is required").
			WithDetail("pool", cfg.Name)
	}
	if cfg.Destroy == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "destroy capability is required").
			WithDetail("pool", cfg.Name)
	}
	if cfg.InitialSize < 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "initial size must not be negative").
			WithDetail("pool", cfg.Name).
			WithDetail("initial_size", cfg.InitialSize)
	}
	if cfg.MaxSize < 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "max size must not be negative").
			WithDetail("pool", cfg.Name).
			WithDetail("max_size", cfg.MaxSize)
	}
	if cfg.MaxSize > 0 && cfg.MaxSize < cfg.InitialSize {
		return nil, errors.New(errors.ErrorTypeValidation, "max size must not be below initial size").
			WithDetail("pool", cfg.Name).
			WithDetail("initial_size", cfg.InitialSize).
			WithDetail("max_size", cfg.MaxSize)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	log = log.With(zap.String("pool", cfg.Name))

	p := &Pool[T]{
		cfg:   cfg,
		log:   log,
		index: make(map[T]int, cfg.InitialSize),
	}
	if cfg.EnableMetrics {
		p.collector = metrics.NewCollector(cfg.Name)
	}
	return p, nil
}

// Initialize pre-creates InitialSize instances from the template, all
// inactive. It must be called before Spawn or Despawn, and may be called
// again after Release to repopulate the pool. Initializing a pool that
// already holds instances is a conflict error.
func (p *Pool[T]) Initialize() error {
	if len(p.slots) > 0 {
		return errors.New(errors.ErrorTypeConflict, "pool already holds instances").
			WithDetail("pool", p.cfg.Name).
			WithDetail("size", len(p.slots))
	}

	p.slots = make([]T, 0, p.cfg.InitialSize)
	for i := 0; i < p.cfg.InitialSize; i++ {
		instance, err := p.clone()
		if err != nil {
			p.rollback()
			return err
		}
		p.cfg.Activate(instance, false)
		p.index[instance] = len(p.slots)
		p.slots = append(p.slots, instance)
	}

	p.active = 0
	p.initialized = true
	p.recordOccupancy()
	p.log.Info("pool initialized", zap.Int("size", len(p.slots)))
	return nil
}

// Spawn returns an inactive instance transitioned to active. When every
// owned instance is already active the pool grows by one clone, unless that
// would exceed MaxSize.
func (p *Pool[T]) Spawn() (T, error) {
	var zero T
	if !p.initialized {
		return zero, errors.New(errors.ErrorTypeUninitialized, "pool is not initialized").
			WithDetail("pool", p.cfg.Name)
	}

	var timer *metrics.Timer
	if p.collector != nil {
		timer = metrics.NewTimer("spawn")
	}

	grown := false
	if p.active == len(p.slots) {
		if p.cfg.MaxSize > 0 && len(p.slots) >= p.cfg.MaxSize {
			return zero, errors.New(errors.ErrorTypeCapacity, "pool at max size").
				WithDetail("pool", p.cfg.Name).
				WithDetail("max_size", p.cfg.MaxSize)
		}
		instance, err := p.clone()
		if err != nil {
			return zero, err
		}
		p.index[instance] = len(p.slots)
		p.slots = append(p.slots, instance)
		p.stats.grows++
		grown = true
		p.log.Debug("pool grew", zap.Int("size", len(p.slots)))
		if p.cfg.OnGrow != nil {
			p.cfg.OnGrow(instance, len(p.slots))
		}
	}

	instance := p.slots[p.active]
	p.active++
	p.cfg.Activate(instance, true)

	p.stats.spawns++
	if p.active > p.stats.peakActive {
		p.stats.peakActive = p.active
	}
	if p.collector != nil {
		p.collector.RecordSpawn(grown)
		p.collector.RecordSpawnLatency(timer.Stop())
		p.recordOccupancy()
	}
	if p.cfg.OnSpawn != nil {
		p.cfg.OnSpawn(instance)
	}
	return instance, nil
}

// SpawnAt spawns an instance and places it at the given transform. Placement
// happens before the instance is handed back, so callers never observe the
// instance anywhere else. Requires the Place capability.
func (p *Pool[T]) SpawnAt(at geom.Transform) (T, error) {
	var zero T
	if p.cfg.Place == nil {
		return zero, errors.New(errors.ErrorTypeConfig, "place capability is required for positional spawn").
			WithDetail("pool", p.cfg.Name)
	}

	instance, err := p.Spawn()
	if err != nil {
		return zero, err
	}
	p.cfg.Place(instance, at)
	return instance, nil
}

// Despawn transitions an instance back to inactive. Despawning an instance
// that is already inactive is a no-op; despawning an instance this pool does
// not own is a foreign-instance error.
func (p *Pool[T]) Despawn(instance T) error {
	if !p.initialized {
		return errors.New(errors.ErrorTypeUninitialized, "pool is not initialized").
			WithDetail("pool", p.cfg.Name)
	}

	slot, ok := p.index[instance]
	if !ok {
		return errors.New(errors.ErrorTypeForeignInstance, "instance is not owned by this pool").
			WithDetail("pool", p.cfg.Name)
	}
	if slot >= p.active {
		return nil // already inactive
	}

	// Swap the target with the last active slot so the active prefix
	// stays contiguous.
	last := p.active - 1
	other := p.slots[last]
	p.slots[slot], p.slots[last] = other, instance
	p.index[other] = slot
	p.index[instance] = last
	p.active = last

	p.cfg.Activate(instance, false)

	p.stats.despawns++
	if p.collector != nil {
		p.collector.RecordDespawn("single", 1)
		p.recordOccupancy()
	}
	if p.cfg.OnDespawn != nil {
		p.cfg.OnDespawn(instance)
	}
	return nil
}

// DespawnAll transitions every active instance to inactive. Pool capacity is
// unchanged. Calling it on a pool with nothing active is a no-op.
func (p *Pool[T]) DespawnAll() {
	released := p.active
	for i := 0; i < released; i++ {
		instance := p.slots[i]
		p.cfg.Activate(instance, false)
		if p.cfg.OnDespawn != nil {
			p.cfg.OnDespawn(instance)
		}
	}
	p.active = 0

	p.stats.despawns += uint64(released)
	if p.collector != nil && released > 0 {
		p.collector.RecordDespawn("bulk", released)
		p.recordOccupancy()
	}
}

// Release despawns everything, destroys every owned instance, and empties
// the pool. The pool object itself stays usable: call Initialize to
// repopulate it.
func (p *Pool[T]) Release() {
	p.DespawnAll()

	destroyed := len(p.slots)
	for _, instance := range p.slots {
		p.cfg.Destroy(instance)
	}
	p.slots = nil
	p.index = make(map[T]int, p.cfg.InitialSize)
	p.active = 0
	p.initialized = false

	p.recordOccupancy()
	if destroyed > 0 {
		p.log.Info("pool released", zap.Int("destroyed", destroyed))
	}
}

// clone creates one instance from the template, guarding against factories
// that hand back something the pool already owns.
func (p *Pool[T]) clone() (T, error) {
	var zero T
	instance, err := p.cfg.Factory(p.cfg.Template, p.cfg.Container)
	if err != nil {
		return zero, errors.Wrap(err, errors.ErrorTypeInternal, "factory failed").
			WithDetail("pool", p.cfg.Name)
	}
	if instance == zero {
		return zero, errors.New(errors.ErrorTypeInternal, "factory returned a zero instance").
			WithDetail("pool", p.cfg.Name)
	}
	if _, dup := p.index[instance]; dup {
		return zero, errors.New(errors.ErrorTypeInternal, "factory returned an instance the pool already owns").
			WithDetail("pool", p.cfg.Name)
	}
	return instance, nil
}

// rollback destroys instances created by a partially failed Initialize.
func (p *Pool[T]) rollback() {
	for _, instance := range p.slots {
		delete(p.index, instance)
		p.cfg.Destroy(instance)
	}
	p.slots = nil
	p.active = 0
}

func (p *Pool[T]) recordOccupancy() {
	if p.collector != nil {
		p.collector.SetOccupancy(len(p.slots), p.active)
	}
}
