// Package spawnpool provides a reusable instance pool for spawn/despawn-heavy
// workloads: bullets, particles, visual effects, simulation agents — anything
// created and discarded far faster than the allocator should be asked to keep
// up with.
//
// Instead of allocating on every spawn and releasing on every despawn, a pool
// pre-creates a fixed number of instances from a template and cycles them
// between an Active and an Inactive state. Instances are only ever destroyed
// when the pool itself is released.
//
// # Architecture
//
// The pool is engine-agnostic. It never instantiates or destroys anything
// itself; the four lifecycle capabilities are injected as functions:
//
//   - Factory: clone a new instance from the template
//   - Activate: flip an instance's active/visible state
//   - Place: set an instance's position and orientation
//   - Destroy: permanently release an instance's resources
//
// This keeps the pool unit-testable without a running engine and usable with
// any object model that can express those four operations.
//
// Internally the pool keeps its slots partitioned: active instances occupy the
// prefix [0, active), inactive instances the suffix. Spawn is O(1) (take the
// boundary slot), and Despawn is O(1) too — the target slot is swapped with
// the last active slot before the boundary moves, so the partition invariant
// holds at all times.
//
// # Quick Start
//
//	pool, err := spawn.New(spawn.Config[*Bullet]{
//	    Name:        "bullets",
//	    Template:    &Bullet{},
//	    InitialSize: 64,
//	    Factory:     cloneBullet,
//	    Activate:    activateBullet,
//	    Destroy:     destroyBullet,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := pool.Initialize(); err != nil {
//	    return err
//	}
//
//	b, err := pool.Spawn()
//	...
//	pool.Despawn(b)
//
// # Concurrency
//
// A pool is owned by exactly one goroutine, matching the main-thread-only
// object model of the engines it fronts. Operations are synchronous, never
// block, and are not internally locked.
package spawnpool
