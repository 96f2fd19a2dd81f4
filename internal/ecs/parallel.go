package ecs

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// gate is an awaitable one-shot with multi-producer countdown: a counter
// per component initialized to its writer count for this pass; the writer
// that brings it to zero closes the channel, waking every reader. This is
// the portable equivalent of the source's Semaphore+Notify pair (design
// notes §9).
type gate struct {
	remaining int32
	ch        chan struct{}
	closeOnce sync.Once
}

func newGate() *gate {
	return &gate{ch: make(chan struct{})}
}

func (g *gate) addWriter() {
	atomic.AddInt32(&g.remaining, 1)
}

func (g *gate) release() {
	if atomic.AddInt32(&g.remaining, -1) == 0 {
		g.closeOnce.Do(func() { close(g.ch) })
	}
}

// RunParallel drives passes the same way RunSingleThreaded does, but each
// task in a pass is spawned as a goroutine that first awaits a gate for
// every component it reads that is written by some task in this pass, then
// runs unsynchronized (safe because Read/Write sets are assumed
// pairwise-disjoint across concurrent tasks' Write sets — the caller's
// access-set declarations are the enforcement point), then releases the
// gates for components it writes.
//
// Ordering guarantee: for every component C, all writers of C in this pass
// happen-before all readers of C in this pass. No other ordering is
// guaranteed within a pass.
//
// A panicking task aborts the pass; the panic value is returned wrapped in
// ErrSystemPanic once every spawned task for that pass has returned.
func (r *Registry) RunParallel(source ArchetypeSource) error {
	r.mu.Lock()
	built := r.built
	r.mu.Unlock()
	if !built {
		return ErrNotBuilt
	}

	for {
		r.mu.Lock()
		r.updateArchetypes(source)
		tasks := r.drainSchedule(source)
		r.mu.Unlock()

		if len(tasks) == 0 {
			return nil
		}

		gates := make(map[ComponentID]*gate, len(tasks))
		for _, t := range tasks {
			entry := r.graph.systems[t.sysIndex]
			for _, c := range entry.access.Write {
				g, ok := gates[c]
				if !ok {
					g = newGate()
					gates[c] = g
				}
				g.addWriter()
			}
		}

		var wg sync.WaitGroup
		var panicOnce sync.Once
		var panicErr error

		for _, t := range tasks {
			t := t
			entry := r.graph.systems[t.sysIndex]
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() {
					if p := recover(); p != nil {
						panicOnce.Do(func() {
							panicErr = fmt.Errorf("%w: %v", ErrSystemPanic, p)
						})
					}
				}()

				selfWrites := make(map[ComponentID]bool, len(entry.access.Write))
				for _, c := range entry.access.Write {
					selfWrites[c] = true
				}
				for _, c := range entry.access.Read {
					// A system that both reads and writes the same component
					// would otherwise wait on a gate only it can release,
					// deadlocking; such a read observes the pass's starting
					// value instead of waiting.
					if selfWrites[c] {
						continue
					}
					if g, ok := gates[c]; ok {
						<-g.ch
					}
				}

				// Released even when Run panics, so readers gated on this
				// task's writes are not left waiting forever.
				defer func() {
					for _, c := range entry.access.Write {
						gates[c].release()
					}
				}()

				entry.system.Run(t.entities)
			}()
		}

		wg.Wait()
		if panicErr != nil {
			return panicErr
		}
	}
}
