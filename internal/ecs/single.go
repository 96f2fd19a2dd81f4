package ecs

// RunSingleThreaded drives passes to completion: index any new archetypes,
// schedule a pass from the pending event queue, run every task in
// ascending sort_key order, and repeat until a pass schedules no tasks.
// Systems may call Publish during Run to enqueue further events; those are
// only visible starting the next pass, so a system cannot observe its own
// publish within the same pass.
func (r *Registry) RunSingleThreaded(source ArchetypeSource) error {
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

		for _, t := range tasks {
			r.graph.systems[t.sysIndex].system.Run(t.entities)
		}
	}
}
