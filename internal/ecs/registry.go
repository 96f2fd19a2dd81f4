package ecs

import "sync"

// Registry is the process-wide scheduler state: the dependency graph, the
// per-archetype trigger index, and the queue of pending update events.
type Registry struct {
	mu      sync.Mutex
	graph   *graph
	groups  map[groupKey][]SystemIndex
	archGen uint64
	events  []UpdateEvent
	built   bool
}

// NewRegistry creates an empty scheduler registry.
func NewRegistry() *Registry {
	return &Registry{
		graph:  newGraph(),
		groups: make(map[groupKey][]SystemIndex),
	}
}

// Register adds a system to the graph with its declared access filters.
// Register must be called before Build; registering after Build panics,
// since sort keys and the trigger index would silently go stale.
func (r *Registry) Register(sys System, access AccessFilters) SystemIndex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.built {
		panic("ecs: Register called after Build")
	}
	return r.graph.addSystem(sys, access)
}

// Build topologically sorts the dependency graph and assigns each system's
// sort_key. It must run once, after every system is registered and before
// any pass executes. It returns ErrCycle if the graph is not a DAG.
func (r *Registry) Build() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.built {
		return ErrAlreadyBuilt
	}
	if err := r.graph.toposort(); err != nil {
		return err
	}
	r.built = true
	return nil
}

// Publish enqueues an update event: component changed on entity. Systems
// call this from within Run to cause further passes once the current one
// finishes draining its task list.
func (r *Registry) Publish(entity EntityID, component ComponentID) {
	r.mu.Lock()
	r.events = append(r.events, UpdateEvent{Entity: entity, Component: component})
	r.mu.Unlock()
}

// updateArchetypes indexes any archetypes the outer ECS created since the
// last call, no-op if the generation hasn't advanced.
func (r *Registry) updateArchetypes(source ArchetypeSource) {
	fresh, next := source.NewArchetypes(r.archGen)
	if len(fresh) == 0 {
		r.archGen = next
		return
	}
	for _, arch := range fresh {
		r.graph.indexArchetype(arch, r.groups)
	}
	r.archGen = next
}

// task is one system's accumulated work for the current pass.
type task struct {
	sysIndex SystemIndex
	entities []EntityID
}

// drainSchedule converts the pending event queue into a sort_key-ordered
// task list, consulting the caller's archetype source for each event's
// entity. The event queue is emptied as a side effect.
func (r *Registry) drainSchedule(source ArchetypeSource) []task {
	events := r.events
	r.events = nil

	bySortKey := make(map[SortKey]*task)
	for _, ev := range events {
		archID, ok := source.ArchetypeOf(ev.Entity)
		if !ok {
			continue
		}
		key := groupKey{archetype: archID, component: ev.Component}
		for _, sysIdx := range r.groups[key] {
			sortKey := r.graph.systems[sysIdx].sortKey
			t, ok := bySortKey[sortKey]
			if !ok {
				t = &task{sysIndex: sysIdx}
				bySortKey[sortKey] = t
			}
			t.entities = append(t.entities, ev.Entity)
		}
	}

	if len(bySortKey) == 0 {
		return nil
	}

	keys := make([]SortKey, 0, len(bySortKey))
	for k := range bySortKey {
		keys = append(keys, k)
	}
	sortKeys(keys)

	tasks := make([]task, 0, len(keys))
	for _, k := range keys {
		tasks = append(tasks, *bySortKey[k])
	}
	return tasks
}

// sortKeys sorts ascending in place; small helper to avoid pulling in
// sort.Slice at every call site.
func sortKeys(keys []SortKey) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}
