package ecs

// groupKey indexes the trigger map: which systems fire when component
// Component changes on an entity of archetype Archetype.
type groupKey struct {
	archetype ArchetypeID
	component ComponentID
}

// acceptsArchetype reports whether a system's full input set (subscribe)
// is present in the archetype — the condition under which this system can
// fire for an entity of that archetype.
func acceptsArchetype(access AccessFilters, arch Archetype) bool {
	for _, id := range access.Subscribe {
		if !arch.Contains(id) {
			return false
		}
	}
	return true
}

// indexArchetype walks the dependency graph depth-first starting from each
// component the archetype has, recording every system reached whose input
// set is satisfied. Traversal prunes at systems whose input set is not a
// subset of the archetype — they cannot fire from this archetype and
// neither can anything reachable only through them.
func (g *graph) indexArchetype(arch Archetype, groups map[groupKey][]SystemIndex) {
	for componentID := range arch.Components {
		startNode, ok := g.componentNodes[componentID]
		if !ok {
			continue
		}

		visited := make(map[int]bool)
		var walk func(nodeIdx int)
		walk = func(nodeIdx int) {
			if visited[nodeIdx] {
				return
			}
			visited[nodeIdx] = true

			node := g.nodes[nodeIdx]
			if node.kind == nodeSystem {
				entry := g.systems[node.systemIndex]
				if !acceptsArchetype(entry.access, arch) {
					return // prune: this system and anything beyond it is unreachable
				}
				key := groupKey{archetype: arch.ID, component: componentID}
				groups[key] = append(groups[key], node.systemIndex)
			}
			for _, next := range node.out {
				walk(next)
			}
		}
		walk(startNode)
	}
}
