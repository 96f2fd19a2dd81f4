package ecs

// The dependency graph is an arena of nodes addressed by integer index, not
// owning references: systems live in a slice, components are interned into
// the same arena, and edges are adjacency lists of indices. This mirrors
// the source's choice of an index-based graph specifically so the graph
// never holds a dangling pointer across registration (see design notes).

type nodeKind uint8

const (
	nodeComponent nodeKind = iota
	nodeSystem
)

type graphNode struct {
	kind        nodeKind
	systemIndex SystemIndex // valid when kind == nodeSystem
	componentID ComponentID // valid when kind == nodeComponent
	out         []int       // outgoing edges, as node indices
}

type systemEntry struct {
	system  System
	node    int // index into graph.nodes
	sortKey SortKey
	access  AccessFilters
}

// graph is the registry's internal dependency graph plus the interned
// component-node index.
type graph struct {
	nodes          []graphNode
	componentNodes map[ComponentID]int
	systems        []*systemEntry
}

func newGraph() *graph {
	return &graph{componentNodes: make(map[ComponentID]int)}
}

// componentNode interns a component, returning its node index.
func (g *graph) componentNode(id ComponentID) int {
	if idx, ok := g.componentNodes[id]; ok {
		return idx
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, graphNode{kind: nodeComponent, componentID: id})
	g.componentNodes[id] = idx
	return idx
}

// addSystem interns a system node, wires input->system and system->output
// edges, and records the system's storage slot. Returns the system's index.
func (g *graph) addSystem(sys System, access AccessFilters) SystemIndex {
	sysIndex := SystemIndex(len(g.systems))

	sysNode := len(g.nodes)
	g.nodes = append(g.nodes, graphNode{kind: nodeSystem, systemIndex: sysIndex})

	g.systems = append(g.systems, &systemEntry{
		system: sys,
		node:   sysNode,
		access: access,
	})

	for _, id := range access.Subscribe {
		cn := g.componentNode(id)
		g.nodes[cn].out = append(g.nodes[cn].out, sysNode)
	}
	for _, id := range access.Publish {
		cn := g.componentNode(id)
		g.nodes[sysNode].out = append(g.nodes[sysNode].out, cn)
	}

	return sysIndex
}

// toposort assigns each system's sort_key to its position in a topological
// order of the whole graph, and reports ErrCycle if none exists.
func (g *graph) toposort() error {
	n := len(g.nodes)
	indeg := make([]int, n)
	for _, node := range g.nodes {
		for _, to := range node.out {
			indeg[to]++
		}
	}

	queue := make([]int, 0, n)
	for i, d := range indeg {
		if d == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, n)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, i)
		for _, to := range g.nodes[i].out {
			indeg[to]--
			if indeg[to] == 0 {
				queue = append(queue, to)
			}
		}
	}

	if len(order) != n {
		return ErrCycle
	}

	for pos, nodeIdx := range order {
		node := g.nodes[nodeIdx]
		if node.kind == nodeSystem {
			g.systems[node.systemIndex].sortKey = SortKey(pos)
		}
	}
	return nil
}
