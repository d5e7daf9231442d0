package dag

import (
	"fmt"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// FromEntities builds a graph with one node per entity and an edge for every
// reference that points at another entity of the same group. A reference of an
// entity to itself is reported as a cycle.
func FromEntities[E Entity](entities []E) (*Graph, error) {
	g := New()
	for _, e := range entities {
		g.AddNode(e.ID())
	}
	for _, e := range entities {
		for _, dep := range e.Dependencies() {
			if !g.Has(dep) {
				continue
			}
			if dep == e.ID() {
				return nil, &CyclicDependencyError{Entities: []string{dep, dep}}
			}
			if err := g.AddEdge(dep, e.ID()); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
	g.order = append(g.order, id)
}

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` references `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// Dependencies returns the IDs of the nodes the given node references.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}

	deps := make([]string, 0, len(n.deps))
	for _, candidate := range g.order {
		if _, ok := n.deps[candidate]; ok {
			deps = append(deps, candidate)
		}
	}
	return deps, nil
}

// Dependents returns the IDs of the nodes that reference the given node.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}

	dependents := make([]string, 0, len(n.dependents))
	for _, candidate := range g.order {
		if _, ok := n.dependents[candidate]; ok {
			dependents = append(dependents, candidate)
		}
	}
	return dependents, nil
}

// DetectCycles checks the graph for any cycles. It returns a
// *CyclicDependencyError holding the path of the first cycle found.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Classic depth-first search with three sets of nodes:
	// permanent: nodes that have been fully visited and are not part of a cycle.
	// temporary: nodes currently in the recursion stack for the current traversal.
	// unvisited: all other nodes.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)
	var stack []string

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return &CyclicDependencyError{Entities: cyclePath(stack, n.id)}
		}

		temporary[n.id] = true
		stack = append(stack, n.id)

		for _, id := range g.order {
			dependent, ok := n.dependents[id]
			if !ok {
				continue
			}
			if err := visit(dependent); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		delete(temporary, n.id)
		permanent[n.id] = true

		return nil
	}

	for _, id := range g.order {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}

	return nil
}

// cyclePath cuts the recursion stack down to the part that forms the cycle
// closing at id.
func cyclePath(stack []string, id string) []string {
	for i, s := range stack {
		if s == id {
			path := append([]string{}, stack[i:]...)
			return append(path, id)
		}
	}
	return []string{id, id}
}
