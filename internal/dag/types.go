package dag

import "sync"

// Graph is a set of named nodes and the references between them. It is used
// to validate that a group of variables, lists or instructions can be
// evaluated in some order before any of them is calculated.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order keeps insertion order so that reported cycles are stable.
	order []string
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	// id is the unique identifier for the node.
	id string
	// deps holds the set of nodes that this node references (predecessors).
	deps map[string]*node
	// dependents holds the set of nodes that reference this node (successors).
	dependents map[string]*node
}

// Entity is anything that is calculated as part of a dependency-ordered pass:
// a variable, a list or a whole instruction.
type Entity interface {
	// ID is the name other entities use to reference this one.
	ID() string
	// Dependencies returns the names this entity references. Names that do not
	// belong to the evaluated group are treated as already available.
	Dependencies() []string
	// Calculate recomputes the entity.
	Calculate() error
}
