package feature

import (
	"container/heap"
	"crypto/sha256"
	"encoding/hex"
	"slices"
)

// ID identifies a feature. It is comparable and safe to use as a map key.
type ID string

// Graph maps every registered feature to its declared dependencies.
//
// A Graph is not safe for concurrent mutation. Callers that reload definitions
// build a new Graph and swap it in rather than mutating one that is being resolved.
type Graph struct {
	order []ID
	index map[ID]int
	deps  map[ID][]ID
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[ID]int),
		deps:  make(map[ID][]ID),
	}
}

// AddFeature registers a feature with no dependencies.
// Registering the same feature twice keeps its first declaration position.
func (g *Graph) AddFeature(id ID) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.order)
	g.order = append(g.order, id)
	g.deps[id] = nil
}

// AddDependency declares that feature requires dependsOn.
// Unregistered ends are registered (feature first). If the edge would close a
// cycle a *CycleError is returned and the graph is left exactly as it was.
func (g *Graph) AddDependency(feature, dependsOn ID) error {
	if feature == dependsOn {
		return &CycleError{Path: []ID{feature, feature}}
	}

	if path := g.pathBetween(dependsOn, feature); path != nil {
		return &CycleError{Path: append([]ID{feature}, path...)}
	}

	g.AddFeature(feature)
	g.AddFeature(dependsOn)
	if slices.Contains(g.deps[feature], dependsOn) {
		return nil
	}
	g.deps[feature] = append(g.deps[feature], dependsOn)
	return nil
}

// pathBetween returns the dependency path from -> ... -> to, or nil if to is not
// reachable from from.
func (g *Graph) pathBetween(from, to ID) []ID {
	if _, ok := g.index[from]; !ok {
		return nil
	}
	if _, ok := g.index[to]; !ok {
		return nil
	}

	visited := make(map[ID]bool)
	var walk func(id ID) []ID
	walk = func(id ID) []ID {
		if id == to {
			return []ID{id}
		}
		if visited[id] {
			return nil
		}
		visited[id] = true
		for _, dep := range g.deps[id] {
			if rest := walk(dep); rest != nil {
				return append([]ID{id}, rest...)
			}
		}
		return nil
	}
	return walk(from)
}

// DependenciesOf returns the declared (not transitive) dependencies of id.
// The returned slice is a copy and is empty, not nil, when there are none.
func (g *Graph) DependenciesOf(id ID) ([]ID, error) {
	deps, ok := g.deps[id]
	if !ok {
		return nil, &UnknownFeatureError{ID: id}
	}
	out := make([]ID, len(deps))
	copy(out, deps)
	return out, nil
}

// Has reports whether id is registered.
func (g *Graph) Has(id ID) bool {
	_, ok := g.index[id]
	return ok
}

// Len returns the number of registered features.
func (g *Graph) Len() int {
	return len(g.order)
}

// Features returns all features in declaration order.
func (g *Graph) Features() []ID {
	return slices.Clone(g.order)
}

// TopologicalOrder returns every feature after all of its dependencies.
// Independent features keep their declaration order.
func (g *Graph) TopologicalOrder() ([]ID, error) {
	pending := make(map[ID]int, len(g.order))
	dependents := make(map[ID][]ID, len(g.order))
	ready := &declarationQueue{index: g.index}

	for _, id := range g.order {
		pending[id] = len(g.deps[id])
		for _, dep := range g.deps[id] {
			dependents[dep] = append(dependents[dep], id)
		}
		if pending[id] == 0 {
			heap.Push(ready, id)
		}
	}

	out := make([]ID, 0, len(g.order))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(ID)
		out = append(out, id)
		for _, next := range dependents[id] {
			pending[next]--
			if pending[next] == 0 {
				heap.Push(ready, next)
			}
		}
	}

	if len(out) != len(g.order) {
		return nil, g.findCycle()
	}
	return out, nil
}

// Validate re-checks that the graph is acyclic.
func (g *Graph) Validate() error {
	_, err := g.TopologicalOrder()
	return err
}

func (g *Graph) findCycle() *CycleError {
	const (
		unseen = iota
		active
		done
	)
	state := make(map[ID]int, len(g.order))
	var stack []ID

	var visit func(id ID) []ID
	visit = func(id ID) []ID {
		state[id] = active
		stack = append(stack, id)
		for _, dep := range g.deps[id] {
			switch state[dep] {
			case active:
				start := slices.Index(stack, dep)
				return append(slices.Clone(stack[start:]), dep)
			case unseen:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	for _, id := range g.order {
		if state[id] == unseen {
			if cycle := visit(id); cycle != nil {
				return &CycleError{Path: cycle}
			}
		}
	}
	return &CycleError{}
}

// Clone returns an independent copy of the graph.
func (g *Graph) Clone() *Graph {
	c := NewGraph()
	for _, id := range g.order {
		c.AddFeature(id)
		c.deps[id] = slices.Clone(g.deps[id])
	}
	return c
}

// Fingerprint returns a hex digest of the graph topology, including declaration
// and dependency order. Equal fingerprints mean the graphs resolve identically.
func (g *Graph) Fingerprint() string {
	h := sha256.New()
	for _, id := range g.order {
		h.Write([]byte(id))
		h.Write([]byte{0})
		for _, dep := range g.deps[id] {
			h.Write([]byte(dep))
			h.Write([]byte{1})
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// declarationQueue is a min-heap of feature ids keyed by declaration position.
type declarationQueue struct {
	ids   []ID
	index map[ID]int
}

func (q *declarationQueue) Len() int           { return len(q.ids) }
func (q *declarationQueue) Less(i, j int) bool { return q.index[q.ids[i]] < q.index[q.ids[j]] }
func (q *declarationQueue) Swap(i, j int)      { q.ids[i], q.ids[j] = q.ids[j], q.ids[i] }
func (q *declarationQueue) Push(x any)         { q.ids = append(q.ids, x.(ID)) }
func (q *declarationQueue) Pop() any {
	n := len(q.ids)
	id := q.ids[n-1]
	q.ids = q.ids[:n-1]
	return id
}
