// Package feature holds the feature dependency graph.
//
// A Graph records, for every feature identifier, the ordered list of features it
// declares as dependencies. The graph is kept acyclic at all times: AddDependency
// refuses any edge that would close a cycle and leaves the graph untouched when it
// does so.
//
// # Ordering
//
// TopologicalOrder returns every feature after all of its dependencies. Features
// that do not depend on each other keep their declaration order, so two graphs
// built from the same definition always evaluate in the same sequence.
//
// # Usage
//
//	g := feature.NewGraph()
//	g.AddFeature("payments")
//	if err := g.AddDependency("checkout", "payments"); err != nil {
//	    var cycle *feature.CycleError
//	    if errors.As(err, &cycle) {
//	        log.Fatal(cycle.Path)
//	    }
//	}
//	order, err := g.TopologicalOrder()
package feature
