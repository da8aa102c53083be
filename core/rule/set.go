package rule

import (
	"feature-manifest/core/feature"
)

// Set maps features to their availability rule. Version identifies the rule
// set in cache keys; two sets with the same version must behave identically.
type Set struct {
	Version string
	rules   map[feature.ID]Rule
}

// NewSet creates an empty rule set.
func NewSet(version string) *Set {
	return &Set{Version: version, rules: make(map[feature.ID]Rule)}
}

// Add assigns r to id, replacing any previous rule. A nil r removes the rule.
func (s *Set) Add(id feature.ID, r Rule) *Set {
	if r == nil {
		delete(s.rules, id)
		return s
	}
	s.rules[id] = r
	return s
}

// Lookup returns the rule for id.
func (s *Set) Lookup(id feature.ID) (Rule, bool) {
	if s == nil {
		return nil, false
	}
	r, ok := s.rules[id]
	return r, ok
}

// Len returns the number of rules.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Missing returns, in declaration order, the features of g without a rule.
func (s *Set) Missing(g *feature.Graph) []feature.ID {
	var missing []feature.ID
	for _, id := range g.Features() {
		if _, ok := s.Lookup(id); !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
