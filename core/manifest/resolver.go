package manifest

import (
	"fmt"
	"strings"

	"feature-manifest/core/feature"
	"feature-manifest/core/rule"
	"feature-manifest/core/settings"

	"go.uber.org/zap"
)

// MissingRulePolicy decides what happens to a feature without an availability rule.
type MissingRulePolicy int

const (
	// PolicyFail aborts resolution with a *MissingRuleError.
	PolicyFail MissingRulePolicy = iota
	// PolicyUnavailable resolves the feature as unavailable and logs a warning.
	PolicyUnavailable
)

func (p MissingRulePolicy) String() string {
	if p == PolicyUnavailable {
		return "unavailable"
	}
	return "fail"
}

// ParsePolicy parses "fail" or "unavailable". An empty string means PolicyFail.
func ParsePolicy(s string) (MissingRulePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return PolicyFail, nil
	case "unavailable":
		return PolicyUnavailable, nil
	default:
		return PolicyFail, fmt.Errorf("unknown missing rule policy %q (expected fail or unavailable)", s)
	}
}

// Resolver turns a graph, settings and rules into a Manifest.
// A Resolver holds no per-resolution state and is safe for concurrent use.
type Resolver struct {
	logger *zap.Logger
	policy MissingRulePolicy
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for evaluation tracing and policy warnings.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMissingRulePolicy sets the policy for features without a rule.
func WithMissingRulePolicy(p MissingRulePolicy) Option {
	return func(r *Resolver) {
		r.policy = p
	}
}

// NewResolver creates a resolver. By default it logs nothing and fails on missing rules.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{logger: zap.NewNop(), policy: PolicyFail}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the configured missing rule policy.
func (r *Resolver) Policy() MissingRulePolicy {
	return r.policy
}

// Resolve evaluates every feature of g and returns one descriptor per feature.
//
// The graph is re-validated first (*feature.CycleError). A feature without a rule
// fails with *MissingRuleError unless PolicyUnavailable is configured. On any
// error no manifest is returned.
func (r *Resolver) Resolve(g *feature.Graph, snap settings.Snapshot, rules *rule.Set) (*Manifest, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	return r.resolveOrder(g, order, snap, rules)
}

// resolveOrder performs the single forward pass over an already computed order.
func (r *Resolver) resolveOrder(g *feature.Graph, order []feature.ID, snap settings.Snapshot, rules *rule.Set) (*Manifest, error) {
	m := newManifest(len(order))

	for _, id := range order {
		deps, err := g.DependenciesOf(id)
		if err != nil {
			return nil, err
		}

		own, ruleName, err := r.evaluateOwn(id, snap, rules)
		if err != nil {
			return nil, err
		}

		available := own.Resolve()
		var blockedBy feature.ID
		for _, dep := range deps {
			resolved, ok := m.entries[dep]
			if !ok {
				return nil, &OrderingInvariantError{Feature: id, Dependency: dep}
			}
			if !resolved.available && blockedBy == "" {
				blockedBy = dep
			}
			available = available && resolved.available
		}

		fields := []zap.Field{
			zap.String("feature", string(id)),
			zap.String("rule", ruleName),
			zap.Stringer("own", own),
			zap.Bool("available", available),
		}
		if blockedBy != "" {
			fields = append(fields, zap.String("blocked_by", string(blockedBy)))
		}
		r.logger.Debug("Feature evaluated", fields...)

		m.put(id, NewDescriptor(available, deps, snap.Own(id)))
	}

	return m, nil
}

func (r *Resolver) evaluateOwn(id feature.ID, snap settings.Snapshot, rules *rule.Set) (rule.Tristate, string, error) {
	rl, ok := rules.Lookup(id)
	if ok {
		return rl.Evaluate(id, snap.For(id)), rule.Describe(rl), nil
	}

	if r.policy != PolicyUnavailable {
		return rule.Unavailable, "", &MissingRuleError{ID: id}
	}
	r.logger.Warn("Feature has no availability rule, resolving as unavailable",
		zap.String("feature", string(id)),
		zap.Stringer("policy", r.policy))
	return rule.Unavailable, "missing", nil
}
