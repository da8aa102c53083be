package rule

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"feature-manifest/core/feature"
	"feature-manifest/core/settings"
)

// ErrInvalidRule indicates a rule was configured with invalid parameters.
var ErrInvalidRule = errors.New("invalid availability rule")

// Rule decides the availability of a feature from its settings view.
// Rules must be safe for concurrent use and must not retain the settings.
type Rule interface {
	Evaluate(id feature.ID, s settings.Settings) Tristate
}

// Func adapts a function into a Rule.
type Func func(id feature.ID, s settings.Settings) Tristate

// Evaluate calls f.
func (f Func) Evaluate(id feature.ID, s settings.Settings) Tristate {
	return f(id, s)
}

func (f Func) String() string { return "custom" }

// Describe returns a short human readable description of r for logs.
func Describe(r Rule) string {
	if s, ok := r.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", r)
}

type constant Tristate

func (c constant) Evaluate(feature.ID, settings.Settings) Tristate { return Tristate(c) }
func (c constant) String() string                                  { return "always " + Tristate(c).String() }

// AlwaysAvailable enables the feature unconditionally.
func AlwaysAvailable() Rule { return constant(Available) }

// AlwaysUnavailable disables the feature unconditionally.
func AlwaysUnavailable() Rule { return constant(Unavailable) }

type settingEquals struct {
	key      string
	expected settings.Value
}

// SettingEquals is Available when the setting equals expected and Unavailable
// when it holds another value. An absent setting is Indeterminate.
func SettingEquals(key string, expected settings.Value) Rule {
	return settingEquals{key: key, expected: expected}
}

func (r settingEquals) Evaluate(_ feature.ID, s settings.Settings) Tristate {
	v := s.Get(r.key)
	if v.IsAbsent() {
		return Indeterminate
	}
	return FromBool(v.Equal(r.expected))
}

func (r settingEquals) String() string {
	return fmt.Sprintf("%s == %s", r.key, r.expected)
}

type settingIn struct {
	key     string
	allowed []settings.Value
}

// SettingIn is Available when the setting equals any of the allowed values.
// An absent setting is Indeterminate.
func SettingIn(key string, allowed ...settings.Value) Rule {
	return settingIn{key: key, allowed: append([]settings.Value(nil), allowed...)}
}

func (r settingIn) Evaluate(_ feature.ID, s settings.Settings) Tristate {
	v := s.Get(r.key)
	if v.IsAbsent() {
		return Indeterminate
	}
	for _, a := range r.allowed {
		if v.Equal(a) {
			return Available
		}
	}
	return Unavailable
}

func (r settingIn) String() string {
	parts := make([]string, len(r.allowed))
	for i, a := range r.allowed {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s in [%s]", r.key, strings.Join(parts, ", "))
}

type percentage struct {
	key     string
	percent int
}

// Percentage places the setting value (typically a user or session id taken from
// a cookie) into one of 100 buckets, hashed together with the feature id, and is
// Available for the first percent buckets. The same value always lands in the
// same bucket. An absent setting is Indeterminate.
func Percentage(key string, percent int) (Rule, error) {
	if percent < 0 || percent > 100 {
		return nil, fmt.Errorf("%w: percentage must be between 0 and 100, got %d", ErrInvalidRule, percent)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: percentage requires a setting key", ErrInvalidRule)
	}
	return percentage{key: key, percent: percent}, nil
}

func (r percentage) Evaluate(id feature.ID, s settings.Settings) Tristate {
	v := s.Get(r.key)
	if v.IsAbsent() {
		return Indeterminate
	}
	return FromBool(Bucket(id, v) < r.percent)
}

func (r percentage) String() string {
	return fmt.Sprintf("%d%% of %s", r.percent, r.key)
}

// Bucket returns the rollout bucket (0-99) of value for feature id.
// Numbers hash by their plain decimal text, so 12345678 and "12345678" share a bucket.
func Bucket(id feature.ID, value settings.Value) int {
	text := value.String()
	if n, ok := value.Num(); ok {
		text = strconv.FormatFloat(n, 'f', -1, 64)
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	h.Write([]byte{':'})
	h.Write([]byte(text))
	return int(h.Sum32() % 100)
}

type all []Rule

// All is Available only if every sub-rule is Available, Unavailable if any
// sub-rule is Unavailable, and Indeterminate otherwise. All() is Available.
func All(rules ...Rule) Rule {
	return all(append([]Rule(nil), rules...))
}

func (r all) Evaluate(id feature.ID, s settings.Settings) Tristate {
	result := Available
	for _, sub := range r {
		switch sub.Evaluate(id, s) {
		case Unavailable:
			return Unavailable
		case Indeterminate:
			result = Indeterminate
		}
	}
	return result
}

func (r all) String() string { return "all(" + describeAll(r) + ")" }

type anyOf []Rule

// Any is Available if any sub-rule is Available, Unavailable if every sub-rule
// is Unavailable, and Indeterminate otherwise. Any() is Unavailable.
func Any(rules ...Rule) Rule {
	return anyOf(append([]Rule(nil), rules...))
}

func (r anyOf) Evaluate(id feature.ID, s settings.Settings) Tristate {
	result := Unavailable
	for _, sub := range r {
		switch sub.Evaluate(id, s) {
		case Available:
			return Available
		case Indeterminate:
			result = Indeterminate
		}
	}
	return result
}

func (r anyOf) String() string { return "any(" + describeAll(r) + ")" }

type not struct {
	inner Rule
}

// Not inverts Available and Unavailable; Indeterminate stays Indeterminate.
func Not(r Rule) Rule {
	return not{inner: r}
}

func (r not) Evaluate(id feature.ID, s settings.Settings) Tristate {
	switch r.inner.Evaluate(id, s) {
	case Available:
		return Unavailable
	case Unavailable:
		return Available
	default:
		return Indeterminate
	}
}

func (r not) String() string { return "not(" + Describe(r.inner) + ")" }

func describeAll(rules []Rule) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = Describe(r)
	}
	return strings.Join(parts, ", ")
}
