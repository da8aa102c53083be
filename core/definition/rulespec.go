package definition

import (
	"fmt"

	"feature-manifest/core/rule"
	"feature-manifest/core/settings"
)

// RuleSpec configures one built-in rule. Exactly one field must be set.
type RuleSpec struct {
	Always        *bool         `yaml:"always"`
	SettingEquals *SettingMatch `yaml:"setting_equals"`
	SettingIn     *SettingSet   `yaml:"setting_in"`
	Percentage    *Rollout      `yaml:"percentage"`
	All           []RuleSpec    `yaml:"all"`
	Any           []RuleSpec    `yaml:"any"`
	Not           *RuleSpec     `yaml:"not"`
}

// SettingMatch configures SettingEquals.
type SettingMatch struct {
	Key   string `yaml:"key"`
	Value any    `yaml:"value"`
}

// SettingSet configures SettingIn.
type SettingSet struct {
	Key    string `yaml:"key"`
	Values []any  `yaml:"values"`
}

// Rollout configures Percentage.
type Rollout struct {
	Key     string `yaml:"key"`
	Percent int    `yaml:"percent"`
}

// Build constructs the rule described by s.
func (s RuleSpec) Build() (rule.Rule, error) {
	set := 0
	for _, present := range []bool{
		s.Always != nil, s.SettingEquals != nil, s.SettingIn != nil, s.Percentage != nil,
		len(s.All) > 0, len(s.Any) > 0, s.Not != nil,
	} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: a rule needs exactly one of always, setting_equals, setting_in, percentage, all, any, not (got %d)", ErrInvalidDefinition, set)
	}

	switch {
	case s.Always != nil:
		if *s.Always {
			return rule.AlwaysAvailable(), nil
		}
		return rule.AlwaysUnavailable(), nil

	case s.SettingEquals != nil:
		if s.SettingEquals.Key == "" {
			return nil, fmt.Errorf("%w: setting_equals requires a key", ErrInvalidDefinition)
		}
		v, err := settings.FromAny(s.SettingEquals.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: setting_equals value: %v", ErrInvalidDefinition, err)
		}
		return rule.SettingEquals(s.SettingEquals.Key, v), nil

	case s.SettingIn != nil:
		if s.SettingIn.Key == "" {
			return nil, fmt.Errorf("%w: setting_in requires a key", ErrInvalidDefinition)
		}
		values := make([]settings.Value, 0, len(s.SettingIn.Values))
		for _, raw := range s.SettingIn.Values {
			v, err := settings.FromAny(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: setting_in value: %v", ErrInvalidDefinition, err)
			}
			values = append(values, v)
		}
		return rule.SettingIn(s.SettingIn.Key, values...), nil

	case s.Percentage != nil:
		r, err := rule.Percentage(s.Percentage.Key, s.Percentage.Percent)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
		}
		return r, nil

	case len(s.All) > 0:
		rules, err := buildAll(s.All)
		if err != nil {
			return nil, err
		}
		return rule.All(rules...), nil

	case len(s.Any) > 0:
		rules, err := buildAll(s.Any)
		if err != nil {
			return nil, err
		}
		return rule.Any(rules...), nil

	default:
		inner, err := s.Not.Build()
		if err != nil {
			return nil, err
		}
		return rule.Not(inner), nil
	}
}

func buildAll(specs []RuleSpec) ([]rule.Rule, error) {
	rules := make([]rule.Rule, 0, len(specs))
	for _, spec := range specs {
		r, err := spec.Build()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}
