// Package rule defines availability rules: pluggable predicates deciding whether a
// feature should be on, independent of its dependencies.
//
// A rule returns a Tristate. Indeterminate means the rule could not decide (for
// example because a setting it reads is absent); at the top level it counts as
// Unavailable. Composite rules keep Indeterminate distinct so a parent can still
// decide, e.g. Any(SettingEquals(...), AlwaysAvailable()).
//
// # Built-in rules
//
//   - AlwaysAvailable, AlwaysUnavailable
//   - SettingEquals(key, value), SettingIn(key, values...)
//   - Percentage(key, percent): deterministic rollout bucket
//   - All(rules...), Any(rules...), Not(rule)
//
// Custom rules implement Rule directly or wrap a function with Func.
package rule
