// Package definition loads feature definitions: the features an application knows,
// their dependencies, default settings and availability rules.
//
// Definitions are YAML documents:
//
//	version: "2024-10-01"
//	features:
//	  - id: payments
//	    rule: {always: true}
//	  - id: checkout
//	    depends_on: [payments]
//	    settings: {theme: dark}
//	    rule:
//	      any:
//	        - setting_equals: {key: cookie.beta, value: "1"}
//	        - percentage: {key: cookie.session, percent: 10}
//
// A rule block configures exactly one built-in rule (always, setting_equals,
// setting_in, percentage, all, any, not). Features without a rule block are left to
// the resolver's missing rule policy. Dependency cycles are reported when the
// definition is loaded, never during resolution.
//
// Definitions come from a local file or an object in storage (Source). Watcher
// reloads a local file on change.
package definition
