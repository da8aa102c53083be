// Package integrity provides configuration health checks.
//
// Unlike the 'flags' package, which answers availability questions, this package
// validates that everything the resolver depends on is in place.
//
// # Checks Provided
//
//   - Definition: The served dependency graph is acyclic and every feature has an availability rule.
//   - Storage: The bucket exists with the manifest archive folder and, when configured, the definition object.
//   - Database: The settings table has every column the settings store writes.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/definition : Runs the definition check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/database : Runs the settings table check.
package integrity
