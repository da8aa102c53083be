// Package server holds the HTTP server configuration.
//
// While the serve command handles the server startup, this package defines the
// configuration structure: listen port, API key and graceful shutdown bound.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the serve command to start and stop the Fiber app.
package server
