// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines
// the settings it reads: the listen port, the API key protecting the
// inventory routes, and the path of the public metrics endpoint.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the start command to build the Fiber application.
package server
