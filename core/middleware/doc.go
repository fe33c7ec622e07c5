// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - auth: API key validation (X-API-Key header) protecting the inventory
//     routes. An empty key disables the check.
//   - rayid: a unique request id (RayID) for every incoming request, stored in
//     the fiber locals and echoed in the X-Ray-ID response header.
//
// The start command registers rayid first so that every log line carries the
// id, then the public metrics route, then auth.
package middleware
