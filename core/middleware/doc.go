// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: Authenticates callers by bearer token or machine API key and gates
//     routes with RequireUser / RequireAdmin.
//   - rayid: Assigns every request a RayID, injecting it into the context and
//     response headers for tracing.
//
// rayid is registered first so every later log line carries the RayID.
package middleware
