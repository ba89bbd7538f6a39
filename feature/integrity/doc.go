// Package integrity provides health checks for the catalog's infrastructure.
//
// # Checks Provided
//
//   - Schema: every column of every registered model exists in the live
//     database; explicit gorm types are compared loosely.
//   - Storage: the bucket exists and holds the thumbnails/, imports/ and
//     exports/ prefixes.
//
// # HTTP Endpoints
//
// All endpoints require an admin principal.
//
//   - GET /integrity : Runs all checks concurrently.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
package integrity
