// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// settings it reads: listen port, the optional machine API key, the default page
// size for list endpoints and the request body limit.
package server
