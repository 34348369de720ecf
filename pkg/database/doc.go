// Package database provides the SQLite store behind the /db routes.
//
// The store is opened from DATABASE_URL with the pure-Go modernc.org/sqlite
// driver. GET /db uses the shared pool; POST /db checks out a dedicated
// connection for the request.
package database
