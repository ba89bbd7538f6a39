// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (production) or SQLite
// (local runs and tests) connections from the application's configuration.
//
// # Connect
//
// Connect establishes the connection, applies pool settings and pings the server.
// Duplicate key errors are translated to gorm.ErrDuplicatedKey so stores can
// report uniqueness violations as validation failures.
//
// # Schema Inspection
//
// GetTableColumns returns the live column definitions of a table. The integrity
// feature compares them against the GORM models of every feature.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "videos")
package database
