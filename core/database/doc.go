// Package database handles database connections and schema inspection.
//
// It wraps GORM and selects the dialector from configuration: postgres (the
// default, through pgx), mysql, or sqlite for local runs and tests.
//
// # Connect
//
// Connect opens the database, sizes the connection pool and pings it within
// the configured timeout. Sqlite is limited to a single connection.
//
// # Schema Inspection
//
// GetTableColumns and HasView read the live schema in a dialect-aware way.
// The integrity feature uses them to compare the deployed schema with the
// inventory models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	columns, err := database.GetTableColumns(db, "items")
package database
