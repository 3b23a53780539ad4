// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL connections for production
// and SQLite connections for local runs and tests, based on the application's configuration.
//
// # Connect
//
// Connect opens the dialect selected by Config.Driver, applies pool settings and
// verifies the connection with a ping bounded by TimeoutSeconds.
//
// # Schema
//
// Migrate creates the catalog tables from GORM models. GetTableColumns reads the
// live column list of a table so the integrity feature can compare it with the models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "items")
package database
