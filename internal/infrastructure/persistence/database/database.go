// Package database provides the core functionality for creating and managing
// the campaign database connection in a clean, isolated manner.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/anishwij/beacon-go/internal/infrastructure/observability/logging"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// DB represents a wrapper around the standard SQL database connection.
type DB struct {
	*sql.DB
}

// NewConnection establishes a new database connection for the specified driver.
func NewConnection(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// NewConnectionWithLogger establishes a new database connection for the specified driver with logging.
func NewConnectionWithLogger(driverName, dataSourceName string, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()
	logger.Database().Debug("Creating new database connection", "driverName", driverName)

	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		logger.Database().Error("Failed to open database connection", "error", err.Error(), "driverName", driverName)
		return nil, err
	}

	if err = db.Ping(); err != nil {
		logger.Database().Error("Database ping failed", "error", err.Error(), "driverName", driverName)
		return nil, err
	}

	logger.Database().Info("Database connection established", "driverName", driverName, "duration", time.Since(start))
	return &DB{db}, nil
}

// Open selects the driver from configuration: a remote libsql database when
// tursoURL is set, the local sqlite file otherwise.
func Open(sqlitePath, tursoURL, tursoToken string, logger *logging.ChanneledLogger) (*DB, error) {
	if tursoURL != "" {
		connStr := fmt.Sprintf("%s?authToken=%s", tursoURL, tursoToken)
		return NewConnectionWithLogger("libsql", connStr, logger)
	}
	return NewConnectionWithLogger("sqlite3", sqlitePath, logger)
}
