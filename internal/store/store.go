package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"

	"appointment-booking-server/internal/config"
)

// Store loads and saves whole datasets.
//
// Load never fails: a missing, unreadable or mismatched backing resource
// yields an empty table with the dataset's schema and a logged warning.
// Save replaces the dataset's contents without exposing partial writes.
type Store interface {
	Load(ctx context.Context, d Dataset) Table
	Save(ctx context.Context, d Dataset, t Table) error
	Close() error
}

// Open builds the store selected by cfg.Driver.
func Open(cfg config.StoreConfig, logger logrus.FieldLogger) (Store, error) {
	switch cfg.Driver {
	case config.DriverCSV:
		return NewCSVStore(cfg.DataDir, logger), nil
	case config.DriverMySQL:
		return OpenSQLStore(mysql.Open(cfg.Database.DSN), logger)
	case config.DriverSQLite:
		return OpenSQLStore(sqlite.Open(cfg.SQLitePath), logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// absorb logs a load failure and returns the empty table that replaces it.
func absorb(logger logrus.FieldLogger, d Dataset, source string, err error) Table {
	entry := logger.WithFields(logrus.Fields{
		"dataset": d.Name,
		"source":  source,
	}).WithError(err)
	if errors.Is(err, os.ErrNotExist) {
		entry.Debug("Dataset not found, using empty table")
	} else {
		entry.Warn("Dataset could not be loaded, using empty table")
	}
	return NewTable(d)
}
