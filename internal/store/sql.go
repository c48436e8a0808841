package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// positionColumn preserves source row order, which specialty grouping and
// first-match login depend on.
const positionColumn = "position"

// SQLStore keeps each dataset in a table of the same name.
type SQLStore struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

// OpenSQLStore connects through dialector and creates missing tables.
func OpenSQLStore(dialector gorm.Dialector, logger logrus.FieldLogger) (*SQLStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewSQLStore(db, logger)
}

// NewSQLStore wraps an open connection and creates missing tables.
func NewSQLStore(db *gorm.DB, logger logrus.FieldLogger) (*SQLStore, error) {
	s := &SQLStore{db: db, logger: logger}
	for _, d := range Datasets() {
		if err := s.migrate(d); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *SQLStore) migrate(d Dataset) error {
	if s.db.Migrator().HasTable(d.Name) {
		return nil
	}
	columns := make([]string, 0, len(d.Columns)+1)
	columns = append(columns, s.quote(positionColumn)+" BIGINT NOT NULL")
	for _, col := range d.Columns {
		columns = append(columns, s.quote(col)+" VARCHAR(255) NOT NULL DEFAULT ''")
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", s.quote(d.Name), strings.Join(columns, ", "))
	if err := s.db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to create table %s: %w", d.Name, err)
	}
	s.logger.WithField("table", d.Name).Info("Created table")
	return nil
}

func (s *SQLStore) quote(name string) string {
	return s.db.Statement.Quote(name)
}

func (s *SQLStore) Load(ctx context.Context, d Dataset) Table {
	t, err := s.Read(ctx, d)
	if err != nil {
		return absorb(s.logger, d, d.Name, err)
	}
	return t
}

// Read loads d without absorbing failures.
func (s *SQLStore) Read(ctx context.Context, d Dataset) (Table, error) {
	rows, err := s.db.WithContext(ctx).
		Table(d.Name).
		Select(d.Columns).
		Order(positionColumn).
		Rows()
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer rows.Close()

	t := NewTable(d)
	values := make([]sql.NullString, len(d.Columns))
	dest := make([]interface{}, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return Table{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		row := make(Row, len(values))
		for i, v := range values {
			row[i] = v.String
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return t, nil
}

// Save replaces the table contents inside a single transaction.
func (s *SQLStore) Save(ctx context.Context, d Dataset, t Table) error {
	records := make([]map[string]interface{}, 0, t.Len())
	for i, row := range t.Rows {
		record := map[string]interface{}{positionColumn: i}
		for j, col := range d.Columns {
			if j < len(row) {
				record[col] = row[j]
			} else {
				record[col] = ""
			}
		}
		records = append(records, record)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM " + s.quote(d.Name)).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Table(d.Name).Create(records).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", d.Name, err)
	}
	s.logger.WithFields(logrus.Fields{"dataset": d.Name, "rows": t.Len()}).Debug("Dataset saved")
	return nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
