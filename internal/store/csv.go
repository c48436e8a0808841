package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// CSVStore keeps each dataset in its own comma-separated file under dir.
type CSVStore struct {
	dir    string
	logger logrus.FieldLogger
}

// NewCSVStore creates a store rooted at dir. The directory is created on
// first save.
func NewCSVStore(dir string, logger logrus.FieldLogger) *CSVStore {
	return &CSVStore{dir: dir, logger: logger}
}

// Path returns the file backing d.
func (s *CSVStore) Path(d Dataset) string {
	return filepath.Join(s.dir, d.File)
}

func (s *CSVStore) Load(ctx context.Context, d Dataset) Table {
	t, err := s.Read(ctx, d)
	if err != nil {
		return absorb(s.logger, d, s.Path(d), err)
	}
	return t
}

// Read loads d and reports why it could not be read. A missing file
// yields an error wrapping os.ErrNotExist.
func (s *CSVStore) Read(_ context.Context, d Dataset) (Table, error) {
	f, err := os.Open(s.Path(d))
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return Table{}, fmt.Errorf("%w: %s is empty", ErrSchemaMismatch, d.File)
	}
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	indexes, err := d.columnIndexes(header)
	if err != nil {
		return Table{}, err
	}

	t := NewTable(d)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		row := make(Row, len(indexes))
		for i, pos := range indexes {
			if pos < len(record) {
				row[i] = record[pos]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Save writes the table to a temporary file next to the target and renames
// it into place, so readers see either the old or the new contents.
func (s *CSVStore) Save(ctx context.Context, d Dataset, t Table) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+d.File+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", d.Name, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(d.Columns); err != nil {
		return fmt.Errorf("failed to write %s header: %w", d.Name, err)
	}
	for _, row := range t.Rows {
		record := make([]string, len(d.Columns))
		copy(record, row)
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write %s row: %w", d.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", d.Name, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", d.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", d.Name, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(d)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", d.File, err)
	}

	s.logger.WithFields(logrus.Fields{"dataset": d.Name, "rows": t.Len()}).Debug("Dataset saved")
	return nil
}

func (s *CSVStore) Close() error { return nil }
