package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"shop-seeker/models"
)

// CSVStore keeps the two outcome tables as approved.csv and rejected.csv in
// one directory. Files are created with a header row and only ever appended to.
type CSVStore struct {
	dir string
}

// NewCSVStore creates the output directory and any missing table files.
func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	s := &CSVStore{dir: dir}
	for tab, header := range map[string][]string{
		approvedTab: approvedHeader,
		rejectedTab: rejectedHeader,
	} {
		if err := s.ensureFile(s.path(tab), header); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *CSVStore) path(tab string) string {
	switch tab {
	case approvedTab:
		return filepath.Join(s.dir, "approved.csv")
	default:
		return filepath.Join(s.dir, "rejected.csv")
	}
}

func (s *CSVStore) ensureFile(path string, header []string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("csv: stat %q: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()
	return w.Error()
}

// LoadSeen reads the Link column of both tables.
func (s *CSVStore) LoadSeen(_ context.Context) (*models.SeenSet, error) {
	seen := models.NewSeenSet()
	for _, tab := range []string{approvedTab, rejectedTab} {
		rows, err := s.readAll(s.path(tab))
		if err != nil {
			return nil, err
		}
		collectLinks(seen, rows)
	}
	return seen, nil
}

func (s *CSVStore) readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read %q: %w", path, err)
		}
		rows = append(rows, row)
	}
}

func (s *CSVStore) AppendApproved(_ context.Context, rec Record) error {
	return s.appendRow(s.path(approvedTab), rec.ApprovedRow())
}

func (s *CSVStore) AppendRejected(_ context.Context, rec Record) error {
	return s.appendRow(s.path(rejectedTab), rec.RejectedRow())
}

func (s *CSVStore) appendRow(path string, row []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("csv: open %q for append: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: flush row: %w", err)
	}
	return f.Close()
}

// Close is a no-op; every append opens and closes its file.
func (s *CSVStore) Close() error {
	return nil
}
