package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
)

// ErrNotFound is returned when no row matches the requested key
var ErrNotFound = errors.New("record not found")

// row gives access to a CSV record by column name
type row func(column string) string

// table is a flat CSV file with a header row.
// Every call opens, reads or writes, and closes the file.
//
// Columns are matched by header name in both directions, so a file keeps
// its own column order and any extra columns across appends and rewrites.
type table[T any] struct {
	path    string
	columns []string
	key     string
	encode  func(T) []string
	decode  func(row) T
}

func newTable[T any](path string, columns []string, encode func(T) []string, decode func(row) T) (*table[T], error) {
	t := &table[T]{
		path:    path,
		columns: columns,
		key:     columns[0],
		encode:  encode,
		decode:  decode,
	}
	if _, err := t.ensure(); err != nil {
		return nil, err
	}
	return t, nil
}

// sheet is the raw contents of a table file
type sheet struct {
	header  []string
	index   map[string]int
	records [][]string
}

func newSheet(header []string) *sheet {
	s := &sheet{header: header, index: make(map[string]int, len(header))}
	for i, name := range header {
		if _, ok := s.index[name]; !ok {
			s.index[name] = i
		}
	}
	return s
}

func (s *sheet) row(record []string) row {
	return func(column string) string {
		i, ok := s.index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
}

// set writes values into record by column name, padding it to the header width
func (s *sheet) set(record []string, values map[string]string) []string {
	if n := len(s.header) - len(record); n > 0 {
		record = append(record, make([]string, n)...)
	}
	for column, v := range values {
		if i, ok := s.index[column]; ok {
			record[i] = v
		}
	}
	return record
}

// addColumns appends the columns the header lacks
func (s *sheet) addColumns(columns []string) {
	for _, c := range columns {
		if _, ok := s.index[c]; !ok {
			s.index[c] = len(s.header)
			s.header = append(s.header, c)
		}
	}
}

func (s *sheet) hasColumns(columns []string) bool {
	for _, c := range columns {
		if _, ok := s.index[c]; !ok {
			return false
		}
	}
	return true
}

// values maps each table column to its field in rec
func (t *table[T]) values(rec T) map[string]string {
	fields := t.encode(rec)
	out := make(map[string]string, len(t.columns))
	for i, c := range t.columns {
		out[c] = fields[i]
	}
	return out
}

// ensure returns the file's header. A file that is missing, blank, or has
// no key column in its first row is replaced by one holding only the header.
func (t *table[T]) ensure() ([]string, error) {
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	header, err := t.readHeader()
	var parseErr *csv.ParseError
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, io.EOF):
		slog.Debug("Initialising table", "path", t.path, "columns", t.columns)
	case errors.As(err, &parseErr):
		slog.Warn("Replacing unreadable table", "path", t.path, "err", err)
	case err != nil:
		return nil, fmt.Errorf("failed to read header of %s: %w", t.path, err)
	case !slices.Contains(header, t.key):
		slog.Warn("Replacing table without key column", "path", t.path, "key", t.key, "header", header)
	default:
		return header, nil
	}

	if err := t.rewrite(newSheet(t.columns)); err != nil {
		return nil, err
	}
	return t.columns, nil
}

func (t *table[T]) readHeader() ([]string, error) {
	file, err := os.Open(t.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	return reader.Read()
}

// all yields every row in storage order. Ranging again re-reads the file.
func (t *table[T]) all() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		file, err := os.Open(t.path)
		if err != nil {
			yield(zero, fmt.Errorf("failed to open %s: %w", t.path, err))
			return
		}
		defer file.Close()

		reader := csv.NewReader(file)
		reader.FieldsPerRecord = -1

		header, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			yield(zero, fmt.Errorf("failed to read header of %s: %w", t.path, err))
			return
		}
		s := newSheet(header)

		line := 1
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			line++
			if err != nil {
				yield(zero, fmt.Errorf("failed to parse %s at line %d: %w", t.path, line, err))
				return
			}
			if !yield(t.decode(s.row(record)), nil) {
				return
			}
		}
	}
}

// read returns the raw header and records. Missing table columns are added
// to the header and every record is padded to its width.
func (t *table[T]) read() (*sheet, error) {
	if _, err := t.ensure(); err != nil {
		return nil, err
	}

	file, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", t.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", t.path, err)
	}

	s := newSheet(t.columns)
	if len(records) > 0 {
		s = newSheet(records[0])
		s.records = records[1:]
	}
	s.addColumns(t.columns)
	for i, record := range s.records {
		s.records[i] = s.set(record, nil)
	}
	return s, nil
}

// append adds a single row to the end of the file in the file's column order
func (t *table[T]) append(rec T) error {
	header, err := t.ensure()
	if err != nil {
		return err
	}

	s := newSheet(header)
	if !s.hasColumns(t.columns) {
		full, err := t.read()
		if err != nil {
			return err
		}
		full.records = append(full.records, full.set(nil, t.values(rec)))
		return t.rewrite(full)
	}

	file, err := os.OpenFile(t.path, os.O_APPEND|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s for append: %w", t.path, err)
	}
	defer file.Close()

	if err := terminateLastLine(file); err != nil {
		return fmt.Errorf("failed to prepare %s for append: %w", t.path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(s.set(nil, t.values(rec))); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush row: %w", err)
	}

	slog.Debug("Appended row", "path", t.path)
	return file.Close()
}

// terminateLastLine writes a newline when the file does not already end with one
func terminateLastLine(file *os.File) error {
	info, err := file.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}

	last := make([]byte, 1)
	if _, err := file.ReadAt(last, info.Size()-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err = file.Write([]byte("\n"))
	return err
}

// rewrite replaces the file contents with the sheet's header and records.
// The new contents are written next to the table and renamed over it.
func (t *table[T]) rewrite(s *sheet) error {
	tmp, err := os.CreateTemp(filepath.Dir(t.path), filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(s.header); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(s.records); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write rows to %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), t.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", t.path, err)
	}

	slog.Debug("Rewrote table", "path", t.path, "rows", len(s.records))
	return nil
}

// count returns the number of data rows
func (t *table[T]) count() (int, error) {
	n := 0
	for _, err := range t.all() {
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}
