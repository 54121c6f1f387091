package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// File names inside a Parquet snapshot directory
const (
	MembersParquet = "members.parquet"
	ItemsParquet   = "items.parquet"
	LoansParquet   = "loans.parquet"
)

// WriteParquet writes one Parquet file per table into outputDir
func WriteParquet(snap *Snapshot, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := []string{
		filepath.Join(outputDir, MembersParquet),
		filepath.Join(outputDir, ItemsParquet),
		filepath.Join(outputDir, LoansParquet),
	}

	if err := parquet.WriteFile(paths[0], snap.Members); err != nil {
		return nil, fmt.Errorf("failed to write members: %w", err)
	}
	if err := parquet.WriteFile(paths[1], snap.Items); err != nil {
		return nil, fmt.Errorf("failed to write items: %w", err)
	}
	if err := parquet.WriteFile(paths[2], snap.Loans); err != nil {
		return nil, fmt.Errorf("failed to write loans: %w", err)
	}

	slog.Debug("Wrote parquet snapshot", "dir", outputDir,
		"members", len(snap.Members), "items", len(snap.Items), "loans", len(snap.Loans))
	return paths, nil
}

// ReadParquet loads every row of a Parquet file. A missing file yields no rows.
func ReadParquet[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("Parquet file not present", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "path", path, "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	var records []T
	rows := make([]T, 128) // Read in batches
	for {
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if n == 0 {
			break
		}
	}

	return records, nil
}
