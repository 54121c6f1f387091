package seed

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/circdesk/internal/export"
	"github.com/lehigh-university-libraries/circdesk/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed samples.yaml
var defaultSamples []byte

// Store is the part of a record store the seeder needs
type Store[T any] interface {
	Count() (int, error)
	Add(rec T) error
}

// Fixtures holds the sample records written into empty stores
type Fixtures struct {
	Members []models.Member `yaml:"members"`
	Items   []models.Item   `yaml:"items"`
}

// Seed adds samples in order when store has no rows, and does nothing
// otherwise. It returns the number of rows added.
func Seed[T any](store Store[T], samples []T) (int, error) {
	n, err := store.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count existing rows: %w", err)
	}
	if n > 0 {
		slog.Debug("Store already has data, skipping seed", "rows", n)
		return 0, nil
	}

	for i, rec := range samples {
		if err := store.Add(rec); err != nil {
			return i, fmt.Errorf("failed to add sample %d: %w", i+1, err)
		}
	}
	return len(samples), nil
}

// Defaults returns the built-in sample members and items
func Defaults() (Fixtures, error) {
	return parseYAML(defaultSamples)
}

// LoadFixtures reads fixtures from a YAML file or from a directory of
// Parquet files as written by the export command.
func LoadFixtures(path string) (Fixtures, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("failed to open fixtures: %w", err)
	}
	if info.IsDir() {
		return loadParquetDir(path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Fixtures{}, fmt.Errorf("failed to read fixtures: %w", err)
		}
		return parseYAML(data)
	default:
		return Fixtures{}, fmt.Errorf("unsupported file format: %s (supported: .yaml, .yml, parquet directory)", ext)
	}
}

func parseYAML(data []byte) (Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixtures{}, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	for i := range f.Items {
		if f.Items[i].Status == "" {
			f.Items[i].Status = models.StatusAvailable
		}
	}
	return f, nil
}

func loadParquetDir(dir string) (Fixtures, error) {
	var f Fixtures
	var err error

	f.Members, err = export.ReadParquet[models.Member](filepath.Join(dir, export.MembersParquet))
	if err != nil {
		return Fixtures{}, err
	}
	f.Items, err = export.ReadParquet[models.Item](filepath.Join(dir, export.ItemsParquet))
	if err != nil {
		return Fixtures{}, err
	}
	return f, nil
}
