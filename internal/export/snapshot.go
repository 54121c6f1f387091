package export

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/circdesk/internal/models"
	"gopkg.in/yaml.v3"
)

// Source is anything that can list its records in storage order
type Source[T any] interface {
	List() iter.Seq2[T, error]
}

// Snapshot is a point-in-time copy of every table
type Snapshot struct {
	ExportedAt string          `yaml:"exported_at"`
	DataDir    string          `yaml:"data_dir"`
	Members    []models.Member `yaml:"members"`
	Items      []models.Item   `yaml:"items"`
	Loans      []models.Loan   `yaml:"loans"`
}

// Collect reads all three tables into a Snapshot
func Collect(dataDir string, members Source[models.Member], items Source[models.Item], loans Source[models.Loan]) (*Snapshot, error) {
	snap := &Snapshot{
		ExportedAt: time.Now().Format(time.RFC3339),
		DataDir:    dataDir,
	}

	var err error
	if snap.Members, err = drain(members); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}
	if snap.Items, err = drain(items); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	if snap.Loans, err = drain(loans); err != nil {
		return nil, fmt.Errorf("failed to read loans: %w", err)
	}
	return snap, nil
}

func drain[T any](src Source[T]) ([]T, error) {
	out := []T{}
	for rec, err := range src.List() {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// WriteYAML saves the snapshot as library-<timestamp>.yaml in outputDir
// and returns the file path
func WriteYAML(snap *Snapshot, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(outputDir, fmt.Sprintf("library-%s.yaml", timestamp))

	data, err := yaml.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	return filename, nil
}

// ReadYAML loads a snapshot written by WriteYAML
func ReadYAML(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snap, nil
}
