package dataset

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultName is the dataset used when none is given.
const DefaultName = "kalvimentor-basics"

//go:embed all:testdata
var embeddedDatasets embed.FS

// Load loads a dataset by name, searching first in the external directory
// (if provided), then in the embedded datasets.
func Load(name string, externalDir string) (*Dataset, error) {
	if name == "" {
		name = DefaultName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("invalid dataset name %q", name)
	}

	if externalDir != "" {
		dir := filepath.Join(externalDir, name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return loadFromFS(os.DirFS(dir), name)
		}
	}

	// embed.FS always uses forward slashes.
	subFS, err := fs.Sub(embeddedDatasets, path.Join("testdata", name))
	if err != nil {
		return nil, fmt.Errorf("dataset %q not found: %w", name, err)
	}
	if _, err := fs.Stat(subFS, "config.yaml"); err != nil {
		return nil, fmt.Errorf("dataset %q not found", name)
	}
	return loadFromFS(subFS, name)
}

// List returns the names of all available datasets, sorted.
func List(externalDir string) ([]string, error) {
	seen := make(map[string]bool)
	var names []string

	entries, err := fs.ReadDir(embeddedDatasets, "testdata")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded datasets: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			seen[e.Name()] = true
			names = append(names, e.Name())
		}
	}

	if externalDir != "" {
		entries, err := os.ReadDir(externalDir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read datasets directory: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() && !seen[e.Name()] {
				names = append(names, e.Name())
			}
		}
	}

	sort.Strings(names)
	return names, nil
}

func loadFromFS(fsys fs.FS, name string) (*Dataset, error) {
	configData, err := fs.ReadFile(fsys, "config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read config.yaml for dataset %q: %w", name, err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(configData, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse config.yaml for dataset %q: %w", name, err)
	}

	if ds.Name == "" {
		ds.Name = name
	}
	if ds.SamplesFile == "" {
		ds.SamplesFile = "samples.csv"
	}

	samples, err := loadSamplesFromFS(fsys, ds.SamplesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples for dataset %q: %w", name, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("dataset %q has no samples", name)
	}
	ds.Samples = samples

	return &ds, nil
}

func loadSamplesFromFS(fsys fs.FS, filename string) ([]Sample, error) {
	f, err := fsys.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}

	for _, required := range []string{"ID", "Input", "Expected"} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("missing required CSV column: %s", required)
		}
	}

	minCols := 0
	for _, idx := range colIndex {
		if idx >= minCols {
			minCols = idx + 1
		}
	}

	var samples []Sample
	for lineNum := 2; ; lineNum++ { // 1-indexed, after header
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", lineNum, err)
		}
		if len(record) < minCols {
			return nil, fmt.Errorf("CSV row %d has %d columns, expected at least %d", lineNum, len(record), minCols)
		}

		s := Sample{
			ID:       strings.TrimSpace(record[colIndex["ID"]]),
			Input:    strings.TrimSpace(record[colIndex["Input"]]),
			Expected: strings.TrimSpace(record[colIndex["Expected"]]),
		}
		if s.Input == "" {
			return nil, fmt.Errorf("CSV row %d has an empty Input", lineNum)
		}
		samples = append(samples, s)
	}

	return samples, nil
}
