package evaluation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Files written into each run directory.
const (
	ResultsFileName = "results.txt"
	ReportFileName  = "report.json"
)

// maxRunDirAttempts bounds the suffixes tried when a run directory exists.
const maxRunDirAttempts = 100

func writeReport(outputDir string, report *Report) error {
	runPath, err := createRunDir(outputDir, report)
	if err != nil {
		return err
	}

	report.ResultsFile = filepath.Join(runPath, ResultsFileName)
	report.ReportFile = filepath.Join(runPath, ReportFileName)

	if err := os.WriteFile(report.ResultsFile, []byte(FormatReport(report)), 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(report.ReportFile, data, 0o644)
}

// createRunDir creates a fresh directory for report, never reusing an
// existing one. On collision report.ID gets a numeric suffix.
func createRunDir(outputDir string, report *Report) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	base := report.ID
	for i := 1; i <= maxRunDirAttempts; i++ {
		id := base
		if i > 1 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		runPath := filepath.Join(outputDir, id)
		err := os.Mkdir(runPath, 0o755)
		if err == nil {
			report.ID = id
			return runPath, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("failed to create run directory: %w", err)
		}
	}
	return "", fmt.Errorf("run directory %s already exists", filepath.Join(outputDir, base))
}

// ReadReport loads a report.json written by a previous run.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &r, nil
}

// ListReports returns the reports found under outputDir, sorted by run ID.
// Directories without a readable report.json are skipped.
func ListReports(outputDir string) ([]*Report, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	var reports []*Report
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		r, err := ReadReport(filepath.Join(outputDir, e.Name(), ReportFileName))
		if err != nil {
			continue
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// sanitizeFilename replaces characters unsafe for filenames with underscores.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
