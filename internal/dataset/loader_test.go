package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDataset(t *testing.T) {
	ds, err := Load(DefaultName, "")
	require.NoError(t, err)

	assert.Equal(t, "KalviMentor Basics", ds.Name)
	assert.Equal(t, "1", ds.Version)
	assert.Equal(t, "binary", ds.JudgeMode)
	assert.Equal(t, "samples.csv", ds.SamplesFile)
	assert.Len(t, ds.Samples, 5)
	assert.Contains(t, ds.Prompt.SystemMessage, "KalviMentor_AI")
}

func TestLoadEmbeddedDatasetSamplesInOrder(t *testing.T) {
	ds, err := Load("", "")
	require.NoError(t, err)

	want := []Sample{
		{ID: "1", Input: "What is the capital of France?", Expected: "Paris"},
		{ID: "2", Input: "Who wrote 'Romeo and Juliet'?", Expected: "William Shakespeare"},
		{ID: "3", Input: "State Newton's Second Law of Motion.", Expected: "Force equals mass times acceleration (F = ma)"},
		// Quoted fields with commas survive.
		{ID: "4", Input: "If a car travels at 60 km/h for 2 hours, how far does it go?", Expected: "120 km"},
		{ID: "5", Input: "What gas do plants absorb from the atmosphere for photosynthesis?", Expected: "Carbon dioxide (CO2)"},
	}
	if diff := cmp.Diff(want, ds.Samples); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadNonexistentDataset(t *testing.T) {
	_, err := Load("nonexistent", "")
	assert.Error(t, err)
}

func TestLoadRejectsPathNames(t *testing.T) {
	_, err := Load("../secrets", "")
	assert.ErrorContains(t, err, "invalid dataset name")
}

func writeDataset(t *testing.T, dir, name, config, samples string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "config.yaml"), []byte(config), 0o644))
	if samples != "" {
		require.NoError(t, os.WriteFile(filepath.Join(path, "samples.csv"), []byte(samples), 0o644))
	}
}

func TestLoadExternalDataset(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "chemistry", "description: Chem\njudge_mode: score\n", "ID,Input,Expected\na,What is H2O?,Water\n")

	ds, err := Load("chemistry", dir)
	require.NoError(t, err)
	assert.Equal(t, "chemistry", ds.Name)
	assert.Equal(t, "score", ds.JudgeMode)
	require.Len(t, ds.Samples, 1)
	assert.Equal(t, Sample{ID: "a", Input: "What is H2O?", Expected: "Water"}, ds.Samples[0])
}

func TestLoadExternalOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, DefaultName, "name: Override\n", "ID,Input,Expected\n1,Q,A\n")

	ds, err := Load(DefaultName, dir)
	require.NoError(t, err)
	assert.Equal(t, "Override", ds.Name)
}

func TestLoadMissingColumn(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "broken", "name: Broken\n", "ID,Question\n1,Q\n")

	_, err := Load("broken", dir)
	assert.ErrorContains(t, err, "missing required CSV column: Input")
}

func TestLoadEmptyInput(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "blank", "name: Blank\n", "ID,Input,Expected\n1, ,A\n")

	_, err := Load("blank", dir)
	assert.ErrorContains(t, err, "empty Input")
}

func TestLoadNoSamples(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "empty", "name: Empty\n", "ID,Input,Expected\n")

	_, err := Load("empty", dir)
	assert.ErrorContains(t, err, "no samples")
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "chemistry", "name: Chem\n", "ID,Input,Expected\n1,Q,A\n")
	writeDataset(t, dir, DefaultName, "name: Dup\n", "ID,Input,Expected\n1,Q,A\n")

	names, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"chemistry", DefaultName}, names)
}

func TestListMissingExternalDir(t *testing.T) {
	names, err := List(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultName}, names)
}
