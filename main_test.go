package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bodul/funzone/internal/puzzle"
)

const sampleList = `words:
  - שמש
  - ירח
items:
  - word: אריה
    clue: מלך החיות
  - word: ירושלים
    clue: בירת ישראל
`

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	genFormat, genSolved, genSeed, genRows, genCols = "text", false, 0, 0, 0
	t.Cleanup(func() {
		genFormat, genSolved, genSeed, genRows, genCols = "text", false, 0, 0, 0
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateCrosswordText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleList), 0o600))

	out, err := runCLI(t, "", "generate", "crossword", path, "--solved")
	require.NoError(t, err)

	assert.Contains(t, out, "מאוזן")
	assert.Contains(t, out, "מאונך")
	assert.Contains(t, out, "בירת ישראל")
	assert.Contains(t, out, "ר")
}

func TestGenerateTashchetzYAML(t *testing.T) {
	out, err := runCLI(t, sampleList, "generate", "tashchetz", "-", "--format", "yaml", "--rows", "12", "--cols", "9")
	require.NoError(t, err)

	var tz puzzle.Tashchetz
	require.NoError(t, yaml.Unmarshal([]byte(out), &tz))
	require.Len(t, tz.Grid, 12)
	assert.Len(t, tz.Grid[0], 9)
	assert.Len(t, tz.Placed, 2)
}

func TestGenerateWordSearchSeeded(t *testing.T) {
	first, err := runCLI(t, sampleList, "generate", "wordsearch", "-", "--seed", "42")
	require.NoError(t, err)
	second, err := runCLI(t, sampleList, "generate", "wordsearch", "-", "--seed", "42")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "מילים:")
}

func TestGenerateErrors(t *testing.T) {
	_, err := runCLI(t, sampleList, "generate", "sudoku", "-")
	assert.ErrorContains(t, err, "unknown puzzle kind")

	_, err = runCLI(t, sampleList, "generate", "crossword", "-", "--format", "pdf")
	assert.ErrorContains(t, err, "unknown format")

	_, err = runCLI(t, "", "generate", "crossword", filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorContains(t, err, "open word list")
}
