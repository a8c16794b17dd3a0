package report

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"laptudirm.com/x/sprt/pkg/simulate"
	"laptudirm.com/x/sprt/pkg/stats"
)

// assertBoxed checks that every line of a box has the same width.
func assertBoxed(t *testing.T, output string) []string {
	t.Helper()

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	require.NotEmpty(t, lines)

	width := utf8.RuneCountInString(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, utf8.RuneCountInString(line), "line %q", line)
	}

	return lines
}

func TestTable(t *testing.T) {
	model, err := stats.NewModel(0.05, 0.05, -1.5, 4.5, 250)
	require.NoError(t, err)

	points := []stats.Point{
		model.Characteristics(-3),
		model.Characteristics(0),
		model.Characteristics(8),
	}

	var out bytes.Buffer
	require.NoError(t, Points(&out, FormatTable, points))

	lines := assertBoxed(t, out.String())
	require.Len(t, lines, 3+len(points)+1)
	assert.Contains(t, lines[1], "Pass Prob")
	assert.Contains(t, lines[4], "   0.00      0.00      0.1866")
}

func TestPointsYAML(t *testing.T) {
	points := []stats.Point{
		{Elo: 1, BayesElo: 1.5, PassProbability: 0.25, ExpectedTrials: 1000},
	}

	var out bytes.Buffer
	require.NoError(t, Points(&out, FormatYAML, points))
	assert.Contains(t, out.String(), "pass-probability: 0.25")

	var decoded []stats.Point
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, points, decoded)
}

func TestModel(t *testing.T) {
	model, err := stats.NewModel(0.05, 0.05, 0, 5, 250)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Model(&out, model))

	lines := assertBoxed(t, out.String())
	assert.Contains(t, out.String(), "(-2.9444, 2.9444)")
	assert.Len(t, lines, 8)
}

func TestSummary(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Summary(&out, simulate.Summary{
		Elo:  5,
		Runs: 100, Passed: 60, Failed: 40,
		PassRate:   0.6,
		MeanTrials: 1234,
		Expected:   stats.Point{Elo: 5, PassProbability: 0.58, ExpectedTrials: 1200},

		DrawElo:      247.5,
		ModelDrawElo: 250,
	}))

	lines := assertBoxed(t, out.String())
	assert.Len(t, lines, 9)
	assert.Contains(t, out.String(), "247.50 draw elo (model 250.00)")
	assert.Contains(t, out.String(), "0.6000 (expected 0.5800)")
	assert.Contains(t, out.String(), "N: 100 H1: 60 H0: 40 ?: 0")
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, format)

	_, err = ParseFormat("svg")
	assert.Error(t, err)
}
