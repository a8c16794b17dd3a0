package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"laptudirm.com/x/sprt/pkg/simulate"
	"laptudirm.com/x/sprt/pkg/stats"
)

// run executes the root command with the given arguments, isolated from
// any configuration file of the user running the tests.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	var out bytes.Buffer
	root := Root()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestCurveDefaults(t *testing.T) {
	out, err := run(t, "curve")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3+23+1, "default sweep is -3..8 in steps of 0.5")
	assert.Contains(t, out, "   0.00      0.00      0.1866")
}

func TestCurveYAML(t *testing.T) {
	out, err := run(t, "curve", "--from", "0", "--to", "5", "--step", "1", "--elo0", "0", "--elo1", "5", "-f", "yaml")
	require.NoError(t, err)

	var points []stats.Point
	require.NoError(t, yaml.Unmarshal([]byte(out), &points))
	require.Len(t, points, 6)
	assert.InDelta(t, 0.05, points[0].PassProbability, 3e-3)
	assert.InDelta(t, 0.95, points[5].PassProbability, 3e-3)
}

func TestPoint(t *testing.T) {
	out, err := run(t, "point", "--elo", "-3", "--elo", "8", "-f", "yaml")
	require.NoError(t, err)

	var points []stats.Point
	require.NoError(t, yaml.Unmarshal([]byte(out), &points))
	require.Len(t, points, 2)
	assert.Equal(t, -3.0, points[0].Elo)
	assert.Equal(t, 8.0, points[1].Elo)
	assert.Less(t, points[0].PassProbability, points[1].PassProbability)
}

func TestPointArgs(t *testing.T) {
	out, err := run(t, "point", "-f", "yaml", "--", "-3", "2.5", "8")
	require.NoError(t, err)

	var points []stats.Point
	require.NoError(t, yaml.Unmarshal([]byte(out), &points))
	require.Len(t, points, 3)
	assert.Equal(t, []float64{-3, 2.5, 8}, []float64{points[0].Elo, points[1].Elo, points[2].Elo})

	out, err = run(t, "point", "--elo", "1", "-f", "yaml", "4")
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal([]byte(out), &points))
	require.Len(t, points, 2)
	assert.Equal(t, 1.0, points[0].Elo)
	assert.Equal(t, 4.0, points[1].Elo)

	_, err = run(t, "point", "ten")
	assert.ErrorIs(t, err, stats.ErrInvalidParameter)
}

func TestScale(t *testing.T) {
	out, err := run(t, "scale", "--draw-elo", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "1.000000 elo per bayes elo")
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("elo0: 0\nelo1: 5\nbayes: true\n"), 0644))

	out, err := run(t, "point", "--config", path, "--elo1", "10", "-f", "yaml")
	require.NoError(t, err)

	var points []stats.Point
	require.NoError(t, yaml.Unmarshal([]byte(out), &points))
	require.Len(t, points, 1)
	assert.InDelta(t, 0.05, points[0].PassProbability, 3e-3, "elo0 comes from the file")
}

func TestSimulate(t *testing.T) {
	out, err := run(t, "simulate", "--elo", "30", "--elo0", "0", "--elo1", "20", "--runs", "50", "--seed", "3", "-f", "yaml")
	require.NoError(t, err)

	var summary simulate.Summary
	require.NoError(t, yaml.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 50, summary.Runs)
	assert.Equal(t, 50, summary.Passed+summary.Failed+summary.Censored)
	assert.Equal(t, 30.0, summary.Elo)
}

func TestInvalidParameters(t *testing.T) {
	_, err := run(t, "curve", "--alpha", "1.5")
	assert.ErrorIs(t, err, stats.ErrInvalidParameter)

	_, err = run(t, "point", "--draw-elo", "-1")
	assert.ErrorIs(t, err, stats.ErrInvalidParameter)

	_, err = run(t, "curve", "--step", "0")
	assert.ErrorIs(t, err, stats.ErrInvalidParameter)

	_, err = run(t, "curve", "--format", "svg")
	assert.Error(t, err)
}
