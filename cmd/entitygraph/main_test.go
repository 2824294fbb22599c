package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/entitygraph/pkg/config"
	"github.com/dd0wney/entitygraph/pkg/graph"
	"github.com/dd0wney/entitygraph/pkg/logging"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvMetricsAddr, "")

	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestDemoCommand(t *testing.T) {
	out, _, err := execute(t, "demo", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "tick 1: 1 components, 4 members, 1 isolated, 3 edges")
	assert.Contains(t, out, "tick 2: 2 components, 4 members, 1 isolated, 2 edges")
	assert.Contains(t, out, "missing_node")
	assert.Equal(t, 5, strings.Count(out, "== step "))
}

func TestDemoMermaid(t *testing.T) {
	out, _, err := execute(t, "demo", "--format", "mermaid", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "subgraph component_1")
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pair.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: pair\nnodes: [a, b]\nticks:\n  - connect: [[a, b]]\n  - disconnect: [[a, b]]\n"), 0o600))

	out, _, err := execute(t, "run", path, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, ": a b\n")
	assert.Contains(t, out, "isolated: a b")
}

func TestRunRejectsBadInput(t *testing.T) {
	_, _, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, _, err = execute(t, "demo", "--format", "svg")
	assert.ErrorContains(t, err, "format")

	_, _, err = execute(t, "demo", "--log-level", "loud")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestSimulateCommand(t *testing.T) {
	out, errOut, err := execute(t, "simulate", "--nodes", "20", "--ticks", "15", "--edits", "6", "--seed", "7", "--verify", "--progress", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "simulation ")
	assert.Contains(t, out, "ticks")
	assert.Contains(t, errOut, "tick 15:")
}

func TestSimulateRejectsInvalidSettings(t *testing.T) {
	_, _, err := execute(t, "simulate", "--nodes", "0")
	assert.ErrorContains(t, err, "simulation.nodes")
}

func TestSimulatorIsDeterministicPerSeed(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Nodes = 30
	cfg.Simulation.Ticks = 25
	cfg.Simulation.EditsPerTick = 10
	cfg.Simulation.DespawnRatio = 0.1
	cfg.Simulation.Seed = 99

	runOnce := func() *summary {
		sim := newSimulator(cfg, graph.Config{Logger: logging.NewNopLogger()})
		sum, err := sim.run(context.Background(), true)
		require.NoError(t, err)
		return sum
	}

	a, b := runOnce(), runOnce()
	assert.Equal(t, 25, a.Ticks)
	assert.Equal(t, a.Applied, b.Applied)
	assert.Equal(t, a.Created, b.Created)
	assert.Equal(t, a.Components, b.Components)
	assert.Equal(t, a.Edges, b.Edges)
	assert.NotZero(t, a.Despawned)
}

func TestSimulatorStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	sim := newSimulator(cfg, graph.Config{Logger: logging.NewNopLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := sim.run(ctx, false)

	require.NoError(t, err)
	assert.True(t, sum.Interrupted)
	assert.Zero(t, sum.Ticks)
	assert.Contains(t, renderSummary(sum), "interrupted")
}
