package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/entitygraph/pkg/entity"
	"github.com/dd0wney/entitygraph/pkg/events"
	"github.com/dd0wney/entitygraph/pkg/graph"
)

func names(snap *graph.Snapshot, members []entity.Entity) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = snap.Label(m)
	}
	return out
}

func TestDemoScenario(t *testing.T) {
	require.NoError(t, Demo().Validate())

	res, err := Run(Demo(), Options{Verify: true})
	require.NoError(t, err)
	require.Len(t, res.Frames, 5)

	// tick 1: one component {1,2,3,4}, node 5 isolated
	f := res.Frames[0].Snapshot
	require.Len(t, f.Components, 1)
	assert.Equal(t, []string{"1", "2", "3", "4"}, names(f, f.Components[0].Members))
	assert.Equal(t, []entity.Entity{res.Nodes["5"]}, f.Isolated)
	original := f.Components[0].ID

	// tick 2: {1,2} and {3,4}; exactly one keeps the original identity
	f = res.Frames[1].Snapshot
	require.Len(t, f.Components, 2)
	kept := 0
	for _, c := range f.Components {
		if c.ID == original {
			kept++
		}
	}
	assert.Equal(t, 1, kept)
	left, _ := f.ComponentOf(res.Nodes["1"])
	right, _ := f.ComponentOf(res.Nodes["3"])
	assert.Equal(t, []string{"1", "2"}, names(f, left.Members))
	assert.Equal(t, []string{"3", "4"}, names(f, right.Members))

	// tick 3: everything merges
	f = res.Frames[2].Snapshot
	require.Len(t, f.Components, 1)
	assert.Len(t, f.Components[0].Members, 5)
	assert.Len(t, res.Frames[2].Report.Destroyed, 1)

	// tick 4: removing 4 leaves {1,2}
	f = res.Frames[3].Snapshot
	require.Len(t, f.Components, 1)
	assert.Equal(t, []string{"1", "2"}, names(f, f.Components[0].Members))

	// tick 5: connecting to the removed node is reported, not applied
	rep := res.Frames[4].Report
	require.Len(t, rep.Diagnostics, 1)
	assert.Equal(t, events.DiagnosticMissingNode, rep.Diagnostics[0].Kind)
	assert.Empty(t, res.Frames[4].Snapshot.Components)
}

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(`
name: triangle
nodes: [a, b, c]
ticks:
  - connect: [[a, b], [b, c], [c, a]]
  - spawn: [d]
    connect: [[d, a]]
  - disconnect: [[a, b]]
    despawn: [c]
`))
	require.NoError(t, err)
	assert.Equal(t, "triangle", s.Name)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, []string{"d"}, s.Steps[1].Spawn)

	res, err := Run(s, Options{Verify: true})
	require.NoError(t, err)
	last := res.Frames[2].Snapshot
	require.Len(t, last.Components, 1)
	// removing c also cut b's last edge
	assert.Equal(t, []string{"a", "d"}, names(last, last.Components[0].Members))
	assert.Contains(t, last.Isolated, res.Nodes["b"])
}

func TestParseRejectsInvalidScenarios(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "", "empty scenario"},
		{"no nodes", "name: x\n", "Nodes: field is required"},
		{"bad pair", "nodes: [a, b]\nticks:\n  - connect: [[a]]\n", "exactly 2"},
		{"unknown node", "nodes: [a]\nticks:\n  - connect: [[a, z]]\n", `unknown node "z"`},
		{"duplicate", "nodes: [a, a]\n", `duplicate node "a"`},
		{"respawn", "nodes: [a]\nticks:\n  - spawn: [a]\n", "already declared"},
		{"bad name", "nodes: [\"a b\"]\n", "invalid node name"},
		{"unknown field", "nodes: [a]\nedges: []\n", "edges"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nodes: [a, b]\nticks:\n  - connect: [[a, b]]\n"), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Nodes, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
