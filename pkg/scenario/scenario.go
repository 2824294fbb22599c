// Package scenario runs scripted edge edits against a fresh graph,
// one step per tick.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/entitygraph/pkg/validation"
)

// Scenario is a named list of nodes and the edits applied on each tick
type Scenario struct {
	Name  string   `yaml:"name"`
	Nodes []string `yaml:"nodes" validate:"required,min=1,dive,nodename"`
	Steps []Step   `yaml:"ticks" validate:"dive"`
}

// Step is the work of one tick. Spawns and despawns happen before the
// tick, connects and disconnects are queued for it.
type Step struct {
	Spawn      []string   `yaml:"spawn" validate:"dive,nodename"`
	Connect    [][]string `yaml:"connect" validate:"dive,len=2,dive,nodename"`
	Disconnect [][]string `yaml:"disconnect" validate:"dive,len=2,dive,nodename"`
	Despawn    []string   `yaml:"despawn" validate:"dive,nodename"`
}

// Load reads and validates a scenario file
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario
func Parse(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty scenario")
		}
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks field constraints and that every reference names a
// node declared up front or spawned by an earlier or the same step.
// Referring to a node after it was despawned is allowed; the graph
// reports it as a missing node.
func (s *Scenario) Validate() error {
	if err := validation.Struct(s); err != nil {
		return err
	}

	known := make(map[string]bool, len(s.Nodes))
	var errs []error
	for _, n := range s.Nodes {
		if known[n] {
			errs = append(errs, fmt.Errorf("nodes: duplicate node %q", n))
		}
		known[n] = true
	}

	for i, st := range s.Steps {
		for _, n := range st.Spawn {
			if known[n] {
				errs = append(errs, fmt.Errorf("ticks[%d].spawn: node %q already declared", i, n))
			}
			known[n] = true
		}
		check := func(field, n string) {
			if !known[n] {
				errs = append(errs, fmt.Errorf("ticks[%d].%s: unknown node %q", i, field, n))
			}
		}
		for _, p := range st.Connect {
			check("connect", p[0])
			check("connect", p[1])
		}
		for _, p := range st.Disconnect {
			check("disconnect", p[0])
			check("disconnect", p[1])
		}
		for _, n := range st.Despawn {
			check("despawn", n)
		}
	}
	return errors.Join(errs...)
}

// Demo is the built-in five node walkthrough: a chain forms, splits,
// merges again and loses its middle node.
func Demo() *Scenario {
	return &Scenario{
		Name:  "five-node-chain",
		Nodes: []string{"1", "2", "3", "4", "5"},
		Steps: []Step{
			{Connect: [][]string{{"1", "2"}, {"2", "3"}, {"3", "4"}}},
			{Disconnect: [][]string{{"2", "3"}}},
			{Connect: [][]string{{"4", "5"}, {"1", "4"}}},
			{Despawn: []string{"4"}},
			{Connect: [][]string{{"2", "4"}}, Disconnect: [][]string{{"1", "2"}}},
		},
	}
}
