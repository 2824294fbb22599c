package scenario

import (
	"fmt"

	"github.com/dd0wney/entitygraph/pkg/entity"
	"github.com/dd0wney/entitygraph/pkg/graph"
	"github.com/dd0wney/entitygraph/pkg/logging"
	"github.com/dd0wney/entitygraph/pkg/metrics"
)

// Options configures a run
type Options struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
	Verify  bool // check every invariant after each tick
}

// Frame is the state after one step
type Frame struct {
	Step     int
	Report   *graph.TickReport
	Snapshot *graph.Snapshot
}

// Result is the outcome of a whole run
type Result struct {
	Name   string
	Frames []Frame
	Nodes  map[string]entity.Entity // last entity bound to each name
}

// Run plays s against a fresh world and graph
func Run(s *Scenario, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}

	world := entity.NewWorld()
	g := graph.New(world, graph.Config{Logger: opts.Logger, Metrics: opts.Metrics})
	logger := opts.Logger.With(logging.String("scenario", s.Name))

	res := &Result{
		Name:  s.Name,
		Nodes: make(map[string]entity.Entity, len(s.Nodes)),
	}
	for _, name := range s.Nodes {
		res.Nodes[name] = world.SpawnNamed(name)
	}

	for i, st := range s.Steps {
		for _, name := range st.Spawn {
			res.Nodes[name] = world.SpawnNamed(name)
		}
		for _, p := range st.Connect {
			g.Connect(res.Nodes[p[0]], res.Nodes[p[1]])
		}
		for _, p := range st.Disconnect {
			g.Disconnect(res.Nodes[p[0]], res.Nodes[p[1]])
		}
		for _, name := range st.Despawn {
			if !world.Despawn(res.Nodes[name]) {
				logger.Warn("despawn of missing node", logging.String("node", name))
			}
		}

		rep := g.Tick()
		if opts.Verify {
			if err := g.Verify(); err != nil {
				return res, fmt.Errorf("step %d: %w", i, err)
			}
		}
		res.Frames = append(res.Frames, Frame{Step: i, Report: rep, Snapshot: g.Snapshot()})
	}

	logger.Info("scenario complete", logging.Count(len(res.Frames)))
	return res, nil
}
