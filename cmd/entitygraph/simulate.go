package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/entitygraph/pkg/config"
	"github.com/dd0wney/entitygraph/pkg/entity"
	"github.com/dd0wney/entitygraph/pkg/graph"
	"github.com/dd0wney/entitygraph/pkg/logging"
	"github.com/dd0wney/entitygraph/pkg/metrics"
	"github.com/dd0wney/entitygraph/pkg/pubsub"
)

func newSimulateCmd(a *app) *cobra.Command {
	var (
		sim         config.SimulationConfig
		verify      bool
		progress    bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Apply random edge edits for a number of ticks and summarize",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.cfg.Simulation
			flags := cmd.Flags()
			if flags.Changed("nodes") {
				s.Nodes = sim.Nodes
			}
			if flags.Changed("ticks") {
				s.Ticks = sim.Ticks
			}
			if flags.Changed("edits") {
				s.EditsPerTick = sim.EditsPerTick
			}
			if flags.Changed("seed") {
				s.Seed = sim.Seed
			}
			if flags.Changed("tick-interval") {
				s.TickInterval = sim.TickInterval
			}
			a.cfg.Simulation = s
			if !flags.Changed("metrics-addr") && a.cfg.Metrics.Enabled {
				metricsAddr = a.cfg.Metrics.Address
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.simulate(ctx, verify, progress, metricsAddr)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&sim.Nodes, "nodes", 0, "number of nodes")
	flags.IntVar(&sim.Ticks, "ticks", 0, "number of ticks")
	flags.IntVar(&sim.EditsPerTick, "edits", 0, "edits per tick")
	flags.Int64Var(&sim.Seed, "seed", 0, "random seed")
	flags.DurationVar(&sim.TickInterval, "tick-interval", 0, "pause between ticks")
	flags.BoolVar(&verify, "verify", false, "check every invariant after each tick")
	flags.BoolVar(&progress, "progress", false, "print a line per tick")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	return cmd
}

func (a *app) simulate(ctx context.Context, verify, progress bool, metricsAddr string) error {
	reg := metrics.NewRegistry()
	if metricsAddr != "" {
		stop := serveMetrics(reg, metricsAddr, a.logger)
		defer stop()
	}

	feed := pubsub.NewFeed[*graph.TickReport](a.cfg.FeedBuffer)
	var wg sync.WaitGroup
	if progress {
		sub, err := feed.Subscribe(ctx, graph.TopicTick)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			printProgress(a.errOut, sub.Channel())
		}()
	}

	sim := newSimulator(a.cfg, graph.Config{
		QueueCapacity: a.cfg.QueueCapacity,
		Logger:        a.logger,
		Metrics:       reg,
		Feed:          feed,
	})
	sum, err := sim.run(ctx, verify)

	feed.Shutdown()
	wg.Wait()

	if sum != nil {
		fmt.Fprintln(a.out, renderSummary(sum))
		if dropped := feed.Dropped(); dropped > 0 {
			a.logger.Warn("progress lines dropped", logging.Uint64("dropped", dropped))
		}
	}
	return err
}

func printProgress(w io.Writer, reports <-chan *graph.TickReport) {
	for rep := range reports {
		fmt.Fprintf(w, "tick %d: changed=%d components=%d created=%d destroyed=%d edges=%d\n",
			rep.Tick, len(rep.Changed), rep.Components, len(rep.Created), len(rep.Destroyed), rep.Edges)
	}
}

// serveMetrics starts the prometheus endpoint and returns its shutdown func
func serveMetrics(reg *metrics.Registry, addr string, logger logging.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics listening", logging.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", logging.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// summary accumulates tick reports over a simulation
type summary struct {
	RunID       string
	Ticks       int
	Applied     int
	Noop        int
	Dropped     int
	Despawned   int
	Created     int
	Reused      int
	Destroyed   int
	Diagnostics int
	Components  int
	Largest     int
	Edges       int
	Elapsed     time.Duration
	Interrupted bool
}

func (s *summary) add(rep *graph.TickReport) {
	s.Ticks++
	s.Applied += rep.Applied
	s.Noop += rep.Noop
	s.Dropped += rep.Dropped
	s.Created += len(rep.Created)
	s.Reused += len(rep.Reused)
	s.Destroyed += len(rep.Destroyed)
	s.Diagnostics += len(rep.Diagnostics)
	s.Components = rep.Components
	s.Edges = rep.Edges
}

// simulator issues random edits against one graph
type simulator struct {
	cfg   config.SimulationConfig
	world *entity.World
	graph *graph.Graph
	nodes []entity.Entity
	rng   *rand.Rand
}

func newSimulator(cfg *config.Config, gc graph.Config) *simulator {
	world := entity.NewWorld()
	s := &simulator{
		cfg:   cfg.Simulation,
		world: world,
		graph: graph.New(world, gc),
		nodes: make([]entity.Entity, cfg.Simulation.Nodes),
		rng:   rand.New(rand.NewPCG(uint64(cfg.Simulation.Seed), uint64(cfg.Simulation.Seed)^0x9e3779b97f4a7c15)),
	}
	for i := range s.nodes {
		s.nodes[i] = world.Spawn()
	}
	return s
}

// run stops early, without error, when ctx is cancelled
func (s *simulator) run(ctx context.Context, verify bool) (*summary, error) {
	sum := &summary{RunID: s.graph.RunID()}
	start := time.Now()
	defer func() {
		sum.Elapsed = time.Since(start)
		sum.Largest = s.largest()
	}()

	for t := 0; t < s.cfg.Ticks; t++ {
		if ctx.Err() != nil {
			sum.Interrupted = true
			return sum, nil
		}

		for i := 0; i < s.cfg.EditsPerTick; i++ {
			if s.edit() {
				sum.Despawned++
			}
		}
		sum.add(s.graph.Tick())

		if verify {
			if err := s.graph.Verify(); err != nil {
				return sum, fmt.Errorf("tick %d: %w", s.graph.Ticks(), err)
			}
		}

		if s.cfg.TickInterval > 0 {
			timer := time.NewTimer(s.cfg.TickInterval)
			select {
			case <-ctx.Done():
				timer.Stop()
				sum.Interrupted = true
				return sum, nil
			case <-timer.C:
			}
		}
	}
	return sum, nil
}

// edit queues one random request, or replaces a node. Reports whether a
// node was despawned.
func (s *simulator) edit() bool {
	i := s.rng.IntN(len(s.nodes))
	a := s.nodes[i]
	r := s.rng.Float64()

	switch {
	case r < s.cfg.DespawnRatio:
		s.world.Despawn(a)
		s.nodes[i] = s.world.Spawn()
		return true
	case r < s.cfg.DespawnRatio+s.cfg.DisconnectRatio:
		if neighbors, err := s.graph.Neighbors(a); err == nil && len(neighbors) > 0 {
			s.graph.Disconnect(a, neighbors[s.rng.IntN(len(neighbors))])
		} else {
			s.graph.Disconnect(a, s.nodes[s.rng.IntN(len(s.nodes))])
		}
	default:
		s.graph.Connect(a, s.nodes[s.rng.IntN(len(s.nodes))])
	}
	return false
}

func (s *simulator) largest() int {
	best := 0
	for _, c := range s.graph.Components() {
		if n := len(s.graph.Members(c)); n > best {
			best = n
		}
	}
	return best
}
