package graph

import (
	"slices"

	"github.com/dd0wney/entitygraph/pkg/entity"
	"github.com/dd0wney/entitygraph/pkg/events"
	"github.com/dd0wney/entitygraph/pkg/logging"
	"github.com/dd0wney/entitygraph/pkg/metrics"
)

// Tick applies every queued request and brings the component partition
// back in line with the adjacency.
//
// All connects are applied before any disconnect, so a pair named in both
// queues ends the tick disconnected. Problems with individual requests are
// reported as diagnostics and never stop the tick.
func (g *Graph) Tick() *TickReport {
	g.tick++
	timer := logging.StartTimer(g.logger, "tick complete", logging.Tick(g.tick))
	rep := &TickReport{Tick: g.tick, RunID: g.runID}

	g.connects.Drain(func(r events.Connect) {
		g.applyConnect(r, rep)
	})
	g.disconnects.Drain(func(r events.Disconnect) {
		g.applyDisconnect(r, rep)
	})

	changed := events.Collect(g.updates)
	rep.Changed = changed.Entities()

	res := g.maintainer.Update(rep.Changed)
	rep.Roots = res.Roots
	rep.Traversed = res.Traversed
	rep.Isolated = res.Isolated
	rep.Created = res.Created
	rep.Reused = res.Reused
	rep.Destroyed = res.Destroyed
	rep.Diagnostics = append(rep.Diagnostics, res.Diagnostics...)

	rep.Components = g.index.Len()
	rep.Members = g.index.Assigned()
	rep.Edges = g.store.EdgeCount()

	rep.Duration = timer.EndWithLevel(logging.DebugLevel,
		logging.Int("applied", rep.Applied),
		logging.Int("changed", len(rep.Changed)),
		logging.Int("created", len(rep.Created)),
		logging.Int("destroyed", len(rep.Destroyed)),
		logging.Int("components", rep.Components),
	)

	g.record(rep, res.Diagnostics)
	if g.feed != nil {
		g.feed.Publish(TopicTick, rep)
	}
	return rep
}

func (g *Graph) applyConnect(r events.Connect, rep *TickReport) {
	okA, okB := g.endpoint(rep, r.A, "connect"), true
	if r.B != r.A {
		okB = g.endpoint(rep, r.B, "connect")
	}

	// either both sides change or neither does
	switch {
	case !okA || !okB:
		g.outcome(rep, RequestConnect, metrics.OutcomeDropped)
	case g.store.Connect(r.A, r.B):
		g.notify(r.A)
		g.notify(r.B)
		g.outcome(rep, RequestConnect, metrics.OutcomeApplied)
	default:
		g.outcome(rep, RequestConnect, metrics.OutcomeNoop)
	}
}

func (g *Graph) applyDisconnect(r events.Disconnect, rep *TickReport) {
	// identities never carry adjacency, so there is nothing to purge
	idA, idB := g.maintainer.IsIdentity(r.A), g.maintainer.IsIdentity(r.B)
	if idA || idB {
		if idA {
			g.reject(rep, events.DiagnosticNotANode, r.A, "disconnect endpoint is a component identity")
		}
		if idB && r.B != r.A {
			g.reject(rep, events.DiagnosticNotANode, r.B, "disconnect endpoint is a component identity")
		}
		g.outcome(rep, RequestDisconnect, metrics.OutcomeDropped)
		return
	}

	aliveA, aliveB := g.world.Alive(r.A), g.world.Alive(r.B)
	if !aliveA {
		g.reject(rep, events.DiagnosticMissingNode, r.A, "disconnect endpoint does not exist")
	}
	if !aliveB && r.B != r.A {
		g.reject(rep, events.DiagnosticMissingNode, r.B, "disconnect endpoint does not exist")
	}

	// each side is purged independently so references to a dead node go away
	changedA, changedB := g.store.Disconnect(r.A, r.B)
	if changedA && aliveA {
		g.notify(r.A)
	}
	if changedB && aliveB {
		g.notify(r.B)
	}

	switch {
	case changedA || changedB:
		g.outcome(rep, RequestDisconnect, metrics.OutcomeApplied)
	case !aliveA || !aliveB:
		g.outcome(rep, RequestDisconnect, metrics.OutcomeDropped)
	default:
		g.outcome(rep, RequestDisconnect, metrics.OutcomeNoop)
	}
}

// endpoint reports whether e may carry an edge. Missing nodes and
// component identities are rejected with a diagnostic.
func (g *Graph) endpoint(rep *TickReport, e entity.Entity, op string) bool {
	switch {
	case !g.world.Alive(e):
		g.reject(rep, events.DiagnosticMissingNode, e, op+" endpoint does not exist")
		return false
	case g.maintainer.IsIdentity(e):
		g.reject(rep, events.DiagnosticNotANode, e, op+" endpoint is a component identity")
		return false
	}
	return true
}

func (g *Graph) reject(rep *TickReport, kind string, e entity.Entity, detail string) {
	g.logger.Warn(detail, logging.Entity(e), logging.Kind(kind), logging.Tick(g.tick))
	d := events.Diagnostic{Kind: kind, Entity: e, Detail: detail}
	rep.Diagnostics = append(rep.Diagnostics, d)
	if g.metrics != nil {
		g.metrics.RecordDiagnostic(d.Kind)
	}
}

func (g *Graph) outcome(rep *TickReport, kind, outcome string) {
	switch outcome {
	case metrics.OutcomeApplied:
		rep.Applied++
	case metrics.OutcomeNoop:
		rep.Noop++
	default:
		rep.Dropped++
	}
	if g.metrics != nil {
		g.metrics.RecordRequest(kind, outcome)
	}
}

// record publishes the tick to the metrics registry. Request outcomes and
// rejected endpoints were recorded as they happened.
func (g *Graph) record(rep *TickReport, stale []events.Diagnostic) {
	if g.metrics == nil {
		return
	}
	for _, d := range stale {
		g.metrics.RecordDiagnostic(d.Kind)
	}
	g.metrics.RecordTick(metrics.TickSample{
		Duration:   rep.Duration,
		Changed:    len(rep.Changed),
		Traversed:  rep.Traversed,
		Created:    len(rep.Created),
		Reused:     len(rep.Reused),
		Destroyed:  len(rep.Destroyed),
		Components: rep.Components,
		Members:    rep.Members,
		Edges:      rep.Edges,
	})
}

// Resync queues every node with adjacency or membership for recomputation
// and runs a tick. It repairs a partition after adjacency was changed
// outside the request queues.
func (g *Graph) Resync() *TickReport {
	seen := events.NewChangeSet()
	for _, n := range g.nodes() {
		seen.Add(n)
	}
	var assigned []entity.Entity
	g.index.EachAssignment(func(n, _ entity.Entity) {
		if !seen.Contains(n) {
			assigned = append(assigned, n)
		}
	})
	slices.SortFunc(assigned, entity.Compare)

	for _, n := range seen.Entities() {
		g.notify(n)
	}
	for _, n := range assigned {
		g.notify(n)
	}
	g.logger.Info("resync", logging.Count(seen.Len()+len(assigned)))
	return g.Tick()
}
