package graph

import (
	"errors"
	"fmt"

	"github.com/dd0wney/entitygraph/pkg/entity"
	"github.com/dd0wney/entitygraph/pkg/events"
)

// Common sentinel errors
var (
	ErrNodeNotFound   = errors.New("node not found")
	ErrStaleReference = errors.New("stale entity reference")
	ErrNotANode       = errors.New("component identity is not a node")
	ErrInvariant      = errors.New("invariant violated")
)

// Invariant checks reported by Verify
const (
	CheckSymmetry      = "symmetry"
	CheckDangling      = "dangling"
	CheckIsolation     = "isolation"
	CheckMembership    = "membership"
	CheckOrphan        = "orphan"
	CheckDeadComponent = "dead_component"
	CheckBidirectional = "bidirectional"
	CheckPartition     = "partition"
	CheckIdentityNode  = "identity_node"
)

// InvariantError describes one violated structural invariant.
type InvariantError struct {
	Check  string        // Which invariant (e.g., "symmetry", "partition")
	Entity entity.Entity // Node or component the violation was found at
	Detail string        // Additional context
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s invariant at %s: %s", e.Check, e.Entity, e.Detail)
	}
	return fmt.Sprintf("%s invariant at %s", e.Check, e.Entity)
}

// Unwrap makes every InvariantError match ErrInvariant.
func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

func violation(check string, e entity.Entity, format string, args ...any) error {
	return &InvariantError{Check: check, Entity: e, Detail: fmt.Sprintf(format, args...)}
}

// diagnosticError converts a diagnostic into an error matching its sentinel
func diagnosticError(d events.Diagnostic) error {
	var cause error
	switch d.Kind {
	case events.DiagnosticMissingNode:
		cause = ErrNodeNotFound
	case events.DiagnosticNotANode:
		cause = ErrNotANode
	default:
		cause = ErrStaleReference
	}
	return fmt.Errorf("%s %s: %w", d.Detail, d.Entity, cause)
}
