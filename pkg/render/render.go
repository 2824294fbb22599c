// Package render writes graph snapshots for people: a plain text summary
// and Mermaid flowcharts with one subgraph per component.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dd0wney/entitygraph/pkg/entity"
	"github.com/dd0wney/entitygraph/pkg/graph"
)

// Formats accepted by Write
const (
	FormatText    = "text"
	FormatMermaid = "mermaid"
)

// Formats lists the supported output formats
var Formats = []string{FormatText, FormatMermaid}

// Write renders s in the named format
func Write(w io.Writer, format string, s *graph.Snapshot) error {
	switch format {
	case FormatText, "":
		return WriteText(w, s)
	case FormatMermaid:
		return WriteMermaid(w, s)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// errWriter remembers the first write error so callers can check once
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// WriteText writes a text summary of the snapshot to w.
func WriteText(w io.Writer, s *graph.Snapshot) error {
	ew := &errWriter{w: w}

	members := 0
	for _, c := range s.Components {
		members += len(c.Members)
	}
	ew.printf("tick %d: %d components, %d members, %d isolated, %d edges\n",
		s.Tick, len(s.Components), members, len(s.Isolated), len(s.Edges))

	for _, c := range s.Components {
		ew.printf("  %s %s: %s\n", s.Label(c.ID), c.ID, labels(s, c.Members))
	}
	if len(s.Isolated) > 0 {
		ew.printf("  isolated: %s\n", labels(s, s.Isolated))
	}
	return ew.err
}

// WriteMermaid writes the snapshot in Mermaid format to w.
// Each connected component is a subgraph; isolated nodes follow them.
func WriteMermaid(w io.Writer, s *graph.Snapshot) error {
	ew := &errWriter{w: w}
	ew.printf("graph TD\n")

	owner := make(map[entity.Entity]int)
	for i, c := range s.Components {
		for _, m := range c.Members {
			owner[m] = i
		}
	}

	for i, c := range s.Components {
		ew.printf("    subgraph component_%d[\"%s %s\"]\n", i+1, s.Label(c.ID), c.ID)

		linked := make(map[entity.Entity]bool)
		for _, e := range s.Edges {
			if j, ok := owner[e[0]]; !ok || j != i {
				continue
			}
			ew.printf("        %s --- %s\n", node(s, e[0]), node(s, e[1]))
			linked[e[0]] = true
			linked[e[1]] = true
		}
		for _, m := range c.Members {
			if !linked[m] {
				ew.printf("        %s\n", node(s, m))
			}
		}
		ew.printf("    end\n")
	}

	for _, n := range s.Isolated {
		ew.printf("    %s\n", node(s, n))
	}
	return ew.err
}

func labels(s *graph.Snapshot, es []entity.Entity) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = s.Label(e)
	}
	return strings.Join(parts, " ")
}

func node(s *graph.Snapshot, e entity.Entity) string {
	return fmt.Sprintf("%s[\"%s\"]", mermaidID(e), strings.ReplaceAll(s.Label(e), `"`, "#quot;"))
}

func mermaidID(e entity.Entity) string {
	return "n" + e.String()
}
