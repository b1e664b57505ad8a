package dag

import (
	"errors"
	"fmt"

	apperrors "github.com/matzehuels/casetree/pkg/errors"
	"github.com/matzehuels/casetree/pkg/io"
)

// DanglingPolicy decides what Build does with a source that names no case.
type DanglingPolicy int

const (
	// DanglingReject fails the build with DANGLING_SOURCE.
	DanglingReject DanglingPolicy = iota
	// DanglingRoot inserts a synthetic index case for the unknown source.
	DanglingRoot
)

// String returns the policy name used in configuration.
func (p DanglingPolicy) String() string {
	switch p {
	case DanglingReject:
		return "reject"
	case DanglingRoot:
		return "root"
	default:
		return fmt.Sprintf("DanglingPolicy(%d)", int(p))
	}
}

// ParseDanglingPolicy parses "reject" or "root".
func ParseDanglingPolicy(s string) (DanglingPolicy, error) {
	switch s {
	case "", "reject":
		return DanglingReject, nil
	case "root":
		return DanglingRoot, nil
	}
	return 0, apperrors.New(apperrors.ErrCodeInvalidOption, "unknown dangling policy %q (want reject or root)", s)
}

// BuildOptions configures Build.
type BuildOptions struct {
	Dangling DanglingPolicy
	// ExcludeIsolated drops index cases that infected no one.
	ExcludeIsolated bool
}

// Build converts case records into a validated transmission forest with one
// node per case and one edge from each source to the case it infected.
//
// Errors carry codes from pkg/errors: DUPLICATE_CASE for a repeated case ID,
// DANGLING_SOURCE for a source that names no case (under DanglingReject),
// and CYCLE when source chains loop.
func Build(records []io.Record, opts BuildOptions) (*DAG, error) {
	known := make(map[string]bool, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, ErrInvalidNodeID, "record %d", i+1)
		}
		if known[r.ID] {
			return nil, apperrors.Wrap(apperrors.ErrCodeDuplicateCase, ErrDuplicateNodeID, "case %s", r.ID)
		}
		known[r.ID] = true
	}

	synthetic, err := danglingRoots(records, known, opts.Dangling)
	if err != nil {
		return nil, err
	}

	var spreaders map[string]bool
	if opts.ExcludeIsolated {
		spreaders = make(map[string]bool)
		for _, r := range records {
			if r.Source != "" {
				spreaders[r.Source] = true
			}
		}
	}

	g := New()
	for _, n := range synthetic {
		if err := g.AddNode(n); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "add synthetic root %s", n.ID)
		}
	}
	for _, r := range records {
		if opts.ExcludeIsolated && r.IsIndex() && !spreaders[r.ID] {
			continue
		}
		n := Node{ID: r.ID, Time: r.Time, Source: r.Source, Attr: r.Attr}
		if err := g.AddNode(n); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "add case %s", r.ID)
		}
	}
	for _, r := range records {
		if r.IsIndex() {
			continue
		}
		if err := g.AddEdge(Edge{From: r.Source, To: r.ID}); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "link %s -> %s", r.Source, r.ID)
		}
	}

	if err := g.Validate(); err != nil {
		if errors.Is(err, ErrGraphHasCycle) {
			return nil, apperrors.Wrap(apperrors.ErrCodeCycle, err, "transmission chains must not loop")
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "invalid case graph")
	}
	return g, nil
}

// danglingRoots returns one synthetic index case per unknown source, timed at
// the earliest case that references it, in first-reference order.
func danglingRoots(records []io.Record, known map[string]bool, policy DanglingPolicy) ([]Node, error) {
	var (
		roots []Node
		index = make(map[string]int)
	)
	for i, r := range records {
		if r.IsIndex() || known[r.Source] {
			continue
		}
		if policy == DanglingReject {
			return nil, apperrors.New(apperrors.ErrCodeDanglingSource,
				"case %s (record %d) names unknown source %s", r.ID, i+1, r.Source)
		}
		j, seen := index[r.Source]
		if !seen {
			index[r.Source] = len(roots)
			roots = append(roots, Node{ID: r.Source, Time: r.Time, Synthetic: true})
			continue
		}
		if r.Time.Before(roots[j].Time) {
			roots[j].Time = r.Time
		}
	}
	return roots, nil
}
