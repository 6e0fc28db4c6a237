// Package testkit holds checks shared by parser tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"synapse/internal/path"
	"synapse/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on parsed
// statements:
// 1) every statement span is non-empty, points to sf and lies within its content
// 2) every step span is non-empty and contained in the statement span
// 3) statements come in source order and do not overlap
func CheckSpanInvariants(stmts []*path.Statement, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevEnd uint32
	for i, st := range stmts {
		if st == nil || st.Target == nil {
			return fmt.Errorf("statement %d is nil", i)
		}
		sp := st.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("statement %d: empty span %v", i, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("statement %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("statement %d: span end beyond content: %d > %d", i, sp.End, lenContent)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("statement %d: span %v overlaps the previous statement", i, sp)
		}
		prevEnd = sp.End

		for j, step := range st.Target.Steps() {
			ss := step.Span()
			if ss.End <= ss.Start {
				return fmt.Errorf("statement %d step %d: empty span %v", i, j, ss)
			}
			if ss.File != sf.ID || ss.Start < sp.Start || ss.End > sp.End {
				return fmt.Errorf("statement %d step %d: span %v is outside statement span %v", i, j, ss, sp)
			}
		}
		if st.Value != nil {
			vs := st.Value.Span()
			if vs.Start < sp.Start || vs.End > sp.End {
				return fmt.Errorf("statement %d: value span %v is outside statement span %v", i, vs, sp)
			}
		}
	}
	return nil
}
