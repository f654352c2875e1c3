package mesh

import (
	"fmt"

	"github.com/notargets/gocfd-amg/buffer"
)

// SetSolution attaches a solution and its field names, and rebuilds the
// field index.
func (m *Mesh) SetSolution(sol buffer.Table[float64], tags []string) {
	m.Solution = &sol
	m.SolutionTag = tags
	m.RebuildSolutionIndex()
}

// RebuildSolutionIndex derives the field name -> column map from
// SolutionTag. It has to be called whenever SolutionTag changes.
func (m *Mesh) RebuildSolutionIndex() {
	if len(m.SolutionTag) == 0 {
		m.solutionIndex = nil
		return
	}
	m.solutionIndex = make(map[string]int, len(m.SolutionTag))
	for i := len(m.SolutionTag) - 1; i >= 0; i-- {
		// First occurrence wins on duplicate names
		m.solutionIndex[m.SolutionTag[i]] = i
	}
}

// SolutionIndex looks up the column of a named field
func (m *Mesh) SolutionIndex(tag string) (col int, ok bool) {
	col, ok = m.solutionIndex[tag]
	return
}

// SolutionColumn returns a copy of the named solution field
func (m *Mesh) SolutionColumn(tag string) (col []float64, err error) {
	if m.Solution == nil {
		err = fmt.Errorf("mesh has no solution")
		return
	}
	j, ok := m.SolutionIndex(tag)
	if !ok {
		err = fmt.Errorf("solution has no field %q", tag)
		return
	}
	nr := m.Solution.Len()
	col = make([]float64, nr)
	for i := 0; i < nr; i++ {
		col[i] = m.Solution.At(i, j)
	}
	return
}

// HasSolution reports whether a writable solution is attached, which
// requires at least two rows.
func (m *Mesh) HasSolution() bool {
	return m.Solution != nil && m.Solution.Len() > 1
}
