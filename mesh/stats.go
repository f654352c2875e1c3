package mesh

import (
	"fmt"

	"github.com/james-bowman/sparse"

	"github.com/notargets/gocfd-amg/buffer"
)

// Stats holds connectivity statistics derived from the element tables
type Stats struct {
	NumVertices   int
	NumElements   int
	Orphans       int // Vertices not referenced by any element
	MaxValence    int // Largest number of elements sharing one vertex
	ElementCounts map[buffer.Kind]int
}

// Incidence builds the sparse vertex to element incidence matrix over all
// element kinds, elements numbered in buffer.ElementKinds order. It is nil
// for a mesh without vertices or elements.
func (m *Mesh) Incidence() (VToE *sparse.CSR) {
	var (
		Nv = m.NumVertices()
		K  int
	)
	for _, kind := range buffer.ElementKinds {
		K += m.Elements(kind).Len()
	}
	if Nv == 0 || K == 0 {
		return nil
	}
	SpVToE := sparse.NewDOK(Nv, K)
	var k int
	for _, kind := range buffer.ElementKinds {
		tab := m.Elements(kind)
		nn := kind.GetNumNodes()
		for e := 0; e < tab.Len(); e++ {
			for _, v := range tab.Row(e)[:nn] {
				SpVToE.Set(v, k, 1)
			}
			k++
		}
	}
	return SpVToE.ToCSR()
}

func (m *Mesh) Stats() (st Stats) {
	st.NumVertices = m.NumVertices()
	st.ElementCounts = make(map[buffer.Kind]int)
	for _, kind := range buffer.ElementKinds {
		if n := m.Elements(kind).Len(); n > 0 {
			st.ElementCounts[kind] = n
			st.NumElements += n
		}
	}
	if st.NumElements == 0 {
		st.Orphans = st.NumVertices
		return
	}
	VToE := m.Incidence()
	for i := 0; i < st.NumVertices; i++ {
		nnz := VToE.RowNNZ(i)
		if nnz == 0 {
			st.Orphans++
		}
		if nnz > st.MaxValence {
			st.MaxValence = nnz
		}
	}
	return
}

func (st Stats) String() string {
	s := fmt.Sprintf("Mesh Statistics:\n  Vertices: %d\n  Elements: %d\n", st.NumVertices, st.NumElements)
	for _, kind := range buffer.ElementKinds {
		if n, ok := st.ElementCounts[kind]; ok {
			s += fmt.Sprintf("    %s: %d\n", kind, n)
		}
	}
	s += fmt.Sprintf("  Orphan vertices: %d\n  Max valence: %d\n", st.Orphans, st.MaxValence)
	return s
}
