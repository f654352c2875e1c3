package mesh

import (
	"github.com/notargets/gocfd-amg/buffer"
)

// Standard meshes shared by the package tests of the adapter, engines,
// orientation and sensor code.

// NewSquareMesh returns the unit square split into two counter-clockwise
// triangles, with its four sides as boundary edges (refs 1..4) and the
// four corners marked.
//
//	3 ---- 2
//	|    / |
//	|  /   |
//	0 ---- 1
func NewSquareMesh() *Mesh {
	m := NewMesh(2)
	xyz := buffer.NewTable(4, 3, []float64{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	})
	m.XYZ = &xyz
	m.Triangles = buffer.NewTable(2, 4, []int{
		0, 1, 2, 0,
		0, 2, 3, 0,
	})
	m.Edges = buffer.NewTable(4, 3, []int{
		0, 1, 1,
		1, 2, 2,
		2, 3, 3,
		3, 0, 4,
	})
	m.Corners = buffer.NewTable(4, 1, []int{0, 1, 2, 3})
	m.Markers = []string{"2", "bottom", "right", "top", "left"}
	return m
}

// NewTwoTetMesh returns two tetrahedra sharing the face (1,2,3), with the
// outer faces as boundary triangles on refs 1 and 2.
func NewTwoTetMesh() *Mesh {
	m := NewMesh(3)
	xyz := buffer.NewTable(5, 3, []float64{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		1, 1, 1,
	})
	m.XYZ = &xyz
	m.Tetrahedra = buffer.NewTable(2, 5, []int{
		0, 1, 2, 3, 0,
		1, 2, 3, 4, 0,
	})
	m.Triangles = buffer.NewTable(6, 4, []int{
		0, 2, 1, 1,
		0, 1, 3, 1,
		0, 3, 2, 1,
		1, 4, 2, 2,
		1, 3, 4, 2,
		2, 4, 3, 2,
	})
	m.Markers = []string{"3", "base", "cap"}
	return m
}

// NewFlowSolution attaches a solution with fields Density, Mach, Pressure
// followed by extra goal-oriented columns, one row per vertex. Values are
// row*10 + column so tests can identify them.
func NewFlowSolution(m *Mesh, extra ...string) *Mesh {
	tags := append([]string{"Density", "Mach", "Pressure"}, extra...)
	nv := m.NumVertices()
	sol := buffer.NewTable[float64](nv, len(tags))
	for i := 0; i < nv; i++ {
		for j := range tags {
			sol.Set(i, j, float64(i*10+j))
		}
	}
	m.SetSolution(sol, tags)
	return m
}
