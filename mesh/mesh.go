package mesh

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notargets/gocfd-amg/buffer"
)

// Mesh represents a mesh and optional per-vertex solution as exchanged with
// the adaptation engine. Element rows hold 0-based vertex ids followed by a
// reference id (Corners have no reference id).
type Mesh struct {
	Dimension int

	// Geometry, N x 3 at the I/O boundary. XY is a transient N x 2 view.
	XYZ *buffer.Table[float64]
	XY  *buffer.Table[float64]

	Corners        buffer.Table[int] // [ncorners][1]
	Edges          buffer.Table[int] // [nedges][2+ref]
	Triangles      buffer.Table[int] // [ntri][3+ref]
	Quadrilaterals buffer.Table[int] // [nquad][4+ref]
	Tetrahedra     buffer.Table[int] // [ntet][4+ref]
	Pyramids       buffer.Table[int] // [npyr][5+ref]
	Prisms         buffer.Table[int] // [npri][6+ref]
	Hexahedra      buffer.Table[int] // [nhex][8+ref]

	// Markers[0] holds the dimension, the rest is boundary marker metadata
	Markers []string

	Solution    *buffer.Table[float64] // [nvertices][nfields]
	SolutionTag []string

	solutionIndex map[string]int
}

// NewMesh returns an empty mesh of the given dimension
func NewMesh(dim int) *Mesh {
	return &Mesh{
		Dimension: dim,
		Markers:   []string{strconv.Itoa(dim)},
	}
}

// Elements returns the connectivity table of kind
func (m *Mesh) Elements(kind buffer.Kind) buffer.Table[int] {
	if p := m.elementsP(kind); p != nil {
		return *p
	}
	return buffer.Table[int]{}
}

// SetElements replaces the connectivity table of kind
func (m *Mesh) SetElements(kind buffer.Kind, tab buffer.Table[int]) {
	p := m.elementsP(kind)
	if p == nil {
		panic(fmt.Errorf("%s is not an element kind", kind))
	}
	*p = tab
}

func (m *Mesh) elementsP(kind buffer.Kind) *buffer.Table[int] {
	switch kind {
	case buffer.Corners:
		return &m.Corners
	case buffer.Edges:
		return &m.Edges
	case buffer.Triangles:
		return &m.Triangles
	case buffer.Quadrilaterals:
		return &m.Quadrilaterals
	case buffer.Tetrahedra:
		return &m.Tetrahedra
	case buffer.Pyramids:
		return &m.Pyramids
	case buffer.Prisms:
		return &m.Prisms
	case buffer.Hexahedra:
		return &m.Hexahedra
	}
	return nil
}

// NumVertices counts rows of whichever coordinate table is present
func (m *Mesh) NumVertices() int {
	switch {
	case m.XYZ != nil:
		return m.XYZ.Len()
	case m.XY != nil:
		return m.XY.Len()
	}
	return 0
}

// Coordinates returns N x 3 vertex coordinates, promoting an XY view by
// appending z = 0.
func (m *Mesh) Coordinates() buffer.Table[float64] {
	if m.XYZ != nil {
		return *m.XYZ
	}
	if m.XY == nil {
		return buffer.NewTable[float64](0, 3)
	}
	nv := m.XY.Len()
	R := buffer.NewTable[float64](nv, 3)
	for i := 0; i < nv; i++ {
		copy(R.Row(i), m.XY.Row(i)[:2])
	}
	return R
}

// Vertex returns the x, y, z coordinates of vertex i
func (m *Mesh) Vertex(i int) (x, y, z float64) {
	switch {
	case m.XYZ != nil:
		row := m.XYZ.Row(i)
		return row[0], row[1], row[2]
	case m.XY != nil:
		row := m.XY.Row(i)
		return row[0], row[1], 0
	}
	panic("mesh has no vertex coordinates")
}

// To2D replaces the N x 3 coordinates of a 2D mesh with an N x 2 view
func (m *Mesh) To2D() {
	if m.Dimension != 2 || m.XYZ == nil {
		return
	}
	nv := m.XYZ.Len()
	xy := buffer.NewTable[float64](nv, 2)
	for i := 0; i < nv; i++ {
		copy(xy.Row(i), m.XYZ.Row(i)[:2])
	}
	m.XY, m.XYZ = &xy, nil
}

// DimensionFromMarkers parses the dimension stored in Markers[0]
func DimensionFromMarkers(markers []string) (dim int, err error) {
	if len(markers) == 0 {
		err = fmt.Errorf("missing dimension marker")
		return
	}
	if dim, err = strconv.Atoi(strings.TrimSpace(markers[0])); err != nil {
		err = fmt.Errorf("unable to read dimension from marker [%s]: %w", markers[0], err)
		return
	}
	if dim != 2 && dim != 3 {
		err = fmt.Errorf("unsupported dimension: %d", dim)
	}
	return
}

// Size summarizes the mesh as "N vertices, N triangles, ..."
func (m *Mesh) Size() string {
	var out []string
	if nv := m.NumVertices(); nv > 0 {
		out = append(out, fmt.Sprintf("%d vertices", nv))
	}
	for _, kt := range []struct {
		kind buffer.Kind
		name string
	}{
		{buffer.Triangles, "triangles"},
		{buffer.Edges, "edges"},
		{buffer.Tetrahedra, "tetrahedra"},
		{buffer.Quadrilaterals, "quadrilaterals"},
		{buffer.Prisms, "prisms"},
		{buffer.Pyramids, "pyramids"},
		{buffer.Hexahedra, "hexahedra"},
	} {
		if n := m.Elements(kt.kind).Len(); n > 0 {
			out = append(out, fmt.Sprintf("%d %s", n, kt.name))
		}
	}
	return strings.Join(out, ", ")
}
