// Package plot draws 2D meshes and per-vertex solution fields with avs
package plot

import (
	"fmt"
	"math"
	"time"

	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/geometry"
	utils2 "github.com/notargets/avs/utils"

	"github.com/notargets/gocfd-amg/mesh"
)

// TriMesh converts the triangles of m, and its quadrilaterals split in two,
// into an avs triangle mesh over the x/y coordinates.
func TriMesh(m *mesh.Mesh) (gm geometry.TriMesh, err error) {
	var (
		nv   = m.NumVertices()
		nTri = m.Triangles.Len()
		nQua = m.Quadrilaterals.Len()
	)
	if nTri+nQua == 0 {
		err = fmt.Errorf("mesh has no surface elements to plot (%s)", m.Size())
		return
	}
	gm = geometry.TriMesh{
		XY:       make([]float32, 2*nv),
		TriVerts: make([][3]int64, 0, nTri+2*nQua),
	}
	for i := 0; i < nv; i++ {
		x, y, _ := m.Vertex(i)
		gm.XY[2*i] = float32(x)
		gm.XY[2*i+1] = float32(y)
	}
	for k := 0; k < nTri; k++ {
		row := m.Triangles.Row(k)
		gm.TriVerts = append(gm.TriVerts, [3]int64{int64(row[0]), int64(row[1]), int64(row[2])})
	}
	for k := 0; k < nQua; k++ {
		row := m.Quadrilaterals.Row(k)
		gm.TriVerts = append(gm.TriVerts,
			[3]int64{int64(row[0]), int64(row[1]), int64(row[2])},
			[3]int64{int64(row[0]), int64(row[2]), int64(row[3])},
		)
	}
	return
}

// BoundaryLines returns the boundary edges of m as x1,y1,x2,y2 segments
func BoundaryLines(m *mesh.Mesh) (lines []float32) {
	for k := 0; k < m.Edges.Len(); k++ {
		row := m.Edges.Row(k)
		x1, y1, _ := m.Vertex(row[0])
		x2, y2, _ := m.Vertex(row[1])
		lines = append(lines, float32(x1), float32(y1), float32(x2), float32(y2))
	}
	return
}

// SquareBox returns a square bounding box around XY, padded by scale
func SquareBox(XY []float32, scale float32) (xMin, xMax, yMin, yMax float32) {
	xMin, yMin = math.MaxFloat32, math.MaxFloat32
	xMax, yMax = -math.MaxFloat32, -math.MaxFloat32
	for i := 0; i < len(XY)/2; i++ {
		x, y := XY[2*i], XY[2*i+1]
		xMin, xMax = min(xMin, x), max(xMax, x)
		yMin, yMax = min(yMin, y), max(yMax, y)
	}
	var (
		xCent, yCent = 0.5 * (xMin + xMax), 0.5 * (yMin + yMax)
		half         = 0.5 * max(xMax-xMin, yMax-yMin) * scale
	)
	if half == 0 {
		half = 1
	}
	return xCent - half, xCent + half, yCent - half, yCent + half
}

// Field returns the named solution field of m as float32 values with its
// range.
func Field(m *mesh.Mesh, tag string) (field []float32, fMin, fMax float32, err error) {
	var col []float64
	if col, err = m.SolutionColumn(tag); err != nil {
		return
	}
	field = make([]float32, len(col))
	fMin, fMax = math.MaxFloat32, -math.MaxFloat32
	for i, f := range col {
		field[i] = float32(f)
		fMin, fMax = min(fMin, field[i]), max(fMax, field[i])
	}
	return
}

type Options struct {
	Field  string  // Solution field to shade, none when empty
	Width  int     // Window size in pixels
	Height int
	Scale  float32 // Bounding box padding
	Wait   time.Duration
}

func (o *Options) defaults() {
	if o.Width == 0 {
		o.Width = 1920
	}
	if o.Height == 0 {
		o.Height = 1920
	}
	if o.Scale == 0 {
		o.Scale = 1.1
	}
}

// Show opens a chart with the mesh, its boundary edges and optionally a
// shaded solution field, and keeps it open for opts.Wait.
func Show(m *mesh.Mesh, opts Options) (err error) {
	opts.defaults()
	var gm geometry.TriMesh
	if gm, err = TriMesh(m); err != nil {
		return
	}
	var (
		field      []float32
		fMin, fMax float32
	)
	if opts.Field != "" {
		if field, fMin, fMax, err = Field(m, opts.Field); err != nil {
			return
		}
	}
	xMin, xMax, yMin, yMax := SquareBox(gm.XY, opts.Scale)
	ch := chart2d.NewChart2D(xMin, xMax, yMin, yMax,
		opts.Width, opts.Height, utils2.WHITE, utils2.BLACK)
	if field != nil {
		vs := geometry.VertexScalar{
			TMesh:       &gm,
			FieldValues: field,
		}
		ch.AddShadedVertexScalar(&vs, fMin, fMax)
	}
	ch.AddTriMesh(gm)
	if lines := BoundaryLines(m); len(lines) > 0 {
		ch.AddLine(lines, utils2.RED)
	}
	time.Sleep(opts.Wait)
	return
}
