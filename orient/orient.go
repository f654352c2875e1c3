// Package orient makes the triangle winding of a background mesh agree with
// the solver mesh before an adaptation cycle.
package orient

import (
	"fmt"

	"github.com/notargets/gocfd-amg/mesh"
)

// MeshStore reads and writes meshes by path; amgio.Adapter satisfies it
type MeshStore interface {
	ReadMesh(meshPath string) (*mesh.Mesh, error)
	WriteMesh(meshPath string, m *mesh.Mesh) error
}

// OrientationDataError is returned when a mesh has no triangle, or no
// coordinates for its first triangle, to take the orientation from.
type OrientationDataError struct {
	Path   string
	Reason string
}

func (e *OrientationDataError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("orient: %s", e.Reason)
	}
	return fmt.Sprintf("orient: %s: %s", e.Path, e.Reason)
}

// SignedArea returns twice the signed area of the first triangle of m, the
// z component of (v1-v0) x (v2-v0) using only x and y.
func SignedArea(m *mesh.Mesh) (area float64, err error) {
	if m.Triangles.IsEmpty() {
		return 0, &OrientationDataError{Reason: "mesh has no triangles"}
	}
	var (
		tri = m.Triangles.Row(0)
		nv  = m.NumVertices()
		x   [3]float64
		y   [3]float64
	)
	for n := 0; n < 3; n++ {
		if tri[n] < 0 || tri[n] >= nv {
			return 0, &OrientationDataError{
				Reason: fmt.Sprintf("first triangle vertex %d has no coordinates (%d vertices)", tri[n], nv),
			}
		}
		x[n], y[n], _ = m.Vertex(tri[n])
	}
	var (
		vx, vy = x[1] - x[0], y[1] - y[0]
		wx, wy = x[2] - x[0], y[2] - y[0]
	)
	area = vx*wy - vy*wx
	return
}

// Opposed reports whether the first triangles of a and b wind in opposite
// directions.
func Opposed(a, b *mesh.Mesh) (opposed bool, err error) {
	var areaA, areaB float64
	if areaA, err = SignedArea(a); err != nil {
		return
	}
	if areaB, err = SignedArea(b); err != nil {
		return
	}
	return areaA*areaB < 0, nil
}

// FlipWinding reverses every triangle of m by swapping its second and third
// vertex ids.
func FlipWinding(m *mesh.Mesh) {
	if m.Triangles.IsEmpty() {
		return
	}
	m.Triangles.SwapColumns(1, 2)
}

// Reconcile reads the solver and background meshes and, when their first
// triangles are opposed, flips every background triangle and writes the
// background mesh back to its path. The solver mesh is only read.
func Reconcile(store MeshStore, solverPath, backPath string) (flipped bool, err error) {
	var solver, back *mesh.Mesh
	if solver, err = store.ReadMesh(solverPath); err != nil {
		return
	}
	if back, err = store.ReadMesh(backPath); err != nil {
		return
	}
	var opposed bool
	if opposed, err = Opposed(solver, back); err != nil {
		if ode, ok := err.(*OrientationDataError); ok {
			if _, e2 := SignedArea(solver); e2 != nil {
				ode.Path = solverPath
			} else {
				ode.Path = backPath
			}
		}
		return
	}
	if !opposed {
		return
	}
	FlipWinding(back)
	if err = store.WriteMesh(backPath, back); err != nil {
		return
	}
	return true, nil
}
