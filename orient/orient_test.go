package orient

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocfd-amg/amgio"
	"github.com/notargets/gocfd-amg/buffer"
	"github.com/notargets/gocfd-amg/mesh"
)

func clockwiseSquare() *mesh.Mesh {
	m := mesh.NewSquareMesh()
	FlipWinding(m)
	return m
}

func TestSignedArea(t *testing.T) {
	area, err := SignedArea(mesh.NewSquareMesh())
	require.NoError(t, err)
	assert.InDelta(t, 1., area, 1.e-15)

	area, err = SignedArea(clockwiseSquare())
	require.NoError(t, err)
	assert.InDelta(t, -1., area, 1.e-15)

	{ // An XY view gives the same area
		m := mesh.NewSquareMesh()
		m.To2D()
		area, err = SignedArea(m)
		require.NoError(t, err)
		assert.InDelta(t, 1., area, 1.e-15)
	}
	{
		m := mesh.NewTwoTetMesh()
		m.Triangles = buffer.Table[int]{}
		_, err = SignedArea(m)
		var ode *OrientationDataError
		assert.True(t, errors.As(err, &ode))
	}
	{
		m := mesh.NewSquareMesh()
		m.XYZ = nil
		_, err = SignedArea(m)
		var ode *OrientationDataError
		assert.True(t, errors.As(err, &ode))
	}
}

func TestFlipWinding(t *testing.T) {
	m := mesh.NewSquareMesh()
	FlipWinding(m)
	assert.Equal(t, []int{
		0, 2, 1, 0,
		0, 3, 2, 0,
	}, m.Triangles.Data())
	// Edges are untouched
	assert.Equal(t, mesh.NewSquareMesh().Edges.Data(), m.Edges.Data())
}

func newStore(t *testing.T, solver, back *mesh.Mesh) (*amgio.Adapter, *amgio.MemEngine) {
	eng := amgio.NewMemEngine()
	a := amgio.NewAdapter(eng, zerolog.Nop())
	require.NoError(t, a.WriteMesh("solver.meshb", solver))
	require.NoError(t, a.WriteMesh("back.meshb", back))
	return a, eng
}

func TestReconcileOpposed(t *testing.T) {
	a, eng := newStore(t, mesh.NewSquareMesh(), clockwiseSquare())
	flipped, err := Reconcile(a, "solver.meshb", "back.meshb")
	require.NoError(t, err)
	assert.True(t, flipped)
	assert.Equal(t, 2, eng.Writes["back.meshb"])
	assert.Equal(t, 1, eng.Writes["solver.meshb"])

	back, err := a.ReadMesh("back.meshb")
	require.NoError(t, err)
	assert.Equal(t, mesh.NewSquareMesh().Triangles.Data(), back.Triangles.Data())
	solver, err := a.ReadMesh("solver.meshb")
	require.NoError(t, err)
	assert.Equal(t, mesh.NewSquareMesh().Triangles.Data(), solver.Triangles.Data())
}

func TestReconcileSameSign(t *testing.T) {
	for _, back := range []*mesh.Mesh{mesh.NewSquareMesh(), clockwiseSquare()} {
		solver := back
		a, eng := newStore(t, solver, back)
		flipped, err := Reconcile(a, "solver.meshb", "back.meshb")
		require.NoError(t, err)
		assert.False(t, flipped)
		assert.Equal(t, 1, eng.Writes["back.meshb"])
	}
}

func TestReconcileErrors(t *testing.T) {
	{ // Background without triangles
		back := mesh.NewSquareMesh()
		back.Triangles = buffer.Table[int]{}
		a, eng := newStore(t, mesh.NewSquareMesh(), back)
		_, err := Reconcile(a, "solver.meshb", "back.meshb")
		var ode *OrientationDataError
		require.True(t, errors.As(err, &ode))
		assert.Equal(t, "back.meshb", ode.Path)
		assert.Equal(t, 1, eng.Writes["back.meshb"])
	}
	{
		a, _ := newStore(t, mesh.NewSquareMesh(), mesh.NewSquareMesh())
		_, err := Reconcile(a, "missing.meshb", "back.meshb")
		var re *amgio.ReadError
		assert.True(t, errors.As(err, &re))
	}
	{ // A failed rewrite is surfaced
		a, eng := newStore(t, mesh.NewSquareMesh(), clockwiseSquare())
		store := &failingWrites{MeshStore: a}
		flipped, err := Reconcile(store, "solver.meshb", "back.meshb")
		assert.Error(t, err)
		assert.False(t, flipped)
		assert.Equal(t, 1, eng.Writes["back.meshb"])
	}
}

type failingWrites struct {
	MeshStore
}

func (f *failingWrites) WriteMesh(string, *mesh.Mesh) error { return errors.New("disk full") }
