package meshio

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocfd-amg/amgio"
	"github.com/notargets/gocfd-amg/buffer"
	"github.com/notargets/gocfd-amg/mesh"
)

func TestAdapterRoundTripOnDisk(t *testing.T) {
	var (
		dir = t.TempDir()
		a   = amgio.NewAdapter(NewEngine(), zerolog.Nop())
	)
	for _, tc := range []struct {
		meshFile, solFile string
		keepsCorners      bool
	}{
		{"square.meshb", "square.solb", true},
		{"square.su2", "restart_flow.csv", false},
	} {
		var (
			meshPath = filepath.Join(dir, tc.meshFile)
			solPath  = filepath.Join(dir, tc.solFile)
			want     = mesh.NewFlowSolution(mesh.NewSquareMesh(), "Adj0")
		)
		require.NoError(t, a.WriteMeshAndSolution(meshPath, solPath, want), tc.meshFile)
		got, err := a.ReadMeshAndSolution(meshPath, solPath)
		require.NoError(t, err, tc.meshFile)

		assert.Equal(t, want.Markers, got.Markers)
		assert.Equal(t, want.Coordinates().Data(), got.Coordinates().Data())
		assert.Equal(t, want.Triangles.Data(), got.Triangles.Data())
		assert.Equal(t, want.Edges.Data(), got.Edges.Data())
		if tc.keepsCorners {
			assert.Equal(t, want.Corners.Data(), got.Corners.Data())
		} else {
			assert.True(t, got.Corners.IsEmpty())
		}
		assert.Equal(t, want.SolutionTag, got.SolutionTag)
		assert.Equal(t, want.Solution.Data(), got.Solution.Data())

		// Writing just the solution over an existing mesh
		require.NoError(t, a.WriteSolution(solPath, got))
		again, err := a.ReadMeshAndSolution(meshPath, solPath)
		require.NoError(t, err)
		assert.Equal(t, got.Solution.Data(), again.Solution.Data())
	}
}

func TestCrossFormatConversion(t *testing.T) {
	var (
		dir = t.TempDir()
		a   = amgio.NewAdapter(NewEngine(), zerolog.Nop())
	)
	want := mesh.NewTwoTetMesh()
	require.NoError(t, a.WriteMesh(filepath.Join(dir, "tets.su2"), want))
	m, err := a.ReadMesh(filepath.Join(dir, "tets.su2"))
	require.NoError(t, err)
	require.NoError(t, a.WriteMesh(filepath.Join(dir, "tets.meshb"), m))
	got, err := a.ReadMesh(filepath.Join(dir, "tets.meshb"))
	require.NoError(t, err)
	for _, kind := range []buffer.Kind{buffer.Tetrahedra, buffer.Triangles} {
		assert.Equal(t, want.Elements(kind).Data(), got.Elements(kind).Data(), kind.String())
	}
	assert.Equal(t, want.Markers, got.Markers)
}

func TestUnsupportedExtensions(t *testing.T) {
	var (
		dir = t.TempDir()
		eng = NewEngine()
		b   = &amgio.Buffers{}
	)
	assert.ErrorContains(t, eng.ReadMesh(filepath.Join(dir, "a.vtk"), b), "unsupported mesh")
	assert.ErrorContains(t, eng.WriteSolution(filepath.Join(dir, "a.txt"), b), "unsupported solution")
	assert.Error(t, eng.WriteMeshAndSolution(filepath.Join(dir, "a.meshb"), filepath.Join(dir, "a.txt"), b))
	assert.NoFileExists(t, filepath.Join(dir, "a.meshb"))

	meshExt, solExt := Formats()
	assert.Contains(t, meshExt, ".su2")
	assert.Contains(t, solExt, ".solb")
}
