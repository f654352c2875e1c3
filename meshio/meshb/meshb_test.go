package meshb

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocfd-amg/amgio"
)

func squareBuffers() *amgio.Buffers {
	return &amgio.Buffers{
		Vertices:  []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Triangles: []float64{0, 1, 2, 0, 0, 2, 3, 0},
		Edges:     []float64{0, 1, 1, 1, 2, 2, 2, 3, 3, 3, 0, 4},
		Corners:   []float64{0, 1, 2, 3},
		Markers:   []string{"2", "bottom", "right", "top", "left"},
		Dimension: 2,
	}
}

func TestMeshRoundTrip(t *testing.T) {
	dir := t.TempDir()
	{ // 2D
		path := filepath.Join(dir, "square.meshb")
		want := squareBuffers()
		require.NoError(t, WriteMesh(path, want))
		got := &amgio.Buffers{}
		require.NoError(t, ReadMesh(path, got))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("2D mesh mismatch (-want +got):\n%s", diff)
		}
	}
	{ // 3D with pass-through kinds
		path := filepath.Join(dir, "mixed.meshb")
		want := &amgio.Buffers{
			Vertices: []float64{
				0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0,
				0, 0, 1, 1, 0, 1, 1, 1, 1, 0, 1, 1,
				0.5, 0.5, 2,
			},
			Hexahedra:  []float64{0, 1, 2, 3, 4, 5, 6, 7, 1},
			Pyramids:   []float64{4, 5, 6, 7, 8, 2},
			Tetrahedra: []float64{4, 5, 6, 8, 3},
			Prisms:     []float64{0, 1, 2, 4, 5, 6, 4},
			Quadrilaterals: []float64{
				0, 3, 2, 1, 5,
			},
			Triangles: []float64{4, 5, 8, 6},
			Markers:   []string{"3", "wall"},
			Dimension: 3,
		}
		require.NoError(t, WriteMesh(path, want))
		got := &amgio.Buffers{}
		require.NoError(t, ReadMesh(path, got))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("3D mesh mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestMeshByteLayout(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, encodeMesh(&out, squareBuffers()))
	data := out.Bytes()
	i32 := func(off int) int32 { return int32(binary.LittleEndian.Uint32(data[off:])) }
	i64 := func(off int) int64 { return int64(binary.LittleEndian.Uint64(data[off:])) }
	f64 := func(off int) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(data[off:])) }

	// Header: magic, version
	assert.Equal(t, int32(1), i32(0))
	assert.Equal(t, int32(3), i32(4))
	// Dimension: keyword, next offset, value
	assert.Equal(t, int32(KwdDimension), i32(8))
	assert.Equal(t, int64(24), i64(12))
	assert.Equal(t, int32(2), i32(20))
	// Vertices: keyword, next offset, int32 count, then (x, y, ref) records
	assert.Equal(t, int32(KwdVertices), i32(24))
	assert.Equal(t, int64(40+4*20), i64(28))
	assert.Equal(t, int32(4), i32(36))
	assert.Equal(t, 0.0, f64(40))
	assert.Equal(t, 0.0, f64(48))
	assert.Equal(t, int32(0), i32(56))
	assert.Equal(t, 1.0, f64(60))
	// Corners come first: int32 count, then bare 1-based vertex ids
	assert.Equal(t, int32(KwdCorners), i32(120))
	assert.Equal(t, int64(136+4*4), i64(124))
	assert.Equal(t, int32(4), i32(132))
	assert.Equal(t, []int32{1, 2, 3, 4}, []int32{i32(136), i32(140), i32(144), i32(148)})
	// Edges: int32 count, then (v0, v1, ref)
	assert.Equal(t, int32(KwdEdges), i32(152))
	assert.Equal(t, int64(168+4*12), i64(156))
	assert.Equal(t, int32(4), i32(164))
	assert.Equal(t, []int32{1, 2, 1}, []int32{i32(168), i32(172), i32(176)})
}

func TestSolutionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "current.solb")
	want := &amgio.Buffers{
		Solution:    []float64{1, 0.5, 101325, 1.1, 0.6, 101000, 0.9, 0.4, 99000, 1, 0.3, 100000},
		SolutionTag: []string{"Density", "Mach", "Pressure"},
		Dimension:   2,
	}
	require.NoError(t, WriteSolution(path, want))
	got := &amgio.Buffers{}
	require.NoError(t, ReadSolution(path, got))
	assert.Equal(t, want.Solution, got.Solution)
	assert.Equal(t, want.SolutionTag, got.SolutionTag)
	assert.Equal(t, 2, got.Dimension)
	assert.Nil(t, got.Vertices)
}

func TestReadTypedSolution(t *testing.T) {
	// A metric written by the remesher: one symmetric matrix per vertex, no tags
	bw := newBlockWriter()
	bw.put(int32(2))
	bw.flush(KwdDimension)
	bw.put(int32(2), int32(2), SolScalar, SolSymMat)
	bw.put([]float64{1, 10, 0, 10, 2, 20, 0, 20})
	bw.flush(KwdSolAtVertices)
	var out bytes.Buffer
	require.NoError(t, bw.finish(&out))

	got := &amgio.Buffers{}
	require.NoError(t, decode(out.Bytes(), got, true))
	assert.Len(t, got.Solution, 8)
	assert.Equal(t, []string{"Field0", "Field1", "Field2", "Field3"}, got.SolutionTag)
}

func TestSkipUnknownKeywords(t *testing.T) {
	bw := newBlockWriter()
	bw.put(int32(2))
	bw.flush(KwdDimension)
	bw.put(int32(3), []float64{1, 2, 3})
	bw.flush(Keyword(99))
	bw.put(int32(1), []float64{0.5, 0.25}, int32(7))
	bw.flush(KwdVertices)
	var out bytes.Buffer
	require.NoError(t, bw.finish(&out))

	got := &amgio.Buffers{}
	require.NoError(t, decode(out.Bytes(), got, false))
	assert.Equal(t, []float64{0.5, 0.25, 0}, got.Vertices)
	assert.Equal(t, []string{"2"}, got.Markers)
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.meshb")
	require.NoError(t, WriteMesh(path, squareBuffers()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	{ // Truncated
		assert.Error(t, decode(data[:len(data)-20], &amgio.Buffers{}, false))
	}
	{ // Bad magic
		bad := append([]byte{}, data...)
		bad[0] = 7
		assert.ErrorContains(t, decode(bad, &amgio.Buffers{}, false), "magic")
	}
	{ // Missing solution block in a mesh file
		assert.ErrorContains(t, decode(data, &amgio.Buffers{}, true), "SolAtVertices")
	}
	{
		assert.Error(t, ReadMesh(filepath.Join(dir, "missing.meshb"), &amgio.Buffers{}))
	}
	{ // Huge counts are rejected before allocation
		bw := newBlockWriter()
		bw.put(int32(3))
		bw.flush(KwdDimension)
		bw.put(int32(1 << 30))
		bw.flush(KwdTetrahedra)
		var out bytes.Buffer
		require.NoError(t, bw.finish(&out))
		assert.ErrorContains(t, decode(out.Bytes(), &amgio.Buffers{}, false), "exceeds")
	}
}

func TestWriteErrors(t *testing.T) {
	dir := t.TempDir()
	{
		b := squareBuffers()
		b.Dimension = 4
		assert.Error(t, WriteMesh(filepath.Join(dir, "a.meshb"), b))
	}
	{
		b := squareBuffers()
		b.Triangles = b.Triangles[:5]
		assert.Error(t, WriteMesh(filepath.Join(dir, "b.meshb"), b))
	}
	{
		b := &amgio.Buffers{Solution: []float64{1, 2, 3}, SolutionTag: []string{"a", "b"}, Dimension: 2}
		assert.Error(t, WriteSolution(filepath.Join(dir, "c.solb"), b))
	}
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}
