package sensor

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocfd-amg/amgio"
	"github.com/notargets/gocfd-amg/mesh"
)

func column(m *mesh.Mesh, j int) (col []float64) {
	for i := 0; i < m.Solution.Len(); i++ {
		col = append(col, m.Solution.At(i, j))
	}
	return
}

func TestExtract(t *testing.T) {
	sol := mesh.NewFlowSolution(mesh.NewSquareMesh())
	{
		out, err := Extract(sol, MACH_PRES)
		require.NoError(t, err)
		assert.Equal(t, []string{"Mach", "Pres"}, out.SolutionTag)
		_, nc := out.Solution.Dims()
		require.Equal(t, 2, nc)
		assert.Equal(t, column(sol, 1), column(out, 0))
		assert.Equal(t, column(sol, 2), column(out, 1))
		assert.Equal(t, 2, out.Dimension)
		assert.Same(t, sol.XYZ, out.XYZ)
		assert.Equal(t, sol.Markers, out.Markers)
		// The field index is left for the caller
		_, ok := out.SolutionIndex("Mach")
		assert.False(t, ok)
		out.RebuildSolutionIndex()
		j, ok := out.SolutionIndex("Pres")
		assert.True(t, ok)
		assert.Equal(t, 1, j)
	}
	{
		out, err := Extract(sol, MACH)
		require.NoError(t, err)
		assert.Equal(t, []string{"Mach"}, out.SolutionTag)
		assert.Equal(t, []float64{1, 11, 21, 31}, out.Solution.Data())
	}
	{
		out, err := Extract(sol, PRES)
		require.NoError(t, err)
		assert.Equal(t, []string{"Pres"}, out.SolutionTag)
		assert.Equal(t, []float64{2, 12, 22, 32}, out.Solution.Data())
	}
}

func TestExtractGoal(t *testing.T) {
	{
		sol := mesh.NewFlowSolution(mesh.NewSquareMesh(), "Adj0", "Adj1")
		out, err := Extract(sol, GOAL)
		require.NoError(t, err)
		_, nc := out.Solution.Dims()
		require.Equal(t, 3, nc)
		for k := 0; k < 3; k++ {
			assert.Equal(t, column(sol, 2+k), column(out, k))
		}
		assert.Equal(t, "Goal", out.SolutionTag[0])
		assert.NoError(t, out.Validate())
	}
	{
		sol := mesh.NewFlowSolution(mesh.NewTwoTetMesh(), "A0", "A1", "A2", "A3")
		out, err := Extract(sol, GOAL)
		require.NoError(t, err)
		_, nc := out.Solution.Dims()
		require.Equal(t, 6, nc)
		assert.Equal(t, column(sol, 1), column(out, 0))
		assert.Equal(t, column(sol, 6), column(out, 5))
	}
	{ // Too narrow
		sol := mesh.NewFlowSolution(mesh.NewTwoTetMesh())
		_, err := Extract(sol, GOAL)
		assert.ErrorContains(t, err, "GOAL needs 6 columns")
	}
}

func TestExtractErrors(t *testing.T) {
	sol := mesh.NewFlowSolution(mesh.NewSquareMesh())
	{
		_, err := Extract(sol, Kind("VORTICITY"))
		var use *UnknownSensorError
		require.True(t, errors.As(err, &use))
		assert.Equal(t, "VORTICITY", use.Kind)
	}
	{
		_, err := ParseKind("VORTICITY")
		var use *UnknownSensorError
		assert.True(t, errors.As(err, &use))
		k, err := ParseKind(" mach_pres ")
		require.NoError(t, err)
		assert.Equal(t, MACH_PRES, k)
	}
	{ // Missing field
		m := mesh.NewFlowSolution(mesh.NewSquareMesh())
		m.SolutionTag[1] = "Velocity"
		m.RebuildSolutionIndex()
		_, err := Extract(m, MACH)
		assert.ErrorContains(t, err, `no field "Mach"`)
	}
	{
		_, err := Extract(mesh.NewSquareMesh(), PRES)
		assert.ErrorContains(t, err, "no solution")
	}
	{ // The kind is checked before the solution
		_, err := Extract(mesh.NewSquareMesh(), Kind("VORTICITY"))
		var use *UnknownSensorError
		assert.True(t, errors.As(err, &use))
	}
}

func TestSensorIsWritable(t *testing.T) {
	a := amgio.NewAdapter(amgio.NewMemEngine(), zerolog.Nop())
	out, err := Extract(mesh.NewFlowSolution(mesh.NewSquareMesh()), MACH_PRES)
	require.NoError(t, err)
	require.NoError(t, a.WriteSolution("current_sensor.solb", out))
}
