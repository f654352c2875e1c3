// Package sensor derives the reduced solution that drives remeshing from
// named fields of a flow solution.
package sensor

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gocfd-amg/buffer"
	"github.com/notargets/gocfd-amg/mesh"
)

type Kind string

const (
	MACH      Kind = "MACH"
	PRES      Kind = "PRES"
	MACH_PRES Kind = "MACH_PRES"
	GOAL      Kind = "GOAL"
)

var Kinds = []Kind{MACH, PRES, MACH_PRES, GOAL}

// Field names looked up in the flow solution
const (
	MachField     = "Mach"
	PressureField = "Pressure"
)

// UnknownSensorError is returned for a sensor kind outside Kinds
type UnknownSensorError struct {
	Kind string
}

func (e *UnknownSensorError) Error() string {
	return fmt.Sprintf("sensor: unknown sensor %q, expected one of %v", e.Kind, Kinds)
}

// ParseKind maps a sensor name, in any case, to a Kind
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(name)))
	if !k.known() {
		return "", &UnknownSensorError{Kind: name}
	}
	return k, nil
}

func (k Kind) known() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// GoalWidth is the number of trailing goal-oriented columns for a dimension
func GoalWidth(dim int) int {
	if dim == 3 {
		return 6
	}
	return 3
}

// Extract builds the sensor of the given kind from the solution of sol. The
// result shares the coordinates, markers and dimension of sol. Its field
// index is not built; callers that look fields up must call
// RebuildSolutionIndex first.
func Extract(sol *mesh.Mesh, kind Kind) (out *mesh.Mesh, err error) {
	var (
		cols []int
		tags []string
	)
	if !kind.known() {
		return nil, &UnknownSensorError{Kind: string(kind)}
	}
	if sol.Solution == nil || sol.Solution.IsEmpty() {
		return nil, fmt.Errorf("sensor: mesh has no solution")
	}
	_, nc := sol.Solution.Dims()
	switch kind {
	case MACH:
		cols, err = fieldColumns(sol, MachField)
		tags = []string{"Mach"}
	case PRES:
		cols, err = fieldColumns(sol, PressureField)
		tags = []string{"Pres"}
	case MACH_PRES:
		cols, err = fieldColumns(sol, MachField, PressureField)
		tags = []string{"Mach", "Pres"}
	case GOAL:
		gw := GoalWidth(sol.Dimension)
		if nc < gw {
			return nil, fmt.Errorf("sensor: GOAL needs %d columns in %dD, solution has %d",
				gw, sol.Dimension, nc)
		}
		for j := nc - gw; j < nc; j++ {
			cols = append(cols, j)
		}
		tags = goalTags(gw)
	default:
		return nil, &UnknownSensorError{Kind: string(kind)}
	}
	if err != nil {
		return
	}

	var (
		src = buffer.Dense(*sol.Solution)
		dst = mat.NewDense(sol.Solution.Len(), len(cols), nil)
	)
	for k, j := range cols {
		dst.SetCol(k, mat.Col(nil, j, src))
	}
	sensor := buffer.FromDense(dst)
	out = &mesh.Mesh{
		Dimension:   sol.Dimension,
		XYZ:         sol.XYZ,
		XY:          sol.XY,
		Markers:     append([]string{}, sol.Markers...),
		Solution:    &sensor,
		SolutionTag: tags,
	}
	return
}

// goalTags returns one tag per goal column: Goal, Goal_1, Goal_2, ...
func goalTags(width int) (tags []string) {
	tags = []string{"Goal"}
	for j := 1; j < width; j++ {
		tags = append(tags, fmt.Sprintf("Goal_%d", j))
	}
	return
}

func fieldColumns(sol *mesh.Mesh, fields ...string) (cols []int, err error) {
	for _, f := range fields {
		j, ok := sol.SolutionIndex(f)
		if !ok {
			return nil, fmt.Errorf("sensor: solution has no field %q, fields are %v", f, sol.SolutionTag)
		}
		cols = append(cols, j)
	}
	return
}
