package amgio

import (
	"fmt"
	"slices"
)

// MemEngine is an in-memory Engine keyed by path. It backs the tests of
// the adapter and of the packages built on it.
type MemEngine struct {
	Meshes    map[string]*Buffers
	Solutions map[string]*Buffers
	Writes    map[string]int // Number of writes per path
	Fail      error          // When set, every call fails with it
}

func NewMemEngine() *MemEngine {
	return &MemEngine{
		Meshes:    make(map[string]*Buffers),
		Solutions: make(map[string]*Buffers),
		Writes:    make(map[string]int),
	}
}

func (e *MemEngine) ReadMesh(meshPath string, b *Buffers) error {
	if e.Fail != nil {
		return e.Fail
	}
	src, ok := e.Meshes[meshPath]
	if !ok {
		return fmt.Errorf("no such mesh: %s", meshPath)
	}
	copyMesh(b, src)
	return nil
}

func (e *MemEngine) ReadMeshAndSolution(meshPath, solPath string, b *Buffers) error {
	if err := e.ReadMesh(meshPath, b); err != nil {
		return err
	}
	src, ok := e.Solutions[solPath]
	if !ok {
		return fmt.Errorf("no such solution: %s", solPath)
	}
	b.Solution = slices.Clone(src.Solution)
	b.SolutionTag = slices.Clone(src.SolutionTag)
	return nil
}

func (e *MemEngine) WriteMesh(meshPath string, b *Buffers) error {
	if e.Fail != nil {
		return e.Fail
	}
	dst := &Buffers{}
	copyMesh(dst, b)
	e.Meshes[meshPath] = dst
	e.Writes[meshPath]++
	return nil
}

func (e *MemEngine) WriteMeshAndSolution(meshPath, solPath string, b *Buffers) error {
	if err := e.WriteMesh(meshPath, b); err != nil {
		return err
	}
	return e.WriteSolution(solPath, b)
}

func (e *MemEngine) WriteSolution(solPath string, b *Buffers) error {
	if e.Fail != nil {
		return e.Fail
	}
	e.Solutions[solPath] = &Buffers{
		Vertices:    slices.Clone(b.Vertices),
		Solution:    slices.Clone(b.Solution),
		SolutionTag: slices.Clone(b.SolutionTag),
		Dimension:   b.Dimension,
	}
	e.Writes[solPath]++
	return nil
}

func copyMesh(dst, src *Buffers) {
	dst.Vertices = slices.Clone(src.Vertices)
	dst.Corners = slices.Clone(src.Corners)
	dst.Edges = slices.Clone(src.Edges)
	dst.Triangles = slices.Clone(src.Triangles)
	dst.Quadrilaterals = slices.Clone(src.Quadrilaterals)
	dst.Tetrahedra = slices.Clone(src.Tetrahedra)
	dst.Pyramids = slices.Clone(src.Pyramids)
	dst.Prisms = slices.Clone(src.Prisms)
	dst.Hexahedra = slices.Clone(src.Hexahedra)
	dst.Markers = slices.Clone(src.Markers)
	dst.Dimension = src.Dimension
}
