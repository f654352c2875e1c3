package amgio

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/notargets/gocfd-amg/buffer"
	"github.com/notargets/gocfd-amg/mesh"
)

// Adapter converts between an Engine's flat buffers and mesh.Mesh values
type Adapter struct {
	engine Engine
	log    zerolog.Logger
}

func NewAdapter(engine Engine, log zerolog.Logger) *Adapter {
	return &Adapter{
		engine: engine,
		log:    log.With().Str("component", "amgio").Logger(),
	}
}

// ReadMesh reads a mesh without solution
func (a *Adapter) ReadMesh(meshPath string) (m *mesh.Mesh, err error) {
	b := &Buffers{}
	if err = a.engine.ReadMesh(meshPath, b); err != nil {
		return nil, &ReadError{Path: meshPath, Err: err}
	}
	if m, err = assemble(b, false); err != nil {
		return nil, &ReadError{Path: meshPath, Err: err}
	}
	a.log.Debug().Str("mesh", meshPath).Str("size", m.Size()).Msg("read mesh")
	return
}

// ReadMeshAndSolution reads a mesh and the per-vertex solution attached to
// it, and builds the solution field index.
func (a *Adapter) ReadMeshAndSolution(meshPath, solPath string) (m *mesh.Mesh, err error) {
	b := &Buffers{}
	if err = a.engine.ReadMeshAndSolution(meshPath, solPath, b); err != nil {
		return nil, &ReadError{Path: meshPath, Err: err}
	}
	if m, err = assemble(b, true); err != nil {
		return nil, &ReadError{Path: solPath, Err: err}
	}
	a.log.Debug().Str("mesh", meshPath).Str("solution", solPath).
		Str("size", m.Size()).Strs("fields", m.SolutionTag).Msg("read mesh and solution")
	return
}

// WriteMesh writes the mesh tables; any attached solution is ignored
func (a *Adapter) WriteMesh(meshPath string, m *mesh.Mesh) (err error) {
	var b *Buffers
	if b, err = disassemble(m, false); err != nil {
		return &WriteError{Path: meshPath, Err: err}
	}
	if err = a.engine.WriteMesh(meshPath, b); err != nil {
		return &WriteError{Path: meshPath, Err: err}
	}
	a.log.Debug().Str("mesh", meshPath).Str("size", m.Size()).Msg("wrote mesh")
	return
}

// WriteMeshAndSolution writes the mesh and its solution. A solution with
// fewer than two rows is a NoSolutionError and nothing is written.
func (a *Adapter) WriteMeshAndSolution(meshPath, solPath string, m *mesh.Mesh) (err error) {
	if !m.HasSolution() {
		return &NoSolutionError{Path: solPath, Rows: solutionRows(m)}
	}
	var b *Buffers
	if b, err = disassemble(m, true); err != nil {
		return &WriteError{Path: meshPath, Err: err}
	}
	if err = a.engine.WriteMeshAndSolution(meshPath, solPath, b); err != nil {
		return &WriteError{Path: meshPath, Err: err}
	}
	a.log.Debug().Str("mesh", meshPath).Str("solution", solPath).
		Str("size", m.Size()).Strs("fields", m.SolutionTag).Msg("wrote mesh and solution")
	return
}

// WriteSolution writes only the solution of m, keyed to its vertices
func (a *Adapter) WriteSolution(solPath string, m *mesh.Mesh) (err error) {
	if !m.HasSolution() {
		return &NoSolutionError{Path: solPath, Rows: solutionRows(m)}
	}
	var b *Buffers
	if b, err = disassemble(m, true); err != nil {
		return &WriteError{Path: solPath, Err: err}
	}
	if err = a.engine.WriteSolution(solPath, b); err != nil {
		return &WriteError{Path: solPath, Err: err}
	}
	a.log.Debug().Str("solution", solPath).Strs("fields", m.SolutionTag).
		Int("vertices", m.NumVertices()).Msg("wrote solution")
	return
}

func solutionRows(m *mesh.Mesh) int {
	if m.Solution == nil {
		return 0
	}
	return m.Solution.Len()
}

// elementBuffer returns the flat buffer of an element kind
func (b *Buffers) elementBuffer(kind buffer.Kind) *[]float64 {
	switch kind {
	case buffer.Corners:
		return &b.Corners
	case buffer.Edges:
		return &b.Edges
	case buffer.Triangles:
		return &b.Triangles
	case buffer.Quadrilaterals:
		return &b.Quadrilaterals
	case buffer.Tetrahedra:
		return &b.Tetrahedra
	case buffer.Pyramids:
		return &b.Pyramids
	case buffer.Prisms:
		return &b.Prisms
	case buffer.Hexahedra:
		return &b.Hexahedra
	}
	panic(fmt.Errorf("%s is not an element kind", kind))
}

// Elements returns the flat buffer of an element kind
func (b *Buffers) Elements(kind buffer.Kind) []float64 { return *b.elementBuffer(kind) }

// SetElements replaces the flat buffer of an element kind
func (b *Buffers) SetElements(kind buffer.Kind, buf []float64) { *b.elementBuffer(kind) = buf }

func assemble(b *Buffers, withSolution bool) (m *mesh.Mesh, err error) {
	var dim int
	if dim, err = mesh.DimensionFromMarkers(b.Markers); err != nil {
		return
	}
	m = &mesh.Mesh{
		Dimension: dim,
		Markers:   b.Markers,
	}
	var xyz buffer.Table[float64]
	if xyz, err = buffer.ReshapeKind[float64](buffer.Vertices, b.Vertices); err != nil {
		return nil, err
	}
	m.XYZ = &xyz
	for _, kind := range buffer.ElementKinds {
		var tab buffer.Table[int]
		if tab, err = buffer.ReshapeKind[int](kind, b.Elements(kind)); err != nil {
			return nil, err
		}
		m.SetElements(kind, tab)
	}
	if withSolution && len(b.Solution) != 0 {
		nv := xyz.Len()
		if nv == 0 || len(b.Solution)%nv != 0 {
			return nil, &buffer.MalformedBufferError{
				Kind: buffer.Solution.String(), Len: len(b.Solution), Width: len(b.SolutionTag),
			}
		}
		var sol buffer.Table[float64]
		if sol, err = buffer.Reshape[float64](b.Solution, len(b.Solution)/nv); err != nil {
			return nil, err
		}
		if _, nc := sol.Dims(); nc != len(b.SolutionTag) {
			return nil, fmt.Errorf("solution has %d fields per vertex and %d tags", nc, len(b.SolutionTag))
		}
		m.SetSolution(sol, b.SolutionTag)
	}
	if err = m.Validate(); err != nil {
		return nil, err
	}
	return
}

func disassemble(m *mesh.Mesh, withSolution bool) (b *Buffers, err error) {
	if err = m.Validate(); err != nil {
		return
	}
	b = &Buffers{
		Dimension: m.Dimension,
		Markers:   m.Markers,
	}
	if len(b.Markers) == 0 {
		b.Markers = []string{strconv.Itoa(m.Dimension)}
	}
	b.Vertices = m.Coordinates().Flatten()
	for _, kind := range buffer.ElementKinds {
		b.SetElements(kind, m.Elements(kind).Flatten())
	}
	if withSolution && m.HasSolution() {
		b.Solution = m.Solution.Flatten()
		b.SolutionTag = m.SolutionTag
	}
	return
}
