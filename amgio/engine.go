package amgio

// Buffers carries the flat, interleaved per-kind buffers exchanged with an
// Engine. Vertex buffers always hold three coordinates per vertex.
// Connectivity buffers hold 0-based vertex ids followed by a reference id
// (except Corners).
type Buffers struct {
	Vertices       []float64
	Corners        []float64
	Edges          []float64
	Triangles      []float64
	Quadrilaterals []float64
	Tetrahedra     []float64
	Pyramids       []float64
	Prisms         []float64
	Hexahedra      []float64

	Solution    []float64 // nvertices x len(SolutionTag), row-major
	SolutionTag []string

	Markers   []string
	Dimension int
}

// Engine is the native mesh I/O engine. Read calls populate the given empty
// Buffers in place; write calls consume them. Implementations must not
// leave a partially written file at the target path on failure.
type Engine interface {
	ReadMesh(meshPath string, b *Buffers) error
	ReadMeshAndSolution(meshPath, solPath string, b *Buffers) error
	WriteMesh(meshPath string, b *Buffers) error
	WriteMeshAndSolution(meshPath, solPath string, b *Buffers) error
	WriteSolution(solPath string, b *Buffers) error
}
