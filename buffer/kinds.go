package buffer

// Kind identifies an element kind exchanged with the mesh engine
type Kind int

const (
	Vertices Kind = iota
	Corners
	Edges
	Triangles
	Quadrilaterals
	Tetrahedra
	Pyramids
	Prisms
	Hexahedra
	Solution
)

var kindNames = [...]string{
	"Vertices", "Corners", "Edges", "Triangles", "Quadrilaterals",
	"Tetrahedra", "Pyramids", "Prisms", "Hexahedra", "Solution",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Invalid"
	}
	return kindNames[k]
}

// GetNumNodes returns the number of vertex ids in one element row
func (k Kind) GetNumNodes() int {
	switch k {
	case Corners:
		return 1
	case Edges:
		return 2
	case Triangles:
		return 3
	case Quadrilaterals, Tetrahedra:
		return 4
	case Pyramids:
		return 5
	case Prisms:
		return 6
	case Hexahedra:
		return 8
	default:
		return 0
	}
}

// HasRef reports whether element rows carry a trailing reference id.
// Corners are bare vertex ids.
func (k Kind) HasRef() bool {
	switch k {
	case Edges, Triangles, Quadrilaterals, Tetrahedra, Pyramids, Prisms, Hexahedra:
		return true
	}
	return false
}

// Width is the fixed row width of the kind's flat buffer. Solution rows
// have a per-file width and report 0 here.
func (k Kind) Width() int {
	switch k {
	case Vertices:
		return 3
	case Solution:
		return 0
	}
	if k.HasRef() {
		return k.GetNumNodes() + 1
	}
	return k.GetNumNodes()
}

// ElementKinds lists the connectivity kinds in engine buffer order
var ElementKinds = []Kind{
	Corners, Edges, Triangles, Quadrilaterals, Tetrahedra, Pyramids, Prisms, Hexahedra,
}
