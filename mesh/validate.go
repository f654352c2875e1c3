package mesh

import (
	"fmt"

	"github.com/notargets/gocfd-amg/buffer"
)

// Validate checks the structural invariants of the mesh: table widths,
// vertex ids in range, solution shape and the dimension marker.
func (m *Mesh) Validate() error {
	if m.Dimension != 2 && m.Dimension != 3 {
		return fmt.Errorf("unsupported dimension: %d", m.Dimension)
	}
	if m.XYZ != nil {
		if _, nc := m.XYZ.Dims(); m.XYZ.Len() > 0 && nc != 3 {
			return fmt.Errorf("XYZ has %d columns, expected 3", nc)
		}
	}
	if m.XY != nil {
		if _, nc := m.XY.Dims(); m.XY.Len() > 0 && nc != 2 {
			return fmt.Errorf("XY has %d columns, expected 2", nc)
		}
	}
	nv := m.NumVertices()
	for _, kind := range buffer.ElementKinds {
		tab := m.Elements(kind)
		if tab.IsEmpty() {
			continue
		}
		if _, nc := tab.Dims(); nc != kind.Width() {
			return fmt.Errorf("%s has %d columns, expected %d", kind, nc, kind.Width())
		}
		nn := kind.GetNumNodes()
		for k := 0; k < tab.Len(); k++ {
			row := tab.Row(k)
			for _, v := range row[:nn] {
				if v < 0 || v >= nv {
					return fmt.Errorf("%s[%d] vertex index %d out of range [0,%d)", kind, k, v, nv)
				}
			}
		}
	}
	if m.Solution != nil {
		nr, nc := m.Solution.Dims()
		if nr != nv {
			return fmt.Errorf("solution has %d rows for %d vertices", nr, nv)
		}
		if len(m.SolutionTag) != nc {
			return fmt.Errorf("solution has %d columns and %d tags", nc, len(m.SolutionTag))
		}
	}
	if len(m.Markers) != 0 {
		dim, err := DimensionFromMarkers(m.Markers)
		if err != nil {
			return err
		}
		if dim != m.Dimension {
			return fmt.Errorf("dimension marker %d does not match dimension %d", dim, m.Dimension)
		}
	}
	return nil
}
