package remesh

import (
	"fmt"

	"github.com/notargets/gocfd-amg/buffer"
	"github.com/notargets/gocfd-amg/mesh"
)

// Input is the structured mesh handed to an in-process remesher. Sensor and
// Metric are optional per-vertex tables.
type Input struct {
	Mesh   *mesh.Mesh
	Sensor *buffer.Table[float64]
	Metric *buffer.Table[float64]
}

type LibraryOptions struct {
	Lp        int
	Gradation float64
	LogFile   string
	Options   string
}

// Library is an in-process remesher
type Library interface {
	AdaptMesh(in Input, opts LibraryOptions) (*mesh.Mesh, error)
}

// RemeshError carries the failure of an in-process remesher call
type RemeshError struct {
	Cause error
}

func (e *RemeshError) Error() string {
	return fmt.Sprintf("remesh: in-process adaptation failed: %v", e.Cause)
}

func (e *RemeshError) Unwrap() error { return e.Cause }

// LibraryOptions maps cycle parameters onto the library option set
func (p Params) LibraryOptions() LibraryOptions {
	return LibraryOptions{
		Lp:        p.Lp,
		Gradation: p.Gradation,
		LogFile:   p.LogFile,
		Options:   p.Options,
	}
}

// AdaptInProcess calls lib on a copy of in. A 2D mesh is handed over with an
// N x 2 coordinate view; the caller's mesh is left as it was.
func AdaptInProcess(lib Library, in Input, p Params) (out *mesh.Mesh, err error) {
	if in.Mesh == nil {
		return nil, &RemeshError{Cause: fmt.Errorf("no mesh to adapt")}
	}
	if err = in.Mesh.Validate(); err != nil {
		return nil, &RemeshError{Cause: err}
	}
	nv := in.Mesh.NumVertices()
	for name, tab := range map[string]*buffer.Table[float64]{"sensor": in.Sensor, "metric": in.Metric} {
		if tab != nil && tab.Len() != nv {
			return nil, &RemeshError{Cause: fmt.Errorf("%s has %d rows for %d vertices", name, tab.Len(), nv)}
		}
	}
	cp := *in.Mesh
	if cp.Dimension == 2 {
		cp.To2D()
	}
	in.Mesh = &cp
	if out, err = lib.AdaptMesh(in, p.LibraryOptions()); err != nil {
		return nil, &RemeshError{Cause: err}
	}
	if out == nil {
		return nil, &RemeshError{Cause: fmt.Errorf("library returned no mesh")}
	}
	return
}
