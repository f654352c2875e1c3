// Package remesh calls the anisotropic remesher, either as a subprocess
// driven by file paths or as an in-process Library fed with a mesh.
package remesh

import (
	"errors"
	"fmt"
)

// DefaultExecutable is the remesher command looked up in PATH
const DefaultExecutable = "amg"

// Params holds the remesher inputs of one adaptation cycle
type Params struct {
	Executable string

	MeshIn   string // Mesh to adapt
	SolIn    string // Sensor solution driving the adaptation
	SolItpIn string // Solution interpolated onto the new mesh
	MetricIn string // When set, the metric replaces the sensor solution
	MeshOut  string

	Source string // Optional source mesh
	Back   string // Optional background mesh

	Size      float64 // Target complexity
	Gradation float64
	HMin      float64
	HMax      float64

	Lp      int
	Options string

	LogFile string
}

func (p Params) executable() string {
	if p.Executable == "" {
		return DefaultExecutable
	}
	return p.Executable
}

// UsesMetric reports whether the cycle is driven by a metric file
func (p Params) UsesMetric() bool { return p.MetricIn != "" }

// Validate checks the fields required to build a command line
func (p Params) Validate() error {
	var errs []error
	if p.MeshIn == "" {
		errs = append(errs, fmt.Errorf("missing input mesh"))
	}
	if p.MeshOut == "" {
		errs = append(errs, fmt.Errorf("missing output mesh"))
	}
	if p.SolIn == "" && p.MetricIn == "" {
		errs = append(errs, fmt.Errorf("missing sensor solution or metric"))
	}
	if p.SolItpIn == "" {
		errs = append(errs, fmt.Errorf("missing solution to interpolate"))
	}
	if !p.UsesMetric() && p.Size <= 0 {
		errs = append(errs, fmt.Errorf("target complexity must be positive, got %g", p.Size))
	}
	if p.Gradation <= 0 {
		errs = append(errs, fmt.Errorf("gradation must be positive, got %g", p.Gradation))
	}
	if p.HMin <= 0 || p.HMax <= 0 || p.HMin > p.HMax {
		errs = append(errs, fmt.Errorf("invalid edge length bounds hmin=%g hmax=%g", p.HMin, p.HMax))
	}
	return errors.Join(errs...)
}

// Command returns the remesher argument list for p, using the metric form
// when MetricIn is set. Arguments are passed as-is, never through a shell.
func Command(p Params) (name string, args []string) {
	name = p.executable()
	if p.UsesMetric() {
		args = []string{"-in", p.MeshIn, "-met", p.MetricIn}
	} else {
		args = []string{
			"-in", p.MeshIn, "-sol", p.SolIn, "-p", "1",
			"-c", fmt.Sprintf("%f", p.Size),
		}
	}
	args = append(args,
		"-hgrad", fmt.Sprintf("%.2f", p.Gradation),
		"-hmin", fmt.Sprintf("%e", p.HMin),
		"-hmax", fmt.Sprintf("%e", p.HMax),
		"-out", p.MeshOut,
		"-itp", p.SolItpIn,
		"-nordg",
	)
	if p.UsesMetric() {
		return
	}
	if p.Source != "" {
		args = append(args, "-source", p.Source)
	}
	if p.Back != "" {
		args = append(args, "-back", p.Back)
	}
	return
}
