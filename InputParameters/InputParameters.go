package InputParameters

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/gocfd-amg/remesh"
	"github.com/notargets/gocfd-amg/sensor"
)

// Parameters of an adaptation cycle, obtained from the YAML input file
type AdaptParameters struct {
	MeshIn     string  `json:"mesh_in"`     // Current solver mesh
	SolIn      string  `json:"sol_in"`      // Sensor solution written for the remesher
	SolItpIn   string  `json:"sol_itp_in"`  // Flow solution interpolated on the new mesh
	MetricIn   string  `json:"metric_in"`   // Metric replacing the sensor, optional
	MeshOut    string  `json:"mesh_out"`    // Adapted mesh
	Source     string  `json:"adap_source"` // Optional source mesh
	Back       string  `json:"adap_back"`   // Optional background mesh
	Sensor     string  `json:"adap_sensor"` // MACH, PRES, MACH_PRES or GOAL
	Size       float64 `json:"size"`        // Target complexity
	HGrad      float64 `json:"hgrad"`
	HMin       float64 `json:"hmin"`
	HMax       float64 `json:"hmax"`
	Lp         int     `json:"Lp"`
	Options    string  `json:"options"`
	AmgLog     string  `json:"amg_log"`
	AmgExe     string  `json:"amg_exe"`
	SolverMesh string  `json:"solver_mesh"` // Mesh the background orientation is checked against
}

// Defaults follow the usual remesher settings
func NewAdaptParameters() *AdaptParameters {
	return &AdaptParameters{
		MeshIn:   "current.meshb",
		SolIn:    "current_sensor.solb",
		SolItpIn: "current.solb",
		MeshOut:  "current.new.meshb",
		Sensor:   string(sensor.MACH),
		HGrad:    1.5,
		Lp:       4,
		AmgLog:   "amg.out",
		AmgExe:   remesh.DefaultExecutable,
	}
}

func (ap *AdaptParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ap)
}

// ReadFile parses the YAML file at path over the current values
func (ap *AdaptParameters) ReadFile(path string) (err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	if err = ap.Parse(data); err != nil {
		return fmt.Errorf("unable to parse %s: %w", path, err)
	}
	return
}

func (ap *AdaptParameters) Validate() (err error) {
	if _, err = sensor.ParseKind(ap.Sensor); err != nil && ap.MetricIn == "" {
		return
	}
	return ap.ToParams().Validate()
}

// SensorKind returns the parsed adap_sensor value
func (ap *AdaptParameters) SensorKind() (sensor.Kind, error) {
	return sensor.ParseKind(ap.Sensor)
}

func (ap *AdaptParameters) ToParams() remesh.Params {
	return remesh.Params{
		Executable: ap.AmgExe,
		MeshIn:     ap.MeshIn,
		SolIn:      ap.SolIn,
		SolItpIn:   ap.SolItpIn,
		MetricIn:   ap.MetricIn,
		MeshOut:    ap.MeshOut,
		Source:     ap.Source,
		Back:       ap.Back,
		Size:       ap.Size,
		Gradation:  ap.HGrad,
		HMin:       ap.HMin,
		HMax:       ap.HMax,
		Lp:         ap.Lp,
		Options:    ap.Options,
		LogFile:    ap.AmgLog,
	}
}

func (ap *AdaptParameters) Print(w io.Writer) {
	opt := func(s string) string {
		if s == "" {
			return "none"
		}
		return s
	}
	fmt.Fprintf(w, "[%s] -> [%s]\t= Mesh in/out\n", ap.MeshIn, ap.MeshOut)
	if ap.MetricIn != "" {
		fmt.Fprintf(w, "[%s]\t\t= Metric\n", ap.MetricIn)
	} else {
		fmt.Fprintf(w, "[%s] from [%s]\t= Sensor\n", strings.ToUpper(ap.Sensor), ap.SolIn)
		fmt.Fprintf(w, "%8.1f\t\t= Complexity\n", ap.Size)
	}
	fmt.Fprintf(w, "[%s]\t\t= Interpolated solution\n", ap.SolItpIn)
	fmt.Fprintf(w, "%8.2f\t\t= Gradation\n", ap.HGrad)
	fmt.Fprintf(w, "%8.3e\t\t= Hmin\n", ap.HMin)
	fmt.Fprintf(w, "%8.3e\t\t= Hmax\n", ap.HMax)
	fmt.Fprintf(w, "[%d]\t\t\t= Lp\n", ap.Lp)
	fmt.Fprintf(w, "[%s]\t\t= Source mesh\n", opt(ap.Source))
	fmt.Fprintf(w, "[%s]\t\t= Background mesh\n", opt(ap.Back))
}
