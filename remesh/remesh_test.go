package remesh

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocfd-amg/buffer"
	"github.com/notargets/gocfd-amg/mesh"
)

func testParams(dir string) Params {
	return Params{
		MeshIn:    filepath.Join(dir, "current.meshb"),
		SolIn:     filepath.Join(dir, "current_sensor.solb"),
		SolItpIn:  filepath.Join(dir, "current.solb"),
		MeshOut:   filepath.Join(dir, "current.new.meshb"),
		Size:      2000,
		Gradation: 1.5,
		HMin:      1.e-6,
		HMax:      10,
		Lp:        4,
		LogFile:   filepath.Join(dir, "amg.out"),
	}
}

func TestCommand(t *testing.T) {
	p := testParams("run")
	p.Back = "run/back.meshb"
	name, args := Command(p)
	assert.Equal(t, "amg", name)
	assert.Equal(t, []string{
		"-in", "run/current.meshb", "-sol", "run/current_sensor.solb", "-p", "1",
		"-c", "2000.000000",
		"-hgrad", "1.50", "-hmin", "1.000000e-06", "-hmax", "1.000000e+01",
		"-out", "run/current.new.meshb", "-itp", "run/current.solb", "-nordg",
		"-back", "run/back.meshb",
	}, args)

	{ // Metric form drops the sensor, complexity and optional meshes
		p.MetricIn = "run/metric.solb"
		p.Source = "run/source.meshb"
		p.Executable = "/opt/amg/bin/amg"
		name, args = Command(p)
		assert.Equal(t, "/opt/amg/bin/amg", name)
		assert.Equal(t, []string{
			"-in", "run/current.meshb", "-met", "run/metric.solb",
			"-hgrad", "1.50", "-hmin", "1.000000e-06", "-hmax", "1.000000e+01",
			"-out", "run/current.new.meshb", "-itp", "run/current.solb", "-nordg",
		}, args)
	}
	{ // Paths with shell metacharacters stay single arguments
		p := testParams("my run; rm -rf ~")
		_, args := Command(p)
		assert.Equal(t, "my run; rm -rf ~/current.meshb", args[1])
	}
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, testParams("run").Validate())
	p := testParams("run")
	p.Size = 0
	p.HMin = 20
	err := p.Validate()
	assert.ErrorContains(t, err, "complexity")
	assert.ErrorContains(t, err, "hmin")
	{ // Complexity is not used with a metric
		p := testParams("run")
		p.Size, p.SolIn, p.MetricIn = 0, "", "metric.solb"
		assert.NoError(t, p.Validate())
	}
	assert.Error(t, Params{}.Validate())
}

type fakeRunner struct {
	name     string
	args     []string
	exitCode int
	err      error
	output   string // Created when set
}

func (f *fakeRunner) Run(name string, args []string, out io.Writer) (int, error) {
	f.name, f.args = name, args
	_, _ = io.WriteString(out, "amg: adapting\n")
	if f.output != "" {
		if err := os.WriteFile(f.output, []byte("mesh"), 0o644); err != nil {
			return 1, err
		}
	}
	return f.exitCode, f.err
}

func TestSubprocessRun(t *testing.T) {
	{
		dir := t.TempDir()
		p := testParams(dir)
		fr := &fakeRunner{output: p.MeshOut}
		res, err := NewSubprocess(fr, zerolog.Nop()).Run(p)
		require.NoError(t, err)
		assert.True(t, res.OK())
		assert.Equal(t, "amg", fr.name)
		log, err := os.ReadFile(p.LogFile)
		require.NoError(t, err)
		assert.Equal(t, "amg: adapting\n", string(log))
	}
	{ // Non-zero exit and no output are reported, not errors
		dir := t.TempDir()
		p := testParams(dir)
		p.LogFile = ""
		res, err := NewSubprocess(&fakeRunner{exitCode: 3}, zerolog.Nop()).Run(p)
		require.NoError(t, err)
		assert.Equal(t, 3, res.ExitCode)
		assert.False(t, res.OutputExists)
		assert.False(t, res.OK())
	}
	{
		dir := t.TempDir()
		_, err := NewSubprocess(&fakeRunner{exitCode: 127, err: errors.New("not found")}, zerolog.Nop()).
			Run(testParams(dir))
		assert.ErrorContains(t, err, "unable to run")
	}
	{
		_, err := NewSubprocess(&fakeRunner{}, zerolog.Nop()).Run(Params{})
		assert.Error(t, err)
	}
}

func TestExecRunner(t *testing.T) {
	var r ExecRunner
	code, err := r.Run("go-amg-missing-executable", nil, io.Discard)
	assert.Error(t, err)
	assert.Equal(t, 127, code)
}

type fakeLibrary struct {
	got  Input
	opts LibraryOptions
	err  error
}

func (f *fakeLibrary) AdaptMesh(in Input, opts LibraryOptions) (*mesh.Mesh, error) {
	f.got, f.opts = in, opts
	if f.err != nil {
		return nil, f.err
	}
	return mesh.NewSquareMesh(), nil
}

func TestAdaptInProcess(t *testing.T) {
	p := testParams("run")
	p.Options = "-nordg"
	{
		m := mesh.NewSquareMesh()
		sensor := buffer.NewTable[float64](4, 1)
		lib := &fakeLibrary{}
		out, err := AdaptInProcess(lib, Input{Mesh: m, Sensor: &sensor}, p)
		require.NoError(t, err)
		require.NotNil(t, out)
		// The library sees an XY view, the caller keeps XYZ
		require.NotNil(t, lib.got.Mesh.XY)
		assert.Nil(t, lib.got.Mesh.XYZ)
		assert.NotNil(t, m.XYZ)
		assert.Nil(t, m.XY)
		assert.Equal(t, LibraryOptions{Lp: 4, Gradation: 1.5, LogFile: "run/amg.out", Options: "-nordg"}, lib.opts)
	}
	{ // 3D meshes keep their coordinates
		lib := &fakeLibrary{}
		_, err := AdaptInProcess(lib, Input{Mesh: mesh.NewTwoTetMesh()}, p)
		require.NoError(t, err)
		assert.NotNil(t, lib.got.Mesh.XYZ)
	}
	{ // The library error is kept as the cause
		cause := errors.New("pyamg failed")
		_, err := AdaptInProcess(&fakeLibrary{err: cause}, Input{Mesh: mesh.NewSquareMesh()}, p)
		var re *RemeshError
		require.True(t, errors.As(err, &re))
		assert.ErrorIs(t, err, cause)
	}
	{
		sensor := buffer.NewTable[float64](3, 1)
		_, err := AdaptInProcess(&fakeLibrary{}, Input{Mesh: mesh.NewSquareMesh(), Sensor: &sensor}, p)
		assert.ErrorContains(t, err, "sensor has 3 rows")
		_, err = AdaptInProcess(&fakeLibrary{}, Input{}, p)
		assert.Error(t, err)
	}
}
