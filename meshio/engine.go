// Package meshio provides the file backed mesh engine, choosing a format by
// file extension.
package meshio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/gocfd-amg/amgio"
	"github.com/notargets/gocfd-amg/meshio/meshb"
	"github.com/notargets/gocfd-amg/meshio/su2"
)

type format struct {
	name          string
	readMesh      func(string, *amgio.Buffers) error
	writeMesh     func(string, *amgio.Buffers) error
	readSolution  func(string, *amgio.Buffers) error
	writeSolution func(string, *amgio.Buffers) error
}

var (
	meshbFormat = &format{"meshb", meshb.ReadMesh, meshb.WriteMesh, meshb.ReadSolution, meshb.WriteSolution}
	su2Format   = &format{"su2", su2.ReadMesh, su2.WriteMesh, su2.ReadSolution, su2.WriteSolution}
)

var meshFormats = map[string]*format{
	".meshb": meshbFormat,
	".mesh":  meshbFormat,
	".su2":   su2Format,
}

var solutionFormats = map[string]*format{
	".solb": meshbFormat,
	".sol":  meshbFormat,
	".csv":  su2Format,
	".dat":  su2Format,
}

// Engine implements amgio.Engine over the files on disk
type Engine struct{}

// NewEngine returns the file engine
func NewEngine() *Engine { return &Engine{} }

// Formats lists the mesh and solution extensions the engine understands
func Formats() (meshExt, solExt []string) {
	for ext := range meshFormats {
		meshExt = append(meshExt, ext)
	}
	for ext := range solutionFormats {
		solExt = append(solExt, ext)
	}
	return
}

func lookup(table map[string]*format, path, what string) (*format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := table[ext]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("unsupported %s file extension %q for %s", what, ext, path)
}

func (e *Engine) ReadMesh(meshPath string, b *amgio.Buffers) (err error) {
	var f *format
	if f, err = lookup(meshFormats, meshPath, "mesh"); err != nil {
		return
	}
	return f.readMesh(meshPath, b)
}

func (e *Engine) ReadMeshAndSolution(meshPath, solPath string, b *amgio.Buffers) (err error) {
	if err = e.ReadMesh(meshPath, b); err != nil {
		return
	}
	var f *format
	if f, err = lookup(solutionFormats, solPath, "solution"); err != nil {
		return
	}
	return f.readSolution(solPath, b)
}

func (e *Engine) WriteMesh(meshPath string, b *amgio.Buffers) (err error) {
	var f *format
	if f, err = lookup(meshFormats, meshPath, "mesh"); err != nil {
		return
	}
	return f.writeMesh(meshPath, b)
}

func (e *Engine) WriteMeshAndSolution(meshPath, solPath string, b *amgio.Buffers) (err error) {
	// Both targets are checked before anything is written
	var fm, fs *format
	if fm, err = lookup(meshFormats, meshPath, "mesh"); err != nil {
		return
	}
	if fs, err = lookup(solutionFormats, solPath, "solution"); err != nil {
		return
	}
	if err = fm.writeMesh(meshPath, b); err != nil {
		return
	}
	return fs.writeSolution(solPath, b)
}

func (e *Engine) WriteSolution(solPath string, b *amgio.Buffers) (err error) {
	var f *format
	if f, err = lookup(solutionFormats, solPath, "solution"); err != nil {
		return
	}
	return f.writeSolution(solPath, b)
}
