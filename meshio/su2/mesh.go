// Package su2 reads and writes SU2 native ASCII meshes and SU2 CSV restart
// solutions as engine buffers.
//
// Volume elements carry reference id 0. Boundary elements of the i-th
// marker carry reference id i+1, and the marker tag is kept in
// Markers[i+1], Markers[0] being the dimension. A marker tagged ref_N
// carries reference id N, which is how refs below 1 are stored.
package su2

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/notargets/gocfd-amg/amgio"
	"github.com/notargets/gocfd-amg/buffer"
	"github.com/notargets/gocfd-amg/meshio/atomic"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type ElementType int

const (
	ELType_Vertex        ElementType = 1
	ELType_Line          ElementType = 3
	ELType_Triangle      ElementType = 5
	ELType_Quadrilateral ElementType = 9
	ELType_Tetrahedral   ElementType = 10
	ELType_Hexahedral    ElementType = 12
	ELType_Prism         ElementType = 13
	ELType_Pyramid       ElementType = 14
)

var su2ElementKindMap = map[ElementType]buffer.Kind{
	ELType_Vertex:        buffer.Corners,
	ELType_Line:          buffer.Edges,
	ELType_Triangle:      buffer.Triangles,
	ELType_Quadrilateral: buffer.Quadrilaterals,
	ELType_Tetrahedral:   buffer.Tetrahedra,
	ELType_Hexahedral:    buffer.Hexahedra,
	ELType_Prism:         buffer.Prisms,
	ELType_Pyramid:       buffer.Pyramids,
}

func kindElementType(kind buffer.Kind) ElementType {
	for et, k := range su2ElementKindMap {
		if k == kind {
			return et
		}
	}
	panic(fmt.Errorf("no SU2 element type for %s", kind))
}

// isVolume reports whether kind is a volume element in a mesh of dimension dim
func isVolume(kind buffer.Kind, dim int) bool {
	switch kind {
	case buffer.Triangles, buffer.Quadrilaterals:
		return dim == 2
	case buffer.Tetrahedra, buffer.Hexahedra, buffer.Prisms, buffer.Pyramids:
		return true
	}
	return false
}

type lineReader struct {
	scanner *bufio.Scanner
	lineNo  int
}

// next returns the next non-empty line with comments removed
func (lr *lineReader) next() (line string, err error) {
	for lr.scanner.Scan() {
		lr.lineNo++
		line = lr.scanner.Text()
		if idx := strings.Index(line, "%"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return
		}
	}
	if err = lr.scanner.Err(); err != nil {
		return
	}
	return "", io.ErrUnexpectedEOF
}

// keyValue splits "KEY= value"
func keyValue(line string) (key, value string, ok bool) {
	ind := strings.Index(line, "=")
	if ind < 0 {
		return
	}
	return strings.TrimSpace(line[:ind]), strings.TrimSpace(line[ind+1:]), true
}

func (lr *lineReader) readNumber(key string) (num int, err error) {
	var line string
	if line, err = lr.next(); err != nil {
		return 0, fmt.Errorf("expected %s: %w", key, err)
	}
	k, v, ok := keyValue(line)
	if !ok || k != key {
		return 0, fmt.Errorf("line %d: expected %s=, got [%s]", lr.lineNo, key, line)
	}
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return 0, fmt.Errorf("line %d: missing value for %s", lr.lineNo, key)
	}
	if num, err = strconv.Atoi(fields[0]); err != nil {
		return 0, fmt.Errorf("line %d: unable to read number from [%s]", lr.lineNo, v)
	}
	if num < 0 {
		return 0, fmt.Errorf("line %d: negative count %d for %s", lr.lineNo, num, key)
	}
	return
}

// readElementLine parses "<type> v0 v1 ... [index]"
func (lr *lineReader) readElementLine(nv int) (kind buffer.Kind, nodes []int, err error) {
	var line string
	if line, err = lr.next(); err != nil {
		return
	}
	fields := strings.Fields(line)
	var et int
	if et, err = strconv.Atoi(fields[0]); err != nil {
		err = fmt.Errorf("line %d: invalid element type: %v", lr.lineNo, err)
		return
	}
	var ok bool
	if kind, ok = su2ElementKindMap[ElementType(et)]; !ok {
		err = fmt.Errorf("line %d: unknown element type: %d", lr.lineNo, et)
		return
	}
	nn := kind.GetNumNodes()
	if len(fields) < nn+1 {
		err = fmt.Errorf("line %d: element type %d expects %d nodes, got %d fields",
			lr.lineNo, et, nn, len(fields)-1)
		return
	}
	nodes = make([]int, nn)
	for j := range nodes {
		if nodes[j], err = strconv.Atoi(fields[1+j]); err != nil {
			err = fmt.Errorf("line %d: invalid node index: %v", lr.lineNo, err)
			return
		}
		if nv >= 0 && (nodes[j] < 0 || nodes[j] >= nv) {
			err = fmt.Errorf("line %d: node index %d out of range [0,%d)", lr.lineNo, nodes[j], nv)
			return
		}
	}
	return
}

// ReadMesh fills b from an SU2 mesh file
func ReadMesh(path string, b *amgio.Buffers) (err error) {
	var file *os.File
	if file, err = os.Open(path); err != nil {
		return
	}
	defer file.Close()
	if err = readMesh(file, b); err != nil {
		return fmt.Errorf("su2: %s: %w", path, err)
	}
	return
}

type element struct {
	kind  buffer.Kind
	nodes []int
	ref   int
}

func readMesh(r io.Reader, b *amgio.Buffers) (err error) {
	var (
		lr      = &lineReader{scanner: bufio.NewScanner(r)}
		ndime   int
		elems   []element
		markers []string
	)
	lr.scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	if ndime, err = lr.readNumber("NDIME"); err != nil {
		return
	}
	if ndime != 2 && ndime != 3 {
		return fmt.Errorf("unsupported dimension: NDIME=%d", ndime)
	}
	markers = []string{strconv.Itoa(ndime)}

	// Element and point sections can come in either order, node ids are
	// checked once both are known
	var (
		nelem, npoin   = -1, -1
		verts          []float64
		sectionsNeeded = 2
	)
	for sectionsNeeded > 0 {
		var line string
		if line, err = lr.next(); err != nil {
			return
		}
		key, v, ok := keyValue(line)
		if !ok {
			return fmt.Errorf("line %d: badly formed input line [%s], should have an =", lr.lineNo, line)
		}
		fields := strings.Fields(v)
		if len(fields) == 0 {
			return fmt.Errorf("line %d: missing value for %s", lr.lineNo, key)
		}
		var n int
		if n, err = strconv.Atoi(fields[0]); err != nil || n < 0 {
			return fmt.Errorf("line %d: unable to read count from [%s]", lr.lineNo, v)
		}
		switch key {
		case "NELEM":
			nelem = n
			elems = make([]element, 0, nelem)
			for i := 0; i < nelem; i++ {
				var e element
				if e.kind, e.nodes, err = lr.readElementLine(-1); err != nil {
					return
				}
				elems = append(elems, e)
			}
		case "NPOIN":
			npoin = n
			verts = make([]float64, 3*npoin)
			for i := 0; i < npoin; i++ {
				if line, err = lr.next(); err != nil {
					return fmt.Errorf("unexpected EOF reading nodes: %w", err)
				}
				fields := strings.Fields(line)
				if len(fields) < ndime {
					return fmt.Errorf("line %d: expected at least %d coordinates", lr.lineNo, ndime)
				}
				for j := 0; j < ndime; j++ {
					if verts[3*i+j], err = strconv.ParseFloat(fields[j], 64); err != nil {
						return fmt.Errorf("line %d: invalid coordinate: %v", lr.lineNo, err)
					}
				}
			}
		default:
			return fmt.Errorf("line %d: unexpected section %s", lr.lineNo, key)
		}
		sectionsNeeded--
	}
	if nelem < 0 || npoin < 0 {
		return fmt.Errorf("missing required NELEM= or NPOIN= section")
	}
	for _, e := range elems {
		for _, v := range e.nodes {
			if v >= npoin {
				return fmt.Errorf("node index %d out of range [0,%d)", v, npoin)
			}
		}
	}

	var nmark int
	if nmark, err = lr.readNumber("NMARK"); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			nmark, err = 0, nil
		} else {
			return
		}
	}
	for i := 0; i < nmark; i++ {
		var line string
		if line, err = lr.next(); err != nil {
			return fmt.Errorf("unexpected EOF reading marker %d: %w", i, err)
		}
		key, tag, ok := keyValue(line)
		if !ok || key != "MARKER_TAG" {
			return fmt.Errorf("line %d: expected MARKER_TAG=, got: %s", lr.lineNo, line)
		}
		markers = append(markers, tag)
		var nm int
		if nm, err = lr.readNumber("MARKER_ELEMS"); err != nil {
			return
		}
		for j := 0; j < nm; j++ {
			var e element
			if e.kind, e.nodes, err = lr.readElementLine(npoin); err != nil {
				return
			}
			e.ref = markerRef(tag, i+1)
			elems = append(elems, e)
		}
	}

	b.Dimension = ndime
	b.Vertices = verts
	b.Markers = markers
	for _, e := range elems {
		buf := b.Elements(e.kind)
		for _, v := range e.nodes {
			buf = append(buf, float64(v))
		}
		if e.kind.HasRef() {
			buf = append(buf, float64(e.ref))
		}
		b.SetElements(e.kind, buf)
	}
	return
}

// WriteMesh writes b as an SU2 mesh. Corners have no SU2 counterpart and
// are not written; volume element reference ids are not kept.
func WriteMesh(path string, b *amgio.Buffers) error {
	return atomic.WriteFile(path, func(w io.Writer) error {
		return writeMesh(w, b)
	})
}

func writeMesh(w io.Writer, b *amgio.Buffers) (err error) {
	var (
		dim      = b.Dimension
		volume   []element
		boundary = make(map[int][]element)
	)
	if dim != 2 && dim != 3 {
		return fmt.Errorf("su2: unsupported dimension %d", dim)
	}
	if len(b.Vertices)%3 != 0 {
		return &buffer.MalformedBufferError{Kind: buffer.Vertices.String(), Len: len(b.Vertices), Width: 3}
	}
	for _, kind := range buffer.ElementKinds {
		if kind == buffer.Corners {
			continue
		}
		var tab buffer.Table[int]
		if tab, err = buffer.ReshapeKind[int](kind, b.Elements(kind)); err != nil {
			return
		}
		nn := kind.GetNumNodes()
		for k := 0; k < tab.Len(); k++ {
			row := tab.Row(k)
			e := element{kind: kind, nodes: row[:nn], ref: row[nn]}
			if isVolume(kind, dim) {
				volume = append(volume, e)
			} else {
				boundary[e.ref] = append(boundary[e.ref], e)
			}
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "NDIME= %d\n", dim)
	fmt.Fprintf(bw, "NELEM= %d\n", len(volume))
	for k, e := range volume {
		writeElement(bw, e)
		fmt.Fprintf(bw, " %d\n", k)
	}
	nv := len(b.Vertices) / 3
	fmt.Fprintf(bw, "NPOIN= %d\n", nv)
	for i := 0; i < nv; i++ {
		for j := 0; j < dim; j++ {
			fmt.Fprintf(bw, "%s ", strconv.FormatFloat(b.Vertices[3*i+j], 'g', -1, 64))
		}
		fmt.Fprintf(bw, "%d\n", i)
	}
	refs := markerRefs(boundary, lastNamedRef(b.Markers))
	fmt.Fprintf(bw, "NMARK= %d\n", len(refs))
	for _, ref := range refs {
		fmt.Fprintf(bw, "MARKER_TAG= %s\n", markerName(b.Markers, ref))
		fmt.Fprintf(bw, "MARKER_ELEMS= %d\n", len(boundary[ref]))
		for _, e := range boundary[ref] {
			writeElement(bw, e)
			fmt.Fprintln(bw)
		}
	}
	return bw.Flush()
}

func writeElement(w io.Writer, e element) {
	fmt.Fprintf(w, "%d", kindElementType(e.kind))
	for _, v := range e.nodes {
		fmt.Fprintf(w, " %d", v)
	}
}

// markerRefs lists the refs to write as markers, in file order. Refs from 1
// to the largest used or named ref come first so that the i-th marker is ref
// i+1, with empty markers filling the gaps. Refs below 1 follow.
func markerRefs(boundary map[int][]element, named int) (refs []int) {
	var (
		maxRef = max(named, 0)
		low    []int
	)
	for ref := range boundary {
		if ref < 1 {
			low = append(low, ref)
		}
		maxRef = max(maxRef, ref)
	}
	for ref := 1; ref <= maxRef; ref++ {
		refs = append(refs, ref)
	}
	sort.Ints(low)
	return append(refs, low...)
}

// lastNamedRef is the largest ref with its own name in markers. Tags that
// stand for another ref, such as ref_0 read back from a file, do not count.
func lastNamedRef(markers []string) (last int) {
	for i := 1; i < len(markers); i++ {
		if name := strings.TrimSpace(markers[i]); name != "" && markerRef(name, i) == i {
			last = i
		}
	}
	return
}

// markerRef is the ref of the marker at position pos (1-based) with tag
func markerRef(tag string, pos int) int {
	if num, ok := strings.CutPrefix(tag, "ref_"); ok {
		if ref, err := strconv.Atoi(num); err == nil {
			return ref
		}
	}
	return pos
}

func markerName(markers []string, ref int) string {
	if ref >= 1 && ref < len(markers) {
		if name := strings.TrimSpace(markers[ref]); name != "" {
			return name
		}
	}
	return fmt.Sprintf("ref_%d", ref)
}
