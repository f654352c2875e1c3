// Package meshb reads and writes meshes (.meshb) and vertex solutions
// (.solb) in a little-endian keyword-block binary layout.
//
// The layout is libMeshb version 3: a file starts with the int32 magic 1
// and the int32 version 3. Each block is an int32 keyword, the int64
// absolute offset of the next block, and the keyword payload. Record counts,
// vertex ids and refs are int32, reals are float64. Vertex ids are 1-based
// on disk. Marker and solution tag strings live in two private keywords.
package meshb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/notargets/gocfd-amg/amgio"
	"github.com/notargets/gocfd-amg/buffer"
	"github.com/notargets/gocfd-amg/meshio/atomic"
)

type Keyword int32

const (
	KwdDimension      Keyword = 3
	KwdVertices       Keyword = 4
	KwdEdges          Keyword = 5
	KwdTriangles      Keyword = 6
	KwdQuadrilaterals Keyword = 7
	KwdTetrahedra     Keyword = 8
	KwdPrisms         Keyword = 9
	KwdHexahedra      Keyword = 10
	KwdCorners        Keyword = 13
	KwdPyramids       Keyword = 49
	KwdEnd            Keyword = 54
	KwdSolAtVertices  Keyword = 62
	KwdMarkerStrings  Keyword = 200
	KwdSolutionTags   Keyword = 201
)

const (
	magic   int32 = 1
	version int32 = 3
)

// Solution field types of a SolAtVertices block
const (
	SolScalar int32 = 1
	SolVector int32 = 2
	SolSymMat int32 = 3
	SolMatrix int32 = 4
)

var elementKeywords = map[buffer.Kind]Keyword{
	buffer.Corners:        KwdCorners,
	buffer.Edges:          KwdEdges,
	buffer.Triangles:      KwdTriangles,
	buffer.Quadrilaterals: KwdQuadrilaterals,
	buffer.Tetrahedra:     KwdTetrahedra,
	buffer.Pyramids:       KwdPyramids,
	buffer.Prisms:         KwdPrisms,
	buffer.Hexahedra:      KwdHexahedra,
}

var le = binary.LittleEndian

// ReadMesh fills b with the vertices, elements and markers of a .meshb file
func ReadMesh(path string, b *amgio.Buffers) (err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	return decode(data, b, false)
}

// ReadSolution fills the solution buffers of b from a .solb file
func ReadSolution(path string, b *amgio.Buffers) (err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	return decode(data, b, true)
}

// WriteMesh writes the mesh buffers of b to a .meshb file
func WriteMesh(path string, b *amgio.Buffers) error {
	return atomic.WriteFile(path, func(w io.Writer) error {
		return encodeMesh(w, b)
	})
}

// WriteSolution writes the solution buffers of b as scalar fields to a
// .solb file
func WriteSolution(path string, b *amgio.Buffers) error {
	return atomic.WriteFile(path, func(w io.Writer) error {
		return encodeSolution(w, b)
	})
}

type blockWriter struct {
	out     bytes.Buffer
	payload bytes.Buffer
}

func newBlockWriter() *blockWriter {
	bw := &blockWriter{}
	binary.Write(&bw.out, le, magic)
	binary.Write(&bw.out, le, version)
	return bw
}

func (bw *blockWriter) put(vals ...any) {
	for _, v := range vals {
		binary.Write(&bw.payload, le, v)
	}
}

func (bw *blockWriter) putStrings(strs []string) {
	bw.put(int32(len(strs)))
	for _, s := range strs {
		bw.put(int32(len(s)))
		bw.payload.WriteString(s)
	}
}

// flush emits the pending payload as a block of keyword kwd
func (bw *blockWriter) flush(kwd Keyword) {
	next := int64(bw.out.Len()) + 4 + 8 + int64(bw.payload.Len())
	if kwd == KwdEnd {
		next = 0
	}
	binary.Write(&bw.out, le, int32(kwd))
	binary.Write(&bw.out, le, next)
	bw.payload.WriteTo(&bw.out)
	bw.payload.Reset()
}

func (bw *blockWriter) finish(w io.Writer) (err error) {
	bw.flush(KwdEnd)
	_, err = bw.out.WriteTo(w)
	return
}

func encodeMesh(w io.Writer, b *amgio.Buffers) (err error) {
	var (
		dim = b.Dimension
		bw  = newBlockWriter()
	)
	if dim != 2 && dim != 3 {
		return fmt.Errorf("meshb: unsupported dimension %d", dim)
	}
	if len(b.Vertices)%3 != 0 {
		return &buffer.MalformedBufferError{Kind: buffer.Vertices.String(), Len: len(b.Vertices), Width: 3}
	}
	bw.put(int32(dim))
	bw.flush(KwdDimension)

	nv := len(b.Vertices) / 3
	bw.put(int32(nv))
	for i := 0; i < nv; i++ {
		bw.put(b.Vertices[3*i : 3*i+dim])
		bw.put(int32(0))
	}
	bw.flush(KwdVertices)

	for _, kind := range buffer.ElementKinds {
		buf := b.Elements(kind)
		if len(buf) == 0 {
			continue
		}
		width := kind.Width()
		if len(buf)%width != 0 {
			return &buffer.MalformedBufferError{Kind: kind.String(), Len: len(buf), Width: width}
		}
		ne := len(buf) / width
		nn := kind.GetNumNodes()
		bw.put(int32(ne))
		for k := 0; k < ne; k++ {
			row := buf[k*width : (k+1)*width]
			for j, val := range row {
				if j < nn {
					val++ // 1-based vertex ids on disk
				}
				bw.put(int32(val))
			}
		}
		bw.flush(elementKeywords[kind])
	}

	if len(b.Markers) != 0 {
		bw.putStrings(b.Markers)
		bw.flush(KwdMarkerStrings)
	}
	return bw.finish(w)
}

func encodeSolution(w io.Writer, b *amgio.Buffers) (err error) {
	var (
		dim = b.Dimension
		nf  = len(b.SolutionTag)
		bw  = newBlockWriter()
	)
	if dim != 2 && dim != 3 {
		return fmt.Errorf("meshb: unsupported dimension %d", dim)
	}
	if nf == 0 || len(b.Solution)%nf != 0 {
		return &buffer.MalformedBufferError{Kind: buffer.Solution.String(), Len: len(b.Solution), Width: nf}
	}
	bw.put(int32(dim))
	bw.flush(KwdDimension)

	nv := len(b.Solution) / nf
	bw.put(int32(nv), int32(nf))
	for j := 0; j < nf; j++ {
		bw.put(SolScalar)
	}
	bw.put(b.Solution)
	bw.flush(KwdSolAtVertices)

	bw.putStrings(b.SolutionTag)
	bw.flush(KwdSolutionTags)
	return bw.finish(w)
}

type blockReader struct {
	r *bytes.Reader
}

func (br *blockReader) get(vals ...any) (err error) {
	for _, v := range vals {
		if err = binary.Read(br.r, le, v); err != nil {
			return fmt.Errorf("meshb: truncated block: %w", err)
		}
	}
	return
}

// count reads an int32 record count and checks that count records of
// recSize bytes fit in what is left of the file
func (br *blockReader) count(recSize int) (n int, err error) {
	var n32 int32
	if err = br.get(&n32); err != nil {
		return
	}
	if n32 < 0 || (recSize > 0 && int(n32) > br.r.Len()/recSize) {
		err = fmt.Errorf("meshb: record count %d exceeds file size", n32)
		return
	}
	n = int(n32)
	return
}

func (br *blockReader) getStrings() (strs []string, err error) {
	var n int
	if n, err = br.count(4); err != nil {
		return
	}
	strs = make([]string, n)
	for i := range strs {
		var l int32
		if err = br.get(&l); err != nil {
			return
		}
		if l < 0 || int(l) > br.r.Len() {
			err = fmt.Errorf("meshb: string length %d exceeds file size", l)
			return
		}
		s := make([]byte, l)
		if _, err = io.ReadFull(br.r, s); err != nil {
			return
		}
		strs[i] = string(s)
	}
	return
}

func decode(data []byte, b *amgio.Buffers, solution bool) (err error) {
	var (
		br       = &blockReader{r: bytes.NewReader(data)}
		hdr      [2]int32
		dim      int32
		tags     []string
		markers  []string
		solWidth int
		haveSol  bool
		keywords = make(map[Keyword]buffer.Kind, len(elementKeywords))
	)
	for kind, kwd := range elementKeywords {
		keywords[kwd] = kind
	}
	if err = br.get(&hdr); err != nil {
		return
	}
	if hdr[0] != magic {
		return fmt.Errorf("meshb: bad magic number %d", hdr[0])
	}
	if hdr[1] != version {
		return fmt.Errorf("meshb: unsupported version %d", hdr[1])
	}
	for {
		var (
			kwd  int32
			next int64
		)
		if err = br.get(&kwd, &next); err != nil {
			return
		}
		if Keyword(kwd) == KwdEnd {
			break
		}
		switch k := Keyword(kwd); {
		case k == KwdDimension:
			if err = br.get(&dim); err != nil {
				return
			}
			if dim != 2 && dim != 3 {
				return fmt.Errorf("meshb: unsupported dimension %d", dim)
			}
		case k == KwdVertices && !solution:
			if b.Vertices, err = readVertices(br, int(dim)); err != nil {
				return
			}
		case k == KwdMarkerStrings && !solution:
			if markers, err = br.getStrings(); err != nil {
				return
			}
		case k == KwdSolAtVertices && solution:
			if b.Solution, solWidth, err = readSolution(br, int(dim)); err != nil {
				return
			}
			haveSol = true
		case k == KwdSolutionTags && solution:
			if tags, err = br.getStrings(); err != nil {
				return
			}
		default:
			if kind, ok := keywords[k]; ok && !solution {
				var buf []float64
				if buf, err = readElements(br, kind); err != nil {
					return
				}
				b.SetElements(kind, buf)
				break
			}
			// Unknown or unwanted keyword
			if next <= 0 || next > int64(len(data)) {
				return fmt.Errorf("meshb: bad block offset %d for keyword %d", next, kwd)
			}
			if _, err = br.r.Seek(next, io.SeekStart); err != nil {
				return
			}
		}
	}
	if dim == 0 {
		return fmt.Errorf("meshb: missing Dimension block")
	}
	b.Dimension = int(dim)
	if solution {
		if !haveSol {
			return fmt.Errorf("meshb: missing SolAtVertices block")
		}
		b.SolutionTag = tags
		if len(tags) == 0 {
			b.SolutionTag = defaultTags(solWidth)
		}
		return
	}
	if len(markers) == 0 {
		markers = []string{fmt.Sprint(dim)}
	}
	b.Markers = markers
	return
}

func readVertices(br *blockReader, dim int) (verts []float64, err error) {
	if dim == 0 {
		return nil, fmt.Errorf("meshb: Vertices block before Dimension block")
	}
	var nv int
	if nv, err = br.count(8*dim + 4); err != nil {
		return
	}
	verts = make([]float64, 3*nv)
	coords := make([]float64, dim)
	var ref int32
	for i := 0; i < nv; i++ {
		if err = br.get(coords, &ref); err != nil {
			return
		}
		copy(verts[3*i:], coords)
	}
	return
}

func readElements(br *blockReader, kind buffer.Kind) (buf []float64, err error) {
	var (
		width = kind.Width()
		nn    = kind.GetNumNodes()
		ne    int
	)
	if ne, err = br.count(4 * width); err != nil {
		return
	}
	row := make([]int32, width)
	buf = make([]float64, ne*width)
	for k := 0; k < ne; k++ {
		if err = br.get(row); err != nil {
			return
		}
		for j, val := range row {
			if j < nn {
				val-- // 0-based in memory
			}
			buf[k*width+j] = float64(val)
		}
	}
	return
}

func readSolution(br *blockReader, dim int) (sol []float64, width int, err error) {
	if dim == 0 {
		err = fmt.Errorf("meshb: SolAtVertices block before Dimension block")
		return
	}
	var (
		nv, ntypes int
		nt         int32
	)
	if nv, err = br.count(0); err != nil {
		return
	}
	if err = br.get(&nt); err != nil {
		return
	}
	if nt <= 0 || int(nt) > br.r.Len()/4 {
		err = fmt.Errorf("meshb: bad solution type count %d", nt)
		return
	}
	ntypes = int(nt)
	types := make([]int32, ntypes)
	if err = br.get(types); err != nil {
		return
	}
	for _, typ := range types {
		var size int
		if size, err = typeSize(typ, dim); err != nil {
			return
		}
		width += size
	}
	if nv > br.r.Len()/(8*width) {
		err = fmt.Errorf("meshb: solution of %d vertices exceeds file size", nv)
		return
	}
	sol = make([]float64, nv*width)
	if err = br.get(sol); err != nil {
		return
	}
	return
}

func typeSize(typ int32, dim int) (size int, err error) {
	switch typ {
	case SolScalar:
		size = 1
	case SolVector:
		size = dim
	case SolSymMat:
		size = dim * (dim + 1) / 2
	case SolMatrix:
		size = dim * dim
	default:
		err = fmt.Errorf("meshb: unknown solution type %d", typ)
	}
	return
}

// defaultTags names the columns of a solution stored without tags
func defaultTags(width int) (tags []string) {
	tags = make([]string, width)
	for i := range tags {
		tags[i] = fmt.Sprintf("Field%d", i)
	}
	return
}
