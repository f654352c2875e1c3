package su2

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gocfd-amg/amgio"
	"github.com/notargets/gocfd-amg/meshio/atomic"
)

// Columns of a restart file that are not solution fields
var geometryColumns = map[string]bool{
	"PointID": true,
	"x":       true,
	"y":       true,
	"z":       true,
}

// ReadSolution fills the solution of b from an SU2 CSV restart file. Rows are
// placed by PointID when the column is present.
func ReadSolution(path string, b *amgio.Buffers) (err error) {
	var file *os.File
	if file, err = os.Open(path); err != nil {
		return
	}
	defer file.Close()
	if err = readSolution(file, b); err != nil {
		return fmt.Errorf("su2: %s: %w", path, err)
	}
	return
}

func readSolution(r io.Reader, b *amgio.Buffers) (err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	var header []string
	if header, err = cr.Read(); err != nil {
		return fmt.Errorf("unable to read header: %w", err)
	}
	var (
		idCol  = -1
		fields []int
		tags   []string
	)
	for j, name := range header {
		name = strings.TrimSpace(name)
		if name == "PointID" {
			idCol = j
		}
		if geometryColumns[name] {
			continue
		}
		fields = append(fields, j)
		tags = append(tags, name)
	}
	if len(fields) == 0 {
		return fmt.Errorf("no solution fields in header %v", header)
	}

	type record struct {
		lineNo, id int
		row        []float64
	}
	var (
		width   = len(fields)
		records []record
	)
	for lineNo := 2; ; lineNo++ {
		var rec []string
		if rec, err = cr.Read(); err == io.EOF {
			err = nil
			break
		} else if err != nil {
			return
		}
		row := make([]float64, width)
		for k, j := range fields {
			if row[k], err = strconv.ParseFloat(strings.TrimSpace(rec[j]), 64); err != nil {
				return fmt.Errorf("line %d: invalid value for %s: %v", lineNo, tags[k], err)
			}
		}
		id := len(records)
		if idCol >= 0 {
			if id, err = strconv.Atoi(strings.TrimSpace(rec[idCol])); err != nil {
				return fmt.Errorf("line %d: invalid PointID: %v", lineNo, err)
			}
		}
		records = append(records, record{lineNo: lineNo, id: id, row: row})
	}

	// PointIDs are a permutation of the row numbers
	rows := make([][]float64, len(records))
	for _, r := range records {
		if r.id < 0 || r.id >= len(rows) {
			return fmt.Errorf("line %d: PointID %d out of range [0,%d)", r.lineNo, r.id, len(rows))
		}
		if rows[r.id] != nil {
			return fmt.Errorf("line %d: duplicate PointID %d", r.lineNo, r.id)
		}
		rows[r.id] = r.row
	}
	sol := make([]float64, 0, width*len(rows))
	for _, row := range rows {
		sol = append(sol, row...)
	}
	b.Solution = sol
	b.SolutionTag = append([]string{}, tags...)
	return
}

// WriteSolution writes the solution of b as an SU2 CSV restart file. Vertex
// coordinates are written ahead of the fields when b carries vertices.
func WriteSolution(path string, b *amgio.Buffers) error {
	return atomic.WriteFile(path, func(w io.Writer) error {
		return writeSolution(w, b)
	})
}

func writeSolution(w io.Writer, b *amgio.Buffers) (err error) {
	width := len(b.SolutionTag)
	if width == 0 || len(b.Solution)%width != 0 {
		return fmt.Errorf("su2: solution of length %d does not match %d tags", len(b.Solution), width)
	}
	for _, tag := range b.SolutionTag {
		if geometryColumns[tag] {
			return fmt.Errorf("su2: solution tag %q collides with a coordinate column", tag)
		}
	}
	var (
		nv     = len(b.Solution) / width
		coords = b.Dimension
	)
	if len(b.Vertices) != 3*nv {
		coords = 0
	}
	header := []string{"PointID"}
	header = append(header, []string{"x", "y", "z"}[:coords]...)
	header = append(header, b.SolutionTag...)
	quoted := make([]string, len(header))
	for j, name := range header {
		quoted[j] = strconv.Quote(name)
	}
	if _, err = fmt.Fprintln(w, strings.Join(quoted, ",")); err != nil {
		return
	}
	cw := csv.NewWriter(w)
	rec := make([]string, len(header))
	for i := 0; i < nv; i++ {
		rec[0] = strconv.Itoa(i)
		for j := 0; j < coords; j++ {
			rec[1+j] = strconv.FormatFloat(b.Vertices[3*i+j], 'g', -1, 64)
		}
		for j := 0; j < width; j++ {
			rec[1+coords+j] = strconv.FormatFloat(b.Solution[i*width+j], 'g', -1, 64)
		}
		if err = cw.Write(rec); err != nil {
			return
		}
	}
	cw.Flush()
	return cw.Error()
}
