package buffer

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Number is the set of element types a Table can hold
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Table is a dense row-major 2D table with a fixed row width
type Table[T Number] struct {
	rows, cols int
	data       []T
}

func NewTable[T Number](nr, nc int, dataO ...[]T) (R Table[T]) {
	if nr < 0 || nc < 0 {
		panic(fmt.Errorf("negative table dimensions: nr, nc = %v, %v", nr, nc))
	}
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewTable nr,nc = %v,%v, len(data[0]) = %v",
				nr, nc, len(dataO[0]))
			panic(err)
		}
		return Table[T]{rows: nr, cols: nc, data: dataO[0]}
	}
	return Table[T]{rows: nr, cols: nc, data: make([]T, nr*nc)}
}

// NewTableFromRows copies equal-length rows into a table
func NewTableFromRows[T Number](rows [][]T) (R Table[T], err error) {
	if len(rows) == 0 {
		return
	}
	nc := len(rows[0])
	data := make([]T, 0, len(rows)*nc)
	for i, row := range rows {
		if len(row) != nc {
			err = fmt.Errorf("row %d has %d columns, expected %d", i, len(row), nc)
			return
		}
		data = append(data, row...)
	}
	R = NewTable(len(rows), nc, data)
	return
}

func (t Table[T]) Dims() (r, c int) { return t.rows, t.cols }
func (t Table[T]) Len() int         { return t.rows }
func (t Table[T]) IsEmpty() bool    { return t.rows == 0 }

// Data returns the backing row-major storage
func (t Table[T]) Data() []T { return t.data }

func (t Table[T]) At(i, j int) T {
	t.checkBounds(i, j)
	return t.data[i*t.cols+j]
}

func (t Table[T]) Set(i, j int, val T) {
	t.checkBounds(i, j)
	t.data[i*t.cols+j] = val
}

// Row returns a view of row i; writes go to the table
func (t Table[T]) Row(i int) []T {
	t.checkBounds(i, 0)
	return t.data[i*t.cols : (i+1)*t.cols : (i+1)*t.cols]
}

func (t Table[T]) Copy() (R Table[T]) {
	data := make([]T, len(t.data))
	copy(data, t.data)
	return Table[T]{rows: t.rows, cols: t.cols, data: data}
}

// SwapColumns exchanges columns a and b in every row
func (t Table[T]) SwapColumns(a, b int) {
	if a < 0 || b < 0 || a >= t.cols || b >= t.cols {
		panic(fmt.Errorf("column index out of bounds: a, b = %d, %d, ncols = %d", a, b, t.cols))
	}
	for i := 0; i < t.rows; i++ {
		row := t.data[i*t.cols:]
		row[a], row[b] = row[b], row[a]
	}
}

// Flatten returns the table as a flat sequence in row-major order
func (t Table[T]) Flatten() (buf []float64) {
	buf = make([]float64, len(t.data))
	for i, val := range t.data {
		buf[i] = float64(val)
	}
	return
}

func (t Table[T]) checkBounds(i, j int) {
	if i < 0 || i >= t.rows || j < 0 || j >= t.cols {
		panic(fmt.Errorf("index out of bounds: i, j = %d, %d, dims = %d x %d", i, j, t.rows, t.cols))
	}
}

// Reshape converts a flat row-major buffer into a table of rows of the
// given width. Values are converted to T, so integer targets truncate
// toward zero.
func Reshape[T Number](buf []float64, width int) (R Table[T], err error) {
	if len(buf) == 0 {
		if width < 0 {
			width = 0
		}
		return NewTable[T](0, width), nil
	}
	if width <= 0 || len(buf)%width != 0 {
		err = &MalformedBufferError{Len: len(buf), Width: width}
		return
	}
	nr := len(buf) / width
	data := make([]T, len(buf))
	for i, val := range buf {
		data[i] = T(val)
	}
	R = NewTable(nr, width, data)
	return
}

// ReshapeKind reshapes buf using the fixed schema width of kind
func ReshapeKind[T Number](kind Kind, buf []float64) (R Table[T], err error) {
	if R, err = Reshape[T](buf, kind.Width()); err != nil {
		if mb, ok := err.(*MalformedBufferError); ok {
			mb.Kind = kind.String()
		}
	}
	return
}

// Dense wraps a float table as a gonum matrix sharing its storage
func Dense(t Table[float64]) *mat.Dense {
	if t.rows == 0 || t.cols == 0 {
		return nil
	}
	return mat.NewDense(t.rows, t.cols, t.data)
}

// FromDense copies a gonum matrix into a float table
func FromDense(M mat.Matrix) (R Table[float64]) {
	if M == nil {
		return
	}
	nr, nc := M.Dims()
	R = NewTable[float64](nr, nc)
	if d, ok := M.(*mat.Dense); ok {
		for i := 0; i < nr; i++ {
			copy(R.Row(i), d.RawRowView(i))
		}
		return
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			R.Set(i, j, M.At(i, j))
		}
	}
	return
}
