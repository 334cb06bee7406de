package engine

import (
	"strings"

	"github.com/pkg/errors"
)

// ============================================================
// Matrix: symbolic matrix
// ============================================================

type Matrix struct {
	rows, cols int
	data       [][]Expr
}

func NewMatrix(rows, cols int) *Matrix {
	data := make([][]Expr, rows)
	for i := range data {
		data[i] = make([]Expr, cols)
		for j := range data[i] {
			data[i][j] = N(0)
		}
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

// MatrixFromSlice fills a rows x cols matrix in row-major order. Missing
// entries are zero.
func MatrixFromSlice(rows, cols int, entries []Expr) *Matrix {
	m := NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if k := i*cols + j; k < len(entries) {
				m.data[i][j] = entries[k]
			}
		}
	}
	return m
}

// MatrixFromRows builds a matrix from equal length rows.
func MatrixFromRows(rows [][]Expr) (*Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	cols := len(rows[0])
	entries := make([]Expr, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, errors.Errorf("matrix row %d has %d entries, want %d", i, len(r), cols)
		}
		entries = append(entries, r...)
	}
	return MatrixFromSlice(len(rows), cols, entries), nil
}

// ColumnVector is the n x 1 matrix of items.
func ColumnVector(items ...Expr) *Matrix { return MatrixFromSlice(len(items), 1, items) }

func (m *Matrix) Get(row, col int) (Expr, error) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return nil, errors.Errorf("matrix index out of range [%d,%d] for %dx%d", row, col, m.rows, m.cols)
	}
	return m.data[row][col], nil
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) Row(i int) []Expr { return append([]Expr(nil), m.data[i]...) }

func (m *Matrix) Args() []Expr {
	out := make([]Expr, 0, m.rows*m.cols)
	for _, r := range m.data {
		out = append(out, r...)
	}
	return out
}

func (m *Matrix) Classes() []string {
	return []string{"MutableDenseMatrix", "DenseMatrix", "RepMatrix", "MatrixBase"}
}

func (m *Matrix) Equal(other Expr) bool {
	o, ok := other.(*Matrix)
	return ok && m.rows == o.rows && m.cols == o.cols && equalAll(m.Args(), o.Args())
}

func (m *Matrix) Doit() Expr { return m.apply(func(e Expr) Expr { return e.Doit() }) }

func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("Matrix([")
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("[" + joinStrings(m.data[i], ", ") + "]")
	}
	sb.WriteString("])")
	return sb.String()
}

func (m *Matrix) LaTeX() string {
	var sb strings.Builder
	sb.WriteString(`\left[\begin{matrix}`)
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(`\\`)
		}
		sb.WriteString(joinLaTeX(m.data[i], " & "))
	}
	sb.WriteString(`\end{matrix}\right]`)
	return sb.String()
}

func (m *Matrix) apply(f func(Expr) Expr) *Matrix {
	result := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			result.data[i][j] = f(m.data[i][j])
		}
	}
	return result
}

func (m *Matrix) MatAdd(other *Matrix) (*Matrix, error) {
	if m.rows != other.rows || m.cols != other.cols {
		return nil, errors.Errorf("matrix dimension mismatch %dx%d + %dx%d", m.rows, m.cols, other.rows, other.cols)
	}
	result := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			result.data[i][j] = AddOf(m.data[i][j], other.data[i][j])
		}
	}
	return result, nil
}

func (m *Matrix) MatMul(other *Matrix) (*Matrix, error) {
	if m.cols != other.rows {
		return nil, errors.Errorf("matrix dimension mismatch %dx%d * %dx%d", m.rows, m.cols, other.rows, other.cols)
	}
	result := NewMatrix(m.rows, other.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < other.cols; j++ {
			terms := make([]Expr, m.cols)
			for k := 0; k < m.cols; k++ {
				terms[k] = MulOf(m.data[i][k], other.data[k][j])
			}
			result.data[i][j] = AddOf(terms...)
		}
	}
	return result, nil
}

func (m *Matrix) Scale(scalar Expr) *Matrix {
	return m.apply(func(e Expr) Expr { return MulOf(scalar, e) })
}

// IntPow raises a square matrix to an integer power, inverting for
// negative exponents.
func (m *Matrix) IntPow(n *Num) (Expr, error) {
	e, ok := n.Int64()
	if !ok || m.rows != m.cols {
		return nil, errors.New("matrix power needs a square matrix and an integer exponent")
	}
	base := m
	if e < 0 {
		inv, err := m.Inverse()
		if err != nil {
			return nil, err
		}
		base, e = inv, -e
	}
	result := Identity(m.rows)
	for i := int64(0); i < e; i++ {
		next, err := result.MatMul(base)
		if err != nil {
			return nil, err
		}
		result = next
	}
	return result, nil
}

func (m *Matrix) Transpose() *Matrix {
	result := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			result.data[j][i] = m.data[i][j]
		}
	}
	return result
}

func (m *Matrix) Trace() (Expr, error) {
	if m.rows != m.cols {
		return nil, errors.New("trace requires a square matrix")
	}
	terms := make([]Expr, m.rows)
	for i := 0; i < m.rows; i++ {
		terms[i] = m.data[i][i]
	}
	return AddOf(terms...), nil
}

func (m *Matrix) Det() (Expr, error) {
	if m.rows != m.cols {
		return nil, errors.New("determinant requires a square matrix")
	}
	if m.rows == 0 {
		return N(1), nil
	}
	return matDet(m.data, m.rows), nil
}

func matDet(data [][]Expr, n int) Expr {
	if n == 1 {
		return data[0][0]
	}
	if n == 2 {
		return AddOf(
			MulOf(data[0][0], data[1][1]),
			MulOf(N(-1), data[0][1], data[1][0]),
		)
	}
	terms := make([]Expr, n)
	for j := 0; j < n; j++ {
		sign := N(1)
		if j%2 == 1 {
			sign = N(-1)
		}
		terms[j] = MulOf(sign, data[0][j], matDet(makeMinor(data, n, 0, j), n-1))
	}
	return Expand(AddOf(terms...))
}

func makeMinor(data [][]Expr, n, skipRow, skipCol int) [][]Expr {
	minor := make([][]Expr, 0, n-1)
	for i := 0; i < n; i++ {
		if i == skipRow {
			continue
		}
		row := make([]Expr, 0, n-1)
		for j := 0; j < n; j++ {
			if j != skipCol {
				row = append(row, data[i][j])
			}
		}
		minor = append(minor, row)
	}
	return minor
}

func (m *Matrix) Inverse() (*Matrix, error) {
	det, err := m.Det()
	if err != nil {
		return nil, err
	}
	if isZero(det) {
		return nil, errors.New("matrix is singular")
	}
	n := m.rows
	cof := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sign := N(1)
			if (i+j)%2 == 1 {
				sign = N(-1)
			}
			if n == 1 {
				cof.data[i][j] = N(1)
				continue
			}
			cof.data[i][j] = MulOf(sign, matDet(makeMinor(m.data, n, i, j), n-1))
		}
	}
	return cof.Transpose().Scale(PowOf(det, N(-1))), nil
}

func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i][i] = N(1)
	}
	return m
}

// Ones is the rows x cols matrix of ones.
func Ones(rows, cols int) *Matrix {
	return NewMatrix(rows, cols).apply(func(Expr) Expr { return N(1) })
}

// Diag places items on the diagonal of a square matrix.
func Diag(items ...Expr) *Matrix {
	m := NewMatrix(len(items), len(items))
	for i, e := range items {
		m.data[i][i] = e
	}
	return m
}
