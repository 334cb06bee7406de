package engine_test

import (
	"testing"

	"github.com/njchilds90/gosympad/engine"
)

func mat2(a, b, c, d int64) *engine.Matrix {
	return engine.MatrixFromSlice(2, 2, []engine.Expr{engine.N(a), engine.N(b), engine.N(c), engine.N(d)})
}

// ============================================================
// Matrix tests
// ============================================================

func TestMatrix_String(t *testing.T) {
	m := mat2(1, 2, 3, 4)
	if m.String() != "Matrix([[1, 2], [3, 4]])" {
		t.Errorf("unexpected string %s", m)
	}
	if m.LaTeX() != `\left[\begin{matrix}1 & 2\\3 & 4\end{matrix}\right]` {
		t.Errorf("unexpected latex %s", m.LaTeX())
	}
}

func TestMatrix_FromRows(t *testing.T) {
	m, err := engine.MatrixFromRows([][]engine.Expr{{x, y}, {y, x}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Rows() != 2 || m.Cols() != 2 {
		t.Errorf("want 2x2, got %dx%d", m.Rows(), m.Cols())
	}
	if _, err := engine.MatrixFromRows([][]engine.Expr{{x, y}, {x}}); err == nil {
		t.Errorf("want error for ragged rows")
	}
}

func TestMatrix_Get(t *testing.T) {
	m := mat2(1, 2, 3, 4)
	e, err := m.Get(1, 0)
	if err != nil || e.String() != "3" {
		t.Errorf("want 3, got %v (%v)", e, err)
	}
	if _, err := m.Get(2, 0); err == nil {
		t.Errorf("want out of range error")
	}
}

func TestMatrix_Det(t *testing.T) {
	d, err := mat2(1, 2, 3, 4).Det()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "-2" {
		t.Errorf("want -2, got %s", d)
	}
}

func TestMatrix_Det3x3(t *testing.T) {
	m := engine.MatrixFromSlice(3, 3, []engine.Expr{
		engine.N(2), engine.N(0), engine.N(0),
		engine.N(0), engine.N(3), engine.N(0),
		engine.N(0), engine.N(0), engine.N(4),
	})
	d, err := m.Det()
	if err != nil || d.String() != "24" {
		t.Errorf("want 24, got %v (%v)", d, err)
	}
}

func TestMatrix_Det_NotSquare(t *testing.T) {
	if _, err := engine.NewMatrix(2, 3).Det(); err == nil {
		t.Errorf("want error for a non-square determinant")
	}
}

func TestMatrix_MatMul(t *testing.T) {
	p, err := mat2(1, 2, 3, 4).MatMul(engine.Identity(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Equal(mat2(1, 2, 3, 4)) {
		t.Errorf("A*I should be A, got %s", p)
	}
	if _, err := mat2(1, 2, 3, 4).MatMul(engine.NewMatrix(3, 1)); err == nil {
		t.Errorf("want dimension mismatch error")
	}
}

func TestMatrix_Inverse(t *testing.T) {
	inv, err := mat2(2, 0, 0, 4).Inverse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.String() != "Matrix([[1/2, 0], [0, 1/4]])" {
		t.Errorf("unexpected inverse %s", inv)
	}
	if _, err := mat2(1, 2, 2, 4).Inverse(); err == nil {
		t.Errorf("want singular matrix error")
	}
}

func TestMatrix_Transpose(t *testing.T) {
	m := engine.MatrixFromSlice(2, 3, []engine.Expr{engine.N(1), engine.N(2), engine.N(3), engine.N(4), engine.N(5), engine.N(6)})
	tr := m.Transpose()
	if tr.Rows() != 3 || tr.Cols() != 2 {
		t.Errorf("want 3x2, got %dx%d", tr.Rows(), tr.Cols())
	}
	if tr.String() != "Matrix([[1, 4], [2, 5], [3, 6]])" {
		t.Errorf("unexpected transpose %s", tr)
	}
}

func TestMatrix_Trace(t *testing.T) {
	tr, err := mat2(1, 2, 3, 4).Trace()
	if err != nil || tr.String() != "5" {
		t.Errorf("want 5, got %v (%v)", tr, err)
	}
}

func TestMatrix_ArithmeticThroughAddMul(t *testing.T) {
	sum := engine.AddOf(mat2(1, 0, 0, 1), mat2(1, 2, 3, 4))
	if sum.String() != "Matrix([[2, 2], [3, 5]])" {
		t.Errorf("unexpected sum %s", sum)
	}
	scaled := engine.MulOf(engine.N(2), mat2(1, 2, 3, 4))
	if scaled.String() != "Matrix([[2, 4], [6, 8]])" {
		t.Errorf("unexpected product %s", scaled)
	}
	sq := engine.PowOf(mat2(1, 1, 0, 1), engine.N(2))
	if sq.String() != "Matrix([[1, 2], [0, 1]])" {
		t.Errorf("unexpected power %s", sq)
	}
}

func TestMatrix_Classes(t *testing.T) {
	if got := engine.ClassName(engine.Identity(2)); got != "MutableDenseMatrix" {
		t.Errorf("want MutableDenseMatrix, got %s", got)
	}
}

func TestColumnVector(t *testing.T) {
	v := engine.ColumnVector(x, y)
	if v.Rows() != 2 || v.Cols() != 1 {
		t.Errorf("want 2x1, got %dx%d", v.Rows(), v.Cols())
	}
}

func TestDiag_Ones(t *testing.T) {
	if got := engine.Diag(x, y).String(); got != "Matrix([[x, 0], [0, y]])" {
		t.Errorf("unexpected diag %s", got)
	}
	if got := engine.Ones(1, 2).String(); got != "Matrix([[1, 1]])" {
		t.Errorf("unexpected ones %s", got)
	}
}
