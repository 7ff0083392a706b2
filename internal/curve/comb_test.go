package curve

import (
	"testing"

	"github.com/subzero-labs/go-schnorrkel/internal/scalar"
)

// TestScalarMulBaseMatchesVartimeReference checks property 9: the
// constant-time comb's [k]*B agrees with the ordinary double-and-add
// ScalarMul against the basepoint, across scalars chosen to exercise small
// values, digit carries, and values near the group order.
func TestScalarMulBaseMatchesVartimeReference(t *testing.T) {
	B := Basepoint()

	scalars := []scalar.Scalar{
		scalar.Zero(),
		scalarFromUint64(1),
		scalarFromUint64(2),
		scalarFromUint64(8),
		scalarFromUint64(16),
		scalarFromUint64(255),
		scalarFromUint64(256),
		scalarFromUint64(65535),
		scalar.Add(scalarFromUint64(1), scalarFromUint64(1<<40)),
		scalar.Sub(scalar.Zero(), scalarFromUint64(1)), // l - 1
	}

	for i, s := range scalars {
		got := EdwardsScalarMulBase(s)
		want := ScalarMul(s, B)
		if !got.Equal(want) {
			t.Fatalf("scalar %d: EdwardsScalarMulBase(s) != ScalarMul(s, B)", i)
		}
	}
}

// TestScalarMulBaseDistributesOverAdd checks (a+b)*B == a*B + b*B through
// the comb path, the same algebraic property TestScalarMulDistributesOverAdd
// checks for the variable-time path.
func TestScalarMulBaseDistributesOverAdd(t *testing.T) {
	a := scalarFromUint64(111)
	b := scalarFromUint64(222)

	lhs := EdwardsScalarMulBase(scalar.Add(a, b))
	rhs := EdwardsScalarMulBase(a).Add(EdwardsScalarMulBase(b))

	if !lhs.Equal(rhs) {
		t.Fatal("EdwardsScalarMulBase((a+b)) != EdwardsScalarMulBase(a) + EdwardsScalarMulBase(b)")
	}
}

// TestRistrettoScalarMulBaseMatchesScalarMul checks the RistrettoPoint-level
// wrapper agrees with RistrettoPoint.ScalarMul against the basepoint.
func TestRistrettoScalarMulBaseMatchesScalarMul(t *testing.T) {
	s := scalarFromUint64(54321)

	got := RistrettoScalarMulBase(s)
	want := RistrettoBasepoint().ScalarMul(s)

	if !got.Equal(want) {
		t.Fatal("RistrettoScalarMulBase != RistrettoBasepoint().ScalarMul")
	}
}
