package curve

import (
	"testing"

	"github.com/subzero-labs/go-schnorrkel/internal/field"
)

// TestCompressDecompressRoundTrip checks that compressing and decompressing
// the basepoint and a handful of its multiples recovers an equal point.
func TestCompressDecompressRoundTrip(t *testing.T) {
	B := RistrettoBasepoint()

	points := []RistrettoPoint{
		RistrettoIdentity(),
		B,
		B.Add(B),
		B.ScalarMul(scalarFromUint64(12345)),
	}

	for i, p := range points {
		enc := p.Compress()
		got, ok := Decompress(enc)
		if !ok {
			t.Fatalf("point %d: Decompress rejected a valid encoding", i)
		}
		if !got.Equal(p) {
			t.Fatalf("point %d: round trip changed the point", i)
		}
	}
}

// TestDecompressRejectsAllOnes checks that an all-0xff encoding (far larger
// than the field modulus, hence non-canonical) is rejected.
func TestDecompressRejectsAllOnes(t *testing.T) {
	var enc CompressedRistretto
	for i := range enc {
		enc[i] = 0xff
	}
	if _, ok := Decompress(enc); ok {
		t.Fatal("Decompress accepted a non-canonical all-0xff encoding")
	}
}

// TestEqualIgnoresCofactorRepresentative checks that two different
// ExtendedPoint representatives of the same Ristretto class compare equal,
// even if their raw coordinates differ.
func TestEqualIgnoresCofactorRepresentative(t *testing.T) {
	B := RistrettoBasepoint()
	viaDouble := B.Add(B).Sub(B)
	if !viaDouble.Equal(B) {
		t.Fatal("B+B-B != B under Ristretto equality")
	}

	// Adding the 2-torsion point (0, -1) negates both affine coordinates,
	// giving a different Edwards point in the same Ristretto class.
	torsion2 := ExtendedPoint{X: field.FieldElement{}, Y: field.Negate(field.One()), Z: field.One(), T: field.FieldElement{}}
	shifted := RistrettoPoint{inner: B.inner.Add(torsion2)}
	if shifted.inner.Equal(B.inner) {
		t.Fatal("B+T2 has the same Edwards coordinates as B")
	}
	if !shifted.Equal(B) {
		t.Fatal("B+T2 != B under Ristretto equality")
	}
	if shifted.Compress() != B.Compress() {
		t.Fatal("B+T2 and B compressed to different encodings")
	}
}

// TestDistinctPointsCompressDifferently checks that two unequal points never
// collide under compression for a small sample.
func TestDistinctPointsCompressDifferently(t *testing.T) {
	B := RistrettoBasepoint()
	twoB := B.Double()

	if B.Compress() == twoB.Compress() {
		t.Fatal("distinct points produced the same compressed encoding")
	}
}

// TestScalarMulOnRistrettoMatchesEdwards checks that RistrettoPoint.ScalarMul
// agrees with the underlying ExtendedPoint ScalarMul.
func TestScalarMulOnRistrettoMatchesEdwards(t *testing.T) {
	B := RistrettoBasepoint()
	s := scalarFromUint64(777)

	got := B.ScalarMul(s)
	want := RistrettoPoint{inner: ScalarMul(s, B.inner)}

	if !got.Equal(want) {
		t.Fatal("RistrettoPoint.ScalarMul diverged from ExtendedPoint ScalarMul")
	}
}

// TestDoubleScalarMulVartimeMatchesSeparateMuls checks
// DoubleScalarMulVartime(a,A,b,B) == a*A + b*B on Ristretto points.
func TestDoubleScalarMulVartimeMatchesSeparateMuls(t *testing.T) {
	B := RistrettoBasepoint()
	A := B.ScalarMul(scalarFromUint64(4))

	a, b := scalarFromUint64(6), scalarFromUint64(10)

	got := DoubleScalarMulVartime(a, A, b, B)
	want := A.ScalarMul(a).Add(B.ScalarMul(b))

	if !got.Equal(want) {
		t.Fatal("DoubleScalarMulVartime != separately computed sum")
	}
}
