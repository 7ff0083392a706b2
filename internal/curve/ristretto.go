package curve

import (
	"github.com/subzero-labs/go-schnorrkel/internal/field"
	"github.com/subzero-labs/go-schnorrkel/internal/scalar"
)

// RistrettoPoint is an element of the Ristretto255 prime-order group: an
// equivalence class of ExtendedPoint values under the curve's cofactor-4
// torsion subgroup. Arithmetic on RistrettoPoint is exactly the underlying
// curve arithmetic; only encoding (Compress/Decompress) and equality treat
// the torsion coset specially.
type RistrettoPoint struct {
	inner ExtendedPoint
}

// CompressedRistretto is the 32-byte canonical encoding of a RistrettoPoint.
type CompressedRistretto [32]byte

// RistrettoIdentity returns the group identity.
func RistrettoIdentity() RistrettoPoint {
	return RistrettoPoint{inner: Identity()}
}

// RistrettoBasepoint returns the standard Ristretto255 generator.
func RistrettoBasepoint() RistrettoPoint {
	return RistrettoPoint{inner: Basepoint()}
}

// Add returns p + q.
func (p RistrettoPoint) Add(q RistrettoPoint) RistrettoPoint {
	return RistrettoPoint{inner: p.inner.Add(q.inner)}
}

// Sub returns p - q.
func (p RistrettoPoint) Sub(q RistrettoPoint) RistrettoPoint {
	return RistrettoPoint{inner: p.inner.Sub(q.inner)}
}

// Negate returns -p.
func (p RistrettoPoint) Negate() RistrettoPoint {
	return RistrettoPoint{inner: p.inner.Negate()}
}

// Double returns p + p.
func (p RistrettoPoint) Double() RistrettoPoint {
	return RistrettoPoint{inner: p.inner.Double()}
}

// ScalarMul returns s*p.
func (p RistrettoPoint) ScalarMul(s scalar.Scalar) RistrettoPoint {
	return RistrettoPoint{inner: ScalarMul(s, p.inner)}
}

// RistrettoScalarMulBase returns s*B, where B is the Ristretto basepoint,
// computed via the constant-time basepoint comb. Callers multiplying a
// secret scalar by the basepoint (a signing nonce, a secret key) must use
// this rather than RistrettoBasepoint().ScalarMul(s).
func RistrettoScalarMulBase(s scalar.Scalar) RistrettoPoint {
	return RistrettoPoint{inner: EdwardsScalarMulBase(s)}
}

// DoubleScalarMulVartime returns a*A + b*B, variable-time in both scalars.
func DoubleScalarMulVartime(a scalar.Scalar, A RistrettoPoint, b scalar.Scalar, B RistrettoPoint) RistrettoPoint {
	return RistrettoPoint{inner: EdwardsDoubleScalarMulVartime(a, A.inner, b, B.inner)}
}

// Equal reports whether p and q represent the same Ristretto element. Two
// extended-coordinate representatives denote the same Ristretto point
// exactly when X1*Y2 == Y1*X2 or Y1*Y2 == X1*X2 — the two ways two points in
// the same torsion coset can relate to each other.
func (p RistrettoPoint) Equal(q RistrettoPoint) bool {
	x1y2 := field.Mul(p.inner.X, q.inner.Y)
	y1x2 := field.Mul(p.inner.Y, q.inner.X)
	y1y2 := field.Mul(p.inner.Y, q.inner.Y)
	x1x2 := field.Mul(p.inner.X, q.inner.X)
	return field.Equal(x1y2, y1x2) || field.Equal(y1y2, x1x2)
}

// Compress returns p's canonical 32-byte encoding.
func (p RistrettoPoint) Compress() CompressedRistretto {
	x, y, z, t := p.inner.X, p.inner.Y, p.inner.Z, p.inner.T

	u1 := field.Mul(field.Add(z, y), field.Sub(z, y))
	u2 := field.Mul(x, y)
	_, invsqrt := field.SqrtRatio(field.One(), field.Mul(u1, field.Square(u2)))

	i1 := field.Mul(invsqrt, u1)
	i2 := field.Mul(invsqrt, u2)
	zInv := field.Mul(i1, field.Mul(i2, t))
	denInv := i2

	ix := field.Mul(x, field.SqrtMinusOne)
	iy := field.Mul(y, field.SqrtMinusOne)
	enchantedDenom := field.Mul(i1, invsqrtAMinusD)

	rotate := field.IsNegative(field.Mul(t, zInv))

	x = field.Select(x, iy, rotate)
	y = field.Select(y, ix, rotate)
	denInv = field.Select(denInv, enchantedDenom, rotate)

	y = field.ConditionalNegate(y, field.IsNegative(field.Mul(x, zInv)))

	s := field.Mul(denInv, field.Sub(z, y))
	s = field.ConditionalNegate(s, field.IsNegative(s))

	return CompressedRistretto(s.Bytes())
}

// Decompress decodes a compressed Ristretto point. It reports false if the
// encoding is malformed: non-canonical, negative, or not a valid point.
func Decompress(enc CompressedRistretto) (RistrettoPoint, bool) {
	raw := [32]byte(enc)
	s := field.FromBytes(&raw)

	// The encoding must be the canonical (fully reduced) representative of
	// s, and s itself must be nonnegative.
	if reencoded := s.Bytes(); reencoded != raw {
		return RistrettoPoint{}, false
	}
	if field.IsNegative(s) {
		return RistrettoPoint{}, false
	}

	one := field.One()
	ss := field.Square(s)
	u1 := field.Sub(one, ss)
	u2 := field.Add(one, ss)
	u2Sq := field.Square(u2)

	v := field.Sub(field.Negate(field.Mul(edwardsD, field.Square(u1))), u2Sq)

	ok, invsqrt := field.SqrtRatio(field.One(), field.Mul(v, u2Sq))
	if !ok {
		return RistrettoPoint{}, false
	}

	dx := field.Mul(invsqrt, u2)
	dy := field.Mul(invsqrt, field.Mul(dx, v))

	x := field.Mul(field.Add(s, s), dx)
	x = field.ConditionalNegate(x, field.IsNegative(x))

	y := field.Mul(u1, dy)
	t := field.Mul(x, y)

	if field.IsNegative(t) || field.IsZero(y) {
		return RistrettoPoint{}, false
	}

	return RistrettoPoint{inner: ExtendedPoint{X: x, Y: y, Z: one, T: t}}, true
}

