package curve

import (
	"github.com/subzero-labs/go-schnorrkel/internal/field"
	"github.com/subzero-labs/go-schnorrkel/internal/scalar"
)

// affineNiels is a precomputed point representation with an implicit Z=1:
// (Y+X, Y-X, 2d*X*Y). It is the table entry format the basepoint comb reads
// from; unlike projectiveNiels it carries no Z coordinate of its own.
type affineNiels struct {
	yPlusX, yMinusX, xy2d field.FieldElement
}

var identityAffineNiels = affineNiels{
	yPlusX:  field.One(),
	yMinusX: field.One(),
	xy2d:    field.FieldElement{},
}

// negate returns the affineNiels representation of -P given P's.
func (q affineNiels) negate() affineNiels {
	return affineNiels{yPlusX: q.yMinusX, yMinusX: q.yPlusX, xy2d: field.Negate(q.xy2d)}
}

// toAffineNiels returns p's affineNiels representation, normalizing p to an
// affine (Z=1) representative first.
func (p ExtendedPoint) toAffineNiels() affineNiels {
	zInv := field.Invert(p.Z)
	x := field.Mul(p.X, zInv)
	y := field.Mul(p.Y, zInv)
	t := field.Mul(p.T, zInv)
	return affineNiels{
		yPlusX:  field.Add(y, x),
		yMinusX: field.Sub(y, x),
		xy2d:    field.Mul(t, edwardsD2),
	}
}

// addAffineNiels returns p + q as a completedPoint, where q is already in
// affineNiels form (Z implicitly 1). This is the mixed addition the
// basepoint comb performs at every table lookup.
func (p ExtendedPoint) addAffineNiels(q affineNiels) completedPoint {
	yPlusX := field.Add(p.Y, p.X)
	yMinusX := field.Sub(p.Y, p.X)

	pp := field.Mul(yPlusX, q.yPlusX)
	mm := field.Mul(yMinusX, q.yMinusX)
	txy2d := field.Mul(p.T, q.xy2d)
	zz2 := field.Add(p.Z, p.Z)

	return completedPoint{
		X: field.Sub(pp, mm),
		Y: field.Add(pp, mm),
		Z: field.Add(zz2, txy2d),
		T: field.Sub(zz2, txy2d),
	}
}

const (
	combGroups       = 32
	combTableEntries = 8
)

// basepointComb holds, for each of 32 groups, the affineNiels
// representation of {1,...,8}*(256^i)*B. Group i covers the pair of
// radix-16 digits at positions 2i and 2i+1 of a scalar, since 16^2 = 256.
// Building it performs a fixed, public sequence of point operations on a
// public constant, so it carries no timing-sensitive data of its own; it is
// computed once at package initialization and shared read-only afterward.
var basepointComb = buildBasepointComb()

func buildBasepointComb() [combGroups][combTableEntries]affineNiels {
	var table [combGroups][combTableEntries]affineNiels

	groupBase := Basepoint()
	for i := 0; i < combGroups; i++ {
		p := groupBase
		table[i][0] = p.toAffineNiels()
		for j := 1; j < combTableEntries; j++ {
			p = p.Add(groupBase)
			table[i][j] = p.toAffineNiels()
		}

		next := groupBase
		for k := 0; k < 8; k++ { // groupBase *= 256
			next = next.Double()
		}
		groupBase = next
	}

	return table
}

// selectAffineNiels performs a constant-time linear scan over a comb group,
// returning the table entry for digit (which must be in [-8, 8]) without
// branching on its value: every candidate entry is visited and folded in
// via field.Select, and the sign is applied afterward with a conditional
// negate, exactly as spec.md's comb algorithm calls for.
func selectAffineNiels(group [combTableEntries]affineNiels, digit int8) affineNiels {
	negative := digit < 0
	abs := digit
	if negative {
		abs = -abs
	}

	result := identityAffineNiels
	for j := 1; j <= combTableEntries; j++ {
		choice := abs == int8(j)
		entry := group[j-1]
		result = affineNiels{
			yPlusX:  field.Select(result.yPlusX, entry.yPlusX, choice),
			yMinusX: field.Select(result.yMinusX, entry.yMinusX, choice),
			xy2d:    field.Select(result.xy2d, entry.xy2d, choice),
		}
	}

	negated := result.negate()
	return affineNiels{
		yPlusX:  field.Select(result.yPlusX, negated.yPlusX, negative),
		yMinusX: field.Select(result.yMinusX, negated.yMinusX, negative),
		xy2d:    field.Select(result.xy2d, negated.xy2d, negative),
	}
}

// EdwardsScalarMulBase returns s*B, computed via the precomputed basepoint
// comb with constant-time digit selection. Every secret-scalar
// multiplication by the basepoint (nonce commitments, public key
// derivation) must go through this function rather than [ScalarMul]:
// ScalarMul's table lookups branch directly on the scalar's digits, which
// leaks timing information about a secret exponent.
//
// The accumulation order (all odd-indexed digits, then a shift by 2^4, then
// all even-indexed digits) mirrors the comb loop's historical double-walk
// rather than a single canonical pass; the two produce the same point.
func EdwardsScalarMulBase(s scalar.Scalar) ExtendedPoint {
	digits := s.ToRadix16()

	sum := Identity()
	for i := 0; i < combGroups; i++ {
		entry := selectAffineNiels(basepointComb[i], digits[2*i+1])
		sum = sum.addAffineNiels(entry).toExtended()
	}

	sum = sum.Double().Double().Double().Double()

	for i := 0; i < combGroups; i++ {
		entry := selectAffineNiels(basepointComb[i], digits[2*i])
		sum = sum.addAffineNiels(entry).toExtended()
	}

	return sum
}
