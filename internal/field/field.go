// Package field implements arithmetic in GF(2^255 - 19), the base field
// underlying Curve25519 and Ristretto255, using the radix-2^51 five-limb
// representation popularized by curve25519-dalek: each FieldElement keeps
// its value spread across five uint64 limbs with slack headroom bits, so
// that several additions can accumulate before an explicit carry pass is
// needed; Add never reduces, while Sub, Negate, multiplication and squaring
// always carry their result back down.
package field

import "math/bits"

const maskLow51Bits = (uint64(1) << 51) - 1

// FieldElement is an element of GF(2^255 - 19) in unreduced or
// partially-reduced radix-2^51 form. The zero value is the field element 0.
type FieldElement [5]uint64

// SqrtMinusOne is a square root of -1 modulo 2^255 - 19, used by SqrtRatio
// and, in the curve package, by Ristretto (de)compression.
var SqrtMinusOne = FieldElement{
	1718705420411056,
	234908883556509,
	2233514472574048,
	2117202627021982,
	765476049583133,
}

// One returns the field element 1.
func One() FieldElement {
	return FieldElement{1, 0, 0, 0, 0}
}

// FromBytes decodes a little-endian 32-byte encoding into a FieldElement.
// The high bit of the last byte is ignored, matching the usual Curve25519
// and Ristretto255 convention; the result is not necessarily the canonical
// representative of its residue class until passed through Bytes.
func FromBytes(in *[32]byte) FieldElement {
	load8 := func(b []byte) uint64 {
		return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
			uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
	}

	return FieldElement{
		load8(in[0:]) & maskLow51Bits,
		(load8(in[6:]) >> 3) & maskLow51Bits,
		(load8(in[12:]) >> 6) & maskLow51Bits,
		(load8(in[19:]) >> 1) & maskLow51Bits,
		(load8(in[24:]) >> 12) & maskLow51Bits,
	}
}

// Bytes returns the canonical little-endian 32-byte encoding of fe, fully
// reduced modulo 2^255 - 19.
func (fe FieldElement) Bytes() [32]byte {
	limbs := fe

	// h = limbs[0] + limbs[1]*2^51 + ... is at most 2^256 - 38, i.e. less
	// than 2p, so h mod p is either h or h - p. Computing the carry bit of
	// h+19 tells us which, since h >= p iff h+19 >= 2^255.
	q := (limbs[0] + 19) >> 51
	q = (limbs[1] + q) >> 51
	q = (limbs[2] + q) >> 51
	q = (limbs[3] + q) >> 51
	q = (limbs[4] + q) >> 51

	limbs[0] += 19 * q

	limbs[1] += limbs[0] >> 51
	limbs[0] &= maskLow51Bits
	limbs[2] += limbs[1] >> 51
	limbs[1] &= maskLow51Bits
	limbs[3] += limbs[2] >> 51
	limbs[2] &= maskLow51Bits
	limbs[4] += limbs[3] >> 51
	limbs[3] &= maskLow51Bits
	limbs[4] &= maskLow51Bits

	var s [32]byte
	s[0] = byte(limbs[0])
	s[1] = byte(limbs[0] >> 8)
	s[2] = byte(limbs[0] >> 16)
	s[3] = byte(limbs[0] >> 24)
	s[4] = byte(limbs[0] >> 32)
	s[5] = byte(limbs[0] >> 40)
	s[6] = byte(limbs[0]>>48) | byte(limbs[1]<<3)
	s[7] = byte(limbs[1] >> 5)
	s[8] = byte(limbs[1] >> 13)
	s[9] = byte(limbs[1] >> 21)
	s[10] = byte(limbs[1] >> 29)
	s[11] = byte(limbs[1] >> 37)
	s[12] = byte(limbs[1]>>45) | byte(limbs[2]<<6)
	s[13] = byte(limbs[2] >> 2)
	s[14] = byte(limbs[2] >> 10)
	s[15] = byte(limbs[2] >> 18)
	s[16] = byte(limbs[2] >> 26)
	s[17] = byte(limbs[2] >> 34)
	s[18] = byte(limbs[2] >> 42)
	s[19] = byte(limbs[2]>>50) | byte(limbs[3]<<1)
	s[20] = byte(limbs[3] >> 7)
	s[21] = byte(limbs[3] >> 15)
	s[22] = byte(limbs[3] >> 23)
	s[23] = byte(limbs[3] >> 31)
	s[24] = byte(limbs[3] >> 39)
	s[25] = byte(limbs[3]>>47) | byte(limbs[4]<<4)
	s[26] = byte(limbs[4] >> 4)
	s[27] = byte(limbs[4] >> 12)
	s[28] = byte(limbs[4] >> 20)
	s[29] = byte(limbs[4] >> 28)
	s[30] = byte(limbs[4] >> 36)
	s[31] = byte(limbs[4] >> 44)

	return s
}

// Add returns a + b. The result may carry slack headroom bits and is not
// reduced; it is safe as an input to another Add, or to Mul/Square, but not
// to Bytes or IsNegative without an intervening reduction (which Mul and
// Square always perform on their result).
func Add(a, b FieldElement) FieldElement {
	var out FieldElement
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

// Sub returns a - b, reduced modulo 2^255 - 19.
func Sub(a, b FieldElement) FieldElement {
	// Add a multiple of p large enough that no limb underflows, then
	// reduce: 16p in radix-2^51 has limb 0 equal to 16*(2^51-19) and limbs
	// 1..4 equal to 16*(2^51-1), which safely dominates any b limb that
	// has not itself grown beyond a handful of Add calls of slack.
	return reduce(wideLimbs{
		fromU64(a[0] + 36028797018963664).sub(fromU64(b[0])),
		fromU64(a[1] + 36028797018963952).sub(fromU64(b[1])),
		fromU64(a[2] + 36028797018963952).sub(fromU64(b[2])),
		fromU64(a[3] + 36028797018963952).sub(fromU64(b[3])),
		fromU64(a[4] + 36028797018963952).sub(fromU64(b[4])),
	})
}

// Negate returns -a, reduced modulo 2^255 - 19.
func Negate(a FieldElement) FieldElement {
	return reduce(wideLimbs{
		fromU64(36028797018963664).sub(fromU64(a[0])),
		fromU64(36028797018963952).sub(fromU64(a[1])),
		fromU64(36028797018963952).sub(fromU64(a[2])),
		fromU64(36028797018963952).sub(fromU64(a[3])),
		fromU64(36028797018963952).sub(fromU64(a[4])),
	})
}

// Mul returns a * b, reduced modulo 2^255 - 19.
func Mul(a, b FieldElement) FieldElement {
	b1 := b[1] * 19
	b2 := b[2] * 19
	b3 := b[3] * 19
	b4 := b[4] * 19

	return reduce(wideLimbs{
		mul64(a[0], b[0]).add(mul64(a[4], b1)).add(mul64(a[3], b2)).add(mul64(a[2], b3)).add(mul64(a[1], b4)),
		mul64(a[1], b[0]).add(mul64(a[0], b[1])).add(mul64(a[4], b2)).add(mul64(a[3], b3)).add(mul64(a[2], b4)),
		mul64(a[2], b[0]).add(mul64(a[1], b[1])).add(mul64(a[0], b[2])).add(mul64(a[4], b3)).add(mul64(a[3], b4)),
		mul64(a[3], b[0]).add(mul64(a[2], b[1])).add(mul64(a[1], b[2])).add(mul64(a[0], b[3])).add(mul64(a[4], b4)),
		mul64(a[4], b[0]).add(mul64(a[3], b[1])).add(mul64(a[2], b[2])).add(mul64(a[1], b[3])).add(mul64(a[0], b[4])),
	})
}

// Square returns a * a, reduced modulo 2^255 - 19.
func Square(a FieldElement) FieldElement {
	a0, a1, a2, a3, a4 := a[0], a[1], a[2], a[3], a[4]
	a3_19 := 19 * a3
	a4_19 := 19 * a4

	return reduce(wideLimbs{
		mul64(a0, a0).add(mul64(2*a1, a4_19)).add(mul64(2*a2, a3_19)),
		mul64(2*a0, a1).add(mul64(2*a2, a4_19)).add(mul64(a3, a3_19)),
		mul64(2*a0, a2).add(mul64(a1, a1)).add(mul64(2*a3, a4_19)),
		mul64(2*a0, a3).add(mul64(2*a1, a2)).add(mul64(a4, a4_19)),
		mul64(2*a0, a4).add(mul64(2*a1, a3)).add(mul64(a2, a2)),
	})
}

// Square2 returns 2 * a * a, reduced modulo 2^255 - 19. This folds the
// doubling into the squaring's existing carry pass instead of computing
// Square and then Add(x, x) separately.
func Square2(a FieldElement) FieldElement {
	a0, a1, a2, a3, a4 := a[0], a[1], a[2], a[3], a[4]
	a3_19 := 19 * a3
	a4_19 := 19 * a4

	w := wideLimbs{
		mul64(a0, a0).add(mul64(2*a1, a4_19)).add(mul64(2*a2, a3_19)),
		mul64(2*a0, a1).add(mul64(2*a2, a4_19)).add(mul64(a3, a3_19)),
		mul64(2*a0, a2).add(mul64(a1, a1)).add(mul64(2*a3, a4_19)),
		mul64(2*a0, a3).add(mul64(2*a1, a2)).add(mul64(a4, a4_19)),
		mul64(2*a0, a4).add(mul64(2*a1, a3)).add(mul64(a2, a2)),
	}
	for i := range w {
		w[i] = w[i].add(w[i])
	}
	return reduce(w)
}

// pow2k returns a^(2^k) for k >= 1, i.e. a squared k times.
func pow2k(a FieldElement, k uint) FieldElement {
	z := Square(a)
	for ; k > 1; k-- {
		z = Square(z)
	}
	return z
}

// pow22501 returns (a^(2^250-1), a^11), the two partial products from which
// both Invert and the (p-5)/8 exponentiation used by SqrtRatio are built.
func pow22501(a FieldElement) (t19, t3 FieldElement) {
	t0 := pow2k(a, 1)
	t1 := pow2k(t0, 2)
	t2 := Mul(a, t1)
	t3 = Mul(t0, t2)
	t4 := pow2k(t3, 1)
	t5 := Mul(t2, t4)
	t6 := pow2k(t5, 5)
	t7 := Mul(t6, t5)
	t8 := pow2k(t7, 10)
	t9 := Mul(t8, t7)
	t10 := pow2k(t9, 20)
	t11 := Mul(t10, t9)
	t12 := pow2k(t11, 10)
	t13 := Mul(t12, t7)
	t14 := pow2k(t13, 50)
	t15 := Mul(t14, t13)
	t16 := pow2k(t15, 100)
	t17 := Mul(t16, t15)
	t18 := pow2k(t17, 50)
	t19 = Mul(t18, t13)
	return t19, t3
}

// Invert returns a^-1 mod 2^255-19, i.e. a^(p-2), via a fixed addition
// chain. Invert(0) returns 0.
func Invert(a FieldElement) FieldElement {
	t19, t3 := pow22501(a)
	t20 := pow2k(t19, 5)
	return Mul(t20, t3)
}

// powP58 returns a^((p-5)/8), the partial exponentiation SqrtRatio needs.
func powP58(a FieldElement) FieldElement {
	t19, _ := pow22501(a)
	t20 := pow2k(t19, 2)
	return Mul(a, t20)
}

// SqrtRatio attempts to compute a nonnegative square root of u/v. It
// returns (true, r) with r*r*v == u when u/v is a square, and (false, r)
// with r*r*v == u*SqrtMinusOne otherwise — the Ristretto/decaf convention that
// lets decompression distinguish valid encodings from invalid ones without a
// separate Legendre-symbol computation.
func SqrtRatio(u, v FieldElement) (bool, FieldElement) {
	v3 := Mul(Square(v), v)
	v7 := Mul(Square(v3), v)
	r := Mul(Mul(u, v3), powP58(Mul(u, v7)))

	check := Mul(v, Square(r))
	negU := Negate(u)
	negUi := Mul(negU, SqrtMinusOne)

	correctSignSqrt := Equal(check, u)
	flippedSignSqrt := Equal(check, negU)
	flippedSignSqrtI := Equal(check, negUi)

	rPrime := Mul(SqrtMinusOne, r)
	r = Select(r, rPrime, flippedSignSqrt || flippedSignSqrtI)

	r = ConditionalNegate(r, IsNegative(r))

	return correctSignSqrt || flippedSignSqrt, r
}

// IsNegative reports whether a's canonical encoding has its low bit set,
// the Curve25519/Ristretto convention for "negative."
func IsNegative(a FieldElement) bool {
	b := a.Bytes()
	return b[0]&1 == 1
}

// IsZero reports whether a is congruent to zero modulo 2^255 - 19.
func IsZero(a FieldElement) bool {
	b := a.Bytes()
	var acc byte
	for _, c := range b {
		acc |= c
	}
	return acc == 0
}

// Equal reports whether a and b represent the same field element, comparing
// their canonical encodings rather than their limbs (which may differ even
// for equal values, since this representation is not unique until reduced
// through Bytes).
func Equal(a, b FieldElement) bool {
	ab, bb := a.Bytes(), b.Bytes()
	var diff byte
	for i := range ab {
		diff |= ab[i] ^ bb[i]
	}
	return diff == 0
}

// Select returns b if choice is true and a otherwise, without branching on
// choice, so that the decision itself is not observable through timing.
func Select(a, b FieldElement, choice bool) FieldElement {
	mask := uint64(0)
	if choice {
		mask = ^uint64(0)
	}
	var out FieldElement
	for i := range out {
		out[i] = a[i] ^ (mask & (a[i] ^ b[i]))
	}
	return out
}

// ConditionalNegate returns -a if choice is true and a otherwise.
func ConditionalNegate(a FieldElement, choice bool) FieldElement {
	return Select(a, Negate(a), choice)
}

// wideLimbs holds five 128-bit partial sums, one per output limb, before the
// carry pass that brings each back down to 51 bits.
type wideLimbs [5]wide

// wide is a 128-bit unsigned accumulator built from a pair of uint64 words.
// The 64x64 products this package sums can individually exceed 64 bits, and
// up to five of them are added per limb before the next carry pass, so a
// single uint64 is not enough headroom.
type wide struct {
	hi, lo uint64
}

func mul64(a, b uint64) wide {
	hi, lo := bits.Mul64(a, b)
	return wide{hi, lo}
}

func fromU64(a uint64) wide {
	return wide{hi: 0, lo: a}
}

func (w wide) add(v wide) wide {
	lo, c := bits.Add64(w.lo, v.lo, 0)
	hi, _ := bits.Add64(w.hi, v.hi, c)
	return wide{hi, lo}
}

func (w wide) sub(v wide) wide {
	lo, b := bits.Sub64(w.lo, v.lo, 0)
	hi, _ := bits.Sub64(w.hi, v.hi, b)
	return wide{hi, lo}
}

func (w wide) shiftRight(n uint) wide {
	if n == 0 {
		return w
	}
	return wide{hi: w.hi >> n, lo: (w.lo >> n) | (w.hi << (64 - n))}
}

func (w wide) low51() uint64 {
	return w.lo & maskLow51Bits
}

// reduce carries a set of wide (128-bit) partial limb sums down into a
// fully carry-propagated FieldElement, folding the overflow out of the top
// limb back in multiplied by 19 (since 2^255 = 19 mod p).
func reduce(limbs wideLimbs) FieldElement {
	carry := limbs[0].shiftRight(51)
	limbs[1] = limbs[1].add(carry)
	l0 := limbs[0].low51()

	carry = limbs[1].shiftRight(51)
	limbs[2] = limbs[2].add(carry)
	l1 := limbs[1].low51()

	carry = limbs[2].shiftRight(51)
	limbs[3] = limbs[3].add(carry)
	l2 := limbs[2].low51()

	carry = limbs[3].shiftRight(51)
	limbs[4] = limbs[4].add(carry)
	l3 := limbs[3].low51()

	carry = limbs[4].shiftRight(51)
	l0 += carry.lo * 19
	l4 := limbs[4].low51()

	l1 += l0 >> 51
	l0 &= maskLow51Bits

	return FieldElement{l0, l1, l2, l3, l4}
}
