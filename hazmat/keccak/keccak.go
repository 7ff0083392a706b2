// Package keccak implements the Keccak-p[1600,12] permutation: the 12-round,
// 1600-bit-wide member of the Keccak-p family used by STROBE-128 and
// TurboSHAKE128 alike.
package keccak

import "encoding/binary"

// Rounds is the number of rounds applied by [P1600].
const Rounds = 12

// roundConstants are the Keccak round constants for rounds 12..23 of the
// full 24-round Keccak-f[1600] schedule, since Keccak-p[1600,12] runs only
// the final 12 rounds of that schedule.
var roundConstants = [Rounds]uint64{
	0x000000008000808b,
	0x800000000000008b,
	0x8000000000008089,
	0x8000000000008003,
	0x8000000000008002,
	0x8000000000000080,
	0x000000000000800a,
	0x800000008000000a,
	0x8000000080008081,
	0x8000000000008080,
	0x0000000080000001,
	0x8000000080008008,
}

// rotations are the per-lane rho rotation offsets, indexed [x][y] in the
// standard Keccak lane layout.
var rotations = [5][5]uint{
	{0, 36, 3, 41, 18},
	{1, 44, 10, 45, 2},
	{62, 6, 43, 15, 61},
	{28, 55, 25, 21, 56},
	{27, 20, 39, 8, 14},
}

// P1600 applies the Keccak-p[1600,12] permutation to state in place.
func P1600(state *[200]byte) {
	var lanes [5][5]uint64
	for x := range 5 {
		for y := range 5 {
			lanes[x][y] = binary.LittleEndian.Uint64(state[8*(x+5*y):])
		}
	}

	for r := range Rounds {
		lanes = round(lanes, roundConstants[r])
	}

	for x := range 5 {
		for y := range 5 {
			binary.LittleEndian.PutUint64(state[8*(x+5*y):], lanes[x][y])
		}
	}
}

// round applies one Keccak round (theta, rho, pi, chi, iota) to the lane
// state and returns the result.
func round(a [5][5]uint64, rc uint64) [5][5]uint64 {
	// Theta: column parity mixed into every lane.
	var c [5]uint64
	for x := range 5 {
		c[x] = a[x][0] ^ a[x][1] ^ a[x][2] ^ a[x][3] ^ a[x][4]
	}

	var d [5]uint64
	for x := range 5 {
		d[x] = c[(x+4)%5] ^ rotl(c[(x+1)%5], 1)
	}

	var theta [5][5]uint64
	for x := range 5 {
		for y := range 5 {
			theta[x][y] = a[x][y] ^ d[x]
		}
	}

	// Rho and pi: rotate each lane, then permute lane positions.
	var piRho [5][5]uint64
	for x := range 5 {
		for y := range 5 {
			piRho[y][(2*x+3*y)%5] = rotl(theta[x][y], rotations[x][y])
		}
	}

	// Chi: nonlinear mixing within each row.
	var chi [5][5]uint64
	for x := range 5 {
		for y := range 5 {
			chi[x][y] = piRho[x][y] ^ (^piRho[(x+1)%5][y] & piRho[(x+2)%5][y])
		}
	}

	// Iota: round-dependent constant into lane (0,0).
	chi[0][0] ^= rc

	return chi
}

func rotl(x uint64, n uint) uint64 {
	return (x << n) | (x >> (64 - n))
}
