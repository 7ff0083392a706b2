package schnorrkel

import (
	"errors"

	"github.com/subzero-labs/go-schnorrkel/merlin"
)

// Decode errors are returned when a byte encoding crossing the API boundary
// (a public key, secret key, signature, or keypair) fails to parse.
var (
	// ErrInvalidLength is returned when a byte slice has the wrong size for
	// the type being decoded.
	ErrInvalidLength = errors.New("schnorrkel: invalid encoding length")

	// ErrInvalidPoint is returned when a compressed Ristretto encoding fails
	// to decompress: non-canonical, negative, or not a valid curve point.
	ErrInvalidPoint = errors.New("schnorrkel: invalid Ristretto point encoding")

	// ErrInvalidScalar is returned when a scalar encoding is not the
	// canonical representative of a value less than the group order.
	ErrInvalidScalar = errors.New("schnorrkel: invalid scalar encoding")

	// ErrMissingMarkerBit is returned when a signature's high bit of byte 63
	// (the sr25519 marker bit) is unset on decode.
	ErrMissingMarkerBit = errors.New("schnorrkel: signature missing sr25519 marker bit")

	// ErrInvalidKeypairLength is returned when a half-Ed25519 keypair
	// encoding is not exactly 96 bytes.
	ErrInvalidKeypairLength = errors.New("schnorrkel: invalid keypair encoding length")
)

// Protocol errors are returned when a collaborator the core depends on —
// the RNG or the STROBE primitive — fails to honor its contract. They are
// never raised by field, scalar, or curve arithmetic, which are total.
var (
	// ErrShortRandomness is returned when an RNG supplies fewer bytes than a
	// protocol step requires. It is the same error merlin.RngBuilder.Finalize
	// returns, re-exported here so callers of this package's Sign/DeriveSoft
	// functions never need to import merlin to recognize it with errors.Is.
	ErrShortRandomness = merlin.ErrShortRandomness

	// ErrStrobe is returned if the underlying STROBE duplex reports an
	// internal failure. The pure-Go permutation this module ships cannot
	// fail, so this error is practically unreachable; it exists as the seam
	// a swapped-in primitive would use to report failure.
	ErrStrobe = errors.New("schnorrkel: STROBE operation failed")
)
