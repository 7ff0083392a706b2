package schnorrkel

import (
	"crypto/sha512"

	"github.com/subzero-labs/go-schnorrkel/internal/curve"
	"github.com/subzero-labs/go-schnorrkel/internal/scalar"
	"github.com/subzero-labs/go-schnorrkel/merlin"
)

// ExpandMode selects how a MiniSecret is expanded into a SecretKey.
type ExpandMode int

const (
	// ExpandUniform derives the scalar and nonce from a Merlin transcript
	// seeded with the mini-secret, giving both a uniform distribution over
	// their respective ranges. This is the mode new keys should use.
	ExpandUniform ExpandMode = iota

	// ExpandEd25519 derives the scalar and nonce the way Ed25519 derives
	// them from a seed: SHA-512, clamp, divide by the cofactor. It exists so
	// an Ed25519 seed can be reused as an sr25519 signing key.
	ExpandEd25519
)

// MiniSecret is 32 bytes of entropy that seed exactly one SecretKey. It is
// not itself usable for signing; call ExpandSecretKey or NewKeypair first.
type MiniSecret [32]byte

// ExpandSecretKey derives a SecretKey from m under the given mode.
func (m MiniSecret) ExpandSecretKey(mode ExpandMode) SecretKey {
	switch mode {
	case ExpandEd25519:
		return expandEd25519(m)
	default:
		return expandUniform(m)
	}
}

func expandUniform(m MiniSecret) SecretKey {
	t := merlin.NewTranscript("ExpandSecretKeys")
	t.AppendMessage("mini", m[:])

	var skWide [64]byte
	t.ChallengeBytes("sk", skWide[:])

	var nonce [32]byte
	t.ChallengeBytes("no", nonce[:])

	return SecretKey{scalar: scalar.FromBytesModOrderWide(skWide), nonce: nonce}
}

func expandEd25519(m MiniSecret) SecretKey {
	h := sha512.Sum512(m[:])

	var clamped [32]byte
	copy(clamped[:], h[:32])
	clamped[0] &= 248
	clamped[31] &= 63
	clamped[31] |= 64

	s := scalar.DivideByCofactor(scalar.FromBits(clamped))

	var nonce [32]byte
	copy(nonce[:], h[32:64])

	return SecretKey{scalar: s, nonce: nonce}
}

// SecretKey is a scalar, normalized into [0, l), paired with a secret nonce
// seed used to hedge signing nonces against a weak RNG. It is produced by
// expanding a MiniSecret or by importing one of this package's byte
// encodings; the core never serializes one in plaintext on its own.
type SecretKey struct {
	scalar scalar.Scalar
	nonce  [32]byte
}

// Public returns the public key corresponding to sk.
func (sk SecretKey) Public() PublicKey {
	point := curve.RistrettoScalarMulBase(sk.scalar)
	return PublicKey{point: point, compressed: point.Compress()}
}

// Bytes returns sk's native 64-byte encoding: the scalar's canonical 32
// bytes followed by the 32-byte nonce seed.
func (sk SecretKey) Bytes() [64]byte {
	var out [64]byte
	sb := sk.scalar.Bytes()
	copy(out[:32], sb[:])
	copy(out[32:], sk.nonce[:])
	return out
}

// SecretKeyFromBytes decodes sk's native 64-byte encoding.
func SecretKeyFromBytes(b [64]byte) (SecretKey, error) {
	var sb [32]byte
	copy(sb[:], b[:32])

	s, ok := scalar.FromCanonicalBytes(sb)
	if !ok {
		return SecretKey{}, ErrInvalidScalar
	}

	var nonce [32]byte
	copy(nonce[:], b[32:64])

	return SecretKey{scalar: s, nonce: nonce}, nil
}

// Ed25519Bytes returns sk's 64-byte Ed25519-compatible encoding:
// (scalar*8 mod 2^256) followed by the nonce. This is a plain left shift of
// the scalar's byte array, not a reduction mod l — it mirrors the layout an
// Ed25519 expanded secret key carries, where the clamped scalar is always a
// multiple of 8.
func (sk SecretKey) Ed25519Bytes() [64]byte {
	var out [64]byte
	sb := scalar.MultiplyByCofactor(sk.scalar).Bytes()
	copy(out[:32], sb[:])
	copy(out[32:], sk.nonce[:])
	return out
}

// SecretKeyFromEd25519Bytes decodes the Ed25519-compatible 64-byte
// encoding, dividing the scalar half by the cofactor 8 to recover the
// internal scalar.
func SecretKeyFromEd25519Bytes(b [64]byte) (SecretKey, error) {
	var sb [32]byte
	copy(sb[:], b[:32])

	// The stored value is scalar*8, which is generally not below l, so the
	// division by the cofactor happens before the canonical-range check.
	var carry byte
	for i := 31; i >= 0; i-- {
		low := sb[i] & 0x07
		sb[i] = (sb[i] >> 3) | (carry << 5)
		carry = low
	}

	s, ok := scalar.FromCanonicalBytes(sb)
	if !ok {
		return SecretKey{}, ErrInvalidScalar
	}

	var nonce [32]byte
	copy(nonce[:], b[32:64])

	return SecretKey{scalar: s, nonce: nonce}, nil
}

// PublicKey is a compressed Ristretto point: the verification half of a
// signing keypair, or the target of an HDKD soft derivation.
type PublicKey struct {
	point      curve.RistrettoPoint
	compressed curve.CompressedRistretto
}

// Bytes returns pk's 32-byte compressed encoding.
func (pk PublicKey) Bytes() [32]byte {
	return [32]byte(pk.compressed)
}

// PublicKeyFromBytes decompresses a 32-byte encoding into a PublicKey. It
// returns ErrInvalidLength if b is not 32 bytes or ErrInvalidPoint if the
// encoding does not decompress to a valid Ristretto point.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	if len(b) != 32 {
		return PublicKey{}, ErrInvalidLength
	}
	var enc curve.CompressedRistretto
	copy(enc[:], b)

	p, ok := curve.Decompress(enc)
	if !ok {
		return PublicKey{}, ErrInvalidPoint
	}
	return PublicKey{point: p, compressed: enc}, nil
}

// Equal reports whether pk and other encode the same public key.
func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.compressed == other.compressed
}

// Keypair bundles a SecretKey with its corresponding PublicKey, and adds the
// half-Ed25519 96-byte encoding used to interoperate with tooling that
// expects an Ed25519-shaped expanded keypair.
type Keypair struct {
	Secret SecretKey
	Public PublicKey
}

// NewKeypair returns the Keypair for sk.
func NewKeypair(sk SecretKey) Keypair {
	return Keypair{Secret: sk, Public: sk.Public()}
}

// NewKeypairFromMiniSecret expands m under mode and returns the resulting
// Keypair.
func NewKeypairFromMiniSecret(m MiniSecret, mode ExpandMode) Keypair {
	return NewKeypair(m.ExpandSecretKey(mode))
}

// ToHalfEd25519 returns the 96-byte half-Ed25519 keypair encoding: the
// Ed25519-compatible 64-byte secret followed by the 32-byte public key.
func (kp Keypair) ToHalfEd25519() [96]byte {
	var out [96]byte
	secret := kp.Secret.Ed25519Bytes()
	pub := kp.Public.Bytes()
	copy(out[:64], secret[:])
	copy(out[64:], pub[:])
	return out
}

// KeypairFromHalfEd25519 decodes the 96-byte half-Ed25519 keypair encoding
// produced by ToHalfEd25519.
func KeypairFromHalfEd25519(b []byte) (Keypair, error) {
	if len(b) != 96 {
		return Keypair{}, ErrInvalidKeypairLength
	}

	var secretBytes [64]byte
	copy(secretBytes[:], b[:64])

	sk, err := SecretKeyFromEd25519Bytes(secretBytes)
	if err != nil {
		return Keypair{}, err
	}

	pk, err := PublicKeyFromBytes(b[64:96])
	if err != nil {
		return Keypair{}, err
	}

	return Keypair{Secret: sk, Public: pk}, nil
}
