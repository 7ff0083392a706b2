package schnorrkel

import (
	"github.com/subzero-labs/go-schnorrkel/internal/curve"
	"github.com/subzero-labs/go-schnorrkel/internal/scalar"
	"github.com/subzero-labs/go-schnorrkel/merlin"
)

// Signature is an sr25519 Schnorr signature: a commitment point R and a
// response scalar s. Its 64-byte wire encoding sets the high bit of byte 63
// as a marker distinguishing sr25519 signatures from plain Ed25519 ones;
// decode rejects any input where that bit is unset.
type Signature struct {
	r curve.CompressedRistretto
	s scalar.Scalar
}

// Bytes returns sig's 64-byte R||s encoding, with byte 63's top bit set.
func (sig Signature) Bytes() [64]byte {
	var out [64]byte
	copy(out[:32], sig.r[:])
	sb := sig.s.Bytes()
	copy(out[32:], sb[:])
	out[63] |= 0x80
	return out
}

// SignatureFromBytes decodes a 64-byte R||s encoding. It returns
// ErrMissingMarkerBit if byte 63's top bit is unset, ErrInvalidScalar if s is
// not a canonical scalar encoding once the marker bit is cleared.
func SignatureFromBytes(b []byte) (Signature, error) {
	if len(b) != 64 {
		return Signature{}, ErrInvalidLength
	}
	if b[63]&0x80 == 0 {
		return Signature{}, ErrMissingMarkerBit
	}

	var sig Signature
	copy(sig.r[:], b[:32])

	var sb [32]byte
	copy(sb[:], b[32:64])
	sb[31] &^= 0x80

	s, ok := scalar.FromCanonicalBytes(sb)
	if !ok {
		return Signature{}, ErrInvalidScalar
	}
	sig.s = s

	return sig, nil
}

// Context fixes the application domain a signing context transcript is
// seeded with. Two contexts constructed with different labels never produce
// interoperable signatures. DefaultContext uses the fixed "substrate" label
// that every Substrate/Polkadot-compatible signer and verifier must use.
type Context struct {
	label string
}

// NewSigningContext returns a Context seeded with the given application
// label. Callers should use [DefaultContext] unless they deliberately need a
// non-interoperable domain.
func NewSigningContext(label string) Context {
	return Context{label: label}
}

// DefaultContext is the "substrate" application context every
// Substrate/Polkadot sr25519 signature is defined against.
var DefaultContext = NewSigningContext("substrate")

// newTranscript returns the base transcript for this context, before any
// message-specific data has been mixed in.
func (c Context) newTranscript() *merlin.Transcript {
	return merlin.NewTranscript(c.label)
}

// Sign produces a signature over message under kp, using rand as the
// external entropy hedging the derived nonce against a weak RNG. It returns
// an error only if rand fails to supply the 32 bytes the nonce derivation
// requires.
func (c Context) Sign(kp Keypair, message []byte, rand CryptoRandReader) (Signature, error) {
	t := c.newTranscript().Clone()
	t.AppendMessage("sign-bytes", message)
	t.AppendMessage("proto-name", []byte("Schnorr-sig"))

	pkBytes := kp.Public.Bytes()
	t.AppendMessage("sign:pk", pkBytes[:])

	rb := t.BuildRng()
	rb.RekeyWithWitnessBytes("signing", kp.Secret.nonce[:])
	trng, err := rb.Finalize(rand)
	if err != nil {
		return Signature{}, err
	}

	var rWide [64]byte
	trng.FillBytes(rWide[:])
	r := scalar.FromBytesModOrderWide(rWide)

	R := curve.RistrettoScalarMulBase(r)
	RCompressed := R.Compress()
	t.AppendMessage("sign:R", RCompressed[:])

	var kWide [64]byte
	t.ChallengeBytes("sign:c", kWide[:])
	k := scalar.FromBytesModOrderWide(kWide)

	s := scalar.MulAdd(k, kp.Secret.scalar, r)

	return Signature{r: RCompressed, s: s}, nil
}

// Verify reports whether sig is a valid signature over message under pk.
func (c Context) Verify(pk PublicKey, message []byte, sig Signature) bool {
	t := c.newTranscript().Clone()
	t.AppendMessage("sign-bytes", message)
	t.AppendMessage("proto-name", []byte("Schnorr-sig"))

	pkBytes := pk.Bytes()
	t.AppendMessage("sign:pk", pkBytes[:])

	t.AppendMessage("sign:R", sig.r[:])

	var kWide [64]byte
	t.ChallengeBytes("sign:c", kWide[:])
	k := scalar.FromBytesModOrderWide(kWide)

	negA := pk.point.Negate()
	X := curve.DoubleScalarMulVartime(k, negA, sig.s, curve.RistrettoBasepoint())

	return X.Compress() == sig.r
}

// Sign signs message under kp using DefaultContext.
func Sign(kp Keypair, message []byte, rand CryptoRandReader) (Signature, error) {
	return DefaultContext.Sign(kp, message, rand)
}

// Verify checks sig over message against pk using DefaultContext.
func Verify(pk PublicKey, message []byte, sig Signature) bool {
	return DefaultContext.Verify(pk, message, sig)
}
