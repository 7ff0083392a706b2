package schnorrkel

import (
	cryptorand "crypto/rand"
	"math/rand/v2"
)

// RandReader is the external entropy source every signing and derivation
// operation in this package draws from. crypto/rand.Reader is the correct
// value for production use; [FixedRandReader] and [WeakRandReader] exist
// only so tests can reproduce a specific transcript run.
type RandReader interface {
	Read(p []byte) (n int, err error)
}

// CryptoRandReader is a RandReader that is trusted to be cryptographically
// strong. Sign, Context.Sign, and DeriveSoft all require one, rather than a
// plain RandReader, so that a non-cryptographic source cannot reach a
// secret-generating operation by accident: cryptoRandReader is unexported,
// so only types declared in this package can satisfy the interface
// directly, and any other io.Reader must be deliberately opted in through
// [NewCryptoRandReader]. [WeakRandReader] never implements it — passing one
// to Sign is a compile error, not a runtime footgun.
type CryptoRandReader interface {
	RandReader
	cryptoRandReader()
}

// cryptoReader wraps an arbitrary RandReader, asserting that the caller has
// verified it is a cryptographically secure source. Construct one with
// [NewCryptoRandReader].
type cryptoReader struct {
	r RandReader
}

func (c cryptoReader) Read(p []byte) (int, error) { return c.r.Read(p) }
func (c cryptoReader) cryptoRandReader()           {}

// NewCryptoRandReader wraps r as a CryptoRandReader. Callers vouch, by
// calling this function at all, that r draws from a cryptographically
// secure source (crypto/rand.Reader, an HSM, or equivalent) — never from
// math/rand or another predictable generator.
func NewCryptoRandReader(r RandReader) CryptoRandReader {
	return cryptoReader{r: r}
}

// SystemRandReader is the production CryptoRandReader, backed by
// crypto/rand.Reader.
var SystemRandReader CryptoRandReader = NewCryptoRandReader(cryptorand.Reader)

// FixedRandReader always serves the same fixed byte sequence, cycling back
// to the start once exhausted. It is a deterministic test fixture: useful
// for reproducing a known signature, never for producing a real nonce seed
// or signing a message anyone relies on. It satisfies CryptoRandReader
// directly so tests can pass it to Sign without an explicit wrapping call.
type FixedRandReader struct {
	data []byte
	pos  int
}

// NewFixedRandReader returns a FixedRandReader that cycles through data.
// Panics if data is empty, since a zero-length cycle can never fill a read.
func NewFixedRandReader(data []byte) *FixedRandReader {
	if len(data) == 0 {
		panic("schnorrkel: FixedRandReader requires a non-empty byte sequence")
	}
	return &FixedRandReader{data: data}
}

// Read fills p by repeating the reader's fixed sequence. It never returns
// an error.
func (r *FixedRandReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.data[r.pos]
		r.pos = (r.pos + 1) % len(r.data)
	}
	return len(p), nil
}

// cryptoRandReader marks FixedRandReader as an acceptable stand-in for a
// real entropy source in tests. It is never called, only asserted against.
func (r *FixedRandReader) cryptoRandReader() {}

// WeakRandReader is a seeded, non-cryptographic byte generator backed by
// math/rand/v2's PCG algorithm. It exists for diagnostics — reproducing a
// run without consuming real entropy — and deliberately does not implement
// [CryptoRandReader]: it has no cryptoRandReader method, so passing one to
// Sign, Context.Sign, or DeriveSoft fails to compile rather than silently
// signing with a predictable nonce.
type WeakRandReader struct {
	g *rand.Rand
}

// NewWeakRandReader returns a WeakRandReader seeded deterministically from
// seed1, seed2. Equal seeds always produce equal output streams.
func NewWeakRandReader(seed1, seed2 uint64) *WeakRandReader {
	return &WeakRandReader{g: rand.New(rand.NewPCG(seed1, seed2))}
}

// Read fills p with output from the underlying PCG generator. It never
// returns an error.
func (r *WeakRandReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.g.Uint64())
	}
	return len(p), nil
}

var _ RandReader = (*WeakRandReader)(nil)

// WeakRandReader deliberately has no cryptoRandReader method, so there is
// no way to pass *WeakRandReader to Sign, Context.Sign, or DeriveSoft:
// schnorrkel.Sign(kp, msg, schnorrkel.NewWeakRandReader(1, 2)) does not
// compile, because *WeakRandReader does not implement CryptoRandReader.
