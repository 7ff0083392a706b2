// Package testdata provides deterministic fixtures shared by this module's
// test suites: a seeded bit generator for building reproducible key material
// and an io.Reader that always fails, for exercising the RNG error path.
package testdata

import (
	"crypto/sha3"
	"io"
)

// DRBG is a deterministic random bit generator based on SHAKE128. It exists
// only to give tests reproducible "randomness" — it must never be used to
// generate a real signing key or nonce seed.
type DRBG struct {
	h *sha3.SHAKE
}

// New returns a new DRBG seeded with the given customization string.
func New(customization string) *DRBG {
	h := sha3.NewSHAKE128()
	_, _ = h.Write([]byte(customization))
	return &DRBG{h}
}

// Data returns n bytes of deterministic output from the DRBG.
func (d *DRBG) Data(n int) []byte {
	b := make([]byte, n)
	_, _ = d.h.Read(b)
	return b
}

// Reader returns an io.Reader of unbounded deterministic output seeded from
// this DRBG's current state, suitable for use as the rand reader passed to
// signing operations in tests.
func (d *DRBG) Reader() io.Reader {
	h := sha3.NewSHAKE128()
	_, _ = h.Write(d.Data(32))
	return h
}

// ErrReader always fails its Read with Err, for exercising the short-
// randomness error path of a signing or derivation operation.
type ErrReader struct {
	Err error
}

func (e *ErrReader) Read(_ []byte) (n int, err error) {
	return 0, e.Err
}
