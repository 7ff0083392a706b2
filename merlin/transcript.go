// Package merlin implements Merlin transcripts: a public-coin Fiat-Shamir
// transcript protocol built on a STROBE-128 duplex, compatible with the
// reference Rust `merlin` crate's wire format.
//
// A Transcript absorbs labeled messages and, once enough context has been
// absorbed, produces labeled pseudorandom challenges that depend on
// everything absorbed so far. Two transcripts that absorb the same sequence
// of (label, data) pairs always agree on every subsequent challenge.
package merlin

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/subzero-labs/go-schnorrkel/hazmat/strobe128"
)

// ErrShortRandomness is returned by [RngBuilder.Finalize] when the supplied
// external entropy source yields fewer than 32 bytes.
var ErrShortRandomness = errors.New("merlin: external randomness source returned too few bytes")

// Transcript is an append-only Merlin transcript.
type Transcript struct {
	strobe *strobe128.State
}

// NewTranscript returns a new transcript domain-separated by label. The
// underlying STROBE-128 instance is always initialized with the fixed
// customization string "Merlin v1.0"; label is then mixed in through the
// ordinary append-message path under the fixed framing label "dom-sep", so
// that two transcripts constructed with different labels never agree on any
// challenge.
func NewTranscript(label string) *Transcript {
	t := &Transcript{strobe: strobe128.New([]byte("Merlin v1.0"))}
	t.AppendMessage("dom-sep", []byte(label))
	return t
}

// AppendMessage absorbs a labeled message into the transcript: the label and
// a little-endian 32-bit length prefix are absorbed as one continuous
// meta-AD operation, followed by the message itself as AD.
func (t *Transcript) AppendMessage(label string, message []byte) {
	t.strobe.MetaAD([]byte(label), false)
	t.strobe.MetaAD(encodeLen(len(message)), true)
	t.strobe.AD(message, false)
}

// AppendU64 absorbs v as an 8-byte little-endian message under label. This
// is the non-buggy `append_u64` the design notes call for: earlier
// Schnorrkel sources had an `Encode_U64` routine that swapped the two
// 32-bit halves of v, but that routine was only reachable from a codepath no
// signing operation ever calls, so the bug is not reproduced here.
func (t *Transcript) AppendU64(label string, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	t.AppendMessage(label, b[:])
}

// ChallengeBytes fills dst with a pseudorandom challenge that is a
// deterministic function of every message absorbed into the transcript so
// far (including label and the little-endian length of dst itself).
func (t *Transcript) ChallengeBytes(label string, dst []byte) {
	t.strobe.MetaAD([]byte(label), false)
	t.strobe.MetaAD(encodeLen(len(dst)), true)
	t.strobe.PRF(dst, false)
}

// Challenge is a convenience wrapper around [Transcript.ChallengeBytes] that
// allocates and returns the n-byte challenge.
func (t *Transcript) Challenge(label string, n int) []byte {
	dst := make([]byte, n)
	t.ChallengeBytes(label, dst)
	return dst
}

// Clone returns an independent copy of the transcript. Mutating the clone —
// appending messages to it or drawing challenges from it — has no effect on
// the original transcript, and vice versa.
func (t *Transcript) Clone() *Transcript {
	return &Transcript{strobe: t.strobe.Clone()}
}

// BuildRng starts construction of a [TranscriptRng] forked from this
// transcript's current state, per the fork-to-RNG protocol: zero or more
// calls to [RngBuilder.RekeyWithWitnessBytes] bind secret witness values into
// the fork before [RngBuilder.Finalize] mixes in external entropy and
// produces an object that serves output exclusively through PRF squeezes.
//
// The base transcript itself is left untouched; BuildRng forks from a clone.
func (t *Transcript) BuildRng() *RngBuilder {
	return &RngBuilder{strobe: t.strobe.Clone()}
}

// encodeLen returns n encoded as 4 little-endian bytes, the fixed-width
// length-framing convention this transcript format requires regardless of
// host byte order.
func encodeLen(n int) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(n))
	return b[:]
}

// RngBuilder accumulates witness bytes for a [Transcript.BuildRng] fork
// before it is finalized into a [TranscriptRng].
type RngBuilder struct {
	strobe *strobe128.State
}

// RekeyWithWitnessBytes absorbs a secret witness value under label as a Key
// operation, binding the resulting RNG to both the transcript's public state
// and this private witness. Returns the builder for chaining.
func (b *RngBuilder) RekeyWithWitnessBytes(label string, witness []byte) *RngBuilder {
	b.strobe.MetaAD([]byte(label), false)
	b.strobe.MetaAD(encodeLen(len(witness)), true)
	b.strobe.Key(witness, false)
	return b
}

// Finalize reads 32 bytes of entropy from rand, keys the fork with it under
// the fixed label "rng", and returns the resulting [TranscriptRng]. Even a
// predictable rand does not compromise the output's uniqueness as long as
// the witnesses absorbed via RekeyWithWitnessBytes contain a genuine secret,
// but rand should still be a cryptographic source in production.
func (b *RngBuilder) Finalize(rand io.Reader) (*TranscriptRng, error) {
	var randomBytes [32]byte
	if _, err := io.ReadFull(rand, randomBytes[:]); err != nil {
		return nil, ErrShortRandomness
	}

	b.strobe.MetaAD([]byte("rng"), false)
	b.strobe.Key(randomBytes[:], false)

	return &TranscriptRng{strobe: b.strobe}, nil
}

// TranscriptRng is a pseudorandom byte source bound to a transcript's state,
// a secret witness, and external entropy. It serves output exclusively
// through PRF squeezes and has no other observable state transition.
type TranscriptRng struct {
	strobe *strobe128.State
}

// FillBytes fills dst with pseudorandom output.
func (r *TranscriptRng) FillBytes(dst []byte) {
	r.strobe.MetaAD(encodeLen(len(dst)), false)
	r.strobe.PRF(dst, false)
}

// Squeeze is a convenience wrapper around [TranscriptRng.FillBytes] that
// allocates and returns n pseudorandom bytes.
func (r *TranscriptRng) Squeeze(n int) []byte {
	dst := make([]byte, n)
	r.FillBytes(dst)
	return dst
}
