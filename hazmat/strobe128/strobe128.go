// Package strobe128 implements the STROBE-128 duplex construction over the
// Keccak-p[1600,12] permutation, as used by Merlin transcripts.
//
// STROBE-128 provides four primitive operations — meta-AD, AD, Key, and PRF —
// built around a single duplexed sponge. Every operation begins by absorbing
// a two-byte control frame (the byte position at which the previous operation
// began, and the new operation's flags) so that operation boundaries are
// cryptographically bound into the permutation input, then streams its data
// through the rate portion of the state. Key and PRF additionally force a
// permutation before their own data is processed, since both move the duplex
// into "cipher" mode and must not reuse keystream bytes produced for a
// different purpose.
package strobe128

import "github.com/subzero-labs/go-schnorrkel/hazmat/keccak"

// rate is STROBE-128's rate in bytes: a 1600-bit (200-byte) state, a 256-bit
// (32-byte) capacity for 128-bit security, less two bytes reserved for the
// duplex's frame/pad markers.
const rate = 166

// flag is one of the STROBE control-word flag bits.
type flag byte

const (
	flagI flag = 1 << 0 // inbound (data moving from the transcript to the caller)
	flagA flag = 1 << 1 // associated data
	flagC flag = 1 << 2 // cipher-mode operation (forces a permutation first)
	flagM flag = 1 << 4 // meta (framing, not application data)
	flagK flag = 1 << 5 // keying material
)

// State is a STROBE-128 duplex instance.
type State struct {
	st       [200]byte
	pos      int
	posBegin int
	curFlags flag
}

// New returns a STROBE-128 instance initialized for the given protocol
// customization string: the duplex is brought up to its fixed initial state,
// permuted once, and the customization string is absorbed as meta-AD. This
// is the generic STROBE construction; Merlin always calls New with the fixed
// string "Merlin v1.0" and mixes in the caller's own domain label separately,
// through the ordinary MetaAD/AD operations.
func New(protocolLabel []byte) *State {
	s := &State{}

	s.st[0] = 1
	s.st[1] = byte(rate + 2)
	s.st[2] = 1
	s.st[3] = 0
	s.st[4] = 1
	s.st[5] = 0x60
	copy(s.st[6:], "STROBEv1.0.2")
	keccak.P1600(&s.st)

	s.MetaAD(protocolLabel, false)

	return s
}

// MetaAD absorbs framing data: operation labels and encoded lengths, as
// opposed to application data itself. If more is true, data extends the
// previous meta-AD operation rather than beginning a new one.
func (s *State) MetaAD(data []byte, more bool) {
	s.beginOp(flagM|flagA, more)
	s.absorb(data)
}

// AD absorbs application data (message contents, commitments, public keys).
// If more is true, data extends the previous AD operation.
func (s *State) AD(data []byte, more bool) {
	s.beginOp(flagA, more)
	s.absorb(data)
}

// Key absorbs keying material by overwriting the duplex state outright
// (rather than XORing into it), and forces a permutation before doing so.
// If more is true, data extends the previous Key operation.
func (s *State) Key(data []byte, more bool) {
	s.beginOp(flagA|flagC|flagK, more)
	s.overwrite(data)
}

// PRF squeezes len(dst) pseudorandom bytes from the duplex into dst, forcing
// a permutation first. Each squeezed byte is zeroed from the internal state
// as it is emitted, so no suffix of a prior PRF output can be recovered from
// later state. If more is true, dst extends the previous PRF operation.
func (s *State) PRF(dst []byte, more bool) {
	s.beginOp(flagI|flagA|flagC, more)
	s.squeeze(dst)
}

// Clone returns an independent copy of the duplex state. Mutating the clone
// has no effect on the original and vice versa.
func (s *State) Clone() *State {
	c := *s
	return &c
}

// beginOp starts a new operation with the given flags, or — if more is true —
// validates that it continues the operation already in progress.
func (s *State) beginOp(flags flag, more bool) {
	if more {
		if s.curFlags != flags {
			panic("strobe128: flags mismatch in continuation operation")
		}
		return
	}

	oldBegin := s.posBegin
	s.posBegin = s.pos + 1
	s.curFlags = flags

	s.absorb([]byte{byte(oldBegin), byte(flags)})

	// Key and PRF move the duplex into cipher mode: force a fresh
	// permutation before their data so no two cipher-mode operations ever
	// draw on the same block of output/keystream bytes.
	if flags&(flagC|flagK) != 0 && s.pos != 0 {
		s.runF()
	}
}

// runF finalizes the current rate block: it XORs in the position at which
// the current operation began (binding the operation boundary into the
// permutation input), sets the duplex frame-termination bit, and permutes.
func (s *State) runF() {
	s.st[s.pos] ^= byte(s.posBegin)
	s.st[s.pos+1] ^= 0x04
	s.st[rate+1] ^= 0x80
	keccak.P1600(&s.st)
	s.pos = 0
	s.posBegin = 0
}

func (s *State) absorb(data []byte) {
	for _, b := range data {
		s.st[s.pos] ^= b
		s.pos++
		if s.pos == rate {
			s.runF()
		}
	}
}

func (s *State) overwrite(data []byte) {
	for _, b := range data {
		s.st[s.pos] = b
		s.pos++
		if s.pos == rate {
			s.runF()
		}
	}
}

func (s *State) squeeze(dst []byte) {
	for i := range dst {
		dst[i] = s.st[s.pos]
		s.st[s.pos] = 0
		s.pos++
		if s.pos == rate {
			s.runF()
		}
	}
}
