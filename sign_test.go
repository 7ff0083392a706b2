package schnorrkel_test

import (
	"errors"
	"testing"

	schnorrkel "github.com/subzero-labs/go-schnorrkel"
	"github.com/subzero-labs/go-schnorrkel/internal/testdata"
)

func testKeypair(t *testing.T, customization string) schnorrkel.Keypair {
	t.Helper()
	drbg := testdata.New(customization)
	var mini schnorrkel.MiniSecret
	copy(mini[:], drbg.Data(32))
	return schnorrkel.NewKeypairFromMiniSecret(mini, schnorrkel.ExpandUniform)
}

// TestSignVerify checks property 7: verify(pk, m, sign(sk, pk, m)) == true,
// and that flipping any bit of the message, R, or s invalidates the
// signature (scenario S4).
func TestSignVerify(t *testing.T) {
	kp := testKeypair(t, "sign-verify")
	message := []byte("hello")

	sig, err := schnorrkel.Sign(kp, message, schnorrkel.SystemRandReader)
	if err != nil {
		t.Fatal(err)
	}

	if !schnorrkel.Verify(kp.Public, message, sig) {
		t.Fatal("Verify() = false on a freshly produced signature")
	}

	t.Run("flipped message", func(t *testing.T) {
		tampered := append([]byte{}, message...)
		tampered[0] ^= 0x01
		if schnorrkel.Verify(kp.Public, tampered, sig) {
			t.Error("Verify() = true after flipping a message bit")
		}
	})

	t.Run("flipped R", func(t *testing.T) {
		b := sig.Bytes()
		b[0] ^= 0x01
		tampered, err := schnorrkel.SignatureFromBytes(b[:])
		if err != nil {
			t.Fatal(err)
		}
		if schnorrkel.Verify(kp.Public, message, tampered) {
			t.Error("Verify() = true after flipping a bit of R")
		}
	})

	t.Run("flipped s", func(t *testing.T) {
		b := sig.Bytes()
		b[32] ^= 0x01
		tampered, err := schnorrkel.SignatureFromBytes(b[:])
		if err != nil {
			t.Fatal(err)
		}
		if schnorrkel.Verify(kp.Public, message, tampered) {
			t.Error("Verify() = true after flipping a bit of s")
		}
	})
}

// TestMarkerBitEnforced checks property 8 and scenario S5: clearing the
// marker bit of a valid signature makes it fail to decode.
func TestMarkerBitEnforced(t *testing.T) {
	kp := testKeypair(t, "marker-bit")
	sig, err := schnorrkel.Sign(kp, []byte("hello"), schnorrkel.SystemRandReader)
	if err != nil {
		t.Fatal(err)
	}

	b := sig.Bytes()
	b[63] &^= 0x80

	if _, err := schnorrkel.SignatureFromBytes(b[:]); !errors.Is(err, schnorrkel.ErrMissingMarkerBit) {
		t.Fatalf("SignatureFromBytes() error = %v, want ErrMissingMarkerBit", err)
	}
}

// TestSignatureFromBytesRejectsWrongLength checks decode of a
// too-short/too-long buffer.
func TestSignatureFromBytesRejectsWrongLength(t *testing.T) {
	if _, err := schnorrkel.SignatureFromBytes(make([]byte, 63)); !errors.Is(err, schnorrkel.ErrInvalidLength) {
		t.Fatalf("error = %v, want ErrInvalidLength", err)
	}
}

// TestSignDeterministicWithFixedRand checks that the same (kp, message, rand
// stream) always produces the same signature — the derivation path has no
// hidden source of nondeterminism beyond the supplied entropy.
func TestSignDeterministicWithFixedRand(t *testing.T) {
	kp := testKeypair(t, "sign-deterministic")
	message := []byte("reproducible")

	fixed := schnorrkel.NewFixedRandReader(testdata.New("fixed-rand").Data(32))
	sig1, err := schnorrkel.Sign(kp, message, fixed)
	if err != nil {
		t.Fatal(err)
	}

	fixed2 := schnorrkel.NewFixedRandReader(testdata.New("fixed-rand").Data(32))
	sig2, err := schnorrkel.Sign(kp, message, fixed2)
	if err != nil {
		t.Fatal(err)
	}

	if sig1.Bytes() != sig2.Bytes() {
		t.Fatal("Sign() with identical inputs and rand stream produced different signatures")
	}
}

// TestSignShortRandomnessFails checks the protocol-error path: an RNG that
// cannot supply 32 bytes causes Sign to fail rather than silently proceed.
func TestSignShortRandomnessFails(t *testing.T) {
	kp := testKeypair(t, "short-rand")

	broken := schnorrkel.NewCryptoRandReader(&testdata.ErrReader{Err: errors.New("broken")})
	_, err := schnorrkel.Sign(kp, []byte("hello"), broken)
	if !errors.Is(err, schnorrkel.ErrShortRandomness) {
		t.Fatalf("Sign() error = %v, want ErrShortRandomness", err)
	}
}

// TestVerifyRejectsWrongKey checks that a signature does not verify under an
// unrelated public key.
func TestVerifyRejectsWrongKey(t *testing.T) {
	kp := testKeypair(t, "wrong-key-a")
	other := testKeypair(t, "wrong-key-b")

	sig, err := schnorrkel.Sign(kp, []byte("hello"), schnorrkel.SystemRandReader)
	if err != nil {
		t.Fatal(err)
	}

	if schnorrkel.Verify(other.Public, []byte("hello"), sig) {
		t.Fatal("Verify() = true under an unrelated public key")
	}
}

// TestDifferentContextsDoNotInteroperate checks that signatures made under
// one application label do not verify under another.
func TestDifferentContextsDoNotInteroperate(t *testing.T) {
	kp := testKeypair(t, "context-separation")
	message := []byte("hello")

	ctxA := schnorrkel.NewSigningContext("app-a")
	ctxB := schnorrkel.NewSigningContext("app-b")

	sig, err := ctxA.Sign(kp, message, schnorrkel.SystemRandReader)
	if err != nil {
		t.Fatal(err)
	}

	if ctxB.Verify(kp.Public, message, sig) {
		t.Fatal("signature made under one context verified under another")
	}
	if !ctxA.Verify(kp.Public, message, sig) {
		t.Fatal("signature failed to verify under its own context")
	}
}
