package schnorrkel_test

import (
	"testing"

	schnorrkel "github.com/subzero-labs/go-schnorrkel"
	"github.com/subzero-labs/go-schnorrkel/internal/testdata"
)

// TestSoftDerivationHomomorphism checks property 10: deriving a public key
// directly from a parent public key agrees with deriving the child keypair
// from the full parent keypair and taking its public half.
func TestSoftDerivationHomomorphism(t *testing.T) {
	kp := testKeypair(t, "soft-hdkd")
	var cc schnorrkel.ChainCode
	copy(cc[:], testdata.New("soft-hdkd-cc").Data(32))

	childFromSecret, ccFromSecret, err := kp.DeriveSoft(cc, schnorrkel.SystemRandReader)
	if err != nil {
		t.Fatal(err)
	}

	childFromPublic, ccFromPublic := schnorrkel.DeriveSoftPublic(kp.Public, cc)

	if childFromSecret.Public.Bytes() != childFromPublic.Bytes() {
		t.Fatal("DeriveSoftPublic(pk, cc) != kp.DeriveSoft(cc).Public")
	}
	if ccFromSecret != ccFromPublic {
		t.Fatal("soft derivation produced different chain codes from the secret and public paths")
	}
}

// TestSoftDerivationProducesUsableKeypair checks that a softly-derived
// keypair signs and verifies under its own public key.
func TestSoftDerivationProducesUsableKeypair(t *testing.T) {
	kp := testKeypair(t, "soft-hdkd-usable")
	var cc schnorrkel.ChainCode
	copy(cc[:], testdata.New("soft-hdkd-usable-cc").Data(32))

	child, _, err := kp.DeriveSoft(cc, schnorrkel.SystemRandReader)
	if err != nil {
		t.Fatal(err)
	}

	message := []byte("derived key signs too")
	sig, err := schnorrkel.Sign(child, message, schnorrkel.SystemRandReader)
	if err != nil {
		t.Fatal(err)
	}
	if !schnorrkel.Verify(child.Public, message, sig) {
		t.Fatal("signature from a softly-derived keypair failed to verify")
	}
}

// TestHardDerivationDiffersFromSoft checks that hard derivation does not
// reproduce the soft derivation's child for the same chain code, and that
// it produces no public-key homomorphism: DeriveSoftPublic cannot recompute
// it from the parent's public key alone.
func TestHardDerivationDiffersFromSoft(t *testing.T) {
	kp := testKeypair(t, "hard-hdkd")
	var cc schnorrkel.ChainCode
	copy(cc[:], testdata.New("hard-hdkd-cc").Data(32))

	hardChild, _ := kp.DeriveHard(cc)
	softChild, _, err := kp.DeriveSoft(cc, schnorrkel.SystemRandReader)
	if err != nil {
		t.Fatal(err)
	}

	if hardChild.Public.Bytes() == softChild.Public.Bytes() {
		t.Fatal("hard and soft derivation produced the same child public key")
	}

	publicOnlyChild, _ := schnorrkel.DeriveSoftPublic(kp.Public, cc)
	if hardChild.Public.Bytes() == publicOnlyChild.Bytes() {
		t.Fatal("hard derivation's public key was reachable from the parent's public key alone")
	}
}

// TestHardDerivationIsDeterministic checks that hard derivation is a pure
// function of the secret key and chain code (it consumes no external
// entropy).
func TestHardDerivationIsDeterministic(t *testing.T) {
	kp := testKeypair(t, "hard-hdkd-deterministic")
	var cc schnorrkel.ChainCode
	copy(cc[:], testdata.New("hard-hdkd-deterministic-cc").Data(32))

	child1, cc1 := kp.DeriveHard(cc)
	child2, cc2 := kp.DeriveHard(cc)

	if child1.Public.Bytes() != child2.Public.Bytes() {
		t.Fatal("DeriveHard produced different public keys for identical inputs")
	}
	if cc1 != cc2 {
		t.Fatal("DeriveHard produced different chain codes for identical inputs")
	}
}

// TestHardDerivationProducesUsableKeypair checks that a hard-derived
// keypair signs and verifies under its own public key.
func TestHardDerivationProducesUsableKeypair(t *testing.T) {
	kp := testKeypair(t, "hard-hdkd-usable")
	var cc schnorrkel.ChainCode
	copy(cc[:], testdata.New("hard-hdkd-usable-cc").Data(32))

	child, _ := kp.DeriveHard(cc)

	message := []byte("hard derived key signs too")
	sig, err := schnorrkel.Sign(child, message, schnorrkel.SystemRandReader)
	if err != nil {
		t.Fatal(err)
	}
	if !schnorrkel.Verify(child.Public, message, sig) {
		t.Fatal("signature from a hard-derived keypair failed to verify")
	}
}

// TestDifferentChainCodesProduceDifferentChildren checks that soft
// derivation is sensitive to the chain code, not just the parent key.
func TestDifferentChainCodesProduceDifferentChildren(t *testing.T) {
	kp := testKeypair(t, "soft-hdkd-cc-sensitivity")

	var ccA, ccB schnorrkel.ChainCode
	copy(ccA[:], testdata.New("cc-a").Data(32))
	copy(ccB[:], testdata.New("cc-b").Data(32))

	childA, _ := schnorrkel.DeriveSoftPublic(kp.Public, ccA)
	childB, _ := schnorrkel.DeriveSoftPublic(kp.Public, ccB)

	if childA.Bytes() == childB.Bytes() {
		t.Fatal("different chain codes produced the same derived public key")
	}
}
