package schnorrkel

import (
	"github.com/subzero-labs/go-schnorrkel/internal/curve"
	"github.com/subzero-labs/go-schnorrkel/internal/scalar"
	"github.com/subzero-labs/go-schnorrkel/merlin"
)

// ChainCode is 32 bytes of opaque derivation state passed from a key to its
// HDKD children. It carries no meaning on its own beyond binding a
// derivation path to the transcript that produced it.
type ChainCode [32]byte

const hdkdLabel = "SchnorrRistrettoHDKD"

// deriveSoftDelta recomputes the soft-derivation offset scalar and next
// chain code from only a public key and chain code. Soft derivation from a
// keypair must call this with the same inputs its secret half uses, so that
// deriving the child scalar from the secret and deriving the child public
// key from the public key alone always agree.
func deriveSoftDelta(pk PublicKey, cc ChainCode) (scalar.Scalar, ChainCode) {
	t := merlin.NewTranscript(hdkdLabel)
	t.AppendMessage("sign-bytes", nil)
	t.AppendMessage("chain-code", cc[:])
	pkBytes := pk.Bytes()
	t.AppendMessage("public-key", pkBytes[:])

	var deltaWide [64]byte
	t.ChallengeBytes("HDKD-scalar", deltaWide[:])
	delta := scalar.FromBytesModOrderWide(deltaWide)

	var newCC ChainCode
	t.ChallengeBytes("HDKD-chaincode", newCC[:])

	return delta, newCC
}

// DeriveSoftPublic derives a child public key and chain code from pk and cc,
// without needing the corresponding secret key. Soft derivations preserve
// the homomorphism DeriveSoftPublic(pk, cc) == kp.DeriveSoft(cc).Public for
// the keypair pk belongs to.
func DeriveSoftPublic(pk PublicKey, cc ChainCode) (PublicKey, ChainCode) {
	delta, newCC := deriveSoftDelta(pk, cc)

	point := pk.point.Add(curve.RistrettoBasepoint().ScalarMul(delta))
	return PublicKey{point: point, compressed: point.Compress()}, newCC
}

// DeriveSoft derives a child keypair and chain code from kp and cc. The new
// nonce is hedged against a weak rand using the same fork-to-rng
// construction Sign uses, bound to the parent's nonce and scalar as a
// witness.
func (kp Keypair) DeriveSoft(cc ChainCode, rand CryptoRandReader) (Keypair, ChainCode, error) {
	delta, newCC := deriveSoftDelta(kp.Public, cc)

	t := merlin.NewTranscript(hdkdLabel)
	t.AppendMessage("sign-bytes", nil)
	t.AppendMessage("chain-code", cc[:])
	pkBytes := kp.Public.Bytes()
	t.AppendMessage("public-key", pkBytes[:])

	rb := t.BuildRng()
	scalarBytes := kp.Secret.scalar.Bytes()
	witness := append(append([]byte{}, kp.Secret.nonce[:]...), scalarBytes[:]...)
	rb.RekeyWithWitnessBytes("HDKD-nonce", witness)

	trng, err := rb.Finalize(rand)
	if err != nil {
		return Keypair{}, ChainCode{}, err
	}

	var newNonce [32]byte
	trng.FillBytes(newNonce[:])

	newScalar := scalar.Add(kp.Secret.scalar, delta)
	newSK := SecretKey{scalar: newScalar, nonce: newNonce}

	return NewKeypair(newSK), newCC, nil
}

// DeriveHard derives a child keypair and chain code from kp and cc using
// only the secret key. Unlike DeriveSoft, a hard derivation's child bears no
// public-key homomorphism to its parent: DeriveSoftPublic cannot reproduce
// it from the parent's public key alone.
func (kp Keypair) DeriveHard(cc ChainCode) (Keypair, ChainCode) {
	t := merlin.NewTranscript(hdkdLabel)
	t.AppendMessage("sign-bytes", nil)
	t.AppendMessage("chain-code", cc[:])
	scalarBytes := kp.Secret.scalar.Bytes()
	t.AppendMessage("secret-key", scalarBytes[:])

	var mini MiniSecret
	t.ChallengeBytes("HDKD-hard", mini[:])

	var newCC ChainCode
	t.ChallengeBytes("HDKD-chaincode", newCC[:])

	return NewKeypairFromMiniSecret(mini, ExpandEd25519), newCC
}
