package types

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the byte length of a serialized ECDSA signature in
// r(32) || s(32) || v(1) layout.
const SignatureLength = 65

// Signature is a 65-byte secp256k1 signature over a checkpoint digest.
// The recovery id v is stored in Ethereum convention (27 or 28).
type Signature [SignatureLength]byte

// NewSignature copies a 65-byte slice into a Signature.
func NewSignature(bz []byte) (Signature, error) {
	if len(bz) != SignatureLength {
		return Signature{}, errorsmod.Wrapf(ErrInvalidSignature, "expected %d bytes, got %d", SignatureLength, len(bz))
	}
	var sig Signature
	copy(sig[:], bz)
	return sig, nil
}

// NewSignatureFromParts assembles a signature from its split representation.
func NewSignatureFromParts(r, s common.Hash, v uint8) Signature {
	var sig Signature
	copy(sig[:32], r.Bytes())
	copy(sig[32:64], s.Bytes())
	sig[64] = v
	return sig
}

func (sig Signature) R() common.Hash { return common.BytesToHash(sig[:32]) }
func (sig Signature) S() common.Hash { return common.BytesToHash(sig[32:64]) }
func (sig Signature) V() uint8       { return sig[64] }

func (sig Signature) Bytes() []byte {
	return sig[:]
}

// RecoverEthSigner recovers the 20-byte signer address from a digest and
// signature. It is the default binding of the signature-verification
// capability the builders require.
func RecoverEthSigner(digest common.Hash, sig Signature) (common.Address, error) {
	recoverable := make([]byte, SignatureLength)
	copy(recoverable, sig[:64])
	v := sig[64]
	// normalize the Ethereum-convention recovery id for libsecp256k1
	if v == 27 || v == 28 {
		v -= 27
	}
	if v > 1 {
		return common.Address{}, errorsmod.Wrapf(ErrInvalidSignature, "invalid recovery id %d", sig[64])
	}
	recoverable[64] = v

	pubkey, err := crypto.SigToPub(digest.Bytes(), recoverable)
	if err != nil {
		return common.Address{}, errorsmod.Wrap(ErrInvalidSignature, err.Error())
	}
	return crypto.PubkeyToAddress(*pubkey), nil
}
