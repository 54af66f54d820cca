package types_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/hyperlane-metadata/types"
)

func TestNewSignature(t *testing.T) {
	_, err := types.NewSignature(make([]byte, 64))
	require.ErrorIs(t, err, types.ErrInvalidSignature)

	raw := make([]byte, types.SignatureLength)
	raw[0] = 0x01
	raw[32] = 0x02
	raw[64] = 27

	sig, err := types.NewSignature(raw)
	require.NoError(t, err)
	require.Equal(t, raw, sig.Bytes())
	require.Equal(t, common.BytesToHash(raw[:32]), sig.R())
	require.Equal(t, common.BytesToHash(raw[32:64]), sig.S())
	require.Equal(t, uint8(27), sig.V())
	require.Equal(t, sig, types.NewSignatureFromParts(sig.R(), sig.S(), sig.V()))
}

func TestRecoverEthSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	digest := crypto.Keccak256Hash([]byte("checkpoint digest"))
	raw, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)

	t.Run("raw recovery id", func(t *testing.T) {
		sig, err := types.NewSignature(raw)
		require.NoError(t, err)
		recovered, err := types.RecoverEthSigner(digest, sig)
		require.NoError(t, err)
		require.Equal(t, signer, recovered)
	})

	t.Run("ethereum recovery id", func(t *testing.T) {
		shifted := make([]byte, len(raw))
		copy(shifted, raw)
		shifted[64] += 27
		sig, err := types.NewSignature(shifted)
		require.NoError(t, err)
		recovered, err := types.RecoverEthSigner(digest, sig)
		require.NoError(t, err)
		require.Equal(t, signer, recovered)
	})

	t.Run("invalid recovery id", func(t *testing.T) {
		var sig types.Signature
		copy(sig[:], raw)
		sig[64] = 5
		_, err := types.RecoverEthSigner(digest, sig)
		require.ErrorIs(t, err, types.ErrInvalidSignature)
	})

	t.Run("different digest recovers a different address", func(t *testing.T) {
		sig, err := types.NewSignature(raw)
		require.NoError(t, err)
		recovered, err := types.RecoverEthSigner(crypto.Keccak256Hash([]byte("other")), sig)
		require.NoError(t, err)
		require.NotEqual(t, signer, recovered)
	})
}
