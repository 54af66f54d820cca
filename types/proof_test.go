package types_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/hyperlane-metadata/types"
)

func TestProofRoot(t *testing.T) {
	leafA := crypto.Keccak256Hash([]byte("leaf a"))
	leafB := crypto.Keccak256Hash([]byte("leaf b"))

	// two-leaf tree: each leaf proves against the sibling at level zero and
	// shared padding above, so both proofs must agree on the root
	var padding [types.TreeDepth]common.Hash
	for i := 1; i < types.TreeDepth; i++ {
		padding[i] = crypto.Keccak256Hash([]byte{byte(i)})
	}

	proofA := types.Proof{Index: 0, Leaf: leafA, Branch: padding}
	proofA.Branch[0] = leafB
	proofB := types.Proof{Index: 1, Leaf: leafB, Branch: padding}
	proofB.Branch[0] = leafA

	require.Equal(t, proofA.Root(), proofB.Root())

	t.Run("root commits to the leaf", func(t *testing.T) {
		tampered := proofA
		tampered.Leaf = crypto.Keccak256Hash([]byte("leaf c"))
		require.NotEqual(t, proofA.Root(), tampered.Root())
	})

	t.Run("root commits to the path", func(t *testing.T) {
		tampered := proofA
		tampered.Index = 2
		require.NotEqual(t, proofA.Root(), tampered.Root())
	})
}

func TestProofBranchBytes(t *testing.T) {
	var proof types.Proof
	for i := range proof.Branch {
		proof.Branch[i] = common.BytesToHash([]byte{byte(i + 1)})
	}

	bz := proof.BranchBytes()
	require.Len(t, bz, types.TreeDepth*32)
	require.Equal(t, proof.Branch[0].Bytes(), bz[:32])
	require.Equal(t, proof.Branch[types.TreeDepth-1].Bytes(), bz[len(bz)-32:])
}
