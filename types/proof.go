package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// TreeDepth is the depth of the mailbox incremental merkle tree.
const TreeDepth = 32

// Proof is a membership proof for a leaf in the origin merkle tree.
type Proof struct {
	Index  uint32
	Leaf   common.Hash
	Branch [TreeDepth]common.Hash
}

// Root folds the branch over the leaf along the path given by Index,
// reproducing the tree root the proof commits to.
func (p Proof) Root() common.Hash {
	node := p.Leaf
	for i := 0; i < TreeDepth; i++ {
		if (p.Index>>i)&1 == 1 {
			node = crypto.Keccak256Hash(p.Branch[i].Bytes(), node.Bytes())
		} else {
			node = crypto.Keccak256Hash(node.Bytes(), p.Branch[i].Bytes())
		}
	}
	return node
}

// BranchBytes flattens the branch into the 1024-byte form the wire codec
// embeds in merkle-root multisig metadata.
func (p Proof) BranchBytes() []byte {
	out := make([]byte, 0, TreeDepth*32)
	for i := 0; i < TreeDepth; i++ {
		out = append(out, p.Branch[i].Bytes()...)
	}
	return out
}
