package types

import (
	"github.com/bcp-innovations/hyperlane-cosmos/util"
)

// HookConfig is the post-dispatch hook configuration tree of the origin
// mailbox. Only the merkle tree hook is consulted by the metadata core; the
// remaining kinds exist so a full hook tree can be represented and searched.
type HookConfig interface {
	isHookConfig()
}

// MerkleTreeHook is the hook that inserts dispatched message ids into the
// incremental merkle tree validators checkpoint.
type MerkleTreeHook struct {
	Addr util.HexAddress
}

// AggregationHook fans dispatch out to several child hooks. Merkle tree hooks
// may be nested arbitrarily deep under it.
type AggregationHook struct {
	Hooks []HookConfig
}

// InterchainGasPaymasterHook collects gas payment; opaque to this core.
type InterchainGasPaymasterHook struct {
	Addr util.HexAddress
}

// ProtocolFeeHook charges the protocol fee; opaque to this core.
type ProtocolFeeHook struct {
	Addr util.HexAddress
}

// PausableHook gates dispatch; opaque to this core.
type PausableHook struct {
	Addr util.HexAddress
}

// OpStackHook relays through the OP stack bridge; opaque to this core.
type OpStackHook struct {
	Addr util.HexAddress
}

func (MerkleTreeHook) isHookConfig()             {}
func (AggregationHook) isHookConfig()            {}
func (InterchainGasPaymasterHook) isHookConfig() {}
func (ProtocolFeeHook) isHookConfig()            {}
func (PausableHook) isHookConfig()               {}
func (OpStackHook) isHookConfig()                {}

// FindMerkleTreeHook walks the hook tree depth-first and returns the first
// merkle tree hook it encounters.
func FindMerkleTreeHook(hook HookConfig) (MerkleTreeHook, bool) {
	switch h := hook.(type) {
	case MerkleTreeHook:
		return h, true
	case AggregationHook:
		for _, child := range h.Hooks {
			if found, ok := FindMerkleTreeHook(child); ok {
				return found, true
			}
		}
	}
	return MerkleTreeHook{}, false
}
