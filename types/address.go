package types

import (
	"github.com/bcp-innovations/hyperlane-cosmos/util"
	"github.com/ethereum/go-ethereum/common"
)

// EvmAddress truncates a 32-byte hyperlane address to its low 20 bytes, the
// form it takes in EVM log entries and validator sets.
func EvmAddress(addr util.HexAddress) common.Address {
	return common.BytesToAddress(addr.Bytes()[12:])
}

// PadEvmAddress left-pads a 20-byte EVM address to the 32-byte hyperlane form.
func PadEvmAddress(addr common.Address) util.HexAddress {
	var out [32]byte
	copy(out[12:], addr.Bytes())
	return util.HexAddress(out)
}
