package types

import (
	"github.com/bcp-innovations/hyperlane-cosmos/util"
	"github.com/ethereum/go-ethereum/common"
)

// ModuleType mirrors the on-chain IInterchainSecurityModule.Types enum.
type ModuleType uint8

const (
	ModuleTypeUnused ModuleType = iota
	ModuleTypeRouting
	ModuleTypeAggregation
	ModuleTypeLegacyMultisig
	ModuleTypeMerkleRootMultisig
	ModuleTypeMessageIdMultisig
	ModuleTypeNull
	ModuleTypeCcipRead
	ModuleTypeArbL2ToL1
)

func (t ModuleType) String() string {
	switch t {
	case ModuleTypeRouting:
		return "routing"
	case ModuleTypeAggregation:
		return "aggregation"
	case ModuleTypeLegacyMultisig:
		return "legacy_multisig"
	case ModuleTypeMerkleRootMultisig:
		return "merkle_root_multisig"
	case ModuleTypeMessageIdMultisig:
		return "message_id_multisig"
	case ModuleTypeNull:
		return "null"
	case ModuleTypeCcipRead:
		return "ccip_read"
	case ModuleTypeArbL2ToL1:
		return "arb_l2_to_l1"
	default:
		return "unused"
	}
}

// IsmConfig is the closed sum over ISM variants. The dispatcher switches
// exhaustively on the concrete type; adding a variant is a compile-time
// exercise, never open-ended dynamic dispatch.
type IsmConfig interface {
	Address() util.HexAddress
	ModuleType() ModuleType

	isIsmConfig()
}

// NullVariant distinguishes the ISM kinds that all report ModuleTypeNull
// on chain and require no proof material.
type NullVariant uint8

const (
	NullVariantTestIsm NullVariant = iota
	NullVariantPausable
	NullVariantOpStack
	NullVariantTrustedRelayer
)

// NullIsm covers the proof-free variants. Relayer is set only for
// NullVariantTrustedRelayer.
type NullIsm struct {
	Addr    util.HexAddress
	Variant NullVariant
	Relayer util.HexAddress
}

// MultisigIsm requires Threshold of Validators to have signed a checkpoint
// covering the message. Variant is one of ModuleTypeMerkleRootMultisig or
// ModuleTypeMessageIdMultisig and selects the wire format.
type MultisigIsm struct {
	Addr       util.HexAddress
	Variant    ModuleType
	Validators []common.Address
	Threshold  uint8
}

// AggregationIsm requires Threshold of Modules to verify independently.
type AggregationIsm struct {
	Addr      util.HexAddress
	Modules   []IsmConfig
	Threshold uint8
}

// RoutingIsm delegates to a per-origin-domain child ISM.
type RoutingIsm struct {
	Addr    util.HexAddress
	Domains map[uint32]IsmConfig
}

// FallbackRoutingIsm behaves like RoutingIsm but defers unenrolled origins to
// the on-chain module resolver instead of failing outright.
type FallbackRoutingIsm struct {
	Addr    util.HexAddress
	Domains map[uint32]IsmConfig
}

// ArbL2ToL1Ism verifies messages through Arbitrum's native outbox. The
// dispatcher recognizes it but this core does not assemble its metadata.
type ArbL2ToL1Ism struct {
	Addr   util.HexAddress
	Bridge util.HexAddress
}

// CcipReadIsm verifies through an offchain lookup server. Recognized but not
// assembled by this core.
type CcipReadIsm struct {
	Addr util.HexAddress
	Urls []string
}

func (i NullIsm) Address() util.HexAddress            { return i.Addr }
func (i MultisigIsm) Address() util.HexAddress        { return i.Addr }
func (i AggregationIsm) Address() util.HexAddress     { return i.Addr }
func (i RoutingIsm) Address() util.HexAddress         { return i.Addr }
func (i FallbackRoutingIsm) Address() util.HexAddress { return i.Addr }
func (i ArbL2ToL1Ism) Address() util.HexAddress       { return i.Addr }
func (i CcipReadIsm) Address() util.HexAddress        { return i.Addr }

func (i NullIsm) ModuleType() ModuleType            { return ModuleTypeNull }
func (i MultisigIsm) ModuleType() ModuleType        { return i.Variant }
func (i AggregationIsm) ModuleType() ModuleType     { return ModuleTypeAggregation }
func (i RoutingIsm) ModuleType() ModuleType         { return ModuleTypeRouting }
func (i FallbackRoutingIsm) ModuleType() ModuleType { return ModuleTypeRouting }
func (i ArbL2ToL1Ism) ModuleType() ModuleType       { return ModuleTypeArbL2ToL1 }
func (i CcipReadIsm) ModuleType() ModuleType        { return ModuleTypeCcipRead }

func (NullIsm) isIsmConfig()            {}
func (MultisigIsm) isIsmConfig()        {}
func (AggregationIsm) isIsmConfig()     {}
func (RoutingIsm) isIsmConfig()         {}
func (FallbackRoutingIsm) isIsmConfig() {}
func (ArbL2ToL1Ism) isIsmConfig()       {}
func (CcipReadIsm) isIsmConfig()        {}
