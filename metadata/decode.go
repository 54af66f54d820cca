package metadata

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/celestiaorg/hyperlane-metadata/types"
)

// Decoded is the structural view of a metadata blob against the ISM config it
// was built for. Exactly one payload field is set per node, matching the
// config's module type.
type Decoded struct {
	Ism        types.IsmConfig
	Raw        []byte
	MessageId  *MessageIdMetadata
	MerkleRoot *MerkleRootMetadata

	// Children holds one entry per submodule for aggregation configs, with
	// nil where the blob carries no metadata, and a single entry for routing
	// configs.
	Children []*Decoded
}

// Decode splits a metadata blob along the shape of the ISM config it targets.
// It is a pure function of its inputs; routing nodes are followed using
// origin, and a fallback route that is not enrolled cannot be resolved
// offline.
func Decode(ism types.IsmConfig, origin uint32, raw []byte) (*Decoded, error) {
	d := &Decoded{Ism: ism, Raw: raw}

	switch ism := ism.(type) {
	case types.NullIsm:
		return d, nil

	case types.MultisigIsm:
		switch ism.Variant {
		case types.ModuleTypeMessageIdMultisig:
			m, err := DecodeMessageIdMetadata(raw)
			if err != nil {
				return nil, err
			}
			d.MessageId = &m
		case types.ModuleTypeMerkleRootMultisig:
			m, err := DecodeMerkleRootMetadata(raw)
			if err != nil {
				return nil, err
			}
			d.MerkleRoot = &m
		default:
			return nil, errorsmod.Wrapf(types.ErrUnsupportedIsmType, "multisig variant %s", ism.Variant)
		}
		return d, nil

	case types.AggregationIsm:
		subMetadata, err := DecodeAggregationMetadata(raw, len(ism.Modules))
		if err != nil {
			return nil, err
		}
		d.Children = make([]*Decoded, len(ism.Modules))
		for i, sub := range ism.Modules {
			if subMetadata[i] == nil {
				continue
			}
			child, err := Decode(sub, origin, subMetadata[i])
			if err != nil {
				return nil, errorsmod.Wrapf(err, "aggregation submodule %d", i)
			}
			d.Children[i] = child
		}
		return d, nil

	case types.RoutingIsm:
		child, ok := ism.Domains[origin]
		if !ok {
			return nil, errorsmod.Wrapf(types.ErrOriginNotEnrolled, "domain %d", origin)
		}
		decoded, err := Decode(child, origin, raw)
		if err != nil {
			return nil, err
		}
		d.Children = []*Decoded{decoded}
		return d, nil

	case types.FallbackRoutingIsm:
		child, ok := ism.Domains[origin]
		if !ok {
			return nil, errorsmod.Wrapf(types.ErrOriginNotEnrolled, "domain %d routes through the on-chain fallback", origin)
		}
		decoded, err := Decode(child, origin, raw)
		if err != nil {
			return nil, err
		}
		d.Children = []*Decoded{decoded}
		return d, nil

	default:
		return nil, errorsmod.Wrapf(types.ErrUnsupportedIsmType, "%T", ism)
	}
}
