package metadata_test

import (
	"testing"

	"github.com/bcp-innovations/hyperlane-cosmos/util"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/hyperlane-metadata/metadata"
	"github.com/celestiaorg/hyperlane-metadata/types"
)

func TestDecode(t *testing.T) {
	hook := util.CreateMockHexAddress("merkle_hook", 1)
	root := common.HexToHash("0x290decd9548b62a8d60345a988386fc84ba6bc95484008f6362f93160ef3e563")

	multisigIsm := types.MultisigIsm{
		Addr:       util.CreateMockHexAddress("ism", 1),
		Variant:    types.ModuleTypeMessageIdMultisig,
		Validators: []common.Address{{0x01}, {0x02}},
		Threshold:  1,
	}
	multisigBlob := metadata.MessageIdMetadata{
		MerkleTreeHookAddress: hook,
		Root:                  root,
		Index:                 7,
		Signatures:            []types.Signature{testSignature(t, 0xaa)},
	}.Encode()

	t.Run("message id multisig", func(t *testing.T) {
		decoded, err := metadata.Decode(multisigIsm, testOrigin, multisigBlob)
		require.NoError(t, err)
		require.NotNil(t, decoded.MessageId)
		require.Equal(t, root, decoded.MessageId.Root)
		require.Equal(t, uint32(7), decoded.MessageId.Index)
	})

	t.Run("aggregation splits along the offset table", func(t *testing.T) {
		nullIsm := types.NullIsm{Addr: util.CreateMockHexAddress("null", 1)}
		aggregation := types.AggregationIsm{
			Addr:      util.CreateMockHexAddress("agg", 1),
			Modules:   []types.IsmConfig{multisigIsm, nullIsm, multisigIsm},
			Threshold: 2,
		}
		blob := metadata.EncodeAggregationMetadata([][]byte{multisigBlob, nil, multisigBlob})

		decoded, err := metadata.Decode(aggregation, testOrigin, blob)
		require.NoError(t, err)
		require.Len(t, decoded.Children, 3)
		require.NotNil(t, decoded.Children[0])
		require.Nil(t, decoded.Children[1])
		require.NotNil(t, decoded.Children[2])
		require.Equal(t, multisigBlob, decoded.Children[0].Raw)
		require.NotNil(t, decoded.Children[0].MessageId)
	})

	t.Run("routing follows the enrolled child", func(t *testing.T) {
		routing := types.RoutingIsm{
			Addr:    util.CreateMockHexAddress("routing", 1),
			Domains: map[uint32]types.IsmConfig{testOrigin: multisigIsm},
		}
		decoded, err := metadata.Decode(routing, testOrigin, multisigBlob)
		require.NoError(t, err)
		require.Len(t, decoded.Children, 1)
		require.NotNil(t, decoded.Children[0].MessageId)
	})

	t.Run("routing with an unenrolled origin", func(t *testing.T) {
		routing := types.RoutingIsm{
			Addr:    util.CreateMockHexAddress("routing", 2),
			Domains: map[uint32]types.IsmConfig{},
		}
		_, err := metadata.Decode(routing, testOrigin, multisigBlob)
		require.ErrorIs(t, err, types.ErrOriginNotEnrolled)
	})

	t.Run("fallback routes cannot be resolved offline", func(t *testing.T) {
		routing := types.FallbackRoutingIsm{
			Addr:    util.CreateMockHexAddress("routing", 3),
			Domains: map[uint32]types.IsmConfig{},
		}
		_, err := metadata.Decode(routing, testOrigin, multisigBlob)
		require.ErrorIs(t, err, types.ErrOriginNotEnrolled)
	})

	t.Run("unsupported module type", func(t *testing.T) {
		_, err := metadata.Decode(types.CcipReadIsm{Addr: util.CreateMockHexAddress("ccip", 1)}, testOrigin, nil)
		require.ErrorIs(t, err, types.ErrUnsupportedIsmType)
	})
}
