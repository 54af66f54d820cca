package types_test

import (
	"testing"

	"github.com/bcp-innovations/hyperlane-cosmos/util"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/hyperlane-metadata/types"
)

func TestFindMerkleTreeHook(t *testing.T) {
	merkle := types.MerkleTreeHook{Addr: util.CreateMockHexAddress("merkle_hook", 1)}

	testCases := []struct {
		name  string
		hook  types.HookConfig
		found bool
	}{
		{name: "direct merkle hook", hook: merkle, found: true},
		{
			name: "nested under aggregation",
			hook: types.AggregationHook{Hooks: []types.HookConfig{
				types.ProtocolFeeHook{Addr: util.CreateMockHexAddress("fee", 1)},
				types.AggregationHook{Hooks: []types.HookConfig{
					types.InterchainGasPaymasterHook{Addr: util.CreateMockHexAddress("igp", 1)},
					merkle,
				}},
			}},
			found: true,
		},
		{
			name: "no merkle hook anywhere",
			hook: types.AggregationHook{Hooks: []types.HookConfig{
				types.PausableHook{Addr: util.CreateMockHexAddress("pausable", 1)},
				types.OpStackHook{Addr: util.CreateMockHexAddress("opstack", 1)},
			}},
		},
		{name: "nil hook"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			found, ok := types.FindMerkleTreeHook(tc.hook)
			require.Equal(t, tc.found, ok)
			if tc.found {
				require.Equal(t, merkle, found)
			}
		})
	}
}
