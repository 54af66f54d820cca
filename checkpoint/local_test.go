package checkpoint_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/bcp-innovations/hyperlane-cosmos/util"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/hyperlane-metadata/checkpoint"
	"github.com/celestiaorg/hyperlane-metadata/types"
)

func testSignedCheckpoint(index uint32) types.SignedCheckpointWithMessageId {
	return types.SignedCheckpointWithMessageId{
		Value: types.CheckpointWithMessageId{
			Checkpoint: types.Checkpoint{
				MerkleTreeHookAddress: util.CreateMockHexAddress("merkle_hook", 1),
				MailboxDomain:         1000,
				Root:                  common.HexToHash("0x290decd9548b62a8d60345a988386fc84ba6bc95484008f6362f93160ef3e563"),
				Index:                 index,
			},
			MessageId: util.CreateMockHexAddress("message", int64(index)),
		},
		Signature: types.NewSignatureFromParts(common.HexToHash("0x01"), common.HexToHash("0x02"), 27),
	}
}

func writeJSON(t *testing.T, dir, name string, v any) {
	t.Helper()
	bz, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), bz, 0o644))
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	announcement := types.Announcement{
		Validator:      common.HexToAddress("0x05a9b5efe9f61f9142453d8e9f61565f333c6768"),
		MailboxAddress: util.CreateMockHexAddress("mailbox", 1),
		MailboxDomain:  1000,
	}
	signed := testSignedCheckpoint(5)

	writeJSON(t, dir, "announcement.json", announcement)
	writeJSON(t, dir, "checkpoint_5_with_id.json", signed)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "checkpoint_latest_index.json"), []byte("5"), 0o644))

	store, err := checkpoint.NewLocalStore(checkpoint.Location{Scheme: checkpoint.SchemeFile, Path: dir})
	require.NoError(t, err)

	t.Run("announcement", func(t *testing.T) {
		got, err := store.Announcement(ctx)
		require.NoError(t, err)
		require.Equal(t, announcement, got)
	})

	t.Run("latest index", func(t *testing.T) {
		latest, err := store.LatestIndex(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 5, latest)
	})

	t.Run("checkpoint present", func(t *testing.T) {
		got, err := store.Checkpoint(ctx, 5)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, signed, *got)
	})

	t.Run("checkpoint absent", func(t *testing.T) {
		got, err := store.Checkpoint(ctx, 6)
		require.NoError(t, err)
		require.Nil(t, got)
	})

	t.Run("empty directory", func(t *testing.T) {
		empty, err := checkpoint.NewLocalStore(checkpoint.Location{Scheme: checkpoint.SchemeFile, Path: t.TempDir()})
		require.NoError(t, err)

		latest, err := empty.LatestIndex(ctx)
		require.NoError(t, err)
		require.EqualValues(t, -1, latest)

		_, err = empty.Announcement(ctx)
		require.ErrorIs(t, err, types.ErrInvalidCheckpointStorage)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		_, err := checkpoint.NewLocalStore(checkpoint.Location{Scheme: checkpoint.SchemeS3, Bucket: "bucket"})
		require.ErrorIs(t, err, types.ErrInvalidCheckpointStorage)
	})
}
