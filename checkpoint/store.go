// Package checkpoint binds validator checkpoint storage: location parsing,
// the S3 and local filesystem backends, and the per-validator read-through
// registry the multisig metadata builder fetches through.
package checkpoint

import (
	"context"
	"fmt"

	"github.com/celestiaorg/hyperlane-metadata/types"
)

// Object keys used by every storage backend. These are fixed by the validator
// agents that write them.
const (
	latestIndexKey  = "checkpoint_latest_index.json"
	announcementKey = "announcement.json"
)

func checkpointKey(index uint32) string {
	return fmt.Sprintf("checkpoint_%d_with_id.json", index)
}

// Store reads one validator's published checkpoints.
type Store interface {
	// Announcement returns the validator's announcement object.
	Announcement(ctx context.Context) (types.Announcement, error)

	// LatestIndex returns the highest signed checkpoint index, or -1 when the
	// validator has not signed any checkpoint yet.
	LatestIndex(ctx context.Context) (int64, error)

	// Checkpoint returns the signed checkpoint at index, or nil when the
	// validator has not signed that index.
	Checkpoint(ctx context.Context, index uint32) (*types.SignedCheckpointWithMessageId, error)
}
