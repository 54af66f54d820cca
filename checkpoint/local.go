package checkpoint

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/celestiaorg/hyperlane-metadata/types"
)

// LocalStore reads checkpoints from a directory laid out with the same object
// keys as the S3 backend. Validators use it for air-gapped setups and tests;
// the registry only builds it when explicitly allowed.
type LocalStore struct {
	dir string
}

func NewLocalStore(loc Location) (*LocalStore, error) {
	if loc.Scheme != SchemeFile {
		return nil, errorsmod.Wrapf(types.ErrInvalidCheckpointStorage, "not a file location: %q", loc.Scheme)
	}
	return &LocalStore{dir: loc.Path}, nil
}

// readFile returns nil with no error when the file does not exist, mirroring
// the absent semantics of the S3 backend.
func (s *LocalStore) readFile(name string) ([]byte, error) {
	bz, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return bz, nil
}

func (s *LocalStore) Announcement(_ context.Context) (types.Announcement, error) {
	bz, err := s.readFile(announcementKey)
	if err != nil {
		return types.Announcement{}, err
	}
	if bz == nil {
		return types.Announcement{}, errorsmod.Wrapf(types.ErrInvalidCheckpointStorage, "%s has no announcement", s.dir)
	}
	var announcement types.Announcement
	if err := json.Unmarshal(bz, &announcement); err != nil {
		return types.Announcement{}, err
	}
	return announcement, nil
}

func (s *LocalStore) LatestIndex(_ context.Context) (int64, error) {
	bz, err := s.readFile(latestIndexKey)
	if err != nil {
		return -1, err
	}
	if bz == nil {
		return -1, nil
	}
	index, err := strconv.ParseInt(strings.TrimSpace(string(bz)), 10, 64)
	if err != nil {
		return -1, errorsmod.Wrapf(types.ErrInvalidCheckpointStorage, "malformed latest index: %s", err)
	}
	return index, nil
}

func (s *LocalStore) Checkpoint(_ context.Context, index uint32) (*types.SignedCheckpointWithMessageId, error) {
	bz, err := s.readFile(checkpointKey(index))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	var signed types.SignedCheckpointWithMessageId
	if err := json.Unmarshal(bz, &signed); err != nil {
		return nil, err
	}
	return &signed, nil
}

var _ Store = (*LocalStore)(nil)
