package checkpoint_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/hyperlane-metadata/checkpoint"
	"github.com/celestiaorg/hyperlane-metadata/types"
)

type fakeAnnounce struct {
	locations map[common.Address][]string
	err       error
}

func (f fakeAnnounce) AnnouncedStorageLocations(_ context.Context, _ uint32, validator common.Address) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.locations[validator], nil
}

type stubStore struct {
	checkpoint.Store
	bucket string
}

func stubBuilder(built *int) func(context.Context, checkpoint.Location) (checkpoint.Store, error) {
	return func(_ context.Context, loc checkpoint.Location) (checkpoint.Store, error) {
		*built++
		return stubStore{bucket: loc.Bucket}, nil
	}
}

func TestRegistryStoreFor(t *testing.T) {
	ctx := context.Background()
	validator := common.HexToAddress("0x05a9b5efe9f61f9142453d8e9f61565f333c6768")

	t.Run("most recent location wins", func(t *testing.T) {
		announce := fakeAnnounce{locations: map[common.Address][]string{
			validator: {"s3://old-bucket/us-east-1", "s3://new-bucket/us-east-1"},
		}}
		built := 0
		registry := checkpoint.NewRegistry(announce, checkpoint.WithStoreBuilder(stubBuilder(&built)))

		store, err := registry.StoreFor(ctx, 1000, validator)
		require.NoError(t, err)
		require.Equal(t, "new-bucket", store.(stubStore).bucket)
	})

	t.Run("unparseable locations are skipped", func(t *testing.T) {
		announce := fakeAnnounce{locations: map[common.Address][]string{
			validator: {"s3://bucket/us-east-1", "not a location"},
		}}
		built := 0
		registry := checkpoint.NewRegistry(announce, checkpoint.WithStoreBuilder(stubBuilder(&built)))

		store, err := registry.StoreFor(ctx, 1000, validator)
		require.NoError(t, err)
		require.Equal(t, "bucket", store.(stubStore).bucket)
	})

	t.Run("resolution is cached", func(t *testing.T) {
		announce := fakeAnnounce{locations: map[common.Address][]string{
			validator: {"s3://bucket/us-east-1"},
		}}
		built := 0
		registry := checkpoint.NewRegistry(announce, checkpoint.WithStoreBuilder(stubBuilder(&built)))

		first, err := registry.StoreFor(ctx, 1000, validator)
		require.NoError(t, err)
		second, err := registry.StoreFor(ctx, 1000, validator)
		require.NoError(t, err)
		require.Equal(t, first, second)
		require.Equal(t, 1, built)

		// a different origin resolves independently
		_, err = registry.StoreFor(ctx, 2000, validator)
		require.NoError(t, err)
		require.Equal(t, 2, built)
	})

	t.Run("local locations need opting in", func(t *testing.T) {
		announce := fakeAnnounce{locations: map[common.Address][]string{
			validator: {"file:///var/checkpoints"},
		}}
		built := 0

		registry := checkpoint.NewRegistry(announce, checkpoint.WithStoreBuilder(stubBuilder(&built)))
		_, err := registry.StoreFor(ctx, 1000, validator)
		require.ErrorIs(t, err, types.ErrInvalidCheckpointStorage)

		permissive := checkpoint.NewRegistry(announce,
			checkpoint.WithStoreBuilder(stubBuilder(&built)),
			checkpoint.WithAllowLocal(),
		)
		store, err := permissive.StoreFor(ctx, 1000, validator)
		require.NoError(t, err)
		require.IsType(t, &checkpoint.LocalStore{}, store)
	})

	t.Run("no announced locations", func(t *testing.T) {
		registry := checkpoint.NewRegistry(fakeAnnounce{})
		_, err := registry.StoreFor(ctx, 1000, validator)
		require.ErrorIs(t, err, types.ErrInvalidCheckpointStorage)
	})

	t.Run("announce reader failure propagates", func(t *testing.T) {
		registry := checkpoint.NewRegistry(fakeAnnounce{err: fmt.Errorf("rpc unavailable")})
		_, err := registry.StoreFor(ctx, 1000, validator)
		require.ErrorContains(t, err, "rpc unavailable")
	})
}
