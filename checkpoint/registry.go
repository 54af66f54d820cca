package checkpoint

import (
	"context"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"

	"github.com/celestiaorg/hyperlane-metadata/types"
)

// AnnounceReader reads the announced storage locations of a validator from
// the origin chain's validator announce contract. It is an external
// collaborator; per-chain bindings live outside this module.
type AnnounceReader interface {
	AnnouncedStorageLocations(ctx context.Context, origin uint32, validator common.Address) ([]string, error)
}

type registryKey struct {
	origin    uint32
	validator common.Address
}

// Registry resolves and caches one checkpoint store per (origin, validator).
// Resolution walks the validator's announced locations most recent first and
// keeps the first one that parses into a usable backend. The cache is
// read-through and never evicts; concurrent population is idempotent.
type Registry struct {
	announce   AnnounceReader
	allowLocal bool
	logger     log.Logger

	// buildS3 is swappable so tests can avoid real AWS config resolution.
	buildS3 func(ctx context.Context, loc Location) (Store, error)

	mu     sync.Mutex
	stores map[registryKey]Store
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithAllowLocal permits file:// storage locations. Disallowed by default:
// a remote relayer cannot read another operator's disk, so announced local
// locations are almost always misconfigurations.
func WithAllowLocal() RegistryOption {
	return func(r *Registry) { r.allowLocal = true }
}

func WithLogger(logger log.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// WithStoreBuilder overrides how s3:// locations become stores.
func WithStoreBuilder(build func(ctx context.Context, loc Location) (Store, error)) RegistryOption {
	return func(r *Registry) { r.buildS3 = build }
}

func NewRegistry(announce AnnounceReader, opts ...RegistryOption) *Registry {
	r := &Registry{
		announce: announce,
		logger:   log.NewNopLogger(),
		stores:   make(map[registryKey]Store),
	}
	r.buildS3 = func(ctx context.Context, loc Location) (Store, error) {
		return NewS3Store(ctx, loc)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StoreFor returns the checkpoint store for a validator on an origin domain,
// resolving and caching it on first use.
func (r *Registry) StoreFor(ctx context.Context, origin uint32, validator common.Address) (Store, error) {
	key := registryKey{origin: origin, validator: validator}

	r.mu.Lock()
	store, ok := r.stores[key]
	r.mu.Unlock()
	if ok {
		return store, nil
	}

	// Resolve outside the lock; a concurrent duplicate resolution is harmless
	// because the write below is idempotent.
	store, err := r.resolve(ctx, origin, validator)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if existing, ok := r.stores[key]; ok {
		store = existing
	} else {
		r.stores[key] = store
	}
	r.mu.Unlock()
	return store, nil
}

func (r *Registry) resolve(ctx context.Context, origin uint32, validator common.Address) (Store, error) {
	locations, err := r.announce.AnnouncedStorageLocations(ctx, origin, validator)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, errorsmod.Wrapf(types.ErrInvalidCheckpointStorage, "validator %s has not announced a storage location", validator)
	}

	// Only use the most recently announced location that works.
	for i := len(locations) - 1; i >= 0; i-- {
		loc, err := ParseLocation(locations[i])
		if err != nil {
			r.logger.Debug("skipping unparseable storage location",
				"validator", validator.Hex(), "location", locations[i], "err", err)
			continue
		}

		switch loc.Scheme {
		case SchemeS3:
			store, err := r.buildS3(ctx, loc)
			if err != nil {
				r.logger.Debug("failed to build s3 checkpoint store",
					"validator", validator.Hex(), "location", locations[i], "err", err)
				continue
			}
			return store, nil
		case SchemeFile:
			if !r.allowLocal {
				r.logger.Debug("ignoring disallowed local storage location",
					"validator", validator.Hex(), "location", locations[i])
				continue
			}
			return NewLocalStore(loc)
		}
	}
	return nil, errorsmod.Wrapf(types.ErrInvalidCheckpointStorage, "validator %s announced no usable storage location", validator)
}
