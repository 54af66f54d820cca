// Package metadata assembles the verification metadata blobs consumed by
// on-chain interchain security modules. The Builder dispatches recursively
// over the destination ISM configuration; the byte formats it emits must
// match the on-chain decoders exactly.
package metadata

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/bcp-innovations/hyperlane-cosmos/util"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/celestiaorg/hyperlane-metadata/checkpoint"
	"github.com/celestiaorg/hyperlane-metadata/metrics"
	"github.com/celestiaorg/hyperlane-metadata/types"
)

// DefaultMaxDepth bounds ISM recursion. The depth counter is the mechanism
// that stops maliciously deep or cyclic nested configurations, independent of
// context cancellation.
const DefaultMaxDepth = 10

// Context is the unit of work threaded through the recursion. It is never
// mutated; descending into a nested ISM rebuilds it.
type Context struct {
	Message    util.HyperlaneMessage
	Ism        types.IsmConfig
	Hook       types.HookConfig
	DispatchTx *ethtypes.Receipt
}

// WithIsm returns a copy of the context pointed at a nested ISM.
func (c Context) WithIsm(ism types.IsmConfig) Context {
	c.Ism = ism
	return c
}

// StoreProvider resolves a validator's checkpoint store. *checkpoint.Registry
// is the production implementation.
type StoreProvider interface {
	StoreFor(ctx context.Context, origin uint32, validator common.Address) (checkpoint.Store, error)
}

// IsmReader reads ISM configuration from the destination chain. It is only
// consulted by fallback routing, where the route must be resolved on chain.
type IsmReader interface {
	// DeriveIsmConfig reads and structures the ISM config at an address.
	DeriveIsmConfig(ctx context.Context, address util.HexAddress) (types.IsmConfig, error)

	// RouteIsm asks a fallback routing ISM which module it would use for a
	// message whose origin is not enrolled.
	RouteIsm(ctx context.Context, ism types.FallbackRoutingIsm, message util.HyperlaneMessage) (util.HexAddress, error)
}

// ProofSource produces merkle membership proofs for the origin tree; required
// only by the merkle-root multisig path.
type ProofSource interface {
	Proof(ctx context.Context, leafIndex uint32, checkpointIndex uint32) (types.Proof, error)
}

// SignatureVerifier is the injected ECDSA recovery capability.
type SignatureVerifier interface {
	RecoverSigner(digest common.Hash, sig types.Signature) (common.Address, error)
}

type ethSignatureVerifier struct{}

func (ethSignatureVerifier) RecoverSigner(digest common.Hash, sig types.Signature) (common.Address, error) {
	return types.RecoverEthSigner(digest, sig)
}

// NewEthSignatureVerifier returns the default secp256k1 recovery binding.
func NewEthSignatureVerifier() SignatureVerifier {
	return ethSignatureVerifier{}
}

// Builder assembles metadata for messages against destination ISM configs.
// Builds are logically independent; a single Builder is safe for concurrent
// use.
type Builder struct {
	stores   StoreProvider
	isms     IsmReader
	proofs   ProofSource
	verifier SignatureVerifier
	relayer  util.HexAddress
	logger   log.Logger
	metrics  *metrics.Metrics
}

type BuilderOption func(*Builder)

// WithIsmReader wires the destination chain reader used by fallback routing.
func WithIsmReader(reader IsmReader) BuilderOption {
	return func(b *Builder) { b.isms = reader }
}

// WithProofSource wires the merkle proof source used by merkle-root multisig.
func WithProofSource(proofs ProofSource) BuilderOption {
	return func(b *Builder) { b.proofs = proofs }
}

func WithSignatureVerifier(verifier SignatureVerifier) BuilderOption {
	return func(b *Builder) { b.verifier = verifier }
}

// WithRelayer sets the relayer's own destination-chain signer identity,
// checked locally against trusted-relayer ISMs.
func WithRelayer(relayer util.HexAddress) BuilderOption {
	return func(b *Builder) { b.relayer = relayer }
}

func WithBuilderLogger(logger log.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

func WithMetrics(m *metrics.Metrics) BuilderOption {
	return func(b *Builder) { b.metrics = m }
}

func NewBuilder(stores StoreProvider, opts ...BuilderOption) *Builder {
	b := &Builder{
		stores:   stores,
		verifier: ethSignatureVerifier{},
		logger:   log.NewNopLogger(),
		metrics:  metrics.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles the metadata blob proving mctx.Message to mctx.Ism.
// maxDepth is decremented on every nested-ISM descent; pass DefaultMaxDepth
// unless the caller has a reason to tighten the bound.
func (b *Builder) Build(ctx context.Context, mctx Context, maxDepth int) ([]byte, error) {
	if maxDepth <= 0 {
		return nil, errorsmod.Wrapf(types.ErrMaxDepthExceeded, "message %s", mctx.Message.Id().String())
	}

	moduleType := types.ModuleTypeUnused
	if mctx.Ism != nil {
		moduleType = mctx.Ism.ModuleType()
	}

	start := time.Now()
	metadata, err := b.dispatch(ctx, mctx, maxDepth)
	b.metrics.ObserveBuild(moduleType.String(), err == nil, time.Since(start))
	if err != nil {
		return nil, errorsmod.Wrapf(err, "ism %s for message %s", ismAddress(mctx.Ism), mctx.Message.Id().String())
	}
	return metadata, nil
}

func (b *Builder) dispatch(ctx context.Context, mctx Context, maxDepth int) ([]byte, error) {
	switch ism := mctx.Ism.(type) {
	case types.NullIsm:
		return b.buildNull(ism)
	case types.MultisigIsm:
		hook, ok := types.FindMerkleTreeHook(mctx.Hook)
		if !ok {
			return nil, types.ErrHookNotFound
		}
		return b.buildMultisig(ctx, mctx, ism, hook)
	case types.AggregationIsm:
		return b.buildAggregation(ctx, mctx, ism, maxDepth)
	case types.RoutingIsm:
		return b.buildRouting(ctx, mctx, ism, maxDepth)
	case types.FallbackRoutingIsm:
		return b.buildFallbackRouting(ctx, mctx, ism, maxDepth)
	default:
		return nil, errorsmod.Wrapf(types.ErrUnsupportedIsmType, "%T", mctx.Ism)
	}
}

func ismAddress(ism types.IsmConfig) string {
	if ism == nil {
		return "<nil>"
	}
	return ism.Address().String()
}
