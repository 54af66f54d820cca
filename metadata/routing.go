package metadata

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"github.com/celestiaorg/hyperlane-metadata/types"
)

// buildRouting delegates to the child ISM enrolled for the message's origin
// domain. The routing ISM itself consumes no metadata; the blob is whatever
// the child needs.
func (b *Builder) buildRouting(ctx context.Context, mctx Context, ism types.RoutingIsm, maxDepth int) ([]byte, error) {
	child, ok := ism.Domains[mctx.Message.Origin]
	if !ok {
		return nil, errorsmod.Wrapf(types.ErrOriginNotEnrolled, "domain %d", mctx.Message.Origin)
	}
	return b.Build(ctx, mctx.WithIsm(child), maxDepth-1)
}

// buildFallbackRouting delegates like buildRouting, but an unenrolled origin
// is resolved through the on-chain module resolver instead of failing.
func (b *Builder) buildFallbackRouting(ctx context.Context, mctx Context, ism types.FallbackRoutingIsm, maxDepth int) ([]byte, error) {
	if child, ok := ism.Domains[mctx.Message.Origin]; ok {
		return b.Build(ctx, mctx.WithIsm(child), maxDepth-1)
	}

	if b.isms == nil {
		return nil, errorsmod.Wrapf(types.ErrOriginNotEnrolled, "domain %d and no ism reader to resolve the fallback", mctx.Message.Origin)
	}
	address, err := b.isms.RouteIsm(ctx, ism, mctx.Message)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "routing fallback for domain %d", mctx.Message.Origin)
	}
	child, err := b.isms.DeriveIsmConfig(ctx, address)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "fallback ism %s", address.String())
	}
	b.logger.Debug("resolved fallback route", "domain", mctx.Message.Origin, "ism", address.String())
	return b.Build(ctx, mctx.WithIsm(child), maxDepth-1)
}
