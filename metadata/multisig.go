package metadata

import (
	"context"
	"sort"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/celestiaorg/hyperlane-metadata/types"
)

func (b *Builder) buildMultisig(ctx context.Context, mctx Context, ism types.MultisigIsm, hook types.MerkleTreeHook) ([]byte, error) {
	if ism.Threshold == 0 || int(ism.Threshold) > len(ism.Validators) {
		return nil, errorsmod.Wrapf(types.ErrInvalidIsmConfig, "threshold %d over %d validators", ism.Threshold, len(ism.Validators))
	}

	insertion, err := types.FindMerkleInsertion(mctx.DispatchTx, hook.Addr, mctx.Message.Id())
	if err != nil {
		return nil, err
	}

	switch ism.Variant {
	case types.ModuleTypeMessageIdMultisig:
		return b.buildMessageIdMultisig(ctx, mctx, ism, hook, insertion)
	case types.ModuleTypeMerkleRootMultisig:
		return b.buildMerkleRootMultisig(ctx, mctx, ism, hook, insertion)
	default:
		return nil, errorsmod.Wrapf(types.ErrUnsupportedIsmType, "multisig variant %s", ism.Variant)
	}
}

// buildMessageIdMultisig needs a quorum on the exact checkpoint produced by
// the message's own insertion: same index, same message id.
func (b *Builder) buildMessageIdMultisig(ctx context.Context, mctx Context, ism types.MultisigIsm, hook types.MerkleTreeHook, insertion types.MerkleTreeInsertion) ([]byte, error) {
	fetched := b.fetchCheckpoints(ctx, mctx.Message.Origin, ism.Validators, insertion.Index)

	messageId := mctx.Message.Id()
	value, sigs, err := b.quorum(ism, fetched, func(cp types.CheckpointWithMessageId) bool {
		return cp.Index == insertion.Index &&
			cp.MessageId == messageId &&
			cp.MerkleTreeHookAddress == hook.Addr &&
			cp.MailboxDomain == mctx.Message.Origin
	})
	if err != nil {
		return nil, err
	}

	return MessageIdMetadata{
		MerkleTreeHookAddress: hook.Addr,
		Root:                  value.Root,
		Index:                 value.Index,
		Signatures:            sigs,
	}.Encode(), nil
}

// buildMerkleRootMultisig accepts any checkpoint at or after the message's
// insertion, so it first picks the highest index a quorum of validators has
// reached, then proves the message's leaf into that checkpoint's root.
func (b *Builder) buildMerkleRootMultisig(ctx context.Context, mctx Context, ism types.MultisigIsm, hook types.MerkleTreeHook, insertion types.MerkleTreeInsertion) ([]byte, error) {
	if b.proofs == nil {
		return nil, errorsmod.Wrap(types.ErrProofUnavailable, "no proof source configured")
	}

	target := highestQuorumIndex(b.latestIndices(ctx, mctx.Message.Origin, ism.Validators), ism.Threshold)
	if target < int64(insertion.Index) {
		return nil, errorsmod.Wrapf(types.ErrInsufficientSignatures, "no quorum checkpoint at or above leaf index %d", insertion.Index)
	}
	signedIndex := uint32(target)

	fetched := b.fetchCheckpoints(ctx, mctx.Message.Origin, ism.Validators, signedIndex)
	value, sigs, err := b.quorum(ism, fetched, func(cp types.CheckpointWithMessageId) bool {
		return cp.Index == signedIndex &&
			cp.MerkleTreeHookAddress == hook.Addr &&
			cp.MailboxDomain == mctx.Message.Origin
	})
	if err != nil {
		return nil, err
	}

	proof, err := b.proofs.Proof(ctx, insertion.Index, signedIndex)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrProofUnavailable, "leaf %d against checkpoint %d: %s", insertion.Index, signedIndex, err)
	}
	if proof.Root() != value.Root {
		return nil, errorsmod.Wrapf(types.ErrProofUnavailable, "branch reproduces root %s, validators signed %s", proof.Root(), value.Root)
	}

	return MerkleRootMetadata{
		MerkleTreeHookAddress: hook.Addr,
		MessageIndex:          insertion.Index,
		SignedMessageId:       common.Hash(value.MessageId),
		Branch:                proof.Branch,
		SignedIndex:           signedIndex,
		Signatures:            sigs,
	}.Encode(), nil
}

// fetchCheckpoints pulls the signed checkpoint at index from every validator
// concurrently. Failures leave nil slots; quorum decides whether enough
// validators answered.
func (b *Builder) fetchCheckpoints(ctx context.Context, origin uint32, validators []common.Address, index uint32) []*types.SignedCheckpointWithMessageId {
	fetched := make([]*types.SignedCheckpointWithMessageId, len(validators))

	g, gctx := errgroup.WithContext(ctx)
	for i, validator := range validators {
		g.Go(func() error {
			store, err := b.stores.StoreFor(gctx, origin, validator)
			if err != nil {
				b.logger.Debug("no checkpoint store", "validator", validator.Hex(), "err", err)
				b.metrics.CheckpointFetchError(validator.Hex())
				return nil
			}
			signed, err := store.Checkpoint(gctx, index)
			if err != nil {
				b.logger.Debug("checkpoint fetch failed", "validator", validator.Hex(), "index", index, "err", err)
				b.metrics.CheckpointFetchError(validator.Hex())
				return nil
			}
			fetched[i] = signed
			return nil
		})
	}
	// goroutines swallow their own failures, so Wait only joins
	_ = g.Wait()

	return fetched
}

// latestIndices reads every validator's latest signed index; -1 marks
// validators that are unreachable or have not signed yet.
func (b *Builder) latestIndices(ctx context.Context, origin uint32, validators []common.Address) []int64 {
	indices := make([]int64, len(validators))
	originLabel := strconv.FormatUint(uint64(origin), 10)

	g, gctx := errgroup.WithContext(ctx)
	for i, validator := range validators {
		g.Go(func() error {
			indices[i] = -1
			store, err := b.stores.StoreFor(gctx, origin, validator)
			if err != nil {
				b.metrics.CheckpointFetchError(validator.Hex())
				return nil
			}
			latest, err := store.LatestIndex(gctx)
			if err != nil {
				b.logger.Debug("latest index fetch failed", "validator", validator.Hex(), "err", err)
				b.metrics.CheckpointFetchError(validator.Hex())
				return nil
			}
			indices[i] = latest
			b.metrics.SetValidatorLatestIndex(originLabel, validator.Hex(), latest)
			return nil
		})
	}
	// goroutines swallow their own failures, so Wait only joins
	_ = g.Wait()

	return indices
}

// highestQuorumIndex returns the highest checkpoint index that at least
// threshold validators have reached, or -1 when there is no such index.
func highestQuorumIndex(indices []int64, threshold uint8) int64 {
	signed := make([]int64, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 {
			signed = append(signed, idx)
		}
	}
	if len(signed) < int(threshold) {
		return -1
	}
	sort.Slice(signed, func(i, j int) bool { return signed[i] > signed[j] })
	return signed[int(threshold)-1]
}

// quorum validates each fetched checkpoint against the expectation and its
// claimed signer, groups the survivors by signing digest, and returns the
// first digest to collect threshold signatures. Validator order is preserved
// throughout, so the selection is deterministic.
func (b *Builder) quorum(ism types.MultisigIsm, fetched []*types.SignedCheckpointWithMessageId, accept func(types.CheckpointWithMessageId) bool) (types.CheckpointWithMessageId, []types.Signature, error) {
	type bucket struct {
		value types.CheckpointWithMessageId
		sigs  []types.Signature
	}
	buckets := make(map[common.Hash]*bucket)
	best := 0

	for i, signed := range fetched {
		if signed == nil {
			continue
		}
		if !accept(signed.Value) {
			b.logger.Debug("checkpoint does not cover message", "validator", ism.Validators[i].Hex(), "index", signed.Value.Index)
			continue
		}
		recovered, err := b.verifier.RecoverSigner(signed.Value.SigningDigest(), signed.Signature)
		if err != nil {
			b.logger.Debug("signature recovery failed", "validator", ism.Validators[i].Hex(), "err", err)
			continue
		}
		if recovered != ism.Validators[i] {
			b.logger.Debug("checkpoint signed by wrong key", "validator", ism.Validators[i].Hex(), "signer", recovered.Hex())
			continue
		}

		digest := signed.Value.SigningDigest()
		bk, ok := buckets[digest]
		if !ok {
			bk = &bucket{value: signed.Value}
			buckets[digest] = bk
		}
		bk.sigs = append(bk.sigs, signed.Signature)
		if len(bk.sigs) > best {
			best = len(bk.sigs)
		}
		if len(bk.sigs) >= int(ism.Threshold) {
			return bk.value, bk.sigs[:ism.Threshold], nil
		}
	}

	return types.CheckpointWithMessageId{}, nil, errorsmod.Wrapf(types.ErrInsufficientSignatures, "best checkpoint has %d valid signatures, need %d", best, ism.Threshold)
}
