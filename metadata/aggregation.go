package metadata

import (
	"context"
	"encoding/binary"

	errorsmod "cosmossdk.io/errors"

	"github.com/celestiaorg/hyperlane-metadata/types"
)

// aggregationRangeLen is the per-submodule (start, end) offset pair size.
const aggregationRangeLen = 8

// buildAggregation builds every submodule's metadata and packs the successes
// into the offset-table layout. Submodule failures are tolerated as long as
// at least Threshold submodules produced metadata.
func (b *Builder) buildAggregation(ctx context.Context, mctx Context, ism types.AggregationIsm, maxDepth int) ([]byte, error) {
	if ism.Threshold == 0 || int(ism.Threshold) > len(ism.Modules) {
		return nil, errorsmod.Wrapf(types.ErrInvalidIsmConfig, "threshold %d over %d modules", ism.Threshold, len(ism.Modules))
	}

	subMetadata := make([][]byte, len(ism.Modules))
	built := 0
	for i, sub := range ism.Modules {
		metadata, err := b.Build(ctx, mctx.WithIsm(sub), maxDepth-1)
		if err != nil {
			b.logger.Debug("aggregation submodule failed", "ism", sub.Address().String(), "err", err)
			continue
		}
		subMetadata[i] = metadata
		built++
	}
	if built < int(ism.Threshold) {
		return nil, errorsmod.Wrapf(types.ErrInsufficientSignatures, "%d of %d aggregation submodules produced metadata, need %d", built, len(ism.Modules), ism.Threshold)
	}

	return EncodeAggregationMetadata(subMetadata), nil
}

// EncodeAggregationMetadata packs submodule metadata behind a table of
// (start, end) byte ranges, one pair per submodule, offsets measured from the
// start of the whole blob. A nil entry marks a submodule without metadata and
// encodes as the (0, 0) pair; a non-nil empty entry is a real, empty range.
func EncodeAggregationMetadata(subMetadata [][]byte) []byte {
	tableLen := len(subMetadata) * aggregationRangeLen
	total := tableLen
	for _, m := range subMetadata {
		total += len(m)
	}

	out := make([]byte, 0, total)
	offset := uint32(tableLen)
	for _, m := range subMetadata {
		if m == nil {
			out = binary.BigEndian.AppendUint32(out, 0)
			out = binary.BigEndian.AppendUint32(out, 0)
			continue
		}
		out = binary.BigEndian.AppendUint32(out, offset)
		offset += uint32(len(m))
		out = binary.BigEndian.AppendUint32(out, offset)
	}
	for _, m := range subMetadata {
		out = append(out, m...)
	}
	return out
}

// DecodeAggregationMetadata splits an aggregation blob back into per-submodule
// metadata. count must be the submodule count of the ISM the blob was built
// for; entries whose pair is (0, 0) come back nil.
func DecodeAggregationMetadata(raw []byte, count int) ([][]byte, error) {
	tableLen := count * aggregationRangeLen
	if len(raw) < tableLen {
		return nil, errorsmod.Wrapf(types.ErrInvalidAggregationMetadata, "got %d bytes, offset table alone needs %d", len(raw), tableLen)
	}

	subMetadata := make([][]byte, count)
	prevEnd := uint32(tableLen)
	for i := 0; i < count; i++ {
		start := binary.BigEndian.Uint32(raw[i*aggregationRangeLen:])
		end := binary.BigEndian.Uint32(raw[i*aggregationRangeLen+4:])
		if start == 0 && end == 0 {
			continue
		}
		if start > end || int(end) > len(raw) || int(start) < tableLen {
			return nil, errorsmod.Wrapf(types.ErrInvalidAggregationMetadata, "submodule %d range [%d, %d) out of bounds", i, start, end)
		}
		// ranges must advance through the blob, never overlap a predecessor
		if start < prevEnd {
			return nil, errorsmod.Wrapf(types.ErrInvalidAggregationMetadata, "submodule %d range [%d, %d) overlaps the previous range ending at %d", i, start, end, prevEnd)
		}
		prevEnd = end
		subMetadata[i] = raw[start:end]
	}
	return subMetadata, nil
}
