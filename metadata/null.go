package metadata

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/celestiaorg/hyperlane-metadata/types"
)

// buildNull handles module types whose on-chain verification consumes no
// metadata. The trusted-relayer variant is checked locally so that a doomed
// delivery fails in the relayer instead of on chain.
func (b *Builder) buildNull(ism types.NullIsm) ([]byte, error) {
	if ism.Variant == types.NullVariantTrustedRelayer {
		if b.relayer.IsZeroAddress() {
			return nil, errorsmod.Wrap(types.ErrUntrustedRelayer, "no relayer identity configured")
		}
		if b.relayer != ism.Relayer {
			return nil, errorsmod.Wrapf(types.ErrUntrustedRelayer, "ism trusts %s, relayer is %s", ism.Relayer.String(), b.relayer.String())
		}
	}
	return []byte{}, nil
}
