package types

import (
	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the codespace for all errors raised by the metadata core.
const ModuleName = "hyperlane_metadata"

// Every error below is terminal for the current build attempt. Retry policy
// belongs to the calling relayer, not to this library.
// NOTE: Error code 1 is reserved by cosmos-sdk as internal error / unknown failure

var (
	ErrMaxDepthExceeded           = errorsmod.Register(ModuleName, 2, "exceeded max depth when building metadata")
	ErrUnsupportedIsmType         = errorsmod.Register(ModuleName, 3, "unknown or invalid ism module type")
	ErrHookNotFound               = errorsmod.Register(ModuleName, 4, "no merkle tree hook reachable from hook config")
	ErrNoMatchingMerkleInsertion  = errorsmod.Register(ModuleName, 5, "no merkle insertion event for message in dispatch receipt")
	ErrInsufficientSignatures     = errorsmod.Register(ModuleName, 6, "insufficient matching validator signatures")
	ErrInvalidAggregationMetadata = errorsmod.Register(ModuleName, 7, "malformed aggregation metadata")
	ErrOriginNotEnrolled          = errorsmod.Register(ModuleName, 8, "origin domain not enrolled in routing ism")
	ErrUntrustedRelayer           = errorsmod.Register(ModuleName, 9, "transaction signer is not the trusted relayer")
	ErrInvalidMultisigMetadata    = errorsmod.Register(ModuleName, 10, "malformed multisig metadata")
	ErrInvalidCheckpointStorage   = errorsmod.Register(ModuleName, 11, "invalid checkpoint storage location")
	ErrInvalidSignature           = errorsmod.Register(ModuleName, 12, "invalid signature")
	ErrInvalidIsmConfig           = errorsmod.Register(ModuleName, 13, "invalid ism configuration")
	ErrProofUnavailable           = errorsmod.Register(ModuleName, 14, "merkle proof unavailable")
)
