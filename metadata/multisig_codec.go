package metadata

import (
	"encoding/binary"

	errorsmod "cosmossdk.io/errors"
	"github.com/bcp-innovations/hyperlane-cosmos/util"
	"github.com/ethereum/go-ethereum/common"

	"github.com/celestiaorg/hyperlane-metadata/types"
)

// Fixed prefix sizes of the two multisig metadata layouts. Signatures are
// appended after the prefix as packed 65-byte values.
const (
	messageIdPrefixLen  = 32 + 32 + 4
	merkleRootPrefixLen = 32 + 4 + 32 + types.TreeDepth*32 + 4
)

// MessageIdMetadata is the layout verified by message-id multisig ISMs:
// merkle tree hook address, signed root, signed index, then signatures.
type MessageIdMetadata struct {
	MerkleTreeHookAddress util.HexAddress
	Root                  common.Hash
	Index                 uint32
	Signatures            []types.Signature
}

func (m MessageIdMetadata) Encode() []byte {
	out := make([]byte, 0, messageIdPrefixLen+len(m.Signatures)*types.SignatureLength)
	out = append(out, m.MerkleTreeHookAddress.Bytes()...)
	out = append(out, m.Root.Bytes()...)
	out = binary.BigEndian.AppendUint32(out, m.Index)
	for _, sig := range m.Signatures {
		out = append(out, sig.Bytes()...)
	}
	return out
}

func DecodeMessageIdMetadata(raw []byte) (MessageIdMetadata, error) {
	if len(raw) < messageIdPrefixLen {
		return MessageIdMetadata{}, errorsmod.Wrapf(types.ErrInvalidMultisigMetadata, "got %d bytes, need at least %d", len(raw), messageIdPrefixLen)
	}
	var m MessageIdMetadata
	copy(m.MerkleTreeHookAddress[:], raw[:32])
	m.Root = common.BytesToHash(raw[32:64])
	m.Index = binary.BigEndian.Uint32(raw[64:68])
	sigs, err := decodeSignatures(raw[messageIdPrefixLen:])
	if err != nil {
		return MessageIdMetadata{}, err
	}
	m.Signatures = sigs
	return m, nil
}

// MerkleRootMetadata is the layout verified by merkle-root multisig ISMs. It
// carries the message's own leaf index and branch next to the checkpoint the
// validators actually signed, which may be newer than the message.
type MerkleRootMetadata struct {
	MerkleTreeHookAddress util.HexAddress
	MessageIndex          uint32
	SignedMessageId       common.Hash
	Branch                [types.TreeDepth]common.Hash
	SignedIndex           uint32
	Signatures            []types.Signature
}

func (m MerkleRootMetadata) Encode() []byte {
	out := make([]byte, 0, merkleRootPrefixLen+len(m.Signatures)*types.SignatureLength)
	out = append(out, m.MerkleTreeHookAddress.Bytes()...)
	out = binary.BigEndian.AppendUint32(out, m.MessageIndex)
	out = append(out, m.SignedMessageId.Bytes()...)
	for _, node := range m.Branch {
		out = append(out, node.Bytes()...)
	}
	out = binary.BigEndian.AppendUint32(out, m.SignedIndex)
	for _, sig := range m.Signatures {
		out = append(out, sig.Bytes()...)
	}
	return out
}

func DecodeMerkleRootMetadata(raw []byte) (MerkleRootMetadata, error) {
	if len(raw) < merkleRootPrefixLen {
		return MerkleRootMetadata{}, errorsmod.Wrapf(types.ErrInvalidMultisigMetadata, "got %d bytes, need at least %d", len(raw), merkleRootPrefixLen)
	}
	var m MerkleRootMetadata
	copy(m.MerkleTreeHookAddress[:], raw[:32])
	m.MessageIndex = binary.BigEndian.Uint32(raw[32:36])
	m.SignedMessageId = common.BytesToHash(raw[36:68])
	for i := range m.Branch {
		m.Branch[i] = common.BytesToHash(raw[68+i*32 : 100+i*32])
	}
	m.SignedIndex = binary.BigEndian.Uint32(raw[merkleRootPrefixLen-4 : merkleRootPrefixLen])
	sigs, err := decodeSignatures(raw[merkleRootPrefixLen:])
	if err != nil {
		return MerkleRootMetadata{}, err
	}
	m.Signatures = sigs
	return m, nil
}

// decodeSignatures splits a trailing byte run into packed 65-byte signatures.
// Zero signatures is valid and decodes to nil, keeping decode a strict inverse
// of encode; a ragged tail is not.
func decodeSignatures(raw []byte) ([]types.Signature, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if len(raw)%types.SignatureLength != 0 {
		return nil, errorsmod.Wrapf(types.ErrInvalidMultisigMetadata, "trailing %d bytes are not a whole number of signatures", len(raw))
	}
	sigs := make([]types.Signature, len(raw)/types.SignatureLength)
	for i := range sigs {
		copy(sigs[i][:], raw[i*types.SignatureLength:])
	}
	return sigs, nil
}
