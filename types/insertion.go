package types

import (
	"encoding/binary"

	errorsmod "cosmossdk.io/errors"
	"github.com/bcp-innovations/hyperlane-cosmos/util"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// InsertedIntoTreeTopic is the topic0 of the merkle tree hook's
// InsertedIntoTree(bytes32 messageId, uint32 index) event.
var InsertedIntoTreeTopic = crypto.Keccak256Hash([]byte("InsertedIntoTree(bytes32,uint32)"))

// MerkleTreeInsertion records a message id being appended to the origin
// merkle tree at a leaf index.
type MerkleTreeInsertion struct {
	MessageId util.HexAddress
	Index     uint32
}

// ParseInsertedIntoTree decodes an InsertedIntoTree log entry. Both event
// arguments are unindexed, so the data segment carries the 32-byte message id
// followed by the leaf index as an abi-padded uint32.
func ParseInsertedIntoTree(log *ethtypes.Log) (MerkleTreeInsertion, error) {
	if len(log.Topics) == 0 || log.Topics[0] != InsertedIntoTreeTopic {
		return MerkleTreeInsertion{}, errorsmod.Wrap(ErrNoMatchingMerkleInsertion, "log is not an InsertedIntoTree event")
	}
	if len(log.Data) != 64 {
		return MerkleTreeInsertion{}, errorsmod.Wrapf(ErrNoMatchingMerkleInsertion, "unexpected event data length %d", len(log.Data))
	}

	var messageId [32]byte
	copy(messageId[:], log.Data[:32])
	return MerkleTreeInsertion{
		MessageId: util.HexAddress(messageId),
		Index:     binary.BigEndian.Uint32(log.Data[60:64]),
	}, nil
}

// FindMerkleInsertion scans a dispatch transaction receipt for the insertion
// of messageId emitted by the given merkle tree hook. Absence is a hard
// failure: a dispatched message must have been enqueued in the tree.
func FindMerkleInsertion(receipt *ethtypes.Receipt, hook util.HexAddress, messageId util.HexAddress) (MerkleTreeInsertion, error) {
	if receipt == nil {
		return MerkleTreeInsertion{}, errorsmod.Wrap(ErrNoMatchingMerkleInsertion, "no dispatch receipt")
	}

	hookAddr := EvmAddress(hook)
	for _, log := range receipt.Logs {
		if log.Address != hookAddr {
			continue
		}
		insertion, err := ParseInsertedIntoTree(log)
		if err != nil {
			continue
		}
		if insertion.MessageId == messageId {
			return insertion, nil
		}
	}
	return MerkleTreeInsertion{}, errorsmod.Wrapf(ErrNoMatchingMerkleInsertion, "message %s not inserted by hook %s", messageId.String(), hook.String())
}
