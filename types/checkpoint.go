package types

import (
	"encoding/binary"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"github.com/bcp-innovations/hyperlane-cosmos/util"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Checkpoint is a merkle tree hook commitment signed by validators: the tree
// root after the insertion at Index, qualified by the hook address and the
// origin mailbox domain so signatures cannot be replayed across trees.
type Checkpoint struct {
	MerkleTreeHookAddress util.HexAddress
	MailboxDomain         uint32
	Root                  common.Hash
	Index                 uint32
}

// CheckpointWithMessageId pins a checkpoint to the message inserted at its
// index.
type CheckpointWithMessageId struct {
	Checkpoint
	MessageId util.HexAddress
}

// SignedCheckpointWithMessageId is the object validators publish to their
// announced storage location.
type SignedCheckpointWithMessageId struct {
	Value     CheckpointWithMessageId
	Signature Signature
}

// SigningDomainHash commits to the origin domain and merkle tree hook, scoping
// checkpoint signatures to a single tree.
func (c Checkpoint) SigningDomainHash() common.Hash {
	buf := make([]byte, 0, 4+32+9)
	buf = binary.BigEndian.AppendUint32(buf, c.MailboxDomain)
	buf = append(buf, c.MerkleTreeHookAddress.Bytes()...)
	buf = append(buf, []byte("HYPERLANE")...)
	return crypto.Keccak256Hash(buf)
}

// SigningDigest is the digest validators sign: the checkpoint hash wrapped in
// the EIP-191 personal-message envelope. The on-chain ISM recomputes the same
// digest during verification, so this must match byte for byte.
func (c CheckpointWithMessageId) SigningDigest() common.Hash {
	domainHash := c.SigningDomainHash()
	buf := make([]byte, 0, 32+32+4+32)
	buf = append(buf, domainHash.Bytes()...)
	buf = append(buf, c.Root.Bytes()...)
	buf = binary.BigEndian.AppendUint32(buf, c.Index)
	buf = append(buf, c.MessageId.Bytes()...)
	return ethSignedMessageHash(crypto.Keccak256Hash(buf))
}

func ethSignedMessageHash(digest common.Hash) common.Hash {
	return crypto.Keccak256Hash([]byte("\x19Ethereum Signed Message:\n32"), digest.Bytes())
}

// Recover returns the address that produced the checkpoint signature.
func (sc SignedCheckpointWithMessageId) Recover() (common.Address, error) {
	return RecoverEthSigner(sc.Value.SigningDigest(), sc.Signature)
}

// checkpointJSON mirrors the object layout validators write to storage:
// the checkpoint fields are flattened into "value" next to the message id, and
// the signature appears both split and serialized.
type checkpointJSON struct {
	MerkleTreeHookAddress string      `json:"merkle_tree_hook_address"`
	MailboxDomain         uint32      `json:"mailbox_domain"`
	Root                  common.Hash `json:"root"`
	Index                 uint32      `json:"index"`
	MessageId             string      `json:"message_id"`
}

type signatureJSON struct {
	R common.Hash `json:"r"`
	S common.Hash `json:"s"`
	V uint8       `json:"v"`
}

type signedCheckpointJSON struct {
	Value               checkpointJSON `json:"value"`
	Signature           *signatureJSON `json:"signature,omitempty"`
	SerializedSignature string         `json:"serialized_signature"`
}

func (sc SignedCheckpointWithMessageId) MarshalJSON() ([]byte, error) {
	return json.Marshal(signedCheckpointJSON{
		Value: checkpointJSON{
			MerkleTreeHookAddress: sc.Value.MerkleTreeHookAddress.String(),
			MailboxDomain:         sc.Value.MailboxDomain,
			Root:                  sc.Value.Root,
			Index:                 sc.Value.Index,
			MessageId:             sc.Value.MessageId.String(),
		},
		Signature: &signatureJSON{
			R: sc.Signature.R(),
			S: sc.Signature.S(),
			V: sc.Signature.V(),
		},
		SerializedSignature: hexutil.Encode(sc.Signature.Bytes()),
	})
}

func (sc *SignedCheckpointWithMessageId) UnmarshalJSON(bz []byte) error {
	var raw signedCheckpointJSON
	if err := json.Unmarshal(bz, &raw); err != nil {
		return err
	}

	hook, err := util.DecodeHexAddress(raw.Value.MerkleTreeHookAddress)
	if err != nil {
		return errorsmod.Wrap(ErrInvalidCheckpointStorage, err.Error())
	}
	messageId, err := util.DecodeHexAddress(raw.Value.MessageId)
	if err != nil {
		return errorsmod.Wrap(ErrInvalidCheckpointStorage, err.Error())
	}

	sc.Value = CheckpointWithMessageId{
		Checkpoint: Checkpoint{
			MerkleTreeHookAddress: hook,
			MailboxDomain:         raw.Value.MailboxDomain,
			Root:                  raw.Value.Root,
			Index:                 raw.Value.Index,
		},
		MessageId: messageId,
	}

	switch {
	case raw.SerializedSignature != "":
		sigBytes, err := hexutil.Decode(raw.SerializedSignature)
		if err != nil {
			return errorsmod.Wrap(ErrInvalidCheckpointStorage, err.Error())
		}
		sc.Signature, err = NewSignature(sigBytes)
		if err != nil {
			return err
		}
	case raw.Signature != nil:
		sc.Signature = NewSignatureFromParts(raw.Signature.R, raw.Signature.S, raw.Signature.V)
	default:
		return errorsmod.Wrap(ErrInvalidCheckpointStorage, "stored checkpoint carries no signature")
	}
	return nil
}

// Announcement describes where a validator operates: its signer address and
// the mailbox it attests for.
type Announcement struct {
	Validator      common.Address
	MailboxAddress util.HexAddress
	MailboxDomain  uint32
}

type announcementJSON struct {
	Validator      common.Address `json:"validator"`
	MailboxAddress string         `json:"mailbox_address"`
	MailboxDomain  uint32         `json:"mailbox_domain"`
}

// announcementFile is the on-storage wrapper; announcement.json nests the
// payload under "value" alongside a signature this library does not consume.
type announcementFile struct {
	Value announcementJSON `json:"value"`
}

func (a Announcement) MarshalJSON() ([]byte, error) {
	return json.Marshal(announcementFile{
		Value: announcementJSON{
			Validator:      a.Validator,
			MailboxAddress: a.MailboxAddress.String(),
			MailboxDomain:  a.MailboxDomain,
		},
	})
}

func (a *Announcement) UnmarshalJSON(bz []byte) error {
	var raw announcementFile
	if err := json.Unmarshal(bz, &raw); err != nil {
		return err
	}
	mailbox, err := util.DecodeHexAddress(raw.Value.MailboxAddress)
	if err != nil {
		return errorsmod.Wrap(ErrInvalidCheckpointStorage, err.Error())
	}
	a.Validator = raw.Value.Validator
	a.MailboxAddress = mailbox
	a.MailboxDomain = raw.Value.MailboxDomain
	return nil
}
