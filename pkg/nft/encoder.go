package nft

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/avsworks/artisan/pkg/trigger"
)

// ErrInvalidTriggerType is returned when the trigger kind is outside the
// closed {mint, update} set. There is no default branch.
var ErrInvalidTriggerType = errors.New("invalid trigger type")

// MintResult is the ABI record emitted for a mint trigger.
type MintResult struct {
	TriggerID uint64
	Recipient common.Address
	TokenURI  string
}

// UpdateResult is the ABI record emitted for an update trigger.
type UpdateResult struct {
	TriggerID uint64
	Owner     common.Address
	TokenURI  string
	TokenID   *big.Int
}

// Envelope is the outer tagged wrapper. The tag and the payload shape
// always agree; EncodeResponse cannot produce a disagreeing pair.
type Envelope struct {
	TriggerID uint64
	Kind      trigger.TriggerKind
	Payload   []byte
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}

	return typ
}

var (
	mintResultArgs = abi.Arguments{
		{Name: "triggerId", Type: mustType("uint64")},
		{Name: "recipient", Type: mustType("address")},
		{Name: "tokenURI", Type: mustType("string")},
	}

	updateResultArgs = abi.Arguments{
		{Name: "triggerId", Type: mustType("uint64")},
		{Name: "owner", Type: mustType("address")},
		{Name: "tokenURI", Type: mustType("string")},
		{Name: "tokenId", Type: mustType("uint256")},
	}

	envelopeArgs = abi.Arguments{
		{Name: "triggerId", Type: mustType("uint64")},
		{Name: "triggerType", Type: mustType("uint8")},
		{Name: "data", Type: mustType("bytes")},
	}
)

// EncodeResponse maps a decoded request and its token URI to the binary
// wire format expected by the calling chain: an inner ABI record chosen
// by the trigger kind, wrapped in the tagged outer envelope.
func EncodeResponse(req trigger.MintRequest, tokenURI string) ([]byte, error) {
	var (
		payload []byte
		err     error
	)

	switch req.Kind {
	case trigger.KindMint:
		payload, err = mintResultArgs.Pack(req.TriggerID, req.Sender, tokenURI)
	case trigger.KindUpdate:
		tokenID := req.TokenID
		if tokenID == nil {
			return nil, errors.New("update request carries no token id")
		}

		payload, err = updateResultArgs.Pack(req.TriggerID, req.Sender, tokenURI, tokenID)
	default:
		return nil, ErrInvalidTriggerType
	}

	if err != nil {
		return nil, fmt.Errorf("failed to encode %s result: %w", req.Kind, err)
	}

	encoded, err := envelopeArgs.Pack(req.TriggerID, uint8(req.Kind), payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response envelope: %w", err)
	}

	return encoded, nil
}

// DecodeEnvelope unpacks the outer envelope.
func DecodeEnvelope(data []byte) (Envelope, error) {
	values, err := envelopeArgs.Unpack(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to decode envelope: %w", err)
	}

	discriminant := values[1].(uint8)
	if discriminant > uint8(trigger.KindUpdate) {
		return Envelope{}, fmt.Errorf("%w: %d", ErrInvalidTriggerType, discriminant)
	}

	return Envelope{
		TriggerID: values[0].(uint64),
		Kind:      trigger.TriggerKind(discriminant),
		Payload:   values[2].([]byte),
	}, nil
}

// DecodeMintResult unpacks an envelope payload tagged as a mint.
func DecodeMintResult(payload []byte) (MintResult, error) {
	values, err := mintResultArgs.Unpack(payload)
	if err != nil {
		return MintResult{}, fmt.Errorf("failed to decode mint result: %w", err)
	}

	return MintResult{
		TriggerID: values[0].(uint64),
		Recipient: values[1].(common.Address),
		TokenURI:  values[2].(string),
	}, nil
}

// DecodeUpdateResult unpacks an envelope payload tagged as an update.
func DecodeUpdateResult(payload []byte) (UpdateResult, error) {
	values, err := updateResultArgs.Unpack(payload)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to decode update result: %w", err)
	}

	return UpdateResult{
		TriggerID: values[0].(uint64),
		Owner:     values[1].(common.Address),
		TokenURI:  values[2].(string),
		TokenID:   values[3].(*big.Int),
	}, nil
}
