package trigger

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrRawTriggerNotImplemented is returned for raw trigger payloads,
	// which are a defined but unimplemented input.
	ErrRawTriggerNotImplemented = errors.New("raw trigger data is not implemented")

	// ErrUnsupportedTriggerData is returned for payload variants outside
	// the supported set.
	ErrUnsupportedTriggerData = errors.New("unsupported trigger data type")
)

// MintTriggerEventSignature is the canonical signature of the event the
// decoder understands: indexed sender and trigger id in the topics, prompt,
// trigger kind and token id in the data segment.
const MintTriggerEventSignature = "AvsMintTrigger(address,uint64,string,uint8,uint256)"

// MintTriggerEventHash is topic0 of a well-formed mint trigger log.
var MintTriggerEventHash = crypto.Keccak256Hash([]byte(MintTriggerEventSignature))

var mintTriggerDataArgs = abi.Arguments{
	{Name: "prompt", Type: mustType("string")},
	{Name: "triggerType", Type: mustType("uint8")},
	{Name: "tokenId", Type: mustType("uint256")},
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}

	return typ
}

// DecodeMintRequest classifies the trigger payload and decodes the embedded
// event log into a MintRequest. Decoding is schema-exact: wrong topic count,
// malformed data or an out-of-range trigger kind fail hard. Failures are
// terminal for the invocation; there is no retry.
func DecodeMintRequest(action TriggerAction) (MintRequest, error) {
	switch action.Data.Kind {
	case DataEthContractEvent:
		event := action.Data.EthContractEvent
		if event == nil {
			return MintRequest{}, errors.New("eth contract event payload is missing")
		}

		return decodeEthLog(event.Log)
	case DataRaw:
		return MintRequest{}, ErrRawTriggerNotImplemented
	case DataCosmosContractEvent:
		return MintRequest{}, ErrUnsupportedTriggerData
	}

	return MintRequest{}, fmt.Errorf("%w: %q", ErrUnsupportedTriggerData, action.Data.Kind)
}

func decodeEthLog(log EthLog) (MintRequest, error) {
	if len(log.Topics) != 3 {
		return MintRequest{}, fmt.Errorf("expected 3 topics, got %d", len(log.Topics))
	}

	if log.Topics[0] != MintTriggerEventHash {
		return MintRequest{}, fmt.Errorf("unexpected event signature %s", log.Topics[0])
	}

	sender, err := addressFromTopic(log.Topics[1])
	if err != nil {
		return MintRequest{}, fmt.Errorf("invalid sender topic: %w", err)
	}

	triggerID := new(big.Int).SetBytes(log.Topics[2].Bytes())
	if !triggerID.IsUint64() {
		return MintRequest{}, fmt.Errorf("trigger id %s overflows uint64", triggerID)
	}

	values, err := mintTriggerDataArgs.Unpack(log.Data)
	if err != nil {
		return MintRequest{}, fmt.Errorf("failed to decode event log data: %w", err)
	}

	prompt, ok := values[0].(string)
	if !ok {
		return MintRequest{}, errors.New("prompt field is not a string")
	}

	discriminant, ok := values[1].(uint8)
	if !ok {
		return MintRequest{}, errors.New("trigger type field is not a uint8")
	}

	if discriminant > uint8(KindUpdate) {
		return MintRequest{}, fmt.Errorf("invalid trigger type %d", discriminant)
	}

	kind := TriggerKind(discriminant)

	req := MintRequest{
		Sender:    sender,
		Prompt:    prompt,
		TriggerID: triggerID.Uint64(),
		Kind:      kind,
	}

	if kind == KindUpdate {
		tokenID, ok := values[2].(*big.Int)
		if !ok {
			return MintRequest{}, errors.New("token id field is not a uint256")
		}

		req.TokenID = tokenID
	}

	return req, nil
}

// addressFromTopic extracts an address from an indexed topic word,
// rejecting topics with nonzero padding.
func addressFromTopic(topic common.Hash) (common.Address, error) {
	for _, b := range topic[:common.HashLength-common.AddressLength] {
		if b != 0 {
			return common.Address{}, fmt.Errorf("topic %s is not a padded address", topic)
		}
	}

	return common.BytesToAddress(topic.Bytes()), nil
}
