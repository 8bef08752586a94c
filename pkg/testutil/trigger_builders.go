// Package testutil provides test data builders shared across packages.
package testutil

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/avsworks/artisan/pkg/trigger"
)

// TriggerParams are the knobs of a well-formed mint trigger event.
type TriggerParams struct {
	Sender    common.Address
	Prompt    string
	TriggerID uint64
	Kind      trigger.TriggerKind
	TokenID   *big.Int
	ChainName string
	Contract  common.Address
}

func defaultParams() TriggerParams {
	return TriggerParams{
		Sender:    common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"),
		Prompt:    "a red fox",
		TriggerID: 7,
		Kind:      trigger.KindMint,
		TokenID:   big.NewInt(0),
		ChainName: "local",
		Contract:  common.HexToAddress("0x1111111111111111111111111111111111111111"),
	}
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}

	return typ
}

var eventDataArgs = abi.Arguments{
	{Name: "prompt", Type: mustType("string")},
	{Name: "triggerType", Type: mustType("uint8")},
	{Name: "tokenId", Type: mustType("uint256")},
}

// EncodeTriggerLog packs params into the event log shape the decoder
// expects.
func EncodeTriggerLog(params TriggerParams) trigger.EthLog {
	data, err := eventDataArgs.Pack(params.Prompt, uint8(params.Kind), params.TokenID)
	if err != nil {
		panic(err)
	}

	return trigger.EthLog{
		Topics: []common.Hash{
			trigger.MintTriggerEventHash,
			common.BytesToHash(common.LeftPadBytes(params.Sender.Bytes(), 32)),
			common.BigToHash(new(big.Int).SetUint64(params.TriggerID)),
		},
		Data: data,
	}
}

// CreateTriggerAction builds a complete eth-event TriggerAction with
// default values that can be overridden.
func CreateTriggerAction(overrides ...func(*TriggerParams)) trigger.TriggerAction {
	params := defaultParams()

	for _, override := range overrides {
		override(&params)
	}

	return trigger.TriggerAction{
		Config: trigger.TriggerConfig{
			ServiceID:  "service-1",
			WorkflowID: "workflow-1",
			Source: trigger.TriggerSource{
				Kind: trigger.SourceEthContractEvent,
				EthContractEvent: &trigger.EthEventSource{
					Address:   params.Contract,
					ChainName: params.ChainName,
					EventHash: trigger.MintTriggerEventHash,
				},
			},
		},
		Data: trigger.TriggerData{
			Kind: trigger.DataEthContractEvent,
			EthContractEvent: &trigger.EthContractEventData{
				ContractAddress: params.Contract,
				ChainName:       params.ChainName,
				Log:             EncodeTriggerLog(params),
				BlockHeight:     42,
			},
		},
	}
}

// WithUpdateKind turns the trigger into an update for the given token.
func WithUpdateKind(tokenID int64) func(*TriggerParams) {
	return func(p *TriggerParams) {
		p.Kind = trigger.KindUpdate
		p.TokenID = big.NewInt(tokenID)
	}
}

// WithPrompt overrides the prompt.
func WithPrompt(prompt string) func(*TriggerParams) {
	return func(p *TriggerParams) {
		p.Prompt = prompt
	}
}

// WithSender overrides the sender address.
func WithSender(hexAddr string) func(*TriggerParams) {
	return func(p *TriggerParams) {
		p.Sender = common.HexToAddress(hexAddr)
	}
}

// WithTriggerID overrides the trigger id.
func WithTriggerID(id uint64) func(*TriggerParams) {
	return func(p *TriggerParams) {
		p.TriggerID = id
	}
}

// CreateRawTriggerAction builds a raw-payload TriggerAction.
func CreateRawTriggerAction(payload []byte) trigger.TriggerAction {
	return trigger.TriggerAction{
		Config: trigger.TriggerConfig{
			ServiceID:  "service-1",
			WorkflowID: "workflow-1",
			Source:     trigger.TriggerSource{Kind: trigger.SourceManual},
		},
		Data: trigger.TriggerData{
			Kind: trigger.DataRaw,
			Raw:  payload,
		},
	}
}

// CreateCosmosTriggerAction builds a cosmos-event TriggerAction.
func CreateCosmosTriggerAction() trigger.TriggerAction {
	return trigger.TriggerAction{
		Config: trigger.TriggerConfig{
			ServiceID:  "service-1",
			WorkflowID: "workflow-1",
			Source: trigger.TriggerSource{
				Kind: trigger.SourceCosmosContractEvent,
				CosmosContractEvent: &trigger.CosmosEventSource{
					Address:   "cosmos1qqqsyqcyq5rqwzqfpg9scrgwpugpzysnrujsuw",
					ChainName: "cosmoshub",
					EventType: "wasm-mint",
				},
			},
		},
		Data: trigger.TriggerData{
			Kind: trigger.DataCosmosContractEvent,
			CosmosContractEvent: &trigger.CosmosEventData{
				ContractAddress: "cosmos1qqqsyqcyq5rqwzqfpg9scrgwpugpzysnrujsuw",
				ChainName:       "cosmoshub",
				Event: trigger.CosmosEvent{
					Type: "wasm-mint",
					Attributes: []trigger.CosmosEventAttribute{
						{Key: "prompt", Value: "a red fox"},
					},
				},
				BlockHeight: 42,
			},
		},
	}
}
