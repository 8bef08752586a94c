// Package trigger defines the inbound trigger model and the decoder that
// turns a raw chain event into a typed mint request.
package trigger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TriggerAction is the single unit of work delivered by the host per
// invocation. It is constructed once and consumed exactly once.
type TriggerAction struct {
	Config TriggerConfig `json:"config"`
	Data   TriggerData   `json:"data"`
}

// TriggerConfig identifies why the trigger fired, independent of its payload.
type TriggerConfig struct {
	ServiceID  string        `json:"service_id"`
	WorkflowID string        `json:"workflow_id"`
	Source     TriggerSource `json:"trigger_source"`
}

type SourceKind string

const (
	SourceEthContractEvent    SourceKind = "eth_contract_event"
	SourceCosmosContractEvent SourceKind = "cosmos_contract_event"
	SourceManual              SourceKind = "manual"
)

// TriggerSource is a closed variant over the supported trigger origins.
// Exactly one of the payload fields matching Kind is set.
type TriggerSource struct {
	Kind                SourceKind         `json:"kind"`
	EthContractEvent    *EthEventSource    `json:"eth_contract_event,omitempty"`
	CosmosContractEvent *CosmosEventSource `json:"cosmos_contract_event,omitempty"`
}

type EthEventSource struct {
	Address   common.Address `json:"address"`
	ChainName string         `json:"chain_name"`
	EventHash common.Hash    `json:"event_hash"`
}

type CosmosEventSource struct {
	Address   string `json:"address"`
	ChainName string `json:"chain_name"`
	EventType string `json:"event_type"`
}

type DataKind string

const (
	DataEthContractEvent    DataKind = "eth_contract_event"
	DataCosmosContractEvent DataKind = "cosmos_contract_event"
	DataRaw                 DataKind = "raw"
)

// TriggerData carries the trigger payload. Exactly one of the payload
// fields matching Kind is set.
type TriggerData struct {
	Kind                DataKind              `json:"kind"`
	EthContractEvent    *EthContractEventData `json:"eth_contract_event,omitempty"`
	CosmosContractEvent *CosmosEventData      `json:"cosmos_contract_event,omitempty"`
	Raw                 hexutil.Bytes         `json:"raw,omitempty"`
}

// EthLog is the raw event log of an EVM contract event.
type EthLog struct {
	Topics []common.Hash `json:"topics"`
	Data   hexutil.Bytes `json:"data"`
}

type EthContractEventData struct {
	ContractAddress common.Address `json:"contract_address"`
	ChainName       string         `json:"chain_name"`
	Log             EthLog         `json:"log"`
	BlockHeight     uint64         `json:"block_height"`
}

type CosmosEventAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type CosmosEvent struct {
	Type       string                 `json:"type"`
	Attributes []CosmosEventAttribute `json:"attributes"`
}

type CosmosEventData struct {
	ContractAddress string      `json:"contract_address"`
	ChainName       string      `json:"chain_name"`
	Event           CosmosEvent `json:"event"`
	BlockHeight     uint64      `json:"block_height"`
}

// TriggerKind discriminates the two request shapes a trigger can carry.
// The set is closed; any other discriminant is a decode error.
type TriggerKind uint8

const (
	KindMint   TriggerKind = 0
	KindUpdate TriggerKind = 1
)

func (k TriggerKind) String() string {
	switch k {
	case KindMint:
		return "mint"
	case KindUpdate:
		return "update"
	}

	return "unknown"
}

// MintRequest is the decoded, strongly typed form of a trigger payload.
// TokenID is set only for update requests.
type MintRequest struct {
	Sender    common.Address
	Prompt    string
	TriggerID uint64
	Kind      TriggerKind
	TokenID   *big.Int
}
