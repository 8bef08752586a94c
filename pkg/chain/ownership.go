package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// balanceOfSelector is the 4-byte selector of ERC-721 balanceOf(address).
var balanceOfSelector = crypto.Keccak256([]byte("balanceOf(address)"))[:4]

// ContractCaller is the read-only subset of an RPC client the oracle
// needs. *ethclient.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// OwnershipOracle answers "does this account hold a token of this
// contract" via a single eth_call. Transport and decode failures
// propagate; ownership must be knowable, never assumed.
type OwnershipOracle struct {
	caller ContractCaller
}

func NewOwnershipOracle(caller ContractCaller) *OwnershipOracle {
	return &OwnershipOracle{caller: caller}
}

// DialOracle resolves the chain endpoint by name and connects an oracle
// to it.
func DialOracle(lookup ConfigLookup, chainName string) (*OwnershipOracle, error) {
	cfg, err := lookup.EthChainConfig(chainName)
	if err != nil {
		return nil, err
	}

	client, err := ethclient.Dial(cfg.HTTPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial chain %q: %w", chainName, err)
	}

	return NewOwnershipOracle(client), nil
}

// QueryOwnership returns true iff account holds at least one token of the
// given contract.
func (o *OwnershipOracle) QueryOwnership(ctx context.Context, account, contract common.Address) (bool, error) {
	data := make([]byte, 0, 36)
	data = append(data, balanceOfSelector...)
	data = append(data, common.LeftPadBytes(account.Bytes(), 32)...)

	result, err := o.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}, nil)
	if err != nil {
		return false, fmt.Errorf("balance query failed: %w", err)
	}

	if len(result) != 32 {
		return false, fmt.Errorf("expected 32-byte balance, got %d bytes", len(result))
	}

	balance := new(big.Int).SetBytes(result)

	return balance.Sign() > 0, nil
}
