package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	result  []byte
	err     error
	lastMsg ethereum.CallMsg
}

func (f *fakeCaller) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.lastMsg = call

	return f.result, f.err
}

func TestQueryOwnership(t *testing.T) {
	account := common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	contract := common.HexToAddress("0x1111111111111111111111111111111111111111")

	tests := []struct {
		name    string
		result  []byte
		err     error
		want    bool
		wantErr string
	}{
		{
			name:   "nonzero balance",
			result: common.BigToHash(big.NewInt(3)).Bytes(),
			want:   true,
		},
		{
			name:   "zero balance",
			result: common.Hash{}.Bytes(),
			want:   false,
		},
		{
			name:    "short return",
			result:  []byte{0x01},
			wantErr: "expected 32-byte balance",
		},
		{
			name:    "empty return",
			result:  nil,
			wantErr: "expected 32-byte balance",
		},
		{
			name:    "transport failure",
			err:     errors.New("connection refused"),
			wantErr: "balance query failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := &fakeCaller{result: tt.result, err: tt.err}
			oracle := NewOwnershipOracle(caller)

			held, err := oracle.QueryOwnership(context.Background(), account, contract)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, held)
		})
	}
}

func TestQueryOwnershipCallShape(t *testing.T) {
	account := common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	contract := common.HexToAddress("0x1111111111111111111111111111111111111111")

	caller := &fakeCaller{result: common.Hash{}.Bytes()}
	oracle := NewOwnershipOracle(caller)

	_, err := oracle.QueryOwnership(context.Background(), account, contract)
	require.NoError(t, err)

	require.NotNil(t, caller.lastMsg.To)
	assert.Equal(t, contract, *caller.lastMsg.To)

	// 4-byte balanceOf selector followed by the padded account argument.
	require.Len(t, caller.lastMsg.Data, 36)
	assert.Equal(t, []byte{0x70, 0xa0, 0x82, 0x31}, caller.lastMsg.Data[:4])
	assert.Equal(t, common.LeftPadBytes(account.Bytes(), 32), caller.lastMsg.Data[4:])
}
