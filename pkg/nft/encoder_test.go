package nft

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avsworks/artisan/pkg/trigger"
)

func TestEncodeResponseMint(t *testing.T) {
	sender := common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")

	req := trigger.MintRequest{
		Sender:    sender,
		Prompt:    "a red fox",
		TriggerID: 7,
		Kind:      trigger.KindMint,
	}

	encoded, err := EncodeResponse(req, "ipfs://bafy123/nft_metadata.json")
	require.NoError(t, err)

	envelope, err := DecodeEnvelope(encoded)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), envelope.TriggerID)
	assert.Equal(t, trigger.KindMint, envelope.Kind)

	result, err := DecodeMintResult(envelope.Payload)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), result.TriggerID)
	assert.Equal(t, sender, result.Recipient)
	assert.Equal(t, "ipfs://bafy123/nft_metadata.json", result.TokenURI)
}

func TestEncodeResponseUpdate(t *testing.T) {
	owner := common.HexToAddress("0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB")

	req := trigger.MintRequest{
		Sender:    owner,
		Prompt:    "a blue heron",
		TriggerID: 12,
		Kind:      trigger.KindUpdate,
		TokenID:   big.NewInt(99),
	}

	encoded, err := EncodeResponse(req, "ipfs://bafy456/nft_metadata.json")
	require.NoError(t, err)

	envelope, err := DecodeEnvelope(encoded)
	require.NoError(t, err)

	assert.Equal(t, trigger.KindUpdate, envelope.Kind)

	result, err := DecodeUpdateResult(envelope.Payload)
	require.NoError(t, err)

	assert.Equal(t, uint64(12), result.TriggerID)
	assert.Equal(t, owner, result.Owner)
	assert.Equal(t, "ipfs://bafy456/nft_metadata.json", result.TokenURI)
	assert.Equal(t, int64(99), result.TokenID.Int64())
}

func TestEncodeResponseRejectsInvalidKind(t *testing.T) {
	req := trigger.MintRequest{
		TriggerID: 1,
		Kind:      trigger.TriggerKind(9),
	}

	encoded, err := EncodeResponse(req, "ipfs://bafy123")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTriggerType)
	assert.Nil(t, encoded)
}

func TestEncodeResponseUpdateRequiresTokenID(t *testing.T) {
	req := trigger.MintRequest{
		TriggerID: 1,
		Kind:      trigger.KindUpdate,
	}

	_, err := EncodeResponse(req, "ipfs://bafy123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no token id")
}

func TestTokenMetadataJSONShape(t *testing.T) {
	metadata := AssembleMetadata(
		"AI Generated NFT",
		"the fox runs",
		"ipfs://bafyimg/nft_image.png",
		[]Attribute{
			{TraitType: "Prompt", Value: "a red fox"},
			{TraitType: "Holder", Value: "true"},
		},
	)

	data, err := json.Marshal(metadata)
	require.NoError(t, err)

	expected := `{"name":"AI Generated NFT","description":"the fox runs","image":"ipfs://bafyimg/nft_image.png","attributes":[{"trait_type":"Prompt","value":"a red fox"},{"trait_type":"Holder","value":"true"}]}`
	assert.JSONEq(t, expected, string(data))

	// Attribute order is display-significant; the prompt stays first.
	var decoded TokenMetadata
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Prompt", decoded.Attributes[0].TraitType)
}
