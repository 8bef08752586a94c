package trigger_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avsworks/artisan/pkg/testutil"
	"github.com/avsworks/artisan/pkg/trigger"
)

func TestTriggerActionJSONRoundTrip(t *testing.T) {
	action := testutil.CreateTriggerAction(testutil.WithPrompt("haiku about rivers"))

	data, err := json.Marshal(action)
	require.NoError(t, err)

	var decoded trigger.TriggerAction
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, action, decoded)
}

func TestRawTriggerJSONRoundTrip(t *testing.T) {
	action := testutil.CreateRawTriggerAction([]byte{0xca, 0xfe})

	data, err := json.Marshal(action)
	require.NoError(t, err)

	var decoded trigger.TriggerAction
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, trigger.DataRaw, decoded.Data.Kind)
	assert.Equal(t, action.Data.Raw, decoded.Data.Raw)
}

func TestTriggerKindString(t *testing.T) {
	assert.Equal(t, "mint", trigger.KindMint.String())
	assert.Equal(t, "update", trigger.KindUpdate.String())
	assert.Equal(t, "unknown", trigger.TriggerKind(9).String())
}
