package web

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// triggerSchema is the shape contract for submitted trigger documents.
// Variant payload consistency is checked by the decoder; the schema only
// rejects documents that could never decode.
const triggerSchema = `{
	"type": "object",
	"required": ["config", "data"],
	"properties": {
		"config": {
			"type": "object",
			"required": ["service_id", "workflow_id", "trigger_source"],
			"properties": {
				"service_id": {"type": "string"},
				"workflow_id": {"type": "string"},
				"trigger_source": {
					"type": "object",
					"required": ["kind"],
					"properties": {
						"kind": {"enum": ["eth_contract_event", "cosmos_contract_event", "manual"]}
					}
				}
			}
		},
		"data": {
			"type": "object",
			"required": ["kind"],
			"properties": {
				"kind": {"enum": ["eth_contract_event", "cosmos_contract_event", "raw"]}
			}
		}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(triggerSchema)

// validateTriggerBody validates a raw request body against the trigger
// document schema.
func validateTriggerBody(body []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return err
	}

	if !result.Valid() {
		descriptions := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			descriptions = append(descriptions, desc.String())
		}

		return fmt.Errorf("validation errors: %s", strings.Join(descriptions, "; "))
	}

	return nil
}
