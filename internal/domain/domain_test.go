package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInboundQueryValidate(t *testing.T) {
	q := InboundQuery{Prompt: "hello"}
	assert.NoError(t, q.Validate())

	q = InboundQuery{SessionID: "s1"}
	assert.ErrorIs(t, q.Validate(), ErrMissingPrompt)
}

func TestActionInvocationUnmarshal(t *testing.T) {
	raw := `{
		"messageVersion": "1.0",
		"actionGroup": "SendSms",
		"function": "sendSms",
		"requestBody": {
			"content": {
				"application/json": {
					"properties": [
						{"name": "phone", "type": "string", "value": "+15551234567"},
						{"name": "name", "type": "string", "value": "Ada Lovelace"}
					]
				}
			}
		}
	}`

	var inv ActionInvocation
	require.NoError(t, json.Unmarshal([]byte(raw), &inv))

	props := inv.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, "phone", props[0].Name)
	assert.Equal(t, "+15551234567", props[0].Value)

	m := FlattenProperties(props)
	assert.Equal(t, "Ada Lovelace", m["name"])
}

func TestFlattenPropertiesEmpty(t *testing.T) {
	assert.Nil(t, FlattenProperties(nil))
	assert.Nil(t, FlattenProperties([]ActionProperty{}))
}

func TestFlattenPropertiesDuplicateLastWins(t *testing.T) {
	m := FlattenProperties([]ActionProperty{
		{Name: "phone", Value: "first"},
		{Name: "phone", Value: "second"},
	})
	assert.Equal(t, "second", m["phone"])
}

func TestParseFullName(t *testing.T) {
	tests := []struct {
		name      string
		wantFirst string
		wantLast  string
		wantErr   bool
	}{
		{"Ada Lovelace", "Ada", "Lovelace", false},
		{"Gabriel García Márquez", "Gabriel", "García Márquez", false},
		{"  Ada   Lovelace  ", "Ada", "Lovelace", false},
		{"Ada", "", "", true},
		{"", "", "", true},
		{"   ", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last, err := ParseFullName(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIncompleteName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestNewActionResponse(t *testing.T) {
	resp := NewActionResponse("SendSms", "sendSms", ResponseStateSuccess, "SMS sent successfully")

	assert.Equal(t, "1.0", resp.MessageVersion)
	assert.Equal(t, "SendSms", resp.Response.ActionGroup)
	assert.Equal(t, "sendSms", resp.Response.Function)
	assert.Equal(t, "SUCCESS", resp.Response.FunctionResponse.ResponseState)
	assert.Equal(t, "SMS sent successfully",
		resp.Response.FunctionResponse.ResponseBody["application/json"].Message)

	// wire shape matters: the backend routes on these exact keys
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"responseState":"SUCCESS"`)
	assert.Contains(t, string(data), `"application/json"`)
}
