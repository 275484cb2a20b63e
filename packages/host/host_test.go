package host

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runbookd/urimod/packages/module"
)

func TestToJSON_PassesJSONThrough(t *testing.T) {
	doc := []byte(`{"url": "https://example.com"}`)

	out, err := ToJSON(doc)

	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestToJSON_ConvertsYAML(t *testing.T) {
	doc := []byte("url: https://example.com\nmethod: POST\nheaders:\n  Accept: application/json\n")

	out, err := ToJSON(doc)

	require.NoError(t, err)
	assert.JSONEq(t, `{"url": "https://example.com", "method": "POST", "headers": {"Accept": "application/json"}}`, string(out))
}

func TestToJSON_RejectsGarbage(t *testing.T) {
	_, err := ToJSON([]byte("{{not a document"))
	assert.Error(t, err)
}

func TestWriteFailure_Envelope(t *testing.T) {
	var buf bytes.Buffer

	err := WriteFailure(&buf, errors.New("request failed with HTTP status code 404 and error message not found"), false)

	require.NoError(t, err)
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &envelope))
	assert.Equal(t, true, envelope["failed"])
	assert.Contains(t, envelope["msg"], "404")
	assert.Contains(t, envelope["msg"], "not found")
}

func TestWriteResult_ContractFieldNames(t *testing.T) {
	var buf bytes.Buffer
	result := &module.Result{Method: "GET", StatusCode: 200, OK: true, Verify: true}

	require.NoError(t, WriteResult(&buf, result, false))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	for _, field := range []string{
		"changed", "content", "cookies", "elapsed", "encoding", "headers",
		"history", "is_permanent_redirect", "is_redirect", "json", "links",
		"method", "next", "ok", "reason", "text", "status_code", "url", "verify",
	} {
		assert.Contains(t, record, field)
	}
	assert.NotContains(t, record, "failed")
}
