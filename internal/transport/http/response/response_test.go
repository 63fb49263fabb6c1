package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	b, err := json.Marshal(OK(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":{}}`, string(b))

	b, err = json.Marshal(Error(CodeForbidden, ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":403,"msg":"Forbidden","data":{}}`, string(b))

	b, err = json.Marshal(Fail(CodeBadRequest, "Invalid input.", map[string]any{"fields": map[string]string{"name": "This field is required."}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":400,"msg":"Invalid input.","data":{"fields":{"name":"This field is required."}}}`, string(b))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, 200, Status(CodeOK))
	assert.Equal(t, 404, Status(CodeNotFound))
}
