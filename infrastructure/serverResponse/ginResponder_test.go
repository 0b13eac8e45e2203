package server_response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)

	Responder.Respond(ctx, http.StatusConflict, "already marked", map[string]any{"reason": "AlreadyMarked"}, []error{errors.New("duplicate")}, nil)

	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.True(t, ctx.IsAborted())

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "already marked", body["message"])
	assert.Equal(t, []any{"duplicate"}, body["errors"])
	assert.Equal(t, "AlreadyMarked", body["body"].(map[string]any)["reason"])
}

func TestRespondIgnoresNonGinContext(t *testing.T) {
	assert.NotPanics(t, func() {
		Responder.Respond("not a context", http.StatusOK, "ok", nil, nil, nil)
	})
}
