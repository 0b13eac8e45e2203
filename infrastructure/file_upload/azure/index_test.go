package azure

import (
	"encoding/base64"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rollcall.io/infrastructure/file_upload/types"
)

func TestGenerateDownloadURL(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte("not-a-real-storage-account-key"))
	service, err := NewAzureBlobService("rollcall", key, "faces")
	require.NoError(t, err)

	signed, err := service.GenerateDownloadURL("p1/enrollment.jpg")
	require.NoError(t, err)

	parsed, err := url.Parse(*signed)
	require.NoError(t, err)
	assert.Equal(t, "rollcall.blob.core.windows.net", parsed.Host)
	assert.Equal(t, "/faces/p1/enrollment.jpg", parsed.Path)
	assert.Equal(t, "r", parsed.Query().Get("sp"))
	assert.NotEmpty(t, parsed.Query().Get("sig"))

	_, err = service.generateSignedURL("x", types.SignedURLPermission{})
	assert.Error(t, err)
}
