package opencv

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaddedClampsToImage(t *testing.T) {
	assert.Equal(t, image.Rect(12, 12, 68, 68), padded(image.Rect(20, 20, 60, 60), 100, 100))
	assert.Equal(t, image.Rect(0, 0, 48, 48), padded(image.Rect(0, 0, 40, 40), 48, 48))
	assert.True(t, padded(image.Rect(200, 200, 220, 220), 100, 100).Empty())
}

func TestNewArcFaceEmbedderMissingModel(t *testing.T) {
	_, err := NewArcFaceEmbedder("/nonexistent/arcface.onnx")
	assert.ErrorContains(t, err, "model file not found")
}
