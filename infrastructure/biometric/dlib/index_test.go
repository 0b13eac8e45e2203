package dlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rollcall.io/infrastructure/biometric/biometrictest"
	"rollcall.io/infrastructure/biometric/types"
)

func TestNewBackendReportsMissingModels(t *testing.T) {
	_, err := NewBackend(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shape_predictor_5_face_landmarks.dat")
}

func TestDescriptorEmbedder(t *testing.T) {
	descriptor := types.Template{0.5, -0.25}
	template, err := descriptorEmbedder{}.Embed(nil, types.Region{Descriptor: descriptor})
	require.NoError(t, err)
	assert.Equal(t, descriptor, template)

	_, err = descriptorEmbedder{}.Embed(nil, types.Region{})
	assert.Error(t, err)
}

func TestDetectAfterClose(t *testing.T) {
	backend := &Backend{}
	require.NoError(t, backend.Close())

	for _, detector := range []types.Detector{backend.FastDetector(), backend.SlowDetector()} {
		_, err := detector.Detect(biometrictest.LiveLikeFrame())
		assert.ErrorIs(t, err, ErrBackendClosed, detector.Name())
	}
}
