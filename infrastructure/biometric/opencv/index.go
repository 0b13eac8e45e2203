// Package opencv is the gocv backend: Haar cascade as the fast detector,
// YuNet as the expensive one and ArcFace for embeddings.
package opencv

import (
	"errors"
	"image"

	"rollcall.io/infrastructure/biometric/types"
)

// ArcFace embeddings are unit length, so euclidean distance ranges over [0, 2].
const DefaultTolerance = 1.1

type Config struct {
	CascadeDir   string
	YuNetModel   string
	ArcFaceModel string
}

type Backend struct {
	haar    *HaarDetector
	yunet   *YuNetDetector
	arcface *ArcFaceEmbedder
}

func NewBackend(config Config) (*Backend, error) {
	haar, err := NewHaarDetector(config.CascadeDir)
	if err != nil {
		return nil, err
	}
	yunet, err := NewYuNetDetector(YuNetConfig{
		ModelPath:           config.YuNetModel,
		InputSize:           image.Pt(320, 320),
		ConfidenceThreshold: 0.8,
		NMSThreshold:        0.3,
		TopK:                5000,
	})
	if err != nil {
		haar.Close()
		return nil, err
	}
	arcface, err := NewArcFaceEmbedder(config.ArcFaceModel)
	if err != nil {
		haar.Close()
		yunet.Close()
		return nil, err
	}
	return &Backend{haar: haar, yunet: yunet, arcface: arcface}, nil
}

func (b *Backend) FastDetector() types.Detector { return b.haar }
func (b *Backend) SlowDetector() types.Detector { return b.yunet }
func (b *Backend) Embedder() types.Embedder     { return b.arcface }
func (b *Backend) DefaultTolerance() float64    { return DefaultTolerance }

func (b *Backend) Close() error {
	return errors.Join(b.haar.Close(), b.yunet.Close(), b.arcface.Close())
}
