package types

import (
	"bytes"
	"image"
	"sync"

	"github.com/disintegration/imaging"
)

// Template is a fixed length face feature vector produced by an Embedder.
type Template []float64

type Region struct {
	Box       image.Rectangle
	Landmarks []image.Point
	// Descriptor is set by backends that compute features during detection.
	Descriptor Template
}

// Frame is a decoded capture. JPEG bytes are produced lazily for backends
// that only accept encoded input.
type Frame struct {
	Image image.Image

	jpegOnce sync.Once
	jpeg     []byte
	jpegErr  error
}

func NewFrame(img image.Image) *Frame {
	return &Frame{Image: img}
}

func (f *Frame) Bounds() image.Rectangle {
	return f.Image.Bounds()
}

func (f *Frame) JPEG() ([]byte, error) {
	f.jpegOnce.Do(func() {
		var buf bytes.Buffer
		f.jpegErr = imaging.Encode(&buf, f.Image, imaging.JPEG, imaging.JPEGQuality(95))
		f.jpeg = buf.Bytes()
	})
	return f.jpeg, f.jpegErr
}

type Detector interface {
	Name() string
	Detect(frame *Frame) ([]Region, error)
}

type Embedder interface {
	Embed(frame *Frame, region Region) (Template, error)
}

// Backend bundles the native detectors and embedder of one face library.
type Backend interface {
	FastDetector() Detector
	SlowDetector() Detector
	Embedder() Embedder
	// DefaultTolerance is the match distance the backend's embeddings are calibrated for.
	DefaultTolerance() float64
	Close() error
}

type MatchResult struct {
	IsMatch    bool    `json:"isMatch"`
	Distance   float64 `json:"distance"`
	Similarity float64 `json:"similarity"`
}

type LivenessReport struct {
	BlurVariance        float64  `json:"blurVariance"`
	FaceCount           int      `json:"faceCount"`
	ColorVariance       *float64 `json:"colorVariance,omitempty"`
	HighFrequencyEnergy *float64 `json:"highFrequencyEnergy,omitempty"`
	Brightness          float64  `json:"brightness"`
}
