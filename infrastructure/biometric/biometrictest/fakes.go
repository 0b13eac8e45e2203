// Package biometrictest provides in-process detectors, embedders and
// synthetic frames for exercising the biometric pipeline without native
// face libraries.
package biometrictest

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"

	"rollcall.io/infrastructure/biometric/types"
)

type FakeDetector struct {
	Label   string
	Regions []types.Region
	Err     error
	calls   atomic.Int32
}

func (fd *FakeDetector) Name() string {
	if fd.Label == "" {
		return "fake"
	}
	return fd.Label
}

func (fd *FakeDetector) Detect(frame *types.Frame) ([]types.Region, error) {
	fd.calls.Add(1)
	if fd.Err != nil {
		return nil, fd.Err
	}
	return fd.Regions, nil
}

func (fd *FakeDetector) Calls() int {
	return int(fd.calls.Load())
}

// FakeEmbedder returns Template, or the result of Func when set.
type FakeEmbedder struct {
	Template types.Template
	Func     func(frame *types.Frame, region types.Region) (types.Template, error)
	Err      error
}

func (fe *FakeEmbedder) Embed(frame *types.Frame, region types.Region) (types.Template, error) {
	if fe.Err != nil {
		return nil, fe.Err
	}
	if fe.Func != nil {
		return fe.Func(frame, region)
	}
	return fe.Template, nil
}

type FakeBackend struct {
	Fast      *FakeDetector
	Slow      *FakeDetector
	Embed     *FakeEmbedder
	Tolerance float64
}

func (fb *FakeBackend) FastDetector() types.Detector { return fb.Fast }
func (fb *FakeBackend) SlowDetector() types.Detector { return fb.Slow }
func (fb *FakeBackend) Embedder() types.Embedder     { return fb.Embed }
func (fb *FakeBackend) DefaultTolerance() float64    { return fb.Tolerance }
func (fb *FakeBackend) Close() error                 { return nil }

// OneFace is a single detected face with two eye landmarks.
func OneFace() []types.Region {
	return []types.Region{{
		Box:       image.Rect(16, 16, 48, 48),
		Landmarks: []image.Point{{X: 24, Y: 28}, {X: 40, Y: 28}},
	}}
}

// Checkerboard draws a size x size image of block x block squares
// alternating between a and b.
func Checkerboard(size int, block int, a color.RGBA, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if ((x/block)+(y/block))%2 == 0 {
				img.SetRGBA(x, y, a)
			} else {
				img.SetRGBA(x, y, b)
			}
		}
	}
	return img
}

// LiveLikeFrame passes every liveness check with default thresholds:
// brightness 120, colour variance 2400, laplacian variance about 263.
func LiveLikeFrame() *types.Frame {
	return types.NewFrame(Checkerboard(64, 8, color.RGBA{R: 60, G: 120, B: 180, A: 255}, color.RGBA{R: 180, G: 120, B: 60, A: 255}))
}

// LiveLikePNG is LiveLikeFrame encoded as png bytes.
func LiveLikePNG() []byte {
	var buf bytes.Buffer
	png.Encode(&buf, LiveLikeFrame().Image)
	return buf.Bytes()
}
