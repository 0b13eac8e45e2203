// Package dlib is the go-face backend: HOG and CNN detection, five point
// landmarks and 128 dimensional descriptors computed in one pass.
package dlib

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	face "github.com/Kagami/go-face"
	"rollcall.io/infrastructure/biometric/types"
	"rollcall.io/infrastructure/logger"
)

// Calibrated tolerance for dlib_face_recognition_resnet_model_v1 descriptors.
const DefaultTolerance = 0.4

var requiredModels = []string{
	"shape_predictor_5_face_landmarks.dat",
	"dlib_face_recognition_resnet_model_v1.dat",
	"mmod_human_face_detector.dat",
}

type Backend struct {
	rec *face.Recognizer
	// go-face recognizers are not safe for concurrent use
	mutex sync.Mutex
}

func NewBackend(modelDir string) (*Backend, error) {
	for _, model := range requiredModels {
		if _, err := os.Stat(filepath.Join(modelDir, model)); err != nil {
			return nil, fmt.Errorf("dlib model %s missing in %s: %w", model, modelDir, err)
		}
	}
	rec, err := face.NewRecognizer(modelDir)
	if err != nil {
		return nil, fmt.Errorf("loading dlib models: %w", err)
	}
	logger.Info("dlib face models loaded", logger.LoggerOptions{
		Key:  "path",
		Data: modelDir,
	})
	return &Backend{rec: rec}, nil
}

func (b *Backend) FastDetector() types.Detector {
	return &detector{backend: b, name: "dlib-hog"}
}

func (b *Backend) SlowDetector() types.Detector {
	return &detector{backend: b, name: "dlib-cnn", cnn: true}
}

func (b *Backend) Embedder() types.Embedder {
	return descriptorEmbedder{}
}

func (b *Backend) DefaultTolerance() float64 {
	return DefaultTolerance
}

func (b *Backend) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.rec != nil {
		b.rec.Close()
		b.rec = nil
	}
	return nil
}

var ErrBackendClosed = errors.New("dlib backend is closed")

func (b *Backend) recognize(jpeg []byte, cnn bool) ([]face.Face, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.rec == nil {
		return nil, ErrBackendClosed
	}
	if cnn {
		return b.rec.RecognizeCNN(jpeg)
	}
	return b.rec.Recognize(jpeg)
}

type detector struct {
	backend *Backend
	name    string
	cnn     bool
}

func (d *detector) Name() string {
	return d.name
}

func (d *detector) Detect(frame *types.Frame) ([]types.Region, error) {
	// go-face only decodes jpeg
	jpeg, err := frame.JPEG()
	if err != nil {
		return nil, fmt.Errorf("encoding frame for %s: %w", d.name, err)
	}

	faces, err := d.backend.recognize(jpeg, d.cnn)
	if err != nil {
		return nil, fmt.Errorf("%s detection: %w", d.name, err)
	}

	regions := make([]types.Region, 0, len(faces))
	for _, f := range faces {
		descriptor := make(types.Template, len(f.Descriptor))
		for i, value := range f.Descriptor {
			descriptor[i] = float64(value)
		}
		regions = append(regions, types.Region{
			Box:        f.Rectangle,
			Landmarks:  f.Shapes,
			Descriptor: descriptor,
		})
	}
	return regions, nil
}

// descriptorEmbedder hands back the descriptor computed during detection.
type descriptorEmbedder struct{}

func (descriptorEmbedder) Embed(frame *types.Frame, region types.Region) (types.Template, error) {
	if len(region.Descriptor) == 0 {
		return nil, errors.New("region carries no dlib descriptor")
	}
	return region.Descriptor, nil
}
