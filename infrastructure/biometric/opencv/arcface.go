package opencv

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"gocv.io/x/gocv"
	"rollcall.io/infrastructure/biometric/types"
)

const arcFaceDimensions = 512

// ArcFaceEmbedder extracts L2 normalised 512-d embeddings with an ArcFace
// ONNX model.
type ArcFaceEmbedder struct {
	net       gocv.Net
	inputSize image.Point
	mutex     sync.Mutex
}

func NewArcFaceEmbedder(modelPath string) (*ArcFaceEmbedder, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", modelPath)
	}
	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to load ArcFace model from %s", modelPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)
	return &ArcFaceEmbedder{net: net, inputSize: image.Pt(112, 112)}, nil
}

func (af *ArcFaceEmbedder) Embed(frame *types.Frame, region types.Region) (types.Template, error) {
	img, err := gocv.ImageToMatRGB(frame.Image)
	if err != nil {
		return nil, fmt.Errorf("converting frame: %w", err)
	}
	defer img.Close()

	box := padded(region.Box.Sub(frame.Bounds().Min), img.Cols(), img.Rows())
	if box.Empty() {
		return nil, errors.New("face region outside frame")
	}
	face := img.Region(box)
	defer face.Close()

	blob := gocv.BlobFromImage(face, 1.0/127.5, af.inputSize, gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	af.mutex.Lock()
	af.net.SetInput(blob, "")
	output := af.net.Forward("")
	af.mutex.Unlock()
	defer output.Close()

	if output.Total() < arcFaceDimensions {
		return nil, fmt.Errorf("unexpected embedding size %d", output.Total())
	}
	embedding := make(types.Template, arcFaceDimensions)
	var norm float64
	for i := range embedding {
		embedding[i] = float64(output.GetFloatAt(0, i))
		norm += embedding[i] * embedding[i]
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil, errors.New("zero norm embedding")
	}
	for i := range embedding {
		embedding[i] /= norm
	}
	return embedding, nil
}

// padded grows box by 20% on each side, clamped to the image.
func padded(box image.Rectangle, cols int, rows int) image.Rectangle {
	padX := box.Dx() / 5
	padY := box.Dy() / 5
	grown := image.Rect(box.Min.X-padX, box.Min.Y-padY, box.Max.X+padX, box.Max.Y+padY)
	return grown.Intersect(image.Rect(0, 0, cols, rows))
}

func (af *ArcFaceEmbedder) Close() error {
	af.mutex.Lock()
	defer af.mutex.Unlock()
	return af.net.Close()
}
