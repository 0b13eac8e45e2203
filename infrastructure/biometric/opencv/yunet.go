package opencv

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
	"rollcall.io/infrastructure/biometric/types"
	"rollcall.io/infrastructure/logger"
)

type YuNetConfig struct {
	ModelPath           string
	InputSize           image.Point
	ConfidenceThreshold float32
	NMSThreshold        float32
	TopK                int
}

// YuNetDetector is the DNN detector. Slower than Haar but far more tolerant
// of pose and lighting.
type YuNetDetector struct {
	detector gocv.FaceDetectorYN
	mutex    sync.Mutex
}

func NewYuNetDetector(config YuNetConfig) (*YuNetDetector, error) {
	if _, err := os.Stat(config.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", config.ModelPath)
	}
	detector := gocv.NewFaceDetectorYN(config.ModelPath, "", config.InputSize)
	detector.SetScoreThreshold(config.ConfidenceThreshold)
	detector.SetNMSThreshold(config.NMSThreshold)
	detector.SetTopK(config.TopK)

	logger.Info("YuNet model loaded successfully", logger.LoggerOptions{
		Key: "model_info",
		Data: map[string]interface{}{
			"model_path":           config.ModelPath,
			"confidence_threshold": config.ConfidenceThreshold,
			"nms_threshold":        config.NMSThreshold,
			"top_k":                config.TopK,
		},
	})
	return &YuNetDetector{detector: detector}, nil
}

func (yd *YuNetDetector) Name() string {
	return "opencv-yunet"
}

func (yd *YuNetDetector) Detect(frame *types.Frame) ([]types.Region, error) {
	img, err := gocv.ImageToMatRGB(frame.Image)
	if err != nil {
		return nil, fmt.Errorf("converting frame: %w", err)
	}
	defer img.Close()

	faces := gocv.NewMat()
	defer faces.Close()

	yd.mutex.Lock()
	yd.detector.SetInputSize(image.Pt(img.Cols(), img.Rows()))
	yd.detector.Detect(img, &faces)
	yd.mutex.Unlock()

	return parseDetections(faces, img.Cols(), img.Rows(), frame.Bounds().Min), nil
}

// Each row is x, y, w, h, five landmark pairs (right eye, left eye, nose tip,
// right and left mouth corner) and the score.
func parseDetections(faces gocv.Mat, cols int, rows int, offset image.Point) []types.Region {
	if faces.Empty() || faces.Rows() == 0 {
		return nil
	}
	regions := make([]types.Region, 0, faces.Rows())
	for i := 0; i < faces.Rows(); i++ {
		x := int(faces.GetFloatAt(i, 0))
		y := int(faces.GetFloatAt(i, 1))
		w := int(faces.GetFloatAt(i, 2))
		h := int(faces.GetFloatAt(i, 3))
		if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > cols || y+h > rows {
			continue
		}
		landmarks := make([]image.Point, 0, 5)
		for col := 4; col < 14; col += 2 {
			point := image.Pt(int(faces.GetFloatAt(i, col)), int(faces.GetFloatAt(i, col+1)))
			landmarks = append(landmarks, point.Add(offset))
		}
		regions = append(regions, types.Region{
			Box:       image.Rect(x, y, x+w, y+h).Add(offset),
			Landmarks: landmarks,
		})
	}
	return regions
}

func (yd *YuNetDetector) Close() error {
	yd.mutex.Lock()
	defer yd.mutex.Unlock()
	yd.detector.Close()
	return nil
}
