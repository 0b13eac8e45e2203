package opencv

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"
	"rollcall.io/infrastructure/biometric/types"
)

var cascadeSearchPaths = []string{
	"",
	"/usr/local/share/opencv4/haarcascades",
	"/usr/share/opencv4/haarcascades",
	"/opt/homebrew/share/opencv4/haarcascades",
}

// loadCascade tries dir first and then the usual opencv install locations.
func loadCascade(dir string, file string) (gocv.CascadeClassifier, error) {
	classifier := gocv.NewCascadeClassifier()
	candidates := append([]string{filepath.Join(dir, file)}, cascadeSearchPaths...)
	for i, candidate := range candidates {
		if i > 0 {
			candidate = filepath.Join(candidate, file)
		}
		if classifier.Load(candidate) {
			return classifier, nil
		}
	}
	classifier.Close()
	return classifier, fmt.Errorf("failed to load cascade %s from %s or alternative paths", file, dir)
}

// HaarDetector finds frontal faces and uses the eye cascade inside each face
// for landmarks.
type HaarDetector struct {
	faces gocv.CascadeClassifier
	eyes  gocv.CascadeClassifier
	mutex sync.Mutex
}

func NewHaarDetector(cascadeDir string) (*HaarDetector, error) {
	faces, err := loadCascade(cascadeDir, "haarcascade_frontalface_alt.xml")
	if err != nil {
		return nil, err
	}
	eyes, err := loadCascade(cascadeDir, "haarcascade_eye.xml")
	if err != nil {
		faces.Close()
		return nil, err
	}
	return &HaarDetector{faces: faces, eyes: eyes}, nil
}

func (hd *HaarDetector) Name() string {
	return "opencv-haar"
}

func (hd *HaarDetector) Detect(frame *types.Frame) ([]types.Region, error) {
	img, err := gocv.ImageToMatRGB(frame.Image)
	if err != nil {
		return nil, fmt.Errorf("converting frame: %w", err)
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	equalized := gocv.NewMat()
	defer equalized.Close()
	gocv.EqualizeHist(gray, &equalized)

	hd.mutex.Lock()
	defer hd.mutex.Unlock()

	rects := hd.faces.DetectMultiScaleWithParams(equalized, 1.1, 5, 0, image.Pt(30, 30), image.Pt(0, 0))
	offset := frame.Bounds().Min
	regions := make([]types.Region, 0, len(rects))
	for _, rect := range rects {
		face := equalized.Region(rect)
		eyes := hd.eyes.DetectMultiScale(face)
		face.Close()

		landmarks := make([]image.Point, 0, len(eyes))
		for _, eye := range eyes {
			center := image.Pt(eye.Min.X+eye.Dx()/2, eye.Min.Y+eye.Dy()/2)
			landmarks = append(landmarks, center.Add(rect.Min).Add(offset))
		}
		regions = append(regions, types.Region{Box: rect.Add(offset), Landmarks: landmarks})
	}
	return regions, nil
}

func (hd *HaarDetector) Close() error {
	hd.mutex.Lock()
	defer hd.mutex.Unlock()
	hd.faces.Close()
	hd.eyes.Close()
	return nil
}
