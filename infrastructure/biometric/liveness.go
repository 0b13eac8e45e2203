package biometric

import (
	"gonum.org/v1/gonum/stat"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/infrastructure/biometric/types"
	"rollcall.io/infrastructure/env"
	"rollcall.io/infrastructure/logger"
)

// LivenessThresholds tune the single frame anti-spoofing battery.
type LivenessThresholds struct {
	BlurVariance        float64
	ColorVariance       float64
	HighFrequencyEnergy float64
	MinBrightness       float64
	MaxBrightness       float64
}

func DefaultLivenessThresholds() LivenessThresholds {
	return LivenessThresholds{
		BlurVariance:        50,
		ColorVariance:       100,
		HighFrequencyEnergy: 2.5e6,
		MinBrightness:       30,
		MaxBrightness:       220,
	}
}

func LoadLivenessThresholds() LivenessThresholds {
	defaults := DefaultLivenessThresholds()
	return LivenessThresholds{
		BlurVariance:        env.GetFloat("LIVENESS_BLUR_VARIANCE", defaults.BlurVariance),
		ColorVariance:       env.GetFloat("LIVENESS_COLOR_VARIANCE", defaults.ColorVariance),
		HighFrequencyEnergy: env.GetFloat("LIVENESS_HIGH_FREQUENCY_ENERGY", defaults.HighFrequencyEnergy),
		MinBrightness:       env.GetFloat("LIVENESS_MIN_BRIGHTNESS", defaults.MinBrightness),
		MaxBrightness:       env.GetFloat("LIVENESS_MAX_BRIGHTNESS", defaults.MaxBrightness),
	}
}

type LivenessEvaluator struct {
	Detector   types.Detector
	Thresholds LivenessThresholds
}

// Evaluate runs the checks in order and stops at the first failure:
// blur, face presence, landmarks, face count, colour variance, screen
// frequency energy, brightness.
func (le *LivenessEvaluator) Evaluate(frame *types.Frame) (*types.LivenessReport, error) {
	report := &types.LivenessReport{}
	gray := luminance(frame.Image)

	report.BlurVariance = laplacianVariance(gray)
	if report.BlurVariance < le.Thresholds.BlurVariance {
		return report, apperrors.NewMeasuredFailure(apperrors.TooBlurry, report.BlurVariance,
			"laplacian variance %.2f below %.2f", report.BlurVariance, le.Thresholds.BlurVariance)
	}

	regions, err := le.Detector.Detect(frame)
	if err != nil {
		logger.Warning("liveness face detection failed", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "detector",
			Data: le.Detector.Name(),
		})
	}
	report.FaceCount = len(regions)
	if len(regions) == 0 {
		return report, apperrors.NewFailure(apperrors.NoFaceDetected, "no face in capture")
	}
	if len(regions[0].Landmarks) == 0 {
		return report, apperrors.NewFailure(apperrors.NoLandmarks, "no facial landmarks found")
	}
	if len(regions) > 1 {
		return report, apperrors.NewMeasuredFailure(apperrors.MultipleFaces, float64(len(regions)),
			"%d faces in capture", len(regions))
	}

	if red, green, blue, ok := channels(frame.Image); ok {
		colorVariance := (stat.PopVariance(red, nil) + stat.PopVariance(green, nil) + stat.PopVariance(blue, nil)) / 3
		report.ColorVariance = &colorVariance
		if colorVariance < le.Thresholds.ColorVariance {
			return report, apperrors.NewMeasuredFailure(apperrors.LowColorVariance, colorVariance,
				"colour variance %.2f below %.2f", colorVariance, le.Thresholds.ColorVariance)
		}
	}

	if energy, ok := highFrequencyEnergy(frame.Image); ok {
		report.HighFrequencyEnergy = &energy
		if energy > le.Thresholds.HighFrequencyEnergy {
			return report, apperrors.NewMeasuredFailure(apperrors.ScreenMoirePattern, energy,
				"high frequency energy %.0f above %.0f", energy, le.Thresholds.HighFrequencyEnergy)
		}
	} else {
		logger.Warning("frequency analysis skipped")
	}

	report.Brightness = meanOf(gray)
	if report.Brightness < le.Thresholds.MinBrightness || report.Brightness > le.Thresholds.MaxBrightness {
		return report, apperrors.NewMeasuredFailure(apperrors.UnnaturalBrightness, report.Brightness,
			"brightness %.2f outside [%.0f, %.0f]", report.Brightness, le.Thresholds.MinBrightness, le.Thresholds.MaxBrightness)
	}

	logger.Info("liveness checks passed", logger.LoggerOptions{
		Key:  "report",
		Data: report,
	})
	return report, nil
}

// laplacianVariance is the population variance of the 4-neighbour Laplacian
// with reflect-101 borders.
func laplacianVariance(gray [][]float64) float64 {
	h := len(gray)
	if h == 0 || len(gray[0]) == 0 {
		return 0
	}
	w := len(gray[0])
	response := make([]float64, 0, h*w)
	for y := 0; y < h; y++ {
		up, down := reflect101(y-1, h), reflect101(y+1, h)
		for x := 0; x < w; x++ {
			left, right := reflect101(x-1, w), reflect101(x+1, w)
			response = append(response, gray[up][x]+gray[down][x]+gray[y][left]+gray[y][right]-4*gray[y][x])
		}
	}
	return stat.PopVariance(response, nil)
}

func reflect101(i int, n int) int {
	if n == 1 {
		return 0
	}
	if i < 0 {
		return -i
	}
	if i >= n {
		return 2*n - 2 - i
	}
	return i
}

func meanOf(gray [][]float64) float64 {
	flat := make([]float64, 0, len(gray)*len(gray[0]))
	for _, row := range gray {
		flat = append(flat, row...)
	}
	return stat.Mean(flat, nil)
}
