package biometric

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/infrastructure/biometric/types"
	"rollcall.io/infrastructure/logger"
)

// FaceCodec turns a frame into a template. Strategies are tried in order and
// the first one returning any region wins. Within a strategy the first
// region is used.
type FaceCodec struct {
	Strategies []types.Detector
	Embedder   types.Embedder
}

// Builds the fast, expensive, upsampled-fast cascade for a backend.
func NewFaceCodec(backend types.Backend) *FaceCodec {
	return &FaceCodec{
		Strategies: []types.Detector{
			backend.FastDetector(),
			backend.SlowDetector(),
			&UpsampledDetector{Inner: backend.FastDetector(), Factor: 2},
		},
		Embedder: backend.Embedder(),
	}
}

func (fc *FaceCodec) Encode(frame *types.Frame) (types.Template, error) {
	for _, strategy := range fc.Strategies {
		regions, err := strategy.Detect(frame)
		if err != nil {
			logger.Warning("face detection strategy failed", logger.LoggerOptions{
				Key:  "strategy",
				Data: strategy.Name(),
			}, logger.LoggerOptions{
				Key:  "error",
				Data: err,
			})
			continue
		}
		if len(regions) == 0 {
			continue
		}
		template, err := fc.Embedder.Embed(frame, regions[0])
		if err != nil {
			return nil, apperrors.NewFailure(apperrors.EncodingFailed, err.Error())
		}
		if len(template) == 0 {
			return nil, apperrors.NewFailure(apperrors.EncodingFailed, "embedder returned an empty template")
		}
		logger.Info("face encoded", logger.LoggerOptions{
			Key:  "strategy",
			Data: strategy.Name(),
		}, logger.LoggerOptions{
			Key:  "faces",
			Data: len(regions),
		})
		return template, nil
	}
	return nil, apperrors.NewFailure(apperrors.NoFaceDetected, "no face found by any detection strategy")
}

// UpsampledDetector runs Inner on an enlarged copy of the frame and maps the
// regions back to the original coordinates.
type UpsampledDetector struct {
	Inner  types.Detector
	Factor int
}

func (ud *UpsampledDetector) Name() string {
	return fmt.Sprintf("%s-upsampled-x%d", ud.Inner.Name(), ud.Factor)
}

func (ud *UpsampledDetector) Detect(frame *types.Frame) ([]types.Region, error) {
	bounds := frame.Bounds()
	enlarged := imaging.Resize(frame.Image, bounds.Dx()*ud.Factor, bounds.Dy()*ud.Factor, imaging.Lanczos)
	regions, err := ud.Inner.Detect(types.NewFrame(enlarged))
	if err != nil {
		return nil, err
	}
	mapped := make([]types.Region, 0, len(regions))
	for _, region := range regions {
		landmarks := make([]image.Point, 0, len(region.Landmarks))
		for _, point := range region.Landmarks {
			landmarks = append(landmarks, point.Div(ud.Factor).Add(bounds.Min))
		}
		mapped = append(mapped, types.Region{
			Box:        image.Rectangle{Min: region.Box.Min.Div(ud.Factor), Max: region.Box.Max.Div(ud.Factor)}.Add(bounds.Min),
			Landmarks:  landmarks,
			Descriptor: region.Descriptor,
		})
	}
	return mapped, nil
}
