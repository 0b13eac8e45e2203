package biometric

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/infrastructure/biometric/types"
)

// DecodeFrame decodes jpeg, png, gif or webp bytes, applying EXIF orientation.
func DecodeFrame(data []byte) (*types.Frame, error) {
	if len(data) == 0 {
		return nil, apperrors.NewFailure(apperrors.InvalidImage, "empty image")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperrors.NewFailure(apperrors.InvalidImage, err.Error())
	}
	if img.Bounds().Empty() {
		return nil, apperrors.NewFailure(apperrors.InvalidImage, "image has no pixels")
	}
	return types.NewFrame(img), nil
}

// DecodeBase64Frame accepts plain base64 or a data URL such as
// "data:image/jpeg;base64,...".
func DecodeBase64Frame(encoded string) (*types.Frame, error) {
	if idx := strings.Index(encoded, ";base64,"); idx >= 0 {
		encoded = encoded[idx+len(";base64,"):]
	}
	encoded = strings.TrimSpace(encoded)
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		if err != nil {
			return nil, apperrors.NewFailure(apperrors.InvalidImage, "image is not valid base64")
		}
	}
	return DecodeFrame(data)
}

// luminance returns the frame as a row-major grid of gray levels in [0, 255]
// using the ITU-R BT.601 weights.
func luminance(img image.Image) [][]float64 {
	bounds := img.Bounds()
	gray := make([][]float64, bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		row := make([]float64, bounds.Dx())
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			row[x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
		gray[y] = row
	}
	return gray
}

// channels splits the frame into R, G and B samples. ok is false when the
// image model has a single channel.
func channels(img image.Image) (red []float64, green []float64, blue []float64, ok bool) {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return nil, nil, nil, false
	}
	bounds := img.Bounds()
	size := bounds.Dx() * bounds.Dy()
	red = make([]float64, 0, size)
	green = make([]float64, 0, size)
	blue = make([]float64, 0, size)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			red = append(red, float64(r>>8))
			green = append(green, float64(g>>8))
			blue = append(blue, float64(b>>8))
		}
	}
	return red, green, blue, true
}
