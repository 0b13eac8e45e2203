package biometric

import (
	"image"
	"math"
	"math/cmplx"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/dsp/fourier"
	"rollcall.io/infrastructure/logger"
)

// Frames are resampled to this square before the transform so the energy
// threshold does not depend on capture resolution.
const spectrumSize = 128

// highFrequencyEnergy sums the log magnitude spectrum 20*ln(|F|+1) outside a
// centred low frequency disk of radius min(h, w)/2/4. ok is false when the
// value can not be computed.
func highFrequencyEnergy(img image.Image) (energy float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warning("frequency analysis panicked", logger.LoggerOptions{
				Key:  "panic",
				Data: r,
			})
			energy, ok = 0, false
		}
	}()
	if img.Bounds().Empty() {
		return 0, false
	}

	resized := imaging.Resize(img, spectrumSize, spectrumSize, imaging.Box)
	spectrum := fft2(luminance(resized))
	n := spectrumSize
	center := n / 2
	radius := center / 4

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			// position after fftshift
			sy, sx := (y+center)%n, (x+center)%n
			dy, dx := sy-center, sx-center
			if dy*dy+dx*dx <= radius*radius {
				continue
			}
			energy += 20 * math.Log(cmplx.Abs(spectrum[y][x])+1)
		}
	}
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return 0, false
	}
	return energy, true
}

// fft2 is a row-column 2-D discrete Fourier transform of a square grid.
func fft2(gray [][]float64) [][]complex128 {
	n := len(gray)
	fft := fourier.NewCmplxFFT(n)
	out := make([][]complex128, n)
	row := make([]complex128, n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			row[x] = complex(gray[y][x], 0)
		}
		out[y] = fft.Coefficients(nil, row)
	}
	column := make([]complex128, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			column[y] = out[y][x]
		}
		transformed := fft.Coefficients(nil, column)
		for y := 0; y < n; y++ {
			out[y][x] = transformed[y]
		}
	}
	return out
}
