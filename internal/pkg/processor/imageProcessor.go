package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/image-converter/config"
	"github.com/ds124wfegd/image-converter/internal/entity"
	_ "golang.org/x/image/webp"
)

type ImageProcessor interface {
	Process(data []byte, warp bool) (*entity.NormalizedImage, error)
}

// DefaultMaxPixels matches the decompression bomb threshold of common imaging libraries.
const DefaultMaxPixels = 178956970

type imageProcessor struct {
	size      int
	filter    imaging.ResampleFilter
	maxPixels int64
}

func NewImageProcessor(cfg config.ProcessorConfig) ImageProcessor {
	maxPixels := cfg.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &imageProcessor{size: entity.CanvasSize, filter: imaging.Lanczos, maxPixels: maxPixels}
}

// Process decodes data and fits it onto the square canvas, stretching when warp is set
// and letterboxing on black otherwise. Every failure is a *entity.ProcessingError.
func (p *imageProcessor) Process(data []byte, warp bool) (*entity.NormalizedImage, error) {
	img, err := p.loadImage(data)
	if err != nil {
		return nil, &entity.ProcessingError{Err: err}
	}

	bounds := img.Bounds()
	originalWidth, originalHeight := bounds.Dx(), bounds.Dy()

	var processed *image.NRGBA
	if warp {
		processed = p.warp(img)
	} else {
		processed = p.letterbox(img)
	}

	return &entity.NormalizedImage{
		Width:          p.size,
		Height:         p.size,
		Pix:            extractRGB(processed),
		OriginalWidth:  originalWidth,
		OriginalHeight: originalHeight,
		Warped:         warp,
	}, nil
}

func (p *imageProcessor) loadImage(data []byte) (*image.NRGBA, error) {
	// header only, nothing is allocated for pixels yet
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot identify image file: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > p.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d is more than %d pixels", entity.ErrImageTooLarge, cfg.Width, cfg.Height, p.maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot identify image file: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, entity.ErrEmptyImage
	}
	return toRGB(img), nil
}

// toRGB drops alpha without compositing, so a transparent pixel keeps its color channels.
func toRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

func (p *imageProcessor) warp(img *image.NRGBA) *image.NRGBA {
	return imaging.Resize(img, p.size, p.size, p.filter)
}

func (p *imageProcessor) letterbox(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()
	scaledWidth, scaledHeight := fitWithin(bounds.Dx(), bounds.Dy(), p.size)

	resized := imaging.Resize(img, scaledWidth, scaledHeight, p.filter)

	canvas := imaging.New(p.size, p.size, color.NRGBA{R: 0, G: 0, B: 0, A: 0xff})
	x, y := centerOffset(scaledWidth, p.size), centerOffset(scaledHeight, p.size)

	return imaging.Paste(canvas, resized, image.Pt(x, y))
}

// fitWithin scales w x h by min(size/w, size/h). Neither side drops below one pixel.
func fitWithin(w, h, size int) (int, int) {
	scale := math.Min(float64(size)/float64(w), float64(size)/float64(h))

	sw := clamp(int(math.Round(float64(w)*scale)), 1, size)
	sh := clamp(int(math.Round(float64(h)*scale)), 1, size)
	return sw, sh
}

func centerOffset(scaled, size int) int {
	return (size - scaled) / 2
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// extractRGB packs pixels row by row, left to right, as R, G, B bytes.
func extractRGB(img *image.NRGBA) []uint8 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	out := make([]uint8, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			out = append(out, row[x], row[x+1], row[x+2])
		}
	}
	return out
}
