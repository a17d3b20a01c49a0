package printing

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/theplanbeta/invoice/internal/domain/printing"
	"golang.org/x/image/draw"
)

const (
	defaultJPEGQuality = 95
	defaultWebPQuality = 90
)

// ImageEncoderConfig controls raster output
type ImageEncoderConfig struct {
	// MaxWidth downscales wider captures; 0 keeps the capture size
	MaxWidth int
	// JPEGQuality is 1-100 (default 95)
	JPEGQuality int
	// WebPQuality is 0-100 (default 90); ignored when WebPLossless is set
	WebPQuality float32
	// WebPLossless encodes WebP without loss
	WebPLossless bool
}

// ImageEncoder re-encodes a PNG page capture into the requested raster format
type ImageEncoder struct {
	config ImageEncoderConfig
}

// NewImageEncoder creates an encoder with defaults applied
func NewImageEncoder(config ImageEncoderConfig) *ImageEncoder {
	if config.JPEGQuality <= 0 || config.JPEGQuality > 100 {
		config.JPEGQuality = defaultJPEGQuality
	}
	if config.WebPQuality <= 0 || config.WebPQuality > 100 {
		config.WebPQuality = defaultWebPQuality
	}
	return &ImageEncoder{config: config}
}

// Encode converts png bytes to format
func (e *ImageEncoder) Encode(png []byte, format printing.Format) ([]byte, error) {
	if !format.IsRaster() {
		return nil, NewRenderError(ErrCodeInvalidFormat, "not a raster format: "+format.String(), nil)
	}

	img, err := imaging.Decode(bytes.NewReader(png))
	if err != nil {
		return nil, NewRenderError(ErrCodeEncodeFailed, "failed to decode page capture", err)
	}
	img = downscaleIfNeeded(img, e.config.MaxWidth)

	buf := new(bytes.Buffer)
	switch format {
	case printing.FormatPNG:
		err = imaging.Encode(buf, img, imaging.PNG)
	case printing.FormatJPEG:
		err = imaging.Encode(buf, flatten(img), imaging.JPEG, imaging.JPEGQuality(e.config.JPEGQuality))
	case printing.FormatWebP:
		opts := &webp.Options{Lossless: e.config.WebPLossless, Quality: e.config.WebPQuality}
		err = webp.Encode(buf, img, opts)
	}
	if err != nil {
		return nil, NewRenderError(ErrCodeEncodeFailed, "failed to encode "+format.String(), err)
	}
	return buf.Bytes(), nil
}

// downscaleIfNeeded keeps the aspect ratio when shrinking to maxW
func downscaleIfNeeded(src image.Image, maxW int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxW <= 0 || w <= maxW {
		return src
	}
	scale := float64(maxW) / float64(w)
	nh := max(int(math.Round(float64(h)*scale)), 1)
	dst := image.NewRGBA(image.Rect(0, 0, maxW, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// flatten composites onto white; JPEG has no alpha channel
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
