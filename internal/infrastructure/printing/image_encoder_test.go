package printing

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/theplanbeta/invoice/internal/domain/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngFixture encodes a w x h image with a red band on a transparent page
func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h/4; y++ {
			img.Set(x, y, color.NRGBA{R: 220, G: 38, B: 38, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewImageEncoder_Defaults(t *testing.T) {
	e := NewImageEncoder(ImageEncoderConfig{JPEGQuality: 200, WebPQuality: -1})
	assert.Equal(t, defaultJPEGQuality, e.config.JPEGQuality)
	assert.Equal(t, float32(defaultWebPQuality), e.config.WebPQuality)
}

func TestImageEncoder_Encode(t *testing.T) {
	src := pngFixture(t, 40, 60)
	e := NewImageEncoder(ImageEncoderConfig{})

	tests := []struct {
		format printing.Format
		magic  []byte
	}{
		{printing.FormatPNG, []byte("\x89PNG")},
		{printing.FormatJPEG, []byte{0xFF, 0xD8, 0xFF}},
		{printing.FormatWebP, []byte("RIFF")},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			out, err := e.Encode(src, tt.format)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, tt.magic))
		})
	}
}

func TestImageEncoder_JPEGIsFlattenedOnWhite(t *testing.T) {
	e := NewImageEncoder(ImageEncoderConfig{JPEGQuality: 100})
	out, err := e.Encode(pngFixture(t, 40, 60), printing.FormatJPEG)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	r, g, b, _ := img.At(20, 50).RGBA()
	// Transparent areas become white, not black
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestImageEncoder_Downscale(t *testing.T) {
	e := NewImageEncoder(ImageEncoderConfig{MaxWidth: 20, WebPLossless: true})
	out, err := e.Encode(pngFixture(t, 40, 60), printing.FormatWebP)
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestImageEncoder_Errors(t *testing.T) {
	e := NewImageEncoder(ImageEncoderConfig{})

	_, err := e.Encode(pngFixture(t, 4, 4), printing.FormatPDF)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidFormat, renderErr.Code)

	_, err = e.Encode([]byte("not an image"), printing.FormatPNG)
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeEncodeFailed, renderErr.Code)
}

func TestDownscaleIfNeeded(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	assert.Same(t, img, downscaleIfNeeded(img, 0))
	assert.Same(t, img, downscaleIfNeeded(img, 100))

	small := downscaleIfNeeded(img, 10)
	assert.Equal(t, 10, small.Bounds().Dx())
	assert.Equal(t, 5, small.Bounds().Dy())
}
