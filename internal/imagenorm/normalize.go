package imagenorm

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP decoder.
)

const (
	DefaultMaxWidth = 1200
	DefaultQuality  = 85
)

// ErrEmptyInput is reported when there are no bytes to decode.
var ErrEmptyInput = errors.New("empty image data")

// Options controls how images are prepared for the gallery.
type Options struct {
	MaxWidth int
	Quality  int
}

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	return o
}

// Result is the outcome of Normalize. Data is always populated: on failure it
// holds the original input and Fallback explains why.
type Result struct {
	Data      []byte
	Format    string
	Width     int
	Height    int
	Flattened bool
	Resized   bool
	Fallback  error
}

// Normalize decodes raw, drops any alpha channel or palette, downsamples images
// wider than MaxWidth and re-encodes the result as JPEG at Quality.
func Normalize(raw []byte, opts Options) (result Result) {
	opts = opts.withDefaults()
	defer func() {
		if r := recover(); r != nil {
			result = fallback(raw, fmt.Errorf("image codec panic: %v", r))
		}
	}()

	if len(raw) == 0 {
		return fallback(raw, ErrEmptyInput)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return fallback(raw, fmt.Errorf("decode config: %w", err))
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return fallback(raw, fmt.Errorf("decode %s: %w", format, err))
	}
	result.Format = format

	if hasAlphaOrPalette(img) {
		img = flatten(img)
		result.Flattened = true
	}

	bounds := img.Bounds()
	if w := bounds.Dx(); w > opts.MaxWidth {
		height := ScaledHeight(w, bounds.Dy(), opts.MaxWidth)
		resized := imaging.Resize(img, opts.MaxWidth, height, imaging.Lanczos)
		if result.Flattened {
			makeOpaque(resized)
		}
		img = resized
		result.Resized = true
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(opts.Quality)); err != nil {
		return fallback(raw, fmt.Errorf("encode jpeg: %w", err))
	}

	result.Data = buf.Bytes()
	result.Width = img.Bounds().Dx()
	result.Height = img.Bounds().Dy()
	return result
}

// ScaledHeight returns the proportional height for an image of w x h scaled to
// maxWidth, rounded to the nearest pixel and never less than one.
func ScaledHeight(w, h, maxWidth int) int {
	if w <= 0 {
		return h
	}
	height := int(math.Round(float64(h) * float64(maxWidth) / float64(w)))
	if height < 1 {
		return 1
	}
	return height
}

func fallback(raw []byte, err error) Result {
	return Result{Data: raw, Fallback: err}
}

func hasAlphaOrPalette(img image.Image) bool {
	if _, ok := img.(*image.Paletted); ok {
		return true
	}
	switch img.ColorModel() {
	case color.NRGBAModel, color.NRGBA64Model, color.RGBAModel, color.RGBA64Model, color.AlphaModel, color.Alpha16Model:
		return true
	}
	return false
}

// flatten converts img to three-channel color by discarding alpha. Color
// channels keep their non-premultiplied values; nothing is composited.
func flatten(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	makeOpaque(out)
	return out
}

func makeOpaque(img *image.NRGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}
