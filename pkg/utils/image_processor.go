package utils

import (
	"bytes"
	"ecommerce-backend/pkg/logger"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/go-faster/errors"
)

var ErrImageTooLarge = errors.New("image dimensions exceed the allowed pixel count")

// ImageOptions controls how product images are normalized before storage.
type ImageOptions struct {
	MaxWidth  int
	Quality   int
	MaxPixels int
}

var DefaultImageOptions = ImageOptions{
	MaxWidth:  2000,
	Quality:   85,
	MaxPixels: 40_000_000,
}

// ProcessImage normalizes an upload with DefaultImageOptions.
func ProcessImage(file io.Reader, filename string) ([]byte, string, error) {
	return DefaultImageOptions.Process(file, filename)
}

// Process checks the declared dimensions before decoding, downscales to
// MaxWidth and encodes WebP, falling back to JPEG if the encoder fails.
func (o ImageOptions) Process(file io.Reader, filename string) ([]byte, string, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, "", errors.Wrap(err, "read image")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", errors.Wrap(err, "decode image header")
	}
	if o.MaxPixels > 0 && cfg.Width*cfg.Height > o.MaxPixels {
		return nil, "", errors.Wrapf(ErrImageTooLarge, "%dx%d", cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", errors.Wrap(err, "decode image")
	}
	if o.MaxWidth > 0 && img.Bounds().Dx() > o.MaxWidth {
		img = imaging.Resize(img, o.MaxWidth, 0, imaging.Lanczos)
	}

	log := logger.Get()
	log.Debug().Str("file", filename).Str("format", format).
		Int("width", img.Bounds().Dx()).Int("height", img.Bounds().Dy()).
		Msg("Image: normalized")

	var buf bytes.Buffer
	err = webp.Encode(&buf, img, &webp.Options{Quality: float32(o.Quality)})
	if err == nil {
		return buf.Bytes(), "image/webp", nil
	}
	log.Warn().Err(err).Str("file", filename).Msg("Image: webp encode failed, using jpeg")

	buf.Reset()
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: o.Quality}); err != nil {
		return nil, "", errors.Wrap(err, "encode jpeg")
	}
	return buf.Bytes(), "image/jpeg", nil
}
