// Package imaging sniffs uploaded image types and renders thumbnails.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
)

// Thumbnailer turns an uploaded image into a smaller copy of the same type.
type Thumbnailer interface {
	Thumbnail(data []byte, contentType string) ([]byte, error)
}

// DetectType sniffs data and returns its mime type if it is one of the
// accepted image formats.
func DetectType(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	for _, want := range []string{common.MimeJPEG, common.MimePNG} {
		if mt.Is(want) {
			return want, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported image type %s", common.ErrorValidation, mt.String())
}

// DefaultMaxPixels bounds the decoded size of an uploaded image.
const DefaultMaxPixels = 40_000_000

// ImageThumbnailer scales images to fit a fixed bounding box, keeping the
// aspect ratio. Images already inside the box are re-encoded unscaled.
// Images whose header declares more than MaxPixels pixels are rejected
// before any pixel data is decoded.
type ImageThumbnailer struct {
	Width     int
	Height    int
	MaxPixels int
}

func NewImageThumbnailer(width, height int) *ImageThumbnailer {
	return &ImageThumbnailer{Width: width, Height: height, MaxPixels: DefaultMaxPixels}
}

// CheckDimensions reads only the image header and fails with a validation
// error when the image is larger than maxPixels.
func CheckDimensions(data []byte, maxPixels int) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: decode image header: %v", common.ErrorValidation, err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return fmt.Errorf("%w: image %dx%d exceeds %d pixels", common.ErrorValidation, cfg.Width, cfg.Height, maxPixels)
	}
	return nil
}

func (t *ImageThumbnailer) Thumbnail(data []byte, contentType string) ([]byte, error) {
	if err := CheckDimensions(data, t.MaxPixels); err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", common.ErrorValidation, err)
	}

	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), t.Width, t.Height)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch contentType {
	case common.MimeJPEG:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
	case common.MimePNG:
		err = png.Encode(&buf, dst)
	default:
		return nil, fmt.Errorf("%w: unsupported image type %s", common.ErrorValidation, contentType)
	}
	if err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	// scale by the tighter side
	if w*maxH > h*maxW {
		return maxW, max(1, h*maxW/w)
	}
	return max(1, w*maxH/h), maxH
}
