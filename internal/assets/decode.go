// Package assets resolves texture locations to decoded images.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// Decode sniffs the content type of data and decodes it. png, jpeg, gif,
// tiff, bmp and webp are supported.
func Decode(data []byte) (image.Image, string, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return nil, "", ErrUnsupportedImage
	}

	r := bytes.NewReader(data)
	var img image.Image
	switch kind.Extension {
	case "png":
		img, err = png.Decode(r)
	case "jpg":
		img, err = jpeg.Decode(r)
	case "gif":
		img, err = gif.Decode(r)
	case "tif":
		img, err = tiff.Decode(r)
	case "bmp":
		img, err = bmp.Decode(r)
	case "webp":
		img, err = webp.Decode(r)
	default:
		return nil, kind.Extension, fmt.Errorf("%w: %s", ErrUnsupportedImage, kind.MIME.Value)
	}
	if err != nil {
		return nil, kind.Extension, fmt.Errorf("decoding %s: %w", kind.Extension, err)
	}
	return img, kind.Extension, nil
}

// Downscale shrinks img so neither side exceeds maxSize, keeping the aspect
// ratio. Images already within bounds, or a non-positive maxSize, are
// returned unchanged.
func Downscale(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	nw, nh := maxSize, maxSize
	if w > h {
		nh = max(1, h*maxSize/w)
	} else {
		nw = max(1, w*maxSize/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
