package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"

	"globe/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// ErrNoImage is the load error when a fetcher reports success without an image.
var ErrNoImage = errors.New("fetcher returned no image")

// PlaceholderPixel is the opaque blue texel shown until the real image arrives.
var PlaceholderPixel = [4]uint8{0, 0, 255, 255}

// ImageFetcher resolves an asset location to a decoded image.
type ImageFetcher interface {
	Fetch(ctx context.Context, location string) (image.Image, error)
}

// TextureResult is the single outcome of an asynchronous texture load.
type TextureResult struct {
	Location string
	Image    *image.RGBA
	Err      error
}

// Texture is one GPU texture handle. It starts as a 1×1 placeholder and is
// overwritten in place, never reallocated, when the image arrives.
type Texture struct {
	Width  int
	Height int

	dev      Device
	id       uint32
	loaded   bool
	released bool
}

// NewPlaceholderTexture creates the texture and uploads the placeholder so
// textured draws are valid immediately.
func NewPlaceholderTexture(dev Device) *Texture {
	t := &Texture{dev: dev, id: dev.NewTexture(), Width: 1, Height: 1}
	dev.TexImage2D(t.id, 1, 1, PlaceholderPixel[:])
	dev.SetTextureFilter(t.id, FilterLinearClamp)
	return t
}

func (t *Texture) ID() uint32 {
	return t.id
}

// Loaded reports whether a decoded image has replaced the placeholder.
func (t *Texture) Loaded() bool {
	return t.loaded
}

// Upload overwrites the texture with img. Power-of-two images get a mip chain;
// others are sampled linearly with clamped addressing.
func (t *Texture) Upload(img *image.RGBA) TextureFilter {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	t.dev.TexImage2D(t.id, w, h, img.Pix)

	filter := FilterLinearClamp
	if isPowerOfTwo(w) && isPowerOfTwo(h) {
		filter = FilterMipmap
	}
	t.dev.SetTextureFilter(t.id, filter)
	t.Width, t.Height = w, h
	t.loaded = true
	return filter
}

// Apply installs a load result. A failed result leaves the placeholder in
// place and returns the load error.
func (t *Texture) Apply(res TextureResult) error {
	if res.Err != nil {
		logger.Log.Error("Texture load failed, keeping placeholder",
			zap.String("location", res.Location),
			zap.Error(res.Err))
		return res.Err
	}
	if t.released {
		return fmt.Errorf("texture %d already released", t.id)
	}
	filter := t.Upload(res.Image)
	logger.Log.Info("Texture loaded",
		zap.String("location", res.Location),
		zap.Uint32("textureID", t.id),
		zap.Int("width", t.Width),
		zap.Int("height", t.Height),
		zap.Bool("mipmapped", filter == FilterMipmap))
	return nil
}

func (t *Texture) Release() {
	if t == nil || t.released {
		return
	}
	t.released = true
	t.dev.DeleteTexture(t.id)
}

// LoadTexture creates a placeholder texture and starts fetching location in
// the background. The returned channel yields exactly one result and is then
// closed; the result must be passed to Texture.Apply on the goroutine that
// owns dev.
func LoadTexture(ctx context.Context, dev Device, fetcher ImageFetcher, location string) (*Texture, <-chan TextureResult) {
	tex := NewPlaceholderTexture(dev)
	out := make(chan TextureResult, 1)

	go func() {
		defer close(out)
		res := TextureResult{Location: location}
		img, err := fetcher.Fetch(ctx, location)
		switch {
		case err != nil:
			res.Err = err
		case img == nil:
			res.Err = fmt.Errorf("%s: %w", location, ErrNoImage)
		default:
			res.Image = toRGBA(img)
		}
		out <- res
	}()
	return tex, out
}

// toRGBA returns a tightly packed RGBA copy with its origin at (0,0).
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
