package assets

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"globe/internal/logger"

	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
)

// maxDownload caps the bytes read from a remote texture.
const maxDownload = 64 << 20

// Fetcher loads one image from a path, a file:// or http(s):// URL, or a
// procedural:<seed> location.
type Fetcher struct {
	Client  *http.Client
	Timeout time.Duration // zero disables
	MaxSize int           // largest side after decode; zero disables
}

func NewFetcher(timeout time.Duration, maxSize int) *Fetcher {
	return &Fetcher{
		Client:  http.DefaultClient,
		Timeout: timeout,
		MaxSize: maxSize,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, location string) (image.Image, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	start := time.Now()
	img, err := f.fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	img = Downscale(img, f.MaxSize)
	if nb := img.Bounds(); nb != b {
		logger.Log.Info("Texture downscaled",
			zap.String("location", location),
			zap.Int("fromWidth", b.Dx()),
			zap.Int("fromHeight", b.Dy()),
			zap.Int("width", nb.Dx()),
			zap.Int("height", nb.Dy()))
	}
	logger.Log.Debug("Texture fetched",
		zap.String("location", location),
		zap.Duration("took", time.Since(start)))
	return img, nil
}

func (f *Fetcher) fetch(ctx context.Context, location string) (image.Image, error) {
	seed, ok, err := ParseProcedural(location)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Procedural(seed, ProceduralWidth, ProceduralHeight), nil
	}

	var data []byte
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		data, err = f.download(ctx, location)
	case strings.HasPrefix(location, "file://"):
		u, perr := url.Parse(location)
		if perr != nil {
			return nil, fmt.Errorf("parsing %s: %w", location, perr)
		}
		data, err = readFile(ctx, u.Path)
	default:
		data, err = readFile(ctx, location)
	}
	if err != nil {
		return nil, err
	}

	img, _, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return img, nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(expanded)
}

func (f *Fetcher) download(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", location, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDownload))
}
