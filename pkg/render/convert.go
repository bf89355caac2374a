package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seatmap/pkg/cache"
	"github.com/matzehuels/seatmap/pkg/errors"
)

// Raster formats produced by [Converter].
const (
	FormatPDF = "pdf"
	FormatPNG = "png"
)

const rsvgInstallHint = "install librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux)"

// RunFunc converts svg to format, passing extra arguments to the tool.
type RunFunc func(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error)

// Converter turns SVG charts into PDF or PNG with rsvg-convert, keeping
// results in a [cache.Cache].
type Converter struct {
	cache  cache.Cache
	ttl    time.Duration
	run    RunFunc
	logger *log.Logger
}

// ConvertOption configures a [Converter].
type ConvertOption func(*Converter)

// WithCache stores converted artifacts in c for ttl. A zero ttl keeps them
// until the cache is cleared.
func WithCache(c cache.Cache, ttl time.Duration) ConvertOption {
	return func(cv *Converter) {
		if c != nil {
			cv.cache = c
			cv.ttl = ttl
		}
	}
}

// WithRunner replaces the rsvg-convert invocation.
func WithRunner(run RunFunc) ConvertOption {
	return func(cv *Converter) { cv.run = run }
}

// WithConvertLogger logs cache hits and misses.
func WithConvertLogger(l *log.Logger) ConvertOption {
	return func(cv *Converter) {
		if l != nil {
			cv.logger = l
		}
	}
}

// NewConverter returns a converter with no cache.
func NewConverter(opts ...ConvertOption) *Converter {
	cv := &Converter{cache: cache.NewNullCache(), run: rsvgConvert, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(cv)
	}
	return cv
}

// Convert renders svg as format. scale applies to PNG only and defaults
// to 1. Cache failures are logged and never fail the conversion.
func (cv *Converter) Convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	var args []string
	switch format {
	case FormatPDF:
		scale = 1
	case FormatPNG:
		if scale <= 0 {
			scale = 1
		}
		args = []string{"-z", fmt.Sprintf("%.2f", scale)}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "cannot convert to %q", format)
	}

	key := cache.ArtifactKey(svg, format, scale)
	if data, ok, err := cv.cache.Get(ctx, key); err != nil {
		cv.logger.Warn("artifact cache read failed", "err", err)
	} else if ok {
		cv.logger.Debug("artifact cache hit", "format", format, "bytes", len(data))
		return data, nil
	}

	data, err := cv.run(ctx, svg, format, args...)
	if err != nil {
		return nil, err
	}
	if err := cv.cache.Set(ctx, key, data, cv.ttl); err != nil {
		cv.logger.Warn("artifact cache write failed", "err", err)
	}
	return data, nil
}

// ToPDF converts svg to PDF without caching.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return NewConverter().Convert(ctx, svg, FormatPDF, 1)
}

// ToPNG converts svg to PNG at scale without caching.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return NewConverter().Convert(ctx, svg, FormatPNG, scale)
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extra ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s export needs rsvg-convert; %s", format, rsvgInstallHint)
	}

	cmd := exec.CommandContext(ctx, "rsvg-convert", append([]string{"-f", format}, extra...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rsvg-convert: %s", bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}
