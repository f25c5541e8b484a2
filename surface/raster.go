// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/readback/format"
	"github.com/gogpu/readback/internal/clip"
	"github.com/gogpu/readback/internal/convert"
)

// RasterSurface is a CPU surface backed by a tightly packed pixel slice.
//
// Example:
//
//	info := format.NewInfo(format.ColorTypeRGBA8888, format.AlphaTypePremul, format.ColorSpaceSRGB)
//	s, err := surface.NewRasterSurface(640, 480, info)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	s.Erase(color.White)
type RasterSurface struct {
	width  int
	height int
	info   format.Info
	stride int
	pix    []byte
	gen    uint64
	closed bool
}

// NewRasterSurface creates a zero-filled surface with the given encoding.
func NewRasterSurface(width, height int, info format.Info) (*RasterSurface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if err := info.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	if _, ok := convert.CodecFor(info.ColorType); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, info.ColorType)
	}

	size := info.ComputeByteSize(width, height, info.MinRowBytes(width))
	if size < 0 {
		return nil, fmt.Errorf("%w: %dx%d overflows", ErrInvalidSize, width, height)
	}
	stride := info.MinRowBytes(width)
	return &RasterSurface{
		width:  width,
		height: height,
		info:   info,
		stride: stride,
		pix:    make([]byte, size),
		gen:    nextGenerationID(),
	}, nil
}

// Bounds returns the surface rectangle.
func (s *RasterSurface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// Info returns the surface encoding.
func (s *RasterSurface) Info() format.Info {
	return s.info
}

// Capabilities returns RasterCapabilities.
func (s *RasterSurface) Capabilities() Capabilities {
	return RasterCapabilities()
}

// GenerationID returns the content identity of the surface.
func (s *RasterSurface) GenerationID() uint64 {
	return s.gen
}

// Stride returns the number of bytes per row.
func (s *RasterSurface) Stride() int {
	return s.stride
}

// Pixels returns the backing pixel slice. Writing to it directly does not
// change the generation ID; call NotifyPixelsChanged afterwards.
func (s *RasterSurface) Pixels() []byte {
	return s.pix
}

// NotifyPixelsChanged assigns a new generation ID after the caller modified
// the slice returned by Pixels.
func (s *RasterSurface) NotifyPixelsChanged() {
	s.gen = nextGenerationID()
}

// Sampler returns read-only access to the pixels.
func (s *RasterSurface) Sampler() (Sampler, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return &convert.Buffer{Pix: s.pix, Stride: s.stride, BytesPerPixel: s.info.BytesPerPixel()}, nil
}

// WritePixels converts the pixels in pix, described by info and stride, into
// the surface rectangle r. The block is r.Dx()×r.Dy() pixels; parts of r
// outside the surface are skipped. An r that misses the surface entirely is
// a no-op.
func (s *RasterSurface) WritePixels(info format.Info, pix []byte, stride int, r image.Rectangle) error {
	if s.closed {
		return ErrClosed
	}
	if err := info.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	if info.IsAlphaOnly() && !s.info.IsAlphaOnly() {
		return fmt.Errorf("%w: %s into %s", ErrUnsupportedFormat, info.ColorType, s.info.ColorType)
	}
	need := info.ComputeByteSize(r.Dx(), r.Dy(), stride)
	if need < 0 || stride < info.MinRowBytes(r.Dx()) || len(pix) < need {
		return fmt.Errorf("surface: write pixels: %d bytes with stride %d too small for %dx%d",
			len(pix), stride, r.Dx(), r.Dy())
	}
	plan, err := convert.NewPlan(info, s.info)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	area, ok := clip.Intersect(r, s.Bounds())
	if !ok {
		return nil
	}
	src := &convert.Buffer{Pix: pix, Stride: stride, BytesPerPixel: info.BytesPerPixel(), Min: r.Min}
	dst := convert.Dest{Pix: s.pix, Stride: s.stride, Origin: area.Min}
	convert.Convert(dst, src, area, plan)

	s.gen = nextGenerationID()
	return nil
}

// Erase fills the whole surface with c.
func (s *RasterSurface) Erase(c color.Color) error {
	if s.closed {
		return ErrClosed
	}
	r, g, b, a := c.RGBA()
	src := format.NewInfo(format.ColorTypeRGBA8888, format.AlphaTypePremul, s.info.ColorSpace)
	plan, err := convert.NewPlan(src, s.info)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	bpp := s.info.BytesPerPixel()
	px := make([]byte, bpp)
	one := &convert.Buffer{Pix: []byte{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}, Stride: 4, BytesPerPixel: 4}
	convert.Convert(convert.Dest{Pix: px, Stride: bpp}, one, image.Rect(0, 0, 1, 1), plan)

	row := s.pix[:s.width*bpp]
	for x := 0; x < s.width; x++ {
		copy(row[x*bpp:], px)
	}
	for y := 1; y < s.height; y++ {
		copy(s.pix[y*s.stride:], row)
	}

	s.gen = nextGenerationID()
	return nil
}

// Close releases the pixel memory. Close is idempotent.
func (s *RasterSurface) Close() error {
	s.closed = true
	s.pix = nil
	return nil
}

var _ Surface = (*RasterSurface)(nil)
