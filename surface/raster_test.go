// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/readback/format"
)

func rgbaPremul() format.Info {
	return format.NewInfo(format.ColorTypeRGBA8888, format.AlphaTypePremul, format.ColorSpaceSRGB)
}

// TestNewRasterSurface tests surface creation.
func TestNewRasterSurface(t *testing.T) {
	s, err := NewRasterSurface(10, 7, rgbaPremul())
	if err != nil {
		t.Fatalf("NewRasterSurface: %v", err)
	}
	defer s.Close()

	if s.Bounds() != image.Rect(0, 0, 10, 7) {
		t.Errorf("Bounds() = %v, want 10x7", s.Bounds())
	}
	if s.Stride() != 40 {
		t.Errorf("Stride() = %d, want 40", s.Stride())
	}
	if len(s.Pixels()) != 280 {
		t.Errorf("len(Pixels()) = %d, want 280", len(s.Pixels()))
	}
	if s.GenerationID() == 0 {
		t.Error("GenerationID() should be non-zero")
	}
	if s.Capabilities() != RasterCapabilities() {
		t.Errorf("Capabilities() = %+v, want raster", s.Capabilities())
	}
}

// TestNewRasterSurfaceErrors tests rejected sizes and encodings.
func TestNewRasterSurfaceErrors(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		info    format.Info
		wantErr error
	}{
		{"zero width", 0, 4, rgbaPremul(), ErrInvalidSize},
		{"negative height", 4, -1, rgbaPremul(), ErrInvalidSize},
		{"unknown color", 4, 4, format.Info{AlphaType: format.AlphaTypePremul}, ErrUnsupportedFormat},
		{"index8", 4, 4, format.NewInfo(format.ColorTypeIndex8, format.AlphaTypePremul, format.ColorSpaceSRGB), ErrUnsupportedFormat},
		{"unknown alpha", 4, 4, format.Info{ColorType: format.ColorTypeRGBA8888}, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewRasterSurface(tt.w, tt.h, tt.info)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if s != nil {
				t.Error("surface should be nil on error")
			}
		})
	}
}

// TestGenerationIDsAreUnique tests that IDs are not shared across surfaces.
func TestGenerationIDsAreUnique(t *testing.T) {
	a, _ := NewRasterSurface(1, 1, rgbaPremul())
	b, _ := NewRasterSurface(1, 1, rgbaPremul())
	if a.GenerationID() == b.GenerationID() {
		t.Error("two surfaces share a generation ID")
	}
}

// TestRasterSurfaceErase tests filling with a color in several encodings.
func TestRasterSurfaceErase(t *testing.T) {
	half := color.NRGBA{R: 255, G: 0, B: 0, A: 128}

	tests := []struct {
		name string
		info format.Info
		want []byte
	}{
		{"rgba premul", rgbaPremul(), []byte{128, 0, 0, 128}},
		{"rgba unpremul", rgbaPremul().WithAlphaType(format.AlphaTypeUnpremul), []byte{255, 0, 0, 128}},
		{"bgra premul", format.NewInfo(format.ColorTypeBGRA8888, format.AlphaTypePremul, format.ColorSpaceSRGB), []byte{0, 0, 128, 128}},
		{"888x", format.NewInfo(format.ColorTypeRGB888x, format.AlphaTypeOpaque, format.ColorSpaceSRGB), []byte{128, 0, 0, 255}},
		{"alpha8", format.NewInfo(format.ColorTypeAlpha8, format.AlphaTypePremul, format.ColorSpaceNone), []byte{128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewRasterSurface(3, 2, tt.info)
			if err != nil {
				t.Fatal(err)
			}
			gen := s.GenerationID()
			if err := s.Erase(half); err != nil {
				t.Fatalf("Erase: %v", err)
			}
			if s.GenerationID() == gen {
				t.Error("Erase should change the generation ID")
			}
			bpp := tt.info.BytesPerPixel()
			for i := 0; i < len(s.Pixels()); i += bpp {
				if got := s.Pixels()[i : i+bpp]; !bytes.Equal(got, tt.want) {
					t.Fatalf("pixel %d = %v, want %v", i/bpp, got, tt.want)
				}
			}
		})
	}
}

// TestRasterSurfaceWritePixels tests conversion and clipping on write.
func TestRasterSurfaceWritePixels(t *testing.T) {
	s, _ := NewRasterSurface(4, 4, rgbaPremul())
	unpremul := rgbaPremul().WithAlphaType(format.AlphaTypeUnpremul)

	// 2x2 block, unpremultiplied, hanging off the bottom-right corner.
	src := []byte{
		255, 0, 0, 128, 0, 255, 0, 255,
		0, 0, 255, 0, 10, 20, 30, 255,
	}
	gen := s.GenerationID()
	if err := s.WritePixels(unpremul, src, 8, image.Rect(3, 3, 5, 5)); err != nil {
		t.Fatalf("WritePixels: %v", err)
	}
	if s.GenerationID() == gen {
		t.Error("WritePixels should change the generation ID")
	}

	want := []byte{128, 0, 0, 128}
	if got := s.Pixels()[3*16+3*4:]; !bytes.Equal(got, want) {
		t.Errorf("pixel (3,3) = %v, want %v", got, want)
	}
	for i := 0; i < 3*16+3*4; i++ {
		if s.Pixels()[i] != 0 {
			t.Fatalf("byte %d written outside the block", i)
		}
	}
}

// TestRasterSurfaceWritePixelsMiss tests that a disjoint rect is a no-op.
func TestRasterSurfaceWritePixelsMiss(t *testing.T) {
	s, _ := NewRasterSurface(2, 2, rgbaPremul())
	gen := s.GenerationID()
	if err := s.WritePixels(rgbaPremul(), make([]byte, 16), 8, image.Rect(5, 5, 7, 7)); err != nil {
		t.Fatalf("WritePixels: %v", err)
	}
	if s.GenerationID() != gen {
		t.Error("a write outside the surface should not change the generation ID")
	}
}

// TestRasterSurfaceWritePixelsErrors tests rejected writes.
func TestRasterSurfaceWritePixelsErrors(t *testing.T) {
	s, _ := NewRasterSurface(2, 2, rgbaPremul())
	alpha := format.NewInfo(format.ColorTypeAlpha8, format.AlphaTypePremul, format.ColorSpaceNone)

	if err := s.WritePixels(alpha, make([]byte, 4), 2, image.Rect(0, 0, 2, 2)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("alpha-only write err = %v, want ErrUnsupportedFormat", err)
	}
	if err := s.WritePixels(rgbaPremul(), make([]byte, 8), 4, image.Rect(0, 0, 2, 2)); err == nil {
		t.Error("expected error for stride below row size")
	}
	if err := s.WritePixels(rgbaPremul(), make([]byte, 15), 8, image.Rect(0, 0, 2, 2)); err == nil {
		t.Error("expected error for short pixel slice")
	}
}

// TestRasterSurfaceNotifyPixelsChanged tests direct pixel edits.
func TestRasterSurfaceNotifyPixelsChanged(t *testing.T) {
	s, _ := NewRasterSurface(1, 1, rgbaPremul())
	gen := s.GenerationID()
	s.Pixels()[3] = 0xFF
	if s.GenerationID() != gen {
		t.Error("editing Pixels() alone should not change the generation ID")
	}
	s.NotifyPixelsChanged()
	if s.GenerationID() == gen {
		t.Error("NotifyPixelsChanged should change the generation ID")
	}
}

// TestRasterSurfaceSampler tests sampling and use after Close.
func TestRasterSurfaceSampler(t *testing.T) {
	s, _ := NewRasterSurface(2, 2, rgbaPremul())
	_ = s.Erase(color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	sm, err := s.Sampler()
	if err != nil {
		t.Fatalf("Sampler: %v", err)
	}
	if got := sm.Sample(1, 1)[:4]; !bytes.Equal(got, []byte{1, 2, 3, 255}) {
		t.Errorf("Sample(1, 1) = %v", got)
	}
	if _, ok := sm.(RowSampler); !ok {
		t.Error("raster sampler should implement RowSampler")
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := s.Sampler(); !errors.Is(err, ErrClosed) {
		t.Errorf("Sampler after Close err = %v, want ErrClosed", err)
	}
	if err := s.Erase(color.Black); !errors.Is(err, ErrClosed) {
		t.Errorf("Erase after Close err = %v, want ErrClosed", err)
	}
}
