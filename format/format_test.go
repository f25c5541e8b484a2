// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package format

import (
	"errors"
	"math"
	"testing"
)

func TestColorTypeBytesPerPixel(t *testing.T) {
	tests := []struct {
		ct   ColorType
		want int
	}{
		{ColorTypeUnknown, 0},
		{ColorTypeAlpha8, 1},
		{ColorTypeRGB565, 2},
		{ColorTypeARGB4444, 2},
		{ColorTypeRGBA8888, 4},
		{ColorTypeRGB888x, 4},
		{ColorTypeBGRA8888, 4},
		{ColorTypeGray8, 1},
		{ColorTypeRGBAF16, 8},
		{ColorTypeIndex8, 1},
		{ColorType(200), 0},
	}

	for _, tt := range tests {
		t.Run(tt.ct.String(), func(t *testing.T) {
			if got := tt.ct.BytesPerPixel(); got != tt.want {
				t.Errorf("BytesPerPixel() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestColorTypeQueries(t *testing.T) {
	for ct := ColorTypeUnknown; ct < colorTypeCount; ct++ {
		alphaOnly := ct == ColorTypeAlpha8
		if got := ct.IsAlphaOnly(); got != alphaOnly {
			t.Errorf("%v.IsAlphaOnly() = %v, want %v", ct, got, alphaOnly)
		}
		opaque := ct == ColorTypeRGB565 || ct == ColorTypeRGB888x || ct == ColorTypeGray8
		if got := ct.IsAlwaysOpaque(); got != opaque {
			t.Errorf("%v.IsAlwaysOpaque() = %v, want %v", ct, got, opaque)
		}
		if ct.IsAlphaOnly() && ct.BytesPerPixel() != 1 {
			t.Errorf("%v is alpha-only but BytesPerPixel() = %d", ct, ct.BytesPerPixel())
		}
	}
	if ColorTypeUnknown.IsValid() {
		t.Error("ColorTypeUnknown.IsValid() = true")
	}
	if ColorType(colorTypeCount).IsValid() {
		t.Error("out-of-range color type reported valid")
	}
}

func TestInfoValidate(t *testing.T) {
	tests := []struct {
		name    string
		info    Info
		wantErr error
	}{
		{"rgba premul", Info{ColorType: ColorTypeRGBA8888, AlphaType: AlphaTypePremul}, nil},
		{"bgra unpremul srgb", Info{ColorTypeBGRA8888, AlphaTypeUnpremul, ColorSpaceSRGB}, nil},
		{"alpha8 premul", Info{ColorType: ColorTypeAlpha8, AlphaType: AlphaTypePremul}, nil},
		{"565 opaque", Info{ColorType: ColorTypeRGB565, AlphaType: AlphaTypeOpaque}, nil},
		{"unknown color", Info{ColorType: ColorTypeUnknown, AlphaType: AlphaTypePremul}, ErrUnknownColorType},
		{"unknown alpha", Info{ColorType: ColorTypeRGBA8888}, ErrUnknownAlphaType},
		{"565 premul", Info{ColorType: ColorTypeRGB565, AlphaType: AlphaTypePremul}, ErrAlphaMismatch},
		{"gray unpremul", Info{ColorType: ColorTypeGray8, AlphaType: AlphaTypeUnpremul}, ErrAlphaMismatch},
		{"888x premul", Info{ColorType: ColorTypeRGB888x, AlphaType: AlphaTypePremul}, ErrAlphaMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.info.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewInfoNormalizesOpaqueLayouts(t *testing.T) {
	info := NewInfo(ColorTypeRGB888x, AlphaTypePremul, ColorSpaceNone)
	if info.AlphaType != AlphaTypeOpaque {
		t.Errorf("AlphaType = %v, want Opaque", info.AlphaType)
	}
	if !info.IsValid() {
		t.Errorf("normalized info %v is not valid", info)
	}

	// Unknown alpha stays unknown so that it is still rejected.
	info = NewInfo(ColorTypeGray8, AlphaTypeUnknown, ColorSpaceNone)
	if info.AlphaType != AlphaTypeUnknown {
		t.Errorf("AlphaType = %v, want Unknown", info.AlphaType)
	}

	info = NewInfo(ColorTypeRGBA8888, AlphaTypeUnpremul, ColorSpaceSRGB)
	if info.AlphaType != AlphaTypeUnpremul || info.ColorSpace != ColorSpaceSRGB {
		t.Errorf("NewInfo altered a consistent descriptor: %v", info)
	}
}

func TestMakeInfo(t *testing.T) {
	if _, err := MakeInfo(ColorTypeRGB565, AlphaTypeUnpremul, ColorSpaceNone); !errors.Is(err, ErrAlphaMismatch) {
		t.Errorf("MakeInfo(565, Unpremul) error = %v, want ErrAlphaMismatch", err)
	}
	info, err := MakeInfo(ColorTypeRGBAF16, AlphaTypePremul, ColorSpaceLinearSRGB)
	if err != nil {
		t.Fatalf("MakeInfo(F16) error = %v", err)
	}
	if info.BytesPerPixel() != 8 {
		t.Errorf("BytesPerPixel() = %d, want 8", info.BytesPerPixel())
	}
}

func TestInfoIsOpaque(t *testing.T) {
	tests := []struct {
		info Info
		want bool
	}{
		{Info{ColorType: ColorTypeRGBA8888, AlphaType: AlphaTypeOpaque}, true},
		{Info{ColorType: ColorTypeRGBA8888, AlphaType: AlphaTypePremul}, false},
		{Info{ColorType: ColorTypeRGB888x, AlphaType: AlphaTypeOpaque}, true},
		{Info{ColorType: ColorTypeAlpha8, AlphaType: AlphaTypePremul}, false},
	}
	for _, tt := range tests {
		if got := tt.info.IsOpaque(); got != tt.want {
			t.Errorf("%v.IsOpaque() = %v, want %v", tt.info, got, tt.want)
		}
	}
}

func TestRowBytes(t *testing.T) {
	info := Info{ColorType: ColorTypeBGRA8888, AlphaType: AlphaTypePremul}
	if got := info.MinRowBytes(10); got != 40 {
		t.Errorf("MinRowBytes(10) = %d, want 40", got)
	}
	// Three rows of stride 48, last row unpadded.
	if got := info.ComputeByteSize(10, 3, 48); got != 2*48+40 {
		t.Errorf("ComputeByteSize(10, 3, 48) = %d, want %d", got, 2*48+40)
	}
	if got := info.ComputeByteSize(0, 3, 48); got != 0 {
		t.Errorf("ComputeByteSize(0, 3, 48) = %d, want 0", got)
	}
	if got := info.ComputeByteSize(1, 1, math.MaxInt); got != 4 {
		t.Errorf("ComputeByteSize(1, 1, MaxInt) = %d, want 4", got)
	}
}

func TestRowBytesOverflow(t *testing.T) {
	info := Info{ColorType: ColorTypeRGBA8888, AlphaType: AlphaTypePremul}
	if got := info.MinRowBytes(math.MaxInt / 2); got != -1 {
		t.Errorf("MinRowBytes(MaxInt/2) = %d, want -1", got)
	}

	tests := []struct {
		name                  string
		width, height, stride int
	}{
		{"stride", 1, 3, math.MaxInt / 2},
		{"stride times rows", 4, 1 << 20, math.MaxInt / (1 << 19)},
		{"width", math.MaxInt / 2, 1, math.MaxInt},
		{"negative stride", 1, 2, -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := info.ComputeByteSize(tt.width, tt.height, tt.stride); got != -1 {
				t.Errorf("ComputeByteSize(%d, %d, %d) = %d, want -1", tt.width, tt.height, tt.stride, got)
			}
		})
	}
}

func TestColorSpace(t *testing.T) {
	if ColorSpaceNone.IsTagged() {
		t.Error("ColorSpaceNone.IsTagged() = true")
	}
	if !ColorSpaceSRGB.IsTagged() || ColorSpaceSRGB.IsLinear() {
		t.Error("sRGB should be tagged and non-linear")
	}
	if got := ColorSpaceSRGB.Linear(); got != ColorSpaceLinearSRGB {
		t.Errorf("SRGB.Linear() = %v, want linear-sRGB", got)
	}
	if got := ColorSpaceDisplayP3.Linear(); got != ColorSpaceDisplayP3 {
		t.Errorf("DisplayP3.Linear() = %v, want DisplayP3", got)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{ColorType: ColorTypeRGBA8888, AlphaType: AlphaTypePremul, ColorSpace: ColorSpaceSRGB}
	if got, want := info.String(), "RGBA8888/Premul/sRGB"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
