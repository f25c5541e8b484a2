// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package format describes pixel encodings: channel layout and numeric type
// (ColorType), alpha convention (AlphaType) and an optional color space tag.
//
// An Info is a plain value. It is compared, copied and used as a map key
// freely; nothing in this package allocates or mutates pixel memory.
package format

import (
	"errors"
	"fmt"
	"math"
)

// Common errors for descriptor construction.
var (
	// ErrUnknownColorType is returned for ColorTypeUnknown or out-of-range values.
	ErrUnknownColorType = errors.New("format: unknown color type")

	// ErrUnknownAlphaType is returned for AlphaTypeUnknown or out-of-range values.
	ErrUnknownAlphaType = errors.New("format: unknown alpha type")

	// ErrAlphaMismatch is returned when a color type without an alpha
	// channel is paired with a non-opaque alpha type.
	ErrAlphaMismatch = errors.New("format: color type has no alpha channel")
)

// ColorType is a channel layout together with its numeric encoding.
type ColorType uint8

const (
	// ColorTypeUnknown is the zero value and never describes real pixels.
	ColorTypeUnknown ColorType = iota

	// ColorTypeAlpha8 is a single 8-bit alpha channel.
	ColorTypeAlpha8

	// ColorTypeRGB565 packs R5 G6 B5 into a little-endian uint16.
	ColorTypeRGB565

	// ColorTypeARGB4444 packs R4 G4 B4 A4 (high to low nibble) into a
	// little-endian uint16.
	ColorTypeARGB4444

	// ColorTypeRGBA8888 is 8-bit R, G, B, A in memory order.
	ColorTypeRGBA8888

	// ColorTypeRGB888x is 8-bit R, G, B followed by an ignored byte.
	ColorTypeRGB888x

	// ColorTypeBGRA8888 is 8-bit B, G, R, A in memory order.
	ColorTypeBGRA8888

	// ColorTypeGray8 is 8-bit luminance.
	ColorTypeGray8

	// ColorTypeRGBAF16 is four little-endian IEEE half floats, R first.
	ColorTypeRGBAF16

	// ColorTypeIndex8 is an 8-bit palette index. It is recognized so it can
	// be rejected; no conversion reads or writes it.
	ColorTypeIndex8

	colorTypeCount
)

// colorTypeInfo contains per-layout metadata.
type colorTypeInfo struct {
	name          string
	bytesPerPixel int
	channels      int
	alphaOnly     bool
	alwaysOpaque  bool
}

var colorTypeTable = [colorTypeCount]colorTypeInfo{
	ColorTypeUnknown:  {name: "Unknown"},
	ColorTypeAlpha8:   {name: "Alpha8", bytesPerPixel: 1, channels: 1, alphaOnly: true},
	ColorTypeRGB565:   {name: "RGB565", bytesPerPixel: 2, channels: 3, alwaysOpaque: true},
	ColorTypeARGB4444: {name: "ARGB4444", bytesPerPixel: 2, channels: 4},
	ColorTypeRGBA8888: {name: "RGBA8888", bytesPerPixel: 4, channels: 4},
	ColorTypeRGB888x:  {name: "RGB888x", bytesPerPixel: 4, channels: 3, alwaysOpaque: true},
	ColorTypeBGRA8888: {name: "BGRA8888", bytesPerPixel: 4, channels: 4},
	ColorTypeGray8:    {name: "Gray8", bytesPerPixel: 1, channels: 1, alwaysOpaque: true},
	ColorTypeRGBAF16:  {name: "RGBAF16", bytesPerPixel: 8, channels: 4},
	ColorTypeIndex8:   {name: "Index8", bytesPerPixel: 1, channels: 1},
}

func (ct ColorType) info() colorTypeInfo {
	if ct >= colorTypeCount {
		return colorTypeInfo{name: "Unknown"}
	}
	return colorTypeTable[ct]
}

// IsValid returns true for every known color type except ColorTypeUnknown.
func (ct ColorType) IsValid() bool {
	return ct != ColorTypeUnknown && ct < colorTypeCount
}

// BytesPerPixel returns the storage size of one pixel, or 0 for unknown types.
func (ct ColorType) BytesPerPixel() int {
	return ct.info().bytesPerPixel
}

// Channels returns the number of stored channels.
func (ct ColorType) Channels() int {
	return ct.info().channels
}

// IsAlphaOnly returns true if the layout stores nothing but alpha.
func (ct ColorType) IsAlphaOnly() bool {
	return ct.info().alphaOnly
}

// IsAlwaysOpaque returns true if the layout cannot represent transparency.
func (ct ColorType) IsAlwaysOpaque() bool {
	return ct.info().alwaysOpaque
}

// String returns the layout name.
func (ct ColorType) String() string {
	return ct.info().name
}

// AlphaType is the alpha convention of a pixel encoding.
type AlphaType uint8

const (
	// AlphaTypeUnknown is the zero value and never describes real pixels.
	AlphaTypeUnknown AlphaType = iota

	// AlphaTypeOpaque means every pixel is fully opaque.
	AlphaTypeOpaque

	// AlphaTypePremul means color channels are pre-scaled by alpha/255.
	AlphaTypePremul

	// AlphaTypeUnpremul means color channels are independent of alpha.
	AlphaTypeUnpremul
)

// IsValid returns true for Opaque, Premul and Unpremul.
func (at AlphaType) IsValid() bool {
	return at >= AlphaTypeOpaque && at <= AlphaTypeUnpremul
}

// String returns the alpha type name.
func (at AlphaType) String() string {
	switch at {
	case AlphaTypeOpaque:
		return "Opaque"
	case AlphaTypePremul:
		return "Premul"
	case AlphaTypeUnpremul:
		return "Unpremul"
	default:
		return "Unknown"
	}
}

// Info describes how a buffer's pixels are encoded.
type Info struct {
	ColorType  ColorType
	AlphaType  AlphaType
	ColorSpace ColorSpace
}

// NewInfo builds an Info, normalizing the alpha type of layouts that have
// no alpha channel to AlphaTypeOpaque. Unknown types are kept as given;
// use Validate to reject them.
func NewInfo(ct ColorType, at AlphaType, cs ColorSpace) Info {
	if ct.IsAlwaysOpaque() && at.IsValid() {
		at = AlphaTypeOpaque
	}
	return Info{ColorType: ct, AlphaType: at, ColorSpace: cs}
}

// MakeInfo builds an Info and returns an error if the fields are inconsistent.
func MakeInfo(ct ColorType, at AlphaType, cs ColorSpace) (Info, error) {
	info := Info{ColorType: ct, AlphaType: at, ColorSpace: cs}
	if err := info.Validate(); err != nil {
		return Info{}, err
	}
	return info, nil
}

// Validate reports whether the descriptor is internally consistent.
func (i Info) Validate() error {
	if !i.ColorType.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownColorType, i.ColorType)
	}
	if !i.AlphaType.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownAlphaType, i.AlphaType)
	}
	if i.ColorType.IsAlwaysOpaque() && i.AlphaType != AlphaTypeOpaque {
		return fmt.Errorf("%w: %s/%s", ErrAlphaMismatch, i.ColorType, i.AlphaType)
	}
	return nil
}

// IsValid is shorthand for Validate() == nil.
func (i Info) IsValid() bool {
	return i.Validate() == nil
}

// IsAlphaOnly returns true if the layout stores only alpha.
func (i Info) IsAlphaOnly() bool {
	return i.ColorType.IsAlphaOnly()
}

// IsAlwaysOpaque returns true if the layout cannot represent transparency.
func (i Info) IsAlwaysOpaque() bool {
	return i.ColorType.IsAlwaysOpaque()
}

// IsOpaque returns true if pixels described by i are guaranteed opaque,
// either by layout or by alpha type.
func (i Info) IsOpaque() bool {
	return i.AlphaType == AlphaTypeOpaque || i.ColorType.IsAlwaysOpaque()
}

// BytesPerPixel returns the storage size of one pixel.
func (i Info) BytesPerPixel() int {
	return i.ColorType.BytesPerPixel()
}

// MinRowBytes returns the tightest row stride for the given width, or -1
// if it does not fit in an int.
func (i Info) MinRowBytes(width int) int {
	bpp := i.BytesPerPixel()
	if bpp > 0 && width > math.MaxInt/bpp {
		return -1
	}
	return width * bpp
}

// ComputeByteSize returns the minimum slice length able to hold height rows
// of width pixels with the given stride. The last row is not padded.
// Returns 0 for empty dimensions and -1 when the size overflows int or the
// stride is negative.
func (i Info) ComputeByteSize(width, height, stride int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	rowBytes := i.MinRowBytes(width)
	if rowBytes < 0 || stride < 0 {
		return -1
	}
	if height > 1 && stride > (math.MaxInt-rowBytes)/(height-1) {
		return -1
	}
	return (height-1)*stride + rowBytes
}

// WithAlphaType returns a copy with a different alpha type.
func (i Info) WithAlphaType(at AlphaType) Info {
	i.AlphaType = at
	return i
}

// WithColorSpace returns a copy with a different color space tag.
func (i Info) WithColorSpace(cs ColorSpace) Info {
	i.ColorSpace = cs
	return i
}

// String returns a compact description such as "RGBA8888/Premul/sRGB".
func (i Info) String() string {
	return i.ColorType.String() + "/" + i.AlphaType.String() + "/" + i.ColorSpace.String()
}
