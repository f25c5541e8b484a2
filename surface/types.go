// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "github.com/gogpu/readback/format"

// Options configures surface creation through New.
type Options struct {
	Width  int
	Height int

	// Info is the pixel encoding of the surface.
	// Default: RGBA8888, premultiplied, sRGB
	Info format.Info
}

// withDefaults fills an unset Info.
func (o Options) withDefaults() Options {
	if o.Info.ColorType == format.ColorTypeUnknown {
		o.Info = format.NewInfo(format.ColorTypeRGBA8888, format.AlphaTypePremul, format.ColorSpaceSRGB)
	}
	return o
}
