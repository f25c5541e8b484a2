// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package format

// ColorSpace tags the color space of a pixel encoding.
//
// The tag is carried through conversions unchanged; pixel values are never
// transformed between color spaces by this module.
type ColorSpace uint8

const (
	// ColorSpaceNone means untagged pixels.
	ColorSpaceNone ColorSpace = iota

	// ColorSpaceSRGB is sRGB with the standard transfer function.
	ColorSpaceSRGB

	// ColorSpaceLinearSRGB is sRGB primaries with a linear transfer function.
	ColorSpaceLinearSRGB

	// ColorSpaceDisplayP3 is Display P3 with the sRGB transfer function.
	ColorSpaceDisplayP3
)

// IsTagged returns true for every color space except ColorSpaceNone.
func (cs ColorSpace) IsTagged() bool {
	return cs != ColorSpaceNone
}

// IsLinear returns true if the transfer function is linear.
func (cs ColorSpace) IsLinear() bool {
	return cs == ColorSpaceLinearSRGB
}

// Linear returns the linear-transfer variant of cs, where one exists.
func (cs ColorSpace) Linear() ColorSpace {
	if cs == ColorSpaceSRGB {
		return ColorSpaceLinearSRGB
	}
	return cs
}

// String returns the color space name.
func (cs ColorSpace) String() string {
	switch cs {
	case ColorSpaceNone:
		return "none"
	case ColorSpaceSRGB:
		return "sRGB"
	case ColorSpaceLinearSRGB:
		return "linear-sRGB"
	case ColorSpaceDisplayP3:
		return "DisplayP3"
	default:
		return "unknown"
	}
}
