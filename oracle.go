package readback

import (
	"github.com/gogpu/readback/format"
	"github.com/gogpu/readback/surface"
)

// Verdict is the outcome of a format compatibility check.
type Verdict uint8

const (
	// Forbidden means the conversion is never performed.
	Forbidden Verdict = iota

	// Allowed means the conversion is performed as planned.
	Allowed

	// AllowedIfOpaque means translucent source contents are being read into
	// an opaque destination. Surfaces with ForceOpaque drop the alpha; the
	// rest succeed only if every source pixel in the read region is opaque.
	AllowedIfOpaque
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case Forbidden:
		return "forbidden"
	case Allowed:
		return "allowed"
	case AllowedIfOpaque:
		return "allowed-if-opaque"
	default:
		return "unknown"
	}
}

// CanConvert reports whether pixels encoded as src may be read into a
// destination encoded as dst on a backend with the given capabilities.
// It is a pure function of its arguments.
func CanConvert(dst, src format.Info, caps surface.Capabilities) Verdict {
	v, _ := explain(dst, src, caps)
	return v
}

// explain returns the verdict together with the rule that produced it.
// Rules are checked in order and the first match wins.
func explain(dst, src format.Info, caps surface.Capabilities) (Verdict, string) {
	switch {
	case !src.IsValid():
		return Forbidden, "invalid source format"
	case !dst.IsValid():
		return Forbidden, "invalid destination format"
	case src.ColorType == format.ColorTypeIndex8 || dst.ColorType == format.ColorTypeIndex8:
		return Forbidden, "indexed formats are not convertible"
	case src.ColorType == format.ColorTypeRGBAF16 && src.ColorSpace.IsTagged() && !src.ColorSpace.IsLinear():
		return Forbidden, "half-float source must be linear"
	case dst.ColorType == format.ColorTypeGray8 && src.ColorType != format.ColorTypeGray8:
		return Forbidden, "gray destination needs a gray source"
	}

	switch {
	case src.IsAlphaOnly() && !dst.IsAlphaOnly():
		return Forbidden, "alpha-only source into color destination"
	case dst.IsAlphaOnly():
		return Allowed, "alpha extraction"
	}

	if src.AlphaType == format.AlphaTypeUnpremul && dst.AlphaType == format.AlphaTypePremul {
		if caps.UnpremulToPremul {
			return Allowed, "premultiply"
		}
		return Forbidden, "backend cannot premultiply on read"
	}

	if !src.IsOpaque() && dst.IsOpaque() {
		return AllowedIfOpaque, "opaque destination"
	}

	if src.AlphaType == format.AlphaTypePremul && dst.AlphaType == format.AlphaTypeUnpremul {
		return Allowed, "unpremultiply"
	}
	return Allowed, "pass-through"
}
