// Package convert moves pixels between encodings.
//
// Every layout has one codec that decodes a stored pixel into straight
// 8-bit R, G, B, A order and encodes it back. A Plan picks the two codecs
// and the alpha operation once per read; Convert then runs the same
// straight-line loop over every pixel of the clipped region.
//
// Alpha math:
//
//	premultiply:   c' = floor(c * a / 255)
//	unpremultiply: c' = ceil(c * 255 / a), or 0 when a == 0
//
// Premultiplying the result of an unpremultiply gives back the original
// channel exactly, which keeps repeated premul/unpremul round trips stable.
package convert

// div255 divides x by 255 exactly for x in [0, 255*255].
//
// Formula: ((x + 1) + ((x + 1) >> 8)) >> 8 (Alvy Ray Smith).
func div255(x uint16) uint16 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// Premul scales c by a/255, rounding down.
func Premul(c, a uint8) uint8 {
	return uint8(div255(uint16(c) * uint16(a)))
}

// Unpremul undoes Premul, rounding up. Channels larger than alpha (invalid
// premultiplied input) saturate at 255.
func Unpremul(c, a uint8) uint8 {
	if a == 0 {
		return 0
	}
	if a == 255 {
		return c
	}
	v := (uint32(c)*255 + uint32(a) - 1) / uint32(a)
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// premulPixel premultiplies the color channels of p.
func premulPixel(p Pixel) Pixel {
	a := p[3]
	if a == 255 {
		return p
	}
	return Pixel{Premul(p[0], a), Premul(p[1], a), Premul(p[2], a), a}
}

// unpremulPixel unpremultiplies the color channels of p.
func unpremulPixel(p Pixel) Pixel {
	a := p[3]
	if a == 255 {
		return p
	}
	return Pixel{Unpremul(p[0], a), Unpremul(p[1], a), Unpremul(p[2], a), a}
}

func premulFloat(p PixelF) PixelF {
	return PixelF{p[0] * p[3], p[1] * p[3], p[2] * p[3], p[3]}
}

func unpremulFloat(p PixelF) PixelF {
	a := p[3]
	if a <= 0 {
		return PixelF{0, 0, 0, a}
	}
	return PixelF{p[0] / a, p[1] / a, p[2] / a, a}
}
