package convert

import (
	"errors"
	"fmt"

	"github.com/gogpu/readback/format"
)

// ErrNoCodec is returned by NewPlan when either color type has no codec.
var ErrNoCodec = errors.New("convert: no codec for color type")

// AlphaOp is the alpha transform applied between decode and encode.
type AlphaOp uint8

const (
	// AlphaNone leaves channels as decoded.
	AlphaNone AlphaOp = iota

	// AlphaPremul multiplies color channels by alpha.
	AlphaPremul

	// AlphaUnpremul divides color channels by alpha.
	AlphaUnpremul

	// AlphaForceOpaque sets alpha to fully opaque and leaves color alone.
	AlphaForceOpaque
)

// String returns the op name.
func (op AlphaOp) String() string {
	switch op {
	case AlphaNone:
		return "none"
	case AlphaPremul:
		return "premul"
	case AlphaUnpremul:
		return "unpremul"
	case AlphaForceOpaque:
		return "force-opaque"
	default:
		return "unknown"
	}
}

// Plan is the per-read conversion recipe.
type Plan struct {
	Src, Dst Codec
	Op       AlphaOp

	// SrcOpaque forces decoded alpha to 255; the source is tagged opaque
	// and whatever its alpha bits hold is meaningless.
	SrcOpaque bool

	// Copy means source and destination bytes are identical per pixel.
	Copy bool

	// Float runs the alpha op on float channels (RGBAF16 on both sides).
	Float bool
}

// NewPlan builds the recipe for converting src pixels into dst pixels.
// It does not judge whether the conversion is allowed; callers decide that
// first.
func NewPlan(src, dst format.Info) (Plan, error) {
	sc, ok := CodecFor(src.ColorType)
	if !ok {
		return Plan{}, fmt.Errorf("%w: %s", ErrNoCodec, src.ColorType)
	}
	dc, ok := CodecFor(dst.ColorType)
	if !ok {
		return Plan{}, fmt.Errorf("%w: %s", ErrNoCodec, dst.ColorType)
	}

	p := Plan{Src: sc, Dst: dc, Op: alphaOp(src, dst), SrcOpaque: src.IsOpaque()}

	p.Copy = src.ColorType == dst.ColorType && p.Op == AlphaNone &&
		(!src.IsOpaque() || dst.IsOpaque())
	p.Float = !p.Copy && sc.IsFloat() && dc.IsFloat()
	return p, nil
}

// alphaOp picks the alpha transform for src → dst.
func alphaOp(src, dst format.Info) AlphaOp {
	if src.IsAlphaOnly() || dst.IsAlphaOnly() {
		return AlphaNone
	}
	switch {
	case dst.IsOpaque() && !src.IsOpaque():
		return AlphaForceOpaque
	case src.IsOpaque() || dst.IsOpaque():
		return AlphaNone
	case src.AlphaType == format.AlphaTypePremul && dst.AlphaType == format.AlphaTypeUnpremul:
		return AlphaUnpremul
	case src.AlphaType == format.AlphaTypeUnpremul && dst.AlphaType == format.AlphaTypePremul:
		return AlphaPremul
	default:
		return AlphaNone
	}
}

// apply runs the 8-bit pipeline on one pixel.
func (p *Plan) apply(src, dst []byte) {
	px := p.Src.load(src)
	if p.SrcOpaque {
		px[3] = 255
	}
	switch p.Op {
	case AlphaPremul:
		px = premulPixel(px)
	case AlphaUnpremul:
		px = unpremulPixel(px)
	case AlphaForceOpaque:
		px[3] = 255
	}
	p.Dst.store(dst, px)
}

// applyFloat runs the float pipeline on one pixel.
func (p *Plan) applyFloat(src, dst []byte) {
	px := p.Src.loadF(src)
	if p.SrcOpaque {
		px[3] = 1
	}
	switch p.Op {
	case AlphaPremul:
		px = premulFloat(px)
	case AlphaUnpremul:
		px = unpremulFloat(px)
	case AlphaForceOpaque:
		px[3] = 1
	}
	p.Dst.storeF(dst, px)
}
