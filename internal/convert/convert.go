package convert

import "image"

// Source yields raw source pixels by surface coordinate. The returned slice
// starts at the requested pixel and must not be modified.
type Source interface {
	Sample(x, y int) []byte
}

// RowSource is implemented by sources that can return a run of pixels on
// one row, [x0, x1), as a single slice.
type RowSource interface {
	Source
	Row(y, x0, x1 int) []byte
}

// Dest is the destination memory of a conversion.
type Dest struct {
	Pix    []byte
	Stride int

	// Origin is the destination-local pixel that receives rect.Min.
	Origin image.Point
}

// Convert transforms every pixel of rect from src into dst following plan.
// Only the rect.Dx()×rect.Dy() block of dst starting at dst.Origin is
// written; bytes outside it, including row padding, are left untouched.
// The caller guarantees that the block lies within dst.Pix.
func Convert(dst Dest, src Source, rect image.Rectangle, plan Plan) {
	if rect.Empty() {
		return
	}
	dbpp := plan.Dst.BytesPerPixel
	sbpp := plan.Src.BytesPerPixel
	w := rect.Dx()
	rows, _ := src.(RowSource)

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		off := (dst.Origin.Y+y-rect.Min.Y)*dst.Stride + dst.Origin.X*dbpp
		out := dst.Pix[off : off+w*dbpp]

		if rows != nil {
			in := rows.Row(y, rect.Min.X, rect.Max.X)
			convertRow(out, in, w, sbpp, dbpp, &plan)
			continue
		}
		for i := range w {
			in := src.Sample(rect.Min.X+i, y)
			convertRow(out[i*dbpp:(i+1)*dbpp], in, 1, sbpp, dbpp, &plan)
		}
	}
}

// convertRow converts n packed pixels from in to out.
func convertRow(out, in []byte, n, sbpp, dbpp int, plan *Plan) {
	switch {
	case plan.Copy:
		copy(out[:n*dbpp], in[:n*sbpp])
	case plan.Float:
		for i := range n {
			plan.applyFloat(in[i*sbpp:], out[i*dbpp:])
		}
	default:
		for i := range n {
			plan.apply(in[i*sbpp:], out[i*dbpp:])
		}
	}
}

// AllOpaque reports whether every pixel of rect decoded with c has alpha
// fully opaque.
func AllOpaque(src Source, rect image.Rectangle, c Codec) bool {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			px := src.Sample(x, y)
			if c.IsFloat() {
				if c.loadF(px)[3] < 1 {
					return false
				}
				continue
			}
			if c.load(px)[3] != 255 {
				return false
			}
		}
	}
	return true
}

// Buffer is a RowSource over packed pixel memory.
type Buffer struct {
	Pix           []byte
	Stride        int
	BytesPerPixel int

	// Min is the coordinate of the first pixel in Pix.
	Min image.Point
}

// Sample implements Source.
func (b *Buffer) Sample(x, y int) []byte {
	off := (y-b.Min.Y)*b.Stride + (x-b.Min.X)*b.BytesPerPixel
	return b.Pix[off : off+b.BytesPerPixel]
}

// Row implements RowSource.
func (b *Buffer) Row(y, x0, x1 int) []byte {
	off := (y-b.Min.Y)*b.Stride + (x0-b.Min.X)*b.BytesPerPixel
	return b.Pix[off : off+(x1-x0)*b.BytesPerPixel]
}
