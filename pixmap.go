package readback

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/gogpu/readback/format"
	"github.com/gogpu/readback/internal/convert"
)

// Pixmap is a caller-owned destination buffer: pixel encoding, dimensions,
// row stride in bytes and the pixel memory itself.
//
// Read writes only inside Data; it never allocates or resizes it.
type Pixmap struct {
	info   format.Info
	width  int
	height int
	stride int
	data   []byte
}

// NewPixmap allocates a zeroed pixmap with tightly packed rows.
func NewPixmap(width, height int, info format.Info) *Pixmap {
	return NewPixmapWithStride(width, height, info.MinRowBytes(width), info)
}

// NewPixmapWithStride allocates a zeroed pixmap with the given row stride.
// The stride is not checked here; Read rejects strides below the row size.
func NewPixmapWithStride(width, height, stride int, info format.Info) *Pixmap {
	n := 0
	if width > 0 && height > 0 && stride > 0 && stride <= math.MaxInt/height {
		n = stride * height
	}
	return &Pixmap{
		info:   info,
		width:  width,
		height: height,
		stride: stride,
		data:   make([]byte, n),
	}
}

// PixmapFromRaw wraps existing memory without copying. data may be nil to
// describe a destination that was never allocated; reads into it fail.
func PixmapFromRaw(width, height, stride int, info format.Info, data []byte) *Pixmap {
	return &Pixmap{
		info:   info,
		width:  width,
		height: height,
		stride: stride,
		data:   data,
	}
}

// Info returns the pixel encoding.
func (p *Pixmap) Info() format.Info {
	return p.info
}

// Width returns the width in pixels.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height in pixels.
func (p *Pixmap) Height() int {
	return p.height
}

// Stride returns the number of bytes between row starts.
func (p *Pixmap) Stride() int {
	return p.stride
}

// Data returns the pixel memory.
func (p *Pixmap) Data() []byte {
	return p.data
}

// Bounds returns the pixmap rectangle.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// PixelBytes returns the bytes of the pixel at (x, y), or nil if the
// coordinate is outside the pixmap.
func (p *Pixmap) PixelBytes(x, y int) []byte {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return nil
	}
	bpp := p.info.BytesPerPixel()
	off := y*p.stride + x*bpp
	if off+bpp > len(p.data) {
		return nil
	}
	return p.data[off : off+bpp]
}

// Validate reports whether the pixmap can receive pixels.
func (p *Pixmap) Validate() error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: nil pixmap", ErrInvalidDestination)
	case p.width <= 0 || p.height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidDestination, p.width, p.height)
	case p.data == nil:
		return fmt.Errorf("%w: no pixel memory", ErrInvalidDestination)
	}
	if err := p.info.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDestination, err)
	}
	rowBytes := p.info.MinRowBytes(p.width)
	if rowBytes < 0 {
		return fmt.Errorf("%w: width %d overflows", ErrInvalidDestination, p.width)
	}
	if p.stride < rowBytes {
		return fmt.Errorf("%w: stride %d below row size %d", ErrInvalidDestination, p.stride, rowBytes)
	}
	need := p.info.ComputeByteSize(p.width, p.height, p.stride)
	if need < 0 {
		return fmt.Errorf("%w: %d rows of stride %d overflow", ErrInvalidDestination, p.height, p.stride)
	}
	if len(p.data) < need {
		return fmt.Errorf("%w: %d bytes, need %d", ErrInvalidDestination, len(p.data), need)
	}
	return nil
}

// ToImage converts the pixmap to a standard library image: *image.Alpha for
// alpha-only pixmaps, *image.Gray for Gray8 and *image.NRGBA otherwise.
func (p *Pixmap) ToImage() (image.Image, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r := p.Bounds()

	switch p.info.ColorType {
	case format.ColorTypeAlpha8:
		img := image.NewAlpha(r)
		p.copyRows(img.Pix, img.Stride)
		return img, nil
	case format.ColorTypeGray8:
		img := image.NewGray(r)
		p.copyRows(img.Pix, img.Stride)
		return img, nil
	}

	img := image.NewNRGBA(r)
	dst := format.NewInfo(format.ColorTypeRGBA8888, format.AlphaTypeUnpremul, p.info.ColorSpace)
	plan, err := convert.NewPlan(p.info, dst)
	if err != nil {
		return nil, fmt.Errorf("readback: to image: %w", err)
	}
	src := &convert.Buffer{Pix: p.data, Stride: p.stride, BytesPerPixel: p.info.BytesPerPixel()}
	convert.Convert(convert.Dest{Pix: img.Pix, Stride: img.Stride}, src, r, plan)
	return img, nil
}

func (p *Pixmap) copyRows(dst []byte, stride int) {
	for y := range p.height {
		copy(dst[y*stride:y*stride+p.width], p.data[y*p.stride:])
	}
}

// SavePNG writes the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	img, err := p.ToImage()
	if err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return png.Encode(f, img)
}
