package convert

import (
	"encoding/binary"

	"github.com/x448/float16"

	"github.com/gogpu/readback/format"
)

// Pixel is a decoded pixel in straight R, G, B, A order, 8 bits per channel.
// Whether the color channels are premultiplied depends on the encoding it
// was decoded from.
type Pixel [4]uint8

// PixelF is a decoded pixel with float32 channels in [0, 1] (or beyond, for
// extended-range half floats).
type PixelF [4]float32

// Codec decodes and encodes one color type.
type Codec struct {
	ColorType     format.ColorType
	BytesPerPixel int

	load  func(src []byte) Pixel
	store func(dst []byte, p Pixel)

	// Float codecs are set only for ColorTypeRGBAF16.
	loadF  func(src []byte) PixelF
	storeF func(dst []byte, p PixelF)
}

// Load decodes the pixel at the start of src.
func (c Codec) Load(src []byte) Pixel {
	return c.load(src)
}

// Store encodes p at the start of dst.
func (c Codec) Store(dst []byte, p Pixel) {
	c.store(dst, p)
}

// IsFloat returns true if the codec has a float path.
func (c Codec) IsFloat() bool {
	return c.loadF != nil
}

// codecTable holds a codec for every convertible color type.
var codecTable = map[format.ColorType]Codec{
	format.ColorTypeAlpha8: {
		ColorType: format.ColorTypeAlpha8, BytesPerPixel: 1,
		load:  func(s []byte) Pixel { return Pixel{0, 0, 0, s[0]} },
		store: func(d []byte, p Pixel) { d[0] = p[3] },
	},
	format.ColorTypeGray8: {
		ColorType: format.ColorTypeGray8, BytesPerPixel: 1,
		load:  func(s []byte) Pixel { return Pixel{s[0], s[0], s[0], 255} },
		store: func(d []byte, p Pixel) { d[0] = luminance(p) },
	},
	format.ColorTypeRGB565: {
		ColorType: format.ColorTypeRGB565, BytesPerPixel: 2,
		load:  load565,
		store: store565,
	},
	format.ColorTypeARGB4444: {
		ColorType: format.ColorTypeARGB4444, BytesPerPixel: 2,
		load:  load4444,
		store: store4444,
	},
	format.ColorTypeRGBA8888: {
		ColorType: format.ColorTypeRGBA8888, BytesPerPixel: 4,
		load:  func(s []byte) Pixel { return Pixel{s[0], s[1], s[2], s[3]} },
		store: func(d []byte, p Pixel) { d[0], d[1], d[2], d[3] = p[0], p[1], p[2], p[3] },
	},
	format.ColorTypeRGB888x: {
		ColorType: format.ColorTypeRGB888x, BytesPerPixel: 4,
		load:  func(s []byte) Pixel { return Pixel{s[0], s[1], s[2], 255} },
		store: func(d []byte, p Pixel) { d[0], d[1], d[2], d[3] = p[0], p[1], p[2], 255 },
	},
	format.ColorTypeBGRA8888: {
		ColorType: format.ColorTypeBGRA8888, BytesPerPixel: 4,
		load:  func(s []byte) Pixel { return Pixel{s[2], s[1], s[0], s[3]} },
		store: func(d []byte, p Pixel) { d[0], d[1], d[2], d[3] = p[2], p[1], p[0], p[3] },
	},
	format.ColorTypeRGBAF16: {
		ColorType: format.ColorTypeRGBAF16, BytesPerPixel: 8,
		load:   loadF16,
		store:  storeF16,
		loadF:  loadF16Float,
		storeF: storeF16Float,
	},
}

// CodecFor returns the codec for ct. Unknown and Index8 have none.
func CodecFor(ct format.ColorType) (Codec, bool) {
	c, ok := codecTable[ct]
	return c, ok
}

// luminance uses the Rec. 601 weights.
func luminance(p Pixel) uint8 {
	return uint8((int(p[0])*299 + int(p[1])*587 + int(p[2])*114) / 1000)
}

func load565(s []byte) Pixel {
	v := binary.LittleEndian.Uint16(s)
	r := uint8(v >> 11)
	g := uint8(v>>5) & 0x3F
	b := uint8(v) & 0x1F
	return Pixel{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2, 255}
}

func store565(d []byte, p Pixel) {
	v := uint16(p[0]>>3)<<11 | uint16(p[1]>>2)<<5 | uint16(p[2]>>3)
	binary.LittleEndian.PutUint16(d, v)
}

func load4444(s []byte) Pixel {
	v := binary.LittleEndian.Uint16(s)
	return Pixel{
		uint8(v>>12) * 17,
		uint8(v>>8&0xF) * 17,
		uint8(v>>4&0xF) * 17,
		uint8(v&0xF) * 17,
	}
}

func store4444(d []byte, p Pixel) {
	v := uint16(p[0]>>4)<<12 | uint16(p[1]>>4)<<8 | uint16(p[2]>>4)<<4 | uint16(p[3]>>4)
	binary.LittleEndian.PutUint16(d, v)
}

func loadF16Float(s []byte) PixelF {
	var p PixelF
	for i := range p {
		p[i] = float16.Frombits(binary.LittleEndian.Uint16(s[i*2:])).Float32()
	}
	return p
}

func storeF16Float(d []byte, p PixelF) {
	for i, v := range p {
		binary.LittleEndian.PutUint16(d[i*2:], float16.Fromfloat32(v).Bits())
	}
}

func loadF16(s []byte) Pixel {
	f := loadF16Float(s)
	return Pixel{unorm8(f[0]), unorm8(f[1]), unorm8(f[2]), unorm8(f[3])}
}

func storeF16(d []byte, p Pixel) {
	storeF16Float(d, PixelF{
		float32(p[0]) / 255,
		float32(p[1]) / 255,
		float32(p[2]) / 255,
		float32(p[3]) / 255,
	})
}

// unorm8 clamps v to [0, 1] and maps it to [0, 255] with rounding.
// NaN maps to 0.
func unorm8(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
