package readback

import (
	"image"
	"testing"

	"github.com/gogpu/readback/format"
	"github.com/gogpu/readback/surface"
)

func BenchmarkRead(b *testing.B) {
	s, _ := surface.NewRasterSurface(256, 256, rgbaPremul)
	_ = s.Erase(image.Opaque)
	benchmarks := []struct {
		name string
		info format.Info
	}{
		{"copy", rgbaPremul},
		{"swizzle", bgraPremul},
		{"unpremul", rgbaUnpremul},
		{"alpha", alpha8},
	}
	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			dst := NewPixmap(256, 256, bm.info)
			r := NewReader()
			b.ReportAllocs()
			for b.Loop() {
				_ = r.Read(s, dst, 0, 0)
			}
		})
	}
}
