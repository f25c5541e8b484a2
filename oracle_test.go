package readback

import (
	"testing"

	"github.com/gogpu/readback/format"
	"github.com/gogpu/readback/surface"
)

func TestCanConvert(t *testing.T) {
	raster := surface.RasterCapabilities()
	gpu := surface.AcceleratedCapabilities()

	f16 := func(cs format.ColorSpace) format.Info {
		return format.NewInfo(format.ColorTypeRGBAF16, format.AlphaTypePremul, cs)
	}
	gray := format.NewInfo(format.ColorTypeGray8, format.AlphaTypeOpaque, format.ColorSpaceNone)
	index := format.NewInfo(format.ColorTypeIndex8, format.AlphaTypePremul, format.ColorSpaceNone)
	rgb565 := format.NewInfo(format.ColorTypeRGB565, format.AlphaTypeOpaque, format.ColorSpaceSRGB)

	tests := []struct {
		name string
		dst  format.Info
		src  format.Info
		caps surface.Capabilities
		want Verdict
	}{
		{"identity", rgbaPremul, rgbaPremul, raster, Allowed},
		{"swizzle", bgraPremul, rgbaPremul, gpu, Allowed},
		{"unpremultiply raster", rgbaUnpremul, rgbaPremul, raster, Allowed},
		{"unpremultiply gpu", bgraUnpremul, rgbaPremul, gpu, Allowed},
		{"premultiply raster", rgbaPremul, rgbaUnpremul, raster, Allowed},
		{"premultiply gpu", rgbaPremul, rgbaUnpremul, gpu, Forbidden},
		{"translucent into 888x", rgbx, rgbaPremul, raster, AllowedIfOpaque},
		{"translucent into 888x gpu", rgbx, rgbaPremul, gpu, AllowedIfOpaque},
		{"translucent into opaque alpha type", rgbaOpaque, bgraUnpremul, gpu, AllowedIfOpaque},
		{"translucent into 565", rgb565, rgbaPremul, raster, AllowedIfOpaque},
		{"opaque into 565", rgb565, rgbx, gpu, Allowed},
		{"opaque into premul", rgbaPremul, rgbaOpaque, gpu, Allowed},
		{"alpha extraction", alpha8, rgbaPremul, gpu, Allowed},
		{"alpha from opaque", alpha8, rgbx, raster, Allowed},
		{"alpha to alpha", alpha8, alpha8, gpu, Allowed},
		{"alpha into color", rgbaPremul, alpha8, raster, Forbidden},
		{"alpha into opaque", rgbx, alpha8, raster, Forbidden},
		{"index destination", index, rgbaPremul, raster, Forbidden},
		{"index source", rgbaPremul, index, raster, Forbidden},
		{"gray from gray", gray, gray, raster, Allowed},
		{"gray from color", gray, rgbaPremul, raster, Forbidden},
		{"gray from alpha", gray, alpha8, raster, Forbidden},
		{"color from gray", rgbaUnpremul, gray, gpu, Allowed},
		{"f16 untagged", rgbaPremul, f16(format.ColorSpaceNone), raster, Allowed},
		{"f16 linear", rgbaPremul, f16(format.ColorSpaceLinearSRGB), raster, Allowed},
		{"f16 srgb", rgbaPremul, f16(format.ColorSpaceSRGB), raster, Forbidden},
		{"f16 p3", alpha8, f16(format.ColorSpaceDisplayP3), raster, Forbidden},
		{"into f16 srgb", f16(format.ColorSpaceSRGB), rgbaPremul, raster, Allowed},
		{"unknown source", rgbaPremul, format.Info{}, raster, Forbidden},
		{"unknown destination", format.Info{}, rgbaPremul, raster, Forbidden},
		{"inconsistent destination", format.Info{ColorType: format.ColorTypeRGB888x, AlphaType: format.AlphaTypePremul}, rgbaPremul, raster, Forbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanConvert(tt.dst, tt.src, tt.caps); got != tt.want {
				_, reason := explain(tt.dst, tt.src, tt.caps)
				t.Errorf("CanConvert(%s, %s) = %v (%s), want %v", tt.dst, tt.src, got, reason, tt.want)
			}
		})
	}
}

// TestCanConvertIsPure checks every pair twice under both capability sets.
func TestCanConvertIsPure(t *testing.T) {
	infos := []format.Info{rgbaPremul, rgbaUnpremul, rgbaOpaque, rgbx, bgraPremul, bgraUnpremul, alpha8}
	for _, caps := range []surface.Capabilities{surface.RasterCapabilities(), surface.AcceleratedCapabilities()} {
		for _, dst := range infos {
			for _, src := range infos {
				a := CanConvert(dst, src, caps)
				b := CanConvert(dst, src, caps)
				if a != b {
					t.Fatalf("CanConvert(%s, %s) not stable: %v then %v", dst, src, a, b)
				}
				if dst == src && a != Allowed {
					t.Errorf("CanConvert(%s, %s) = %v, want allowed for identity", dst, src, a)
				}
			}
		}
	}
}

func TestVerdictString(t *testing.T) {
	tests := []struct {
		v    Verdict
		want string
	}{
		{Forbidden, "forbidden"},
		{Allowed, "allowed"},
		{AllowedIfOpaque, "allowed-if-opaque"},
		{Verdict(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("Verdict(%d).String() = %q, want %q", tt.v, got, tt.want)
		}
	}
}
