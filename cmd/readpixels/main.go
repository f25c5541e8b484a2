// Command readpixels renders a test pattern into a surface, reads a
// rectangle of it back in the requested pixel format and writes the result
// as PNG, BMP or TIFF.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/readback"
	"github.com/gogpu/readback/format"
	"github.com/gogpu/readback/surface"
)

func main() {
	var (
		width   = flag.Int("width", 256, "surface width")
		height  = flag.Int("height", 256, "surface height")
		backend = flag.String("backend", "raster", "surface backend ("+strings.Join(surface.Backends(), ", ")+")")
		srcFmt  = flag.String("src", "rgba8888/premul", "surface pixel format")
		dstFmt  = flag.String("dst", "bgra8888/unpremul", "destination pixel format")
		rect    = flag.String("rect", "", "rectangle to read as x,y,w,h (default: whole surface)")
		scale   = flag.Int("scale", 1, "nearest-neighbor upscale factor for the output image")
		output  = flag.String("output", "readback.png", "output file (.png, .bmp, .tif)")
		verbose = flag.Bool("v", false, "log rejected reads and plan cache misses")
	)
	flag.Parse()

	if *verbose {
		readback.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	src, err := parseInfo(*srcFmt)
	if err != nil {
		log.Fatalf("-src: %v", err)
	}
	dst, err := parseInfo(*dstFmt)
	if err != nil {
		log.Fatalf("-dst: %v", err)
	}
	r := image.Rect(0, 0, *width, *height)
	if *rect != "" {
		if r, err = parseRect(*rect); err != nil {
			log.Fatalf("-rect: %v", err)
		}
	}

	s, err := surface.New(*backend, surface.Options{
		Width:  *width,
		Height: *height,
		Info:   src,
	})
	if err != nil {
		log.Fatalf("Failed to create surface: %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := fillPattern(s); err != nil {
		log.Fatalf("Failed to fill surface: %v", err)
	}

	pm := readback.NewPixmap(r.Dx(), r.Dy(), dst)
	reader := readback.NewReader()
	if err := reader.Read(s, pm, r.Min.X, r.Min.Y); err != nil {
		log.Fatalf("Read %v failed: %v (%s from %s is %v)", r, err, dst, src,
			readback.CanConvert(dst, src, s.Capabilities()))
	}

	img, err := pm.ToImage()
	if err != nil {
		log.Fatalf("Failed to convert: %v", err)
	}
	if *scale > 1 {
		img = upscale(img, *scale)
	}
	if err := save(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	area := r.Intersect(s.Bounds())
	p := message.NewPrinter(language.English)
	p.Printf("Read %d of %d pixels (%s -> %s) into %s, %d bytes\n",
		area.Dx()*area.Dy(), r.Dx()*r.Dy(), src, dst, *output, len(pm.Data()))
}

// parseInfo parses "colortype/alphatype[/colorspace]", case-insensitive.
func parseInfo(s string) (format.Info, error) {
	parts := strings.Split(strings.ToLower(s), "/")
	if len(parts) < 2 || len(parts) > 3 {
		return format.Info{}, fmt.Errorf("want colortype/alphatype[/colorspace], got %q", s)
	}

	ct := format.ColorTypeUnknown
	for c := format.ColorTypeAlpha8; c.IsValid(); c++ {
		if strings.ToLower(c.String()) == parts[0] {
			ct = c
			break
		}
	}
	var at format.AlphaType
	switch parts[1] {
	case "opaque":
		at = format.AlphaTypeOpaque
	case "premul":
		at = format.AlphaTypePremul
	case "unpremul":
		at = format.AlphaTypeUnpremul
	}
	cs := format.ColorSpaceSRGB
	if len(parts) == 3 {
		switch parts[2] {
		case "none":
			cs = format.ColorSpaceNone
		case "srgb":
		case "linear":
			cs = format.ColorSpaceLinearSRGB
		case "p3":
			cs = format.ColorSpaceDisplayP3
		default:
			return format.Info{}, fmt.Errorf("unknown color space %q", parts[2])
		}
	}
	return format.MakeInfo(ct, at, cs)
}

func parseRect(s string) (image.Rectangle, error) {
	var x, y, w, h int
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &x, &y, &w, &h); err != nil {
		return image.Rectangle{}, fmt.Errorf("want x,y,w,h: %w", err)
	}
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, fmt.Errorf("empty rectangle %dx%d", w, h)
	}
	return image.Rect(x, y, x+w, y+h), nil
}

// fillPattern writes a gradient whose alpha cycles along diagonals, so
// every alpha conversion path has something to do.
func fillPattern(s surface.Surface) error {
	rs, ok := s.(*surface.RasterSurface)
	if !ok {
		return fmt.Errorf("backend %T is not writable", s)
	}
	b := rs.Bounds()
	info := format.NewInfo(format.ColorTypeRGBA8888, format.AlphaTypeUnpremul, rs.Info().ColorSpace)
	pix := make([]byte, 0, b.Dx()*b.Dy()*4)
	alphas := [...]uint8{0xFF, 0x80, 0xCC, 0x00, 0x01}
	for y := range b.Dy() {
		for x := range b.Dx() {
			pix = append(pix,
				uint8(x*255/max(b.Dx()-1, 1)),
				uint8(y*255/max(b.Dy()-1, 1)),
				0x0C,
				alphas[(x/8+y/8)%len(alphas)])
		}
	}
	return rs.WritePixels(info, pix, b.Dx()*4, b)
}

func upscale(img image.Image, n int) image.Image {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx()*n, b.Dy()*n))
	draw.NearestNeighbor.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}

func save(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := encode(f, filepath.Ext(path), img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func encode(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
}
