// Package readback copies pixels out of rendering surfaces into
// caller-owned buffers, converting between pixel encodings on the way.
//
// # Overview
//
// A read takes a surface, a destination Pixmap and the surface coordinate
// that maps to the pixmap's top-left corner. The requested rectangle has the
// pixmap's size and may extend past the surface; only the overlapping part
// is copied and the rest of the pixmap keeps its contents.
//
//	info := format.NewInfo(format.ColorTypeBGRA8888, format.AlphaTypeUnpremul, format.ColorSpaceSRGB)
//	dst := readback.NewPixmap(64, 64, info)
//	if !readback.ReadPixels(s, dst, -10, 20) {
//	    // dst is unchanged
//	}
//
// Use Read instead of ReadPixels to learn why a read failed.
//
// # Conversion Rules
//
// CanConvert decides whether a source encoding may be read into a
// destination encoding:
//
//   - indexed formats, invalid descriptors, non-linear half-float sources
//     and gray destinations fed by color sources are rejected
//   - alpha-only sources only go to alpha-only destinations; any source can
//     be read into an alpha-only destination
//   - unpremultiplied sources go to premultiplied destinations only on
//     surfaces that report UnpremulToPremul
//   - translucent sources go to opaque destinations either by forcing alpha
//     (raster surfaces) or, on GPU surfaces, only if every pixel read is
//     already opaque
//   - premultiplied sources are unpremultiplied as needed
//   - color space tags never change pixel values
//
// # Guarantees
//
// A failed read leaves the destination untouched. No read changes surface
// contents or the surface generation ID. Repeating a read gives identical
// results.
//
// # Large Reads
//
// A Reader created with WithWorkers converts big rectangles in row bands on
// a worker pool. Results are identical to a single-goroutine read.
//
// # Logging
//
// readback is silent by default. SetLogger enables structured logging via
// log/slog for readback and its sub-packages.
package readback
