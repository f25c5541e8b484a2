// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"
	"sync/atomic"

	"github.com/gogpu/readback/format"
)

// Surface is a readable pixel store.
//
// A Surface is borrowed by a read for the duration of one call. Reads never
// change its contents or its generation ID.
//
// Surfaces are NOT thread-safe. Each surface should be used from a single
// goroutine, or external synchronization must be used.
type Surface interface {
	// Bounds returns the pixel rectangle of the surface. Min is always (0, 0).
	Bounds() image.Rectangle

	// Info returns the pixel encoding of the surface contents.
	Info() format.Info

	// Capabilities reports which conversions the backend supports.
	Capabilities() Capabilities

	// GenerationID identifies the current contents. It changes whenever the
	// contents change and never otherwise.
	GenerationID() uint64

	// Sampler returns read-only access to the current contents. For GPU
	// surfaces this may download texels. The sampler is valid until the
	// contents change or the surface is closed.
	Sampler() (Sampler, error)

	// Close releases the surface. After Close, Sampler returns ErrClosed.
	// Close is idempotent.
	Close() error
}

// Sampler yields raw pixels in the encoding given by Surface.Info.
type Sampler interface {
	// Sample returns the bytes of the pixel at (x, y), starting at that
	// pixel. The slice must not be modified.
	Sample(x, y int) []byte
}

// UnpremulSurface is implemented by surfaces that can unpremultiply their
// own contents, typically with a GPU kernel.
type UnpremulSurface interface {
	Surface

	// UnpremulSampler is Sampler with color channels divided by alpha.
	// It returns ErrNoKernel when the surface cannot do this for its
	// current encoding; callers then convert the Sampler output.
	UnpremulSampler() (Sampler, error)
}

// RowSampler is implemented by samplers that can return a run of pixels
// [x0, x1) on row y as one slice.
type RowSampler interface {
	Sampler
	Row(y, x0, x1 int) []byte
}

// Capabilities describes backend-dependent conversion support.
type Capabilities struct {
	// Accelerated is true for GPU-backed surfaces.
	Accelerated bool

	// UnpremulToPremul reports whether unpremultiplied contents may be read
	// into a premultiplied destination.
	UnpremulToPremul bool

	// ForceOpaque reports whether translucent contents may be read into an
	// opaque destination by forcing alpha. When false, such reads succeed
	// only if every source pixel in the read region is already opaque.
	ForceOpaque bool
}

// RasterCapabilities returns the capabilities of CPU surfaces.
func RasterCapabilities() Capabilities {
	return Capabilities{UnpremulToPremul: true, ForceOpaque: true}
}

// AcceleratedCapabilities returns the capabilities of GPU surfaces.
func AcceleratedCapabilities() Capabilities {
	return Capabilities{Accelerated: true}
}

// Errors.
var (
	// ErrClosed is returned when a closed surface is used.
	ErrClosed = errors.New("surface: closed")

	// ErrUnsupportedFormat is returned when a surface cannot store the
	// requested pixel encoding.
	ErrUnsupportedFormat = errors.New("surface: unsupported format")

	// ErrInvalidSize is returned for non-positive surface dimensions.
	ErrInvalidSize = errors.New("surface: invalid size")

	// ErrNoBackend is returned when a GPU surface is created without a
	// usable device or texel downloader.
	ErrNoBackend = errors.New("surface: no GPU backend")

	// ErrNoKernel is returned by UnpremulSampler when no kernel can serve
	// the surface.
	ErrNoKernel = errors.New("surface: no unpremultiply kernel")
)

// lastGenerationID is shared by all surfaces so that IDs are never reused.
var lastGenerationID atomic.Uint64

func nextGenerationID() uint64 {
	return lastGenerationID.Add(1)
}
