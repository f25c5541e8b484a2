package readback

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/readback/format"
	"github.com/gogpu/readback/internal/cache"
	"github.com/gogpu/readback/internal/clip"
	"github.com/gogpu/readback/internal/convert"
	"github.com/gogpu/readback/internal/parallel"
	"github.com/gogpu/readback/surface"
)

// Reader copies rectangles of surface pixels into caller-owned pixmaps,
// converting between pixel encodings on the way.
//
// A Reader is safe for concurrent use on different surfaces. Reading one
// surface from several goroutines at once needs external synchronization.
type Reader struct {
	caps  *surface.Capabilities
	plans *cache.Cache[planKey, *planEntry]
	pool  *parallel.Pool
}

// Reads smaller than this are converted on the calling goroutine even when
// the reader has workers.
const (
	parallelMinPixels = 256 * 256
	parallelMinRows   = 16
)

// planKey packs a (source, destination, capabilities) triple.
type planKey uint64

// planEntry is the cached outcome of checking and planning one triple.
type planEntry struct {
	verdict Verdict
	reason  string
	plan    convert.Plan

	// unpremulled converts contents the surface already unpremultiplied.
	// It is set only when plan divides by alpha.
	unpremulled *convert.Plan
}

// CacheStats describes the reader's plan cache.
type CacheStats struct {
	Plans  int
	Hits   uint64
	Misses uint64
}

// NewReader creates a Reader.
//
// Example:
//
//	r := readback.NewReader(readback.WithPlanCacheSize(32))
//	dst := readback.NewPixmap(64, 64, info)
//	if err := r.Read(s, dst, 10, 10); err != nil {
//	    return err
//	}
func NewReader(opts ...Option) *Reader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &Reader{caps: o.caps}
	if o.planCacheSize > 0 {
		r.plans = cache.New[planKey, *planEntry](o.planCacheSize)
	}
	if o.workers > 1 {
		r.pool = parallel.NewPool(o.workers)
	}
	return r
}

// Close stops the reader's worker goroutines, if any. The reader remains
// usable and converts on the calling goroutine afterwards.
func (r *Reader) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

// Read copies the rectangle of s that starts at (x, y) and has the size of
// dst into dst. Parts of the rectangle outside s are skipped and the
// matching parts of dst keep their previous contents.
//
// On error dst is unchanged. Reading never changes the contents or the
// generation ID of s.
//
// Errors are ErrInvalidDestination, ErrOutOfBounds, ErrIncompatibleFormat,
// ErrConditionallyIncompatible or ErrSurfaceUnavailable, possibly wrapped.
func (r *Reader) Read(s surface.Surface, dst *Pixmap, x, y int) error {
	if s == nil {
		return fmt.Errorf("%w: nil surface", ErrSurfaceUnavailable)
	}
	if err := dst.Validate(); err != nil {
		return r.reject(err, s.Info(), format.Info{}, image.Rectangle{})
	}

	requested := clip.XYWH(x, y, dst.width, dst.height)
	area, ok := clip.Intersect(requested, s.Bounds())
	if !ok {
		return r.reject(fmt.Errorf("%w: %v not in %v", ErrOutOfBounds, requested, s.Bounds()),
			s.Info(), dst.info, requested)
	}

	src := s.Info()
	caps := r.capabilities(s)
	entry := r.lookup(src, dst.info, caps)
	if entry.verdict == Forbidden {
		return r.reject(fmt.Errorf("%w: %s to %s: %s", ErrIncompatibleFormat, src, dst.info, entry.reason),
			src, dst.info, requested)
	}

	sampler, plan := surfaceUnpremul(s, entry)
	if sampler == nil {
		var err error
		if sampler, err = s.Sampler(); err != nil {
			Logger().Warn("readback: surface unavailable", "err", err)
			return fmt.Errorf("%w: %w", ErrSurfaceUnavailable, err)
		}
	}

	if entry.verdict == AllowedIfOpaque && !caps.ForceOpaque &&
		!convert.AllOpaque(sampler, area, entry.plan.Src) {
		return r.reject(fmt.Errorf("%w: %s to %s in %v", ErrConditionallyIncompatible, src, dst.info, area),
			src, dst.info, requested)
	}

	out := convert.Dest{Pix: dst.data, Stride: dst.stride, Origin: clip.Offset(requested, area)}
	r.convert(out, sampler, area, plan)
	return nil
}

// surfaceUnpremul returns the surface's own unpremultiplied contents and
// the plan for them when the read divides by alpha and the surface can do
// it. Otherwise it returns a nil sampler and the regular plan.
func surfaceUnpremul(s surface.Surface, entry *planEntry) (surface.Sampler, convert.Plan) {
	us, ok := s.(surface.UnpremulSurface)
	if !ok || entry.unpremulled == nil {
		return nil, entry.plan
	}
	sampler, err := us.UnpremulSampler()
	if err != nil {
		if !errors.Is(err, surface.ErrNoKernel) {
			Logger().Debug("readback: surface unpremultiply failed, converting on CPU", "err", err)
		}
		return nil, entry.plan
	}
	return sampler, *entry.unpremulled
}

// convert runs the plan over area, splitting it into row bands when the
// reader has workers and the area is large.
func (r *Reader) convert(dst convert.Dest, src convert.Source, area image.Rectangle, plan convert.Plan) {
	if r.pool == nil || area.Dx()*area.Dy() < parallelMinPixels {
		convert.Convert(dst, src, area, plan)
		return
	}

	bands := parallel.Bands(area, r.pool.Workers(), parallelMinRows)
	work := make([]func(), len(bands))
	for i, band := range bands {
		out := dst
		out.Origin.Y += band.Min.Y - area.Min.Y
		work[i] = func() { convert.Convert(out, src, band, plan) }
	}
	r.pool.Run(work)
}

// ReadPixels is Read reporting only success.
func (r *Reader) ReadPixels(s surface.Surface, dst *Pixmap, x, y int) bool {
	return r.Read(s, dst, x, y) == nil
}

// PlanCacheStats returns plan cache statistics. It is all zeros when the
// cache is disabled.
func (r *Reader) PlanCacheStats() CacheStats {
	if r.plans == nil {
		return CacheStats{}
	}
	s := r.plans.Stats()
	return CacheStats{Plans: s.Len, Hits: s.Hits, Misses: s.Misses}
}

func (r *Reader) capabilities(s surface.Surface) surface.Capabilities {
	if r.caps != nil {
		return *r.caps
	}
	return s.Capabilities()
}

// lookup returns the verdict and plan for the triple, building them on a
// cache miss.
func (r *Reader) lookup(src, dst format.Info, caps surface.Capabilities) *planEntry {
	if r.plans == nil {
		return buildEntry(src, dst, caps)
	}
	return r.plans.GetOrCreate(makePlanKey(src, dst, caps), func() *planEntry {
		Logger().Debug("readback: new plan", "src", src, "dst", dst)
		return buildEntry(src, dst, caps)
	})
}

func buildEntry(src, dst format.Info, caps surface.Capabilities) *planEntry {
	v, reason := explain(dst, src, caps)
	e := &planEntry{verdict: v, reason: reason}
	if v == Forbidden {
		return e
	}
	plan, err := convert.NewPlan(src, dst)
	if err != nil {
		e.verdict, e.reason = Forbidden, err.Error()
		return e
	}
	e.plan = plan
	if plan.Op == convert.AlphaUnpremul && !plan.Float {
		if p, err := convert.NewPlan(src.WithAlphaType(format.AlphaTypeUnpremul), dst); err == nil {
			e.unpremulled = &p
		}
	}
	return e
}

func makePlanKey(src, dst format.Info, caps surface.Capabilities) planKey {
	k := uint64(src.ColorType) | uint64(src.AlphaType)<<8 | uint64(src.ColorSpace)<<16 |
		uint64(dst.ColorType)<<24 | uint64(dst.AlphaType)<<32 | uint64(dst.ColorSpace)<<40
	if caps.Accelerated {
		k |= 1 << 48
	}
	if caps.UnpremulToPremul {
		k |= 1 << 49
	}
	if caps.ForceOpaque {
		k |= 1 << 50
	}
	return planKey(k)
}

func (r *Reader) reject(err error, src, dst format.Info, rect image.Rectangle) error {
	Logger().Debug("readback: rejected", "reason", err, "src", src, "dst", dst, "rect", rect)
	return err
}

// defaultReader backs the package-level functions.
var defaultReader = NewReader()

// Read copies pixels from s into dst using a shared default Reader.
// See Reader.Read.
func Read(s surface.Surface, dst *Pixmap, x, y int) error {
	return defaultReader.Read(s, dst, x, y)
}

// ReadPixels copies pixels from s into dst using a shared default Reader
// and reports success. On failure dst is unchanged.
func ReadPixels(s surface.Surface, dst *Pixmap, x, y int) bool {
	return defaultReader.ReadPixels(s, dst, x, y)
}
