package readback

import "github.com/gogpu/readback/surface"

// Option configures a Reader during creation.
//
// Example:
//
//	// Read a GPU surface as if it were raster-backed (tests, software hosts).
//	r := readback.NewReader(readback.WithCapabilities(surface.RasterCapabilities()))
type Option func(*options)

// options holds optional configuration for Reader creation.
type options struct {
	caps          *surface.Capabilities
	planCacheSize int
	workers       int
}

// defaultPlanCacheSize covers every (source, destination) color type pair.
const defaultPlanCacheSize = 256

// defaultOptions returns the default reader options.
func defaultOptions() options {
	return options{
		caps:          nil, // use each surface's own capabilities
		planCacheSize: defaultPlanCacheSize,
		workers:       1,
	}
}

// WithCapabilities overrides the capabilities reported by surfaces.
func WithCapabilities(caps surface.Capabilities) Option {
	return func(o *options) {
		o.caps = &caps
	}
}

// WithPlanCacheSize sets how many conversion plans the reader keeps.
// Values below 1 disable the cache.
func WithPlanCacheSize(n int) Option {
	return func(o *options) {
		o.planCacheSize = n
	}
}

// WithoutPlanCache disables plan caching; every read builds its plan.
func WithoutPlanCache() Option {
	return WithPlanCacheSize(0)
}

// WithWorkers converts large reads on n goroutines, each taking a band of
// rows. Values up to 1 convert on the calling goroutine, which is the
// default. A reader with workers must be closed with Reader.Close.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}
