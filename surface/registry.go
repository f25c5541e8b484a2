// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Backend creates surfaces of one storage kind. The Options it receives
// always carry a pixel encoding.
type Backend func(opts Options) (Surface, error)

var (
	backendsMu sync.RWMutex
	backends   = map[string]Backend{}
)

// Register makes a backend available to New under name, replacing any
// backend registered under the same name.
//
// Host applications typically register a GPU backend that wraps their own
// textures with NewGPUSurface:
//
//	surface.Register("gpu", func(opts surface.Options) (surface.Surface, error) {
//	    return surface.NewGPUSurface(provider, surface.GPUSurfaceConfig{...})
//	})
func Register(name string, b Backend) {
	if b == nil {
		panic("surface: Register backend is nil")
	}
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = b
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	return slices.Sorted(maps.Keys(backends))
}

// New creates a surface with the named backend. An unset Options.Info
// defaults to premultiplied sRGB RGBA8888.
func New(name string, opts Options) (Surface, error) {
	backendsMu.RLock()
	b, ok := backends[name]
	backendsMu.RUnlock()
	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}

	s, err := b(opts.withDefaults())
	if err != nil {
		return nil, fmt.Errorf("surface: backend %s: %w", name, err)
	}
	slogger().Debug("surface: created", "backend", name, "width", opts.Width, "height", opts.Height)
	return s, nil
}

// BackendNotFoundError is returned by New for an unregistered name.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

func init() {
	Register("raster", func(opts Options) (Surface, error) {
		s, err := NewRasterSurface(opts.Width, opts.Height, opts.Info)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
