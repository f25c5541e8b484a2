// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the readable pixel stores that readback reads
// from.
//
// A Surface exposes its bounds, its pixel encoding, a generation ID that
// identifies the current contents, and a Sampler for raw pixel access.
// Reading never changes the contents or the generation ID.
//
// # Surface Types
//
//   - RasterSurface: CPU memory, writable through WritePixels and Erase
//   - GPUSurface: a host texture downloaded through a TexelDownloader
//
// The two backends differ in Capabilities. Raster surfaces can read
// unpremultiplied contents into premultiplied buffers and force alpha when
// reading into opaque buffers. GPU surfaces can do neither and instead
// require the contents to already be opaque.
//
// # GPU Integration
//
// GPUSurface receives its device from the host through
// gpucontext.DeviceProvider and never creates one. The host also supplies
// a TexelDownloader that copies the texture into CPU memory:
//
//	s, err := surface.NewGPUSurface(provider, surface.GPUSurfaceConfig{
//	    Width:      w,
//	    Height:     h,
//	    Format:     gputypes.TextureFormatRGBA8Unorm,
//	    Origin:     surface.OriginBottomLeft,
//	    Downloader: host,
//	})
//
// After rendering into the texture the host calls NotifyContentChanged so
// the next read downloads fresh texels.
//
// Hosts that also expose their HAL device and set Dispatcher let
// premultiplied RGBA8 and BGRA8 textures be unpremultiplied by a compute
// kernel. UnpremulSampler returns that result; it is computed once per
// generation.
//
// # Registry
//
// Backends are registered by name and created with New:
//
//	surface.Register("gpu", gpuBackend)
//
//	// Later:
//	s, err := surface.New("gpu", surface.Options{Width: 800, Height: 600})
//
// The raster backend is registered as "raster".
package surface
