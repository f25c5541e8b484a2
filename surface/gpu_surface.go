// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/readback/format"
	"github.com/gogpu/readback/internal/convert"
	"github.com/gogpu/readback/internal/gpu"
)

// Origin is the row order of texture memory.
type Origin uint8

const (
	// OriginTopLeft stores the top row first.
	OriginTopLeft Origin = iota

	// OriginBottomLeft stores the bottom row first, as in GL framebuffers.
	OriginBottomLeft
)

// String returns the origin name.
func (o Origin) String() string {
	if o == OriginBottomLeft {
		return "bottom-left"
	}
	return "top-left"
}

// TexelDownloader copies texture contents to CPU memory.
//
// The host application implements TexelDownloader on top of its own command
// submission (copy texture to buffer, map, wait). This keeps the surface
// package free of queue and command-buffer management.
type TexelDownloader interface {
	// DownloadTexels writes the whole texture into dst, one row every
	// bytesPerRow bytes, in texture memory order. It blocks until the data
	// is available.
	DownloadTexels(dst []byte, bytesPerRow int) error
}

// ComputeDispatcher runs compute kernels on the host's queue. See
// gpu.Dispatcher for the contract.
type ComputeDispatcher = gpu.Dispatcher

// ComputeDispatch is one kernel launch handed to a ComputeDispatcher.
type ComputeDispatch = gpu.Dispatch

// GPUSurfaceConfig describes the texture behind a GPUSurface.
type GPUSurfaceConfig struct {
	Width  int
	Height int

	// Format is the texture format. TextureFormatUndefined uses the
	// provider's SurfaceFormat.
	Format gputypes.TextureFormat

	// AlphaType of the texture contents. AlphaTypeUnknown means Premul.
	AlphaType  format.AlphaType
	ColorSpace format.ColorSpace
	Origin     Origin

	Downloader TexelDownloader

	// Dispatcher runs the unpremultiply kernel on staged texels. It is
	// optional; without it, or without a HAL device, the CPU converts.
	Dispatcher ComputeDispatcher
}

// GPUSurface is a surface whose contents live in a GPU texture.
//
// The GPU device comes from the host via gpucontext.DeviceProvider; the
// surface never creates one. Texels are downloaded into a staging buffer
// the first time a generation is sampled and reused until the host reports
// new contents with NotifyContentChanged.
type GPUSurface struct {
	width    int
	height   int
	info     format.Info
	texture  gputypes.TextureFormat
	origin   Origin
	provider gpucontext.DeviceProvider
	loader   TexelDownloader
	kernel   *gpu.UnpremulKernel
	dispatch ComputeDispatcher

	gen       uint64
	staging   []byte
	stagedGen uint64

	unpremul    []byte
	unpremulGen uint64

	closed bool
}

// NewGPUSurface wraps a host texture for readback.
func NewGPUSurface(provider gpucontext.DeviceProvider, cfg GPUSurfaceConfig) (*GPUSurface, error) {
	if provider == nil || provider.Device() == nil {
		return nil, fmt.Errorf("%w: device provider has no device", ErrNoBackend)
	}
	if cfg.Downloader == nil {
		return nil, fmt.Errorf("%w: nil texel downloader", ErrNoBackend)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, cfg.Width, cfg.Height)
	}

	tf := cfg.Format
	if tf == gputypes.TextureFormatUndefined {
		tf = provider.SurfaceFormat()
	}
	ct := ColorTypeFor(tf)
	if ct == format.ColorTypeUnknown {
		return nil, fmt.Errorf("%w: texture format %v", ErrUnsupportedFormat, tf)
	}
	at := cfg.AlphaType
	if at == format.AlphaTypeUnknown {
		at = format.AlphaTypePremul
	}
	info, err := format.MakeInfo(ct, at, cfg.ColorSpace)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	s := &GPUSurface{
		width:    cfg.Width,
		height:   cfg.Height,
		info:     info,
		texture:  tf,
		origin:   cfg.Origin,
		provider: provider,
		loader:   cfg.Downloader,
		dispatch: cfg.Dispatcher,
		gen:      nextGenerationID(),
	}

	// The unpremultiply kernel is optional; hosts without HAL access still
	// read through the CPU converter.
	if k, err := gpu.NewUnpremulKernel(provider); err == nil {
		s.kernel = k
	} else {
		slogger().Debug("surface: unpremul kernel unavailable", "err", err)
	}
	return s, nil
}

// Bounds returns the texture rectangle.
func (s *GPUSurface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// Info returns the encoding of the texture contents.
func (s *GPUSurface) Info() format.Info {
	return s.info
}

// Capabilities returns AcceleratedCapabilities.
func (s *GPUSurface) Capabilities() Capabilities {
	return AcceleratedCapabilities()
}

// GenerationID returns the content identity of the texture.
func (s *GPUSurface) GenerationID() uint64 {
	return s.gen
}

// TextureFormat returns the texture format.
func (s *GPUSurface) TextureFormat() gputypes.TextureFormat {
	return s.texture
}

// Origin returns the texture row order.
func (s *GPUSurface) Origin() Origin {
	return s.origin
}

// Provider returns the device provider, or nil if the surface is closed.
func (s *GPUSurface) Provider() gpucontext.DeviceProvider {
	if s.closed {
		return nil
	}
	return s.provider
}

// UnpremulKernel returns the unpremultiply shader module prepared on the
// host's HAL device, or nil when the provider exposes none.
func (s *GPUSurface) UnpremulKernel() *gpu.UnpremulKernel {
	return s.kernel
}

// NotifyContentChanged tells the surface that the host rendered into the
// texture. The next Sampler call downloads fresh texels.
func (s *GPUSurface) NotifyContentChanged() {
	s.gen = nextGenerationID()
}

// Sampler downloads the texture if the staged copy is stale and returns
// read-only access to it.
func (s *GPUSurface) Sampler() (Sampler, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.ensureStaged(); err != nil {
		return nil, err
	}
	return s.buffer(s.staging), nil
}

// UnpremulSampler returns the texture contents with color divided by alpha,
// computed by the GPU kernel and cached per generation. It returns
// ErrNoKernel unless the texture is premultiplied 8-bit RGBA or BGRA and
// both the kernel and a dispatcher are available.
func (s *GPUSurface) UnpremulSampler() (Sampler, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.kernel == nil || s.dispatch == nil || s.info.AlphaType != format.AlphaTypePremul ||
		(s.info.ColorType != format.ColorTypeRGBA8888 && s.info.ColorType != format.ColorTypeBGRA8888) {
		return nil, ErrNoKernel
	}
	if s.unpremul != nil && s.unpremulGen == s.gen {
		return s.buffer(s.unpremul), nil
	}
	if err := s.ensureStaged(); err != nil {
		return nil, err
	}

	buf := s.unpremul
	if len(buf) != len(s.staging) {
		buf = make([]byte, len(s.staging))
	}
	copy(buf, s.staging)
	if err := s.kernel.Unpremultiply(s.dispatch, buf); err != nil {
		s.unpremul = nil
		slogger().Debug("surface: unpremul kernel failed", "err", err)
		return nil, fmt.Errorf("surface: %w", err)
	}
	s.unpremul = buf
	s.unpremulGen = s.gen
	slogger().Debug("surface: unpremultiplied on GPU", "bytes", len(buf), "generation", s.gen)
	return s.buffer(buf), nil
}

func (s *GPUSurface) buffer(pix []byte) *convert.Buffer {
	bpp := s.info.BytesPerPixel()
	return &convert.Buffer{Pix: pix, Stride: s.width * bpp, BytesPerPixel: bpp}
}

func (s *GPUSurface) ensureStaged() error {
	if s.staging != nil && s.stagedGen == s.gen {
		return nil
	}
	return s.stage(s.width * s.info.BytesPerPixel())
}

func (s *GPUSurface) stage(stride int) error {
	buf := s.staging
	if len(buf) != stride*s.height {
		buf = make([]byte, stride*s.height)
	}
	if err := s.loader.DownloadTexels(buf, stride); err != nil {
		s.staging = nil
		return fmt.Errorf("surface: texel download: %w", err)
	}
	if s.origin == OriginBottomLeft {
		flipRows(buf, stride, s.height)
	}
	s.staging = buf
	s.stagedGen = s.gen
	slogger().Debug("surface: staged texels",
		"format", s.texture, "bytes", len(buf), "generation", s.gen)
	return nil
}

// flipRows reverses the row order of buf in place.
func flipRows(buf []byte, stride, height int) {
	tmp := make([]byte, stride)
	for top, bot := 0, height-1; top < bot; top, bot = top+1, bot-1 {
		a := buf[top*stride : (top+1)*stride]
		b := buf[bot*stride : (bot+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// Close releases the staging buffer and the kernel. The texture and device
// belong to the host. Close is idempotent.
func (s *GPUSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.staging = nil
	s.unpremul = nil
	if s.kernel != nil {
		s.kernel.Destroy()
		s.kernel = nil
	}
	return nil
}

// TextureFormatFor returns the texture format that stores ct, or
// TextureFormatUndefined if no GPU format matches.
func TextureFormatFor(ct format.ColorType) gputypes.TextureFormat {
	switch ct {
	case format.ColorTypeRGBA8888, format.ColorTypeRGB888x:
		return gputypes.TextureFormatRGBA8Unorm
	case format.ColorTypeBGRA8888:
		return gputypes.TextureFormatBGRA8Unorm
	case format.ColorTypeAlpha8, format.ColorTypeGray8:
		return gputypes.TextureFormatR8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}

// ColorTypeFor returns the color type of texels in tf, or ColorTypeUnknown
// if readback does not support it. R8Unorm maps to Alpha8.
func ColorTypeFor(tf gputypes.TextureFormat) format.ColorType {
	switch tf {
	case gputypes.TextureFormatRGBA8Unorm:
		return format.ColorTypeRGBA8888
	case gputypes.TextureFormatBGRA8Unorm:
		return format.ColorTypeBGRA8888
	case gputypes.TextureFormatR8Unorm:
		return format.ColorTypeAlpha8
	default:
		return format.ColorTypeUnknown
	}
}

// NullDeviceProvider is a device provider without a device, for CPU-only
// hosts. NewGPUSurface rejects it with ErrNoBackend.
type NullDeviceProvider struct{}

// Device returns nil.
func (NullDeviceProvider) Device() gpucontext.Device { return nil }

// Queue returns nil.
func (NullDeviceProvider) Queue() gpucontext.Queue { return nil }

// Adapter returns nil.
func (NullDeviceProvider) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns TextureFormatUndefined.
func (NullDeviceProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// AdapterInfo reports an unknown adapter.
func (NullDeviceProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

var (
	_ Surface                   = (*GPUSurface)(nil)
	_ UnpremulSurface           = (*GPUSurface)(nil)
	_ gpucontext.DeviceProvider = NullDeviceProvider{}
)
