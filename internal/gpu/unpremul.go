package gpu

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/unpremul.wgsl
var unpremulShaderWGSL string

// UnpremulWorkgroupSize is the workgroup width declared by the kernel.
const UnpremulWorkgroupSize = 64

// UnpremulEntryPoint is the compute entry point of the kernel.
const UnpremulEntryPoint = "main"

// Errors.
var (
	// ErrNoHALDevice is returned when a device provider does not expose a
	// usable HAL device.
	ErrNoHALDevice = errors.New("gpu: provider does not expose a HAL device")

	// ErrKernelDestroyed is returned when a destroyed kernel is run.
	ErrKernelDestroyed = errors.New("gpu: kernel destroyed")
)

// Dispatch is one compute dispatch over a read-write storage buffer.
type Dispatch struct {
	Module     hal.ShaderModule
	EntryPoint string

	// Uniforms is bound at group 0, binding 0.
	Uniforms []byte

	// Storage is bound at group 0, binding 1, and receives the buffer
	// contents after the dispatch completes.
	Storage []byte

	Workgroups [3]uint32
}

// Dispatcher submits compute work on the host's queue.
//
// The host owns command encoding, buffer allocation and synchronization.
// DispatchCompute uploads Uniforms and Storage, runs the entry point with
// the given workgroup counts, and blocks until Storage holds the result.
type Dispatcher interface {
	DispatchCompute(d *Dispatch) error
}

var compileUnpremul = sync.OnceValues(func() ([]uint32, error) {
	return CompileShaderToSPIRV(unpremulShaderWGSL)
})

// UnpremulShaderSource returns the WGSL source of the unpremultiply kernel.
func UnpremulShaderSource() string { return unpremulShaderWGSL }

// CompileUnpremulKernel compiles the unpremultiply kernel to SPIR-V words.
// The result is computed once and shared; callers must not modify it.
func CompileUnpremulKernel() ([]uint32, error) {
	return compileUnpremul()
}

// CompileShaderToSPIRV compiles WGSL source to little-endian SPIR-V words.
func CompileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("gpu: compile shader: SPIR-V length %d is not word aligned", len(spirvBytes))
	}

	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirv, nil
}

// UnpremulKernel owns the unpremultiply shader module on a host-shared
// device. The device itself belongs to the host and is never destroyed here.
type UnpremulKernel struct {
	mu     sync.Mutex
	device hal.Device
	module hal.ShaderModule
}

// NewUnpremulKernel compiles the kernel and creates its shader module on the
// HAL device exposed by provider. The provider must implement
// HalDevice() any returning a hal.Device.
func NewUnpremulKernel(provider any) (*UnpremulKernel, error) {
	type halProvider interface {
		HalDevice() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, ErrNoHALDevice
	}

	spirv, err := CompileUnpremulKernel()
	if err != nil {
		return nil, err
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "readback_unpremul",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create unpremul shader module: %w", err)
	}

	slogger().Debug("gpu: unpremul kernel ready", "words", len(spirv))
	return &UnpremulKernel{device: device, module: module}, nil
}

// Module returns the shader module, or nil after Destroy.
func (k *UnpremulKernel) Module() hal.ShaderModule {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.module
}

// Unpremultiply divides the color channels of packed 4-byte texels by their
// alpha, in place, on the GPU. Alpha must be the last byte of each texel;
// the other three channels are treated alike, so RGBA and BGRA both work.
func (k *UnpremulKernel) Unpremultiply(d Dispatcher, texels []byte) error {
	if len(texels)%4 != 0 {
		return fmt.Errorf("gpu: unpremultiply: %d bytes is not whole texels", len(texels))
	}
	n := len(texels) / 4
	if n == 0 {
		return nil
	}
	if uint64(n) > math.MaxUint32 {
		return fmt.Errorf("gpu: unpremultiply: %d texels exceed one dispatch", n)
	}
	module := k.Module()
	if module == nil {
		return ErrKernelDestroyed
	}

	groups := WorkgroupGrid(n)
	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:], uint32(n))
	binary.LittleEndian.PutUint32(params[4:], groups[0]*UnpremulWorkgroupSize)
	err := d.DispatchCompute(&Dispatch{
		Module:     module,
		EntryPoint: UnpremulEntryPoint,
		Uniforms:   params,
		Storage:    texels,
		Workgroups: groups,
	})
	if err != nil {
		return fmt.Errorf("gpu: unpremultiply dispatch: %w", err)
	}
	return nil
}

// WorkgroupCount returns the number of workgroups needed for n texels.
func WorkgroupCount(n int) uint32 {
	if n <= 0 {
		return 0
	}
	return uint32((n + UnpremulWorkgroupSize - 1) / UnpremulWorkgroupSize)
}

// MaxWorkgroupsPerDimension is the WebGPU default limit on workgroups in
// one dispatch dimension.
const MaxWorkgroupsPerDimension = 65535

// WorkgroupGrid lays WorkgroupCount(n) workgroups out in x and y so that
// neither dimension exceeds MaxWorkgroupsPerDimension.
func WorkgroupGrid(n int) [3]uint32 {
	total := WorkgroupCount(n)
	if total == 0 {
		return [3]uint32{0, 1, 1}
	}
	if total <= MaxWorkgroupsPerDimension {
		return [3]uint32{total, 1, 1}
	}
	rows := (total + MaxWorkgroupsPerDimension - 1) / MaxWorkgroupsPerDimension
	return [3]uint32{MaxWorkgroupsPerDimension, rows, 1}
}

// Destroy releases the shader module. It is safe to call more than once.
func (k *UnpremulKernel) Destroy() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.module != nil {
		k.device.DestroyShaderModule(k.module)
		k.module = nil
	}
	k.device = nil
}
