// Package gpu holds the GPU side of readback: WGSL kernels and their
// compilation to SPIR-V, and shader modules created on a device shared by
// the host application.
//
// The package never creates a GPU device. Hosts pass a
// gpucontext.DeviceProvider; when the provider also exposes its HAL device
// (HalDevice() any returning a hal.Device) the unpremultiply kernel is
// created on it. Running the kernel needs a Dispatcher, which the host
// implements on its own queue. Without both, readback converts on the CPU.
//
// # Kernels
//
//   - unpremul.wgsl: one invocation per RGBA8 texel, rounding up
//     (ceil(c*255/a)), transparent texels become zero. Workgroup size is
//     UnpremulWorkgroupSize. Large textures spread workgroups over a 2D
//     grid (WorkgroupGrid); params.row_texels maps it back to a texel index.
//
// # Requirements
//
//   - github.com/gogpu/naga for WGSL to SPIR-V
//   - github.com/gogpu/wgpu/hal for shader modules
//
// # References
//
//   - W3C WebGPU Specification: https://www.w3.org/TR/webgpu/
//   - gogpu/wgpu: https://github.com/gogpu/wgpu
package gpu
