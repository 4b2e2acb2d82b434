// Package tensor implements the strided multi-dimensional array the
// kernels in package kernel consume: a Storage plus dtype/shape/stride
// metadata and a byte offset. Strides are always in elements; the byte
// offset is the one place raw memory is indexed, and it is the only
// place the element-size/byte conversion happens — mixing the two units
// up anywhere else is a common source of bugs.
package tensor

import (
	"github.com/csotherden/llaisys-core/device"
	"github.com/csotherden/llaisys-core/dtype"
	"github.com/csotherden/llaisys-core/llerr"
	"github.com/csotherden/llaisys-core/storage"
)

// Meta is a tensor's shape/stride/dtype description, independent of
// where its bytes live.
type Meta struct {
	Dtype   dtype.Dtype
	Shape   []int
	Strides []int // element strides, not byte strides
}

// Tensor is Storage plus Meta plus a byte offset into that storage.
// Tensors are immutable w.r.t. shape/dtype/offset after construction;
// every "mutating" operation below returns a new Tensor, sharing or not
// sharing the source's Storage depending on the operation.
type Tensor struct {
	meta       Meta
	storage    *storage.Storage
	byteOffset int
}

// Shape returns a copy of the tensor's extents.
func (t *Tensor) Shape() []int {
	out := make([]int, len(t.meta.Shape))
	copy(out, t.meta.Shape)
	return out
}

// Strides returns a copy of the tensor's element strides.
func (t *Tensor) Strides() []int {
	out := make([]int, len(t.meta.Strides))
	copy(out, t.meta.Strides)
	return out
}

// Dtype returns the tensor's element type.
func (t *Tensor) Dtype() dtype.Dtype { return t.meta.Dtype }

// Ndim returns the tensor's rank.
func (t *Tensor) Ndim() int { return len(t.meta.Shape) }

// Numel returns the tensor's total element count.
func (t *Tensor) Numel() int {
	n := 1
	for _, s := range t.meta.Shape {
		n *= s
	}
	return n
}

// ElementSize returns the byte size of one element of the tensor's dtype.
func (t *Tensor) ElementSize() int { return dtype.ElementSize(t.meta.Dtype) }

// DeviceKind reports which device this tensor's storage lives on.
func (t *Tensor) DeviceKind() device.Kind { return t.storage.DeviceKind() }

// DeviceID reports the device id within DeviceKind.
func (t *Tensor) DeviceID() int { return t.storage.DeviceID() }

// ByteOffset returns the tensor's byte offset into its storage.
func (t *Tensor) ByteOffset() int { return t.byteOffset }

// Storage exposes the tensor's backing storage, for operations (and
// tests) that need to compare or reuse ownership directly.
func (t *Tensor) Storage() *storage.Storage { return t.storage }

// Data returns the tensor's full element range as raw bytes, starting at
// its byte offset. Kernels reinterpret this according to Dtype(); it is
// the caller's job to respect Strides() when walking it for a
// non-contiguous tensor.
func (t *Tensor) Data() ([]byte, error) {
	n := t.Numel() * t.ElementSize()
	return t.storage.Slice(t.byteOffset, n)
}

// contiguousStrides computes the row-major element strides for shape.
func contiguousStrides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

// IsContiguous reports whether t is row-major, stride-packed:
// strides[n-1] == 1 and strides[k] == strides[k+1]*shape[k+1], where
// axes of extent 1 are skipped and their strides may hold any value.
func (t *Tensor) IsContiguous() bool {
	return isContiguous(t.meta.Shape, t.meta.Strides)
}

func isContiguous(shape, strides []int) bool {
	n := len(shape)
	if n == 0 {
		return true
	}
	acc := 1
	for i := n - 1; i >= 0; i-- {
		if shape[i] == 1 {
			// A size-1 axis imposes no constraint on its stride.
			continue
		}
		if strides[i] != acc {
			return false
		}
		acc *= shape[i]
	}
	return true
}

// Create allocates fresh contiguous row-major storage for shape/dtype on
// the requested device and returns a contiguous tensor at offset 0. CPU
// tensors always take their storage from the CPU runtime's AllocateHost;
// the active device binding is neither consulted nor changed for them.
// Accelerator tensors bind the active device via device.SetDevice and
// take their storage from AllocateDevice.
func Create(shape []int, dt dtype.Dtype, kind device.Kind, deviceID int) (*Tensor, error) {
	for _, s := range shape {
		if s < 0 {
			return nil, llerr.New(llerr.PreconditionFailed, "tensor.Create", "negative extent in shape %v", shape)
		}
	}
	numel := 1
	for _, s := range shape {
		numel *= s
	}
	size := numel * dtype.ElementSize(dt)

	var raw device.RawStorage
	var err error
	switch kind {
	case device.CPU:
		rt, rerr := device.For(device.CPU)
		if rerr != nil {
			return nil, rerr
		}
		raw, err = rt.AllocateHost(size)
	case device.Accelerator:
		device.SetDevice(device.Accelerator, deviceID)
		rt, rerr := device.For(device.Accelerator)
		if rerr != nil {
			return nil, rerr
		}
		raw, err = rt.AllocateDevice(size, deviceID)
	default:
		return nil, llerr.New(llerr.UnsupportedDevice, "tensor.Create", "unknown device kind %v", kind)
	}
	if err != nil {
		return nil, llerr.Wrap(llerr.RuntimeFailure, "tensor.Create", "device allocation failed", err)
	}

	shapeCopy := make([]int, len(shape))
	copy(shapeCopy, shape)

	return &Tensor{
		meta: Meta{
			Dtype:   dt,
			Shape:   shapeCopy,
			Strides: contiguousStrides(shapeCopy),
		},
		storage:    storage.New(raw),
		byteOffset: 0,
	}, nil
}
