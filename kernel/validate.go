package kernel

import (
	"reflect"

	"github.com/csotherden/llaisys-core/device"
	"github.com/csotherden/llaisys-core/dtype"
	"github.com/csotherden/llaisys-core/llerr"
	"github.com/csotherden/llaisys-core/tensor"
)

// requireCPU fails with UnsupportedDevice if t is not host-resident.
// Kernels in this build only ever execute on CPU; accelerator dispatch
// is a fatal error rather than something a kernel silently falls back
// from.
func requireCPU(op string, t *tensor.Tensor) error {
	if t.DeviceKind() != device.CPU {
		return llerr.New(llerr.UnsupportedDevice, op, "tensor is resident on %s, kernels only execute on CPU", t.DeviceKind())
	}
	return nil
}

// requireContiguous fails with PreconditionFailed unless t is contiguous.
func requireContiguous(op, name string, t *tensor.Tensor) error {
	if !t.IsContiguous() {
		return llerr.New(llerr.PreconditionFailed, op, "%s must be contiguous", name)
	}
	return nil
}

// requireShape fails unless t.Shape() equals want.
func requireShape(op, name string, t *tensor.Tensor, want []int) error {
	if !reflect.DeepEqual(t.Shape(), want) {
		return llerr.New(llerr.PreconditionFailed, op, "%s has shape %v, want %v", name, t.Shape(), want)
	}
	return nil
}

// requireRank fails unless t has rank n.
func requireRank(op, name string, t *tensor.Tensor, n int) error {
	if t.Ndim() != n {
		return llerr.New(llerr.PreconditionFailed, op, "%s has rank %d, want %d", name, t.Ndim(), n)
	}
	return nil
}

// requireFloatDtype fails unless t's dtype is one of the floating set
// every kernel except argmax dispatches over.
func requireFloatDtype(op, name string, t *tensor.Tensor) error {
	switch t.Dtype() {
	case dtype.F32, dtype.F16, dtype.BF16:
		return nil
	default:
		return llerr.New(llerr.UnsupportedDtype, op, "%s has unsupported dtype %s (want f32, f16, or bf16)", name, t.Dtype())
	}
}

// requireSameDtype fails unless a and b share a dtype.
func requireSameDtype(op, nameA, nameB string, a, b *tensor.Tensor) error {
	if a.Dtype() != b.Dtype() {
		return llerr.New(llerr.PreconditionFailed, op, "%s dtype %s does not match %s dtype %s", nameA, a.Dtype(), nameB, b.Dtype())
	}
	return nil
}

// requireSameDevice fails unless a and b share a device kind and id.
func requireSameDevice(op, nameA, nameB string, a, b *tensor.Tensor) error {
	if a.DeviceKind() != b.DeviceKind() || a.DeviceID() != b.DeviceID() {
		return llerr.New(llerr.PreconditionFailed, op, "%s device %s:%d does not match %s device %s:%d",
			nameA, a.DeviceKind(), a.DeviceID(), nameB, b.DeviceKind(), b.DeviceID())
	}
	return nil
}

// requireEvenHeadDim fails unless d is even, the split-halves RoPE
// precondition.
func requireEvenHeadDim(op string, d int) error {
	return llerr.New(llerr.PreconditionFailed, op, "head dim %d must be even for split-halves rope", d)
}

// requireIndexDtype fails unless t's dtype is i64, the fixed dtype for
// index tensors across every kernel that takes one.
func requireIndexDtype(op, name string, t *tensor.Tensor) error {
	if t.Dtype() != dtype.Int64 {
		return llerr.New(llerr.UnsupportedDtype, op, "%s must be i64, got %s", name, t.Dtype())
	}
	return nil
}
