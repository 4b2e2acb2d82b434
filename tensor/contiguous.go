package tensor

import (
	"github.com/csotherden/llaisys-core/device"
	"github.com/csotherden/llaisys-core/llerr"
	"github.com/csotherden/llaisys-core/storage"
)

// rowMajorCoords walks every multi-index of shape in row-major order,
// calling visit(coord, linearIndex) for each. coord is reused between
// calls (callers must not retain it). The "iterator" is inlined as a
// plain odometer since this package owns its own stride arithmetic
// rather than delegating to an external tensor library.
func rowMajorCoords(shape []int, visit func(coord []int, linear int)) {
	n := len(shape)
	if n == 0 {
		visit(nil, 0)
		return
	}
	coord := make([]int, n)
	numel := 1
	for _, s := range shape {
		numel *= s
	}
	for linear := 0; linear < numel; linear++ {
		visit(coord, linear)
		// Odometer increment, last axis fastest (row-major).
		for axis := n - 1; axis >= 0; axis-- {
			coord[axis]++
			if coord[axis] < shape[axis] {
				break
			}
			coord[axis] = 0
		}
	}
}

// Contiguous returns a tensor with the same logical contents as t but
// guaranteed row-major stride-packed storage. If t is already contiguous
// this is an identity view sharing storage. Otherwise it allocates fresh
// contiguous storage and gather-copies element by element, delinearizing
// a row-major destination index and remapping it through t's strides to
// find the source byte offset — only defined for CPU tensors; non-CPU
// tensors must be transferred to CPU first.
func (t *Tensor) Contiguous() (*Tensor, error) {
	if t.IsContiguous() {
		return t.view(t.Shape(), t.Strides(), t.byteOffset), nil
	}
	if t.DeviceKind() != device.CPU {
		return nil, llerr.New(llerr.PreconditionFailed, "tensor.Contiguous", "non-CPU tensor must be transferred to CPU before Contiguous (device=%v)", t.DeviceKind())
	}

	elemSize := t.ElementSize()
	shape := t.Shape()
	strides := t.meta.Strides

	srcBytes := t.storage.Bytes()
	if srcBytes == nil {
		return nil, llerr.New(llerr.LogicError, "tensor.Contiguous", "source storage has no bytes")
	}

	rt, rerr := deviceRuntimeFor(device.CPU)
	if rerr != nil {
		return nil, rerr
	}
	numel := t.Numel()
	raw, aerr := rt.AllocateHost(numel * elemSize)
	if aerr != nil {
		return nil, llerr.Wrap(llerr.RuntimeFailure, "tensor.Contiguous", "allocating destination storage", aerr)
	}
	dst := storage.New(raw)
	dstBytes := dst.Bytes()

	destStrides := contiguousStrides(shape)
	rowMajorCoords(shape, func(coord []int, linear int) {
		srcOff := t.byteOffset
		for axis, c := range coord {
			srcOff += c * strides[axis] * elemSize
		}
		dstOff := linear * elemSize
		copy(dstBytes[dstOff:dstOff+elemSize], srcBytes[srcOff:srcOff+elemSize])
	})

	return &Tensor{
		meta: Meta{
			Dtype:   t.meta.Dtype,
			Shape:   shape,
			Strides: destStrides,
		},
		storage:    dst,
		byteOffset: 0,
	}, nil
}

// deviceRuntimeFor is a tiny indirection so Contiguous/To read the same
// way the rest of this package resolves a runtime.
func deviceRuntimeFor(kind device.Kind) (device.Runtime, error) {
	return device.For(kind)
}
