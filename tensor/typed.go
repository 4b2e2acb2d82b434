package tensor

import (
	"unsafe"

	"github.com/csotherden/llaisys-core/dtype"
	"github.com/csotherden/llaisys-core/llerr"
)

// typedSlice reinterprets a tensor's raw byte range as a []T via an
// unsafe.Slice over the underlying pointer, so kernels get contiguous
// typed access instead of another byte-by-byte walk. It fails unless t's
// dtype is expect, and the slice has Numel() elements; callers must
// already have checked that expect is the dtype matching T and that t is
// contiguous, since contiguity is not checked here.
func typedSlice[T any](t *Tensor, expect dtype.Dtype, op string) ([]T, error) {
	if t.meta.Dtype != expect {
		return nil, llerr.New(llerr.PreconditionFailed, op, "expected dtype %s, got %s", expect, t.meta.Dtype)
	}
	b, err := t.Data()
	if err != nil {
		return nil, err
	}
	n := t.Numel()
	if n == 0 {
		return nil, nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n), nil
}

// Float32Slice returns t's contiguous element range reinterpreted as
// []float32. t must have dtype F32.
func (t *Tensor) Float32Slice() ([]float32, error) {
	return typedSlice[float32](t, dtype.F32, "tensor.Float32Slice")
}

// Float64Slice returns t's contiguous element range reinterpreted as
// []float64. t must have dtype F64.
func (t *Tensor) Float64Slice() ([]float64, error) {
	return typedSlice[float64](t, dtype.F64, "tensor.Float64Slice")
}

// Float16Slice returns t's contiguous element range reinterpreted as
// []dtype.Float16. t must have dtype F16.
func (t *Tensor) Float16Slice() ([]dtype.Float16, error) {
	return typedSlice[dtype.Float16](t, dtype.F16, "tensor.Float16Slice")
}

// BFloat16Slice returns t's contiguous element range reinterpreted as
// []dtype.BFloat16. t must have dtype BF16.
func (t *Tensor) BFloat16Slice() ([]dtype.BFloat16, error) {
	return typedSlice[dtype.BFloat16](t, dtype.BF16, "tensor.BFloat16Slice")
}

// Int64Slice returns t's contiguous element range reinterpreted as
// []int64. t must have dtype Int64.
func (t *Tensor) Int64Slice() ([]int64, error) {
	return typedSlice[int64](t, dtype.Int64, "tensor.Int64Slice")
}

// Int32Slice returns t's contiguous element range reinterpreted as
// []int32. t must have dtype Int32.
func (t *Tensor) Int32Slice() ([]int32, error) {
	return typedSlice[int32](t, dtype.Int32, "tensor.Int32Slice")
}
