package kernel

import (
	"github.com/csotherden/llaisys-core/dtype"
	"github.com/csotherden/llaisys-core/llerr"
	"github.com/csotherden/llaisys-core/tensor"
)

// readF32 returns t's contiguous elements widened to float32, regardless
// of whether t's dtype is f32, f16, or bf16 — the promotion every kernel
// body performs before doing arithmetic. For an f32 tensor this is the
// tensor's own backing slice (no copy); for f16/bf16 it allocates a
// fresh []float32 and widens element by element.
func readF32(op string, t *tensor.Tensor) ([]float32, error) {
	switch t.Dtype() {
	case dtype.F32:
		return t.Float32Slice()
	case dtype.F16:
		raw, err := t.Float16Slice()
		if err != nil {
			return nil, err
		}
		out := make([]float32, len(raw))
		for i, v := range raw {
			out[i] = v.Float32()
		}
		return out, nil
	case dtype.BF16:
		raw, err := t.BFloat16Slice()
		if err != nil {
			return nil, err
		}
		out := make([]float32, len(raw))
		for i, v := range raw {
			out[i] = v.Float32()
		}
		return out, nil
	default:
		return nil, llerr.New(llerr.UnsupportedDtype, op, "unsupported dtype %s", t.Dtype())
	}
}

// writeF32 narrows vals into t's backing storage according to t's dtype,
// casting back on write. For f32 destinations this copies directly; for
// f16/bf16 it narrows element by element using the round-to-nearest-even
// / saturating conversions in package dtype.
func writeF32(op string, t *tensor.Tensor, vals []float32) error {
	switch t.Dtype() {
	case dtype.F32:
		dst, err := t.Float32Slice()
		if err != nil {
			return err
		}
		copy(dst, vals)
		return nil
	case dtype.F16:
		dst, err := t.Float16Slice()
		if err != nil {
			return err
		}
		for i, v := range vals {
			dst[i] = dtype.Float16FromFloat32(v)
		}
		return nil
	case dtype.BF16:
		dst, err := t.BFloat16Slice()
		if err != nil {
			return err
		}
		for i, v := range vals {
			dst[i] = dtype.BFloat16FromFloat32(v)
		}
		return nil
	default:
		return llerr.New(llerr.UnsupportedDtype, op, "unsupported dtype %s", t.Dtype())
	}
}
