package kernel

import (
	"github.com/csotherden/llaisys-core/dtype"
	"github.com/csotherden/llaisys-core/llerr"
	"github.com/csotherden/llaisys-core/tensor"
)

// Argmax scans vals in storage order (a contiguous tensor's storage
// order is its row-major element order) and writes the smallest index
// achieving the maximum. Comparison is a raw `>`, so a NaN after the
// first element is never selected and never displaces an earlier
// maximum; a NaN in the first element is kept, since nothing compares
// greater than it.
func (CPUEngine) Argmax(maxIdx, maxVal, vals *tensor.Tensor) error {
	const op = "kernel.Argmax"

	for _, t := range []*tensor.Tensor{maxIdx, maxVal, vals} {
		if err := requireCPU(op, t); err != nil {
			return err
		}
		if err := requireContiguous(op, "tensor", t); err != nil {
			return err
		}
	}
	if err := requireIndexDtype(op, "maxIdx", maxIdx); err != nil {
		return err
	}
	if err := requireShape(op, "maxIdx", maxIdx, []int{1}); err != nil {
		return err
	}
	if err := requireShape(op, "maxVal", maxVal, []int{1}); err != nil {
		return err
	}
	if err := requireSameDtype(op, "maxVal", "vals", maxVal, vals); err != nil {
		return err
	}
	if err := requireSameDevice(op, "maxIdx", "vals", maxIdx, vals); err != nil {
		return err
	}
	if err := requireSameDevice(op, "maxVal", "vals", maxVal, vals); err != nil {
		return err
	}
	if vals.Numel() == 0 {
		return llerr.New(llerr.PreconditionFailed, op, "vals has no elements")
	}

	bestIdx, err := argmaxIndex(op, vals)
	if err != nil {
		return err
	}

	idxSlice, err := maxIdx.Int64Slice()
	if err != nil {
		return err
	}
	idxSlice[0] = int64(bestIdx)

	elemSize := vals.ElementSize()
	valsData, err := vals.Data()
	if err != nil {
		return err
	}
	maxValData, err := maxVal.Data()
	if err != nil {
		return err
	}
	copy(maxValData[:elemSize], valsData[bestIdx*elemSize:(bestIdx+1)*elemSize])
	return nil
}

// argmaxIndex finds the smallest index achieving the maximum over vals'
// numel() elements, comparing in each dtype's own domain (f16/bf16 widen
// to f32 for ordering only, since neither has a meaningful raw-bits
// total order across sign).
func argmaxIndex(op string, vals *tensor.Tensor) (int, error) {
	switch vals.Dtype() {
	case dtype.F32:
		data, err := vals.Float32Slice()
		if err != nil {
			return 0, err
		}
		best := 0
		for i := 1; i < len(data); i++ {
			if data[i] > data[best] {
				best = i
			}
		}
		return best, nil
	case dtype.F16:
		data, err := vals.Float16Slice()
		if err != nil {
			return 0, err
		}
		best := 0
		bestV := data[0].Float32()
		for i := 1; i < len(data); i++ {
			v := data[i].Float32()
			if v > bestV {
				best, bestV = i, v
			}
		}
		return best, nil
	case dtype.BF16:
		data, err := vals.BFloat16Slice()
		if err != nil {
			return 0, err
		}
		best := 0
		bestV := data[0].Float32()
		for i := 1; i < len(data); i++ {
			v := data[i].Float32()
			if v > bestV {
				best, bestV = i, v
			}
		}
		return best, nil
	case dtype.Int32:
		data, err := vals.Int32Slice()
		if err != nil {
			return 0, err
		}
		best := 0
		for i := 1; i < len(data); i++ {
			if data[i] > data[best] {
				best = i
			}
		}
		return best, nil
	case dtype.Int64:
		data, err := vals.Int64Slice()
		if err != nil {
			return 0, err
		}
		best := 0
		for i := 1; i < len(data); i++ {
			if data[i] > data[best] {
				best = i
			}
		}
		return best, nil
	default:
		return 0, llerr.New(llerr.UnsupportedDtype, op, "unsupported dtype %s (want f32, f16, bf16, i32, or i64)", vals.Dtype())
	}
}
