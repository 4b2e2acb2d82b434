package kernel

import "github.com/csotherden/llaisys-core/tensor"

// Embedding looks up rows of weight by index: for each row b, out[b,:]
// is weight[index[b],:] if index[b] is in range, else a zero row. This
// is the one kernel where an out-of-range index is not an error:
// callers that need a bounds check must do it themselves.
func (CPUEngine) Embedding(out, index, weight *tensor.Tensor) error {
	const op = "kernel.Embedding"

	for _, t := range []*tensor.Tensor{out, index, weight} {
		if err := requireCPU(op, t); err != nil {
			return err
		}
	}
	if err := requireContiguous(op, "out", out); err != nil {
		return err
	}
	if err := requireContiguous(op, "index", index); err != nil {
		return err
	}
	if err := requireContiguous(op, "weight", weight); err != nil {
		return err
	}
	if err := requireRank(op, "out", out, 2); err != nil {
		return err
	}
	if err := requireRank(op, "index", index, 1); err != nil {
		return err
	}
	if err := requireRank(op, "weight", weight, 2); err != nil {
		return err
	}
	if err := requireIndexDtype(op, "index", index); err != nil {
		return err
	}
	if err := requireSameDtype(op, "out", "weight", out, weight); err != nil {
		return err
	}
	if err := requireFloatDtype(op, "out", out); err != nil {
		return err
	}
	if err := requireSameDevice(op, "out", "weight", out, weight); err != nil {
		return err
	}
	if err := requireSameDevice(op, "out", "index", out, index); err != nil {
		return err
	}

	n := out.Shape()[0]
	e := out.Shape()[1]
	v := weight.Shape()[0]
	if index.Shape()[0] != n {
		return requireShape(op, "index", index, []int{n})
	}
	if weight.Shape()[1] != e {
		return requireShape(op, "weight", weight, []int{v, e})
	}

	idx, err := index.Int64Slice()
	if err != nil {
		return err
	}
	outData, err := out.Data()
	if err != nil {
		return err
	}
	weightData, err := weight.Data()
	if err != nil {
		return err
	}

	elemSize := out.ElementSize()
	rowBytes := e * elemSize

	for b := 0; b < n; b++ {
		dst := outData[b*rowBytes : (b+1)*rowBytes]
		j := idx[b]
		if j < 0 || int(j) >= v {
			for i := range dst {
				dst[i] = 0
			}
			continue
		}
		src := weightData[int(j)*rowBytes : (int(j)+1)*rowBytes]
		copy(dst, src)
	}
	return nil
}
