package kernel

import (
	"github.com/chewxy/math32"
	"gorgonia.org/vecf32"

	"github.com/csotherden/llaisys-core/tensor"
)

// RMSNorm computes, for each row b, ms = mean(in[b,:]^2),
// rms = sqrt(ms + eps), out[b,i] = weight[i] * in[b,i] / rms. eps is added
// before the square root, not after. Accumulation happens in f32
// regardless of the tensors' own dtype.
func (CPUEngine) RMSNorm(out, in, weight *tensor.Tensor, eps float32) error {
	const op = "kernel.RMSNorm"

	for _, t := range []*tensor.Tensor{out, in, weight} {
		if err := requireCPU(op, t); err != nil {
			return err
		}
		if err := requireContiguous(op, "tensor", t); err != nil {
			return err
		}
	}
	if err := requireRank(op, "in", in, 2); err != nil {
		return err
	}
	if err := requireRank(op, "weight", weight, 1); err != nil {
		return err
	}
	if err := requireShape(op, "out", out, in.Shape()); err != nil {
		return err
	}
	if err := requireSameDtype(op, "out", "in", out, in); err != nil {
		return err
	}
	if err := requireSameDtype(op, "in", "weight", in, weight); err != nil {
		return err
	}
	if err := requireFloatDtype(op, "in", in); err != nil {
		return err
	}
	if err := requireSameDevice(op, "out", "in", out, in); err != nil {
		return err
	}
	if err := requireSameDevice(op, "in", "weight", in, weight); err != nil {
		return err
	}

	b, h := in.Shape()[0], in.Shape()[1]
	if weight.Shape()[0] != h {
		return requireShape(op, "weight", weight, []int{h})
	}

	inF32, err := readF32(op, in)
	if err != nil {
		return err
	}
	weightF32, err := readF32(op, weight)
	if err != nil {
		return err
	}
	outF32 := make([]float32, b*h)

	for row := 0; row < b; row++ {
		r := inF32[row*h : (row+1)*h]
		var sumSq float32
		for _, x := range r {
			sumSq += x * x
		}
		ms := sumSq / float32(h)
		rms := math32.Sqrt(ms + eps)
		invRMS := 1 / rms

		dst := outF32[row*h : (row+1)*h]
		copy(dst, r)
		// dst[i] = in[i] / rms first (a plain scalar scale), then fold in
		// the learned gain with an in-place elementwise multiply.
		for i := range dst {
			dst[i] *= invRMS
		}
		vecf32.Mul(dst, weightF32)
	}

	return writeF32(op, out, outF32)
}
