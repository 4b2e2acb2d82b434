package kernel

import "github.com/csotherden/llaisys-core/tensor"

// Linear computes out = in * weight^T + bias. weight is stored
// output-features-first so each output unit's weights are contiguous,
// which is exactly what dotUnrolled below wants to walk.
func (CPUEngine) Linear(out, in, weight, bias *tensor.Tensor) error {
	const op = "kernel.Linear"

	tensors := []*tensor.Tensor{out, in, weight}
	if bias != nil {
		tensors = append(tensors, bias)
	}
	for _, t := range tensors {
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
	if err := requireRank(op, "weight", weight, 2); err != nil {
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
	if bias != nil {
		if err := requireRank(op, "bias", bias, 1); err != nil {
			return err
		}
		if err := requireSameDtype(op, "in", "bias", in, bias); err != nil {
			return err
		}
	}
	if err := requireSameDevice(op, "out", "in", out, in); err != nil {
		return err
	}
	if err := requireSameDevice(op, "in", "weight", in, weight); err != nil {
		return err
	}
	if bias != nil {
		if err := requireSameDevice(op, "in", "bias", in, bias); err != nil {
			return err
		}
	}

	b, i := in.Shape()[0], in.Shape()[1]
	o, wi := weight.Shape()[0], weight.Shape()[1]
	if wi != i {
		return requireShape(op, "weight", weight, []int{o, i})
	}
	if err := requireShape(op, "out", out, []int{b, o}); err != nil {
		return err
	}
	if bias != nil {
		if err := requireShape(op, "bias", bias, []int{o}); err != nil {
			return err
		}
	}

	inF32, err := readF32(op, in)
	if err != nil {
		return err
	}
	weightF32, err := readF32(op, weight)
	if err != nil {
		return err
	}
	var biasF32 []float32
	if bias != nil {
		biasF32, err = readF32(op, bias)
		if err != nil {
			return err
		}
	}

	outF32 := make([]float32, b*o)
	for row := 0; row < b; row++ {
		xRow := inF32[row*i : (row+1)*i]
		for col := 0; col < o; col++ {
			wRow := weightF32[col*i : (col+1)*i]
			sum := dotUnrolled(xRow, wRow)
			if biasF32 != nil {
				sum += biasF32[col]
			}
			outF32[row*o+col] = sum
		}
	}

	return writeF32(op, out, outF32)
}

// dotUnrolled computes the f32 dot product of two equal-length vectors,
// unrolled by 4 to give the compiler more independent accumulators.
func dotUnrolled(a, b []float32) float32 {
	n := len(a)
	var sum0, sum1, sum2, sum3 float32
	i := 0
	for ; i+4 <= n; i += 4 {
		sum0 += a[i] * b[i]
		sum1 += a[i+1] * b[i+1]
		sum2 += a[i+2] * b[i+2]
		sum3 += a[i+3] * b[i+3]
	}
	sum := sum0 + sum1 + sum2 + sum3
	for ; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
