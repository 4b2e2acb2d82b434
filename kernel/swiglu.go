package kernel

import (
	"github.com/chewxy/math32"
	"gorgonia.org/vecf32"

	"github.com/csotherden/llaisys-core/tensor"
)

// SwiGLU computes out = up * SiLU(gate), where SiLU(x) = x * sigmoid(x).
// gate == 0 implies SiLU(0) == 0 and hence out == 0, regardless of up.
func (CPUEngine) SwiGLU(out, gate, up *tensor.Tensor) error {
	const op = "kernel.SwiGLU"

	for _, t := range []*tensor.Tensor{out, gate, up} {
		if err := requireCPU(op, t); err != nil {
			return err
		}
		if err := requireContiguous(op, "tensor", t); err != nil {
			return err
		}
	}
	if err := requireSameDtype(op, "gate", "up", gate, up); err != nil {
		return err
	}
	if err := requireFloatDtype(op, "gate", gate); err != nil {
		return err
	}
	if err := requireShape(op, "up", up, gate.Shape()); err != nil {
		return err
	}
	if err := requireShape(op, "out", out, gate.Shape()); err != nil {
		return err
	}
	if err := requireSameDevice(op, "gate", "up", gate, up); err != nil {
		return err
	}
	if err := requireSameDevice(op, "out", "gate", out, gate); err != nil {
		return err
	}

	gateF32, err := readF32(op, gate)
	if err != nil {
		return err
	}
	upF32, err := readF32(op, up)
	if err != nil {
		return err
	}

	silu := make([]float32, len(gateF32))
	for i, g := range gateF32 {
		silu[i] = 1 / (1 + math32.Exp(-g))
	}
	// silu now holds sigmoid(gate); fold in gate and up with the same
	// in-place elementwise-multiply primitive used elsewhere in this
	// package.
	vecf32.Mul(silu, gateF32)
	vecf32.Mul(silu, upF32)

	return writeF32(op, out, silu)
}
