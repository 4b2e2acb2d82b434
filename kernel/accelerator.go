package kernel

import (
	"github.com/csotherden/llaisys-core/llerr"
	"github.com/csotherden/llaisys-core/tensor"
)

// AcceleratorEngine embeds CPUEngine, but every method here is
// overridden to unconditionally fail rather than inherit the CPU body:
// accelerator dispatch is a fatal error in this build, not a graceful
// fallback to the CPU path.
type AcceleratorEngine struct {
	CPUEngine
}

var _ Engine = AcceleratorEngine{}

func unsupported(op string) error {
	return llerr.New(llerr.UnsupportedDevice, op, "accelerator kernel dispatch is not implemented; materialize inputs to CPU first")
}

func (AcceleratorEngine) Embedding(out, index, weight *tensor.Tensor) error {
	return unsupported("kernel.Embedding")
}

func (AcceleratorEngine) RMSNorm(out, in, weight *tensor.Tensor, eps float32) error {
	return unsupported("kernel.RMSNorm")
}

func (AcceleratorEngine) Linear(out, in, weight, bias *tensor.Tensor) error {
	return unsupported("kernel.Linear")
}

func (AcceleratorEngine) RoPE(out, in, posIDs *tensor.Tensor, theta float32) error {
	return unsupported("kernel.RoPE")
}

func (AcceleratorEngine) SelfAttention(attn, q, k, v *tensor.Tensor, scale float32) error {
	return unsupported("kernel.SelfAttention")
}

func (AcceleratorEngine) SwiGLU(out, gate, up *tensor.Tensor) error {
	return unsupported("kernel.SwiGLU")
}

func (AcceleratorEngine) Argmax(maxIdx, maxVal, vals *tensor.Tensor) error {
	return unsupported("kernel.Argmax")
}
