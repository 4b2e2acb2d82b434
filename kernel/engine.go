// Package kernel implements the operator kernels: embedding, rms_norm,
// linear, rope, self_attention, swiglu, and argmax. Every kernel is a
// pure function over preallocated tensors — kernels never allocate their
// output — dispatched by dtype through an Engine interface with a
// default implementation, in the spirit of gorgonia.org/tensor's
// Engine/StdEng pair.
package kernel

import "github.com/csotherden/llaisys-core/tensor"

// Engine is the operator surface package tensor's callers dispatch
// against. A real accelerator build would implement this with GPU
// kernels for some subset of operators, overriding only those methods
// while inheriting everything else from a CPU default; this module ships
// CPUEngine (the only engine with real kernel bodies) and
// AcceleratorEngine (an always-fails stub, since GPU kernels are out of
// scope here).
type Engine interface {
	Embedding(out, index, weight *tensor.Tensor) error
	RMSNorm(out, in, weight *tensor.Tensor, eps float32) error
	Linear(out, in, weight, bias *tensor.Tensor) error
	RoPE(out, in, posIDs *tensor.Tensor, theta float32) error
	SelfAttention(attn, q, k, v *tensor.Tensor, scale float32) error
	SwiGLU(out, gate, up *tensor.Tensor) error
	Argmax(maxIdx, maxVal, vals *tensor.Tensor) error
}

// CPUEngine is the default, and today the only working, Engine
// implementation. Every kernel method requires its tensor arguments to
// be CPU-resident; see requireCPU in validate.go.
type CPUEngine struct{}

var _ Engine = CPUEngine{}
