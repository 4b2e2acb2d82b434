package kernel

import (
	"github.com/chewxy/math32"

	"github.com/csotherden/llaisys-core/llerr"
	"github.com/csotherden/llaisys-core/tensor"
)

// SelfAttention computes grouped-query causal attention over a KV cache
// of total length T >= S. Query head hq maps to KV head
// hq/group where group = Hq/Hkv; causal context length for query position
// qp is min(qp + (T-S) + 1, T). Softmax uses max-subtraction for
// stability and is defined as all-zero when the exponent sum is zero.
func (CPUEngine) SelfAttention(attn, q, k, v *tensor.Tensor, scale float32) error {
	const op = "kernel.SelfAttention"

	for _, t := range []*tensor.Tensor{attn, q, k, v} {
		if err := requireCPU(op, t); err != nil {
			return err
		}
		if err := requireContiguous(op, "tensor", t); err != nil {
			return err
		}
		if err := requireRank(op, "tensor", t, 3); err != nil {
			return err
		}
	}
	if err := requireSameDtype(op, "attn", "q", attn, q); err != nil {
		return err
	}
	if err := requireSameDtype(op, "q", "k", q, k); err != nil {
		return err
	}
	if err := requireSameDtype(op, "k", "v", k, v); err != nil {
		return err
	}
	if err := requireFloatDtype(op, "q", q); err != nil {
		return err
	}
	if err := requireSameDevice(op, "attn", "q", attn, q); err != nil {
		return err
	}
	if err := requireSameDevice(op, "q", "k", q, k); err != nil {
		return err
	}
	if err := requireSameDevice(op, "k", "v", k, v); err != nil {
		return err
	}

	s, hq, d := q.Shape()[0], q.Shape()[1], q.Shape()[2]
	tlen, hkv, dk := k.Shape()[0], k.Shape()[1], k.Shape()[2]
	tlenV, hkvV, dv := v.Shape()[0], v.Shape()[1], v.Shape()[2]

	if dk != d {
		return llerr.New(llerr.PreconditionFailed, op, "k head dim %d does not match q head dim %d", dk, d)
	}
	if tlenV != tlen || hkvV != hkv {
		return llerr.New(llerr.PreconditionFailed, op, "v shape %v does not match k's [T, Hkv, *] = [%d, %d, *]", v.Shape(), tlen, hkv)
	}
	if hkv == 0 || hq%hkv != 0 {
		return llerr.New(llerr.PreconditionFailed, op, "Hq %d is not a multiple of Hkv %d", hq, hkv)
	}
	if tlen < s {
		return llerr.New(llerr.PreconditionFailed, op, "kv length T=%d is smaller than query length S=%d", tlen, s)
	}
	if err := requireShape(op, "attn", attn, []int{s, hq, dv}); err != nil {
		return err
	}

	group := hq / hkv
	kvOff := tlen - s

	qF32, err := readF32(op, q)
	if err != nil {
		return err
	}
	kF32, err := readF32(op, k)
	if err != nil {
		return err
	}
	vF32, err := readF32(op, v)
	if err != nil {
		return err
	}
	attnF32 := make([]float32, s*hq*dv)

	scores := make([]float32, tlen)
	for h := 0; h < hq; h++ {
		kvHead := h / group
		for qp := 0; qp < s; qp++ {
			c := qp + kvOff + 1
			if c > tlen {
				c = tlen
			}
			qVec := qF32[(qp*hq+h)*d : (qp*hq+h)*d+d]

			var maxScore float32 = math32.Inf(-1)
			for kp := 0; kp < c; kp++ {
				kVec := kF32[(kp*hkv+kvHead)*d : (kp*hkv+kvHead)*d+d]
				sc := scale * dotUnrolled(qVec, kVec)
				scores[kp] = sc
				if sc > maxScore {
					maxScore = sc
				}
			}

			var sumExp float32
			for kp := 0; kp < c; kp++ {
				e := math32.Exp(scores[kp] - maxScore)
				scores[kp] = e
				sumExp += e
			}

			out := attnF32[(qp*hq+h)*dv : (qp*hq+h)*dv+dv]
			if sumExp == 0 {
				continue // softmax of an empty/degenerate row is defined as zero
			}
			invSum := 1 / sumExp
			for kp := 0; kp < c; kp++ {
				w := scores[kp] * invSum
				vVec := vF32[(kp*hkv+kvHead)*dv : (kp*hkv+kvHead)*dv+dv]
				for j, x := range vVec {
					out[j] += w * x
				}
			}
		}
	}

	return writeF32(op, attn, attnF32)
}
