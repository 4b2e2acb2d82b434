package kernel

import (
	"github.com/chewxy/math32"

	"github.com/csotherden/llaisys-core/tensor"
)

// RoPE applies split-halves rotary position embedding: for sequence
// position s, head h, and pair index i in [0, D/2), the first-half
// element in[s,h,i] and second-half element in[s,h,D/2+i] are rotated by
// an angle that depends on pos_ids[s] and a per-pair inverse frequency.
// This is the split-halves layout (first half paired with second half),
// not the interleaved layout.
func (CPUEngine) RoPE(out, in, posIDs *tensor.Tensor, theta float32) error {
	const op = "kernel.RoPE"

	for _, t := range []*tensor.Tensor{out, in, posIDs} {
		if err := requireCPU(op, t); err != nil {
			return err
		}
		if err := requireContiguous(op, "tensor", t); err != nil {
			return err
		}
	}
	if err := requireRank(op, "in", in, 3); err != nil {
		return err
	}
	if err := requireRank(op, "posIDs", posIDs, 1); err != nil {
		return err
	}
	if err := requireSameDtype(op, "out", "in", out, in); err != nil {
		return err
	}
	if err := requireFloatDtype(op, "in", in); err != nil {
		return err
	}
	if err := requireIndexDtype(op, "posIDs", posIDs); err != nil {
		return err
	}
	if err := requireShape(op, "out", out, in.Shape()); err != nil {
		return err
	}
	if err := requireSameDevice(op, "out", "in", out, in); err != nil {
		return err
	}
	if err := requireSameDevice(op, "in", "posIDs", in, posIDs); err != nil {
		return err
	}

	s, h, d := in.Shape()[0], in.Shape()[1], in.Shape()[2]
	if d%2 != 0 {
		return requireEvenHeadDim(op, d)
	}
	half := d / 2
	if posIDs.Shape()[0] != s {
		return requireShape(op, "posIDs", posIDs, []int{s})
	}

	pos, err := posIDs.Int64Slice()
	if err != nil {
		return err
	}
	inF32, err := readF32(op, in)
	if err != nil {
		return err
	}
	outF32 := make([]float32, len(inF32))

	// Precompute the half-length inverse-frequency table and the s x half
	// sin/cos tables once rather than recomputing them per head.
	invFreq := make([]float32, half)
	for i := 0; i < half; i++ {
		invFreq[i] = 1.0 / math32.Pow(theta, float32(2*i)/float32(d))
	}
	cosTab := make([]float32, s*half)
	sinTab := make([]float32, s*half)
	for sp := 0; sp < s; sp++ {
		freqBase := float32(pos[sp])
		for i := 0; i < half; i++ {
			freq := freqBase * invFreq[i]
			cosTab[sp*half+i] = math32.Cos(freq)
			sinTab[sp*half+i] = math32.Sin(freq)
		}
	}

	for sp := 0; sp < s; sp++ {
		for head := 0; head < h; head++ {
			base := (sp*h + head) * d
			for i := 0; i < half; i++ {
				c := cosTab[sp*half+i]
				sn := sinTab[sp*half+i]
				xa := inF32[base+i]
				xb := inF32[base+half+i]
				outF32[base+i] = xa*c - xb*sn
				outF32[base+half+i] = xb*c + xa*sn
			}
		}
	}

	return writeF32(op, out, outF32)
}
