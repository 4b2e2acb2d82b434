package tensor

import "github.com/csotherden/llaisys-core/llerr"

// view builds a new Tensor sharing t's storage with different metadata
// and/or byte offset, bumping the storage refcount so both tensors can be
// dropped independently.
func (t *Tensor) view(shape, strides []int, byteOffset int) *Tensor {
	return &Tensor{
		meta: Meta{
			Dtype:   t.meta.Dtype,
			Shape:   shape,
			Strides: strides,
		},
		storage:    t.storage.Retain(),
		byteOffset: byteOffset,
	}
}

// Permute returns a view with reordered shape and strides; order must be
// a permutation of [0, Ndim()). byteOffset and storage are unchanged.
// The result may be non-contiguous.
func (t *Tensor) Permute(order []int) (*Tensor, error) {
	n := t.Ndim()
	if len(order) != n {
		return nil, llerr.New(llerr.PreconditionFailed, "tensor.Permute", "order length %d does not match rank %d", len(order), n)
	}
	seen := make([]bool, n)
	for _, o := range order {
		if o < 0 || o >= n || seen[o] {
			return nil, llerr.New(llerr.PreconditionFailed, "tensor.Permute", "order %v is not a permutation of [0, %d)", order, n)
		}
		seen[o] = true
	}

	shape := make([]int, n)
	strides := make([]int, n)
	for i, o := range order {
		shape[i] = t.meta.Shape[o]
		strides[i] = t.meta.Strides[o]
	}
	return t.view(shape, strides, t.byteOffset), nil
}

// View returns a contiguous view of t reshaped to newShape, with freshly
// computed row-major strides. t must already be contiguous and
// Π(newShape) must equal t.Numel().
func (t *Tensor) View(newShape []int) (*Tensor, error) {
	if !t.IsContiguous() {
		return nil, llerr.New(llerr.PreconditionFailed, "tensor.View", "source tensor is not contiguous")
	}
	numel := 1
	for _, s := range newShape {
		if s < 0 {
			return nil, llerr.New(llerr.PreconditionFailed, "tensor.View", "negative extent in shape %v", newShape)
		}
		numel *= s
	}
	if numel != t.Numel() {
		return nil, llerr.New(llerr.PreconditionFailed, "tensor.View", "new shape %v has %d elements, source has %d", newShape, numel, t.Numel())
	}

	shapeCopy := make([]int, len(newShape))
	copy(shapeCopy, newShape)
	return t.view(shapeCopy, contiguousStrides(shapeCopy), t.byteOffset), nil
}

// Reshape is an alias of View.
func (t *Tensor) Reshape(newShape []int) (*Tensor, error) {
	return t.View(newShape)
}

// Slice returns a view of t narrowed to [start, end) along dim. strides
// are unchanged; byteOffset advances by start*strides[dim]*elementSize,
// which preserves any existing non-contiguity along other dimensions.
func (t *Tensor) Slice(dim, start, end int) (*Tensor, error) {
	n := t.Ndim()
	if dim < 0 || dim >= n {
		return nil, llerr.New(llerr.PreconditionFailed, "tensor.Slice", "dim %d out of range for rank %d", dim, n)
	}
	if start < 0 || start > end || end > t.meta.Shape[dim] {
		return nil, llerr.New(llerr.PreconditionFailed, "tensor.Slice", "range [%d, %d) out of bounds for extent %d on dim %d", start, end, t.meta.Shape[dim], dim)
	}

	shape := make([]int, n)
	copy(shape, t.meta.Shape)
	shape[dim] = end - start

	strides := make([]int, n)
	copy(strides, t.meta.Strides)

	newOffset := t.byteOffset + start*t.meta.Strides[dim]*t.ElementSize()
	return t.view(shape, strides, newOffset), nil
}
