// Package storage implements the reference-counted byte buffer tensors
// share. Storage is created only through the device runtime and is
// released exactly when its last referent drops it; the refcount is
// atomic so tensors may be dropped from different goroutines even though
// the core itself issues no concurrent operator calls.
package storage

import (
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/csotherden/llaisys-core/device"
	"github.com/csotherden/llaisys-core/llerr"
)

// Storage is a shared-ownership byte buffer tagged with the device it
// lives on. The tensor layer never computes pointer arithmetic past
// Size(); every index it needs is bounds-checked against it first.
type Storage struct {
	bytes    []byte
	size     int
	devKind  device.Kind
	deviceID int
	refs     *atomic.Int64
}

// New wraps a device runtime's raw allocation in a Storage with an
// initial refcount of 1.
func New(raw device.RawStorage) *Storage {
	refs := new(atomic.Int64)
	refs.Store(1)
	return &Storage{
		bytes:    raw.Bytes,
		size:     len(raw.Bytes),
		devKind:  raw.DevKind,
		deviceID: raw.DeviceID,
		refs:     refs,
	}
}

// Retain increments the refcount and returns s, for a tensor that wants
// to share this storage with another.
func (s *Storage) Retain() *Storage {
	if s.refs.Add(1) <= 1 {
		glog.Fatalf("storage: Retain on a storage with no live references (logic error)")
	}
	return s
}

// Release decrements the refcount. The backing bytes are dropped for GC
// once the count reaches zero; there is no explicit device free call
// here because this core's only registered runtime is the host CPU
// allocator (make([]byte, ...)), which Go's GC already reclaims — an
// accelerator runtime plugged in under device.Accelerator would free its
// own buffer from this hook instead.
func (s *Storage) Release() {
	n := s.refs.Add(-1)
	if n < 0 {
		glog.Fatalf("storage: refcount went negative (logic error): storage released more times than retained")
	}
	if n == 0 {
		s.bytes = nil
	}
}

// Bytes returns the full backing byte range. Callers must stay within
// Size(); nothing here re-validates bounds past construction.
func (s *Storage) Bytes() []byte { return s.bytes }

// Size reports the storage's byte capacity.
func (s *Storage) Size() int { return s.size }

// DeviceKind reports which device this storage's bytes are addressable
// on.
func (s *Storage) DeviceKind() device.Kind { return s.devKind }

// DeviceID reports the device id within DeviceKind.
func (s *Storage) DeviceID() int { return s.deviceID }

// Slice returns the byte range [offset, offset+n) of the backing buffer,
// failing if it would run past Size().
func (s *Storage) Slice(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > s.size {
		return nil, llerr.New(llerr.PreconditionFailed, "storage.Slice",
			"range [%d, %d) out of bounds for storage of size %d", offset, offset+n, s.size)
	}
	return s.bytes[offset : offset+n], nil
}
