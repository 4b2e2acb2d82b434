// Package device specifies the narrow contract the core consumes from a
// device runtime: host/device allocation, synchronous memcpy, and device
// synchronization. The runtime itself — CUDA, Metal, whatever accelerator
// plugin a process links in — is an external collaborator; this package
// only defines the shape the core dispatches against, plus the CPU
// implementation every operator actually runs on today.
package device

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/csotherden/llaisys-core/llerr"
)

// Kind identifies which device family a storage buffer or runtime call
// targets.
type Kind int

const (
	CPU Kind = iota
	Accelerator
)

func (k Kind) String() string {
	switch k {
	case CPU:
		return "cpu"
	case Accelerator:
		return "accelerator"
	default:
		return fmt.Sprintf("device.Kind(%d)", int(k))
	}
}

// Direction names a memcpy's source/destination device classes.
type Direction int

const (
	H2H Direction = iota
	H2D
	D2H
	D2D
)

// RawStorage is the minimal shape the device package hands back from an
// allocation: an addressable byte range plus the device tag it lives on.
// package storage builds the reference-counted ownership wrapper on top
// of this.
type RawStorage struct {
	Bytes    []byte
	DevKind  Kind
	DeviceID int
}

// Runtime is the device runtime contract consumed by the core. All calls
// are synchronous from the caller's point of view; any asynchrony a real
// accelerator plugin uses internally must be hidden behind
// DeviceSynchronize.
type Runtime interface {
	AllocateHost(size int) (RawStorage, error)
	AllocateDevice(size int, deviceID int) (RawStorage, error)
	MemcpySync(dst, src []byte, dir Direction) error
	DeviceSynchronize(kind Kind, deviceID int) error
}

// current is the process-wide active-device binding: the device runtime
// is a process-wide singleton that starts unbound and moves to
// bound-to(kind,id) on the first SetDevice call. Within the core only
// tensor.Create and Tensor.To call SetDevice, and only when they allocate
// on an accelerator; CPU allocations, the kernels and the other tensor
// operations neither bind nor consult the current device.
var current struct {
	mu       sync.Mutex
	kind     Kind
	deviceID int
	bound    atomic.Bool
}

// SetDevice binds the thread-local — in this single-threaded-per-call
// core, process-wide — current device selection.
func SetDevice(kind Kind, deviceID int) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.kind = kind
	current.deviceID = deviceID
	current.bound.Store(true)
}

// Current reports the active device binding. Before the first SetDevice
// call the core treats the process as bound to CPU device 0.
func Current() (Kind, int) {
	if !current.bound.Load() {
		return CPU, 0
	}
	current.mu.Lock()
	defer current.mu.Unlock()
	return current.kind, current.deviceID
}

// runtimes maps a device kind to its runtime implementation, registered
// at init time by runtime_cpu.go / runtime_accelerator.go. No build tags
// are needed here: the accelerator path has no real platform-specific
// implementation to gate behind cgo, since it only ever reports
// UnsupportedDevice rather than doing GPU work.
var runtimes = map[Kind]Runtime{}

func register(kind Kind, rt Runtime) {
	runtimes[kind] = rt
}

// For fetches the runtime implementation for kind, or a LogicError if
// none is registered — a registration gap is a bug in this package, not a
// caller mistake.
func For(kind Kind) (Runtime, error) {
	rt, ok := runtimes[kind]
	if !ok {
		return nil, llerr.New(llerr.LogicError, "device.For", "no runtime registered for %s", kind)
	}
	return rt, nil
}
