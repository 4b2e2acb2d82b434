package tensor

import (
	"github.com/csotherden/llaisys-core/device"
	"github.com/csotherden/llaisys-core/llerr"
	"github.com/csotherden/llaisys-core/storage"
)

// To returns a tensor with t's contents on the requested device. If t is
// already there, this is an identity view. Otherwise t is first made
// contiguous — a raw memcpy of a strided view is never correct — and the
// contiguous bytes are transferred with the matching memcpy direction.
func (t *Tensor) To(kind device.Kind, deviceID int) (*Tensor, error) {
	if t.DeviceKind() == kind && t.DeviceID() == deviceID {
		return t.view(t.Shape(), t.Strides(), t.byteOffset), nil
	}

	src, err := t.Contiguous()
	if err != nil {
		return nil, err
	}

	rt, err := device.For(kind)
	if err != nil {
		return nil, err
	}

	size := src.Numel() * src.ElementSize()
	var raw device.RawStorage
	switch kind {
	case device.CPU:
		raw, err = rt.AllocateHost(size)
	case device.Accelerator:
		device.SetDevice(device.Accelerator, deviceID)
		raw, err = rt.AllocateDevice(size, deviceID)
	default:
		return nil, llerr.New(llerr.UnsupportedDevice, "tensor.To", "unknown device kind %v", kind)
	}
	if err != nil {
		return nil, llerr.Wrap(llerr.RuntimeFailure, "tensor.To", "allocating destination storage", err)
	}
	dst := storage.New(raw)

	dir := directionFor(src.DeviceKind(), kind)
	srcBytes, err := src.Data()
	if err != nil {
		return nil, err
	}
	if err := rt.MemcpySync(dst.Bytes(), srcBytes, dir); err != nil {
		return nil, llerr.Wrap(llerr.RuntimeFailure, "tensor.To", "memcpy_sync failed", err)
	}
	if err := rt.DeviceSynchronize(kind, deviceID); err != nil {
		return nil, llerr.Wrap(llerr.RuntimeFailure, "tensor.To", "device_synchronize failed", err)
	}

	return &Tensor{
		meta: Meta{
			Dtype:   src.meta.Dtype,
			Shape:   src.Shape(),
			Strides: src.Strides(),
		},
		storage:    dst,
		byteOffset: 0,
	}, nil
}

func directionFor(from, to device.Kind) device.Direction {
	switch {
	case from == device.CPU && to == device.CPU:
		return device.H2H
	case from == device.CPU && to == device.Accelerator:
		return device.H2D
	case from == device.Accelerator && to == device.CPU:
		return device.D2H
	default:
		return device.D2D
	}
}

// Load copies numel*elementSize bytes from a raw host buffer into t's
// storage at its byte offset: H2D via MemcpySync when t is on-device, a
// direct copy when t is CPU-resident.
func (t *Tensor) Load(src []byte) error {
	want := t.Numel() * t.ElementSize()
	if len(src) < want {
		return llerr.New(llerr.PreconditionFailed, "tensor.Load", "source has %d bytes, need %d", len(src), want)
	}

	dstBytes, err := t.Data()
	if err != nil {
		return err
	}

	if t.DeviceKind() == device.CPU {
		copy(dstBytes, src[:want])
		return nil
	}

	rt, err := device.For(t.DeviceKind())
	if err != nil {
		return err
	}
	if err := rt.MemcpySync(dstBytes, src[:want], device.H2D); err != nil {
		return llerr.Wrap(llerr.RuntimeFailure, "tensor.Load", "memcpy_sync failed", err)
	}
	return nil
}
