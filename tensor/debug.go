package tensor

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/csotherden/llaisys-core/device"
	"github.com/csotherden/llaisys-core/dtype"
	"github.com/csotherden/llaisys-core/llerr"
)

func bytePtr(raw []byte) unsafe.Pointer {
	return unsafe.Pointer(&raw[0])
}

// Debug synchronizes the tensor's device, prints shape/strides/dtype,
// then walks every element in shape order and prints it, promoting
// half-precision values to f32 for display.
func (t *Tensor) Debug() error {
	rt, err := device.For(t.DeviceKind())
	if err != nil {
		return err
	}
	if err := rt.DeviceSynchronize(t.DeviceKind(), t.DeviceID()); err != nil {
		return llerr.Wrap(llerr.RuntimeFailure, "tensor.Debug", "device_synchronize failed", err)
	}

	fmt.Printf("tensor shape=%v strides=%v dtype=%s device=%s:%d offset=%d\n",
		t.meta.Shape, t.meta.Strides, t.meta.Dtype, t.DeviceKind(), t.DeviceID(), t.byteOffset)

	cont, err := t.Contiguous()
	if err != nil {
		return err
	}
	host, err := cont.To(device.CPU, 0)
	if err != nil {
		return err
	}
	data, err := host.Data()
	if err != nil {
		return err
	}

	var b strings.Builder
	elemSize := t.ElementSize()
	numel := t.Numel()
	for i := 0; i < numel; i++ {
		off := i * elemSize
		v, err := formatScalar(t.meta.Dtype, data[off:off+elemSize])
		if err != nil {
			return err
		}
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(v)
	}
	fmt.Println(b.String())
	return nil
}

// formatScalar renders a single element for Debug, widening f16/bf16 to
// f32 first so half-precision values print as their promoted magnitude.
func formatScalar(dt dtype.Dtype, raw []byte) (string, error) {
	switch dt {
	case dtype.F32:
		return fmt.Sprintf("%g", *(*float32)(bytePtr(raw))), nil
	case dtype.F64:
		return fmt.Sprintf("%g", *(*float64)(bytePtr(raw))), nil
	case dtype.F16:
		v := dtype.Float16(raw[0]) | dtype.Float16(raw[1])<<8
		return fmt.Sprintf("%g", v.Float32()), nil
	case dtype.BF16:
		v := dtype.BFloat16(raw[0]) | dtype.BFloat16(raw[1])<<8
		return fmt.Sprintf("%g", v.Float32()), nil
	case dtype.Int64:
		return fmt.Sprintf("%d", *(*int64)(bytePtr(raw))), nil
	case dtype.Int32:
		return fmt.Sprintf("%d", *(*int32)(bytePtr(raw))), nil
	case dtype.Bool:
		if raw[0] != 0 {
			return "true", nil
		}
		return "false", nil
	default:
		return fmt.Sprintf("%v", raw), nil
	}
}
