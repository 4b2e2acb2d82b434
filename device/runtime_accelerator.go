package device

import "github.com/csotherden/llaisys-core/llerr"

// acceleratorRuntime is the opaque accelerator stub. Every operator in
// this build runs on the host; the device contract is still defined so a
// real plugin could register under Kind Accelerator without changing
// tensor semantics, but this build carries no such plugin, so every call
// fails with UnsupportedDevice. This stub never silently substitutes
// CPU — accelerator dispatch is a fatal error the caller is responsible
// for avoiding, not something the core papers over.
type acceleratorRuntime struct{}

func init() {
	register(Accelerator, acceleratorRuntime{})
}

func (acceleratorRuntime) AllocateHost(size int) (RawStorage, error) {
	return RawStorage{}, llerr.New(llerr.UnsupportedDevice, "device.AllocateHost", "accelerator runtime is not linked into this build")
}

func (acceleratorRuntime) AllocateDevice(size int, deviceID int) (RawStorage, error) {
	return RawStorage{}, llerr.New(llerr.UnsupportedDevice, "device.AllocateDevice", "accelerator runtime is not linked into this build")
}

func (acceleratorRuntime) MemcpySync(dst, src []byte, dir Direction) error {
	return llerr.New(llerr.UnsupportedDevice, "device.MemcpySync", "accelerator runtime is not linked into this build")
}

func (acceleratorRuntime) DeviceSynchronize(kind Kind, deviceID int) error {
	return llerr.New(llerr.UnsupportedDevice, "device.DeviceSynchronize", "accelerator runtime is not linked into this build")
}
