package device

import (
	"github.com/golang/glog"

	"github.com/csotherden/llaisys-core/llerr"
)

// cpuRuntime is the always-available host runtime: host "allocation" is
// just make([]byte, n), and every memcpy direction that touches the host
// side is a plain copy(). D2D/H2D/D2H against a real accelerator are
// rejected here; AcceleratorEngine is the only caller that should ever
// see those directions on a live accelerator, and this build has none.
type cpuRuntime struct{}

func init() {
	register(CPU, cpuRuntime{})
}

func (cpuRuntime) AllocateHost(size int) (RawStorage, error) {
	if size < 0 {
		return RawStorage{}, llerr.New(llerr.RuntimeFailure, "device.AllocateHost", "negative size %d", size)
	}
	glog.V(2).Infof("device: allocate_host size=%d", size)
	return RawStorage{Bytes: make([]byte, size), DevKind: CPU, DeviceID: 0}, nil
}

func (cpuRuntime) AllocateDevice(size int, deviceID int) (RawStorage, error) {
	return RawStorage{}, llerr.New(llerr.UnsupportedDevice, "device.AllocateDevice", "no accelerator is active in this process")
}

func (cpuRuntime) MemcpySync(dst, src []byte, dir Direction) error {
	if dir != H2H {
		return llerr.New(llerr.UnsupportedDevice, "device.MemcpySync", "direction %v requires an accelerator runtime", dir)
	}
	if len(dst) < len(src) {
		return llerr.New(llerr.RuntimeFailure, "device.MemcpySync", "destination too small: have %d, need %d", len(dst), len(src))
	}
	glog.V(3).Infof("device: memcpy_sync h2h size=%d", len(src))
	copy(dst, src)
	return nil
}

func (cpuRuntime) DeviceSynchronize(kind Kind, deviceID int) error {
	if kind != CPU {
		return llerr.New(llerr.UnsupportedDevice, "device.DeviceSynchronize", "no accelerator is active in this process")
	}
	return nil // host calls are already synchronous
}
