package storage

import (
	"testing"

	"github.com/csotherden/llaisys-core/device"
)

func TestNewAndRelease(t *testing.T) {
	rt, _ := device.For(device.CPU)
	raw, err := rt.AllocateHost(16)
	if err != nil {
		t.Fatalf("AllocateHost: %v", err)
	}
	s := New(raw)
	if s.Size() != 16 {
		t.Fatalf("Size() = %d, want 16", s.Size())
	}
	if s.DeviceKind() != device.CPU {
		t.Fatalf("DeviceKind() = %v, want CPU", s.DeviceKind())
	}
	s.Retain()
	s.Release()
	s.Release()
}

func TestSliceBounds(t *testing.T) {
	rt, _ := device.For(device.CPU)
	raw, _ := rt.AllocateHost(8)
	s := New(raw)

	if _, err := s.Slice(0, 8); err != nil {
		t.Fatalf("Slice(0, 8): %v", err)
	}
	if _, err := s.Slice(4, 8); err == nil {
		t.Fatalf("Slice(4, 8) on 8-byte storage: expected error, got nil")
	}
	if _, err := s.Slice(-1, 2); err == nil {
		t.Fatalf("Slice(-1, 2): expected error, got nil")
	}
}
