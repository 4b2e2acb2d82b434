package dtype

import (
	"math"
	"testing"
)

func TestElementSize(t *testing.T) {
	cases := map[Dtype]int{
		Byte: 1, Bool: 1,
		Int8: 1, Int16: 2, Int32: 4, Int64: 8,
		Uint8: 1, Uint16: 2, Uint32: 4, Uint64: 8,
		F16: 2, BF16: 2, F32: 4, F64: 8,
	}
	for dt, want := range cases {
		if got := ElementSize(dt); got != want {
			t.Errorf("ElementSize(%s) = %d, want %d", dt, got, want)
		}
	}
}

func TestCastRoundTripIntegerFloat(t *testing.T) {
	v, err := Cast(Int32, F32, int32(7))
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if v.(float32) != 7 {
		t.Fatalf("Cast(i32->f32) = %v, want 7", v)
	}

	back, err := Cast(F32, Int32, float32(7))
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if back.(int32) != 7 {
		t.Fatalf("Cast(f32->i32) = %v, want 7", back)
	}
}

func TestCastBoolNumeric(t *testing.T) {
	v, err := Cast(Bool, F32, true)
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if v.(float32) != 1 {
		t.Fatalf("Cast(true->f32) = %v, want 1", v)
	}
	v, err = Cast(Bool, F32, false)
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if v.(float32) != 0 {
		t.Fatalf("Cast(false->f32) = %v, want 0", v)
	}
}

func TestCastUnsupportedDtype(t *testing.T) {
	if _, err := Cast(Dtype(999), F32, int32(1)); err == nil {
		t.Fatalf("Cast from an unsupported dtype: expected error, got nil")
	}
}

func TestFloat16NaNAndInf(t *testing.T) {
	nan := Float16FromFloat32(float32(math.NaN()))
	if v := nan.Float32(); v == v {
		t.Fatalf("Float16FromFloat32(NaN).Float32() = %v, want NaN", v)
	}

	posInf := Float16FromFloat32(float32(math.Inf(1)))
	if v := posInf.Float32(); !math.IsInf(float64(v), 1) {
		t.Fatalf("Float16FromFloat32(+Inf).Float32() = %v, want +Inf", v)
	}
	negInf := Float16FromFloat32(float32(math.Inf(-1)))
	if v := negInf.Float32(); !math.IsInf(float64(v), -1) {
		t.Fatalf("Float16FromFloat32(-Inf).Float32() = %v, want -Inf", v)
	}
}

func TestFloat16SaturatesOnOverflow(t *testing.T) {
	big := Float16FromFloat32(1e9)
	v := big.Float32()
	if v != f16MaxFinite {
		t.Fatalf("Float16FromFloat32(1e9).Float32() = %v, want %v (narrowing should saturate, not overflow to Inf)", v, f16MaxFinite)
	}
	negBig := Float16FromFloat32(-1e9)
	if v := negBig.Float32(); v != -f16MaxFinite {
		t.Fatalf("Float16FromFloat32(-1e9).Float32() = %v, want %v", v, -f16MaxFinite)
	}
}

func TestFloat16RoundTripExactValues(t *testing.T) {
	for _, x := range []float32{0, 1, -1, 0.5, 2.5, 100, -100} {
		h := Float16FromFloat32(x)
		if got := h.Float32(); got != x {
			t.Errorf("Float16 round trip of %v = %v, want exact", x, got)
		}
	}
}

func TestBFloat16TruncatesHighBits(t *testing.T) {
	x := float32(3.14159)
	b := BFloat16FromFloat32(x)
	got := b.Float32()
	if math.Abs(float64(got-x)) > 0.02 {
		t.Fatalf("BFloat16 round trip of %v = %v, too far off", x, got)
	}
}

func TestBFloat16PreservesInfAndNaN(t *testing.T) {
	posInf := BFloat16FromFloat32(float32(math.Inf(1)))
	if v := posInf.Float32(); !math.IsInf(float64(v), 1) {
		t.Fatalf("BFloat16FromFloat32(+Inf).Float32() = %v, want +Inf", v)
	}
	nan := BFloat16FromFloat32(float32(math.NaN()))
	if v := nan.Float32(); v == v {
		t.Fatalf("BFloat16FromFloat32(NaN).Float32() = %v, want NaN", v)
	}
}

func TestIsHalfIsFloatIsInteger(t *testing.T) {
	if !IsHalf(F16) || !IsHalf(BF16) {
		t.Fatalf("IsHalf should be true for F16/BF16")
	}
	if IsHalf(F32) {
		t.Fatalf("IsHalf(F32) should be false")
	}
	if !IsFloat(F64) || IsFloat(Int32) {
		t.Fatalf("IsFloat classification wrong")
	}
	if !IsInteger(Uint8) || IsInteger(Bool) {
		t.Fatalf("IsInteger classification wrong")
	}
}
