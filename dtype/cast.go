package dtype

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Cast converts a scalar value stored as one dtype into its representation
// in another dtype. It fails when either side names an unsupported dtype
// or when value is not of the Go type listed below for `from`; the
// conversion itself is always defined for the supported set.
// bool participates as 0/1; byte participates as a signed 8-bit integer.
//
// value must be the Go type that naturally holds `from`: float32 for F32,
// dtype.Float16 for F16, dtype.BFloat16 for BF16, float64 for F64, an
// appropriately sized int/uint for the integer dtypes, or bool for Bool.
func Cast(from, to Dtype, value any) (any, error) {
	f, err := toFloat64(from, value)
	if err != nil {
		return nil, err
	}
	return fromFloat64(to, f)
}

func toFloat64(from Dtype, value any) (float64, error) {
	switch from {
	case Bool:
		b, ok := value.(bool)
		if !ok {
			return 0, fmt.Errorf("dtype: cast: expected bool, got %T", value)
		}
		if b {
			return 1, nil
		}
		return 0, nil
	case Byte, Int8:
		return numberToFloat64[int8](value)
	case Int16:
		return numberToFloat64[int16](value)
	case Int32:
		return numberToFloat64[int32](value)
	case Int64:
		return numberToFloat64[int64](value)
	case Uint8:
		return numberToFloat64[uint8](value)
	case Uint16:
		return numberToFloat64[uint16](value)
	case Uint32:
		return numberToFloat64[uint32](value)
	case Uint64:
		return numberToFloat64[uint64](value)
	case F16:
		v, ok := value.(Float16)
		if !ok {
			return 0, fmt.Errorf("dtype: cast: expected dtype.Float16, got %T", value)
		}
		return float64(v.Float32()), nil
	case BF16:
		v, ok := value.(BFloat16)
		if !ok {
			return 0, fmt.Errorf("dtype: cast: expected dtype.BFloat16, got %T", value)
		}
		return float64(v.Float32()), nil
	case F32:
		v, ok := value.(float32)
		if !ok {
			return 0, fmt.Errorf("dtype: cast: expected float32, got %T", value)
		}
		return float64(v), nil
	case F64:
		v, ok := value.(float64)
		if !ok {
			return 0, fmt.Errorf("dtype: cast: expected float64, got %T", value)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("dtype: cast: unsupported source dtype %s", from)
	}
}

func fromFloat64(to Dtype, f float64) (any, error) {
	switch to {
	case Bool:
		return f != 0, nil
	case Byte, Int8:
		return clampFloatToInt[int8](f), nil
	case Int16:
		return clampFloatToInt[int16](f), nil
	case Int32:
		return clampFloatToInt[int32](f), nil
	case Int64:
		return clampFloatToInt[int64](f), nil
	case Uint8:
		return clampFloatToUint[uint8](f), nil
	case Uint16:
		return clampFloatToUint[uint16](f), nil
	case Uint32:
		return clampFloatToUint[uint32](f), nil
	case Uint64:
		return clampFloatToUint[uint64](f), nil
	case F16:
		return Float16FromFloat32(float32(f)), nil
	case BF16:
		return BFloat16FromFloat32(float32(f)), nil
	case F32:
		return float32(f), nil
	case F64:
		return f, nil
	default:
		return nil, fmt.Errorf("dtype: cast: unsupported destination dtype %s", to)
	}
}

// numberToFloat64 widens a concrete sized-integer scalar (given as `any`,
// holding the Go type T) to float64.
func numberToFloat64[T constraints.Integer](value any) (float64, error) {
	v, ok := value.(T)
	if !ok {
		var zero T
		return 0, fmt.Errorf("dtype: cast: expected %T, got %T", zero, value)
	}
	return float64(v), nil
}

// clampFloatToInt rounds f to nearest-even and clamps into T's signed
// range.
func clampFloatToInt[T constraints.Signed](f float64) T {
	r := math.RoundToEven(f)
	lo, hi := signedRange[T]()
	if r < lo {
		return T(lo)
	}
	if r >= hi {
		// For int64, hi is MaxInt64 rounded up to 2^63, which T cannot
		// represent; every narrower type's hi converts exactly.
		if _, ok := any(T(0)).(int64); ok {
			m := int64(math.MaxInt64)
			return T(m)
		}
		return T(hi)
	}
	return T(r)
}

// clampFloatToUint mirrors clampFloatToInt for unsigned destinations.
func clampFloatToUint[T constraints.Unsigned](f float64) T {
	r := math.RoundToEven(f)
	if r < 0 {
		return 0
	}
	hi := unsignedMax[T]()
	if r >= hi {
		return ^T(0) // all bits set: T's maximum (hi itself is 2^64 for uint64)
	}
	return T(r)
}

func signedRange[T constraints.Signed]() (lo, hi float64) {
	var zero T
	switch any(zero).(type) {
	case int8:
		return math.MinInt8, math.MaxInt8
	case int16:
		return math.MinInt16, math.MaxInt16
	case int32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

func unsignedMax[T constraints.Unsigned]() float64 {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return math.MaxUint8
	case uint16:
		return math.MaxUint16
	case uint32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}
