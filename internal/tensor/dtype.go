// Package tensor provides the dense N-dimensional array used by the block
// partitioner, with strided views that share storage with their parent.
package tensor

import "math"

// DType is a constraint for supported array element types.
// It uses Go generics to ensure compile-time type safety.
type DType interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8 | ~bool
}

// Numeric is the subset of DType with arithmetic semantics.
type Numeric interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8
}

// DataType represents runtime type information for arrays.
type DataType int

// Supported data types for arrays.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
	Bool
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Uint8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// IsInteger reports whether values of the type are integral.
func (dt DataType) IsInteger() bool {
	return dt == Int32 || dt == Int64 || dt == Uint8
}

// TypeOf returns the runtime DataType of T.
func TypeOf[T DType]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case bool:
		return Bool
	default:
		panic("unsupported type")
	}
}

// ToFloat64 converts v to float64. Booleans map to 0 and 1.
func ToFloat64[T DType](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint8:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		panic("unsupported type")
	}
}

// FromFloat64 converts f to T. Integer types are rounded half to even,
// booleans are true for any non-zero value.
func FromFloat64[T DType](f float64) T {
	var out T
	switch p := any(&out).(type) {
	case *float32:
		*p = float32(f)
	case *float64:
		*p = f
	case *int32:
		*p = int32(math.RoundToEven(f))
	case *int64:
		*p = int64(math.RoundToEven(f))
	case *uint8:
		*p = uint8(math.RoundToEven(f))
	case *bool:
		*p = f != 0
	default:
		panic("unsupported type")
	}
	return out
}
