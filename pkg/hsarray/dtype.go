package hsarray

import(
	"fmt"
	"math"
)

// Numeric is the set of element types an Image can hold.
type Numeric interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// A DType names the element type of an Image.
type DType int

const(
	Invalid DType = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
)

var dtypeNames = map[DType]string{
	Int8: "int8", Int16: "int16", Int32: "int32", Int64: "int64",
	Uint8: "uint8", Uint16: "uint16", Uint32: "uint32", Uint64: "uint64",
	Float32: "float32", Float64: "float64",
}

func (d DType)String() string {
	if name, exists := dtypeNames[d]; exists {
		return name
	}
	return fmt.Sprintf("DType(%d)", int(d))
}

func (d DType)IsFloat() bool    { return d == Float32 || d == Float64 }
func (d DType)IsSigned() bool   { return d >= Int8 && d <= Int64 }
func (d DType)IsUnsigned() bool { return d >= Uint8 && d <= Uint64 }
func (d DType)Valid() bool      { return d > Invalid && d <= Float64 }

// Bits is the width of one element.
func (d DType)Bits() int {
	switch d {
	case Int8, Uint8:            return 8
	case Int16, Uint16:          return 16
	case Int32, Uint32, Float32: return 32
	case Int64, Uint64, Float64: return 64
	}
	return 0
}

// IntRange returns the bounds of a signed integer kind.
func (d DType)IntRange() (int64, int64) {
	switch d {
	case Int8:  return math.MinInt8, math.MaxInt8
	case Int16: return math.MinInt16, math.MaxInt16
	case Int32: return math.MinInt32, math.MaxInt32
	}
	return math.MinInt64, math.MaxInt64
}

// UintMax returns the upper bound of an unsigned integer kind.
func (d DType)UintMax() uint64 {
	switch d {
	case Uint8:  return math.MaxUint8
	case Uint16: return math.MaxUint16
	case Uint32: return math.MaxUint32
	}
	return math.MaxUint64
}

// DTypeOf reports the DType for a Numeric type parameter.
func DTypeOf[T Numeric]() DType {
	var zero T
	return dtypeOfData([]T{zero})
}

// dtypeOfData identifies a data slice; anything that is not a slice of
// a supported element type is Invalid.
func dtypeOfData(data any) DType {
	switch data.(type) {
	case []int8:    return Int8
	case []int16:   return Int16
	case []int32:   return Int32
	case []int64:   return Int64
	case []uint8:   return Uint8
	case []uint16:  return Uint16
	case []uint32:  return Uint32
	case []uint64:  return Uint64
	case []float32: return Float32
	case []float64: return Float64
	}
	return Invalid
}

// makeData allocates a zeroed slice of the given kind.
func makeData(d DType, n int) any {
	switch d {
	case Int8:    return make([]int8, n)
	case Int16:   return make([]int16, n)
	case Int32:   return make([]int32, n)
	case Int64:   return make([]int64, n)
	case Uint8:   return make([]uint8, n)
	case Uint16:  return make([]uint16, n)
	case Uint32:  return make([]uint32, n)
	case Uint64:  return make([]uint64, n)
	case Float32: return make([]float32, n)
	case Float64: return make([]float64, n)
	}
	return nil
}

func dataLen(data any) int {
	switch d := data.(type) {
	case []int8:    return len(d)
	case []int16:   return len(d)
	case []int32:   return len(d)
	case []int64:   return len(d)
	case []uint8:   return len(d)
	case []uint16:  return len(d)
	case []uint32:  return len(d)
	case []uint64:  return len(d)
	case []float32: return len(d)
	case []float64: return len(d)
	}
	return -1
}
