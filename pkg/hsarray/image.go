// Package hsarray is the array contract shared by every transform: a
// [rows, cols, channels] image holding one fixed-width numeric element type.
//
// Data is stored flat and row-major with the channel axis fastest, so the
// element at (r, c, ch) lives at (r*cols + c)*channels + ch. An Image is a
// value: nothing in this module writes to the data of an Image it was given.
package hsarray

import(
	"fmt"
	"math"
)

// Image is a three axis numeric array.
type Image struct {
	shape []int
	data  any // []T for some Numeric T
}

// New returns a zeroed rows x cols x channels image of element type T.
// Non-positive dimensions give an image that fails Validate.
func New[T Numeric](rows, cols, channels int) *Image {
	n := 0
	if rows > 0 && cols > 0 && channels > 0 {
		n = rows * cols * channels
	}
	return &Image{shape: []int{rows, cols, channels}, data: make([]T, n)}
}

// FromSlice wraps data (row-major, channel fastest) as an image and
// validates it. The image takes ownership of data.
func FromSlice[T Numeric](data []T, rows, cols, channels int) (*Image, error) {
	img := Wrap(data, rows, cols, channels)
	if err := Validate(img); err != nil {
		return nil, err
	}
	return img, nil
}

// Wrap adopts a caller-provided array without checking it; run Validate
// before relying on it. Transforms validate on entry.
func Wrap(data any, shape ...int) *Image {
	return &Image{shape: append([]int(nil), shape...), data: data}
}

// Validate checks the array contract: exactly three axes, every dimension
// at least 1, a data slice of a supported element type whose length matches
// the shape.
func Validate(img *Image) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrShape)
	}
	if len(img.shape) != 3 {
		return fmt.Errorf("%w: want 3 axes (rows, cols, channels), got %d %v", ErrShape, len(img.shape), img.shape)
	}
	for i, dim := range img.shape {
		if dim <= 0 {
			return fmt.Errorf("%w: axis %d has size %d", ErrShape, i, dim)
		}
	}
	if !dtypeOfData(img.data).Valid() {
		return fmt.Errorf("%w: unsupported element data %T", ErrType, img.data)
	}
	if n, want := dataLen(img.data), img.shape[0]*img.shape[1]*img.shape[2]; n != want {
		return fmt.Errorf("%w: shape %v needs %d elements, data has %d", ErrShape, img.shape, want, n)
	}
	return nil
}

func (img *Image)dim(i int) int {
	if len(img.shape) <= i {
		return 0
	}
	return img.shape[i]
}

func (img *Image)Rows() int     { return img.dim(0) }
func (img *Image)Cols() int     { return img.dim(1) }
func (img *Image)Channels() int { return img.dim(2) }
func (img *Image)Len() int      { return dataLen(img.data) }
func (img *Image)DType() DType  { return dtypeOfData(img.data) }

// Shape returns a copy of the image's shape.
func (img *Image)Shape() []int { return append([]int(nil), img.shape...) }

// Data returns the underlying slice. Treat it as read-only.
func (img *Image)Data() any { return img.data }

// Index returns the flat offset of (r, c, ch).
func (img *Image)Index(r, c, ch int) int {
	return (r*img.Cols() + c)*img.Channels() + ch
}

// At returns the element at (r, c, ch) widened to float64. 64-bit integers
// beyond 2^53 lose their low bits here; use Values for exact access.
func (img *Image)At(r, c, ch int) float64 {
	i := img.Index(r, c, ch)
	switch d := img.data.(type) {
	case []int8:    return float64(d[i])
	case []int16:   return float64(d[i])
	case []int32:   return float64(d[i])
	case []int64:   return float64(d[i])
	case []uint8:   return float64(d[i])
	case []uint16:  return float64(d[i])
	case []uint32:  return float64(d[i])
	case []uint64:  return float64(d[i])
	case []float32: return float64(d[i])
	case []float64: return d[i]
	}
	return math.NaN()
}

// Values returns a copy of the image data as []T; it fails with ErrType if
// the image does not hold T.
func Values[T Numeric](img *Image) ([]T, error) {
	d, ok := img.data.([]T)
	if !ok {
		return nil, fmt.Errorf("%w: image holds %s, not %s", ErrType, img.DType(), DTypeOf[T]())
	}
	return append([]T(nil), d...), nil
}

// Clone returns a deep copy.
func (img *Image)Clone() *Image {
	out := &Image{shape: img.Shape(), data: makeData(img.DType(), img.Len())}
	copyData(out.data, img.data)
	return out
}

func copyData(dst, src any) {
	switch s := src.(type) {
	case []int8:    copy(dst.([]int8), s)
	case []int16:   copy(dst.([]int16), s)
	case []int32:   copy(dst.([]int32), s)
	case []int64:   copy(dst.([]int64), s)
	case []uint8:   copy(dst.([]uint8), s)
	case []uint16:  copy(dst.([]uint16), s)
	case []uint32:  copy(dst.([]uint32), s)
	case []uint64:  copy(dst.([]uint64), s)
	case []float32: copy(dst.([]float32), s)
	case []float64: copy(dst.([]float64), s)
	}
}

// Equal reports whether two images have the same shape, element type and
// bit-identical elements (so NaN equals a NaN with the same payload, and
// 0 does not equal -0).
func Equal(a, b *Image) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.shape) != len(b.shape) || a.DType() != b.DType() {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}

	switch x := a.data.(type) {
	case []int8:    return equalSlices(x, b.data.([]int8))
	case []int16:   return equalSlices(x, b.data.([]int16))
	case []int32:   return equalSlices(x, b.data.([]int32))
	case []int64:   return equalSlices(x, b.data.([]int64))
	case []uint8:   return equalSlices(x, b.data.([]uint8))
	case []uint16:  return equalSlices(x, b.data.([]uint16))
	case []uint32:  return equalSlices(x, b.data.([]uint32))
	case []uint64:  return equalSlices(x, b.data.([]uint64))
	case []float32:
		y := b.data.([]float32)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if math.Float32bits(x[i]) != math.Float32bits(y[i]) {
				return false
			}
		}
		return true
	case []float64:
		y := b.data.([]float64)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if math.Float64bits(x[i]) != math.Float64bits(y[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func equalSlices[T comparable](x, y []T) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

func (img *Image)String() string {
	return fmt.Sprintf("Image[%v %s]", img.shape, img.DType())
}
