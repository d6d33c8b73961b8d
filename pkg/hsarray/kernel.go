package hsarray

import(
	"fmt"

	"github.com/bionictoucan/hypia/pkg/emath"
)

// The kernels below are the only code that touches typed element data.
// Transforms describe what they want (an index remap, a per-element delta,
// a set of interpolation taps) and the kernel runs it for whatever element
// type the image holds, always into a freshly allocated image. Callers are
// expected to have validated src.

// A Tap is one weighted source pixel of an interpolated output pixel.
type Tap struct {
	Pixel  int     // r*cols + c in the source image
	Weight float64
}

type kernelOp int

const(
	opGather kernelOp = iota
	opAdd
	opScale
	opMapFloat
	opResample
	opPlanes
)

type kernel struct {
	op     kernelOp
	shape  [3]int  // output shape

	index  []int   // opGather: source offset per output element, -1 for fill
	fill   float64 // opGather, opResample

	perElement func(i, ch int) float64           // opAdd delta, opScale factor
	mapFloat   func(v float64, ch int) float64   // opMapFloat
	taps       func(r, c int, buf []Tap) []Tap   // opResample
	planes     []emath.FloatGrid                 // opPlanes
}

// Gather builds a rows x cols x channels image where each element is copied
// from the source offset index(r, c, ch) returns, or is fill (stored with
// the saturation policy) when index returns -1. Copies are exact for every
// element type.
func Gather(src *Image, rows, cols, channels int, fill float64, index func(r, c, ch int) int) *Image {
	idx := make([]int, rows*cols*channels)
	i := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			for ch := 0; ch < channels; ch++ {
				idx[i] = index(r, c, ch)
				i++
			}
		}
	}
	return run(src, &kernel{op: opGather, shape: [3]int{rows, cols, channels}, index: idx, fill: fill})
}

// AddEach adds delta(i, ch) to every element, visiting flat offsets in
// increasing order (so a delta drawing random numbers is reproducible).
func AddEach(src *Image, delta func(i, ch int) float64) *Image {
	return run(src, &kernel{op: opAdd, shape: shape3(src), perElement: delta})
}

// ScaleEach multiplies every element by factor(i, ch), visiting flat
// offsets in increasing order.
func ScaleEach(src *Image, factor func(i, ch int) float64) *Image {
	return run(src, &kernel{op: opScale, shape: shape3(src), perElement: factor})
}

// MapFloat replaces every element v with fn(v, ch). It is only defined for
// floating point images; integer images give ErrType rather than a silent
// quantisation of the result.
func MapFloat(src *Image, fn func(v float64, ch int) float64) (*Image, error) {
	if !src.DType().IsFloat() {
		return nil, fmt.Errorf("%w: %s image, need float32 or float64", ErrType, src.DType())
	}
	return run(src, &kernel{op: opMapFloat, shape: shape3(src), mapFloat: fn}), nil
}

// Resample builds a rows x cols image (same channel count) where each output
// pixel is the weighted sum of the source pixels taps(r, c) returns, applied
// per channel. No taps means the pixel is fill. A single tap of weight 1 is
// an exact copy; anything else is accumulated in float64 and stored with
// the saturation policy.
func Resample(src *Image, rows, cols int, fill float64, taps func(r, c int, buf []Tap) []Tap) *Image {
	return run(src, &kernel{op: opResample, shape: [3]int{rows, cols, src.Channels()}, fill: fill, taps: taps})
}

func shape3(img *Image) [3]int {
	return [3]int{img.Rows(), img.Cols(), img.Channels()}
}

func run(src *Image, k *kernel) *Image {
	var out any
	switch d := src.data.(type) {
	case []int8:    out = exec(d, k)
	case []int16:   out = exec(d, k)
	case []int32:   out = exec(d, k)
	case []int64:   out = exec(d, k)
	case []uint8:   out = exec(d, k)
	case []uint16:  out = exec(d, k)
	case []uint32:  out = exec(d, k)
	case []uint64:  out = exec(d, k)
	case []float32: out = exec(d, k)
	case []float64: out = exec(d, k)
	default:
		panic(fmt.Sprintf("hsarray: kernel on unvalidated data %T", src.data))
	}
	return &Image{shape: []int{k.shape[0], k.shape[1], k.shape[2]}, data: out}
}

func exec[T Numeric](src []T, k *kernel) []T {
	dt := DTypeOf[T]()
	rows, cols, chans := k.shape[0], k.shape[1], k.shape[2]
	out := make([]T, rows*cols*chans)

	switch k.op {
	case opGather:
		fill := fromFloat[T](dt, k.fill)
		for i, from := range k.index {
			if from < 0 {
				out[i] = fill
			} else {
				out[i] = src[from]
			}
		}

	case opAdd:
		for i, v := range src {
			out[i] = addSample(dt, v, k.perElement(i, i%chans))
		}

	case opScale:
		for i, v := range src {
			out[i] = scaleSample(dt, v, k.perElement(i, i%chans))
		}

	case opMapFloat:
		for i, v := range src {
			out[i] = fromFloat[T](dt, k.mapFloat(float64(v), i%chans))
		}

	case opResample:
		fill := fromFloat[T](dt, k.fill)
		buf := make([]Tap, 0, 4)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				base := (r*cols + c) * chans
				taps := k.taps(r, c, buf[:0])
				switch {
				case len(taps) == 0:
					for ch := 0; ch < chans; ch++ {
						out[base+ch] = fill
					}
				case len(taps) == 1 && taps[0].Weight == 1:
					from := taps[0].Pixel * chans
					copy(out[base:base+chans], src[from:from+chans])
				default:
					for ch := 0; ch < chans; ch++ {
						acc := 0.0
						for _, t := range taps {
							acc += t.Weight * float64(src[t.Pixel*chans+ch])
						}
						out[base+ch] = fromFloat[T](dt, acc)
					}
				}
			}
		}

	case opPlanes:
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				for ch := 0; ch < chans; ch++ {
					out[(r*cols+c)*chans+ch] = fromFloat[T](dt, k.planes[ch].Get(c, r))
				}
			}
		}
	}

	return out
}
