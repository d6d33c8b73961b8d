package hsarray

import(
	"math"
	"math/big"
)

// Storing a computed value back into an element follows one policy per kind:
//
//   float32, float64  IEEE-754, no clamping; float32 overflow becomes +-Inf
//   signed ints       round half away from zero, saturate at the type bounds
//   unsigned ints     round half away from zero, saturate at 0 and the max
//
// NaN stored into an integer kind becomes 0.

const(
	two63 = 9223372036854775808.0  // 2^63, float64(math.MaxInt64) rounds up to this
	two64 = 18446744073709551616.0 // 2^64
)

func fromFloat[T Numeric](dt DType, f float64) T {
	switch {
	case dt == Float64:
		return T(f)
	case dt == Float32:
		if f > math.MaxFloat32 {
			return T(math.Inf(1))
		}
		if f < -math.MaxFloat32 {
			return T(math.Inf(-1))
		}
		return T(f)
	case dt.IsSigned():
		return T(saturateInt(dt, f))
	}
	return T(saturateUint(dt, f))
}

func saturateInt(dt DType, f float64) int64 {
	if math.IsNaN(f) {
		return 0
	}
	f = math.Round(f)
	lo, hi := dt.IntRange()
	if f <= float64(lo) {
		return lo
	}
	if f >= float64(hi) {
		return hi
	}
	return int64(f)
}

func saturateUint(dt DType, f float64) uint64 {
	if math.IsNaN(f) {
		return 0
	}
	f = math.Round(f)
	if f <= 0 {
		return 0
	}
	hi := dt.UintMax()
	if f >= float64(hi) {
		return hi
	}
	return uint64(f)
}

// addSample adds d to v; a zero delta leaves v bit-identical. Integer kinds add the rounded delta exactly in the
// integer domain, so the pixel value never takes a float64 round trip.
func addSample[T Numeric](dt DType, v T, d float64) T {
	switch {
	case d == 0:
		return v
	case dt.IsFloat():
		return fromFloat[T](dt, float64(v)+d)
	case dt.IsSigned():
		return T(addInt(dt, int64(v), d))
	}
	return T(addUint(dt, uint64(v), d))
}

func addInt(dt DType, v int64, d float64) int64 {
	if math.IsNaN(d) {
		return 0
	}
	d = math.Round(d)
	lo, hi := dt.IntRange()
	if d >= two63 {
		return hi
	}
	if d <= -two63 {
		return lo
	}
	di := int64(d)
	if di > 0 && v > hi-di {
		return hi
	}
	if di < 0 && v < lo-di {
		return lo
	}
	return v + di
}

func addUint(dt DType, v uint64, d float64) uint64 {
	if math.IsNaN(d) {
		return 0
	}
	d = math.Round(d)
	hi := dt.UintMax()
	if d >= 0 {
		if d >= two64 {
			return hi
		}
		du := uint64(d)
		if du > hi-v {
			return hi
		}
		return v + du
	}
	if -d >= two64 {
		return 0
	}
	du := uint64(-d)
	if du > v {
		return 0
	}
	return v - du
}

// scaleSample multiplies v by f. 64-bit integers go through 128-bit
// big.Float arithmetic so magnitudes above 2^53 keep their low bits.
func scaleSample[T Numeric](dt DType, v T, f float64) T {
	if f == 1 {
		return v
	}
	switch dt {
	case Int64:
		return T(scaleInt64(int64(v), f))
	case Uint64:
		return T(scaleUint64(uint64(v), f))
	}
	return fromFloat[T](dt, float64(v)*f)
}

func scaleInt64(v int64, f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case v == 0:
		return 0
	case math.IsInf(f, 0):
		if (v > 0) == (f > 0) {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	x := new(big.Float).SetPrec(128).SetInt64(v)
	x.Mul(x, new(big.Float).SetPrec(128).SetFloat64(f))
	roundHalfAway(x)
	r, _ := x.Int64() // truncates toward zero, saturates at the int64 bounds
	return r
}

func scaleUint64(v uint64, f float64) uint64 {
	switch {
	case math.IsNaN(f), v == 0, f <= 0:
		return 0
	case math.IsInf(f, 1):
		return math.MaxUint64
	}
	x := new(big.Float).SetPrec(128).SetUint64(v)
	x.Mul(x, new(big.Float).SetPrec(128).SetFloat64(f))
	roundHalfAway(x)
	r, _ := x.Uint64() // truncates toward zero, saturates at the uint64 bounds
	return r
}

func roundHalfAway(x *big.Float) {
	half := big.NewFloat(0.5)
	if x.Sign() < 0 {
		x.Sub(x, half)
	} else {
		x.Add(x, half)
	}
}
