package hsarray

import(
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFloat(t *testing.T) {
	assert.Equal(t, int8(127), fromFloat[int8](Int8, 1000))
	assert.Equal(t, int8(-128), fromFloat[int8](Int8, -1000))
	assert.Equal(t, int8(3), fromFloat[int8](Int8, 2.5), "half away from zero")
	assert.Equal(t, int8(-3), fromFloat[int8](Int8, -2.5))
	assert.Equal(t, int8(0), fromFloat[int8](Int8, math.NaN()))

	assert.Equal(t, uint8(0), fromFloat[uint8](Uint8, -4))
	assert.Equal(t, uint8(255), fromFloat[uint8](Uint8, 255.6))
	assert.Equal(t, uint16(65535), fromFloat[uint16](Uint16, math.Inf(1)))

	assert.Equal(t, int64(math.MaxInt64), fromFloat[int64](Int64, 1e300))
	assert.Equal(t, int64(math.MinInt64), fromFloat[int64](Int64, -1e300))
	assert.Equal(t, uint64(math.MaxUint64), fromFloat[uint64](Uint64, 1e20))

	assert.True(t, math.IsInf(float64(fromFloat[float32](Float32, 1e39)), 1))
	assert.True(t, math.IsInf(float64(fromFloat[float32](Float32, -1e39)), -1))
	assert.Equal(t, 1e300, fromFloat[float64](Float64, 1e300))
}

func TestAddSample(t *testing.T) {
	assert.Equal(t, int16(32767), addSample(Int16, int16(32760), 100))
	assert.Equal(t, int16(-32768), addSample(Int16, int16(-32760), -100))
	assert.Equal(t, int16(13), addSample(Int16, int16(10), 2.5))
	assert.Equal(t, uint32(0), addSample(Uint32, uint32(5), -6))
	assert.Equal(t, uint32(math.MaxUint32), addSample(Uint32, uint32(math.MaxUint32-1), 3))

	// 64-bit values above 2^53 keep their low bits.
	big := int64(1<<60 + 1)
	assert.Equal(t, big+2, addSample(Int64, big, 2))
	assert.Equal(t, int64(math.MaxInt64), addSample(Int64, int64(math.MaxInt64-1), 5))
	assert.Equal(t, uint64(math.MaxUint64), addSample(Uint64, uint64(math.MaxUint64-1), 1e30))
	assert.Equal(t, uint64(1<<60+3), addSample(Uint64, uint64(1<<60+1), 2))

	negZero := float32(math.Copysign(0, -1))
	assert.Equal(t, math.Float32bits(negZero), math.Float32bits(addSample(Float32, negZero, 0)))
	assert.Equal(t, float64(1.5), addSample(Float64, 1.0, 0.5))
}

func TestScaleSample(t *testing.T) {
	assert.Equal(t, uint8(255), scaleSample(Uint8, uint8(200), 2))
	assert.Equal(t, uint8(0), scaleSample(Uint8, uint8(200), -1))
	assert.Equal(t, int8(-128), scaleSample(Int8, int8(100), -2))
	assert.Equal(t, int32(5), scaleSample(Int32, int32(3), 1.5), "4.5 rounds up")

	big := int64(1<<60 + 1)
	assert.Equal(t, 2*big, scaleSample(Int64, big, 2))
	assert.Equal(t, int64(math.MaxInt64), scaleSample(Int64, big, 16))
	assert.Equal(t, int64(math.MinInt64), scaleSample(Int64, big, math.Inf(-1)))
	assert.Equal(t, int64(0), scaleSample(Int64, big, math.NaN()))

	ubig := uint64(1<<62 + 1)
	assert.Equal(t, 3*ubig, scaleSample(Uint64, ubig, 3))
	assert.Equal(t, uint64(math.MaxUint64), scaleSample(Uint64, ubig, 5))
	assert.Equal(t, uint64(0), scaleSample(Uint64, ubig, -1))

	assert.True(t, math.IsInf(float64(scaleSample(Float32, float32(3e38), 10)), 1))
}
