package hsarray

import(
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bionictoucan/hypia/pkg/emath"
)

func TestPlanesRoundTrip(t *testing.T) {
	img, _ := FromSlice([]uint16{1, 10, 2, 20, 3, 30, 4, 40}, 2, 2, 2)

	planes, err := Planes(img)
	require.NoError(t, err)
	require.Len(t, planes, 2)
	assert.Equal(t, 2, planes[1].Dx())
	assert.Equal(t, 30.0, planes[1].Get(0, 1))

	back, err := FromPlanes(Uint16, planes)
	require.NoError(t, err)
	assert.True(t, Equal(img, back))

	_, err = Plane(img, 2)
	assert.ErrorIs(t, err, ErrParam)

	_, err = FromPlanes(Uint16, []emath.FloatGrid{emath.NewFloatGrid(2, 2), emath.NewFloatGrid(3, 2)})
	assert.ErrorIs(t, err, ErrShape)
	_, err = FromPlanes(Invalid, planes)
	assert.ErrorIs(t, err, ErrType)
}

func TestStats(t *testing.T) {
	img, _ := FromSlice([]float64{1, 5, 3, 5}, 2, 1, 2)

	stats, err := Stats(img)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, 1.0, stats[0].Min)
	assert.Equal(t, 3.0, stats[0].Max)
	assert.InDelta(t, 2.0, stats[0].Mean, 1e-12)
	assert.InDelta(t, 1.0, stats[0].StdDev, 1e-12)
	assert.Equal(t, 0.0, stats[1].StdDev)

	_, err = Stats(Wrap([]float64{1}, 1, 1))
	assert.ErrorIs(t, err, ErrShape)
}

func TestPreview(t *testing.T) {
	img := New[float32](8, 12, 3)
	vals := img.Data().([]float32)
	for i := range vals {
		vals[i] = float32(math.Sin(float64(i)))
	}

	pic, err := Preview(img, 1, "band 1")
	require.NoError(t, err)
	assert.Equal(t, 12, pic.Bounds().Dx())
	assert.Equal(t, 8, pic.Bounds().Dy())

	_, err = Preview(img, 3, "nope")
	assert.ErrorIs(t, err, ErrParam)
}
