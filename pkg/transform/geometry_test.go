package transform

import(
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bionictoucan/hypia/pkg/hsarray"
	"github.com/bionictoucan/hypia/pkg/hsrand"
)

// ramp returns a rows x cols x chans image whose element at (r, c, ch) is
// 100*r + 10*c + ch.
func ramp[T hsarray.Numeric](rows, cols, chans int) *hsarray.Image {
	data := make([]T, rows*cols*chans)
	i := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			for ch := 0; ch < chans; ch++ {
				data[i] = T(100*r + 10*c + ch)
				i++
			}
		}
	}
	img, err := hsarray.FromSlice(data, rows, cols, chans)
	if err != nil {
		panic(err)
	}
	return img
}

func values[T hsarray.Numeric](t *testing.T, img *hsarray.Image) []T {
	t.Helper()
	v, err := hsarray.Values[T](img)
	require.NoError(t, err)
	return v
}

func TestFlips(t *testing.T) {
	img := ramp[int32](2, 3, 1)

	h, err := FlipHorizontal(img)
	require.NoError(t, err)
	assert.Equal(t, []int32{20, 10, 0, 120, 110, 100}, values[int32](t, h))

	v, err := FlipVertical(img)
	require.NoError(t, err)
	assert.Equal(t, []int32{100, 110, 120, 0, 10, 20}, values[int32](t, v))

	hh, _ := FlipHorizontal(h)
	vv, _ := FlipVertical(v)
	assert.True(t, hsarray.Equal(img, hh))
	assert.True(t, hsarray.Equal(img, vv))
	assert.Equal(t, []int32{0, 10, 20, 100, 110, 120}, values[int32](t, img), "input untouched")
}

func TestRotateQuarter(t *testing.T) {
	img := ramp[uint8](2, 3, 1)

	r1, err := RotateQuarter(img, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, r1.Shape())
	// counter-clockwise: the right hand column becomes the top row
	want := []uint8{20, 120, 10, 110, 0, 100}
	if diff := cmp.Diff(want, values[uint8](t, r1)); diff != "" {
		t.Errorf("rotate 1 (-want +got):\n%s", diff)
	}

	r2, _ := RotateQuarter(img, 2)
	assert.Equal(t, []uint8{120, 110, 100, 20, 10, 0}, values[uint8](t, r2))

	r3, _ := RotateQuarter(img, 3)
	assert.Equal(t, []uint8{100, 0, 110, 10, 120, 20}, values[uint8](t, r3))

	back, _ := RotateQuarter(r1, 3)
	assert.True(t, hsarray.Equal(img, back))

	neg, _ := RotateQuarter(img, -1)
	assert.True(t, hsarray.Equal(r3, neg))

	r0, _ := RotateQuarter(img, 4)
	assert.True(t, hsarray.Equal(img, r0))
}

func TestRotateQuarterKeepsChannels(t *testing.T) {
	img := ramp[float64](4, 5, 7)
	cur := img
	for i := 0; i < 4; i++ {
		var err error
		cur, err = RotateQuarter(cur, 1)
		require.NoError(t, err)
		assert.Equal(t, 7, cur.Channels())
	}
	assert.True(t, hsarray.Equal(img, cur))
}

func TestCropRegion(t *testing.T) {
	img := ramp[int16](4, 4, 2)

	c, err := CropRegion(img, 1, 2, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2}, c.Shape())
	assert.Equal(t, []int16{120, 121, 130, 131, 220, 221, 230, 231}, values[int16](t, c))

	same, err := CropRegion(img, 0, 0, 4, 4)
	require.NoError(t, err)
	assert.True(t, hsarray.Equal(img, same))

	_, err = CropRegion(img, 0, 0, 5, 4)
	assert.ErrorIs(t, err, hsarray.ErrBounds)
	_, err = CropRegion(img, 3, 0, 2, 2)
	assert.ErrorIs(t, err, hsarray.ErrBounds)
	_, err = CropRegion(img, -1, 0, 2, 2)
	assert.ErrorIs(t, err, hsarray.ErrParam)
	_, err = CropRegion(img, 0, 0, 0, 2)
	assert.ErrorIs(t, err, hsarray.ErrParam)
}

func TestRandomCrop(t *testing.T) {
	img := ramp[float32](10, 10, 3)
	crop := Crop{Height: 4, Width: 6, Random: true}

	a, err := crop.Apply(img, hsrand.New(1))
	require.NoError(t, err)
	b, _ := crop.Apply(img, hsrand.New(1))
	assert.Equal(t, []int{4, 6, 3}, a.Shape())
	assert.True(t, hsarray.Equal(a, b))

	_, err = Crop{Height: 11, Width: 2, Random: true}.Apply(img, hsrand.New(1))
	assert.ErrorIs(t, err, hsarray.ErrBounds)

	_, err = crop.Apply(img, nil)
	assert.ErrorIs(t, err, hsarray.ErrParam)

	whole, err := Crop{Height: 10, Width: 10, Random: true}.Apply(img, hsrand.New(9))
	require.NoError(t, err)
	assert.True(t, hsarray.Equal(img, whole))
}

func TestPadBorder(t *testing.T) {
	img := ramp[uint16](1, 2, 1)

	c, err := PadBorder(img, Padding{Left: 1, Right: 2, Fill: 7})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 1}, c.Shape())
	assert.Equal(t, []uint16{7, 0, 10, 7, 7}, values[uint16](t, c))

	e, err := PadBorder(img, Padding{Top: 1, Left: 2, Mode: PadEdge})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 1}, e.Shape())
	assert.Equal(t, []uint16{0, 0, 0, 10, 0, 0, 0, 10}, values[uint16](t, e))

	s, err := PadBorder(img, Padding{Left: 3, Right: 1, Mode: PadSymmetric})
	require.NoError(t, err)
	assert.Equal(t, []uint16{10, 10, 0, 0, 10, 10}, values[uint16](t, s))

	_, err = PadBorder(img, Padding{Top: -1})
	assert.ErrorIs(t, err, hsarray.ErrParam)
	_, err = PadBorder(img, Padding{Mode: "wrap"})
	assert.ErrorIs(t, err, hsarray.ErrParam)

	sat, _ := PadBorder(ramp[int8](1, 1, 1), Padding{Left: 1, Fill: -500})
	assert.Equal(t, []int8{-128, 0}, values[int8](t, sat))
}

func TestEraseRegion(t *testing.T) {
	img := ramp[float64](3, 3, 2)

	out, err := EraseRegion(img, 1, 1, 2, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, img.Shape(), out.Shape())
	assert.Equal(t, -1.0, out.At(1, 1, 0))
	assert.Equal(t, -1.0, out.At(2, 1, 1))
	assert.Equal(t, 120.0, out.At(1, 2, 0))
	assert.Equal(t, 110.0, img.At(1, 1, 0), "input untouched")

	_, err = EraseRegion(img, 2, 2, 2, 2, 0)
	assert.ErrorIs(t, err, hsarray.ErrBounds)
}

func TestInvalidImages(t *testing.T) {
	bad := hsarray.Wrap(make([]float64, 4), 2, 2)
	for _, tr := range []Transform{HorizontalFlip{}, VerticalFlip{}, Rotate90{K: 1}, Crop{Height: 1, Width: 1}, Pad{}} {
		_, err := tr.Apply(bad, hsrand.New(1))
		assert.ErrorIs(t, err, hsarray.ErrShape, tr.Kind().String())
	}
	_, err := FlipHorizontal(hsarray.Wrap([]int{1}, 1, 1, 1))
	assert.ErrorIs(t, err, hsarray.ErrType)
}
