package transform

import(
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bionictoucan/hypia/pkg/hsarray"
)

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, len(kindNames))
	assert.Contains(t, names, "hflip")
	assert.Contains(t, names, "dropout")
	assert.IsIncreasing(t, names)

	for _, name := range names {
		k, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, name, k.String())
	}

	_, err := ParseKind("sharpen")
	assert.ErrorIs(t, err, hsarray.ErrParam)
}

func TestNewEveryKindHasDefaults(t *testing.T) {
	needSize := map[string]bool{"crop": true, "erase": true, "zoom": true, "resize": true}
	for _, name := range Names() {
		params := map[string]interface{}{}
		if needSize[name] {
			params = map[string]interface{}{"height": 2, "width": 2}
		}
		tr, err := New(name, params)
		require.NoError(t, err, name)
		assert.Equal(t, name, tr.Kind().String())
	}
}

func TestNewDecodesParams(t *testing.T) {
	tr, err := New("crop", map[string]interface{}{"height": 4, "width": "5", "random": true})
	require.NoError(t, err)
	assert.Equal(t, Crop{Height: 4, Width: 5, Random: true}, tr)

	tr, err = New("rotate", map[string]interface{}{"max_angle": 0.25, "order": 0})
	require.NoError(t, err)
	assert.Equal(t, RandomRotate{MinAngle: -1*math.Pi/12, MaxAngle: 0.25, Interpolation: Nearest}, tr)

	tr, err = New("noise", map[string]interface{}{"op": "multiply", "std": 0.05})
	require.NoError(t, err)
	n := tr.(Noise)
	assert.Equal(t, NoiseMultiply, n.Op)
	assert.Equal(t, 1.0, n.Mean)
	assert.Equal(t, 0.05, n.Std)

	tr, err = New("normalise", map[string]interface{}{"mean": []interface{}{1, 2.5}, "std": []interface{}{2, 2}})
	require.NoError(t, err)
	assert.Equal(t, Normalise{Mean: []float64{1, 2.5}, Std: []float64{2, 2}}, tr)

	tr, err = New("pad", map[string]interface{}{"left": 2, "mode": "symmetric"})
	require.NoError(t, err)
	assert.Equal(t, Pad{Left: 2, Mode: PadSymmetric}, tr)

	tr, err = New("hflip", nil)
	require.NoError(t, err)
	assert.Equal(t, HorizontalFlip{}, tr)
}

func TestNewRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]interface{}
	}{
		{"hflip", map[string]interface{}{"k": 1}},
		{"crop", map[string]interface{}{"height": 2, "widht": 2}},
		{"crop", map[string]interface{}{"height": "tall", "width": 2}},
		{"crop", map[string]interface{}{"height": -2, "width": 2}},
		{"pad", map[string]interface{}{"top": -1}},
		{"rotate", map[string]interface{}{"order": 3}},
		{"dropout", map[string]interface{}{"p": 2}},
		{"noise", map[string]interface{}{"dist": "cauchy"}},
		{"affine", map[string]interface{}{"rotation": "NaN"}},
		{"jitter", map[string]interface{}{"min": 3}},
		{"blur", nil},
	}
	for _, tc := range tests {
		_, err := New(tc.name, tc.params)
		assert.ErrorIs(t, err, hsarray.ErrParam, "%s %v", tc.name, tc.params)
	}
}
