package emath

import(
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffineInvert(t *testing.T) {
	m := NewAffine(2, 0.5, 0.3, 0.1, 4, -7)
	inv, err := m.Invert()
	require.NoError(t, err)

	x, y := m.Apply(3, 5)
	bx, by := inv.Apply(x, y)
	assert.InDelta(t, 3.0, bx, 1e-12)
	assert.InDelta(t, 5.0, by, 1e-12)

	id := m.Mult(inv)
	for i, want := range Identity() {
		assert.InDelta(t, want, id[i], 1e-12, "element %d", i)
	}

	_, err = NewAffine(0, 1, 0, 0, 0, 0).Invert()
	assert.Error(t, err)
	_, err = Aff3{1, 2, 0,   2, 4, 0}.Invert()
	assert.Error(t, err, "parallel rows collapse the plane")
}

func TestRotateAbout(t *testing.T) {
	// With y down, a positive angle turns clockwise on screen: the point to
	// the right of centre moves below it.
	m := RotateAbout(math.Pi/2, 1, 1)
	x, y := m.Apply(2, 1)
	assert.InDelta(t, 1.0, x, 1e-12)
	assert.InDelta(t, 2.0, y, 1e-12)

	x, y = m.Apply(1, 1)
	assert.InDelta(t, 1.0, x, 1e-12)
	assert.InDelta(t, 1.0, y, 1e-12)
}

func TestGaussianBlur(t *testing.T) {
	g := NewFloatGrid(5, 3)
	g.Set(2, 1, 16)

	b := g.GaussianBlur()
	assert.InDelta(t, 4.0, b.Get(2, 1), 1e-12)
	assert.InDelta(t, 2.0, b.Get(1, 1), 1e-12)
	assert.InDelta(t, 1.0, b.Get(1, 0), 1e-12)
	assert.InDelta(t, 0.0, b.Get(0, 1), 1e-12)

	total := 0.0
	for _, v := range b.Values() {
		total += v
	}
	assert.InDelta(t, 16.0, total, 1e-9, "the kernel preserves the sum")

	line := NewFloatGrid(1, 3)
	line.Set(0, 1, 4)
	lb := line.GaussianBlur()
	assert.InDelta(t, 2.0, lb.Get(0, 1), 1e-12)
}

func TestBlurPasses(t *testing.T) {
	assert.Equal(t, 0, BlurPasses(0))
	assert.Equal(t, 1, BlurPasses(0.5))
	assert.Equal(t, 2, BlurPasses(1))
	assert.Equal(t, 8, BlurPasses(2))
}

func TestPercentiles(t *testing.T) {
	g := NewFloatGrid(10, 10)
	for i := range g.Values() {
		g.Values()[i] = float64(i)
	}
	g.Values()[0] = math.NaN()

	lo, hi := g.FindMinMaxAtPercentile(0, 1)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 99.0, hi)

	empty := NewFloatGrid(0, 0)
	lo, hi = empty.FindMinMaxAtPercentile(0.01, 0.99)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 0.0, hi)
}

func TestEdgeIndices(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 4))
	assert.Equal(t, 3, Clamp(9, 4))
	assert.Equal(t, 2, Clamp(2, 4))

	got := []int{}
	for i := -3; i < 6; i++ {
		got = append(got, Mirror(i, 3))
	}
	assert.Equal(t, []int{2, 1, 0, 0, 1, 2, 2, 1, 0}, got)
	assert.Equal(t, 0, Mirror(5, 1))
}
