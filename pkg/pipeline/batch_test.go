package pipeline

import(
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bionictoucan/hypia/pkg/hsarray"
	"github.com/bionictoucan/hypia/pkg/hsrand"
	"github.com/bionictoucan/hypia/pkg/transform"
)

func batchPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	p, err := New([]Stage{
		NewStage(transform.HorizontalFlip{}, 0.5),
		Always(transform.Rotate90{Random: true}),
		Always(transform.Noise{Distribution: transform.Distribution{Std: 0.1}}),
		Always(transform.ChannelDropout{P: 0.3, Mode: transform.DropRemove}),
	}, opts...)
	require.NoError(t, err)
	return p
}

func TestApplyBatchIsDeterministic(t *testing.T) {
	imgs := []*hsarray.Image{}
	for i := 0; i < 12; i++ {
		imgs = append(imgs, testImage(4, 6, 5))
	}

	serial := batchPipeline(t, WithConcurrency(1))
	parallel := batchPipeline(t, WithConcurrency(4))

	a, err := serial.ApplyBatch(context.Background(), imgs, hsrand.New(8))
	require.NoError(t, err)
	b, err := parallel.ApplyBatch(context.Background(), imgs, hsrand.New(8))
	require.NoError(t, err)

	require.Len(t, a, len(imgs))
	for i := range a {
		assert.True(t, hsarray.Equal(a[i], b[i]), "image %d", i)
	}

	// each image is what Apply gives it with the i'th spawned state
	parent := hsrand.New(8)
	kids := []*hsrand.State{}
	for range imgs {
		kids = append(kids, parent.Spawn())
	}
	for i, img := range imgs {
		want, err := serial.Apply(img, kids[i])
		require.NoError(t, err)
		assert.True(t, hsarray.Equal(want, a[i]), "image %d", i)
	}
}

func TestApplyBatchErrors(t *testing.T) {
	p := batchPipeline(t)
	imgs := []*hsarray.Image{testImage(3, 3, 2), hsarray.Wrap([]float64{1}, 1, 1), testImage(3, 3, 2)}

	out, err := p.ApplyBatch(context.Background(), imgs, hsrand.New(1))
	assert.Nil(t, out)
	assert.ErrorIs(t, err, hsarray.ErrShape)
	assert.Contains(t, err.Error(), "image 1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.ApplyBatch(ctx, []*hsarray.Image{testImage(3, 3, 2)}, hsrand.New(1))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = p.ApplyBatch(context.Background(), imgs, nil)
	assert.ErrorIs(t, err, hsarray.ErrParam)

	empty, err := p.ApplyBatch(context.Background(), nil, hsrand.New(1))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
