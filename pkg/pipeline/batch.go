package pipeline

import(
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bionictoucan/hypia/pkg/hsarray"
	"github.com/bionictoucan/hypia/pkg/hsrand"
)

// ApplyBatch runs the pipeline over every image concurrently. Before any
// work starts, one child State per image is spawned from state in input
// order, so the outputs depend only on state's seed and position and not on
// scheduling. Outputs come back in input order. The first failure (or ctx
// being cancelled) stops images that have not started yet and is returned;
// failures are annotated with the image's position.
func (p *Pipeline)ApplyBatch(ctx context.Context, imgs []*hsarray.Image, state *hsrand.State) ([]*hsarray.Image, error) {
	if state == nil {
		return nil, fmt.Errorf("apply batch: %w: nil random state", hsarray.ErrParam)
	}

	states := make([]*hsrand.State, len(imgs))
	for i := range states {
		states[i] = state.Spawn()
	}

	out := make([]*hsarray.Image, len(imgs))
	g, ctx := errgroup.WithContext(ctx)
	if p.concurrency > 0 {
		g.SetLimit(p.concurrency)
	}

	for i := range imgs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := p.Apply(imgs[i], states[i])
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			out[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.log.Warn().Err(err).Int("images", len(imgs)).Msg("batch failed")
		return nil, err
	}
	p.log.Debug().Int("images", len(imgs)).Msg("batch done")
	return out, nil
}
