package transform

import(
	"fmt"

	"github.com/bionictoucan/hypia/pkg/hsarray"
	"github.com/bionictoucan/hypia/pkg/hsrand"
)

// DropMode says what happens to a dropped channel.
type DropMode string

const(
	DropZero   DropMode = "zero"   // channel kept, every element set to 0
	DropRemove DropMode = "remove" // channel deleted; the channel count shrinks
)

func (m DropMode)validate() error {
	switch m {
	case DropZero, DropRemove:
		return nil
	}
	return fmt.Errorf("%w: dropout mode '%s', wanted zero or remove", hsarray.ErrParam, m)
}

// DropChannels zeroes or removes every channel ch with drop[ch] set. In
// DropRemove mode the result is rows x cols x (channels - dropped), the only
// primitive that changes the channel count; dropping every channel is
// ErrParam since it would leave an empty image.
func DropChannels(img *hsarray.Image, drop []bool, mode DropMode) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("dropout: %w", err)
	}
	if err := mode.validate(); err != nil {
		return nil, fmt.Errorf("dropout: %w", err)
	}
	chans := img.Channels()
	if len(drop) != chans {
		return nil, fmt.Errorf("dropout: %w: %d flags for %d channels", hsarray.ErrParam, len(drop), chans)
	}

	rows, cols := img.Rows(), img.Cols()
	if mode == DropZero {
		return hsarray.Gather(img, rows, cols, chans, 0, func(r, c, ch int) int {
			if drop[ch] {
				return -1
			}
			return img.Index(r, c, ch)
		}), nil
	}

	keep := []int{}
	for ch, d := range drop {
		if !d {
			keep = append(keep, ch)
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("dropout: %w: all %d channels removed", hsarray.ErrParam, chans)
	}
	return hsarray.Gather(img, rows, cols, len(keep), 0, func(r, c, ch int) int {
		return img.Index(r, c, keep[ch])
	}), nil
}

// ChannelDropout drops each channel independently with probability P. In
// remove mode at least one channel always survives: if every draw says
// drop, one channel picked uniformly is kept.
type ChannelDropout struct {
	P    float64  `mapstructure:"p"`
	Mode DropMode `mapstructure:"mode"`
}

func (ChannelDropout)Kind() Kind   { return KindDropout }
func (ChannelDropout)isTransform() {}

func (t ChannelDropout)mode() DropMode {
	if t.Mode == "" {
		return DropZero
	}
	return t.Mode
}

func (t ChannelDropout)Validate() error {
	if !(t.P >= 0 && t.P <= 1) {
		return fmt.Errorf("dropout: %w: probability %v outside [0,1]", hsarray.ErrParam, t.P)
	}
	if err := t.mode().validate(); err != nil {
		return fmt.Errorf("dropout: %w", err)
	}
	return nil
}

func (t ChannelDropout)Apply(img *hsarray.Image, rng *hsrand.State) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("dropout: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := needRand(t.Kind(), rng); err != nil {
		return nil, err
	}

	drop := make([]bool, img.Channels())
	dropped := 0
	for ch := range drop {
		if drop[ch] = rng.Bool(t.P); drop[ch] {
			dropped++
		}
	}
	if t.mode() == DropRemove && dropped == len(drop) {
		drop[rng.Intn(len(drop))] = false
	}
	return DropChannels(img, drop, t.mode())
}
