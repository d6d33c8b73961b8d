package transform

import(
	"fmt"

	"github.com/bionictoucan/hypia/pkg/emath"
	"github.com/bionictoucan/hypia/pkg/hsarray"
	"github.com/bionictoucan/hypia/pkg/hsrand"
)

// Index remapping transforms: every output pixel is an exact copy of one
// source pixel (or the fill value), so these are lossless for every element
// type.

// remap builds a rows x cols image, with the same channels, where output
// pixel (r, c) comes from the source pixel from(r, c) returns; ok == false
// means fill.
func remap(img *hsarray.Image, rows, cols int, fill float64, from func(r, c int) (sr, sc int, ok bool)) *hsarray.Image {
	srcCols, chans := img.Cols(), img.Channels()
	return hsarray.Gather(img, rows, cols, chans, fill, func(r, c, ch int) int {
		sr, sc, ok := from(r, c)
		if !ok {
			return -1
		}
		return (sr*srcCols + sc)*chans + ch
	})
}

// FlipHorizontal reverses the column axis.
func FlipHorizontal(img *hsarray.Image) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("hflip: %w", err)
	}
	rows, cols := img.Rows(), img.Cols()
	return remap(img, rows, cols, 0, func(r, c int) (int, int, bool) { return r, cols-1-c, true }), nil
}

// FlipVertical reverses the row axis.
func FlipVertical(img *hsarray.Image) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("vflip: %w", err)
	}
	rows, cols := img.Rows(), img.Cols()
	return remap(img, rows, cols, 0, func(r, c int) (int, int, bool) { return rows-1-r, c, true }), nil
}

// RotateQuarter rotates by k*90 degrees counter-clockwise; k may be any
// integer and is taken mod 4. Odd k swaps rows and cols.
func RotateQuarter(img *hsarray.Image, k int) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("rotate90: %w", err)
	}
	rows, cols := img.Rows(), img.Cols()

	switch ((k % 4) + 4) % 4 {
	case 1:
		return remap(img, cols, rows, 0, func(r, c int) (int, int, bool) { return c, cols-1-r, true }), nil
	case 2:
		return remap(img, rows, cols, 0, func(r, c int) (int, int, bool) { return rows-1-r, cols-1-c, true }), nil
	case 3:
		return remap(img, cols, rows, 0, func(r, c int) (int, int, bool) { return rows-1-c, r, true }), nil
	}
	return img.Clone(), nil
}

// checkRegion validates a height x width box at (top, left) against the
// image extents.
func checkRegion(img *hsarray.Image, top, left, height, width int) error {
	if height <= 0 || width <= 0 {
		return fmt.Errorf("%w: region %dx%d has no area", hsarray.ErrParam, height, width)
	}
	if top < 0 || left < 0 {
		return fmt.Errorf("%w: region offset (%d,%d) is negative", hsarray.ErrParam, top, left)
	}
	if top+height > img.Rows() || left+width > img.Cols() {
		return fmt.Errorf("%w: region %dx%d at (%d,%d) exceeds %dx%d image", hsarray.ErrBounds,
			height, width, top, left, img.Rows(), img.Cols())
	}
	return nil
}

// CropRegion extracts the height x width region whose top-left corner is at
// (top, left). The result is height x width x channels. A region reaching
// past the image is ErrBounds; it is never clipped.
func CropRegion(img *hsarray.Image, top, left, height, width int) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("crop: %w", err)
	}
	if err := checkRegion(img, top, left, height, width); err != nil {
		return nil, fmt.Errorf("crop: %w", err)
	}
	return remap(img, height, width, 0, func(r, c int) (int, int, bool) { return top+r, left+c, true }), nil
}

// EraseRegion sets every channel of the height x width region at (top, left)
// to value (stored with the saturation policy). Shape is unchanged.
func EraseRegion(img *hsarray.Image, top, left, height, width int, value float64) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("erase: %w", err)
	}
	if err := checkRegion(img, top, left, height, width); err != nil {
		return nil, fmt.Errorf("erase: %w", err)
	}
	inside := func(r, c int) bool { return r >= top && r < top+height && c >= left && c < left+width }
	return remap(img, img.Rows(), img.Cols(), value, func(r, c int) (int, int, bool) { return r, c, !inside(r, c) }), nil
}

// PadMode says what goes into the border added by PadBorder.
type PadMode string

const(
	PadConstant  PadMode = "constant"  // the fill value
	PadEdge      PadMode = "edge"      // replicate the nearest edge pixel
	PadSymmetric PadMode = "symmetric" // mirror the image, repeating the edge
)

func (m PadMode)validate() error {
	switch m {
	case PadConstant, PadEdge, PadSymmetric:
		return nil
	}
	return fmt.Errorf("%w: pad mode '%s', wanted constant, edge or symmetric", hsarray.ErrParam, m)
}

// Padding describes the border added to each side.
type Padding struct {
	Top, Bottom, Left, Right int
	Mode PadMode
	Fill float64 // PadConstant only
}

func (p Padding)validate() error {
	if p.Top < 0 || p.Bottom < 0 || p.Left < 0 || p.Right < 0 {
		return fmt.Errorf("%w: negative padding (%d,%d,%d,%d)", hsarray.ErrParam, p.Top, p.Bottom, p.Left, p.Right)
	}
	return p.Mode.validate()
}

// PadBorder adds a border; the result is (rows+top+bottom) x
// (cols+left+right) x channels. An empty Mode means PadConstant.
func PadBorder(img *hsarray.Image, p Padding) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("pad: %w", err)
	}
	if p.Mode == "" {
		p.Mode = PadConstant
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("pad: %w", err)
	}

	rows, cols := img.Rows(), img.Cols()
	outRows, outCols := rows+p.Top+p.Bottom, cols+p.Left+p.Right

	return remap(img, outRows, outCols, p.Fill, func(r, c int) (int, int, bool) {
		sr, sc := r-p.Top, c-p.Left
		switch p.Mode {
		case PadEdge:
			return emath.Clamp(sr, rows), emath.Clamp(sc, cols), true
		case PadSymmetric:
			return emath.Mirror(sr, rows), emath.Mirror(sc, cols), true
		}
		if sr < 0 || sr >= rows || sc < 0 || sc >= cols {
			return 0, 0, false
		}
		return sr, sc, true
	}), nil
}

// HorizontalFlip mirrors left to right.
type HorizontalFlip struct{}

func (HorizontalFlip)Kind() Kind      { return KindHFlip }
func (HorizontalFlip)Validate() error { return nil }
func (HorizontalFlip)isTransform()    {}

func (HorizontalFlip)Apply(img *hsarray.Image, _ *hsrand.State) (*hsarray.Image, error) {
	return FlipHorizontal(img)
}

// VerticalFlip mirrors top to bottom.
type VerticalFlip struct{}

func (VerticalFlip)Kind() Kind      { return KindVFlip }
func (VerticalFlip)Validate() error { return nil }
func (VerticalFlip)isTransform()    {}

func (VerticalFlip)Apply(img *hsarray.Image, _ *hsrand.State) (*hsarray.Image, error) {
	return FlipVertical(img)
}

// Rotate90 rotates by K quarter turns counter-clockwise, or by a uniformly
// drawn 0..3 quarter turns when Random is set.
type Rotate90 struct {
	K      int  `mapstructure:"k"`
	Random bool `mapstructure:"random"`
}

func (Rotate90)Kind() Kind      { return KindRotate90 }
func (Rotate90)Validate() error { return nil }
func (Rotate90)isTransform()    {}

func (t Rotate90)Apply(img *hsarray.Image, rng *hsrand.State) (*hsarray.Image, error) {
	k := t.K
	if t.Random {
		if err := needRand(t.Kind(), rng); err != nil {
			return nil, err
		}
		k = rng.Intn(4)
	}
	return RotateQuarter(img, k)
}

// Crop cuts out a Height x Width region at (Top, Left), or at an offset
// drawn uniformly from every position where the region fits when Random is
// set.
type Crop struct {
	Height int  `mapstructure:"height"`
	Width  int  `mapstructure:"width"`
	Top    int  `mapstructure:"top"`
	Left   int  `mapstructure:"left"`
	Random bool `mapstructure:"random"`
}

func (Crop)Kind() Kind   { return KindCrop }
func (Crop)isTransform() {}

func (t Crop)Validate() error {
	return validateBox("crop", t.Top, t.Left, t.Height, t.Width)
}

func (t Crop)Apply(img *hsarray.Image, rng *hsrand.State) (*hsarray.Image, error) {
	top, left, err := placeBox(t.Kind(), img, t.Top, t.Left, t.Height, t.Width, t.Random, rng)
	if err != nil {
		return nil, err
	}
	return CropRegion(img, top, left, t.Height, t.Width)
}

// Pad adds a border of Top/Bottom/Left/Right pixels.
type Pad struct {
	Top    int     `mapstructure:"top"`
	Bottom int     `mapstructure:"bottom"`
	Left   int     `mapstructure:"left"`
	Right  int     `mapstructure:"right"`
	Mode   PadMode `mapstructure:"mode"`
	Fill   float64 `mapstructure:"fill"`
}

func (Pad)Kind() Kind   { return KindPad }
func (Pad)isTransform() {}

func (t Pad)padding() Padding {
	p := Padding{Top: t.Top, Bottom: t.Bottom, Left: t.Left, Right: t.Right, Mode: t.Mode, Fill: t.Fill}
	if p.Mode == "" {
		p.Mode = PadConstant
	}
	return p
}

func (t Pad)Validate() error {
	if err := t.padding().validate(); err != nil {
		return fmt.Errorf("pad: %w", err)
	}
	return nil
}

func (t Pad)Apply(img *hsarray.Image, _ *hsrand.State) (*hsarray.Image, error) {
	return PadBorder(img, t.padding())
}

// Erase overwrites a Height x Width box with Value, at (Top, Left) or at a
// random position when Random is set.
type Erase struct {
	Top    int     `mapstructure:"top"`
	Left   int     `mapstructure:"left"`
	Height int     `mapstructure:"height"`
	Width  int     `mapstructure:"width"`
	Value  float64 `mapstructure:"value"`
	Random bool    `mapstructure:"random"`
}

func (Erase)Kind() Kind   { return KindErase }
func (Erase)isTransform() {}

func (t Erase)Validate() error {
	return validateBox("erase", t.Top, t.Left, t.Height, t.Width)
}

func (t Erase)Apply(img *hsarray.Image, rng *hsrand.State) (*hsarray.Image, error) {
	top, left, err := placeBox(t.Kind(), img, t.Top, t.Left, t.Height, t.Width, t.Random, rng)
	if err != nil {
		return nil, err
	}
	return EraseRegion(img, top, left, t.Height, t.Width, t.Value)
}

func validateBox(verb string, top, left, height, width int) error {
	if height <= 0 || width <= 0 {
		return fmt.Errorf("%s: %w: size %dx%d has no area", verb, hsarray.ErrParam, height, width)
	}
	if top < 0 || left < 0 {
		return fmt.Errorf("%s: %w: offset (%d,%d) is negative", verb, hsarray.ErrParam, top, left)
	}
	return nil
}

// placeBox returns the top-left corner to use for a box, drawing it when
// random. The fit is checked before drawing, so an oversized box is
// ErrBounds and consumes no draws.
func placeBox(k Kind, img *hsarray.Image, top, left, height, width int, random bool, rng *hsrand.State) (int, int, error) {
	if !random {
		return top, left, nil
	}
	if err := hsarray.Validate(img); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", k, err)
	}
	if err := validateBox(k.String(), 0, 0, height, width); err != nil {
		return 0, 0, err
	}
	if height > img.Rows() || width > img.Cols() {
		return 0, 0, fmt.Errorf("%s: %w: %dx%d does not fit in %dx%d image", k, hsarray.ErrBounds,
			height, width, img.Rows(), img.Cols())
	}
	if err := needRand(k, rng); err != nil {
		return 0, 0, err
	}
	return rng.Intn(img.Rows()-height+1), rng.Intn(img.Cols()-width+1), nil
}
