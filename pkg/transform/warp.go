package transform

import(
	"fmt"
	"math"

	"github.com/bionictoucan/hypia/pkg/emath"
	"github.com/bionictoucan/hypia/pkg/hsarray"
	"github.com/bionictoucan/hypia/pkg/hsrand"
)

// Interpolating transforms. Output pixel (r, c) is sampled from the source
// at the point the inverse transform maps (x=c, y=r) to.

// Interpolation is the spline order used when sampling between pixels.
type Interpolation int

const(
	Nearest  Interpolation = 0 // exact copies for every element type
	Bilinear Interpolation = 1 // float64 accumulation, saturating store
)

func (i Interpolation)String() string {
	switch i {
	case Nearest:  return "nearest"
	case Bilinear: return "bilinear"
	}
	return fmt.Sprintf("order-%d", int(i))
}

func (i Interpolation)validate() error {
	if i != Nearest && i != Bilinear {
		return fmt.Errorf("%w: interpolation order %d, only 0 (nearest) and 1 (bilinear) are supported", hsarray.ErrParam, int(i))
	}
	return nil
}

// Samples this close to a pixel centre are treated as on it, so that
// transforms which are exact up to rounding (a rotation by 2*pi, say) copy
// pixels rather than blend them.
const snapTolerance = 1e-9

func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < snapTolerance {
		return r
	}
	return v
}

// sample appends the taps for the point (x, y) of a rows x cols source.
// With clamp the point is pulled onto the image (edge replication);
// otherwise a point off the image gets no taps, and so the fill value.
func sample(buf []hsarray.Tap, rows, cols int, x, y float64, interp Interpolation, clamp bool) []hsarray.Tap {
	if math.IsNaN(x) || math.IsNaN(y) {
		return buf
	}
	x, y = snap(x), snap(y)
	maxX, maxY := float64(cols-1), float64(rows-1)

	if clamp {
		x, y = math.Max(0, math.Min(x, maxX)), math.Max(0, math.Min(y, maxY))
	}

	if interp == Nearest {
		rx, ry := math.Round(x), math.Round(y)
		if rx < 0 || rx > maxX || ry < 0 || ry > maxY {
			return buf
		}
		return append(buf, hsarray.Tap{Pixel: int(ry)*cols + int(rx), Weight: 1})
	}

	if x < 0 || x > maxX || y < 0 || y > maxY {
		return buf
	}
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	// A neighbour only gets weight when the point is strictly inside its
	// cell, so ix+1 and iy+1 never run off the image.
	add := func(px, py int, w float64) {
		if w > 0 {
			buf = append(buf, hsarray.Tap{Pixel: py*cols + px, Weight: w})
		}
	}
	add(ix,   iy,   (1-fx)*(1-fy))
	add(ix+1, iy,   fx*(1-fy))
	add(ix,   iy+1, (1-fx)*fy)
	add(ix+1, iy+1, fx*fy)
	return buf
}

// Warp applies the forward affine transform (in pixel coordinates, x along
// the columns) to the image, keeping its shape. Output pixels that map from
// outside the source are fill. A singular transform is ErrParam.
func Warp(img *hsarray.Image, forward emath.Aff3, interp Interpolation, fill float64) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("warp: %w", err)
	}
	if err := interp.validate(); err != nil {
		return nil, fmt.Errorf("warp: %w", err)
	}
	inverse, err := forward.Invert()
	if err != nil {
		return nil, fmt.Errorf("warp: %w: %v", hsarray.ErrParam, err)
	}

	rows, cols := img.Rows(), img.Cols()
	return hsarray.Resample(img, rows, cols, fill, func(r, c int, buf []hsarray.Tap) []hsarray.Tap {
		x, y := inverse.Apply(float64(c), float64(r))
		return sample(buf, rows, cols, x, y, interp, false)
	}), nil
}

// RotateAngle rotates counter-clockwise by theta radians about the image
// centre, keeping the shape; corners that rotate in from outside are fill.
func RotateAngle(img *hsarray.Image, theta float64, interp Interpolation, fill float64) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("rotate: %w", err)
	}
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return nil, fmt.Errorf("rotate: %w: angle %v", hsarray.ErrParam, theta)
	}
	cx, cy := float64(img.Cols()-1)/2, float64(img.Rows()-1)/2
	return Warp(img, emath.RotateAbout(-1*theta, cx, cy), interp, fill)
}

// ResizeTo resamples to height x width x channels, mapping pixel centres
// onto pixel centres and replicating edges. With antiAlias, a downsampled
// image is first smoothed by a gaussian of sigma (factor-1)/2.
func ResizeTo(img *hsarray.Image, height, width int, interp Interpolation, antiAlias bool) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("resize: %w", err)
	}
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("resize: %w: size %dx%d", hsarray.ErrParam, height, width)
	}
	if err := interp.validate(); err != nil {
		return nil, fmt.Errorf("resize: %w", err)
	}

	rows, cols := img.Rows(), img.Cols()
	fy, fx := float64(rows)/float64(height), float64(cols)/float64(width)

	src := img
	if antiAlias {
		sigma := math.Max(0, (math.Max(fx, fy)-1)/2)
		if passes := emath.BlurPasses(sigma); passes > 0 {
			var err error
			if src, err = blur(img, passes); err != nil {
				return nil, fmt.Errorf("resize: %w", err)
			}
		}
	}

	return hsarray.Resample(src, height, width, 0, func(r, c int, buf []hsarray.Tap) []hsarray.Tap {
		x := (float64(c)+0.5)*fx - 0.5
		y := (float64(r)+0.5)*fy - 0.5
		return sample(buf, rows, cols, x, y, interp, true)
	}), nil
}

// blur runs passes of the 1-2-1 kernel over every band.
func blur(img *hsarray.Image, passes int) (*hsarray.Image, error) {
	planes, err := hsarray.Planes(img)
	if err != nil {
		return nil, err
	}
	for i := range planes {
		for n := 0; n < passes; n++ {
			planes[i] = planes[i].GaussianBlur()
		}
	}
	return hsarray.FromPlanes(img.DType(), planes)
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// RandomRotate rotates by an angle (radians, counter-clockwise) drawn
// uniformly from [MinAngle, MaxAngle).
type RandomRotate struct {
	MinAngle      float64       `mapstructure:"min_angle"`
	MaxAngle      float64       `mapstructure:"max_angle"`
	Interpolation Interpolation `mapstructure:"order"`
	Fill          float64       `mapstructure:"fill"`
}

func (RandomRotate)Kind() Kind   { return KindRotate }
func (RandomRotate)isTransform() {}

func (t RandomRotate)Validate() error {
	if !finite(t.MinAngle, t.MaxAngle, t.Fill) || t.MinAngle > t.MaxAngle {
		return fmt.Errorf("rotate: %w: angle range [%v, %v)", hsarray.ErrParam, t.MinAngle, t.MaxAngle)
	}
	if err := t.Interpolation.validate(); err != nil {
		return fmt.Errorf("rotate: %w", err)
	}
	return nil
}

func (t RandomRotate)Apply(img *hsarray.Image, rng *hsrand.State) (*hsarray.Image, error) {
	if err := needRand(t.Kind(), rng); err != nil {
		return nil, err
	}
	return RotateAngle(img, rng.Uniform(t.MinAngle, t.MaxAngle), t.Interpolation, t.Fill)
}

// Shear slants the image by Angle radians (x shifts in proportion to y).
type Shear struct {
	Angle         float64       `mapstructure:"angle"`
	Interpolation Interpolation `mapstructure:"order"`
	Fill          float64       `mapstructure:"fill"`
}

func (Shear)Kind() Kind   { return KindShear }
func (Shear)isTransform() {}

func (t Shear)matrix() emath.Aff3 { return emath.NewAffine(1, 1, 0, t.Angle, 0, 0) }

func (t Shear)Validate() error {
	return validateWarp("shear", t.matrix(), t.Interpolation, t.Angle, t.Fill)
}

func (t Shear)Apply(img *hsarray.Image, _ *hsrand.State) (*hsarray.Image, error) {
	return Warp(img, t.matrix(), t.Interpolation, t.Fill)
}

// Affine is a general scale/rotate/shear/translate warp, composed as in
// emath.NewAffine. Zero scales are taken as 1.
type Affine struct {
	ScaleX        float64       `mapstructure:"scale_x"`
	ScaleY        float64       `mapstructure:"scale_y"`
	Rotation      float64       `mapstructure:"rotation"`
	Shear         float64       `mapstructure:"shear"`
	TranslateX    float64       `mapstructure:"translate_x"`
	TranslateY    float64       `mapstructure:"translate_y"`
	Interpolation Interpolation `mapstructure:"order"`
	Fill          float64       `mapstructure:"fill"`
}

func (Affine)Kind() Kind   { return KindAffine }
func (Affine)isTransform() {}

func (t Affine)matrix() emath.Aff3 {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 { sx = 1 }
	if sy == 0 { sy = 1 }
	return emath.NewAffine(sx, sy, t.Rotation, t.Shear, t.TranslateX, t.TranslateY)
}

func (t Affine)Validate() error {
	return validateWarp("affine", t.matrix(), t.Interpolation,
		t.ScaleX, t.ScaleY, t.Rotation, t.Shear, t.TranslateX, t.TranslateY, t.Fill)
}

func (t Affine)Apply(img *hsarray.Image, _ *hsrand.State) (*hsarray.Image, error) {
	return Warp(img, t.matrix(), t.Interpolation, t.Fill)
}

func validateWarp(verb string, m emath.Aff3, interp Interpolation, params ...float64) error {
	if !finite(params...) {
		return fmt.Errorf("%s: %w: non-finite parameter in %v", verb, hsarray.ErrParam, params)
	}
	if err := interp.validate(); err != nil {
		return fmt.Errorf("%s: %w", verb, err)
	}
	if _, err := m.Invert(); err != nil {
		return fmt.Errorf("%s: %w: %v", verb, hsarray.ErrParam, err)
	}
	return nil
}

// Resize resamples to a fixed Height x Width.
type Resize struct {
	Height        int           `mapstructure:"height"`
	Width         int           `mapstructure:"width"`
	Interpolation Interpolation `mapstructure:"order"`
	AntiAlias     bool          `mapstructure:"anti_alias"`
}

func (Resize)Kind() Kind   { return KindResize }
func (Resize)isTransform() {}

func (t Resize)Validate() error {
	if t.Height <= 0 || t.Width <= 0 {
		return fmt.Errorf("resize: %w: size %dx%d", hsarray.ErrParam, t.Height, t.Width)
	}
	if err := t.Interpolation.validate(); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	return nil
}

func (t Resize)Apply(img *hsarray.Image, _ *hsrand.State) (*hsarray.Image, error) {
	return ResizeTo(img, t.Height, t.Width, t.Interpolation, t.AntiAlias)
}

// Rescale resizes by a factor per axis: the result has round(rows*ScaleY)
// rows and round(cols*ScaleX) cols.
type Rescale struct {
	ScaleY        float64       `mapstructure:"scale_y"`
	ScaleX        float64       `mapstructure:"scale_x"`
	Interpolation Interpolation `mapstructure:"order"`
	AntiAlias     bool          `mapstructure:"anti_alias"`
}

func (Rescale)Kind() Kind   { return KindRescale }
func (Rescale)isTransform() {}

func (t Rescale)Validate() error {
	if !finite(t.ScaleY, t.ScaleX) || t.ScaleY <= 0 || t.ScaleX <= 0 {
		return fmt.Errorf("rescale: %w: scale (%v,%v)", hsarray.ErrParam, t.ScaleY, t.ScaleX)
	}
	if err := t.Interpolation.validate(); err != nil {
		return fmt.Errorf("rescale: %w", err)
	}
	return nil
}

func (t Rescale)Apply(img *hsarray.Image, _ *hsrand.State) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("rescale: %w", err)
	}
	height := int(math.Round(float64(img.Rows()) * t.ScaleY))
	width := int(math.Round(float64(img.Cols()) * t.ScaleX))
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("rescale: %w: %dx%d by (%v,%v) leaves %dx%d", hsarray.ErrParam,
			img.Rows(), img.Cols(), t.ScaleY, t.ScaleX, height, width)
	}
	return ResizeTo(img, height, width, t.Interpolation, t.AntiAlias)
}

// Zoom crops a Height x Width box (at Top, Left, or at random) and resizes
// it back up to the original shape.
type Zoom struct {
	Top           int           `mapstructure:"top"`
	Left          int           `mapstructure:"left"`
	Height        int           `mapstructure:"height"`
	Width         int           `mapstructure:"width"`
	Interpolation Interpolation `mapstructure:"order"`
	AntiAlias     bool          `mapstructure:"anti_alias"`
	Random        bool          `mapstructure:"random"`
}

func (Zoom)Kind() Kind   { return KindZoom }
func (Zoom)isTransform() {}

func (t Zoom)Validate() error {
	if err := validateBox("zoom", t.Top, t.Left, t.Height, t.Width); err != nil {
		return err
	}
	if err := t.Interpolation.validate(); err != nil {
		return fmt.Errorf("zoom: %w", err)
	}
	return nil
}

func (t Zoom)Apply(img *hsarray.Image, rng *hsrand.State) (*hsarray.Image, error) {
	top, left, err := placeBox(t.Kind(), img, t.Top, t.Left, t.Height, t.Width, t.Random, rng)
	if err != nil {
		return nil, err
	}
	box, err := CropRegion(img, top, left, t.Height, t.Width)
	if err != nil {
		return nil, fmt.Errorf("zoom: %w", err)
	}
	return ResizeTo(box, img.Rows(), img.Cols(), t.Interpolation, t.AntiAlias)
}
