package transform

import(
	"fmt"

	"github.com/bionictoucan/hypia/pkg/hsarray"
	"github.com/bionictoucan/hypia/pkg/hsrand"
)

// Intensity transforms: shape is unchanged, element values are recomputed
// and stored with the hsarray saturation policy (IEEE for floats, rounded
// and clamped to the type's range for integers).

// DistKind names a noise distribution.
type DistKind string

const(
	Gaussian DistKind = "gaussian" // N(Mean, Std^2)
	Uniform  DistKind = "uniform"  // U[Low, High)
)

// A Distribution is where per-element noise values come from. An empty
// Kind means Gaussian.
type Distribution struct {
	Kind DistKind `mapstructure:"dist"`
	Mean float64  `mapstructure:"mean"`
	Std  float64  `mapstructure:"std"`
	Low  float64  `mapstructure:"low"`
	High float64  `mapstructure:"high"`
}

func (d Distribution)String() string {
	if d.Kind == Uniform {
		return fmt.Sprintf("U[%g,%g)", d.Low, d.High)
	}
	return fmt.Sprintf("N(%g,%g^2)", d.Mean, d.Std)
}

func (d Distribution)Validate() error {
	switch d.Kind {
	case "", Gaussian:
		if !finite(d.Mean, d.Std) || d.Std < 0 {
			return fmt.Errorf("%w: gaussian mean %v, std %v", hsarray.ErrParam, d.Mean, d.Std)
		}
	case Uniform:
		if !finite(d.Low, d.High) || d.Low > d.High {
			return fmt.Errorf("%w: uniform range [%v, %v)", hsarray.ErrParam, d.Low, d.High)
		}
	default:
		return fmt.Errorf("%w: distribution '%s', wanted gaussian or uniform", hsarray.ErrParam, d.Kind)
	}
	return nil
}

func (d Distribution)draw(rng *hsrand.State) float64 {
	if d.Kind == Uniform {
		return rng.Uniform(d.Low, d.High)
	}
	return rng.Gaussian(d.Mean, d.Std)
}

func checkNoise(verb string, img *hsarray.Image, rng *hsrand.State, d Distribution) error {
	if err := hsarray.Validate(img); err != nil {
		return fmt.Errorf("%s: %w", verb, err)
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("%s: %w", verb, err)
	}
	return needRand(KindNoise, rng)
}

// AddNoise adds an independent draw from d to every element, in flat
// element order. Integer images add the rounded draw, saturating at the
// type bounds.
func AddNoise(img *hsarray.Image, rng *hsrand.State, d Distribution) (*hsarray.Image, error) {
	if err := checkNoise("add noise", img, rng, d); err != nil {
		return nil, err
	}
	return hsarray.AddEach(img, func(_, _ int) float64 { return d.draw(rng) }), nil
}

// MultiplyNoise multiplies every element by an independent draw from d.
func MultiplyNoise(img *hsarray.Image, rng *hsrand.State, d Distribution) (*hsarray.Image, error) {
	if err := checkNoise("multiply noise", img, rng, d); err != nil {
		return nil, err
	}
	return hsarray.ScaleEach(img, func(_, _ int) float64 { return d.draw(rng) }), nil
}

// ScaleBands multiplies channel ch by factors[ch]; there must be exactly one
// factor per channel.
func ScaleBands(img *hsarray.Image, factors []float64) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("scale bands: %w", err)
	}
	if len(factors) != img.Channels() {
		return nil, fmt.Errorf("scale bands: %w: %d factors for %d channels", hsarray.ErrParam, len(factors), img.Channels())
	}
	if !finite(factors...) {
		return nil, fmt.Errorf("scale bands: %w: non-finite factor in %v", hsarray.ErrParam, factors)
	}
	return hsarray.ScaleEach(img, func(_, ch int) float64 { return factors[ch] }), nil
}

// NormaliseBands computes (v - mean[ch]) / std[ch]. A single mean or std
// applies to every channel. Only float images can hold the result, so
// integer images are ErrType.
func NormaliseBands(img *hsarray.Image, mean, std []float64) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}
	chans := img.Channels()
	perBand := func(name string, vals []float64) ([]float64, error) {
		switch len(vals) {
		case 1:
			out := make([]float64, chans)
			for i := range out {
				out[i] = vals[0]
			}
			return out, nil
		case chans:
			return vals, nil
		}
		return nil, fmt.Errorf("normalise: %w: %d %s values for %d channels", hsarray.ErrParam, len(vals), name, chans)
	}

	m, err := perBand("mean", mean)
	if err != nil {
		return nil, err
	}
	s, err := perBand("std", std)
	if err != nil {
		return nil, err
	}
	if !finite(m...) || !finite(s...) {
		return nil, fmt.Errorf("normalise: %w: non-finite mean %v or std %v", hsarray.ErrParam, m, s)
	}
	for ch, v := range s {
		if v == 0 {
			return nil, fmt.Errorf("normalise: %w: std of band %d is zero", hsarray.ErrParam, ch)
		}
	}

	out, err := hsarray.MapFloat(img, func(v float64, ch int) float64 { return (v - m[ch]) / s[ch] })
	if err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}
	return out, nil
}

// NoiseOp says how noise combines with the pixel.
type NoiseOp string

const(
	NoiseAdd      NoiseOp = "add"
	NoiseMultiply NoiseOp = "multiply"
)

// Noise perturbs every element independently with draws from Distribution.
type Noise struct {
	Op           NoiseOp `mapstructure:"op"`
	Distribution `mapstructure:",squash"`
}

func (Noise)Kind() Kind   { return KindNoise }
func (Noise)isTransform() {}

func (t Noise)String() string {
	if t.Op == NoiseMultiply {
		return fmt.Sprintf("noise[x %s]", t.Distribution)
	}
	return fmt.Sprintf("noise[+ %s]", t.Distribution)
}

func (t Noise)Validate() error {
	switch t.Op {
	case "", NoiseAdd, NoiseMultiply:
	default:
		return fmt.Errorf("noise: %w: op '%s', wanted add or multiply", hsarray.ErrParam, t.Op)
	}
	if err := t.Distribution.Validate(); err != nil {
		return fmt.Errorf("noise: %w", err)
	}
	return nil
}

func (t Noise)Apply(img *hsarray.Image, rng *hsrand.State) (*hsarray.Image, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if t.Op == NoiseMultiply {
		return MultiplyNoise(img, rng, t.Distribution)
	}
	return AddNoise(img, rng, t.Distribution)
}

// IntensityJitter scales each channel by its own factor drawn uniformly
// from [Min, Max), mimicking per-band sensor response variation.
type IntensityJitter struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

func (IntensityJitter)Kind() Kind   { return KindJitter }
func (IntensityJitter)isTransform() {}

func (t IntensityJitter)Validate() error {
	if !finite(t.Min, t.Max) || t.Min > t.Max {
		return fmt.Errorf("jitter: %w: factor range [%v, %v)", hsarray.ErrParam, t.Min, t.Max)
	}
	return nil
}

func (t IntensityJitter)Apply(img *hsarray.Image, rng *hsrand.State) (*hsarray.Image, error) {
	if err := hsarray.Validate(img); err != nil {
		return nil, fmt.Errorf("jitter: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := needRand(t.Kind(), rng); err != nil {
		return nil, err
	}
	factors := make([]float64, img.Channels())
	for ch := range factors {
		factors[ch] = rng.Uniform(t.Min, t.Max)
	}
	return ScaleBands(img, factors)
}

// Normalise standardises each band. With Mean and Std empty it uses the
// image's own band statistics (a flat band is only shifted).
type Normalise struct {
	Mean []float64 `mapstructure:"mean"`
	Std  []float64 `mapstructure:"std"`
}

func (Normalise)Kind() Kind   { return KindNormalise }
func (Normalise)isTransform() {}

func (t Normalise)auto() bool { return len(t.Mean) == 0 && len(t.Std) == 0 }

func (t Normalise)Validate() error {
	if t.auto() {
		return nil
	}
	if len(t.Mean) == 0 || len(t.Std) == 0 {
		return fmt.Errorf("normalise: %w: need both mean and std, or neither", hsarray.ErrParam)
	}
	if !finite(t.Mean...) || !finite(t.Std...) {
		return fmt.Errorf("normalise: %w: non-finite mean %v or std %v", hsarray.ErrParam, t.Mean, t.Std)
	}
	for i, v := range t.Std {
		if v == 0 {
			return fmt.Errorf("normalise: %w: std[%d] is zero", hsarray.ErrParam, i)
		}
	}
	return nil
}

func (t Normalise)Apply(img *hsarray.Image, _ *hsrand.State) (*hsarray.Image, error) {
	if !t.auto() {
		return NormaliseBands(img, t.Mean, t.Std)
	}

	stats, err := hsarray.Stats(img)
	if err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}
	mean, std := make([]float64, len(stats)), make([]float64, len(stats))
	for i, s := range stats {
		mean[i], std[i] = s.Mean, s.StdDev
		if std[i] == 0 {
			std[i] = 1
		}
	}
	return NormaliseBands(img, mean, std)
}
