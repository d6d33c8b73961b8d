package transform

import(
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"

	"github.com/bionictoucan/hypia/pkg/hsarray"
)

// New builds the transform registered under name, decoding params (as read
// from a config file) over that transform's defaults. Keys are the
// mapstructure tags on each variant's fields. Unknown keys, values of the
// wrong type and invalid settings are all ErrParam.
//
// Defaults that differ from the zero value: interpolating transforms use
// bilinear sampling (`order: 1`); rotate draws from +-15 degrees; jitter
// draws from [0.9, 1.1); dropout drops with p=0.1 in zero mode; affine
// and rescale scale by 1; noise is additive gaussian with std 0.1, or
// multiplicative with mean 1 when `op: multiply`.
func New(name string, params map[string]interface{}) (Transform, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindHFlip:     return build(HorizontalFlip{}, params)
	case KindVFlip:     return build(VerticalFlip{}, params)
	case KindRotate90:  return build(Rotate90{}, params)
	case KindCrop:      return build(Crop{}, params)
	case KindPad:       return build(Pad{Mode: PadConstant}, params)
	case KindErase:     return build(Erase{}, params)
	case KindNormalise: return build(Normalise{}, params)
	case KindResize:    return build(Resize{Interpolation: Bilinear}, params)
	case KindShear:     return build(Shear{Interpolation: Bilinear}, params)
	case KindZoom:      return build(Zoom{Interpolation: Bilinear}, params)
	case KindJitter:    return build(IntensityJitter{Min: 0.9, Max: 1.1}, params)
	case KindDropout:   return build(ChannelDropout{P: 0.1, Mode: DropZero}, params)

	case KindRotate:
		return build(RandomRotate{MinAngle: -1*math.Pi/12, MaxAngle: math.Pi/12, Interpolation: Bilinear}, params)
	case KindRescale:
		return build(Rescale{ScaleY: 1, ScaleX: 1, Interpolation: Bilinear}, params)
	case KindAffine:
		return build(Affine{ScaleX: 1, ScaleY: 1, Interpolation: Bilinear}, params)

	case KindNoise:
		def := Noise{Op: NoiseAdd, Distribution: Distribution{Kind: Gaussian, Std: 0.1, Low: -0.1, High: 0.1}}
		if op, _ := params["op"].(string); NoiseOp(op) == NoiseMultiply {
			def = Noise{Op: NoiseMultiply, Distribution: Distribution{Kind: Gaussian, Mean: 1, Std: 0.1, Low: 0.9, High: 1.1}}
		}
		return build(def, params)
	}

	return nil, fmt.Errorf("%w: no constructor for %s", hsarray.ErrParam, kind)
}

func build[T Transform](def T, params map[string]interface{}) (Transform, error) {
	if len(params) > 0 {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &def,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: decoder: %v", def.Kind(), err)
		}
		if err := dec.Decode(params); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", def.Kind(), hsarray.ErrParam, err)
		}
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}
