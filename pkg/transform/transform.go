// Package transform holds the augmentation primitives.
//
// Every primitive exists twice: as a stateless function (FlipHorizontal,
// CropRegion, AddNoise, ...) and as a configurable variant (HorizontalFlip,
// Crop, Noise, ...) implementing Transform, which is what a pipeline runs.
// The set of variants is closed; Kind enumerates it and New builds any of
// them from a config name and a parameter map.
//
// All primitives validate their input image first, never modify it, and
// preserve the element type. Only Crop, Pad, Resize, Rescale, a Rotate90
// with odd k, and ChannelDropout in remove mode change the shape; each
// documents the shape it returns.
package transform

import(
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/bionictoucan/hypia/pkg/hsarray"
	"github.com/bionictoucan/hypia/pkg/hsrand"
)

// A Transform is one configured augmentation.
type Transform interface {
	Kind() Kind

	// Validate checks the parameters without needing an image.
	Validate() error

	// Apply returns the transformed image, drawing any random decisions from
	// rng; img is left untouched. Deterministic transforms accept a nil rng.
	Apply(img *hsarray.Image, rng *hsrand.State) (*hsarray.Image, error)

	isTransform()
}

// A Kind tags each Transform variant.
type Kind int

const(
	KindInvalid Kind = iota
	KindHFlip
	KindVFlip
	KindRotate90
	KindRotate
	KindCrop
	KindPad
	KindNoise
	KindJitter
	KindDropout
	KindNormalise
	KindResize
	KindRescale
	KindErase
	KindShear
	KindAffine
	KindZoom
)

var kindNames = map[Kind]string{
	KindHFlip:     "hflip",
	KindVFlip:     "vflip",
	KindRotate90:  "rotate90",
	KindRotate:    "rotate",
	KindCrop:      "crop",
	KindPad:       "pad",
	KindNoise:     "noise",
	KindJitter:    "jitter",
	KindDropout:   "dropout",
	KindNormalise: "normalise",
	KindResize:    "resize",
	KindRescale:   "rescale",
	KindErase:     "erase",
	KindShear:     "shear",
	KindAffine:    "affine",
	KindZoom:      "zoom",
}

var kindsByName = lo.Invert(kindNames)

func (k Kind)String() string {
	if name, exists := kindNames[k]; exists {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind looks up a config name.
func ParseKind(name string) (Kind, error) {
	if k, exists := kindsByName[name]; exists {
		return k, nil
	}
	return KindInvalid, fmt.Errorf("%w: no transform named '%s', wanted one of %v", hsarray.ErrParam, name, Names())
}

// Names lists the config names of every transform, sorted.
func Names() []string {
	names := lo.Keys(kindsByName)
	sort.Strings(names)
	return names
}

// stochastic transforms call this before drawing
func needRand(k Kind, rng *hsrand.State) error {
	if rng == nil {
		return fmt.Errorf("%w: %s needs a random state", hsarray.ErrParam, k)
	}
	return nil
}
