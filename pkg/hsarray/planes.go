package hsarray

import(
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/bionictoucan/hypia/pkg/emath"
)

// Plane copies one band into a float64 grid (x = column, y = row). 64-bit
// integers beyond 2^53 are rounded by the widening.
func Plane(img *Image, band int) (emath.FloatGrid, error) {
	if err := Validate(img); err != nil {
		return emath.FloatGrid{}, err
	}
	if band < 0 || band >= img.Channels() {
		return emath.FloatGrid{}, fmt.Errorf("%w: band %d, image has %d channels", ErrParam, band, img.Channels())
	}
	return planesOf(img, []int{band})[0], nil
}

// Planes copies every band into its own float64 grid.
func Planes(img *Image) ([]emath.FloatGrid, error) {
	if err := Validate(img); err != nil {
		return nil, err
	}
	bands := make([]int, img.Channels())
	for i := range bands {
		bands[i] = i
	}
	return planesOf(img, bands), nil
}

func planesOf(img *Image, bands []int) []emath.FloatGrid {
	rows, cols := img.Rows(), img.Cols()
	out := make([]emath.FloatGrid, len(bands))
	for i, band := range bands {
		out[i] = emath.NewFloatGrid(cols, rows)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				out[i].Set(c, r, img.At(r, c, band))
			}
		}
	}
	return out
}

// FromPlanes assembles same-sized grids into an image of element type dt,
// one grid per channel, storing with the saturation policy.
func FromPlanes(dt DType, planes []emath.FloatGrid) (*Image, error) {
	if !dt.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrType, dt)
	}
	if len(planes) == 0 {
		return nil, fmt.Errorf("%w: no planes", ErrShape)
	}
	cols, rows := planes[0].Dx(), planes[0].Dy()
	for i := range planes {
		if planes[i].Dx() != cols || planes[i].Dy() != rows {
			return nil, fmt.Errorf("%w: plane %d is %dx%d, plane 0 is %dx%d", ErrShape, i, planes[i].Dx(), planes[i].Dy(), cols, rows)
		}
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: empty planes", ErrShape)
	}

	template := &Image{shape: []int{rows, cols, len(planes)}, data: makeData(dt, rows*cols*len(planes))}
	return run(template, &kernel{op: opPlanes, shape: shape3(template), planes: planes}), nil
}

// BandStats summarises one channel.
type BandStats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64 // population standard deviation
}

func (s BandStats)String() string {
	return fmt.Sprintf("[min %g, max %g, mean %g, std %g]", s.Min, s.Max, s.Mean, s.StdDev)
}

// Stats computes per-band statistics.
func Stats(img *Image) ([]BandStats, error) {
	planes, err := Planes(img)
	if err != nil {
		return nil, err
	}
	out := make([]BandStats, len(planes))
	for i := range planes {
		vals := planes[i].Values()
		out[i] = BandStats{
			Min:    floats.Min(vals),
			Max:    floats.Max(vals),
			Mean:   stat.Mean(vals, nil),
			StdDev: math.Sqrt(stat.PopVariance(vals, nil)),
		}
	}
	return out, nil
}
