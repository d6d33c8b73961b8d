package emath

import(
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
)

// A FloatGrid is a grid of floats, with some operations. The image
// packages use one per band when they need float64 working space.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (g1 *FloatGrid)NewFromThis() FloatGrid  { return NewFloatGrid(g1.Dx(), g1.Dy()) }
func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Values() []float64       { return fg.values }

func (fg *FloatGrid)Dy() int {
	if fg.stride == 0 {
		return 0
	}
	return len(fg.values) / fg.stride
}

// GaussianBlur runs a separable [1 2 1]/4 kernel over the grid (variance
// 0.5 per axis); edge samples reuse their own value in place of the missing
// neighbour. Axes of length 1 are left alone.
func (g1 FloatGrid)GaussianBlur() FloatGrid {
	width := g1.Dx()
	height := g1.Dy()
	g2 := g1.NewFromThis()

	T  := g1.NewFromThis()

	//--- X blur, build up in T
	for y:=0; y<height; y++ {
		if width == 1 {
			T.Set(0, y, g1.Get(0, y))
			continue
		}
		for x:=1; x<width-1; x++ {
			t := 2.0*g1.Get(x,y)
			t += g1.Get(x-1,y)
			t += g1.Get(x+1,y)
			T.Set(x, y, t/4.0)
		}
		T.Set(0, y,       (3.0*g1.Get(0,      y) + g1.Get(1,      y)) / 4.0)
		T.Set(width-1, y, (3.0*g1.Get(width-1,y) + g1.Get(width-2,y)) / 4.0)
	}

	//--- Y blur, read from T and generate output
	for x:=0; x<width; x++ {
		if height == 1 {
			g2.Set(x, 0, T.Get(x, 0))
			continue
		}
		for y:=1; y<height-1; y++ {
			t := 2.0*T.Get(x,y)
			t += T.Get(x,y-1)
			t += T.Get(x,y+1)
			g2.Set(x, y, t/4.0)
		}
		g2.Set(x, 0,        (3.0*T.Get(x,       0) + T.Get(x,       1)) / 4.0)
		g2.Set(x, height-1, (3.0*T.Get(x,height-1) + T.Get(x,height-2)) / 4.0)
	}

	return g2
}

// BlurPasses returns the number of GaussianBlur passes needed to reach
// (at least) a gaussian of standard deviation sigma.
func BlurPasses(sigma float64) int {
	if sigma <= 0 {
		return 0
	}
	return int(math.Ceil(2 * sigma * sigma))
}

// FindMinMaxAtPercentile returns the values at the two percentiles
// (each in [0,1]). NaNs are ignored; an all-NaN grid gives (0, 0).
func (I *FloatGrid)FindMinMaxAtPercentile(minPrct, maxPrct float64) (float64, float64) {
	vI := []float64{}

	for i:=0 ; i<len(I.values) ; i++ {
		if val := I.values[i]; !math.IsNaN(val) {
			vI = append(vI, val)
		}
	}
	if len(vI) == 0 {
		return 0, 0
	}

	sort.Float64s(vI)

	iMin := int(minPrct * float64(len(vI)))
	iMax := int(maxPrct * float64(len(vI)))
	if iMin < 0        { iMin = 0 }
	if iMin >= len(vI) { iMin = len(vI)-1 }
	if iMax < 0        { iMax = 0 }
	if iMax >= len(vI) { iMax = len(vI)-1 }

	return vI[iMin], vI[iMax]
}

// Render draws a simple grayscale, stretched between the 1st and 99th
// percentile of the values, gamma scaled for human vision, with the title
// written in the top left corner. This is for eyeballing augmentations;
// the output is 8 bits per channel and nothing downstream should consume it.
func (fg *FloatGrid)Render(title string) image.Image {
	min, max := fg.FindMinMaxAtPercentile(0.01, 0.99)

	img := image.NewRGBA64(image.Rectangle{Max:image.Point{fg.Dx(), fg.Dy()}})
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<fg.Dy(); y++ {
			gray := 0.0
			if max > min {
				lum := math.Min(math.Max(fg.Get(x,y), min), max)
				gray = GammaExpand_F64 ((lum - min) / (max - min))
			}
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	if title != "" {
		dc.SetRGB(1,0.2,0.2)
		dc.DrawString(title, 2, 12)
	}
	return dc.Image()
}
