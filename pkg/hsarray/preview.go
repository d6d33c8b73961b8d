package hsarray

import(
	"fmt"
	"image"
)

// Preview renders one band as a grayscale image for eyeballing an
// augmentation, stretched between the band's 1st and 99th percentile, with
// title written in the corner. It never writes anywhere; saving is up to
// the caller.
func Preview(img *Image, band int, title string) (image.Image, error) {
	plane, err := Plane(img, band)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	return plane.Render(title), nil
}
