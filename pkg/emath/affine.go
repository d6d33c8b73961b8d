package emath

// Affine transformations in pixel space, used by the image warps. Points are
// (x, y) with x along columns and y down the rows.

import(
	"fmt"
	"math"

	"golang.org/x/image/math/f64"  // Will be "image/math/f64" at some point
)

// Use a local type so we can hang methods off it
type Aff3 f64.Aff3

// Cut-n-pasted from image@0.7.0/draw/scale:matMul
func (p Aff3)Mult(q Aff3) Aff3 {
	return Aff3{
		p[3*0+0]*q[3*0+0] + p[3*0+1]*q[3*1+0],
		p[3*0+0]*q[3*0+1] + p[3*0+1]*q[3*1+1],
		p[3*0+0]*q[3*0+2] + p[3*0+1]*q[3*1+2] + p[3*0+2],
		p[3*1+0]*q[3*0+0] + p[3*1+1]*q[3*1+0],
		p[3*1+0]*q[3*0+1] + p[3*1+1]*q[3*1+1],
		p[3*1+0]*q[3*0+2] + p[3*1+1]*q[3*1+2] + p[3*1+2],
	}
}

func Identity() Aff3 {
	return Aff3{1, 0, 0,   0, 1, 0}
}

func (m1 Aff3)Translate(tx, ty float64) Aff3 {
	return m1.Mult(Aff3{1, 0, tx,   0, 1, ty})
}

// Rotate by theta radians. With y pointing down the rows, a positive theta
// turns clockwise on screen.
func (m1 Aff3)Rotate(theta float64) Aff3 {
	sinTheta, cosTheta := math.Sincos(theta)
	return m1.Mult(Aff3{cosTheta, -1*sinTheta, 0,    sinTheta, cosTheta, 0})
}

func RotateAbout(theta, x, y float64) Aff3 {
	// Remember they compose back to front - rightmost operations performed first
	return Identity().Translate(x, y).Rotate(theta).Translate(-1*x, -1*y)
}

// NewAffine builds the scale/rotate/shear/translate matrix
//
//   [ sx*cos(r)  -sy*sin(r+s)  tx ]
//   [ sx*sin(r)   sy*cos(r+s)  ty ]
//
// which is the parameterisation scikit-image uses, so configs carry over.
func NewAffine(sx, sy, rotation, shear, tx, ty float64) Aff3 {
	sinR, cosR := math.Sincos(rotation)
	sinRS, cosRS := math.Sincos(rotation + shear)
	return Aff3{
		sx*cosR, -1*sy*sinRS, tx,
		sx*sinR,    sy*cosRS, ty,
	}
}

// Apply maps the point (x, y)
func (m Aff3)Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

func (m Aff3)Det() float64 { return m[0]*m[4] - m[1]*m[3] }

// Invert returns the inverse transform; it fails for singular matrices
// (e.g. a zero scale, or a shear of +-90 degrees).
func (m Aff3)Invert() (Aff3, error) {
	det := m.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Aff3{}, fmt.Errorf("invert %s: singular matrix", m)
	}
	a, b := m[4]/det, -1*m[1]/det
	d, e := -1*m[3]/det, m[0]/det
	return Aff3{
		a, b, -1*(a*m[2] + b*m[5]),
		d, e, -1*(d*m[2] + e*m[5]),
	}, nil
}

func (m Aff3)String() string {
	return fmt.Sprintf("[%.6f %.6f %.6f; %.6f %.6f %.6f]", m[0], m[1], m[2], m[3], m[4], m[5])
}
