// Package anim provides a packed runtime skeleton/animation representation
// and a per-frame sampling pipeline: keyframe interpolation into joint-local
// transforms, hierarchy propagation into model space, and skinning matrix
// resolution against inverse bind poses.
package anim

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a joint-local transform as independent translation,
// rotation, and scale components.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// IdentityTransform returns a transform with zero translation, identity
// rotation, and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Translation: mgl32.Vec3{0, 0, 0},
		Rotation:    mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}

// Mat4 composes the transform into a 4x4 matrix as T * R * S.
func (t Transform) Mat4() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
	m = m.Mul4(t.Rotation.Mat4())
	return m.Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// DecomposeMat4 extracts translation, rotation, and scale from an affine
// matrix. Scale is recovered from the column basis lengths; the rotation
// quaternion is built from the scale-normalized upper 3x3.
func DecomposeMat4(m mgl32.Mat4) Transform {
	translation := mgl32.Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}

	c0 := mgl32.Vec3{m.At(0, 0), m.At(1, 0), m.At(2, 0)}
	c1 := mgl32.Vec3{m.At(0, 1), m.At(1, 1), m.At(2, 1)}
	c2 := mgl32.Vec3{m.At(0, 2), m.At(1, 2), m.At(2, 2)}
	scale := mgl32.Vec3{c0.Len(), c1.Len(), c2.Len()}

	// Negative determinant means one axis is mirrored.
	if det3(c0, c1, c2) < 0 {
		scale = mgl32.Vec3{-scale.X(), scale.Y(), scale.Z()}
	}

	rot := mgl32.Ident3()
	if scale.X() != 0 {
		c0 = c0.Mul(1 / scale.X())
	}
	if scale.Y() != 0 {
		c1 = c1.Mul(1 / scale.Y())
	}
	if scale.Z() != 0 {
		c2 = c2.Mul(1 / scale.Z())
	}
	rot.SetCol(0, c0)
	rot.SetCol(1, c1)
	rot.SetCol(2, c2)

	return Transform{
		Translation: translation,
		Rotation:    quatFromMat3(rot),
		Scale:       scale,
	}
}

func det3(c0, c1, c2 mgl32.Vec3) float32 {
	return c0.Dot(c1.Cross(c2))
}

// quatFromMat3 converts a pure rotation matrix to a normalized quaternion.
func quatFromMat3(m mgl32.Mat3) mgl32.Quat {
	trace := m.At(0, 0) + m.At(1, 1) + m.At(2, 2)

	var q mgl32.Quat
	switch {
	case trace > 0:
		s := float32(gomath.Sqrt(float64(trace+1))) * 2
		q = mgl32.Quat{
			W: s / 4,
			V: mgl32.Vec3{
				(m.At(2, 1) - m.At(1, 2)) / s,
				(m.At(0, 2) - m.At(2, 0)) / s,
				(m.At(1, 0) - m.At(0, 1)) / s,
			},
		}
	case m.At(0, 0) > m.At(1, 1) && m.At(0, 0) > m.At(2, 2):
		s := float32(gomath.Sqrt(float64(1+m.At(0, 0)-m.At(1, 1)-m.At(2, 2)))) * 2
		q = mgl32.Quat{
			W: (m.At(2, 1) - m.At(1, 2)) / s,
			V: mgl32.Vec3{
				s / 4,
				(m.At(0, 1) + m.At(1, 0)) / s,
				(m.At(0, 2) + m.At(2, 0)) / s,
			},
		}
	case m.At(1, 1) > m.At(2, 2):
		s := float32(gomath.Sqrt(float64(1+m.At(1, 1)-m.At(0, 0)-m.At(2, 2)))) * 2
		q = mgl32.Quat{
			W: (m.At(0, 2) - m.At(2, 0)) / s,
			V: mgl32.Vec3{
				(m.At(0, 1) + m.At(1, 0)) / s,
				s / 4,
				(m.At(1, 2) + m.At(2, 1)) / s,
			},
		}
	default:
		s := float32(gomath.Sqrt(float64(1+m.At(2, 2)-m.At(0, 0)-m.At(1, 1)))) * 2
		q = mgl32.Quat{
			W: (m.At(1, 0) - m.At(0, 1)) / s,
			V: mgl32.Vec3{
				(m.At(0, 2) + m.At(2, 0)) / s,
				(m.At(1, 2) + m.At(2, 1)) / s,
				s / 4,
			},
		}
	}
	return q.Normalize()
}

// slerp interpolates between two quaternions along the shortest arc,
// re-normalizing the result to guard against floating-point drift.
func slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	dot := a.Dot(b)

	// Negate one endpoint when the arc crosses the long way around.
	if dot < 0 {
		b = mgl32.Quat{W: -b.W, V: mgl32.Vec3{-b.V.X(), -b.V.Y(), -b.V.Z()}}
		dot = -dot
	}

	// Nearly parallel quaternions: fall back to nlerp to avoid dividing
	// by a vanishing sin(theta).
	if dot > 0.9995 {
		return mgl32.Quat{
			W: a.W + t*(b.W-a.W),
			V: mgl32.Vec3{
				a.V.X() + t*(b.V.X()-a.V.X()),
				a.V.Y() + t*(b.V.Y()-a.V.Y()),
				a.V.Z() + t*(b.V.Z()-a.V.Z()),
			},
		}.Normalize()
	}

	theta0 := float32(gomath.Acos(float64(dot)))
	theta := theta0 * t
	sinTheta := float32(gomath.Sin(float64(theta)))
	sinTheta0 := float32(gomath.Sin(float64(theta0)))

	s0 := float32(gomath.Cos(float64(theta))) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0

	return mgl32.Quat{
		W: a.W*s0 + b.W*s1,
		V: mgl32.Vec3{
			a.V.X()*s0 + b.V.X()*s1,
			a.V.Y()*s0 + b.V.Y()*s1,
			a.V.Z()*s0 + b.V.Z()*s1,
		},
	}.Normalize()
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		a.X() + t*(b.X()-a.X()),
		a.Y() + t*(b.Y()-a.Y()),
		a.Z() + t*(b.Z()-a.Z()),
	}
}
