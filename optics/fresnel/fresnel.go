package fresnel

import (
	"errors"
	"math"
	"math/cmplx"
)

// Errors returned by Reflect.
var (
	ErrInvalidIndex = errors.New("fresnel: relative index must be greater than 1")
	ErrInvalidAlpha = errors.New("fresnel: polarization angle must be in [0, pi/2]")
	ErrInvalidTheta = errors.New("fresnel: incidence angle must be in [0, pi/2)")
)

// tan(2*alpha) below this threshold is treated as pure s or p
// polarization, which reflects without ellipticity.
const tan2AlphaEps = 1e-12

// Result describes the polarization state of the reflected beam. Angles
// are in radians.
type Result struct {
	RS              complex128 // s-polarization reflection coefficient
	RP              complex128 // p-polarization reflection coefficient
	AlphaPrime      float64    // major-axis direction of the reflected ellipse
	Eta             float64    // ellipticity angle, tan(Eta) = axis ratio
	Epsilon         float64    // axis ratio tan(Eta)
	Delta           float64    // relative phase delta_p - delta_s
	Critical        float64    // critical angle asin(1/n)
	TotalReflection bool
}

// Reflect computes the reflected polarization state for relative index
// n = n1/n2 > 1, incident polarization angle alpha (measured from the s
// direction, [0, pi/2]) and incidence angle theta ([0, pi/2)), all in
// radians.
//
// Below the critical angle the Fresnel coefficients are real and the
// reflected light stays linear (Eta = 0) with its plane rotated to
// atan((rp/rs) tan alpha). Beyond it both coefficients acquire unit
// modulus and pure phase delays
//
//	delta_s = 2 atan(n*kappa/cos theta)
//	delta_p = 2 atan(kappa/(n*cos theta)),  kappa = sqrt(n^2 sin^2 theta - 1)
//
// and the reflected ellipse follows tan(2*psi) = tan(2*alpha) cos(Delta),
// tan(2*eta) = tan(2*alpha) sin(Delta) with Delta = delta_p - delta_s.
func Reflect(n, alpha, theta float64) (Result, error) {
	if n <= 1 {
		return Result{}, ErrInvalidIndex
	}

	if alpha < 0 || alpha > math.Pi/2 {
		return Result{}, ErrInvalidAlpha
	}

	if theta < 0 || theta >= math.Pi/2 {
		return Result{}, ErrInvalidTheta
	}

	res := Result{Critical: math.Asin(1 / n)}

	sinTheta2 := n * math.Sin(theta)
	cosTheta := math.Cos(theta)
	res.TotalReflection = sinTheta2 > 1

	if !res.TotalReflection {
		cosTheta2 := math.Sqrt(1 - sinTheta2*sinTheta2)

		rs := (cosTheta - cosTheta2/n) / (cosTheta + cosTheta2/n)
		rp := (cosTheta - n*cosTheta2) / (cosTheta + n*cosTheta2)
		res.RS = complex(rs, 0)
		res.RP = complex(rp, 0)

		if rs == 0 {
			// Pure p output; the plane angle saturates at +-pi/2.
			if rp >= 0 {
				res.AlphaPrime = math.Pi / 2
			} else {
				res.AlphaPrime = -math.Pi / 2
			}
		} else {
			res.AlphaPrime = math.Atan(rp / rs * math.Tan(alpha))
		}

		return res, nil
	}

	kappa := math.Sqrt(sinTheta2*sinTheta2 - 1)
	deltaS := 2 * math.Atan(n*kappa/cosTheta)
	deltaP := 2 * math.Atan(kappa/(n*cosTheta))

	res.RS = cmplx.Exp(complex(0, -deltaS))
	res.RP = cmplx.Exp(complex(0, -deltaP))
	res.Delta = deltaP - deltaS

	tan2Alpha := math.Tan(2 * alpha)
	if math.Abs(tan2Alpha) < tan2AlphaEps {
		// Pure s or p stays linear under total reflection.
		res.AlphaPrime = alpha
		return res, nil
	}

	res.AlphaPrime = 0.5 * math.Atan(tan2Alpha*math.Cos(res.Delta))
	res.Eta = 0.5 * math.Atan(tan2Alpha*math.Sin(res.Delta))
	res.Epsilon = math.Tan(res.Eta)

	return res, nil
}

// ReflectDeg is Reflect with alpha and theta given in degrees; the
// angular fields of the Result stay in radians.
func ReflectDeg(n, alphaDeg, thetaDeg float64) (Result, error) {
	return Reflect(n, alphaDeg*math.Pi/180, thetaDeg*math.Pi/180)
}

// CriticalAngle returns asin(1/n) for n > 1.
func CriticalAngle(n float64) (float64, error) {
	if n <= 1 {
		return 0, ErrInvalidIndex
	}

	return math.Asin(1 / n), nil
}
