package fresnel

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/kerrlab/moke/internal/testutil"
)

func TestReflectValidation(t *testing.T) {
	cases := []struct {
		name            string
		n, alpha, theta float64
		want            error
	}{
		{"index at one", 1.0, 0, 0, ErrInvalidIndex},
		{"index below one", 0.8, 0, 0, ErrInvalidIndex},
		{"alpha negative", 1.5, -0.1, 0, ErrInvalidAlpha},
		{"alpha above pi/2", 1.5, math.Pi/2 + 0.1, 0, ErrInvalidAlpha},
		{"theta negative", 1.5, 0, -0.1, ErrInvalidTheta},
		{"theta at pi/2", 1.5, 0, math.Pi / 2, ErrInvalidTheta},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Reflect(tc.n, tc.alpha, tc.theta)
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestReflectSubCritical(t *testing.T) {
	// n=1.5, theta=30deg: sin(theta2) = 0.75, below the critical angle.
	res, err := ReflectDeg(1.5, 30, 30)
	if err != nil {
		t.Fatalf("Reflect error: %v", err)
	}

	if res.TotalReflection {
		t.Fatal("TotalReflection = true below the critical angle")
	}

	// Real coefficients and linear output.
	if imag(res.RS) != 0 || imag(res.RP) != 0 {
		t.Fatalf("expected real coefficients, got rs=%v rp=%v", res.RS, res.RP)
	}

	if res.Eta != 0 || res.Epsilon != 0 {
		t.Fatalf("expected linear output, got eta=%v epsilon=%v", res.Eta, res.Epsilon)
	}

	cosTheta := math.Cos(math.Pi / 6)
	cosTheta2 := math.Sqrt(1 - 0.75*0.75)
	wantRS := (cosTheta - cosTheta2/1.5) / (cosTheta + cosTheta2/1.5)
	wantRP := (cosTheta - 1.5*cosTheta2) / (cosTheta + 1.5*cosTheta2)

	testutil.RequireNear(t, real(res.RS), wantRS, 1e-12)
	testutil.RequireNear(t, real(res.RP), wantRP, 1e-12)

	wantAlpha := math.Atan(wantRP / wantRS * math.Tan(math.Pi/6))
	testutil.RequireNear(t, res.AlphaPrime, wantAlpha, 1e-12)
}

func TestReflectTotalInternal(t *testing.T) {
	// n=1.5, theta=45deg: sin(theta2) = 1.06..., total reflection.
	res, err := ReflectDeg(1.5, 30, 45)
	if err != nil {
		t.Fatalf("Reflect error: %v", err)
	}

	if !res.TotalReflection {
		t.Fatal("TotalReflection = false beyond the critical angle")
	}

	// Unit-modulus coefficients.
	testutil.RequireNear(t, cmplx.Abs(res.RS), 1, 1e-12)
	testutil.RequireNear(t, cmplx.Abs(res.RP), 1, 1e-12)

	sinTheta2 := 1.5 * math.Sin(math.Pi/4)
	kappa := math.Sqrt(sinTheta2*sinTheta2 - 1)
	cosTheta := math.Cos(math.Pi / 4)
	deltaS := 2 * math.Atan(1.5*kappa/cosTheta)
	deltaP := 2 * math.Atan(kappa/(1.5*cosTheta))

	testutil.RequireNear(t, cmplx.Phase(res.RS), -deltaS, 1e-12)
	testutil.RequireNear(t, cmplx.Phase(res.RP), -deltaP, 1e-12)
	testutil.RequireNear(t, res.Delta, deltaP-deltaS, 1e-12)

	// Elliptical output with axis ratio tan(eta).
	if res.Eta == 0 {
		t.Fatal("Eta = 0 for 30deg polarization under total reflection")
	}

	testutil.RequireNear(t, res.Epsilon, math.Tan(res.Eta), 1e-15)

	tan2a := math.Tan(2 * math.Pi / 6)
	testutil.RequireNear(t, res.AlphaPrime, 0.5*math.Atan(tan2a*math.Cos(res.Delta)), 1e-12)
	testutil.RequireNear(t, res.Eta, 0.5*math.Atan(tan2a*math.Sin(res.Delta)), 1e-12)
}

func TestReflectPureS(t *testing.T) {
	res, err := ReflectDeg(1.5, 0, 45)
	if err != nil {
		t.Fatalf("Reflect error: %v", err)
	}

	// Pure s stays linear even under total reflection.
	testutil.RequireNear(t, res.AlphaPrime, 0, 1e-12)
	testutil.RequireNear(t, res.Eta, 0, 1e-15)
}

func TestReflectPureP(t *testing.T) {
	res, err := ReflectDeg(1.5, 90, 45)
	if err != nil {
		t.Fatalf("Reflect error: %v", err)
	}

	testutil.RequireNear(t, res.AlphaPrime, math.Pi/2, 1e-9)
	testutil.RequireNear(t, res.Eta, 0, 1e-15)
}

func TestReflectNormalIncidence(t *testing.T) {
	// At theta=0 both coefficients equal (n-1)/(n+1) up to sign
	// convention and the reflection cannot be total.
	res, err := Reflect(1.5, math.Pi/4, 0)
	if err != nil {
		t.Fatalf("Reflect error: %v", err)
	}

	if res.TotalReflection {
		t.Fatal("TotalReflection at normal incidence")
	}

	want := (1 - 1/1.5) / (1 + 1/1.5)
	testutil.RequireNear(t, real(res.RS), want, 1e-12)
	testutil.RequireNear(t, real(res.RP), (1-1.5)/(1+1.5), 1e-12)
}

func TestCriticalAngle(t *testing.T) {
	c, err := CriticalAngle(2)
	if err != nil {
		t.Fatalf("CriticalAngle error: %v", err)
	}

	testutil.RequireNear(t, c, math.Pi/6, 1e-12)

	if _, err := CriticalAngle(1); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("error = %v, want ErrInvalidIndex", err)
	}
}
