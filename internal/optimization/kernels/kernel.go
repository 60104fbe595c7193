package kernels

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kernel is a radial basis function evaluated between two points
type Kernel interface {
	// Eval computes the kernel value between two points x1 and x2
	Eval(x1, x2 []float64) float64

	// Hyperparameters returns the current hyperparameters
	Hyperparameters() []float64

	// SetHyperparameters sets the kernel's hyperparameters
	SetHyperparameters(params []float64) error
}

// radial is the shape shared by all kernels here: k(x1, x2) = scale * phi(|x1-x2| / width).
type radial struct {
	width float64
	scale float64
	phi   func(r float64) float64
}

func newRadial(width, scale float64, phi func(float64) float64) (radial, error) {
	if !(width > 0) || !(scale > 0) {
		return radial{}, fmt.Errorf("width and scale must be positive, got %v and %v", width, scale)
	}
	return radial{width: width, scale: scale, phi: phi}, nil
}

func (k *radial) Eval(x1, x2 []float64) float64 {
	r := floats.Distance(x1, x2, 2) / k.width
	return k.scale * k.phi(r)
}

func (k *radial) Hyperparameters() []float64 {
	return []float64{k.width, k.scale}
}

func (k *radial) SetHyperparameters(params []float64) error {
	if len(params) != 2 {
		return fmt.Errorf("expected 2 hyperparameters, got %d", len(params))
	}
	if params[0] <= 0 || params[1] <= 0 {
		return fmt.Errorf("hyperparameters must be positive, got %v", params)
	}
	k.width = params[0]
	k.scale = params[1]
	return nil
}

// Gaussian is the squared exponential kernel scale * exp(-r^2/2).
type Gaussian struct{ radial }

// NewGaussian creates a Gaussian kernel with the given width and scale.
func NewGaussian(width, scale float64) (*Gaussian, error) {
	r, err := newRadial(width, scale, func(r float64) float64 {
		return math.Exp(-0.5 * r * r)
	})
	if err != nil {
		return nil, err
	}
	return &Gaussian{r}, nil
}

// Matern52 is the Matérn 5/2 kernel.
type Matern52 struct{ radial }

// NewMatern52 creates a Matérn 5/2 kernel with the given width and scale.
func NewMatern52(width, scale float64) (*Matern52, error) {
	r, err := newRadial(width, scale, func(r float64) float64 {
		s := math.Sqrt(5) * r
		return (1 + s + s*s/3) * math.Exp(-s)
	})
	if err != nil {
		return nil, err
	}
	return &Matern52{r}, nil
}

// Multiquadric is scale * sqrt(1 + r^2). It grows with distance.
type Multiquadric struct{ radial }

// NewMultiquadric creates a multiquadric kernel with the given width and scale.
func NewMultiquadric(width, scale float64) (*Multiquadric, error) {
	r, err := newRadial(width, scale, func(r float64) float64 {
		return math.Sqrt(1 + r*r)
	})
	if err != nil {
		return nil, err
	}
	return &Multiquadric{r}, nil
}

// InverseMultiquadric is scale / sqrt(1 + r^2).
type InverseMultiquadric struct{ radial }

// NewInverseMultiquadric creates an inverse multiquadric kernel.
func NewInverseMultiquadric(width, scale float64) (*InverseMultiquadric, error) {
	r, err := newRadial(width, scale, func(r float64) float64 {
		return 1 / math.Sqrt(1+r*r)
	})
	if err != nil {
		return nil, err
	}
	return &InverseMultiquadric{r}, nil
}

// ByName returns the kernel registered under name.
func ByName(name string, width, scale float64) (Kernel, error) {
	switch name {
	case "gaussian", "rbf":
		return NewGaussian(width, scale)
	case "matern52":
		return NewMatern52(width, scale)
	case "multiquadric":
		return NewMultiquadric(width, scale)
	case "inverse_multiquadric":
		return NewInverseMultiquadric(width, scale)
	}
	return nil, fmt.Errorf("unknown kernel %q", name)
}
