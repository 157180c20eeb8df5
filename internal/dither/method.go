package dither

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedMethod is returned for dither method names outside the
// Method enumeration.
var ErrUnsupportedMethod = errors.New("unsupported dither method")

// Method is a dithering algorithm.
type Method int

const (
	FloydSteinberg Method = iota
	JarvisJudiceNinke
	Stucki
	Burkes
	Sierra
	TwoRowSierra
	SierraLite
	Bayer4x4
	Bayer8x8

	numMethods
)

var methodNames = [numMethods]string{
	FloydSteinberg:    "floyd_steinberg",
	JarvisJudiceNinke: "jarvis_judice_ninke",
	Stucki:            "stucki",
	Burkes:            "burkes",
	Sierra:            "sierra",
	TwoRowSierra:      "two_row_sierra",
	SierraLite:        "sierra_lite",
	Bayer4x4:          "bayer4x4",
	Bayer8x8:          "bayer8x8",
}

var methodKernels = [numMethods]Kernel{
	FloydSteinberg:    floydSteinbergKernel,
	JarvisJudiceNinke: jarvisJudiceNinkeKernel,
	Stucki:            stuckiKernel,
	Burkes:            burkesKernel,
	Sierra:            sierraKernel,
	TwoRowSierra:      twoRowSierraKernel,
	SierraLite:        sierraLiteKernel,
}

// ParseMethod resolves a method name such as "floyd_steinberg". Matching
// ignores case and surrounding space, and accepts '-' for '_'.
func ParseMethod(name string) (Method, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for m, n := range methodNames {
		if n == key {
			return Method(m), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, name)
}

// Methods lists every method in declaration order.
func Methods() []Method {
	ms := make([]Method, numMethods)
	for i := range ms {
		ms[i] = Method(i)
	}
	return ms
}

func (m Method) valid() bool {
	return m >= 0 && m < numMethods
}

func (m Method) String() string {
	if !m.valid() {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// Kernel returns the error-diffusion matrix of m, or nil for ordered
// methods.
func (m Method) Kernel() Kernel {
	if !m.valid() {
		return nil
	}
	return methodKernels[m]
}

// Ordered reports whether m is a threshold-matrix method.
func (m Method) Ordered() bool {
	return m == Bayer4x4 || m == Bayer8x8
}
