package pairs

import (
	"errors"
	"fmt"
	"math"

	xutil "PairLink/pkg/util"
)

// ErrInvalidInput marks malformed series handed to the diagnostics.
var ErrInvalidInput = errors.New("pairs: invalid input")

// DefaultMinObservations is the shortest series accepted by Validator.
const DefaultMinObservations = 20

func invalid(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, a...))
}

// Validator checks series before any statistic is computed.
type Validator struct {
	MinObservations int
}

// NewValidator returns a Validator; minObs <= 0 selects the default.
func NewValidator(minObs int) Validator {
	if minObs <= 0 {
		minObs = DefaultMinObservations
	}
	return Validator{MinObservations: minObs}
}

// Series rejects short or non-finite input.
func (v Validator) Series(name string, x []float64) error {
	if len(x) < v.MinObservations {
		return invalid("%s has %d observations, need at least %d", name, len(x), v.MinObservations)
	}
	return checkFinite(name, x)
}

// Pair rejects series of different length plus everything Series rejects.
func (v Validator) Pair(y, x []float64) error {
	if len(y) != len(x) {
		return invalid("series lengths differ: %d vs %d", len(y), len(x))
	}
	if err := v.Series("series 1", y); err != nil {
		return err
	}
	return v.Series("series 2", x)
}

// Index checks optional date labels against a series of length n. Both
// indexes may be empty. When both are given they must be identical.
func (v Validator) Index(n int, a, b []string) error {
	for i, idx := range [][]string{a, b} {
		if len(idx) == 0 {
			continue
		}
		if len(idx) != n {
			return invalid("index %d has %d labels for %d observations", i+1, len(idx), n)
		}
		if _, err := xutil.ParseIndex(idx); err != nil {
			return invalid("index %d: %v", i+1, err)
		}
	}
	if len(a) > 0 && len(b) > 0 {
		for i := range a {
			if a[i] != b[i] {
				return invalid("indexes differ at position %d: %q vs %q", i, a[i], b[i])
			}
		}
	}
	return nil
}

func checkFinite(name string, x []float64) error {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid("%s[%d] is not finite", name, i)
		}
	}
	return nil
}

func checkAligned(y, x []float64) error {
	if len(y) != len(x) {
		return invalid("series lengths differ: %d vs %d", len(y), len(x))
	}
	if err := checkFinite("y", y); err != nil {
		return err
	}
	return checkFinite("x", x)
}
