package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Reversion is the outcome of a mean-reversion speed estimate: either a
// finite number of periods or NotMeanReverting.
type Reversion struct {
	periods float64
	ok      bool
}

// NotMeanReverting is the zero Reversion.
var NotMeanReverting = Reversion{}

// Estimate wraps a finite, positive period count. Anything else yields
// NotMeanReverting.
func Estimate(periods float64) Reversion {
	if math.IsNaN(periods) || math.IsInf(periods, 0) || periods <= 0 {
		return NotMeanReverting
	}
	return Reversion{periods: periods, ok: true}
}

// Periods returns the estimate and whether the series is mean reverting.
func (r Reversion) Periods() (float64, bool) { return r.periods, r.ok }

// MeanReverting reports whether an estimate exists.
func (r Reversion) MeanReverting() bool { return r.ok }

// Float returns the periods, or +Inf when not mean reverting.
func (r Reversion) Float() float64 {
	if !r.ok {
		return math.Inf(1)
	}
	return r.periods
}

func (r Reversion) String() string {
	if !r.ok {
		return "not mean reverting"
	}
	return strconv.FormatFloat(r.periods, 'f', 4, 64) + " periods"
}

type reversionJSON struct {
	MeanReverting bool     `json:"mean_reverting"`
	Periods       *float64 `json:"periods,omitempty"`
}

func (r Reversion) MarshalJSON() ([]byte, error) {
	out := reversionJSON{MeanReverting: r.ok}
	if r.ok {
		p := r.periods
		out.Periods = &p
	}
	return json.Marshal(out)
}

func (r *Reversion) UnmarshalJSON(b []byte) error {
	var in reversionJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return fmt.Errorf("reversion: %w", err)
	}
	if !in.MeanReverting {
		*r = NotMeanReverting
		return nil
	}
	if in.Periods == nil {
		return fmt.Errorf("reversion: mean_reverting without periods")
	}
	*r = Estimate(*in.Periods)
	return nil
}

// MeanReversionReport bundles the three mean-reversion diagnostics. Hurst
// is nil when the spread is too short or flat to estimate it, with the
// reason in HurstError.
type MeanReversionReport struct {
	HalfLife        Reversion `json:"half_life"`
	EmpiricalPeriod Reversion `json:"empirical_reversion"`
	Hurst           *float64  `json:"hurst_exponent"`
	HurstError      string    `json:"hurst_error,omitempty"`
	HedgeRatio      float64   `json:"hedge_ratio"`
	Intercept       float64   `json:"intercept"`
	Lambda          float64   `json:"ar1_lambda"`
}

// PairReport is the full evaluation of a pair.
type PairReport struct {
	SymbolY       string               `json:"symbol_y,omitempty"`
	SymbolX       string               `json:"symbol_x,omitempty"`
	Observations  int                  `json:"observations"`
	Cointegration *CointegrationResult `json:"cointegration"`
	MeanReversion *MeanReversionReport `json:"mean_reversion"`
}
