package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// TestKind names the unit-root or stationarity test used to find an
// integration order.
type TestKind string

const (
	TestADF       TestKind = "ADF"
	TestKPSSLevel TestKind = "KPSS-c"
	TestKPSSTrend TestKind = "KPSS-ct"
)

// ParseTestKind accepts the canonical names.
func ParseTestKind(s string) (TestKind, error) {
	switch k := TestKind(s); k {
	case TestADF, TestKPSSLevel, TestKPSSTrend:
		return k, nil
	}
	return "", fmt.Errorf("unknown test kind %q", s)
}

// IntegrationOrder is the number of differences needed to pass a test, or
// Undetermined when no tried order passed.
type IntegrationOrder struct {
	d  int
	ok bool
}

// Undetermined is the zero IntegrationOrder.
var Undetermined = IntegrationOrder{}

// Order returns the determined order d.
func Order(d int) IntegrationOrder {
	return IntegrationOrder{d: d, ok: true}
}

// Value returns the order and whether it was determined.
func (o IntegrationOrder) Value() (int, bool) { return o.d, o.ok }

// Determined reports whether an order was found.
func (o IntegrationOrder) Determined() bool { return o.ok }

// Is reports whether the order is determined and equals d.
func (o IntegrationOrder) Is(d int) bool { return o.ok && o.d == d }

func (o IntegrationOrder) String() string {
	if !o.ok {
		return "I(None)"
	}
	return "I(" + strconv.Itoa(o.d) + ")"
}

// MarshalJSON encodes the order as an integer or null.
func (o IntegrationOrder) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(o.d)), nil
}

func (o *IntegrationOrder) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*o = Undetermined
		return nil
	}
	var d int
	if err := json.Unmarshal(b, &d); err != nil {
		return fmt.Errorf("integration order: %w", err)
	}
	*o = Order(d)
	return nil
}

// IntegrationStep records one differencing level of an order search.
type IntegrationStep struct {
	D           int     `json:"d"`
	PValue      float64 `json:"p_value"`
	Passed      bool    `json:"passed"`
	Substituted bool    `json:"substituted,omitempty"`
	Err         string  `json:"error,omitempty"`
}

// IntegrationFinding is the order found for one series and one test, with
// the audit trail of every tested level.
type IntegrationFinding struct {
	Test  TestKind          `json:"test"`
	Order IntegrationOrder  `json:"order"`
	Steps []IntegrationStep `json:"steps"`
}

// Substitutions counts the steps whose p-value came from the fail-safe.
func (f IntegrationFinding) Substitutions() int {
	n := 0
	for _, s := range f.Steps {
		if s.Substituted {
			n++
		}
	}
	return n
}
