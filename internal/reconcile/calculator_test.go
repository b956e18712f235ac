package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeVariance(t *testing.T) {
	th := DefaultThresholds()

	cases := []struct {
		name     string
		opening  float64
		received float64
		sold     float64
		closing  float64
		expected float64
		variance float64
		severity Severity
	}{
		{name: "exact", opening: 1000, received: 500, sold: 300, closing: 1200, expected: 1200, variance: 0, severity: SeverityExact},
		{name: "minor shortage", opening: 1000, received: 500, sold: 300, closing: 1150, expected: 1200, variance: -50, severity: SeverityMinor},
		{name: "major shortage", opening: 1000, received: 0, sold: 0, closing: 700, expected: 1000, variance: -300, severity: SeverityMajor},
		{name: "minor surplus", opening: 500, received: 0, sold: 100, closing: 480, expected: 400, variance: 80, severity: SeverityMinor},
		{name: "band boundary is minor", opening: 1000, received: 0, sold: 0, closing: 900, expected: 1000, variance: -100, severity: SeverityMinor},
		{name: "negative expected not clamped", opening: 100, received: 0, sold: 300, closing: 0, expected: -200, variance: 200, severity: SeverityMajor},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeVariance(tc.opening, tc.received, tc.sold, tc.closing, th)
			assert.Equal(t, tc.expected, got.Expected)
			assert.Equal(t, tc.variance, got.Variance)
			assert.Equal(t, tc.severity, got.Severity)
		})
	}
}

// The expected figure must be the exact floating-point sum with no hidden
// rounding, and a closing reading equal to it must always classify as exact.
func TestComputeVarianceConservation(t *testing.T) {
	th := DefaultThresholds()
	inputs := []struct{ o, r, s float64 }{
		{1000, 500, 300},
		{0.1, 0.2, 0.05},
		{12345.678, 0, 9876.543},
		{0, 0, 0},
	}
	for _, in := range inputs {
		want := in.o + in.r - in.s
		got := ComputeVariance(in.o, in.r, in.s, want, th)
		assert.Equal(t, want, got.Expected)
		assert.Zero(t, got.Variance, "closing==expected must carry no variance")
		assert.Equal(t, SeverityExact, got.Severity)
	}
}

func TestComputeVarianceCustomBand(t *testing.T) {
	th := Thresholds{MinorBand: 500, TolerancePct: 0.15}
	got := ComputeVariance(1000, 0, 0, 700, th)
	assert.Equal(t, SeverityMinor, got.Severity, "widened band should classify -300 as minor")
}
