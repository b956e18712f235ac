package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCandidate() Candidate {
	return Candidate{
		StationID:    "3",
		ProductID:    "7",
		StockDate:    "2025-06-14",
		OpeningStock: "1000",
		ClosingStock: "1200",
		Received:     "500",
		Sold:         "300",
		RecordedBy:   42,
	}
}

func TestValidateAccepts(t *testing.T) {
	rec, errs := Parse(validCandidate(), DefaultThresholds())
	require.Empty(t, errs)
	assert.Equal(t, int64(3), rec.StationID)
	assert.Equal(t, int64(7), rec.ProductID)
	assert.Equal(t, "2025-06-14", rec.StockDate.Format(DateLayout))
	assert.Equal(t, 1000.0, rec.OpeningStock)
	assert.Equal(t, 1200.0, rec.ClosingStock)
}

func TestValidateBlockingKinds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Candidate)
		kind   ErrorKind
	}{
		{"missing station", func(c *Candidate) { c.StationID = "" }, KindMissingStation},
		{"missing product", func(c *Candidate) { c.ProductID = " " }, KindMissingProduct},
		{"missing date", func(c *Candidate) { c.StockDate = "" }, KindMissingOrInvalidDate},
		{"garbage date", func(c *Candidate) { c.StockDate = "14/06/2025" }, KindMissingOrInvalidDate},
		{"missing opening", func(c *Candidate) { c.OpeningStock = "" }, KindMissingStockValue},
		{"non-numeric closing", func(c *Candidate) { c.ClosingStock = "abc" }, KindMissingStockValue},
		{"negative opening", func(c *Candidate) { c.OpeningStock = "-5" }, KindNegativeStockValue},
		{"negative received", func(c *Candidate) { c.Received = "-1" }, KindNegativeFlowValue},
		{"negative sold", func(c *Candidate) { c.Sold = "-0.5" }, KindNegativeFlowValue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validCandidate()
			tc.mutate(&c)
			errs := Validate(c, DefaultThresholds())
			require.NotEmpty(t, errs)
			found := false
			for _, e := range errs {
				if e.Kind == tc.kind {
					found = true
					assert.True(t, e.Blocking())
					assert.NotEmpty(t, e.Message)
				}
			}
			assert.True(t, found, "expected %s in %v", tc.kind, errs)
			assert.True(t, HasBlocking(errs))
		})
	}
}

func TestValidateFlowsDefaultToZero(t *testing.T) {
	c := validCandidate()
	c.Received = ""
	c.Sold = ""
	c.ClosingStock = c.OpeningStock
	rec, errs := Parse(c, DefaultThresholds())
	require.Empty(t, errs)
	assert.Zero(t, rec.Received)
	assert.Zero(t, rec.Sold)
}

func TestValidateLargeVarianceWarns(t *testing.T) {
	c := validCandidate()
	// expected 1200, tolerance 15% -> warn beyond 180 liters off.
	c.ClosingStock = "1000"
	errs := Validate(c, DefaultThresholds())
	require.Len(t, errs, 1)
	assert.Equal(t, KindLargeVarianceWarning, errs[0].Kind)
	assert.False(t, errs[0].Blocking())
	assert.False(t, HasBlocking(errs))
}

func TestValidateWithinToleranceStaysQuiet(t *testing.T) {
	c := validCandidate()
	c.ClosingStock = "1050" // 12.5% off expected 1200
	assert.Empty(t, Validate(c, DefaultThresholds()))
}

// The check is pure: repeated calls over the same candidate agree.
func TestValidateIdempotent(t *testing.T) {
	c := validCandidate()
	c.OpeningStock = "-5"
	first := Validate(c, DefaultThresholds())
	second := Validate(c, DefaultThresholds())
	assert.Equal(t, first, second)
}
