package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatter(t *testing.T) {
	f := NewFormatter()

	assert.Equal(t, "1,000", f.Int(1000))
	assert.Equal(t, "233,526", f.Int(233526))
	assert.Equal(t, "7", f.Int(7))
	assert.Equal(t, "$500", f.Currency(500))
	assert.Equal(t, "$1,295", f.Currency(1295))
	assert.Equal(t, "$445.50", f.Currency(445.5))
	assert.Equal(t, "$0.52", f.Money(0.5232, 2))
	assert.Equal(t, "47.0%", f.Percent(47.02, 1))
	assert.Equal(t, "1.06%", f.Percent(1.0598, -1))
	assert.Equal(t, "12,345.68", f.Decimal(12345.678, 2))
}

func TestFormatterNonFinite(t *testing.T) {
	f := NewFormatter()

	assert.Equal(t, "0", f.Int(math.NaN()))
	assert.Equal(t, "$0", f.Currency(math.Inf(1)))
	assert.Equal(t, "0.00%", f.Rate(math.Inf(-1)))
}
