package mongo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimal128Conversion(t *testing.T) {
	for _, in := range []string{"0", "10.00", "15.5", "25.50", "1234567.89"} {
		d := decimal.RequireFromString(in)

		enc, err := toDecimal128(d)
		require.NoError(t, err)

		dec, err := fromDecimal128(enc)
		require.NoError(t, err)
		assert.True(t, d.Equal(dec), "%s -> %s", in, dec)
	}
}
