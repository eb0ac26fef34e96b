package numfmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okian/ffebridge/internal/codec/numfmt"
)

func TestFixed(t *testing.T) {
	for _, tc := range []struct {
		in     float64
		places int32
		want   string
	}{
		{0, 2, "0,00"},
		{4, 2, "4,00"},
		{61.2, 3, "61,200"},
		{1.005, 2, "1,01"},
		{2.5, 0, "3"},
		{-1.25, 1, "-1,3"},
	} {
		assert.Equal(t, tc.want, numfmt.Fixed(tc.in, tc.places), "%v/%d", tc.in, tc.places)
	}
	assert.Equal(t, "150.00", numfmt.Dot(150, 2))
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0.3, numfmt.Sum(0.1, 0.2))
	assert.Equal(t, 0.0, numfmt.Sum())
}

func TestGrouped(t *testing.T) {
	assert.Equal(t, "0,00", numfmt.Grouped(0))
	assert.Equal(t, "999,90", numfmt.Grouped(999.9))
	assert.Equal(t, "1 234,56", numfmt.Grouped(1234.56))
	assert.Equal(t, "1 000 000,00", numfmt.Grouped(1e6))
	assert.Equal(t, "-12 345,00", numfmt.Grouped(-12345))
}
