package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountApply(t *testing.T) {
	cases := []struct {
		name     string
		discount Discount
		price    float64
		expected float64
	}{
		{"percentage", Discount{Type: DiscountTypePercentage, Value: 20}, 50, 40},
		{"full percentage", Discount{Type: DiscountTypePercentage, Value: 100}, 80, 0},
		{"fixed", Discount{Type: DiscountTypeFixed, Value: 15}, 50, 35},
		{"fixed exceeds price", Discount{Type: DiscountTypeFixed, Value: 60}, 50, 0},
		{"unknown type leaves price", Discount{Type: "VOUCHER", Value: 10}, 50, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.discount.Apply(tc.price))
		})
	}
}

func TestPaginationNormalize(t *testing.T) {
	p := Pagination{Page: 0, PageSize: 500}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 0, p.Offset())

	p = Pagination{Page: 3, PageSize: 10}
	p.Normalize()
	assert.Equal(t, 20, p.Offset())
}
