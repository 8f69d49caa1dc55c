package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSales(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

	first := demoSales(7, 3, now)
	second := demoSales(7, 3, now)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)

	start := now.AddDate(0, -3, 0)
	for _, s := range first {
		assert.GreaterOrEqual(t, s.Quantity, 1)
		assert.LessOrEqual(t, s.Quantity, 5)
		assert.True(t, s.UnitPrice.IsPositive())
		assert.True(t, s.UnitPrice.LessThanOrEqual(demoProducts[s.ProductIndex].Price))
		assert.False(t, s.SaleDate.Before(start))
		assert.True(t, s.SaleDate.Before(now.Add(24*time.Hour)))
	}
}
