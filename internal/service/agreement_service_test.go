package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitInstallmentsEvenSplit(t *testing.T) {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	installments := SplitInstallments(30000, 3, start)
	require.Len(t, installments, 3)

	for i, inst := range installments {
		assert.Equal(t, i+1, inst.Number)
		assert.Equal(t, int64(10000), inst.AmountCents)
		assert.Equal(t, start.AddDate(0, i, 0), inst.DueDate)
	}
}

func TestSplitInstallmentsRemainderOnFirst(t *testing.T) {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	installments := SplitInstallments(10000, 3, start)
	require.Len(t, installments, 3)

	assert.Equal(t, int64(3334), installments[0].AmountCents)
	assert.Equal(t, int64(3333), installments[1].AmountCents)
	assert.Equal(t, int64(3333), installments[2].AmountCents)

	var sum int64
	for _, inst := range installments {
		sum += inst.AmountCents
	}
	assert.Equal(t, int64(10000), sum)
}

func TestSplitInstallmentsSumInvariant(t *testing.T) {
	start := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		total int64
		count int
	}{
		{1, 1},
		{99, 4},
		{123457, 12},
		{500000, 7},
	} {
		installments := SplitInstallments(tc.total, tc.count, start)
		require.Len(t, installments, tc.count)

		var sum int64
		for i, inst := range installments {
			sum += inst.AmountCents
			if i > 0 {
				assert.LessOrEqual(t, inst.AmountCents, installments[0].AmountCents)
			}
		}
		assert.Equal(t, tc.total, sum, "total=%d count=%d", tc.total, tc.count)
	}
}

func TestSplitInstallmentsMonthlyDueDates(t *testing.T) {
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	installments := SplitInstallments(6000, 3, start)
	require.Len(t, installments, 3)

	assert.Equal(t, start, installments[0].DueDate)
	assert.Equal(t, start.AddDate(0, 1, 0), installments[1].DueDate)
	assert.Equal(t, start.AddDate(0, 2, 0), installments[2].DueDate)
}
