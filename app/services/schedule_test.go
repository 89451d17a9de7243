package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sunrise-school/app/models"
)

func f64(v float64) *float64 { return &v }

func TestDeriveMonthlyBaseline(t *testing.T) {
	rows := []*models.MonthlyFeeTracking{
		{MonthlyAmount: 450, OriginalMonthlyAmount: f64(900)},
		{MonthlyAmount: 450},
	}

	tests := []struct {
		name     string
		rec      *models.FeeRecord
		fs       *models.FeeStructure
		rows     []*models.MonthlyFeeTracking
		expected float64
	}{
		{
			name:     "fee record original total wins",
			rec:      &models.FeeRecord{TotalAmount: 6000, OriginalTotalAmount: f64(12000)},
			fs:       &models.FeeStructure{AnnualTuition: 24000},
			rows:     rows,
			expected: 1000,
		},
		{
			name:     "fee record total when no original",
			rec:      &models.FeeRecord{TotalAmount: 6000},
			fs:       &models.FeeStructure{AnnualTuition: 24000},
			expected: 500,
		},
		{
			name:     "fee structure when record empty",
			rec:      &models.FeeRecord{},
			fs:       &models.FeeStructure{AnnualTuition: 24000},
			rows:     rows,
			expected: 2000,
		},
		{
			name:     "existing rows when no record or structure",
			rows:     rows,
			expected: 900,
		},
		{
			name:     "default when nothing else available",
			expected: DefaultMonthlyFee,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveMonthlyBaseline(tt.rec, tt.fs, tt.rows))
		})
	}
}

func TestAcademicYearFor(t *testing.T) {
	assert.Equal(t, 2025, AcademicYearFor(2025, 4))
	assert.Equal(t, 2025, AcademicYearFor(2025, 12))
	assert.Equal(t, 2026, AcademicYearFor(2025, 1))
	assert.Equal(t, 2026, AcademicYearFor(2025, 3))
}

func TestAcademicMonthsFrom(t *testing.T) {
	assert.Equal(t, []int{4, 5, 6, 7, 8, 9, 10, 11, 12, 1, 2, 3}, academicMonthsFrom(4))
	assert.Equal(t, []int{7, 8, 9, 10, 11, 12, 1, 2, 3, 4, 5, 6}, academicMonthsFrom(7))
	// Out-of-range start falls back to April
	assert.Equal(t, []int{4, 5, 6, 7, 8, 9, 10, 11, 12, 1, 2, 3}, academicMonthsFrom(0))
}

func TestDueDates(t *testing.T) {
	due := FeeDueDate(2025, 6)
	assert.Equal(t, 10, due.Day())
	assert.Equal(t, 6, int(due.Month()))
	assert.Equal(t, 2025, due.Year())

	tdue := TransportDueDate(2026, 1)
	assert.Equal(t, 5, tdue.Day())
	assert.Equal(t, 1, int(tdue.Month()))
	assert.Equal(t, 2026, tdue.Year())
}
