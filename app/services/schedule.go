package services

import (
	"math"
	"time"

	"sunrise-school/app/models"
)

// DefaultMonthlyFee is the last-resort monthly amount when neither the fee
// record, the class fee structure nor existing tracking rows yield one.
const DefaultMonthlyFee = 1000.0

// academicMonths is the April-to-March billing calendar.
var academicMonths = []int{4, 5, 6, 7, 8, 9, 10, 11, 12, 1, 2, 3}

const (
	feeDueDay       = 10
	transportDueDay = 5
)

// AcademicYearFor maps an academic month onto its calendar year: months from
// April onward fall in the session's opening year, January through March in
// the following one. Always anchored on the session record, never on the
// clock, so past and future sessions generate correctly.
func AcademicYearFor(sessionStartYear, month int) int {
	if month >= 4 {
		return sessionStartYear
	}
	return sessionStartYear + 1
}

// academicMonthsFrom returns the 12-month billing sequence starting at the
// given academic month (default April).
func academicMonthsFrom(startMonth int) []int {
	if startMonth < 1 || startMonth > 12 {
		startMonth = 4
	}
	start := 0
	for i, m := range academicMonths {
		if m == startMonth {
			start = i
			break
		}
	}
	months := make([]int, 0, 12)
	months = append(months, academicMonths[start:]...)
	months = append(months, academicMonths[:start]...)
	return months
}

// FeeDueDate is the 10th of the billed month.
func FeeDueDate(year, month int) time.Time {
	return time.Date(year, time.Month(month), feeDueDay, 0, 0, 0, 0, time.UTC)
}

// TransportDueDate is the 5th of the billed month.
func TransportDueDate(year, month int) time.Time {
	return time.Date(year, time.Month(month), transportDueDay, 0, 0, 0, 0, time.UTC)
}

// amountResolver yields a candidate monthly amount; ok is false when the
// source has nothing positive to offer.
type amountResolver func() (amount float64, ok bool)

// DeriveMonthlyBaseline computes the pre-waiver monthly amount for a student
// by walking an ordered chain of sources: the fee record's original annual
// total, the class fee structure, the largest amount already on tracking
// rows, then a fixed default. Each source is consulted only when the ones
// before it came up empty, and the record/structure sources always prefer
// pre-waiver figures so a waiver is never compounded onto an already waived
// amount.
func DeriveMonthlyBaseline(rec *models.FeeRecord, fs *models.FeeStructure, rows []*models.MonthlyFeeTracking) float64 {
	resolvers := []amountResolver{
		recordBaseline(rec),
		structureBaseline(fs),
		trackingBaseline(rows),
	}
	for _, resolve := range resolvers {
		if amount, ok := resolve(); ok {
			return round2(amount)
		}
	}
	return DefaultMonthlyFee
}

func recordBaseline(rec *models.FeeRecord) amountResolver {
	return func() (float64, bool) {
		if rec == nil {
			return 0, false
		}
		annual := rec.TotalAmount
		if rec.OriginalTotalAmount != nil && *rec.OriginalTotalAmount > 0 {
			annual = *rec.OriginalTotalAmount
		}
		if annual <= 0 {
			return 0, false
		}
		return annual / 12, true
	}
}

func structureBaseline(fs *models.FeeStructure) amountResolver {
	return func() (float64, bool) {
		if fs == nil || fs.AnnualTuition <= 0 {
			return 0, false
		}
		return fs.AnnualTuition / 12, true
	}
}

func trackingBaseline(rows []*models.MonthlyFeeTracking) amountResolver {
	return func() (float64, bool) {
		var max float64
		for _, row := range rows {
			if v := row.BaselineAmount(); v > max {
				max = v
			}
		}
		return max, max > 0
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
