package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunrise-school/app/models"
)

func TestEnableMonthlyTrackingCreatesSchedule(t *testing.T) {
	store := newMemStore()
	store.addSession("sess-2025", "2025-26", 2025, true)
	store.addStudent("stu-1", "sess-2025", date(2014, 6, 1))
	store.structures["class-1|sess-2025"] = &models.FeeStructure{
		ID: "fs-1", ClassID: "class-1", SessionYearID: "sess-2025", AnnualTuition: 24000,
	}

	svc := NewTrackingService(store)
	results, err := svc.EnableMonthlyTracking(EnableTrackingRequest{
		StudentIDs:    []string{"stu-1"},
		SessionYearID: "sess-2025",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.True(t, res.Success)
	assert.Equal(t, "Monthly tracking enabled successfully", res.Message)
	assert.Equal(t, 12, res.MonthlyRecords)
	assert.True(t, res.FeeRecordCreated)
	assert.Equal(t, "Student stu-1", res.StudentName)

	rows, _ := store.GetMonthlyTracking("stu-1", "sess-2025")
	require.Len(t, rows, 12)
	for _, row := range rows {
		assert.Equal(t, 2000.0, row.MonthlyAmount)
		assert.Equal(t, models.PaymentPending, row.PaymentStatus)
		assert.Nil(t, row.OriginalMonthlyAmount)
		assert.Equal(t, 10, row.DueDate.Day())
	}

	rec, err := store.GetFeeRecord("stu-1", "sess-2025")
	require.NoError(t, err)
	assert.Equal(t, 24000.0, rec.TotalAmount)
	assert.Equal(t, 24000.0, rec.BalanceAmount)
	assert.True(t, rec.IsMonthlyTracked)
	assert.False(t, rec.HasSiblingWaiver)
	assert.Nil(t, rec.OriginalTotalAmount)
}

func TestEnableMonthlyTrackingAcademicYearRollover(t *testing.T) {
	store := newMemStore()
	store.addSession("sess-2025", "2025-26", 2025, true)
	store.addStudent("stu-1", "sess-2025", date(2014, 6, 1))

	svc := NewTrackingService(store)
	_, err := svc.EnableMonthlyTracking(EnableTrackingRequest{
		StudentIDs:    []string{"stu-1"},
		SessionYearID: "sess-2025",
	})
	require.NoError(t, err)

	rows, _ := store.GetMonthlyTracking("stu-1", "sess-2025")
	years := make(map[int]int, 12)
	for _, row := range rows {
		years[row.AcademicMonth] = row.AcademicYear
	}
	assert.Equal(t, 2025, years[4])
	assert.Equal(t, 2025, years[12])
	assert.Equal(t, 2026, years[1])
	assert.Equal(t, 2026, years[3])
}

func TestEnableMonthlyTrackingIdempotent(t *testing.T) {
	store := newMemStore()
	store.addSession("sess-2025", "2025-26", 2025, true)
	store.addStudent("stu-1", "sess-2025", date(2014, 6, 1))

	svc := NewTrackingService(store)
	req := EnableTrackingRequest{StudentIDs: []string{"stu-1"}, SessionYearID: "sess-2025"}

	_, err := svc.EnableMonthlyTracking(req)
	require.NoError(t, err)
	writesAfterFirst := store.writes

	results, err := svc.EnableMonthlyTracking(req)
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.True(t, res.Success)
	assert.Equal(t, "Monthly tracking already enabled (12 records exist, waiver unchanged)", res.Message)
	assert.Equal(t, writesAfterFirst, store.writes, "second run must not write anything")
}

func TestWaiverUpdateLeavesPaidMonthsAlone(t *testing.T) {
	store := newMemStore()
	store.addSession("sess-2025", "2025-26", 2025, true)
	student := store.addStudent("stu-1", "sess-2025", date(2014, 6, 1))
	// Four siblings in total, student is 3rd by birth: 50% waiver.
	sibs := []*models.Student{
		store.addStudent("stu-2", "sess-2025", date(2010, 1, 1)),
		store.addStudent("stu-3", "sess-2025", date(2012, 3, 15)),
		store.addStudent("stu-4", "sess-2025", date(2016, 9, 30)),
	}
	store.linkSiblings(student.ID, sibs...)

	store.feeRecords["stu-1|sess-2025"] = &models.FeeRecord{
		ID: "fr-1", StudentID: "stu-1", SessionYearID: "sess-2025",
		TotalAmount: 12000, PaidAmount: 1000, BalanceAmount: 11000,
		IsMonthlyTracked: true,
	}
	for i, month := range []int{4, 5, 6, 7, 8, 9, 10, 11, 12, 1, 2, 3} {
		row := &models.MonthlyFeeTracking{
			ID:            store.id("mt"),
			StudentID:     "stu-1",
			SessionYearID: "sess-2025",
			AcademicMonth: month,
			AcademicYear:  AcademicYearFor(2025, month),
			MonthlyAmount: 1000,
			DueDate:       date(AcademicYearFor(2025, month), month, 10),
			PaymentStatus: models.PaymentPending,
		}
		if i == 0 {
			row.PaymentStatus = models.PaymentPaid
			row.PaidAmount = 1000
		}
		store.monthly = append(store.monthly, row)
	}

	svc := NewTrackingService(store)
	results, err := svc.EnableMonthlyTracking(EnableTrackingRequest{
		StudentIDs:    []string{"stu-1"},
		SessionYearID: "sess-2025",
	})
	require.NoError(t, err)

	res := results[0]
	assert.True(t, res.Success)
	assert.Equal(t, "Waiver updated from 0.00% to 50.00% (11 unpaid records updated)", res.Message)
	assert.Equal(t, 11, res.MonthlyRecords)

	rows, _ := store.GetMonthlyTracking("stu-1", "sess-2025")
	var total float64
	for _, row := range rows {
		total += row.MonthlyAmount
		if row.PaymentStatus == models.PaymentPaid {
			assert.Equal(t, 1000.0, row.MonthlyAmount, "paid month must stay untouched")
			assert.Equal(t, 0.0, row.FeeWaiverPercentage)
		} else {
			assert.Equal(t, 500.0, row.MonthlyAmount)
			assert.Equal(t, 50.0, row.FeeWaiverPercentage)
			require.NotNil(t, row.OriginalMonthlyAmount)
			assert.Equal(t, 1000.0, *row.OriginalMonthlyAmount)
		}
	}

	rec, _ := store.GetFeeRecord("stu-1", "sess-2025")
	assert.Equal(t, total, rec.TotalAmount, "ledger total must equal sum of monthly amounts")
	assert.Equal(t, 6500.0, rec.TotalAmount)
	assert.Equal(t, rec.TotalAmount-rec.PaidAmount, rec.BalanceAmount)
	assert.True(t, rec.HasSiblingWaiver)
	assert.Equal(t, 50.0, rec.SiblingWaiverPercentage)
	require.NotNil(t, rec.OriginalTotalAmount)
	assert.Equal(t, 12000.0, *rec.OriginalTotalAmount)
}

func TestWaiverRemovalClearsOriginalAmounts(t *testing.T) {
	store := newMemStore()
	store.addSession("sess-2025", "2025-26", 2025, true)
	store.addStudent("stu-1", "sess-2025", date(2014, 6, 1))

	origTotal := 12000.0
	origMonthly := 1000.0
	reason := "50% fee waiver (2nd youngest of 4 siblings)"
	store.feeRecords["stu-1|sess-2025"] = &models.FeeRecord{
		ID: "fr-1", StudentID: "stu-1", SessionYearID: "sess-2025",
		TotalAmount: 6000, OriginalTotalAmount: &origTotal,
		HasSiblingWaiver: true, SiblingWaiverPercentage: 50,
		IsMonthlyTracked: true,
	}
	for _, month := range []int{4, 5, 6, 7, 8, 9, 10, 11, 12, 1, 2, 3} {
		o := origMonthly
		store.monthly = append(store.monthly, &models.MonthlyFeeTracking{
			ID:                    store.id("mt"),
			StudentID:             "stu-1",
			SessionYearID:         "sess-2025",
			AcademicMonth:         month,
			AcademicYear:          AcademicYearFor(2025, month),
			MonthlyAmount:         500,
			OriginalMonthlyAmount: &o,
			FeeWaiverPercentage:   50,
			WaiverReason:          &reason,
			DueDate:               date(AcademicYearFor(2025, month), month, 10),
			PaymentStatus:         models.PaymentPending,
		})
	}

	svc := NewTrackingService(store)
	results, err := svc.EnableMonthlyTracking(EnableTrackingRequest{
		StudentIDs:    []string{"stu-1"},
		SessionYearID: "sess-2025",
	})
	require.NoError(t, err)
	assert.True(t, results[0].Success)

	rows, _ := store.GetMonthlyTracking("stu-1", "sess-2025")
	for _, row := range rows {
		// Baseline comes from the record's pre-waiver total, not the
		// waived monthly amount.
		assert.Equal(t, 1000.0, row.MonthlyAmount)
		assert.Nil(t, row.OriginalMonthlyAmount)
		assert.Equal(t, 0.0, row.FeeWaiverPercentage)
	}

	rec, _ := store.GetFeeRecord("stu-1", "sess-2025")
	assert.False(t, rec.HasSiblingWaiver)
	assert.Nil(t, rec.OriginalTotalAmount)
	assert.Equal(t, 12000.0, rec.TotalAmount)
}

func TestBackfillCompletesPartialSchedule(t *testing.T) {
	store := newMemStore()
	store.addSession("sess-2025", "2025-26", 2025, true)
	store.addStudent("stu-1", "sess-2025", date(2014, 6, 1))

	// Only April through November on file, December through March missing.
	for _, month := range []int{4, 5, 6, 7, 8, 9, 10, 11} {
		store.monthly = append(store.monthly, &models.MonthlyFeeTracking{
			ID:            store.id("mt"),
			StudentID:     "stu-1",
			SessionYearID: "sess-2025",
			AcademicMonth: month,
			AcademicYear:  AcademicYearFor(2025, month),
			MonthlyAmount: 1000,
			DueDate:       date(AcademicYearFor(2025, month), month, 10),
			PaymentStatus: models.PaymentPending,
		})
	}

	svc := NewTrackingService(store)
	results, err := svc.EnableMonthlyTracking(EnableTrackingRequest{
		StudentIDs:    []string{"stu-1"},
		SessionYearID: "sess-2025",
	})
	require.NoError(t, err)

	res := results[0]
	assert.True(t, res.Success)
	assert.Equal(t, "Monthly tracking completed (4 missing records created)", res.Message)
	assert.Equal(t, 4, res.MonthlyRecords)
	assert.True(t, res.FeeRecordCreated)

	rows, _ := store.GetMonthlyTracking("stu-1", "sess-2025")
	require.Len(t, rows, 12)
	var total float64
	for _, row := range rows {
		// The backfilled months inherit the amount already on file.
		assert.Equal(t, 1000.0, row.MonthlyAmount)
		assert.Equal(t, models.PaymentPending, row.PaymentStatus)
		total += row.MonthlyAmount
	}

	rec, err := store.GetFeeRecord("stu-1", "sess-2025")
	require.NoError(t, err)
	assert.Equal(t, total, rec.TotalAmount)
	assert.Equal(t, 12000.0, rec.TotalAmount)
	assert.Equal(t, rec.TotalAmount-rec.PaidAmount, rec.BalanceAmount)
}

func TestBackfillWithWaiverChange(t *testing.T) {
	store := newMemStore()
	store.addSession("sess-2025", "2025-26", 2025, true)
	student := store.addStudent("stu-1", "sess-2025", date(2014, 6, 1))
	sibs := []*models.Student{
		store.addStudent("stu-2", "sess-2025", date(2010, 1, 1)),
		store.addStudent("stu-3", "sess-2025", date(2012, 3, 15)),
		store.addStudent("stu-4", "sess-2025", date(2016, 9, 30)),
	}
	store.linkSiblings(student.ID, sibs...)

	store.feeRecords["stu-1|sess-2025"] = &models.FeeRecord{
		ID: "fr-1", StudentID: "stu-1", SessionYearID: "sess-2025",
		TotalAmount: 12000, BalanceAmount: 12000,
		IsMonthlyTracked: true,
	}
	for _, month := range []int{4, 5, 6, 7, 8, 9, 10, 11} {
		store.monthly = append(store.monthly, &models.MonthlyFeeTracking{
			ID:            store.id("mt"),
			StudentID:     "stu-1",
			SessionYearID: "sess-2025",
			AcademicMonth: month,
			AcademicYear:  AcademicYearFor(2025, month),
			MonthlyAmount: 1000,
			DueDate:       date(AcademicYearFor(2025, month), month, 10),
			PaymentStatus: models.PaymentPending,
		})
	}

	svc := NewTrackingService(store)
	results, err := svc.EnableMonthlyTracking(EnableTrackingRequest{
		StudentIDs:    []string{"stu-1"},
		SessionYearID: "sess-2025",
	})
	require.NoError(t, err)

	res := results[0]
	assert.True(t, res.Success)
	assert.Equal(t, "Waiver updated from 0.00% to 50.00% (8 unpaid records updated, 4 missing records created)", res.Message)
	assert.Equal(t, 12, res.MonthlyRecords)

	rows, _ := store.GetMonthlyTracking("stu-1", "sess-2025")
	require.Len(t, rows, 12)
	for _, row := range rows {
		assert.Equal(t, 500.0, row.MonthlyAmount)
		assert.Equal(t, 50.0, row.FeeWaiverPercentage)
		require.NotNil(t, row.OriginalMonthlyAmount)
		assert.Equal(t, 1000.0, *row.OriginalMonthlyAmount)
	}

	rec, _ := store.GetFeeRecord("stu-1", "sess-2025")
	assert.Equal(t, 6000.0, rec.TotalAmount)
	require.NotNil(t, rec.OriginalTotalAmount)
	assert.Equal(t, 12000.0, *rec.OriginalTotalAmount)
}

func TestBatchIsolatesStudentFailures(t *testing.T) {
	store := newMemStore()
	store.addSession("sess-2025", "2025-26", 2025, true)
	store.addStudent("stu-1", "sess-2025", date(2014, 6, 1))

	svc := NewTrackingService(store)
	results, err := svc.EnableMonthlyTracking(EnableTrackingRequest{
		StudentIDs:    []string{"stu-missing", "stu-1"},
		SessionYearID: "sess-2025",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Success)
	assert.Equal(t, "Student not found", results[0].Message)

	assert.True(t, results[1].Success)
	assert.Equal(t, 12, results[1].MonthlyRecords)
}

func TestUnknownSessionYearFailsFast(t *testing.T) {
	store := newMemStore()
	store.addStudent("stu-1", "sess-2025", date(2014, 6, 1))

	svc := NewTrackingService(store)
	results, err := svc.EnableMonthlyTracking(EnableTrackingRequest{
		StudentIDs:    []string{"stu-1"},
		SessionYearID: "sess-missing",
	})
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "not found")
	assert.Zero(t, store.writes)
}

func TestWaiverAppliedAtCreation(t *testing.T) {
	store := newMemStore()
	store.addSession("sess-2025", "2025-26", 2025, true)
	// Youngest of three active same-session siblings: 100% waiver.
	student := store.addStudent("stu-1", "sess-2025", date(2016, 9, 30))
	sibs := []*models.Student{
		store.addStudent("stu-2", "sess-2025", date(2010, 1, 1)),
		store.addStudent("stu-3", "sess-2025", date(2012, 3, 15)),
	}
	store.linkSiblings(student.ID, sibs...)
	store.structures["class-1|sess-2025"] = &models.FeeStructure{
		ID: "fs-1", ClassID: "class-1", SessionYearID: "sess-2025", AnnualTuition: 24000,
	}

	svc := NewTrackingService(store)
	results, err := svc.EnableMonthlyTracking(EnableTrackingRequest{
		StudentIDs:    []string{"stu-1"},
		SessionYearID: "sess-2025",
	})
	require.NoError(t, err)
	assert.True(t, results[0].Success)

	rows, _ := store.GetMonthlyTracking("stu-1", "sess-2025")
	require.Len(t, rows, 12)
	for _, row := range rows {
		assert.Equal(t, 0.0, row.MonthlyAmount)
		require.NotNil(t, row.OriginalMonthlyAmount)
		assert.Equal(t, 2000.0, *row.OriginalMonthlyAmount)
		assert.Equal(t, 100.0, row.FeeWaiverPercentage)
		require.NotNil(t, row.WaiverReason)
		assert.Contains(t, *row.WaiverReason, "youngest")
	}

	rec, _ := store.GetFeeRecord("stu-1", "sess-2025")
	assert.Equal(t, 0.0, rec.TotalAmount)
	require.NotNil(t, rec.OriginalTotalAmount)
	assert.Equal(t, 24000.0, *rec.OriginalTotalAmount)
	assert.True(t, rec.HasSiblingWaiver)
}

func TestInactiveSiblingsDoNotCount(t *testing.T) {
	store := newMemStore()
	store.addSession("sess-2025", "2025-26", 2025, true)
	student := store.addStudent("stu-1", "sess-2025", date(2016, 9, 30))

	left := store.addStudent("stu-2", "sess-2025", date(2010, 1, 1))
	left.IsActive = false
	otherSession := store.addStudent("stu-3", "sess-2024", date(2012, 3, 15))
	store.linkSiblings(student.ID, left, otherSession,
		store.addStudent("stu-4", "sess-2025", date(2011, 5, 5)))

	svc := NewTrackingService(store)
	preview, err := svc.PreviewWaiver("stu-1", "sess-2025")
	require.NoError(t, err)

	// Only stu-4 qualifies: a group of two earns no waiver.
	assert.Equal(t, 2, preview.TotalSiblings)
	assert.Equal(t, 2, preview.BirthOrder)
	assert.Equal(t, 0.0, preview.Percentage)
}

func TestRecomputeCurrentSession(t *testing.T) {
	store := newMemStore()
	store.addSession("sess-2025", "2025-26", 2025, true)
	store.addStudent("stu-1", "sess-2025", date(2014, 6, 1))

	svc := NewTrackingService(store)
	_, err := svc.EnableMonthlyTracking(EnableTrackingRequest{
		StudentIDs:    []string{"stu-1"},
		SessionYearID: "sess-2025",
	})
	require.NoError(t, err)

	results, err := svc.RecomputeCurrentSession()
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Contains(t, results[0].Message, "already enabled")
}
