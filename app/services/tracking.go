package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sunrise-school/app/models"
)

var errStudentNotFound = errors.New("student not found")

// TrackingService is the monthly fee (and transport fee) tracking engine: it
// derives per-month billing schedules, applies sibling waivers and keeps the
// fee record ledger consistent with the monthly rows.
type TrackingService struct {
	store EngineStore
}

func NewTrackingService(store EngineStore) *TrackingService {
	return &TrackingService{store: store}
}

// EnableTrackingRequest is the batch entry point input. StartMonth and
// StartYear are optional; they default to April of the session's start year.
type EnableTrackingRequest struct {
	StudentIDs    []string `json:"student_ids"`
	SessionYearID string   `json:"session_year_id"`
	StartMonth    int      `json:"start_month"`
	StartYear     int      `json:"start_year"`
}

// StudentTrackingResult reports the outcome for one student in a batch.
type StudentTrackingResult struct {
	StudentID        string `json:"student_id"`
	StudentName      string `json:"student_name,omitempty"`
	FeeRecordID      string `json:"fee_record_id,omitempty"`
	FeeRecordCreated bool   `json:"fee_record_created"`
	MonthlyRecords   int    `json:"monthly_records"`
	Success          bool   `json:"success"`
	Message          string `json:"message"`
}

// EnableMonthlyTracking processes the given students one by one, isolating
// failures: a student that cannot be processed gets a failure result and the
// batch carries on. Only an unresolvable session year aborts the whole call.
func (s *TrackingService) EnableMonthlyTracking(req EnableTrackingRequest) ([]*StudentTrackingResult, error) {
	session, err := s.store.GetSessionYearByID(req.SessionYearID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session year %s not found", req.SessionYearID)
		}
		return nil, fmt.Errorf("failed to resolve session year: %v", err)
	}

	startMonth := req.StartMonth
	if startMonth == 0 {
		startMonth = 4
	}
	startYear := req.StartYear
	if startYear == 0 {
		startYear = session.StartYear()
	}

	results := make([]*StudentTrackingResult, 0, len(req.StudentIDs))
	for _, studentID := range req.StudentIDs {
		results = append(results, s.enableForStudent(studentID, session, startMonth, startYear))
	}
	return results, nil
}

// enableForStudent runs one student's read-modify-write cycle inside a single
// store transaction. Any error is folded into the result, never propagated.
func (s *TrackingService) enableForStudent(studentID string, session *models.SessionYear, startMonth, startYear int) *StudentTrackingResult {
	res := &StudentTrackingResult{StudentID: studentID}

	err := s.store.InTransaction(func(st EngineStore) error {
		student, err := st.GetStudentByID(studentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errStudentNotFound
			}
			return fmt.Errorf("failed to load student: %v", err)
		}
		res.StudentName = student.FullName()

		siblings, err := st.GetActiveSiblings(student.ID, session.ID)
		if err != nil {
			return fmt.Errorf("failed to load siblings: %v", err)
		}
		totalSiblings, birthOrder := SiblingPosition(student, siblings)
		pct, reason := SiblingWaiver(totalSiblings, birthOrder)

		rec, err := st.GetFeeRecord(student.ID, session.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to load fee record: %v", err)
		}

		rows, err := st.GetMonthlyTracking(student.ID, session.ID)
		if err != nil {
			return fmt.Errorf("failed to load monthly tracking: %v", err)
		}

		// A missing fee structure degrades to the default amount, it is
		// not an error for the student.
		structure, err := st.GetFeeStructure(student.ClassID, session.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to load fee structure: %v", err)
		}

		baseline := DeriveMonthlyBaseline(rec, structure, rows)
		monthly := round2(baseline * (1 - pct/100))
		var origMonthly *float64
		var waiverReason *string
		if pct > 0 {
			origMonthly = &baseline
			waiverReason = &reason
		}

		if len(rows) == 0 {
			created := buildMonthlyRows(student.ID, session.ID, startMonth, startYear,
				monthly, origMonthly, pct, waiverReason)
			if err := st.InsertMonthlyTracking(created); err != nil {
				return fmt.Errorf("failed to insert monthly tracking: %v", err)
			}
			res.MonthlyRecords = len(created)
			res.Message = "Monthly tracking enabled successfully"
			return s.reconcile(st, res, student, session, rec, pct, origTotalFor(pct, created))
		}

		// Fill any months missing from a partial set before looking at
		// the waiver, so the session always ends up with twelve rows.
		missing := missingMonthlyRows(rows, student.ID, session.ID, startMonth, startYear,
			monthly, origMonthly, pct, waiverReason)
		if len(missing) > 0 {
			if err := st.InsertMonthlyTracking(missing); err != nil {
				return fmt.Errorf("failed to backfill monthly tracking: %v", err)
			}
		}

		storedPct := storedWaiver(rows)
		if storedPct == pct {
			if len(missing) == 0 {
				res.MonthlyRecords = len(rows)
				if rec != nil {
					res.FeeRecordID = rec.ID
				}
				res.Message = fmt.Sprintf("Monthly tracking already enabled (%d records exist, waiver unchanged)", len(rows))
				res.Success = true
				return nil
			}
			res.MonthlyRecords = len(missing)
			res.Message = fmt.Sprintf("Monthly tracking completed (%d missing records created)", len(missing))
			rows, err = st.GetMonthlyTracking(student.ID, session.ID)
			if err != nil {
				return fmt.Errorf("failed to reload monthly tracking: %v", err)
			}
			return s.reconcile(st, res, student, session, rec, pct, origTotalFor(pct, rows))
		}

		updated, err := st.UpdatePendingMonthlyAmounts(student.ID, session.ID, MonthlyWaiverUpdate{
			MonthlyAmount:         monthly,
			OriginalMonthlyAmount: origMonthly,
			WaiverPercentage:      pct,
			WaiverReason:          waiverReason,
		})
		if err != nil {
			return fmt.Errorf("failed to update monthly tracking: %v", err)
		}
		// Rows backfilled above were inserted with the new waiver already on
		// them; only pre-existing rows count as updated.
		preexisting := updated - len(missing)
		if preexisting < 0 {
			preexisting = 0
		}
		res.MonthlyRecords = updated
		if len(missing) > 0 {
			res.Message = fmt.Sprintf("Waiver updated from %.2f%% to %.2f%% (%d unpaid records updated, %d missing records created)",
				storedPct, pct, preexisting, len(missing))
		} else {
			res.Message = fmt.Sprintf("Waiver updated from %.2f%% to %.2f%% (%d unpaid records updated)", storedPct, pct, preexisting)
		}

		rows, err = st.GetMonthlyTracking(student.ID, session.ID)
		if err != nil {
			return fmt.Errorf("failed to reload monthly tracking: %v", err)
		}
		return s.reconcile(st, res, student, session, rec, pct, origTotalFor(pct, rows))
	})

	switch {
	case err == nil:
		res.Success = true
	case errors.Is(err, errStudentNotFound):
		res.Message = "Student not found"
	default:
		res.Message = "Error: " + err.Error()
	}
	return res
}

// reconcile brings the fee record in line with what the monthly rows now
// say: total = sum of current monthly amounts, balance = total - paid (paid
// is owned by the payment service and only read here), and the waiver flags
// mirror the active percentage. The record is created lazily on first use.
func (s *TrackingService) reconcile(st EngineStore, res *StudentTrackingResult, student *models.Student,
	session *models.SessionYear, rec *models.FeeRecord, pct float64, origTotal *float64) error {

	rows, err := st.GetMonthlyTracking(student.ID, session.ID)
	if err != nil {
		return fmt.Errorf("failed to load monthly tracking for reconcile: %v", err)
	}
	var total float64
	for _, row := range rows {
		total += row.MonthlyAmount
	}
	total = round2(total)

	if rec == nil {
		rec = &models.FeeRecord{
			StudentID:               student.ID,
			SessionYearID:           session.ID,
			TotalAmount:             total,
			OriginalTotalAmount:     origTotal,
			HasSiblingWaiver:        pct > 0,
			SiblingWaiverPercentage: pct,
			IsMonthlyTracked:        true,
		}
		rec.RecalculateBalance()
		if err := st.CreateFeeRecord(rec); err != nil {
			return fmt.Errorf("failed to create fee record: %v", err)
		}
		res.FeeRecordCreated = true
	} else {
		rec.TotalAmount = total
		rec.OriginalTotalAmount = origTotal
		rec.HasSiblingWaiver = pct > 0
		rec.SiblingWaiverPercentage = pct
		rec.IsMonthlyTracked = true
		rec.RecalculateBalance()
		if err := st.UpdateFeeRecordAmounts(rec); err != nil {
			return fmt.Errorf("failed to update fee record: %v", err)
		}
	}
	res.FeeRecordID = rec.ID
	return nil
}

// buildMonthlyRows lays out the twelve obligation rows for a session starting
// at the given academic month.
func buildMonthlyRows(studentID, sessionYearID string, startMonth, startYear int,
	monthly float64, origMonthly *float64, pct float64, reason *string) []*models.MonthlyFeeTracking {

	rows := make([]*models.MonthlyFeeTracking, 0, 12)
	for _, month := range academicMonthsFrom(startMonth) {
		year := AcademicYearFor(startYear, month)
		rows = append(rows, &models.MonthlyFeeTracking{
			StudentID:             studentID,
			SessionYearID:         sessionYearID,
			AcademicMonth:         month,
			AcademicYear:          year,
			MonthName:             time.Month(month).String(),
			MonthlyAmount:         monthly,
			OriginalMonthlyAmount: origMonthly,
			FeeWaiverPercentage:   pct,
			WaiverReason:          reason,
			DueDate:               models.CustomDate{Time: FeeDueDate(year, month)},
			PaymentStatus:         models.PaymentPending,
		})
	}
	return rows
}

// missingMonthlyRows builds rows for academic months the session does not
// have yet. A complete session returns nothing.
func missingMonthlyRows(existing []*models.MonthlyFeeTracking, studentID, sessionYearID string,
	startMonth, startYear int, monthly float64, origMonthly *float64, pct float64,
	reason *string) []*models.MonthlyFeeTracking {

	present := make(map[int]bool, len(existing))
	for _, row := range existing {
		present[row.AcademicMonth] = true
	}
	var rows []*models.MonthlyFeeTracking
	for _, row := range buildMonthlyRows(studentID, sessionYearID, startMonth, startYear,
		monthly, origMonthly, pct, reason) {
		if !present[row.AcademicMonth] {
			rows = append(rows, row)
		}
	}
	return rows
}

// storedWaiver reads the waiver percentage currently on file, preferring a
// pending row since paid rows may still carry an older percentage.
func storedWaiver(rows []*models.MonthlyFeeTracking) float64 {
	for _, row := range rows {
		if row.IsPending() {
			return row.FeeWaiverPercentage
		}
	}
	if len(rows) > 0 {
		return rows[0].FeeWaiverPercentage
	}
	return 0
}

// origTotalFor sums the pre-waiver amounts across rows; nil when no waiver is
// active, matching the NULL original_total_amount convention.
func origTotalFor(pct float64, rows []*models.MonthlyFeeTracking) *float64 {
	if pct <= 0 {
		return nil
	}
	var total float64
	for _, row := range rows {
		total += row.BaselineAmount()
	}
	total = round2(total)
	return &total
}

// WaiverPreview reports what the sibling waiver policy would grant a student
// without writing anything.
type WaiverPreview struct {
	StudentID     string  `json:"student_id"`
	StudentName   string  `json:"student_name"`
	TotalSiblings int     `json:"total_siblings"`
	BirthOrder    int     `json:"birth_order"`
	Percentage    float64 `json:"percentage"`
	Reason        string  `json:"reason,omitempty"`
}

func (s *TrackingService) PreviewWaiver(studentID, sessionYearID string) (*WaiverPreview, error) {
	student, err := s.store.GetStudentByID(studentID)
	if err != nil {
		return nil, err
	}
	siblings, err := s.store.GetActiveSiblings(student.ID, sessionYearID)
	if err != nil {
		return nil, err
	}
	totalSiblings, birthOrder := SiblingPosition(student, siblings)
	pct, reason := SiblingWaiver(totalSiblings, birthOrder)
	return &WaiverPreview{
		StudentID:     student.ID,
		StudentName:   student.FullName(),
		TotalSiblings: totalSiblings,
		BirthOrder:    birthOrder,
		Percentage:    pct,
		Reason:        reason,
	}, nil
}

// RecomputeCurrentSession re-runs waiver computation for every
// monthly-tracked student of the current session year. Used by the nightly
// scheduler so new sibling enrollments surface without manual action.
func (s *TrackingService) RecomputeCurrentSession() ([]*StudentTrackingResult, error) {
	session, err := s.store.GetCurrentSessionYear()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current session year: %v", err)
	}
	ids, err := s.store.GetMonthlyTrackedStudentIDs(session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked students: %v", err)
	}
	return s.EnableMonthlyTracking(EnableTrackingRequest{
		StudentIDs:    ids,
		SessionYearID: session.ID,
	})
}
