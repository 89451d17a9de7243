package services

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"sunrise-school/app/models"
)

// memStore is an in-memory EngineStore used to exercise the engine without a
// database. It counts writes so tests can assert no-op behaviour.
type memStore struct {
	sessions    map[string]*models.SessionYear
	currentID   string
	students    map[string]*models.Student
	siblings    map[string][]*models.Student
	structures  map[string]*models.FeeStructure
	feeRecords  map[string]*models.FeeRecord
	monthly     []*models.MonthlyFeeTracking
	enrollments map[string]*models.TransportEnrollment
	transport   []*models.TransportMonthlyTracking

	writes int
	nextID int
}

func newMemStore() *memStore {
	return &memStore{
		sessions:    make(map[string]*models.SessionYear),
		students:    make(map[string]*models.Student),
		siblings:    make(map[string][]*models.Student),
		structures:  make(map[string]*models.FeeStructure),
		feeRecords:  make(map[string]*models.FeeRecord),
		enrollments: make(map[string]*models.TransportEnrollment),
	}
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memStore) InTransaction(fn func(EngineStore) error) error {
	return fn(m)
}

func (m *memStore) GetSessionYearByID(id string) (*models.SessionYear, error) {
	if sy, ok := m.sessions[id]; ok {
		return sy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) GetCurrentSessionYear() (*models.SessionYear, error) {
	if sy, ok := m.sessions[m.currentID]; ok {
		return sy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) GetStudentByID(id string) (*models.Student, error) {
	if st, ok := m.students[id]; ok {
		return st, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) GetActiveSiblings(studentID, sessionYearID string) ([]*models.Student, error) {
	var out []*models.Student
	for _, sib := range m.siblings[studentID] {
		if sib.IsActive && sib.SessionYearID == sessionYearID {
			out = append(out, sib)
		}
	}
	return out, nil
}

func (m *memStore) GetFeeStructure(classID, sessionYearID string) (*models.FeeStructure, error) {
	if fs, ok := m.structures[classID+"|"+sessionYearID]; ok {
		return fs, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) GetFeeRecord(studentID, sessionYearID string) (*models.FeeRecord, error) {
	if fr, ok := m.feeRecords[studentID+"|"+sessionYearID]; ok {
		return fr, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) CreateFeeRecord(rec *models.FeeRecord) error {
	m.writes++
	if rec.ID == "" {
		rec.ID = m.id("fr")
	}
	m.feeRecords[rec.StudentID+"|"+rec.SessionYearID] = rec
	return nil
}

func (m *memStore) UpdateFeeRecordAmounts(rec *models.FeeRecord) error {
	m.writes++
	return nil
}

func (m *memStore) GetMonthlyTracking(studentID, sessionYearID string) ([]*models.MonthlyFeeTracking, error) {
	var out []*models.MonthlyFeeTracking
	for _, row := range m.monthly {
		if row.StudentID == studentID && row.SessionYearID == sessionYearID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AcademicYear != out[j].AcademicYear {
			return out[i].AcademicYear < out[j].AcademicYear
		}
		return out[i].AcademicMonth < out[j].AcademicMonth
	})
	return out, nil
}

func (m *memStore) InsertMonthlyTracking(rows []*models.MonthlyFeeTracking) error {
	for _, row := range rows {
		m.writes++
		if row.ID == "" {
			row.ID = m.id("mt")
		}
		m.monthly = append(m.monthly, row)
	}
	return nil
}

func (m *memStore) UpdatePendingMonthlyAmounts(studentID, sessionYearID string, upd MonthlyWaiverUpdate) (int, error) {
	updated := 0
	for _, row := range m.monthly {
		if row.StudentID != studentID || row.SessionYearID != sessionYearID || !row.IsPending() {
			continue
		}
		m.writes++
		row.MonthlyAmount = upd.MonthlyAmount
		row.OriginalMonthlyAmount = upd.OriginalMonthlyAmount
		row.FeeWaiverPercentage = upd.WaiverPercentage
		row.WaiverReason = upd.WaiverReason
		updated++
	}
	return updated, nil
}

func (m *memStore) GetMonthlyTrackedStudentIDs(sessionYearID string) ([]string, error) {
	var ids []string
	for _, rec := range m.feeRecords {
		if rec.SessionYearID == sessionYearID && rec.IsMonthlyTracked {
			ids = append(ids, rec.StudentID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memStore) GetTransportEnrollment(id string) (*models.TransportEnrollment, error) {
	if te, ok := m.enrollments[id]; ok {
		return te, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) GetTransportTracking(studentID, sessionYearID string) ([]*models.TransportMonthlyTracking, error) {
	var out []*models.TransportMonthlyTracking
	for _, row := range m.transport {
		if row.StudentID == studentID && row.SessionYearID == sessionYearID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AcademicYear != out[j].AcademicYear {
			return out[i].AcademicYear < out[j].AcademicYear
		}
		return out[i].AcademicMonth < out[j].AcademicMonth
	})
	return out, nil
}

func (m *memStore) InsertTransportTracking(row *models.TransportMonthlyTracking) error {
	m.writes++
	if row.ID == "" {
		row.ID = m.id("tt")
	}
	m.transport = append(m.transport, row)
	return nil
}

func (m *memStore) RepointTransportEnrollment(rowID, enrollmentID string) error {
	for _, row := range m.transport {
		if row.ID == rowID {
			m.writes++
			row.EnrollmentID = enrollmentID
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) UpdatePendingTransportMonth(rowID string, amount float64, enabled bool, dueDate time.Time) (bool, error) {
	for _, row := range m.transport {
		if row.ID != rowID {
			continue
		}
		if !row.IsPending() {
			return false, nil
		}
		m.writes++
		row.MonthlyAmount = amount
		row.IsServiceEnabled = enabled
		row.DueDate = models.CustomDate{Time: dueDate}
		return true, nil
	}
	return false, sql.ErrNoRows
}

// test fixture helpers

func date(year, month, day int) models.CustomDate {
	return models.CustomDate{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (m *memStore) addSession(id, name string, startYear int, current bool) *models.SessionYear {
	sy := &models.SessionYear{
		ID:        id,
		Name:      name,
		StartDate: date(startYear, 4, 1),
		EndDate:   date(startYear+1, 3, 31),
		IsCurrent: current,
		IsActive:  true,
	}
	m.sessions[id] = sy
	if current {
		m.currentID = id
	}
	return sy
}

func (m *memStore) addStudent(id, sessionID string, dob models.CustomDate) *models.Student {
	st := &models.Student{
		ID:              id,
		AdmissionNumber: "ADM-" + id,
		FirstName:       "Student",
		LastName:        id,
		DateOfBirth:     dob,
		ClassID:         "class-1",
		SessionYearID:   sessionID,
		IsActive:        true,
	}
	m.students[id] = st
	return st
}

func (m *memStore) linkSiblings(studentID string, sibs ...*models.Student) {
	m.siblings[studentID] = append(m.siblings[studentID], sibs...)
}
