package database

import (
	"fmt"

	"github.com/google/uuid"

	"sunrise-school/app/models"
)

const studentColumns = `id, admission_number, first_name, last_name, gender, date_of_birth,
	class_id, session_year_id, is_active, created_at, updated_at`

func scanStudent(row interface{ Scan(...interface{}) error }) (*models.Student, error) {
	st := &models.Student{}
	err := row.Scan(
		&st.ID, &st.AdmissionNumber, &st.FirstName, &st.LastName, &st.Gender,
		&st.DateOfBirth, &st.ClassID, &st.SessionYearID, &st.IsActive,
		&st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) GetStudentByID(id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + `
			  FROM students WHERE id = $1 AND is_active = true AND deleted_at IS NULL`
	return scanStudent(s.q.QueryRow(query, id))
}

// GetActiveSiblings returns the student's linked siblings that are active,
// not deleted and enrolled in the given session year. Only those count
// toward the waiver.
func (s *Store) GetActiveSiblings(studentID, sessionYearID string) ([]*models.Student, error) {
	query := `SELECT sib.id, sib.admission_number, sib.first_name, sib.last_name, sib.gender,
			sib.date_of_birth, sib.class_id, sib.session_year_id, sib.is_active,
			sib.created_at, sib.updated_at
		FROM sibling_links sl
		JOIN students sib ON sib.id = sl.sibling_student_id
		WHERE sl.student_id = $1
		  AND sl.is_active = true AND sl.deleted_at IS NULL
		  AND sib.is_active = true AND sib.deleted_at IS NULL
		  AND sib.session_year_id = $2
		ORDER BY sib.date_of_birth, sib.id`

	rows, err := s.q.Query(query, studentID, sessionYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch siblings: %v", err)
	}
	defer rows.Close()

	var siblings []*models.Student
	for rows.Next() {
		sib, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		siblings = append(siblings, sib)
	}
	return siblings, rows.Err()
}

// CreateSiblingLink links two students in both directions so the waiver count
// comes out the same from either side. Re-linking a deactivated pair
// reactivates it.
func (s *Store) CreateSiblingLink(studentID, siblingStudentID string) (*models.SiblingLink, error) {
	reactivate := `UPDATE sibling_links SET is_active = true, updated_at = NOW()
		WHERE student_id = $1 AND sibling_student_id = $2 AND deleted_at IS NULL`
	insert := `INSERT INTO sibling_links (id, student_id, sibling_student_id, is_active, created_at, updated_at)
		SELECT $1, $2, $3, true, NOW(), NOW()
		WHERE NOT EXISTS (
			SELECT 1 FROM sibling_links
			WHERE student_id = $2 AND sibling_student_id = $3 AND deleted_at IS NULL
		)`

	link := &models.SiblingLink{
		ID:               uuid.New().String(),
		StudentID:        studentID,
		SiblingStudentID: siblingStudentID,
		IsActive:         true,
	}
	ids := [2]string{link.ID, uuid.New().String()}
	pairs := [2][2]string{{studentID, siblingStudentID}, {siblingStudentID, studentID}}
	for i, pair := range pairs {
		if _, err := s.q.Exec(reactivate, pair[0], pair[1]); err != nil {
			return nil, fmt.Errorf("failed to reactivate sibling link: %v", err)
		}
		if _, err := s.q.Exec(insert, ids[i], pair[0], pair[1]); err != nil {
			return nil, fmt.Errorf("failed to create sibling link: %v", err)
		}
	}
	return link, nil
}

// DeactivateSiblingLink soft-disables the link in both directions. The next
// tracking run drops the waiver for students the link no longer qualifies.
func (s *Store) DeactivateSiblingLink(studentID, siblingStudentID string) error {
	query := `UPDATE sibling_links SET is_active = false, updated_at = NOW()
		WHERE ((student_id = $1 AND sibling_student_id = $2)
			OR (student_id = $2 AND sibling_student_id = $1))
		  AND deleted_at IS NULL`

	if _, err := s.q.Exec(query, studentID, siblingStudentID); err != nil {
		return fmt.Errorf("failed to deactivate sibling link: %v", err)
	}
	return nil
}

// ListStudents returns active students, optionally filtered by class.
func (s *Store) ListStudents(classID string, limit, offset int) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + `
			  FROM students WHERE is_active = true AND deleted_at IS NULL`
	args := []interface{}{}
	if classID != "" {
		query += ` AND class_id = $1`
		args = append(args, classID)
	}
	query += ` ORDER BY admission_number`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, limit, offset)
	}

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}
