package services

import (
	"fmt"

	"sunrise-school/app/models"
)

// SiblingWaiver returns the fee waiver percentage for a student given how
// many active siblings are enrolled in the session (the student included) and
// the student's birth order among them. Pure lookup, no side effects:
//
//	3 siblings: the youngest gets 100%
//	4 siblings: the 2nd youngest gets 50%, the youngest 100%
//	5 or more:  the two youngest both get 100%
//
// Anything else, including a birth order beyond the sibling count or
// non-positive inputs, earns no waiver.
func SiblingWaiver(totalSiblings, birthOrder int) (float64, string) {
	if totalSiblings <= 0 || birthOrder <= 0 || birthOrder > totalSiblings {
		return 0, ""
	}

	var pct float64
	switch {
	case totalSiblings == 3 && birthOrder == 3:
		pct = 100
	case totalSiblings == 4 && birthOrder == 3:
		pct = 50
	case totalSiblings == 4 && birthOrder == 4:
		pct = 100
	case totalSiblings >= 5 && birthOrder >= totalSiblings-1:
		pct = 100
	default:
		return 0, ""
	}

	return pct, fmt.Sprintf("%.0f%% fee waiver (%s of %d siblings)",
		pct, siblingPositionName(totalSiblings, birthOrder), totalSiblings)
}

func siblingPositionName(totalSiblings, birthOrder int) string {
	switch birthOrder {
	case totalSiblings:
		return "youngest"
	case totalSiblings - 1:
		return "2nd youngest"
	default:
		return fmt.Sprintf("sibling %d", birthOrder)
	}
}

// SiblingPosition computes the sibling count and birth order used by the
// waiver lookup. The caller supplies the active same-session siblings; the
// student counts as one of the group. Birth order is by date of birth, oldest
// first; siblings sharing the student's exact date of birth are ordered by
// student id so the result is deterministic.
func SiblingPosition(student *models.Student, siblings []*models.Student) (totalSiblings, birthOrder int) {
	totalSiblings = len(siblings) + 1
	birthOrder = 1
	for _, sib := range siblings {
		if sib.DateOfBirth.Before(student.DateOfBirth.Time) {
			birthOrder++
		} else if sib.DateOfBirth.Equal(student.DateOfBirth.Time) && sib.ID < student.ID {
			birthOrder++
		}
	}
	return totalSiblings, birthOrder
}
