package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sessionSpanning(startYear, endYear int) *SessionYear {
	return &SessionYear{
		StartDate: CustomDate{Time: time.Date(startYear, 4, 1, 0, 0, 0, 0, time.UTC)},
		EndDate:   CustomDate{Time: time.Date(endYear, 3, 31, 0, 0, 0, 0, time.UTC)},
		IsActive:  true,
	}
}

func TestSessionYearStartYear(t *testing.T) {
	assert.Equal(t, 2025, sessionSpanning(2025, 2026).StartYear())
}

func TestSessionYearIsCurrentByDate(t *testing.T) {
	assert.False(t, sessionSpanning(1990, 1991).IsCurrentByDate(), "past session")
	assert.False(t, sessionSpanning(2200, 2201).IsCurrentByDate(), "future session")
	assert.True(t, sessionSpanning(2000, 2200).IsCurrentByDate(), "session covering today")
}
