package homework_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"studyCheckAPI/internal/homework"
)

func TestAcceptImages(t *testing.T) {
	testCases := []struct {
		Desc     string
		Attached int
		Incoming int
		Accepted int
		Rejected int
	}{
		{Desc: "all fit on fresh submission", Attached: 0, Incoming: 3, Accepted: 3, Rejected: 0},
		{Desc: "exactly at the cap", Attached: 0, Incoming: homework.MaxImages, Accepted: 10, Rejected: 0},
		{Desc: "overflow on fresh submission", Attached: 0, Incoming: 12, Accepted: 10, Rejected: 2},
		{Desc: "partial room left", Attached: 8, Incoming: 5, Accepted: 2, Rejected: 3},
		{Desc: "no room left", Attached: 10, Incoming: 3, Accepted: 0, Rejected: 3},
		{Desc: "already over the cap", Attached: 12, Incoming: 2, Accepted: 0, Rejected: 2},
		{Desc: "nothing incoming", Attached: 4, Incoming: 0, Accepted: 0, Rejected: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			accepted, rejected := homework.AcceptImages(tc.Attached, tc.Incoming)
			assert.Equal(t, tc.Accepted, accepted)
			assert.Equal(t, tc.Rejected, rejected)
			assert.Equal(t, tc.Incoming, accepted+rejected)
		})
	}
}

func TestLatestPerStudent(t *testing.T) {
	at := func(offset int) time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Minute)
	}
	hw := func(student string, offset int) *homework.Homework {
		return &homework.Homework{
			ID:          uuid.New(),
			StudentName: student,
			CreatedAt:   at(offset),
		}
	}

	// Input is created_at descending, the way the day query returns it.
	later := hw("민준", 30)
	entries := []*homework.Homework{
		later,
		hw("서연", 20),
		hw("민준", 10),
		hw("지우", 0),
	}

	out := homework.LatestPerStudent(entries)
	assert.Len(t, out, 3)
	assert.Same(t, later, out[0])
	assert.Equal(t, "서연", out[1].StudentName)
	assert.Equal(t, "지우", out[2].StudentName)
}

func TestLatestPerStudentEmpty(t *testing.T) {
	assert.Empty(t, homework.LatestPerStudent(nil))
}
