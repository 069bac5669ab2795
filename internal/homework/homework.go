package homework

import (
	"time"

	"github.com/google/uuid"
)

// MaxImages caps the photos attached to a single day's homework, counting the
// ones kept from earlier submissions the same day.
const MaxImages = 10

type Homework struct {
	ID            uuid.UUID `json:"id" db:"id"`
	GroupID       uuid.UUID `json:"group_id" db:"group_id"`
	StudentName   string    `json:"student_name" db:"student_name"`
	Description   string    `json:"description" db:"description"`
	ImageURLs     []string  `json:"image_urls" db:"image_urls"`
	StudyDate     string    `json:"study_date" db:"study_date"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
	FeedbackCount int       `json:"feedback_count"`
}

type SubmitResponse struct {
	Homework       *Homework `json:"homework"`
	Updated        bool      `json:"updated"`
	RejectedPhotos int       `json:"rejected_photos"`
}

// TodayResponse carries the raw submissions of the day plus the dashboard view
// deduplicated to one tile per student.
type TodayResponse struct {
	Homeworks []*Homework `json:"homeworks"`
	Students  []*Homework `json:"students"`
}

// AcceptImages enforces the attachment cap: given how many images are already
// attached, it returns how many of an incoming batch fit and how many are
// rejected.
func AcceptImages(attached, incoming int) (accepted, rejected int) {
	room := MaxImages - attached
	if room < 0 {
		room = 0
	}
	if incoming <= room {
		return incoming, 0
	}
	return room, incoming - room
}

// LatestPerStudent keeps the first entry per student name from a
// created_at-descending list, so a same-day resubmission replaces the earlier
// tile instead of adding a second one.
func LatestPerStudent(desc []*Homework) []*Homework {
	seen := make(map[string]struct{}, len(desc))
	out := make([]*Homework, 0, len(desc))
	for _, hw := range desc {
		if _, ok := seen[hw.StudentName]; ok {
			continue
		}
		seen[hw.StudentName] = struct{}{}
		out = append(out, hw)
	}
	return out
}
