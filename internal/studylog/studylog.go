package studylog

import (
	"time"

	"github.com/google/uuid"

	"studyCheckAPI/internal/streak"
)

type StudyLog struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FamilyCode string    `json:"family_code" db:"family_code"`
	StudyDate  string    `json:"study_date" db:"study_date"`
	PhotoURL   *string   `json:"photo_url" db:"photo_url"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type CheckInResponse struct {
	StudyDate   string        `json:"study_date"`
	AlreadyDone bool          `json:"already_done"`
	Streak      streak.Result `json:"streak"`
}

type CalendarDay struct {
	Date    string `json:"date"`
	Done    bool   `json:"done"`
	IsToday bool   `json:"is_today"`
}

type CalendarResponse struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Days  []*CalendarDay `json:"days"`
}

type HeatmapDay struct {
	Date string `json:"date"`
	Done bool   `json:"done"`
}

type HeatmapResponse struct {
	From string        `json:"from"`
	To   string        `json:"to"`
	Days []*HeatmapDay `json:"days"`
}
