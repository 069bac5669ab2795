package services

import (
	"context"
	"fmt"

	"studyCheckAPI/internal/dateutil"
	"studyCheckAPI/internal/streak"
	"studyCheckAPI/internal/studylog"
)

type StudyService struct {
	db PgConnection
}

func NewStudyService(db PgConnection) *StudyService {
	return &StudyService{
		db: db,
	}
}

// CheckIn records today's study completion for a family. A second check-in the
// same day is a no-op reported as already done; past days are never writable
// through this path.
func (s *StudyService) CheckIn(ctx context.Context, familyCode string, photoURL *string) (*studylog.CheckInResponse, error) {
	today := dateutil.Today()

	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM study_logs WHERE family_code = $1 AND study_date = $2)`,
		familyCode, today,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking today's study log: %w", err)
	}

	if !exists {
		// study_logs carries a unique index on (family_code, study_date);
		// two racing first check-ins resolve here instead of inserting twice.
		ct, err := s.db.Exec(ctx,
			`INSERT INTO study_logs (family_code, study_date, photo_url) VALUES ($1, $2, $3)
			 ON CONFLICT (family_code, study_date) DO NOTHING`,
			familyCode, today, photoURL,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting study log: %w", err)
		}
		if ct.RowsAffected() == 0 {
			exists = true
		}
	}

	result, err := s.Streak(ctx, familyCode)
	if err != nil {
		return nil, err
	}

	return &studylog.CheckInResponse{
		StudyDate:   today,
		AlreadyDone: exists,
		Streak:      result,
	}, nil
}

// DayKeys returns the raw study dates of a family, duplicates included; the
// streak package owns dedup and ordering.
func (s *StudyService) DayKeys(ctx context.Context, familyCode string) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT study_date FROM study_logs WHERE family_code = $1`,
		familyCode,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching study dates: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning study date: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading study dates: %w", err)
	}
	return keys, nil
}

// Streak recomputes the family's streak from the authoritative day-key set.
// Nothing is cached: today moves across day boundaries while sessions stay
// open.
func (s *StudyService) Streak(ctx context.Context, familyCode string) (streak.Result, error) {
	keys, err := s.DayKeys(ctx, familyCode)
	if err != nil {
		return streak.Result{}, err
	}
	return streak.Compute(keys, dateutil.Today(), dateutil.Yesterday()), nil
}

// Calendar builds the month grid the parent view renders: one entry per civil
// day with a done marker.
func (s *StudyService) Calendar(ctx context.Context, familyCode string, year, month int) (*studylog.CalendarResponse, error) {
	keys, err := s.DayKeys(ctx, familyCode)
	if err != nil {
		return nil, err
	}

	done := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		done[k] = struct{}{}
	}

	today := dateutil.Today()
	days := make([]*studylog.CalendarDay, 0, 31)
	for d := 1; d <= dateutil.DaysInMonth(year, month); d++ {
		key := fmt.Sprintf("%04d-%02d-%02d", year, month, d)
		_, marked := done[key]
		days = append(days, &studylog.CalendarDay{
			Date:    key,
			Done:    marked,
			IsToday: key == today,
		})
	}

	return &studylog.CalendarResponse{
		Year:  year,
		Month: month,
		Days:  days,
	}, nil
}

// Heatmap returns the trailing weeks*7-day window ending today.
func (s *StudyService) Heatmap(ctx context.Context, familyCode string, weeks int) (*studylog.HeatmapResponse, error) {
	keys, err := s.DayKeys(ctx, familyCode)
	if err != nil {
		return nil, err
	}

	done := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		done[k] = struct{}{}
	}

	today := dateutil.Today()
	total := weeks * 7
	from := dateutil.AddDays(today, -(total - 1))

	days := make([]*studylog.HeatmapDay, 0, total)
	for i := 0; i < total; i++ {
		key := dateutil.AddDays(from, i)
		_, marked := done[key]
		days = append(days, &studylog.HeatmapDay{Date: key, Done: marked})
	}

	return &studylog.HeatmapResponse{
		From: from,
		To:   today,
		Days: days,
	}, nil
}

// DeleteToday removes today's check-in. Deleting a row that no longer exists
// is success from the caller's perspective; the query shape makes touching
// past days impossible.
func (s *StudyService) DeleteToday(ctx context.Context, familyCode string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM study_logs WHERE family_code = $1 AND study_date = $2`,
		familyCode, dateutil.Today(),
	)
	if err != nil {
		return fmt.Errorf("deleting today's study log: %w", err)
	}
	return nil
}
