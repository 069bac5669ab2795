package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studyCheckAPI/internal/dateutil"
	"studyCheckAPI/internal/errvalues"
	"studyCheckAPI/internal/homework"
	"studyCheckAPI/internal/streak"
)

type HomeworkService struct {
	db    PgConnection
	store ObjectStore
	feed  *GroupFeedManager
}

func NewHomeworkService(db PgConnection, store ObjectStore, feed *GroupFeedManager) *HomeworkService {
	return &HomeworkService{
		db:    db,
		store: store,
		feed:  feed,
	}
}

// Submit runs the whole day's-homework pipeline: photos are uploaded
// sequentially in input order (fail-fast, no rollback of finished uploads),
// then the row for (group, student, today) is created — or updated in place
// when the student already submitted today, keeping the earlier photos and
// appending the new ones up to the cap. Photos over the cap are rejected
// before anything is uploaded.
func (s *HomeworkService) Submit(ctx context.Context, groupID uuid.UUID, studentName, description string, photos []PhotoUpload, progress func(pct int)) (*homework.SubmitResponse, error) {
	today := dateutil.Today()

	existing, err := s.todayRow(ctx, groupID, studentName, today)
	if err != nil {
		return nil, err
	}

	imageURLs := []string{}
	if existing != nil {
		imageURLs = append(imageURLs, existing.ImageURLs...)
	}

	accepted, rejected := homework.AcceptImages(len(imageURLs), len(photos))
	photos = photos[:accepted]

	if len(photos) > 0 {
		if s.store == nil {
			return nil, errvalues.ErrStorageDisabled
		}
		prefix := fmt.Sprintf("group_%s/%s", groupID, studentName)
		uploaded, err := UploadAll(ctx, s.store, prefix, photos, progress)
		if err != nil {
			return nil, err
		}
		imageURLs = append(imageURLs, uploaded...)
	}

	hw := &homework.Homework{
		GroupID:     groupID,
		StudentName: studentName,
		Description: description,
		ImageURLs:   imageURLs,
		StudyDate:   today,
	}

	if existing != nil {
		hw.ID = existing.ID
		hw.CreatedAt = existing.CreatedAt
		err = s.db.QueryRow(ctx,
			`UPDATE premium_homeworks SET description = $1, image_urls = $2, updated_at = NOW() WHERE id = $3 RETURNING updated_at`,
			description, imageURLs, existing.ID,
		).Scan(&hw.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("updating homework: %w", err)
		}
		return &homework.SubmitResponse{Homework: hw, Updated: true, RejectedPhotos: rejected}, nil
	}

	err = s.db.QueryRow(ctx,
		`INSERT INTO premium_homeworks (group_id, student_name, description, image_urls, study_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		groupID, studentName, description, imageURLs, today,
	).Scan(&hw.ID, &hw.CreatedAt, &hw.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting homework: %w", err)
	}

	// Only fresh rows hit the live feed; the original dashboard subscribed to
	// inserts alone, same-day edits show up on reload.
	if s.feed != nil {
		s.feed.PublishHomework(groupID.String(), hw)
	}

	return &homework.SubmitResponse{Homework: hw, RejectedPhotos: rejected}, nil
}

// TodayForStudent fetches the student's submission of the day so the edit
// form can preload description and photos.
func (s *HomeworkService) TodayForStudent(ctx context.Context, groupID uuid.UUID, studentName string) (*homework.Homework, error) {
	hw, err := s.todayRow(ctx, groupID, studentName, dateutil.Today())
	if err != nil {
		return nil, err
	}
	if hw == nil {
		return nil, errvalues.ErrHomeworkNotFound
	}
	return hw, nil
}

func (s *HomeworkService) todayRow(ctx context.Context, groupID uuid.UUID, studentName, today string) (*homework.Homework, error) {
	hw := &homework.Homework{}
	err := s.db.QueryRow(ctx,
		`SELECT id, group_id, student_name, description, image_urls, study_date, created_at, updated_at
		 FROM premium_homeworks
		 WHERE group_id = $1 AND student_name = $2 AND study_date = $3
		 ORDER BY created_at DESC
		 LIMIT 1`,
		groupID, studentName, today,
	).Scan(&hw.ID, &hw.GroupID, &hw.StudentName, &hw.Description, &hw.ImageURLs, &hw.StudyDate, &hw.CreatedAt, &hw.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching today's homework: %w", err)
	}
	return hw, nil
}

// TodayForGroup lists the day's submissions newest first, feedback counts
// included, plus the per-student dedup the dashboard grid renders.
func (s *HomeworkService) TodayForGroup(ctx context.Context, groupID uuid.UUID) (*homework.TodayResponse, error) {
	rows, err := s.db.Query(ctx,
		`SELECT h.id, h.group_id, h.student_name, h.description, h.image_urls, h.study_date, h.created_at, h.updated_at,
		        COUNT(f.id) AS feedback_count
		 FROM premium_homeworks h
		 LEFT JOIN premium_feedback f ON f.homework_id = h.id
		 WHERE h.group_id = $1 AND h.study_date = $2
		 GROUP BY h.id
		 ORDER BY h.created_at DESC`,
		groupID, dateutil.Today(),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching group homeworks: %w", err)
	}
	defer rows.Close()

	homeworks := make([]*homework.Homework, 0)
	for rows.Next() {
		hw := &homework.Homework{}
		err := rows.Scan(&hw.ID, &hw.GroupID, &hw.StudentName, &hw.Description, &hw.ImageURLs,
			&hw.StudyDate, &hw.CreatedAt, &hw.UpdatedAt, &hw.FeedbackCount)
		if err != nil {
			return nil, fmt.Errorf("scanning homework: %w", err)
		}
		homeworks = append(homeworks, hw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading group homeworks: %w", err)
	}

	return &homework.TodayResponse{
		Homeworks: homeworks,
		Students:  homework.LatestPerStudent(homeworks),
	}, nil
}

// DeleteToday removes the student's own submission of the day. A vanished row
// is success from the caller's perspective; a row that exists but isn't the
// caller's today-row is rejected.
func (s *HomeworkService) DeleteToday(ctx context.Context, homeworkID uuid.UUID, studentName string) error {
	ct, err := s.db.Exec(ctx,
		`DELETE FROM premium_homeworks WHERE id = $1 AND student_name = $2 AND study_date = $3`,
		homeworkID, studentName, dateutil.Today(),
	)
	if err != nil {
		return fmt.Errorf("deleting homework: %w", err)
	}
	if ct.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM premium_homeworks WHERE id = $1)`,
		homeworkID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking homework after delete: %w", err)
	}
	if exists {
		return errvalues.ErrNotToday
	}
	return nil
}

// StudentStreak recomputes the student's streak from their submission dates.
func (s *HomeworkService) StudentStreak(ctx context.Context, groupID uuid.UUID, studentName string) (streak.Result, error) {
	rows, err := s.db.Query(ctx,
		`SELECT study_date FROM premium_homeworks WHERE group_id = $1 AND student_name = $2`,
		groupID, studentName,
	)
	if err != nil {
		return streak.Result{}, fmt.Errorf("fetching student study dates: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return streak.Result{}, fmt.Errorf("scanning study date: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return streak.Result{}, fmt.Errorf("reading student study dates: %w", err)
	}

	return streak.Compute(keys, dateutil.Today(), dateutil.Yesterday()), nil
}
