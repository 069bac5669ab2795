package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"studyCheckAPI/internal/errvalues"
	"studyCheckAPI/internal/feedback"
)

type FeedbackService struct {
	db       PgConnection
	notifier *NotificationService
}

func NewFeedbackService(db PgConnection, notifier *NotificationService) *FeedbackService {
	return &FeedbackService{
		db:       db,
		notifier: notifier,
	}
}

// Create attaches teacher feedback to a homework: free text, a reaction stamp,
// or both. The student's devices get a best-effort push afterwards; push
// failure never fails the write.
func (s *FeedbackService) Create(ctx context.Context, homeworkID uuid.UUID, req *feedback.CreateFeedbackRequest) (*feedback.Feedback, error) {
	content := strings.TrimSpace(req.Content)
	reaction := strings.TrimSpace(req.ReactionType)

	if content == "" && reaction == "" {
		return nil, errvalues.ErrEmptyFeedback
	}
	if reaction != "" && !feedback.Reaction(reaction).Valid() {
		return nil, errvalues.ErrInvalidReaction
	}

	fb := &feedback.Feedback{
		HomeworkID:   homeworkID,
		Content:      content,
		ReactionType: reaction,
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO premium_feedback (homework_id, content, reaction_type) VALUES ($1, $2, $3) RETURNING id, created_at`,
		homeworkID, content, reaction,
	).Scan(&fb.ID, &fb.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			// FK violation: the homework is gone.
			return nil, errvalues.ErrHomeworkNotFound
		}
		return nil, fmt.Errorf("inserting feedback: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifyStudent(ctx, homeworkID, fb); err != nil {
			log.Printf("Feedback push failed for homework %s: %v", homeworkID, err)
		}
	}

	return fb, nil
}

func (s *FeedbackService) notifyStudent(ctx context.Context, homeworkID uuid.UUID, fb *feedback.Feedback) error {
	var groupID uuid.UUID
	var studentName string
	err := s.db.QueryRow(ctx,
		`SELECT group_id, student_name FROM premium_homeworks WHERE id = $1`,
		homeworkID,
	).Scan(&groupID, &studentName)
	if err != nil {
		return fmt.Errorf("fetching homework owner: %w", err)
	}

	body := fb.Content
	if body == "" {
		body = "선생님이 도장을 찍어주셨어요!"
	}

	return s.notifier.NotifyStudent(ctx, groupID, studentName, "선생님 피드백이 도착했어요 ✏️", body, map[string]string{
		"homework_id":   homeworkID.String(),
		"reaction_type": fb.ReactionType,
	})
}

// List returns a homework's feedback newest first.
func (s *FeedbackService) List(ctx context.Context, homeworkID uuid.UUID) ([]*feedback.Feedback, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, homework_id, content, reaction_type, created_at
		 FROM premium_feedback
		 WHERE homework_id = $1
		 ORDER BY created_at DESC`,
		homeworkID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching feedback: %w", err)
	}
	defer rows.Close()

	items := make([]*feedback.Feedback, 0)
	for rows.Next() {
		fb := &feedback.Feedback{}
		if err := rows.Scan(&fb.ID, &fb.HomeworkID, &fb.Content, &fb.ReactionType, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		items = append(items, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading feedback: %w", err)
	}
	return items, nil
}
