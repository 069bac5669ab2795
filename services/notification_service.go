package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"studyCheckAPI/internal/notification"
)

type NotificationService struct {
	db   PgConnection
	push PushProvider
}

func NewNotificationService(db PgConnection) *NotificationService {
	return &NotificationService{
		db: db,
	}
}

// SetPushProvider injects the FCM client. Without one registered, pushes are
// silently skipped and only the token registry works.
func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.push = p
}

// RegisterDevice upserts a push token for a (group, student) pair. A token
// moving to another student simply re-binds.
func (s *NotificationService) RegisterDevice(ctx context.Context, req *notification.RegisterDeviceRequest) error {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return fmt.Errorf("device token is required")
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO device_tokens (group_id, student_name, token, platform)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (token) DO UPDATE SET group_id = $1, student_name = $2, platform = $4`,
		req.GroupID, strings.TrimSpace(req.StudentName), token, req.Platform,
	)
	if err != nil {
		return fmt.Errorf("registering device: %w", err)
	}
	return nil
}

// NotifyStudent pushes to every device the student registered in the group.
func (s *NotificationService) NotifyStudent(ctx context.Context, groupID uuid.UUID, studentName, title, body string, data map[string]string) error {
	if s.push == nil {
		return nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, group_id, student_name, token, platform, created_at
		 FROM device_tokens
		 WHERE group_id = $1 AND student_name = $2`,
		groupID, studentName,
	)
	if err != nil {
		return fmt.Errorf("fetching device tokens: %w", err)
	}
	defer rows.Close()

	tokens := make([]notification.DeviceToken, 0)
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.ID, &t.GroupID, &t.StudentName, &t.Token, &t.Platform, &t.CreatedAt); err != nil {
			return fmt.Errorf("scanning device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading device tokens: %w", err)
	}

	return s.push.SendPush(ctx, tokens, title, body, data)
}
