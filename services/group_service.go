package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/skip2/go-qrcode"

	"studyCheckAPI/internal/errvalues"
	"studyCheckAPI/internal/group"
	"studyCheckAPI/internal/premium"
)

type GroupService struct {
	db PgConnection
}

func NewGroupService(db PgConnection) *GroupService {
	return &GroupService{
		db: db,
	}
}

// CreateGroup opens a new study room. Creation is the premium feature: the
// referenced order must exist and be paid.
func (s *GroupService) CreateGroup(ctx context.Context, req *group.CreateGroupRequest) (*group.Group, error) {
	name := strings.TrimSpace(req.Name)
	password := strings.TrimSpace(req.Password)
	if name == "" || password == "" {
		return nil, fmt.Errorf("group name and password are required")
	}

	var status string
	err := s.db.QueryRow(ctx,
		`SELECT status FROM premium_orders WHERE order_id = $1`,
		req.OrderID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errvalues.ErrOrderNotFound
		}
		return nil, fmt.Errorf("fetching order: %w", err)
	}
	if status != premium.OrderStatusPaid {
		return nil, errvalues.ErrOrderNotPaid
	}

	maxMembers := req.MaxMembers
	if maxMembers <= 0 {
		maxMembers = group.DefaultMaxMembers
	}

	g := &group.Group{
		Name:       name,
		Password:   password,
		MaxMembers: maxMembers,
	}
	err = s.db.QueryRow(ctx,
		`INSERT INTO premium_groups (name, password, max_members) VALUES ($1, $2, $3) RETURNING id, created_at`,
		name, password, maxMembers,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting group: %w", err)
	}

	return g, nil
}

// Join gates entry by the shared room password. This is a plain string match,
// not authentication; the room password is the room's identity the same way a
// family code is.
func (s *GroupService) Join(ctx context.Context, req *group.JoinGroupRequest) (*group.JoinGroupResponse, error) {
	if strings.TrimSpace(req.Password) == "" {
		return nil, errvalues.ErrWrongPassword
	}

	g := &group.Group{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, password, max_members FROM premium_groups WHERE name = $1`,
		strings.TrimSpace(req.Name),
	).Scan(&g.ID, &g.Name, &g.Password, &g.MaxMembers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errvalues.ErrGroupNotFound
		}
		return nil, fmt.Errorf("fetching group: %w", err)
	}

	if g.Password != strings.TrimSpace(req.Password) {
		return nil, errvalues.ErrWrongPassword
	}

	role := req.Role
	if role != "teacher" {
		role = "student"
	}

	// Students count against the member cap; a returning student's name is
	// already on the roll and never blocks them.
	if role == "student" {
		var members int
		err := s.db.QueryRow(ctx,
			`SELECT COUNT(DISTINCT student_name) FROM premium_homeworks WHERE group_id = $1 AND student_name <> $2`,
			g.ID, strings.TrimSpace(req.StudentName),
		).Scan(&members)
		if err != nil {
			return nil, fmt.Errorf("counting group members: %w", err)
		}
		if members >= g.MaxMembers {
			return nil, errvalues.ErrGroupFull
		}
	}

	return &group.JoinGroupResponse{
		GroupID:   g.ID,
		GroupName: g.Name,
		Role:      role,
	}, nil
}

// InviteQR renders the group's join deep link as a QR png, base64 encoded for
// direct embedding.
func (s *GroupService) InviteQR(ctx context.Context, groupID uuid.UUID) (*group.InviteQRResponse, error) {
	var name string
	err := s.db.QueryRow(ctx,
		`SELECT name FROM premium_groups WHERE id = $1`,
		groupID,
	).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errvalues.ErrGroupNotFound
		}
		return nil, fmt.Errorf("fetching group: %w", err)
	}

	qrContent := fmt.Sprintf("studycheck://group/join/%s", groupID)

	pngBytes, err := qrcode.Encode(qrContent, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR png: %w", err)
	}

	return &group.InviteQRResponse{
		GroupID:      groupID,
		QrCodeBase64: base64.StdEncoding.EncodeToString(pngBytes),
	}, nil
}
