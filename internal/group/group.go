package group

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMaxMembers is used when a group is created without an explicit cap.
const DefaultMaxMembers = 200

type Group struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Password   string    `json:"-" db:"password"`
	MaxMembers int       `json:"max_members" db:"max_members"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type CreateGroupRequest struct {
	OrderID    string `json:"order_id"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	MaxMembers int    `json:"max_members"`
}

type JoinGroupRequest struct {
	Name        string `json:"name"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	StudentName string `json:"student_name"`
}

type JoinGroupResponse struct {
	GroupID   uuid.UUID `json:"group_id"`
	GroupName string    `json:"group_name"`
	Role      string    `json:"role"`
}

type InviteQRResponse struct {
	GroupID      uuid.UUID `json:"group_id"`
	QrCodeBase64 string    `json:"qr_code_base64"`
}
