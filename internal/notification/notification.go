package notification

import (
	"time"

	"github.com/google/uuid"
)

// DeviceToken ties a push token to a student inside a group. There are no user
// accounts; (group_id, student_name) is the only identity a device can claim.
type DeviceToken struct {
	ID          uuid.UUID `json:"id" db:"id"`
	GroupID     uuid.UUID `json:"group_id" db:"group_id"`
	StudentName string    `json:"student_name" db:"student_name"`
	Token       string    `json:"token" db:"token"`
	Platform    string    `json:"platform" db:"platform"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type RegisterDeviceRequest struct {
	GroupID     uuid.UUID `json:"group_id"`
	StudentName string    `json:"student_name"`
	Token       string    `json:"token"`
	Platform    string    `json:"platform"`
}
