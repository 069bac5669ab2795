package premium

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
)

// Order tracks a premium checkout from creation until the payment webhook
// confirms it. A paid order unlocks group creation.
type Order struct {
	ID            uuid.UUID `json:"id" db:"id"`
	OrderID       string    `json:"order_id" db:"order_id"`
	TransactionID *string   `json:"transaction_id" db:"transaction_id"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
