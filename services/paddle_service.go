package services

import (
	"context"
	"fmt"

	paddle "github.com/PaddleHQ/paddle-go-sdk"

	"studyCheckAPI/internal/premium"
)

type PaddleService struct {
	PaddleClient *paddle.SDK
	db           PgConnection
}

func NewPaddleService(client *paddle.SDK, db PgConnection) *PaddleService {
	return &PaddleService{
		PaddleClient: client,
		db:           db,
	}
}

// CreateOrder records a pending checkout before the hosted payment page takes
// over.
func (s *PaddleService) CreateOrder(ctx context.Context, orderID string) (*premium.Order, error) {
	order := &premium.Order{
		OrderID: orderID,
		Status:  premium.OrderStatusPending,
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO premium_orders (order_id, status) VALUES ($1, $2) RETURNING id, created_at`,
		orderID, premium.OrderStatusPending,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting order: %w", err)
	}
	return order, nil
}

// MarkPaid flips the order to paid when the webhook confirms the transaction.
// Webhooks can outrun the pending insert, so this upserts.
func (s *PaddleService) MarkPaid(ctx context.Context, orderID, transactionID string) (*premium.Order, error) {
	order := &premium.Order{
		OrderID:       orderID,
		TransactionID: &transactionID,
		Status:        premium.OrderStatusPaid,
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO premium_orders (order_id, status, transaction_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (order_id) DO UPDATE SET status = $2, transaction_id = $3
		 RETURNING id, created_at`,
		orderID, premium.OrderStatusPaid, transactionID,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("marking order paid: %w", err)
	}
	return order, nil
}
