package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyCheckAPI/internal/premium"
	"studyCheckAPI/services"
)

const (
	insertOrder   = `INSERT INTO premium_orders \(order_id, status\)`
	markPaidQuery = `ON CONFLICT \(order_id\) DO UPDATE`
)

func TestCreateOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	svc := services.NewPaddleService(nil, mock)

	rowID := uuid.New()
	created := time.Now()

	mock.ExpectQuery(insertOrder).
		WithArgs("PREMIUM_1700000000000", premium.OrderStatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(rowID, created))

	order, err := svc.CreateOrder(context.Background(), "PREMIUM_1700000000000")
	require.NoError(t, err)
	assert.Equal(t, rowID, order.ID)
	assert.Equal(t, "PREMIUM_1700000000000", order.OrderID)
	assert.Equal(t, premium.OrderStatusPending, order.Status)
	assert.Nil(t, order.TransactionID)
	assert.Equal(t, created, order.CreatedAt)
}

func TestMarkPaid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	svc := services.NewPaddleService(nil, mock)

	t.Run("upserts and returns the paid order", func(t *testing.T) {
		rowID := uuid.New()
		mock.ExpectQuery(markPaidQuery).
			WithArgs("PREMIUM_1700000000000", premium.OrderStatusPaid, "txn_123").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(rowID, time.Now()))

		order, err := svc.MarkPaid(context.Background(), "PREMIUM_1700000000000", "txn_123")
		require.NoError(t, err)
		assert.Equal(t, premium.OrderStatusPaid, order.Status)
		require.NotNil(t, order.TransactionID)
		assert.Equal(t, "txn_123", *order.TransactionID)
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(markPaidQuery).
			WithArgs("PREMIUM_1700000000000", premium.OrderStatusPaid, "txn_123").
			WillReturnError(errors.New("db down"))

		_, err := svc.MarkPaid(context.Background(), "PREMIUM_1700000000000", "txn_123")
		assert.Error(t, err)
	})
}
