package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coopbus/ticketing-backend/internal/database"
	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/coopbus/ticketing-backend/pkg/notify"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lifecycleFixture struct {
	svc      *SaleLifecycleService
	mock     sqlmock.Sqlmock
	tenantID uuid.UUID
	saleID   uuid.UUID
	tripID   uuid.UUID
	now      time.Time
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sqlxDB := sqlx.NewDb(db, "sqlmock")

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	worker := notify.NewWorker(notify.NewDevGateway(logger), logger, 0, 16)
	txOpts := database.TxOptions{Timeout: time.Second, MaxRetries: 0, Backoff: time.Millisecond}

	svc := NewSaleLifecycleService(
		sqlxDB,
		database.NewSaleRepository(sqlxDB),
		database.NewOccupationRepository(sqlxDB),
		database.NewTripRepository(sqlxDB),
		worker,
		txOpts,
		logger,
	)

	return &lifecycleFixture{
		svc:      svc,
		mock:     mock,
		tenantID: uuid.New(),
		saleID:   uuid.New(),
		tripID:   uuid.New(),
		now:      time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

// expectSaleWithTickets mocks the sale read plus two tickets in the given states
func (f *lifecycleFixture) expectSaleWithTickets(payment models.SalePaymentStatus, ticket models.TicketStatus) {
	f.mock.ExpectQuery("FROM sales").
		WithArgs(f.saleID, f.tenantID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "tenant_id", "trip_id", "payment_method_id", "staff_id", "created_by",
			"total_before_discount", "total_discounts", "total_final", "payment_status",
			"created_at", "updated_at",
		}).AddRow(f.saleID, f.tenantID, f.tripID, uuid.New(), nil, uuid.New(),
			75.0, 7.5, 67.5, payment, f.now, f.now))

	ticketColumns := []string{
		"id", "sale_id", "trip_id", "client_id", "seat_id", "origin_stop_order",
		"destination_stop_order", "price_base", "discount_type", "discount_percent",
		"price_final", "access_code", "status", "created_at", "updated_at",
	}
	f.mock.ExpectQuery("FROM tickets").
		WithArgs(f.saleID).
		WillReturnRows(sqlmock.NewRows(ticketColumns).
			AddRow(uuid.New(), f.saleID, f.tripID, uuid.New(), uuid.New(), 1, 3,
				25.0, "none", 0.0, 25.0, "TK-AAAA1111", ticket, f.now, f.now).
			AddRow(uuid.New(), f.saleID, f.tripID, uuid.New(), uuid.New(), 1, 3,
				50.0, "senior", 15.0, 42.5, "TK-BBBB2222", ticket, f.now, f.now))
}

func TestConfirmPayment(t *testing.T) {
	t.Run("Success From Pending", func(t *testing.T) {
		f := newLifecycleFixture(t)

		f.mock.ExpectBegin()
		f.expectSaleWithTickets(models.SalePaymentPending, models.TicketStatusPending)
		f.mock.ExpectExec("UPDATE sales").
			WithArgs(f.saleID, "approved").
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectExec("UPDATE tickets").
			WithArgs(f.saleID, "confirmed").
			WillReturnResult(sqlmock.NewResult(0, 2))
		f.mock.ExpectCommit()

		sale, err := f.svc.ConfirmPayment(context.Background(), f.saleID, f.tenantID)
		require.NoError(t, err)
		assert.Equal(t, models.SalePaymentApproved, sale.Sale.PaymentStatus)
		for _, ticket := range sale.Tickets {
			assert.Equal(t, models.TicketStatusConfirmed, ticket.Status)
		}
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("Success From Verifying", func(t *testing.T) {
		f := newLifecycleFixture(t)

		f.mock.ExpectBegin()
		f.expectSaleWithTickets(models.SalePaymentVerifying, models.TicketStatusPending)
		f.mock.ExpectExec("UPDATE sales").
			WithArgs(f.saleID, "approved").
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectExec("UPDATE tickets").
			WithArgs(f.saleID, "confirmed").
			WillReturnResult(sqlmock.NewResult(0, 2))
		f.mock.ExpectCommit()

		sale, err := f.svc.ConfirmPayment(context.Background(), f.saleID, f.tenantID)
		require.NoError(t, err)
		assert.Equal(t, models.SalePaymentApproved, sale.Sale.PaymentStatus)
	})

	t.Run("Already Approved", func(t *testing.T) {
		f := newLifecycleFixture(t)

		f.mock.ExpectBegin()
		f.expectSaleWithTickets(models.SalePaymentApproved, models.TicketStatusConfirmed)
		f.mock.ExpectRollback()

		sale, err := f.svc.ConfirmPayment(context.Background(), f.saleID, f.tenantID)
		assert.Nil(t, sale)
		assert.True(t, models.IsKind(err, models.ErrKindInvalidState))
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("Rejected Sale Cannot Be Approved", func(t *testing.T) {
		f := newLifecycleFixture(t)

		f.mock.ExpectBegin()
		f.expectSaleWithTickets(models.SalePaymentRejected, models.TicketStatusCancelled)
		f.mock.ExpectRollback()

		sale, err := f.svc.ConfirmPayment(context.Background(), f.saleID, f.tenantID)
		assert.Nil(t, sale)
		assert.True(t, models.IsKind(err, models.ErrKindInvalidState))
	})

	t.Run("Sale Not Found", func(t *testing.T) {
		f := newLifecycleFixture(t)

		f.mock.ExpectBegin()
		f.mock.ExpectQuery("FROM sales").
			WithArgs(f.saleID, f.tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		f.mock.ExpectRollback()

		sale, err := f.svc.ConfirmPayment(context.Background(), f.saleID, f.tenantID)
		assert.Nil(t, sale)
		assert.True(t, models.IsKind(err, models.ErrKindNotFound))
	})
}

func TestCancelSale(t *testing.T) {
	t.Run("Releases Inventory", func(t *testing.T) {
		f := newLifecycleFixture(t)

		f.mock.ExpectBegin()
		f.expectSaleWithTickets(models.SalePaymentPending, models.TicketStatusPending)
		f.mock.ExpectExec("DELETE FROM seat_occupations").
			WithArgs(f.saleID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		f.mock.ExpectExec("UPDATE tickets").
			WithArgs(f.saleID, "cancelled").
			WillReturnResult(sqlmock.NewResult(0, 2))
		f.mock.ExpectExec("UPDATE trips").
			WithArgs(f.tripID, -2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectExec("UPDATE sales").
			WithArgs(f.saleID, "rejected").
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectCommit()

		sale, err := f.svc.CancelSale(context.Background(), f.saleID, f.tenantID)
		require.NoError(t, err)
		assert.Equal(t, models.SalePaymentRejected, sale.Sale.PaymentStatus)
		for _, ticket := range sale.Tickets {
			assert.Equal(t, models.TicketStatusCancelled, ticket.Status)
		}
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("Approved Sale Is Immutable", func(t *testing.T) {
		f := newLifecycleFixture(t)

		f.mock.ExpectBegin()
		f.expectSaleWithTickets(models.SalePaymentApproved, models.TicketStatusConfirmed)
		f.mock.ExpectRollback()

		sale, err := f.svc.CancelSale(context.Background(), f.saleID, f.tenantID)
		assert.Nil(t, sale)
		assert.True(t, models.IsKind(err, models.ErrKindInvalidState))
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("Already Rejected", func(t *testing.T) {
		f := newLifecycleFixture(t)

		f.mock.ExpectBegin()
		f.expectSaleWithTickets(models.SalePaymentRejected, models.TicketStatusCancelled)
		f.mock.ExpectRollback()

		sale, err := f.svc.CancelSale(context.Background(), f.saleID, f.tenantID)
		assert.Nil(t, sale)
		assert.True(t, models.IsKind(err, models.ErrKindInvalidState))
	})
}

func TestMarkVerifying(t *testing.T) {
	t.Run("Pending To Verifying", func(t *testing.T) {
		f := newLifecycleFixture(t)

		f.mock.ExpectBegin()
		f.expectSaleWithTickets(models.SalePaymentPending, models.TicketStatusPending)
		f.mock.ExpectExec("UPDATE sales").
			WithArgs(f.saleID, "verifying").
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectCommit()

		sale, err := f.svc.MarkVerifying(context.Background(), f.saleID, f.tenantID, true)
		require.NoError(t, err)
		assert.Equal(t, models.SalePaymentVerifying, sale.Sale.PaymentStatus)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("Verifying Back To Pending", func(t *testing.T) {
		f := newLifecycleFixture(t)

		f.mock.ExpectBegin()
		f.expectSaleWithTickets(models.SalePaymentVerifying, models.TicketStatusPending)
		f.mock.ExpectExec("UPDATE sales").
			WithArgs(f.saleID, "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectCommit()

		sale, err := f.svc.MarkVerifying(context.Background(), f.saleID, f.tenantID, false)
		require.NoError(t, err)
		assert.Equal(t, models.SalePaymentPending, sale.Sale.PaymentStatus)
	})

	t.Run("Toggle Is Idempotent", func(t *testing.T) {
		f := newLifecycleFixture(t)

		f.mock.ExpectBegin()
		f.expectSaleWithTickets(models.SalePaymentVerifying, models.TicketStatusPending)
		f.mock.ExpectCommit()

		sale, err := f.svc.MarkVerifying(context.Background(), f.saleID, f.tenantID, true)
		require.NoError(t, err)
		assert.Equal(t, models.SalePaymentVerifying, sale.Sale.PaymentStatus)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("Approved Cannot Enter Review", func(t *testing.T) {
		f := newLifecycleFixture(t)

		f.mock.ExpectBegin()
		f.expectSaleWithTickets(models.SalePaymentApproved, models.TicketStatusConfirmed)
		f.mock.ExpectRollback()

		sale, err := f.svc.MarkVerifying(context.Background(), f.saleID, f.tenantID, true)
		assert.Nil(t, sale)
		assert.True(t, models.IsKind(err, models.ErrKindInvalidState))
	})
}
