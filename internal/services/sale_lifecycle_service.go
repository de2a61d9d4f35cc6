package services

import (
	"context"

	"github.com/coopbus/ticketing-backend/internal/database"
	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/coopbus/ticketing-backend/pkg/notify"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// SaleLifecycleService drives post-creation payment state transitions:
// pending ↔ verifying → approved | rejected. Approved is terminal;
// cancellation before approval releases the sale's seat inventory.
type SaleLifecycleService struct {
	db             *sqlx.DB
	saleRepo       *database.SaleRepository
	occupationRepo *database.OccupationRepository
	tripRepo       *database.TripRepository
	notifier       *notify.Worker
	txOpts         database.TxOptions
	logger         *logrus.Logger
}

// NewSaleLifecycleService creates a new sale lifecycle service
func NewSaleLifecycleService(
	db *sqlx.DB,
	saleRepo *database.SaleRepository,
	occupationRepo *database.OccupationRepository,
	tripRepo *database.TripRepository,
	notifier *notify.Worker,
	txOpts database.TxOptions,
	logger *logrus.Logger,
) *SaleLifecycleService {
	return &SaleLifecycleService{
		db:             db,
		saleRepo:       saleRepo,
		occupationRepo: occupationRepo,
		tripRepo:       tripRepo,
		notifier:       notifier,
		txOpts:         txOpts,
		logger:         logger,
	}
}

// ConfirmPayment atomically approves a sale and confirms all its tickets.
// Fails invalid-state when the sale is already approved or rejected.
// Post-commit, each ticket is dispatched to its passenger best-effort.
func (s *SaleLifecycleService) ConfirmPayment(ctx context.Context, saleID, tenantID uuid.UUID) (*models.SaleWithTickets, error) {
	var result *models.SaleWithTickets

	err := database.WithinTx(ctx, s.db, s.txOpts, s.logger, func(ctx context.Context, tx *sqlx.Tx) error {
		sale, err := s.saleRepo.GetWithTicketsTx(tx, saleID, tenantID)
		if err != nil {
			return err
		}
		if sale == nil {
			return models.NewNotFound("sale %s not found", saleID)
		}

		switch sale.Sale.PaymentStatus {
		case models.SalePaymentPending, models.SalePaymentVerifying:
			// confirmable
		case models.SalePaymentApproved:
			return models.NewInvalidState("sale %s is already approved", saleID)
		default:
			return models.NewInvalidState("sale %s cannot be approved (status: %s)", saleID, sale.Sale.PaymentStatus)
		}

		if err := s.saleRepo.UpdatePaymentStatusTx(tx, saleID, models.SalePaymentApproved); err != nil {
			return err
		}
		if _, err := s.saleRepo.UpdateTicketsStatusTx(tx, saleID, models.TicketStatusConfirmed); err != nil {
			return err
		}

		sale.Sale.PaymentStatus = models.SalePaymentApproved
		for i := range sale.Tickets {
			sale.Tickets[i].Status = models.TicketStatusConfirmed
		}
		result = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"sale_id":   saleID,
		"tenant_id": tenantID,
		"tickets":   len(result.Tickets),
	}).Info("Sale payment confirmed")

	for _, ticket := range result.Tickets {
		s.notifier.EnqueueTicket(ticket.ID)
	}

	return result, nil
}

// CancelSale rejects a non-approved sale and reverses its inventory:
// occupations are deleted, the trip's occupied-seat counter is decremented
// by the ticket count and every ticket is cancelled, all in one transaction.
// Approved sales are immutable from this path.
func (s *SaleLifecycleService) CancelSale(ctx context.Context, saleID, tenantID uuid.UUID) (*models.SaleWithTickets, error) {
	var result *models.SaleWithTickets

	err := database.WithinTx(ctx, s.db, s.txOpts, s.logger, func(ctx context.Context, tx *sqlx.Tx) error {
		sale, err := s.saleRepo.GetWithTicketsTx(tx, saleID, tenantID)
		if err != nil {
			return err
		}
		if sale == nil {
			return models.NewNotFound("sale %s not found", saleID)
		}

		switch sale.Sale.PaymentStatus {
		case models.SalePaymentApproved:
			return models.NewInvalidState("sale %s is approved and cannot be cancelled", saleID)
		case models.SalePaymentRejected:
			return models.NewInvalidState("sale %s is already rejected", saleID)
		}

		released, err := s.occupationRepo.DeleteBySaleTx(tx, saleID)
		if err != nil {
			return err
		}

		cancelled, err := s.saleRepo.UpdateTicketsStatusTx(tx, saleID, models.TicketStatusCancelled)
		if err != nil {
			return err
		}

		if err := s.tripRepo.AddOccupiedSeatsTx(tx, sale.Sale.TripID, -cancelled); err != nil {
			return err
		}

		if err := s.saleRepo.UpdatePaymentStatusTx(tx, saleID, models.SalePaymentRejected); err != nil {
			return err
		}

		s.logger.WithFields(logrus.Fields{
			"sale_id":              saleID,
			"occupations_released": released,
			"tickets_cancelled":    cancelled,
		}).Info("Sale cancelled, inventory released")

		sale.Sale.PaymentStatus = models.SalePaymentRejected
		for i := range sale.Tickets {
			sale.Tickets[i].Status = models.TicketStatusCancelled
		}
		result = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ticket := range result.Tickets {
		s.notifier.EnqueueStatusChange(ticket.ID, string(models.TicketStatusCancelled))
	}

	return result, nil
}

// MarkVerifying toggles a pending sale into manual payment review, or back
func (s *SaleLifecycleService) MarkVerifying(ctx context.Context, saleID, tenantID uuid.UUID, verifying bool) (*models.SaleWithTickets, error) {
	target := models.SalePaymentVerifying
	if !verifying {
		target = models.SalePaymentPending
	}

	var result *models.SaleWithTickets

	err := database.WithinTx(ctx, s.db, s.txOpts, s.logger, func(ctx context.Context, tx *sqlx.Tx) error {
		sale, err := s.saleRepo.GetWithTicketsTx(tx, saleID, tenantID)
		if err != nil {
			return err
		}
		if sale == nil {
			return models.NewNotFound("sale %s not found", saleID)
		}

		switch sale.Sale.PaymentStatus {
		case models.SalePaymentPending, models.SalePaymentVerifying:
			// toggleable
		default:
			return models.NewInvalidState("sale %s payment review cannot change (status: %s)", saleID, sale.Sale.PaymentStatus)
		}

		if sale.Sale.PaymentStatus != target {
			if err := s.saleRepo.UpdatePaymentStatusTx(tx, saleID, target); err != nil {
				return err
			}
		}

		sale.Sale.PaymentStatus = target
		result = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
