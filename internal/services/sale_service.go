package services

import (
	"context"
	"fmt"

	"github.com/coopbus/ticketing-backend/internal/database"
	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/coopbus/ticketing-backend/internal/utils"
	"github.com/coopbus/ticketing-backend/pkg/notify"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// SaleService orchestrates validation, pricing and atomic persistence of a
// multi-ticket sale.
//
// Phase 1 runs outside the transaction: client lookups and discount
// computation have unbounded latency and must not hold locks. Phase 2 runs
// inside a bounded serializable transaction and re-reads everything it
// depends on; the overlap check and the occupation inserts share one
// snapshot, so the store aborts one of two racing writers. Phase 3 is a
// fire-and-forget notification detached from the request.
type SaleService struct {
	db             *sqlx.DB
	tripRepo       *database.TripRepository
	routeRepo      *database.RouteRepository
	seatRepo       *database.SeatRepository
	occupationRepo *database.OccupationRepository
	saleRepo       *database.SaleRepository
	clientRepo     *database.ClientRepository
	ruleRepo       *database.DiscountRuleRepository
	methodRepo     *database.PaymentMethodRepository
	staffRepo      *database.StaffRepository
	discounts      *DiscountService
	notifier       *notify.Worker
	txOpts         database.TxOptions
	logger         *logrus.Logger
}

// NewSaleService creates a new sale service
func NewSaleService(
	db *sqlx.DB,
	tripRepo *database.TripRepository,
	routeRepo *database.RouteRepository,
	seatRepo *database.SeatRepository,
	occupationRepo *database.OccupationRepository,
	saleRepo *database.SaleRepository,
	clientRepo *database.ClientRepository,
	ruleRepo *database.DiscountRuleRepository,
	methodRepo *database.PaymentMethodRepository,
	staffRepo *database.StaffRepository,
	discounts *DiscountService,
	notifier *notify.Worker,
	txOpts database.TxOptions,
	logger *logrus.Logger,
) *SaleService {
	return &SaleService{
		db:             db,
		tripRepo:       tripRepo,
		routeRepo:      routeRepo,
		seatRepo:       seatRepo,
		occupationRepo: occupationRepo,
		saleRepo:       saleRepo,
		clientRepo:     clientRepo,
		ruleRepo:       ruleRepo,
		methodRepo:     methodRepo,
		staffRepo:      staffRepo,
		discounts:      discounts,
		notifier:       notifier,
		txOpts:         txOpts,
		logger:         logger,
	}
}

// passengerPlan carries the phase-1 outcome for one passenger into phase 2
type passengerPlan struct {
	ClientID uuid.UUID
	SeatID   uuid.UUID
	Discount models.DiscountResult
}

// CreateSale validates, prices and atomically commits a sale for one leg of
// a trip. Business failures surface immediately; transient store failures
// are retried by the transaction layer and escalate to unavailable.
func (s *SaleService) CreateSale(ctx context.Context, req *models.CreateSaleRequest, tenantID, actorID uuid.UUID) (*models.SaleWithTickets, error) {
	if err := req.Validate(); err != nil {
		return nil, models.NewInvalidRequest("%s", err.Error())
	}

	plans, err := s.prepare(req, tenantID)
	if err != nil {
		return nil, err
	}

	var result *models.SaleWithTickets
	err = database.WithinTx(ctx, s.db, s.txOpts, s.logger, func(ctx context.Context, tx *sqlx.Tx) error {
		sale, err := s.commitSale(tx, req, plans, tenantID, actorID)
		if err != nil {
			return err
		}
		result = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"sale_id":     result.Sale.ID,
		"trip_id":     req.TripID,
		"tenant_id":   tenantID,
		"tickets":     len(result.Tickets),
		"total_final": result.Sale.TotalFinal,
	}).Info("Sale created")

	s.notifier.EnqueueSaleConfirmation(result.Sale.ID)

	return result, nil
}

// prepare is phase 1: read-only lookups and discount computation, outside
// the transaction. Fails fast with the offending client's name when a
// required discount does not validate.
func (s *SaleService) prepare(req *models.CreateSaleRequest, tenantID uuid.UUID) ([]passengerPlan, error) {
	rules, err := s.ruleRepo.ListActive(tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load discount rules: %w", err)
	}

	plans := make([]passengerPlan, 0, len(req.Passengers))
	for _, p := range req.Passengers {
		client, err := s.clientRepo.GetByID(p.ClientID, tenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to load client: %w", err)
		}
		if client == nil {
			return nil, models.NewNotFound("client %s not found", p.ClientID)
		}
		if !client.Active {
			return nil, models.NewInvalidRequest("client %s is not active", client.FullName())
		}

		discount := s.discounts.ComputeDiscount(client, rules)
		if discount.RequiresValidation {
			validation := s.discounts.ValidateEligibility(client, discount.Category)
			if !validation.Valid {
				return nil, models.NewInvalidRequest(
					"discount %s for %s did not validate: %s",
					discount.Category, client.FullName(), validation.Reason)
			}
		}

		plans = append(plans, passengerPlan{
			ClientID: p.ClientID,
			SeatID:   p.SeatID,
			Discount: discount,
		})
	}

	return plans, nil
}

// commitSale is phase 2: everything re-validated and persisted inside one
// transaction.
func (s *SaleService) commitSale(tx *sqlx.Tx, req *models.CreateSaleRequest, plans []passengerPlan, tenantID, actorID uuid.UUID) (*models.SaleWithTickets, error) {
	trip, err := s.tripRepo.GetByIDTx(tx, req.TripID, tenantID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, models.NewNotFound("trip %s not found", req.TripID)
	}
	if !trip.Status.AcceptsSales() {
		return nil, models.NewInvalidRequest("trip %s does not accept sales (status: %s)", trip.ID, trip.Status)
	}

	route, err := s.routeRepo.GetWithStopsTx(tx, trip.RouteID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, models.NewNotFound("route %s not found", trip.RouteID)
	}

	leg, err := ResolveLeg(route.Stops, req.OriginCityID, req.DestinationCityID)
	if err != nil {
		return nil, err
	}

	method, err := s.methodRepo.GetByIDTx(tx, req.PaymentMethodID, tenantID)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, models.NewNotFound("payment method %s not found", req.PaymentMethodID)
	}

	var staffID *uuid.UUID
	if req.StaffID != nil {
		staff, err := s.staffRepo.GetByIDTx(tx, *req.StaffID, tenantID)
		if err != nil {
			return nil, err
		}
		if staff == nil {
			return nil, models.NewNotFound("staff member %s not found", *req.StaffID)
		}
		if !staff.Role.CanSell() {
			return nil, models.NewInvalidRequest("staff member %s is not eligible to sell (role: %s)", staff.ID, staff.Role)
		}
		staffID = req.StaffID
	}

	seats, err := s.loadSeats(tx, trip, plans)
	if err != nil {
		return nil, err
	}

	seatIDs := make([]uuid.UUID, len(plans))
	for i, p := range plans {
		seatIDs[i] = p.SeatID
	}
	occupations, err := s.occupationRepo.ListForSeatsTx(tx, trip.ID, seatIDs)
	if err != nil {
		return nil, err
	}
	if conflicts := FindConflicts(occupations, leg.OriginOrder, leg.DestinationOrder); len(conflicts) > 0 {
		return nil, models.NewConflict(
			"%d seat(s) already reserved for an overlapping leg: %v",
			len(ConflictingSeatIDs(conflicts)), ConflictingSeatIDs(conflicts))
	}

	sale := &models.Sale{
		ID:              uuid.New(),
		TenantID:        tenantID,
		TripID:          trip.ID,
		PaymentMethodID: method.ID,
		StaffID:         staffID,
		CreatedBy:       actorID,
		PaymentStatus:   models.SalePaymentPending,
	}

	tickets := make([]models.Ticket, len(plans))
	for i, p := range plans {
		seat := seats[p.SeatID]

		priceBase := leg.BasePrice * seat.PriceFactor
		discountAmount := priceBase * p.Discount.Percentage / 100
		priceFinal := priceBase - discountAmount

		accessCode, err := utils.GenerateAccessCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate access code: %w", err)
		}

		tickets[i] = models.Ticket{
			ID:                   uuid.New(),
			SaleID:               sale.ID,
			TripID:               trip.ID,
			ClientID:             p.ClientID,
			SeatID:               p.SeatID,
			OriginStopOrder:      leg.OriginOrder,
			DestinationStopOrder: leg.DestinationOrder,
			PriceBase:            priceBase,
			DiscountType:         p.Discount.Category,
			DiscountPercent:      p.Discount.Percentage,
			PriceFinal:           priceFinal,
			AccessCode:           accessCode,
			Status:               models.TicketStatusPending,
		}

		sale.TotalBeforeDiscount += priceBase
		sale.TotalDiscounts += discountAmount
		sale.TotalFinal += priceFinal
	}

	if err := s.saleRepo.InsertSaleTx(tx, sale); err != nil {
		return nil, err
	}
	if err := s.saleRepo.InsertTicketsTx(tx, tickets); err != nil {
		return nil, err
	}

	occupationsToInsert := make([]models.SeatOccupation, len(tickets))
	for i, t := range tickets {
		occupationsToInsert[i] = models.SeatOccupation{
			TripID:               t.TripID,
			SeatID:               t.SeatID,
			TicketID:             t.ID,
			OriginStopOrder:      t.OriginStopOrder,
			DestinationStopOrder: t.DestinationStopOrder,
		}
	}
	if err := s.occupationRepo.InsertBatchTx(tx, occupationsToInsert); err != nil {
		return nil, err
	}

	if err := s.tripRepo.AddOccupiedSeatsTx(tx, trip.ID, len(tickets)); err != nil {
		return nil, err
	}

	return &models.SaleWithTickets{Sale: *sale, Tickets: tickets}, nil
}

// loadSeats fetches and validates the requested seats inside the transaction
func (s *SaleService) loadSeats(tx *sqlx.Tx, trip *models.Trip, plans []passengerPlan) (map[uuid.UUID]models.Seat, error) {
	seatIDs := make([]uuid.UUID, len(plans))
	for i, p := range plans {
		seatIDs[i] = p.SeatID
	}

	seats, err := s.seatRepo.GetByIDsTx(tx, seatIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Seat, len(seats))
	for _, seat := range seats {
		byID[seat.ID] = seat
	}

	for _, id := range seatIDs {
		seat, ok := byID[id]
		if !ok {
			return nil, models.NewNotFound("seat %s not found", id)
		}
		if seat.BusID != trip.BusID {
			return nil, models.NewInvalidRequest("seat %s does not belong to the trip's bus", id)
		}
		if seat.Status != models.SeatStatusAvailable {
			return nil, models.NewInvalidRequest("seat %s is not available for sale (status: %s)", seat.SeatNumber, seat.Status)
		}
	}

	return byID, nil
}

// GetSale returns a sale with its tickets
func (s *SaleService) GetSale(saleID, tenantID uuid.UUID) (*models.SaleWithTickets, error) {
	sale, err := s.saleRepo.GetWithTickets(saleID, tenantID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, models.NewNotFound("sale %s not found", saleID)
	}
	return sale, nil
}

// QueryAvailability reports, without locking, which seats of a trip's bus
// are free for the given leg and at what price. Freshness is best-effort:
// the authoritative check happens only inside CreateSale.
func (s *SaleService) QueryAvailability(tripID, originCityID, destinationCityID, tenantID uuid.UUID) ([]models.SeatAvailability, error) {
	trip, err := s.tripRepo.GetByID(tripID, tenantID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, models.NewNotFound("trip %s not found", tripID)
	}

	route, err := s.routeRepo.GetWithStops(trip.RouteID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, models.NewNotFound("route %s not found", trip.RouteID)
	}

	leg, err := ResolveLeg(route.Stops, originCityID, destinationCityID)
	if err != nil {
		return nil, err
	}

	seats, err := s.seatRepo.GetByBus(trip.BusID)
	if err != nil {
		return nil, err
	}

	occupations, err := s.occupationRepo.ListForTrip(tripID)
	if err != nil {
		return nil, err
	}

	taken := make(map[uuid.UUID]bool)
	for _, occ := range occupations {
		if Overlaps(occ.OriginStopOrder, occ.DestinationStopOrder, leg.OriginOrder, leg.DestinationOrder) {
			taken[occ.SeatID] = true
		}
	}

	result := make([]models.SeatAvailability, len(seats))
	for i, seat := range seats {
		result[i] = models.SeatAvailability{
			SeatID:     seat.ID,
			SeatNumber: seat.SeatNumber,
			SeatType:   seat.SeatType,
			Available:  seat.Status == models.SeatStatusAvailable && !taken[seat.ID],
			Price:      leg.BasePrice * seat.PriceFactor,
		}
	}

	return result, nil
}
