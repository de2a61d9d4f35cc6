package handlers

import (
	"net/http"

	"github.com/coopbus/ticketing-backend/internal/middleware"
	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/coopbus/ticketing-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleHandler handles sale creation, lifecycle and availability endpoints
type SaleHandler struct {
	saleService      *services.SaleService
	lifecycleService *services.SaleLifecycleService
	auditService     *services.AuditService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(
	saleService *services.SaleService,
	lifecycleService *services.SaleLifecycleService,
	auditService *services.AuditService,
) *SaleHandler {
	return &SaleHandler{
		saleService:      saleService,
		lifecycleService: lifecycleService,
		auditService:     auditService,
	}
}

// CreateSale creates a new multi-ticket sale for one leg of a trip
// POST /api/v1/sales
func (h *SaleHandler) CreateSale(c *gin.Context) {
	actor, exists := middleware.GetActorContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), &req, actor.TenantID, actor.ActorID)
	if err != nil {
		if models.IsBusinessError(err) {
			h.auditService.LogSaleRejectedAttempt(actor.TenantID, actor.ActorID, err.Error(),
				c.ClientIP(), c.Request.UserAgent())
		}
		respondError(c, err)
		return
	}

	h.auditService.LogSaleCreated(actor.TenantID, sale.Sale.ID, actor.ActorID,
		len(sale.Tickets), sale.Sale.TotalFinal, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusCreated, sale)
}

// GetSale returns a sale with its tickets
// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *gin.Context) {
	actor, exists := middleware.GetActorContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid sale id"})
		return
	}

	sale, err := h.saleService.GetSale(saleID, actor.TenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sale)
}

// ConfirmPayment approves a sale and confirms its tickets
// POST /api/v1/sales/:id/confirm-payment
func (h *SaleHandler) ConfirmPayment(c *gin.Context) {
	actor, exists := middleware.GetActorContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid sale id"})
		return
	}

	sale, err := h.lifecycleService.ConfirmPayment(c.Request.Context(), saleID, actor.TenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.LogSaleConfirmed(actor.TenantID, saleID, actor.ActorID,
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, sale)
}

// CancelSale rejects a non-approved sale and releases its inventory
// POST /api/v1/sales/:id/cancel
func (h *SaleHandler) CancelSale(c *gin.Context) {
	actor, exists := middleware.GetActorContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid sale id"})
		return
	}

	sale, err := h.lifecycleService.CancelSale(c.Request.Context(), saleID, actor.TenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.LogSaleCancelled(actor.TenantID, saleID, actor.ActorID,
		len(sale.Tickets), c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, sale)
}

// MarkVerifyingRequest toggles manual payment review
type MarkVerifyingRequest struct {
	Verifying *bool `json:"verifying" binding:"required"`
}

// MarkVerifying toggles a pending sale into or out of manual payment review
// POST /api/v1/sales/:id/verifying
func (h *SaleHandler) MarkVerifying(c *gin.Context) {
	actor, exists := middleware.GetActorContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid sale id"})
		return
	}

	var req MarkVerifyingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	sale, err := h.lifecycleService.MarkVerifying(c.Request.Context(), saleID, actor.TenantID, *req.Verifying)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sale)
}

// QueryAvailability reports per-seat availability and pricing for a leg
// GET /api/v1/trips/:id/availability?origin_city_id=&destination_city_id=
func (h *SaleHandler) QueryAvailability(c *gin.Context) {
	actor, exists := middleware.GetActorContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid trip id"})
		return
	}

	originCityID, err := uuid.Parse(c.Query("origin_city_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "origin_city_id is required"})
		return
	}

	destinationCityID, err := uuid.Parse(c.Query("destination_city_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "destination_city_id is required"})
		return
	}

	seats, err := h.saleService.QueryAvailability(tripID, originCityID, destinationCityID, actor.TenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip_id": tripID, "seats": seats})
}
