package handlers

import (
	"net/http"

	"github.com/coopbus/ticketing-backend/internal/database"
	"github.com/coopbus/ticketing-backend/internal/middleware"
	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/coopbus/ticketing-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DiscountHandler exposes the standalone discount lookup, used by counter
// staff before a sale is assembled
type DiscountHandler struct {
	clientRepo      *database.ClientRepository
	ruleRepo        *database.DiscountRuleRepository
	discountService *services.DiscountService
}

// NewDiscountHandler creates a new DiscountHandler
func NewDiscountHandler(
	clientRepo *database.ClientRepository,
	ruleRepo *database.DiscountRuleRepository,
	discountService *services.DiscountService,
) *DiscountHandler {
	return &DiscountHandler{
		clientRepo:      clientRepo,
		ruleRepo:        ruleRepo,
		discountService: discountService,
	}
}

// GetClientDiscount computes the best discount for a client and, when the
// matched rule requires it, the standalone eligibility validation
// GET /api/v1/clients/:id/discount
func (h *DiscountHandler) GetClientDiscount(c *gin.Context) {
	actor, exists := middleware.GetActorContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid client id"})
		return
	}

	client, err := h.clientRepo.GetByID(clientID, actor.TenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	if client == nil {
		respondError(c, models.NewNotFound("client %s not found", clientID))
		return
	}

	rules, err := h.ruleRepo.ListActive(actor.TenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	discount := h.discountService.ComputeDiscount(client, rules)

	response := gin.H{
		"client_id": client.ID,
		"discount":  discount,
	}
	if discount.RequiresValidation {
		response["validation"] = h.discountService.ValidateEligibility(client, discount.Category)
	}

	c.JSON(http.StatusOK, response)
}
