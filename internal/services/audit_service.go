package services

import (
	"github.com/coopbus/ticketing-backend/internal/database"
	"github.com/coopbus/ticketing-backend/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditService records sale lifecycle events for the tenant's audit trail.
// Auditing is best-effort: a failed write is logged and never surfaces to
// the caller.
type AuditService struct {
	repo   *database.SaleAuditRepository
	logger *logrus.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo *database.SaleAuditRepository, logger *logrus.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// LogSaleCreated records a successful sale creation
func (s *AuditService) LogSaleCreated(tenantID, saleID, actorID uuid.UUID, ticketCount int, total float64, ipAddress, userAgent string) {
	s.log(&database.SaleAuditEntry{
		TenantID:  tenantID,
		SaleID:    &saleID,
		ActorID:   actorID,
		Action:    "sale_created",
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Details: map[string]interface{}{
			"tickets":     ticketCount,
			"total_final": total,
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// LogSaleConfirmed records a payment confirmation
func (s *AuditService) LogSaleConfirmed(tenantID, saleID, actorID uuid.UUID, ipAddress, userAgent string) {
	s.log(&database.SaleAuditEntry{
		TenantID:  tenantID,
		SaleID:    &saleID,
		ActorID:   actorID,
		Action:    "sale_payment_confirmed",
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Details: map[string]interface{}{
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// LogSaleCancelled records a sale cancellation
func (s *AuditService) LogSaleCancelled(tenantID, saleID, actorID uuid.UUID, ticketCount int, ipAddress, userAgent string) {
	s.log(&database.SaleAuditEntry{
		TenantID:  tenantID,
		SaleID:    &saleID,
		ActorID:   actorID,
		Action:    "sale_cancelled",
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Details: map[string]interface{}{
			"tickets":     ticketCount,
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// LogSaleRejectedAttempt records a createSale that failed a business rule
func (s *AuditService) LogSaleRejectedAttempt(tenantID, actorID uuid.UUID, reason, ipAddress, userAgent string) {
	s.log(&database.SaleAuditEntry{
		TenantID:  tenantID,
		ActorID:   actorID,
		Action:    "sale_rejected",
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Details: map[string]interface{}{
			"reason": reason,
		},
	})
}

func (s *AuditService) log(entry *database.SaleAuditEntry) {
	if err := s.repo.Insert(entry); err != nil {
		s.logger.WithError(err).WithField("action", entry.Action).Warn("Failed to write audit entry")
	}
}
