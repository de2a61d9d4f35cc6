package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// SaleAuditEntry is one row of the sale audit trail
type SaleAuditEntry struct {
	ID        uuid.UUID              `db:"id"`
	TenantID  uuid.UUID              `db:"tenant_id"`
	SaleID    *uuid.UUID             `db:"sale_id"`
	ActorID   uuid.UUID              `db:"actor_id"`
	Action    string                 `db:"action"`
	IPAddress string                 `db:"ip_address"`
	UserAgent string                 `db:"user_agent"`
	Details   map[string]interface{} `db:"-"`
	CreatedAt time.Time              `db:"created_at"`
}

// SaleAuditRepository persists the sale audit trail
type SaleAuditRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewSaleAuditRepository creates a new sale audit repository
func NewSaleAuditRepository(db *sqlx.DB, logger *logrus.Logger) *SaleAuditRepository {
	return &SaleAuditRepository{db: db, logger: logger}
}

// Insert writes one audit entry
func (r *SaleAuditRepository) Insert(entry *SaleAuditEntry) error {
	if entry == nil {
		return fmt.Errorf("audit entry cannot be nil")
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var detailsJSON interface{}
	if len(entry.Details) > 0 {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("failed to serialize audit details: %w", err)
		}
		detailsJSON = string(raw)
	}

	query := `
		INSERT INTO sale_audit_log (
			id, tenant_id, sale_id, actor_id, action,
			ip_address, user_agent, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		entry.ID, entry.TenantID, entry.SaleID, entry.ActorID, entry.Action,
		entry.IPAddress, entry.UserAgent, detailsJSON, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return nil
}
