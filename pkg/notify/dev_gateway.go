package notify

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DevGateway is a Sender for development environments: it logs instead of
// sending, and never fails
type DevGateway struct {
	logger *logrus.Logger
}

// NewDevGateway creates a new development gateway
func NewDevGateway(logger *logrus.Logger) *DevGateway {
	return &DevGateway{logger: logger}
}

// SendSaleConfirmation logs a sale confirmation
func (g *DevGateway) SendSaleConfirmation(saleID uuid.UUID) error {
	g.logger.WithField("sale_id", saleID).Info("DEV notify: sale confirmation")
	return nil
}

// SendTicket logs a ticket delivery
func (g *DevGateway) SendTicket(ticketID uuid.UUID) error {
	g.logger.WithField("ticket_id", ticketID).Info("DEV notify: ticket")
	return nil
}

// SendStatusChange logs a status change notification
func (g *DevGateway) SendStatusChange(ticketID uuid.UUID, newState string) error {
	g.logger.WithFields(logrus.Fields{
		"ticket_id": ticketID,
		"new_state": newState,
	}).Info("DEV notify: status change")
	return nil
}

// GetName returns the gateway name
func (g *DevGateway) GetName() string {
	return "dev"
}
