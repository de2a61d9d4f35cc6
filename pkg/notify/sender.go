package notify

import "github.com/google/uuid"

// Sender defines the interface for the purchase notification collaborator.
// All sends are best-effort: a false return or error is logged by the caller
// and never affects a committed sale.
type Sender interface {
	// SendSaleConfirmation notifies the buyer that a sale was registered
	SendSaleConfirmation(saleID uuid.UUID) error

	// SendTicket delivers one confirmed ticket (access code included)
	SendTicket(ticketID uuid.UUID) error

	// SendStatusChange informs a passenger their ticket changed state
	SendStatusChange(ticketID uuid.UUID, newState string) error

	// GetName returns the name of the sender implementation
	GetName() string
}
