package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HTTPGateway implements Sender against the cooperative's mail dispatch API
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// HTTPGatewayConfig holds configuration for the HTTP notification gateway
type HTTPGatewayConfig struct {
	BaseURL string
	APIKey  string
}

// NewHTTPGateway creates a new HTTP notification gateway client
func NewHTTPGateway(cfg HTTPGatewayConfig) *HTTPGateway {
	return &HTTPGateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type dispatchRequest struct {
	Kind     string `json:"kind"`
	EntityID string `json:"entity_id"`
	NewState string `json:"new_state,omitempty"`
}

type dispatchResponse struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

// SendSaleConfirmation sends a purchase confirmation for a sale
func (g *HTTPGateway) SendSaleConfirmation(saleID uuid.UUID) error {
	return g.dispatch(dispatchRequest{Kind: "sale_confirmation", EntityID: saleID.String()})
}

// SendTicket sends one ticket to its passenger
func (g *HTTPGateway) SendTicket(ticketID uuid.UUID) error {
	return g.dispatch(dispatchRequest{Kind: "ticket", EntityID: ticketID.String()})
}

// SendStatusChange informs a passenger of a ticket state change
func (g *HTTPGateway) SendStatusChange(ticketID uuid.UUID, newState string) error {
	return g.dispatch(dispatchRequest{Kind: "status_change", EntityID: ticketID.String(), NewState: newState})
}

// GetName returns the gateway name
func (g *HTTPGateway) GetName() string {
	return "http"
}

func (g *HTTPGateway) dispatch(payload dispatchRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, g.baseURL+"/v1/dispatch", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("dispatch returned status %d", resp.StatusCode)
	}

	var parsed dispatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode dispatch response: %w", err)
	}
	if parsed.Status != "ok" {
		return fmt.Errorf("dispatch rejected: %s", parsed.Comment)
	}

	return nil
}
