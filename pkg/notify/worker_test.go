package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSender captures sent notifications and can fail on demand
type recordingSender struct {
	mu            sync.Mutex
	confirmations []uuid.UUID
	tickets       []uuid.UUID
	statusChanges []string
	fail          bool
}

func (s *recordingSender) SendSaleConfirmation(saleID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("gateway down")
	}
	s.confirmations = append(s.confirmations, saleID)
	return nil
}

func (s *recordingSender) SendTicket(ticketID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("gateway down")
	}
	s.tickets = append(s.tickets, ticketID)
	return nil
}

func (s *recordingSender) SendStatusChange(ticketID uuid.UUID, newState string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("gateway down")
	}
	s.statusChanges = append(s.statusChanges, newState)
	return nil
}

func (s *recordingSender) GetName() string { return "recording" }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestWorkerDeliversJobs(t *testing.T) {
	sender := &recordingSender{}
	worker := NewWorker(sender, testLogger(), 0, 16)
	worker.Start()

	saleID := uuid.New()
	ticketID := uuid.New()

	worker.EnqueueSaleConfirmation(saleID)
	worker.EnqueueTicket(ticketID)
	worker.EnqueueStatusChange(ticketID, "cancelled")

	worker.Stop()

	require.Len(t, sender.confirmations, 1)
	assert.Equal(t, saleID, sender.confirmations[0])
	require.Len(t, sender.tickets, 1)
	assert.Equal(t, ticketID, sender.tickets[0])
	require.Len(t, sender.statusChanges, 1)
	assert.Equal(t, "cancelled", sender.statusChanges[0])
}

func TestWorkerSwallowsSendFailures(t *testing.T) {
	sender := &recordingSender{fail: true}
	worker := NewWorker(sender, testLogger(), 0, 16)
	worker.Start()

	worker.EnqueueSaleConfirmation(uuid.New())
	worker.EnqueueTicket(uuid.New())

	// Stop drains the queue; failures must not panic or block
	worker.Stop()

	assert.Empty(t, sender.confirmations)
	assert.Empty(t, sender.tickets)
}

func TestWorkerDropsWhenQueueFull(t *testing.T) {
	sender := &recordingSender{}
	// never started, so the queue only fills
	worker := NewWorker(sender, testLogger(), 0, 2)

	// must not block even past capacity
	for i := 0; i < 10; i++ {
		worker.EnqueueSaleConfirmation(uuid.New())
	}

	worker.Start()
	worker.Stop()

	assert.Len(t, sender.confirmations, 2)
}

func TestWorkerDefaultQueueSize(t *testing.T) {
	worker := NewWorker(&recordingSender{}, testLogger(), 0, 0)
	assert.Equal(t, 256, cap(worker.jobs))
}
