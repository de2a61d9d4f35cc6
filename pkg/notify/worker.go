package notify

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// jobKind discriminates queued notification jobs
type jobKind int

const (
	jobSaleConfirmation jobKind = iota
	jobTicket
	jobStatusChange
)

type job struct {
	kind     jobKind
	entityID uuid.UUID
	newState string
}

// Worker drains a buffered queue of notification jobs detached from request
// lifecycles. Semantics are at-most-once with no retry: a failed or dropped
// job is logged and lost, which is acceptable for these messages and must
// never affect a committed sale. SendInterval spaces consecutive sends to
// respect downstream rate limits.
type Worker struct {
	sender       Sender
	logger       *logrus.Logger
	sendInterval time.Duration
	jobs         chan job
	done         chan struct{}
}

// NewWorker creates a notification worker with a bounded queue
func NewWorker(sender Sender, logger *logrus.Logger, sendInterval time.Duration, queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Worker{
		sender:       sender,
		logger:       logger,
		sendInterval: sendInterval,
		jobs:         make(chan job, queueSize),
		done:         make(chan struct{}),
	}
}

// Start launches the worker goroutine
func (w *Worker) Start() {
	go w.run()
	w.logger.WithField("sender", w.sender.GetName()).Info("Notification worker started")
}

// Stop closes the queue and waits for in-flight jobs to drain
func (w *Worker) Stop() {
	close(w.jobs)
	<-w.done
	w.logger.Info("Notification worker stopped")
}

// EnqueueSaleConfirmation queues a sale confirmation; drops when the queue is full
func (w *Worker) EnqueueSaleConfirmation(saleID uuid.UUID) {
	w.enqueue(job{kind: jobSaleConfirmation, entityID: saleID})
}

// EnqueueTicket queues a ticket delivery; drops when the queue is full
func (w *Worker) EnqueueTicket(ticketID uuid.UUID) {
	w.enqueue(job{kind: jobTicket, entityID: ticketID})
}

// EnqueueStatusChange queues a ticket status change; drops when the queue is full
func (w *Worker) EnqueueStatusChange(ticketID uuid.UUID, newState string) {
	w.enqueue(job{kind: jobStatusChange, entityID: ticketID, newState: newState})
}

func (w *Worker) enqueue(j job) {
	select {
	case w.jobs <- j:
	default:
		w.logger.WithFields(logrus.Fields{
			"entity_id": j.entityID,
			"kind":      j.kind,
		}).Warn("Notification queue full, dropping job")
	}
}

func (w *Worker) run() {
	defer close(w.done)

	first := true
	for j := range w.jobs {
		if !first && w.sendInterval > 0 {
			time.Sleep(w.sendInterval)
		}
		first = false

		var err error
		switch j.kind {
		case jobSaleConfirmation:
			err = w.sender.SendSaleConfirmation(j.entityID)
		case jobTicket:
			err = w.sender.SendTicket(j.entityID)
		case jobStatusChange:
			err = w.sender.SendStatusChange(j.entityID, j.newState)
		}

		if err != nil {
			w.logger.WithError(err).WithField("entity_id", j.entityID).
				Warn("Notification send failed, dropping")
		}
	}
}
