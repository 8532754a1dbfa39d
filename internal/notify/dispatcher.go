package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Message is one queued notification.
type Message struct {
	Phone    string
	Text     string
	APIToken string

	// TrackingCode is carried for log correlation only.
	TrackingCode string
}

// Dispatcher delivers messages in the background so a slow or failing
// gateway never delays the request that produced the notification.
// Enqueue never blocks: when the queue is full the message is dropped and
// logged, which is acceptable for best-effort delivery.
type Dispatcher struct {
	gateway Gateway
	logger  *slog.Logger
	queue   chan Message
	timeout time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// DispatcherConfig holds dispatcher tuning knobs.
type DispatcherConfig struct {
	// QueueSize is the buffered queue capacity. Default 64.
	QueueSize int

	// Workers is the number of concurrent senders. Default 2.
	Workers int

	// SendTimeout bounds one gateway call. Default 15s.
	SendTimeout time.Duration
}

// NewDispatcher creates a dispatcher and starts its workers.
func NewDispatcher(gateway Gateway, logger *slog.Logger, cfg DispatcherConfig) *Dispatcher {
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 64
	}
	if cfg.Workers == 0 {
		cfg.Workers = 2
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = 15 * time.Second
	}

	d := &Dispatcher{
		gateway: gateway,
		logger:  logger,
		queue:   make(chan Message, cfg.QueueSize),
		timeout: cfg.SendTimeout,
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.worker()
	}

	return d
}

// Enqueue submits a message for delivery. Returns false if the queue was
// full and the message was dropped.
func (d *Dispatcher) Enqueue(msg Message) bool {
	select {
	case d.queue <- msg:
		return true
	default:
		d.logger.Warn("notification queue full, dropping message",
			"tracking_code", msg.TrackingCode,
		)
		return false
	}
}

// Stop drains the queue and waits for in-flight sends to finish.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.gateway.Send(ctx, msg.Phone, msg.Text, msg.APIToken)
		cancel()

		if err != nil {
			d.logger.Error("failed to send WhatsApp notification",
				"tracking_code", msg.TrackingCode,
				"error", err,
			)
			continue
		}

		d.logger.Info("WhatsApp notification sent",
			"tracking_code", msg.TrackingCode,
			"phone", msg.Phone,
		)
	}
}
