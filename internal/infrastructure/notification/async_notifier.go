package notification

import (
	"context"
	"sync"

	"github.com/mealflow/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// AsyncNotifier decouples notification delivery from the billing transaction.
// InvoiceIssued enqueues and returns immediately; a background worker hands
// the invoice to the wrapped delivery notifier. Delivery failures are logged
// and dropped, never propagated back to billing.
type AsyncNotifier struct {
	delegate billing.Notifier
	logger   *zap.Logger
	queue    chan *billing.Invoice

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewAsyncNotifier creates an AsyncNotifier with the given queue capacity
func NewAsyncNotifier(delegate billing.Notifier, bufferSize int, logger *zap.Logger) *AsyncNotifier {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &AsyncNotifier{
		delegate: delegate,
		logger:   logger.Named("async-notifier"),
		queue:    make(chan *billing.Invoice, bufferSize),
	}
}

// Start launches the delivery worker
func (n *AsyncNotifier) Start(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.started {
		return
	}
	n.started = true

	ctx, n.cancel = context.WithCancel(ctx)
	n.wg.Add(1)
	go n.worker(ctx)
}

// Stop drains the queue and stops the worker
func (n *AsyncNotifier) Stop() {
	n.mu.Lock()
	if !n.started {
		n.mu.Unlock()
		return
	}
	n.started = false
	n.mu.Unlock()

	close(n.queue)
	n.wg.Wait()
	if n.cancel != nil {
		n.cancel()
	}
}

// InvoiceIssued enqueues the invoice for delivery. A full queue drops the
// notification with a log entry rather than blocking the billing path.
func (n *AsyncNotifier) InvoiceIssued(_ context.Context, inv *billing.Invoice) error {
	select {
	case n.queue <- inv:
		return nil
	default:
		n.logger.Warn("notification queue full, dropping",
			zap.String("invoice_number", inv.InvoiceNumber))
		return nil
	}
}

func (n *AsyncNotifier) worker(ctx context.Context) {
	defer n.wg.Done()

	for inv := range n.queue {
		if err := n.delegate.InvoiceIssued(ctx, inv); err != nil {
			n.logger.Warn("notification delivery failed",
				zap.String("invoice_number", inv.InvoiceNumber),
				zap.Error(err))
		}
	}
}
