package notification

import (
	"context"

	"github.com/mealflow/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// LogNotifier implements billing.Notifier by writing the notification to the
// log. It stands in for the real delivery channel (email provider) in
// development and testing environments.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notifier")}
}

// InvoiceIssued logs the issued invoice notification
func (n *LogNotifier) InvoiceIssued(_ context.Context, inv *billing.Invoice) error {
	n.logger.Info("invoice issued notification",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("company_id", inv.CompanyID.String()),
		zap.Int64("total_cents", inv.TotalCents),
		zap.String("due_date", inv.DueDate.Format("2006-01-02")),
	)
	return nil
}

// NopNotifier discards notifications. Used when notification dispatch is
// disabled by configuration.
type NopNotifier struct{}

// NewNopNotifier creates a new NopNotifier
func NewNopNotifier() *NopNotifier {
	return &NopNotifier{}
}

// InvoiceIssued does nothing
func (n *NopNotifier) InvoiceIssued(_ context.Context, _ *billing.Invoice) error {
	return nil
}
