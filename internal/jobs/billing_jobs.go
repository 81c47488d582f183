package jobs

import (
	"context"
	"time"

	"rentalops-backend/internal/logger"
)

// CreateMonthlyRentalInvoices bills every active rental order pro rata for
// the days elapsed since its last billing point.
func (jr *JobRunner) CreateMonthlyRentalInvoices() {
	jr.runWithRecovery("CreateMonthlyRentalInvoices", func() {
		ctx := context.Background()

		created, err := jr.services.Billing.CreateMonthlyRentalInvoices(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to create monthly rental invoices", "error", err)
			return
		}
		if len(created) == 0 {
			logger.Info("No rental orders due for billing")
			return
		}
		logger.Info("Created monthly rental invoices", "count", len(created), "invoices", created)
	})
}
