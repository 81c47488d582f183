package jobs

import (
	"context"

	"rentalops-backend/internal/logger"
)

// ProvisionRentalWarehouses makes sure every company has its rented and
// maintenance warehouses, so billing and delivery flows never trip over a
// company added since the last run.
func (jr *JobRunner) ProvisionRentalWarehouses() {
	jr.runWithRecovery("ProvisionRentalWarehouses", func() {
		ctx := context.Background()

		rows, err := jr.services.Settings.CreateWarehousesForAllCompanies(ctx)
		if err != nil {
			logger.Error("Failed to provision rental warehouses", "error", err)
			return
		}
		logger.Info("Provisioned rental warehouses", "companies", len(rows))
	})
}
