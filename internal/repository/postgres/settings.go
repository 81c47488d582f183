package postgres

import (
	"context"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type settingsRepository struct {
	q DBTX
}

func NewSettingsRepository(q DBTX) repository.SettingsRepository {
	return &settingsRepository{q: q}
}

// Get reads the singleton settings row plus every per-company defaults row.
func (r *settingsRepository) Get(ctx context.Context) (*domain.RentalSettings, error) {
	settings := &domain.RentalSettings{}
	err := r.q.QueryRowContext(ctx,
		`SELECT auto_create_warehouses FROM rental_settings WHERE id = 1`).
		Scan(&settings.AutoCreateWarehouses)
	if err != nil {
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT company, source_warehouse, rented_warehouse, maintenance_warehouse, cost_center, income_account, security_deposit_account
		 FROM rental_defaults ORDER BY company`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var d domain.RentalDefaults
		if err := rows.Scan(&d.Company, &d.SourceWarehouse, &d.RentedWarehouse,
			&d.MaintenanceWarehouse, &d.CostCenter, &d.IncomeAccount,
			&d.SecurityDepositAccount); err != nil {
			return nil, err
		}
		settings.Defaults = append(settings.Defaults, d)
	}
	return settings, rows.Err()
}

func (r *settingsRepository) UpsertDefaults(ctx context.Context, row *domain.RentalDefaults) error {
	query := `INSERT INTO rental_defaults (company, source_warehouse, rented_warehouse, maintenance_warehouse, cost_center, income_account, security_deposit_account)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (company) DO UPDATE SET
	              source_warehouse = EXCLUDED.source_warehouse,
	              rented_warehouse = EXCLUDED.rented_warehouse,
	              maintenance_warehouse = EXCLUDED.maintenance_warehouse,
	              cost_center = EXCLUDED.cost_center,
	              income_account = EXCLUDED.income_account,
	              security_deposit_account = EXCLUDED.security_deposit_account`
	_, err := r.q.ExecContext(ctx, query,
		row.Company, row.SourceWarehouse, row.RentedWarehouse, row.MaintenanceWarehouse,
		row.CostCenter, row.IncomeAccount, row.SecurityDepositAccount)
	return err
}
