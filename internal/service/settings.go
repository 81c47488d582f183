package service

import (
	"context"
	"fmt"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type settingsService struct {
	store repository.Store
}

func NewSettingsService(store repository.Store) SettingsService {
	return &settingsService{store: store}
}

func (s *settingsService) GetSettings(ctx context.Context) (*domain.RentalSettings, error) {
	return s.store.Settings().Get(ctx)
}

func (s *settingsService) UpdateDefaults(ctx context.Context, row *domain.RentalDefaults) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		if err := validateDefaults(ctx, st, row); err != nil {
			return err
		}
		return st.Settings().UpsertDefaults(ctx, row)
	})
}

func validateDefaults(ctx context.Context, st repository.Store, row *domain.RentalDefaults) error {
	if row.Company == "" {
		return domain.Validationf("company is required")
	}
	if _, err := st.Catalog().GetCompany(ctx, row.Company); err != nil {
		return err
	}

	// The three rental warehouses must not collapse into one another:
	// stock moves between them on every delivery and return.
	set := []struct{ label, name string }{
		{"source warehouse", row.SourceWarehouse},
		{"rented warehouse", row.RentedWarehouse},
		{"maintenance warehouse", row.MaintenanceWarehouse},
	}
	for i := range set {
		for j := i + 1; j < len(set); j++ {
			if set[i].name != "" && set[i].name == set[j].name {
				return domain.Validationf("%s and %s cannot both be %s", set[i].label, set[j].label, set[i].name)
			}
		}
	}
	for _, w := range set {
		if w.name == "" {
			continue
		}
		wh, err := st.Catalog().GetWarehouse(ctx, w.name)
		if err != nil {
			return err
		}
		if wh.Company != row.Company {
			return domain.Validationf("%s %s belongs to %s, not %s", w.label, w.name, wh.Company, row.Company)
		}
	}

	accounts := []struct {
		label, name string
		allowed     []domain.AccountType
	}{
		{"income account", row.IncomeAccount, []domain.AccountType{domain.AccountTypeIncome}},
		{"security deposit account", row.SecurityDepositAccount, []domain.AccountType{domain.AccountTypeCurrentLiability, domain.AccountTypeCurrentAsset}},
	}
	for _, a := range accounts {
		if a.name == "" {
			continue
		}
		acct, err := st.Catalog().GetAccount(ctx, a.name)
		if err != nil {
			return err
		}
		ok := false
		for _, t := range a.allowed {
			if acct.Type == t {
				ok = true
				break
			}
		}
		if !ok {
			return domain.Validationf("%s %s must be of type %s", a.label, a.name, a.allowed[0])
		}
	}
	return nil
}

func (s *settingsService) DefaultsFor(ctx context.Context, company string) (*domain.RentalDefaults, error) {
	var row *domain.RentalDefaults
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		var err error
		row, err = defaultsFor(ctx, st, company)
		return err
	})
	return row, err
}

// defaultsFor resolves the defaults row for a company. A missing source
// warehouse is a configuration error; missing rented or maintenance
// warehouses are provisioned on the fly when auto-create is enabled.
func defaultsFor(ctx context.Context, st repository.Store, company string) (*domain.RentalDefaults, error) {
	if company == "" {
		return nil, domain.Validationf("company is required")
	}
	settings, err := st.Settings().Get(ctx)
	if err != nil {
		return nil, err
	}
	row := settings.DefaultsFor(company)
	if row == nil {
		return nil, domain.Validationf("no rental defaults configured for company %s", company)
	}
	if row.SourceWarehouse == "" {
		return nil, domain.Validationf("no source warehouse configured for company %s", company)
	}
	if row.RentedWarehouse == "" || row.MaintenanceWarehouse == "" {
		if !settings.AutoCreateWarehouses {
			return nil, domain.Validationf("rented and maintenance warehouses are not configured for company %s", company)
		}
		if err := provisionWarehouses(ctx, st, row); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// provisionWarehouses fills the rented and maintenance warehouse slots,
// creating "Rented - ABBR" and "Maintenance - ABBR" when absent.
func provisionWarehouses(ctx context.Context, st repository.Store, row *domain.RentalDefaults) error {
	company, err := st.Catalog().GetCompany(ctx, row.Company)
	if err != nil {
		return err
	}
	if row.RentedWarehouse == "" {
		name, err := ensureWarehouse(ctx, st, fmt.Sprintf("Rented - %s", company.Abbr), company.Name)
		if err != nil {
			return err
		}
		row.RentedWarehouse = name
	}
	if row.MaintenanceWarehouse == "" {
		name, err := ensureWarehouse(ctx, st, fmt.Sprintf("Maintenance - %s", company.Abbr), company.Name)
		if err != nil {
			return err
		}
		row.MaintenanceWarehouse = name
	}
	return st.Settings().UpsertDefaults(ctx, row)
}

func ensureWarehouse(ctx context.Context, st repository.Store, name, company string) (string, error) {
	exists, err := st.Catalog().WarehouseExists(ctx, name)
	if err != nil {
		return "", err
	}
	if !exists {
		w := &domain.Warehouse{Name: name, Company: company}
		if err := st.Catalog().CreateWarehouse(ctx, w); err != nil {
			return "", err
		}
	}
	return name, nil
}

func (s *settingsService) CreateWarehousesForCompany(ctx context.Context, company string) (*domain.RentalDefaults, error) {
	var row *domain.RentalDefaults
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		settings, err := st.Settings().Get(ctx)
		if err != nil {
			return err
		}
		row = settings.DefaultsFor(company)
		if row == nil {
			row = &domain.RentalDefaults{Company: company}
		}
		return provisionWarehouses(ctx, st, row)
	})
	return row, err
}

func (s *settingsService) CreateWarehousesForAllCompanies(ctx context.Context) ([]domain.RentalDefaults, error) {
	var rows []domain.RentalDefaults
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		companies, err := st.Catalog().ListCompanies(ctx)
		if err != nil {
			return err
		}
		settings, err := st.Settings().Get(ctx)
		if err != nil {
			return err
		}
		for _, c := range companies {
			row := settings.DefaultsFor(c.Name)
			if row == nil {
				row = &domain.RentalDefaults{Company: c.Name}
			}
			if err := provisionWarehouses(ctx, st, row); err != nil {
				return err
			}
			rows = append(rows, *row)
		}
		return nil
	})
	return rows, err
}
