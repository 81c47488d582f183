package postgres

import (
	"context"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type catalogRepository struct {
	q DBTX
}

func NewCatalogRepository(q DBTX) repository.CatalogRepository {
	return &catalogRepository{q: q}
}

func (r *catalogRepository) GetItem(ctx context.Context, code string) (*domain.Item, error) {
	item := &domain.Item{}
	query := `SELECT code, name, COALESCE(description, ''), maintenance_charge, damage_charge, standard_rate FROM items WHERE code = $1`
	err := r.q.QueryRowContext(ctx, query, code).Scan(
		&item.Code, &item.Name, &item.Description,
		&item.MaintenanceCharge, &item.DamageCharge, &item.StandardRate)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *catalogRepository) GetWarehouse(ctx context.Context, name string) (*domain.Warehouse, error) {
	w := &domain.Warehouse{}
	query := `SELECT name, company, is_group FROM warehouses WHERE name = $1`
	err := r.q.QueryRowContext(ctx, query, name).Scan(&w.Name, &w.Company, &w.IsGroup)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *catalogRepository) WarehouseExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM warehouses WHERE name = $1)`
	err := r.q.QueryRowContext(ctx, query, name).Scan(&exists)
	return exists, err
}

func (r *catalogRepository) CreateWarehouse(ctx context.Context, w *domain.Warehouse) error {
	query := `INSERT INTO warehouses (name, company, is_group) VALUES ($1, $2, $3)`
	_, err := r.q.ExecContext(ctx, query, w.Name, w.Company, w.IsGroup)
	return err
}

func (r *catalogRepository) GetAccount(ctx context.Context, name string) (*domain.Account, error) {
	a := &domain.Account{}
	query := `SELECT name, company, account_type FROM accounts WHERE name = $1`
	err := r.q.QueryRowContext(ctx, query, name).Scan(&a.Name, &a.Company, &a.Type)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *catalogRepository) GetCompany(ctx context.Context, name string) (*domain.Company, error) {
	c := &domain.Company{}
	query := `SELECT name, abbr FROM companies WHERE name = $1`
	err := r.q.QueryRowContext(ctx, query, name).Scan(&c.Name, &c.Abbr)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *catalogRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT name, abbr FROM companies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.Name, &c.Abbr); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
