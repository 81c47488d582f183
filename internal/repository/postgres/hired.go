package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type hiredItemsRepository struct {
	q DBTX
}

func NewHiredItemsRepository(q DBTX) repository.HiredItemsRepository {
	return &hiredItemsRepository{q: q}
}

func (r *hiredItemsRepository) Create(ctx context.Context, h *domain.HiredItems) error {
	query := `INSERT INTO hired_items (name, company, supplier, posting_date, is_return, return_against, docstatus, status, total_qty, total_amount)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.ExecContext(ctx, query,
		h.Name, h.Company, h.Supplier, h.PostingDate, h.IsReturn, h.ReturnAgainst,
		h.DocStatus, h.Status, h.TotalQty, h.TotalAmount)
	if err != nil {
		return err
	}
	for i := range h.Lines {
		line := &h.Lines[i]
		line.Parent = h.Name
		line.Idx = i + 1
		lineQuery := `INSERT INTO hired_items_lines (name, parent_name, idx, item_code, item_name, description, qty, rate, amount, returned_qty, hired_item_line)
		              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		if _, err := r.q.ExecContext(ctx, lineQuery,
			line.Name, line.Parent, line.Idx, line.ItemCode, line.ItemName, line.Description,
			line.Qty, line.Rate, line.Amount, line.ReturnedQty, line.HiredItemLine); err != nil {
			return err
		}
	}
	return nil
}

func (r *hiredItemsRepository) GetByName(ctx context.Context, name string) (*domain.HiredItems, error) {
	h := &domain.HiredItems{}
	query := `SELECT name, company, supplier, posting_date, is_return, return_against, docstatus, status, total_qty, total_amount
	          FROM hired_items WHERE name = $1`
	err := r.q.QueryRowContext(ctx, query, name).Scan(
		&h.Name, &h.Company, &h.Supplier, &h.PostingDate, &h.IsReturn, &h.ReturnAgainst,
		&h.DocStatus, &h.Status, &h.TotalQty, &h.TotalAmount)
	if err != nil {
		return nil, err
	}

	lineQuery := `SELECT name, parent_name, idx, item_code, item_name, description, qty, rate, amount, returned_qty, hired_item_line
	              FROM hired_items_lines WHERE parent_name = $1 ORDER BY idx`
	rows, err := r.q.QueryContext(ctx, lineQuery, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var line domain.HiredItemsLine
		if err := rows.Scan(&line.Name, &line.Parent, &line.Idx, &line.ItemCode, &line.ItemName,
			&line.Description, &line.Qty, &line.Rate, &line.Amount, &line.ReturnedQty,
			&line.HiredItemLine); err != nil {
			return nil, err
		}
		h.Lines = append(h.Lines, line)
	}
	return h, rows.Err()
}

func (r *hiredItemsRepository) Update(ctx context.Context, h *domain.HiredItems) error {
	query := `UPDATE hired_items SET docstatus=$1, status=$2, total_qty=$3, total_amount=$4 WHERE name=$5`
	_, err := r.q.ExecContext(ctx, query, h.DocStatus, h.Status, h.TotalQty, h.TotalAmount, h.Name)
	if err != nil {
		return err
	}
	for i := range h.Lines {
		line := &h.Lines[i]
		lineQuery := `UPDATE hired_items_lines SET item_name=$1, description=$2, amount=$3, returned_qty=$4 WHERE name=$5`
		if _, err := r.q.ExecContext(ctx, lineQuery,
			line.ItemName, line.Description, line.Amount, line.ReturnedQty, line.Name); err != nil {
			return err
		}
	}
	return nil
}

func (r *hiredItemsRepository) UpdateLineReturnedQty(ctx context.Context, lineName string, qty decimal.Decimal) error {
	query := `UPDATE hired_items_lines SET returned_qty = $1 WHERE name = $2`
	_, err := r.q.ExecContext(ctx, query, qty, lineName)
	return err
}
