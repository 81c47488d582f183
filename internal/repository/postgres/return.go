package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type returnRepository struct {
	q DBTX
}

func NewReturnRepository(q DBTX) repository.ReturnRepository {
	return &returnRepository{q: q}
}

func (r *returnRepository) Create(ctx context.Context, ret *domain.RentalReturn) error {
	query := `INSERT INTO rental_returns (name, company, order_name, posting_date, posting_time, return_date, source_warehouse, target_warehouse, docstatus, status,
	              total_return_qty, total_amount, total_maintenance_qty, total_maintenance_amount, total_damaged_qty, total_damaged_amount, security_deposit_returned, grand_total)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.ExecContext(ctx, query,
		ret.Name, ret.Company, ret.Order, ret.PostingDate, ret.PostingTime, ret.ReturnDate,
		ret.SourceWarehouse, ret.TargetWarehouse, ret.DocStatus, ret.Status,
		ret.TotalReturnQty, ret.TotalAmount, ret.TotalMaintenanceQty, ret.TotalMaintenanceAmount,
		ret.TotalDamagedQty, ret.TotalDamagedAmount, ret.SecurityDepositReturned, ret.GrandTotal)
	if err != nil {
		return err
	}
	for i := range ret.Lines {
		line := &ret.Lines[i]
		line.Return = ret.Name
		lineQuery := `INSERT INTO rental_return_lines (name, return_name, item_code, item_name, delivered_qty, return_qty, maintenance_qty, damaged_qty,
		                  rate, maintenance_rate, damaged_rate, amount, maintenance_amount, damaged_amount, order_name, order_line, delivery_name, delivery_line)
		              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
		if _, err := r.q.ExecContext(ctx, lineQuery,
			line.Name, line.Return, line.ItemCode, line.ItemName, line.DeliveredQty,
			line.ReturnQty, line.MaintenanceQty, line.DamagedQty,
			line.Rate, line.MaintenanceRate, line.DamagedRate,
			line.Amount, line.MaintenanceAmount, line.DamagedAmount,
			line.Order, line.OrderLine, line.Delivery, line.DeliveryLine); err != nil {
			return err
		}
	}
	return nil
}

func (r *returnRepository) GetByName(ctx context.Context, name string) (*domain.RentalReturn, error) {
	ret := &domain.RentalReturn{}
	var returnDate sql.NullTime
	query := `SELECT name, company, order_name, posting_date, posting_time, return_date, source_warehouse, target_warehouse, docstatus, status,
	              total_return_qty, total_amount, total_maintenance_qty, total_maintenance_amount, total_damaged_qty, total_damaged_amount, security_deposit_returned, grand_total
	          FROM rental_returns WHERE name = $1`
	err := r.q.QueryRowContext(ctx, query, name).Scan(
		&ret.Name, &ret.Company, &ret.Order, &ret.PostingDate, &ret.PostingTime, &returnDate,
		&ret.SourceWarehouse, &ret.TargetWarehouse, &ret.DocStatus, &ret.Status,
		&ret.TotalReturnQty, &ret.TotalAmount, &ret.TotalMaintenanceQty, &ret.TotalMaintenanceAmount,
		&ret.TotalDamagedQty, &ret.TotalDamagedAmount, &ret.SecurityDepositReturned, &ret.GrandTotal)
	if err != nil {
		return nil, err
	}
	if returnDate.Valid {
		ret.ReturnDate = &returnDate.Time
	}
	lines, err := r.linesFor(ctx, name)
	if err != nil {
		return nil, err
	}
	ret.Lines = lines
	return ret, nil
}

func (r *returnRepository) linesFor(ctx context.Context, ret string) ([]domain.RentalReturnLine, error) {
	query := `SELECT name, return_name, item_code, item_name, delivered_qty, return_qty, maintenance_qty, damaged_qty,
	              rate, maintenance_rate, damaged_rate, amount, maintenance_amount, damaged_amount, order_name, order_line, delivery_name, delivery_line
	          FROM rental_return_lines WHERE return_name = $1 ORDER BY name`
	rows, err := r.q.QueryContext(ctx, query, ret)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []domain.RentalReturnLine
	for rows.Next() {
		var line domain.RentalReturnLine
		if err := rows.Scan(&line.Name, &line.Return, &line.ItemCode, &line.ItemName, &line.DeliveredQty,
			&line.ReturnQty, &line.MaintenanceQty, &line.DamagedQty,
			&line.Rate, &line.MaintenanceRate, &line.DamagedRate,
			&line.Amount, &line.MaintenanceAmount, &line.DamagedAmount,
			&line.Order, &line.OrderLine, &line.Delivery, &line.DeliveryLine); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *returnRepository) Update(ctx context.Context, ret *domain.RentalReturn) error {
	query := `UPDATE rental_returns SET docstatus=$1, status=$2, total_return_qty=$3, total_amount=$4, total_maintenance_qty=$5,
	              total_maintenance_amount=$6, total_damaged_qty=$7, total_damaged_amount=$8, security_deposit_returned=$9, grand_total=$10
	          WHERE name=$11`
	_, err := r.q.ExecContext(ctx, query,
		ret.DocStatus, ret.Status, ret.TotalReturnQty, ret.TotalAmount, ret.TotalMaintenanceQty,
		ret.TotalMaintenanceAmount, ret.TotalDamagedQty, ret.TotalDamagedAmount,
		ret.SecurityDepositReturned, ret.GrandTotal, ret.Name)
	return err
}

func (r *returnRepository) ListByOrderSince(ctx context.Context, order string, since *time.Time) ([]domain.RentalReturn, error) {
	query := `SELECT name FROM rental_returns WHERE order_name = $1 AND docstatus = 1`
	args := []any{order}
	if since != nil {
		query += ` AND posting_date > $2`
		args = append(args, *since)
	}
	query += ` ORDER BY posting_date, name`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var returns []domain.RentalReturn
	for _, name := range names {
		ret, err := r.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		returns = append(returns, *ret)
	}
	return returns, nil
}

func (r *returnRepository) SetSecurityDepositReturned(ctx context.Context, name string, amount decimal.Decimal) error {
	query := `UPDATE rental_returns SET security_deposit_returned = $1 WHERE name = $2`
	_, err := r.q.ExecContext(ctx, query, amount, name)
	return err
}
