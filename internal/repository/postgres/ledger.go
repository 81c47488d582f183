package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"rentalops-backend/internal/repository"
)

type ledgerRepository struct {
	q DBTX
}

func NewLedgerRepository(q DBTX) repository.LedgerRepository {
	return &ledgerRepository{q: q}
}

func (r *ledgerRepository) TotalDelivered(ctx context.Context, order, orderLine string) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(rdl.qty), 0)
	          FROM rental_deliveries rd
	          INNER JOIN rental_delivery_lines rdl ON rd.name = rdl.delivery_name
	          WHERE rd.docstatus = 1 AND rdl.order_name = $1 AND rdl.order_line = $2`
	err := r.q.QueryRowContext(ctx, query, order, orderLine).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *ledgerRepository) TotalReturned(ctx context.Context, order, orderLine, delivery, deliveryLine string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(rrl.return_qty) + SUM(rrl.maintenance_qty) + SUM(rrl.damaged_qty), 0)
	          FROM rental_returns rr
	          INNER JOIN rental_return_lines rrl ON rr.name = rrl.return_name
	          WHERE rr.docstatus = 1 AND rrl.order_name = $1 AND rrl.order_line = $2`
	args := []any{order, orderLine}
	if delivery != "" {
		args = append(args, delivery)
		query += ` AND rrl.delivery_name = $3`
	}
	if deliveryLine != "" {
		args = append(args, deliveryLine)
		if delivery != "" {
			query += ` AND rrl.delivery_line = $4`
		} else {
			query += ` AND rrl.delivery_line = $3`
		}
	}

	var total decimal.Decimal
	err := r.q.QueryRowContext(ctx, query, args...).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *ledgerRepository) TotalDepositUsed(ctx context.Context, order string) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(rrl.maintenance_amount) + SUM(rrl.damaged_amount), 0)
	          FROM rental_returns rr
	          INNER JOIN rental_return_lines rrl ON rr.name = rrl.return_name
	          WHERE rr.docstatus = 1 AND rrl.order_name = $1`
	err := r.q.QueryRowContext(ctx, query, order).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *ledgerRepository) LastBilledDate(ctx context.Context, order string) (*time.Time, error) {
	var last sql.NullTime
	query := `SELECT MAX(posting_date) FROM sales_invoices WHERE order_name = $1 AND docstatus = 1`
	err := r.q.QueryRowContext(ctx, query, order).Scan(&last)
	if err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}

func (r *ledgerRepository) LastReturnName(ctx context.Context, order string) (string, error) {
	var name string
	query := `SELECT name FROM rental_returns WHERE order_name = $1 AND docstatus = 1
	          ORDER BY posting_date DESC, name DESC LIMIT 1`
	err := r.q.QueryRowContext(ctx, query, order).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

func (r *ledgerRepository) PendingDeliveryNames(ctx context.Context, order string) ([]string, error) {
	query := `SELECT DISTINCT rd.name
	          FROM rental_deliveries rd
	          INNER JOIN rental_delivery_lines rdl ON rd.name = rdl.delivery_name
	          WHERE rd.docstatus = 1 AND rd.status != 'Returned' AND rdl.pending_qty > 0 AND rdl.order_name = $1
	          ORDER BY rd.name`
	rows, err := r.q.QueryContext(ctx, query, order)
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
	return names, rows.Err()
}
