package postgres

import (
	"context"
	"database/sql"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type orderRepository struct {
	q DBTX
}

func NewOrderRepository(q DBTX) repository.OrderRepository {
	return &orderRepository{q: q}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.RentalOrder) error {
	query := `INSERT INTO rental_orders (name, company, customer, transaction_date, delivery_date, docstatus, status, total_qty, security_deposit, remaining_security_deposit, all_delivered)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.ExecContext(ctx, query,
		order.Name, order.Company, order.Customer, order.TransactionDate, order.DeliveryDate,
		order.DocStatus, order.Status, order.TotalQty, order.SecurityDeposit,
		order.RemainingSecurityDeposit, order.AllDelivered)
	if err != nil {
		return err
	}
	for i := range order.Lines {
		line := &order.Lines[i]
		line.Order = order.Name
		lineQuery := `INSERT INTO rental_order_lines (name, order_name, item_code, item_name, qty, rate, delivered_qty, returned_qty)
		              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := r.q.ExecContext(ctx, lineQuery,
			line.Name, line.Order, line.ItemCode, line.ItemName,
			line.Qty, line.Rate, line.DeliveredQty, line.ReturnedQty); err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) GetByName(ctx context.Context, name string) (*domain.RentalOrder, error) {
	order := &domain.RentalOrder{}
	var deliveryDate, lastBilled sql.NullTime
	query := `SELECT name, company, customer, transaction_date, delivery_date, docstatus, status, total_qty, security_deposit, remaining_security_deposit, last_billed_date, all_delivered
	          FROM rental_orders WHERE name = $1`
	err := r.q.QueryRowContext(ctx, query, name).Scan(
		&order.Name, &order.Company, &order.Customer, &order.TransactionDate, &deliveryDate,
		&order.DocStatus, &order.Status, &order.TotalQty, &order.SecurityDeposit,
		&order.RemainingSecurityDeposit, &lastBilled, &order.AllDelivered)
	if err != nil {
		return nil, err
	}
	if deliveryDate.Valid {
		order.DeliveryDate = &deliveryDate.Time
	}
	if lastBilled.Valid {
		order.LastBilledDate = &lastBilled.Time
	}

	lineQuery := `SELECT name, order_name, item_code, item_name, qty, rate, delivered_qty, returned_qty
	              FROM rental_order_lines WHERE order_name = $1 ORDER BY name`
	rows, err := r.q.QueryContext(ctx, lineQuery, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var line domain.RentalOrderLine
		if err := rows.Scan(&line.Name, &line.Order, &line.ItemCode, &line.ItemName,
			&line.Qty, &line.Rate, &line.DeliveredQty, &line.ReturnedQty); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}
	return order, rows.Err()
}

func (r *orderRepository) UpdateDerived(ctx context.Context, order *domain.RentalOrder) error {
	query := `UPDATE rental_orders SET status=$1, all_delivered=$2, last_billed_date=$3, remaining_security_deposit=$4 WHERE name=$5`
	_, err := r.q.ExecContext(ctx, query,
		order.Status, order.AllDelivered, order.LastBilledDate, order.RemainingSecurityDeposit, order.Name)
	return err
}

func (r *orderRepository) UpdateLineDerived(ctx context.Context, line *domain.RentalOrderLine) error {
	query := `UPDATE rental_order_lines SET delivered_qty=$1, returned_qty=$2 WHERE name=$3`
	_, err := r.q.ExecContext(ctx, query, line.DeliveredQty, line.ReturnedQty, line.Name)
	return err
}

func (r *orderRepository) ListActive(ctx context.Context) ([]domain.RentalOrder, error) {
	query := `SELECT name FROM rental_orders WHERE docstatus = 1 AND status != 'Completed' ORDER BY name`
	rows, err := r.q.QueryContext(ctx, query)
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

	var orders []domain.RentalOrder
	for _, name := range names {
		order, err := r.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}
