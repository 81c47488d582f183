package postgres

import (
	"context"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type deliveryRepository struct {
	q DBTX
}

func NewDeliveryRepository(q DBTX) repository.DeliveryRepository {
	return &deliveryRepository{q: q}
}

func (r *deliveryRepository) Create(ctx context.Context, d *domain.RentalDelivery) error {
	query := `INSERT INTO rental_deliveries (name, company, order_name, posting_date, posting_time, source_warehouse, rented_warehouse, docstatus, status, total_qty, grand_total)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.ExecContext(ctx, query,
		d.Name, d.Company, d.Order, d.PostingDate, d.PostingTime,
		d.SourceWarehouse, d.RentedWarehouse, d.DocStatus, d.Status, d.TotalQty, d.GrandTotal)
	if err != nil {
		return err
	}
	for i := range d.Lines {
		line := &d.Lines[i]
		line.Delivery = d.Name
		lineQuery := `INSERT INTO rental_delivery_lines (name, delivery_name, item_code, item_name, qty, rate, amount, pending_qty, returned_qty, return_state, order_name, order_line)
		              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
		if _, err := r.q.ExecContext(ctx, lineQuery,
			line.Name, line.Delivery, line.ItemCode, line.ItemName, line.Qty, line.Rate,
			line.Amount, line.PendingQty, line.ReturnedQty, line.ReturnState,
			line.Order, line.OrderLine); err != nil {
			return err
		}
	}
	return nil
}

func (r *deliveryRepository) GetByName(ctx context.Context, name string) (*domain.RentalDelivery, error) {
	d := &domain.RentalDelivery{}
	query := `SELECT name, company, order_name, posting_date, posting_time, source_warehouse, rented_warehouse, docstatus, status, total_qty, grand_total
	          FROM rental_deliveries WHERE name = $1`
	err := r.q.QueryRowContext(ctx, query, name).Scan(
		&d.Name, &d.Company, &d.Order, &d.PostingDate, &d.PostingTime,
		&d.SourceWarehouse, &d.RentedWarehouse, &d.DocStatus, &d.Status, &d.TotalQty, &d.GrandTotal)
	if err != nil {
		return nil, err
	}
	lines, err := r.linesFor(ctx, name)
	if err != nil {
		return nil, err
	}
	d.Lines = lines
	return d, nil
}

func (r *deliveryRepository) linesFor(ctx context.Context, delivery string) ([]domain.RentalDeliveryLine, error) {
	query := `SELECT name, delivery_name, item_code, item_name, qty, rate, amount, pending_qty, returned_qty, return_state, order_name, order_line
	          FROM rental_delivery_lines WHERE delivery_name = $1 ORDER BY name`
	rows, err := r.q.QueryContext(ctx, query, delivery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []domain.RentalDeliveryLine
	for rows.Next() {
		var line domain.RentalDeliveryLine
		if err := rows.Scan(&line.Name, &line.Delivery, &line.ItemCode, &line.ItemName,
			&line.Qty, &line.Rate, &line.Amount, &line.PendingQty, &line.ReturnedQty,
			&line.ReturnState, &line.Order, &line.OrderLine); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *deliveryRepository) Update(ctx context.Context, d *domain.RentalDelivery) error {
	query := `UPDATE rental_deliveries SET docstatus=$1, status=$2, total_qty=$3, grand_total=$4 WHERE name=$5`
	_, err := r.q.ExecContext(ctx, query, d.DocStatus, d.Status, d.TotalQty, d.GrandTotal, d.Name)
	if err != nil {
		return err
	}
	for i := range d.Lines {
		if err := r.UpdateLine(ctx, &d.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *deliveryRepository) UpdateLine(ctx context.Context, line *domain.RentalDeliveryLine) error {
	query := `UPDATE rental_delivery_lines SET qty=$1, rate=$2, amount=$3, pending_qty=$4, returned_qty=$5, return_state=$6 WHERE name=$7`
	_, err := r.q.ExecContext(ctx, query,
		line.Qty, line.Rate, line.Amount, line.PendingQty, line.ReturnedQty, line.ReturnState, line.Name)
	return err
}

func (r *deliveryRepository) ListByOrder(ctx context.Context, order string) ([]domain.RentalDelivery, error) {
	query := `SELECT name FROM rental_deliveries WHERE order_name = $1 AND docstatus = 1 ORDER BY posting_date, name`
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
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var deliveries []domain.RentalDelivery
	for _, name := range names {
		d, err := r.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, *d)
	}
	return deliveries, nil
}
