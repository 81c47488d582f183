package postgres

import (
	"context"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type invoiceRepository struct {
	q DBTX
}

func NewInvoiceRepository(q DBTX) repository.InvoiceRepository {
	return &invoiceRepository{q: q}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *domain.SalesInvoice) error {
	query := `INSERT INTO sales_invoices (name, company, customer, order_name, posting_date, due_date, update_stock, docstatus, status, grand_total)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.ExecContext(ctx, query,
		inv.Name, inv.Company, inv.Customer, inv.Order, inv.PostingDate, inv.DueDate,
		inv.UpdateStock, inv.DocStatus, inv.Status, inv.GrandTotal)
	if err != nil {
		return err
	}
	for i := range inv.Lines {
		line := &inv.Lines[i]
		line.Invoice = inv.Name
		lineQuery := `INSERT INTO sales_invoice_lines (name, invoice_name, item_code, item_name, qty, rate, amount, order_name, order_line, delivery_name, delivery_line)
		              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		if _, err := r.q.ExecContext(ctx, lineQuery,
			line.Name, line.Invoice, line.ItemCode, line.ItemName, line.Qty, line.Rate,
			line.Amount, line.Order, line.OrderLine, line.Delivery, line.DeliveryLine); err != nil {
			return err
		}
	}
	return nil
}

func (r *invoiceRepository) GetByName(ctx context.Context, name string) (*domain.SalesInvoice, error) {
	inv := &domain.SalesInvoice{}
	query := `SELECT name, company, customer, order_name, posting_date, due_date, update_stock, docstatus, status, grand_total
	          FROM sales_invoices WHERE name = $1`
	err := r.q.QueryRowContext(ctx, query, name).Scan(
		&inv.Name, &inv.Company, &inv.Customer, &inv.Order, &inv.PostingDate, &inv.DueDate,
		&inv.UpdateStock, &inv.DocStatus, &inv.Status, &inv.GrandTotal)
	if err != nil {
		return nil, err
	}

	lineQuery := `SELECT name, invoice_name, item_code, item_name, qty, rate, amount, order_name, order_line, delivery_name, delivery_line
	              FROM sales_invoice_lines WHERE invoice_name = $1 ORDER BY name`
	rows, err := r.q.QueryContext(ctx, lineQuery, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var line domain.SalesInvoiceLine
		if err := rows.Scan(&line.Name, &line.Invoice, &line.ItemCode, &line.ItemName,
			&line.Qty, &line.Rate, &line.Amount, &line.Order, &line.OrderLine,
			&line.Delivery, &line.DeliveryLine); err != nil {
			return nil, err
		}
		inv.Lines = append(inv.Lines, line)
	}
	return inv, rows.Err()
}

func (r *invoiceRepository) Update(ctx context.Context, inv *domain.SalesInvoice) error {
	query := `UPDATE sales_invoices SET docstatus=$1, status=$2, grand_total=$3 WHERE name=$4`
	_, err := r.q.ExecContext(ctx, query, inv.DocStatus, inv.Status, inv.GrandTotal, inv.Name)
	return err
}
