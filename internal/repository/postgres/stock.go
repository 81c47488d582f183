package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type stockRepository struct {
	q DBTX
}

func NewStockRepository(q DBTX) repository.StockRepository {
	return &stockRepository{q: q}
}

func (r *stockRepository) CreateEntry(ctx context.Context, e *domain.StockEntry) error {
	query := `INSERT INTO stock_entries (name, company, entry_type, posting_date, posting_time, docstatus, remarks, rental_delivery, rental_return, change_inventory, hired_items)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.ExecContext(ctx, query,
		e.Name, e.Company, e.Type, e.PostingDate, e.PostingTime, e.DocStatus, e.Remarks,
		e.RentalDelivery, e.RentalReturn, e.ChangeInventory, e.HiredItems)
	if err != nil {
		return err
	}
	for i := range e.Lines {
		line := &e.Lines[i]
		line.Parent = e.Name
		lineQuery := `INSERT INTO stock_entry_lines (name, parent_name, item_code, source_warehouse, target_warehouse, qty, basic_rate, serial_no, batch_no, is_finished_item)
		              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		if _, err := r.q.ExecContext(ctx, lineQuery,
			line.Name, line.Parent, line.ItemCode, line.SourceWarehouse, line.TargetWarehouse,
			line.Qty, line.BasicRate, line.SerialNo, line.BatchNo, line.IsFinishedItem); err != nil {
			return err
		}
	}
	return nil
}

func (r *stockRepository) UpdateEntryStatus(ctx context.Context, name string, status domain.DocStatus) error {
	query := `UPDATE stock_entries SET docstatus = $1 WHERE name = $2`
	_, err := r.q.ExecContext(ctx, query, status, name)
	return err
}

func (r *stockRepository) DeleteEntry(ctx context.Context, name string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM stock_entry_lines WHERE parent_name = $1`, name); err != nil {
		return err
	}
	_, err := r.q.ExecContext(ctx, `DELETE FROM stock_entries WHERE name = $1`, name)
	return err
}

func (r *stockRepository) ListEntriesByReference(ctx context.Context, ref repository.StockReference, value string) ([]domain.StockEntry, error) {
	var column string
	switch ref {
	case repository.StockRefDelivery:
		column = "rental_delivery"
	case repository.StockRefReturn:
		column = "rental_return"
	case repository.StockRefChangeInventory:
		column = "change_inventory"
	case repository.StockRefHiredItems:
		column = "hired_items"
	default:
		return nil, fmt.Errorf("unknown stock reference %q", ref)
	}

	query := fmt.Sprintf(`SELECT name, company, entry_type, posting_date, posting_time, docstatus, remarks, rental_delivery, rental_return, change_inventory, hired_items
	          FROM stock_entries WHERE %s = $1 ORDER BY name`, column)
	rows, err := r.q.QueryContext(ctx, query, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.StockEntry
	for rows.Next() {
		var e domain.StockEntry
		if err := rows.Scan(&e.Name, &e.Company, &e.Type, &e.PostingDate, &e.PostingTime,
			&e.DocStatus, &e.Remarks, &e.RentalDelivery, &e.RentalReturn,
			&e.ChangeInventory, &e.HiredItems); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		lines, err := r.linesFor(ctx, entries[i].Name)
		if err != nil {
			return nil, err
		}
		entries[i].Lines = lines
	}
	return entries, nil
}

func (r *stockRepository) linesFor(ctx context.Context, entry string) ([]domain.StockEntryLine, error) {
	query := `SELECT name, parent_name, item_code, source_warehouse, target_warehouse, qty, basic_rate, serial_no, batch_no, is_finished_item
	          FROM stock_entry_lines WHERE parent_name = $1 ORDER BY name`
	rows, err := r.q.QueryContext(ctx, query, entry)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []domain.StockEntryLine
	for rows.Next() {
		var line domain.StockEntryLine
		if err := rows.Scan(&line.Name, &line.Parent, &line.ItemCode, &line.SourceWarehouse,
			&line.TargetWarehouse, &line.Qty, &line.BasicRate, &line.SerialNo, &line.BatchNo,
			&line.IsFinishedItem); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *stockRepository) InsertLedgerEntries(ctx context.Context, entries []domain.StockLedgerEntry) error {
	query := `INSERT INTO stock_ledger_entries (item_code, warehouse, posting_date, posting_time, qty, stock_entry)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range entries {
		e := &entries[i]
		if _, err := r.q.ExecContext(ctx, query,
			e.ItemCode, e.Warehouse, e.PostingDate, e.PostingTime, e.Qty, e.StockEntry); err != nil {
			return err
		}
	}
	return nil
}

func (r *stockRepository) DeleteLedgerEntriesForEntry(ctx context.Context, stockEntry string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM stock_ledger_entries WHERE stock_entry = $1`, stockEntry)
	return err
}

func (r *stockRepository) Balance(ctx context.Context, itemCode, warehouse string, postingDate time.Time, postingTime string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	query := `SELECT COALESCE(SUM(qty), 0) FROM stock_ledger_entries
	          WHERE item_code = $1 AND warehouse = $2
	            AND (posting_date < $3 OR (posting_date = $3 AND posting_time <= $4))`
	err := r.q.QueryRowContext(ctx, query, itemCode, warehouse, postingDate, postingTime).Scan(&balance)
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}
