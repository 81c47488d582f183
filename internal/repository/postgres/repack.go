package postgres

import (
	"context"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type repackRepository struct {
	q DBTX
}

func NewRepackRepository(q DBTX) repository.RepackRepository {
	return &repackRepository{q: q}
}

func (r *repackRepository) Create(ctx context.Context, c *domain.ChangeInventory) error {
	query := `INSERT INTO change_inventories (name, company, posting_date, posting_time, warehouse, source_item, source_item_name, source_qty, source_serial_no, source_batch_no, total_target_qty, remarks, docstatus)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.ExecContext(ctx, query,
		c.Name, c.Company, c.PostingDate, c.PostingTime, c.Warehouse,
		c.SourceItem, c.SourceItemName, c.SourceQty, c.SourceSerialNo, c.SourceBatchNo,
		c.TotalTargetQty, c.Remarks, c.DocStatus)
	if err != nil {
		return err
	}
	for i := range c.Targets {
		line := &c.Targets[i]
		line.Parent = c.Name
		lineQuery := `INSERT INTO change_inventory_lines (name, parent_name, item_code, item_name, description, qty, serial_no, batch_no)
		              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := r.q.ExecContext(ctx, lineQuery,
			line.Name, line.Parent, line.ItemCode, line.ItemName, line.Description,
			line.Qty, line.SerialNo, line.BatchNo); err != nil {
			return err
		}
	}
	return nil
}

func (r *repackRepository) GetByName(ctx context.Context, name string) (*domain.ChangeInventory, error) {
	c := &domain.ChangeInventory{}
	query := `SELECT name, company, posting_date, posting_time, warehouse, source_item, source_item_name, source_qty, source_serial_no, source_batch_no, total_target_qty, remarks, docstatus
	          FROM change_inventories WHERE name = $1`
	err := r.q.QueryRowContext(ctx, query, name).Scan(
		&c.Name, &c.Company, &c.PostingDate, &c.PostingTime, &c.Warehouse,
		&c.SourceItem, &c.SourceItemName, &c.SourceQty, &c.SourceSerialNo, &c.SourceBatchNo,
		&c.TotalTargetQty, &c.Remarks, &c.DocStatus)
	if err != nil {
		return nil, err
	}

	lineQuery := `SELECT name, parent_name, item_code, item_name, description, qty, serial_no, batch_no
	              FROM change_inventory_lines WHERE parent_name = $1 ORDER BY name`
	rows, err := r.q.QueryContext(ctx, lineQuery, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var line domain.ChangeInventoryLine
		if err := rows.Scan(&line.Name, &line.Parent, &line.ItemCode, &line.ItemName,
			&line.Description, &line.Qty, &line.SerialNo, &line.BatchNo); err != nil {
			return nil, err
		}
		c.Targets = append(c.Targets, line)
	}
	return c, rows.Err()
}

func (r *repackRepository) Update(ctx context.Context, c *domain.ChangeInventory) error {
	query := `UPDATE change_inventories SET docstatus=$1, source_item_name=$2, total_target_qty=$3 WHERE name=$4`
	_, err := r.q.ExecContext(ctx, query, c.DocStatus, c.SourceItemName, c.TotalTargetQty, c.Name)
	if err != nil {
		return err
	}
	for i := range c.Targets {
		line := &c.Targets[i]
		lineQuery := `UPDATE change_inventory_lines SET item_name=$1, description=$2 WHERE name=$3`
		if _, err := r.q.ExecContext(ctx, lineQuery, line.ItemName, line.Description, line.Name); err != nil {
			return err
		}
	}
	return nil
}
