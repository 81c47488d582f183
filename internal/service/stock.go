package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type stockService struct {
	store repository.Store
}

func NewStockService(store repository.Store) StockService {
	return &stockService{store: store}
}

func (s *stockService) Balance(ctx context.Context, itemCode, warehouse string, asOf time.Time) (decimal.Decimal, error) {
	if itemCode == "" {
		return decimal.Zero, domain.Validationf("item code is required")
	}
	if warehouse == "" {
		return decimal.Zero, domain.Validationf("warehouse is required")
	}
	return s.store.Stock().Balance(ctx, itemCode, warehouse, asOf, "23:59:59")
}

// submitStockEntry persists a companion stock entry as submitted and posts
// its quantity movements to the stock ledger. Outgoing lines are checked
// against the on-hand balance at posting time first, so a submit can never
// drive a warehouse negative.
func submitStockEntry(ctx context.Context, st repository.Store, e *domain.StockEntry) error {
	if e.Name == "" {
		e.Name = newDocName("SE")
	}
	e.DocStatus = domain.DocStatusSubmitted

	type slot struct{ item, warehouse string }
	required := make(map[slot]decimal.Decimal)
	for i := range e.Lines {
		line := &e.Lines[i]
		if line.Name == "" {
			line.Name = newDocName("SEL")
		}
		line.Parent = e.Name
		if line.SourceWarehouse != "" {
			key := slot{line.ItemCode, line.SourceWarehouse}
			required[key] = required[key].Add(line.Qty)
		}
	}
	for key, qty := range required {
		onHand, err := st.Stock().Balance(ctx, key.item, key.warehouse, e.PostingDate, e.PostingTime)
		if err != nil {
			return err
		}
		if onHand.LessThan(qty) {
			return domain.Validationf("insufficient stock of %s in %s: %s available, %s required",
				key.item, key.warehouse, onHand, qty)
		}
	}

	if err := st.Stock().CreateEntry(ctx, e); err != nil {
		return err
	}

	var ledger []domain.StockLedgerEntry
	for i := range e.Lines {
		line := &e.Lines[i]
		if line.SourceWarehouse != "" {
			ledger = append(ledger, domain.StockLedgerEntry{
				ItemCode:    line.ItemCode,
				Warehouse:   line.SourceWarehouse,
				PostingDate: e.PostingDate,
				PostingTime: e.PostingTime,
				Qty:         line.Qty.Neg(),
				StockEntry:  e.Name,
			})
		}
		if line.TargetWarehouse != "" {
			ledger = append(ledger, domain.StockLedgerEntry{
				ItemCode:    line.ItemCode,
				Warehouse:   line.TargetWarehouse,
				PostingDate: e.PostingDate,
				PostingTime: e.PostingTime,
				Qty:         line.Qty,
				StockEntry:  e.Name,
			})
		}
	}
	return st.Stock().InsertLedgerEntries(ctx, ledger)
}

// cancelStockEntriesFor cancels and deletes every stock entry the given
// document created, reversing their ledger postings.
func cancelStockEntriesFor(ctx context.Context, st repository.Store, ref repository.StockReference, doc string) error {
	entries, err := st.Stock().ListEntriesByReference(ctx, ref, doc)
	if err != nil {
		return err
	}
	for i := range entries {
		e := &entries[i]
		if err := st.Stock().DeleteLedgerEntriesForEntry(ctx, e.Name); err != nil {
			return err
		}
		if err := st.Stock().UpdateEntryStatus(ctx, e.Name, domain.DocStatusCancelled); err != nil {
			return err
		}
		if err := st.Stock().DeleteEntry(ctx, e.Name); err != nil {
			return err
		}
	}
	return nil
}
