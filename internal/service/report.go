package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

// ReconciliationReport is the per-order quantity reconciliation table.
// Besides the fixed item and total columns it grows one column per
// submitted delivery and return, ordered by posting date, so the history
// of an order reads left to right.
type ReconciliationReport struct {
	Order           string                `json:"order"`
	Customer        string                `json:"customer"`
	TransactionDate time.Time             `json:"transaction_date"`
	Status          domain.OrderStatus    `json:"status"`
	Columns         []ReportColumn        `json:"columns"`
	Rows            []map[string]any      `json:"rows"`
}

type ReportColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type reportService struct {
	store repository.Store
}

func NewReportService(store repository.Store) ReportService {
	return &reportService{store: store}
}

func (s *reportService) RentalReconciliation(ctx context.Context, order string) (*ReconciliationReport, error) {
	so, err := s.store.Orders().GetByName(ctx, order)
	if err != nil {
		return nil, err
	}
	deliveries, err := s.store.Deliveries().ListByOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	returns, err := s.store.Returns().ListByOrderSince(ctx, order, nil)
	if err != nil {
		return nil, err
	}

	type event struct {
		key, label  string
		postingDate time.Time
		// per order line quantity moved by this document
		byOrderLine map[string]decimal.Decimal
	}
	var events []event
	for i := range deliveries {
		d := &deliveries[i]
		if d.DocStatus != domain.DocStatusSubmitted {
			continue
		}
		ev := event{
			key:         "delivered_" + d.Name,
			label:       fmt.Sprintf("Delivered %s (%s)", d.Name, d.PostingDate.Format("2006-01-02")),
			postingDate: d.PostingDate,
			byOrderLine: map[string]decimal.Decimal{},
		}
		for j := range d.Lines {
			dl := &d.Lines[j]
			ev.byOrderLine[dl.OrderLine] = ev.byOrderLine[dl.OrderLine].Add(dl.Qty)
		}
		events = append(events, ev)
	}
	for i := range returns {
		r := &returns[i]
		if r.DocStatus != domain.DocStatusSubmitted {
			continue
		}
		ev := event{
			key:         "returned_" + r.Name,
			label:       fmt.Sprintf("Returned %s (%s)", r.Name, r.PostingDate.Format("2006-01-02")),
			postingDate: r.PostingDate,
			byOrderLine: map[string]decimal.Decimal{},
		}
		for j := range r.Lines {
			rl := &r.Lines[j]
			ev.byOrderLine[rl.OrderLine] = ev.byOrderLine[rl.OrderLine].Add(rl.TotalQty())
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].postingDate.Before(events[j].postingDate)
	})

	report := &ReconciliationReport{
		Order:           so.Name,
		Customer:        so.Customer,
		TransactionDate: so.TransactionDate,
		Status:          so.Status,
		Columns: []ReportColumn{
			{Key: "item_code", Label: "Item Code"},
			{Key: "item_name", Label: "Item Name"},
			{Key: "ordered_qty", Label: "Ordered Qty"},
		},
	}
	for _, ev := range events {
		report.Columns = append(report.Columns, ReportColumn{Key: ev.key, Label: ev.label})
	}
	report.Columns = append(report.Columns,
		ReportColumn{Key: "delivered_qty", Label: "Total Delivered"},
		ReportColumn{Key: "returned_qty", Label: "Total Returned"},
		ReportColumn{Key: "balance_qty", Label: "Balance With Customer"},
	)

	totals := map[string]decimal.Decimal{}
	for i := range so.Lines {
		ol := &so.Lines[i]
		row := map[string]any{
			"item_code":     ol.ItemCode,
			"item_name":     ol.ItemName,
			"ordered_qty":   ol.Qty,
			"delivered_qty": ol.DeliveredQty,
			"returned_qty":  ol.ReturnedQty,
			"balance_qty":   ol.DeliveredQty.Sub(ol.ReturnedQty),
		}
		for _, ev := range events {
			row[ev.key] = ev.byOrderLine[ol.Name]
			totals[ev.key] = totals[ev.key].Add(ev.byOrderLine[ol.Name])
		}
		totals["ordered_qty"] = totals["ordered_qty"].Add(ol.Qty)
		totals["delivered_qty"] = totals["delivered_qty"].Add(ol.DeliveredQty)
		totals["returned_qty"] = totals["returned_qty"].Add(ol.ReturnedQty)
		totals["balance_qty"] = totals["balance_qty"].Add(ol.DeliveredQty.Sub(ol.ReturnedQty))
		report.Rows = append(report.Rows, row)
	}

	totalRow := map[string]any{"item_code": "Total", "item_name": ""}
	for key, qty := range totals {
		totalRow[key] = qty
	}
	report.Rows = append(report.Rows, totalRow)

	return report, nil
}
