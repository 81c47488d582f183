package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type deliveryService struct {
	store repository.Store
}

func NewDeliveryService(store repository.Store) DeliveryService {
	return &deliveryService{store: store}
}

// CreateDeliveryFromOrder drafts a delivery carrying every order line with
// quantity still to deliver.
func (s *deliveryService) CreateDeliveryFromOrder(ctx context.Context, order string, postingDate time.Time) (*domain.RentalDelivery, error) {
	var d *domain.RentalDelivery
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		so, err := st.Orders().GetByName(ctx, order)
		if err != nil {
			return err
		}
		if so.DocStatus != domain.DocStatusSubmitted {
			return domain.Validationf("rental order %s is not submitted", order)
		}
		defaults, err := defaultsFor(ctx, st, so.Company)
		if err != nil {
			return err
		}

		d = &domain.RentalDelivery{
			Name:            newDocName("RD"),
			Company:         so.Company,
			Order:           so.Name,
			PostingDate:     postingDate,
			PostingTime:     postingTimeOf(postingDate),
			SourceWarehouse: defaults.SourceWarehouse,
			RentedWarehouse: defaults.RentedWarehouse,
			DocStatus:       domain.DocStatusDraft,
			Status:          domain.DeliveryStatusDraft,
		}
		for i := range so.Lines {
			ol := &so.Lines[i]
			remaining := ol.RemainingQty()
			if !remaining.IsPositive() {
				continue
			}
			d.Lines = append(d.Lines, domain.RentalDeliveryLine{
				Name:        newDocName("RDL"),
				ItemCode:    ol.ItemCode,
				ItemName:    ol.ItemName,
				Qty:         remaining,
				Rate:        ol.Rate,
				Order:       so.Name,
				OrderLine:   ol.Name,
				ReturnState: domain.ReturnStateNone,
			})
		}
		if len(d.Lines) == 0 {
			return domain.Validationf("rental order %s has nothing left to deliver", order)
		}
		if err := validateDelivery(ctx, st, d); err != nil {
			return err
		}
		return st.Deliveries().Create(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *deliveryService) CreateDelivery(ctx context.Context, d *domain.RentalDelivery) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		if d.Name == "" {
			d.Name = newDocName("RD")
		}
		d.DocStatus = domain.DocStatusDraft
		d.Status = domain.DeliveryStatusDraft
		for i := range d.Lines {
			if d.Lines[i].Name == "" {
				d.Lines[i].Name = newDocName("RDL")
			}
		}
		if err := validateDelivery(ctx, st, d); err != nil {
			return err
		}
		return st.Deliveries().Create(ctx, d)
	})
}

// validateDelivery enforces the delivery rules and fills the derived
// fields: line amounts, pending quantities, document totals and default
// warehouses. Ceilings are checked against the ledger so a draft can never
// promise more than the order has left.
func validateDelivery(ctx context.Context, st repository.Store, d *domain.RentalDelivery) error {
	if d.Order == "" {
		return domain.Validationf("rental order reference is required")
	}
	if len(d.Lines) == 0 {
		return domain.Validationf("delivery has no lines")
	}

	so, err := st.Orders().GetByName(ctx, d.Order)
	if err != nil {
		return err
	}
	if so.DocStatus != domain.DocStatusSubmitted {
		return domain.Validationf("rental order %s is not submitted", d.Order)
	}
	if d.Company == "" {
		d.Company = so.Company
	}
	if d.SourceWarehouse == "" || d.RentedWarehouse == "" {
		defaults, err := defaultsFor(ctx, st, d.Company)
		if err != nil {
			return err
		}
		if d.SourceWarehouse == "" {
			d.SourceWarehouse = defaults.SourceWarehouse
		}
		if d.RentedWarehouse == "" {
			d.RentedWarehouse = defaults.RentedWarehouse
		}
	}

	orderLines := make(map[string]*domain.RentalOrderLine, len(so.Lines))
	for i := range so.Lines {
		orderLines[so.Lines[i].Name] = &so.Lines[i]
	}

	totalQty := decimal.Zero
	grandTotal := decimal.Zero
	for i := range d.Lines {
		line := &d.Lines[i]
		if line.ItemCode == "" {
			return domain.Validationf("row %d: item code is required", i+1)
		}
		if !line.Qty.IsPositive() {
			return domain.Validationf("row %d: quantity must be greater than zero", i+1)
		}
		if !line.Rate.IsPositive() {
			return domain.Validationf("row %d: rate must be greater than zero", i+1)
		}
		if line.Order == "" {
			line.Order = d.Order
		}
		if line.Order != d.Order {
			return domain.Validationf("row %d: all lines must belong to rental order %s", i+1, d.Order)
		}
		ol, ok := orderLines[line.OrderLine]
		if !ok {
			return domain.Validationf("row %d: order line %s does not belong to %s", i+1, line.OrderLine, d.Order)
		}
		if ol.ItemCode != line.ItemCode {
			return domain.Validationf("row %d: item %s does not match order line item %s", i+1, line.ItemCode, ol.ItemCode)
		}
		delivered, err := st.Ledger().TotalDelivered(ctx, d.Order, line.OrderLine)
		if err != nil {
			return err
		}
		remaining := ol.Qty.Sub(delivered)
		if line.Qty.GreaterThan(remaining) {
			return domain.Validationf("row %d: cannot deliver %s of %s, only %s remaining on the order",
				i+1, line.Qty, line.ItemCode, remaining)
		}
		if item, err := st.Catalog().GetItem(ctx, line.ItemCode); err == nil && line.ItemName == "" {
			line.ItemName = item.Name
		}

		line.Amount = line.Qty.Mul(line.Rate).Round(2)
		line.PendingQty = line.Qty
		line.ReturnedQty = decimal.Zero
		line.ReturnState = domain.ReturnStateNone
		totalQty = totalQty.Add(line.Qty)
		grandTotal = grandTotal.Add(line.Amount)
	}
	d.TotalQty = totalQty
	d.GrandTotal = grandTotal.Round(2)
	return nil
}

func (s *deliveryService) GetDelivery(ctx context.Context, name string) (*domain.RentalDelivery, error) {
	return s.store.Deliveries().GetByName(ctx, name)
}

func (s *deliveryService) SubmitDelivery(ctx context.Context, name string) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		d, err := st.Deliveries().GetByName(ctx, name)
		if err != nil {
			return err
		}
		if d.DocStatus != domain.DocStatusDraft {
			return domain.Validationf("rental delivery %s is not a draft", name)
		}
		if err := validateDelivery(ctx, st, d); err != nil {
			return err
		}

		d.DocStatus = domain.DocStatusSubmitted
		d.Status = domain.DeliveryStatusDelivered
		if err := st.Deliveries().Update(ctx, d); err != nil {
			return err
		}

		entry := &domain.StockEntry{
			Company:        d.Company,
			Type:           domain.StockEntryTypeTransfer,
			PostingDate:    d.PostingDate,
			PostingTime:    d.PostingTime,
			RentalDelivery: d.Name,
			Remarks:        "Rental delivery " + d.Name,
		}
		for i := range d.Lines {
			line := &d.Lines[i]
			entry.Lines = append(entry.Lines, domain.StockEntryLine{
				ItemCode:        line.ItemCode,
				SourceWarehouse: d.SourceWarehouse,
				TargetWarehouse: d.RentedWarehouse,
				Qty:             line.Qty,
				BasicRate:       line.Rate,
			})
		}
		if err := submitStockEntry(ctx, st, entry); err != nil {
			return err
		}
		return reconcileOrder(ctx, st, d.Order)
	})
}

func (s *deliveryService) CancelDelivery(ctx context.Context, name string) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		d, err := st.Deliveries().GetByName(ctx, name)
		if err != nil {
			return err
		}
		if d.DocStatus != domain.DocStatusSubmitted {
			return domain.Validationf("rental delivery %s is not submitted", name)
		}
		for i := range d.Lines {
			if d.Lines[i].ReturnedQty.IsPositive() {
				return domain.Validationf("cannot cancel %s: returns exist against it", name)
			}
		}

		d.DocStatus = domain.DocStatusCancelled
		d.Status = domain.DeliveryStatusCancelled
		if err := st.Deliveries().Update(ctx, d); err != nil {
			return err
		}
		if err := cancelStockEntriesFor(ctx, st, repository.StockRefDelivery, d.Name); err != nil {
			return err
		}
		return reconcileOrder(ctx, st, d.Order)
	})
}
