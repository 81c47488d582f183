package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type returnService struct {
	store repository.Store
}

func NewReturnService(store repository.Store) ReturnService {
	return &returnService{store: store}
}

// CreateReturnFromDelivery drafts a return for everything the delivery
// still has out, prefilled as a plain return. The caller moves quantities
// into the maintenance or damaged columns before submitting.
func (s *returnService) CreateReturnFromDelivery(ctx context.Context, delivery string, postingDate time.Time) (*domain.RentalReturn, error) {
	var r *domain.RentalReturn
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		d, err := st.Deliveries().GetByName(ctx, delivery)
		if err != nil {
			return err
		}
		if d.DocStatus != domain.DocStatusSubmitted {
			return domain.Validationf("rental delivery %s is not submitted", delivery)
		}
		defaults, err := defaultsFor(ctx, st, d.Company)
		if err != nil {
			return err
		}

		r = &domain.RentalReturn{
			Name:            newDocName("RR"),
			Company:         d.Company,
			Order:           d.Order,
			PostingDate:     postingDate,
			PostingTime:     postingTimeOf(postingDate),
			SourceWarehouse: defaults.RentedWarehouse,
			TargetWarehouse: defaults.SourceWarehouse,
			DocStatus:       domain.DocStatusDraft,
			Status:          domain.ReturnStatusDraft,
		}
		for i := range d.Lines {
			dl := &d.Lines[i]
			if !dl.PendingQty.IsPositive() {
				continue
			}
			line := domain.RentalReturnLine{
				Name:         newDocName("RRL"),
				ItemCode:     dl.ItemCode,
				ItemName:     dl.ItemName,
				DeliveredQty: dl.PendingQty,
				ReturnQty:    dl.PendingQty,
				Rate:         dl.Rate,
				Order:        dl.Order,
				OrderLine:    dl.OrderLine,
				Delivery:     d.Name,
				DeliveryLine: dl.Name,
			}
			if item, err := st.Catalog().GetItem(ctx, dl.ItemCode); err == nil {
				line.MaintenanceRate = item.MaintenanceCharge
				line.DamagedRate = item.DamageCharge
			}
			r.Lines = append(r.Lines, line)
		}
		if len(r.Lines) == 0 {
			return domain.Validationf("rental delivery %s has nothing left to return", delivery)
		}
		if err := validateReturn(ctx, st, r); err != nil {
			return err
		}
		return st.Returns().Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *returnService) CreateReturn(ctx context.Context, r *domain.RentalReturn) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		if r.Name == "" {
			r.Name = newDocName("RR")
		}
		r.DocStatus = domain.DocStatusDraft
		r.Status = domain.ReturnStatusDraft
		for i := range r.Lines {
			if r.Lines[i].Name == "" {
				r.Lines[i].Name = newDocName("RRL")
			}
		}
		if err := validateReturn(ctx, st, r); err != nil {
			return err
		}
		return st.Returns().Create(ctx, r)
	})
}

// validateReturn enforces the return split rules. Each line's three-way
// split may never exceed what its delivery line still has out, counting
// returns already submitted against that same line.
func validateReturn(ctx context.Context, st repository.Store, r *domain.RentalReturn) error {
	if r.Order == "" {
		return domain.Validationf("rental order reference is required")
	}
	if len(r.Lines) == 0 {
		return domain.Validationf("return has no lines")
	}
	if r.SourceWarehouse == "" || r.TargetWarehouse == "" {
		defaults, err := defaultsFor(ctx, st, r.Company)
		if err != nil {
			return err
		}
		if r.SourceWarehouse == "" {
			r.SourceWarehouse = defaults.RentedWarehouse
		}
		if r.TargetWarehouse == "" {
			r.TargetWarehouse = defaults.SourceWarehouse
		}
	}

	totalReturn := decimal.Zero
	totalAmount := decimal.Zero
	totalMaintenance := decimal.Zero
	totalMaintenanceAmount := decimal.Zero
	totalDamaged := decimal.Zero
	totalDamagedAmount := decimal.Zero

	for i := range r.Lines {
		line := &r.Lines[i]
		if line.ItemCode == "" {
			return domain.Validationf("row %d: item code is required", i+1)
		}
		if line.Delivery == "" || line.DeliveryLine == "" {
			return domain.Validationf("row %d: delivery reference is required", i+1)
		}
		if line.Order == "" {
			line.Order = r.Order
		}
		if line.Order != r.Order {
			return domain.Validationf("row %d: all lines must belong to rental order %s", i+1, r.Order)
		}
		if line.ReturnQty.IsNegative() || line.MaintenanceQty.IsNegative() || line.DamagedQty.IsNegative() {
			return domain.Validationf("row %d: quantities cannot be negative", i+1)
		}
		total := line.TotalQty()
		if !total.IsPositive() {
			return domain.Validationf("row %d: nothing to return", i+1)
		}

		d, err := st.Deliveries().GetByName(ctx, line.Delivery)
		if err != nil {
			return err
		}
		if d.DocStatus != domain.DocStatusSubmitted {
			return domain.Validationf("row %d: rental delivery %s is not submitted", i+1, line.Delivery)
		}
		var dl *domain.RentalDeliveryLine
		for j := range d.Lines {
			if d.Lines[j].Name == line.DeliveryLine {
				dl = &d.Lines[j]
				break
			}
		}
		if dl == nil {
			return domain.Validationf("row %d: delivery line %s does not belong to %s", i+1, line.DeliveryLine, line.Delivery)
		}
		if dl.ItemCode != line.ItemCode {
			return domain.Validationf("row %d: item %s does not match delivery line item %s", i+1, line.ItemCode, dl.ItemCode)
		}
		alreadyReturned, err := st.Ledger().TotalReturned(ctx, line.Order, line.OrderLine, line.Delivery, line.DeliveryLine)
		if err != nil {
			return err
		}
		returnable := dl.Qty.Sub(alreadyReturned)
		if total.GreaterThan(returnable) {
			return domain.Validationf("row %d: cannot return %s of %s, only %s outstanding on delivery %s",
				i+1, total, line.ItemCode, returnable, line.Delivery)
		}
		line.DeliveredQty = dl.Qty

		line.Amount = line.ReturnQty.Mul(line.Rate).Round(2)
		line.MaintenanceAmount = line.MaintenanceQty.Mul(line.MaintenanceRate).Round(2)
		line.DamagedAmount = line.DamagedQty.Mul(line.DamagedRate).Round(2)

		totalReturn = totalReturn.Add(line.ReturnQty)
		totalAmount = totalAmount.Add(line.Amount)
		totalMaintenance = totalMaintenance.Add(line.MaintenanceQty)
		totalMaintenanceAmount = totalMaintenanceAmount.Add(line.MaintenanceAmount)
		totalDamaged = totalDamaged.Add(line.DamagedQty)
		totalDamagedAmount = totalDamagedAmount.Add(line.DamagedAmount)
	}

	r.TotalReturnQty = totalReturn
	r.TotalAmount = totalAmount.Round(2)
	r.TotalMaintenanceQty = totalMaintenance
	r.TotalMaintenanceAmount = totalMaintenanceAmount.Round(2)
	r.TotalDamagedQty = totalDamaged
	r.TotalDamagedAmount = totalDamagedAmount.Round(2)
	r.GrandTotal = r.TotalAmount.Add(r.TotalMaintenanceAmount).Add(r.TotalDamagedAmount).Round(2)
	return nil
}

func (s *returnService) GetReturn(ctx context.Context, name string) (*domain.RentalReturn, error) {
	return s.store.Returns().GetByName(ctx, name)
}

func (s *returnService) SubmitReturn(ctx context.Context, name string) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		r, err := st.Returns().GetByName(ctx, name)
		if err != nil {
			return err
		}
		if r.DocStatus != domain.DocStatusDraft {
			return domain.Validationf("rental return %s is not a draft", name)
		}
		if err := validateReturn(ctx, st, r); err != nil {
			return err
		}

		r.DocStatus = domain.DocStatusSubmitted
		r.Status = domain.ReturnStatusReturned
		if err := st.Returns().Update(ctx, r); err != nil {
			return err
		}

		defaults, err := defaultsFor(ctx, st, r.Company)
		if err != nil {
			return err
		}
		if err := postReturnStockEntries(ctx, st, r, defaults); err != nil {
			return err
		}
		if err := applyReturnToDeliveries(ctx, st, r, false); err != nil {
			return err
		}
		return reconcileOrder(ctx, st, r.Order)
	})
}

// postReturnStockEntries moves good and maintenance quantity back out of
// the rented warehouse by transfer, and writes damaged quantity off with a
// material issue.
func postReturnStockEntries(ctx context.Context, st repository.Store, r *domain.RentalReturn, defaults *domain.RentalDefaults) error {
	transfer := &domain.StockEntry{
		Company:      r.Company,
		Type:         domain.StockEntryTypeTransfer,
		PostingDate:  r.PostingDate,
		PostingTime:  r.PostingTime,
		RentalReturn: r.Name,
		Remarks:      "Rental return " + r.Name,
	}
	issue := &domain.StockEntry{
		Company:      r.Company,
		Type:         domain.StockEntryTypeIssue,
		PostingDate:  r.PostingDate,
		PostingTime:  r.PostingTime,
		RentalReturn: r.Name,
		Remarks:      "Damaged items written off against rental return " + r.Name,
	}
	for i := range r.Lines {
		line := &r.Lines[i]
		if line.ReturnQty.IsPositive() {
			transfer.Lines = append(transfer.Lines, domain.StockEntryLine{
				ItemCode:        line.ItemCode,
				SourceWarehouse: r.SourceWarehouse,
				TargetWarehouse: r.TargetWarehouse,
				Qty:             line.ReturnQty,
				BasicRate:       line.Rate,
			})
		}
		if line.MaintenanceQty.IsPositive() {
			transfer.Lines = append(transfer.Lines, domain.StockEntryLine{
				ItemCode:        line.ItemCode,
				SourceWarehouse: r.SourceWarehouse,
				TargetWarehouse: defaults.MaintenanceWarehouse,
				Qty:             line.MaintenanceQty,
				BasicRate:       line.MaintenanceRate,
			})
		}
		if line.DamagedQty.IsPositive() {
			issue.Lines = append(issue.Lines, domain.StockEntryLine{
				ItemCode:        line.ItemCode,
				SourceWarehouse: r.SourceWarehouse,
				Qty:             line.DamagedQty,
				BasicRate:       line.DamagedRate,
			})
		}
	}
	if len(transfer.Lines) > 0 {
		if err := submitStockEntry(ctx, st, transfer); err != nil {
			return err
		}
	}
	if len(issue.Lines) > 0 {
		if err := submitStockEntry(ctx, st, issue); err != nil {
			return err
		}
	}
	return nil
}

// applyReturnToDeliveries pushes the return's quantities onto every
// referenced delivery line and rolls the delivery statuses up. With
// reverse set the same quantities are taken back off, which is how cancel
// restores the pre-return state exactly.
func applyReturnToDeliveries(ctx context.Context, st repository.Store, r *domain.RentalReturn, reverse bool) error {
	touched := make(map[string]bool)
	for i := range r.Lines {
		line := &r.Lines[i]
		d, err := st.Deliveries().GetByName(ctx, line.Delivery)
		if err != nil {
			return err
		}
		var dl *domain.RentalDeliveryLine
		for j := range d.Lines {
			if d.Lines[j].Name == line.DeliveryLine {
				dl = &d.Lines[j]
				break
			}
		}
		if dl == nil {
			return domain.Validationf("delivery line %s does not belong to %s", line.DeliveryLine, line.Delivery)
		}
		qty := line.TotalQty()
		if reverse {
			qty = qty.Neg()
		}
		dl.ReturnedQty = dl.ReturnedQty.Add(qty)
		dl.PendingQty = dl.Qty.Sub(dl.ReturnedQty)
		switch {
		case !dl.ReturnedQty.IsPositive():
			dl.ReturnState = domain.ReturnStateNone
		case dl.PendingQty.IsPositive():
			dl.ReturnState = domain.ReturnStatePartial
		default:
			dl.ReturnState = domain.ReturnStateFull
		}
		if err := st.Deliveries().UpdateLine(ctx, dl); err != nil {
			return err
		}
		touched[d.Name] = true
	}

	for name := range touched {
		d, err := st.Deliveries().GetByName(ctx, name)
		if err != nil {
			return err
		}
		status := domain.DeliveryStatusDelivered
		fully := true
		partly := false
		for j := range d.Lines {
			if d.Lines[j].ReturnState != domain.ReturnStateFull {
				fully = false
			}
			if d.Lines[j].ReturnedQty.IsPositive() {
				partly = true
			}
		}
		if fully {
			status = domain.DeliveryStatusReturned
		} else if partly {
			status = domain.DeliveryStatusPartiallyReturned
		}
		d.Status = status
		if err := st.Deliveries().Update(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (s *returnService) CancelReturn(ctx context.Context, name string) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		r, err := st.Returns().GetByName(ctx, name)
		if err != nil {
			return err
		}
		if r.DocStatus != domain.DocStatusSubmitted {
			return domain.Validationf("rental return %s is not submitted", name)
		}

		r.DocStatus = domain.DocStatusCancelled
		r.Status = domain.ReturnStatusCancelled
		r.SecurityDepositReturned = decimal.Zero
		if err := st.Returns().Update(ctx, r); err != nil {
			return err
		}
		if err := cancelStockEntriesFor(ctx, st, repository.StockRefReturn, r.Name); err != nil {
			return err
		}
		if err := applyReturnToDeliveries(ctx, st, r, true); err != nil {
			return err
		}
		return reconcileOrder(ctx, st, r.Order)
	})
}
