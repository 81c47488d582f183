package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type hiredItemsService struct {
	store repository.Store
}

func NewHiredItemsService(store repository.Store) HiredItemsService {
	return &hiredItemsService{store: store}
}

func (s *hiredItemsService) CreateHiredItems(ctx context.Context, h *domain.HiredItems) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		if h.Name == "" {
			h.Name = newDocName("HI")
		}
		h.DocStatus = domain.DocStatusDraft
		h.Status = domain.HiredItemsStatusDraft
		for i := range h.Lines {
			if h.Lines[i].Name == "" {
				h.Lines[i].Name = newDocName("HIL")
			}
			h.Lines[i].Parent = h.Name
			h.Lines[i].Idx = i + 1
		}
		if err := validateHiredItems(ctx, st, h); err != nil {
			return err
		}
		return st.HiredItems().Create(ctx, h)
	})
}

func validateHiredItems(ctx context.Context, st repository.Store, h *domain.HiredItems) error {
	if h.Supplier == "" {
		return domain.Validationf("supplier is required")
	}
	if len(h.Lines) == 0 {
		return domain.Validationf("document has no lines")
	}

	var original *domain.HiredItems
	if h.IsReturn {
		if h.ReturnAgainst == "" {
			return domain.Validationf("return against reference is required")
		}
		var err error
		original, err = st.HiredItems().GetByName(ctx, h.ReturnAgainst)
		if err != nil {
			return err
		}
		if original.DocStatus != domain.DocStatusSubmitted {
			return domain.Validationf("hired items %s is not submitted", h.ReturnAgainst)
		}
		if original.IsReturn {
			return domain.Validationf("%s is itself a return document", h.ReturnAgainst)
		}
		if original.Supplier != h.Supplier {
			return domain.Validationf("supplier must match %s", h.ReturnAgainst)
		}
	}

	totalQty := decimal.Zero
	totalAmount := decimal.Zero
	for i := range h.Lines {
		line := &h.Lines[i]
		if line.ItemCode == "" {
			return domain.Validationf("row %d: item code is required", i+1)
		}
		if !line.Qty.IsPositive() {
			return domain.Validationf("row %d: quantity must be greater than zero", i+1)
		}
		if line.Rate.IsNegative() {
			return domain.Validationf("row %d: rate cannot be negative", i+1)
		}
		if item, err := st.Catalog().GetItem(ctx, line.ItemCode); err == nil {
			if line.ItemName == "" {
				line.ItemName = item.Name
			}
			if line.Description == "" {
				line.Description = item.Description
			}
		}
		if h.IsReturn {
			ol := lineByName(original, line.HiredItemLine)
			if ol == nil {
				return domain.Validationf("row %d: item %s was not hired under %s", i+1, line.ItemCode, h.ReturnAgainst)
			}
			if ol.ItemCode != line.ItemCode {
				return domain.Validationf("row %d: item %s does not match hired line item %s", i+1, line.ItemCode, ol.ItemCode)
			}
			available := ol.AvailableQty()
			if line.Qty.GreaterThan(available) {
				return domain.Validationf("row %d: cannot return %s of %s, only %s outstanding on %s",
					i+1, line.Qty, line.ItemCode, available, h.ReturnAgainst)
			}
		}
		line.Amount = line.Qty.Mul(line.Rate).Round(2)
		totalQty = totalQty.Add(line.Qty)
		totalAmount = totalAmount.Add(line.Amount)
	}
	h.TotalQty = totalQty
	h.TotalAmount = totalAmount.Round(2)
	return nil
}

func lineByName(h *domain.HiredItems, name string) *domain.HiredItemsLine {
	for i := range h.Lines {
		if h.Lines[i].Name == name {
			return &h.Lines[i]
		}
	}
	return nil
}

func (s *hiredItemsService) GetHiredItems(ctx context.Context, name string) (*domain.HiredItems, error) {
	return s.store.HiredItems().GetByName(ctx, name)
}

func (s *hiredItemsService) SubmitHiredItems(ctx context.Context, name string) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		h, err := st.HiredItems().GetByName(ctx, name)
		if err != nil {
			return err
		}
		if h.DocStatus != domain.DocStatusDraft {
			return domain.Validationf("hired items %s is not a draft", name)
		}
		if err := validateHiredItems(ctx, st, h); err != nil {
			return err
		}
		defaults, err := defaultsFor(ctx, st, h.Company)
		if err != nil {
			return err
		}

		h.DocStatus = domain.DocStatusSubmitted
		h.Status = domain.HiredItemsStatusSubmitted
		if h.IsReturn {
			h.Status = domain.HiredItemsStatusReturned
		}
		if err := st.HiredItems().Update(ctx, h); err != nil {
			return err
		}

		entryType := domain.StockEntryTypeReceipt
		if h.IsReturn {
			entryType = domain.StockEntryTypeIssue
		}
		entry := &domain.StockEntry{
			Company:     h.Company,
			Type:        entryType,
			PostingDate: h.PostingDate,
			PostingTime: postingTimeOf(h.PostingDate),
			HiredItems:  h.Name,
			Remarks:     "Hired items " + h.Name,
		}
		for i := range h.Lines {
			line := &h.Lines[i]
			sl := domain.StockEntryLine{
				ItemCode:  line.ItemCode,
				Qty:       line.Qty,
				BasicRate: line.Rate,
			}
			if h.IsReturn {
				sl.SourceWarehouse = defaults.SourceWarehouse
			} else {
				sl.TargetWarehouse = defaults.SourceWarehouse
			}
			entry.Lines = append(entry.Lines, sl)
		}
		if err := submitStockEntry(ctx, st, entry); err != nil {
			return err
		}

		if h.IsReturn {
			return applySupplierReturn(ctx, st, h, false)
		}
		return nil
	})
}

// applySupplierReturn moves a return's quantities onto the original
// receipt's lines and rolls its status up. With reverse set the
// quantities come back off, restoring the receipt when the return is
// cancelled.
func applySupplierReturn(ctx context.Context, st repository.Store, h *domain.HiredItems, reverse bool) error {
	original, err := st.HiredItems().GetByName(ctx, h.ReturnAgainst)
	if err != nil {
		return err
	}
	for i := range h.Lines {
		line := &h.Lines[i]
		ol := lineByName(original, line.HiredItemLine)
		if ol == nil {
			return domain.Validationf("item %s was not hired under %s", line.ItemCode, h.ReturnAgainst)
		}
		qty := line.Qty
		if reverse {
			qty = qty.Neg()
		}
		ol.ReturnedQty = ol.ReturnedQty.Add(qty)
		if ol.ReturnedQty.IsNegative() || ol.ReturnedQty.GreaterThan(ol.Qty) {
			return domain.Validationf("item %s: returned quantity %s is outside 0..%s on %s",
				line.ItemCode, ol.ReturnedQty, ol.Qty, h.ReturnAgainst)
		}
		if err := st.HiredItems().UpdateLineReturnedQty(ctx, ol.Name, ol.ReturnedQty); err != nil {
			return err
		}
	}

	fully := true
	partly := false
	for i := range original.Lines {
		if original.Lines[i].AvailableQty().IsPositive() {
			fully = false
		}
		if original.Lines[i].ReturnedQty.IsPositive() {
			partly = true
		}
	}
	switch {
	case fully:
		original.Status = domain.HiredItemsStatusReturned
	case partly:
		original.Status = domain.HiredItemsStatusPartiallyReturned
	default:
		original.Status = domain.HiredItemsStatusSubmitted
	}
	return st.HiredItems().Update(ctx, original)
}

func (s *hiredItemsService) CancelHiredItems(ctx context.Context, name string) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		h, err := st.HiredItems().GetByName(ctx, name)
		if err != nil {
			return err
		}
		if h.DocStatus != domain.DocStatusSubmitted {
			return domain.Validationf("hired items %s is not submitted", name)
		}
		if !h.IsReturn {
			for i := range h.Lines {
				if h.Lines[i].ReturnedQty.IsPositive() {
					return domain.Validationf("cannot cancel %s: returns exist against it", name)
				}
			}
		}

		h.DocStatus = domain.DocStatusCancelled
		h.Status = domain.HiredItemsStatusCancelled
		if err := st.HiredItems().Update(ctx, h); err != nil {
			return err
		}
		if err := cancelStockEntriesFor(ctx, st, repository.StockRefHiredItems, h.Name); err != nil {
			return err
		}
		if h.IsReturn {
			return applySupplierReturn(ctx, st, h, true)
		}
		return nil
	})
}

func (s *hiredItemsService) CreateSupplierReturn(ctx context.Context, receipt string, postingDate time.Time) (*domain.HiredItems, error) {
	var ret *domain.HiredItems
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		original, err := st.HiredItems().GetByName(ctx, receipt)
		if err != nil {
			return err
		}
		if original.DocStatus != domain.DocStatusSubmitted {
			return domain.Validationf("hired items %s is not submitted", receipt)
		}
		if original.IsReturn {
			return domain.Validationf("%s is itself a return document", receipt)
		}

		ret = &domain.HiredItems{
			Name:          newDocName("HI"),
			Company:       original.Company,
			Supplier:      original.Supplier,
			PostingDate:   postingDate,
			IsReturn:      true,
			ReturnAgainst: original.Name,
			DocStatus:     domain.DocStatusDraft,
			Status:        domain.HiredItemsStatusDraft,
		}
		for i := range original.Lines {
			ol := &original.Lines[i]
			available := ol.AvailableQty()
			if !available.IsPositive() {
				continue
			}
			ret.Lines = append(ret.Lines, domain.HiredItemsLine{
				Name:          newDocName("HIL"),
				Parent:        ret.Name,
				Idx:           len(ret.Lines) + 1,
				ItemCode:      ol.ItemCode,
				ItemName:      ol.ItemName,
				Description:   ol.Description,
				Qty:           available,
				Rate:          ol.Rate,
				HiredItemLine: ol.Name,
			})
		}
		if len(ret.Lines) == 0 {
			return domain.Validationf("hired items %s has nothing left to return", receipt)
		}
		if err := validateHiredItems(ctx, st, ret); err != nil {
			return err
		}
		return st.HiredItems().Create(ctx, ret)
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}
