package service

import (
	"context"

	"github.com/shopspring/decimal"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type repackService struct {
	store repository.Store
}

func NewRepackService(store repository.Store) RepackService {
	return &repackService{store: store}
}

func (s *repackService) CreateRepack(ctx context.Context, c *domain.ChangeInventory) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		if c.Name == "" {
			c.Name = newDocName("CI")
		}
		c.DocStatus = domain.DocStatusDraft
		for i := range c.Targets {
			if c.Targets[i].Name == "" {
				c.Targets[i].Name = newDocName("CIL")
			}
			c.Targets[i].Parent = c.Name
		}
		if err := validateRepack(ctx, st, c); err != nil {
			return err
		}
		return st.Repacks().Create(ctx, c)
	})
}

func validateRepack(ctx context.Context, st repository.Store, c *domain.ChangeInventory) error {
	if c.SourceItem == "" {
		return domain.Validationf("source item is required")
	}
	if !c.SourceQty.IsPositive() {
		return domain.Validationf("source quantity must be greater than zero")
	}
	if c.Warehouse == "" {
		return domain.Validationf("warehouse is required")
	}
	if len(c.Targets) == 0 {
		return domain.Validationf("at least one target item is required")
	}

	source, err := st.Catalog().GetItem(ctx, c.SourceItem)
	if err != nil {
		return err
	}
	c.SourceItemName = source.Name

	total := decimal.Zero
	for i := range c.Targets {
		line := &c.Targets[i]
		if line.ItemCode == "" {
			return domain.Validationf("row %d: item code is required", i+1)
		}
		if line.ItemCode == c.SourceItem {
			return domain.Validationf("row %d: target item cannot be the source item %s", i+1, c.SourceItem)
		}
		if !line.Qty.IsPositive() {
			return domain.Validationf("row %d: quantity must be greater than zero", i+1)
		}
		item, err := st.Catalog().GetItem(ctx, line.ItemCode)
		if err != nil {
			return err
		}
		line.ItemName = item.Name
		line.Description = item.Description
		total = total.Add(line.Qty)
	}
	c.TotalTargetQty = total
	return nil
}

func (s *repackService) GetRepack(ctx context.Context, name string) (*domain.ChangeInventory, error) {
	return s.store.Repacks().GetByName(ctx, name)
}

func (s *repackService) SubmitRepack(ctx context.Context, name string) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		c, err := st.Repacks().GetByName(ctx, name)
		if err != nil {
			return err
		}
		if c.DocStatus != domain.DocStatusDraft {
			return domain.Validationf("change inventory %s is not a draft", name)
		}
		if err := validateRepack(ctx, st, c); err != nil {
			return err
		}

		c.DocStatus = domain.DocStatusSubmitted
		if err := st.Repacks().Update(ctx, c); err != nil {
			return err
		}

		entry := &domain.StockEntry{
			Company:         c.Company,
			Type:            domain.StockEntryTypeRepack,
			PostingDate:     c.PostingDate,
			PostingTime:     c.PostingTime,
			ChangeInventory: c.Name,
			Remarks:         c.Remarks,
		}
		entry.Lines = append(entry.Lines, domain.StockEntryLine{
			ItemCode:        c.SourceItem,
			SourceWarehouse: c.Warehouse,
			Qty:             c.SourceQty,
			SerialNo:        c.SourceSerialNo,
			BatchNo:         c.SourceBatchNo,
		})
		for i := range c.Targets {
			line := &c.Targets[i]
			entry.Lines = append(entry.Lines, domain.StockEntryLine{
				ItemCode:        line.ItemCode,
				TargetWarehouse: c.Warehouse,
				Qty:             line.Qty,
				SerialNo:        line.SerialNo,
				BatchNo:         line.BatchNo,
				IsFinishedItem:  true,
			})
		}
		return submitStockEntry(ctx, st, entry)
	})
}

func (s *repackService) CancelRepack(ctx context.Context, name string) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		c, err := st.Repacks().GetByName(ctx, name)
		if err != nil {
			return err
		}
		if c.DocStatus != domain.DocStatusSubmitted {
			return domain.Validationf("change inventory %s is not submitted", name)
		}
		c.DocStatus = domain.DocStatusCancelled
		if err := st.Repacks().Update(ctx, c); err != nil {
			return err
		}
		return cancelStockEntriesFor(ctx, st, repository.StockRefChangeInventory, c.Name)
	})
}
