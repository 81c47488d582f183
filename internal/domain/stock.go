package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type StockEntryType string

const (
	StockEntryTypeTransfer StockEntryType = "Material Transfer"
	StockEntryTypeIssue    StockEntryType = "Material Issue"
	StockEntryTypeReceipt  StockEntryType = "Material Receipt"
	StockEntryTypeRepack   StockEntryType = "Repack"
)

// StockEntry is the companion record created when a rental document is
// submitted. Exactly one of the back-reference fields is set, naming the
// document that produced it; cancelling that document cancels and deletes
// every stock entry referencing it.
type StockEntry struct {
	Name        string           `json:"name"`
	Company     string           `json:"company"`
	Type        StockEntryType   `json:"type"`
	PostingDate time.Time        `json:"posting_date"`
	PostingTime string           `json:"posting_time"`
	DocStatus   DocStatus        `json:"docstatus"`
	Remarks     string           `json:"remarks"`

	RentalDelivery  string `json:"rental_delivery,omitempty"`
	RentalReturn    string `json:"rental_return,omitempty"`
	ChangeInventory string `json:"change_inventory,omitempty"`
	HiredItems      string `json:"hired_items,omitempty"`

	Lines []StockEntryLine `json:"lines"`
}

type StockEntryLine struct {
	Name            string          `json:"name"`
	Parent          string          `json:"parent"`
	ItemCode        string          `json:"item_code"`
	SourceWarehouse string          `json:"source_warehouse,omitempty"`
	TargetWarehouse string          `json:"target_warehouse,omitempty"`
	Qty             decimal.Decimal `json:"qty"`
	BasicRate       decimal.Decimal `json:"basic_rate"`
	SerialNo        string          `json:"serial_no,omitempty"`
	BatchNo         string          `json:"batch_no,omitempty"`
	IsFinishedItem  bool            `json:"is_finished_item"`
}

// StockLedgerEntry is one signed quantity movement; the stock balance for
// an item and warehouse is the sum of its ledger rows up to a date.
type StockLedgerEntry struct {
	ID          int64           `json:"id"`
	ItemCode    string          `json:"item_code"`
	Warehouse   string          `json:"warehouse"`
	PostingDate time.Time       `json:"posting_date"`
	PostingTime string          `json:"posting_time"`
	Qty         decimal.Decimal `json:"qty"`
	StockEntry  string          `json:"stock_entry"`
}
