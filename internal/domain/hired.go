package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type HiredItemsStatus string

const (
	HiredItemsStatusDraft             HiredItemsStatus = "Draft"
	HiredItemsStatusSubmitted         HiredItemsStatus = "Submitted"
	HiredItemsStatusPartiallyReturned HiredItemsStatus = "Partially Returned"
	HiredItemsStatusReturned          HiredItemsStatus = "Returned"
	HiredItemsStatusCancelled         HiredItemsStatus = "Cancelled"
)

// HiredItems records equipment hired in from a supplier (a receipt) or
// sent back to them (a return against an earlier receipt).
type HiredItems struct {
	Name          string           `json:"name"`
	Company       string           `json:"company"`
	Supplier      string           `json:"supplier"`
	PostingDate   time.Time        `json:"posting_date"`
	IsReturn      bool             `json:"is_return"`
	ReturnAgainst string           `json:"return_against"`
	DocStatus     DocStatus        `json:"docstatus"`
	Status        HiredItemsStatus `json:"status"`
	TotalQty      decimal.Decimal  `json:"total_qty"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	Lines         []HiredItemsLine `json:"lines"`
}

type HiredItemsLine struct {
	Name        string          `json:"name"`
	Parent      string          `json:"parent"`
	Idx         int             `json:"idx"`
	ItemCode    string          `json:"item_code"`
	ItemName    string          `json:"item_name"`
	Description string          `json:"description"`
	Qty         decimal.Decimal `json:"qty"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	ReturnedQty decimal.Decimal `json:"returned_qty"`
	// For returns, the line of the original document being returned against.
	HiredItemLine string `json:"hired_item_line"`
}

// AvailableQty is the quantity not yet returned to the supplier.
func (l *HiredItemsLine) AvailableQty() decimal.Decimal {
	return l.Qty.Sub(l.ReturnedQty)
}
