package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReturnStatus string

const (
	ReturnStatusDraft     ReturnStatus = "Draft"
	ReturnStatusReturned  ReturnStatus = "Returned"
	ReturnStatusCancelled ReturnStatus = "Cancelled"
)

// RentalReturn brings delivered items back. A line splits the returned
// quantity into good returns, items sent to maintenance and damaged items;
// the three together may never exceed what the referenced delivery line
// still has out.
type RentalReturn struct {
	Name                    string             `json:"name"`
	Company                 string             `json:"company"`
	Order                   string             `json:"order"`
	PostingDate             time.Time          `json:"posting_date"`
	PostingTime             string             `json:"posting_time"`
	ReturnDate              *time.Time         `json:"return_date,omitempty"`
	SourceWarehouse         string             `json:"source_warehouse"`
	TargetWarehouse         string             `json:"target_warehouse"`
	DocStatus               DocStatus          `json:"docstatus"`
	Status                  ReturnStatus       `json:"status"`
	TotalReturnQty          decimal.Decimal    `json:"total_return_qty"`
	TotalAmount             decimal.Decimal    `json:"total_amount"`
	TotalMaintenanceQty     decimal.Decimal    `json:"total_maintenance_qty"`
	TotalMaintenanceAmount  decimal.Decimal    `json:"total_maintenance_amount"`
	TotalDamagedQty         decimal.Decimal    `json:"total_damaged_qty"`
	TotalDamagedAmount      decimal.Decimal    `json:"total_damaged_amount"`
	SecurityDepositReturned decimal.Decimal    `json:"security_deposit_returned"`
	GrandTotal              decimal.Decimal    `json:"grand_total"`
	Lines                   []RentalReturnLine `json:"lines"`
}

type RentalReturnLine struct {
	Name              string          `json:"name"`
	Return            string          `json:"return"`
	ItemCode          string          `json:"item_code"`
	ItemName          string          `json:"item_name"`
	DeliveredQty      decimal.Decimal `json:"delivered_qty"`
	ReturnQty         decimal.Decimal `json:"return_qty"`
	MaintenanceQty    decimal.Decimal `json:"maintenance_qty"`
	DamagedQty        decimal.Decimal `json:"damaged_qty"`
	Rate              decimal.Decimal `json:"rate"`
	MaintenanceRate   decimal.Decimal `json:"maintenance_rate"`
	DamagedRate       decimal.Decimal `json:"damaged_rate"`
	Amount            decimal.Decimal `json:"amount"`
	MaintenanceAmount decimal.Decimal `json:"maintenance_amount"`
	DamagedAmount     decimal.Decimal `json:"damaged_amount"`
	Order             string          `json:"order"`
	OrderLine         string          `json:"order_line"`
	Delivery          string          `json:"delivery"`
	DeliveryLine      string          `json:"delivery_line"`
}

// TotalQty is the full quantity coming back on this line, whatever its
// condition.
func (l *RentalReturnLine) TotalQty() decimal.Decimal {
	return l.ReturnQty.Add(l.MaintenanceQty).Add(l.DamagedQty)
}
