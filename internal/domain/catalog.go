package domain

import "github.com/shopspring/decimal"

type AccountType string

const (
	AccountTypeIncome           AccountType = "Income Account"
	AccountTypeCurrentLiability AccountType = "Current Liability"
	AccountTypeCurrentAsset     AccountType = "Current Asset"
	AccountTypeExpense          AccountType = "Expense Account"
)

type Company struct {
	Name string `json:"name"`
	Abbr string `json:"abbr"`
}

type Item struct {
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	MaintenanceCharge decimal.Decimal `json:"maintenance_charge"`
	DamageCharge      decimal.Decimal `json:"damage_charge"`
	StandardRate      decimal.Decimal `json:"standard_rate"`
}

type Warehouse struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	IsGroup bool   `json:"is_group"`
}

type Account struct {
	Name    string      `json:"name"`
	Company string      `json:"company"`
	Type    AccountType `json:"type"`
}
