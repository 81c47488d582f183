package domain

// RentalDefaults is the per-company rental configuration row: the three
// stock locations rental flows move goods between, plus accounting
// defaults. The three warehouses must be pairwise distinct when set.
type RentalDefaults struct {
	Company                string `json:"company"`
	SourceWarehouse        string `json:"source_warehouse"`
	RentedWarehouse        string `json:"rented_warehouse"`
	MaintenanceWarehouse   string `json:"maintenance_warehouse"`
	CostCenter             string `json:"cost_center"`
	IncomeAccount          string `json:"income_account"`
	SecurityDepositAccount string `json:"security_deposit_account"`
}

// RentalSettings holds the defaults rows for every company and the
// provisioning switch.
type RentalSettings struct {
	AutoCreateWarehouses bool             `json:"auto_create_warehouses"`
	Defaults             []RentalDefaults `json:"defaults"`
}

// DefaultsFor returns the row for a company, or nil when unconfigured.
func (s *RentalSettings) DefaultsFor(company string) *RentalDefaults {
	for i := range s.Defaults {
		if s.Defaults[i].Company == company {
			return &s.Defaults[i]
		}
	}
	return nil
}
