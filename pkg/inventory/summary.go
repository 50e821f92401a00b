package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roomstock/inventory/pkg/warranty"
)

// StockAlert is an item whose on-hand count is below its minimum.
type StockAlert struct {
	ItemID      string          `json:"item_id" yaml:"item_id"`
	Description string          `json:"description" yaml:"description"`
	Location    string          `json:"storage_location" yaml:"storage_location"`
	OnHand      decimal.Decimal `json:"on_hand" yaml:"on_hand"`
	MinOnHand   decimal.Decimal `json:"min_on_hand" yaml:"min_on_hand"`
}

// WarrantyAlert is an item whose warranty ends soon or has ended.
type WarrantyAlert struct {
	ItemID      string `json:"item_id" yaml:"item_id"`
	Description string `json:"description" yaml:"description"`
	Vendor      string `json:"vendor" yaml:"vendor"`
	WarrantyEnd string `json:"warranty_end" yaml:"warranty_end"`
	DaysLeft    int    `json:"days_left" yaml:"days_left"`
}

// Summary is a stock overview of a set of effective records.
type Summary struct {
	Items    int             `json:"items" yaml:"items"`
	Created  int             `json:"created" yaml:"created"`
	Priced   int             `json:"priced" yaml:"priced"`
	Value    decimal.Decimal `json:"value" yaml:"value"`
	LowStock []StockAlert    `json:"low_stock" yaml:"low_stock"`
	Expiring []WarrantyAlert `json:"expiring" yaml:"expiring"`
	Expired  []WarrantyAlert `json:"expired" yaml:"expired"`
}

// Summarize computes the stock overview as of now. Warranties ending within
// the next `within` days are reported as expiring.
//
// Value is the sum of unit_cost times on_hand over the items where both
// parse as numbers; currency symbols and thousands separators are ignored.
func Summarize(records []Record, now time.Time, within int) Summary {
	s := Summary{
		Items:    len(records),
		Value:    decimal.Zero,
		LowStock: []StockAlert{},
		Expiring: []WarrantyAlert{},
		Expired:  []WarrantyAlert{},
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for i := range records {
		r := &records[i]
		if r.IsNew() {
			s.Created++
		}

		onHand, hasOnHand := ParseAmount(string(r.OnHand))
		if cost, ok := ParseAmount(string(r.UnitCost)); ok && hasOnHand {
			s.Value = s.Value.Add(cost.Mul(onHand))
			s.Priced++
		}
		if minimum, ok := ParseAmount(string(r.MinOnHand)); ok && hasOnHand && onHand.LessThan(minimum) {
			s.LowStock = append(s.LowStock, StockAlert{
				ItemID:      r.ItemID,
				Description: string(r.Description),
				Location:    string(r.StorageLocation),
				OnHand:      onHand,
				MinOnHand:   minimum,
			})
		}

		end, ok := warranty.ParseDate(string(r.WarrantyEnd))
		if !ok {
			continue
		}
		days := int(end.Sub(today).Hours() / 24)
		alert := WarrantyAlert{
			ItemID:      r.ItemID,
			Description: string(r.Description),
			Vendor:      string(r.Vendor),
			WarrantyEnd: string(r.WarrantyEnd),
			DaysLeft:    days,
		}
		switch {
		case days < 0:
			s.Expired = append(s.Expired, alert)
		case days <= within:
			s.Expiring = append(s.Expiring, alert)
		}
	}
	return s
}

// ParseAmount reads a money or count value such as "$1,250.00" or "12".
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
