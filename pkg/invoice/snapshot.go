// pkg/invoice/snapshot.go

package invoice

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/invoice-builder/pkg/calc"
	"github.com/shopspring/decimal"
)

// Row is one row of the editing form. Materialized is false until the row's
// first edit, in which case Item carries the defaults.
type Row struct {
	Item
	Position     int  `json:"position"`
	Materialized bool `json:"materialized"`
}

// Snapshot is a read-only copy of the invoice with its totals, taken at one instant.
type Snapshot struct {
	CompanyName   string          `json:"companyName"`
	ContactPerson string          `json:"contactPerson"`
	InvoiceDate   string          `json:"invoiceDate"`
	DueDate       string          `json:"dueDate"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Notes         string          `json:"notes"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	Rows          []Row           `json:"rows"`
	Totals        calc.Totals     `json:"totals"`
}

// Snapshot copies the invoice and computes its totals.
func (inv *Invoice) Snapshot() Snapshot {
	rows := make([]Row, len(inv.rows))
	for i, id := range inv.rows {
		row := Row{Position: i}
		if it, ok := inv.items[id]; ok {
			row.Item = *it
			row.Materialized = true
		} else {
			row.Item = Item{ID: id, UnitPrice: decimal.Zero, Quantity: 1, Total: decimal.Zero}
		}
		rows[i] = row
	}

	return Snapshot{
		CompanyName:   inv.CompanyName,
		ContactPerson: inv.ContactPerson,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		InvoiceNumber: inv.InvoiceNumber,
		Notes:         inv.Notes,
		TaxRate:       inv.TaxRate,
		Rows:          rows,
		Totals:        inv.Totals(),
	}
}

// Named returns the items of the snapshot that carry a name, in order.
func (s Snapshot) Named() []Item {
	var items []Item
	for _, r := range s.Rows {
		if r.Materialized && r.Name != "" {
			items = append(items, r.Item)
		}
	}
	return items
}

// FormatDate renders a YYYY-MM-DD date as YYYY/MM/DD. Anything else yields "".
func FormatDate(s string) string {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return ""
	}
	return t.Format("2006/01/02")
}

// PayloadItem is a named item as sent to the spreadsheet webhook.
type PayloadItem struct {
	Name      string      `json:"name"`
	UnitPrice json.Number `json:"unitPrice"`
	Quantity  int         `json:"quantity"`
	Total     json.Number `json:"total"`
}

// Payload is the record sent to the spreadsheet webhook.
type Payload struct {
	CompanyName   string        `json:"companyName"`
	ContactPerson string        `json:"contactPerson"`
	InvoiceDate   string        `json:"invoiceDate"`
	DueDate       string        `json:"dueDate"`
	InvoiceNumber string        `json:"invoiceNumber"`
	Items         []PayloadItem `json:"items"`
	Notes         string        `json:"notes"`
	Subtotal      json.Number   `json:"subtotal"`
	TaxAmount     json.Number   `json:"taxAmount"`
	Total         json.Number   `json:"total"`
	TaxRate       json.Number   `json:"taxRate"`
}

// Payload builds the webhook record from the named items and their totals.
func (inv *Invoice) Payload() Payload {
	valid := inv.ValidItems()
	items := make([]PayloadItem, len(valid))
	for i, it := range valid {
		items[i] = PayloadItem{
			Name:      it.Name,
			UnitPrice: num(it.UnitPrice),
			Quantity:  it.Quantity,
			Total:     num(it.Total),
		}
	}
	totals := inv.Totals()

	return Payload{
		CompanyName:   inv.CompanyName,
		ContactPerson: inv.ContactPerson,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		InvoiceNumber: inv.InvoiceNumber,
		Items:         items,
		Notes:         inv.Notes,
		Subtotal:      num(totals.Subtotal),
		TaxAmount:     num(totals.TaxAmount),
		Total:         num(totals.Total),
		TaxRate:       num(inv.TaxRate),
	}
}

func num(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// RowID returns the ID at position pos, and false when out of range.
func (inv *Invoice) RowID(pos int) (uuid.UUID, bool) {
	if pos < 0 || pos >= len(inv.rows) {
		return uuid.Nil, false
	}
	return inv.rows[pos], true
}
