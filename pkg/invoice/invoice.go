// pkg/invoice/invoice.go

package invoice

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/invoice-builder/pkg/calc"
	"github.com/shopspring/decimal"
)

// DateLayout is the layout of invoice and due dates.
const DateLayout = "2006-01-02"

// DefaultTaxRate applies to every new invoice.
var DefaultTaxRate = decimal.NewFromFloat(0.10)

// Header field names accepted by SetField.
const (
	FieldCompanyName   = "companyName"
	FieldContactPerson = "contactPerson"
	FieldInvoiceDate   = "invoiceDate"
	FieldDueDate       = "dueDate"
	FieldInvoiceNumber = "invoiceNumber"
	FieldNotes         = "notes"
	FieldTaxRate       = "taxRate"
)

// Item field names accepted by EditItem.
const (
	ItemName      = "name"
	ItemUnitPrice = "unitPrice"
	ItemQuantity  = "quantity"
)

var (
	// ErrUnknownItem is returned for an item ID that is not in the invoice.
	ErrUnknownItem = errors.New("invoice: unknown item")
	// ErrUnknownField is returned for a header or item field name that does not exist.
	ErrUnknownField = errors.New("invoice: unknown field")
)

// Item represents an item in the invoice.
type Item struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	// Total is derived from UnitPrice and Quantity whenever either changes.
	Total decimal.Decimal `json:"total"`
}

// Line returns the numeric part of the item.
func (it Item) Line() calc.Line {
	return calc.Line{UnitPrice: it.UnitPrice, Quantity: it.Quantity}
}

// Invoice represents the invoice draft being edited.
// Rows are identified by ID; their order is tracked separately, so removing
// one row never changes the identity of another.
type Invoice struct {
	CompanyName   string
	ContactPerson string
	InvoiceDate   string
	DueDate       string
	InvoiceNumber string
	Notes         string
	TaxRate       decimal.Decimal

	rows  []uuid.UUID
	items map[uuid.UUID]*Item

	now    func() time.Time
	serial func() int
	newID  func() uuid.UUID
}

// Option configures an Invoice.
type Option func(*Invoice)

// WithClock sets the source of "today".
func WithClock(now func() time.Time) Option {
	return func(inv *Invoice) { inv.now = now }
}

// WithSerial sets the generator of the numeric suffix of invoice numbers.
func WithSerial(serial func() int) Option {
	return func(inv *Invoice) { inv.serial = serial }
}

// WithIDs sets the generator of row IDs.
func WithIDs(newID func() uuid.UUID) Option {
	return func(inv *Invoice) { inv.newID = newID }
}

// New returns an invoice in its initial state: generated number, dates of
// today and one month ahead, and a single empty row.
func New(opts ...Option) *Invoice {
	inv := &Invoice{
		now:    time.Now,
		serial: func() int { return rand.Intn(1000) },
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(inv)
	}
	inv.Reset()
	return inv
}

// Reset discards every edit and returns the invoice to its initial state.
func (inv *Invoice) Reset() {
	today := inv.now()
	inv.CompanyName = ""
	inv.ContactPerson = ""
	inv.Notes = ""
	inv.TaxRate = DefaultTaxRate
	inv.InvoiceDate = today.Format(DateLayout)
	inv.DueDate = today.AddDate(0, 1, 0).Format(DateLayout)
	inv.InvoiceNumber = inv.generateNumber(today)
	inv.rows = nil
	inv.items = make(map[uuid.UUID]*Item)
	inv.AddItem()
}

func (inv *Invoice) generateNumber(today time.Time) string {
	n := inv.serial() % 1000
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("INV-%s-%03d", today.Format("20060102"), n)
}

// SetField updates one header field. The tax rate is parsed leniently.
func (inv *Invoice) SetField(name, value string) error {
	switch name {
	case FieldCompanyName:
		inv.CompanyName = value
	case FieldContactPerson:
		inv.ContactPerson = value
	case FieldInvoiceDate:
		inv.InvoiceDate = value
	case FieldDueDate:
		inv.DueDate = value
	case FieldInvoiceNumber:
		inv.InvoiceNumber = value
	case FieldNotes:
		inv.Notes = value
	case FieldTaxRate:
		inv.TaxRate = calc.ParseAmount(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// AddItem appends an empty row and returns its ID.
// The row holds no item until its first edit.
func (inv *Invoice) AddItem() uuid.UUID {
	id := inv.newID()
	inv.rows = append(inv.rows, id)
	return id
}

// EditItem changes a single field of the row's item, creating the item with
// defaults on the first edit. Price and quantity edits recompute the total.
func (inv *Invoice) EditItem(id uuid.UUID, field, value string) error {
	if inv.Position(id) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	switch field {
	case ItemName, ItemUnitPrice, ItemQuantity:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	it, ok := inv.items[id]
	if !ok {
		it = &Item{ID: id, UnitPrice: decimal.Zero, Quantity: 1, Total: decimal.Zero}
		inv.items[id] = it
	}

	switch field {
	case ItemName:
		it.Name = value
	case ItemUnitPrice:
		it.UnitPrice = calc.ParseAmount(value)
	case ItemQuantity:
		it.Quantity = calc.ParseQuantity(value, 1)
	}
	if field != ItemName {
		it.Total = calc.LineTotal(it.UnitPrice, it.Quantity)
	}
	return nil
}

// RemoveItem deletes the row. Rows after it move up one position.
func (inv *Invoice) RemoveItem(id uuid.UUID) error {
	pos := inv.Position(id)
	if pos < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	inv.rows = append(inv.rows[:pos], inv.rows[pos+1:]...)
	delete(inv.items, id)
	return nil
}

// Position returns the display position of a row, or -1.
func (inv *Invoice) Position(id uuid.UUID) int {
	for i, rowID := range inv.rows {
		if rowID == id {
			return i
		}
	}
	return -1
}

// Rows returns the row IDs in display order.
func (inv *Invoice) Rows() []uuid.UUID {
	return append([]uuid.UUID(nil), inv.rows...)
}

// Items returns copies of the materialized items in display order.
func (inv *Invoice) Items() []Item {
	items := make([]Item, 0, len(inv.items))
	for _, id := range inv.rows {
		if it, ok := inv.items[id]; ok {
			items = append(items, *it)
		}
	}
	return items
}

// ValidItems returns the items that carry a name. Only these count towards totals.
func (inv *Invoice) ValidItems() []Item {
	var named []Item
	for _, it := range inv.Items() {
		if it.Name != "" {
			named = append(named, it)
		}
	}
	return named
}

// Lines returns the numeric lines of the named items.
func (inv *Invoice) Lines() []calc.Line {
	valid := inv.ValidItems()
	lines := make([]calc.Line, len(valid))
	for i, it := range valid {
		lines[i] = it.Line()
	}
	return lines
}

// Totals computes the invoice figures from the current items and tax rate.
func (inv *Invoice) Totals() calc.Totals {
	return calc.ComputeAll(inv.Lines(), inv.TaxRate)
}
