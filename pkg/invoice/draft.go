// pkg/invoice/draft.go

package invoice

// DraftItem is a line item as written in a draft file. Values are raw text,
// parsed the same way as form input.
type DraftItem struct {
	Name      string `yaml:"name" json:"name"`
	UnitPrice string `yaml:"unitPrice" json:"unitPrice"`
	Quantity  string `yaml:"quantity" json:"quantity"`
}

// Draft is an invoice written out as a document, used for offline rendering.
// Empty header values keep the generated defaults.
type Draft struct {
	CompanyName   string      `yaml:"companyName" json:"companyName"`
	ContactPerson string      `yaml:"contactPerson" json:"contactPerson"`
	InvoiceDate   string      `yaml:"invoiceDate" json:"invoiceDate"`
	DueDate       string      `yaml:"dueDate" json:"dueDate"`
	InvoiceNumber string      `yaml:"invoiceNumber" json:"invoiceNumber"`
	Notes         string      `yaml:"notes" json:"notes"`
	TaxRate       string      `yaml:"taxRate" json:"taxRate"`
	Items         []DraftItem `yaml:"items" json:"items"`
}

// Apply replays the draft onto inv as a sequence of edits.
func (d Draft) Apply(inv *Invoice) error {
	fields := []struct {
		name  string
		value string
	}{
		{FieldCompanyName, d.CompanyName},
		{FieldContactPerson, d.ContactPerson},
		{FieldInvoiceDate, d.InvoiceDate},
		{FieldDueDate, d.DueDate},
		{FieldInvoiceNumber, d.InvoiceNumber},
		{FieldNotes, d.Notes},
		{FieldTaxRate, d.TaxRate},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := inv.SetField(f.name, f.value); err != nil {
			return err
		}
	}

	for i, di := range d.Items {
		id, ok := inv.RowID(i)
		if !ok {
			id = inv.AddItem()
		}
		edits := []struct {
			field string
			value string
		}{
			{ItemName, di.Name},
			{ItemUnitPrice, di.UnitPrice},
			{ItemQuantity, di.Quantity},
		}
		for _, e := range edits {
			if err := inv.EditItem(id, e.field, e.value); err != nil {
				return err
			}
		}
	}
	return nil
}
