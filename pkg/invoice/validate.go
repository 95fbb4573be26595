// pkg/invoice/validate.go

package invoice

import (
	"errors"
	"strings"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("invoice: required fields are missing")

// ValidationError lists what keeps an invoice from being exported.
type ValidationError struct {
	Missing []string
	NoItems bool
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if e.NoItems {
		parts = append(parts, "no item with a name and a positive unit price")
	}
	return "invoice: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validate reports whether the invoice may be exported or sent: every header
// field set and at least one named item with a positive unit price.
func (inv *Invoice) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{FieldCompanyName, inv.CompanyName},
		{FieldContactPerson, inv.ContactPerson},
		{FieldInvoiceDate, inv.InvoiceDate},
		{FieldDueDate, inv.DueDate},
		{FieldInvoiceNumber, inv.InvoiceNumber},
	}

	verr := &ValidationError{NoItems: true}
	for _, f := range required {
		if f.value == "" {
			verr.Missing = append(verr.Missing, f.name)
		}
	}
	for _, it := range inv.Items() {
		if it.Name != "" && it.UnitPrice.IsPositive() {
			verr.NoItems = false
			break
		}
	}

	if len(verr.Missing) == 0 && !verr.NoItems {
		return nil
	}
	return verr
}
