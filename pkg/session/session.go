// pkg/session/session.go

// Package session owns one invoice draft for the life of an editing session.
// Every edit recomputes the totals before it returns.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/invoice-builder/pkg/calc"
	"github.com/invoice-builder/pkg/export"
	"github.com/invoice-builder/pkg/invoice"
	"github.com/invoice-builder/pkg/sheets"
)

// Remote is the spreadsheet the invoice can be pushed to.
type Remote interface {
	Save(ctx context.Context, p invoice.Payload) (sheets.Result, error)
}

// Config wires a session to its collaborators.
type Config struct {
	Renderer export.Renderer
	Remote   Remote
	Options  export.Options
	Logger   *log.Logger
	Now      func() time.Time
}

// Document is a rendered invoice ready for download.
type Document struct {
	Filename string
	Data     []byte
}

// Session is the single owner of an invoice draft.
type Session struct {
	mu   sync.Mutex
	inv  *invoice.Invoice
	calc calc.Calculator

	renderer export.Renderer
	remote   Remote
	opts     export.Options
	logger   *log.Logger
	now      func() time.Time

	// PDF and Sheets are the controls behind the two export actions.
	PDF    Control
	Sheets Control
}

// New starts a session over inv.
func New(inv *invoice.Invoice, cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Session{
		inv:      inv,
		renderer: cfg.Renderer,
		remote:   cfg.Remote,
		opts:     cfg.Options,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
	s.calc.Compute(inv.Lines(), inv.TaxRate)
	return s
}

// mutate applies fn under the lock and recomputes the totals when it succeeds.
func (s *Session) mutate(fn func(inv *invoice.Invoice) error) (invoice.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.inv); err != nil {
		return invoice.Snapshot{}, err
	}
	s.calc.Compute(s.inv.Lines(), s.inv.TaxRate)
	return s.inv.Snapshot(), nil
}

// View returns the current state of the invoice.
func (s *Session) View() invoice.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Snapshot()
}

// Totals returns the figures computed after the last edit.
func (s *Session) Totals() calc.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, _ := s.calc.Last()
	return t
}

// SetField updates a header field.
func (s *Session) SetField(name, value string) (invoice.Snapshot, error) {
	return s.mutate(func(inv *invoice.Invoice) error {
		return inv.SetField(name, value)
	})
}

// AddItem appends an empty row and returns its ID.
func (s *Session) AddItem() (uuid.UUID, invoice.Snapshot) {
	var id uuid.UUID
	snap, _ := s.mutate(func(inv *invoice.Invoice) error {
		id = inv.AddItem()
		return nil
	})
	return id, snap
}

// EditItem changes one field of a row.
func (s *Session) EditItem(id uuid.UUID, field, value string) (invoice.Snapshot, error) {
	return s.mutate(func(inv *invoice.Invoice) error {
		return inv.EditItem(id, field, value)
	})
}

// RemoveItem deletes a row.
func (s *Session) RemoveItem(id uuid.UUID) (invoice.Snapshot, error) {
	return s.mutate(func(inv *invoice.Invoice) error {
		return inv.RemoveItem(id)
	})
}

// Reset returns the invoice to a fresh state.
func (s *Session) Reset() invoice.Snapshot {
	snap, _ := s.mutate(func(inv *invoice.Invoice) error {
		inv.Reset()
		return nil
	})
	s.logger.Printf("session: invoice reset, new number %s", snap.InvoiceNumber)
	return snap
}

// checkout validates the invoice and copies what an export needs.
func (s *Session) checkout() (invoice.Snapshot, invoice.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.inv.Validate(); err != nil {
		return invoice.Snapshot{}, invoice.Payload{}, err
	}
	return s.inv.Snapshot(), s.inv.Payload(), nil
}

// ExportPDF validates the invoice and renders it. The PDF control is held
// until the render finishes, whichever way it ends.
func (s *Session) ExportPDF(ctx context.Context) (Document, error) {
	release, err := s.PDF.acquire()
	if err != nil {
		return Document{}, err
	}
	defer release()

	snap, _, err := s.checkout()
	if err != nil {
		return Document{}, err
	}
	return s.render(ctx, snap, export.Filename(snap.InvoiceNumber, snap.InvoiceDate, s.now()))
}

// PreviewPDF renders the invoice as it stands, without validation.
func (s *Session) PreviewPDF(ctx context.Context) (Document, error) {
	release, err := s.PDF.acquire()
	if err != nil {
		return Document{}, err
	}
	defer release()

	snap := s.View()
	return s.render(ctx, snap, export.Filename(snap.InvoiceNumber, snap.InvoiceDate, s.now()))
}

func (s *Session) render(ctx context.Context, snap invoice.Snapshot, filename string) (Document, error) {
	if s.renderer == nil {
		return Document{}, fmt.Errorf("render invoice: no renderer configured")
	}
	opts := s.opts
	opts.Filename = filename

	data, err := s.renderer.Render(ctx, snap, opts)
	if err != nil {
		s.logger.Printf("session: rendering %s failed: %v", filename, err)
		return Document{}, fmt.Errorf("render invoice: %w", err)
	}
	s.logger.Printf("session: rendered %s (%d bytes)", filename, len(data))
	return Document{Filename: filename, Data: data}, nil
}

// SaveRemote validates the invoice and sends it to the spreadsheet once.
// The Sheets control is held until the call returns.
func (s *Session) SaveRemote(ctx context.Context) (sheets.Result, error) {
	release, err := s.Sheets.acquire()
	if err != nil {
		return sheets.Result{}, err
	}
	defer release()

	_, payload, err := s.checkout()
	if err != nil {
		return sheets.Result{}, err
	}
	if s.remote == nil {
		return sheets.Result{}, sheets.ErrNotConfigured
	}

	res, err := s.remote.Save(ctx, payload)
	if err != nil {
		s.logger.Printf("session: saving %s to sheets failed: %v", payload.InvoiceNumber, err)
		return sheets.Result{}, err
	}
	return res, nil
}
