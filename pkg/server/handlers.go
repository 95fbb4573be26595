// pkg/server/handlers.go

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/invoice-builder/pkg/invoice"
	"github.com/invoice-builder/pkg/session"
	"github.com/invoice-builder/pkg/settings"
	"github.com/invoice-builder/pkg/sheets"
)

// FieldInput is the body of a header field update.
type FieldInput struct {
	Value string `json:"value"`
}

// ItemInput is the body of an item edit.
type ItemInput struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// EndpointInput is the body of a webhook URL update.
type EndpointInput struct {
	URL string `json:"url"`
}

// EndpointView describes the webhook URL in use.
type EndpointView struct {
	URL    string          `json:"url"`
	Origin settings.Origin `json:"origin"`
}

// AddItemView is returned after a row is added.
type AddItemView struct {
	ID      uuid.UUID        `json:"id"`
	Invoice invoice.Snapshot `json:"invoice"`
}

// ErrorView is the body of every error response.
type ErrorView struct {
	Error     string `json:"error"`
	Configure bool   `json:"configure,omitempty"`
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", s.session.View()); err != nil {
		s.logger.Printf("render preview: %v", err)
	}
}

// getInvoiceHandler godoc
//
//	@Summary	Current invoice with totals
//	@Tags		invoice
//	@Produce	json
//	@Success	200	{object}	invoice.Snapshot
//	@Router		/invoice [get]
func (s *Server) getInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.View())
}

// setFieldHandler godoc
//
//	@Summary	Update a header field
//	@Tags		invoice
//	@Accept		json
//	@Produce	json
//	@Param		name	path		string		true	"companyName, contactPerson, invoiceDate, dueDate, invoiceNumber, notes or taxRate"
//	@Param		body	body		FieldInput	true	"new value"
//	@Success	200		{object}	invoice.Snapshot
//	@Failure	400		{object}	ErrorView
//	@Router		/invoice/fields/{name} [put]
func (s *Server) setFieldHandler(w http.ResponseWriter, r *http.Request) {
	var in FieldInput
	if !decode(w, r, &in) {
		return
	}
	snap, err := s.session.SetField(mux.Vars(r)["name"], in.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// addItemHandler godoc
//
//	@Summary	Append an empty row
//	@Tags		items
//	@Produce	json
//	@Success	201	{object}	AddItemView
//	@Router		/invoice/items [post]
func (s *Server) addItemHandler(w http.ResponseWriter, r *http.Request) {
	id, snap := s.session.AddItem()
	writeJSON(w, http.StatusCreated, AddItemView{ID: id, Invoice: snap})
}

// editItemHandler godoc
//
//	@Summary	Change one field of a row
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"row ID"
//	@Param		body	body		ItemInput	true	"field is name, unitPrice or quantity"
//	@Success	200		{object}	invoice.Snapshot
//	@Failure	400		{object}	ErrorView
//	@Failure	404		{object}	ErrorView
//	@Router		/invoice/items/{id} [patch]
func (s *Server) editItemHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := rowID(w, r)
	if !ok {
		return
	}
	var in ItemInput
	if !decode(w, r, &in) {
		return
	}
	snap, err := s.session.EditItem(id, in.Field, in.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// removeItemHandler godoc
//
//	@Summary	Delete a row
//	@Tags		items
//	@Produce	json
//	@Param		id	path		string	true	"row ID"
//	@Success	200	{object}	invoice.Snapshot
//	@Failure	404	{object}	ErrorView
//	@Router		/invoice/items/{id} [delete]
func (s *Server) removeItemHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := rowID(w, r)
	if !ok {
		return
	}
	snap, err := s.session.RemoveItem(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// resetHandler godoc
//
//	@Summary	Discard the draft and start a new one
//	@Tags		invoice
//	@Produce	json
//	@Success	200	{object}	invoice.Snapshot
//	@Router		/invoice/reset [post]
func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Reset())
}

// exportPDFHandler godoc
//
//	@Summary	Download the invoice as PDF
//	@Tags		export
//	@Produce	application/pdf
//	@Success	200
//	@Failure	409	{object}	ErrorView
//	@Failure	422	{object}	ErrorView
//	@Failure	500	{object}	ErrorView
//	@Router		/invoice/pdf [post]
func (s *Server) exportPDFHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := s.session.ExportPDF(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writePDF(w, doc, "attachment")
}

// previewPDFHandler godoc
//
//	@Summary	Render the invoice as PDF without validation
//	@Tags		export
//	@Produce	application/pdf
//	@Success	200
//	@Failure	409	{object}	ErrorView
//	@Router		/invoice/pdf/preview [get]
func (s *Server) previewPDFHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := s.session.PreviewPDF(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writePDF(w, doc, "inline")
}

// saveSheetsHandler godoc
//
//	@Summary	Send the invoice to the spreadsheet webhook
//	@Tags		export
//	@Produce	json
//	@Success	200	{object}	sheets.Result
//	@Failure	409	{object}	ErrorView
//	@Failure	422	{object}	ErrorView
//	@Failure	502	{object}	ErrorView
//	@Router		/invoice/sheets [post]
func (s *Server) saveSheetsHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.SaveRemote(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// fetchSheetsHandler godoc
//
//	@Summary	Rows stored by the spreadsheet webhook
//	@Tags		export
//	@Produce	json
//	@Success	200
//	@Failure	409	{object}	ErrorView
//	@Failure	502	{object}	ErrorView
//	@Router		/sheets [get]
func (s *Server) fetchSheetsHandler(w http.ResponseWriter, r *http.Request) {
	if s.fetcher == nil {
		s.writeError(w, sheets.ErrNotConfigured)
		return
	}
	data, err := s.fetcher.Fetch(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// getEndpointHandler godoc
//
//	@Summary	Webhook URL in use
//	@Tags		settings
//	@Produce	json
//	@Success	200	{object}	EndpointView
//	@Router		/settings/endpoint [get]
func (s *Server) getEndpointHandler(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		writeJSON(w, http.StatusOK, EndpointView{Origin: settings.OriginNone})
		return
	}
	u, origin, err := s.settings.Lookup(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EndpointView{URL: u, Origin: origin})
}

// setEndpointHandler godoc
//
//	@Summary	Store the webhook URL
//	@Tags		settings
//	@Accept		json
//	@Produce	json
//	@Param		body	body		EndpointInput	true	"http or https URL"
//	@Success	200		{object}	EndpointView
//	@Failure	400		{object}	ErrorView
//	@Router		/settings/endpoint [put]
func (s *Server) setEndpointHandler(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorView{Error: "settings store is not configured"})
		return
	}
	var in EndpointInput
	if !decode(w, r, &in) {
		return
	}
	if err := s.settings.SetEndpoint(r.Context(), in.URL); err != nil {
		s.writeError(w, err)
		return
	}
	s.getEndpointHandler(w, r)
}

func rowID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorView{Error: "invalid item ID"})
		return uuid.Nil, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorView{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writePDF(w http.ResponseWriter, doc session.Document, disposition string) {
	w.Header().Set("Content-Disposition", disposition+"; filename="+strconv.Quote(doc.Filename))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	_, _ = w.Write(doc.Data)
}

// writeError maps an error to its status code. Validation and busy errors
// are expected outcomes; everything else is logged.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		verr *invoice.ValidationError
		terr *sheets.TransportError
		uerr *sheets.UpstreamError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorView{Error: "required fields are missing: " + verr.Error()})
	case errors.Is(err, invoice.ErrUnknownItem):
		writeJSON(w, http.StatusNotFound, ErrorView{Error: err.Error()})
	case errors.Is(err, invoice.ErrUnknownField), errors.Is(err, settings.ErrInvalidURL):
		writeJSON(w, http.StatusBadRequest, ErrorView{Error: err.Error()})
	case errors.Is(err, session.ErrBusy):
		writeJSON(w, http.StatusConflict, ErrorView{Error: err.Error()})
	case errors.Is(err, sheets.ErrNotConfigured):
		writeJSON(w, http.StatusConflict, ErrorView{Error: err.Error(), Configure: true})
	case errors.As(err, &terr):
		s.logger.Printf("sheets request failed: %v", err)
		writeJSON(w, http.StatusBadGateway, ErrorView{Error: terr.Error()})
	case errors.As(err, &uerr):
		s.logger.Printf("sheets request failed: %v", err)
		writeJSON(w, http.StatusBadGateway, ErrorView{Error: uerr.Error()})
	default:
		s.logger.Printf("request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorView{Error: err.Error()})
	}
}
