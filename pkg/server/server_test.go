package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/invoice-builder/pkg/export"
	"github.com/invoice-builder/pkg/invoice"
	"github.com/invoice-builder/pkg/session"
	"github.com/invoice-builder/pkg/settings"
	"github.com/invoice-builder/pkg/sheets"
)

var testNow = time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

type fakeFetcher struct {
	data json.RawMessage
	err  error
}

func (f fakeFetcher) Fetch(context.Context) (json.RawMessage, error) { return f.data, f.err }

type testEnv struct {
	srv      *Server
	webhook  *httptest.Server
	received []map[string]interface{}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{}
	env.webhook = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		env.received = append(env.received, body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(env.webhook.Close)

	logger := log.New(io.Discard, "", 0)
	resolver := &settings.Resolver{Store: settings.NewMemoryStore(), EnvURL: env.webhook.URL}
	inv := invoice.New(
		invoice.WithClock(func() time.Time { return testNow }),
		invoice.WithSerial(func() int { return 5 }),
	)
	sess := session.New(inv, session.Config{
		Renderer: export.NewPDFRenderer(logger),
		Remote:   sheets.NewClient(resolver, nil, logger),
		Options:  export.DefaultOptions(),
		Logger:   logger,
		Now:      func() time.Time { return testNow },
	})
	env.srv = New(sess, resolver, fakeFetcher{data: json.RawMessage(`[]`)}, logger)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) invoice.Snapshot {
	t.Helper()
	var snap invoice.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v (body %s)", err, rec.Body.String())
	}
	return snap
}

func (e *testEnv) fillValid(t *testing.T) {
	t.Helper()
	for name, value := range map[string]string{"companyName": "Acme", "contactPerson": "Tanaka"} {
		if rec := e.do(t, "PUT", "/api/invoice/fields/"+name, FieldInput{Value: value}); rec.Code != http.StatusOK {
			t.Fatalf("set %s: status %d", name, rec.Code)
		}
	}
	id := decodeSnapshot(t, e.do(t, "GET", "/api/invoice", nil)).Rows[0].ID.String()
	for _, in := range []ItemInput{{"name", "A"}, {"unitPrice", "1000"}, {"quantity", "2"}} {
		if rec := e.do(t, "PATCH", "/api/invoice/items/"+id, in); rec.Code != http.StatusOK {
			t.Fatalf("edit %s: status %d: %s", in.Field, rec.Code, rec.Body.String())
		}
	}
}

func TestEditingFlow(t *testing.T) {
	env := newTestEnv(t)
	env.fillValid(t)

	rec := env.do(t, "POST", "/api/invoice/items", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add item: status %d", rec.Code)
	}
	var added AddItemView
	if err := json.Unmarshal(rec.Body.Bytes(), &added); err != nil {
		t.Fatal(err)
	}
	path := "/api/invoice/items/" + added.ID.String()
	env.do(t, "PATCH", path, ItemInput{"name", "B"})
	env.do(t, "PATCH", path, ItemInput{"unitPrice", "500"})
	snap := decodeSnapshot(t, env.do(t, "PATCH", path, ItemInput{"quantity", "3"}))

	if snap.Totals.FormattedSubtotal != "¥3,500" || snap.Totals.FormattedTaxAmount != "¥350" || snap.Totals.FormattedTotal != "¥3,850" {
		t.Errorf("unexpected totals: %+v", snap.Totals)
	}

	snap = decodeSnapshot(t, env.do(t, "DELETE", path, nil))
	if snap.Totals.FormattedTotal != "¥2,200" || len(snap.Rows) != 1 {
		t.Errorf("after delete: %+v", snap)
	}
}

func TestEditErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"unknown field", "PUT", "/api/invoice/fields/colour", FieldInput{"red"}, http.StatusBadRequest},
		{"bad item id", "PATCH", "/api/invoice/items/nope", ItemInput{"name", "x"}, http.StatusBadRequest},
		{"missing item", "DELETE", "/api/invoice/items/7b0f1c5e-3f1a-4c55-9d43-0b2d8f6f7a11", nil, http.StatusNotFound},
		{"bad body", "PUT", "/api/invoice/fields/notes", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := env.do(t, tt.method, tt.path, tt.body); rec.Code != tt.want {
				t.Errorf("status = %d, expected %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestExportPDF(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/invoice/pdf", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid invoice: status %d", rec.Code)
	}

	env.fillValid(t)
	rec = env.do(t, "POST", "/api/invoice/pdf", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %s", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment") || !strings.Contains(cd, "invoice_INV-20240610-005_2024-06-10.pdf") {
		t.Errorf("content disposition = %s", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF")
	}
}

func TestPreviewPDF(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/invoice/pdf/preview", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "inline") {
		t.Errorf("content disposition = %s", cd)
	}
}

func TestSaveToSheets(t *testing.T) {
	env := newTestEnv(t)
	env.fillValid(t)

	rec := env.do(t, "POST", "/api/invoice/sheets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var res sheets.Result
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	if !res.Success {
		t.Errorf("result = %+v", res)
	}
	if len(env.received) != 1 || env.received[0]["total"] != 2200.0 {
		t.Errorf("webhook received %v", env.received)
	}
}

func TestSaveToSheetsNotConfigured(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	resolver := &settings.Resolver{Store: settings.NewMemoryStore()}
	inv := invoice.New()
	_ = invoice.Draft{
		CompanyName:   "Acme",
		ContactPerson: "Tanaka",
		Items:         []invoice.DraftItem{{Name: "A", UnitPrice: "100", Quantity: "1"}},
	}.Apply(inv)
	sess := session.New(inv, session.Config{Remote: sheets.NewClient(resolver, nil, logger), Logger: logger})
	srv := New(sess, resolver, nil, logger)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/invoice/sheets", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d", rec.Code)
	}
	var view ErrorView
	_ = json.Unmarshal(rec.Body.Bytes(), &view)
	if !view.Configure {
		t.Errorf("expected configure prompt, got %+v", view)
	}
}

func TestEndpointSettings(t *testing.T) {
	env := newTestEnv(t)

	var view EndpointView
	rec := env.do(t, "GET", "/api/settings/endpoint", nil)
	_ = json.Unmarshal(rec.Body.Bytes(), &view)
	if view.Origin != settings.OriginEnv {
		t.Errorf("origin = %s, expected env", view.Origin)
	}

	if rec := env.do(t, "PUT", "/api/settings/endpoint", EndpointInput{URL: "ftp://nope"}); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid URL: status %d", rec.Code)
	}

	rec = env.do(t, "PUT", "/api/settings/endpoint", EndpointInput{URL: "https://script.example.com/exec"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &view)
	if view.URL != "https://script.example.com/exec" || view.Origin != settings.OriginStored {
		t.Errorf("view = %+v", view)
	}
}

func TestFetchSheets(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "GET", "/api/sheets", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("status %d body %s", rec.Code, rec.Body.String())
	}

	env.srv.fetcher = fakeFetcher{err: &sheets.TransportError{URL: "http://x", Err: errors.New("down")}}
	if rec := env.do(t, "GET", "/api/sheets", nil); rec.Code != http.StatusBadGateway {
		t.Errorf("transport failure: status %d", rec.Code)
	}

	env.srv.fetcher = fakeFetcher{err: &sheets.UpstreamError{URL: "http://x", Status: http.StatusServiceUnavailable, Reason: "Service Unavailable"}}
	if rec := env.do(t, "GET", "/api/sheets", nil); rec.Code != http.StatusBadGateway {
		t.Errorf("upstream failure: status %d", rec.Code)
	}
}

func TestIndexPreview(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Company name", "No items entered", "2024/06/10", "INV-20240610-005", "¥0"} {
		if !strings.Contains(body, want) {
			t.Errorf("preview is missing %q", want)
		}
	}

	env.fillValid(t)
	body = env.do(t, "GET", "/", nil).Body.String()
	for _, want := range []string{"Acme", "¥1,000", "¥2,200"} {
		if !strings.Contains(body, want) {
			t.Errorf("preview is missing %q", want)
		}
	}
}

func TestReset(t *testing.T) {
	env := newTestEnv(t)
	env.fillValid(t)

	snap := decodeSnapshot(t, env.do(t, "POST", "/api/invoice/reset", nil))
	if snap.CompanyName != "" || len(snap.Named()) != 0 || snap.Totals.FormattedTotal != "¥0" {
		t.Errorf("after reset: %+v", snap)
	}
}
