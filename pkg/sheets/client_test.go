package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/invoice-builder/pkg/invoice"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func samplePayload() invoice.Payload {
	inv := invoice.New()
	_ = invoice.Draft{
		CompanyName:   "Acme",
		ContactPerson: "Tanaka",
		Items: []invoice.DraftItem{
			{Name: "A", UnitPrice: "1000", Quantity: "2"},
			{Name: "B", UnitPrice: "500", Quantity: "3"},
		},
	}.Apply(inv)
	return inv.Payload()
}

func TestSave_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected application/json content type, got %s", r.Header.Get("Content-Type"))
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if body["companyName"] != "Acme" || body["total"] != 3850.0 || body["taxAmount"] != 350.0 {
			t.Errorf("unexpected body: %v", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(StaticEndpoint(server.URL), nil, quietLogger())
	res, err := client.Save(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !res.Success || res.Message != SentMessage {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestSave_ServerErrorStillReportsSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("script error"))
	}))
	defer server.Close()

	client := NewClient(StaticEndpoint(server.URL), nil, quietLogger())
	res, err := client.Save(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !res.Success {
		t.Error("a delivered request is reported as sent")
	}
}

func TestSave_NotConfigured(t *testing.T) {
	for _, ep := range []Endpoint{nil, StaticEndpoint(""), StaticEndpoint("   ")} {
		client := NewClient(ep, nil, quietLogger())
		if _, err := client.Save(context.Background(), samplePayload()); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("endpoint %v: expected ErrNotConfigured, got %v", ep, err)
		}
	}
}

func TestSave_Unreachable(t *testing.T) {
	client := NewClient(StaticEndpoint("http://127.0.0.1:1"), nil, quietLogger())

	_, err := client.Save(context.Background(), samplePayload())
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if terr.URL != "http://127.0.0.1:1" {
		t.Errorf("unexpected URL in error: %s", terr.URL)
	}
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		want    string
	}{
		{"ok", http.StatusOK, `{"success":true,"data":[{"invoiceNumber":"INV-1"}]}`, false, `[{"invoiceNumber":"INV-1"}]`},
		{"reported failure", http.StatusOK, `{"success":false,"message":"sheet missing"}`, true, ""},
		{"bad status", http.StatusServiceUnavailable, ``, true, ""},
		{"bad json", http.StatusOK, `<html>`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET, got %s", r.Method)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			data, err := NewClient(StaticEndpoint(server.URL), nil, quietLogger()).Fetch(context.Background())
			if tt.wantErr {
				var uerr *UpstreamError
				if !errors.As(err, &uerr) {
					t.Fatalf("expected *UpstreamError, got %v", err)
				}
				if uerr.Status != tt.status {
					t.Errorf("status = %d, expected %d", uerr.Status, tt.status)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("data = %s, expected %s", data, tt.want)
			}
		})
	}
}
