// pkg/server/server.go

// Package server exposes an editing session over HTTP.
//
//	@title			Invoice Builder API
//	@version		1.0
//	@description	Edit an invoice draft, preview its totals, export it as PDF or send it to a spreadsheet.
//	@BasePath		/api
package server

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/invoice-builder/pkg/calc"
	_ "github.com/invoice-builder/pkg/docs" // Register the OpenAPI document
	"github.com/invoice-builder/pkg/invoice"
	"github.com/invoice-builder/pkg/session"
	"github.com/invoice-builder/pkg/settings"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed templates/*.html
var templateFS embed.FS

const slowRequest = 200 * time.Millisecond

// Fetcher reads the rows stored by the spreadsheet webhook.
type Fetcher interface {
	Fetch(ctx context.Context) (json.RawMessage, error)
}

// Server routes HTTP requests to one session.
type Server struct {
	session  *session.Session
	settings *settings.Resolver
	fetcher  Fetcher
	logger   *log.Logger
	tmpl     *template.Template
	router   *mux.Router
}

// New builds the router. settings and fetcher may be nil, which disables
// their routes' backing features.
func New(sess *session.Session, resolver *settings.Resolver, fetcher Fetcher, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		session:  sess,
		settings: resolver,
		fetcher:  fetcher,
		logger:   logger,
	}
	s.tmpl = template.Must(template.New("").Funcs(template.FuncMap{
		"currency": calc.FormatCurrency,
		"date":     invoice.FormatDate,
		"orDash":   orDash,
	}).ParseFS(templateFS, "templates/*.html"))
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/", s.indexHandler).Methods("GET")
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/invoice", s.getInvoiceHandler).Methods("GET")
	api.HandleFunc("/invoice/fields/{name}", s.setFieldHandler).Methods("PUT")
	api.HandleFunc("/invoice/items", s.addItemHandler).Methods("POST")
	api.HandleFunc("/invoice/items/{id}", s.editItemHandler).Methods("PATCH")
	api.HandleFunc("/invoice/items/{id}", s.removeItemHandler).Methods("DELETE")
	api.HandleFunc("/invoice/reset", s.resetHandler).Methods("POST")
	api.HandleFunc("/invoice/pdf", s.exportPDFHandler).Methods("POST")
	api.HandleFunc("/invoice/pdf/preview", s.previewPDFHandler).Methods("GET")
	api.HandleFunc("/invoice/sheets", s.saveSheetsHandler).Methods("POST")
	api.HandleFunc("/sheets", s.fetchSheetsHandler).Methods("GET")
	api.HandleFunc("/settings/endpoint", s.getEndpointHandler).Methods("GET")
	api.HandleFunc("/settings/endpoint", s.setEndpointHandler).Methods("PUT")

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		latency := time.Since(start)
		s.logger.Printf("%s %s | Status: %d | Time: %v", r.Method, r.URL.Path, rec.status, latency)
		if latency > slowRequest {
			s.logger.Printf("slow request: %s %s took %v", r.Method, r.URL.Path, latency)
		}
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
