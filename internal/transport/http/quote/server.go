// Package quote exposes the quote-generation service over HTTP. The transport
// owns the request boundary: it decodes the per-request client context,
// validates the body, invokes the usecase, and maps the error taxonomy onto
// status codes. Credentials never outlive the request that carried them.
package quote

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/murkotick/opportunity-quote-service/internal/app/quote/usecases/generate_quote"
)

// Server is the HTTP front for the quote service.
type Server struct {
	interactor *generate_quote.Interactor
	log        *logrus.Logger
	metrics    metrics
	registry   *prometheus.Registry
	handler    http.Handler
}

// NewServer wires the routes and middleware around the interactor.
func NewServer(it *generate_quote.Interactor, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Server{
		interactor: it,
		log:        log,
		metrics:    newMetrics(),
		registry:   prometheus.NewRegistry(),
	}
	s.registry.MustRegister(s.metrics.collectors()...)
	s.setupRouting()
	return s
}

func (s *Server) setupRouting() {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", s.healthzHandler).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/api/generatequote", s.generateQuoteHandler).Methods(http.MethodPost)

	s.handler = handlers.RecoveryHandler(handlers.RecoveryLogger(s.log))(
		handlers.CombinedLoggingHandler(s.log.Writer(), router),
	)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
