package quote

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/murkotick/opportunity-quote-service/internal/app/quote/usecases/generate_quote"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/auth"
)

type generateQuoteRequest struct {
	OpportunityID string `json:"opportunityId"`
}

type generateQuoteResponse struct {
	QuoteID string `json:"quoteId"`
}

type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func (s *Server) generateQuoteHandler(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	s.metrics.RequestCount.Inc()

	// Credentials are decoded here, used for this request's session, and
	// dropped when the handler returns.
	creds, err := auth.Decode(r.Header.Get(auth.Header))
	if err != nil {
		s.respondError(w, r, http.StatusUnauthorized, err)
		return
	}

	var req generateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if req.OpportunityID == "" {
		s.respondError(w, r, http.StatusBadRequest, errMissingOpportunityID)
		return
	}

	quoteID, err := s.interactor.Execute(r.Context(), creds, generate_quote.Request{
		OpportunityID: req.OpportunityID,
	})
	if err != nil {
		status := statusFor(err)
		s.log.WithFields(logrus.Fields{
			"opportunityId": req.OpportunityID,
			"status":        status,
		}).WithError(err).Warn("generate quote failed")
		s.respondError(w, r, status, err)
		return
	}

	s.metrics.QuoteCount.Inc()
	s.metrics.ResponseDuration.Observe(time.Since(started).Seconds())
	s.respond(w, r, http.StatusOK, generateQuoteResponse{QuoteID: quoteID})
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, body any) {
	s.metrics.ResponseCodeCounts.WithLabelValues(strconv.Itoa(status), r.Method).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.WithError(err).Error("encode response")
	}
}

// respondError writes the uniform error envelope. The message is always
// human-readable and never carries the credential bundle or the transaction
// payload.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.respond(w, r, status, errorResponse{Error: true, Message: err.Error()})
}
