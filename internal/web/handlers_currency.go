package web

import (
	"net/http"

	"github.com/JonMunkholm/pricebook/internal/pricing"
)

// handleCurrencies lists the configured currencies.
func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.Currencies(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]pricing.Currency{"currencies": list})
}

// handleConvert converts ?amount= from ?from= to ?to=.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	conv, err := s.service.Convert(r.Context(), q.Get("amount"), q.Get("from"), q.Get("to"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}
