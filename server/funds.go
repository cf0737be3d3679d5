package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rustyeddy/tradebook/funds"
)

const defaultFundLimit = 20

func (s *Server) handleFundSearch(w http.ResponseWriter, r *http.Request) {
	if s.funds == nil {
		s.writeError(w, r, errUnavailable)
		return
	}
	q := r.URL.Query()
	limit := defaultFundLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, badRequest("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	res, err := s.funds.Search(r.Context(), q.Get("q"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.FundQueries.Inc()
	if res == nil {
		res = []funds.Scheme{}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleFund(w http.ResponseWriter, r *http.Request) {
	if s.funds == nil {
		s.writeError(w, r, errUnavailable)
		return
	}
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil {
		s.writeError(w, r, badRequest("scheme code must be an integer"))
		return
	}
	sch, ok, err := s.funds.Lookup(r.Context(), code)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "scheme not found"})
		return
	}
	s.metrics.FundQueries.Inc()
	writeJSON(w, http.StatusOK, sch)
}
