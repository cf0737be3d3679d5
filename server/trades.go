package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rustyeddy/tradebook/charges"
	"github.com/rustyeddy/tradebook/journal"
)

// tradeView is a journal record plus its derived P&L when closed.
type tradeView struct {
	journal.TradeRecord
	Pnl *charges.Result `json:"pnl,omitempty"`
}

func viewOf(rec journal.TradeRecord) (tradeView, error) {
	v := tradeView{TradeRecord: rec}
	if rec.IsOpen() {
		return v, nil
	}
	res, err := rec.NetPnl()
	if err != nil {
		return tradeView{}, err
	}
	res = res.Rounded()
	v.Pnl = &res
	return v, nil
}

func viewsOf(recs []journal.TradeRecord) ([]tradeView, error) {
	out := make([]tradeView, 0, len(recs))
	for _, rec := range recs {
		v, err := viewOf(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// dayRange resolves a YYYY-MM-DD query value, defaulting to today.
func (s *Server) dayRange(day string) (time.Time, time.Time, error) {
	if day == "" {
		start, end := journal.DayBounds(s.now().In(s.loc))
		return start, end, nil
	}
	start, end, err := journal.ParseDay(day, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, badRequest("day must be YYYY-MM-DD")
	}
	return start, end, nil
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errUnavailable)
		return
	}
	start, end, err := s.dayRange(r.URL.Query().Get("day"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	recs, err := s.store.ListTradesClosedBetween(r.Context(), start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := viewsOf(recs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleOpenTrades(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errUnavailable)
		return
	}
	recs, err := s.store.ListOpenTrades(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := viewsOf(recs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errUnavailable)
		return
	}
	rec, err := s.store.GetTrade(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := viewOf(rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleRecordTrade(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errUnavailable)
		return
	}
	var rec journal.TradeRecord
	if err := decodeJSON(r, &rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	if rec.OpenTime.IsZero() {
		rec.OpenTime = s.now()
	}

	tradeID, err := s.store.RecordTrade(r.Context(), rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info().Str("trade_id", tradeID).Str("symbol", rec.Symbol).Msg("trade recorded")
	writeJSON(w, http.StatusCreated, map[string]string{"tradeId": tradeID})
}

type closeRequest struct {
	ExitPrice float64   `json:"exitPrice"`
	CloseTime time.Time `json:"closeTime,omitempty"`
}

func (s *Server) handleCloseTrade(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errUnavailable)
		return
	}
	var req closeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	at := req.CloseTime
	if at.IsZero() {
		at = s.now()
	}

	rec, err := s.store.CloseTrade(r.Context(), chi.URLParam(r, "id"), req.ExitPrice, at)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := viewOf(rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info().Str("trade_id", rec.TradeID).Float64("net", v.Pnl.NetPnl).Msg("trade closed")
	writeJSON(w, http.StatusOK, v)
}

// handleStats summarizes trades closed between from and to, inclusive
// calendar days. Both default to today.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errUnavailable)
		return
	}
	q := r.URL.Query()
	to := q.Get("to")
	from := q.Get("from")
	if from == "" {
		from = to
	}

	start, _, err := s.dayRange(from)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_, end, err := s.dayRange(to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !end.After(start) {
		s.writeError(w, r, badRequest("from must not be after to"))
		return
	}

	recs, err := s.store.ListTradesClosedBetween(r.Context(), start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sum, err := journal.Summarize(recs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
