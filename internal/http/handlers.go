package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"tally/internal/codec"
	"tally/internal/core"
	"tally/internal/events"
	"tally/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Response encoding failed", log.FieldError, err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// handleListTransactions returns the filtered collection, both the raw
// records and display rows in the selected currency.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	txs := core.Filter(s.ledger.List(), q.Get("search"), q.Get("category"), q.Get("type"))
	display := s.ledger.Currency()

	s.writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"rows":         s.view.Rows(txs, display),
		"currency":     display,
	})
}

type createTransactionRequest struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

// amountValue accepts both a JSON number and a string form value; anything
// unparseable is recorded as zero.
func (req createTransactionRequest) amountValue() float64 {
	var n float64
	if err := json.Unmarshal(req.Amount, &n); err == nil {
		return n
	}
	var str string
	if err := json.Unmarshal(req.Amount, &str); err == nil {
		return core.ParseAmount(str)
	}
	return 0
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	in := core.TransactionInput{
		Type:        core.TransactionType(req.Type),
		Description: sanitizeInput(req.Description),
		Amount:      req.amountValue(),
		Category:    sanitizeInput(req.Category),
		Date:        strings.TrimSpace(req.Date),
	}
	if err := in.Validate(); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	tx, err := s.ledger.Add(r.Context(), in)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Transaction create failed", log.FieldError, err.Error())
		s.writeError(w, http.StatusInternalServerError, "could not save transaction")
		return
	}

	s.publish(r, events.NewCreated(tx))
	s.writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := s.ledger.Remove(r.Context(), id); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Transaction delete failed",
			log.FieldError, err.Error(),
			log.FieldTxID, id)
		s.writeError(w, http.StatusInternalServerError, "could not delete transaction")
		return
	}

	s.publish(r, events.NewDeleted(id))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	txs := s.ledger.List()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"summary":  s.view.Summarize(txs, s.ledger.Currency()),
		"progress": s.view.GoalProgress(s.ledger.Goal(), txs),
	})
}

func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.view.Monthly(core.MonthlySeries(s.ledger.List())))
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.view.Categories(core.CategoryTotals(s.ledger.List())))
}

type goalRequest struct {
	Target float64 `json:"target"`
	Period string  `json:"period"`
}

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	goal := core.SavingsGoal{Target: req.Target, Period: req.Period}
	if err := s.ledger.SetGoal(r.Context(), goal); err != nil {
		if errors.Is(err, core.ErrInvalidGoal) {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Goal update failed", log.FieldError, err.Error())
		s.writeError(w, http.StatusInternalServerError, "could not save goal")
		return
	}

	s.writeJSON(w, http.StatusOK, s.view.GoalProgress(s.ledger.Goal(), s.ledger.List()))
}

func (s *Server) handleClearGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.ClearGoal(r.Context()); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Goal clear failed", log.FieldError, err.Error())
		s.writeError(w, http.StatusInternalServerError, "could not clear goal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type currencyRequest struct {
	Currency string `json:"currency"`
}

func (s *Server) handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	var req currencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.ledger.SetCurrency(r.Context(), req.Currency); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Currency update failed", log.FieldError, err.Error())
		s.writeError(w, http.StatusInternalServerError, "could not save currency")
		return
	}

	txs := s.ledger.List()
	display := s.ledger.Currency()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"currency": display,
		"summary":  s.view.Summarize(txs, display),
		"rows":     s.view.Rows(txs, display),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	doc := codec.Export(s.ledger.List(), s.ledger.Goal(), now)
	data, err := doc.Encode()
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Export encoding failed", log.FieldError, err.Error())
		s.writeError(w, http.StatusInternalServerError, "could not build export")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+codec.Filename(now)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleImport replaces the whole collection and, when present, the goal.
// A rejected document leaves live state untouched.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	txs, goal, err := codec.Decode(body)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.ledger.ReplaceAll(r.Context(), txs); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Import failed", log.FieldError, err.Error())
		s.writeError(w, http.StatusInternalServerError, "could not import transactions")
		return
	}
	if goal != nil {
		if err := s.ledger.SetGoal(r.Context(), *goal); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Imported goal rejected", log.FieldError, err.Error())
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"imported": len(txs)})
}

// sanitizeInput trims whitespace and strips control characters except tab,
// newline, and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// publish sends a ledger event; broker trouble is logged and never surfaces
// to the client.
func (s *Server) publish(r *http.Request, ev *events.TransactionEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransaction(r.Context(), ev); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Event publish failed",
			log.FieldError, err.Error(),
			"action", ev.Action)
	}
}
