package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

type transactionRequest struct {
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Note        string `json:"note,omitempty"`
	AccountID   string `json:"account_id"`
	Payee       string `json:"payee,omitempty"`
	PaymentType string `json:"payment_type,omitempty"`
	Status      string `json:"status,omitempty"`
	Location    string `json:"location,omitempty"`
	Photo       string `json:"photo,omitempty"`
}

type transactionResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Note        string `json:"note,omitempty"`
	AccountID   string `json:"account_id"`
	Payee       string `json:"payee,omitempty"`
	PaymentType string `json:"payment_type,omitempty"`
	Status      string `json:"status,omitempty"`
	Location    string `json:"location,omitempty"`
	Photo       string `json:"photo,omitempty"`
}

func (req transactionRequest) toTransaction() (core.Transaction, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Type:        core.TransactionType(req.Type),
		Amount:      core.Money{Cents: req.AmountCents},
		Date:        date,
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Note:        sanitizeInput(req.Note),
		AccountID:   req.AccountID,
		Payee:       sanitizeInput(req.Payee),
		PaymentType: sanitizeInput(req.PaymentType),
		Status:      sanitizeInput(req.Status),
		Location:    sanitizeInput(req.Location),
		Photo:       req.Photo,
	}, nil
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		AmountCents: tx.Amount.Cents,
		Date:        tx.Date.Format(time.RFC3339),
		Category:    tx.Category,
		Description: tx.Description,
		Note:        tx.Note,
		AccountID:   tx.AccountID,
		Payee:       tx.Payee,
		PaymentType: tx.PaymentType,
		Status:      tx.Status,
		Location:    tx.Location,
		Photo:       tx.Photo,
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)

	case http.MethodPost:
		var req transactionRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		tx, err := req.toTransaction()
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		created, err := s.svc.CreateTransaction(r.Context(), tx)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		s.invalidateSummaries()
		respondJSON(w, http.StatusCreated, toTransactionResponse(created))

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// listTransactions applies optional query filters: account_id, type,
// category, period (today|week|month) or an explicit from/to range.
func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	accountID := q.Get("account_id")
	typ := q.Get("type")
	category := q.Get("category")

	txs := s.svc.Transactions(func(tx core.Transaction) bool {
		if accountID != "" && tx.AccountID != accountID {
			return false
		}
		if typ != "" && string(tx.Type) != typ {
			return false
		}
		if category != "" && tx.Category != category {
			return false
		}
		return true
	})

	if period := q.Get("period"); period != "" {
		filtered, err := report.FilterByPeriod(txs, report.Period(period), time.Now())
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		txs = filtered
	} else if from := q.Get("from"); from != "" {
		start, err := parseDate(from)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		var end time.Time
		if to := q.Get("to"); to != "" {
			if end, err = parseDate(to); err != nil {
				respondError(w, http.StatusBadRequest, err)
				return
			}
		}
		if txs, err = report.FilterByDateRange(txs, start, end); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/transactions/")
	if id == "" {
		http.Error(w, "missing transaction id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req transactionRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		tx, err := req.toTransaction()
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		updated, err := s.svc.UpdateTransaction(r.Context(), id, tx)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		s.invalidateSummaries()
		respondJSON(w, http.StatusOK, toTransactionResponse(updated))

	case http.MethodDelete:
		if err := s.svc.DeleteTransaction(r.Context(), id); err != nil {
			respondDomainError(w, err)
			return
		}
		s.invalidateSummaries()
		respondJSON(w, http.StatusNoContent, nil)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
