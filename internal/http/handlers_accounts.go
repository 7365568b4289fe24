package http

import (
	"net/http"

	"fintrack/internal/core"
)

type accountRequest struct {
	Name                string `json:"name"`
	InitialBalanceCents int64  `json:"initial_balance_cents"`
}

type accountResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	InitialBalanceCents int64  `json:"initial_balance_cents"`
	BalanceCents        int64  `json:"balance_cents"`
}

func toAccountResponse(acc core.Account) accountResponse {
	return accountResponse{
		ID:                  acc.ID,
		Name:                acc.Name,
		InitialBalanceCents: acc.InitialBalance.Cents,
		BalanceCents:        acc.Balance.Cents,
	}
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		accounts := s.svc.Accounts()
		out := make([]accountResponse, 0, len(accounts))
		for _, acc := range accounts {
			out = append(out, toAccountResponse(acc))
		}
		respondJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req accountRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		acc, err := s.svc.CreateAccount(r.Context(), sanitizeInput(req.Name),
			core.Money{Cents: req.InitialBalanceCents})
		if err != nil {
			respondDomainError(w, err)
			return
		}
		s.invalidateSummaries()
		respondJSON(w, http.StatusCreated, toAccountResponse(acc))

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAccountByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/accounts/")
	if id == "" {
		http.Error(w, "missing account id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		acc, err := s.svc.Account(id)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, toAccountResponse(acc))

	case http.MethodPut:
		var req accountRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		acc, err := s.svc.UpdateAccount(r.Context(), id, sanitizeInput(req.Name),
			core.Money{Cents: req.InitialBalanceCents})
		if err != nil {
			respondDomainError(w, err)
			return
		}
		s.invalidateSummaries()
		respondJSON(w, http.StatusOK, toAccountResponse(acc))

	case http.MethodDelete:
		if err := s.svc.DeleteAccount(r.Context(), id); err != nil {
			respondDomainError(w, err)
			return
		}
		s.invalidateSummaries()
		respondJSON(w, http.StatusNoContent, nil)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
