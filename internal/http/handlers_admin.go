package http

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fintrack/internal/core"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// handleLogin issues an opaque session token. There is no account system,
// any non-empty credentials are accepted.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusUnauthorized, errors.New("missing credentials"))
		return
	}

	token := make([]byte, 16)
	if _, err := rand.Read(token); err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Errorf("issue token: %w", err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "fintrack_user",
		Value:    req.Username,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, loginResponse{
		Token:    hex.EncodeToString(token),
		Username: req.Username,
	})
}

// handleLogout clears the current-user cookie. Tokens are opaque and
// stateless so there is nothing else to revoke server side.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "fintrack_user",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

type categoryResponse struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Icon        string `json:"icon,omitempty"`
	BudgetCents int64  `json:"budget_cents,omitempty"`
}

type categoryRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		typ := core.TransactionType(r.URL.Query().Get("type"))
		if typ == "" {
			typ = core.Expense
		}
		cats := s.svc.Categories(typ)
		out := make([]categoryResponse, 0, len(cats))
		for _, cat := range cats {
			out = append(out, categoryResponse{
				Value:       cat.Value,
				Label:       cat.Label,
				Icon:        cat.Icon,
				BudgetCents: cat.Budget.Cents,
			})
		}
		respondJSON(w, http.StatusOK, out)

	case http.MethodPost, http.MethodPut:
		var req categoryRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		cat := core.Category{
			Value: sanitizeInput(req.Value),
			Label: sanitizeInput(req.Label),
			Icon:  req.Icon,
		}
		if err := s.svc.AddCategory(core.TransactionType(req.Type), cat); err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, categoryResponse{
			Value: cat.Value,
			Label: cat.Label,
			Icon:  cat.Icon,
		})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type categoryBudgetRequest struct {
	BudgetCents int64 `json:"budget_cents"`
}

// handleCategoryBudget sets the monthly budget for a single category,
// addressed as /api/categories/{value}/budget.
func (s *Server) handleCategoryBudget(w http.ResponseWriter, r *http.Request) {
	rest := pathID(r.URL.Path, "/api/categories/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "budget" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req categoryBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	category := sanitizeInput(parts[0])
	if err := s.svc.SetBudget(r.Context(), category, core.Money{Cents: req.BudgetCents}); err != nil {
		respondDomainError(w, err)
		return
	}
	s.invalidateSummaries()
	respondJSON(w, http.StatusOK, budgetLine{Category: category, BudgetCents: req.BudgetCents})
}

type budgetRequest struct {
	Category    string `json:"category"`
	BudgetCents int64  `json:"budget_cents"`
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cats := s.svc.Categories(core.Expense)
		out := make([]budgetLine, 0)
		for _, cat := range cats {
			if cat.Budget.Cents > 0 {
				out = append(out, budgetLine{Category: cat.Value, BudgetCents: cat.Budget.Cents})
			}
		}
		respondJSON(w, http.StatusOK, out)

	case http.MethodPut, http.MethodPost:
		var req budgetRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		if err := s.svc.SetBudget(r.Context(), sanitizeInput(req.Category),
			core.Money{Cents: req.BudgetCents}); err != nil {
			respondDomainError(w, err)
			return
		}
		s.invalidateSummaries()
		respondJSON(w, http.StatusOK, budgetRequest{
			Category:    req.Category,
			BudgetCents: req.BudgetCents,
		})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type exportResponse struct {
	Accounts     []accountResponse     `json:"accounts"`
	Transactions []transactionResponse `json:"transactions"`
	Budgets      []budgetLine          `json:"budgets"`
}

// handleExport dumps the full ledger state as JSON.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := s.svc.Snapshot()
	resp := exportResponse{
		Accounts:     make([]accountResponse, 0, len(snap.Accounts)),
		Transactions: make([]transactionResponse, 0, len(snap.Transactions)),
		Budgets:      make([]budgetLine, 0),
	}
	for _, acc := range snap.Accounts {
		resp.Accounts = append(resp.Accounts, toAccountResponse(acc))
	}
	for _, tx := range snap.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(tx))
	}
	for _, cat := range s.svc.Categories(core.Expense) {
		if cat.Budget.Cents > 0 {
			resp.Budgets = append(resp.Budgets, budgetLine{Category: cat.Value, BudgetCents: cat.Budget.Cents})
		}
	}

	w.Header().Set("Content-Disposition", `attachment; filename="fintrack-export.json"`)
	respondJSON(w, http.StatusOK, resp)
}

// handleClear wipes all ledger state.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.svc.ClearAll(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.invalidateSummaries()
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

type suggestRequest struct {
	Description string `json:"description"`
}

type suggestResponse struct {
	Category string `json:"category"`
}

func (s *Server) handleSuggestCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.suggester == nil {
		respondError(w, http.StatusServiceUnavailable, errors.New("suggestion service not configured"))
		return
	}

	var req suggestRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	category, err := s.suggester.SuggestCategory(r.Context(),
		sanitizeInput(req.Description), s.svc.Categories(core.Expense))
	if err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	respondJSON(w, http.StatusOK, suggestResponse{Category: category})
}
