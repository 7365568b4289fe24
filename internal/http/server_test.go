package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/services"
)

type fakeSuggester struct {
	category string
	err      error
}

func (f *fakeSuggester) SuggestCategory(ctx context.Context, description string, catalog []core.Category) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.category, nil
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	svc := services.NewLedgerService(ledger.New(ledger.Options{}), nil, nil)
	s := NewServer(":0", svc, &fakeSuggester{category: "food"}, nil)
	ts := httptest.NewServer(s.Server.Handler)
	t.Cleanup(func() {
		ts.Close()
		s.Shutdown(context.Background())
	})
	return s, ts
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func createAccount(t *testing.T, base, name string, cents int64) accountResponse {
	t.Helper()
	resp := doJSON(t, http.MethodPost, base+"/api/accounts", accountRequest{
		Name:                name,
		InitialBalanceCents: cents,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create account: status %d", resp.StatusCode)
	}
	return decodeBody[accountResponse](t, resp)
}

func createTransaction(t *testing.T, base string, req transactionRequest) transactionResponse {
	t.Helper()
	resp := doJSON(t, http.MethodPost, base+"/api/transactions", req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create transaction: status %d", resp.StatusCode)
	}
	return decodeBody[transactionResponse](t, resp)
}

func TestHealthEndpoints(t *testing.T) {
	_, ts := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: status %d", path, resp.StatusCode)
		}
	}
}

func TestAccountLifecycle(t *testing.T) {
	_, ts := newTestServer(t)

	acc := createAccount(t, ts.URL, "Cash", 100000)
	if acc.ID == "" || acc.BalanceCents != 100000 {
		t.Fatalf("unexpected account: %+v", acc)
	}

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/accounts/"+acc.ID, accountRequest{
		Name:                "Wallet",
		InitialBalanceCents: 120000,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update account: status %d", resp.StatusCode)
	}
	updated := decodeBody[accountResponse](t, resp)
	if updated.Name != "Wallet" || updated.BalanceCents != 120000 {
		t.Errorf("unexpected updated account: %+v", updated)
	}

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/accounts/"+acc.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete account: status %d", resp.StatusCode)
	}

	listResp, _ := http.Get(ts.URL + "/api/accounts")
	accounts := decodeBody[[]accountResponse](t, listResp)
	if len(accounts) != 0 {
		t.Errorf("expected no accounts, got %d", len(accounts))
	}
}

func TestCreateAccountValidation(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name string
		req  accountRequest
	}{
		{"short name", accountRequest{Name: "a", InitialBalanceCents: 0}},
		{"negative balance", accountRequest{Name: "Cash", InitialBalanceCents: -100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, ts.URL+"/api/accounts", tt.req)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestTransactionLifecycle(t *testing.T) {
	_, ts := newTestServer(t)
	acc := createAccount(t, ts.URL, "Cash", 100000)

	tx := createTransaction(t, ts.URL, transactionRequest{
		Type:        "expense",
		AmountCents: 20000,
		Date:        "2025-06-10",
		Category:    "food",
		Description: "lunch",
		AccountID:   acc.ID,
	})
	if tx.ID == "" {
		t.Fatal("expected transaction id")
	}

	// Balance reflects the debit.
	resp, _ := http.Get(ts.URL + "/api/accounts/" + acc.ID)
	got := decodeBody[accountResponse](t, resp)
	if got.BalanceCents != 80000 {
		t.Errorf("expected balance 80000, got %d", got.BalanceCents)
	}

	// Edit raises the amount.
	resp = doJSON(t, http.MethodPut, ts.URL+"/api/transactions/"+tx.ID, transactionRequest{
		Type:        "expense",
		AmountCents: 30000,
		Date:        "2025-06-10",
		Category:    "food",
		AccountID:   acc.ID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update transaction: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Get(ts.URL + "/api/accounts/" + acc.ID)
	got = decodeBody[accountResponse](t, resp)
	if got.BalanceCents != 70000 {
		t.Errorf("expected balance 70000 after edit, got %d", got.BalanceCents)
	}

	// Delete restores the balance.
	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/transactions/"+tx.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete transaction: status %d", resp.StatusCode)
	}

	resp, _ = http.Get(ts.URL + "/api/accounts/" + acc.ID)
	got = decodeBody[accountResponse](t, resp)
	if got.BalanceCents != 100000 {
		t.Errorf("expected balance 100000 after delete, got %d", got.BalanceCents)
	}
}

func TestCreateTransactionUnknownAccount(t *testing.T) {
	_, ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/transactions", transactionRequest{
		Type:        "expense",
		AmountCents: 1000,
		Date:        "2025-06-10",
		Category:    "food",
		AccountID:   "missing",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListTransactionsFilters(t *testing.T) {
	_, ts := newTestServer(t)
	cash := createAccount(t, ts.URL, "Cash", 100000)
	wallet := createAccount(t, ts.URL, "Wallet", 100000)

	createTransaction(t, ts.URL, transactionRequest{
		Type: "expense", AmountCents: 1000, Date: "2025-06-10", Category: "food", AccountID: cash.ID,
	})
	createTransaction(t, ts.URL, transactionRequest{
		Type: "income", AmountCents: 5000, Date: "2025-06-11", Category: "salary", AccountID: wallet.ID,
	})

	resp, _ := http.Get(fmt.Sprintf("%s/api/transactions?account_id=%s", ts.URL, cash.ID))
	txs := decodeBody[[]transactionResponse](t, resp)
	if len(txs) != 1 || txs[0].AccountID != cash.ID {
		t.Errorf("account filter: got %+v", txs)
	}

	resp, _ = http.Get(ts.URL + "/api/transactions?type=income")
	txs = decodeBody[[]transactionResponse](t, resp)
	if len(txs) != 1 || txs[0].Type != "income" {
		t.Errorf("type filter: got %+v", txs)
	}

	resp, _ = http.Get(ts.URL + "/api/transactions?from=2025-06-11&to=2025-06-11")
	txs = decodeBody[[]transactionResponse](t, resp)
	if len(txs) != 1 || txs[0].Category != "salary" {
		t.Errorf("range filter: got %+v", txs)
	}

	resp, _ = http.Get(ts.URL + "/api/transactions?period=bogus")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown period, got %d", resp.StatusCode)
	}
}

func TestSummary(t *testing.T) {
	_, ts := newTestServer(t)
	acc := createAccount(t, ts.URL, "Cash", 100000)

	createTransaction(t, ts.URL, transactionRequest{
		Type: "expense", AmountCents: 10000, Date: "2025-06-10", Category: "food", AccountID: acc.ID,
	})
	createTransaction(t, ts.URL, transactionRequest{
		Type: "income", AmountCents: 50000, Date: "2025-06-11", Category: "salary", AccountID: acc.ID,
	})

	resp, _ := http.Get(ts.URL + "/api/summary")
	sum := decodeBody[summaryResponse](t, resp)
	if sum.ExpenseCents != 10000 || sum.IncomeCents != 50000 {
		t.Errorf("unexpected totals: %+v", sum)
	}
	if sum.TotalBalanceCents != 140000 {
		t.Errorf("expected total balance 140000, got %d", sum.TotalBalanceCents)
	}
	if sum.ByCategoryCents["food"] != 10000 {
		t.Errorf("expected food 10000, got %d", sum.ByCategoryCents["food"])
	}

	resp, _ = http.Get(ts.URL + "/api/summary?period=bogus")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown period, got %d", resp.StatusCode)
	}
}

func TestSummaryCacheInvalidation(t *testing.T) {
	_, ts := newTestServer(t)
	acc := createAccount(t, ts.URL, "Cash", 100000)

	resp, _ := http.Get(ts.URL + "/api/summary")
	first := decodeBody[summaryResponse](t, resp)
	if first.ExpenseCents != 0 {
		t.Fatalf("expected empty summary, got %+v", first)
	}

	createTransaction(t, ts.URL, transactionRequest{
		Type: "expense", AmountCents: 500, Date: "2025-06-10", Category: "food", AccountID: acc.ID,
	})

	resp, _ = http.Get(ts.URL + "/api/summary")
	second := decodeBody[summaryResponse](t, resp)
	if second.ExpenseCents != 500 {
		t.Errorf("expected cache invalidated, got expense %d", second.ExpenseCents)
	}
}

func TestBudgets(t *testing.T) {
	_, ts := newTestServer(t)

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/budgets", budgetRequest{
		Category:    "food",
		BudgetCents: 30000,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set budget: status %d", resp.StatusCode)
	}

	listResp, _ := http.Get(ts.URL + "/api/budgets")
	budgets := decodeBody[[]budgetLine](t, listResp)
	if len(budgets) != 1 || budgets[0].Category != "food" || budgets[0].BudgetCents != 30000 {
		t.Errorf("unexpected budgets: %+v", budgets)
	}

	resp = doJSON(t, http.MethodPut, ts.URL+"/api/budgets", budgetRequest{
		Category:    "not-a-category",
		BudgetCents: 1000,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown category, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, ts.URL+"/api/budgets", budgetRequest{
		Category:    "food",
		BudgetCents: -5,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for negative budget, got %d", resp.StatusCode)
	}
}

func TestCategories(t *testing.T) {
	_, ts := newTestServer(t)

	resp, _ := http.Get(ts.URL + "/api/categories?type=income")
	cats := decodeBody[[]categoryResponse](t, resp)
	if len(cats) == 0 {
		t.Fatal("expected default income categories")
	}

	addResp := doJSON(t, http.MethodPost, ts.URL+"/api/categories", categoryRequest{
		Type:  "expense",
		Value: "pets",
		Label: "Pets",
	})
	addResp.Body.Close()
	if addResp.StatusCode != http.StatusCreated {
		t.Fatalf("add category: status %d", addResp.StatusCode)
	}

	resp, _ = http.Get(ts.URL + "/api/categories?type=expense")
	cats = decodeBody[[]categoryResponse](t, resp)
	found := false
	for _, cat := range cats {
		if cat.Value == "pets" {
			found = true
		}
	}
	if !found {
		t.Error("expected pets category in catalog")
	}
}

func TestExportAndClear(t *testing.T) {
	_, ts := newTestServer(t)
	acc := createAccount(t, ts.URL, "Cash", 100000)
	createTransaction(t, ts.URL, transactionRequest{
		Type: "expense", AmountCents: 1000, Date: "2025-06-10", Category: "food", AccountID: acc.ID,
	})

	resp, _ := http.Get(ts.URL + "/api/export")
	export := decodeBody[exportResponse](t, resp)
	if len(export.Accounts) != 1 || len(export.Transactions) != 1 {
		t.Errorf("unexpected export: %+v", export)
	}

	clearResp := doJSON(t, http.MethodPost, ts.URL+"/api/clear", nil)
	clearResp.Body.Close()
	if clearResp.StatusCode != http.StatusOK {
		t.Fatalf("clear: status %d", clearResp.StatusCode)
	}

	resp, _ = http.Get(ts.URL + "/api/export")
	export = decodeBody[exportResponse](t, resp)
	if len(export.Accounts) != 0 || len(export.Transactions) != 0 {
		t.Errorf("expected empty export after clear, got %+v", export)
	}
}

func TestLogin(t *testing.T) {
	_, ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/login", loginRequest{
		Username: "demo",
		Password: "demo",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d", resp.StatusCode)
	}
	foundCookie := false
	for _, c := range resp.Cookies() {
		if c.Name == "fintrack_user" && c.Value == "demo" {
			foundCookie = true
		}
	}
	if !foundCookie {
		t.Error("expected fintrack_user cookie on login")
	}
	out := decodeBody[loginResponse](t, resp)
	if out.Token == "" || out.Username != "demo" {
		t.Errorf("unexpected login response: %+v", out)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/login", loginRequest{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for missing credentials, got %d", resp.StatusCode)
	}
}

func TestCategorySummary(t *testing.T) {
	_, ts := newTestServer(t)
	acc := createAccount(t, ts.URL, "Cash", 100000)

	createTransaction(t, ts.URL, transactionRequest{
		Type: "expense", AmountCents: 10000, Date: "2025-06-10", Category: "food", AccountID: acc.ID,
	})
	createTransaction(t, ts.URL, transactionRequest{
		Type: "expense", AmountCents: 5000, Date: "2025-06-11", Category: "transport", AccountID: acc.ID,
	})
	createTransaction(t, ts.URL, transactionRequest{
		Type: "income", AmountCents: 50000, Date: "2025-06-11", Category: "salary", AccountID: acc.ID,
	})

	resp, _ := http.Get(ts.URL + "/api/summary/categories?type=expense")
	byCategory := decodeBody[map[string]int64](t, resp)
	if byCategory["food"] != 10000 || byCategory["transport"] != 5000 {
		t.Errorf("unexpected expense breakdown: %v", byCategory)
	}
	if _, ok := byCategory["salary"]; ok {
		t.Error("income category leaked into expense breakdown")
	}

	resp, _ = http.Get(ts.URL + "/api/summary/categories?type=income")
	byCategory = decodeBody[map[string]int64](t, resp)
	if byCategory["salary"] != 50000 {
		t.Errorf("expected salary 50000, got %d", byCategory["salary"])
	}
}

func TestBudgetSummary(t *testing.T) {
	_, ts := newTestServer(t)
	acc := createAccount(t, ts.URL, "Cash", 100000)

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/categories/food/budget", categoryBudgetRequest{
		BudgetCents: 30000,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set budget: status %d", resp.StatusCode)
	}
	line := decodeBody[budgetLine](t, resp)
	if line.Category != "food" || line.BudgetCents != 30000 {
		t.Fatalf("unexpected budget response: %+v", line)
	}

	today := time.Now().Format("2006-01-02")
	createTransaction(t, ts.URL, transactionRequest{
		Type: "expense", AmountCents: 12000, Date: today, Category: "food", AccountID: acc.ID,
	})

	listResp, _ := http.Get(ts.URL + "/api/summary/budgets")
	lines := decodeBody[[]budgetLine](t, listResp)
	if len(lines) != 1 || lines[0].Category != "food" {
		t.Fatalf("unexpected budget lines: %+v", lines)
	}
	if lines[0].SpentCents != 12000 {
		t.Errorf("expected spent 12000, got %d", lines[0].SpentCents)
	}

	resp = doJSON(t, http.MethodPut, ts.URL+"/api/categories/not-a-category/budget", categoryBudgetRequest{
		BudgetCents: 1000,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown category, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, ts.URL+"/api/categories/food", categoryBudgetRequest{BudgetCents: 1})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for malformed path, got %d", resp.StatusCode)
	}
}

func TestLogout(t *testing.T) {
	_, ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/logout", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("logout: status %d", resp.StatusCode)
	}

	getResp, _ := http.Get(ts.URL + "/api/logout")
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for GET logout, got %d", getResp.StatusCode)
	}
}

func TestSuggestCategory(t *testing.T) {
	_, ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/suggest-category", suggestRequest{
		Description: "UBER TRIP",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("suggest: status %d", resp.StatusCode)
	}
	out := decodeBody[suggestResponse](t, resp)
	if out.Category != "food" {
		t.Errorf("expected fake suggestion food, got %q", out.Category)
	}
}

func TestSuggestCategoryUnavailable(t *testing.T) {
	svc := services.NewLedgerService(ledger.New(ledger.Options{}), nil, nil)
	s := NewServer(":0", svc, nil, nil)
	ts := httptest.NewServer(s.Server.Handler)
	defer ts.Close()
	defer s.Shutdown(context.Background())

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/suggest-category", suggestRequest{
		Description: "anything",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without suggester, got %d", resp.StatusCode)
	}
}
