package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finsight/internal/insights"
	"finsight/internal/middleware/ratelimit"
	"finsight/internal/services"
	"finsight/internal/store/memory"
)

type fakeAdvisor struct {
	answer string
}

func (f *fakeAdvisor) Chat(_ context.Context, _ string, _ insights.Dashboard) (string, error) {
	return f.answer, nil
}

func newTestServer(t *testing.T, adv Advisor) *Server {
	t.Helper()
	st := memory.New()
	s := NewServer(":0", Deps{
		Transactions: services.NewTransactionService(st, nil),
		Goals:        services.NewGoalService(st, nil),
		Advisor:      adv,
		BudgetCents:  250000,
		RateLimit:    ratelimit.Config{RequestsPerSecond: 1000, Burst: 1000},
	})
	s.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "203.0.113.7:4321"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestTransactionLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/transactions", createTransactionRequest{
		Date:     "2024-03-05",
		Type:     "expense",
		Amount:   "800.00",
		Category: "rent",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[transactionView](t, rec)
	if created.ID == "" || created.AmountCents != 80000 {
		t.Fatalf("unexpected created view: %+v", created)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/transactions?month=2024-03", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	list := decodeBody[struct {
		Month        string            `json:"month"`
		Transactions []transactionView `json:"transactions"`
	}](t, rec)
	if list.Month != "2024-03" || len(list.Transactions) != 1 {
		t.Fatalf("unexpected list: %+v", list)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
}

func TestCreateTransactionRejectsBadInput(t *testing.T) {
	s := newTestServer(t, nil)

	cases := []createTransactionRequest{
		{Date: "bad", Type: "expense", Amount: "10.00", Category: "x"},
		{Date: "2024-03-05", Type: "transfer", Amount: "10.00", Category: "x"},
		{Date: "2024-03-05", Type: "expense", Amount: "not-a-number", Category: "x"},
		{Date: "2024-03-05", Type: "expense", Amount: "10.00", Category: ""},
	}
	for i, req := range cases {
		rec := doJSON(t, s, http.MethodPost, "/api/transactions", req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, rec.Code)
		}
	}
}

func TestDashboardWorkedExample(t *testing.T) {
	s := newTestServer(t, nil)

	seed := []createTransactionRequest{
		{Date: "2024-03-01", Type: "income", Amount: "3000.00", Category: "salary"},
		{Date: "2024-03-05", Type: "expense", Amount: "800.00", Category: "rent"},
	}
	for _, req := range seed {
		if rec := doJSON(t, s, http.MethodPost, "/api/transactions", req); rec.Code != http.StatusCreated {
			t.Fatalf("seed: expected 201, got %d", rec.Code)
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/api/dashboard?month=2024-03", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", rec.Code)
	}
	dash := decodeBody[dashboardView](t, rec)

	m := dash.Metrics
	if m.IncomeCents != 300000 || m.ExpenseCents != 80000 {
		t.Fatalf("unexpected totals: %+v", m)
	}
	if m.UsedPercent < 31.99 || m.UsedPercent > 32.01 || m.RemainingCents != 170000 {
		t.Fatalf("unexpected budget figures: %+v", m)
	}
	if len(dash.Insights) != 5 {
		t.Fatalf("expected 5 insights, got %d", len(dash.Insights))
	}
	if len(dash.Pie) != 3 {
		t.Fatalf("expected 3 pie slices, got %d", len(dash.Pie))
	}
}

func TestDashboardDefaultsToCurrentMonth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodGet, "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	dash := decodeBody[dashboardView](t, rec)
	if dash.Metrics.Month != "2024-03" {
		t.Fatalf("expected clock month 2024-03, got %s", dash.Metrics.Month)
	}
}

func TestDashboardRejectsBadMonth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(t, s, http.MethodGet, "/api/dashboard?month=march", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDashboardCacheInvalidatedByWrite(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodGet, "/api/dashboard?month=2024-03", nil)
	before := decodeBody[dashboardView](t, rec)
	if before.Metrics.ExpenseCents != 0 {
		t.Fatalf("expected empty month, got %+v", before.Metrics)
	}

	doJSON(t, s, http.MethodPost, "/api/transactions", createTransactionRequest{
		Date: "2024-03-10", Type: "expense", Amount: "50.00", Category: "food",
	})

	rec = doJSON(t, s, http.MethodGet, "/api/dashboard?month=2024-03", nil)
	after := decodeBody[dashboardView](t, rec)
	if after.Metrics.ExpenseCents != 5000 {
		t.Fatalf("expected cache refresh after write, got %+v", after.Metrics)
	}
}

func TestInsightsRotation(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodGet, "/api/insights?month=2024-03&index=7", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody[insightsResponse](t, rec)
	if len(resp.Insights) != 5 {
		t.Fatalf("expected 5 insights, got %d", len(resp.Insights))
	}
	if resp.Index == nil || *resp.Index != 2 {
		t.Fatalf("expected index 7 to wrap to 2, got %v", resp.Index)
	}
	if resp.Current == nil || resp.Current.Type != resp.Insights[2].Type {
		t.Fatalf("current should match wrapped index: %+v", resp)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/insights?month=2024-03&index=-1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative index: expected 400, got %d", rec.Code)
	}
}

func TestGoalLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/goals", goalRequest{
		Name: "Emergency Fund", Current: "500.00", Target: "1000.00",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[goalView](t, rec)
	if created.Progress != 50.0 {
		t.Fatalf("expected 50%% progress, got %f", created.Progress)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/goals/"+created.ID, goalRequest{
		Name: "Emergency Fund", Current: "750.00", Target: "1000.00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/goals/"+created.ID, nil)
	got := decodeBody[goalView](t, rec)
	if got.CurrentCents != 75000 {
		t.Fatalf("expected updated current, got %+v", got)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/goals/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodDelete, "/api/goals/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("double delete: expected 404, got %d", rec.Code)
	}
}

func TestGoalChangeRefreshesInsights(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodGet, "/api/dashboard?month=2024-03", nil)
	before := decodeBody[dashboardView](t, rec)
	if before.Insights[2].Message != "No savings goals yet. Create a goal to start tracking your progress." {
		t.Fatalf("expected goal fallback insight, got %q", before.Insights[2].Message)
	}

	doJSON(t, s, http.MethodPost, "/api/goals", goalRequest{Name: "Trip", Current: "250.00", Target: "1000.00"})

	rec = doJSON(t, s, http.MethodGet, "/api/dashboard?month=2024-03", nil)
	after := decodeBody[dashboardView](t, rec)
	if after.Insights[2].Message == before.Insights[2].Message {
		t.Fatalf("goal insight should change after goal creation")
	}
}

func TestAdvisorChat(t *testing.T) {
	s := newTestServer(t, &fakeAdvisor{answer: "Spend less on rent."})

	rec := doJSON(t, s, http.MethodPost, "/api/advisor/chat", chatRequest{
		Question: "How am I doing?", Month: "2024-03",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[chatResponse](t, rec)
	if resp.Answer != "Spend less on rent." || resp.Month != "2024-03" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAdvisorChatUnconfigured(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/advisor/chat", chatRequest{Question: "Help"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestAdvisorChatRequiresQuestion(t *testing.T) {
	s := newTestServer(t, &fakeAdvisor{answer: "x"})

	rec := doJSON(t, s, http.MethodPost, "/api/advisor/chat", chatRequest{Question: "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
