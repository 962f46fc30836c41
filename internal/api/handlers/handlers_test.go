package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/confia-app/confia/internal/app"
	"github.com/confia-app/confia/internal/domain"
	"github.com/confia-app/confia/internal/jobs"
	"github.com/confia-app/confia/internal/jobs/inmemory"
	"github.com/confia-app/confia/internal/logger"
	"github.com/confia-app/confia/internal/session"
	"github.com/confia-app/confia/internal/store/local"
)

// newDemoApp returns an app running against a throwaway local store with
// demo mode already entered.
func newDemoApp(t *testing.T) *app.App {
	t.Helper()

	s, err := local.Open(filepath.Join(t.TempDir(), "confia.db"), logger.New())
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	sessions := session.NewManager([]byte("secret"))
	a := app.New(sessions, nil, s, logger.New())
	t.Cleanup(func() { a.Close() })

	sessions.EnterDemoMode()
	return a
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestCreateAndListCustomers(t *testing.T) {
	h := NewRecordsHandler(newDemoApp(t), logger.New())

	body := `{"name": "Padaria do João", "tax_id": "12.345.678/0001-90", "email": "joao@padaria.com"}`
	rec := httptest.NewRecorder()
	h.CreateCustomer(rec, httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created domain.Customer
	decodeBody(t, rec, &created)
	if created.ID == "" || created.Name != "Padaria do João" {
		t.Errorf("created = %+v", created)
	}

	rec = httptest.NewRecorder()
	h.ListCustomers(rec, httptest.NewRequest(http.MethodGet, "/api/customers", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	var listed []domain.Customer
	decodeBody(t, rec, &listed)
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Errorf("listed = %+v", listed)
	}
}

func TestCreateCustomerRejectsInvalidInput(t *testing.T) {
	h := NewRecordsHandler(newDemoApp(t), logger.New())

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{`},
		{"missing name", `{"tax_id": "123"}`},
		{"missing tax id", `{"name": "Loja"}`},
		{"bad email", `{"name": "Loja", "tax_id": "123", "email": "not-an-email"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.CreateCustomer(rec, httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestMutationsRequireAStore(t *testing.T) {
	sessions := session.NewManager([]byte("secret"))
	a := app.New(sessions, nil, nil, logger.New())
	t.Cleanup(func() { a.Close() })
	h := NewRecordsHandler(a, logger.New())

	rec := httptest.NewRecorder()
	body := `{"name": "Loja", "tax_id": "123"}`
	h.CreateCustomer(rec, httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}

	// Lists still answer, with empty collections.
	rec = httptest.NewRecorder()
	h.ListCustomers(rec, httptest.NewRequest(http.MethodGet, "/api/customers", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("list status = %d, want 200", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("list body = %q, want []", body)
	}
}

func TestDeleteTransaction(t *testing.T) {
	a := newDemoApp(t)
	h := NewRecordsHandler(a, logger.New())

	body := `{"kind": "expense", "amount": "150.00", "date": "2025-04-01", "category": "Insumos"}`
	rec := httptest.NewRecorder()
	h.CreateTransaction(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created domain.Transaction
	decodeBody(t, rec, &created)

	rec = httptest.NewRecorder()
	h.DeleteTransaction(rec, httptest.NewRequest(http.MethodDelete, "/api/transactions/"+created.ID, nil), created.ID)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	if got := a.Transactions(); len(got) != 0 {
		t.Errorf("transactions after delete = %+v", got)
	}
}

func TestStats(t *testing.T) {
	a := newDemoApp(t)
	h := NewRecordsHandler(a, logger.New())

	for _, body := range []string{
		`{"kind": "income", "amount": "1000", "date": "2025-04-01"}`,
		`{"kind": "expense", "amount": "400", "date": "2025-04-02"}`,
	} {
		rec := httptest.NewRecorder()
		h.CreateTransaction(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body)))
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}

	var resp struct {
		Stats struct {
			Balance      string `json:"balance"`
			TotalIncome  string `json:"total_income"`
			TotalExpense string `json:"total_expense"`
			NetProfit    string `json:"net_profit"`
		} `json:"stats"`
		Mode string `json:"mode"`
	}
	decodeBody(t, rec, &resp)

	if resp.Stats.Balance != "600" || resp.Stats.NetProfit != "600" {
		t.Errorf("stats = %+v", resp.Stats)
	}
	if resp.Stats.TotalIncome != "1000" || resp.Stats.TotalExpense != "400" {
		t.Errorf("stats = %+v", resp.Stats)
	}
	if resp.Mode != "local" {
		t.Errorf("mode = %q, want local", resp.Mode)
	}
}

type fakeChatter struct {
	reply   string
	gotMsg  string
	gotCtx  string
	wasUsed bool
}

func (f *fakeChatter) Chat(_ context.Context, message, contextText string) string {
	f.wasUsed = true
	f.gotMsg = message
	f.gotCtx = contextText
	return f.reply
}

type fakeArchive struct {
	uri string
	err error
}

func (f *fakeArchive) Save(_ context.Context, _ []byte, _ string) (string, error) {
	return f.uri, f.err
}

type fakePublisher struct {
	published *jobs.ScanReceiptJob
	err       error
}

func (f *fakePublisher) PublishScanReceipt(_ context.Context, job *jobs.ScanReceiptJob) error {
	if f.err != nil {
		return f.err
	}
	job.JobID = "job-1"
	job.Status = jobs.JobStatusPending
	f.published = job
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func TestChat(t *testing.T) {
	chatter := &fakeChatter{reply: "Seu saldo é positivo."}
	h := NewAssistantHandler(newDemoApp(t), chatter, &fakePublisher{}, nil, logger.New())

	rec := httptest.NewRecorder()
	h.Chat(rec, httptest.NewRequest(http.MethodPost, "/api/assistant/chat", strings.NewReader(`{"message": "Como estou?"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d", rec.Code)
	}

	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["reply"] != "Seu saldo é positivo." {
		t.Errorf("reply = %q", resp["reply"])
	}
	if chatter.gotMsg != "Como estou?" {
		t.Errorf("message passed = %q", chatter.gotMsg)
	}
	if !strings.Contains(chatter.gotCtx, "Saldo atual") {
		t.Errorf("context passed = %q", chatter.gotCtx)
	}
}

func TestChatRequiresMessage(t *testing.T) {
	h := NewAssistantHandler(newDemoApp(t), &fakeChatter{}, &fakePublisher{}, nil, logger.New())

	rec := httptest.NewRecorder()
	h.Chat(rec, httptest.NewRequest(http.MethodPost, "/api/assistant/chat", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestScanReceiptEnqueues(t *testing.T) {
	pub := &fakePublisher{}
	archive := &fakeArchive{uri: "gs://confia-receipts/receipts/2025-04-01/x.jpg"}
	h := NewAssistantHandler(newDemoApp(t), &fakeChatter{}, pub, archive, logger.New())

	req := httptest.NewRequest(http.MethodPost, "/api/assistant/receipt", bytes.NewReader([]byte("jpeg-bytes")))
	req.Header.Set("Content-Type", "image/jpeg")

	rec := httptest.NewRecorder()
	h.ScanReceipt(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["job_id"] != "job-1" {
		t.Errorf("job_id = %q", resp["job_id"])
	}

	if pub.published == nil {
		t.Fatal("no job published")
	}
	if pub.published.MIMEType != "image/jpeg" || string(pub.published.Image) != "jpeg-bytes" {
		t.Errorf("published job = %+v", pub.published)
	}
	if pub.published.ObjectURI != archive.uri {
		t.Errorf("object URI = %q, want %q", pub.published.ObjectURI, archive.uri)
	}
}

func TestScanReceiptSurvivesArchiveFailure(t *testing.T) {
	pub := &fakePublisher{}
	h := NewAssistantHandler(newDemoApp(t), &fakeChatter{}, pub, &fakeArchive{err: errors.New("bucket gone")}, logger.New())

	req := httptest.NewRequest(http.MethodPost, "/api/assistant/receipt", bytes.NewReader([]byte("jpeg-bytes")))
	req.Header.Set("Content-Type", "image/jpeg")

	rec := httptest.NewRecorder()
	h.ScanReceipt(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if pub.published == nil || pub.published.ObjectURI != "" {
		t.Errorf("published job = %+v", pub.published)
	}
}

func TestScanReceiptRejectsEmptyBody(t *testing.T) {
	h := NewAssistantHandler(newDemoApp(t), &fakeChatter{}, &fakePublisher{}, nil, logger.New())

	req := httptest.NewRequest(http.MethodPost, "/api/assistant/receipt", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "image/png")

	rec := httptest.NewRecorder()
	h.ScanReceipt(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetJob(t *testing.T) {
	store := inmemory.NewStore()
	if err := store.SaveJob(context.Background(), &jobs.ScanReceiptJob{
		JobID:  "job-9",
		Status: jobs.JobStatusCompleted,
	}); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}
	h := NewJobsHandler(store, logger.New())

	rec := httptest.NewRecorder()
	h.GetJob(rec, httptest.NewRequest(http.MethodGet, "/api/assistant/jobs/job-9", nil), "job-9")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got jobs.ScanReceiptJob
	decodeBody(t, rec, &got)
	if got.JobID != "job-9" || got.Status != jobs.JobStatusCompleted {
		t.Errorf("job = %+v", got)
	}

	rec = httptest.NewRecorder()
	h.GetJob(rec, httptest.NewRequest(http.MethodGet, "/api/assistant/jobs/nope", nil), "nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown job status = %d, want 404", rec.Code)
	}
}

func TestSessionEndpoints(t *testing.T) {
	s, err := local.Open(filepath.Join(t.TempDir(), "confia.db"), logger.New())
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	sessions := session.NewManager([]byte("secret"))
	a := app.New(sessions, nil, s, logger.New())
	t.Cleanup(func() { a.Close() })

	h := NewSessionHandler(sessions, a, logger.New())

	rec := httptest.NewRecorder()
	h.EnterDemo(rec, httptest.NewRequest(http.MethodPost, "/api/session/demo", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("demo status = %d", rec.Code)
	}

	var resp struct {
		DemoMode bool   `json:"demo_mode"`
		Mode     string `json:"mode"`
	}
	decodeBody(t, rec, &resp)
	if !resp.DemoMode || resp.Mode != "local" {
		t.Errorf("demo response = %+v", resp)
	}

	rec = httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/session/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	decodeBody(t, rec, &resp)
	if resp.Mode != "disabled" {
		t.Errorf("mode after logout = %q, want disabled", resp.Mode)
	}
}
