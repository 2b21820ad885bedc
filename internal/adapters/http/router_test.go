package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
	"github.com/breverdbidder/property360-sale-advisor/internal/core/usecase"
	"github.com/breverdbidder/property360-sale-advisor/internal/observability/metrics"
)

type memoryDocs struct {
	docs map[string]*domain.UploadedDocument
}

func newMemoryDocs(docs ...*domain.UploadedDocument) *memoryDocs {
	m := &memoryDocs{docs: make(map[string]*domain.UploadedDocument)}
	for _, doc := range docs {
		m.docs[doc.ID] = doc
	}
	return m
}

func (m *memoryDocs) Create(_ context.Context, _, _ string, doc *domain.UploadedDocument) error {
	m.docs[doc.ID] = doc
	return nil
}

func (m *memoryDocs) GetByID(_ context.Context, id string) (*domain.UploadedDocument, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	copied := *doc
	return &copied, nil
}

func (m *memoryDocs) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	doc, ok := m.docs[id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	doc.Status = status
	doc.ErrorMessage = errMessage
	return nil
}

func (m *memoryDocs) SaveAnalysis(_ context.Context, id string, analysis domain.DocumentAnalysis) error {
	doc, ok := m.docs[id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	doc.Analysis = &analysis
	return nil
}

func (m *memoryDocs) MarkApplied(_ context.Context, id string) error {
	doc, ok := m.docs[id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	doc.Applied = true
	return nil
}

func (m *memoryDocs) Delete(_ context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *memoryDocs) ListByOwner(_ context.Context, _, _ string) ([]domain.UploadedDocument, error) {
	out := make([]domain.UploadedDocument, 0, len(m.docs))
	for _, doc := range m.docs {
		out = append(out, *doc)
	}
	return out, nil
}

type memoryStorage struct {
	saved map[string][]byte
}

func (m *memoryStorage) Save(_ context.Context, key string, data io.Reader) error {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.saved[key] = b
	return nil
}

func (m *memoryStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.saved[key])), nil
}

func (m *memoryStorage) Remove(_ context.Context, key string) error {
	delete(m.saved, key)
	return nil
}

type noopQueue struct{}

func (noopQueue) PublishDocumentUploaded(context.Context, string) error { return nil }
func (noopQueue) SubscribeDocumentUploaded(context.Context, func(context.Context, string) error) error {
	return nil
}

type memoryChecklist struct{}

func (memoryChecklist) LoadCheckedState(context.Context, string, string) (map[string]bool, error) {
	return nil, nil
}
func (memoryChecklist) UpsertEntries(context.Context, string, string, []domain.ChecklistEntry) error {
	return nil
}

type stubAnalysisService struct {
	analysis domain.DocumentAnalysis
	err      error
}

func (s *stubAnalysisService) AnalyzeDocument(context.Context, string, string, string) (domain.DocumentAnalysis, error) {
	if s.err != nil {
		return domain.DocumentAnalysis{}, s.err
	}
	return s.analysis, nil
}

type staticCatalogProvider struct {
	catalog *domain.Catalog
}

func (p *staticCatalogProvider) Catalog() *domain.Catalog { return p.catalog }

func routerCatalog() *domain.Catalog {
	return domain.NewCatalog([]domain.Phase{
		{ID: 1, Title: "Preparation", Items: []domain.ChecklistItem{
			{ID: "1-1", Text: "Current rent roll on file", Critical: true},
			{ID: "1-2", Text: "Trailing 12-month P&L on file", Critical: true},
		}},
	})
}

type testEnv struct {
	handler http.Handler
	docs    *memoryDocs
}

func newTestEnv(t *testing.T, options Options, docs ...*domain.UploadedDocument) *testEnv {
	t.Helper()

	store := newMemoryDocs(docs...)
	storage := &memoryStorage{}
	catalog := routerCatalog()
	logger := slog.New(slog.DiscardHandler)

	sessions := usecase.NewSessionManager(
		catalog, memoryChecklist{}, store, storage,
		usecase.SessionConfig{ToggleFlushDelay: time.Hour, BulkFlushDelay: time.Hour},
		logger,
	)
	t.Cleanup(func() { sessions.CloseAll(context.Background()) })

	router := NewRouter(
		usecase.NewUploadDocumentUseCase(store, storage, noopQueue{}),
		&stubAnalysisService{analysis: domain.DocumentAnalysis{DocType: "Rent Roll", Summary: "ok"}},
		sessions,
		store,
		&staticCatalogProvider{catalog: catalog},
		metrics.NewHTTPServerMetrics("api-test"),
		options,
	)
	return &testEnv{handler: router.Handler(), docs: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(ownerHeader, "owner-1")
	res := httptest.NewRecorder()
	e.handler.ServeHTTP(res, req)
	return res
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, Options{})
	res := env.do(t, http.MethodGet, "/healthz", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("healthz = %d", res.Code)
	}
}

func TestUploadDocumentEndpoint(t *testing.T) {
	env := newTestEnv(t, Options{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "rentroll.xlsx")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte("payload")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(ownerHeader, "owner-1")
	res := httptest.NewRecorder()
	env.handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("upload = %d body=%s", res.Code, res.Body.String())
	}
	var doc domain.UploadedDocument
	decodeBody(t, res, &doc)
	if doc.Status != domain.StatusUploading || doc.DeclaredType != domain.FileXLSX {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestUploadRejectsUnknownExtension(t *testing.T) {
	env := newTestEnv(t, Options{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "movie.mov")
	_, _ = part.Write([]byte("x"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	res := httptest.NewRecorder()
	env.handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestGetMissingDocumentReturns404(t *testing.T) {
	env := newTestEnv(t, Options{})
	res := env.do(t, http.MethodGet, "/v1/documents/missing", nil)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func analyzedTestDoc() *domain.UploadedDocument {
	return &domain.UploadedDocument{
		ID:     "doc-1",
		Name:   "rentroll.xlsx",
		Status: domain.StatusDone,
		Analysis: &domain.DocumentAnalysis{
			DocType: "Rent Roll",
			Summary: "24 units",
			CompletedItems: []domain.Suggestion{
				{ItemID: "1-1", Confidence: 0.9, ExtractedValue: "24 units"},
			},
		},
	}
}

func TestPreviewThenApplyFlow(t *testing.T) {
	env := newTestEnv(t, Options{}, analyzedTestDoc())

	res := env.do(t, http.MethodPost, "/v1/documents/doc-1/preview", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("preview = %d body=%s", res.Code, res.Body.String())
	}
	var previewResp struct {
		Staged []domain.PendingSuggestion `json:"staged"`
	}
	decodeBody(t, res, &previewResp)
	if len(previewResp.Staged) != 1 || previewResp.Staged[0].ItemID != "1-1" {
		t.Fatalf("unexpected staged set: %+v", previewResp.Staged)
	}

	res = env.do(t, http.MethodPost, "/v1/documents/doc-1/apply", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("apply = %d body=%s", res.Code, res.Body.String())
	}
	var applyResp usecase.ApplyResult
	decodeBody(t, res, &applyResp)
	if len(applyResp.AppliedItems) != 1 {
		t.Fatalf("unexpected apply result: %+v", applyResp)
	}

	// Second apply is a no-op guarded by the applied flag.
	res = env.do(t, http.MethodPost, "/v1/documents/doc-1/apply", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("re-apply = %d body=%s", res.Code, res.Body.String())
	}
	decodeBody(t, res, &applyResp)
	if len(applyResp.AppliedItems) != 0 {
		t.Fatalf("re-apply must not re-check items: %+v", applyResp)
	}

	res = env.do(t, http.MethodGet, "/v1/checklist", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("checklist = %d", res.Code)
	}
	var state struct {
		Checked   map[string]bool       `json:"checked"`
		Extracted map[string]string     `json:"extracted"`
		Readiness domain.ReadinessScore `json:"readiness"`
	}
	decodeBody(t, res, &state)
	if !state.Checked["1-1"] || state.Extracted["1-1"] != "24 units" {
		t.Fatalf("state not updated: %+v", state)
	}
}

func TestToggleEndpoint(t *testing.T) {
	env := newTestEnv(t, Options{})

	res := env.do(t, http.MethodPost, "/v1/checklist/toggle", strings.NewReader(`{"item_id":"1-1"}`))
	if res.Code != http.StatusOK {
		t.Fatalf("toggle = %d body=%s", res.Code, res.Body.String())
	}
	var resp struct {
		Checked bool `json:"checked"`
	}
	decodeBody(t, res, &resp)
	if !resp.Checked {
		t.Fatal("first toggle must check")
	}

	res = env.do(t, http.MethodPost, "/v1/checklist/toggle", strings.NewReader(`{"item_id":"99-9"}`))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("unknown item = %d", res.Code)
	}
}

func TestDismissAndApplyAllEndpoints(t *testing.T) {
	env := newTestEnv(t, Options{}, analyzedTestDoc())

	if res := env.do(t, http.MethodPost, "/v1/documents/doc-1/preview", nil); res.Code != http.StatusOK {
		t.Fatalf("preview = %d", res.Code)
	}
	if res := env.do(t, http.MethodPost, "/v1/suggestions/dismiss", strings.NewReader(`{"item_id":"1-1"}`)); res.Code != http.StatusOK {
		t.Fatalf("dismiss = %d", res.Code)
	}

	res := env.do(t, http.MethodPost, "/v1/suggestions/apply-all", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("apply-all = %d", res.Code)
	}
	var applyResp usecase.ApplyResult
	decodeBody(t, res, &applyResp)
	if len(applyResp.AppliedItems) != 0 {
		t.Fatalf("dismissed stage must not apply: %+v", applyResp)
	}
}

func TestDismissEndpointClearsAllStagesWithoutItemID(t *testing.T) {
	doc := analyzedTestDoc()
	doc.Analysis.CompletedItems = []domain.Suggestion{
		{ItemID: "1-1", Confidence: 0.9, ExtractedValue: "24 units"},
		{ItemID: "1-2", Confidence: 0.8},
	}
	env := newTestEnv(t, Options{}, doc)

	if res := env.do(t, http.MethodPost, "/v1/documents/doc-1/preview", nil); res.Code != http.StatusOK {
		t.Fatalf("preview = %d", res.Code)
	}
	if res := env.do(t, http.MethodPost, "/v1/suggestions/dismiss", nil); res.Code != http.StatusOK {
		t.Fatalf("dismiss all = %d", res.Code)
	}

	res := env.do(t, http.MethodGet, "/v1/checklist", nil)
	var state struct {
		Checked map[string]bool            `json:"checked"`
		Staged  []domain.PendingSuggestion `json:"staged"`
	}
	decodeBody(t, res, &state)
	if len(state.Staged) != 0 {
		t.Fatalf("staging set must be empty after batch dismiss: %+v", state.Staged)
	}
	if len(state.Checked) != 0 {
		t.Fatalf("batch dismiss must not check anything: %+v", state.Checked)
	}
}

func TestDeleteDocumentEndpoint(t *testing.T) {
	env := newTestEnv(t, Options{}, analyzedTestDoc())

	res := env.do(t, http.MethodDelete, "/v1/documents/doc-1", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("delete = %d body=%s", res.Code, res.Body.String())
	}
	if res := env.do(t, http.MethodGet, "/v1/documents/doc-1", nil); res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", res.Code)
	}
}

func TestAnalyzeEndpointErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"schema violation", domain.ErrSchemaViolation, http.StatusBadGateway},
		{"unavailable", domain.ErrInferenceUnavailable, http.StatusServiceUnavailable},
		{"not configured", domain.ErrConfigurationMissing, http.StatusServiceUnavailable},
		{"invalid", domain.ErrInvalidInput, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemoryDocs()
			catalog := routerCatalog()
			sessions := usecase.NewSessionManager(catalog, memoryChecklist{}, store, &memoryStorage{}, usecase.SessionConfig{}, slog.New(slog.DiscardHandler))
			defer sessions.CloseAll(context.Background())

			router := NewRouter(
				usecase.NewUploadDocumentUseCase(store, &memoryStorage{}, noopQueue{}),
				&stubAnalysisService{err: domain.WrapError(tc.err, "analyze", errors.New("detail"))},
				sessions,
				store,
				&staticCatalogProvider{catalog: catalog},
				nil,
				Options{},
			)

			req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(`{"content":"a long enough paragraph","file_name":"a.txt","file_type":"txt"}`))
			res := httptest.NewRecorder()
			router.Handler().ServeHTTP(res, req)
			if res.Code != tc.want {
				t.Fatalf("status = %d, want %d", res.Code, tc.want)
			}
		})
	}
}
