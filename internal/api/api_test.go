package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"talentscan/internal/apperr"
	"talentscan/internal/candidate"
	"talentscan/internal/chat"
	"talentscan/internal/cv"
	"talentscan/internal/cv/cvtest"
	"talentscan/internal/export"
	"talentscan/internal/ingest"
	"talentscan/internal/llm"
	"talentscan/internal/storage"
)

// scriptedProvider returns extraction JSON for JSON requests and a canned answer otherwise.
type scriptedProvider struct {
	extraction string
	answer     string
	err        error
	calls      []llm.Request
}

func (p *scriptedProvider) Complete(ctx context.Context, req llm.Request) (string, error) {
	p.calls = append(p.calls, req)
	if p.err != nil {
		return "", p.err
	}
	if req.JSON {
		return p.extraction, nil
	}
	return p.answer, nil
}

type testServer struct {
	handler  http.Handler
	store    *storage.MemoryStore
	provider *scriptedProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithLimit(t, 0)
}

func newTestServerWithLimit(t *testing.T, maxUpload int64) *testServer {
	t.Helper()

	p := &scriptedProvider{
		extraction: `{"first_name":"Jane","last_name":"Smith","email":"jane@x.com","phone":"",
			"education_history":[],"work_experience_summary":"Python services","skills":["Python","Go"],
			"current_position":"Backend Engineer","years_of_experience":5}`,
		answer: "Jane Smith is the best fit.",
	}
	ext, err := cv.NewExtractor(p, nil)
	if err != nil {
		t.Fatalf("extractor: %v", err)
	}
	store := storage.NewMemoryStore()

	a := NewAPI(Deps{
		Ingest:         ingest.NewService(cv.NewCVParser(t.TempDir()), ext, store, nil, nil),
		Store:          store,
		Chat:           chat.NewService(store, chat.NewResponder(p, nil), nil),
		Export:         export.NewService(store, nil),
		MaxUploadBytes: maxUpload,
	})
	return &testServer{
		handler:  NewRouter(a, RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}}),
		store:    store,
		provider: p,
	}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) seed(t *testing.T, first, email string, skills ...string) *candidate.Candidate {
	t.Helper()
	c, err := s.store.StoreCandidate(context.Background(), candidate.Fields{
		FirstName: first, LastName: "Doe", Email: email, Skills: skills,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return c
}

func uploadRequest(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/resume/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestUploadResume(t *testing.T) {
	s := newTestServer(t)
	doc := cvtest.BuildPDF(t, "Jane Smith", "jane@x.com")

	rec := s.do(t, uploadRequest(t, "jane.pdf", "application/pdf", doc))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decode[UploadResponse](t, rec.Body)
	if resp.Message != "Resume processed successfully" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.Candidate == nil || resp.Candidate.Email != "jane@x.com" || resp.Candidate.ID == "" {
		t.Errorf("unexpected candidate %+v", resp.Candidate)
	}
}

func TestUploadResume_MediaTypeFromFilenameWhenHeaderMissing(t *testing.T) {
	s := newTestServer(t)
	doc := cvtest.BuildDOCX(t, "Jane Smith")

	rec := s.do(t, uploadRequest(t, "jane.docx", "", doc))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUploadResume_TooLarge(t *testing.T) {
	s := newTestServerWithLimit(t, 1024)
	doc := bytes.Repeat([]byte("A"), 4096)

	rec := s.do(t, uploadRequest(t, "big.pdf", "application/pdf", doc))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp := decode[ErrorResponse](t, rec.Body); resp.Error != "file too large" {
		t.Errorf("unexpected error body %+v", resp)
	}
	if len(s.provider.calls) != 0 {
		t.Error("model must not be called for oversized uploads")
	}
	all, _ := s.store.GetAllCandidates(context.Background())
	if len(all) != 0 {
		t.Errorf("nothing should be stored, found %d", len(all))
	}
}

func TestUploadResume_UnsupportedType(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, uploadRequest(t, "notes.txt", "text/plain", []byte("Jane Smith")))
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
	resp := decode[ErrorResponse](t, rec.Body)
	if resp.Kind != apperr.KindUnsupportedMediaType {
		t.Errorf("unexpected kind %s", resp.Kind)
	}
	if len(s.provider.calls) != 0 {
		t.Error("model must not be called")
	}
}

func TestUploadResume_CorruptDocument(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, uploadRequest(t, "broken.pdf", "application/pdf", []byte("not a pdf")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	all, _ := s.store.GetAllCandidates(context.Background())
	if len(all) != 0 {
		t.Errorf("nothing should be stored, found %d", len(all))
	}
}

func TestUploadResume_MissingFile(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("other", "x")
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/resume/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := s.do(t, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListCandidates(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/candidates", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"candidates":[]`) {
		t.Errorf("expected empty list, got %s", rec.Body.String())
	}

	s.seed(t, "Jane", "jane@x.com", "Go")
	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/api/candidates", nil))
	resp := decode[CandidatesResponse](t, rec.Body)
	if len(resp.Candidates) != 1 || resp.Candidates[0].FirstName != "Jane" {
		t.Errorf("unexpected candidates %+v", resp.Candidates)
	}
}

func TestSearchCandidates(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "Jane", "jane@x.com", "Python")
	s.seed(t, "Bob", "bob@x.com", "Java")

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/candidates/search?q=python", nil))
	resp := decode[CandidatesResponse](t, rec.Body)
	if len(resp.Candidates) != 1 || resp.Candidates[0].FirstName != "Jane" {
		t.Errorf("unexpected search result %+v", resp.Candidates)
	}
}

func TestGetCandidate(t *testing.T) {
	s := newTestServer(t)
	c := s.seed(t, "Jane", "jane@x.com")

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/candidates/"+c.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decode[candidate.Candidate](t, rec.Body)
	if got.ID != c.ID || got.Email != "jane@x.com" {
		t.Errorf("unexpected candidate %+v", got)
	}

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/api/candidates/999", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp := decode[ErrorResponse](t, rec.Body); resp.Kind != apperr.KindNotFound {
		t.Errorf("unexpected kind %s", resp.Kind)
	}
}

func TestExportCandidates(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "Jane", "jane@x.com")

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/candidates/export", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("unexpected content type %s", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("expected a zip-based workbook")
	}
}

func TestChat_EmptyStore(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"who knows Go?"}`))
	rec := s.do(t, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode[ChatResponse](t, rec.Body)
	if resp.Response != chat.NoCandidatesMessage {
		t.Errorf("unexpected response %q", resp.Response)
	}
	if len(s.provider.calls) != 0 {
		t.Error("model must not be called for an empty store")
	}
}

func TestChat_WithRoleRanks(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "Jane", "jane@x.com", "Go")
	s.seed(t, "Bob", "bob@x.com", "Java")

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"","role":"Backend Engineer"}`))
	rec := s.do(t, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(s.provider.calls) != 1 || s.provider.calls[0].MaxTokens != 1000 {
		t.Fatalf("expected one ranking call, got %+v", s.provider.calls)
	}
	prompt := s.provider.calls[0].Prompt
	for _, name := range []string{"Jane Doe", "Bob Doe"} {
		if strings.Count(prompt, "Candidate: "+name) != 1 {
			t.Errorf("expected %s exactly once in ranking prompt", name)
		}
	}
}

func TestChat_ProviderFailure(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "Jane", "jane@x.com")
	s.provider.err = fmt.Errorf("upstream 500")

	rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"hi"}`)))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestChat_InvalidJSON(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRank_RequiresRole(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "Jane", "jane@x.com")

	rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/rank", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHealthAndRoot(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/", "/health"} {
		rec := s.do(t, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[apperr.Kind]int{
		apperr.KindUnsupportedMediaType: http.StatusUnsupportedMediaType,
		apperr.KindExtraction:           http.StatusUnprocessableEntity,
		apperr.KindExtractionParse:      http.StatusBadGateway,
		apperr.KindProvider:             http.StatusBadGateway,
		apperr.KindStore:                http.StatusServiceUnavailable,
		apperr.KindNotFound:             http.StatusNotFound,
		apperr.KindInvalidInput:         http.StatusBadRequest,
		apperr.KindInternal:             http.StatusInternalServerError,
	}
	for kind, want := range tests {
		if got := statusFor(kind); got != want {
			t.Errorf("%s: want %d got %d", kind, want, got)
		}
	}
}
