package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
	"github.com/kirillkom/legal-doc-assistant/internal/core/usecase"
)

type retrieverFake struct {
	results []domain.RetrievalResult
	err     error
}

func (f *retrieverFake) Retrieve(context.Context, string, int) ([]domain.RetrievalResult, error) {
	return f.results, f.err
}

type generatorFake struct {
	answer string
	err    error
}

func (f *generatorFake) GenerateAnswer(context.Context, string, string, domain.AnswerMode) (string, error) {
	return f.answer, f.err
}

type repoFake struct {
	docs map[string]*domain.Document
}

func newRepoFake() *repoFake {
	return &repoFake{docs: map[string]*domain.Document{}}
}

func (f *repoFake) Create(_ context.Context, doc *domain.Document) error {
	f.docs[doc.ID] = doc
	return nil
}

func (f *repoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", context.Canceled)
	}
	return doc, nil
}

func (f *repoFake) List(context.Context) ([]domain.Document, error) {
	var out []domain.Document
	for _, doc := range f.docs {
		out = append(out, *doc)
	}
	return out, nil
}

func (f *repoFake) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	if doc, ok := f.docs[id]; ok {
		doc.Status = status
		doc.Error = errMessage
	}
	return nil
}

func (f *repoFake) Delete(_ context.Context, id string) error {
	if _, ok := f.docs[id]; !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "delete document", context.Canceled)
	}
	delete(f.docs, id)
	return nil
}

type storageFake struct{}

func (storageFake) Save(_ context.Context, _ string, data io.Reader) error {
	_, err := io.Copy(io.Discard, data)
	return err
}

func (storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (storageFake) Delete(context.Context, string) error { return nil }

type queueFake struct {
	published []string
}

func (f *queueFake) PublishDocumentsChanged(_ context.Context, documentID string) error {
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribeDocumentsChanged(context.Context, func(context.Context, string) error) error {
	return nil
}

type maintainerFake struct {
	invalidated int
	rebuilt     int
}

func (f *maintainerFake) Invalidate(context.Context) error {
	f.invalidated++
	return nil
}

func (f *maintainerFake) Rebuild(context.Context) error {
	f.rebuilt++
	return nil
}

type routerDeps struct {
	retriever  *retrieverFake
	generator  *generatorFake
	repo       *repoFake
	queue      *queueFake
	maintainer *maintainerFake
}

func newTestHandler(t *testing.T, opts Options) (http.Handler, *routerDeps) {
	t.Helper()
	deps := &routerDeps{
		retriever:  &retrieverFake{},
		generator:  &generatorFake{answer: "generated answer"},
		repo:       newRepoFake(),
		queue:      &queueFake{},
		maintainer: &maintainerFake{},
	}
	logger := slog.New(slog.DiscardHandler)
	answerUC := usecase.NewAnswerUseCase(deps.retriever, deps.generator, usecase.AnswerConfig{}, logger)
	ingestUC := usecase.NewIngestDocumentUseCase(deps.repo, storageFake{}, deps.queue)
	router := NewRouter(answerUC, ingestUC, deps.repo, deps.maintainer, nil, opts)
	return router.Handler(), deps
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	handler, _ := newTestHandler(t, Options{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestUploadThenGetAndDeleteDocument(t *testing.T) {
	handler, deps := newTestHandler(t, Options{})

	body, contentType := multipartBody(t, "act.txt", "Whoever commits theft shall be punished.")
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusAccepted {
		t.Fatalf("upload expected 202, got %d: %s", res.Code, res.Body.String())
	}

	var doc domain.Document
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if doc.ID == "" || doc.Status != domain.StatusUploaded {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if len(deps.queue.published) != 1 {
		t.Fatalf("expected 1 change notification, got %d", len(deps.queue.published))
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/documents/"+doc.ID, nil))
	if res.Code != http.StatusOK {
		t.Fatalf("get expected 200, got %d", res.Code)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodDelete, "/v1/documents/"+doc.ID, nil))
	if res.Code != http.StatusOK {
		t.Fatalf("delete expected 200, got %d", res.Code)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/documents/"+doc.ID, nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("get after delete expected 404, got %d", res.Code)
	}
}

func TestUploadRequiresMultipartFile(t *testing.T) {
	handler, _ := newTestHandler(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", strings.NewReader("plain body"))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestQueryRAGReturnsAnswerWithSources(t *testing.T) {
	handler, deps := newTestHandler(t, Options{})
	deps.retriever.results = []domain.RetrievalResult{
		{Score: 0.91, Chunk: domain.Chunk{ChunkID: "doc-0/chunk-0", Source: "ipc.pdf", Text: "Theft is punishable with imprisonment. Theft of property attracts fine."}},
		{Score: 0.42, Chunk: domain.Chunk{ChunkID: "doc-0/chunk-1", Source: "ipc.pdf", Text: "Punishment for theft extends to three years of imprisonment."}},
	}

	payload := `{"question":"What is the punishment for theft?","mode":"summary"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/rag/query", strings.NewReader(payload))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var answer domain.Answer
	if err := json.NewDecoder(res.Body).Decode(&answer); err != nil {
		t.Fatalf("decode answer: %v", err)
	}
	if answer.Text != "generated answer" {
		t.Fatalf("unexpected answer text: %q", answer.Text)
	}
	if !answer.Grounded || len(answer.Sources) == 0 {
		t.Fatalf("expected grounded answer with sources, got %+v", answer)
	}
}

func TestQueryRAGRejectsEmptyQuestion(t *testing.T) {
	handler, _ := newTestHandler(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/rag/query", strings.NewReader(`{"question":"  "}`))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestQueryRAGRejectsInvalidJSON(t *testing.T) {
	handler, _ := newTestHandler(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/rag/query", strings.NewReader("{"))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestInvalidateIndexCallsMaintainer(t *testing.T) {
	handler, deps := newTestHandler(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/index/invalidate", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if deps.maintainer.invalidated != 1 {
		t.Fatalf("expected 1 invalidation, got %d", deps.maintainer.invalidated)
	}
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	handler, _ := newTestHandler(t, Options{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected request id header on response")
	}
}
