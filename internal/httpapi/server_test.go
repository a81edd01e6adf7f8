package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"chatd/internal/session"
	"chatd/pkg/types"
)

type mockService struct {
	mu       sync.Mutex
	models   []types.Model
	status   types.StatusResponse
	ready    bool
	selected string
	input    string
	resets   int
	sent     []string

	selectErr error
	loadErr   error
	sendErr   error
	events    chan session.Event
}

func (m *mockService) ListModels() []types.Model    { return append([]types.Model(nil), m.models...) }
func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                  { return m.ready }

func (m *mockService) Select(id string) error {
	if m.selectErr != nil {
		return m.selectErr
	}
	m.mu.Lock()
	m.selected = id
	m.mu.Unlock()
	return nil
}

func (m *mockService) Load() (types.LoadResponse, error) {
	if m.loadErr != nil {
		return types.LoadResponse{}, m.loadErr
	}
	return types.LoadResponse{OperationID: "op-1", Generation: 1, Model: m.selected}, nil
}

func (m *mockService) Reset() {
	m.mu.Lock()
	m.resets++
	m.mu.Unlock()
}

func (m *mockService) Send(ctx context.Context, msg string) (types.SendResponse, error) {
	if m.sendErr != nil {
		return types.SendResponse{}, m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg == "" {
		msg = m.input
	}
	m.sent = append(m.sent, msg)
	return types.SendResponse{Appended: []types.Entry{{Speaker: "user", Text: msg}, {Speaker: "assistant", Text: "4"}}}, nil
}

func (m *mockService) SetInput(text string) {
	m.mu.Lock()
	m.input = text
	m.mu.Unlock()
}

func (m *mockService) Messages() types.MessagesResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return types.MessagesResponse{Input: m.input, Entries: []types.Entry{}}
}

func (m *mockService) Subscribe(buffer int) (<-chan session.Event, func()) {
	if m.events == nil {
		m.events = make(chan session.Event, buffer)
	}
	return m.events, func() {}
}

func postJSON(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestModelsHandler(t *testing.T) {
	svc := &mockService{models: []types.Model{{ID: "m1"}, {ID: "m2"}}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.ModelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Models) != 2 || body.Models[0].ID != "m1" {
		t.Fatalf("unexpected models: %+v", body.Models)
	}
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{State: "loading", Selected: "m1", Generation: 3}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.State != "loading" || body.Generation != 3 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestSelectAndLoad(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	if w := postJSON(r, "/select", `{"model":"m2"}`); w.Code != http.StatusOK {
		t.Fatalf("select status=%d body=%s", w.Code, w.Body.String())
	}
	w := postJSON(r, "/load", `{}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("load status=%d", w.Code)
	}
	var body types.LoadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Model != "m2" || body.OperationID == "" {
		t.Fatalf("unexpected load response: %+v", body)
	}
}

func TestSelectRequiresModel(t *testing.T) {
	r := NewMux(&mockService{})
	if w := postJSON(r, "/select", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := postJSON(r, "/select", `{not json`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad JSON, got %d", w.Code)
	}
}

func TestSelectRejectsWrongContentType(t *testing.T) {
	r := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodPost, "/select", bytes.NewBufferString(`{"model":"m"}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", w.Code)
	}
}

func TestContentTypeCaseInsensitive(t *testing.T) {
	r := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodPost, "/send", bytes.NewBufferString(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "Application/JSON; charset=utf-8")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with mixed-case content-type, got %d", w.Code)
	}
}

func TestSendReturnsAppended(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := postJSON(r, "/send", `{"message":"2+2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.SendResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Appended) != 2 || body.Appended[1].Text != "4" {
		t.Fatalf("unexpected appended: %+v", body.Appended)
	}
}

func TestInputThenSubmit(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	req := httptest.NewRequest(http.MethodPut, "/input", bytes.NewBufferString(`{"text":"queued"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("input status=%d", w.Code)
	}
	mw := httptest.NewRecorder()
	r.ServeHTTP(mw, httptest.NewRequest(http.MethodGet, "/messages", nil))
	var msgs types.MessagesResponse
	if err := json.Unmarshal(mw.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("json: %v", err)
	}
	if msgs.Input != "queued" {
		t.Fatalf("input not visible: %+v", msgs)
	}
	if w := postJSON(r, "/send", `{}`); w.Code != http.StatusOK {
		t.Fatalf("send status=%d", w.Code)
	}
	if len(svc.sent) != 1 || svc.sent[0] != "queued" {
		t.Fatalf("expected pending input to be sent, got %v", svc.sent)
	}
}

func TestResetHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{State: "unselected"}}
	r := NewMux(svc)
	w := postJSON(r, "/reset", ``)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if svc.resets != 1 {
		t.Fatalf("reset not called")
	}
}

func TestReadyz(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyzNotReady(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not ready") {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestSecurityHeaderAndCORS(t *testing.T) {
	SetCORSOptions(true, []string{"*"}, nil, []string{"Content-Type"})
	defer SetCORSOptions(false, nil, nil, nil)

	r := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("expected Access-Control-Allow-Origin to be set")
	}
}

func TestNoCORSByDefault(t *testing.T) {
	r := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected CORS header %q", got)
	}
}
