package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"modelkit/internal/manifest"
	"modelkit/internal/presets"
	"modelkit/pkg/types"
)

type mockService struct {
	models    []types.Model
	status    types.StatusResponse
	text      string
	err       error
	wrotePath string
	lastReq   types.ManifestRequest
}

func (m *mockService) ListModels() []types.Model    { return append([]types.Model(nil), m.models...) }
func (m *mockService) Presets() []presets.Preset    { return presets.All() }
func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Render(req types.ManifestRequest) (string, error) {
	m.lastReq = req
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}
func (m *mockService) Write(req types.ManifestRequest, path string) (string, error) {
	m.lastReq = req
	m.wrotePath = path
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func postJSON(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestModelsHandler(t *testing.T) {
	svc := &mockService{models: []types.Model{{ID: "m1"}, {ID: "m2"}}}
	r := NewMux(svc)
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
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
	if len(body.Models) != 2 {
		t.Fatalf("models len=%d", len(body.Models))
	}
}

func TestPresetsHandler(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/presets", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body map[string][]presets.Preset
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body["presets"]) != len(presets.Names()) {
		t.Fatalf("presets=%d", len(body["presets"]))
	}
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{Models: 3, WritesTotal: 2}}
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
	if body.Models != 3 || body.WritesTotal != 2 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
}

func TestRender_OK(t *testing.T) {
	svc := &mockService{text: "FROM m.gguf\n"}
	w := postJSON(NewMux(svc), "/render", `{"model":"m1","preset":"llama3","stops":["<|eot_id|>"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content-type=%s", ct)
	}
	if w.Body.String() != "FROM m.gguf\n" {
		t.Fatalf("body=%q", w.Body.String())
	}
	if svc.lastReq.Preset != "llama3" || len(svc.lastReq.Stops) != 1 {
		t.Fatalf("request not decoded: %+v", svc.lastReq)
	}
}

func TestRender_ContentTypeRequired(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(`{"model":"m1"}`))
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestRender_BadBodies(t *testing.T) {
	cases := []string{
		`{not json`,
		`{"model":"m1","bogus":1}`,
		`{"preset":"llama3"}`,
	}
	for _, body := range cases {
		w := postJSON(NewMux(&mockService{}), "/render", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", body, w.Code)
		}
		var e types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil || e.Code != http.StatusBadRequest {
			t.Fatalf("%s: error payload %q", body, w.Body.String())
		}
	}
}

func TestRender_BodyTooLarge(t *testing.T) {
	SetMaxBodyBytes(16)
	defer SetMaxBodyBytes(0)
	w := postJSON(NewMux(&mockService{}), "/render", `{"model":"`+strings.Repeat("x", 64)+`"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestRender_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{mockHTTPError{msg: "model not found: x", code: http.StatusNotFound}, http.StatusNotFound},
		{&manifest.ConfigError{Kind: manifest.KindSource, Msg: "missing", Err: manifest.ErrMissingSource}, http.StatusBadRequest},
		{&manifest.IOError{Op: "rename", Path: "/x", Err: os.ErrPermission}, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		w := postJSON(NewMux(&mockService{err: c.err}), "/render", `{"model":"m1"}`)
		if w.Code != c.want {
			t.Fatalf("%v: status=%d want %d", c.err, w.Code, c.want)
		}
		if !strings.Contains(w.Body.String(), c.err.Error()) {
			t.Fatalf("%v: body=%s", c.err, w.Body.String())
		}
	}
}

func TestManifests_WritesUnderOutputRoot(t *testing.T) {
	root := t.TempDir()
	SetOutputRoot(root)
	defer SetOutputRoot("")
	svc := &mockService{text: "FROM m.gguf\n"}
	w := postJSON(NewMux(svc), "/manifests", `{"model":"m1","output":"llama3/Modelfile"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp types.WriteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	want := filepath.Join(root, "llama3", "Modelfile")
	if resp.Path != want || svc.wrotePath != want {
		t.Fatalf("path=%q service=%q want %q", resp.Path, svc.wrotePath, want)
	}
	if resp.Bytes != len("FROM m.gguf\n") {
		t.Fatalf("bytes=%d", resp.Bytes)
	}
}

func TestManifests_DefaultFilename(t *testing.T) {
	root := t.TempDir()
	SetOutputRoot(root)
	defer SetOutputRoot("")
	svc := &mockService{text: "FROM m.gguf\n"}
	w := postJSON(NewMux(svc), "/manifests", `{"model":"m1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d", w.Code)
	}
	if svc.wrotePath != filepath.Join(root, manifest.DefaultFilename) {
		t.Fatalf("path=%q", svc.wrotePath)
	}
}

func TestManifests_RejectsEscapingOutput(t *testing.T) {
	SetOutputRoot(t.TempDir())
	defer SetOutputRoot("")
	for _, out := range []string{"../Modelfile", "/etc/Modelfile", "a/../../b"} {
		svc := &mockService{text: "FROM m.gguf\n"}
		w := postJSON(NewMux(svc), "/manifests", `{"model":"m1","output":"`+out+`"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", out, w.Code)
		}
		if svc.wrotePath != "" {
			t.Fatalf("%s: service called with %q", out, svc.wrotePath)
		}
	}
}

func TestManifests_IOErrorIs500(t *testing.T) {
	SetOutputRoot(t.TempDir())
	defer SetOutputRoot("")
	svc := &mockService{err: &manifest.IOError{Op: "create temp", Path: "x", Err: os.ErrNotExist}}
	w := postJSON(NewMux(svc), "/manifests", `{"model":"m1","output":"x/Modelfile"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
}
