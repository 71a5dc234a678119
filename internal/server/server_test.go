package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conetree/pkg/pipeline"
	"github.com/matzehuels/conetree/pkg/session"
)

const sampleFreeMind = `<map version="1.0.1">
  <node TEXT="root">
    <node TEXT="a"/>
    <node TEXT="b">
      <node TEXT="b1"/>
    </node>
  </node>
</map>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := httptest.NewServer(New(runner, store, logger).Router())
	t.Cleanup(srv.Close)
	t.Cleanup(func() { _ = store.Close() })
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestRenderEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/v1/render", pipeline.Options{
		Content:  sampleFreeMind,
		Filename: "notes.mm",
		Formats:  []string{pipeline.FormatSVG, pipeline.FormatJSON},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	body := decode[renderResponse](t, resp)
	if body.NodeCount != 4 || body.ConeCount != 2 {
		t.Errorf("counts = %d nodes, %d cones", body.NodeCount, body.ConeCount)
	}
	if body.TreeHash == "" {
		t.Error("missing tree hash")
	}
	svg := string(body.Artifacts[pipeline.FormatSVG])
	if !strings.HasPrefix(svg, "<svg") {
		t.Errorf("svg artifact does not start with <svg: %.60s", svg)
	}
	if len(body.Artifacts[pipeline.FormatJSON]) == 0 {
		t.Error("missing json artifact")
	}
}

func TestRenderInvalidBody(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/api/v1/render", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	body := decode[errorResponse](t, resp)
	if body.Code != "INVALID_INPUT" {
		t.Errorf("code = %q", body.Code)
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/v1/render", pipeline.Options{
		Content:  sampleFreeMind,
		Filename: "notes.mm",
		Formats:  []string{"gif"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRenderRejectsLocalPaths(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/v1/render", pipeline.Options{
		Document: "/etc/passwd",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/v1/layout", pipeline.Options{
		Content:  sampleFreeMind,
		Filename: "notes.mm",
		Axis:     "horizontal",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	body := decode[layoutResponse](t, resp)
	if body.TreeHash == "" {
		t.Error("missing tree hash")
	}
	if body.Layout.Axis != "horizontal" {
		t.Errorf("axis = %q", body.Layout.Axis)
	}
	if len(body.Layout.Nodes) != 4 {
		t.Errorf("nodes = %d, want 4", len(body.Layout.Nodes))
	}
}

func TestLayoutEmptyDocument(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/v1/layout", pipeline.Options{
		Content:  `<map version="1.0.1"></map>`,
		Filename: "empty.mm",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	body := decode[errorResponse](t, resp)
	if body.Code != "EMPTY_TREE" {
		t.Errorf("code = %q, want EMPTY_TREE", body.Code)
	}
}

func TestLayoutMalformedDocument(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/v1/layout", pipeline.Options{
		Content:  `<map><node TEXT="broken">`,
		Filename: "broken.mm",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	body := decode[errorResponse](t, resp)
	if body.Code != "DOCUMENT_LOAD" {
		t.Errorf("code = %q, want DOCUMENT_LOAD", body.Code)
	}
}

func TestRenderMalformedDocument(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/v1/render", pipeline.Options{
		Content:  `not a document at all`,
		Filename: "broken.toml",
		Formats:  []string{pipeline.FormatSVG},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	body := decode[errorResponse](t, resp)
	if body.Code != "DOCUMENT_LOAD" {
		t.Errorf("code = %q, want DOCUMENT_LOAD", body.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	// Create
	resp := postJSON(t, srv.URL+"/api/v1/sessions", sessionRequest{
		Document: "https://example.com/notes.mm",
		DocHash:  "abc123",
		State:    session.State{Axis: "vertical"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	created := decode[session.Session](t, resp)
	if created.ID == "" {
		t.Fatal("created session has no ID")
	}
	if created.ExpiresAt.IsZero() {
		t.Error("API sessions should expire")
	}

	// Get
	resp, err := client.Get(srv.URL + "/api/v1/sessions/" + created.ID)
	if err != nil {
		t.Fatal(err)
	}
	got := decode[session.Session](t, resp)
	if got.State.Axis != "vertical" {
		t.Errorf("restored axis = %q", got.State.Axis)
	}

	// Update
	data, _ := json.Marshal(sessionRequest{State: session.State{Axis: "horizontal"}})
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/sessions/"+created.ID, bytes.NewReader(data))
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	updated := decode[session.Session](t, resp)
	if updated.State.Axis != "horizontal" {
		t.Errorf("updated axis = %q", updated.State.Axis)
	}
	if updated.Document != "https://example.com/notes.mm" {
		t.Errorf("update dropped document: %q", updated.Document)
	}

	// Delete
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/sessions/"+created.ID, nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	// Gone
	resp, err = client.Get(srv.URL + "/api/v1/sessions/" + created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", resp.StatusCode)
	}
	body := decode[errorResponse](t, resp)
	if body.Code != "SESSION_NOT_FOUND" {
		t.Errorf("code = %q", body.Code)
	}
}

func TestSessionInvalidID(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/v1/sessions/not-a-uuid")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSessionMissing(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/v1/sessions/00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
