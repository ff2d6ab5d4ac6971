package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ZaguanLabs/transcache"
	"github.com/ZaguanLabs/transcache/cache"
	"github.com/ZaguanLabs/transcache/provider"
)

type testServer struct {
	app   *fiber.App
	mock  *provider.MockProvider
	store *cache.FileStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger, _ := test.NewNullLogger()
	store := cache.NewFileStore(filepath.Join(t.TempDir(), "translation_cache.json"), cache.WithLogger(logger))
	store.Load(context.Background())

	mock := provider.NewMockProvider()
	mock.Translations = map[string]string{
		"hello": "bonjour",
		"world": "monde",
	}

	bt := transcache.NewBatchTranslator(mock,
		transcache.WithBatchLogger(logger),
		transcache.WithSleeper(func(context.Context, time.Duration) error { return nil }),
	)
	coord := transcache.NewCoordinator(store, bt, transcache.WithLogger(logger))

	app, err := NewApp(AppOptions{Logger: logger, Coordinator: coord})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return &testServer{app: app, mock: mock, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, map[string]interface{}, http.Header) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var payload map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("invalid JSON body %q: %v", raw, err)
		}
	}
	return resp.StatusCode, payload, resp.Header
}

func TestTranslate_List(t *testing.T) {
	s := newTestServer(t)

	status, payload, header := s.do(t, "POST", "/api/translate",
		`{"text":["hello","world"],"target_lang":"fr","source_lang":"en"}`)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, body = %v", status, payload)
	}

	data, ok := payload["data"].([]interface{})
	if !ok || len(data) != 2 {
		t.Fatalf("expected a list of 2, got %v", payload["data"])
	}
	first := data[0].(map[string]interface{})
	if first["original"] != "hello" || first["translated"] != "bonjour" || first["src"] != "en" {
		t.Errorf("unexpected item: %v", first)
	}
	if header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	entries := s.store.Entries()
	if entries["en:fr"]["hello"] != "bonjour" || entries["en:fr"]["world"] != "monde" {
		t.Errorf("unexpected cache contents: %v", entries)
	}
}

func TestTranslate_SingleUsesDefaults(t *testing.T) {
	s := newTestServer(t)

	status, payload, _ := s.do(t, "POST", "/translate", `{"text":"hello"}`)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}

	item, ok := payload["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("single text should return an object, got %v", payload["data"])
	}
	if item["src"] != transcache.AutoDetect || item["translated"] != "bonjour" {
		t.Errorf("unexpected item: %v", item)
	}
	if _, ok := s.store.Entries()["auto:en"]; !ok {
		t.Error("defaults should key the cache as auto:en")
	}
}

func TestTranslate_SecondRequestHitsCache(t *testing.T) {
	s := newTestServer(t)
	body := `{"text":["hello","world"],"target_lang":"fr"}`

	s.do(t, "POST", "/api/translate", body)
	status, _, _ := s.do(t, "POST", "/api/translate", body)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if s.mock.CallCount() != 1 {
		t.Errorf("expected 1 provider call, got %d", s.mock.CallCount())
	}
}

func TestTranslate_NoText(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{`{}`, `{"text":""}`, `{"text":[]}`, `{"text":42}`, `not json`, ``} {
		status, payload, _ := s.do(t, "POST", "/api/translate", body)
		if status != fiber.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, status)
			continue
		}
		if payload["error"] != "No text provided" {
			t.Errorf("body %q: error = %v", body, payload["error"])
		}
	}
	if s.mock.CallCount() != 0 {
		t.Error("bad requests must not reach the provider")
	}
}

func TestTranslate_SetupErrorIs500(t *testing.T) {
	s := newTestServer(t)
	s.mock.PairErr = transcache.ErrUnsupportedLanguage

	status, payload, _ := s.do(t, "POST", "/api/translate", `{"text":"hello","target_lang":"xx"}`)
	if status != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", status)
	}
	msg, _ := payload["error"].(string)
	if !strings.Contains(msg, "unsupported language") {
		t.Errorf("error should carry the cause, got %q", msg)
	}
	if len(s.store.Entries()) != 0 {
		t.Error("setup failure must not touch the cache")
	}
}

func TestTranslate_Preflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/translate", nil)
	req.Header.Set("Origin", "https://example.com")
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	if resp.StatusCode >= 300 {
		t.Errorf("preflight status = %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Allow-Origin = %q", resp.Header.Get("Access-Control-Allow-Origin"))
	}
}

func TestTranslateHTML(t *testing.T) {
	s := newTestServer(t)

	status, payload, _ := s.do(t, "POST", "/api/translate/html",
		`{"html":"<p>hello</p><p> world </p><script>hello()</script>","target_lang":"fr"}`)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, body = %v", status, payload)
	}

	data := payload["data"].(map[string]interface{})
	html, _ := data["html"].(string)
	if !strings.Contains(html, "<p>bonjour</p><p> monde </p>") {
		t.Errorf("unexpected html: %s", html)
	}
	if !strings.Contains(html, "hello()") {
		t.Errorf("script should be untouched: %s", html)
	}
	if data["total_nodes"].(float64) != 2 {
		t.Errorf("total_nodes = %v", data["total_nodes"])
	}
}

func TestTranslateHTML_Empty(t *testing.T) {
	s := newTestServer(t)

	status, payload, _ := s.do(t, "POST", "/api/translate/html", `{"html":""}`)
	if status != fiber.StatusBadRequest || payload["error"] != "No HTML provided" {
		t.Errorf("status = %d, payload = %v", status, payload)
	}
}

func TestHealthAndStats(t *testing.T) {
	s := newTestServer(t)

	status, payload, _ := s.do(t, "GET", "/-/health", "")
	if status != fiber.StatusOK || payload["status"] != "ok" || payload["version"] != transcache.FullVersion() {
		t.Errorf("health: status = %d, payload = %v", status, payload)
	}

	s.do(t, "POST", "/api/translate", `{"text":["hello","world"],"target_lang":"fr"}`)

	status, payload, _ = s.do(t, "GET", "/-/stats", "")
	if status != fiber.StatusOK {
		t.Fatalf("stats status = %d", status)
	}
	if payload["backend"] != "file" || payload["entries"].(float64) != 2 {
		t.Errorf("unexpected stats: %v", payload)
	}
}

func TestNewAppRequiresCollaborators(t *testing.T) {
	logger, _ := test.NewNullLogger()

	if _, err := NewApp(AppOptions{Coordinator: &transcache.Coordinator{}}); err == nil {
		t.Error("missing logger should fail")
	}
	if _, err := NewApp(AppOptions{Logger: logger}); err == nil {
		t.Error("missing coordinator should fail")
	}
}
