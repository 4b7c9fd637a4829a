package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logistics_control_tower/advisor"
	"logistics_control_tower/config"
)

var testNow = func() time.Time {
	return time.Date(2025, 9, 28, 6, 30, 0, 0, time.UTC)
}

func testConfig() config.Config {
	return config.Config{
		Port:           8000,
		AllowOrigins:   []string{"http://localhost:3000"},
		DefaultModel:   "gpt-4o-mini",
		RequestTimeout: 5 * time.Second,
		MaxUploadBytes: 1 << 20,
	}
}

func newTestServer(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	srv, err := New(advisor.NewResponder(advisor.WithClock(testNow), advisor.WithDefaultModel(cfg.DefaultModel)), cfg)
	require.NoError(t, err)
	srv.now = testNow
	return srv.Routes()
}

type upload struct {
	name    string
	content string
}

func multipartBody(t *testing.T, fields map[string]string, files []upload) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+f.name+`"`)
		h.Set("Content-Type", "text/csv")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestNewRequiresResponder(t *testing.T) {
	_, err := New(nil, testConfig())
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, "2025-09-28T06:30:00Z", out["timestamp"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAssistantIndexScore(t *testing.T) {
	h := newTestServer(t, testConfig())
	body, ct := multipartBody(t, map[string]string{"prompt": "IOI 점수 알려줘"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/assistant", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	answer, _ := out["answer"].(string)
	assert.Contains(t, answer, "75")
	assert.Contains(t, answer, "GO")
	assert.Equal(t, "gpt-4o-mini", out["model"])
	assert.Equal(t, float64(0), out["files_processed"])
	assert.Equal(t, "2025-09-28T06:30:00Z", out["timestamp"])
	assert.NotContains(t, out, "answer_html")
}

func TestAssistantFallbackURLEncoded(t *testing.T) {
	h := newTestServer(t, testConfig())
	form := url.Values{"prompt": {"hello"}, "model": {"gpt-4o"}, "history": {"not json"}}

	req := httptest.NewRequest(http.MethodPost, "/api/assistant", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Contains(t, out["answer"], `"hello"`)
	assert.Equal(t, "gpt-4o", out["model"])
}

func TestAssistantFilesProcessed(t *testing.T) {
	h := newTestServer(t, testConfig())
	body, ct := multipartBody(t,
		map[string]string{"prompt": "schedule please", "history": `[{"role":"user","content":"hi"}]`},
		[]upload{{name: "", content: "ignored"}, {name: "a.csv", content: "0123456789"}},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/assistant", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Equal(t, float64(1), out["files_processed"])
	assert.Contains(t, out["answer"], "항차 스케줄 분석")
}

func TestAssistantHTML(t *testing.T) {
	h := newTestServer(t, testConfig())
	body, ct := multipartBody(t, map[string]string{"prompt": "weather", "format": "html"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/assistant", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Contains(t, out["answer_html"], "<strong>기상 조건 분석</strong>")
}

func TestAssistantRequiresPrompt(t *testing.T) {
	h := newTestServer(t, testConfig())
	body, ct := multipartBody(t, map[string]string{"model": "gpt-4o"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/assistant", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrPromptRequired.Error(), decode(t, rec)["detail"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assistant", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAssistantUploadTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadBytes = 512
	h := newTestServer(t, cfg)
	body, ct := multipartBody(t, map[string]string{"prompt": "hello"},
		[]upload{{name: "big.csv", content: strings.Repeat("x", 4096)}})

	req := httptest.NewRequest(http.MethodPost, "/api/assistant", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.GreaterOrEqual(t, rec.Code, http.StatusBadRequest)
	assert.Contains(t, decode(t, rec)["detail"], "request body too large")
}

func TestBriefing(t *testing.T) {
	h := newTestServer(t, testConfig())
	body := `{
		"vessel_name": "SEA STAR",
		"schedule": [{"id": "69th", "cargo": "Dune Sand"}, {}, {}, {"id": "72nd"}],
		"weather_windows": [{"hs": 1.2}]
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/briefing", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	briefing, _ := out["briefing"].(string)
	assert.Contains(t, briefing, "일일 브리핑 - SEA STAR")
	assert.Contains(t, briefing, "**📅 시간:** 2025-09-28T06:30:00Z")
	assert.Contains(t, briefing, "**🚢 선박 상태:** Ready @ MW4")
	assert.Contains(t, briefing, "**항차2 항차:**")
	assert.Contains(t, briefing, "**항차3 항차:**")
	assert.NotContains(t, briefing, "72nd")
	assert.Contains(t, briefing, "파고: 1.5m (정상)")
	assert.Equal(t, "gpt-4o-mini", out["model"])
	assert.Equal(t, "2025-09-28T06:30:00Z", out["timestamp"])
}

func TestBriefingHTML(t *testing.T) {
	h := newTestServer(t, testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/briefing?format=html", strings.NewReader(`{"model": "gpt-4o"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Equal(t, "gpt-4o", out["model"])
	assert.Contains(t, out["briefing_html"], "<h2>")
}

func TestBriefingHTMLFromBody(t *testing.T) {
	h := newTestServer(t, testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/briefing", strings.NewReader(`{"format": "html"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Contains(t, out["briefing_html"], "<h2>")

	// The body wins over the query string.
	req = httptest.NewRequest(http.MethodPost, "/api/briefing?format=html", strings.NewReader(`{"format": "text"}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out = decode(t, rec)
	assert.NotContains(t, out, "briefing_html")
}

func TestBriefingInvalidBody(t *testing.T) {
	h := newTestServer(t, testConfig())
	for _, body := range []string{`[1, 2]`, `{"schedule": ["x"]}`, `{broken`} {
		req := httptest.NewRequest(http.MethodPost, "/api/briefing", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/briefing", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "스케", truncate("스케줄", 2))
}
