package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/haythammda/Gift-Storm/internal/config"
	"github.com/haythammda/Gift-Storm/internal/serverapp"
)

const testAdminKey = "integration-admin-key"

func TestServer_HealthAndEmbeddedStatic(t *testing.T) {
	app := newTestApp(t)

	res := app.request(http.MethodGet, "/healthz", nil, "")
	if res.Code != http.StatusOK {
		t.Fatalf("healthz expected 200, got %d", res.Code)
	}
	if res.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected X-Request-Id header")
	}

	cssRes := app.request(http.MethodGet, "/static/css/giftstorm.css", nil, "")
	if cssRes.Code != http.StatusOK {
		t.Fatalf("embedded css expected 200, got %d", cssRes.Code)
	}
	jsRes := app.request(http.MethodGet, "/static/js/live.js", nil, "")
	if jsRes.Code != http.StatusOK {
		t.Fatalf("embedded js expected 200, got %d", jsRes.Code)
	}

	missing := app.request(http.MethodGet, "/api/nope", nil, "")
	if missing.Code != http.StatusNotFound {
		t.Fatalf("unknown api route expected 404, got %d", missing.Code)
	}
	if !strings.Contains(app.logs.String(), `"msg":"http_request"`) {
		t.Fatalf("expected access log lines, got %s", app.logs.String())
	}
}

func TestServer_AdminRoutesRequireAuth(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/admin/update", "/api/admin/simulate", "/api/admin/reset-leaderboard"} {
		res := app.json(http.MethodPost, path, map[string]any{})
		if res.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s, got %d", path, res.Code)
		}
	}
	if res := app.request(http.MethodGet, "/api/admin/stats", nil, ""); res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for stats, got %d", res.Code)
	}

	bad := app.json(http.MethodPost, "/api/admin/login", map[string]any{"key": "wrong"})
	if bad.Code != http.StatusForbidden {
		t.Fatalf("wrong key expected 403, got %d", bad.Code)
	}

	app.loginAdmin(t)

	sessionRes := app.request(http.MethodGet, "/api/admin/session", nil, "")
	if sessionRes.Code != http.StatusOK {
		t.Fatalf("session expected 200, got %d body=%s", sessionRes.Code, sessionRes.Body.String())
	}
	if res := app.request(http.MethodGet, "/api/admin/config", nil, ""); res.Code != http.StatusOK {
		t.Fatalf("config expected 200, got %d", res.Code)
	}
	if strings.Contains(app.request(http.MethodGet, "/api/admin/config", nil, "").Body.String(), testAdminKey) {
		t.Fatalf("config endpoint leaked the admin key")
	}

	app.request(http.MethodPost, "/api/admin/logout", nil, "")
	if res := app.json(http.MethodPost, "/api/admin/update", map[string]any{}); res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", res.Code)
	}
}

func TestServer_DonationFlow(t *testing.T) {
	app := newTestApp(t)
	app.loginAdmin(t)

	res := app.json(http.MethodPost, "/api/admin/update", map[string]any{"donationTotalJOD": 250})
	if res.Code != http.StatusOK {
		t.Fatalf("update expected 200, got %d body=%s", res.Code, res.Body.String())
	}

	status := decodeBodyMap(t, app.request(http.MethodGet, "/api/status", nil, ""))
	if status["donationTotalJOD"] != float64(250) {
		t.Fatalf("expected total 250, got %v", status["donationTotalJOD"])
	}

	sim := app.json(http.MethodPost, "/api/admin/simulate", map[string]any{"amount": 10})
	if sim.Code != http.StatusBadRequest {
		t.Fatalf("simulate with dev flag off expected 400, got %d", sim.Code)
	}
	app.json(http.MethodPost, "/api/admin/update", map[string]any{"devSimulationEnabled": true})
	sim = app.json(http.MethodPost, "/api/admin/simulate", map[string]any{"amount": 10})
	if sim.Code != http.StatusOK {
		t.Fatalf("simulate expected 200, got %d body=%s", sim.Code, sim.Body.String())
	}

	page := app.request(http.MethodGet, "/donate", nil, "")
	if page.Code != http.StatusOK {
		t.Fatalf("donate page expected 200, got %d", page.Code)
	}
	if !strings.Contains(page.Body.String(), "260.00 JOD raised") {
		t.Fatalf("donate page missing total: %s", page.Body.String())
	}

	if _, err := os.Stat(filepath.Join(app.dataDir, "donation.json")); err != nil {
		t.Fatalf("donation state not persisted: %v", err)
	}
}

func TestServer_LeaderboardFlow(t *testing.T) {
	app := newTestApp(t)

	res := app.json(http.MethodPost, "/api/score", map[string]any{
		"playerName":     "  Noor <b>",
		"score":          420,
		"timeSurvived":   125,
		"childrenHelped": 42,
		"coinsEarned":    88,
	})
	if res.Code != http.StatusCreated {
		t.Fatalf("submit expected 201, got %d body=%s", res.Code, res.Body.String())
	}
	created := decodeBodyMap(t, res)
	if created["playerName"] != "Noor b" {
		t.Fatalf("expected sanitized name, got %v", created["playerName"])
	}

	bad := app.json(http.MethodPost, "/api/score", map[string]any{"playerName": "", "score": 1})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("empty name expected 400, got %d", bad.Code)
	}

	var scores []map[string]any
	if err := json.Unmarshal(app.request(http.MethodGet, "/api/scores?limit=5", nil, "").Body.Bytes(), &scores); err != nil {
		t.Fatalf("decode scores: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected 1 score, got %d", len(scores))
	}

	page := app.request(http.MethodGet, "/leaderboard", nil, "")
	if !strings.Contains(page.Body.String(), "<td>Noor b</td>") {
		t.Fatalf("leaderboard page missing score: %s", page.Body.String())
	}

	app.loginAdmin(t)
	stats := decodeBodyMap(t, app.request(http.MethodGet, "/api/admin/stats", nil, ""))
	if stats["scores_submitted"] != float64(1) {
		t.Fatalf("expected 1 submitted score in stats, got %v", stats["scores_submitted"])
	}

	if res := app.request(http.MethodPost, "/api/admin/reset-leaderboard", nil, ""); res.Code != http.StatusOK {
		t.Fatalf("reset expected 200, got %d", res.Code)
	}
	if body := strings.TrimSpace(app.request(http.MethodGet, "/api/scores", nil, "").Body.String()); body != "[]" {
		t.Fatalf("expected empty leaderboard after reset, got %s", body)
	}
}

func TestServer_ProfileAndPurchase(t *testing.T) {
	app := newTestApp(t)
	app.playerID = "player-7"

	res := app.request(http.MethodPost, "/api/purchase/complete?donation=success&type=gamepass", nil, "")
	if res.Code != http.StatusOK {
		t.Fatalf("purchase complete expected 200, got %d body=%s", res.Code, res.Body.String())
	}
	if decodeBodyMap(t, res)["applied"] != true {
		t.Fatalf("expected season pass to be applied")
	}

	profile := decodeBodyMap(t, app.request(http.MethodGet, "/api/profile", nil, ""))
	p := asMap(t, profile["profile"])
	if p["hasSeasonPass"] != true {
		t.Fatalf("expected season pass on player-7, got %v", p["hasSeasonPass"])
	}

	app.playerID = "someone-else"
	other := asMap(t, decodeBodyMap(t, app.request(http.MethodGet, "/api/profile", nil, ""))["profile"])
	if other["hasSeasonPass"] != false {
		t.Fatalf("season pass leaked to another player")
	}

	cmd := app.json(http.MethodPost, "/api/profile/cmd", map[string]any{"action": "purchase_workshop", "id": "maxHp"})
	if cmd.Code != http.StatusConflict {
		t.Fatalf("purchase without coins expected 409, got %d", cmd.Code)
	}

	products := app.request(http.MethodGet, "/api/shop-products", nil, "")
	if products.Code != http.StatusOK {
		t.Fatalf("shop products expected 200, got %d", products.Code)
	}
}

func TestServer_GameData(t *testing.T) {
	app := newTestApp(t)

	level := decodeBodyMap(t, app.request(http.MethodGet, "/api/levels/1", nil, ""))
	bosses, ok := level["bosses"].([]any)
	if !ok || len(bosses) != 3 {
		t.Fatalf("expected 3 bosses in level preview, got %v", level["bosses"])
	}
	if res := app.request(http.MethodGet, "/api/levels/999", nil, ""); res.Code != http.StatusNotFound {
		t.Fatalf("unknown level expected 404, got %d", res.Code)
	}

	diff := decodeBodyMap(t, app.request(http.MethodGet, "/api/difficulty?elapsed=90", nil, ""))
	if diff["nextBoss"] != float64(105) {
		t.Fatalf("expected next boss at 105, got %v", diff["nextBoss"])
	}

	schema := app.request(http.MethodGet, "/api/schema/profile", nil, "")
	if schema.Code != http.StatusOK || !strings.Contains(schema.Body.String(), "hasSeasonPass") {
		t.Fatalf("profile schema expected, got %d", schema.Code)
	}
	if res := app.request(http.MethodGet, "/api/catalog", nil, ""); res.Code != http.StatusOK {
		t.Fatalf("catalog expected 200, got %d", res.Code)
	}
}

type testApp struct {
	handler  http.Handler
	logs     *bytes.Buffer
	dataDir  string
	playerID string
	cookies  map[string]*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := loadTestConfig(t)
	cfg.Admin.Key = testAdminKey
	dataDir := t.TempDir()

	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)
	h, err := serverapp.NewHandler(serverapp.Options{
		Config:        cfg,
		DataDir:       dataDir,
		StaticDir:     filepath.Join(projectRoot(t), "static"),
		UseDiskStatic: false,
		Logger:        logger,
	})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	return &testApp{
		handler: h,
		logs:    &logs,
		dataDir: dataDir,
		cookies: map[string]*http.Cookie{},
	}
}

func (a *testApp) loginAdmin(t *testing.T) {
	t.Helper()
	res := a.json(http.MethodPost, "/api/admin/login", map[string]any{"key": testAdminKey})
	if res.Code != http.StatusOK {
		t.Fatalf("admin login expected 200, got %d body=%s", res.Code, res.Body.String())
	}
}

func (a *testApp) json(method, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	return a.request(method, path, bytes.NewReader(b), "application/json")
}

func (a *testApp) request(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if a.playerID != "" {
		req.Header.Set("X-Player-Id", a.playerID)
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	a.captureCookies(rec.Result())
	return rec
}

func (a *testApp) captureCookies(res *http.Response) {
	for _, c := range res.Cookies() {
		if c == nil {
			continue
		}
		if c.MaxAge < 0 || strings.TrimSpace(c.Value) == "" {
			delete(a.cookies, c.Name)
			continue
		}
		cp := *c
		a.cookies[c.Name] = &cp
	}
}

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfgPath := filepath.Join(projectRoot(t), "giftstorm.yml")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config %s: %v", cfgPath, err)
	}
	return cfg
}

func projectRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime.Caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

func decodeBodyMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode json body failed: %v body=%s", err, rec.Body.String())
	}
	return out
}

func asMap(t *testing.T, v any) map[string]any {
	t.Helper()
	out, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T (%v)", v, v)
	}
	return out
}
