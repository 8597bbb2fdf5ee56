package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/docscan-go/api/models"
	"github.com/moyoez/docscan-go/notify"
	"github.com/moyoez/docscan-go/share"
	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/transfer"
	"github.com/moyoez/docscan-go/types"
)

func init() {
	notify.SetUseNotify(false)
}

// setupRouter creates a test router with the user endpoints
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	self := router.Group("/api/self/v1")
	{
		self.GET("/config", UserConfigGet)
		self.PATCH("/config", UserConfigPatch)
		self.POST("/test-connection", UserTestConnection)
		self.GET("/endpoint", UserGetEndpoint)
		self.GET("/session", UserSessionGet)
		self.POST("/session/images", UserSessionAddImage)
		self.POST("/session/next", UserSessionNext)
		self.POST("/session/prev", UserSessionPrev)
		self.DELETE("/session", UserSessionReset)
		self.POST("/send", UserSend)
		self.GET("/create-qr-code", GenerateQRCode)
	}

	return router
}

// setupTestConfig points the config at a fresh temp file and clears the active endpoint
func setupTestConfig(t *testing.T) string {
	t.Helper()
	oldPath, oldCfg := tool.ConfigPath, tool.CurrentConfig
	share.ClearActiveEndpoint()
	models.SetSession(models.NewDocumentSession())
	t.Cleanup(func() {
		tool.ConfigPath, tool.CurrentConfig = oldPath, oldCfg
		share.ClearActiveEndpoint()
	})
	path := filepath.Join(t.TempDir(), "config.yaml")
	if _, err := tool.LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	return path
}

type fakeScanner struct {
	probe types.ProbeResult
	asked []string
}

func (f *fakeScanner) ScanNow(ctx context.Context) types.ScanResult {
	return types.ScanResult{}
}

func (f *fakeScanner) TestConnection(ctx context.Context, endpoint string) types.ProbeResult {
	f.asked = append(f.asked, endpoint)
	result := f.probe
	result.Endpoint = endpoint
	return result
}

type noNetwork struct {
	t *testing.T
}

func (n noNetwork) RoundTrip(req *http.Request) (*http.Response, error) {
	n.t.Fatalf("Unexpected network call to %s", req.URL)
	return nil, errors.New("unreachable")
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestUserConfigPatchRejectsBlankEndpoint tests that a blank endpoint is never saved
func TestUserConfigPatchRejectsBlankEndpoint(t *testing.T) {
	path := setupTestConfig(t)
	router := setupRouter()

	if w := doJSON(router, http.MethodPatch, "/api/self/v1/config", map[string]any{"server_endpoint": "192.168.1.100:5000"}); w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	before, _ := os.ReadFile(path)

	w := doJSON(router, http.MethodPatch, "/api/self/v1/config", map[string]any{"server_endpoint": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["error"] == nil {
		t.Error("Expected error message in response")
	}

	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Error("Config file changed after a blank save")
	}
	if got := tool.GetCurrentConfig().ServerEndpoint; got != "192.168.1.100:5000" {
		t.Errorf("Expected saved endpoint to remain, got %q", got)
	}
}

// TestUserConfigPatchActivatesEndpoint tests that a manual save replaces the active endpoint
func TestUserConfigPatchActivatesEndpoint(t *testing.T) {
	setupTestConfig(t)
	router := setupRouter()
	share.SetActiveEndpoint("192.168.1.1:5000", types.EndpointSourceDiscovered)

	w := doJSON(router, http.MethodPatch, "/api/self/v1/config", map[string]any{"server_endpoint": "10.0.0.8:5000"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	active, ok := share.GetActiveEndpoint()
	if !ok || active.Endpoint != "10.0.0.8:5000" || active.Source != types.EndpointSourceSaved {
		t.Errorf("Expected saved endpoint to become active, got %+v", active)
	}

	w = doJSON(router, http.MethodGet, "/api/self/v1/endpoint", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
}

// TestUserConfigPatchIsAtomic tests that options and endpoint are written together or not at all
func TestUserConfigPatchIsAtomic(t *testing.T) {
	path := setupTestConfig(t)
	router := setupRouter()
	before, _ := os.ReadFile(path)

	tool.ConfigPath = filepath.Join(t.TempDir(), "missing", "config.yaml")
	w := doJSON(router, http.MethodPatch, "/api/self/v1/config", map[string]any{
		"allow_wired":     true,
		"server_endpoint": "10.0.0.8:5000",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Error("Config file changed after a failed save")
	}
	cfg := tool.GetCurrentConfig()
	if cfg.AllowWired || cfg.ServerEndpoint != "" {
		t.Errorf("Options were applied despite the failed save: %+v", cfg)
	}
	if _, ok := share.GetActiveEndpoint(); ok {
		t.Error("Endpoint activated despite the failed save")
	}

	tool.ConfigPath = path
	w = doJSON(router, http.MethodPatch, "/api/self/v1/config", map[string]any{
		"allow_wired":     true,
		"server_endpoint": "10.0.0.8:5000",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if cfg := tool.GetCurrentConfig(); !cfg.AllowWired || cfg.ServerEndpoint != "10.0.0.8:5000" {
		t.Errorf("Expected both settings saved, got %+v", cfg)
	}
}

// TestUserGetEndpointNotDetected tests the empty state
func TestUserGetEndpointNotDetected(t *testing.T) {
	setupTestConfig(t)
	w := doJSON(setupRouter(), http.MethodGet, "/api/self/v1/endpoint", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

// TestUserTestConnection tests the connection test endpoint
func TestUserTestConnection(t *testing.T) {
	setupTestConfig(t)
	router := setupRouter()
	scanner := &fakeScanner{probe: types.ProbeResult{Cause: types.ProbeCauseTimeout}}
	models.SetClients(scanner, nil, nil)
	defer models.SetClients(nil, nil, nil)

	w := doJSON(router, http.MethodPost, "/api/self/v1/test-connection", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 with nothing to test, got %d", w.Code)
	}

	w = doJSON(router, http.MethodPost, "/api/self/v1/test-connection", types.TestConnectionRequest{Endpoint: "192.168.1.100:5000"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected 502 for a failed probe, got %d", w.Code)
	}

	scanner.probe = types.ProbeResult{OK: true, StatusCode: http.StatusOK}
	w = doJSON(router, http.MethodPost, "/api/self/v1/test-connection", types.TestConnectionRequest{Endpoint: "192.168.1.100:5000"})
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if len(scanner.asked) != 2 || scanner.asked[1] != "192.168.1.100:5000" {
		t.Errorf("Unexpected probes %v", scanner.asked)
	}
}

// TestUserSession tests capture paging through the API
func TestUserSession(t *testing.T) {
	setupTestConfig(t)
	router := setupRouter()

	for _, img := range []string{"/scans/a.jpg", "/scans/b.jpg"} {
		if w := doJSON(router, http.MethodPost, "/api/self/v1/session/images", types.AddImageRequest{Image: types.ImageReference(img)}); w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
	}
	doJSON(router, http.MethodPost, "/api/self/v1/session/next", nil)
	w := doJSON(router, http.MethodPost, "/api/self/v1/session/next", nil)

	var resp struct {
		Data types.SessionState `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Data.Total != 2 || resp.Data.Current != 1 {
		t.Errorf("Expected page 1 of 2, got %+v", resp.Data)
	}

	if w := doJSON(router, http.MethodPost, "/api/self/v1/session/images", map[string]any{}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a missing image, got %d", w.Code)
	}

	doJSON(router, http.MethodDelete, "/api/self/v1/session", nil)
	if state := models.GetSession().State(); state.Total != 0 {
		t.Errorf("Expected empty session after retake, got %+v", state)
	}
}

// TestUserSendWithoutEndpoint tests that the user is prompted when nothing is configured
func TestUserSendWithoutEndpoint(t *testing.T) {
	setupTestConfig(t)
	router := setupRouter()
	client := transfer.NewClient()
	client.HTTP = &http.Client{Transport: noNetwork{t: t}}
	models.SetClients(nil, client, nil)
	defer models.SetClients(nil, nil, nil)
	models.GetSession().AddImage("/scans/a.jpg")

	w := doJSON(router, http.MethodPost, "/api/self/v1/send", nil)
	if w.Code != http.StatusPreconditionFailed {
		t.Fatalf("Expected 412, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["error"] != notify.MessageNoEndpoint {
		t.Errorf("Expected the settings prompt, got %v", resp["error"])
	}
}

// TestUserSendUsesFirstImage tests the full send path against a companion server
func TestUserSendUsesFirstImage(t *testing.T) {
	setupTestConfig(t)
	router := setupRouter()

	dir := t.TempDir()
	first := filepath.Join(dir, "first.jpg")
	second := filepath.Join(dir, "second.jpg")
	_ = os.WriteFile(first, []byte("first page"), 0o644)
	_ = os.WriteFile(second, []byte("second page"), 0o644)

	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(file)
		got <- buf.String()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	share.SetActiveEndpoint(srv.Listener.Addr().String(), types.EndpointSourceDiscovered)

	client := transfer.NewClient()
	client.HTTP = srv.Client()
	models.SetClients(nil, client, nil)
	defer models.SetClients(nil, nil, nil)

	session := models.GetSession()
	session.AddImage(types.ImageReference(first))
	session.AddImage(types.ImageReference(second))
	session.Next()

	w := doJSON(router, http.MethodPost, "/api/self/v1/send", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if body := <-got; body != "first page" {
		t.Errorf("Expected the first capture to be sent, got %q", body)
	}
}

// TestUserSendRejectedHidesStatus tests that a server rejection surfaces generic guidance only
func TestUserSendRejectedHidesStatus(t *testing.T) {
	setupTestConfig(t)
	router := setupRouter()

	image := filepath.Join(t.TempDir(), "page.jpg")
	_ = os.WriteFile(image, []byte("page"), 0o644)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	share.SetActiveEndpoint(srv.Listener.Addr().String(), types.EndpointSourceDiscovered)

	client := transfer.NewClient()
	client.HTTP = srv.Client()
	models.SetClients(nil, client, nil)
	defer models.SetClients(nil, nil, nil)
	models.GetSession().AddImage(types.ImageReference(image))

	w := doJSON(router, http.MethodPost, "/api/self/v1/send", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Error string         `json:"error"`
		Data  map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Error != notify.MessageUploadFailed {
		t.Errorf("Expected generic guidance, got %q", resp.Error)
	}
	if _, ok := resp.Data["status_code"]; ok {
		t.Error("Raw server status leaked into the response")
	}
	if resp.Data["kind"] != string(types.UploadServerRejected) {
		t.Errorf("Expected kind %s, got %v", types.UploadServerRejected, resp.Data["kind"])
	}
}

// TestUserSendBusy tests that only one upload runs at a time
func TestUserSendBusy(t *testing.T) {
	setupTestConfig(t)
	router := setupRouter()
	models.SetClients(nil, transfer.NewClient(), nil)
	defer models.SetClients(nil, nil, nil)
	models.GetSession().AddImage("/scans/a.jpg")

	release, ok := models.TryBeginUpload()
	if !ok {
		t.Fatal("Expected to claim the upload slot")
	}
	defer release()

	if w := doJSON(router, http.MethodPost, "/api/self/v1/send", nil); w.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", w.Code)
	}
}

// TestGenerateQRCode tests the QR endpoint
func TestGenerateQRCode(t *testing.T) {
	setupTestConfig(t)
	router := setupRouter()

	w := doJSON(router, http.MethodGet, "/api/self/v1/create-qr-code", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without data or endpoint, got %d", w.Code)
	}

	share.SetActiveEndpoint("192.168.1.100:5000", types.EndpointSourceDiscovered)
	w = doJSON(router, http.MethodGet, "/api/self/v1/create-qr-code?size=128x128", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("Expected PNG body")
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int{"": 0, "200": 200, "300x300": 300, "abc": 0, "-5": 0}
	for in, want := range tests {
		if got := parseSize(in); got != want {
			t.Errorf("parseSize(%q) = %d, want %d", in, got, want)
		}
	}
}
