package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
)

const testSecret = "test-secret-key-for-testing-only-32chars"

// testSetup creates control plane store and APIConfig for testing.
func testSetup(t *testing.T, port int) (store.Store, APIConfig) {
	t.Helper()
	t.Setenv(EnvControlPlaneSecret, "")

	dbConfig := store.Config{
		Type: store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{
			Path: ":memory:",
		},
	}
	cpStore, err := store.New(&dbConfig)
	if err != nil {
		t.Fatalf("Failed to create control plane store: %v", err)
	}
	t.Cleanup(func() { _ = cpStore.Close() })

	cfg := APIConfig{
		Port:         port,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  10 * time.Second,
		JWT: JWTConfig{
			Secret:               testSecret,
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 7 * 24 * time.Hour,
		},
	}

	return cpStore, cfg
}

// startServer runs server until the test ends.
func startServer(t *testing.T, server *Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		_ = server.Start(ctx)
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)
}

func TestAPIServer_Lifecycle(t *testing.T) {
	cpStore, cfg := testSetup(t, 18080)

	server, err := NewServer(cfg, cpStore)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/health", cfg.Port))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got '%s'", contentType)
	}

	cancel()

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("Expected nil on graceful shutdown, got: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Server did not shutdown in time")
	}
}

func TestAPIServer_Port(t *testing.T) {
	cpStore, cfg := testSetup(t, 9999)

	server, err := NewServer(cfg, cpStore)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	if server.Port() != 9999 {
		t.Errorf("Expected port 9999, got %d", server.Port())
	}
}

func TestAPIServer_DefaultConfig(t *testing.T) {
	cpStore, _ := testSetup(t, 0)

	cfg := APIConfig{
		JWT: JWTConfig{Secret: testSecret},
	}

	server, err := NewServer(cfg, cpStore)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	if server.Port() != 8080 {
		t.Errorf("Expected default port 8080, got %d", server.Port())
	}
}

func TestAPIServer_Readiness(t *testing.T) {
	cpStore, cfg := testSetup(t, 18081)

	server, err := NewServer(cfg, cpStore)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	startServer(t, server)

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/health/ready", cfg.Port))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var response struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", response.Status)
	}
}

func TestAPIServer_RootRedirectsToHealth(t *testing.T) {
	cpStore, cfg := testSetup(t, 18082)

	server, err := NewServer(cfg, cpStore)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	startServer(t, server)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(fmt.Sprintf("http://localhost:%d/", cfg.Port))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("Expected status %d, got %d", http.StatusTemporaryRedirect, resp.StatusCode)
	}

	if location := resp.Header.Get("Location"); location != "/health" {
		t.Errorf("Expected redirect to '/health', got '%s'", location)
	}
}

func TestAPIServer_InvalidJWTSecret(t *testing.T) {
	cpStore, _ := testSetup(t, 0)

	cfg := APIConfig{
		JWT: JWTConfig{
			Secret: "short",
		},
	}

	if _, err := NewServer(cfg, cpStore); err == nil {
		t.Fatal("Expected error for invalid JWT secret, got nil")
	}
}

func TestRouter_ResourceAccess(t *testing.T) {
	cpStore, cfg := testSetup(t, 0)

	server, err := NewServer(cfg, cpStore)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	token := func(t *testing.T, username string, role models.UserRole, mustChange bool) string {
		t.Helper()
		hash, err := models.HashPassword("password123")
		if err != nil {
			t.Fatalf("HashPassword: %v", err)
		}
		user := &models.User{
			Username:           username,
			PasswordHash:       hash,
			Enabled:            true,
			MustChangePassword: mustChange,
			Role:               string(role),
		}
		if _, err := cpStore.CreateUser(context.Background(), user); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		pair, err := server.jwtService.GenerateTokenPair(user)
		if err != nil {
			t.Fatalf("GenerateTokenPair: %v", err)
		}
		return pair.AccessToken
	}

	operator := token(t, "operator", models.RoleOperator, false)
	pending := token(t, "pending", models.RoleAdmin, true)

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{"no token", "/api/v1/storage/volumes", "", http.StatusUnauthorized},
		{"operator lists volumes", "/api/v1/storage/volumes", operator, http.StatusOK},
		{"operator lists nfs shares", "/api/v1/sharing/nfs", operator, http.StatusOK},
		{"operator reads inventory status", "/api/v1/system/inventory", operator, http.StatusOK},
		{"unknown volume", "/api/v1/storage/volumes/42", operator, http.StatusNotFound},
		{"password change pending", "/api/v1/storage/disks", pending, http.StatusForbidden},
		{"me while password change pending", "/api/v1/auth/me", pending, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()

			server.Handler().ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("GET %s status = %d, want %d, body = %s", tt.path, w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRouter_CompletionLogCarriesRequestAnnotations(t *testing.T) {
	cpStore, cfg := testSetup(t, 0)
	server, err := NewServer(cfg, cpStore)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	hash, err := models.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &models.User{Username: "nas-ops", PasswordHash: hash, Enabled: true, Role: string(models.RoleOperator)}
	if _, err := cpStore.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	pair, err := server.jwtService.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	logFile := filepath.Join(t.TempDir(), "api.log")
	if err := logger.Init(logger.Config{Level: "INFO", Format: "json", Output: logFile}); err != nil {
		t.Fatalf("logger.Init: %v", err)
	}
	t.Cleanup(func() { _ = logger.Init(logger.Config{Level: "INFO", Format: "text", Output: "stdout"}) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storage/disks", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/storage/disks status = %d, body = %s", w.Code, w.Body.String())
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var completed map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		if entry["msg"] == "API request completed" {
			completed = entry
		}
	}
	if completed == nil {
		t.Fatalf("no completion line in %s", data)
	}

	want := map[string]any{
		logger.KeyUsername: "nas-ops",
		logger.KeyResource: "disks",
		"path":             "/api/v1/storage/disks",
		"status":           float64(http.StatusOK),
	}
	for k, v := range want {
		if completed[k] != v {
			t.Errorf("completion line %s = %v, want %v", k, completed[k], v)
		}
	}
	if completed[logger.KeyRequestID] == "" || completed[logger.KeyRequestID] == nil {
		t.Error("completion line has no request_id")
	}
}
