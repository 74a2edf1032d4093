package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/todo-auth-be/internal/auth"
	"github.com/hongminglow/todo-auth-be/internal/service"
	"github.com/hongminglow/todo-auth-be/internal/storage/postgres"
)

// TestAuthIntegration exercises the full register/login/me cycle against a
// live Postgres instance.
func TestAuthIntegration(t *testing.T) {
	if os.Getenv("RUN_AUTH_INTEGRATION") != "true" {
		t.Skip("set RUN_AUTH_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := postgres.NewUserStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	tokens := auth.NewTokenManager("integration-secret", "todo-auth-backend", time.Hour)
	mailer := &captureMailer{}
	svc := service.NewAuthService(store, tokens, mailer, 10*time.Minute, "http://localhost:3000")

	mux := http.NewServeMux()
	NewAuthHandler(svc, tokens).Register(mux)

	ts := httptest.NewServer(mux)
	defer ts.Close()

	suffix := time.Now().UnixNano() % 1_000_000
	username := fmt.Sprintf("it%06d", suffix)
	email := fmt.Sprintf("%s@example.com", username)
	password := fmt.Sprintf("Pass!%d", suffix)

	resp, registered := integrationPost(t, ts.URL+"/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK || registered.Token == "" {
		t.Fatalf("register: status = %d body = %+v", resp.StatusCode, registered)
	}

	resp, loggedIn := integrationPost(t, ts.URL+"/login", map[string]string{
		"username": username,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK || loggedIn.Token == "" {
		t.Fatalf("login: status = %d body = %+v", resp.StatusCode, loggedIn)
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/me", nil)
	if err != nil {
		t.Fatalf("build me request: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: "token", Value: loggedIn.Token})
	meResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("me request failed: %v", err)
	}
	defer meResp.Body.Close()

	if meResp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", meResp.StatusCode)
	}
	var me envelope
	if err := json.NewDecoder(meResp.Body).Decode(&me); err != nil {
		t.Fatalf("decode me response: %v", err)
	}
	if !strings.Contains(string(me.Data), username) {
		t.Fatalf("me response does not carry the user: %s", me.Data)
	}

	t.Logf("created user %s and completed register/login/me via HTTP", username)
}

func integrationPost(t *testing.T, url string, payload map[string]string) (*http.Response, envelope) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var out envelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, out
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
		"../../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
