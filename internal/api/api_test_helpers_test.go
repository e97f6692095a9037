package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/myritu/internal/db"
	"github.com/terraincognita07/myritu/internal/llm"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type stubGenerator struct {
	reply string
	err   error
}

func (generator stubGenerator) Generate(context.Context, llm.Prompt) (string, error) {
	return generator.reply, generator.err
}

type recordingGenerator struct {
	mu      sync.Mutex
	prompts []llm.Prompt
}

func (generator *recordingGenerator) Generate(_ context.Context, prompt llm.Prompt) (string, error) {
	generator.mu.Lock()
	defer generator.mu.Unlock()
	generator.prompts = append(generator.prompts, prompt)
	return "<|assistant|> Noted.", nil
}

func newTestApp(t *testing.T, generator llm.Generator) (*fiber.App, *Handler) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "myritu-api-test.db")
	database, err := db.OpenSQLite(context.Background(), databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler, err := NewHandler(db.NewRepositories(database), Options{
		SecretKey: testSecretKey,
		Location:  time.UTC,
		Generator: generator,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	handler.now = func() time.Time { return time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC) }

	app := fiber.New()
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app, handler
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, body any, authCookie string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if authCookie != "" {
		request.Header.Set("Cookie", authCookieName+"="+authCookie)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func decodeJSON[T any](t *testing.T, response *http.Response) T {
	t.Helper()

	var payload T
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return payload
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()
	return decodeJSON[map[string]string](t, response)["error"]
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// signupTestUser registers a user and returns its auth cookie value.
func signupTestUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": username,
		"password": "ritu2024",
	}, "")
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected signup status 201, got %d", response.StatusCode)
	}
	cookie := responseCookie(response.Cookies(), authCookieName)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected auth cookie after signup")
	}
	return cookie.Value
}

func completeTestProfile(t *testing.T, app *fiber.App, authCookie string) {
	t.Helper()

	response := doJSON(t, app, http.MethodPatch, "/api/profile", map[string]any{
		"birth_date":        "1994-05-10",
		"last_period_start": "2024-01-01",
		"avg_ritu_length":   28,
		"avg_period_length": 5,
	}, authCookie)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected profile update status 200, got %d", response.StatusCode)
	}
}
