package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZicoForREAL/fullstackAPP/internal/config"
	"github.com/ZicoForREAL/fullstackAPP/internal/database"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return newTestAppWithEnv(t, nil)
}

func newTestAppWithEnv(t *testing.T, env map[string]string) *fiber.App {
	t.Helper()

	t.Setenv("DB_DRIVER", config.DriverSQLite)
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "app.db"))
	t.Setenv("JWT_SECRET", "routes-test-secret")
	t.Setenv("RATE_LIMIT_RPS", "100")
	t.Setenv("RATE_LIMIT_BURST", "100")
	for key, value := range env {
		t.Setenv(key, value)
	}
	cfg, err := config.Parse()
	require.NoError(t, err)

	require.NoError(t, database.MigrateUp(cfg))
	store, err := database.OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	app := fiber.New()
	require.NoError(t, RegisterRoutes(app, cfg, store, zerolog.Nop()))
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	payload := map[string]any{}
	_ = json.Unmarshal(raw, &payload)
	return resp.StatusCode, payload
}

func register(t *testing.T, app *fiber.App, name, email, role string) string {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/api/register", "", fmt.Sprintf(
		`{"name": %q, "email": %q, "password": "password123", "role": %q}`, name, email, role))
	require.Equal(t, http.StatusCreated, status, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestBookingLifecycle(t *testing.T) {
	app := newTestApp(t)
	coach := register(t, app, "Coach Carter", "coach@example.com", "coach")
	client := register(t, app, "Client Casey", "client@example.com", "client")

	date := time.Now().UTC().AddDate(0, 0, 30).Format("2006-01-02")
	status, body := call(t, app, http.MethodPost, "/api/coach/sessions", coach, fmt.Sprintf(
		`{"title": "Strength", "description": "Full body", "date": %q, "time": "09:30", "duration": 60, "price": "25.5"}`, date))
	require.Equal(t, http.StatusCreated, status, body)
	session := body["session"].(map[string]any)
	require.Equal(t, "available", session["status"])
	sessionID := int64(session["id"].(float64))

	status, body = call(t, app, http.MethodGet, "/api/client/available-sessions", client, "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["sessions"], 1)

	status, body = call(t, app, http.MethodPost, fmt.Sprintf("/api/client/book-session/%d", sessionID), client, "")
	require.Equal(t, http.StatusOK, status, body)
	bookingID := int64(body["booking"].(map[string]any)["id"].(float64))

	status, body = call(t, app, http.MethodPost, fmt.Sprintf("/api/client/book-session/%d", sessionID), client, "")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Session not found or not available", body["message"])

	status, _ = call(t, app, http.MethodDelete, fmt.Sprintf("/api/coach/sessions/%d", sessionID), coach, "")
	require.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, app, http.MethodGet, "/api/client/booked-sessions", client, "")
	require.Equal(t, http.StatusOK, status)
	booked := body["sessions"].([]any)
	require.Len(t, booked, 1)
	require.Equal(t, "booked", booked[0].(map[string]any)["booking_status"])

	status, _ = call(t, app, http.MethodDelete, fmt.Sprintf("/api/client/cancel-booking/%d", bookingID), client, "")
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, http.MethodDelete, fmt.Sprintf("/api/client/cancel-booking/%d", bookingID), client, "")
	require.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, app, http.MethodDelete, fmt.Sprintf("/api/coach/sessions/%d", sessionID), coach, "")
	require.Equal(t, http.StatusOK, status)

	status, body = call(t, app, http.MethodGet, "/api/coach/sessions", coach, "")
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, body["sessions"])
}

func TestRoleGates(t *testing.T) {
	app := newTestApp(t)
	coach := register(t, app, "Coach Carter", "coach@example.com", "coach")
	client := register(t, app, "Client Casey", "client@example.com", "client")

	status, body := call(t, app, http.MethodPost, "/api/coach/sessions", client, `{"title": "x"}`)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "Unauthorized", body["message"])

	status, _ = call(t, app, http.MethodPost, "/api/client/book-session/1", coach, "")
	require.Equal(t, http.StatusForbidden, status)

	status, body = call(t, app, http.MethodGet, "/api/client/available-sessions", "", "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Unauthenticated.", body["message"])

	status, body = call(t, app, http.MethodGet, "/api/coach/check", coach, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["isCoach"])

	status, body = call(t, app, http.MethodGet, "/api/user", client, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "client@example.com", body["email"])
}

func TestLogoutRequiresToken(t *testing.T) {
	app := newTestApp(t)
	client := register(t, app, "Client Casey", "client@example.com", "client")

	status, body := call(t, app, http.MethodPost, "/api/logout", client, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Logged out successfully", body["message"])

	status, _ = call(t, app, http.MethodPost, "/api/logout", "", "")
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestBookingRateLimitRunsBeforeCoordinator(t *testing.T) {
	app := newTestAppWithEnv(t, map[string]string{
		"RATE_LIMIT_RPS":   "0.001",
		"RATE_LIMIT_BURST": "1",
	})
	client := register(t, app, "Client Casey", "client@example.com", "client")
	other := register(t, app, "Client Riley", "riley@example.com", "client")

	status, _ := call(t, app, http.MethodPost, "/api/client/book-session/999", client, "")
	require.Equal(t, http.StatusNotFound, status)

	status, body := call(t, app, http.MethodPost, "/api/client/book-session/999", client, "")
	require.Equal(t, http.StatusTooManyRequests, status)
	require.Equal(t, "Too many requests", body["message"])

	status, _ = call(t, app, http.MethodDelete, "/api/client/cancel-booking/999", client, "")
	require.Equal(t, http.StatusTooManyRequests, status)

	status, _ = call(t, app, http.MethodPost, "/api/client/book-session/999", other, "")
	require.Equal(t, http.StatusNotFound, status)
}

func TestPublicEndpoints(t *testing.T) {
	app := newTestApp(t)

	status, body := call(t, app, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body["status"])

	status, body = call(t, app, http.MethodGet, "/api/test", "", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Backend connection successful!", body["message"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
