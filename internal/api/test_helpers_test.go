package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclecare/internal/db"
	"github.com/terraincognita07/cyclecare/internal/i18n"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testSecretKey = "test-secret-key-for-cyclecare-api"
	testPassword  = "StrongPass1"
)

type goalNotifierStub struct {
	mu    sync.Mutex
	calls []goalNotification
	err   error
}

type goalNotification struct {
	userID uint
	goal   int
}

func (stub *goalNotifierStub) NotifyGoalReached(_ context.Context, userID uint, goal int) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.calls = append(stub.calls, goalNotification{userID: userID, goal: goal})
	return stub.err
}

func (stub *goalNotifierStub) notifications() []goalNotification {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return append([]goalNotification(nil), stub.calls...)
}

type testEnv struct {
	app      *fiber.App
	handler  *Handler
	database *gorm.DB
	notifier *goalNotifierStub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "cyclecare-api-test.db"))
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

	i18nManager, err := i18n.NewManager("en")
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	notifier := &goalNotifierStub{}
	handler, err := NewHandler(database, Options{
		SecretKey:    testSecretKey,
		I18n:         i18nManager,
		Logger:       logger,
		GoalNotifier: notifier,
		HashCost:     bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	return &testEnv{
		app:      NewApp(handler, logger),
		handler:  handler,
		database: database,
		notifier: notifier,
	}
}

func (env *testEnv) request(t *testing.T, method string, path string, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

// registerUser creates an account and returns its bearer token.
func (env *testEnv) registerUser(t *testing.T, email string) string {
	t.Helper()

	response := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "luna",
		"email":    email,
		"password": testPassword,
		"name":     "Luna",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected register status 201, got %d", response.StatusCode)
	}

	session := sessionResponse{}
	decodeJSON(t, response, &session)
	if session.Token == "" {
		t.Fatal("expected register to return a token")
	}
	return session.Token
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()
	defer response.Body.Close()

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()

	payload := map[string]string{}
	decodeJSON(t, response, &payload)
	return payload["error"]
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func assertStatus(t *testing.T, response *http.Response, expected int) {
	t.Helper()
	if response.StatusCode != expected {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", expected, response.StatusCode, string(body))
	}
}

func newCookieRequest(method string, path string, token string) *http.Request {
	request := httptest.NewRequest(method, path, nil)
	request.AddCookie(&http.Cookie{Name: authCookieName, Value: token})
	return request
}

func itoaUint(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}
