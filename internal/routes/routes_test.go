package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"bankaccount/internal/config"
	"bankaccount/internal/handlers"
	"bankaccount/internal/models"
	"bankaccount/internal/repositories/memory"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		Env:    "test",
		Server: config.ServerConfig{AllowOrigins: "http://localhost:5173"},
		Auth: config.AuthConfig{
			JWTSecret:     "access",
			RefreshSecret: "refresh",
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
		},
	}

	mem := memory.NewStore()
	store := mem.Ledger()

	hash, err := bcrypt.GenerateFromPassword([]byte("rootpw"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(context.Background(), &models.User{
		Username: "root",
		Password: string(hash),
		Role:     models.RoleAdmin,
	}))

	app := NewApp(cfg)
	SetupRoutes(app, Deps{
		Config: cfg,
		Store:  store,
		Health: map[string]handlers.HealthChecker{"database": mem},
		Logger: config.DiscardLogger(),
	})
	return &testServer{app: app}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) register(t *testing.T, username string) {
	t.Helper()
	status, body := s.do(t, "POST", "/api/auth/register", "", fiber.Map{"username": username, "password": "secret"})
	require.Equal(t, fiber.StatusCreated, status, body)
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	status, body := s.do(t, "POST", "/api/auth/login", "", fiber.Map{"username": username, "password": password})
	require.Equal(t, fiber.StatusOK, status, body)
	return body["access_token"].(string)
}

func (s *testServer) openAccount(t *testing.T, token, balance string) uint {
	t.Helper()
	status, body := s.do(t, "POST", "/api/account", token, fiber.Map{"balance": balance})
	require.Equal(t, fiber.StatusCreated, status, body)
	return uint(body["id"].(float64))
}

func TestRoutes_Registration(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")

	status, body := s.do(t, "POST", "/api/auth/register", "", fiber.Map{"username": "alice", "password": "secret"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Username alice already exists.", body["error"])

	status, body = s.do(t, "POST", "/api/auth/register", "", fiber.Map{"username": "bob", "password": "abc", "email": "x"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	fields := body["fields"].(map[string]any)
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "email")

	status, _ = s.do(t, "POST", "/api/auth/login", "", fiber.Map{"username": "alice", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	aliceToken := s.login(t, "alice", "secret")
	status, _ = s.do(t, "POST", "/api/auth/register-admin", aliceToken, fiber.Map{"username": "eve", "password": "secret"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	rootToken := s.login(t, "root", "rootpw")
	status, body = s.do(t, "POST", "/api/auth/register-admin", rootToken, fiber.Map{"username": "ops", "password": "secret"})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "ADMIN", body["role"])
}

func TestRoutes_MoneyMovement(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	s.register(t, "bob")
	alice := s.login(t, "alice", "secret")
	bob := s.login(t, "bob", "secret")

	a1 := s.openAccount(t, alice, "100")
	a2 := s.openAccount(t, alice, "50")

	status, body := s.do(t, "POST", "/api/account/transfer", alice, fiber.Map{"amount": "30", "account_id_from": a1, "account_id_to": a2})
	require.Equal(t, fiber.StatusOK, status, body)

	status, body = s.do(t, "POST", "/api/account/withdraw", alice, fiber.Map{"amount": "500", "account_id_from": a1})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Insufficient balance on account: 1 Balance: 70 amount: 500", body["error"])

	status, _ = s.do(t, "POST", "/api/account/transfer", alice, fiber.Map{"amount": "1", "account_id_from": a1, "account_id_to": a1})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.do(t, "POST", "/api/account/withdraw", alice, fiber.Map{"amount": "-1", "account_id_from": a1})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.do(t, "GET", "/api/account/99", alice, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Could not find Account with id: 99", body["error"])

	status, body = s.do(t, "POST", "/api/account/withdraw", bob, fiber.Map{"amount": "1", "account_id_from": a1})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "User lacks permission to withdraw from account: 1", body["error"])

	status, _ = s.do(t, "GET", "/api/account/1", bob, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	// Cards: one per account, credit cards charge a 1% fee.
	status, body = s.do(t, "PUT", "/api/card", alice, fiber.Map{"account_id": a1, "card_type": "CREDIT"})
	require.Equal(t, fiber.StatusCreated, status, body)
	cardID := uint(body["id"].(float64))

	status, _ = s.do(t, "PUT", "/api/card", alice, fiber.Map{"account_id": a1, "card_type": "DEBIT"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.do(t, "PUT", "/api/card", alice, fiber.Map{"account_id": a2, "card_type": "GOLD"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.do(t, "POST", "/api/card/withdraw", alice, fiber.Map{"amount": "10", "card_id_from": cardID})
	require.Equal(t, fiber.StatusOK, status, body)

	status, body = s.do(t, "GET", "/api/user/balance", alice, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "139.9", body["balance"])

	// Deleting a missing account is not an error.
	status, _ = s.do(t, "DELETE", "/api/account/404", alice, nil)
	assert.Equal(t, fiber.StatusOK, status)

	// The audit trail is admin only.
	status, _ = s.do(t, "GET", "/api/audit", alice, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	root := s.login(t, "root", "rootpw")
	status, body = s.do(t, "GET", "/api/audit", root, nil)
	require.Equal(t, fiber.StatusOK, status)
	posts := body["data"].([]any)
	require.Len(t, posts, 6)
	first := posts[0].(map[string]any)
	assert.Equal(t, "accountTransfer", first["operation"])
	assert.Equal(t, "Ok", first["result"])

	status, body = s.do(t, "GET", "/api/audit/3", root, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)

	status, _ = s.do(t, "GET", "/api/audit/77", root, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestRoutes_CustomersAndUsers(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	alice := s.login(t, "alice", "secret")

	status, body := s.do(t, "POST", "/api/customer", alice, fiber.Map{"first_name": "Jane", "last_name": "Doe"})
	require.Equal(t, fiber.StatusCreated, status, body)
	customerID := uint(body["id"].(float64))

	status, body = s.do(t, "PUT", "/api/customer/add-account", alice, fiber.Map{"customer_id": customerID})
	require.Equal(t, fiber.StatusOK, status, body)
	accounts := body["accounts"].([]any)
	require.Len(t, accounts, 1)
	accountID := uint(accounts[0].(map[string]any)["id"].(float64))

	status, body = s.do(t, "PUT", "/api/customer/1", alice, fiber.Map{"first_name": "Janet", "last_name": "Doe"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Janet", body["first_name"])

	status, body = s.do(t, "DELETE", "/api/customer/remove-account", alice, fiber.Map{"customer_id": customerID, "account_id": accountID})
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["accounts"])

	status, _ = s.do(t, "GET", "/api/customer/9", alice, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = s.do(t, "GET", "/api/user", alice, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alice", body["username"])
	assert.NotContains(t, body, "password")

	status, _ = s.do(t, "GET", "/api/user/all", alice, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	root := s.login(t, "root", "rootpw")
	status, body = s.do(t, "GET", "/api/user/all", root, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"].([]any), 2)

	status, _ = s.do(t, "GET", "/api/user/2", root, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRoutes_LogoutRevokesTokens(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	alice := s.login(t, "alice", "secret")

	status, _ := s.do(t, "GET", "/api/account", alice, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = s.do(t, "POST", "/api/logout", alice, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, body := s.do(t, "GET", "/api/account", alice, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "session expired", body["error"])

	status, _ = s.do(t, "GET", "/api/account", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRoutes_Health(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, "GET", "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}
