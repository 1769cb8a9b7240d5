package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/email-platform/internal/api/http"
	"github.com/spec-kit/email-platform/internal/api/http/handlers"
	"github.com/spec-kit/email-platform/internal/auth"
	"github.com/spec-kit/email-platform/internal/config"
	"github.com/spec-kit/email-platform/internal/domain"
	"github.com/spec-kit/email-platform/internal/events"
	"github.com/spec-kit/email-platform/internal/observability"
	"github.com/spec-kit/email-platform/internal/persistence"
	"github.com/spec-kit/email-platform/internal/service"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email && existing.DeletedAt == nil {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	user.ID = uuid.NewString()
	user.IsActive = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email && user.DeletedAt == nil {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByResetToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.PasswordResetToken != nil && *user.PasswordResetToken == token && user.DeletedAt == nil {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.LastLoginAt = &at
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = hash
	return nil
}

func (r *memUserRepo) SetResetToken(_ context.Context, id, token string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordResetToken = &token
	user.PasswordResetExpires = &expires
	return nil
}

func (r *memUserRepo) ClearResetToken(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	return nil
}

func (r *memUserRepo) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	user.DeletedAt = &now
	return nil
}

type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.EmailAccount
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]*domain.EmailAccount)}
}

func (r *memAccountRepo) Create(_ context.Context, account *domain.EmailAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account.ID = uuid.NewString()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *memAccountRepo) Update(_ context.Context, account *domain.EmailAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id string) (*domain.EmailAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *account
	return &clone, nil
}

func (r *memAccountRepo) ListByUser(_ context.Context, userID string) ([]*domain.EmailAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var accounts []*domain.EmailAccount
	for _, account := range r.accounts {
		if account.UserID == userID {
			clone := *account
			accounts = append(accounts, &clone)
		}
	}
	return accounts, nil
}

func (r *memAccountRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.accounts, id)
	return nil
}

type memEmailRepo struct{}

func (memEmailRepo) GetByID(context.Context, string) (*domain.Email, error) {
	return nil, pgx.ErrNoRows
}

func (memEmailRepo) ListByAccount(context.Context, string, int, int) ([]*domain.Email, error) {
	return nil, nil
}

type memDocumentRepo struct {
	mu   sync.Mutex
	docs map[string]*domain.Document
}

func newMemDocumentRepo() *memDocumentRepo {
	return &memDocumentRepo{docs: make(map[string]*domain.Document)}
}

func (r *memDocumentRepo) Create(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.ID = uuid.NewString()
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	clone := *doc
	r.docs[doc.ID] = &clone
	return nil
}

func (r *memDocumentRepo) GetByID(_ context.Context, id string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *doc
	return &clone, nil
}

func (r *memDocumentRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var docs []*domain.Document
	for _, doc := range r.docs {
		if doc.UserID == userID {
			clone := *doc
			docs = append(docs, &clone)
		}
	}
	return docs, nil
}

func (r *memDocumentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.docs, id)
	return nil
}

type memOrgRepo struct {
	mu   sync.Mutex
	orgs map[string]*domain.Organization
}

func newMemOrgRepo() *memOrgRepo {
	return &memOrgRepo{orgs: make(map[string]*domain.Organization)}
}

func (r *memOrgRepo) Create(_ context.Context, org *domain.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	org.ID = uuid.NewString()
	org.IsActive = true
	org.CreatedAt = time.Now()
	org.UpdatedAt = org.CreatedAt
	clone := *org
	r.orgs[org.ID] = &clone
	return nil
}

func (r *memOrgRepo) Update(_ context.Context, org *domain.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orgs[org.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *org
	r.orgs[org.ID] = &clone
	return nil
}

func (r *memOrgRepo) GetByID(_ context.Context, id string) (*domain.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	org, ok := r.orgs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *org
	return &clone, nil
}

func (r *memOrgRepo) List(context.Context) ([]*domain.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var orgs []*domain.Organization
	for _, org := range r.orgs {
		clone := *org
		orgs = append(orgs, &clone)
	}
	return orgs, nil
}

type testEnv struct {
	app      *fiber.App
	users    *memUserRepo
	docs     *memDocumentRepo
	accounts *memAccountRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		App: config.AppConfig{Name: "email-platform-test", Version: "test"},
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   15,
			RefreshTokenTTLDays:     7,
			PasswordResetTTLMinutes: 60,
			BcryptCost:              bcrypt.MinCost,
		},
	}

	users := newMemUserRepo()
	accounts := newMemAccountRepo()
	docs := newMemDocumentRepo()
	orgs := newMemOrgRepo()
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: users, Dispatcher: dispatcher})
	accountService := service.NewAccountService(accounts, memEmailRepo{}, dispatcher)
	documentService := service.NewDocumentService(docs, dispatcher)
	orgService := service.NewOrganizationService(orgs)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService),
		Accounts:       handlers.NewAccountsHandler(accountService),
		Documents:      handlers.NewDocumentsHandler(documentService),
		Organizations:  handlers.NewOrganizationsHandler(orgService),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager(), users),
	})

	return &testEnv{app: app, users: users, docs: docs, accounts: accounts}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var parsed map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp, parsed
}

func (e *testEnv) register(t *testing.T, email string) (userID, accessToken, refreshToken string) {
	t.Helper()
	resp, body := e.request(t, fiber.MethodPost, "/auth/register", "", map[string]string{
		"email":      email,
		"password":   "Secret123!",
		"first_name": "Alice",
		"last_name":  "Smith",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	tokens := data["tokens"].(map[string]any)
	return user["id"].(string), tokens["access_token"].(string), tokens["refresh_token"].(string)
}

func TestRegisterAndLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	_, accessToken, _ := env.register(t, "alice@example.com")
	require.NotEmpty(t, accessToken)

	resp, body := env.request(t, fiber.MethodPost, "/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Secret123!",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "mfa_secret")
	assert.NotContains(t, user, "password_reset_token")
}

func TestRegisterDuplicateReturnsConflict(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com")

	resp, body := env.request(t, fiber.MethodPost, "/auth/register", "", map[string]string{
		"email":      "alice@example.com",
		"password":   "Other456!",
		"first_name": "Alice",
		"last_name":  "Smith",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "CONFLICT", errBody["code"])
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	userID, _, _ := env.register(t, "alice@example.com")

	t.Run("wrong password", func(t *testing.T) {
		resp, body := env.request(t, fiber.MethodPost, "/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		errBody := body["error"].(map[string]any)
		assert.Equal(t, "UNAUTHORIZED", errBody["code"])
		assert.Equal(t, "invalid credentials", errBody["message"])
	})

	t.Run("unknown email has identical shape", func(t *testing.T) {
		resp, body := env.request(t, fiber.MethodPost, "/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "Secret123!",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		errBody := body["error"].(map[string]any)
		assert.Equal(t, "invalid credentials", errBody["message"])
	})

	t.Run("deactivated account gets a distinct message", func(t *testing.T) {
		env.users.mu.Lock()
		env.users.users[userID].IsActive = false
		env.users.mu.Unlock()

		resp, body := env.request(t, fiber.MethodPost, "/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "Secret123!",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		errBody := body["error"].(map[string]any)
		assert.Equal(t, "account is deactivated", errBody["message"])
	})
}

func TestRefreshEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, _, refreshToken := env.register(t, "alice@example.com")

	resp, body := env.request(t, fiber.MethodPost, "/auth/refresh", "", map[string]string{
		"refresh_token": refreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	tokens := data["tokens"].(map[string]any)
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEqual(t, refreshToken, tokens["refresh_token"])

	resp, _ = env.request(t, fiber.MethodPost, "/auth/refresh", "", map[string]string{
		"refresh_token": "garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMeEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, accessToken, _ := env.register(t, "alice@example.com")

	resp, body := env.request(t, fiber.MethodGet, "/auth/me", accessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "alice@example.com", data["email"])
	assert.NotContains(t, data, "password_hash")

	resp, _ = env.request(t, fiber.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.request(t, fiber.MethodGet, "/auth/me", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	userID, _, _ := env.register(t, "alice@example.com")

	// unknown and known emails produce the same response
	resp, unknownBody := env.request(t, fiber.MethodPost, "/auth/password/reset-request", "", map[string]string{
		"email": "nobody@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, knownBody := env.request(t, fiber.MethodPost, "/auth/password/reset-request", "", map[string]string{
		"email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, unknownBody, knownBody)

	env.users.mu.Lock()
	token := *env.users.users[userID].PasswordResetToken
	expires := *env.users.users[userID].PasswordResetExpires
	env.users.mu.Unlock()
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	resp, _ = env.request(t, fiber.MethodPost, "/auth/password/reset", "", map[string]string{
		"token":        token,
		"new_password": "New456!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// token is cleared, replay fails
	resp, _ = env.request(t, fiber.MethodPost, "/auth/password/reset", "", map[string]string{
		"token":        token,
		"new_password": "Another789!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.request(t, fiber.MethodPost, "/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "New456!",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChangePasswordEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, accessToken, _ := env.register(t, "alice@example.com")

	resp, _ := env.request(t, fiber.MethodPost, "/auth/password/change", accessToken, map[string]string{
		"old_password": "wrong",
		"new_password": "New456!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.request(t, fiber.MethodPost, "/auth/password/change", accessToken, map[string]string{
		"old_password": "Secret123!",
		"new_password": "New456!",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.request(t, fiber.MethodPost, "/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "New456!",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAccountOwnership(t *testing.T) {
	env := newTestEnv(t)
	_, aliceToken, _ := env.register(t, "alice@example.com")
	_, bobToken, _ := env.register(t, "bob@example.com")

	resp, body := env.request(t, fiber.MethodPost, "/accounts", aliceToken, map[string]any{
		"email_address": "alice@imap.example.com",
		"provider":      "imap",
		"imap_server":   "imap.example.com",
		"imap_port":     993,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	accountID := data["id"].(string)
	assert.NotContains(t, data, "imap_password")

	resp, _ = env.request(t, fiber.MethodGet, "/accounts/"+accountID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// another user cannot read or delete it
	resp, _ = env.request(t, fiber.MethodGet, "/accounts/"+accountID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.request(t, fiber.MethodDelete, "/accounts/"+accountID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.request(t, fiber.MethodDelete, "/accounts/"+accountID, aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.request(t, fiber.MethodGet, "/accounts/"+accountID, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDocumentsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	aliceID, aliceToken, _ := env.register(t, "alice@example.com")
	_, bobToken, _ := env.register(t, "bob@example.com")

	doc := &domain.Document{
		UserID:     aliceID,
		FileName:   "invoice.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  2048,
		StorageKey: "docs/invoice.pdf",
	}
	require.NoError(t, env.docs.Create(context.Background(), doc))

	resp, body := env.request(t, fiber.MethodGet, "/documents", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := body["data"].([]any)
	require.Len(t, list, 1)

	resp, _ = env.request(t, fiber.MethodGet, fmt.Sprintf("/documents/%s", doc.ID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.request(t, fiber.MethodDelete, fmt.Sprintf("/documents/%s", doc.ID), aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.request(t, fiber.MethodGet, fmt.Sprintf("/documents/%s", doc.ID), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrganizationsRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	userID, userToken, _ := env.register(t, "alice@example.com")

	resp, _ := env.request(t, fiber.MethodPost, "/organizations", userToken, map[string]string{
		"name": "Acme",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// promote and retry with a fresh token carrying the admin role
	env.users.mu.Lock()
	env.users.users[userID].Role = domain.RoleAdmin
	env.users.mu.Unlock()

	resp, body := env.request(t, fiber.MethodPost, "/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Secret123!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	adminToken := body["data"].(map[string]any)["tokens"].(map[string]any)["access_token"].(string)

	resp, body = env.request(t, fiber.MethodPost, "/organizations", adminToken, map[string]string{
		"name": "Acme",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	org := body["data"].(map[string]any)
	assert.Equal(t, "Acme", org["name"])
	assert.Equal(t, "basic", org["plan"])
	assert.Equal(t, float64(10), org["max_users"])
}
