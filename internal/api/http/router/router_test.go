package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmeduca/investigacion-portal/internal/mail"
	"github.com/tmeduca/investigacion-portal/internal/model"
	"github.com/tmeduca/investigacion-portal/internal/repository/file"
	"github.com/tmeduca/investigacion-portal/internal/service"
	"github.com/tmeduca/investigacion-portal/internal/testutil"
	"github.com/tmeduca/investigacion-portal/internal/token"
)

type fixture struct {
	engine      *gin.Engine
	profilesDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	usersDir := filepath.Join(dir, "users")
	profilesDir := filepath.Join(dir, "profiles")
	requestsDir := filepath.Join(dir, "requests")
	require.NoError(t, os.MkdirAll(profilesDir, 0o755))

	log := testutil.MakeNoopLogger()

	userStore, err := file.NewUserStore(usersDir, "etmp2026", log)
	require.NoError(t, err)
	ledger, err := file.NewRevocationLedger(filepath.Join(usersDir, "invalidated_tokens.json"), 24*time.Hour, log)
	require.NoError(t, err)
	requestStore, err := file.NewRequestStore(requestsDir, log)
	require.NoError(t, err)
	profileStore, err := file.NewProfileStore(profilesDir, log)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = userStore.Create(ctx, "admin@uach.cl", "", model.RoleAdmin)
	require.NoError(t, err)
	_, err = userStore.Create(ctx, "a@x.cl", "", model.RoleProfessor)
	require.NoError(t, err)

	codec := token.NewJWT("test-secret", "https://portal.test", 24*time.Hour)
	notifier := mail.NewLogNotifier(log)

	authService := service.NewAuth(userStore, codec, ledger, log)
	userService := service.NewUsers(userStore, "etmp2026", log)
	requestService := service.NewRequests(requestStore, userStore, notifier, "etmp2026", log)
	profileService := service.NewProfiles(profileStore, log)

	r := New(authService, userService, requestService, profileService, "portal-test", nil, log)
	return &fixture{engine: r.Register(), profilesDir: profilesDir}
}

type envelope struct {
	Success   bool            `json:"success"`
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Message   string          `json:"message"`
}

func (f *fixture) do(t *testing.T, method, path, bearer string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec.Code, env
}

func (f *fixture) login(t *testing.T, email, password string) string {
	t.Helper()

	code, env := f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestRouter_Health(t *testing.T) {
	f := newFixture(t)

	code, env := f.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Timestamp)
}

func TestRouter_Login(t *testing.T) {
	f := newFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@x.cl", "password": "etmp2026"})
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)

	var data struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "a@x.cl", data.User.Email)
	assert.Empty(t, data.User.PasswordHash)
	assert.True(t, data.User.FirstLogin)
}

func TestRouter_Login_WrongPassword(t *testing.T) {
	f := newFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@x.cl", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestRouter_Login_MissingFields(t *testing.T) {
	f := newFixture(t)

	code, _ := f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@x.cl"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_Verify(t *testing.T) {
	f := newFixture(t)

	code, _ := f.do(t, http.MethodGet, "/api/auth/verify", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	tok := f.login(t, "a@x.cl", "etmp2026")
	code, env := f.do(t, http.MethodGet, "/api/auth/verify", tok, nil)
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Claims model.Claims `json:"claims"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "a@x.cl", data.Claims.Email)
	assert.Equal(t, model.RoleProfessor, data.Claims.Role)
}

func TestRouter_LogoutInvalidatesToken(t *testing.T) {
	f := newFixture(t)

	tok := f.login(t, "a@x.cl", "etmp2026")

	code, _ := f.do(t, http.MethodPost, "/api/auth/logout", tok, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = f.do(t, http.MethodGet, "/api/auth/verify", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_Refresh(t *testing.T) {
	f := newFixture(t)

	tok := f.login(t, "a@x.cl", "etmp2026")

	code, env := f.do(t, http.MethodPost, "/api/auth/refresh", tok, nil)
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEqual(t, tok, data.Token)

	code, _ = f.do(t, http.MethodGet, "/api/auth/verify", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, code, "old token revoked by refresh")

	code, _ = f.do(t, http.MethodGet, "/api/auth/verify", data.Token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_ChangePassword(t *testing.T) {
	f := newFixture(t)

	tok := f.login(t, "a@x.cl", "etmp2026")

	code, _ := f.do(t, http.MethodPost, "/api/auth/change-password", tok,
		gin.H{"currentPassword": "etmp2026", "newPassword": "short1"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodPost, "/api/auth/change-password", tok,
		gin.H{"currentPassword": "etmp2026", "newPassword": "newpass1"})
	require.Equal(t, http.StatusOK, code)

	f.login(t, "a@x.cl", "newpass1")
}

func TestRouter_AccountRequestFlow(t *testing.T) {
	f := newFixture(t)

	form := gin.H{
		"firstName": "María",
		"lastName":  "González",
		"rut":       "12.345.678-5",
		"email":     "maria.gonzalez@uach.cl",
		"career":    "Tecnología Médica",
		"role":      "student",
	}

	code, env := f.do(t, http.MethodPost, "/api/account-requests", "", form)
	require.Equal(t, http.StatusCreated, code)

	var request model.AccountRequest
	require.NoError(t, json.Unmarshal(env.Data, &request))
	assert.Equal(t, model.RequestPending, request.Status)

	// duplicate pending request is rejected
	code, _ = f.do(t, http.MethodPost, "/api/account-requests", "", form)
	assert.Equal(t, http.StatusConflict, code)

	// listing needs the admin role
	userTok := f.login(t, "a@x.cl", "etmp2026")
	code, _ = f.do(t, http.MethodGet, "/api/account-requests", userTok, nil)
	assert.Equal(t, http.StatusForbidden, code)

	adminTok := f.login(t, "admin@uach.cl", "etmp2026")
	code, env = f.do(t, http.MethodGet, "/api/account-requests", adminTok, nil)
	require.Equal(t, http.StatusOK, code)

	var requests []model.AccountRequest
	require.NoError(t, json.Unmarshal(env.Data, &requests))
	require.Len(t, requests, 1)

	code, _ = f.do(t, http.MethodPost, "/api/account-requests/"+request.RequestID+"/approve", adminTok,
		gin.H{"comments": "bienvenida"})
	require.Equal(t, http.StatusOK, code)

	// the approved applicant can log in with the default password
	f.login(t, "maria.gonzalez@uach.cl", "etmp2026")

	// a processed request cannot be approved twice
	code, _ = f.do(t, http.MethodPost, "/api/account-requests/"+request.RequestID+"/approve", adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_AccountRequest_ProcessBody(t *testing.T) {
	f := newFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/account-requests", "", gin.H{
		"firstName": "María",
		"lastName":  "González",
		"rut":       "12.345.678-5",
		"email":     "maria.gonzalez@uach.cl",
		"career":    "Tecnología Médica",
		"role":      "student",
	})
	require.Equal(t, http.StatusCreated, code)
	var request model.AccountRequest
	require.NoError(t, json.Unmarshal(env.Data, &request))

	adminTok := f.login(t, "admin@uach.cl", "etmp2026")

	// a body that is present but not JSON is a client error, not an
	// empty comment
	req := httptest.NewRequest(http.MethodPost, "/api/account-requests/"+request.RequestID+"/approve",
		bytes.NewReader([]byte(`{"comments": }`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminTok)
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// the request stays pending, an omitted body still approves
	code, _ = f.do(t, http.MethodPost, "/api/account-requests/"+request.RequestID+"/approve", adminTok, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_AccountRequest_InvalidRUT(t *testing.T) {
	f := newFixture(t)

	code, _ := f.do(t, http.MethodPost, "/api/account-requests", "", gin.H{
		"firstName": "María",
		"lastName":  "González",
		"rut":       "12.345.678-9",
		"email":     "maria.gonzalez@uach.cl",
		"career":    "Tecnología Médica",
		"role":      "student",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_UserAdministration(t *testing.T) {
	f := newFixture(t)

	adminTok := f.login(t, "admin@uach.cl", "etmp2026")

	code, env := f.do(t, http.MethodGet, "/api/users", adminTok, nil)
	require.Equal(t, http.StatusOK, code)
	var users []model.User
	require.NoError(t, json.Unmarshal(env.Data, &users))
	assert.Len(t, users, 2)

	code, _ = f.do(t, http.MethodPost, "/api/users", adminTok, gin.H{"email": "nuevo@uach.cl", "role": "researcher"})
	require.Equal(t, http.StatusCreated, code)

	code, _ = f.do(t, http.MethodPost, "/api/users", adminTok, gin.H{"email": "nuevo@uach.cl", "role": "researcher"})
	assert.Equal(t, http.StatusConflict, code)

	code, env = f.do(t, http.MethodPut, "/api/users/nuevo@uach.cl", adminTok, gin.H{"profileCompleted": true})
	require.Equal(t, http.StatusOK, code)
	var updated model.User
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.True(t, updated.ProfileCompleted)

	code, _ = f.do(t, http.MethodPost, "/api/users/nuevo@uach.cl/reset-password", adminTok, nil)
	require.Equal(t, http.StatusOK, code)
	f.login(t, "nuevo@uach.cl", "etmp2026")

	code, _ = f.do(t, http.MethodDelete, "/api/users/nuevo@uach.cl", adminTok, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = f.do(t, http.MethodDelete, "/api/users/nuevo@uach.cl", adminTok, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_UserAdministration_Forbidden(t *testing.T) {
	f := newFixture(t)

	userTok := f.login(t, "a@x.cl", "etmp2026")
	code, _ := f.do(t, http.MethodGet, "/api/users", userTok, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRouter_Profiles(t *testing.T) {
	f := newFixture(t)

	write := func(name string, doc map[string]any) {
		raw, err := json.Marshal(doc)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(f.profilesDir, name), raw, 0o644))
	}
	write("vega.json", map[string]any{
		"personal_info": map[string]any{"nombre": "Zoila Vega"},
		"metadata":      map[string]any{"status": "published"},
	})
	write("draft.json", map[string]any{
		"personal_info": map[string]any{"nombre": "Borrador"},
		"metadata":      map[string]any{"status": "draft"},
	})

	code, env := f.do(t, http.MethodGet, "/api/profiles", "", nil)
	require.Equal(t, http.StatusOK, code)

	var profiles []model.Profile
	require.NoError(t, json.Unmarshal(env.Data, &profiles))
	require.Len(t, profiles, 1)
	assert.Equal(t, "Zoila Vega", profiles[0].DisplayName())
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	f := newFixture(t)

	code, env := f.do(t, http.MethodDelete, "/api/auth/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.False(t, env.Success)
}

func TestRouter_UnknownRoute(t *testing.T) {
	f := newFixture(t)

	code, _ := f.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
