package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ozhegov/product-api/internal/models"
	"github.com/ozhegov/product-api/internal/repo"
	"github.com/ozhegov/product-api/internal/service"
	"github.com/ozhegov/product-api/internal/tokens"
	"github.com/ozhegov/product-api/internal/transport"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestIssuer() *tokens.Issuer {
	return tokens.NewIssuer(tokens.Settings{
		Secret:    []byte("test-jwt-secret"),
		Issuer:    "product-api-test",
		Audience:  "product-api-clients",
		AccessTTL: 15 * time.Minute,
	})
}

func newAuthHandler(t *testing.T) (*AuthHandler, *tokens.Issuer) {
	issuer := newTestIssuer()
	svc := &service.AuthService{
		Repo:            &repo.GormRepo{DB: initTestDB(t)},
		Issuer:          issuer,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
	return &AuthHandler{Svc: svc}, issuer
}

func doJSONRequest(t *testing.T, e *echo.Echo, method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, c
}

func TestRegister(t *testing.T) {
	h, _ := newAuthHandler(t)
	e := echo.New()

	payload := map[string]string{
		"username":  "alice",
		"password":  "Secret123",
		"firstName": "Alice",
		"lastName":  "Smith",
		"email":     "alice@example.com",
		"role":      "User",
	}

	rec, c := doJSONRequest(t, e, http.MethodPost, "/Users/register", payload)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	require.Equal(t, "alice", resp.Username)
	require.Equal(t, "Alice", resp.FirstName)
	require.Equal(t, "Smith", resp.LastName)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)

	// Second registration with the same username conflicts.
	recDup, cDup := doJSONRequest(t, e, http.MethodPost, "/Users/register", payload)
	require.NoError(t, h.Register(cDup))
	require.Equal(t, http.StatusBadRequest, recDup.Code)

	var errResp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(recDup.Body.Bytes(), &errResp))
	require.Equal(t, "Username already exists", errResp.Message)
}

func TestRegister_RejectsElevatedRole(t *testing.T) {
	h, _ := newAuthHandler(t)
	e := echo.New()

	payload := map[string]string{
		"username": "mallory",
		"password": "Secret123",
		"role":     "SuperAdmin",
	}

	rec, c := doJSONRequest(t, e, http.MethodPost, "/Users/register", payload)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthenticate(t *testing.T) {
	h, issuer := newAuthHandler(t)
	e := echo.New()

	register := map[string]string{
		"username": "alice",
		"password": "Secret123",
		"role":     "User",
	}
	recReg, cReg := doJSONRequest(t, e, http.MethodPost, "/Users/register", register)
	require.NoError(t, h.Register(cReg))
	require.Equal(t, http.StatusOK, recReg.Code)

	login := map[string]string{"username": "alice", "password": "Secret123"}
	rec, c := doJSONRequest(t, e, http.MethodPost, "/Users/authenticate", login)
	require.NoError(t, h.Authenticate(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)

	claims, err := issuer.ParseAccess(resp.Token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, "User", claims.Role)

	bad := map[string]string{"username": "alice", "password": "wrong"}
	recBad, cBad := doJSONRequest(t, e, http.MethodPost, "/Users/authenticate", bad)
	require.NoError(t, h.Authenticate(cBad))
	require.Equal(t, http.StatusBadRequest, recBad.Code)

	var errResp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(recBad.Body.Bytes(), &errResp))
	require.Equal(t, "Username or password is incorrect", errResp.Message)
}

func TestRefresh(t *testing.T) {
	h, _ := newAuthHandler(t)
	e := echo.New()

	register := map[string]string{"username": "alice", "password": "Secret123"}
	recReg, cReg := doJSONRequest(t, e, http.MethodPost, "/Users/register", register)
	require.NoError(t, h.Register(cReg))
	require.Equal(t, http.StatusOK, recReg.Code)

	var regResp transport.RegisterResponse
	require.NoError(t, json.Unmarshal(recReg.Body.Bytes(), &regResp))

	rec, c := doJSONRequest(t, e, http.MethodPost, "/Users/refresh",
		map[string]string{"refreshToken": regResp.RefreshToken})
	require.NoError(t, h.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)
	require.NotEqual(t, regResp.RefreshToken, resp.RefreshToken)
}

func TestRefresh_UnknownTokenIsDefinedError(t *testing.T) {
	h, _ := newAuthHandler(t)
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/Users/refresh",
		map[string]string{"refreshToken": "never-issued"})
	require.NoError(t, h.Refresh(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.NotEmpty(t, errResp.Message)
}
