package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stock-simulator/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

// memTokenStore is an in-process TokenStore for tests.
type memTokenStore struct {
	tokens map[string]uint
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]uint)}
}

func (s *memTokenStore) Save(_ context.Context, token string, userID uint, _ time.Duration) error {
	s.tokens[token] = userID
	return nil
}

func (s *memTokenStore) UserID(_ context.Context, token string) (uint, error) {
	userID, ok := s.tokens[token]
	if !ok {
		return 0, errors.New("unknown token")
	}
	return userID, nil
}

func (s *memTokenStore) Delete(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

func openHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Transaction{}, &models.StockPrice{}))
	return db
}

func setupAuthRouter(t *testing.T) (*gin.Engine, *memTokenStore, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := openHandlerTestDB(t)
	tokens := newMemTokenStore()
	h := NewAuthHandler(db, tokens, testSecret, time.Hour, 24*time.Hour)

	router := gin.New()
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/refresh", h.Refresh)
	router.POST("/logout", h.Logout)
	return router, tokens, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(method, path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerBody(username, password, confirmation string) map[string]string {
	return map[string]string{
		"username":     username,
		"password":     password,
		"confirmation": confirmation,
	}
}

func TestRegisterCreatesUserWithStartingCash(t *testing.T) {
	router, _, db := setupAuthRouter(t)

	w := doJSON(t, router, http.MethodPost, "/register", registerBody("alice", "hunter22", "hunter22"), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	assert.NotEqual(t, "hunter22", user.PasswordHash, "plaintext must never be stored")
	assert.NotEmpty(t, user.PasswordHash)
	assert.True(t, user.Cash.Equal(decimal.RequireFromString("10000.00")),
		"starting cash = %s", user.Cash)
}

func TestRegisterRejectsBlankUsername(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	for _, username := range []string{"", "   "} {
		w := doJSON(t, router, http.MethodPost, "/register", registerBody(username, "pw", "pw"), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestRegisterRejectsPasswordMismatch(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	w := doJSON(t, router, http.MethodPost, "/register", registerBody("alice", "one", "two"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/register", registerBody("alice", "", ""), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	w := doJSON(t, router, http.MethodPost, "/register", registerBody("alice", "pw123456", "pw123456"), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/register", registerBody("alice", "other-pw", "other-pw"), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginIssuesTokens(t *testing.T) {
	router, tokens, _ := setupAuthRouter(t)

	w := doJSON(t, router, http.MethodPost, "/register", registerBody("alice", "pw123456", "pw123456"), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "pw123456"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["access_token"])
	assert.NotEmpty(t, resp["refresh_token"])
	_, err := tokens.UserID(context.Background(), resp["refresh_token"])
	assert.NoError(t, err, "refresh token must be stored")
}

// A wrong username and a wrong password must be indistinguishable.
func TestLoginFailureDoesNotLeakWhichFieldWasWrong(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	w := doJSON(t, router, http.MethodPost, "/register", registerBody("alice", "pw123456", "pw123456"), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	unknownUser := doJSON(t, router, http.MethodPost, "/login", map[string]string{"username": "bob", "password": "pw123456"}, nil)
	wrongPassword := doJSON(t, router, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "nope"}, nil)

	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, unknownUser.Body.String(), wrongPassword.Body.String())
}

func TestRefreshAndLogoutRoundTrip(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	w := doJSON(t, router, http.MethodPost, "/register", registerBody("alice", "pw123456", "pw123456"), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "pw123456"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	refresh := map[string]string{"refresh_token": resp["refresh_token"]}

	w = doJSON(t, router, http.MethodPost, "/refresh", refresh, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/logout", refresh, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// A revoked refresh token is no longer exchangeable.
	w = doJSON(t, router, http.MethodPost, "/refresh", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	w := doJSON(t, router, http.MethodPost, "/refresh", map[string]string{"refresh_token": "forged"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
