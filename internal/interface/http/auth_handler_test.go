package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogasw/expense-tracker-api/internal/application"
	"github.com/yogasw/expense-tracker-api/internal/domain/entity"
	"github.com/yogasw/expense-tracker-api/pkg/helpers"
	"github.com/yogasw/expense-tracker-api/pkg/validation"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *memUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	repo := &memUserRepo{users: map[string]*entity.User{}}
	jwtMgr := helpers.NewJWTManager("test-secret", time.Hour)
	h := NewAuthHandler(application.NewAuthService(repo, jwtMgr, logrus.New()), logrus.New())

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	return r, repo
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type sessionBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Token string `json:"token"`
	} `json:"data"`
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := postJSON(t, r, "/api/auth/register", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var reg sessionBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.True(t, reg.Success)
	assert.NotEmpty(t, reg.Data.ID)
	assert.NotEmpty(t, reg.Data.Token)
	assert.Equal(t, "alice@example.com", reg.Data.Email)

	w = postJSON(t, r, "/api/auth/login", gin.H{
		"email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login sessionBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, reg.Data.ID, login.Data.ID)
	assert.NotEmpty(t, login.Data.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := postJSON(t, r, "/api/auth/register", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/register", gin.H{
		"name": "Imposter", "email": "alice@example.com", "password": "password456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email already registered", decodeEnvelope(t, w).Message)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newAuthRouter(t)

	cases := []gin.H{
		{"email": "alice@example.com", "password": "password123"}, // no name
		{"name": "Alice", "email": "not-an-email", "password": "password123"},
		{"name": "Alice", "email": "alice@example.com", "password": "short"},
	}
	for i, body := range cases {
		w := postJSON(t, r, "/api/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "case %d: %s", i, w.Body.String())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := postJSON(t, r, "/api/auth/register", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// wrong password and unknown email answer identically
	w = postJSON(t, r, "/api/auth/login", gin.H{
		"email": "alice@example.com", "password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decodeEnvelope(t, w).Message)

	w = postJSON(t, r, "/api/auth/login", gin.H{
		"email": "nobody@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decodeEnvelope(t, w).Message)
}
