package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogasw/expense-tracker-api/internal/application"
	"github.com/yogasw/expense-tracker-api/internal/domain/entity"
	"github.com/yogasw/expense-tracker-api/internal/domain/repository"
	"github.com/yogasw/expense-tracker-api/internal/interface/middleware"
	"github.com/yogasw/expense-tracker-api/pkg/helpers"
	"github.com/yogasw/expense-tracker-api/pkg/response"
	"github.com/yogasw/expense-tracker-api/pkg/validation"
)

type memUserRepo struct {
	seq   int
	users map[string]*entity.User
}

func (m *memUserRepo) Create(ctx context.Context, u *entity.User) error {
	m.seq++
	if u.ID == "" {
		u.ID = fmt.Sprintf("u-%d", m.seq+100)
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memExpenseRepo struct {
	seq      int
	expenses []entity.Expense
}

func (m *memExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	m.seq++
	e.ID = fmt.Sprintf("e-%d", m.seq)
	// strictly increasing creation times so insertion order is observable
	e.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Second)
	e.UpdatedAt = e.CreatedAt
	m.expenses = append(m.expenses, *e)
	return nil
}

func (m *memExpenseRepo) ListByOwner(ctx context.Context, ownerID string) ([]entity.Expense, error) {
	out := make([]entity.Expense, 0)
	for _, e := range m.expenses {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memExpenseRepo) GetByID(ctx context.Context, ownerID, id string) (*entity.Expense, error) {
	for i := range m.expenses {
		if m.expenses[i].ID == id && m.expenses[i].OwnerID == ownerID {
			e := m.expenses[i]
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memExpenseRepo) Update(ctx context.Context, e *entity.Expense) error {
	for i := range m.expenses {
		if m.expenses[i].ID == e.ID && m.expenses[i].OwnerID == e.OwnerID {
			m.expenses[i] = *e
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memExpenseRepo) Delete(ctx context.Context, ownerID, id string) error {
	for i := range m.expenses {
		if m.expenses[i].ID == id && m.expenses[i].OwnerID == ownerID {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memExpenseRepo) Summarize(ctx context.Context, ownerID string, f repository.SummaryFilter) (*repository.Summary, error) {
	sum := &repository.Summary{Categories: []string{}}
	seen := map[string]struct{}{}
	for _, e := range m.expenses {
		if e.OwnerID != ownerID {
			continue
		}
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !e.Date.Before(*f.To) {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		sum.TotalAmount += e.Amount
		sum.TotalCount++
		if _, ok := seen[e.Category]; !ok {
			seen[e.Category] = struct{}{}
			sum.Categories = append(sum.Categories, e.Category)
		}
	}
	if sum.TotalCount > 0 {
		sum.AvgAmount = sum.TotalAmount / float64(sum.TotalCount)
	}
	sort.Strings(sum.Categories)
	return sum, nil
}

type testAPI struct {
	router *gin.Engine
	repo   *memExpenseRepo
	jwt    *helpers.JWTManager
	tokens map[string]string // owner id -> bearer token
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	jwtMgr := helpers.NewJWTManager("test-secret", time.Hour)
	userRepo := &memUserRepo{users: map[string]*entity.User{
		"u-1": {ID: "u-1", Name: "Alice", Email: "alice@example.com"},
		"u-2": {ID: "u-2", Name: "Bob", Email: "bob@example.com"},
	}}
	authSvc := application.NewAuthService(userRepo, jwtMgr, logger)

	repo := &memExpenseRepo{}
	svc := application.NewExpenseService(repo, nil, nil, nil, nil, "", logger, 0)
	h := NewExpenseHandler(svc, logger)

	r := gin.New()
	g := r.Group("/api/expenses", middleware.Auth(authSvc, jwtMgr))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/stats/summary", h.Stats)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	tokens := map[string]string{}
	for _, id := range []string{"u-1", "u-2"} {
		tok, _, err := jwtMgr.GenerateToken(id)
		require.NoError(t, err)
		tokens[id] = tok
	}
	return &testAPI{router: r, repo: repo, jwt: jwtMgr, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, owner, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.tokens[owner])
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func (a *testAPI) seed(t *testing.T, owner, title string, amount float64, category, date string) string {
	t.Helper()
	w := a.do(t, owner, http.MethodPost, "/api/expenses", gin.H{
		"title": title, "amount": amount, "category": category, "date": date,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var env struct {
		Data entity.Expense `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Data.ID
}

func TestCreateExpense(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, "u-1", http.MethodPost, "/api/expenses", gin.H{
		"title": "Coffee", "amount": 4.5, "category": "Food",
		"ownerId": "u-2", // spoofed owner is ignored
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Data    entity.Expense `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "expense created successfully", env.Message)
	assert.Equal(t, "u-1", env.Data.OwnerID)
	assert.Equal(t, 4.5, env.Data.Amount)
	assert.False(t, env.Data.Date.IsZero())
}

func TestCreateExpenseValidation(t *testing.T) {
	api := newTestAPI(t)

	cases := []gin.H{
		{"amount": 10, "category": "Food"},                          // no title
		{"title": "Coffee", "category": "Food"},                     // no amount
		{"title": "Coffee", "amount": 0, "category": "Food"},        // zero amount
		{"title": "Coffee", "amount": -5, "category": "Food"},       // negative amount
		{"title": "Coffee", "amount": 10},                           // no category
	}
	for i, body := range cases {
		w := api.do(t, "u-1", http.MethodPost, "/api/expenses", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "case %d: %s", i, w.Body.String())
		assert.False(t, decodeEnvelope(t, w).Success)
	}

	w := api.do(t, "u-1", http.MethodPost, "/api/expenses", gin.H{
		"title": "Coffee", "amount": 4.5, "category": "Food", "date": "yesterday",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid date format", decodeEnvelope(t, w).Message)
}

func TestListOrderedByDateDesc(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t, "u-1", "Old", 1, "a", "2024-01-01")
	api.seed(t, "u-1", "New", 2, "a", "2024-01-05")
	api.seed(t, "u-1", "Mid", 3, "a", "2024-01-03")
	api.seed(t, "u-2", "Other", 4, "a", "2024-01-04")

	w := api.do(t, "u-1", http.MethodGet, "/api/expenses", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Success bool             `json:"success"`
		Count   int              `json:"count"`
		Data    []entity.Expense `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, 3, env.Count)
	require.Len(t, env.Data, 3)
	assert.Equal(t, "New", env.Data[0].Title)
	assert.Equal(t, "Mid", env.Data[1].Title)
	assert.Equal(t, "Old", env.Data[2].Title)
}

func TestListSameDateNewestCreatedFirst(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t, "u-1", "Old", 1, "a", "2024-01-01")
	api.seed(t, "u-1", "First", 2, "a", "2024-01-03")
	api.seed(t, "u-1", "Second", 3, "a", "2024-01-03")

	w := api.do(t, "u-1", http.MethodGet, "/api/expenses", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data []entity.Expense `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data, 3)
	// the two 2024-01-03 entries order by creation, newest first
	assert.Equal(t, "Second", env.Data[0].Title)
	assert.Equal(t, "First", env.Data[1].Title)
	assert.Equal(t, "Old", env.Data[2].Title)
}

func TestGetForeignExpenseIsNotFound(t *testing.T) {
	api := newTestAPI(t)
	id := api.seed(t, "u-1", "Coffee", 4.5, "Food", "")

	// the owner sees it
	w := api.do(t, "u-1", http.MethodGet, "/api/expenses/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// another user gets the same answer as for a nonexistent id
	w = api.do(t, "u-2", http.MethodGet, "/api/expenses/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "expense not found", decodeEnvelope(t, w).Message)

	w = api.do(t, "u-2", http.MethodGet, "/api/expenses/e-999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "expense not found", decodeEnvelope(t, w).Message)
}

func TestUpdateExpense(t *testing.T) {
	api := newTestAPI(t)
	id := api.seed(t, "u-1", "Coffee", 4.5, "Food", "2024-01-02")

	w := api.do(t, "u-1", http.MethodPut, "/api/expenses/"+id, gin.H{
		"title": "Espresso", "amount": 3, "category": "Food",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env struct {
		Data entity.Expense `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "Espresso", env.Data.Title)
	assert.Equal(t, 3.0, env.Data.Amount)

	// foreign update answers 404
	w = api.do(t, "u-2", http.MethodPut, "/api/expenses/"+id, gin.H{
		"title": "Stolen", "amount": 1, "category": "Food",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteExpense(t *testing.T) {
	api := newTestAPI(t)
	id := api.seed(t, "u-1", "Coffee", 4.5, "Food", "")

	w := api.do(t, "u-1", http.MethodDelete, "/api/expenses/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "expense deleted successfully", decodeEnvelope(t, w).Message)

	// the second delete misses
	w = api.do(t, "u-1", http.MethodDelete, "/api/expenses/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "expense not found", decodeEnvelope(t, w).Message)
}

func TestStatsSummary(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t, "u-1", "Groceries", 45, "Food", "2024-01-15")
	api.seed(t, "u-1", "Rent", 900, "Housing", "2024-02-01")
	api.seed(t, "u-2", "Other", 999, "Misc", "2024-01-10")

	w := api.do(t, "u-1", http.MethodGet, "/api/expenses/stats/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data repository.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, 2, env.Data.TotalCount)
	assert.InDelta(t, 945, env.Data.TotalAmount, 1e-9)
	assert.ElementsMatch(t, []string{"Food", "Housing"}, env.Data.Categories)

	w = api.do(t, "u-1", http.MethodGet, "/api/expenses/stats/summary?period=month&month=2024-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, 1, env.Data.TotalCount)
	assert.InDelta(t, 45, env.Data.TotalAmount, 1e-9)

	// month is mandatory for period=month
	w = api.do(t, "u-1", http.MethodGet, "/api/expenses/stats/summary?period=month", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "month is required when period is month", decodeEnvelope(t, w).Message)

	w = api.do(t, "u-1", http.MethodGet, "/api/expenses/stats/summary?period=decade", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "period must be one of: all, month, week", decodeEnvelope(t, w).Message)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", Health)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Server is running", body.Message)
	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)
}
