package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"LunchVoter/internal/config"
	"LunchVoter/internal/notify"
	"LunchVoter/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	svc    *Services
	now    time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.SetupTestDB(t)
	cfg := &config.Config{
		Auth: config.AuthConfig{JWTSecret: "test", JWTExpire: time.Hour, AdminUsernames: []string{"admin"}},
		Voting: config.VotingConfig{
			Weights:     []float64{1.0, 0.5, 0.25},
			DailyBudget: 10,
			CutoffHour:  12,
		},
	}
	ts := &testServer{t: t, now: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)}
	ts.svc = NewServices(db, cfg, time.UTC, notify.NoopPublisher{}, testutil.Logger())
	ts.svc.Now = func() time.Time { return ts.now }
	ts.router = gin.New()
	SetupRoutes(ts.router, db, ts.svc, testutil.Logger())
	return ts
}

func (ts *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	ts.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) register(username string) string {
	ts.t.Helper()
	w := ts.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"username": username, "password": "secret1"})
	require.Equal(ts.t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(ts.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func (ts *testServer) createRestaurant(token, name string) uint64 {
	ts.t.Helper()
	w := ts.do(http.MethodPost, "/api/v1/restaurants", token, gin.H{"name": name})
	require.Equal(ts.t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID uint64 `json:"id"`
	}
	require.NoError(ts.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func restaurantPath(id uint64) string {
	return "/api/v1/restaurants/" + strconv.FormatUint(id, 10)
}

func votePath(id uint64) string {
	return restaurantPath(id) + "/votes"
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestVoteRequiresToken(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodPost, votePath(1), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, votePath(1), "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVoteFlowAndStatusCodes(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register("alice")
	rid := ts.createRestaurant(token, "Pasta")

	w := ts.do(http.MethodPost, votePath(rid), token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = ts.do(http.MethodPost, votePath(rid), token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var vote struct {
		RestaurantID uint64  `json:"restaurant_id"`
		Day          string  `json:"day"`
		Amount       int     `json:"amount"`
		Score        float64 `json:"score"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vote))
	assert.Equal(t, rid, vote.RestaurantID)
	assert.Equal(t, "2024-05-10", vote.Day)
	assert.Equal(t, 2, vote.Amount)
	assert.Equal(t, 1.5, vote.Score)

	w = ts.do(http.MethodPost, votePath(9999), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/votes/today", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"used":2`)

	ts.now = time.Date(2024, 5, 10, 12, 30, 0, 0, time.UTC)
	w = ts.do(http.MethodPost, votePath(rid), token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestVoteBudgetExceeded(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.register("admin")
	rid := ts.createRestaurant(admin, "Pasta")

	w := ts.do(http.MethodPut, "/api/v1/settings", admin, gin.H{"weights": []float64{1}, "daily_budget": 1, "cutoff_hour": 12})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(http.MethodPost, votePath(rid), admin, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = ts.do(http.MethodPost, votePath(rid), admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsAdminOnlyAndValidated(t *testing.T) {
	ts := newTestServer(t)
	user := ts.register("alice")
	admin := ts.register("admin")

	w := ts.do(http.MethodPut, "/api/v1/settings", user, gin.H{"daily_budget": 1, "cutoff_hour": 12})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodPut, "/api/v1/settings", admin, gin.H{"weights": []float64{-1}, "daily_budget": 1, "cutoff_hour": 12})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPut, "/api/v1/settings", admin, gin.H{"daily_budget": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/settings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"daily_budget":10`)
}

func TestWinnersListAndDetermine(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.register("admin")
	alice := ts.register("alice")
	a := ts.createRestaurant(admin, "A")
	b := ts.createRestaurant(admin, "B")

	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, votePath(a), admin, nil).Code)
	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, votePath(b), alice, nil).Code)
	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, votePath(b), admin, nil).Code)

	w := ts.do(http.MethodPost, "/api/v1/winners/determine?date=2024-05-10", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/winners/determine?date=2024-05-10", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(http.MethodGet, "/api/v1/winners?date=10-05-2024", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid date format")

	// 截止后默认查询当天
	ts.now = time.Date(2024, 5, 10, 13, 0, 0, 0, time.UTC)
	w = ts.do(http.MethodGet, "/api/v1/winners", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var winners []struct {
		Restaurant struct {
			Name string `json:"name"`
		} `json:"restaurant"`
		Score        float64 `json:"score"`
		UniqueVoters int     `json:"unique_voters"`
		Date         string  `json:"date"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &winners))
	require.Len(t, winners, 1)
	assert.Equal(t, "B", winners[0].Restaurant.Name)
	assert.Equal(t, 2, winners[0].UniqueVoters)
	assert.Equal(t, "2024-05-10", winners[0].Date)

	// 截止前默认查询前一天
	ts.now = time.Date(2024, 5, 11, 9, 0, 0, 0, time.UTC)
	w = ts.do(http.MethodGet, "/api/v1/winners", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &winners))
	assert.Len(t, winners, 1)
}

func TestLogoutAndAccountDeletion(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register("alice")

	w := ts.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"username": "alice", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = ts.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = ts.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(http.MethodGet, "/api/v1/votes/today", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "alice", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = ts.do(http.MethodDelete, "/api/v1/auth/account", resp.Token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRestaurantEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register("alice")
	id := ts.createRestaurant(token, "Pasta")

	w := ts.do(http.MethodPost, "/api/v1/restaurants", token, gin.H{"name": "Pasta"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = ts.do(http.MethodPost, "/api/v1/restaurants", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPatch, restaurantPath(id), token, gin.H{"description": "fresh"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"description":"fresh"`)

	w = ts.do(http.MethodGet, "/api/v1/restaurants", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = ts.do(http.MethodDelete, restaurantPath(id), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(http.MethodGet, restaurantPath(id), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = ts.do(http.MethodGet, "/api/v1/restaurants/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
