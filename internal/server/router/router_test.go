package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/repository/memory"
	"github.com/mamadbah2/tillbook/internal/server/handlers"
	"github.com/mamadbah2/tillbook/internal/service/auth"
	"github.com/mamadbah2/tillbook/internal/service/calendar"
	"github.com/mamadbah2/tillbook/internal/service/inventory"
	"github.com/mamadbah2/tillbook/internal/service/menu"
	"github.com/mamadbah2/tillbook/internal/service/notify"
	"github.com/mamadbah2/tillbook/internal/service/reporting"
	"github.com/mamadbah2/tillbook/internal/service/sessions"
	"github.com/mamadbah2/tillbook/internal/service/staff"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	cal := calendar.New(time.UTC, time.Now)
	notifier := notify.Nop{}

	authSvc := auth.NewService(store, auth.NewTokenManager("router-test-secret-123", time.Hour), nil)
	require.NoError(t, authSvc.EnsureDefaultUser(context.Background(), "admin", "admin123"))

	sessionSvc := sessions.NewService(store, notifier, nil, cal, models.MustDecimal("200"), nil)
	engine := New(Handlers{
		Auth:          handlers.NewAuthHandler(authSvc, nil),
		Menu:          handlers.NewMenuHandler(menu.NewService(store, cal, nil), nil),
		Staff:         handlers.NewStaffHandler(staff.NewService(store, cal, nil), nil),
		Inventory:     handlers.NewInventoryHandler(inventory.NewService(store, cal, nil), nil),
		Sessions:      handlers.NewSessionHandler(sessionSvc, nil),
		Reports:       handlers.NewReportHandler(reporting.NewService(store, sessionSvc, cal, nil), nil),
		Notifications: handlers.NewNotificationHandler(notifier, nil),
	}, nil)

	return &testServer{t: t, engine: engine}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login() {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(s.t, session.Token)
	s.token = session.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthAndAuth(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/menu/items", nil).Code)

	rec := s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.token = "not-a-token"
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", nil).Code)

	s.login()
	rec = s.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[models.User](t, rec)
	assert.Equal(t, "admin", me.Username)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(http.MethodDelete, "/api/users/"+me.ID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t)
	s.login()

	rec := s.do(http.MethodPost, "/api/inventory", gin.H{"name": "Buns", "unit": "pcs", "stock": 10, "minStock": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	buns := decode[models.InventoryView](t, rec)

	rec = s.do(http.MethodPost, "/api/menu/items", gin.H{
		"name":        "Burger",
		"category":    "Main",
		"price":       "25.00",
		"ingredients": []gin.H{{"inventoryItemId": buns.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	burger := decode[models.MenuItem](t, rec)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/menu/items", gin.H{"name": "", "price": 1}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/menu/items/missing", nil).Code)

	rec = s.do(http.MethodPost, "/api/sales", gin.H{"menuItemId": burger.ID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/sessions", gin.H{"sessionName": "Lunch"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decode[models.Session](t, rec)

	rec = s.do(http.MethodPost, "/api/sales", gin.H{"menuItemId": burger.ID, "paymentType": "CASH"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decode[sessions.SaleResult](t, rec)
	assert.Equal(t, 1, sale.Sale.Quantity)
	assert.True(t, sale.Session.TotalRevenue.Equal(models.MustDecimal("25")))

	rec = s.do(http.MethodPost, "/api/sales", gin.H{"menuItemId": burger.ID, "paymentType": "voucher"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/expenses", gin.H{"description": "Ice", "amount": 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/sessions/"+session.ID+"/close", gin.H{"cashRevenue": 20, "cardRevenue": 0, "actualCash": 220})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/sessions/"+session.ID+"/close", gin.H{"cashRevenue": 25, "cardRevenue": 0, "actualCash": 219})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	closed := decode[sessions.CloseResult](t, rec)
	require.NotNil(t, closed.Session.Closing)
	assert.True(t, closed.Session.Closing.ExpectedCash.Equal(models.MustDecimal("220")))
	assert.True(t, closed.Session.Closing.Difference.Equal(models.MustDecimal("-1")))
	assert.Equal(t, 1, closed.DayRecord.ClosedSessions)

	rec = s.do(http.MethodGet, "/api/inventory/"+buns.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.InventoryView](t, rec).Stock.Equal(models.MustDecimal("9")))

	rec = s.do(http.MethodGet, "/api/reports/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[models.DashboardStats](t, rec)
	assert.True(t, stats.TodayRevenue.Equal(models.MustDecimal("25")))
	assert.Nil(t, stats.ActiveSession)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/reports/chef?period=year", nil).Code)
}

func TestNotificationsDisabled(t *testing.T) {
	s := newTestServer(t)
	s.login()

	rec := s.do(http.MethodPost, "/api/notifications", gin.H{"message": "hello"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/notifications", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
