package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-restaurant/config"
	"github.com/d60-Lab/gin-restaurant/internal/api"
	"github.com/d60-Lab/gin-restaurant/internal/api/handler"
	"github.com/d60-Lab/gin-restaurant/internal/api/middleware"
	"github.com/d60-Lab/gin-restaurant/internal/repository"
	"github.com/d60-Lab/gin-restaurant/internal/service"
	"github.com/d60-Lab/gin-restaurant/internal/testutil"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t      *testing.T
	engine *gin.Engine
	cookie *http.Cookie
	token  string
}

func (cl *client) do(method, path string, body interface{}) (int, envelope) {
	cl.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(cl.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	w := httptest.NewRecorder()
	cl.engine.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_id" {
			cl.cookie = c
		}
	}
	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(cl.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

type testEnv struct {
	engine *gin.Engine
	cfg    *config.Config
	cat    testutil.Catalog
	store  *repository.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	cat := testutil.SeedCatalog(t, db)
	store := repository.NewStore(db)
	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "router-secret", Issuer: "gin-restaurant"},
		Session: config.SessionConfig{CookieName: "session_id", MaxAge: 3600},
		Tracing: config.TracingConfig{ServiceName: "gin-restaurant-test"},
	}
	h := handler.New(
		service.NewCatalogService(store, nil),
		service.NewCartService(store),
		service.NewOrderService(store),
		service.NewReviewService(store),
	)
	return &testEnv{engine: api.NewRouter(cfg, h, db), cfg: cfg, cat: cat, store: store}
}

func (e *testEnv) client(t *testing.T) *client { return &client{t: t, engine: e.engine} }

func (e *testEnv) userClient(t *testing.T, userID uint, role string) *client {
	token, err := middleware.IssueToken(e.cfg.JWT, userID, role, time.Hour)
	require.NoError(t, err)
	return &client{t: t, engine: e.engine, token: token}
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t)
	code, body := env.client(t).do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(body.Data))
}

func TestRouter_AnonymousCheckout(t *testing.T) {
	env := newTestEnv(t)
	cl := env.client(t)

	code, body := cl.do(http.MethodGet, "/api/v1/dishes?category=soups", nil)
	require.Equal(t, http.StatusOK, code)
	var menu service.Menu
	require.NoError(t, json.Unmarshal(body.Data, &menu))
	require.Len(t, menu.Dishes, 1)
	require.NotNil(t, cl.cookie, "session cookie minted on first visit")

	code, _ = cl.do(http.MethodPost, "/api/v1/cart/items", gin.H{"dish_id": env.cat.Borscht.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, code)
	code, _ = cl.do(http.MethodPost, "/api/v1/cart/items", gin.H{"dish_id": env.cat.Varenyky.ID})
	require.Equal(t, http.StatusOK, code)

	code, body = cl.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, code)
	var view service.CartView
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Len(t, view.Lines, 2)
	assert.True(t, decimal.RequireFromString("315.50").Equal(view.Total), "total %s", view.Total)

	code, body = cl.do(http.MethodPost, "/api/v1/orders", gin.H{"name": "Olena", "phone": "123", "address": "Kyiv"})
	require.Equal(t, http.StatusCreated, code, body.Message)
	var placed struct {
		Total decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &placed))
	assert.True(t, decimal.RequireFromString("315.50").Equal(placed.Total))

	code, body = cl.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Empty(t, view.Lines)

	code, _ = cl.do(http.MethodPost, "/api/v1/orders", gin.H{"name": "Olena", "phone": "123", "address": "Kyiv"})
	assert.Equal(t, http.StatusConflict, code, "new cart is empty")
}

func TestRouter_CartInputErrors(t *testing.T) {
	env := newTestEnv(t)
	cl := env.client(t)

	cases := []struct {
		name   string
		body   interface{}
		status int
	}{
		{"zero quantity", gin.H{"dish_id": env.cat.Borscht.ID, "quantity": 0}, http.StatusBadRequest},
		{"non numeric quantity", gin.H{"dish_id": env.cat.Borscht.ID, "quantity": "two"}, http.StatusBadRequest},
		{"missing dish", gin.H{"quantity": 1}, http.StatusBadRequest},
		{"unavailable dish", gin.H{"dish_id": env.cat.Hidden.ID}, http.StatusNotFound},
	}
	for _, tc := range cases {
		code, _ := cl.do(http.MethodPost, "/api/v1/cart/items", tc.body)
		assert.Equal(t, tc.status, code, tc.name)
	}

	code, _ := cl.do(http.MethodPatch, "/api/v1/cart/items/abc", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = cl.do(http.MethodDelete, "/api/v1/cart/items/999", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_StaffStatusLifecycle(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.CreateUser(t, env.store.DB(), "buyer")
	buyer := env.userClient(t, u.ID, "")
	staff := env.userClient(t, 999, middleware.RoleStaff)

	code, _ := buyer.do(http.MethodPost, "/api/v1/cart/items", gin.H{"dish_id": env.cat.Borscht.ID})
	require.Equal(t, http.StatusOK, code)
	code, body := buyer.do(http.MethodPost, "/api/v1/orders", gin.H{"name": "B", "phone": "1", "address": "Odesa", "payment_method": "online"})
	require.Equal(t, http.StatusCreated, code, body.Message)
	var placed struct {
		Order struct {
			ID uint `json:"id"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &placed))
	orderPath := fmt.Sprintf("/api/v1/staff/orders/%d/status", placed.Order.ID)

	code, _ = buyer.do(http.MethodPatch, orderPath, gin.H{"status": "in_progress"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = staff.do(http.MethodPatch, orderPath, gin.H{"status": "delivering"})
	assert.Equal(t, http.StatusConflict, code)
	code, _ = staff.do(http.MethodPatch, orderPath, gin.H{"status": "in_progress"})
	assert.Equal(t, http.StatusOK, code)
	code, _ = staff.do(http.MethodPatch, orderPath, gin.H{"status": "eaten"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = buyer.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", placed.Order.ID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body.Data), `"status":"in_progress"`)

	other := env.userClient(t, u.ID+100, "")
	code, _ = other.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", placed.Order.ID), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = buyer.do(http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body.Data), fmt.Sprintf(`"id":%d`, placed.Order.ID))
}

func TestRouter_ReviewModeration(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.CreateUser(t, env.store.DB(), "critic")
	critic := env.userClient(t, u.ID, "")
	staff := env.userClient(t, 999, middleware.RoleStaff)

	code, _ := env.client(t).do(http.MethodPost, "/api/v1/reviews", gin.H{"dish_id": env.cat.Borscht.ID, "rating": 5})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = critic.do(http.MethodPost, "/api/v1/reviews", gin.H{"dish_id": env.cat.Borscht.ID, "rating": 6})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := critic.do(http.MethodPost, "/api/v1/reviews", gin.H{"dish_id": env.cat.Borscht.ID, "text": "tasty"})
	require.Equal(t, http.StatusCreated, code, body.Message)
	var review struct {
		ID     uint `json:"id"`
		Rating int  `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &review))
	assert.Equal(t, 5, review.Rating)

	code, body = env.client(t).do(http.MethodGet, "/api/v1/dishes/borscht", nil)
	require.Equal(t, http.StatusOK, code)
	var detail service.DishDetail
	require.NoError(t, json.Unmarshal(body.Data, &detail))
	assert.Empty(t, detail.Reviews)

	code, _ = staff.do(http.MethodPost, fmt.Sprintf("/api/v1/staff/reviews/%d/approve", review.ID), nil)
	require.Equal(t, http.StatusOK, code)

	code, body = env.client(t).do(http.MethodGet, "/api/v1/dishes/borscht", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body.Data, &detail))
	assert.Len(t, detail.Reviews, 1)

	code, _ = staff.do(http.MethodDelete, "/api/v1/staff/reviews/4242", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_TokenForNewUser(t *testing.T) {
	env := newTestEnv(t)
	fresh := env.userClient(t, 4242, "")

	code, body := fresh.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, code, body.Message)
	code, body = fresh.do(http.MethodPost, "/api/v1/cart/items", gin.H{"dish_id": env.cat.Borscht.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, code, body.Message)

	code, body = fresh.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, code)
	var view service.CartView
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Len(t, view.Lines, 1)

	code, body = fresh.do(http.MethodPost, "/api/v1/reviews", gin.H{"dish_id": env.cat.Varenyky.ID, "rating": 4})
	assert.Equal(t, http.StatusCreated, code, body.Message)

	code, body = fresh.do(http.MethodPost, "/api/v1/orders", gin.H{"name": "N", "phone": "5", "address": "Lviv"})
	assert.Equal(t, http.StatusCreated, code, body.Message)
}

func TestRouter_StaffCatalogMaintenance(t *testing.T) {
	env := newTestEnv(t)
	staff := env.userClient(t, 1, middleware.RoleStaff)

	code, _ := staff.do(http.MethodPatch, fmt.Sprintf("/api/v1/staff/dishes/%d", env.cat.Borscht.ID), gin.H{"price": "130.00"})
	require.Equal(t, http.StatusOK, code)
	code, _ = staff.do(http.MethodPatch, fmt.Sprintf("/api/v1/staff/dishes/%d", env.cat.Borscht.ID), gin.H{"price": "-5"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := staff.do(http.MethodPost, "/api/v1/staff/menu/import", gin.H{"categories": []gin.H{{
		"name": "Drinks", "slug": "drinks",
		"dishes": []gin.H{{"name": "Uzvar", "slug": "uzvar", "price": "30.00"}},
	}}})
	require.Equal(t, http.StatusOK, code, body.Message)
	assert.JSONEq(t, `{"dishes":1}`, string(body.Data))

	code, body = env.client(t).do(http.MethodGet, "/api/v1/dishes/borscht", nil)
	require.Equal(t, http.StatusOK, code)
	var detail service.DishDetail
	require.NoError(t, json.Unmarshal(body.Data, &detail))
	assert.True(t, decimal.RequireFromString("130").Equal(detail.Dish.Price))

	code, _ = staff.do(http.MethodDelete, fmt.Sprintf("/api/v1/staff/dishes/%d", env.cat.Hidden.ID), nil)
	assert.Equal(t, http.StatusOK, code)
}
