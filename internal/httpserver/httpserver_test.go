package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/acme_store/internal/db"
	"github.com/Skotchmaster/acme_store/internal/logging"
	"github.com/Skotchmaster/acme_store/internal/middleware/auth"
	"github.com/Skotchmaster/acme_store/internal/models"
	"github.com/Skotchmaster/acme_store/internal/repo"
	"github.com/Skotchmaster/acme_store/internal/seed"
	"github.com/Skotchmaster/acme_store/internal/service"
)

type published struct {
	topic, key string
	event      any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (r *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{topic, key, event})
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.topic)
	}
	return out
}

type testServer struct {
	e   *echo.Echo
	pub *recordingPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	identity := &service.IdentityService{Repo: r, Secret: []byte("test-secret"), TokenTTL: time.Hour}
	catalog := &service.CatalogService{Repo: r}
	ledger := &service.CartLedger{Repo: r}
	require.NoError(t, seed.Run(ctx, identity, catalog, ledger))

	pub := &recordingPublisher{}
	e := New(logging.NewWithWriter(io.Discard, "error"), 5*time.Second)
	Register(e, &Deps{
		DB:             gdb,
		Gate:           auth.NewGate(identity),
		AuthHandler:    &AuthHTTP{Svc: identity, Producer: pub},
		CatalogHandler: &CatalogHTTP{Svc: catalog},
		CartHandler:    &CartHTTP{Svc: ledger, Producer: pub},
	})
	return &testServer{e: e, pub: pub}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

type loginResponse struct {
	Token string           `json:"token"`
	User  models.Principal `json:"user"`
	Cart  models.Cart      `json:"cart"`
}

func (s *testServer) login(t *testing.T, username, password string) loginResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s *testServer) productID(t *testing.T, name string) string {
	t.Helper()
	rec := s.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	for _, p := range products {
		if p.Name == name {
			return p.ID.String()
		}
	}
	t.Fatalf("product %s not found", name)
	return ""
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func TestMoeScenario(t *testing.T) {
	s := newTestServer(t)
	moe := s.login(t, "moe", "m_pw")
	assert.Equal(t, moe.User.ID, moe.Cart.ID)
	base := "/api/carts/" + moe.Cart.ID.String()

	// seeded cart holds one tshirt; start from an empty cart
	rec := s.do(t, http.MethodPost, base+"/checkout", moe.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	tshirt := s.productID(t, "tshirt")
	rec = s.do(t, http.MethodPost, base+"/cart_products", moe.Token, map[string]any{"product_id": tshirt, "quantity": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.CartProduct](t, rec)
	assert.Equal(t, 2, created.Quantity)

	rec = s.do(t, http.MethodGet, base+"/cart_products", moe.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]models.CartProduct](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	rec = s.do(t, http.MethodPut, base+"/cart_products/"+tshirt, moe.Token, map[string]any{"quantity": 5})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, base+"/cart_products", moe.Token, nil)
	items = decode[[]models.CartProduct](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)

	rec = s.do(t, http.MethodPost, base+"/checkout", moe.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[map[string]any](t, rec)
	assert.Equal(t, "Checkout successful!", out["message"])

	rec = s.do(t, http.MethodGet, base+"/cart_products", moe.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	assert.Contains(t, s.pub.topics(), "cart_events")
}

func TestLucyCannotTouchMoesCart(t *testing.T) {
	s := newTestServer(t)
	moe := s.login(t, "moe", "m_pw")
	lucy := s.login(t, "lucy", "l_pw")
	base := "/api/carts/" + moe.Cart.ID.String()
	hat := s.productID(t, "hat")

	requests := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, base + "/cart_products", nil},
		{http.MethodPost, base + "/cart_products", map[string]any{"product_id": hat}},
		{http.MethodPut, base + "/cart_products/" + hat, map[string]any{"quantity": 3}},
		{http.MethodDelete, base + "/cart_products/" + uuid.NewString(), nil},
		{http.MethodPost, base + "/checkout", nil},
	}
	for _, r := range requests {
		rec := s.do(t, r.method, r.path, lucy.Token, r.body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", r.method, r.path)
		assert.Equal(t, "not authorized", errorOf(t, rec))
	}

	rec := s.do(t, http.MethodGet, base+"/cart_products", moe.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.CartProduct](t, rec), 1, "moe's seeded tshirt is untouched")
}

func TestCartRequiresToken(t *testing.T) {
	s := newTestServer(t)
	moe := s.login(t, "moe", "m_pw")

	rec := s.do(t, http.MethodGet, "/api/carts/"+moe.Cart.ID.String()+"/cart_products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/carts/"+moe.Cart.ID.String()+"/cart_products", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRawAuthorizationHeader(t *testing.T) {
	s := newTestServer(t)
	moe := s.login(t, "moe", "m_pw")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, moe.Token)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "moe", decode[models.Principal](t, rec).Username)
}

func TestCartErrors(t *testing.T) {
	s := newTestServer(t)
	moe := s.login(t, "moe", "m_pw")
	base := "/api/carts/" + moe.Cart.ID.String()
	tshirt := s.productID(t, "tshirt")
	socks := s.productID(t, "socks")

	rec := s.do(t, http.MethodPost, base+"/cart_products", moe.Token, map[string]any{"product_id": tshirt})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/cart_products", moe.Token, map[string]any{"product_id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/cart_products", moe.Token, map[string]any{"product_id": "42"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/cart_products", moe.Token, map[string]any{"product_id": socks, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, base+"/cart_products/"+socks, moe.Token, map[string]any{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, base+"/cart_products/"+tshirt, moe.Token, map[string]any{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, base+"/cart_products/"+tshirt, moe.Token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveLineItem(t *testing.T) {
	s := newTestServer(t)
	moe := s.login(t, "moe", "m_pw")
	base := "/api/carts/" + moe.Cart.ID.String()

	rec := s.do(t, http.MethodGet, base+"/cart_products", moe.Token, nil)
	items := decode[[]models.CartProduct](t, rec)
	require.Len(t, items, 1)

	path := base + "/cart_products/" + items[0].ID.String()
	rec = s.do(t, http.MethodDelete, path, moe.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, path, moe.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, base+"/cart_products", moe.Token, nil)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "curly", "password": "c_pw"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[map[string]string](t, rec)
	assert.Equal(t, "curly", reg["username"])
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Contains(t, s.pub.topics(), "user_events")

	rec = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "curly", "password": "x"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	curly := s.login(t, "curly", "c_pw")
	assert.Equal(t, reg["id"], curly.Cart.ID.String())

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "curly", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, errorOf(t, rec))
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]map[string]any](t, rec)
	assert.Len(t, users, 4)
	for _, u := range users {
		assert.NotContains(t, u, "password")
	}

	rec = s.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Product](t, rec), 5)

	id := s.productID(t, "jacket")
	rec = s.do(t, http.MethodGet, "/api/products/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jacket", decode[models.Product](t, rec).Name)

	rec = s.do(t, http.MethodGet, "/api/products/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/products/nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/products/search?q=hat", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = s.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
