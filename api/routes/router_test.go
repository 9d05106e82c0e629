package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authsvc "github.com/acuellar/tiendita-backend/internal/auth"
	"github.com/acuellar/tiendita-backend/internal/catalog"
	"github.com/acuellar/tiendita-backend/internal/dashboard"
	ordersvc "github.com/acuellar/tiendita-backend/internal/orders"
	"github.com/acuellar/tiendita-backend/internal/users"
	pkgauth "github.com/acuellar/tiendita-backend/pkg/auth"
	"github.com/acuellar/tiendita-backend/pkg/config"
	"github.com/acuellar/tiendita-backend/pkg/logger"
	"github.com/acuellar/tiendita-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubCatalog struct{}

func (stubCatalog) ListProducts(ctx context.Context, categoryID *int64) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{{ID: 1, Name: "mate gourd"}}, nil
}

func (stubCatalog) GetProduct(ctx context.Context, id int64) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: id, Name: "mate gourd"}, nil
}

func (stubCatalog) SearchProducts(ctx context.Context, term string) ([]catalog.ProductDTO, error) {
	return nil, nil
}

func (stubCatalog) ListCategories(ctx context.Context) ([]catalog.CategoryDTO, error) {
	return nil, nil
}

func (stubCatalog) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCatalog) UpdateProduct(ctx context.Context, id int64, input catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCatalog) DeleteProduct(ctx context.Context, id int64) error {
	return fmt.Errorf("not implemented")
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest, meta authsvc.RequestMeta) (*authsvc.AuthResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest, meta authsvc.RequestMeta) (*authsvc.AuthResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Profile(ctx context.Context, userID int64) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID, Email: "jane@example.com"}, nil
}

func (stubAuthService) ListUsers(ctx context.Context) ([]users.UserDTO, error) {
	return nil, nil
}

func (stubAuthService) SetRole(ctx context.Context, actorID, targetID int64, isAdmin bool) (*users.UserDTO, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubOrders struct{}

func (stubOrders) ListOrders(ctx context.Context, params pagination.Params) (*ordersvc.OrderPage, error) {
	return &ordersvc.OrderPage{}, nil
}

func (stubOrders) GetOrder(ctx context.Context, id int64) (*ordersvc.OrderDTO, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubOrders) UpdateStatus(ctx context.Context, id int64, status string) (*ordersvc.OrderDTO, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubDashboard struct{}

func (stubDashboard) Counts(ctx context.Context) (*dashboard.Counts, error) {
	return &dashboard.Counts{Products: 3, Users: 1, Orders: 2}, nil
}

type stubAdminDirectory map[int64]bool

func (s stubAdminDirectory) IsAdmin(_ context.Context, userID int64) (bool, error) {
	return s[userID], nil
}

func testRouterConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "router-test-secret", Issuer: "tiendita-test", ExpirationMinutes: 30},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(RouterParams{
		Config:      testRouterConfig(),
		Logger:      logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard}),
		DBPinger:    stubPinger{},
		Admins:      stubAdminDirectory{7: true},
		AuthService: stubAuthService{},
		Catalog:     stubCatalog{},
		Orders:      stubOrders{},
		Dashboard:   stubDashboard{},
	})
}

func mintToken(t *testing.T, isAdmin bool) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testRouterConfig().JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{UserID: 7, IsAdmin: isAdmin})
	require.NoError(t, err)
	return token
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Tiendita-Env"))
}

func TestRouterProductsArePublic(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Data []catalog.ProductDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "mate gourd", payload.Data[0].Name)
}

func TestRouterProfileRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, false))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterAdminGate(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/dashboard", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, false))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, true))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Data dashboard.Counts `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, int64(3), payload.Data.Products)
}

func TestRouterMalformedTokenRejected(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
