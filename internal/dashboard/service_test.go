package dashboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/acuellar/tiendita-backend/internal/catalog"
	"github.com/acuellar/tiendita-backend/internal/orders"
	"github.com/acuellar/tiendita-backend/internal/users"
	"github.com/acuellar/tiendita-backend/pkg/db/models"
	"github.com/acuellar/tiendita-backend/pkg/enums"
)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:dashboard_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  category_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  country TEXT NOT NULL,
  is_admin INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER,
  email TEXT,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL,
  address TEXT NOT NULL,
  phone_number TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func TestDashboardCounts(t *testing.T) {
	conn := setupDashboardTestDB(t)

	svc, err := NewService(ServiceParams{
		Catalog: catalog.NewRepository(conn),
		Users:   users.NewRepository(conn),
		Orders:  orders.NewRepository(conn),
	})
	require.NoError(t, err)

	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.Products)
	assert.Equal(t, int64(0), counts.Users)
	assert.Equal(t, int64(0), counts.Orders)

	cat := models.Category{Name: "snacks"}
	require.NoError(t, conn.Create(&cat).Error)
	for i := 0; i < 3; i++ {
		product := models.Product{
			CategoryID: cat.ID,
			Name:       fmt.Sprintf("product-%d", i),
			Price:      decimal.NewFromInt(int64(i + 1)),
			Stock:      10,
		}
		require.NoError(t, conn.Create(&product).Error)
	}
	user := models.User{Email: "jane@example.com", PasswordHash: "x", FirstName: "Jane", LastName: "Shopper", Country: "DE"}
	require.NoError(t, conn.Create(&user).Error)
	order := models.Order{
		UserID:      &user.ID,
		TotalAmount: decimal.NewFromInt(9),
		Status:      enums.OrderStatusPending,
		Address:     "Calle Falsa 123",
	}
	require.NoError(t, conn.Create(&order).Error)

	counts, err = svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Products)
	assert.Equal(t, int64(1), counts.Users)
	assert.Equal(t, int64(1), counts.Orders)
}
