package auth

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/acuellar/tiendita-backend/internal/users"
	pkgauth "github.com/acuellar/tiendita-backend/pkg/auth"
	"github.com/acuellar/tiendita-backend/pkg/config"
	"github.com/acuellar/tiendita-backend/pkg/db"
	"github.com/acuellar/tiendita-backend/pkg/db/models"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/logger"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	usersDDL := `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  country TEXT NOT NULL,
  is_admin INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	logsDDL := `
CREATE TABLE IF NOT EXISTS user_logs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  ip_address TEXT NOT NULL,
  browser TEXT NOT NULL,
  country TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(usersDDL).Error)
	require.NoError(t, conn.Exec(logsDDL).Error)
	return conn
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "tiendita-test",
		ExpirationMinutes: 60,
	}
}

func newAuthFixture(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupAuthTestDB(t)
	svc, err := NewService(ServiceParams{
		DB:          db.NewFromConn(conn),
		Users:       users.NewRepository(conn),
		JWTConfig:   testJWTConfig(),
		PasswordCfg: config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
		Logger:      logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc, conn
}

func registerReq(email string) RegisterRequest {
	return RegisterRequest{
		Email:     email,
		Password:  "correct horse",
		FirstName: "Jane",
		LastName:  "Shopper",
		Country:   "DE",
	}
}

func testMeta() RequestMeta {
	return RequestMeta{IPAddress: "203.0.113.9", Browser: "firefox", Country: "DE"}
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), registerReq("jane@example.com"), testMeta())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.False(t, resp.User.IsAdmin)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	req := registerReq("jane@example.com")
	req.Password = "1234567"
	_, err := svc.Register(context.Background(), req, testMeta())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("jane@example.com"), testMeta())
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("jane@example.com"), testMeta())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestRegisterWritesUserLog(t *testing.T) {
	svc, conn := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), registerReq("jane@example.com"), testMeta())
	require.NoError(t, err)

	var logs []models.UserLog
	require.NoError(t, conn.Where("user_id = ?", resp.User.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "203.0.113.9", logs[0].IPAddress)
	assert.Equal(t, "firefox", logs[0].Browser)
}

func TestLoginSuccessAndFailure(t *testing.T) {
	svc, conn := newAuthFixture(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq("jane@example.com"), testMeta())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "correct horse"}, testMeta())
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)

	// each register/login appends an activity row
	var count int64
	require.NoError(t, conn.Model(&models.UserLog{}).Where("user_id = ?", resp.User.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	_, err = svc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "wrong"}, testMeta())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever"}, testMeta())
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestSetRoleRejectsSelfChange(t *testing.T) {
	svc, conn := newAuthFixture(t)
	ctx := context.Background()

	admin, err := svc.Register(ctx, registerReq("admin@example.com"), testMeta())
	require.NoError(t, err)
	require.NoError(t, conn.Model(&models.User{}).Where("id = ?", admin.User.ID).Update("is_admin", true).Error)

	_, err = svc.SetRole(ctx, admin.User.ID, admin.User.ID, false)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestSetRolePromotesAndDemotes(t *testing.T) {
	svc, conn := newAuthFixture(t)
	ctx := context.Background()

	admin, err := svc.Register(ctx, registerReq("admin@example.com"), testMeta())
	require.NoError(t, err)
	require.NoError(t, conn.Model(&models.User{}).Where("id = ?", admin.User.ID).Update("is_admin", true).Error)

	shopper, err := svc.Register(ctx, registerReq("shopper@example.com"), testMeta())
	require.NoError(t, err)

	promoted, err := svc.SetRole(ctx, admin.User.ID, shopper.User.ID, true)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	demoted, err := svc.SetRole(ctx, admin.User.ID, shopper.User.ID, false)
	require.NoError(t, err)
	assert.False(t, demoted.IsAdmin)

	_, err = svc.SetRole(ctx, admin.User.ID, 9999, true)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestProfile(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq("jane@example.com"), testMeta())
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", profile.Email)

	_, err = svc.Profile(ctx, 4242)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
