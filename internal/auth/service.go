package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/acuellar/tiendita-backend/internal/users"
	pkgauth "github.com/acuellar/tiendita-backend/pkg/auth"
	"github.com/acuellar/tiendita-backend/pkg/config"
	"github.com/acuellar/tiendita-backend/pkg/db"
	"github.com/acuellar/tiendita-backend/pkg/db/models"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/logger"
	"github.com/acuellar/tiendita-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	// MinPasswordLength is the shortest accepted account password.
	MinPasswordLength = 8
)

// Service defines account operations for shoppers and administrators.
type Service interface {
	Register(ctx context.Context, req RegisterRequest, meta RequestMeta) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest, meta RequestMeta) (*AuthResponse, error)
	Profile(ctx context.Context, userID int64) (*users.UserDTO, error)
	ListUsers(ctx context.Context) ([]users.UserDTO, error)
	SetRole(ctx context.Context, actorID, targetID int64, isAdmin bool) (*users.UserDTO, error)
}

// ServiceParams bundles the dependencies for the accounts service.
type ServiceParams struct {
	DB          *db.Client
	Users       *users.Repository
	JWTConfig   config.JWTConfig
	PasswordCfg config.PasswordConfig
	Logger      *logger.Logger
}

type service struct {
	db          *db.Client
	users       *users.Repository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService constructs the accounts service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		db:          params.DB,
		users:       params.Users,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordCfg,
		logg:        params.Logger,
	}, nil
}

// Register creates the account, records the signup in user_logs, and
// returns a fresh access token.
func (s *service) Register(ctx context.Context, req RegisterRequest, meta RequestMeta) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(req.Password) < MinPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Country:      strings.TrimSpace(req.Country),
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user")
	}

	s.recordActivity(ctx, user.ID, meta)
	return s.issueToken(user)
}

// Login verifies credentials, records the login in user_logs, and
// returns a fresh access token.
func (s *service) Login(ctx context.Context, req LoginRequest, meta RequestMeta) (*AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	s.recordActivity(ctx, user.ID, meta)
	return s.issueToken(user)
}

// Profile returns the account behind the token.
func (s *service) Profile(ctx context.Context, userID int64) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find user")
	}
	return users.ToDTO(user), nil
}

// ListUsers returns all accounts for the back office.
func (s *service) ListUsers(ctx context.Context) ([]users.UserDTO, error) {
	rows, err := s.users.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list users")
	}
	dtos := make([]users.UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *users.ToDTO(&rows[i]))
	}
	return dtos, nil
}

// SetRole toggles the admin flag on the target user. Admins cannot
// change their own role, so a shop always keeps at least the acting
// administrator.
func (s *service) SetRole(ctx context.Context, actorID, targetID int64, isAdmin bool) (*users.UserDTO, error) {
	if actorID == targetID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "administrators cannot change their own role")
	}

	if err := s.users.SetAdmin(ctx, targetID, isAdmin); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update role")
	}

	user, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find user")
	}
	return users.ToDTO(user), nil
}

// recordActivity appends the user_logs row. Failures are logged and
// swallowed; an audit miss must not block a login.
func (s *service) recordActivity(ctx context.Context, userID int64, meta RequestMeta) {
	log := &models.UserLog{
		UserID:    userID,
		IPAddress: meta.IPAddress,
		Browser:   meta.Browser,
		Country:   meta.Country,
	}
	if err := s.users.CreateLog(ctx, log); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("record user activity: %v", err))
	}
}

func (s *service) issueToken(user *models.User) (*AuthResponse, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &AuthResponse{AccessToken: token, User: *users.ToDTO(user)}, nil
}
